package ir

import (
	"slices"
	"unicode/utf16"
)

// IRValue is a sealed interface representing constrained value types.
// Only IRString, IRInt, IRBool, IRArray, and IRObject implement this.
// There is no float variant: digests must be reproducible bit for bit.
type IRValue interface {
	irValue()
}

// IRString represents a string value in the IR.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value in the IR.
type IRInt int64

func (IRInt) irValue() {}

// IRBool represents a boolean value in the IR.
type IRBool bool

func (IRBool) irValue() {}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 order, which differs for astral characters.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// countsValue converts Counts to its IR form.
func countsValue(c Counts) IRObject {
	return IRObject{
		"assignments": IRInt(c.Assignments),
		"evaluations": IRInt(c.Evaluations),
	}
}

// finalsValue converts final values to an ordered IR array.
// Order is significant: programs report finals in declaration order.
func finalsValue(finals []FinalValue) IRArray {
	arr := make(IRArray, len(finals))
	for i, f := range finals {
		arr[i] = IRObject{
			"name":  IRString(f.Name),
			"value": IRString(f.Value),
		}
	}
	return arr
}

// lineValue converts a trace line to its IR form.
func lineValue(l TraceLine) IRObject {
	return IRObject{
		"seq":   IRInt(l.Seq),
		"phase": IRString(string(l.Phase)),
		"text":  IRString(l.Text),
	}
}
