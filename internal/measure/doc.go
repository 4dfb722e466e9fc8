// Package measure samples wall-clock time and heap usage around a run.
//
// Memory figures are advisory: they depend on allocator and collector
// behavior and may be zero or negative. Callers must report them, never
// assert on them.
package measure
