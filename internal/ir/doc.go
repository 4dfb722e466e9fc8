// Package ir provides the canonical result types for revbench runs.
//
// This package contains type definitions and canonical encoding only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types in anything that feeds a digest. Elapsed time and
//     memory delta are carried on RunResult but excluded from RunDigest.
//   - Arbitrary-precision values (Fibonacci terms) are carried as decimal
//     strings, never as int64.
//   - All JSON tags use snake_case.
//   - Trace lines are ordered by a logical seq, never by wall-clock time.
package ir
