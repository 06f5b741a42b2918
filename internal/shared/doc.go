// Package shared holds helpers used by several internal packages.
//
// The testutil subpackage provides a buffered slog handler for log
// assertions and fixture builders for rental records and dataset files.
package shared
