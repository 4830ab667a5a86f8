//go:build !release

// Package assert holds the debug-build contract checks used on hot paths.
// Building with -tags release compiles them away.
package assert

import "fmt"

// Enabled reports whether contract checks are compiled in.
const Enabled = true

func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
