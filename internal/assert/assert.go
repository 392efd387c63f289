//go:build anymap_checks

package assert

import "fmt"

// Enabled reports whether this is a validating build.
const Enabled = true

// That panics with a formatted message if cond does not hold.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
