//go:build !anymap_checks

package assert

// Enabled reports whether this is a validating build.
const Enabled = false

// That is a no-op unless the anymap_checks build tag is set.
func That(bool, string, ...any) {}
