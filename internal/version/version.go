// Package version exposes the build version injected at link time.
package version

// version is overridden by the linker via
// -ldflags "-X github.com/mfinn/llmreview/internal/version.version=...".
var version = "v0.0.0"

// Value returns the build version.
func Value() string {
	return version
}
