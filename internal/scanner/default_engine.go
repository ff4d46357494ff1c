//go:build !wasm

package scanner

// NewDefaultEngine returns the fastest backend available on this build:
// Hyperscan, falling back to stdlib regexp for any pattern Hyperscan can't
// compile.
func NewDefaultEngine() Engine {
	return &FallbackEngine{Primary: NewHyperscanEngine(), Fallback: NewStdlibEngine()}
}
