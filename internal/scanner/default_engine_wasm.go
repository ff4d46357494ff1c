//go:build wasm

package scanner

// NewDefaultEngine returns the fastest backend available on this build:
// regexp2 in RE2 mode (Hyperscan needs cgo, unavailable under GOOS=js/wasm),
// falling back to stdlib regexp for any pattern regexp2 can't compile.
func NewDefaultEngine() Engine {
	return &FallbackEngine{Primary: NewRegexp2Engine(), Fallback: NewStdlibEngine()}
}
