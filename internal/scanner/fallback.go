package scanner

// FallbackEngine tries a preferred backend first and falls back to a second
// Engine when the preferred one fails to compile a given pattern — the
// "stdlib regexp is the fallback when Hyperscan compilation fails" behavior
// documented on StdlibEngine. Hyperscan rejects constructs it can't express
// as a DFA/NFA (some backreference-free-but-still-unsupported regex
// extensions); rather than surface that as a hard error, ucg silently drops
// to the slower but always-correct backend, matching the original tool's
// "always use the fastest available backend silently" behavior.
type FallbackEngine struct {
	Primary  Engine
	Fallback Engine
}

func (e *FallbackEngine) Compile(pattern string, flags Flags) (Regex, error) {
	re, err := e.Primary.Compile(pattern, flags)
	if err == nil {
		return re, nil
	}
	return e.Fallback.Compile(pattern, flags)
}
