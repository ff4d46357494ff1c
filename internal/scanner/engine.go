// Package scanner implements the Scanner stage of the search pipeline: a
// pool of workers that read each admitted file, run a regex engine over its
// bytes, and push a non-empty MatchGroup per file to the match queue.
package scanner

// Flags configures how a pattern is compiled, independent of which Engine
// backend performs the match.
type Flags struct {
	IgnoreCase bool
	WholeWord  bool
	Literal    bool
}

// Regex is a compiled pattern bound to one Engine. Find must be safe to call
// repeatedly against the same buffer with increasing start offsets, as the
// Scanner's scan loop does; it must not retain buf past the call.
type Regex interface {
	// Find looks for the next match in buf at or after start, returning the
	// half-open byte range [m0, m1). ok is false if there is no further
	// match. Implementations may return a zero-length match (m0 == m1).
	Find(buf []byte, start int) (m0, m1 int, ok bool)

	// Release frees any engine-side resources (scratch space, compiled
	// database handles) associated with this Regex. Safe to call more than
	// once.
	Release()
}

// Engine compiles patterns into Regex values. Exactly one Engine is
// constructed per Scanner pool and shared read-only across workers; Compile
// is expected to be called once at startup, not per file.
type Engine interface {
	Compile(pattern string, flags Flags) (Regex, error)
}

// wrapWholeWord brackets pattern with ASCII word-boundary assertions when
// flags.WholeWord is set. Shared by the stdlib, regexp2 and Hyperscan
// backends; the literal engine checks word boundaries itself instead.
func wrapWholeWord(pattern string, whole bool) string {
	if !whole {
		return pattern
	}
	return `\b(?:` + pattern + `)\b`
}
