package scanner

import (
	"bytes"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// LiteralEngine is the fast path for `-Q/--literal` patterns: no regex
// engine is involved at all. An Aho-Corasick matcher (grounded on
// praetorian-inc/titus's pkg/prefilter, which uses the same library to ask
// "could any keyword be present") answers a whole-buffer presence check in
// one pass; bytes.Index then does the actual position extraction only for
// buffers that passed the presence check, since cloudflare/ahocorasick
// reports which patterns matched, not their offsets.
type LiteralEngine struct{}

// NewLiteralEngine constructs the literal-pattern Engine backend.
func NewLiteralEngine() *LiteralEngine { return &LiteralEngine{} }

func (LiteralEngine) Compile(pattern string, flags Flags) (Regex, error) {
	needle := pattern
	if flags.IgnoreCase {
		needle = strings.ToLower(needle)
	}
	return &literalRegex{
		needle:     []byte(needle),
		ignoreCase: flags.IgnoreCase,
		wholeWord:  flags.WholeWord,
		presence:   ahocorasick.NewStringMatcher([]string{needle}),
	}, nil
}

type literalRegex struct {
	needle     []byte
	ignoreCase bool
	wholeWord  bool
	presence   *ahocorasick.Matcher
}

func (r *literalRegex) Find(buf []byte, start int) (m0, m1 int, ok bool) {
	if start > len(buf) {
		return 0, 0, false
	}
	if len(r.needle) == 0 {
		return 0, 0, false
	}

	haystack := buf[start:]
	if r.ignoreCase {
		haystack = bytes.ToLower(haystack)
	}
	if len(r.presence.Match(haystack)) == 0 {
		return 0, 0, false
	}

	offset := 0
	for {
		idx := bytes.Index(haystack[offset:], r.needle)
		if idx < 0 {
			return 0, 0, false
		}
		abs := offset + idx
		if !r.wholeWord || isWordBoundaryMatch(haystack, abs, abs+len(r.needle)) {
			return start + abs, start + abs + len(r.needle), true
		}
		offset = abs + 1
	}
}

func (r *literalRegex) Release() {}

func isWordBoundaryMatch(buf []byte, m0, m1 int) bool {
	if m0 > 0 && isWordByte(buf[m0-1]) {
		return false
	}
	if m1 < len(buf) && isWordByte(buf[m1]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
