//go:build wasm

package scanner

import (
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Regexp2Engine is the portable fallback backend used on wasm builds, where
// Hyperscan's cgo dependency is unavailable. regexp2 works on Go strings
// rather than byte slices, so Find pays one allocation per call converting
// the remaining buffer; RE2 mode is preferred to avoid catastrophic
// backtracking, with a bounded match timeout as a second line of defense.
type Regexp2Engine struct{}

// NewRegexp2Engine constructs the wasm-compatible Engine backend.
func NewRegexp2Engine() *Regexp2Engine { return &Regexp2Engine{} }

func (Regexp2Engine) Compile(pattern string, flags Flags) (Regex, error) {
	pattern = wrapWholeWord(pattern, flags.WholeWord)
	opts := regexp2.RE2
	if flags.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		// Some constructs RE2 mode rejects (e.g. backreferences) still
		// compile in default Perl-compatible mode.
		re, err = regexp2.Compile(pattern, opts&^regexp2.RE2)
		if err != nil {
			return nil, err
		}
	}
	re.MatchTimeout = 5 * time.Second
	return &regexp2Regex{re: re}, nil
}

type regexp2Regex struct {
	re *regexp2.Regexp
}

func (r *regexp2Regex) Find(buf []byte, start int) (m0, m1 int, ok bool) {
	if start > len(buf) {
		return 0, 0, false
	}
	s := string(buf[start:])
	m, err := r.re.FindStringMatch(s)
	if err != nil || m == nil {
		return 0, 0, false
	}
	// m.Index and m.Length count runes; convert them to byte offsets in s.
	b0 := 0
	for i := 0; i < m.Index; i++ {
		_, size := utf8.DecodeRuneInString(s[b0:])
		b0 += size
	}
	b1 := b0
	for i := 0; i < m.Length; i++ {
		_, size := utf8.DecodeRuneInString(s[b1:])
		b1 += size
	}
	return start + b0, start + b1, true
}

func (r *regexp2Regex) Release() {}
