package scanner

import "regexp"

// StdlibEngine is the portable, always-available Engine backend built on the
// standard library's RE2-derived regexp package. It is the default when no
// faster backend is selected and the fallback when Hyperscan compilation
// fails (e.g. a construct Hyperscan can't represent).
type StdlibEngine struct{}

// NewStdlibEngine constructs the stdlib-regexp Engine.
func NewStdlibEngine() *StdlibEngine { return &StdlibEngine{} }

func (StdlibEngine) Compile(pattern string, flags Flags) (Regex, error) {
	pattern = wrapWholeWord(pattern, flags.WholeWord)
	if flags.IgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &stdlibRegex{re: re}, nil
}

type stdlibRegex struct {
	re *regexp.Regexp
}

func (r *stdlibRegex) Find(buf []byte, start int) (m0, m1 int, ok bool) {
	if start > len(buf) {
		return 0, 0, false
	}
	loc := r.re.FindIndex(buf[start:])
	if loc == nil {
		return 0, 0, false
	}
	return start + loc[0], start + loc[1], true
}

func (r *stdlibRegex) Release() {}
