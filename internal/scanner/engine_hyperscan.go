//go:build !wasm

package scanner

import (
	"errors"

	"github.com/flier/gohs/hyperscan"
)

// HyperscanEngine is the preferred Engine backend: a JIT-compiled,
// first-byte/byte-class-prefiltered matcher. Grounded on the two-stage
// Hyperscan pipeline of praetorian-inc/titus's pkg/matcher/hyperscan.go,
// simplified to single-pattern block scanning (ucg has exactly one active
// pattern per run, not a rule set) with SomLeftMost enabled so match start
// offsets are exact without a second extraction pass.
type HyperscanEngine struct{}

// NewHyperscanEngine constructs the Hyperscan-backed Engine.
func NewHyperscanEngine() *HyperscanEngine { return &HyperscanEngine{} }

func (HyperscanEngine) Compile(pattern string, flags Flags) (Regex, error) {
	pattern = wrapWholeWord(pattern, flags.WholeWord)

	hsFlags := hyperscan.SomLeftMost
	if flags.IgnoreCase {
		hsFlags |= hyperscan.Caseless
	}

	db, err := hyperscan.NewBlockDatabase(hyperscan.NewPattern(pattern, hsFlags))
	if err != nil {
		return nil, err
	}
	scratch, err := hyperscan.NewScratch(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &hyperscanRegex{db: db, scratch: scratch}, nil
}

var errStopAtFirstMatch = errors.New("scanner: stop at first match")

type hyperscanRegex struct {
	db      hyperscan.BlockDatabase
	scratch *hyperscan.Scratch
}

// Find scans buf[start:] and reports the earliest match. Hyperscan's
// callback-driven API doesn't expose an incremental "resume from offset"
// cursor, so each call rescans the remaining suffix; the scan loop in
// scanner.go only ever moves start forward, so work is still O(N) amortized
// over one file.
func (r *hyperscanRegex) Find(buf []byte, start int) (m0, m1 int, ok bool) {
	if start > len(buf) {
		return 0, 0, false
	}
	suffix := buf[start:]

	var foundFrom, foundTo uint64
	found := false

	onMatch := func(id uint, from, to uint64, flags uint, context interface{}) error {
		foundFrom, foundTo = from, to
		found = true
		return errStopAtFirstMatch
	}

	err := r.db.Scan(suffix, r.scratch, onMatch, nil)
	if err != nil && !errors.Is(err, errStopAtFirstMatch) && !found {
		return 0, 0, false
	}
	if !found {
		return 0, 0, false
	}
	return start + int(foundFrom), start + int(foundTo), true
}

func (r *hyperscanRegex) Release() {
	if r.scratch != nil {
		r.scratch.Free()
	}
	if r.db != nil {
		r.db.Close()
	}
}
