// Package types provides shared data-model types used across ucg's search
// pipeline: the walker, scanner, and formatter stages.
package types

import "fmt"

// FileHandle identifies one regular file admitted for scanning.
//
// A FileHandle is produced by the Walker, owned by the file queue until a
// Scanner worker pulls it, and dropped once that worker has read and scanned
// it. Dev/Ino are populated from the same stat the Walker already performed
// to classify the entry, so the Scanner never needs a second stat call.
type FileHandle struct {
	Path string // path as it should be displayed and opened
	Size int64  // file size in bytes, from the Walker's stat
	Dev  uint64
	Ino  uint64
}

// Match is one matched line within one file.
//
// Invariant: Pre+Match+Post reproduces the exact bytes of the file from the
// start of the matched line to the end of that line (terminating newline
// excluded). Column is 1-based and equals len(Pre)+1.
type Match struct {
	Line   int64 // 1-based line number
	Column int   // 1-based column of the first matched byte
	Pre    []byte
	Match  []byte
	Post   []byte
}

// MatchGroup is the ordered sequence of Matches found in one file.
//
// Invariants: non-empty (empty groups are never constructed), sorted by Line,
// strictly increasing (at most one Match per source line).
type MatchGroup struct {
	Path    string
	Matches []Match
}

// Len reports the number of matched lines in the group.
func (g *MatchGroup) Len() int { return len(g.Matches) }

func (f *FileHandle) String() string {
	return fmt.Sprintf("%s (%d bytes)", f.Path, f.Size)
}
