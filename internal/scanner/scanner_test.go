package scanner

import (
	"errors"
	"testing"
	"time"

	"github.com/ivoronin/ucg/internal/queue"
	"github.com/ivoronin/ucg/internal/scantest"
	"github.com/ivoronin/ucg/internal/types"
)

func writeTemp(t *testing.T, contents string) *types.FileHandle {
	t.Helper()
	path := scantest.CreateFile(t, t.TempDir(), "file.txt", contents)
	return &types.FileHandle{Path: path, Size: int64(len(contents))}
}

func TestScanBufferBasicMatch(t *testing.T) {
	re, err := NewStdlibEngine().Compile("needle", Flags{})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("line one\nhas a needle here\nline three\n")
	group := scanBuffer(re, data, "f.txt")
	if group == nil || len(group.Matches) != 1 {
		t.Fatalf("got %+v, want exactly one match", group)
	}
	m := group.Matches[0]
	if m.Line != 2 {
		t.Errorf("line = %d, want 2", m.Line)
	}
	if string(m.Match) != "needle" {
		t.Errorf("match = %q, want needle", m.Match)
	}
	if string(m.Pre)+string(m.Match)+string(m.Post) != "has a needle here" {
		t.Errorf("pre+match+post = %q, want full line", string(m.Pre)+string(m.Match)+string(m.Post))
	}
	if m.Column != len(m.Pre)+1 {
		t.Errorf("column = %d, want %d", m.Column, len(m.Pre)+1)
	}
}

func TestScanBufferAtMostOneMatchPerLine(t *testing.T) {
	re, err := NewStdlibEngine().Compile("a", Flags{})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("a a a\nb\n")
	group := scanBuffer(re, data, "f.txt")
	if group == nil || len(group.Matches) != 1 {
		t.Fatalf("got %+v, want exactly one match (line 1 has three a's)", group)
	}
	if group.Matches[0].Line != 1 {
		t.Errorf("line = %d, want 1", group.Matches[0].Line)
	}
}

func TestScanBufferMultipleLinesIncreasing(t *testing.T) {
	re, err := NewStdlibEngine().Compile("x", Flags{})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("x\ny\nx\nx\n")
	group := scanBuffer(re, data, "f.txt")
	if group == nil || len(group.Matches) != 3 {
		t.Fatalf("got %+v, want 3 matches", group)
	}
	want := []int64{1, 3, 4}
	for i, m := range group.Matches {
		if m.Line != want[i] {
			t.Errorf("match %d: line = %d, want %d", i, m.Line, want[i])
		}
	}
}

func TestScanBufferNoMatchReturnsNil(t *testing.T) {
	re, err := NewStdlibEngine().Compile("notpresent", Flags{})
	if err != nil {
		t.Fatal(err)
	}
	if got := scanBuffer(re, []byte("nothing here\n"), "f.txt"); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestScanBufferZeroLengthMatchAdvances(t *testing.T) {
	re, err := NewStdlibEngine().Compile("x*", Flags{})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("ab\n")
	done := make(chan *types.MatchGroup, 1)
	go func() { done <- scanBuffer(re, data, "f.txt") }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scanBuffer did not return: zero-length match did not advance")
	}
	// The real assertion is that this test completes at all: a zero-length
	// match that failed to advance start_offset would spin forever.
}

func TestPoolRunEndToEnd(t *testing.T) {
	fh := writeTemp(t, "alpha\nneedle line\nbeta\n")

	in := queue.New[*types.FileHandle](0)
	out := queue.New[*types.MatchGroup](0)
	pool := NewPool(NewStdlibEngine(), "needle", Flags{}, 2, in, out)

	in.Push(fh)
	in.Close()

	done := make(chan error, 1)
	go func() { done <- pool.Run() }()

	group, ok, closed := out.Pull()
	if closed || !ok {
		t.Fatalf("expected one MatchGroup, got ok=%v closed=%v", ok, closed)
	}
	if len(group.Matches) != 1 || group.Matches[0].Line != 2 {
		t.Fatalf("got %+v, want a single match on line 2", group)
	}

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, ok, closed = out.Pull()
	if ok || !closed {
		t.Fatalf("expected closed output queue after Run, got ok=%v closed=%v", ok, closed)
	}
}

func TestPoolSkipsZeroByteFiles(t *testing.T) {
	path := scantest.CreateFile(t, t.TempDir(), "empty.txt", "")
	fh := &types.FileHandle{Path: path, Size: 0}

	in := queue.New[*types.FileHandle](0)
	out := queue.New[*types.MatchGroup](0)
	pool := NewPool(NewStdlibEngine(), "x", Flags{}, 1, in, out)

	in.Push(fh)
	in.Close()

	if err := pool.Run(); err != nil {
		t.Fatal(err)
	}
	_, ok, closed := out.Pull()
	if ok || !closed {
		t.Fatalf("expected no MatchGroup and a closed queue, got ok=%v closed=%v", ok, closed)
	}
}

func TestWholeWordOption(t *testing.T) {
	re, err := NewStdlibEngine().Compile("cat", Flags{WholeWord: true})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("concatenate\ncat\n")
	group := scanBuffer(re, data, "f.txt")
	if group == nil || len(group.Matches) != 1 || group.Matches[0].Line != 2 {
		t.Fatalf("got %+v, want a single whole-word match on line 2", group)
	}
}

func TestIgnoreCaseOption(t *testing.T) {
	re, err := NewStdlibEngine().Compile("needle", Flags{IgnoreCase: true})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("NEEDLE\n")
	group := scanBuffer(re, data, "f.txt")
	if group == nil || len(group.Matches) != 1 {
		t.Fatalf("got %+v, want one case-insensitive match", group)
	}
}

func TestLiteralEngineFindsSubstring(t *testing.T) {
	re, err := NewLiteralEngine().Compile("a.b", Flags{Literal: true})
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("does not contain regex dot, but has a.b literally\n")
	group := scanBuffer(re, data, "f.txt")
	if group == nil || len(group.Matches) != 1 {
		t.Fatalf("got %+v, want one literal match", group)
	}
	if string(group.Matches[0].Match) != "a.b" {
		t.Errorf("match = %q, want literal a.b", group.Matches[0].Match)
	}
}

func TestLiteralEngineAbsentNeedle(t *testing.T) {
	re, err := NewLiteralEngine().Compile("zzz", Flags{Literal: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := scanBuffer(re, []byte("nothing matches here\n"), "f.txt"); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

type alwaysFailEngine struct{}

func (alwaysFailEngine) Compile(pattern string, flags Flags) (Regex, error) {
	return nil, errors.New("primary engine refuses every pattern")
}

func TestFallbackEngineUsesFallbackOnPrimaryError(t *testing.T) {
	eng := &FallbackEngine{Primary: alwaysFailEngine{}, Fallback: NewStdlibEngine()}
	re, err := eng.Compile("needle", Flags{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	group := scanBuffer(re, []byte("a needle here\n"), "f.txt")
	if group == nil || len(group.Matches) != 1 {
		t.Fatalf("got %+v, want one match via the fallback engine", group)
	}
}

func TestFallbackEnginePrefersPrimaryOnSuccess(t *testing.T) {
	eng := &FallbackEngine{Primary: NewStdlibEngine(), Fallback: alwaysFailEngine{}}
	re, err := eng.Compile("needle", Flags{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	group := scanBuffer(re, []byte("a needle here\n"), "f.txt")
	if group == nil || len(group.Matches) != 1 {
		t.Fatalf("got %+v, want one match via the primary engine", group)
	}
}

func TestCountNewlines(t *testing.T) {
	data := []byte("a\nb\nc\nd")
	if got := countNewlines(data, 0, len(data)); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if got := countNewlines(data, 2, 4); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := countNewlines(data, 5, 5); got != 0 {
		t.Errorf("got %d, want 0 for an empty range", got)
	}
}
