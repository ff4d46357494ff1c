package scanner

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ivoronin/ucg/internal/queue"
	"github.com/ivoronin/ucg/internal/types"
)

// minBlockSize and maxBlockSize clamp the preferred I/O block size used to
// size each worker's reusable read buffer, per the scan contract.
const (
	minBlockSize = 128 * 1024
	maxBlockSize = 1024 * 1024
)

// Pool runs S worker goroutines, each pulling FileHandles from an input
// queue, reading the file fully into a reused buffer, running one compiled
// Regex over it, and pushing a non-empty MatchGroup to the output queue.
//
// Grounded on the spec's scan-loop contract (§4.4): one Regex instance per
// worker (avoids sharing mutable engine scratch space across goroutines,
// since the Hyperscan backend's Scratch is not safe for concurrent Scan
// calls), a buffer retained across files to amortize allocation, and the
// at-most-one-match-per-line / backward-scan-for-line-start / zero-length-
// match-advance rules below.
type Pool struct {
	engine  Engine
	pattern string
	flags   Flags
	workers int

	in  *queue.BoundedQueue[*types.FileHandle]
	out *queue.BoundedQueue[*types.MatchGroup]

	mu       sync.Mutex
	warnings []error

	scannedFiles  atomic.Int64
	scannedBytes  atomic.Int64
	matchedFiles  atomic.Int64
}

// Stats is a snapshot of a Pool's scan totals, taken after Run returns.
// Grounded on the teacher's scanner.go worker stats (scannedFiles,
// scannedBytes, matchedFiles counters surfaced through --stats).
type Stats struct {
	ScannedFiles int64
	ScannedBytes int64
	MatchedFiles int64
}

// Stats reports the pool's running totals. Safe to call at any time; the
// values are a consistent per-counter snapshot but not a single atomic
// transaction across all three.
func (p *Pool) Stats() Stats {
	return Stats{
		ScannedFiles: p.scannedFiles.Load(),
		ScannedBytes: p.scannedBytes.Load(),
		MatchedFiles: p.matchedFiles.Load(),
	}
}

// NewPool constructs a Scanner worker pool. workers is S, clamped to 1 if
// < 1.
func NewPool(engine Engine, pattern string, flags Flags, workers int, in *queue.BoundedQueue[*types.FileHandle], out *queue.BoundedQueue[*types.MatchGroup]) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{engine: engine, pattern: pattern, flags: flags, workers: workers, in: in, out: out}
}

// Run starts all workers and blocks until the input queue is closed and
// drained and every worker has exited, then closes the output queue.
func (p *Pool) Run() error {
	var wg sync.WaitGroup
	var firstCompileErr error
	var compileErrOnce sync.Once

	for i := 0; i < p.workers; i++ {
		re, err := p.engine.Compile(p.pattern, p.flags)
		if err != nil {
			compileErrOnce.Do(func() { firstCompileErr = err })
			continue
		}
		wg.Add(1)
		go func(re Regex) {
			defer wg.Done()
			defer re.Release()
			w := worker{re: re, pool: p}
			w.loop()
		}(re)
	}

	wg.Wait()
	p.out.Close()
	return firstCompileErr
}

// Warnings returns every non-fatal file-read problem seen by any worker.
func (p *Pool) Warnings() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.warnings
}

func (p *Pool) warn(err error) {
	p.mu.Lock()
	p.warnings = append(p.warnings, err)
	p.mu.Unlock()
}

type worker struct {
	re   Regex
	pool *Pool
	buf  []byte
}

func (w *worker) loop() {
	for {
		fh, ok, closed := w.pool.in.Pull()
		if closed {
			return
		}
		if !ok {
			continue
		}
		w.scanFile(fh)
	}
}

func (w *worker) scanFile(fh *types.FileHandle) {
	if fh.Size == 0 {
		return
	}

	data, err := w.readFile(fh)
	if err != nil {
		w.pool.warn(err)
		return
	}
	w.pool.scannedFiles.Add(1)
	w.pool.scannedBytes.Add(int64(len(data)))

	group := scanBuffer(w.re, data, fh.Path)
	if group != nil {
		w.pool.matchedFiles.Add(1)
		w.pool.out.Push(group)
	}
}

// readFile reads fh fully into the worker's reusable buffer, growing it if
// needed, and returns the portion of the buffer holding this file's bytes.
func (w *worker) readFile(fh *types.FileHandle) ([]byte, error) {
	want := int(fh.Size)
	if cap(w.buf) < want {
		newCap := cap(w.buf) * 2
		if newCap < minBlockSize {
			newCap = minBlockSize
		}
		if newCap < want {
			newCap = want
		}
		if newCap > maxBlockSize && want <= maxBlockSize {
			newCap = maxBlockSize
		}
		w.buf = make([]byte, newCap)
	}

	f, err := os.Open(fh.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := io.ReadFull(f, w.buf[:want])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return w.buf[:n], nil
}

// scanBuffer runs re over data and returns the MatchGroup for path, or nil
// if there were no matches. This is the scan loop of §4.4:
//
//  1. find the next match at or after start_offset;
//  2. compute its line number by counting newlines since the last counted
//     offset and adding to the running line number;
//  3. discard if that line number repeats the previous match's (at most one
//     match per line);
//  4. otherwise build pre/match/post around the line containing the match
//     and advance start_offset to the match end;
//  5. on a zero-length match, advance by one byte to guarantee progress.
func scanBuffer(re Regex, data []byte, path string) *types.MatchGroup {
	group := &types.MatchGroup{Path: path}

	startOffset := 0
	lineNo := int64(1)
	lastCounted := 0
	prevLine := int64(0)

	for {
		m0, m1, ok := re.Find(data, startOffset)
		if !ok {
			break
		}

		lineNo += countNewlines(data, lastCounted, m0)
		lastCounted = m0

		if lineNo == prevLine {
			startOffset = advance(m0, m1)
			continue
		}

		lineStart := scanBackToLineStart(data, m0)
		lineEnd := scanForwardToLineEnd(data, m1)

		group.Matches = append(group.Matches, types.Match{
			Line:   lineNo,
			Column: m0 - lineStart + 1,
			Pre:    data[lineStart:m0],
			Match:  data[m0:m1],
			Post:   data[m1:lineEnd],
		})
		prevLine = lineNo

		startOffset = advance(m0, m1)
	}

	if len(group.Matches) == 0 {
		return nil
	}
	return group
}

func advance(m0, m1 int) int {
	if m1 == m0 {
		return m1 + 1
	}
	return m1
}

func scanBackToLineStart(data []byte, from int) int {
	for i := from - 1; i >= 0; i-- {
		if data[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func scanForwardToLineEnd(data []byte, from int) int {
	for i := from; i < len(data); i++ {
		if data[i] == '\n' {
			return i
		}
	}
	return len(data)
}
