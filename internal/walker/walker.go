// Package walker implements the Walker stage of the search pipeline:
// parallel directory traversal that admits regular files through a
// typefilter.TypeFilter and prunes subdirectories through a DirFilter,
// pushing one types.FileHandle per admitted file into a file queue.
//
// # Concurrency model
//
// J worker goroutines share one internal directory queue (queue.BoundedQueue
// of directory paths). Each worker pulls a directory, lists it with
// godirwalk, and for every entry either pushes a FileHandle to the output
// queue or pushes an admitted subdirectory back onto the internal queue.
//
// Termination is the classic dynamic-fan-out problem: the internal queue can
// be transiently empty while a sibling worker is still about to push more
// work into it, so "queue empty" alone can't trigger shutdown. We track an
// in-flight counter (pendingDirs) that is incremented before a directory is
// pushed and decremented only after every one of its entries has been fully
// processed (so children are always counted before the parent is
// discounted). The counter can only reach zero once no worker holds
// not-yet-expanded work, at which point the last worker to reach zero closes
// the internal directory queue, waking every blocked Pull.
//
// Grounded on the fan-out/walker/collector architecture of dupedog's
// internal/scanner/scanner.go, generalized from a goroutine-per-directory
// design to a fixed J-worker pool pulling from a shared queue (per the
// bounded dir-worker count in the search pipeline's design), and on
// dupedog's internal/scanner/types.go for Dev/Ino extraction via
// syscall.Stat_t.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/karrick/godirwalk"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ivoronin/ucg/internal/queue"
	"github.com/ivoronin/ucg/internal/typefilter"
	"github.com/ivoronin/ucg/internal/types"
)

// Warning is a non-fatal problem encountered while walking (an unreadable
// directory, an unstatable entry). The driver may log these; they never
// abort the walk.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string { return fmt.Sprintf("%s: %v", w.Path, w.Err) }

// Options configures a Walker run.
type Options struct {
	Recurse       bool
	FollowSymlink bool
	DirWorkers    int // J; clamped to 1 if < 1
}

// devIno identifies a file or directory for cycle detection.
type devIno struct {
	dev uint64
	ino uint64
}

// Walker drives parallel directory traversal for one Run.
type Walker struct {
	typeFilter *typefilter.TypeFilter
	dirFilter  *DirFilter
	opts       Options

	out      *queue.BoundedQueue[*types.FileHandle]
	dirQueue *queue.BoundedQueue[string]
	visited  *xsync.MapOf[devIno, struct{}]

	pendingDirs atomic.Int64

	mu          sync.Mutex
	warnings    []Warning
	missingRoot bool // set if a start path could not be stat'd
}

// New constructs a Walker that will push admitted files into out.
func New(tf *typefilter.TypeFilter, df *DirFilter, out *queue.BoundedQueue[*types.FileHandle], opts Options) *Walker {
	if opts.DirWorkers < 1 {
		opts.DirWorkers = 1
	}
	return &Walker{
		typeFilter: tf,
		dirFilter:  df,
		opts:       opts,
		out:        out,
		dirQueue:   queue.New[string](0),
		visited:    xsync.NewMapOf[devIno, struct{}](),
	}
}

// Run walks every root to completion, pushing FileHandles to the output
// queue and closing it when the last directory has been drained. It returns
// once every worker has exited.
func (w *Walker) Run(roots []string) {
	for _, root := range roots {
		// Roots are kept exactly as given (not filepath.Abs'd): spec.md §4.5
		// display paths are derived from the path the user typed, and
		// filepath.Join below only ever appends onto this literal prefix.
		info, err := os.Lstat(root)
		if err != nil {
			w.mu.Lock()
			w.missingRoot = true
			w.warnings = append(w.warnings, Warning{Path: root, Err: err})
			w.mu.Unlock()
			continue
		}
		if !info.IsDir() {
			// A root that's a plain file is scanned directly, bypassing
			// TypeFilter/DirFilter (an explicit argument is always wanted).
			w.pushFile(root, info)
			continue
		}
		di, ok := statDevIno(info)
		if ok {
			w.visited.Store(di, struct{}{})
		}
		w.pendingDirs.Add(1)
		w.dirQueue.Push(root)
	}

	if w.pendingDirs.Load() == 0 {
		w.dirQueue.Close()
	}

	var wg sync.WaitGroup
	for i := 0; i < w.opts.DirWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.workerLoop()
		}()
	}
	wg.Wait()

	w.out.Close()
}

// Warnings returns every non-fatal problem seen during Run.
func (w *Walker) Warnings() []Warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.warnings
}

// MissingRoot reports whether any start path failed to stat.
func (w *Walker) MissingRoot() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.missingRoot
}

func (w *Walker) workerLoop() {
	scratch := make([]byte, 64*1024)
	for {
		dir, ok, closed := w.dirQueue.Pull()
		if closed {
			return
		}
		if !ok {
			continue
		}
		w.processDir(dir, scratch)
	}
}

func (w *Walker) processDir(dir string, scratch []byte) {
	defer w.finishDir()

	entries, err := godirwalk.ReadDirents(dir, scratch)
	if err != nil {
		w.warn(dir, err)
		return
	}

	for _, ent := range entries {
		name := ent.Name()
		full := filepath.Join(dir, name)

		if ent.IsSymlink() {
			if !w.opts.FollowSymlink {
				continue
			}
			info, err := os.Stat(full)
			if err != nil {
				w.warn(full, err)
				continue
			}
			if info.IsDir() {
				w.admitDir(full, name, info)
			} else if info.Mode().IsRegular() {
				w.admitFile(full, name, info)
			}
			continue
		}

		if ent.IsDir() {
			info, err := os.Lstat(full)
			if err != nil {
				w.warn(full, err)
				continue
			}
			w.admitDir(full, name, info)
			continue
		}

		if !ent.ModeType().IsRegular() {
			continue
		}
		info, err := os.Lstat(full)
		if err != nil {
			w.warn(full, err)
			continue
		}
		w.admitFile(full, name, info)
	}
}

func (w *Walker) admitDir(full, base string, info os.FileInfo) {
	if !w.opts.Recurse || !w.dirFilter.Admit(base) {
		return
	}
	di, ok := statDevIno(info)
	if ok {
		if _, loaded := w.visited.LoadOrStore(di, struct{}{}); loaded {
			return // already visited: hardlinked dir or repeated root
		}
	}
	w.pendingDirs.Add(1)
	if ok := w.dirQueue.Push(full); !ok {
		w.pendingDirs.Add(-1)
	}
}

func (w *Walker) admitFile(full, base string, info os.FileInfo) {
	if !w.typeFilter.Admit(base) {
		return
	}
	w.pushFile(full, info)
}

func (w *Walker) pushFile(path string, info os.FileInfo) {
	fh := &types.FileHandle{Path: path, Size: info.Size()}
	if di, ok := statDevIno(info); ok {
		fh.Dev, fh.Ino = di.dev, di.ino
	}
	w.out.Push(fh)
}

// finishDir decrements the in-flight counter. Children of this directory
// were already counted (pendingDirs incremented in admitDir) before this
// call, so the counter can only settle at zero once no directory anywhere
// in the tree still has unprocessed entries.
func (w *Walker) finishDir() {
	if w.pendingDirs.Add(-1) == 0 {
		w.dirQueue.Close()
	}
}

func (w *Walker) warn(path string, err error) {
	w.mu.Lock()
	w.warnings = append(w.warnings, Warning{Path: path, Err: err})
	w.mu.Unlock()
}

func statDevIno(info os.FileInfo) (devIno, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return devIno{}, false
	}
	return devIno{dev: uint64(st.Dev), ino: st.Ino}, true
}
