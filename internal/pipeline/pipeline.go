// Package pipeline wires the Walker, Scanner pool, and Formatter stages
// together per the search pipeline's start/join/close-cascade contract:
// start Formatter, Scanners, then Walker; join Walker; close file_queue;
// join Scanners; close match_queue; join Formatter.
package pipeline

import (
	"io"
	"sync"

	"github.com/ivoronin/ucg/internal/formatter"
	"github.com/ivoronin/ucg/internal/queue"
	"github.com/ivoronin/ucg/internal/scanner"
	"github.com/ivoronin/ucg/internal/typefilter"
	"github.com/ivoronin/ucg/internal/types"
	"github.com/ivoronin/ucg/internal/walker"
)

// Config bundles everything needed to run one end-to-end search.
type Config struct {
	Roots []string

	TypeFilter *typefilter.TypeFilter
	DirFilter  *walker.DirFilter
	WalkerOpts walker.Options

	Engine     scanner.Engine
	Pattern    string
	ScanFlags  scanner.Flags
	ScanWorkers int

	Output        io.Writer
	FormatOptions formatter.Options
}

// Result summarizes one Run.
type Result struct {
	TotalMatchedLines int64
	WalkerWarnings    []walker.Warning
	ScannerWarnings   []error
	MissingRoot       bool
	ScanStats         scanner.Stats
}

// Run executes one full search: Walker → file_queue → Scanner pool →
// match_queue → Formatter, in the order and shutdown sequence the
// concurrency model requires.
func Run(cfg Config) (Result, error) {
	fileQueue := queue.New[*types.FileHandle](0)
	matchQueue := queue.New[*types.MatchGroup](0)

	f := formatter.New(cfg.Output, cfg.FormatOptions)
	pool := scanner.NewPool(cfg.Engine, cfg.Pattern, cfg.ScanFlags, cfg.ScanWorkers, fileQueue, matchQueue)
	w := walker.New(cfg.TypeFilter, cfg.DirFilter, fileQueue, cfg.WalkerOpts)

	var wg sync.WaitGroup
	var formatErr error

	// Start Formatter first: it must be ready to drain match_queue before
	// any Scanner can push to it.
	wg.Add(1)
	go func() {
		defer wg.Done()
		formatErr = f.Run(matchQueue)
	}()

	// Start the Scanner pool: it must be ready to drain file_queue before
	// the Walker can push to it.
	var poolErr error
	poolDone := make(chan struct{})
	go func() {
		poolErr = pool.Run()
		close(poolDone)
	}()

	// Start and join the Walker; it closes file_queue itself once the last
	// directory has been drained.
	w.Run(cfg.Roots)

	// The Scanner pool closes match_queue once file_queue is drained and
	// every worker has exited; wait for that before waiting on Formatter.
	<-poolDone
	wg.Wait()

	res := Result{
		TotalMatchedLines: f.TotalMatchedLines(),
		WalkerWarnings:    w.Warnings(),
		ScannerWarnings:   pool.Warnings(),
		MissingRoot:       w.MissingRoot(),
		ScanStats:         pool.Stats(),
	}
	if poolErr != nil {
		return res, poolErr
	}
	return res, formatErr
}
