// Package formatter implements the Formatter stage of the search pipeline:
// a single worker that consumes MatchGroups in arrival order, renders them
// to an output sink, and accumulates the total matched-line count.
package formatter

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/ivoronin/ucg/internal/queue"
	"github.com/ivoronin/ucg/internal/types"
)

// Default ANSI SGR sequences, ported byte-for-byte from the original tool's
// OutputContext.h. Each color-start sequence ends in "\x1B[K" (Erase in
// Line, cursor to end) to stop a terminal's scroll-triggered background
// fill from bleeding the previous color past the printed text; grep's own
// source uses the same trick, credited there to the same discussion this
// tool's author cites.
const (
	colorFilenameDefault = "\x1b[32;1m\x1b[K" // green, bold
	colorMatchDefault    = "\x1b[30;43;1m\x1b[K" // black on yellow, bold
	colorLinenoDefault   = "\x1b[33;1m\x1b[K" // yellow, bold
	colorResetDefault    = "\x1b[0m\x1b[K"    // all attributes off, erase to EOL
)

// Colors holds the four active SGR sequences. NewColors returns the built-in
// defaults; the zero value has every sequence empty.
type Colors struct {
	Filename string
	Lineno   string
	Match    string
	Reset    string
}

// NewColors returns the default color set.
func NewColors() Colors {
	return Colors{
		Filename: colorFilenameDefault,
		Lineno:   colorLinenoDefault,
		Match:    colorMatchDefault,
		Reset:    colorResetDefault,
	}
}

// Options configures rendering.
type Options struct {
	TTY         bool // TTY mode (per-group header + blank separator) vs pipe mode
	Color       bool
	Colors      Colors
	PrintColumn bool
	NULSep      bool // --null: NUL instead of ':' after the filename
	Sort        bool // deterministic mode: buffer everything, sort by path, then render
}

// AutoEnableColor reports fatih/color's own terminal/NO_COLOR-aware default
// for whether color.Output (a go-isatty + go-colorable wrapped writer)
// should be colorized, matching the CLI's "--color auto-detects" contract.
func AutoEnableColor() bool {
	return !color.NoColor
}

// Formatter renders MatchGroups pulled from in to w, accumulating the
// matched-line tally the driver reads after match_queue closes.
type Formatter struct {
	w    *bufio.Writer
	opts Options

	totalMatchedLines int64
	firstGroup        bool
}

// New constructs a Formatter writing to w.
func New(w io.Writer, opts Options) *Formatter {
	return &Formatter{w: bufio.NewWriter(w), opts: opts, firstGroup: true}
}

// Run drains in until it closes, rendering each MatchGroup, then flushes the
// writer. In --sort mode, groups are buffered and rendered in path order
// only after in closes, trading streaming output for deterministic ordering.
func (f *Formatter) Run(in *queue.BoundedQueue[*types.MatchGroup]) error {
	if f.opts.Sort {
		return f.runSorted(in)
	}
	for {
		g, ok, closed := in.Pull()
		if closed {
			break
		}
		if !ok {
			continue
		}
		f.render(g)
	}
	return f.w.Flush()
}

func (f *Formatter) runSorted(in *queue.BoundedQueue[*types.MatchGroup]) error {
	var groups []*types.MatchGroup
	for {
		g, ok, closed := in.Pull()
		if closed {
			break
		}
		if !ok {
			continue
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Path < groups[j].Path })
	for _, g := range groups {
		f.render(g)
	}
	return f.w.Flush()
}

// TotalMatchedLines returns the running tally the driver uses for the exit
// status: Σ group.Len() over every group rendered so far.
func (f *Formatter) TotalMatchedLines() int64 {
	return f.totalMatchedLines
}

func (f *Formatter) render(g *types.MatchGroup) {
	if len(g.Matches) == 0 {
		return
	}
	f.totalMatchedLines += int64(len(g.Matches))

	path := normalizePath(g.Path)

	if f.opts.TTY {
		if !f.firstGroup {
			fmt.Fprintln(f.w)
		}
		f.firstGroup = false
		f.writeHeader(path)
		for _, m := range g.Matches {
			f.writeLinePrefix(m)
			f.writeMatchText(m)
		}
		return
	}

	sep := ":"
	if f.opts.NULSep {
		sep = "\x00"
	}
	for _, m := range g.Matches {
		f.writeColored(f.opts.Colors.Filename, path)
		fmt.Fprint(f.w, sep)
		f.writeLinePrefix(m)
		f.writeMatchText(m)
	}
}

func (f *Formatter) writeHeader(path string) {
	f.writeColored(f.opts.Colors.Filename, path)
	fmt.Fprintln(f.w)
}

func (f *Formatter) writeLinePrefix(m types.Match) {
	f.writeColored(f.opts.Colors.Lineno, fmt.Sprintf("%d", m.Line))
	if f.opts.PrintColumn {
		fmt.Fprintf(f.w, ":%d", m.Column)
	}
	fmt.Fprint(f.w, ":")
}

func (f *Formatter) writeMatchText(m types.Match) {
	f.w.Write(m.Pre)
	f.writeColored(f.opts.Colors.Match, string(m.Match))
	f.w.Write(m.Post)
	fmt.Fprintln(f.w)
}

func (f *Formatter) writeColored(seq, text string) {
	if !f.opts.Color {
		fmt.Fprint(f.w, text)
		return
	}
	fmt.Fprint(f.w, seq, text, f.opts.Colors.Reset)
}

// normalizePath strips a leading "./" from a display path.
func normalizePath(p string) string {
	return strings.TrimPrefix(p, "./")
}
