// Package config turns CLI flags, rc-file contents, and type-spec strings
// into the values the pipeline driver needs: a compiled typefilter.TypeFilter,
// a walker.DirFilter, scanner.Flags, and formatter.Options.
package config

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/ivoronin/ucg/internal/formatter"
	"github.com/ivoronin/ucg/internal/scanner"
	"github.com/ivoronin/ucg/internal/typefilter"
	"github.com/ivoronin/ucg/internal/ucgerrors"
	"github.com/ivoronin/ucg/internal/walker"
)

// Config holds every value bound directly from CLI flags, before any
// type-spec strings or rc-file contents have been applied.
type Config struct {
	Pattern string
	Paths   []string

	IgnoreCase bool
	SmartCase  bool
	WordRegexp bool
	Literal    bool

	Column    bool
	Color     string // "auto", "always", "never"; any other value is treated as "auto"
	NUL       bool

	IgnoreDirs   []string
	NoIgnoreDirs []string
	IncludeGlobs []string
	ExcludeGlobs []string
	IgnoreFiles  []string // --ignore-file=FILTER:ARGS, same grammar as type atoms

	Recurse   bool
	NoRecurse bool
	Follow    bool
	// KnownTypes (-k) is accepted for command-line compatibility with the
	// original tool, whose own default is already "only known types" with
	// no negating flag — TypeFilter.Admit already implements that default,
	// so this is a no-op confirmation rather than dead state.
	KnownTypes    bool
	TypeToggles   []string // --TYPE / --noTYPE and --type=[no]TYPE, normalized to "TYPE" or "noTYPE"
	TypeSet       []string
	TypeAdd       []string
	TypeDel       []string

	Jobs    int
	DirJobs int

	NoEnv        bool
	Stats        bool
	Sort         bool
	VersionShort bool
}

// Default returns a Config with the spec's documented defaults: smart-case
// on, recursion on, jobs = hardware parallelism, dirjobs = 4.
func Default() Config {
	return Config{
		SmartCase: true,
		Recurse:   true,
		Color:     "auto",
		Jobs:      runtime.NumCPU(),
		DirJobs:   4,
	}
}

// Built holds the fully-resolved, pipeline-ready objects derived from a
// Config plus the type-spec strings it carries.
type Built struct {
	TypeFilter *typefilter.TypeFilter
	DirFilter  *walker.DirFilter
	ScanFlags  scanner.Flags
	FormatOpts formatter.Options
	Engine     scanner.Engine
	WalkerOpts walker.Options
}

// Build resolves a Config into pipeline-ready values. outputIsTTY and
// autoColor are injected rather than probed internally so tests can control
// them without a real terminal.
func Build(c Config, outputIsTTY, autoColor bool) (Built, error) {
	tf := typefilter.New()
	if err := applyTypeSelections(tf, c); err != nil {
		return Built{}, err
	}
	if err := tf.CompileTables(); err != nil {
		return Built{}, ucgerrors.NewUsageError("%v", err)
	}

	df := walker.NewDirFilter()
	for _, name := range c.IgnoreDirs {
		df.AddExclusion(name)
	}
	for _, name := range c.NoIgnoreDirs {
		df.RemoveExclusion(name)
	}

	ignoreCase := c.IgnoreCase
	if c.SmartCase && !c.IgnoreCase && isAllLowercase(c.Pattern) {
		ignoreCase = true
	}

	scanFlags := scanner.Flags{
		IgnoreCase: ignoreCase,
		WholeWord:  c.WordRegexp,
		Literal:    c.Literal,
	}

	colorEnabled := resolveColor(c.Color, outputIsTTY, autoColor)

	recurse := c.Recurse
	if c.NoRecurse {
		recurse = false
	}

	return Built{
		TypeFilter: tf,
		DirFilter:  df,
		ScanFlags:  scanFlags,
		Engine:     defaultEngine(c.Literal),
		WalkerOpts: walker.Options{
			Recurse:       recurse,
			FollowSymlink: c.Follow,
			DirWorkers:    c.DirJobs,
		},
		FormatOpts: formatter.Options{
			TTY:         outputIsTTY,
			Color:       colorEnabled,
			Colors:      formatter.NewColors(),
			PrintColumn: c.Column,
			NULSep:      c.NUL,
			Sort:        c.Sort,
		},
	}, nil
}

func defaultEngine(literal bool) scanner.Engine {
	if literal {
		return scanner.NewLiteralEngine()
	}
	return scanner.NewDefaultEngine()
}

func resolveColor(mode string, outputIsTTY, autoColor bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return outputIsTTY && autoColor
	}
}

func isAllLowercase(pattern string) bool {
	for _, r := range pattern {
		if r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return true
}

func applyTypeSelections(tf *typefilter.TypeFilter, c Config) error {
	for _, spec := range c.TypeDel {
		tf.DelType(spec)
	}
	for _, spec := range c.TypeAdd {
		name, atoms, err := typefilter.ParseTypeSpec(spec)
		if err != nil {
			return ucgerrors.NewUsageError("--type-add: %v", err)
		}
		tf.AddType(name, atoms)
	}
	for _, spec := range c.TypeSet {
		name, atoms, err := typefilter.ParseTypeSpec(spec)
		if err != nil {
			return ucgerrors.NewUsageError("--type-set: %v", err)
		}
		tf.SetType(name, atoms)
	}
	for _, toggle := range c.TypeToggles {
		name, enable, err := parseTypeToggle(toggle)
		if err != nil {
			return err
		}
		if enable {
			tf.Enable(name)
		} else {
			tf.Disable(name)
		}
	}
	for _, g := range c.IncludeGlobs {
		tf.AddIncludeGlob(g)
	}
	for _, g := range c.ExcludeGlobs {
		tf.AddExcludeGlob(g)
	}
	for _, spec := range c.IgnoreFiles {
		atoms, err := typefilter.ParseFilterSpec(spec)
		if err != nil {
			return ucgerrors.NewUsageError("--ignore-file: %v", err)
		}
		for _, a := range atoms {
			switch a.Kind {
			case typefilter.GlobAtom, typefilter.LiteralAtom:
				tf.AddExcludeGlob(a.Value)
			case typefilter.ExtAtom:
				tf.AddExcludeGlob("*" + a.Value)
			}
		}
	}
	return nil
}

// parseTypeToggle normalizes the `--TYPE`/`--noTYPE` shortcut form and the
// `--type=[no]TYPE` long form into (name, enable).
func parseTypeToggle(s string) (name string, enable bool, err error) {
	if len(s) > 2 && s[:2] == "no" {
		return s[2:], false, nil
	}
	if s == "" {
		return "", false, ucgerrors.NewUsageError("empty type name in --type")
	}
	return s, true, nil
}

// HelpTypesText renders the `--help-types` listing: one line per known
// type with its atoms, matching the original tool's informational output.
func HelpTypesText(tf *typefilter.TypeFilter, names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	var b strings.Builder
	for _, n := range sorted {
		atoms, _ := tf.TypeAtoms(n)
		fmt.Fprintf(&b, "  %-14s %s\n", n, describeAtoms(atoms))
	}
	return b.String()
}

func describeAtoms(atoms []typefilter.Atom) string {
	parts := make([]string, 0, len(atoms))
	for _, a := range atoms {
		switch a.Kind {
		case typefilter.FirstLineRegexAtom:
			parts = append(parts, "firstlinematch("+a.Value+")")
		default:
			parts = append(parts, a.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// TerminalWidth reports the output width from $COLUMNS, falling back to
// fallbackDefault when it is unset or not a positive integer. The real
// terminal size is not queried. $COLUMNS is one of the two environment
// variables this tool reads (the other being $HOME for rc-file discovery).
func TerminalWidth(fallbackDefault int) int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := parsePositiveInt(cols); err == nil {
			return n
		}
	}
	return fallbackDefault
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, fmt.Errorf("not positive: %q", s)
	}
	return n, nil
}
