package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ivoronin/ucg/internal/config"
	"github.com/ivoronin/ucg/internal/pipeline"
	"github.com/ivoronin/ucg/internal/typefilter"
	"github.com/ivoronin/ucg/internal/ucgerrors"
)

// run builds the root command, merges rc-file arguments with args, executes
// the search, and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	home := os.Getenv("HOME")
	cwd, _ := os.Getwd()

	noEnv := false
	for _, a := range args {
		if a == "--noenv" {
			noEnv = true
			break
		}
	}

	finalArgs := args
	if !noEnv {
		rcPaths := config.RCFilePaths(home, cwd)
		merged, err := config.MergeArgs(rcPaths, args)
		if err != nil {
			fmt.Fprintln(stderr, "ucg:", err)
			return ucgerrors.ExitCode(err)
		}
		finalArgs = merged
	}

	finalArgs = normalizeRecurseShorthand(finalArgs)
	shortcutArgs, toggles := extractTypeShortcuts(finalArgs, typefilter.BuiltinTypeNames())

	c := config.Default()
	cmd := newRootCommand(&c, stdout, stderr)
	cmd.SetArgs(shortcutArgs)

	var runErr error
	var result pipeline.Result
	cmd.RunE = func(rc *cobra.Command, positional []string) error {
		if c.VersionShort {
			fmt.Fprintln(stdout, rc.Version)
			return nil
		}
		if usage, _ := rc.Flags().GetBool("usage"); usage {
			return rc.Help()
		}
		if helpTypes, _ := rc.Flags().GetBool("help-types"); helpTypes {
			printHelpTypes(stdout, c.TypeToggles, c.TypeAdd, c.TypeSet, c.TypeDel)
			return nil
		}
		if len(positional) == 0 {
			return ucgerrors.NewUsageError("missing PATTERN")
		}
		c.Pattern = positional[0]
		c.Paths = positional[1:]
		if len(c.Paths) == 0 {
			c.Paths = []string{"."}
		}
		c.TypeToggles = append(c.TypeToggles, toggles...)

		start := time.Now()
		res, err := searchWithConfig(c, stdout)
		elapsed := time.Since(start)
		result = res
		runErr = err
		// Non-fatal walk/scan warnings (an unreadable directory, a missing
		// start path) are logged to stderr unconditionally, not gated
		// behind --stats: spec.md §7 treats them as always-visible, never
		// fatal.
		printWarnings(stderr, res)
		if err == nil && c.Stats {
			printStats(stderr, res, elapsed)
		}
		return err
	}

	if err := cmd.Execute(); err != nil {
		if runErr == nil {
			// Errors raised before the search starts (unknown flag, bad flag
			// value, missing PATTERN) are usage errors.
			runErr = ucgerrors.NewUsageError("%v", err)
		}
	}

	if runErr != nil {
		fmt.Fprintln(stderr, "ucg:", runErr)
		return ucgerrors.ExitCode(runErr)
	}

	if result.MissingRoot {
		return ucgerrors.ExitNoMatch
	}
	if result.TotalMatchedLines > 0 {
		return ucgerrors.ExitMatchFound
	}
	return ucgerrors.ExitNoMatch
}

func searchWithConfig(c config.Config, stdout io.Writer) (pipeline.Result, error) {
	outputIsTTY := isatty.IsTerminal(os.Stdout.Fd())
	autoColor := true // --color=auto is decided by outputIsTTY alone; NO_COLOR is not consulted

	built, err := config.Build(c, outputIsTTY, autoColor)
	if err != nil {
		return pipeline.Result{}, err
	}

	res, err := pipeline.Run(pipeline.Config{
		Roots:       c.Paths,
		TypeFilter:  built.TypeFilter,
		DirFilter:   built.DirFilter,
		WalkerOpts:  built.WalkerOpts,
		Engine:      built.Engine,
		Pattern:     c.Pattern,
		ScanFlags:   built.ScanFlags,
		ScanWorkers: c.Jobs,
		Output:      stdout,
		FormatOptions: built.FormatOpts,
	})
	if err != nil {
		return res, &ucgerrors.PatternError{Pattern: c.Pattern, Cause: err}
	}
	return res, nil
}

func newRootCommand(c *config.Config, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ucg PATTERN [PATH...]",
		Short:         "Search source trees for a regular expression, fast",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.BoolVarP(&c.IgnoreCase, "ignore-case", "i", c.IgnoreCase, "case-insensitive match")
	flags.BoolVar(&c.SmartCase, "smart-case", c.SmartCase, "ignore case unless the pattern has an uppercase byte")
	flags.BoolVarP(&c.WordRegexp, "word-regexp", "w", c.WordRegexp, "match only whole words")
	flags.BoolVarP(&c.Literal, "literal", "Q", c.Literal, "treat the pattern as a literal string")

	flags.BoolVar(&c.Column, "column", c.Column, "print the column of the first match")
	flags.StringVar(&c.Color, "color", c.Color, "colorize output: auto, always, never")
	flags.StringVar(&c.Color, "colour", c.Color, "alias for --color")
	flags.BoolVar(&c.NUL, "null", c.NUL, "use NUL instead of ':' after the filename")

	flags.StringArrayVar(&c.IgnoreDirs, "ignore-dir", nil, "exclude a directory by basename (alias: --ignore-directory)")
	flags.StringArrayVar(&c.IgnoreDirs, "ignore-directory", nil, "alias for --ignore-dir")
	flags.StringArrayVar(&c.NoIgnoreDirs, "no-ignore-dir", nil, "un-exclude a built-in excluded directory")
	flags.StringArrayVar(&c.IncludeGlobs, "include", nil, "include files matching GLOB")
	flags.StringArrayVar(&c.ExcludeGlobs, "exclude", nil, "exclude files matching GLOB (alias: --ignore)")
	flags.StringArrayVar(&c.ExcludeGlobs, "ignore", nil, "alias for --exclude")
	flags.StringArrayVar(&c.IgnoreFiles, "ignore-file", nil, "exclude files matching FILTER:ARGS")

	flags.BoolVarP(&c.Recurse, "recurse", "r", c.Recurse, "recurse into subdirectories (-R is a synonym)")
	flags.BoolVarP(&c.NoRecurse, "no-recurse", "n", false, "do not recurse into subdirectories")
	flags.BoolVar(&c.Follow, "follow", c.Follow, "follow symlinks")
	flags.BoolVarP(&c.KnownTypes, "known-types", "k", c.KnownTypes, "only search files of a recognized type")

	flags.StringArrayVar(&c.TypeSet, "type-set", nil, "define NAME:FILTER:ARGS, replacing any existing definition")
	flags.StringArrayVar(&c.TypeAdd, "type-add", nil, "extend NAME with FILTER:ARGS")
	flags.StringArrayVar(&c.TypeDel, "type-del", nil, "remove a type definition entirely")
	flags.StringArray("type", nil, "enable or disable a type: --type=TYPE or --type=noTYPE")

	flags.IntVarP(&c.Jobs, "jobs", "j", c.Jobs, "number of scanner worker threads")
	flags.IntVar(&c.DirJobs, "dirjobs", c.DirJobs, "number of directory-walker worker threads")

	flags.Bool("noenv", false, "skip rc-file discovery (handled before flag parsing)")
	flags.Bool("help-types", false, "list every known file type and exit")
	flags.Bool("usage", false, "alias for --help")
	flags.BoolVarP(&c.VersionShort, "version-short", "V", false, "print the version and exit")
	flags.BoolVar(&c.Stats, "stats", false, "print a scan summary to stderr after the run")
	flags.BoolVar(&c.Sort, "sort", false, "buffer all matches and print them in deterministic path order")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		typeToggles, _ := flags.GetStringArray("type")
		for _, t := range typeToggles {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			c.TypeToggles = append(c.TypeToggles, t)
		}
		return nil
	}

	return cmd
}

// normalizeRecurseShorthand rewrites a bare "-R" into "--recurse". pflag
// only lets one shorthand letter bind to a given flag, and -r is already
// taken, so -R is recognized here, before Cobra ever sees the args.
func normalizeRecurseShorthand(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "-R" {
			out[i] = "--recurse"
		} else {
			out[i] = a
		}
	}
	return out
}

// extractTypeShortcuts removes any `--TYPE` / `--noTYPE` argument matching a
// known builtin type name from args (Cobra has no static flag registered
// for these, since type names aren't known until a TypeFilter exists) and
// returns the toggle names collected ("TYPE" to enable, "noTYPE" to
// disable) alongside the remaining arguments for normal flag parsing.
func extractTypeShortcuts(args []string, knownTypes []string) (remaining []string, toggles []string) {
	known := make(map[string]bool, len(knownTypes)*2)
	for _, name := range knownTypes {
		known["--"+name] = true
		known["--no"+name] = true
	}

	remaining = make([]string, 0, len(args))
	for _, a := range args {
		if known[a] {
			toggles = append(toggles, strings.TrimPrefix(a, "--"))
			continue
		}
		remaining = append(remaining, a)
	}
	return remaining, toggles
}
