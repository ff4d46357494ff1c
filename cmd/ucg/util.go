package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ivoronin/ucg/internal/config"
	"github.com/ivoronin/ucg/internal/pipeline"
	"github.com/ivoronin/ucg/internal/typefilter"
)

// printHelpTypes renders the --help-types listing: the builtin type table
// plus whatever --type-add/--type-set/--type-del this invocation applied,
// so the listing reflects what the search would actually use.
func printHelpTypes(w io.Writer, toggles, typeAdd, typeSet, typeDel []string) {
	tf := typefilter.New()
	for _, spec := range typeDel {
		tf.DelType(spec)
	}
	for _, spec := range typeAdd {
		if name, atoms, err := typefilter.ParseTypeSpec(spec); err == nil {
			tf.AddType(name, atoms)
		}
	}
	for _, spec := range typeSet {
		if name, atoms, err := typefilter.ParseTypeSpec(spec); err == nil {
			tf.SetType(name, atoms)
		}
	}
	_ = toggles // toggles affect which types are active, not which are defined

	fmt.Fprint(w, config.HelpTypesText(tf, tf.DefinedNames()))
}

// printWarnings logs every non-fatal walk/scan problem to stderr, one line
// each, naming the offending path — a missing start path, an unreadable
// directory, a file that vanished between listing and read. Printing them
// does not change the exit code (a missing start path reaches the exit code
// separately, through Result.MissingRoot); they're surfaced unconditionally
// because spec.md §7 requires callers to see them even when --stats wasn't
// passed.
func printWarnings(w io.Writer, res pipeline.Result) {
	for _, warn := range res.WalkerWarnings {
		fmt.Fprintln(w, "ucg:", warn.Error())
	}
	for _, err := range res.ScannerWarnings {
		fmt.Fprintln(w, "ucg:", err)
	}
}

// printStats writes a one-line scan summary to stderr. Byte counts are
// rendered with humanize.IBytes, the same binary-unit formatting the
// teacher's scanner/screener/deduper stats lines use.
func printStats(w io.Writer, res pipeline.Result, elapsed time.Duration) {
	fmt.Fprintf(w, "ucg: %d files scanned (%s), %d files matched, %d matching lines in %s",
		res.ScanStats.ScannedFiles, humanize.IBytes(uint64(res.ScanStats.ScannedBytes)),
		res.ScanStats.MatchedFiles, res.TotalMatchedLines, elapsed.Round(time.Millisecond))
	if n := len(res.WalkerWarnings); n > 0 {
		fmt.Fprintf(w, ", %d directory warning(s)", n)
	}
	if n := len(res.ScannerWarnings); n > 0 {
		fmt.Fprintf(w, ", %d file warning(s)", n)
	}
	fmt.Fprintln(w)
}
