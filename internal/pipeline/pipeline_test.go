package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivoronin/ucg/internal/formatter"
	"github.com/ivoronin/ucg/internal/scanner"
	"github.com/ivoronin/ucg/internal/scantest"
	"github.com/ivoronin/ucg/internal/typefilter"
	"github.com/ivoronin/ucg/internal/walker"
)

func TestPipelineEndToEnd(t *testing.T) {
	root := scantest.CreateTree(t, []scantest.File{
		{Path: "main.go", Contents: "package main\n\nfunc needle() {}\n"},
		{Path: "other.go", Contents: "package main\n\nfunc other() {}\n"},
		{Path: "README.md", Contents: "needle mentioned here too\n"},
	})

	tf := typefilter.New()
	tf.Enable("go")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}

	var out bytes.Buffer
	res, err := Run(Config{
		Roots:       []string{root},
		TypeFilter:  tf,
		DirFilter:   walker.NewDirFilter(),
		WalkerOpts:  walker.Options{Recurse: true, DirWorkers: 2},
		Engine:      scanner.NewStdlibEngine(),
		Pattern:     "needle",
		ScanWorkers: 2,
		Output:      &out,
		FormatOptions: formatter.Options{
			TTY: false,
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.TotalMatchedLines != 1 {
		t.Fatalf("got %d matched lines, want 1 (only main.go should match since README.md is filtered out)", res.TotalMatchedLines)
	}
	if !strings.Contains(out.String(), "main.go:3:") {
		t.Errorf("output %q missing expected match line", out.String())
	}
	if strings.Contains(out.String(), "other.go") {
		t.Errorf("output %q should not mention other.go", out.String())
	}
	if strings.Contains(out.String(), "README.md") {
		t.Errorf("output %q should not mention README.md: go type filter should have excluded it", out.String())
	}
}

func TestPipelineMissingRootIsReported(t *testing.T) {
	tf := typefilter.New()
	tf.Enable("go")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}

	var out bytes.Buffer
	res, err := Run(Config{
		Roots:       []string{filepath.Join(t.TempDir(), "nope")},
		TypeFilter:  tf,
		DirFilter:   walker.NewDirFilter(),
		WalkerOpts:  walker.Options{Recurse: true, DirWorkers: 1},
		Engine:      scanner.NewStdlibEngine(),
		Pattern:     "needle",
		ScanWorkers: 1,
		Output:      &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.MissingRoot {
		t.Error("expected MissingRoot to be true")
	}
}
