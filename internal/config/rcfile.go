package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivoronin/ucg/internal/ucgerrors"
)

// RCFilePaths returns the rc files to merge, in application order:
// $HOME/.ucgrc first, then the nearest .ucgrc found walking up from cwd
// (excluding $HOME itself, and never walking past it). Either or both may
// not exist; non-existent paths are simply omitted.
func RCFilePaths(home, cwd string) []string {
	var paths []string

	if home != "" {
		p := filepath.Join(home, ".ucgrc")
		if fileExists(p) {
			paths = append(paths, p)
		}
	}

	if projectRC := findProjectRC(cwd, home); projectRC != "" {
		paths = append(paths, projectRC)
	}

	return paths
}

func findProjectRC(start, home string) string {
	dir := start
	for {
		if home != "" && dir == home {
			return ""
		}
		candidate := filepath.Join(dir, ".ucgrc")
		if fileExists(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// ParseRCFile reads one rc file into an argument vector: one line-oriented
// list of arguments, blank lines and lines starting with '#' ignored. A
// bare positional argument (a token not starting with '-') or a literal
// "--" is a usage error — rc files may only carry flags.
func ParseRCFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var args []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "--" {
			return nil, ucgerrors.NewUsageError("%s: \"--\" is not allowed in an rc file", path)
		}
		if !strings.HasPrefix(line, "-") {
			return nil, ucgerrors.NewUsageError("%s: bare positional argument %q is not allowed in an rc file", path, line)
		}
		args = append(args, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return args, nil
}

// MergeArgs builds the final argument vector handed to the CLI parser:
// every rc file's arguments (in RCFilePaths order), then the real CLI args.
func MergeArgs(rcPaths []string, cliArgs []string) ([]string, error) {
	var merged []string
	for _, p := range rcPaths {
		args, err := ParseRCFile(p)
		if err != nil {
			return nil, err
		}
		merged = append(merged, args...)
	}
	merged = append(merged, cliArgs...)
	return merged, nil
}
