// Package scantest provides small filesystem test fixtures for the search
// pipeline's packages: a plain-directory createFile/createTree helper, in
// the spirit of the teacher's internal/testfs but without its Docker-backed
// container harness — ucg's tests never need isolated hardlink/device
// semantics, only ordinary files and directories.
package scantest

import (
	"os"
	"path/filepath"
	"testing"
)

// File describes one file to materialize under a tree root.
type File struct {
	Path     string // relative to the tree root
	Contents string
}

// CreateFile writes one file (creating parent directories as needed) and
// fails the test on any error.
func CreateFile(t *testing.T, root, relPath, contents string) string {
	t.Helper()
	full := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", relPath, err)
	}
	return full
}

// CreateTree materializes every File under a fresh temp directory and
// returns its root.
func CreateTree(t *testing.T, files []File) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		CreateFile(t, root, f.Path, f.Contents)
	}
	return root
}
