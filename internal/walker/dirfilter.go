package walker

// DirFilter decides whether a directory basename should be descended into.
// It is the directory-side counterpart of typefilter.TypeFilter: a flat
// excluded-name set rather than an extension/glob admission algorithm,
// because directory pruning only does exact-name matching; glob patterns are
// not supported.
//
// Grounded on the original tool's DirInclusionManager: a literal excluded-name
// set seeded with a fixed built-in list, adjustable via AddExclusion and
// RemoveExclusion.
type DirFilter struct {
	excluded map[string]struct{}
}

// builtinDirExcludes is the default set of directory basenames skipped during
// traversal, ported from the original tool's f_builtin_dir_excludes table:
// VCS metadata directories and common build-cache directories.
var builtinDirExcludes = []string{
	".bzr",
	".git",
	".hg",
	".metadata",
	".svn",
	"CMakeFiles",
	"CVS",
	"autom4te.cache",
}

// NewDirFilter builds a DirFilter seeded with the built-in exclusions.
func NewDirFilter() *DirFilter {
	df := &DirFilter{excluded: make(map[string]struct{}, len(builtinDirExcludes))}
	for _, name := range builtinDirExcludes {
		df.excluded[name] = struct{}{}
	}
	return df
}

// AddExclusion adds a literal directory basename to the excluded set. This is
// the `--ignore-dir=NAME` / `--ignore-directory=NAME` CLI surface.
func (df *DirFilter) AddExclusion(name string) {
	df.excluded[name] = struct{}{}
}

// RemoveExclusion lifts a built-in or previously-added exclusion, the
// `--no-ignore-dir=NAME` surface.
func (df *DirFilter) RemoveExclusion(name string) {
	delete(df.excluded, name)
}

// Admit reports whether the directory basename b should be descended into.
func (df *DirFilter) Admit(b string) bool {
	_, excluded := df.excluded[b]
	return !excluded
}
