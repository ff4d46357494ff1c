// Package typefilter classifies file basenames as admissible for scanning.
//
// # Admission algorithm
//
// TypeFilter.Admit implements the ordered rules of the search pipeline's
// type-filtering stage:
//
//  1. Extract the extension (from the last '.' to the end, including the
//     dot), unless the last '.' is the first byte of the name.
//  2. Short extensions (<=4 bytes without the leading dot) are looked up in
//     a sorted array of packed 32-bit codes via binary search; longer
//     extensions go through a hash set. A hit makes the name a "candidate
//     include".
//  3. Otherwise the whole basename is looked up in a literal-filename hash
//     set (also a candidate include on a hit).
//  4. A candidate include is rejected only if an exclude-glob matches it;
//     otherwise it's admitted without consulting include-globs.
//  5. A non-candidate is decided by the ordered include/exclude glob list:
//     the *last* matching glob wins; no match means rejection.
//
// # Why pack extensions into uint32?
//
// The extension fast path dominates real workloads. Packing up to four
// extension bytes into one comparable integer turns the hot lookup into a
// branch-predictor- and cache-friendly binary search over a flat []uint32,
// instead of chasing string headers through a hash bucket.
package typefilter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// AtomKind identifies the shape of a single filter atom within a TypeDef.
type AtomKind int

const (
	// ExtAtom matches a literal filename extension, e.g. ".go".
	ExtAtom AtomKind = iota
	// LiteralAtom matches an exact basename, e.g. "Makefile".
	LiteralAtom
	// GlobAtom is a POSIX glob matched against the basename.
	GlobAtom
	// FirstLineRegexAtom is a shebang/magic-line pattern. Recognized during
	// parsing and compilation but never evaluated by Admit (spec §9): doing
	// so would require opening and reading every candidate file before the
	// fast metadata-only filter has even run.
	FirstLineRegexAtom
)

// Atom is a single filter rule contributed by a TypeDef.
type Atom struct {
	Kind  AtomKind
	Value string
}

// TypeDef is a named bundle of filter atoms, e.g. "go" -> [".go"].
type TypeDef struct {
	Name  string
	Atoms []Atom
}

// TypeSpecError reports a malformed type-spec string passed to AddType,
// SetType, or a --type-add/--type-set CLI flag.
type TypeSpecError struct {
	Spec   string
	Reason string
}

func (e *TypeSpecError) Error() string {
	return fmt.Sprintf("malformed type spec %q: %s", e.Spec, e.Reason)
}

type globEntry struct {
	pattern string
	g       glob.Glob
	include bool
}

// FilterTables is the compiled, immutable-once-built search-time state for
// TypeFilter, produced by CompileTables.
type FilterTables struct {
	shortExt      []uint32 // sorted packed extension codes, <=4 bytes
	longExt       map[string]struct{}
	literalNames  map[string]struct{}
	globs         []globEntry // ordered; CLI-level globs appended after type-derived ones
	firstLineRxen map[string]string
}

// TypeFilter classifies basenames for admission into the search. It is built
// once (type administration calls, then CompileTables) and is read-only
// thereafter, safe to share across Walker goroutines without synchronization.
type TypeFilter struct {
	defined          map[string]*TypeDef // every known type: builtins + user add/set
	enabled          map[string]bool     // the active type map
	removed          map[atomKey]bool    // atoms excluded by an explicit disable
	firstEnableSeen  bool
	extraIncludeGlob []string // --include=GLOB, appended last, always include
	extraExcludeGlob []string // --exclude=GLOB, appended last, always exclude

	tables FilterTables
}

type atomKey struct {
	kind  AtomKind
	value string
}

// BuiltinTypeNames returns the names of every built-in type, for CLI
// surfaces (like the `--TYPE`/`--noTYPE` shortcut form) that need to
// recognize type names before a TypeFilter has been constructed.
func BuiltinTypeNames() []string {
	names := make([]string, len(builtinTypes))
	for i, bt := range builtinTypes {
		names[i] = bt.Name
	}
	return names
}

// New constructs a TypeFilter seeded with the built-in type table. Every
// built-in type starts enabled — the same "active type map populated from
// builtins at construction" behavior as the original tool's TypeManager.
func New() *TypeFilter {
	tf := &TypeFilter{
		defined: make(map[string]*TypeDef, len(builtinTypes)),
		enabled: make(map[string]bool, len(builtinTypes)),
		removed: make(map[atomKey]bool),
	}
	for _, bt := range builtinTypes {
		cp := bt
		tf.defined[bt.Name] = &cp
		tf.enabled[bt.Name] = true
	}
	return tf
}

// AddType appends atoms to an existing type, or creates it if name is new —
// "duplicate definitions without set_type append."
func (tf *TypeFilter) AddType(name string, atoms []Atom) {
	if td, ok := tf.defined[name]; ok {
		td.Atoms = append(td.Atoms, atoms...)
		return
	}
	tf.defined[name] = &TypeDef{Name: name, Atoms: atoms}
}

// SetType replaces a type's atom list wholesale, defining it if new.
func (tf *TypeFilter) SetType(name string, atoms []Atom) {
	tf.defined[name] = &TypeDef{Name: name, Atoms: atoms}
}

// DelType removes a type definition entirely and disables it if active.
func (tf *TypeFilter) DelType(name string) {
	delete(tf.defined, name)
	delete(tf.enabled, name)
}

// Enable activates a type by name. The first Enable call on a freshly
// constructed TypeFilter clears every built-in enabled type first, so that
// call's type becomes the only one active; subsequent calls only add.
func (tf *TypeFilter) Enable(name string) {
	if !tf.firstEnableSeen {
		tf.firstEnableSeen = true
		for k := range tf.enabled {
			delete(tf.enabled, k)
		}
	}
	tf.enabled[name] = true
}

// Disable deactivates a type and records its atoms in the removed set, so
// CompileTables excludes them even if some other still-enabled type shares
// one of the same atoms.
func (tf *TypeFilter) Disable(name string) {
	delete(tf.enabled, name)
	if td, ok := tf.defined[name]; ok {
		for _, a := range td.Atoms {
			tf.removed[atomKey{a.Kind, a.Value}] = true
		}
	}
}

// AddIncludeGlob registers a standalone --include=GLOB rule, appended to the
// ordered glob list after every type-derived glob.
func (tf *TypeFilter) AddIncludeGlob(pattern string) {
	tf.extraIncludeGlob = append(tf.extraIncludeGlob, pattern)
}

// AddExcludeGlob registers a standalone --exclude=GLOB (alias --ignore=GLOB)
// rule, appended after every type-derived glob and after extra include
// globs, so an explicit --exclude always has the final say on a tie.
func (tf *TypeFilter) AddExcludeGlob(pattern string) {
	tf.extraExcludeGlob = append(tf.extraExcludeGlob, pattern)
}

// CompileTables walks the active type map and builds the sorted/hashed
// lookup structures Admit uses. Atoms present in the removed set (from an
// explicit Disable) are skipped regardless of which enabled type also lists
// them. Must be called once, after all type-administration calls and before
// the first Admit.
func (tf *TypeFilter) CompileTables() error {
	t := FilterTables{
		longExt:       make(map[string]struct{}),
		literalNames:  make(map[string]struct{}),
		firstLineRxen: make(map[string]string),
	}
	shortSet := make(map[uint32]struct{})

	names := make([]string, 0, len(tf.enabled))
	for name := range tf.enabled {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic compilation order

	for _, name := range names {
		td, ok := tf.defined[name]
		if !ok {
			continue
		}
		for _, a := range td.Atoms {
			if tf.removed[atomKey{a.Kind, a.Value}] {
				continue
			}
			switch a.Kind {
			case ExtAtom:
				ext := strings.TrimPrefix(a.Value, ".")
				if code, ok := packExt(ext); ok {
					shortSet[code] = struct{}{}
				} else {
					t.longExt[ext] = struct{}{}
				}
			case LiteralAtom:
				t.literalNames[a.Value] = struct{}{}
			case GlobAtom:
				g, err := glob.Compile(a.Value)
				if err != nil {
					return &TypeSpecError{Spec: a.Value, Reason: err.Error()}
				}
				t.globs = append(t.globs, globEntry{pattern: a.Value, g: g, include: true})
			case FirstLineRegexAtom:
				t.firstLineRxen[name] = a.Value
			}
		}
	}

	for _, pattern := range tf.extraIncludeGlob {
		g, err := glob.Compile(pattern)
		if err != nil {
			return &TypeSpecError{Spec: pattern, Reason: err.Error()}
		}
		t.globs = append(t.globs, globEntry{pattern: pattern, g: g, include: true})
	}
	for _, pattern := range tf.extraExcludeGlob {
		g, err := glob.Compile(pattern)
		if err != nil {
			return &TypeSpecError{Spec: pattern, Reason: err.Error()}
		}
		t.globs = append(t.globs, globEntry{pattern: pattern, g: g, include: false})
	}

	t.shortExt = make([]uint32, 0, len(shortSet))
	for code := range shortSet {
		t.shortExt = append(t.shortExt, code)
	}
	sort.Slice(t.shortExt, func(i, j int) bool { return t.shortExt[i] < t.shortExt[j] })

	tf.tables = t
	return nil
}

// Admit decides whether basename b should be scanned. CompileTables must
// have been called first; Admit itself does no allocation and no locking, so
// it's safe to call concurrently from every Walker worker.
func (tf *TypeFilter) Admit(b string) bool {
	candidate := false

	if ext, ok := extractExtension(b); ok {
		bare := ext[1:]
		if len(bare) <= 4 {
			if code, ok := packExt(bare); ok {
				candidate = sortedContainsU32(tf.tables.shortExt, code)
			}
		} else {
			_, candidate = tf.tables.longExt[bare]
		}
	}

	if !candidate {
		_, candidate = tf.tables.literalNames[b]
	}

	if candidate {
		for _, g := range tf.tables.globs {
			if !g.include && g.g.Match(b) {
				return false
			}
		}
		return true
	}

	matched, result := false, false
	for _, g := range tf.tables.globs {
		if g.g.Match(b) {
			matched = true
			result = g.include
		}
	}
	return matched && result
}

// DefinedNames returns every type name currently defined, builtin or
// user-added, for informational surfaces like --help-types.
func (tf *TypeFilter) DefinedNames() []string {
	names := make([]string, 0, len(tf.defined))
	for n := range tf.defined {
		names = append(names, n)
	}
	return names
}

// TypeAtoms returns a copy of the filter atoms belonging to a defined type,
// for informational surfaces like --help-types. ok is false for an unknown
// name.
func (tf *TypeFilter) TypeAtoms(name string) (atoms []Atom, ok bool) {
	td, ok := tf.defined[name]
	if !ok {
		return nil, false
	}
	atoms = make([]Atom, len(td.Atoms))
	copy(atoms, td.Atoms)
	return atoms, true
}

// extractExtension returns the substring from the last '.' to the end of b,
// including the dot, as long as that '.' isn't the first byte. ok is false
// when b has no usable extension (e.g. "Makefile", ".gitignore").
func extractExtension(b string) (ext string, ok bool) {
	idx := strings.LastIndexByte(b, '.')
	if idx <= 0 {
		return "", false
	}
	return b[idx:], true
}

// packExt packs up to 4 ASCII bytes of an extension (without its leading
// dot) into a big-endian uint32, padded with trailing zero bytes. Returns
// ok=false for extensions longer than 4 bytes, which must go through the
// hash-set path instead.
func packExt(ext string) (code uint32, ok bool) {
	if len(ext) == 0 || len(ext) > 4 {
		return 0, false
	}
	for i := 0; i < len(ext); i++ {
		code = code<<8 | uint32(ext[i])
	}
	code <<= uint32(8 * (4 - len(ext)))
	return code, true
}

func sortedContainsU32(xs []uint32, v uint32) bool {
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= v })
	return i < len(xs) && xs[i] == v
}
