package typefilter

import "testing"

func TestAdmitBuiltinGoExtension(t *testing.T) {
	tf := New()
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("main.go") {
		t.Error("main.go should be admitted by the builtin go type")
	}
	if tf.Admit("main.log") {
		t.Error("main.log should not be admitted: no builtin type lists .log")
	}
}

func TestAdmitLongVsShortExtensionParity(t *testing.T) {
	// ".properties" (11 bytes) must go through the long-extension hash path,
	// ".go" (2 bytes) through the packed short-extension path; both must
	// answer Admit identically for a matching name.
	tf := New()
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("app.properties") {
		t.Error("app.properties should be admitted via the long-extension path")
	}
	if !tf.Admit("main.go") {
		t.Error("main.go should be admitted via the short-extension path")
	}
}

func TestAdmitLiteralName(t *testing.T) {
	tf := New()
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("Makefile") {
		t.Error("Makefile should be admitted by the builtin make type's literal atom")
	}
	if !tf.Admit("CMakeLists.txt") {
		t.Error("CMakeLists.txt should be admitted by the builtin cmake type's literal atom")
	}
}

func TestAdmitNoExtensionNoLiteralIsRejected(t *testing.T) {
	tf := New()
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if tf.Admit("README_UNKNOWN_NAME") {
		t.Error("a name with no matching extension, literal, or glob should be rejected")
	}
}

func TestCandidateIncludeRejectedByExcludeGlob(t *testing.T) {
	tf := New()
	tf.AddExcludeGlob("*_generated.go")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("main.go") {
		t.Error("main.go should still be admitted")
	}
	if tf.Admit("api_generated.go") {
		t.Error("api_generated.go is a candidate include but should be rejected by the exclude glob")
	}
}

func TestCandidateIncludeIgnoresIncludeGlobs(t *testing.T) {
	// Step 4 of Admit: a candidate include consults ONLY exclude globs. An
	// include glob that doesn't match must not affect the outcome.
	tf := New()
	tf.AddIncludeGlob("*.neverMatchesThis")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("main.go") {
		t.Error("candidate include main.go must be admitted regardless of non-matching include globs")
	}
}

func TestNonCandidateDecidedByLastMatchingGlob(t *testing.T) {
	tf := New()
	tf.AddIncludeGlob("special.*")
	tf.AddExcludeGlob("special.dat")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	// Both globs match special.dat; the exclude was added last, so it wins.
	if tf.Admit("special.dat") {
		t.Error("special.dat: last-matching-glob (exclude) should win")
	}
	// special.cfg only matches the include glob.
	if !tf.Admit("special.cfg") {
		t.Error("special.cfg: should be admitted by the only matching (include) glob")
	}
}

func TestNonCandidateWithNoMatchIsRejected(t *testing.T) {
	tf := New()
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if tf.Admit("unknown.xyz123") {
		t.Error("a name matching no extension, literal, or glob must be rejected")
	}
}

func TestEnableFirstCallClearsBuiltins(t *testing.T) {
	tf := New()
	tf.Enable("go")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("main.go") {
		t.Error("main.go should be admitted: go was explicitly enabled")
	}
	if tf.Admit("main.rb") {
		t.Error("main.rb should be rejected: first Enable call clears every other builtin")
	}
}

func TestEnableSecondCallIsAdditive(t *testing.T) {
	tf := New()
	tf.Enable("go")
	tf.Enable("ruby")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("main.go") || !tf.Admit("main.rb") {
		t.Error("both go and ruby should be admitted after two Enable calls")
	}
}

func TestDisableRemovesSharedAtomEvenIfOtherTypeHasIt(t *testing.T) {
	// "cpp" and "objc" both list ".h". Disabling cpp must not resurrect .h via
	// objc, since the atom is recorded in the removed set independent of name.
	tf := New()
	tf.Disable("cpp")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if tf.Admit("foo.h") {
		t.Error("foo.h should be rejected: .h was removed via Disable(\"cpp\") and objc shares the same atom")
	}
}

func TestAddTypeAppendsToExisting(t *testing.T) {
	tf := New()
	tf.AddType("go", []Atom{{Kind: ExtAtom, Value: ".gotmpl"}})
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if !tf.Admit("main.go") {
		t.Error("main.go should still be admitted after AddType appends to go")
	}
	if !tf.Admit("page.gotmpl") {
		t.Error("page.gotmpl should be admitted: appended via AddType")
	}
}

func TestSetTypeReplacesWholesale(t *testing.T) {
	tf := New()
	tf.SetType("go", []Atom{{Kind: ExtAtom, Value: ".gotmpl"}})
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if tf.Admit("main.go") {
		t.Error("main.go should no longer be admitted: SetType replaced the go type's atoms")
	}
	if !tf.Admit("page.gotmpl") {
		t.Error("page.gotmpl should be admitted: the new sole atom of go")
	}
}

func TestDelTypeRemovesDefinitionAndDisables(t *testing.T) {
	tf := New()
	tf.DelType("go")
	if err := tf.CompileTables(); err != nil {
		t.Fatalf("CompileTables: %v", err)
	}
	if tf.Admit("main.go") {
		t.Error("main.go should be rejected: go type was deleted")
	}
}

func TestCompileTablesRejectsMalformedGlob(t *testing.T) {
	tf := New()
	tf.AddIncludeGlob("[")
	if err := tf.CompileTables(); err == nil {
		t.Fatal("expected an error compiling a malformed glob pattern")
	} else if _, ok := err.(*TypeSpecError); !ok {
		t.Fatalf("expected *TypeSpecError, got %T", err)
	}
}

func TestParseFilterSpecExt(t *testing.T) {
	atoms, err := ParseFilterSpec("ext:c,h,cpp")
	if err != nil {
		t.Fatalf("ParseFilterSpec: %v", err)
	}
	if len(atoms) != 3 {
		t.Fatalf("got %d atoms, want 3", len(atoms))
	}
	want := []string{".c", ".h", ".cpp"}
	for i, a := range atoms {
		if a.Kind != ExtAtom || a.Value != want[i] {
			t.Errorf("atom %d = %+v, want ExtAtom %q", i, a, want[i])
		}
	}
}

func TestParseFilterSpecGlob(t *testing.T) {
	atoms, err := ParseFilterSpec("glob:*.gen.go")
	if err != nil {
		t.Fatalf("ParseFilterSpec: %v", err)
	}
	if len(atoms) != 1 || atoms[0].Kind != GlobAtom || atoms[0].Value != "*.gen.go" {
		t.Fatalf("got %+v", atoms)
	}
}

func TestParseFilterSpecIs(t *testing.T) {
	atoms, err := ParseFilterSpec("is:Makefile")
	if err != nil {
		t.Fatalf("ParseFilterSpec: %v", err)
	}
	if len(atoms) != 1 || atoms[0].Kind != LiteralAtom || atoms[0].Value != "Makefile" {
		t.Fatalf("got %+v", atoms)
	}
}

func TestParseFilterSpecUnknownKind(t *testing.T) {
	if _, err := ParseFilterSpec("bogus:foo"); err == nil {
		t.Fatal("expected an error for an unknown filter kind")
	}
}

func TestParseTypeSpecFull(t *testing.T) {
	name, atoms, err := ParseTypeSpec("mytype:ext:foo,bar")
	if err != nil {
		t.Fatalf("ParseTypeSpec: %v", err)
	}
	if name != "mytype" {
		t.Fatalf("got name %q, want mytype", name)
	}
	if len(atoms) != 2 {
		t.Fatalf("got %d atoms, want 2", len(atoms))
	}
}

func TestParseTypeSpecMissingName(t *testing.T) {
	if _, _, err := ParseTypeSpec("noSeparatorHere"); err == nil {
		t.Fatal("expected an error when NAME:FILTER:ARGS has no separator")
	}
}
