package typefilter

// builtinTypes is the default type table: the same set the original ucg
// ships with (its TypeManager.cpp f_builtin_type_array), re-expressed as
// TypeDef/Atom values. Entries that look like "/regex/" in the original are
// FirstLineRegexAtoms — recognized but not evaluated, per spec §9. Entries
// with no leading dot are literal basenames (Makefile, CMakeLists.txt, ...).
var builtinTypes = []TypeDef{
	ext("actionscript", ".as", ".mxml"),
	ext("ada", ".ada", ".adb", ".ads"),
	ext("asm", ".asm", ".s", ".S"),
	ext("asp", ".asp"),
	ext("aspx", ".master", ".ascx", ".asmx", ".aspx", ".svc"),
	ext("autoconf", ".ac", ".in"),
	ext("automake", ".am", ".in"),
	ext("awk", ".awk"),
	ext("batch", ".bat", ".cmd"),
	mixed("cc", extAtom(".c"), extAtom(".h"), extAtom(".xs")),
	ext("cfmx", ".cfc", ".cfm", ".cfml"),
	ext("clojure", ".clj"),
	mixed("cmake", name("CMakeLists.txt"), extAtom(".cmake")),
	ext("coffeescript", ".coffee"),
	ext("cpp", ".cpp", ".cc", ".cxx", ".m", ".hpp", ".hh", ".h", ".hxx"),
	ext("csharp", ".cs"),
	ext("css", ".css"),
	ext("dart", ".dart"),
	ext("delphi", ".pas", ".int", ".dfm", ".nfm", ".dof", ".dpk", ".dproj", ".groupproj", ".bdsgroup", ".bdsproj"),
	ext("elisp", ".el"),
	ext("elixir", ".ex", ".exs"),
	ext("erlang", ".erl", ".hrl"),
	ext("fortran", ".f", ".f77", ".f90", ".f95", ".f03", ".for", ".ftn", ".fpp"),
	ext("go", ".go"),
	ext("groovy", ".groovy", ".gtmpl", ".gpp", ".grunit", ".gradle"),
	ext("haskell", ".hs", ".lhs"),
	ext("hh", ".h"),
	ext("html", ".htm", ".html"),
	ext("jade", ".jade"),
	ext("java", ".java", ".properties"),
	ext("js", ".js"),
	ext("json", ".json"),
	ext("jsp", ".jsp", ".jspx", ".jhtm", ".jhtml"),
	ext("less", ".less"),
	ext("lisp", ".lisp", ".lsp"),
	mixed("lua", extAtom(".lua"), shebang(`^#!.*\blua(jit)?`)),
	ext("m4", ".m4"),
	mixed("make", extAtom(".mk"), extAtom(".mak"), name("makefile"), name("Makefile"), name("Makefile.Debug"), name("Makefile.Release")),
	ext("matlab", ".m"),
	ext("objc", ".m", ".h"),
	ext("objcpp", ".mm", ".h"),
	ext("ocaml", ".ml", ".mli"),
	ext("parrot", ".pir", ".pasm", ".pmc", ".ops", ".pod", ".pg", ".tg"),
	mixed("perl", extAtom(".pl"), extAtom(".pm"), extAtom(".pod"), extAtom(".t"), extAtom(".psgi"), shebang(`^#!.*\bperl`)),
	ext("perltest", ".t"),
	mixed("php", extAtom(".php"), extAtom(".phpt"), extAtom(".php3"), extAtom(".php4"), extAtom(".php5"), extAtom(".phtml"), shebang(`^#!.*\bphp`)),
	ext("plone", ".pt", ".cpt", ".metadata", ".cpy", ".py"),
	mixed("python", extAtom(".py"), shebang(`^#!.*\bpython`)),
	mixed("rake", name("Rakefile")),
	ext("rr", ".R"),
	ext("rst", ".rst"),
	mixed("ruby", extAtom(".rb"), extAtom(".rhtml"), extAtom(".rjs"), extAtom(".rxml"), extAtom(".erb"), extAtom(".rake"), extAtom(".spec"), name("Rakefile"), shebang(`^#!.*\bruby`)),
	ext("rust", ".rs"),
	ext("sass", ".sass", ".scss"),
	ext("scala", ".scala"),
	ext("scheme", ".scm", ".ss"),
	mixed("shell", extAtom(".sh"), extAtom(".bash"), extAtom(".csh"), extAtom(".tcsh"), extAtom(".ksh"), extAtom(".zsh"), extAtom(".fish"), shebang(`^#!.*\b(?:ba|t?c|k|z|fi)?sh\b`)),
	ext("smalltalk", ".st"),
	ext("smarty", ".tpl"),
	ext("sql", ".sql", ".ctl"),
	ext("stylus", ".styl"),
	ext("tcl", ".tcl", ".itcl", ".itk"),
	ext("tex", ".tex", ".cls", ".sty"),
	mixed("text", extAtom(".txt"), name("ChangeLog"), name("README")),
	ext("tt", ".tt", ".tt2", ".ttml"),
	ext("vb", ".bas", ".cls", ".frm", ".ctl", ".vb", ".resx"),
	ext("verilog", ".v", ".vh", ".sv"),
	ext("vhdl", ".vhd", ".vhdl"),
	ext("vim", ".vim"),
	mixed("xml", extAtom(".xml"), extAtom(".dtd"), extAtom(".xsl"), extAtom(".xslt"), extAtom(".ent"), shebang(`<[?]xml`)),
	ext("yaml", ".yaml", ".yml"),
	// Corresponds to files ack treats as non-binary by content-sniffing; we
	// admit them by extension/name only (spec §9: no content-based typing).
	mixed("miscellaneous", extAtom(".qbk"), extAtom(".w"), extAtom(".ipp"), extAtom(".patch"), name("configure")),
}

func ext(typeName string, exts ...string) TypeDef {
	atoms := make([]Atom, len(exts))
	for i, e := range exts {
		atoms[i] = Atom{Kind: ExtAtom, Value: e}
	}
	return TypeDef{Name: typeName, Atoms: atoms}
}

func mixed(typeName string, atoms ...Atom) TypeDef {
	return TypeDef{Name: typeName, Atoms: atoms}
}

func extAtom(e string) Atom       { return Atom{Kind: ExtAtom, Value: e} }
func name(n string) Atom          { return Atom{Kind: LiteralAtom, Value: n} }
func shebang(pattern string) Atom { return Atom{Kind: FirstLineRegexAtom, Value: pattern} }
