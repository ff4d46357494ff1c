package typefilter

import "strings"

// ParseFilterSpec parses one "FILTER:ARGS" clause of a type spec, e.g.
// "ext:c,h,cpp" or "glob:*.gen.go" or "is:NAME". Multiple comma-separated
// ARGS in an ext: clause each become their own Atom.
func ParseFilterSpec(spec string) ([]Atom, error) {
	kind, args, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, &TypeSpecError{Spec: spec, Reason: "expected FILTER:ARGS"}
	}
	switch kind {
	case "ext":
		parts := strings.Split(args, ",")
		atoms := make([]Atom, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !strings.HasPrefix(p, ".") {
				p = "." + p
			}
			atoms = append(atoms, Atom{Kind: ExtAtom, Value: p})
		}
		if len(atoms) == 0 {
			return nil, &TypeSpecError{Spec: spec, Reason: "ext: requires at least one extension"}
		}
		return atoms, nil
	case "glob":
		if args == "" {
			return nil, &TypeSpecError{Spec: spec, Reason: "glob: requires a pattern"}
		}
		return []Atom{{Kind: GlobAtom, Value: args}}, nil
	case "globx":
		// globx differs from glob in the original tool only in how it's
		// reported in --help-types output; the matching semantics are the
		// same POSIX glob match against the basename.
		if args == "" {
			return nil, &TypeSpecError{Spec: spec, Reason: "globx: requires a pattern"}
		}
		return []Atom{{Kind: GlobAtom, Value: args}}, nil
	case "is":
		if args == "" {
			return nil, &TypeSpecError{Spec: spec, Reason: "is: requires a literal name"}
		}
		return []Atom{{Kind: LiteralAtom, Value: args}}, nil
	default:
		return nil, &TypeSpecError{Spec: spec, Reason: "unknown filter kind " + kind + " (want is, ext, glob, or globx)"}
	}
}

// ParseTypeSpec parses a full "NAME:FILTER:ARGS" type-add/type-set spec into
// a type name and its atoms.
func ParseTypeSpec(spec string) (name string, atoms []Atom, err error) {
	name, rest, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return "", nil, &TypeSpecError{Spec: spec, Reason: "expected NAME:FILTER:ARGS"}
	}
	atoms, err = ParseFilterSpec(rest)
	if err != nil {
		return "", nil, err
	}
	return name, atoms, nil
}
