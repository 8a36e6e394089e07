package hierarchy

// CodeSet is the set of codes available to parent resolution.
type CodeSet map[string]struct{}

// NewCodeSet builds a CodeSet from a list of codes.
func NewCodeSet(codes []string) CodeSet {
	set := make(CodeSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Has reports whether code is in the set.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// ResolveParent infers the immediate ancestor of code.
//
// Prefixes are tried longest first, each in dotted form and then undotted
// form, against the available set. When none match, the first three
// characters are returned even if that category is not available. Codes of
// category length have no parent and ok is false. Lengths count characters,
// not bytes.
func ResolveParent(code string, available CodeSet) (parent string, ok bool) {
	clean := []rune(Clean(code))
	if len(clean) <= categoryLength {
		return "", false
	}

	for i := len(clean) - 1; i >= categoryLength; i-- {
		prefix := string(clean[:i])
		if withDot := dotted(prefix); available.Has(withDot) {
			return withDot, true
		}
		if available.Has(prefix) {
			return prefix, true
		}
	}

	return string(clean[:categoryLength]), true
}
