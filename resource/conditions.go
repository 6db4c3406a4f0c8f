package resource

// FulfillsConditions reports whether e's own conditions hold for a
// candidate with the given full-line left and right contexts: case
// sensitivity, the four context regexes, and ::lcode-not.
func (e *Entry) FulfillsConditions(tokenSurf, left, right, langCode string) bool {
	if e.CaseSensitive && e.Surf != tokenSurf {
		return false
	}
	if e.LeftContext != nil && !e.LeftContext.MatchString(left) {
		return false
	}
	if e.LeftContextNot != nil && e.LeftContextNot.MatchString(left) {
		return false
	}
	if e.RightContext != nil && !e.RightContext.MatchString(right) {
		return false
	}
	if e.RightContextNot != nil && e.RightContextNot.MatchString(right) {
		return false
	}
	if langCode != "" && contains(e.LCodesNot, langCode) {
		return false
	}
	return true
}

// SurfacesBySemClass returns the surfaces of all entries carrying the
// given ::sem-class, lowercased.
func (d *Dict) SurfacesBySemClass(semClass string) []string {
	var out []string
	for key, entries := range d.entries {
		for _, e := range entries {
			if e.SemClass == semClass {
				out = append(out, key)
				break
			}
		}
	}
	return out
}
