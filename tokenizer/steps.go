package tokenizer

import (
	"strings"
	"unicode"

	"github.com/uhermjakob/utoken/charclass"
	"github.com/uhermjakob/utoken/chart"
	"github.com/uhermjakob/utoken/internal/ucase"
	"github.com/uhermjakob/utoken/resource"
)

// maxXMLTagLen bounds how far the XML finder scans for a closing >.
const maxXMLTagLen = 300

// findXML matches XML open/close/comment tags and common BBCode tags.
func findXML(t *Tokenizer, ln *line, i, j int) (match, bool) {
	for p := i; p < j; p++ {
		switch ln.src[p] {
		case '<':
			if end, ok := parseXMLTag(ln.src, p, j); ok {
				return oneToken(p, end, chart.XMLTag), true
			}
		case '[':
			if end, ok := parseBBCode(ln.lower, p, j); ok {
				return oneToken(p, end, chart.XMLTag), true
			}
		}
	}
	return match{}, false
}

func oneToken(a, b int, typ chart.TokenType) match {
	return match{pieces: []piece{{a: a, b: b, typ: typ}}}
}

func parseXMLTag(src []rune, p, j int) (int, bool) {
	if j > p+maxXMLTagLen {
		j = p + maxXMLTagLen
	}
	q := p + 1
	if q >= j {
		return 0, false
	}
	// Comment tag <!-- ... -->
	if src[q] == '!' && q+2 < j && src[q+1] == '-' && src[q+2] == '-' {
		for e := q + 3; e+2 < j; e++ {
			if src[e] == '-' && src[e+1] == '-' && src[e+2] == '>' {
				return e + 3, true
			}
		}
		return 0, false
	}
	// Template tag <$BlogBacklinkAuthor$>
	if src[q] == '$' {
		e := q + 1
		for e < j && (isASCIIAlnum(src[e]) || src[e] == '-' || src[e] == '_') {
			e++
		}
		if e > q+1 && e+1 < j && src[e] == '$' && src[e+1] == '>' {
			return e + 2, true
		}
		return 0, false
	}
	if src[q] == '/' {
		q++
	}
	if q >= j || !isASCIILetter(src[q]) {
		return 0, false
	}
	q++
	for q < j && isXMLNameRune(src[q]) {
		q++
	}
	// Attributes: name="value" or name='value'
	for {
		r := q
		for r < j && src[r] == ' ' {
			r++
		}
		if r == q || r >= j || !isASCIILetter(src[r]) {
			break
		}
		r++
		for r < j && isXMLNameRune(src[r]) {
			r++
		}
		if r >= j || src[r] != '=' {
			break
		}
		r++
		if r >= j || (src[r] != '"' && src[r] != '\'') {
			break
		}
		quote := src[r]
		r++
		for r < j && src[r] != quote {
			r++
		}
		if r >= j {
			return 0, false
		}
		q = r + 1
	}
	for q < j && src[q] == ' ' {
		q++
	}
	if q < j && src[q] == '/' {
		q++
	}
	if q < j && src[q] == '>' {
		return q + 1, true
	}
	return 0, false
}

var bbCodeTags = []string{"quote", "img", "indent", "url", "b", "i", "color", "center", "size"}
var bbCodeValueTags = []string{"quote", "url", "color", "size"}

func parseBBCode(lower []rune, p, j int) (int, bool) {
	q := p + 1
	if q >= j {
		return 0, false
	}
	closing := lower[q] == '/'
	if closing {
		q++
	}
	rest := string(lower[q:min(j, q+12)])
	for _, tag := range bbCodeTags {
		if !strings.HasPrefix(rest, tag) {
			continue
		}
		e := q + len(tag)
		if e < j && lower[e] == ']' {
			return e + 1, true
		}
		if closing || e >= j || lower[e] != '=' {
			continue
		}
		if !containsString(bbCodeValueTags, tag) {
			continue
		}
		for e++; e < j; e++ {
			switch lower[e] {
			case ']':
				return e + 1, true
			case '[', '\t', '\n':
				return 0, false
			}
		}
	}
	return 0, false
}

// urlSchemes are matched case-insensitively at the start of a URL.
var urlSchemes = []string{"https://", "http://", "ftps://", "ftp://", "mailto:"}

// findURL matches scheme-prefixed URLs and bare TLD-suffixed domains,
// validated against the top-level-domain table.
func findURL(t *Tokenizer, ln *line, i, j int) (match, bool) {
	if !spanHasDotLetterLetter(ln.src, i, j) {
		return match{}, false
	}
	for p := i; p < j; p++ {
		if end, ok := t.parseSchemeURL(ln, p, j); ok {
			return oneToken(p, end, chart.URL), true
		}
		if end, ok := t.parseBareURL(ln, p, j); ok {
			return oneToken(p, end, chart.URL), true
		}
	}
	return match{}, false
}

// spanHasDotLetterLetter is the cheap guard for URL and filename steps: a
// period followed by two letters somewhere in the span.
func spanHasDotLetterLetter(src []rune, i, j int) bool {
	for p := i; p+2 < j; p++ {
		if src[p] == '.' && isLetter(src[p+1]) && isLetter(src[p+2]) {
			return true
		}
	}
	return false
}

func (t *Tokenizer) parseSchemeURL(ln *line, p, j int) (int, bool) {
	rest := string(ln.lower[p:min(j, p+8)])
	scheme := ""
	for _, s := range urlSchemes {
		if strings.HasPrefix(rest, s) {
			scheme = s
			break
		}
	}
	if scheme == "" {
		return 0, false
	}
	q := p + len(scheme)
	end := q
	for end < j && isURLBodyRune(ln.src[end]) {
		end++
	}
	// The URL must end in a letter, digit, or slash; trailing punctuation
	// belongs to the sentence.
	for end > q && !isLetterOrDigit(ln.src[end-1]) && ln.src[end-1] != '/' {
		end--
	}
	if end <= q {
		return 0, false
	}
	return end, true
}

func isURLBodyRune(r rune) bool {
	if isLetterOrDigit(r) || isMark(r) {
		return true
	}
	switch r {
	case '-', '_', ',', '.', '/', ':', ';', '=', '?', '@', '\'', '`', '~',
		'#', '%', '&', '*', '+', '(', ')':
		return true
	}
	return false
}

func isURLLabelRune(r rune) bool {
	return isLetterOrDigit(r) || isMark(r) || r == '-' || r == '_'
}

// parseBareURL matches www.-prefixed and TLD-suffixed domains. The
// reliability tier of the TLD decides how much evidence the domain labels
// must provide: .com-class TLDs accept any label, two-letter country codes
// need a three-letter label, and word-like TLDs (.in, .so) need either a
// five-letter label or two labels ending in a short one.
func (t *Tokenizer) parseBareURL(ln *line, p, j int) (int, bool) {
	src := ln.src
	// No letters, @ or letter-period immediately before: news.bbc inside
	// an email address or word stays put.
	if p > 0 {
		prev := src[p-1]
		if isLetter(prev) || prev == '@' {
			return 0, false
		}
		if prev == '.' && p > 1 && isLetter(src[p-2]) {
			return 0, false
		}
	}
	if !isURLLabelRune(src[p]) {
		return 0, false
	}
	// Parse dot-separated labels.
	var labelLens []int
	q := p
	for {
		start := q
		for q < j && isURLLabelRune(src[q]) {
			q++
		}
		if q == start || q >= j || src[q] != '.' {
			// The final label is the TLD candidate.
			q = start
			break
		}
		labelLens = append(labelLens, q-start)
		q++
	}
	if len(labelLens) == 0 {
		return 0, false
	}
	tldStart := q
	for q < j && isLetter(src[q]) && src[q] < 0x250 {
		q++
	}
	tld := string(src[tldStart:q])
	if len(tld) < 2 {
		return 0, false
	}
	www := ln.lower[p] == 'w' && labelLens[0] == 3 &&
		string(ln.lower[p:p+3]) == "www" && len(labelLens) >= 2
	if www {
		if len(tld) > 4 || !isASCIITLD(tld) {
			return 0, false
		}
	} else {
		switch t.tlds.Reliability(tld) {
		case resource.HighReliability:
		case resource.NormalReliability:
			if maxInt(labelLens) < 3 {
				return 0, false
			}
		case resource.LowReliability:
			last := labelLens[len(labelLens)-1]
			if maxInt(labelLens) < 5 &&
				!(len(labelLens) >= 2 && maxInt(labelLens) >= 3 && last >= 2 && last <= 3) {
				return 0, false
			}
		default:
			return 0, false
		}
	}
	end := q
	// Optional path, query, and fragment.
	if end < j && src[end] == '/' {
		end++
		for end < j && isURLBodyRune(src[end]) {
			end++
		}
		for end > q+1 && !isLetterOrDigit(src[end-1]) && src[end-1] != '/' {
			end--
		}
	}
	// No letters directly after, including after a period.
	if end < j && isLetter(src[end]) {
		return 0, false
	}
	if end+1 < j && src[end] == '.' && isLetter(src[end+1]) {
		return 0, false
	}
	return end, true
}

func isASCIITLD(s string) bool {
	for _, r := range s {
		if !isASCIILetter(r) {
			return false
		}
	}
	return true
}

// findEmail matches local@domain addresses whose domain ends in a known
// top-level domain. The finder locates each @ and scans outwards, the way
// a reader does.
func findEmail(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p < j; p++ {
		if src[p] != '@' {
			continue
		}
		// Backtrack over the local part, which must start with a letter.
		start := p
		for start > i && isEmailLocalRune(src[start-1]) {
			start--
		}
		for start < p && !isLetter(src[start]) {
			start++
		}
		if start == p || !isLetterOrDigit(src[p-1]) {
			continue
		}
		if start > i {
			prev := src[start-1]
			if isLetter(prev) || isDigit(prev) || prev == '.' {
				continue
			}
		}
		// Scan the domain.
		q := p + 1
		for q < j && isEmailDomainRune(src[q]) {
			q++
		}
		for q > p+1 && !isLetterOrDigit(src[q-1]) {
			q--
		}
		domain := string(src[p+1 : q])
		lastDot := strings.LastIndex(domain, ".")
		if lastDot < 1 {
			continue
		}
		tld := domain[lastDot+1:]
		if len(tld) < 2 || !t.tlds.Contains(tld) {
			continue
		}
		// The address may be followed by sentence punctuation but not by
		// more address material.
		if q < j && (isLetterOrDigit(src[q]) || isMark(src[q])) {
			continue
		}
		if q+1 < j && src[q] == '.' && isLetterOrDigit(src[q+1]) {
			continue
		}
		return oneToken(start, q, chart.Email), true
	}
	return match{}, false
}

func isEmailLocalRune(r rune) bool {
	return isLetterOrDigit(r) || r == '.' || r == '_' || r == '+' || r == '-'
}

func isEmailDomainRune(r rune) bool {
	return isLetterOrDigit(r) || r == '.' || r == '-' || r == '_'
}

// findFilename matches filename-like tokens whose extension is registered
// in the resource data (sem-class filename-extension).
func findFilename(t *Tokenizer, ln *line, i, j int) (match, bool) {
	if len(t.fileExts) == 0 || !spanHasDotLetterLetter(ln.src, i, j) {
		return match{}, false
	}
	src := ln.src
	for p := i; p < j; p++ {
		if !isLetterOrDigit(src[p]) && src[p] != '/' {
			continue
		}
		if p > i {
			prev := src[p-1]
			if isLetterOrDigit(prev) || prev == '-' || prev == '_' || prev == '.' || prev == '@' {
				continue
			}
		}
		q := p
		for q < j && isFilenameRune(src[q]) {
			q++
		}
		if q < j && isLetterOrDigit(src[q]) {
			continue
		}
		// The run must end in a known extension.
		run := ln.lower[p:q]
		dot := -1
		for k := len(run) - 1; k >= 0; k-- {
			if run[k] == '.' {
				dot = k
				break
			}
		}
		if dot <= 0 || !t.fileExts[string(run[dot+1:])] {
			continue
		}
		return oneToken(p, q, chart.Filename), true
	}
	return match{}, false
}

func isFilenameRune(r rune) bool {
	return isLetterOrDigit(r) || r == '-' || r == '_' || r == '.' || r == '/'
}

// findSymbolGroup matches maximal runs of symbol and pictograph
// characters. Resource non-symbol entries veto runs that are meaningful
// text in context (e.g. arrows used as bullets).
func findSymbolGroup(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	start := -1
	for p := i; p <= j; p++ {
		var v charclass.Vector
		if p < j {
			v = charclass.RuneVector(src[p])
		}
		switch {
		case p < j && v.Has(charclass.MiscSymbol):
			if start < 0 {
				start = p
			}
		case p < j && v.Has(charclass.VariationSelector) && start >= 0:
			// selectors ride along with the symbol before them
		default:
			if start < 0 {
				continue
			}
			if t.validSymbolGroup(ln, start, p) {
				m := oneToken(start, p, chart.EmojiSeq)
				m.leftDone = true
				return m, true
			}
			start = -1
		}
	}
	return match{}, false
}

func (t *Tokenizer) validSymbolGroup(ln *line, a, b int) bool {
	candidate := ln.str(a, b)
	for _, e := range t.dict.Lookup(ucase.ToLower(candidate)) {
		if e.Kind == resource.KindNonSymbol &&
			e.FulfillsConditions(candidate, ln.left(a), ln.right(b), t.langCode) {
			return false
		}
	}
	return true
}

// findHashtagHandle matches #hashtags and @handles whose identifier is
// letters, digits, or underscore.
func findHashtagHandle(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p < j; p++ {
		if src[p] != '#' && src[p] != '@' {
			continue
		}
		if p > i && !isHashtagBoundaryRune(src[p-1]) {
			continue
		}
		q := p + 1
		for q < j && (isLetterOrDigit(src[q]) || src[q] == '_' || src[q] == '\u200C') {
			q++
		}
		if q == p+1 {
			continue
		}
		if q+1 < j && src[q] == '.' && isLetterOrDigit(src[q+1]) {
			continue
		}
		typ := chart.Handle
		if src[p] == '#' {
			typ = chart.Hashtag
		}
		return oneToken(p, q, typ), true
	}
	return match{}, false
}

func isHashtagBoundaryRune(r rune) bool {
	switch r {
	case ' ', '.', ',', ';', '(', ')', '[', ']', '{', '}', '\'':
		return true
	}
	return isSpace(r)
}

// findAbbrevPattern matches acronym-product abbreviations such as F-15B or
// B-52s: capital letters, a dash, and up to three digits or capitals.
func findAbbrevPattern(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p < j; p++ {
		if !isUpper(src[p]) {
			continue
		}
		if p > i {
			prev := src[p-1]
			if isLetterOrDigit(prev) || ucase.IsDash(prev) {
				continue
			}
		}
		q := p
		for q < j && isUpper(src[q]) {
			q++
		}
		if q >= j || !ucase.IsDash(src[q]) {
			continue
		}
		r := q + 1
		count := 0
		for r < j && count < 3 && (isDigit(src[r]) || isUpper(src[r])) {
			r++
			count++
			for r < j && isMark(src[r]) {
				r++
			}
		}
		if count == 0 {
			continue
		}
		if r < j && src[r] == 's' {
			r++
		}
		if r < j && (isLetterOrDigit(src[r]) || ucase.IsDash(src[r])) {
			continue
		}
		return oneToken(p, r, chart.Abbrev), true
	}
	return match{}, false
}

// findAbbrevInitials splits a name initial off a run like J.F.Kennedy.
func findAbbrevInitials(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p+1 < j; p++ {
		if !isUpper(src[p]) || src[p+1] != '.' {
			continue
		}
		if p > i && isLetter(src[p-1]) {
			continue
		}
		if initialRightContextOK(src, p+2, j) {
			return oneToken(p, p+2, chart.Abbrev), true
		}
	}
	return match{}, false
}

// initialRightContextOK requires further initials and/or a capitalized
// name after an initial: "F.Kennedy", " F. Kennedy", "McC...".
func initialRightContextOK(src []rune, q, j int) bool {
	if q < j && src[q] == ' ' {
		q++
	}
	for q+1 < j && isUpper(src[q]) && src[q+1] == '.' {
		q += 2
		if q < j && src[q] == ' ' {
			q++
		}
	}
	// Mc/O' prefixed capital counts as a name start.
	if q+2 < j && isUpper(src[q]) {
		if src[q] == 'M' && src[q+1] == 'c' && isUpper(src[q+2]) {
			return true
		}
		if src[q] == 'O' && ucase.IsApostrophe(src[q+1]) && isUpper(src[q+2]) {
			return true
		}
	}
	// A capitalized word of three or more letters.
	if q+2 < j && isUpper(src[q]) && isLower(src[q+1]) && isLower(src[q+2]) {
		return true
	}
	return false
}

// findAbbrevPeriods matches period-run acronyms such as B.A.T. or e.g.
// fallbacks not in the resource tables: two or more groups of one or two
// letters each followed by a period.
func findAbbrevPeriods(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p < j; p++ {
		if !isLetter(src[p]) {
			continue
		}
		if p > i {
			prev := src[p-1]
			if isLetterOrDigit(prev) || ucase.IsDash(prev) || prev == '.' {
				continue
			}
		}
		q := p
		groups := 0
		for q < j && isLetter(src[q]) {
			r := q + 1
			for r < j && isMark(src[r]) {
				r++
			}
			if r < j && isLetter(src[r]) {
				r++
				for r < j && isMark(src[r]) {
					r++
				}
			}
			if r >= j || src[r] != '.' {
				break
			}
			q = r + 1
			groups++
		}
		if groups < 2 {
			continue
		}
		if q < j && (isLetterOrDigit(src[q]) || src[q] == '.') {
			continue
		}
		return oneToken(p, q, chart.Abbrev), true
	}
	return match{}, false
}

// englishSuffixContractions are the clitic suffixes split off after an
// apostrophe: John's -> John 's, he'd -> he 'd.
var englishSuffixContractions = []string{"ve", "re", "ll", "em", "d", "m", "s"}

// findSuffixContraction splits apostrophe-clitic contractions. Only an
// apostrophe directly after an ASCII letter is considered, so Greek elision
// (a final apostrophe after Greek letters) is not split here.
func findSuffixContraction(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i + 1; p < j; p++ {
		if !ucase.IsApostrophe(src[p]) {
			continue
		}
		if !isASCIILetter(src[p-1]) {
			continue
		}
		rest := ln.lower[p+1 : j]
		for _, suf := range englishSuffixContractions {
			if !hasRunePrefix(rest, suf) {
				continue
			}
			end := p + 1 + len(suf)
			if end < j && isLetterOrDigit(src[end]) {
				break
			}
			m := oneToken(p, end, chart.Decontraction)
			return m, true
		}
	}
	return match{}, false
}

func hasRunePrefix(rs []rune, s string) bool {
	i := 0
	for _, r := range s {
		if i >= len(rs) || rs[i] != r {
			return false
		}
		i++
	}
	return true
}

// nameBridges join capitalized name parts in multi-dash names such as
// Stratford-upon-Avon or Port-de-Paix.
var nameBridges = map[string]bool{
	"de": true, "du": true, "e": true, "en": true, "et": true, "i": true,
	"la": true, "le": true, "upon": true, "sur": true,
}

// findMultiDashName matches capitalized multi-dash place names with a
// lowercase bridge word.
func findMultiDashName(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p < j; p++ {
		if !isUpper(src[p]) {
			continue
		}
		if p > i {
			prev := src[p-1]
			if isLetterOrDigit(prev) || ucase.IsDash(prev) || prev == '.' ||
				prev == '+' || ucase.IsApostrophe(prev) {
				continue
			}
		}
		end, ok := parseMultiDashName(src, ln.lower, p, j)
		if !ok {
			continue
		}
		if end < j && (isLetterOrDigit(src[end]) || ucase.IsDash(src[end]) || src[end] == '.') {
			continue
		}
		return oneToken(p, end, chart.Lexical), true
	}
	return match{}, false
}

func parseMultiDashName(src, lower []rune, p, j int) (int, bool) {
	end, ok := parseCapWords(src, p, j)
	if !ok {
		return 0, false
	}
	bridges := 0
	for end < j && ucase.IsDash(src[end]) {
		bStart := end + 1
		bEnd := bStart
		for bEnd < j && isLower(src[bEnd]) {
			bEnd++
		}
		if !nameBridges[string(lower[bStart:bEnd])] || bEnd >= j || !ucase.IsDash(src[bEnd]) {
			break
		}
		next, ok := parseCapWords(src, bEnd+1, j)
		if !ok {
			break
		}
		end = next
		bridges++
	}
	if bridges == 0 {
		return 0, false
	}
	return end, true
}

// parseCapWords parses one or more dash-joined capitalized words.
func parseCapWords(src []rune, p, j int) (int, bool) {
	end, ok := parseCapWord(src, p, j)
	if !ok {
		return 0, false
	}
	for end < j && ucase.IsDash(src[end]) {
		next, ok := parseCapWord(src, end+1, j)
		if !ok {
			break
		}
		end = next
	}
	return end, true
}

func parseCapWord(src []rune, p, j int) (int, bool) {
	if p >= j || !isUpper(src[p]) {
		return 0, false
	}
	q := p + 1
	lowers := 0
	for q < j && (isLower(src[q]) || isMark(src[q])) {
		if isLower(src[q]) {
			lowers++
		}
		q++
	}
	if lowers == 0 {
		return 0, false
	}
	return q, true
}

// findMTPunct preserves tokens already decorated with attach tags (@-@)
// and splits dash runs between words.
func findMTPunct(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	if ln.lv.Has(charclass.AttachTag) {
		// Whitespace-delimited tokens that look like markup pass through.
		p := i
		for p < j {
			for p < j && isSpace(src[p]) {
				p++
			}
			q := p
			for q < j && !isSpace(src[q]) {
				q++
			}
			if q > p {
				tok := ln.str(p, q)
				if strings.ContainsRune(tok, '@') && t.detok.IsMarkupToken(tok) {
					return oneToken(p, q, chart.Markup), true
				}
			}
			p = q
		}
	}
	// A dash run between two-letter-or-longer words, digits, or closing
	// !?’ splits off.
	for p := i + 1; p < j; p++ {
		if !ucase.IsDash(src[p]) {
			continue
		}
		prev := src[p-1]
		leftOK := isDigit(prev) || prev == '!' || prev == '?' || prev == '’' ||
			(isLetter(prev) && p-2 >= i && letterBeforeMarks(src, i, p-1))
		if !leftOK {
			continue
		}
		q := p
		for q < j && ucase.IsDash(src[q]) {
			q++
		}
		if q >= j {
			break
		}
		next := src[q]
		rightOK := isDigit(next) ||
			(isLetter(next) && q+1 < j && (isLetter(src[q+1]) || isMark(src[q+1])))
		if !rightOK {
			continue
		}
		return oneToken(p, q, chart.Punct), true
	}
	return match{}, false
}

// letterBeforeMarks reports whether the rune before position p (skipping
// combining marks) is also a letter, i.e. p ends a two-letter-or-longer
// word.
func letterBeforeMarks(src []rune, i, p int) bool {
	q := p - 1
	for q >= i && isMark(src[q]) {
		q--
	}
	return q >= i && isLetter(src[q])
}

// findPostPunctNumber splits a leading integer from a directly following
// word: 5weeks -> 5 weeks.
func findPostPunctNumber(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for p := i; p < j; p++ {
		if !isDigit(src[p]) {
			continue
		}
		if p > i {
			prev := src[p-1]
			if isLetterOrDigit(prev) || ucase.IsDash(prev) || prev == '+' || prev == '.' {
				continue
			}
		}
		q := p
		for q < j && isDigit(src[q]) {
			q++
		}
		if q < j && (isLetter(src[q]) || src[q] == '/') {
			return oneToken(p, q, chart.Number), true
		}
	}
	return match{}, false
}

// ASCII predicates.

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIAlnum(r rune) bool {
	return isASCIILetter(r) || (r >= '0' && r <= '9')
}

func isXMLNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_' || r == ':'
}

func isUpper(r rune) bool { return unicode.IsUpper(r) }

func isLower(r rune) bool { return unicode.IsLower(r) }

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func maxInt(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
