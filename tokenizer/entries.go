package tokenizer

import (
	"strings"

	"github.com/uhermjakob/utoken/charclass"
	"github.com/uhermjakob/utoken/chart"
	"github.com/uhermjakob/utoken/internal/ucase"
	"github.com/uhermjakob/utoken/resource"
)

// findResourceEntries scans the span for the leftmost, longest match
// against the abbreviation, contraction, repair, and priority-lexical
// tables. The scan skips positions that cannot start a token (a letter
// preceded by a letter, a digit preceded by a digit) and uses the prefix
// set to bound the longest-match search.
func findResourceEntries(t *Tokenizer, ln *line, i, j int) (match, bool) {
	var lastPrimary charclass.Vector
	for start := i; start < j; start++ {
		cv := charclass.RuneVector(ln.src[start])
		if cv.Has(charclass.CombiningMark) {
			continue
		}
		if lastPrimary.Has(charclass.Letter) && cv.Has(charclass.Letter) {
			lastPrimary = cv
			continue
		}
		if lastPrimary.Has(charclass.Digit) && cv.Has(charclass.Digit) {
			lastPrimary = cv
			continue
		}
		lastPrimary = cv

		maxEnd := start
		for pos := start + 1; pos <= j; pos++ {
			if !t.dict.HasPrefix(string(ln.lower[start:pos])) {
				break
			}
			maxEnd = pos
		}
		for end := maxEnd; end > start; end-- {
			candidate := ln.str(start, end)
			if !t.generalContextOK(ln, start, end, candidate) {
				continue
			}
			lcCandidate := string(ln.lower[start:end])
			for _, e := range t.orderedEntries(lcCandidate) {
				if !e.FulfillsConditions(candidate, ln.left(start), ln.right(end), t.langCode) {
					continue
				}
				switch e.Kind {
				case resource.KindAbbrev:
					if !t.abbrevContextOK(ln, start, end, candidate, e) {
						continue
					}
					return match{
						pieces:   []piece{{a: start, b: end, typ: chart.Abbrev, sem: e.SemClass}},
						leftDone: true,
					}, true
				case resource.KindLexicalPriority:
					typ := chart.Lexical
					if e.Tag != "" {
						typ = chart.TokenType(e.Tag)
					} else if e.SemClass == "url" {
						typ = chart.URL
					}
					return match{
						pieces:   []piece{{a: start, b: end, typ: typ, sem: e.SemClass}},
						leftDone: true,
					}, true
				case resource.KindContraction:
					pieces := t.mapContraction(ln, start, end, e, chart.Decontraction)
					return match{pieces: pieces, leftDone: true}, true
				case resource.KindRepair:
					pieces := t.mapContraction(ln, start, end, e, chart.Repair)
					return match{pieces: pieces, leftDone: true}, true
				}
			}
		}
	}
	return match{}, false
}

// findLexicalEntries mirrors findResourceEntries for the plain lexical
// table, which matches much later in the pipeline so that URLs, numbers,
// and contractions win first.
func findLexicalEntries(t *Tokenizer, ln *line, i, j int) (match, bool) {
	var lastPrimary charclass.Vector
	for start := i; start < j; start++ {
		cv := charclass.RuneVector(ln.src[start])
		if cv.Has(charclass.CombiningMark) {
			continue
		}
		if lastPrimary.Has(charclass.Letter) && cv.Has(charclass.Letter) {
			lastPrimary = cv
			continue
		}
		lastPrimary = cv

		maxEnd := start
		for pos := start + 1; pos <= j; pos++ {
			if !t.dict.HasLexicalPrefix(string(ln.lower[start:pos])) {
				break
			}
			maxEnd = pos
		}
		for end := maxEnd; end > start; end-- {
			candidate := ln.str(start, end)
			if !t.generalContextOK(ln, start, end, candidate) {
				continue
			}
			for _, e := range t.orderedEntries(string(ln.lower[start:end])) {
				if e.Kind != resource.KindLexical {
					continue
				}
				if !e.FulfillsConditions(candidate, ln.left(start), ln.right(end), t.langCode) {
					continue
				}
				if !t.lexicalContextOK(ln, start, end, candidate, e) {
					continue
				}
				typ := chart.Lexical
				if e.Tag != "" {
					typ = chart.TokenType(e.Tag)
				}
				return match{
					pieces:   []piece{{a: start, b: end, typ: typ, sem: e.SemClass}},
					leftDone: true,
				}, true
			}
		}
	}
	return match{}, false
}

// findPunctEntries applies the punct-split table: each registered
// punctuation sequence splits off at its ::side, with ::group extending
// the match over runs of the same character (!!!, ???).
func findPunctEntries(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	for start := i; start < j; start++ {
		maxEnd := start
		for pos := start + 1; pos <= j; pos++ {
			if !t.dict.HasPunctPrefix(string(ln.lower[start:pos])) {
				break
			}
			maxEnd = pos
		}
		for end := maxEnd; end > start; end-- {
			candidate := ln.str(start, end)
			if !t.generalContextOK(ln, start, end, candidate) {
				continue
			}
			for _, e := range t.orderedEntries(candidate) {
				if e.Kind != resource.KindPunctSplit {
					continue
				}
				end2 := end
				if e.Group {
					for end2 < j && src[end2] == src[end2-1] {
						end2++
					}
				}
				token := ln.str(start, end2)
				if !e.FulfillsConditions(token, ln.left(start), ln.right(end2), t.langCode) {
					continue
				}
				switch e.Side {
				case "both":
					return match{pieces: []piece{{a: start, b: end2, typ: chart.Punct, sem: e.SemClass}}}, true
				case "start":
					if start == i || isSpace(src[start-1]) {
						return match{pieces: []piece{{a: start, b: end2, typ: chart.PunctS, sem: e.SemClass}}}, true
					}
				case "end":
					if end2 == j || isSpace(src[end2]) {
						return match{pieces: []piece{{a: start, b: end2, typ: chart.PunctE, sem: e.SemClass}}}, true
					}
				}
			}
		}
	}
	return match{}, false
}

// orderedEntries returns the dictionary entries for a key with
// language-specific entries before universal ones, implementing the
// more-specific-lcode tie-break.
func (t *Tokenizer) orderedEntries(lcKey string) []*resource.Entry {
	entries := t.dict.Lookup(lcKey)
	if len(entries) < 2 {
		return entries
	}
	specific := make([]*resource.Entry, 0, len(entries))
	var universal []*resource.Entry
	for _, e := range entries {
		if e.LCode != "" && (contains(t.langCodes, e.LCode) || e.LCode == t.langCode) {
			specific = append(specific, e)
		} else {
			universal = append(universal, e)
		}
	}
	return append(specific, universal...)
}

// generalContextOK checks the restrictions that apply to every resource
// match regardless of its entry: token edges must not bisect words,
// orphan combining marks, paired apostrophes, gershayim-style quotes
// inside Hebrew words, or attach-tag-decorated tokens.
func (t *Tokenizer) generalContextOK(ln *line, start, end int, token string) bool {
	src := ln.src
	var prevVec, nextVec charclass.Vector
	if start > 0 {
		prevVec = charclass.RuneVector(src[start-1])
	}
	if end < len(src) {
		nextVec = charclass.RuneVector(src[end])
	}
	if nextVec.Has(charclass.Letter) && endsWithLetter(token) {
		return false
	}
	if nextVec.Has(charclass.CombiningMark) && !endsWithPunct(token) {
		return false
	}
	if ln.lv.Has(charclass.Quote) {
		// Don't split c' out of 'c', nor 'd out of 'd'.
		if startsWithLetter(token) && endsWithApostrophe(token) &&
			start > 0 && ucase.IsQuote(src[start-1]) {
			return false
		}
		if startsWithApostrophe(token) && endsWithLetter(token) &&
			end < len(src) && ucase.IsQuote(src[end]) {
			return false
		}
	}
	if ln.lv.Has(charclass.Ampersand) && isShortLetterToken(token) {
		if (start > 0 && src[start-1] == '&') || (end < len(src) && src[end] == '&') {
			return false
		}
	}
	if ln.lv.Has(charclass.AttachTag) && t.detok.IsMarkupToken(token) {
		// Don't strip pieces off an already attach-tag-decorated token.
		if nextVec.Has(charclass.AttachTag) && followedByWhitespace(src, end+1) {
			return false
		}
		if prevVec.Has(charclass.AttachTag) && precededByWhitespace(src, start-1) {
			return false
		}
	}
	if ln.lv.Has(charclass.Hebrew) {
		if token == "\"" && prevVec.Has(charclass.Hebrew) && nextVec.Has(charclass.Hebrew) &&
			singleHebrewLetterAt(src, end) {
			return false
		}
		if token == "'" && prevVec.Has(charclass.Hebrew) {
			return false
		}
	}
	return true
}

// abbrevContextOK checks the extra conditions on abbreviation matches:
// an abbreviation ending in a period must not swallow the period of a
// following initial, and an abbreviation must not directly follow another
// period-terminated word.
func (t *Tokenizer) abbrevContextOK(ln *line, start, end int, token string, e *resource.Entry) bool {
	if e.SemClass == "currency-unit" {
		return true
	}
	right := ln.right(end)
	left := ln.left(start)
	if endsWithLetterOrDigit(token) && startsWithDashedDigit(right) {
		if !(endsWithLetter(token) && e.RightContext != nil && e.RightContext.MatchString(right)) {
			return false
		}
	}
	if strings.HasSuffix(token, ".") && startsWithSingleLetter(right) {
		nv := charclass.RuneVector([]rune(right)[0])
		if !nv.Has(charclass.Hangul | charclass.Indic) {
			return false
		}
	}
	if strings.HasSuffix(left, ".") && strings.Contains(token, ".") && endsWithLetterPeriod(left) {
		return false
	}
	return true
}

// lexicalContextOK checks the extra conditions on lexical matches: edges
// must sit on word boundaries unless the entry's own context clauses
// explicitly sanction letter-digit adjacency (units after numbers,
// section markers before numbers).
func (t *Tokenizer) lexicalContextOK(ln *line, start, end int, token string, e *resource.Entry) bool {
	left := ln.left(start)
	right := ln.right(end)
	if endsWithLetterOrDigit(token) && startsWithLetterOrDigit(right) {
		switch {
		case endsWithLetter(token) && startsWithDashedDigit(right) &&
			e.RightContext != nil && e.RightContext.MatchString(right):
		case endsWithDigit(token) && startsWithLetter(right) &&
			e.RightContext != nil && e.RightContext.MatchString(right):
		default:
			return false
		}
	}
	if endsWithLetterOrDigit(left) && startsWithLetterOrDigit(token) {
		switch {
		case endsWithDigit(left) && e.SemClass == "unit-of-measurement":
		case endsWithLetter(left) && startsWithDashedDigit(token) &&
			e.LeftContext != nil && e.LeftContext.MatchString(left):
		case endsWithDigit(left) && startsWithLetter(token) &&
			e.LeftContext != nil && e.LeftContext.MatchString(left):
		default:
			return false
		}
	}
	if endsWithApostrophe(token) && startsWithSingleS(right) {
		return false
	}
	return true
}

// mapContraction aligns a matched contraction or repair with its ::target
// and produces one piece per target token, splitting the original span so
// that shared prefixes and suffixes keep their own characters and ties go
// to the left piece. ::char-split overrides the alignment.
func (t *Tokenizer) mapContraction(ln *line, start, end int, e *resource.Entry, typ chart.TokenType) []piece {
	origToken := ln.str(start, end)
	targets := strings.Fields(e.Target)
	if len(e.CharSplits) == len(targets) && len(targets) > 0 {
		var pieces []piece
		pos := start
		for i, n := range e.CharSplits {
			surf := ucase.AdjustCapitalization(targets[i], ln.str(pos, pos+n))
			pieces = append(pieces, piece{a: pos, b: pos + n, surf: surf, typ: pieceType(typ, surf, i, len(targets)), sem: e.SemClass})
			pos += n
		}
		return pieces
	}
	if !strings.Contains(e.Surf, " ") && !strings.Contains(e.Target, " ") {
		surf := ucase.AdjustCapitalization(e.Target, origToken)
		return []piece{{a: start, b: end, surf: surf, typ: typ, sem: e.SemClass}}
	}

	// Align target tokens with the source: peel matching suffix tokens
	// from the right, matching prefix tokens from the left, and map
	// whatever remains onto the remaining span.
	type elem struct {
		a, b int
		surf string
	}
	var leftElems, rightElems []elem
	a, b := start, end
	source := e.Surf
	target := e.Target
	token := origToken
	for token != "" {
		elems := strings.Fields(target)
		if len(elems) == 0 {
			break
		}
		if last := elems[len(elems)-1]; strings.HasSuffix(source, last) {
			n := len([]rune(last))
			origElem := string([]rune(token)[len([]rune(token))-n:])
			rightElems = append([]elem{{a: b - n, b: b, surf: ucase.AdjustCapitalization(last, origElem)}}, rightElems...)
			b -= n
			token = string([]rune(token)[:len([]rune(token))-n])
			source = source[:len(source)-len(last)]
			target = strings.TrimRight(target[:len(target)-len(last)], " ")
			for strings.HasSuffix(token, " ") {
				b--
				token = token[:len(token)-1]
				source = strings.TrimSuffix(source, " ")
			}
		} else if first := elems[0]; strings.HasPrefix(source, first) {
			n := len([]rune(first))
			origElem := string([]rune(token)[:n])
			leftElems = append(leftElems, elem{a: a, b: a + n, surf: ucase.AdjustCapitalization(first, origElem)})
			a += n
			token = string([]rune(token)[n:])
			source = source[len(first):]
			target = strings.TrimLeft(target[len(first):], " ")
			for strings.HasPrefix(token, " ") {
				a++
				token = token[1:]
				source = strings.TrimPrefix(source, " ")
			}
		} else {
			// The mismatching remainder maps onto the remaining span.
			leftElems = append(leftElems, elem{a: a, b: b, surf: ucase.AdjustCapitalization(target, token)})
			token = ""
		}
	}
	elems := append(leftElems, rightElems...)
	pieces := make([]piece, 0, len(elems))
	for i, el := range elems {
		pieces = append(pieces, piece{a: el.a, b: el.b, surf: el.surf,
			typ: pieceType(typ, el.surf, i, len(elems)), sem: e.SemClass})
	}
	return pieces
}

// pieceType refines DECONTRACTION pieces: a piece ending in an apostrophe
// (l', qu') attaches to its right neighbor in reconstruction.
func pieceType(typ chart.TokenType, surf string, _, total int) chart.TokenType {
	if typ != chart.Decontraction || total < 2 {
		return typ
	}
	if endsWithApostrophe(surf) {
		return chart.DecontractionR
	}
	return typ
}

// Additional context predicates used only by the entry steps.

func endsWithApostrophe(s string) bool {
	rs := []rune(s)
	return len(rs) > 0 && ucase.IsQuote(rs[len(rs)-1]) && rs[len(rs)-1] != '"' &&
		rs[len(rs)-1] != '“' && rs[len(rs)-1] != '”' && rs[len(rs)-1] != '‟'
}

func startsWithApostrophe(s string) bool {
	for _, r := range s {
		return r == '\'' || r == '‘' || r == '’' || r == '`'
	}
	return false
}

func endsWithPunct(s string) bool {
	rs := []rune(s)
	return len(rs) > 0 && isPunct(rs[len(rs)-1])
}

func endsWithLetterPeriod(s string) bool {
	rs := []rune(s)
	if len(rs) < 2 || rs[len(rs)-1] != '.' {
		return false
	}
	q := len(rs) - 2
	for q >= 0 && isMark(rs[q]) {
		q--
	}
	return q >= 0 && isLetter(rs[q])
}

// isShortLetterToken reports whether s is one or two letters.
func isShortLetterToken(s string) bool {
	letters := 0
	for _, r := range s {
		if isMark(r) {
			continue
		}
		if !isLetter(r) {
			return false
		}
		letters++
	}
	return letters >= 1 && letters <= 2
}

func startsWithSingleS(s string) bool {
	rs := []rune(s)
	if len(rs) == 0 || (rs[0] != 's' && rs[0] != 'S') {
		return false
	}
	return len(rs) == 1 || !isLetterOrDigit(rs[1])
}

func followedByWhitespace(src []rune, p int) bool {
	return p >= len(src) || isSpace(src[p])
}

func precededByWhitespace(src []rune, p int) bool {
	return p < 0 || isSpace(src[p])
}

func singleHebrewLetterAt(src []rune, p int) bool {
	if p >= len(src) || !charclass.RuneVector(src[p]).Has(charclass.Hebrew) {
		return false
	}
	q := p + 1
	for q < len(src) && isMark(src[q]) {
		q++
	}
	return q >= len(src) || !isLetter(src[q])
}
