package tokenizer

import (
	"unicode"

	"github.com/uhermjakob/utoken/charclass"
	"github.com/uhermjakob/utoken/chart"
	"github.com/uhermjakob/utoken/internal/ucase"
)

// restartPolicy selects the step index at which residues around a found
// token continue.
type restartPolicy int

const (
	// restartTop re-enters the pipeline from the first step: residues of a
	// greedy-isolating match (URL, XML, number, ...) may contain anything.
	restartTop restartPolicy = iota
	// resumeSame re-enters at the same step; the left residue skips ahead
	// to the next step when the finder has already scanned it (leftDone).
	resumeSame
)

// piece is one token produced by a finder. Surf is the normalized surface;
// empty means the substring at [a,b) itself.
type piece struct {
	a, b int
	surf string
	typ  chart.TokenType
	sem  string
}

// match is a finder result: one or more non-overlapping pieces in
// increasing span order. leftDone marks the left residue as already
// scanned by the finding step.
type match struct {
	pieces   []piece
	leftDone bool
}

type findFn func(t *Tokenizer, ln *line, i, j int) (match, bool)

type step struct {
	name   string
	guard  charclass.Vector // skip the step unless the line has one of these
	find   findFn
	policy restartPolicy
}

// steps is the ordered pipeline. Within a step, finders return the
// leftmost match, preferring the longest among equal starts.
var steps = []step{
	{name: "xml", guard: charclass.LessThan | charclass.LeftSquareBracket, find: findXML, policy: restartTop},
	{name: "url", find: findURL, policy: restartTop},
	{name: "email", guard: charclass.AtSign, find: findEmail, policy: restartTop},
	{name: "filename", find: findFilename, policy: restartTop},
	{name: "symbol-group", guard: charclass.MiscSymbol, find: findSymbolGroup, policy: restartTop},
	{name: "hashtag-handle", guard: charclass.NumberSign | charclass.AtSign, find: findHashtagHandle, policy: restartTop},
	{name: "abbrev-pattern", guard: charclass.Dash, find: findAbbrevPattern, policy: restartTop},
	{name: "resource-entries", find: findResourceEntries, policy: resumeSame},
	{name: "abbrev-initials", find: findAbbrevInitials, policy: restartTop},
	{name: "abbrev-periods", find: findAbbrevPeriods, policy: restartTop},
	{name: "suffix-contraction", guard: charclass.Apostrophe, find: findSuffixContraction, policy: resumeSame},
	{name: "number", guard: charclass.Digit | charclass.EthiopicNumber, find: findNumber, policy: restartTop},
	{name: "lexical-entries", find: findLexicalEntries, policy: resumeSame},
	{name: "multi-dash-name", guard: charclass.Dash, find: findMultiDashName, policy: restartTop},
	{name: "mt-punct", find: findMTPunct, policy: resumeSame},
	{name: "punct-entries", find: findPunctEntries, policy: resumeSame},
	{name: "post-punct-number", guard: charclass.Digit, find: findPostPunctNumber, policy: resumeSame},
}

// runSpan applies the pipeline to ln.src[i:j], starting at step k, and
// registers the resulting tokens on the chart in offset order.
func (t *Tokenizer) runSpan(ln *line, i, j, k int) {
	if i >= j {
		return
	}
	ln.depth++
	defer func() { ln.depth-- }()
	if ln.depth > maxRecursionDepth {
		t.whitespaceSplit(ln, i, j)
		return
	}
	for ; k < len(steps); k++ {
		st := steps[k]
		if st.guard != 0 && !ln.lv.Has(st.guard) {
			continue
		}
		m, ok := st.find(t, ln, i, j)
		if !ok {
			continue
		}
		leftK, rightK := 0, 0
		if st.policy == resumeSame {
			leftK, rightK = k, k
			if m.leftDone {
				leftK = k + 1
			}
		}
		t.runSpan(ln, i, m.pieces[0].a, leftK)
		for _, p := range m.pieces {
			t.emit(ln, p)
		}
		t.runSpan(ln, m.pieces[len(m.pieces)-1].b, j, rightK)
		return
	}
	t.whitespaceSplit(ln, i, j)
}

// emit registers one piece on the chart, deciding attach-tag markup from
// the full-line context.
func (t *Tokenizer) emit(ln *line, p piece) {
	origA, origB := ln.om.Orig(p.a, p.b)
	origSurf := string(ln.ch.Orig[origA:origB])
	surf := p.surf
	if surf == "" {
		surf = ln.str(p.a, p.b)
	}
	tok := chart.Token{
		Surf:     surf,
		OrigSurf: origSurf,
		Start:    origA,
		End:      origB,
		Type:     p.typ,
		SemClass: p.sem,
	}
	if p.typ != chart.Markup && p.typ != chart.LineID {
		tok.MarkupLeft, tok.MarkupRight = t.markupSides(ln, p.a, p.b, surf)
	}
	if tok.MarkupRight {
		ln.markupEnd = origB
	}
	ln.ch.Register(tok)
}

// markupSides decides whether the @ attach tag renders before and/or after
// a token, per the markup-attach rules. Paired delimiters (quotes) get the
// tag on the side facing the enclosed text; other marked surfaces get the
// tag on each side that touches a neighbor without whitespace. A resulting
// form on the rule's exception list cancels the markup.
func (t *Tokenizer) markupSides(ln *line, a, b int, surf string) (left, right bool) {
	lcSurf := ucase.ToLower(surf)
	rs := []rune(lcSurf)
	if len(rs) == 0 {
		return false, false
	}
	// A run of one repeated character falls back to the rule for its
	// longest registered prefix.
	lookup := lcSurf
	groupNecessary := false
	if len(rs) >= 2 && allSame(rs) {
		for len(lookup) >= 2 && len(t.detok.MarkupEntries(lookup)) == 0 {
			lookup = lookup[:len(lookup)-len(string(rs[0]))]
		}
		groupNecessary = lookup != lcSurf
	}
	entries := t.detok.MarkupEntries(lookup)
	if len(entries) == 0 {
		return false, false
	}
	leftCtx := ln.left(a)
	rightCtx := ln.right(b)
	var valid *detokEntryRef
	for _, e := range entries {
		if e.Fulfills(lcSurf, leftCtx, rightCtx, t.langCode, groupNecessary) {
			valid = &detokEntryRef{e.PairedDelimiter, e.Exceptions}
			if e.PairedDelimiter {
				break
			}
		}
	}
	if valid == nil {
		return false, false
	}
	if valid.paired {
		switch openOrClose(leftCtx, rightCtx) {
		case "open":
			left, right = false, true
		case "close":
			left, right = true, false
		default:
			valid.paired = false
		}
	}
	if !valid.paired && !left && !right {
		left = endsNonWhitespace(leftCtx)
		right = startsNonWhitespace(rightCtx)
	}
	if left || right {
		marked := surf
		if left {
			marked = "@" + marked
		}
		if right {
			marked += "@"
		}
		for _, exc := range valid.exceptions {
			if marked == exc {
				return false, false
			}
		}
	}
	return left, right
}

type detokEntryRef struct {
	paired     bool
	exceptions []string
}

// openOrClose scores a non-directional paired delimiter as an opening or
// closing one from its contexts: a letter or digit right before it argues
// close, right after it argues open.
func openOrClose(left, right string) string {
	closeScore := 0
	if endsWithLetterOrDigit(left) {
		closeScore = 10
	} else if endsWithLetterOrDigitInToken(left) {
		closeScore = 5
	}
	openScore := 0
	if startsWithLetterOrDigit(right) {
		openScore = 10
	} else if startsWithLetterOrDigitInToken(right) {
		openScore = 5
	}
	switch {
	case openScore > closeScore:
		return "open"
	case closeScore > openScore:
		return "close"
	}
	return ""
}

// whitespaceSplit is the final fallthrough: the span splits on Unicode
// whitespace and each remaining run becomes a basic token.
func (t *Tokenizer) whitespaceSplit(ln *line, i, j int) {
	start := -1
	for p := i; p <= j; p++ {
		atEnd := p == j
		if !atEnd && !isSpace(ln.src[p]) {
			if start < 0 {
				start = p
			}
			continue
		}
		if start >= 0 {
			t.emit(ln, piece{a: start, b: p, typ: t.basicTokenType(ln, start, p)})
			start = -1
		}
	}
}

// basicTokenType classifies a whitespace-delimited remnant. A word piece
// that starts exactly where a marked-up token ended is an interior piece.
func (t *Tokenizer) basicTokenType(ln *line, a, b int) chart.TokenType {
	v := charclass.SpanVector(ln.src, a, b)
	switch {
	case v.Has(charclass.Letter):
		origA, _ := ln.om.Orig(a, b)
		if origA == ln.markupEnd {
			return chart.WordI
		}
		return chart.WordB
	case v.Has(charclass.Digit | charclass.EthiopicNumber):
		return chart.Number
	case v.Has(charclass.MiscSymbol):
		return chart.EmojiSeq
	}
	if b > a && isPunct(ln.src[a]) {
		return chart.Punct
	}
	return chart.Misc
}

// Shared rune predicates.

func isSpace(r rune) bool { return unicode.IsSpace(r) }

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || r == '=' || r == '*' || r == '+' || r == '<' ||
		r == '>' || r == '^' || r == '|' || r == '`'
}

func isLetter(r rune) bool { return unicode.IsLetter(r) }

func isDigit(r rune) bool { return unicode.IsDigit(r) }

func isMark(r rune) bool { return unicode.Is(unicode.M, r) }

func isLetterOrDigit(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func allSame(rs []rune) bool {
	for _, r := range rs[1:] {
		if r != rs[0] {
			return false
		}
	}
	return true
}

// Context-string predicates, replacing the original's lookaround regexes.

func endsNonWhitespace(s string) bool {
	rs := []rune(s)
	return len(rs) > 0 && !isSpace(rs[len(rs)-1])
}

func startsNonWhitespace(s string) bool {
	rs := []rune(s)
	return len(rs) > 0 && !isSpace(rs[0])
}

func endsWithLetterOrDigit(s string) bool {
	rs := []rune(s)
	for i := len(rs) - 1; i >= 0; i-- {
		if isMark(rs[i]) {
			continue
		}
		return isLetterOrDigit(rs[i])
	}
	return false
}

// endsWithLetterOrDigitInToken reports whether the last whitespace-free
// run of s contains a letter or digit.
func endsWithLetterOrDigitInToken(s string) bool {
	rs := []rune(s)
	for i := len(rs) - 1; i >= 0; i-- {
		if isSpace(rs[i]) {
			return false
		}
		if isLetterOrDigit(rs[i]) {
			return true
		}
	}
	return false
}

func startsWithLetterOrDigit(s string) bool {
	for _, r := range s {
		return isLetterOrDigit(r)
	}
	return false
}

func startsWithLetterOrDigitInToken(s string) bool {
	for _, r := range s {
		if isSpace(r) {
			return false
		}
		if isLetterOrDigit(r) {
			return true
		}
	}
	return false
}

func endsWithLetter(s string) bool {
	rs := []rune(s)
	for i := len(rs) - 1; i >= 0; i-- {
		if isMark(rs[i]) {
			continue
		}
		return isLetter(rs[i])
	}
	return false
}

func endsWithDigit(s string) bool {
	rs := []rune(s)
	return len(rs) > 0 && isDigit(rs[len(rs)-1])
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return isLetter(r)
	}
	return false
}

// startsWithDashedDigit reports whether s starts with a digit, optionally
// preceded by a dash.
func startsWithDashedDigit(s string) bool {
	rs := []rune(s)
	if len(rs) == 0 {
		return false
	}
	if ucase.IsDash(rs[0]) {
		return len(rs) > 1 && isDigit(rs[1])
	}
	return isDigit(rs[0])
}

// startsWithSingleLetter reports whether s starts with exactly one letter
// (plus combining marks) not followed by another letter or mark.
func startsWithSingleLetter(s string) bool {
	rs := []rune(s)
	if len(rs) == 0 || !isLetter(rs[0]) {
		return false
	}
	i := 1
	for i < len(rs) && isMark(rs[i]) {
		i++
	}
	return i >= len(rs) || !isLetter(rs[i])
}
