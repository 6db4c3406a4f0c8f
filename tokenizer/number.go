package tokenizer

import (
	"strings"

	"github.com/uhermjakob/utoken/charclass"
	"github.com/uhermjakob/utoken/chart"
	"github.com/uhermjakob/utoken/internal/ucase"
)

// indicDigitGroupingLangs are languages where a period never groups
// thousands, so the dot-grouping pattern is skipped.
var indicDigitGroupingLangs = map[string]bool{
	"asm": true, "ben": true, "hin": true, "kan": true, "mal": true,
	"tam": true, "tel": true,
}

// hebrewNumberPrefixes are single-letter prepositions that fuse onto a
// following number in Hebrew; a digit after one is not a number start.
const hebrewNumberPrefixes = "כבהלשומ"

// findNumber matches numbers with thousands grouping (Western 12,345,678
// and Indian 1,23,45,678 comma styles, their dot-grouped mirrors, Swiss
// apostrophe grouping), plain decimals, signed numbers, and Ethiopic
// numerals. A trailing period stays outside the number unless another
// digit follows it.
func findNumber(t *Tokenizer, ln *line, i, j int) (match, bool) {
	src := ln.src
	if ln.lv.Has(charclass.EthiopicNumber) {
		for p := i; p < j; p++ {
			if charclass.RuneVector(src[p]).Has(charclass.EthiopicNumber) {
				q := p
				for q < j && charclass.RuneVector(src[q]).Has(charclass.EthiopicNumber) {
					q++
				}
				return oneToken(p, q, chart.Number), true
			}
		}
	}
	if !ln.lv.Has(charclass.Digit) {
		return match{}, false
	}
	for p := i; p < j; p++ {
		r := src[p]
		sign := r == '+' || ucase.IsDash(r)
		if !isDigit(r) && !sign {
			continue
		}
		if sign && (p+1 >= j || !isDigit(src[p+1])) {
			continue
		}
		if !numberLeftBoundaryOK(src, i, p) {
			continue
		}
		start := p
		if sign && signBelongsToContext(ln, p) {
			// 3.5%-5.5% or 4+5: the sign is a range or operator, not part
			// of the number.
			start = p + 1
		}
		d := start
		if src[d] == '+' || ucase.IsDash(src[d]) {
			d++
		}
		if end, ok := parseGroupedNumber(src, d, j, ',', '.'); ok {
			return oneToken(start, end, chart.Number), true
		}
		if end, ok := parseGroupedNumber(src, d, j, '،', '.'); ok {
			return oneToken(start, end, chart.Number), true
		}
		if !indicDigitGroupingLangs[t.langCode] {
			if end, ok := parseGroupedNumber(src, d, j, '.', ','); ok {
				return oneToken(start, end, chart.Number), true
			}
		}
		if end, ok := parseGroupedNumber(src, d, j, '\'', '.'); ok {
			return oneToken(start, end, chart.Number), true
		}
		if end, ok := parseFloat(src, d, j, '.'); ok {
			return oneToken(start, end, chart.Number), true
		}
		if !indicDigitGroupingLangs[t.langCode] {
			if end, ok := parseFloat(src, d, j, ','); ok {
				return oneToken(start, end, chart.Number), true
			}
		}
		if end, ok := parseInteger(src, i, j, start, d); ok {
			return oneToken(start, end, chart.Number), true
		}
	}
	return match{}, false
}

// numberLeftBoundaryOK rejects number starts glued to signs, decimal
// continuations, preceding digits, or Hebrew number prefixes.
func numberLeftBoundaryOK(src []rune, i, p int) bool {
	if p == i {
		return true
	}
	prev := src[p-1]
	switch {
	case ucase.IsDash(prev) || prev == '+' || prev == ',' || prev == ':':
		return false
	case isDigit(prev):
		return false
	case prev == '%' || prev == '\'':
		if p-1 > i && isDigit(src[p-2]) {
			return false
		}
	case prev == '.':
		if p-1 == i || !isLetter(src[p-2]) {
			return false
		}
	case strings.ContainsRune(hebrewNumberPrefixes, prev):
		return false
	}
	return true
}

// signBelongsToContext reports whether the sign at p reads as a range or
// operator because the full-line context before it ends in a digit
// (optionally with % or '), a letter, or a period.
func signBelongsToContext(ln *line, p int) bool {
	src := ln.src
	q := p - 1
	if q < 0 {
		return false
	}
	r := src[q]
	if r == '%' || r == '\'' {
		if q == 0 {
			return false
		}
		q--
		r = src[q]
	}
	if isDigit(r) || r == '.' {
		return true
	}
	for q >= 0 && isMark(src[q]) {
		q--
	}
	return q >= 0 && isLetter(src[q])
}

// parseGroupedNumber parses digits with sep-grouped thousands (Western
// first group of 1-3 digits then 3-digit groups, or Indian first group of
// 1-2 digits, 2-digit middles, and a final 3-digit group), followed by an
// optional dec fraction.
func parseGroupedNumber(src []rune, d, j int, sep, dec rune) (int, bool) {
	first := d
	for first < j && isDigit(src[first]) {
		first++
	}
	firstLen := first - d
	if firstLen == 0 || firstLen > 3 {
		return 0, false
	}
	q := first
	var groupLens []int
	for q < j && src[q] == sep {
		g := q + 1
		for g < j && isDigit(src[g]) {
			g++
		}
		gl := g - q - 1
		if gl < 2 || gl > 3 {
			return 0, false
		}
		groupLens = append(groupLens, gl)
		q = g
	}
	if len(groupLens) == 0 {
		return 0, false
	}
	western := firstLen <= 3
	indian := firstLen <= 2
	for k, gl := range groupLens {
		if gl != 3 {
			western = false
		}
		if k < len(groupLens)-1 {
			if gl != 2 {
				indian = false
			}
		} else if gl != 3 {
			indian = false
		}
	}
	if !western && !indian {
		return 0, false
	}
	end := q
	if end+1 < j && src[end] == dec && isDigit(src[end+1]) {
		end++
		for end < j && isDigit(src[end]) {
			end++
		}
	}
	return end, numberRightBoundaryOK(src, end, j)
}

// parseFloat parses digits, a decimal mark, and more digits.
func parseFloat(src []rune, d, j int, dec rune) (int, bool) {
	q := d
	for q < j && isDigit(src[q]) {
		q++
	}
	if q == d || q+1 >= j || src[q] != dec || !isDigit(src[q+1]) {
		return 0, false
	}
	q++
	for q < j && isDigit(src[q]) {
		q++
	}
	return q, numberRightBoundaryOK(src, q, j)
}

// parseInteger parses a plain digit run. Unlike the grouped patterns, an
// integer may not directly follow a letter (A4 stays one token).
func parseInteger(src []rune, i, j, start, d int) (int, bool) {
	if start > i {
		q := start - 1
		for q >= i && isMark(src[q]) {
			q--
		}
		if q >= i && isLetter(src[q]) {
			return 0, false
		}
	}
	q := d
	for q < j && isDigit(src[q]) {
		q++
	}
	if q == d {
		return 0, false
	}
	// Not followed by an optionally dash/period/comma/colon-separated
	// digit: 3:15 and GEN:1:1 stay whole.
	if q < j && isDigit(src[q]) {
		return 0, false
	}
	if q+1 < j && isDigit(src[q+1]) &&
		(src[q] == '.' || src[q] == ',' || src[q] == ':' || ucase.IsDash(src[q])) {
		return 0, false
	}
	return q, true
}

// numberRightBoundaryOK rejects matches followed by another digit or by a
// separator-digit continuation.
func numberRightBoundaryOK(src []rune, end, j int) bool {
	if end < j && isDigit(src[end]) {
		return false
	}
	if end+1 < j && (src[end] == '.' || src[end] == ',') && isDigit(src[end+1]) {
		return false
	}
	return true
}
