// Package tokenizer segments a line of text into tokens — words,
// punctuation, numbers, URLs, XML tags, email addresses, hashtags,
// handles, abbreviations, contractions, and lexical multi-word
// expressions — across a wide range of scripts.
//
// The package provides two API layers:
//
//   - Surface: Tokenize returns the space-separated token stream for a
//     line, with MT-style @ attach tags unless simple mode is selected.
//   - Chart: TokenizeWithChart returns a chart.Chart with per-token span
//     offsets into the original line, token type, and semantic class.
//
// Tokenization is driven by an ordered pipeline of step recognizers. Each
// step examines the current span of the line and either finds a token and
// recurses on the residues around it, or delegates to the next step. Most
// linguistic knowledge lives in data files loaded at construction time.
//
// A Tokenizer is immutable after New and safe for concurrent use by
// multiple goroutines; each line gets its own chart.
//
// Known limitations (v1.0):
//
//   - Languages written without interword spaces (Chinese, Japanese, ...)
//     are not segmented; CJK text passes through whitespace-split only.
//   - Phonetic-initial abbreviation patterns of Indian languages are only
//     recognized through explicit resource entries, not productively.
//   - BBCode markup ([QUOTE=...], [/URL]) is recognized for a fixed tag
//     inventory.
package tokenizer

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"github.com/uhermjakob/utoken/charclass"
	"github.com/uhermjakob/utoken/chart"
	"github.com/uhermjakob/utoken/data"
	"github.com/uhermjakob/utoken/internal/ucase"
	"github.com/uhermjakob/utoken/resource"
)

// maxRecursionDepth bounds the span subdivision depth. Past the limit the
// remaining span goes straight to the whitespace split, so a pathological
// line degrades instead of overflowing the stack.
const maxRecursionDepth = 500

// Options configure a Tokenizer.
type Options struct {
	// FirstTokenIsLineID exempts the first whitespace-delimited token of
	// each line from tokenization and types it LINE-ID.
	FirstTokenIsLineID bool
	// Simple suppresses MT-style @ attach tags in surface output. Markup
	// decisions are still recorded in the chart.
	Simple bool
	// Verbose writes a per-line token count and a count of deleted
	// non-decodable characters to standard error.
	Verbose bool
}

// Tokenizer holds the immutable resource tables for one language
// configuration.
type Tokenizer struct {
	langCodes []string
	langCode  string // primary language code, possibly empty
	opts      Options

	dict  *resource.Dict
	detok *resource.Detok
	tlds  *resource.TLDs

	fileExts map[string]bool // filename extensions, from the resource data

	nLines atomic.Int64
}

// New builds a tokenizer for langCode (a comma- or semicolon-separated
// list of ISO 639-3 codes; empty for universal rules only). Data files are
// read from dataDir, or from the embedded defaults when dataDir is empty.
// Universal and eng-global rules always load; a missing language-specific
// file is a warning, a missing universal file is an error.
func New(langCode, dataDir string, opts Options) (*Tokenizer, error) {
	var fsys fs.FS = data.Files
	if dataDir != "" {
		fsys = os.DirFS(dataDir)
	}
	langCodes := splitLangCodes(langCode)

	t := &Tokenizer{
		langCodes: langCodes,
		opts:      opts,
		dict:      resource.NewDict(),
		detok:     resource.NewDetok(),
	}
	if len(langCodes) > 0 {
		t.langCode = langCodes[0]
	}

	for _, lcode := range langCodes {
		name := "tok-resource-" + lcode + ".txt"
		if err := t.dict.LoadFile(fsys, name, lcode); err != nil {
			if le := (*resource.LoadError)(nil); asLoadError(err, &le) {
				return nil, err
			}
			log.Printf("Warning: no resource file for language %q (%s)", lcode, name)
		}
	}
	if !contains(langCodes, "eng-global") {
		if err := t.dict.LoadFile(fsys, "tok-resource-eng-global.txt", "eng-global"); err != nil {
			return nil, fmt.Errorf("loading eng-global resources: %w", err)
		}
	}
	if err := t.dict.LoadFile(fsys, "tok-resource.txt", ""); err != nil {
		return nil, fmt.Errorf("loading universal resources: %w", err)
	}
	if err := t.detok.LoadFile(fsys, "detok-resource.txt", langCodes); err != nil {
		return nil, fmt.Errorf("loading detokenization resources: %w", err)
	}
	tlds, err := resource.LoadTLDs(fsys, "top-level-domain-codes.txt")
	if err != nil {
		return nil, fmt.Errorf("loading top-level domains: %w", err)
	}
	t.tlds = tlds

	t.fileExts = make(map[string]bool)
	for _, s := range t.dict.SurfacesBySemClass("filename-extension") {
		t.fileExts[strings.TrimPrefix(s, ".")] = true
	}
	return t, nil
}

func splitLangCodes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func asLoadError(err error, target **resource.LoadError) bool {
	le, ok := err.(*resource.LoadError)
	if ok {
		*target = le
	}
	return ok
}

// line is the per-line working state: the current rune sequence, its
// length-preserving lowercase shadow, the map back to original offsets,
// the line feature vector, and the chart under construction.
type line struct {
	src   []rune
	lower []rune
	om    *chart.OffsetMap
	lv    charclass.Vector
	ch    *chart.Chart

	// markupEnd is the original end offset of the last emitted token that
	// carries right-side markup; a following word piece starting there is
	// an interior piece (WORD-I).
	markupEnd int

	depth int
}

func (ln *line) str(a, b int) string { return string(ln.src[a:b]) }

// left returns the full-line context before position a.
func (ln *line) left(a int) string { return string(ln.src[:a]) }

// right returns the full-line context after position b.
func (ln *line) right(b int) string { return string(ln.src[b:]) }

// Tokenize returns the surface token stream for one input line.
// A panic while tokenizing is recovered: the line is returned verbatim
// with a warning on standard error, so one bad input cannot kill a batch.
func (t *Tokenizer) Tokenize(s string) string {
	return t.TokenizeWithChart(s).Surface(t.opts.Simple)
}

// TokenizeWithChart tokenizes one input line and returns its chart.
func (t *Tokenizer) TokenizeWithChart(s string) *chart.Chart {
	lineID := fmt.Sprint(t.nLines.Add(1))
	return t.TokenizeLine(s, lineID)
}

// TokenizeLine tokenizes one input line under an explicit line ID.
func (t *Tokenizer) TokenizeLine(s, lineID string) (ch *chart.Chart) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: recovered from error in line %s (%v); emitting line verbatim\n", lineID, r)
			ch = chart.New([]rune(s), lineID)
			ch.Register(chart.Token{Surf: s, OrigSurf: s, Start: 0, End: len([]rune(s)), Type: chart.Misc})
		}
	}()

	ln := t.normalize(s, lineID)
	i := 0
	if t.opts.FirstTokenIsLineID {
		i = t.splitLineID(ln)
	}
	t.runSpan(ln, i, len(ln.src), 0)
	if t.opts.Verbose {
		log.Printf("Chart %s: %d tokens", lineID, len(ln.ch.Tokens()))
	}
	return ln.ch
}

// splitLineID emits the first whitespace-delimited token as LINE-ID and
// returns the position where tokenization proper starts.
func (t *Tokenizer) splitLineID(ln *line) int {
	n := len(ln.src)
	start := 0
	for start < n && isSpace(ln.src[start]) {
		start++
	}
	end := start
	for end < n && !isSpace(ln.src[end]) {
		end++
	}
	if end == start {
		return start
	}
	origA, origB := ln.om.Orig(start, end)
	ln.ch.Register(chart.Token{
		Surf:     ln.str(start, end),
		OrigSurf: string(ln.ch.Orig[origA:origB]),
		Start:    origA,
		End:      origB,
		Type:     chart.LineID,
	})
	return end
}

// normalize builds the per-line state: it repairs mojibake and non-breaking
// space entities, composes to NFC, drops surrogates and deletable control
// characters (tracked in the offset map), replaces non-standard spaces, and
// cleans up zero-width characters at word edges.
func (t *Tokenizer) normalize(s, lineID string) *line {
	s = repairBaseline(s)
	s = norm.NFC.String(s)

	// Surrogate halves cannot round-trip through UTF-8; drop them before
	// the chart baseline is recorded.
	if hasSurrogateRange(s) {
		var b strings.Builder
		deleted := 0
		for _, r := range s {
			if charclass.RuneVector(r).Has(charclass.Surrogate) {
				deleted++
				continue
			}
			b.WriteRune(r)
		}
		if deleted > 0 {
			if t.opts.Verbose {
				log.Printf("Warning: line %s: deleted %d non-decodable characters", lineID, deleted)
			}
			s = b.String()
		}
	}

	src := []rune(s)
	ln := &line{
		src:       src,
		om:        chart.NewOffsetMap(len(src)),
		ch:        chart.New(append([]rune(nil), src...), lineID),
		markupEnd: -1,
	}
	ln.lv = charclass.LineVector(src)

	if ln.lv.Has(charclass.DeletableControl | charclass.ZWSP | charclass.ZWNJ |
		charclass.ZWJ | charclass.VariationSelector) {
		t.deleteNormalizedChars(ln)
	}
	if ln.lv.Has(charclass.NonStandardSpace) {
		for i, r := range ln.src {
			if charclass.RuneVector(r).Has(charclass.NonStandardSpace) && r != '፡' {
				ln.src[i] = ' '
			}
		}
	}
	ln.lower = ucase.LowerRunes(ln.src)
	ln.lv = charclass.LineVector(ln.src)
	return ln
}

// deleteNormalizedChars removes deletable control characters, stray
// zero-width characters, and post-letter variation selectors, updating the
// offset map for every deletion.
func (t *Tokenizer) deleteNormalizedChars(ln *line) {
	for i := len(ln.src) - 1; i >= 0; i-- {
		r := ln.src[i]
		v := charclass.RuneVector(r)
		del := false
		switch {
		case v.Has(charclass.DeletableControl):
			del = true
		case v.Has(charclass.ZWSP | charclass.ZWNJ | charclass.ZWJ):
			del = zeroWidthDeletable(ln.src, i)
		case v.Has(charclass.VariationSelector):
			// Keep variation selectors after emoji and symbols; drop them
			// after ordinary letters, digits, and punctuation.
			del = i > 0 && ln.src[i-1] <= '↏'
		}
		if del {
			ln.src = append(ln.src[:i], ln.src[i+1:]...)
			ln.om.Delete(i, 1)
		}
	}
}

// zeroWidthDeletable reports whether the zero-width character at position i
// should be removed: duplicates, line edges, and positions adjacent to
// whitespace or punctuation. Zero-width non-joiners and joiners inside
// words stay.
func zeroWidthDeletable(src []rune, i int) bool {
	r := src[i]
	if i == 0 || i == len(src)-1 {
		return true
	}
	prev, next := src[i-1], src[i+1]
	if next == r {
		return true // keep only the last of a run
	}
	if isZeroWidth(prev) && prev != r {
		return true // of two mixed zero-width characters, the later one goes
	}
	if isSpace(prev) || isSpace(next) || isPunct(prev) || isPunct(next) {
		return true
	}
	if r == '\u200B' {
		// A zero-width space between letters is a line-break hint, not a
		// word boundary.
		pv, nv := charclass.RuneVector(prev), charclass.RuneVector(next)
		if pv.Has(charclass.Letter) && nv.Has(charclass.Letter) {
			return true
		}
	}
	return false
}

func isZeroWidth(r rune) bool {
	return r == '\u200B' || r == '\u200C' || r == '\u200D'
}

func hasSurrogateRange(s string) bool {
	for _, r := range s {
		if charclass.RuneVector(r).Has(charclass.Surrogate) {
			return true
		}
	}
	return false
}

// windows1252 maps the C1 control range to the characters Windows-1252
// places there, the usual repair for mis-decoded text.
var windows1252 = map[rune]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„', 0x85: '…', 0x86: '†',
	0x87: '‡', 0x88: 'ˆ', 0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“', 0x94: '”', 0x95: '•',
	0x96: '–', 0x97: '—', 0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}

var mojibakeRepairs = strings.NewReplacer(
	"¡¦", "’", "¡§", "“", "¡¨", "”",
	"Âº", "º", "Ã±", "ñ", "Ãº", "ú", "Ä±", "ı",
)

var entityRepairs = strings.NewReplacer(
	"&#160;", " ", "&#xA0;", " ", "&#xa0;", " ",
	"&nbsp;", " ", "&NBSP;", " ",
)

// repairBaseline applies the character-level repairs that redefine the
// line the chart refers to: entity and mojibake fixes, Windows-1252 C1
// repairs, micro sign to Greek mu, one-dot leader to period.
func repairBaseline(s string) string {
	if strings.ContainsRune(s, '&') {
		s = entityRepairs.Replace(s)
	}
	if strings.ContainsAny(s, "¡Ã") {
		s = mojibakeRepairs.Replace(s)
	}
	needC1 := false
	for _, r := range s {
		if r >= 0x80 && r < 0xA0 {
			needC1 = true
			break
		}
	}
	if needC1 {
		rs := []rune(s)
		for i, r := range rs {
			if repl, ok := windows1252[r]; ok {
				rs[i] = repl
			}
		}
		s = string(rs)
	}
	if strings.ContainsRune(s, 'µ') {
		s = strings.ReplaceAll(s, "µ", "μ")
	}
	if strings.ContainsRune(s, '․') {
		s = strings.ReplaceAll(s, "․", ".")
	}
	// The Ethiopic wordspace acts as a space except in the sentence-final
	// '፡፡' and the '፡-' compound.
	if strings.ContainsRune(s, '፡') {
		rs := []rune(s)
		for i, r := range rs {
			if r != '፡' {
				continue
			}
			prevEthiopic := i > 0 && rs[i-1] == '፡'
			nextSpecial := i+1 < len(rs) && (rs[i+1] == '፡' || rs[i+1] == '-')
			if !prevEthiopic && !nextSpecial {
				rs[i] = ' '
			}
		}
		s = string(rs)
	}
	return s
}
