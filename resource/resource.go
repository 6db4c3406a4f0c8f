// Package resource loads and indexes the data files that drive
// tokenization and detokenization.
//
// Data files hold one rule per line in the double-colon form
//
//	::<kind> <key-surface> ::slot1 <value1> ::slot2 <value2> ...
//
// Values run up to the next ::slot or end of line; a literal :: inside a
// value is written \:\:. Blank lines and #-comments are ignored.
//
// Rules load into a Dict keyed by lowercased surface, with prefix sets that
// let the tokenizer stop a longest-match search early. Some slots expand
// into additional entries at load time (::plural, ::misspelling,
// ::suffix-variations, apostrophe and hyphen variants, spaced abbreviation
// forms). Variants generated by ::suffix-variations inherit the entry's
// case sensitivity: they are matched case-folded unless ::case-sensitive
// is set.
//
// A Dict is built once at startup and never mutated afterwards, so it is
// safe to share across goroutines.
package resource

import (
	"bufio"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/uhermjakob/utoken/internal/ucase"
)

// Kind identifies the rule table an entry belongs to.
type Kind int

const (
	KindAbbrev Kind = iota
	KindContraction
	KindRepair
	KindLexical
	KindLexicalPriority
	KindPunctSplit
	KindNonSymbol
)

func (k Kind) String() string {
	switch k {
	case KindAbbrev:
		return "abbrev"
	case KindContraction:
		return "contraction"
	case KindRepair:
		return "repair"
	case KindLexical:
		return "lexical"
	case KindLexicalPriority:
		return "lexical-priority"
	case KindPunctSplit:
		return "punct-split"
	case KindNonSymbol:
		return "non-symbol"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is one rule from a data file. Slots that do not apply to the
// entry's kind are zero.
type Entry struct {
	Surf          string // key surface as written in the data file
	Kind          Kind
	LCode         string   // ISO 639-3, empty = universal
	LCodesNot     []string // languages the rule must not apply to
	SemClass      string
	Tag           string // token-type override, e.g. DECONTRACTION-R
	CaseSensitive bool

	// Context constraints, applied to the text before/after a candidate.
	// LeftContext matches against the end of the left context; RightContext
	// against the start of the right context. The -Not variants invert.
	LeftContext     *regexp.Regexp
	LeftContextNot  *regexp.Regexp
	RightContext    *regexp.Regexp
	RightContextNot *regexp.Regexp

	Target     string   // contraction/repair: replacement surface
	CharSplits []int    // contraction: per-target-token lengths in the source
	Expansions []string // abbrev: human-readable expansions

	Side  string // punct-split: start, end, or both
	Group bool   // punct-split/markup: runs of the same char stay together
}

// LoadError reports a malformed data file with its location.
type LoadError struct {
	File string
	Line int
	Rule string
	Msg  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: rule %q: %s", e.File, e.Line, e.Rule, e.Msg)
}

// Dict indexes resource entries by lowercased surface.
type Dict struct {
	entries map[string][]*Entry

	// Prefix sets of the lowercased surfaces, per table, so that a
	// longest-match scan can stop as soon as no entry starts with the
	// accumulated prefix.
	prefixes        map[string]bool // abbrev, contraction, repair, priority lexical
	prefixesLexical map[string]bool
	prefixesPunct   map[string]bool

	maxSurfLen int
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{
		entries:         make(map[string][]*Entry),
		prefixes:        make(map[string]bool),
		prefixesLexical: make(map[string]bool),
		prefixesPunct:   make(map[string]bool),
	}
}

// Lookup returns the entries whose (lowercased) surface is key.
func (d *Dict) Lookup(lcKey string) []*Entry { return d.entries[lcKey] }

// HasPrefix reports whether any abbrev/contraction/repair/priority entry
// starts with p.
func (d *Dict) HasPrefix(p string) bool { return d.prefixes[p] }

// HasLexicalPrefix reports whether any plain lexical entry starts with p.
func (d *Dict) HasLexicalPrefix(p string) bool { return d.prefixesLexical[p] }

// HasPunctPrefix reports whether any punct-split entry starts with p.
func (d *Dict) HasPunctPrefix(p string) bool { return d.prefixesPunct[p] }

// MaxSurfLen returns the rune length of the longest registered surface.
func (d *Dict) MaxSurfLen() int { return d.maxSurfLen }

var (
	reSlot    = regexp.MustCompile(`(^|\s)::([a-z][-a-z0-9]*)`)
	reComment = regexp.MustCompile(`\s+#.*$`)
)

// slotPair is one ::slot value unit of a data line.
type slotPair struct {
	slot  string
	value string
}

// parseSlots splits a data line into ordered slot/value pairs.
func parseSlots(line string) []slotPair {
	matches := reSlot.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return nil
	}
	pairs := make([]slotPair, 0, len(matches))
	for i, m := range matches {
		slot := line[m[4]:m[5]]
		valStart := m[5]
		valEnd := len(line)
		if i+1 < len(matches) {
			valEnd = matches[i+1][0]
		}
		value := strings.TrimSpace(line[valStart:valEnd])
		value = strings.ReplaceAll(value, `\:\:`, "::")
		pairs = append(pairs, slotPair{slot: slot, value: value})
	}
	return pairs
}

func slotValue(pairs []slotPair, slot string) (string, bool) {
	for _, p := range pairs {
		if p.slot == slot {
			return p.value, true
		}
	}
	return "", false
}

// stripComment removes a trailing #-comment. Lines whose first
// non-whitespace character is # are dropped entirely; elsewhere a comment
// begins at whitespace + #.
func stripComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "\uFEFF#") {
		return ""
	}
	if strings.Contains(line, "#") {
		line = reComment.ReplaceAllString(line, "")
	}
	return line
}

// validTokSlots are the slots accepted in tok-resource files.
var validTokSlots = map[string]bool{
	"abbrev": true, "alt-spelling": true, "case-sensitive": true,
	"char-split": true, "comment": true, "contraction": true,
	"country": true, "etym-lcode": true, "example": true, "exp": true,
	"group": true, "inflections": true, "last-char-repeatable": true,
	"lcode": true, "lcode-not": true, "left-context": true,
	"left-context-not": true, "lexical": true, "misspelling": true,
	"non-symbol": true, "nonstandard": true, "plural": true,
	"preserve": true, "priority": true, "problem": true,
	"punct-split": true, "repair": true, "right-context": true, "substandard": true,
	"right-context-not": true, "sem-class": true, "side": true,
	"suffix-variations": true, "tag": true, "target": true,
	"token-category": true,
}

// requiredTokSlots maps each head slot (rule kind) to its required slots.
// A head slot missing from this map is an unknown kind.
var requiredTokSlots = map[string][]string{
	"abbrev":      nil,
	"contraction": {"target"},
	"lexical":     nil,
	"preserve":    nil,
	"misspelling": {"target"},
	"non-symbol":  nil,
	"punct-split": {"side"},
	"repair":      {"target"},
}

func validateLine(file string, lineNo int, pairs []slotPair, validSlots map[string]bool,
	requiredSlots map[string][]string) error {
	head := pairs[0].slot
	required, known := requiredSlots[head]
	if !known {
		return &LoadError{File: file, Line: lineNo, Rule: head, Msg: "unknown rule kind"}
	}
	seen := map[string]bool{}
	for _, p := range pairs {
		if !validSlots[p.slot] {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("unexpected slot ::%s", p.slot)}
		}
		if seen[p.slot] {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("duplicate slot ::%s", p.slot)}
		}
		seen[p.slot] = true
	}
	for _, r := range required {
		if !seen[r] {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("missing required slot ::%s", r)}
		}
	}
	return nil
}

// compileContext compiles a context regex from a data file. Left contexts
// anchor at the end of the left string, right contexts at the start of the
// right string.
func compileContext(expr string, left bool) (*regexp.Regexp, error) {
	if left {
		return regexp.Compile(`(?:` + expr + `)$`)
	}
	return regexp.Compile(`^(?:` + expr + `)`)
}

// LoadFile loads one tok-resource file into the dictionary. langCode is
// recorded on entries that do not carry their own ::lcode.
func (d *Dict) LoadFile(fsys fs.FS, filename, langCode string) error {
	f, err := fsys.Open(filename)
	if err != nil {
		return fmt.Errorf("opening resource file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, expanded := range expandLines(line) {
			if err := d.loadLine(filename, lineNo, expanded, langCode); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return nil
}

func (d *Dict) loadLine(file string, lineNo int, line, langCode string) error {
	pairs := parseSlots(line)
	if len(pairs) == 0 {
		return &LoadError{File: file, Line: lineNo, Rule: line, Msg: "no ::slots found"}
	}
	if err := validateLine(file, lineNo, pairs, validTokSlots, requiredTokSlots); err != nil {
		return err
	}
	head := pairs[0].slot
	surf := pairs[0].value
	if surf == "" {
		return &LoadError{File: file, Line: lineNo, Rule: head, Msg: "empty key surface"}
	}

	e := &Entry{Surf: surf, LCode: langCode}
	switch head {
	case "abbrev":
		e.Kind = KindAbbrev
		if exp, ok := slotValue(pairs, "exp"); ok && exp != "" {
			e.Expansions = splitSemicolons(exp)
		}
	case "contraction":
		e.Kind = KindContraction
		e.Target, _ = slotValue(pairs, "target")
		if cs, ok := slotValue(pairs, "char-split"); ok && cs != "" {
			splits, err := parseCharSplits(cs)
			if err != nil {
				return &LoadError{File: file, Line: lineNo, Rule: head, Msg: err.Error()}
			}
			if sumInts(splits) != len([]rune(surf)) || len(splits) != len(strings.Fields(e.Target)) {
				return &LoadError{File: file, Line: lineNo, Rule: head,
					Msg: fmt.Sprintf("char-split %v does not cover %q -> %q", splits, surf, e.Target)}
			}
			e.CharSplits = splits
		}
	case "repair", "misspelling":
		e.Kind = KindRepair
		e.Target, _ = slotValue(pairs, "target")
	case "lexical", "preserve":
		semClass, _ := slotValue(pairs, "sem-class")
		_, priority := slotValue(pairs, "priority")
		if head == "preserve" || priority || semClass == "url" || containsDigit(surf) {
			e.Kind = KindLexicalPriority
		} else {
			e.Kind = KindLexical
		}
	case "punct-split":
		e.Kind = KindPunctSplit
		e.Side, _ = slotValue(pairs, "side")
		if e.Side != "start" && e.Side != "end" && e.Side != "both" {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("invalid ::side %q (want start, end, or both)", e.Side)}
		}
	case "non-symbol":
		e.Kind = KindNonSymbol
	}

	if v, ok := slotValue(pairs, "sem-class"); ok {
		e.SemClass = v
	}
	if v, ok := slotValue(pairs, "tag"); ok {
		e.Tag = v
	}
	if v, ok := slotValue(pairs, "lcode"); ok && v != "" {
		e.LCode = v
	}
	if v, ok := slotValue(pairs, "lcode-not"); ok && v != "" {
		e.LCodesNot = splitCodes(v)
	}
	if _, ok := slotValue(pairs, "case-sensitive"); ok {
		e.CaseSensitive = true
	}
	if _, ok := slotValue(pairs, "group"); ok {
		e.Group = true
	}
	var err error
	if v, ok := slotValue(pairs, "left-context"); ok && v != "" {
		if e.LeftContext, err = compileContext(v, true); err != nil {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("bad ::left-context regex: %v", err)}
		}
	}
	if v, ok := slotValue(pairs, "left-context-not"); ok && v != "" {
		if e.LeftContextNot, err = compileContext(v, true); err != nil {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("bad ::left-context-not regex: %v", err)}
		}
	}
	if v, ok := slotValue(pairs, "right-context"); ok && v != "" {
		if e.RightContext, err = compileContext(v, false); err != nil {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("bad ::right-context regex: %v", err)}
		}
	}
	if v, ok := slotValue(pairs, "right-context-not"); ok && v != "" {
		if e.RightContextNot, err = compileContext(v, false); err != nil {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("bad ::right-context-not regex: %v", err)}
		}
	}
	d.register(e)
	return nil
}

// register indexes e under its lowercased surface and updates the prefix
// sets. A later entry with the same kind, surface, lcode and side replaces
// the earlier one with a warning.
func (d *Dict) register(e *Entry) {
	lc := ucase.ToLower(e.Surf)
	list := d.entries[lc]
	for i, prev := range list {
		if prev.Kind == e.Kind && prev.LCode == e.LCode && prev.Surf == e.Surf &&
			prev.Side == e.Side {
			log.Printf("Warning: duplicate ::%s rule for %q (lcode %q); last wins", e.Kind, e.Surf, e.LCode)
			list[i] = e
			return
		}
	}
	d.entries[lc] = append(list, e)
	if n := len([]rune(e.Surf)); n > d.maxSurfLen {
		d.maxSurfLen = n
	}
	rs := []rune(lc)
	for i := 1; i <= len(rs); i++ {
		p := string(rs[:i])
		switch {
		case e.Kind == KindPunctSplit:
			d.prefixesPunct[p] = true
		case e.Kind == KindLexical:
			d.prefixesLexical[p] = true
		default:
			d.prefixes[p] = true
		}
	}
}

func splitSemicolons(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCodes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == ' ' || r == '\t'
	})
}

func parseCharSplits(s string) ([]int, error) {
	parts := splitSemicolons(strings.ReplaceAll(s, ",", ";"))
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("char-split element %q is not a positive integer", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func sumInts(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
