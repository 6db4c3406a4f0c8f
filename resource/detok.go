package resource

import (
	"bufio"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/uhermjakob/utoken/internal/ucase"
)

// DetokEntry is one detokenization rule: an auto-attach or markup-attach
// rule keyed by surface, or a contraction-reversal rule keyed by the
// decontracted target.
type DetokEntry struct {
	Surf            string
	Group           bool // rule also covers runs of its (single) character
	PairedDelimiter bool // quote-like: attach side decided by context
	LCodes          []string
	LCodesNot       []string
	CaseSensitive   bool
	Exceptions      []string // marked-up forms to leave alone

	LeftContext     *regexp.Regexp
	LeftContextNot  *regexp.Regexp
	RightContext    *regexp.Regexp
	RightContextNot *regexp.Regexp

	Contraction string // contraction reversal: "can n't" -> "can't"
}

// Fulfills reports whether the entry's conditions hold for token between
// left and right context. groupNecessary is set when token is a repeated
// run longer than the entry surface, which only group rules may cover.
func (e *DetokEntry) Fulfills(token, left, right, langCode string, groupNecessary bool) bool {
	if langCode != "" {
		if len(e.LCodes) > 0 && !contains(e.LCodes, langCode) {
			return false
		}
		if contains(e.LCodesNot, langCode) {
			return false
		}
	}
	if e.CaseSensitive && token != e.Surf {
		return false
	}
	if groupNecessary && !e.Group {
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
	return true
}

// Detok holds the detokenization rule tables. Built once at startup,
// immutable and goroutine-safe afterwards.
type Detok struct {
	AttachTag rune

	autoLeft     map[string][]*DetokEntry // tokens that attach to the left neighbor
	autoRight    map[string][]*DetokEntry // tokens that attach to the right neighbor
	markup       map[string][]*DetokEntry // surfaces that receive @ markup when attached
	contractions map[string][]*DetokEntry // lowercased target -> reversal entries
}

// NewDetok returns an empty detokenization resource with the default @
// attach tag.
func NewDetok() *Detok {
	return &Detok{
		AttachTag:    '@',
		autoLeft:     make(map[string][]*DetokEntry),
		autoRight:    make(map[string][]*DetokEntry),
		markup:       make(map[string][]*DetokEntry),
		contractions: make(map[string][]*DetokEntry),
	}
}

var validDetokSlots = map[string]bool{
	"alt-spelling": true, "attach-tag": true, "auto-attach": true,
	"case-sensitive": true, "char-split": true, "comment": true,
	"contraction": true, "country": true, "etym-lcode": true,
	"example": true, "except": true, "exp": true, "group": true,
	"inflections": true, "last-char-repeatable": true, "lcode": true,
	"lcode-not": true, "left-context": true, "left-context-not": true,
	"lexical": true, "markup-attach": true, "misspelling": true,
	"non-symbol": true, "nonstandard": true, "paired-delimiter": true,
	"plural": true, "preserve": true, "priority": true, "problem": true,
	"right-context": true, "right-context-not": true, "sem-class": true,
	"side": true, "substandard": true, "suffix-variations": true,
	"tag": true, "target": true, "token-category": true,
}

var requiredDetokSlots = map[string][]string{
	"attach-tag":    nil,
	"auto-attach":   {"side"},
	"contraction":   {"target"},
	"lexical":       nil,
	"markup-attach": nil,
	"non-symbol":    nil,
	"preserve":      nil,
	"abbrev":        nil,
	"misspelling":   {"target"},
	"punct-split":   {"side"},
	"repair":        {"target"},
}

// LoadFile loads a detok-resource file, or harvests the detokenization-
// relevant entries (contractions, decontraction lexicals) from a
// tok-resource file. Rules carrying an ::lcode that does not intersect
// docLangCodes are skipped.
func (d *Detok) LoadFile(fsys fs.FS, filename string, docLangCodes []string) error {
	f, err := fsys.Open(filename)
	if err != nil {
		return fmt.Errorf("opening detok resource file: %w", err)
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
			if err := d.loadLine(filename, lineNo, expanded, docLangCodes); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return nil
}

func (d *Detok) loadLine(file string, lineNo int, line string, docLangCodes []string) error {
	pairs := parseSlots(line)
	if len(pairs) == 0 {
		return &LoadError{File: file, Line: lineNo, Rule: line, Msg: "no ::slots found"}
	}
	head := pairs[0].slot
	switch head {
	case "repair", "punct-split", "abbrev", "misspelling", "non-symbol", "preserve":
		// Only relevant to the tokenizer; tolerated here because
		// tok-resource files are also loaded for detokenization.
		return nil
	}
	if err := validateLine(file, lineNo, pairs, validDetokSlots, requiredDetokSlots); err != nil {
		return err
	}
	surf := pairs[0].value
	lcodes := []string(nil)
	if v, ok := slotValue(pairs, "lcode"); ok && v != "" {
		lcodes = splitCodes(v)
		if len(docLangCodes) > 0 && !sharesElement(docLangCodes, lcodes) {
			return nil
		}
	}
	lc := ucase.ToLower(surf)

	var e *DetokEntry
	switch head {
	case "attach-tag":
		if rs := []rune(surf); len(rs) == 1 {
			d.AttachTag = rs[0]
		} else {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("attach tag %q is not a single character", surf)}
		}
		return nil
	case "auto-attach":
		side, _ := slotValue(pairs, "side")
		if side != "left" && side != "right" && side != "both" {
			return &LoadError{File: file, Line: lineNo, Rule: head,
				Msg: fmt.Sprintf("invalid ::side %q (want left, right, or both)", side)}
		}
		e = &DetokEntry{Surf: surf, LCodes: lcodes}
		if err := fillDetokConditions(e, pairs, file, lineNo, head); err != nil {
			return err
		}
		if side == "left" || side == "both" {
			d.autoLeft[lc] = append(d.autoLeft[lc], e)
		}
		if side == "right" || side == "both" {
			d.autoRight[lc] = append(d.autoRight[lc], e)
		}
		return nil
	case "markup-attach":
		e = &DetokEntry{Surf: surf, LCodes: lcodes}
		if _, ok := slotValue(pairs, "paired-delimiter"); ok {
			e.PairedDelimiter = true
		}
		if v, ok := slotValue(pairs, "except"); ok && v != "" {
			e.Exceptions = strings.Fields(v)
		}
		if err := fillDetokConditions(e, pairs, file, lineNo, head); err != nil {
			return err
		}
		d.markup[lc] = append(d.markup[lc], e)
		return nil
	case "contraction":
		if _, nonstd := slotValue(pairs, "nonstandard"); nonstd {
			return nil
		}
		if _, substd := slotValue(pairs, "substandard"); substd {
			return nil
		}
		target, _ := slotValue(pairs, "target")
		e = &DetokEntry{Surf: target, Contraction: surf, LCodes: lcodes}
		if err := fillDetokConditions(e, pairs, file, lineNo, head); err != nil {
			return err
		}
		d.contractions[ucase.ToLower(target)] = append(d.contractions[ucase.ToLower(target)], e)
		return nil
	case "lexical":
		// Decontraction pieces such as 's or n't auto-attach to the side
		// their tag names.
		tag, _ := slotValue(pairs, "tag")
		switch tag {
		case "DECONTRACTION-L", "DECONTRACTION-R", "DECONTRACTION-B":
		default:
			return nil
		}
		e = &DetokEntry{Surf: surf, LCodes: lcodes}
		if err := fillDetokConditions(e, pairs, file, lineNo, head); err != nil {
			return err
		}
		if tag == "DECONTRACTION-L" || tag == "DECONTRACTION-B" {
			d.autoRight[lc] = append(d.autoRight[lc], e)
		}
		if tag == "DECONTRACTION-R" || tag == "DECONTRACTION-B" {
			d.autoLeft[lc] = append(d.autoLeft[lc], e)
		}
		return nil
	}
	return &LoadError{File: file, Line: lineNo, Rule: head, Msg: "unknown rule kind"}
}

func fillDetokConditions(e *DetokEntry, pairs []slotPair, file string, lineNo int, head string) error {
	if _, ok := slotValue(pairs, "case-sensitive"); ok {
		e.CaseSensitive = true
	}
	if _, ok := slotValue(pairs, "group"); ok {
		e.Group = true
	}
	if v, ok := slotValue(pairs, "lcode-not"); ok && v != "" {
		e.LCodesNot = splitCodes(v)
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
	return nil
}

// MarkupEntries returns the markup-attach rules for a lowercased surface.
func (d *Detok) MarkupEntries(lcSurf string) []*DetokEntry { return d.markup[lcSurf] }

// IsMarkupToken reports whether token is a markup-attach surface,
// optionally decorated with attach tags on either side (@-@, @", ...), a
// run of a group rule's character, or the bare double attach tag.
func (d *Detok) IsMarkupToken(token string) bool {
	tag := string(d.AttachTag)
	if token == tag+tag {
		return true
	}
	core := strings.TrimPrefix(token, tag)
	core = strings.TrimSuffix(core, tag)
	if core == "" {
		return false
	}
	lc := ucase.ToLower(core)
	if len(d.markup[lc]) > 0 || lc == "/" {
		return true
	}
	// A run of one repeated character matches a group rule for its prefix.
	rs := []rune(lc)
	for i := len(rs) - 1; i >= 1; i-- {
		if rs[i] != rs[0] {
			return false
		}
	}
	for i := len(rs) - 1; i >= 1; i-- {
		for _, e := range d.markup[string(rs[:i])] {
			if e.Group {
				return true
			}
		}
	}
	return false
}

// AutoAttachesLeft reports whether token attaches to its left neighbor
// without a space, per the auto-attach rules.
func (d *Detok) AutoAttachesLeft(token, left, right, langCode string) bool {
	return d.autoAttaches(d.autoLeft, token, left, right, langCode)
}

// AutoAttachesRight reports whether token attaches to its right neighbor
// without a space.
func (d *Detok) AutoAttachesRight(token, left, right, langCode string) bool {
	return d.autoAttaches(d.autoRight, token, left, right, langCode)
}

func (d *Detok) autoAttaches(m map[string][]*DetokEntry, token, left, right, langCode string) bool {
	lc := ucase.ToLower(token)
	for _, e := range m[lc] {
		if e.Fulfills(token, left, right, langCode, false) {
			return true
		}
	}
	rs := []rune(lc)
	if len(rs) > 1 && allSameRune(rs) {
		for _, e := range m[string(rs[0])] {
			if e.Fulfills(token, left, right, langCode, true) {
				return true
			}
		}
	}
	return false
}

// Contraction returns the re-contracted form of a decontracted token
// sequence ("can n't" -> "can't"), with capitalization carried over, or
// false if no reversal rule applies.
func (d *Detok) Contraction(s, langCode string) (string, bool) {
	for _, e := range d.contractions[ucase.ToLower(s)] {
		if e.Fulfills(s, "", "", langCode, false) {
			return ucase.AdjustCapitalization(e.Contraction, s), true
		}
	}
	return "", false
}

func allSameRune(rs []rune) bool {
	for _, r := range rs[1:] {
		if r != rs[0] {
			return false
		}
	}
	return true
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func sharesElement(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}
