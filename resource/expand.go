package resource

import (
	"strings"
)

// maxLastCharRepeat bounds the variants generated by ::last-char-repeatable.
const maxLastCharRepeat = 30

// expandLines turns one data line into the list of lines to load: the line
// itself plus variants generated from ::plural, ::misspelling,
// ::suffix-variations, ::alt-spelling, ::last-char-repeatable, apostrophe
// and hyphen character variants, and spaced abbreviation forms.
func expandLines(line string) []string {
	lines := []string{line}
	lines = expandApostropheVariants(lines)
	lines = expandHyphenVariants(lines)
	lines = expandSlotVariants(lines, "plural", func(surf, variant string) string {
		if variant == "+s" {
			return surf + "s"
		}
		return variant
	})
	lines = expandSlotVariants(lines, "inflections", func(_, variant string) string {
		return variant
	})
	lines = expandSlotVariants(lines, "alt-spelling", func(surf, variant string) string {
		if variant == "+hyphen" {
			return strings.ReplaceAll(surf, " ", "-")
		}
		return variant
	})
	lines = expandSpacedAbbrevs(lines)
	lines = expandLastCharRepeatable(lines)
	lines = expandMisspellings(lines)
	return lines
}

// rewriteLine reassembles a parsed line, substituting the head value and
// dropping the named slots.
func rewriteLine(pairs []slotPair, headValue string, drop ...string) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 && dropped(p.slot, drop) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("::")
		b.WriteString(p.slot)
		v := p.value
		if i == 0 {
			v = headValue
		}
		if v != "" {
			b.WriteByte(' ')
			b.WriteString(strings.ReplaceAll(v, "::", `\:\:`))
		}
	}
	return b.String()
}

func dropped(slot string, drop []string) bool {
	for _, d := range drop {
		if slot == d {
			return true
		}
	}
	return false
}

// expandApostropheVariants adds copies of apostrophe-bearing rules with the
// right single quotation mark and the left single quotation mark, so that
// curly-quoted text matches the same entries. Punct-split rules are left
// alone: their keys are the punctuation characters themselves.
func expandApostropheVariants(lines []string) []string {
	for _, line := range lines[:len(lines):len(lines)] {
		pairs := parseSlots(line)
		if len(pairs) == 0 || pairs[0].slot == "punct-split" || !strings.Contains(pairs[0].value, "'") {
			continue
		}
		for _, repl := range []string{"’", "‘"} {
			variant := make([]slotPair, len(pairs))
			copy(variant, pairs)
			variant[0].value = strings.ReplaceAll(pairs[0].value, "'", repl)
			for i, p := range variant {
				if p.slot == "target" {
					variant[i].value = strings.ReplaceAll(p.value, "'", repl)
				}
			}
			lines = append(lines, rewriteLine(variant, variant[0].value))
		}
	}
	return lines
}

// expandHyphenVariants adds copies of hyphen-bearing rules with the en dash
// and the Armenian hyphen.
func expandHyphenVariants(lines []string) []string {
	for _, line := range lines[:len(lines):len(lines)] {
		pairs := parseSlots(line)
		if len(pairs) == 0 || pairs[0].slot == "punct-split" || !strings.Contains(pairs[0].value, "-") {
			continue
		}
		for _, repl := range []string{"–", "֊"} {
			surf := strings.ReplaceAll(pairs[0].value, "-", repl)
			lines = append(lines, rewriteLine(pairs, surf))
		}
	}
	return lines
}

// expandSlotVariants adds one copy of the rule per semicolon-separated
// value of the named slot, with that slot removed from the copy.
func expandSlotVariants(lines []string, slot string, surfOf func(surf, variant string) string) []string {
	for _, line := range lines[:len(lines):len(lines)] {
		pairs := parseSlots(line)
		if len(pairs) == 0 {
			continue
		}
		v, ok := slotValue(pairs, slot)
		if !ok || v == "" || pairs[0].slot == slot {
			continue
		}
		for _, variant := range splitSemicolons(v) {
			lines = append(lines, rewriteLine(pairs, surfOf(pairs[0].value, variant), slot))
		}
	}
	return lines
}

// expandSpacedAbbrevs generates repair rules that map spaced-out
// abbreviation forms back to the canonical one: "e.g." also loads
// "::repair e. g. ::target e.g.".
func expandSpacedAbbrevs(lines []string) []string {
	for _, line := range lines[:len(lines):len(lines)] {
		pairs := parseSlots(line)
		if len(pairs) == 0 || (pairs[0].slot != "abbrev" && pairs[0].slot != "lexical") {
			continue
		}
		if sem, _ := slotValue(pairs, "sem-class"); sem == "url" {
			continue
		}
		abbrev := pairs[0].value
		for _, spaced := range spacedForms(abbrev) {
			if spaced == abbrev {
				continue
			}
			repair := []slotPair{{slot: "repair", value: spaced}, {slot: "target", value: abbrev}}
			if lcode, ok := slotValue(pairs, "lcode"); ok {
				repair = append(repair, slotPair{slot: "lcode", value: lcode})
			}
			lines = append(lines, rewriteLine(repair, spaced))
		}
	}
	return lines
}

// spacedForms returns the variants of an abbreviation with optional spaces
// after interior periods: "e.g." -> ["e.g.", "e. g."].
func spacedForms(abbrev string) []string {
	dot := strings.Index(abbrev, ".")
	if dot < 0 || dot+1 >= len(abbrev) {
		return []string{abbrev}
	}
	head := abbrev[:dot+1]
	rest := strings.TrimPrefix(abbrev[dot+1:], " ")
	if rest == "" {
		return []string{abbrev}
	}
	var out []string
	for _, sub := range spacedForms(rest) {
		out = append(out, head+sub, head+" "+sub)
	}
	return out
}

// expandLastCharRepeatable adds variants of the rule with its last
// character repeated, up to maxLastCharRepeat extra repetitions.
func expandLastCharRepeatable(lines []string) []string {
	for _, line := range lines[:len(lines):len(lines)] {
		pairs := parseSlots(line)
		if len(pairs) == 0 {
			continue
		}
		if _, ok := slotValue(pairs, "last-char-repeatable"); !ok {
			continue
		}
		surf := pairs[0].value
		rs := []rune(surf)
		last := string(rs[len(rs)-1])
		for i := 0; i < maxLastCharRepeat; i++ {
			surf += last
			lines = append(lines, rewriteLine(pairs, surf, "last-char-repeatable"))
		}
	}
	return lines
}

// expandMisspellings turns a ::misspelling slot on an abbrev or lexical
// line into repair rules, and expands ::suffix-variations on ::misspelling
// head lines ("recieve/receive" entries with shared suffix alternations).
func expandMisspellings(lines []string) []string {
	for _, line := range lines[:len(lines):len(lines)] {
		pairs := parseSlots(line)
		if len(pairs) == 0 {
			continue
		}
		if pairs[0].slot == "misspelling" {
			lines = append(lines, expandMisspellingHead(pairs)...)
			continue
		}
		if pairs[0].slot != "abbrev" && pairs[0].slot != "lexical" {
			continue
		}
		v, ok := slotValue(pairs, "misspelling")
		if !ok || v == "" {
			continue
		}
		for _, miss := range splitSemicolons(v) {
			repair := []slotPair{{slot: "repair", value: miss}, {slot: "target", value: pairs[0].value}}
			lines = append(lines, rewriteLine(repair, miss))
		}
	}
	return lines
}

// expandMisspellingHead expands ::suffix-variations on a ::misspelling
// line. A value "en/e;es" names the lemma suffix before the slash and the
// replacement suffixes after it; without a slash, the variations are
// appended to both the misspelling and the target.
func expandMisspellingHead(pairs []slotPair) []string {
	miss := pairs[0].value
	target, _ := slotValue(pairs, "target")
	if target == "" {
		return nil
	}
	missForms := []string{miss}
	targetForms := []string{target}
	if sv, ok := slotValue(pairs, "suffix-variations"); ok && sv != "" {
		lemmaSuffix := ""
		variations := sv
		if slash := strings.Index(sv, "/"); slash >= 0 {
			lemmaSuffix = sv[:slash]
			variations = sv[slash+1:]
		}
		missStem := strings.TrimSuffix(miss, lemmaSuffix)
		targetStem := strings.TrimSuffix(target, lemmaSuffix)
		for _, variation := range splitSemicolons(variations) {
			missForms = append(missForms, missStem+variation)
			targetForms = append(targetForms, targetStem+variation)
		}
	}
	cs, csOK := slotValue(pairs, "case-sensitive")
	var out []string
	for i := 1; i < len(missForms); i++ {
		repair := []slotPair{{slot: "repair", value: missForms[i]}, {slot: "target", value: targetForms[i]}}
		if csOK {
			repair = append(repair, slotPair{slot: "case-sensitive", value: cs})
		}
		out = append(out, rewriteLine(repair, missForms[i]))
	}
	return out
}
