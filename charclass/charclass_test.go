package charclass

import "testing"

func TestRuneVector(t *testing.T) {
	tests := []struct {
		r    rune
		mask Vector
	}{
		{'a', Letter},
		{'A', Letter},
		{'5', Digit},
		{'५', Digit | Devanagari}, // Devanagari five
		{'٥', Digit | Arabic},     // Arabic-Indic five
		{' ', Whitespace},
		{'\t', Whitespace},
		{'@', AtSign | AttachTag},
		{'#', NumberSign},
		{'&', Ampersand},
		{'<', LessThan},
		{'[', LeftSquareBracket},
		{'/', Slash},
		{'\'', Apostrophe | Quote},
		{'’', Apostrophe | Quote},
		{'"', Quote},
		{'-', Dash},
		{'–', Dash},
		{'$', Currency},
		{'€', Currency},
		{'\a', DeletableControl},
		{'\u00ad', DeletableControl}, // soft hyphen
		{'\u200b', ZWSP},
		{'\u200c', ZWNJ},
		{'\u200d', ZWJ},
		{'\ufe0f', VariationSelector},
		{'α', Letter | Greek},
		{'ש', Letter | Hebrew},
		{'م', Letter | Arabic},
		{'क', Letter | Devanagari},
		{'த', Letter | Tamil},
		{'한', Letter | Hangul},
		{'中', Letter | CJK},
		{'፪', EthiopicNumber},
		{'☀', MiscSymbol},
		{'😀', MiscSymbol},
		{'İ', Letter | UpperUnstable},
		{'\u0301', CombiningMark}, // combining acute accent
	}
	for _, tt := range tests {
		if v := RuneVector(tt.r); v&tt.mask != tt.mask {
			t.Errorf("RuneVector(%q) = %b, missing bits %b", tt.r, v, tt.mask)
		}
	}
}

func TestRuneVectorNegative(t *testing.T) {
	if RuneVector('a').Has(Digit | Whitespace | Hebrew) {
		t.Error("letter a claims digit/space/Hebrew bits")
	}
	if RuneVector('\u200c').Has(DeletableControl) {
		t.Error("zero-width non-joiner marked deletable")
	}
}

func TestLineVector(t *testing.T) {
	lv := LineVector([]rune("abc 123 ש"))
	for _, mask := range []Vector{Letter, Digit, Whitespace, Hebrew} {
		if !lv.Has(mask) {
			t.Errorf("line vector missing %b", mask)
		}
	}
	if lv.Has(Arabic | AtSign | Dash) {
		t.Error("line vector has spurious bits")
	}
}

func TestSpanVector(t *testing.T) {
	rs := []rune("ab12")
	if v := SpanVector(rs, 0, 2); !v.Has(Letter) || v.Has(Digit) {
		t.Errorf("SpanVector(0,2) = %b", v)
	}
	if v := SpanVector(rs, 2, 4); !v.Has(Digit) || v.Has(Letter) {
		t.Errorf("SpanVector(2,4) = %b", v)
	}
}

func TestIndicUnion(t *testing.T) {
	for _, r := range "कতਕકଓதతಕമ" {
		if !RuneVector(r).Has(Indic) {
			t.Errorf("%q not in Indic union", r)
		}
	}
}
