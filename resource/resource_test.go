package resource

import (
	"strings"
	"testing"
	"testing/fstest"
)

func mapFS(name, content string) fstest.MapFS {
	return fstest.MapFS{name: &fstest.MapFile{Data: []byte(content)}}
}

func loadDict(t *testing.T, content string) *Dict {
	t.Helper()
	d := NewDict()
	if err := d.LoadFile(mapFS("tok.txt", content), "tok.txt", "eng"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return d
}

func TestParseSlots(t *testing.T) {
	pairs := parseSlots("::abbrev Mr. ::exp Mister ::sem-class pre-name-title")
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs: %v", len(pairs), pairs)
	}
	if pairs[0].slot != "abbrev" || pairs[0].value != "Mr." {
		t.Errorf("head pair = %+v", pairs[0])
	}
	if v, ok := slotValue(pairs, "exp"); !ok || v != "Mister" {
		t.Errorf("exp = %q, %v", v, ok)
	}
	if _, ok := slotValue(pairs, "missing"); ok {
		t.Error("found missing slot")
	}
}

func TestParseSlotsMultiWordValues(t *testing.T) {
	pairs := parseSlots("::contraction can't ::target can n't ::comment two words")
	if v, _ := slotValue(pairs, "target"); v != "can n't" {
		t.Errorf("target = %q, want %q", v, "can n't")
	}
	if v, _ := slotValue(pairs, "comment"); v != "two words" {
		t.Errorf("comment = %q", v)
	}
}

func TestParseSlotsEscapedColons(t *testing.T) {
	pairs := parseSlots(`::lexical a\:\:b ::sem-class x`)
	if pairs[0].value != "a::b" {
		t.Errorf("escaped value = %q, want a::b", pairs[0].value)
	}
}

func TestLoadAbbrev(t *testing.T) {
	d := loadDict(t, "::abbrev Mr. ::exp Mister ::sem-class pre-name-title\n")
	entries := d.Lookup("mr.")
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	e := entries[0]
	if e.Kind != KindAbbrev || e.SemClass != "pre-name-title" || len(e.Expansions) != 1 {
		t.Errorf("entry = %+v", e)
	}
	if !d.HasPrefix("m") || !d.HasPrefix("mr") || !d.HasPrefix("mr.") {
		t.Error("prefix set incomplete")
	}
	if d.HasPrefix("mrs") {
		t.Error("spurious prefix")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		frag string
	}{
		{"unknown kind", "::frobnicate x ::side end", "unknown rule kind"},
		{"missing required slot", "::contraction can't", "missing required slot ::target"},
		{"invalid side", "::punct-split . ::side sideways", "invalid ::side"},
		{"bad regex", `::abbrev No. ::right-context \s?(\d`, "right-context"},
		{"duplicate slot", "::abbrev Mr. ::exp A ::exp B", "duplicate slot"},
		{"unexpected slot", "::abbrev Mr. ::frob x", "unexpected slot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDict()
			err := d.LoadFile(mapFS("bad.txt", tt.line+"\n"), "bad.txt", "")
			if err == nil {
				t.Fatal("load succeeded, want error")
			}
			le, ok := err.(*LoadError)
			if !ok {
				t.Fatalf("error type %T: %v", err, err)
			}
			if le.File != "bad.txt" || le.Line != 1 {
				t.Errorf("location = %s:%d, want bad.txt:1", le.File, le.Line)
			}
			if !strings.Contains(err.Error(), tt.frag) {
				t.Errorf("error %q missing %q", err, tt.frag)
			}
		})
	}
}

func TestCommentsAndBlankLines(t *testing.T) {
	d := loadDict(t, "# header comment\n\n::abbrev Dr. ::exp Doctor # trailing comment\n")
	if len(d.Lookup("dr.")) != 1 {
		t.Error("entry with trailing comment not loaded")
	}
	if v, _ := slotValue(parseSlots("::abbrev Dr. ::exp Doctor"), "exp"); v != "Doctor" {
		t.Errorf("exp = %q", v)
	}
}

func TestPluralExpansion(t *testing.T) {
	d := loadDict(t, "::lexical T-shirt ::plural +s\n")
	if len(d.Lookup("t-shirt")) == 0 || len(d.Lookup("t-shirts")) == 0 {
		t.Error("plural expansion missing")
	}
}

func TestApostropheVariantExpansion(t *testing.T) {
	d := loadDict(t, "::contraction can't ::target can n't\n")
	straight := d.Lookup("can't")
	curly := d.Lookup("can’t")
	if len(straight) == 0 || len(curly) == 0 {
		t.Fatal("apostrophe variants missing")
	}
	if got := curly[0].Target; got != "can n’t" {
		t.Errorf("curly target = %q, want can n’t", got)
	}
}

func TestSpacedAbbrevExpansion(t *testing.T) {
	d := loadDict(t, "::abbrev e.g. ::exp for example\n")
	entries := d.Lookup("e. g.")
	if len(entries) == 0 {
		t.Fatal("spaced abbreviation repair missing")
	}
	if entries[0].Kind != KindRepair || entries[0].Target != "e.g." {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestMisspellingExpansion(t *testing.T) {
	d := loadDict(t, "::misspelling recieve ::target receive ::suffix-variations e/es;ed\n")
	if len(d.Lookup("recieve")) == 0 {
		t.Error("base misspelling missing")
	}
	for _, key := range []string{"recieves", "recieved"} {
		entries := d.Lookup(key)
		if len(entries) == 0 {
			t.Errorf("variant %q missing", key)
			continue
		}
		want := strings.Replace(key, "recie", "recei", 1)
		if entries[0].Target != want {
			t.Errorf("variant %q target = %q, want %q", key, entries[0].Target, want)
		}
	}
}

func TestCharSplitValidation(t *testing.T) {
	d := NewDict()
	err := d.LoadFile(mapFS("t.txt", "::contraction won't ::target will n't ::char-split 2,2\n"), "t.txt", "")
	if err == nil {
		t.Error("inconsistent char-split accepted")
	}
	d = NewDict()
	if err := d.LoadFile(mapFS("t.txt", "::contraction won't ::target will n't ::char-split 2,3\n"), "t.txt", ""); err != nil {
		t.Errorf("valid char-split rejected: %v", err)
	}
}

func TestPriorityLexical(t *testing.T) {
	d := loadDict(t, "::lexical G-20 ::sem-class org\n::preserve covid-19\n::lexical plain-word\n")
	if d.Lookup("g-20")[0].Kind != KindLexicalPriority {
		t.Error("digit-bearing lexical not priority")
	}
	if d.Lookup("covid-19")[0].Kind != KindLexicalPriority {
		t.Error("preserve entry not priority")
	}
	if d.Lookup("plain-word")[0].Kind != KindLexical {
		t.Error("plain lexical wrongly priority")
	}
}

func TestTLDs(t *testing.T) {
	fsys := mapFS("tld.txt",
		"::code com ::reliability high\n"+
			"::code kz ::country-name Kazakhstan\n"+
			"::code in ::country-name India ::reliability low\n")
	tlds, err := LoadTLDs(fsys, "tld.txt")
	if err != nil {
		t.Fatalf("LoadTLDs: %v", err)
	}
	if tlds.Reliability("com") != HighReliability || tlds.Reliability("COM") != HighReliability {
		t.Error("com reliability wrong")
	}
	if tlds.Reliability("kz") != NormalReliability {
		t.Error("kz reliability wrong")
	}
	if tlds.Reliability("in") != LowReliability {
		t.Error("in reliability wrong")
	}
	if tlds.Contains("zz") {
		t.Error("unknown TLD accepted")
	}
}

func TestDetokLoad(t *testing.T) {
	content := "::auto-attach . ::side left\n" +
		"::auto-attach ( ::side right\n" +
		"::markup-attach - ::group True\n" +
		"::markup-attach \" ::paired-delimiter True\n" +
		"::contraction can't ::target can n't\n" +
		"::lexical 's ::tag DECONTRACTION-R\n"
	d := NewDetok()
	if err := d.LoadFile(mapFS("detok.txt", content), "detok.txt", nil); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !d.AutoAttachesLeft(".", "end", "", "") {
		t.Error("period does not auto-attach left")
	}
	if !d.AutoAttachesRight("(", "", "word", "") {
		t.Error("open paren does not auto-attach right")
	}
	if !d.AutoAttachesLeft("'s", "John", " went", "") {
		t.Error("clitic does not auto-attach left")
	}
	if d.AutoAttachesLeft("word", "", "", "") {
		t.Error("plain word auto-attaches")
	}
	for _, tok := range []string{"@-@", "-", "@-", "-@", "---", "@---@", "\"", "@\"", "@@"} {
		if !d.IsMarkupToken(tok) {
			t.Errorf("IsMarkupToken(%q) = false", tok)
		}
	}
	for _, tok := range []string{"word", "@word@", "-x", ""} {
		if d.IsMarkupToken(tok) {
			t.Errorf("IsMarkupToken(%q) = true", tok)
		}
	}
	if got, ok := d.Contraction("can n't", ""); !ok || got != "can't" {
		t.Errorf("Contraction = %q, %v", got, ok)
	}
	if got, ok := d.Contraction("Can n't", ""); !ok || got != "Can't" {
		t.Errorf("capitalized Contraction = %q, %v", got, ok)
	}
	if _, ok := d.Contraction("will not", ""); ok {
		t.Error("spurious contraction")
	}
}

func TestDetokLanguageFilter(t *testing.T) {
	content := "::auto-attach ـ ::side left ::lcode ara\n"
	d := NewDetok()
	if err := d.LoadFile(mapFS("d.txt", content), "d.txt", []string{"eng"}); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if d.AutoAttachesLeft("ـ", "x", "y", "eng") {
		t.Error("rule for other language loaded")
	}
}

func TestEntryConditions(t *testing.T) {
	d := loadDict(t, `::abbrev No. ::right-context \s?\d`+"\n")
	e := d.Lookup("no.")[0]
	if !e.FulfillsConditions("No.", "see ", " 5 items", "") {
		t.Error("valid context rejected")
	}
	if e.FulfillsConditions("No.", "see ", " way", "") {
		t.Error("invalid context accepted")
	}
}

func TestCaseSensitiveEntry(t *testing.T) {
	d := loadDict(t, "::lexical 's-Gravenhage ::case-sensitive True\n")
	e := d.Lookup("'s-gravenhage")[0]
	if !e.FulfillsConditions("'s-Gravenhage", "", "", "") {
		t.Error("exact case rejected")
	}
	if e.FulfillsConditions("'S-GRAVENHAGE", "", "", "") {
		t.Error("wrong case accepted")
	}
}
