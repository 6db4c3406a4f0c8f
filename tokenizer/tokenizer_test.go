package tokenizer

import (
	"strings"
	"testing"

	"github.com/uhermjakob/utoken/charclass"
	"github.com/uhermjakob/utoken/chart"
)

// newTestTokenizer builds a tokenizer over the embedded data files.
func newTestTokenizer(t *testing.T, langCode string, opts Options) *Tokenizer {
	t.Helper()
	tok, err := New(langCode, "", opts)
	if err != nil {
		t.Fatalf("New(%q): %v", langCode, err)
	}
	return tok
}

// verifyChart checks the chart invariants that must hold for every
// tokenization:
//   - Spans are in bounds, non-empty, strictly increasing, non-overlapping.
//   - Offset invariant: Orig[t.Start:t.End] == t.OrigSurf for every token.
//   - Coverage: gaps between tokens hold only whitespace or characters the
//     normalizer deletes.
func verifyChart(t *testing.T, input string, ch *chart.Chart) {
	t.Helper()
	if err := ch.Validate(); err != nil {
		t.Errorf("chart invariant broken for %q: %v", input, err)
	}
	prevEnd := 0
	for i, tok := range ch.Tokens() {
		if got := string(ch.Orig[tok.Start:tok.End]); got != tok.OrigSurf {
			t.Errorf("token %d offset invariant broken: Orig[%d:%d]=%q, OrigSurf=%q",
				i, tok.Start, tok.End, got, tok.OrigSurf)
		}
		for _, r := range ch.Orig[prevEnd:tok.Start] {
			v := charclass.RuneVector(r)
			if !v.Has(charclass.Whitespace | charclass.NonStandardSpace |
				charclass.DeletableControl | charclass.ZWSP | charclass.ZWNJ |
				charclass.ZWJ | charclass.VariationSelector | charclass.Surrogate) {
				t.Errorf("gap before token %d contains non-deletable %q in %q", i, r, input)
			}
		}
		prevEnd = tok.End
	}
}

func TestTokenizeSurface(t *testing.T) {
	tests := []struct {
		name  string
		lcode string
		input string
		want  string
	}{
		{"empty", "eng", "", ""},
		{"plain words", "eng", "hello world", "hello world"},
		{"comma and exclamation", "eng", "Hello, world!", "Hello , world !"},
		{"sentence-final period", "eng", "It works.", "It works ."},
		{"abbreviation keeps period", "eng", "Capt. Miller arrived.", "Capt. Miller arrived ."},
		{"clitic splits", "eng", "John's book", "John 's book"},
		{"contraction decontracts", "eng", "I can't see.", "I can n't see ."},
		{"won't normalizes to will", "eng", "They won't come.", "They will n't come ."},
		{"cannot splits", "eng", "We cannot say.", "We can not say ."},
		{"currency splits off", "eng", "It cost $25 total.", "It cost $ 25 total ."},
		{"grouped number stays", "eng", "Over 12,345,678 items.", "Over 12,345,678 items ."},
		{"decimal number stays", "eng", "About 3.14 exactly.", "About 3.14 exactly ."},
		{"ellipsis splits", "eng", "Well… fine.", "Well … fine ."},
		{"exclamation run groups", "eng", "Stop!!! now", "Stop !!! now"},
		{"paired quotes", "eng", "He said \"yes\" then", "He said \"@ yes @\" then"},
		{"percent splits at end", "eng", "Up 50% today.", "Up 50 % today ."},
		{"lexical hyphen compound", "eng", "my brother-in-law came", "my brother-in-law came"},
		{"colon between words splits", "eng", "Note: done", "Note : done"},
		{"colon in reference kept", "eng", "See GEN:1:1 now", "See GEN:1:1 now"},
		{"hashtag", "eng", "Trending: #go now", "Trending : #go now"},
		{"handle", "eng", "Ping @alice later", "Ping @alice later"},
		{"email", "eng", "Write to bob@example.com now.", "Write to bob@example.com now ."},
		{"scheme url", "eng", "See https://example.com/a?b=1 here.", "See https://example.com/a?b=1 here ."},
		{"universal rules only", "", "Hello, world!", "Hello , world !"},
		{"devanagari digits", "hin", "मूल्य १२३ है।", "मूल्य १२३ है ।"},
	}
	cache := map[string]*Tokenizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := cache[tt.lcode]
			if !ok {
				tok = newTestTokenizer(t, tt.lcode, Options{})
				cache[tt.lcode] = tok
			}
			ch := tok.TokenizeWithChart(tt.input)
			if got := ch.Surface(false); got != tt.want {
				t.Errorf("Tokenize(%q):\ngot:  %q\nwant: %q", tt.input, got, tt.want)
			}
			verifyChart(t, tt.input, ch)
		})
	}
}

func TestSimpleModeStripsMarkup(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{})
	inputs := []string{
		"peace-loving T-shirt",
		"(\"Hello,world!\")",
		"He said \"yes\" then left.",
		"a well-known fact",
	}
	for _, input := range inputs {
		ch := tok.TokenizeWithChart(input)
		marked := ch.Surface(false)
		simple := ch.Surface(true)
		if got := strings.ReplaceAll(marked, "@", ""); got != simple {
			// @ only ever appears as markup in these inputs.
			t.Errorf("simple mode mismatch for %q:\nmarked: %q\nsimple: %q", input, marked, simple)
		}
	}
}

func TestFirstTokenIsLineID(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{FirstTokenIsLineID: true})
	ch := tok.TokenizeWithChart("GEN:1:1\tIn the beginning, God created the heavens.")
	want := "GEN:1:1 In the beginning , God created the heavens ."
	if got := ch.Surface(false); got != want {
		t.Errorf("line-id surface:\ngot:  %q\nwant: %q", got, want)
	}
	tokens := ch.Tokens()
	if len(tokens) == 0 || tokens[0].Type != chart.LineID {
		t.Fatalf("first token is not LINE-ID: %v", tokens)
	}
	if tokens[0].Surf != "GEN:1:1" {
		t.Errorf("line-id surface = %q, want GEN:1:1", tokens[0].Surf)
	}
}

func TestChartAnnotationScenario(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{})
	ch := tok.TokenizeWithChart("Capt. O'Connor's car can't've cost $100,000.")
	verifyChart(t, "Capt. O'Connor's car can't've cost $100,000.", ch)

	want := []struct {
		start, end int
		typ        chart.TokenType
		surf       string
	}{
		{0, 5, chart.Abbrev, "Capt."},
		{6, 14, chart.WordB, "O'Connor"},
		{14, 16, chart.Decontraction, "'s"},
		{17, 20, chart.WordB, "car"},
		{21, 23, chart.Decontraction, "can"},
		{23, 26, chart.Decontraction, "n't"},
		{26, 29, chart.Decontraction, "'ve"},
		{30, 34, chart.WordB, "cost"},
		{35, 36, chart.Abbrev, "$"},
		{36, 43, chart.Number, "100,000"},
		{43, 44, chart.PunctE, "."},
	}
	tokens := ch.Tokens()
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Start != w.start || got.End != w.end || got.Type != w.typ || got.Surf != w.surf {
			t.Errorf("token %d = %v, want %s(%q)[%d:%d]", i, got, w.typ, w.surf, w.start, w.end)
		}
	}
	if tokens[0].SemClass != "military-rank" {
		t.Errorf("Capt. sem-class = %q, want military-rank", tokens[0].SemClass)
	}
	if tokens[8].SemClass != "currency-unit" {
		t.Errorf("$ sem-class = %q, want currency-unit", tokens[8].SemClass)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{})
	inputs := []string{
		"plain text",
		"non\u00A0breaking\u00A0space",
		"zero\u200Bwidth here",
		"control\u0007chars",
		"mixed \u200C\u200D joiners",
	}
	for _, input := range inputs {
		once := tok.Tokenize(input)
		twice := tok.Tokenize(tok.Tokenize(input))
		if once != twice {
			t.Errorf("tokenization not stable for %q: %q vs %q", input, once, twice)
		}
	}
}

func TestUniversalMatchesEnglishOnNeutralInput(t *testing.T) {
	universal := newTestTokenizer(t, "", Options{})
	english := newTestTokenizer(t, "eng", Options{})
	inputs := []string{
		"1,234.56 total",
		"Hello, world!",
		"(brackets) [more] {even}",
		"https://example.com/path today",
	}
	for _, input := range inputs {
		if u, e := universal.Tokenize(input), english.Tokenize(input); u != e {
			t.Errorf("universal/english mismatch for %q: %q vs %q", input, u, e)
		}
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	tok := newTestTokenizer(t, "xyz", Options{})
	if got, want := tok.Tokenize("Hello, world!"), "Hello , world !"; got != want {
		t.Errorf("unknown lcode tokenization = %q, want %q", got, want)
	}
}

func TestControlCharacterDeletionKeepsOffsets(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{})
	input := "ab\u0007cd ef"
	ch := tok.TokenizeWithChart(input)
	verifyChart(t, input, ch)
	tokens := ch.Tokens()
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(tokens), tokens)
	}
	// The word after the deleted control character still maps onto the
	// original offsets.
	if tokens[0].Surf != "abcd" {
		t.Errorf("first surf = %q, want abcd", tokens[0].Surf)
	}
	if tokens[0].OrigSurf != "ab\u0007cd" {
		t.Errorf("first orig surf = %q, want with control char", tokens[0].OrigSurf)
	}
	if tokens[1].Start != 6 || tokens[1].End != 8 {
		t.Errorf("second token span = [%d:%d], want [6:8]", tokens[1].Start, tokens[1].End)
	}
}

func TestWordInteriorAfterMarkup(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{})
	ch := tok.TokenizeWithChart("peace-loving T-shirt")
	var types []chart.TokenType
	for _, tk := range ch.Tokens() {
		types = append(types, tk.Type)
	}
	want := []chart.TokenType{chart.WordB, chart.Punct, chart.WordI, chart.Lexical}
	if len(types) != len(want) {
		t.Fatalf("got types %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got types %v, want %v", types, want)
		}
	}
}

func TestConcurrentTokenization(t *testing.T) {
	tok := newTestTokenizer(t, "eng", Options{})
	const workers = 8
	done := make(chan bool, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- true }()
			for i := 0; i < 50; i++ {
				got := tok.TokenizeWithChart("Mr. Miller can't pay $15,000.00.").Surface(false)
				want := "Mr. Miller can n't pay $ 15,000.00 ."
				if got != want {
					t.Errorf("concurrent tokenize = %q, want %q", got, want)
					return
				}
			}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
}
