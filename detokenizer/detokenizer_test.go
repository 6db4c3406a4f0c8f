package detokenizer

import "testing"

func newTestDetokenizer(t *testing.T, langCode string) *Detokenizer {
	t.Helper()
	d, err := New(langCode, "")
	if err != nil {
		t.Fatalf("New(%q): %v", langCode, err)
	}
	return d
}

func TestDetokenize(t *testing.T) {
	tests := []struct {
		name  string
		lcode string
		input string
		want  string
	}{
		{"empty", "eng", "", ""},
		{"plain words", "eng", "hello world", "hello world"},
		{"sentence punctuation", "eng", "It works .", "It works."},
		{"comma and question", "eng", "Really , why ?", "Really, why?"},
		{"brackets", "eng", "a ( b ) c", "a (b) c"},
		{"clitic reattaches", "eng", "John 's book", "John's book"},
		{"contraction rejoins", "eng", "I can n't see .", "I can't see."},
		{"repair reverses", "eng", "They will n't come .", "They won't come."},
		{"contraction chain", "eng", "car can n't 've cost", "car can't've cost"},
		{"currency attaches right", "eng", "cost $ 100,000 .", "cost $100,000."},
		{"dash markup joins", "eng", "peace @-@ loving T-shirt", "peace-loving T-shirt"},
		{"quote markup", "eng", "( \"@ Hello , world ! @\" )", "(\"Hello, world!\")"},
		{"xml tags join", "eng", "<b> bold </b> text", "<b>bold</b> text"},
		{"percent attaches", "eng", "Up 50 % today .", "Up 50% today."},
		{"exclamation run", "eng", "Stop !!! now", "Stop!!! now"},
		{"full scenario", "eng",
			"Capt. O'Connor 's car can n't 've cost $ 100,000 .",
			"Capt. O'Connor's car can't've cost $100,000."},
	}
	cache := map[string]*Detokenizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := cache[tt.lcode]
			if !ok {
				d = newTestDetokenizer(t, tt.lcode)
				cache[tt.lcode] = d
			}
			if got := d.Detokenize(tt.input); got != tt.want {
				t.Errorf("Detokenize(%q):\ngot:  %q\nwant: %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitTokensXML(t *testing.T) {
	d := newTestDetokenizer(t, "eng")
	tokens, offsets := d.splitTokens(`x <a href="u v"> y`)
	want := []string{"x", `<a href="u v">`, "y"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %q, want %q", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("tokens = %q, want %q", tokens, want)
		}
	}
	if len(offsets) != len(tokens) {
		t.Fatalf("offsets = %v", offsets)
	}
	if offsets[0] != 0 || offsets[1] != 2 {
		t.Errorf("offsets = %v", offsets)
	}
}

func TestDetokenizeGroupRun(t *testing.T) {
	d := newTestDetokenizer(t, "eng")
	// Runs of a grouped auto-attach character attach like the single one.
	if got, want := d.Detokenize("What ??? now"), "What??? now"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDetokenizeIdempotentOnJoined(t *testing.T) {
	d := newTestDetokenizer(t, "eng")
	joined := d.Detokenize("It works .")
	if again := d.Detokenize(joined); again != joined {
		t.Errorf("not stable: %q vs %q", joined, again)
	}
}
