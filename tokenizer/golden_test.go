package tokenizer

import (
	"encoding/json"
	"flag"
	"os"
	"testing"
)

var updateGolden = flag.Bool("update", false, "regenerate golden test files")

// goldenCase is one end-to-end surface expectation. Cases with the same
// lcode and line_id setting share a tokenizer.
type goldenCase struct {
	Name    string `json:"name"`
	LCode   string `json:"lcode"`
	LineID  bool   `json:"line_id,omitempty"`
	Input   string `json:"input"`
	Surface string `json:"surface"`
}

const goldenPath = "../data/golden/utokenize.json"

func TestGolden(t *testing.T) {
	data, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	var cases []goldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing golden file: %v", err)
	}

	type key struct {
		lcode  string
		lineID bool
	}
	cache := map[key]*Tokenizer{}
	updated := false
	for i := range cases {
		gc := &cases[i]
		t.Run(gc.Name, func(t *testing.T) {
			k := key{gc.LCode, gc.LineID}
			tok, ok := cache[k]
			if !ok {
				tok = newTestTokenizer(t, gc.LCode, Options{FirstTokenIsLineID: gc.LineID})
				cache[k] = tok
			}
			ch := tok.TokenizeWithChart(gc.Input)
			got := ch.Surface(false)
			if *updateGolden {
				if gc.Surface != got {
					gc.Surface = got
					updated = true
				}
				return
			}
			if got != gc.Surface {
				t.Errorf("surface mismatch:\ninput: %q\ngot:   %q\nwant:  %q", gc.Input, got, gc.Surface)
			}
			verifyChart(t, gc.Input, ch)
		})
	}
	if *updateGolden && updated {
		out, err := json.MarshalIndent(cases, "", "  ")
		if err != nil {
			t.Fatalf("marshaling golden cases: %v", err)
		}
		if err := os.WriteFile(goldenPath, append(out, '\n'), 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
	}
}
