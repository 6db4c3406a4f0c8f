package ucase

import "testing"

func TestLowerPreservesLength(t *testing.T) {
	tests := []struct{ in, want string }{
		{"HELLO", "hello"},
		{"İstanbul", "istanbul"},
		{"ĞÜŞ", "ğüş"},
		{"already", "already"},
	}
	for _, tt := range tests {
		got := ToLower(tt.in)
		if got != tt.want {
			t.Errorf("ToLower(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len([]rune(got)) != len([]rune(tt.in)) {
			t.Errorf("ToLower(%q) changed rune count", tt.in)
		}
	}
}

func TestAdjustCapitalization(t *testing.T) {
	cases := []struct{ s, orig, want string }{
		{"will", "Wo", "Will"},
		{"will", "WO", "WILL"},
		{"will", "wo", "will"},
		{"can", "Ca", "Can"},
		{"n't", "N'T", "N'T"},
		{"'s", "'S", "'S"},
		{"same", "same", "same"},
	}
	for _, tt := range cases {
		if got := AdjustCapitalization(tt.s, tt.orig); got != tt.want {
			t.Errorf("AdjustCapitalization(%q, %q) = %q, want %q", tt.s, tt.orig, got, tt.want)
		}
	}
}

func TestRuneClasses(t *testing.T) {
	for _, r := range "'’ʼ" {
		if !IsApostrophe(r) {
			t.Errorf("IsApostrophe(%q) = false", r)
		}
	}
	if IsApostrophe('"') {
		t.Error("double quote is not an apostrophe")
	}
	for _, r := range `'‘’` + "`" + `‛"“”‟` {
		if !IsQuote(r) {
			t.Errorf("IsQuote(%q) = false", r)
		}
	}
	for _, r := range "-−–" {
		if !IsDash(r) {
			t.Errorf("IsDash(%q) = false", r)
		}
	}
	if IsDash('—') {
		t.Error("em dash handled as joining dash")
	}
}
