package resource

import (
	"bufio"
	"fmt"
	"io/fs"
	"strings"
)

// Reliability grades how safely a top-level domain identifies a bare URL.
// Codes like .com essentially never occur as ordinary words; codes like
// .in or .so frequently do, and need longer domain labels as evidence.
type Reliability int

const (
	NotTLD Reliability = iota
	LowReliability
	NormalReliability
	HighReliability
)

// TLDs is the top-level-domain table used to validate URL and email
// endings. Built once at startup, immutable afterwards.
type TLDs struct {
	byCode map[string]Reliability
}

// Reliability returns the reliability tier of code (case-insensitive),
// or NotTLD.
func (t *TLDs) Reliability(code string) Reliability {
	return t.byCode[strings.ToLower(code)]
}

// Contains reports whether code is a known top-level domain.
func (t *TLDs) Contains(code string) bool {
	return t.byCode[strings.ToLower(code)] != NotTLD
}

// LoadTLDs reads a top-level-domain-codes.txt file with lines of the form
//
//	::code <tld> [::country-name <name>] [::reliability low|high]
func LoadTLDs(fsys fs.FS, filename string) (*TLDs, error) {
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening top-level-domain file: %w", err)
	}
	defer f.Close()

	t := &TLDs{byCode: make(map[string]Reliability)}
	validSlots := map[string]bool{
		"code": true, "comment": true, "country-name": true,
		"example": true, "reliability": true,
	}
	requiredSlots := map[string][]string{"code": nil}

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}
		pairs := parseSlots(line)
		if len(pairs) == 0 {
			return nil, &LoadError{File: filename, Line: lineNo, Rule: line, Msg: "no ::slots found"}
		}
		if err := validateLine(filename, lineNo, pairs, validSlots, requiredSlots); err != nil {
			return nil, err
		}
		code := strings.ToLower(pairs[0].value)
		if code == "" {
			return nil, &LoadError{File: filename, Line: lineNo, Rule: "code", Msg: "empty TLD code"}
		}
		rel := NormalReliability
		switch v, _ := slotValue(pairs, "reliability"); v {
		case "low":
			rel = LowReliability
		case "high":
			rel = HighReliability
		}
		t.byCode[code] = rel
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return t, nil
}
