// Package detokenizer reconstructs surface text from a tokenized line.
//
// Detokenization inverts the tokenizer: between each pair of adjacent
// tokens it decides attachment from (a) explicit @ attach tags on the
// facing sides, (b) the detok-resource auto-attach rules keyed by surface
// and side, and (c) contraction reversal rules that re-join decontracted
// pieces (can + n't -> can't, will + n't -> won't).
//
// A Detokenizer is immutable after New and safe for concurrent use.
package detokenizer

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/uhermjakob/utoken/data"
	"github.com/uhermjakob/utoken/resource"
)

// Detokenizer holds the immutable detokenization tables for one language
// configuration.
type Detokenizer struct {
	langCodes []string
	langCode  string
	detok     *resource.Detok
}

// New builds a detokenizer for langCode (a comma- or semicolon-separated
// list of ISO 639-3 codes). Data files are read from dataDir, or from the
// embedded defaults when dataDir is empty. Tokenization resource files are
// also loaded, to harvest contraction reversal rules.
func New(langCode, dataDir string) (*Detokenizer, error) {
	var fsys fs.FS = data.Files
	if dataDir != "" {
		fsys = os.DirFS(dataDir)
	}
	langCodes := splitLangCodes(langCode)
	d := &Detokenizer{langCodes: langCodes, detok: resource.NewDetok()}
	if len(langCodes) > 0 {
		d.langCode = langCodes[0]
	}
	if err := d.detok.LoadFile(fsys, "detok-resource.txt", langCodes); err != nil {
		return nil, fmt.Errorf("loading detokenization resources: %w", err)
	}
	for _, lcode := range langCodes {
		name := "tok-resource-" + lcode + ".txt"
		if err := d.detok.LoadFile(fsys, name, langCodes); err != nil {
			if _, ok := err.(*resource.LoadError); ok {
				return nil, err
			}
			log.Printf("Warning: no resource file for language %q (%s)", lcode, name)
		}
	}
	if err := d.detok.LoadFile(fsys, "tok-resource.txt", langCodes); err != nil {
		return nil, fmt.Errorf("loading universal resources: %w", err)
	}
	if !containsStr(langCodes, "eng-global") {
		if err := d.detok.LoadFile(fsys, "tok-resource-eng-global.txt", langCodes); err != nil {
			return nil, fmt.Errorf("loading eng-global resources: %w", err)
		}
	}
	return d, nil
}

// Detokenize joins the tokens of one tokenized line back into surface
// text.
func (d *Detokenizer) Detokenize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	tag := string(d.detok.AttachTag)
	tokens, offsets := d.splitTokens(s)

	var result strings.Builder
	attachAfterPrev := true // no space before the first token
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		prevToken := ""
		if i > 0 {
			prevToken = tokens[i-1]
		}
		nextToken := ""
		if i+1 < len(tokens) {
			nextToken = tokens[i+1]
		}
		rightContext := ""
		if i+1 < len(tokens) {
			rightContext = s[offsets[i+1]:]
		}
		// Re-contract three tokens (jusque + à + le -> jusqu'au), then two
		// (can + n't -> can't), re-examining the merged token.
		if i+2 < len(tokens) {
			three := token + " " + tokens[i+1] + " " + tokens[i+2]
			if contraction, ok := d.detok.Contraction(three, d.langCode); ok {
				tokens[i] = contraction
				tokens = append(tokens[:i+1], tokens[i+3:]...)
				offsets = append(offsets[:i+1], offsets[i+3:]...)
				i--
				continue
			}
		}
		if i+1 < len(tokens) {
			two := token + " " + tokens[i+1]
			if contraction, ok := d.detok.Contraction(two, d.langCode); ok {
				tokens[i] = contraction
				tokens = append(tokens[:i+1], tokens[i+2:]...)
				offsets = append(offsets[:i+1], offsets[i+2:]...)
				i--
				continue
			}
		}
		markedUp := strings.Contains(token, tag) && d.detok.IsMarkupToken(token)
		attach := attachAfterPrev ||
			(markedUp && strings.HasPrefix(token, tag)) ||
			d.detok.AutoAttachesLeft(token, result.String(), rightContext, d.langCode) ||
			startsWithCloseXMLTag(token) ||
			endsWithOpenXMLTag(result.String())
		if !attach {
			result.WriteByte(' ')
		}
		if markedUp {
			result.WriteString(strings.Trim(token, tag))
		} else {
			result.WriteString(token)
		}
		attachAfterPrev = (markedUp && strings.HasSuffix(token, tag)) ||
			d.detok.AutoAttachesRight(token, prevToken, nextToken, d.langCode)
	}
	return result.String()
}

// splitTokens splits a tokenized line into tokens and their byte offsets.
// An XML tag, optionally decorated with attach tags, counts as one token
// even when its attributes contain spaces.
func (d *Detokenizer) splitTokens(s string) ([]string, []int) {
	var tokens []string
	var offsets []int
	tag := byte(d.detok.AttachTag)
	mightContainXML := strings.ContainsRune(s, '<')
	pos := 0
	for pos < len(s) {
		for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
			pos++
		}
		if pos >= len(s) {
			break
		}
		end := -1
		if mightContainXML {
			end = xmlTokenEnd(s, pos, tag)
		}
		if end < 0 {
			end = pos
			for end < len(s) && s[end] != ' ' && s[end] != '\t' {
				end++
			}
		}
		tokens = append(tokens, s[pos:end])
		offsets = append(offsets, pos)
		pos = end
	}
	return tokens, offsets
}

// xmlTokenEnd returns the end of an (optionally @-decorated) XML tag
// starting at pos, or -1.
func xmlTokenEnd(s string, pos int, tag byte) int {
	p := pos
	if p < len(s) && s[p] == tag {
		p++
	}
	if p >= len(s) || s[p] != '<' {
		return -1
	}
	p++
	if p < len(s) && s[p] == '/' {
		p++
	}
	if p >= len(s) || !isASCIILetterByte(s[p]) {
		return -1
	}
	for p < len(s) && s[p] != '<' && s[p] != '>' {
		p++
	}
	if p >= len(s) || s[p] != '>' {
		return -1
	}
	p++
	if p < len(s) && s[p] == tag {
		p++
	}
	if p < len(s) && s[p] != ' ' && s[p] != '\t' {
		return -1
	}
	return p
}

var closeXMLPrefixes = []string{"</"}

func startsWithCloseXMLTag(token string) bool {
	for _, p := range closeXMLPrefixes {
		if strings.HasPrefix(token, p) && strings.HasSuffix(token, ">") {
			return true
		}
	}
	return false
}

// endsWithOpenXMLTag reports whether the accumulated result ends with an
// opening (non-closing, non-self-closing) XML tag.
func endsWithOpenXMLTag(s string) bool {
	if !strings.HasSuffix(s, ">") {
		return false
	}
	open := strings.LastIndexByte(s, '<')
	if open < 0 || open+1 >= len(s) {
		return false
	}
	inner := s[open+1 : len(s)-1]
	if inner == "" || inner[0] == '/' || strings.HasSuffix(inner, "/") {
		return false
	}
	return isASCIILetterByte(inner[0])
}

func isASCIILetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func splitLangCodes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}

func containsStr(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
