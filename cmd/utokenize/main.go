// utokenize reads text lines from a file or standard input and writes the
// tokenized surface stream, optionally with a chart annotation file.
//
// Usage:
//
//	utokenize [-i INPUT] [-o OUTPUT] [-a ANNOTATION]
//	          [--annotation_format json|double-colon] [-d DATA_DIR]
//	          [--lc LCODE] [-f] [--simple] [-c] [-v] [--version]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/uhermjakob/utoken/tokenizer"
)

const version = "1.0.0"

func main() {
	var (
		inputPath        = flag.String("i", "", "input filename (default: STDIN)")
		outputPath       = flag.String("o", "", "output filename (default: STDOUT)")
		annotationPath   = flag.String("a", "", "annotation output filename (optional)")
		annotationFormat = flag.String("annotation_format", "json", "annotation format: json or double-colon")
		dataDir          = flag.String("d", "", "data directory (default: embedded data)")
		langCode         = flag.String("lc", "", "ISO 639-3 language code, e.g. 'fas' for Persian")
		firstTokenLineID = flag.Bool("f", false, "first token is line ID, exempt from tokenization")
		simple           = flag.Bool("simple", false, "prevent MT-style output (e.g. @-@); can degrade detokenization")
		buildChart       = flag.Bool("c", false, "build annotation chart even without annotation output")
		verbose          = flag.Bool("v", false, "write change log to STDERR")
		showVersion      = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	if *showVersion {
		fmt.Printf("utokenize %s\n", version)
		return
	}
	if *annotationFormat != "json" && *annotationFormat != "double-colon" {
		fmt.Fprintf(os.Stderr, "utokenize: invalid --annotation_format %q (want json or double-colon)\n", *annotationFormat)
		os.Exit(2)
	}

	tok, err := tokenizer.New(*langCode, *dataDir, tokenizer.Options{
		FirstTokenIsLineID: *firstTokenLineID,
		Simple:             *simple,
		Verbose:            *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "utokenize: %v\n", err)
		os.Exit(1)
	}

	in := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "utokenize: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}
	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "utokenize: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	var annotation *os.File
	if *annotationPath != "" {
		f, err := os.Create(*annotationPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "utokenize: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		annotation = f
	}
	wantChart := annotation != nil || *buildChart

	w := bufio.NewWriter(out)
	defer w.Flush()
	var aw *bufio.Writer
	if annotation != nil {
		aw = bufio.NewWriter(annotation)
		defer aw.Flush()
	}

	var jsonCharts []string
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !wantChart {
			fmt.Fprintln(w, tok.Tokenize(line))
			continue
		}
		ch := tok.TokenizeLine(line, strconv.Itoa(lineNo))
		fmt.Fprintln(w, ch.Surface(*simple))
		if aw == nil {
			continue
		}
		if *annotationFormat == "json" {
			obj, err := ch.JSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "utokenize: line %d: %v\n", lineNo, err)
				continue
			}
			jsonCharts = append(jsonCharts, string(obj))
		} else {
			aw.WriteString(ch.DoubleColon())
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "utokenize: reading input: %v\n", err)
		os.Exit(1)
	}
	if aw != nil && *annotationFormat == "json" {
		aw.WriteString("[" + strings.Join(jsonCharts, ",\n") + "]\n")
	}
}
