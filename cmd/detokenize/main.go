// detokenize reads tokenized lines from a file or standard input and
// writes the reconstructed surface text.
//
// Usage:
//
//	detokenize [-i INPUT] [-o OUTPUT] [-d DATA_DIR] [--lc LCODE] [-f]
//	           [-v] [--version]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uhermjakob/utoken/detokenizer"
)

const version = "1.0.0"

func main() {
	var (
		inputPath        = flag.String("i", "", "input filename (default: STDIN)")
		outputPath       = flag.String("o", "", "output filename (default: STDOUT)")
		dataDir          = flag.String("d", "", "data directory (default: embedded data)")
		langCode         = flag.String("lc", "", "ISO 639-3 language code, e.g. 'fas' for Persian")
		firstTokenLineID = flag.Bool("f", false, "first token is line ID, passed through unchanged")
		verbose          = flag.Bool("v", false, "write change log to STDERR")
		showVersion      = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	if *showVersion {
		fmt.Printf("detokenize %s\n", version)
		return
	}

	detok, err := detokenizer.New(*langCode, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "detokenize: %v\n", err)
		os.Exit(1)
	}

	in := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "detokenize: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}
	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "detokenize: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	defer w.Flush()
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if *firstTokenLineID {
			id, sep, rest := splitLineID(line)
			fmt.Fprintln(w, id+sep+detok.Detokenize(rest))
		} else {
			fmt.Fprintln(w, detok.Detokenize(line))
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "detokenize: reading input: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Processed %d lines\n", lineNo)
	}
}

// splitLineID splits off the first whitespace-delimited token and the
// separator that follows it.
func splitLineID(line string) (id, sep, rest string) {
	idEnd := strings.IndexAny(line, " \t")
	if idEnd < 0 {
		return line, "", ""
	}
	sepEnd := idEnd
	for sepEnd < len(line) && (line[sepEnd] == ' ' || line[sepEnd] == '\t') {
		sepEnd++
	}
	return line[:idEnd], line[idEnd:sepEnd], line[sepEnd:]
}
