// Package data embeds the default tokenization and detokenization
// resource files.
package data

import "embed"

// Files holds the default resource data. A data directory given to the
// tokenizer or detokenizer overrides it.
//
//go:embed *.txt golden
var Files embed.FS
