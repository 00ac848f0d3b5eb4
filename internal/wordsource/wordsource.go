// Package wordsource loads candidate words for the solver: from a
// newline-delimited word file or from a BigQuery table.
package wordsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Options struct {
	// FoldAccents strips combining marks, so that "café" becomes "cafe".
	FoldAccents bool
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents removes diacritics from s.
func FoldAccents(s string) string {
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return folded
}

// Normalize lowercases and trims a raw word. It returns "" for blank input.
func Normalize(word string, opts Options) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if opts.FoldAccents {
		word = FoldAccents(word)
	}
	return word
}

// Read reads one word per line from r, normalizing each and keeping source
// order. Blank lines and lines starting with '#' are skipped.
//
// The result is never nil, even when r holds no words.
func Read(ctx context.Context, r io.Reader, opts Options) ([]string, error) {
	words := make([]string, 0, 1024)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		word := Normalize(scanner.Text(), opts)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan words: %w", err)
	}
	return words, nil
}

// LoadFile uses Read to load the words of the file at path.
func LoadFile(ctx context.Context, path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	words, err := Read(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	return words, nil
}
