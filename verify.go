package anagram

import (
	"context"
	"iter"
	"strings"

	"crosswarped.com/anagram/internal"
	"crosswarped.com/anagram/internal/metrics"
)

// phrases yields every phrase made by picking one word from the class of each
// key, keys in the given order, words joined by a single space. Combinations
// are enumerated depth-first: the last key varies fastest.
func phrases(dict *internal.Dictionary, keys []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		picks := make([]string, len(keys))

		var pick func(i int) bool
		pick = func(i int) bool {
			if i == len(keys) {
				return yield(strings.Join(picks, " "))
			}
			for _, word := range dict.Class(keys[i]) {
				picks[i] = word
				if !pick(i + 1) {
					return false
				}
			}
			return true
		}

		pick(0)
	}
}

// verify hashes every phrase the chosen keys expand to and returns the first
// one matching the target checksum.
func (s *search) verify(ctx context.Context, chosen []string) (string, bool) {
	for phrase := range phrases(s.dict, chosen) {
		if ctx.Err() != nil {
			return "", false
		}

		s.verified++
		metrics.PhrasesVerified.Inc()
		if s.digest.Sum(phrase) == s.checksum {
			return phrase, true
		}
	}
	return "", false
}
