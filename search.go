package anagram

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"crosswarped.com/anagram/internal"
	"crosswarped.com/anagram/internal/metrics"
	"crosswarped.com/anagram/pkg/primitives"
)

// search is the state of one solve. The chosen keys of a branch are never
// shared with its siblings; only the diagnostic counters are.
type search struct {
	dict         *internal.Dictionary
	target       *primitives.LetterCounts
	targetLength int
	checksum     string
	digest       Digest

	logger        *zap.Logger
	progressEvery int64

	nodes    int64
	verified int64
}

// grow extends chosen, the canonical keys picked so far whose letters are
// used, by one more key at a time until the target length is reached or
// wordLimit keys are chosen.
//
// Longer keys are tried first. Keys keep the position they were chosen at:
// the verifier never reorders them.
func (s *search) grow(ctx context.Context, chosen []string, used *primitives.LetterCounts, wordCount, wordLimit int) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}

	s.nodes++
	metrics.SearchNodes.Inc()
	if s.nodes%s.progressEvery == 0 {
		s.logger.Debug("testing", zap.Strings("keys", chosen), zap.Int64("nodes", s.nodes))
	}

	currentLength := used.Len()
	if currentLength == s.targetLength {
		return s.verify(ctx, chosen)
	}

	if wordCount == wordLimit {
		return "", false
	}

	remaining := s.targetLength - currentLength

	// The last word has to fill exactly what is left.
	shortest := 1
	if wordLimit-wordCount == 1 {
		shortest = remaining
	}

	for length := remaining; length >= shortest; length-- {
		for _, key := range s.dict.ByLength(length) {
			next := used.Clone()
			next.Add(key)
			if !next.Within(s.target) {
				continue
			}

			// Clip so the append copies: siblings must not see this key.
			if phrase, ok := s.grow(ctx, append(slices.Clip(chosen), key), next, wordCount+1, wordLimit); ok {
				return phrase, true
			}
			if ctx.Err() != nil {
				return "", false
			}
		}
	}

	return "", false
}
