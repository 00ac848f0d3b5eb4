package anagram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crosswarped.com/anagram/internal"
	"crosswarped.com/anagram/internal/metrics"
	"crosswarped.com/anagram/pkg/primitives"
)

var (
	ErrMissingPhrase   = errors.New("anagram phrase is required")
	ErrMissingChecksum = errors.New("checksum is required")
	ErrMissingWords    = errors.New("word list is required")
	ErrUnknownDigest   = errors.New("unknown digest")
)

const (
	DefaultMaxWordCount  = 10
	DefaultProgressEvery = 10000
)

// Solver searches a word list for a phrase whose letters are a permutation of
// Phrase and whose checksum equals Checksum.
type Solver struct {
	Phrase       string
	Checksum     string
	MaxWordCount int
	Words        []string

	digest        Digest
	logger        *zap.Logger
	progressEvery int64

	target       *primitives.LetterCounts
	targetLength int

	// Do not access this field directly, use the dictionary method instead.
	lazyDictionary *internal.Dictionary
}

type SolverParams struct {
	// MaxWordCount bounds the number of words in the phrase. Zero means DefaultMaxWordCount.
	MaxWordCount int
	// Digest is the checksum algorithm. Empty means md5.
	Digest Digest
	// Logger receives progress narration. Nil means no logging.
	Logger *zap.Logger
	// ProgressEvery is the number of search nodes between debug progress lines.
	// Zero means DefaultProgressEvery.
	ProgressEvery int
}

// CreateSolver validates the inputs and prepares a solver. A nil word list is
// an error; an empty one is valid and solves to not-found.
func CreateSolver(phrase, checksum string, words []string, params SolverParams) (*Solver, error) {
	if phrase == "" {
		return nil, ErrMissingPhrase
	}
	if normalizeChecksum(checksum) == "" {
		return nil, ErrMissingChecksum
	}
	if words == nil {
		return nil, ErrMissingWords
	}

	digest, err := ParseDigest(string(params.Digest))
	if err != nil {
		return nil, fmt.Errorf("create solver: %w", err)
	}

	maxWordCount := params.MaxWordCount
	if maxWordCount <= 0 {
		maxWordCount = DefaultMaxWordCount
	}
	progressEvery := params.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	target := primitives.CountLetters(phrase)
	return &Solver{
		Phrase:        phrase,
		Checksum:      normalizeChecksum(checksum),
		MaxWordCount:  maxWordCount,
		Words:         words,
		digest:        digest,
		logger:        logger,
		progressEvery: int64(progressEvery),
		target:        target,
		targetLength:  target.Len(),
	}, nil
}

func (s *Solver) dictionary(ctx context.Context) (*internal.Dictionary, error) {
	if s.lazyDictionary != nil {
		return s.lazyDictionary, nil
	}

	d, err := internal.Reduce(ctx, internal.ReduceParams{
		Words:  s.Words,
		Target: s.target,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reduced the dictionary",
		zap.Int("words", len(s.Words)),
		zap.Int("candidates", len(d.Words)),
		zap.Int("classes", d.NumClasses()))

	s.lazyDictionary = d
	return d, nil
}

// Solve runs the search with an increasing word-count ceiling, from one word up
// to MaxWordCount, and returns the first phrase whose checksum matches.
//
// The only error is ctx being done; exhausting the search is a not-found Result.
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	start := time.Now()
	res, err := s.solve(ctx)
	res.Elapsed = time.Since(start)

	metrics.SolveDuration.Observe(res.Elapsed.Seconds())
	switch {
	case err != nil:
		metrics.Solves.WithLabelValues(metrics.OutcomeCanceled).Inc()
	case res.Found:
		metrics.Solves.WithLabelValues(metrics.OutcomeFound).Inc()
	default:
		metrics.Solves.WithLabelValues(metrics.OutcomeNotFound).Inc()
	}
	return res, err
}

func (s *Solver) solve(ctx context.Context) (Result, error) {
	d, err := s.dictionary(ctx)
	if err != nil {
		return Result{}, err
	}

	sr := &search{
		dict:          d,
		target:        s.target,
		targetLength:  s.targetLength,
		checksum:      s.Checksum,
		digest:        s.digest,
		logger:        s.logger,
		progressEvery: s.progressEvery,
	}

	res := Result{
		Candidates: len(d.Words),
		Classes:    d.NumClasses(),
	}
	for wordLimit := 1; wordLimit <= s.MaxWordCount; wordLimit++ {
		s.logger.Info("searching", zap.Int("wordLimit", wordLimit))

		phrase, found := sr.grow(ctx, nil, primitives.NewLetterCounts(), 0, wordLimit)
		res.WordLimit = wordLimit
		res.Nodes = sr.nodes
		res.Verified = sr.verified

		if err := ctx.Err(); err != nil {
			return res, err
		}
		if found {
			res.Phrase = phrase
			res.Found = true
			s.logger.Info("found a match", zap.String("phrase", phrase), zap.Int("wordLimit", wordLimit))
			return res, nil
		}
	}

	s.logger.Info("could not find anagram", zap.Int64("nodes", res.Nodes), zap.Int64("verified", res.Verified))
	return res, nil
}
