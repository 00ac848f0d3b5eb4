package anagram

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"crosswarped.com/anagram/internal/metrics"
	"crosswarped.com/anagram/pkg/primitives"
)

func loadWords(t testing.TB) []string {
	file, err := os.Open("testdata/words.txt")
	if err != nil {
		t.Fatalf("failed to open words file: %v", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan words file: %v", err)
	}
	return words
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func solve(t *testing.T, phrase, checksum string, words []string, maxWordCount int) Result {
	t.Helper()
	s, err := CreateSolver(phrase, checksum, words, SolverParams{MaxWordCount: maxWordCount})
	require.NoError(t, err)
	res, err := s.Solve(t.Context())
	require.NoError(t, err)
	return res
}

func TestCreateSolver_Validation(t *testing.T) {
	tests := []struct {
		name     string
		phrase   string
		checksum string
		words    []string
		params   SolverParams
		wantErr  error
	}{
		{"missing phrase", "", md5Hex("cat"), []string{"cat"}, SolverParams{}, ErrMissingPhrase},
		{"missing checksum", "tac", "", []string{"cat"}, SolverParams{}, ErrMissingChecksum},
		{"blank checksum", "tac", "   ", []string{"cat"}, SolverParams{}, ErrMissingChecksum},
		{"missing words", "tac", md5Hex("cat"), nil, SolverParams{}, ErrMissingWords},
		{"unknown digest", "tac", md5Hex("cat"), []string{"cat"}, SolverParams{Digest: "crc32"}, ErrUnknownDigest},
		{"empty word list is fine", "tac", md5Hex("cat"), []string{}, SolverParams{}, nil},
		{"malformed checksum is fine", "tac", "not-a-checksum", []string{"cat"}, SolverParams{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := CreateSolver(tt.phrase, tt.checksum, tt.words, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestCreateSolver_Defaults(t *testing.T) {
	s, err := CreateSolver("tac", strings.ToUpper(md5Hex("cat")), []string{"cat"}, SolverParams{})
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxWordCount, s.MaxWordCount)
	assert.Equal(t, DigestMD5, s.digest)
	assert.Equal(t, md5Hex("cat"), s.Checksum)
	assert.Equal(t, 3, s.targetLength)
}

func TestSolve_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		phrase       string
		checksum     string
		words        []string
		maxWordCount int
		wantFound    bool
		wantPhrase   string
	}{
		{
			name:         "single word",
			phrase:       "tac",
			checksum:     md5Hex("cat"),
			words:        []string{"cat", "act", "dog"},
			maxWordCount: 1,
			wantFound:    true,
			wantPhrase:   "cat",
		},
		{
			name:         "second word of a class",
			phrase:       "tac",
			checksum:     md5Hex("act"),
			words:        []string{"cat", "act", "dog"},
			maxWordCount: 1,
			wantFound:    true,
			wantPhrase:   "act",
		},
		{
			name:         "two words",
			phrase:       "tac tca",
			checksum:     md5Hex("act cat"),
			words:        []string{"cat", "act", "dog"},
			maxWordCount: 2,
			wantFound:    true,
			wantPhrase:   "act cat",
		},
		{
			name:         "two words beyond the word limit",
			phrase:       "tac tca",
			checksum:     md5Hex("act cat"),
			words:        []string{"cat", "act", "dog"},
			maxWordCount: 1,
			wantFound:    false,
		},
		{
			name:         "no feasible word",
			phrase:       "tac",
			checksum:     md5Hex("cat"),
			words:        []string{"dog", "pig"},
			maxWordCount: 1,
			wantFound:    false,
		},
		{
			name:         "empty candidate list",
			phrase:       "tac",
			checksum:     md5Hex("cat"),
			words:        []string{},
			maxWordCount: 3,
			wantFound:    false,
		},
		{
			name:         "checksum of no combination",
			phrase:       "tac",
			checksum:     md5Hex("dog"),
			words:        []string{"cat", "act", "dog", "a", "t", "c", "at"},
			maxWordCount: 3,
			wantFound:    false,
		},
		{
			name:         "malformed checksum never matches",
			phrase:       "tac",
			checksum:     "zz-not-hex",
			words:        []string{"cat", "act"},
			maxWordCount: 2,
			wantFound:    false,
		},
		{
			name:         "uppercase checksum",
			phrase:       "tac",
			checksum:     strings.ToUpper(md5Hex("act")),
			words:        []string{"cat", "act"},
			maxWordCount: 1,
			wantFound:    true,
			wantPhrase:   "act",
		},
		{
			name:         "punctuation kept in the phrase",
			phrase:       "nod t",
			checksum:     md5Hex("don't"),
			words:        []string{"dont", "don't", "do", "not"},
			maxWordCount: 2,
			wantFound:    true,
			wantPhrase:   "don't",
		},
		{
			name:         "punctuation in the target ignored",
			phrase:       "t-a, c!",
			checksum:     md5Hex("cat"),
			words:        []string{"cat"},
			maxWordCount: 1,
			wantFound:    true,
			wantPhrase:   "cat",
		},
		{
			name:         "same class twice",
			phrase:       "tactac",
			checksum:     md5Hex("cat cat"),
			words:        []string{"cat"},
			maxWordCount: 2,
			wantFound:    true,
			wantPhrase:   "cat cat",
		},
		{
			name:         "three words from fixture",
			phrase:       "poultry outwits ants",
			checksum:     md5Hex("poultry outwits ants"),
			words:        loadWords(t),
			maxWordCount: 3,
			wantFound:    true,
			wantPhrase:   "poultry outwits ants",
		},
		{
			name:         "shortest word first",
			phrase:       "poultry outwits ants",
			checksum:     md5Hex("ants poultry outwits"),
			words:        loadWords(t),
			maxWordCount: 3,
			wantFound:    true,
			wantPhrase:   "ants poultry outwits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := solve(t, tt.phrase, tt.checksum, tt.words, tt.maxWordCount)
			assert.Equal(t, tt.wantFound, res.Found)
			if tt.wantFound {
				assert.Equal(t, tt.wantPhrase, res.Phrase)
			} else {
				assert.Empty(t, res.Phrase)
				assert.Equal(t, tt.maxWordCount, res.WordLimit)
			}
		})
	}
}

func TestSolve_MatchIsAnAnagramWithTheTargetChecksum(t *testing.T) {
	words := loadWords(t)
	for _, tc := range []struct {
		phrase, answer string
	}{
		{"poultry outwits ants", "poultry outwits ants"},
		{"poultry outwits ants", "outwits ants poultry"},
		{"lowly touts s", "stout slowly"},
	} {
		res := solve(t, tc.phrase, md5Hex(tc.answer), words, 3)
		require.True(t, res.Found, "expected a match for %q", tc.answer)

		assert.Equal(t, md5Hex(tc.answer), md5Hex(res.Phrase))
		assert.True(t, primitives.CountLetters(res.Phrase).Equal(primitives.CountLetters(tc.phrase)))
	}
}

func TestSolve_MonotonicInMaxWordCount(t *testing.T) {
	words := []string{"cat", "act", "dog", "a", "t", "c", "at"}
	checksum := md5Hex("cat")

	for maxWordCount := 1; maxWordCount <= 4; maxWordCount++ {
		res := solve(t, "tac", checksum, words, maxWordCount)
		assert.True(t, res.Found, "maxWordCount=%d", maxWordCount)
		assert.Equal(t, "cat", res.Phrase, "maxWordCount=%d", maxWordCount)
		assert.Equal(t, 1, res.WordLimit)
	}

	// A three word answer shows up once the limit allows it, and stays.
	checksum = md5Hex("c a t")
	for maxWordCount := 1; maxWordCount <= 4; maxWordCount++ {
		res := solve(t, "tac", checksum, words, maxWordCount)
		assert.Equal(t, maxWordCount >= 3, res.Found, "maxWordCount=%d", maxWordCount)
	}
}

func TestSolve_Idempotent(t *testing.T) {
	s, err := CreateSolver("poultry outwits ants", md5Hex("ants outwits poultry"), loadWords(t), SolverParams{MaxWordCount: 3})
	require.NoError(t, err)

	first, err := s.Solve(t.Context())
	require.NoError(t, err)
	second, err := s.Solve(t.Context())
	require.NoError(t, err)

	assert.True(t, first.Found)
	assert.Equal(t, first.Phrase, second.Phrase)
	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Verified, second.Verified)
	assert.Equal(t, first.WordLimit, second.WordLimit)
}

func TestSolve_CountsDuplicateWords(t *testing.T) {
	res := solve(t, "tac", md5Hex("act"), []string{"cat", "cat", "act"}, 1)

	require.True(t, res.Found)
	assert.Equal(t, "act", res.Phrase)
	assert.Equal(t, int64(3), res.Verified)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 1, res.Classes)
}

func TestSolve_PhraseWithoutLetters(t *testing.T) {
	// The only phrase with no letters is the empty one.
	res := solve(t, "?!", md5Hex(""), []string{"cat"}, 1)
	assert.True(t, res.Found)
	assert.Equal(t, "", res.Phrase)

	res = solve(t, "?!", md5Hex("cat"), []string{"cat"}, 1)
	assert.False(t, res.Found)
}

func TestSolve_Digests(t *testing.T) {
	for _, d := range []Digest{DigestMD5, DigestSHA1, DigestSHA256} {
		t.Run(string(d), func(t *testing.T) {
			s, err := CreateSolver("tac", d.Sum("act"), []string{"cat", "act"}, SolverParams{
				MaxWordCount: 1,
				Digest:       d,
			})
			require.NoError(t, err)

			res, err := s.Solve(t.Context())
			require.NoError(t, err)
			assert.True(t, res.Found)
			assert.Equal(t, "act", res.Phrase)
		})
	}
}

func TestSolve_Canceled(t *testing.T) {
	s, err := CreateSolver("poultry outwits ants", md5Hex("nothing"), loadWords(t), SolverParams{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	res, err := s.Solve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.Found)
}

func TestSolve_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	s, err := CreateSolver("tac tca", md5Hex("act cat"), []string{"cat", "act", "dog"}, SolverParams{
		MaxWordCount:  2,
		Logger:        zap.New(core),
		ProgressEvery: 1,
	})
	require.NoError(t, err)

	res, err := s.Solve(t.Context())
	require.NoError(t, err)
	require.True(t, res.Found)

	assert.Equal(t, 1, logs.FilterMessage("reduced the dictionary").Len())
	assert.Equal(t, 2, logs.FilterMessage("searching").Len())
	assert.Equal(t, int(res.Nodes), logs.FilterMessage("testing").Len())

	found := logs.FilterMessage("found a match").All()
	require.Len(t, found, 1)
	assert.Equal(t, "act cat", found[0].ContextMap()["phrase"])
}

func TestSolve_Metrics(t *testing.T) {
	found := testutil.ToFloat64(metrics.Solves.WithLabelValues(metrics.OutcomeFound))
	notFound := testutil.ToFloat64(metrics.Solves.WithLabelValues(metrics.OutcomeNotFound))
	nodes := testutil.ToFloat64(metrics.SearchNodes)
	verified := testutil.ToFloat64(metrics.PhrasesVerified)

	res := solve(t, "tac", md5Hex("act"), []string{"cat", "act"}, 1)
	require.True(t, res.Found)
	solve(t, "tac", md5Hex("dog"), []string{"cat", "act"}, 1)

	assert.Equal(t, found+1, testutil.ToFloat64(metrics.Solves.WithLabelValues(metrics.OutcomeFound)))
	assert.Equal(t, notFound+1, testutil.ToFloat64(metrics.Solves.WithLabelValues(metrics.OutcomeNotFound)))
	// Each solve visits the root and the single class, then hashes both of its words.
	assert.Equal(t, nodes+4, testutil.ToFloat64(metrics.SearchNodes))
	assert.Equal(t, verified+4, testutil.ToFloat64(metrics.PhrasesVerified))
}

func BenchmarkSolve(b *testing.B) {
	words := loadWords(b)
	b.ReportAllocs()

	for _, tc := range []struct {
		name     string
		phrase   string
		answer   string
		maxWords int
	}{
		{name: "1 word", phrase: "outwits", answer: "outwits", maxWords: 1},
		{name: "2 words", phrase: "stout slowly", answer: "slowly stout", maxWords: 2},
		{name: "3 words", phrase: "poultry outwits ants", answer: "ants outwits poultry", maxWords: 3},
	} {
		b.Run(tc.name, func(b *testing.B) {
			for b.Loop() {
				s, err := CreateSolver(tc.phrase, md5Hex(tc.answer), words, SolverParams{MaxWordCount: tc.maxWords})
				if err != nil {
					b.Fatalf("CreateSolver: %v", err)
				}
				res, err := s.Solve(b.Context())
				if err != nil {
					b.Fatalf("Solve: %v", err)
				}
				if !res.Found {
					b.Fatalf("expected to find %q", tc.answer)
				}
				b.ReportMetric(float64(res.Nodes), "nodes")
			}
		})
	}
}
