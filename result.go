package anagram

import (
	"fmt"
	"time"
)

// Result is the outcome of a solve. A search that ran to exhaustion without
// a checksum match is a Result with Found == false, not an error.
type Result struct {
	Phrase string
	Found  bool

	// WordLimit is the word-count ceiling the phrase was found under, or the
	// last ceiling tried.
	WordLimit int

	// Nodes is the number of partial combinations visited by the search.
	Nodes int64
	// Verified is the number of concrete phrases whose checksum was computed.
	Verified int64

	// Candidates and Classes describe the reduced dictionary.
	Candidates int
	Classes    int

	Elapsed time.Duration
}

func (r Result) String() string {
	if !r.Found {
		return fmt.Sprintf("Result{found: false, wordLimit: %d, nodes: %d, verified: %d}", r.WordLimit, r.Nodes, r.Verified)
	}
	return fmt.Sprintf("Result{phrase: %q, wordLimit: %d, nodes: %d, verified: %d}", r.Phrase, r.WordLimit, r.Nodes, r.Verified)
}
