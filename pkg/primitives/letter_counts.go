package primitives

import (
	"slices"
	"strings"
	"unicode"
)

// LetterCounts is a multiset of letters. Anything that is not a letter
// (whitespace, punctuation, digits) is never counted.
type LetterCounts struct {
	counts map[rune]int
	total  int
}

func NewLetterCounts() *LetterCounts {
	return &LetterCounts{
		counts: make(map[rune]int),
	}
}

// CountLetters returns the letter multiset of s.
func CountLetters(s string) *LetterCounts {
	c := NewLetterCounts()
	c.Add(s)
	return c
}

// Add adds every letter of s to the set.
func (c *LetterCounts) Add(s string) {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		c.counts[r]++
		c.total++
	}
}

// AddAll adds all letters from another set to this set.
func (c *LetterCounts) AddAll(other *LetterCounts) {
	for r, n := range other.counts {
		c.counts[r] += n
		c.total += n
	}
}

// Clone returns an independent copy of the set.
func (c *LetterCounts) Clone() *LetterCounts {
	clone := &LetterCounts{
		counts: make(map[rune]int, len(c.counts)),
		total:  c.total,
	}
	for r, n := range c.counts {
		clone.counts[r] = n
	}
	return clone
}

// Count returns how many times r occurs in the set.
func (c *LetterCounts) Count(r rune) int {
	return c.counts[r]
}

// Len returns the total number of letters in the set.
func (c *LetterCounts) Len() int {
	return c.total
}

// Distinct returns the number of different letters in the set.
func (c *LetterCounts) Distinct() int {
	return len(c.counts)
}

// Within reports whether c is a sub-multiset of target: every letter of c
// occurs in target at least as many times. The empty set is within anything.
func (c *LetterCounts) Within(target *LetterCounts) bool {
	if c.total > target.total {
		return false
	}
	for r, n := range c.counts {
		if target.counts[r] < n {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold exactly the same letters.
func (c *LetterCounts) Equal(other *LetterCounts) bool {
	return c.total == other.total && c.Within(other)
}

// RemovePunctuation drops every rune of s that is not a letter.
func RemovePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

// CanonicalKey returns the letters of s sorted by code point. Two strings
// share a key iff they are anagrams of each other once punctuation is ignored.
func CanonicalKey(s string) string {
	letters := []rune(RemovePunctuation(s))
	slices.Sort(letters)
	return string(letters)
}
