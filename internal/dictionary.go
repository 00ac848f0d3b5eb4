package internal

import (
	"context"
	"unicode/utf8"

	"crosswarped.com/anagram/pkg/primitives"
)

type ReduceParams struct {
	// Words is the candidate word source, in source order.
	Words []string
	// Target is the letter multiset every usable word must fit into.
	Target *primitives.LetterCounts
}

type params struct {
	words        []string
	target       *primitives.LetterCounts
	targetLength int
}

func asParams(p ReduceParams) params {
	pp := params{
		words:  p.Words,
		target: p.Target,
	}
	if pp.target == nil {
		pp.target = primitives.NewLetterCounts()
	}
	pp.targetLength = pp.target.Len()
	return pp
}

// Dictionary is the reduced word source: the words that can contribute to
// the target, grouped into canonical classes and indexed by key length.
//
// It is read-only once built.
type Dictionary struct {
	// Words holds the surviving candidate words, in source order.
	Words []string

	classes map[string][]string
	keys    []string

	// byLength[n] holds the keys of length n, in first-encounter order.
	byLength [][]string
}

// Class returns the words sharing the canonical key, in source order.
// Repeated source words are kept.
func (d *Dictionary) Class(key string) []string {
	return d.classes[key]
}

// Keys returns every canonical key in first-encounter order.
func (d *Dictionary) Keys() []string {
	return d.keys
}

// NumClasses returns the number of canonical classes.
func (d *Dictionary) NumClasses() int {
	return len(d.keys)
}

// ByLength returns the canonical keys with exactly n letters. Lengths outside
// [0, target length] have no keys.
func (d *Dictionary) ByLength(n int) []string {
	if n < 0 || n >= len(d.byLength) {
		return nil
	}
	return d.byLength[n]
}

// usable reports whether a word could be part of an anagram of the target.
// Words without letters are never usable.
func (p params) usable(letters *primitives.LetterCounts) bool {
	if letters.Len() == 0 {
		return false
	}
	return letters.Within(p.target)
}

// Reduce filters the word source down to the words that fit into the target
// and groups them by canonical key.
func Reduce(ctx context.Context, p ReduceParams) (*Dictionary, error) {
	params := asParams(p)

	d := &Dictionary{
		Words:    make([]string, 0, len(params.words)),
		classes:  make(map[string][]string),
		byLength: make([][]string, params.targetLength+1),
	}

	for i, word := range params.words {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !params.usable(primitives.CountLetters(word)) {
			continue
		}
		d.Words = append(d.Words, word)

		key := primitives.CanonicalKey(word)
		if _, ok := d.classes[key]; !ok {
			d.keys = append(d.keys, key)
		}
		d.classes[key] = append(d.classes[key], word)
	}

	for _, key := range d.keys {
		n := utf8.RuneCountInString(key)
		if n > params.targetLength {
			panic("key longer than target -- this should never happen")
		}
		d.byLength[n] = append(d.byLength[n], key)
	}

	return d, ctx.Err()
}
