package fulltext

import (
	"slices"
	"sync"
)

const (
	// fuzzyMinLength is the pattern length below which only exact matches count.
	fuzzyMinLength = 4
	// fuzzyMaxLength is the pattern length above which containment replaces
	// the edit distance.
	fuzzyMaxLength = 30
	// fuzzyScratch is the initial side length of the scratch matrix.
	fuzzyScratch = 32
)

// Levenshtein matches tokens within a bounded edit distance. Characters are
// compared in their full-text normalized form (lower case, no diacritics)
// and lengths are counted in characters.
//
// A Levenshtein owns its scratch matrix and is not safe for concurrent use.
// The package-level Similar and Contains borrow instances from a pool.
type Levenshtein struct {
	// errors is the default error budget; 0 derives it from the pattern
	errors int
	matrix []int
	tok    []rune
	pat    []rune
}

// NewLevenshtein creates a matcher with the given default error budget.
// A budget of 0 allows max(1, n/4) errors for a pattern of n characters.
func NewLevenshtein(errors int) *Levenshtein {
	return &Levenshtein{
		errors: max(errors, 0),
		matrix: make([]int, fuzzyScratch*fuzzyScratch),
		tok:    make([]rune, 0, fuzzyScratch),
		pat:    make([]rune, 0, fuzzyScratch),
	}
}

// Similar reports whether token matches pattern within the default budget.
func (l *Levenshtein) Similar(token, pattern []byte) bool {
	return l.SimilarWithin(token, pattern, l.errors)
}

// SimilarWithin reports whether token matches pattern within k errors, or
// within the derived budget if k is 0. Patterns of fewer than 4 characters
// must match exactly; patterns of more than 30 characters must be contained
// in the token.
func (l *Levenshtein) SimilarWithin(token, pattern []byte, k int) bool {
	l.tok = appendNorm(l.tok[:0], token)
	l.pat = appendNorm(l.pat[:0], pattern)
	return l.similar(l.tok, l.pat, k)
}

func (l *Levenshtein) similar(tok, pat []rune, k int) bool {
	sl, tl := len(pat), len(tok)
	if sl < fuzzyMinLength {
		return slices.Equal(tok, pat)
	}
	if sl > fuzzyMaxLength {
		return containsRunes(tok, pat)
	}
	if k <= 0 {
		k = max(1, sl>>2)
	}
	if tl-sl > k || sl-tl > k {
		return false
	}

	cols := sl + 1
	if n := (tl + 1) * cols; n > len(l.matrix) {
		l.matrix = make([]int, n)
	}
	d := l.matrix
	for j := 0; j <= sl; j++ {
		d[j] = j
	}
	for i := 1; i <= tl; i++ {
		row := i * cols
		prev := row - cols
		d[row] = i
		rowMin := i
		for j := 1; j <= sl; j++ {
			cost := 1
			if tok[i-1] == pat[j-1] {
				cost = 0
			}
			v := min(d[prev+j]+1, d[row+j-1]+1, d[prev+j-1]+cost)
			d[row+j] = v
			rowMin = min(rowMin, v)
		}
		if rowMin > k {
			return false
		}
	}
	return d[tl*cols+sl] <= k
}

// Contains reports whether any run of full-text characters in haystack
// matches pattern within k errors (0 derives the budget).
func (l *Levenshtein) Contains(haystack, pattern []byte, k int) bool {
	l.pat = appendNorm(l.pat[:0], pattern)
	for i := 0; i < len(haystack); {
		r, n := Codepoint(haystack, i)
		if !IsFTChar(r) {
			i += n
			continue
		}
		l.tok = l.tok[:0]
		for i < len(haystack) {
			r, n = Codepoint(haystack, i)
			if !IsFTChar(r) {
				break
			}
			l.tok = append(l.tok, FTNorm(r))
			i += n
		}
		if l.similar(l.tok, l.pat, k) {
			return true
		}
	}
	return false
}

func appendNorm(dst []rune, token []byte) []rune {
	for i := 0; i < len(token); {
		r, n := Codepoint(token, i)
		dst = append(dst, FTNorm(r))
		i += n
	}
	return dst
}

func containsRunes(s, sub []rune) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return true
		}
	}
	return false
}

var levenshteinPool = sync.Pool{
	New: func() any { return NewLevenshtein(0) },
}

// Similar reports whether token matches pattern within k errors, or within
// max(1, n/4) errors for a pattern of n characters if k is 0.
func Similar(token, pattern []byte, k int) bool {
	l := levenshteinPool.Get().(*Levenshtein)
	defer levenshteinPool.Put(l)
	return l.SimilarWithin(token, pattern, k)
}

// Contains reports whether a word of haystack matches pattern within k
// errors, or within the derived budget if k is 0.
func Contains(haystack, pattern []byte, k int) bool {
	l := levenshteinPool.Get().(*Levenshtein)
	defer levenshteinPool.Put(l)
	return l.Contains(haystack, pattern, k)
}
