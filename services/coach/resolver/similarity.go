// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resolver

import "strings"

// Scorer computes a normalized similarity score between two names.
//
// Implementations must return a value in [0.0, 1.0] where 1.0 means the
// names are considered identical. The resolver accepts a fuzzy match only
// when the score clears FuzzyThreshold, so scorers should be calibrated
// against that constant. The algorithm is pluggable so edit-distance,
// token-based, or phonetic scoring can be swapped without touching
// resolver logic.
type Scorer interface {
	Score(a, b string) float64
}

// LevenshteinScorer scores names by normalized Levenshtein edit distance:
//
//	score = 1 - distance(a, b) / max(len(a), len(b))
//
// Comparison is case-insensitive over trimmed input. Two empty strings
// score 1.0.
type LevenshteinScorer struct{}

// Score implements Scorer.
func (LevenshteinScorer) Score(a, b string) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance between two rune slices using
// the two-row dynamic programming form (O(min(m,n)) memory).
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep the shorter slice as the row for less memory.
	if len(a) < len(b) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
