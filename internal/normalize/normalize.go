// Package normalize provides text canonicalization for the classification pipelines.
//
// Two grammars are supported. The moderation grammar is aggressively lossy:
// everything that is not an ASCII letter becomes a space, because the profanity
// model was trained on bare lower-case words. The query grammar additionally
// keeps digits, apostrophes, and hyphens so that terms like "week 5" or
// "object-oriented" survive into entity extraction.
//
// The package also owns word tokenization: a token is a maximal alphanumeric
// run of length >= 3, and distinct words are reported in first-occurrence
// order so downstream results stay reproducible.
package normalize

import (
	"strings"
	"unicode"
)

// minTokenLength filters out short noise words before scoring
const minTokenLength = 3

// Moderation canonicalizes text for the profanity scoring path.
// Every character that is not an ASCII letter or whitespace is replaced with
// a space, runs of whitespace collapse to a single space, and the result is
// lower-cased and trimmed.
func Moderation(text string) string {
	return canonicalize(text, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
}

// Query canonicalizes text for the query-understanding path.
// Alphanumerics, apostrophes, and hyphens are retained; everything else
// becomes a space before collapsing.
func Query(text string) string {
	return canonicalize(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
	})
}

// canonicalize rewrites text keeping only runes accepted by keep,
// then collapses whitespace, lower-cases, and trims.
func canonicalize(text string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := false
	for _, r := range text {
		if keep(r) {
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
			continue
		}
		// anything rejected degrades to a single separating space
		if !lastSpace && b.Len() > 0 {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokenize splits text into scoreable word tokens.
//
// A token is a maximal run of letters and digits; tokens shorter than three
// characters are discarded as noise. The first return value holds each
// distinct word exactly once, ordered by first occurrence in the input; the
// second maps every distinct word to its true occurrence count in the
// pre-dedup token stream.
func Tokenize(text string) ([]string, map[string]int) {
	counts := make(map[string]int)
	var distinct []string

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		token := strings.ToLower(text[start:end])
		start = -1
		if len(token) < minTokenLength {
			return
		}
		if _, seen := counts[token]; !seen {
			distinct = append(distinct, token)
		}
		counts[token]++
	}

	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return distinct, counts
}
