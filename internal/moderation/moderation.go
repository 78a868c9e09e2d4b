// Package moderation turns per-word profanity scores into a single
// accept/reject verdict.
//
// The policy is deliberately simple and observable: a word is flagged when
// its confidence is strictly greater than the rejection threshold, and the
// whole document is rejected when any word crosses it. The highest-scoring
// word is reported back so callers can tell users what tripped the filter.
package moderation

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the rejection threshold applied when none is configured.
const DefaultThreshold = 0.5

// Terminal, non-retryable outcomes of the moderation path. These are expected
// results with dedicated user messaging, not failures.
var (
	// ErrEmptyContent means no text at all was available to analyze.
	ErrEmptyContent = errors.New("empty content")

	// ErrNoValidWords means the text contained no scoreable word tokens.
	ErrNoValidWords = errors.New("no valid words found")
)

// WordScore is one distinct word with its true occurrence count and the
// classifier's probability that it is profane.
type WordScore struct {
	Word       string  `json:"word"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// Verdict is the aggregated moderation decision for one document.
type Verdict struct {
	WordsAnalyzed int        `json:"words_analyzed"`
	TotalFlagged  int        `json:"total_profane_words"`
	MostOffensive *WordScore `json:"most_offensive_word,omitempty"`
	MaxConfidence float64    `json:"confidence"`
	ShouldReject  bool       `json:"should_reject"`
}

// Aggregate combines batch scorer output into a Verdict.
//
// words must be the distinct words in their deterministic (first-occurrence)
// order, counts their pre-dedup frequencies, and confidences the scorer's
// output aligned with words. MostOffensive is the maximum-confidence word;
// ties keep the earliest word in the distinct order, which makes repeated
// runs reproducible.
func Aggregate(words []string, counts map[string]int, confidences []float64, threshold float64) (*Verdict, error) {
	if len(words) == 0 {
		return nil, ErrNoValidWords
	}
	if len(confidences) != len(words) {
		return nil, fmt.Errorf("got %d confidences for %d words", len(confidences), len(words))
	}

	verdict := &Verdict{WordsAnalyzed: len(words)}

	for i, word := range words {
		score := WordScore{
			Word:       word,
			Count:      counts[word],
			Confidence: confidences[i],
		}

		if score.Confidence > threshold {
			verdict.TotalFlagged++
		}

		// strict > keeps the first-encountered word on ties
		if verdict.MostOffensive == nil || score.Confidence > verdict.MostOffensive.Confidence {
			most := score
			verdict.MostOffensive = &most
		}
	}

	verdict.MaxConfidence = verdict.MostOffensive.Confidence
	verdict.ShouldReject = verdict.MaxConfidence > threshold

	return verdict, nil
}
