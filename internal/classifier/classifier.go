// Package classifier wraps the trained profanity/intent models behind a single
// injectable capability.
//
// The engine never trains anything at request time: a Capability is constructed
// once at process start from a persisted artifact (tf-idf vectorizer plus
// linear model heads) and is read-only afterwards, so concurrent requests may
// share it freely. Construction fails fast when the artifact is missing or
// malformed rather than starting half-initialized.
//
// Two implementations are provided: Local evaluates the linear models
// in-process, and Remote delegates to the hosted scoring service over HTTP
// with a hard timeout. Both surface failures as ErrUnavailable so callers can
// treat "don't know" distinctly from "safe".
package classifier

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the scoring capability could not produce a result:
// the artifact failed to load, the remote service is down, or a call timed out.
// Callers must not conflate this with a zero-confidence score.
var ErrUnavailable = errors.New("classifier unavailable")

// Capability is the complete surface the engine depends on.
type Capability interface {
	// ScoreWords returns one probability-of-profanity per input word, in the
	// same order, each in [0, 1]. The whole batch is scored in a single call.
	ScoreWords(ctx context.Context, words []string) ([]float64, error)

	// PredictCategory classifies free text into one of the trained intent
	// categories and reports the model's confidence for that label.
	PredictCategory(ctx context.Context, text string) (string, float64, error)

	// TopKeywords returns up to k terms of text ranked by descending tf-idf
	// weight, ties broken by first occurrence.
	TopKeywords(ctx context.Context, text string, k int) ([]string, error)
}
