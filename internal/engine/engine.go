// Package engine wires the extraction, normalization, scoring, and decision
// stages into the two operations the surrounding handlers call:
// content moderation for uploads and query understanding for search.
//
// Every request is single-pass and request-scoped. The only state shared
// across requests is the read-only classifier capability injected at
// construction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jediamps/ZapSync/internal/classifier"
	"github.com/jediamps/ZapSync/internal/extract"
	"github.com/jediamps/ZapSync/internal/moderation"
	"github.com/jediamps/ZapSync/internal/normalize"
	"github.com/jediamps/ZapSync/internal/query"
)

// DefaultScorerTimeout bounds the batch scoring call; the classifier may sit
// behind a network hop.
const DefaultScorerTimeout = 5 * time.Second

// Options configures an Engine. Zero fields take defaults.
type Options struct {
	// Threshold is the moderation rejection threshold.
	Threshold float64

	// Limits bounds archive traversal during extraction.
	Limits extract.Limits

	// ScorerTimeout caps each classifier call.
	ScorerTimeout time.Duration

	// TopKeywords is how many weighted terms query understanding extracts.
	TopKeywords int
}

// Engine is the content classification engine facade.
type Engine struct {
	capability    classifier.Capability
	extractor     *extract.Extractor
	understander  *query.Understander
	threshold     float64
	scorerTimeout time.Duration
}

// New constructs an Engine around an already-initialized classifier
// capability.
func New(capability classifier.Capability, opts Options) *Engine {
	if opts.Threshold <= 0 {
		opts.Threshold = moderation.DefaultThreshold
	}
	if opts.ScorerTimeout <= 0 {
		opts.ScorerTimeout = DefaultScorerTimeout
	}
	return &Engine{
		capability:    capability,
		extractor:     extract.New(opts.Limits),
		understander:  query.NewUnderstander(capability, opts.TopKeywords),
		threshold:     opts.Threshold,
		scorerTimeout: opts.ScorerTimeout,
	}
}

// Moderate analyzes an uploaded file and decides whether to accept it.
//
// Returned errors are part of the contract: moderation.ErrEmptyContent and
// moderation.ErrNoValidWords are terminal expected outcomes with their own
// user messaging, and classifier.ErrUnavailable means the decision is
// undetermined; policy above this engine decides what undetermined implies.
func (e *Engine) Moderate(ctx context.Context, fileName string, data []byte) (*moderation.Verdict, error) {
	outcome := e.extractor.Extract(ctx, extract.SourceItem{Name: fileName, Data: data})
	if !outcome.Succeeded {
		// extraction failure is non-fatal by contract; it degrades to empty
		// text and the empty-content outcome below
		slog.Debug("Extraction failed", "file", fileName, "reason", outcome.FailureReason)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := normalize.Moderation(outcome.Text)
	if strings.TrimSpace(cleaned) == "" {
		return nil, moderation.ErrEmptyContent
	}

	words, counts := normalize.Tokenize(cleaned)
	if len(words) == 0 {
		return nil, moderation.ErrNoValidWords
	}

	// one batch call for the whole distinct-word set, bounded by the scorer
	// timeout; a timeout is "don't know", never "safe"
	scoreCtx, cancel := context.WithTimeout(ctx, e.scorerTimeout)
	defer cancel()
	confidences, err := e.capability.ScoreWords(scoreCtx, words)
	if err != nil {
		return nil, scorerError(err)
	}

	verdict, err := moderation.Aggregate(words, counts, confidences, e.threshold)
	if err != nil {
		return nil, err
	}

	slog.Debug("Moderation verdict",
		"file", fileName,
		"wordsAnalyzed", verdict.WordsAnalyzed,
		"flagged", verdict.TotalFlagged,
		"shouldReject", verdict.ShouldReject)
	return verdict, nil
}

// UnderstandQuery extracts entities and the final category for a search
// string. query.ErrEmptyQuery marks a blank query; classifier failures map
// to classifier.ErrUnavailable.
func (e *Engine) UnderstandQuery(ctx context.Context, text string) (*query.Verdict, error) {
	queryCtx, cancel := context.WithTimeout(ctx, e.scorerTimeout)
	defer cancel()

	verdict, err := e.understander.Classify(queryCtx, text)
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			return nil, err
		}
		return nil, scorerError(err)
	}

	slog.Debug("Query understood",
		"category", verdict.Category,
		"confidence", verdict.Confidence)
	return verdict, nil
}

// scorerError folds timeouts and cancellation into the capability-failure
// contract so callers never mistake a missing answer for a confident one.
func scorerError(err error) error {
	if errors.Is(err, classifier.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", classifier.ErrUnavailable, err)
}
