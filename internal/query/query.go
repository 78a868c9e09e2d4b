// Package query implements query understanding for smart search: structured
// entity extraction from a raw search string plus intent classification with
// deterministic keyword overrides.
//
// The probabilistic intent prediction comes from the injected classifier
// capability; the override rules then correct the label when an unambiguous
// keyword is present. The override changes only the label, never the stated
// confidence, so callers always see the model's original certainty.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jediamps/ZapSync/internal/classifier"
	"github.com/jediamps/ZapSync/internal/normalize"
)

// ErrEmptyQuery is returned when the search string is blank.
var ErrEmptyQuery = errors.New("empty query")

// DefaultTopKeywords is how many weighted terms are extracted when no count
// is configured.
const DefaultTopKeywords = 5

// EntitySet holds every structured field recognized in a query, each in scan
// order with duplicates preserved.
type EntitySet struct {
	Courses   []string `json:"courses"`
	Lecturers []string `json:"lecturers"`
	FileTypes []string `json:"file_types"`
	Weeks     []string `json:"weeks"`
	Semesters []string `json:"semesters"`
	Keywords  []string `json:"keywords"`
}

// Verdict is the final query-understanding result.
type Verdict struct {
	Category   string              `json:"intent"`
	Confidence float64             `json:"confidence"`
	Entities   EntitySet           `json:"entities"`
	Filters    map[string][]string `json:"filters"`
}

// Understander runs the query pipeline against an injected classifier.
type Understander struct {
	capability  classifier.Capability
	topKeywords int
}

// NewUnderstander creates an Understander. topKeywords <= 0 selects the
// default keyword count.
func NewUnderstander(capability classifier.Capability, topKeywords int) *Understander {
	if topKeywords <= 0 {
		topKeywords = DefaultTopKeywords
	}
	return &Understander{capability: capability, topKeywords: topKeywords}
}

// Classify produces the full search verdict for a raw query string.
func (u *Understander) Classify(ctx context.Context, rawQuery string) (*Verdict, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, ErrEmptyQuery
	}

	normalized := normalize.Query(rawQuery)

	entities, err := u.ExtractEntities(ctx, rawQuery)
	if err != nil {
		return nil, err
	}

	predicted, confidence, err := u.capability.PredictCategory(ctx, normalized)
	if err != nil {
		return nil, err
	}

	category := resolveCategory(normalized, predicted)
	if category != predicted {
		slog.Debug("Intent override applied", "predicted", predicted, "final", category)
	}

	return &Verdict{
		Category:   category,
		Confidence: confidence, // always the unoverridden model confidence
		Entities:   entities,
		Filters:    buildFilters(category, entities),
	}, nil
}

// ExtractEntities pulls structured fields from a raw query. Reference-list
// matching is pure; the free keywords come from the classifier's weighted
// term ranking over the query-grammar normalized text.
func (u *Understander) ExtractEntities(ctx context.Context, rawQuery string) (EntitySet, error) {
	normalized := normalize.Query(rawQuery)
	entities := matchReferenceLists(normalized)

	keywords, err := u.capability.TopKeywords(ctx, normalized, u.topKeywords)
	if err != nil {
		return EntitySet{}, err
	}
	entities.Keywords = keywords

	return entities, nil
}

// buildFilters assembles the filter set from the final category and every
// non-empty entity field; empty categories are omitted entirely.
func buildFilters(category string, entities EntitySet) map[string][]string {
	filters := map[string][]string{
		"category": {category},
	}
	for name, values := range map[string][]string{
		"courses":    entities.Courses,
		"lecturers":  entities.Lecturers,
		"file_types": entities.FileTypes,
		"weeks":      entities.Weeks,
		"semesters":  entities.Semesters,
		"keywords":   entities.Keywords,
	} {
		if len(values) > 0 {
			filters[name] = values
		}
	}
	return filters
}
