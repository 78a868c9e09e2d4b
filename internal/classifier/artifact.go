package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the on-disk shape of the trained model pair: one shared tf-idf
// vectorizer, a binary logistic head for profanity scoring, and a one-vs-rest
// head for intent prediction. It is exported from the offline training
// pipeline as JSON; producing it is out of scope here.
type Artifact struct {
	Vectorizer VectorizerSpec `json:"vectorizer"`
	Profanity  BinaryHead     `json:"profanity"`
	Intent     MultiHead      `json:"intent"`
}

// VectorizerSpec mirrors a fitted tf-idf vectorizer: a term -> column index
// vocabulary and the inverse-document-frequency weight per column.
type VectorizerSpec struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// BinaryHead holds a fitted binary logistic regression over the vectorizer's
// feature space.
type BinaryHead struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// MultiHead holds a fitted one-vs-rest logistic regression with one weight
// row and intercept per class label.
type MultiHead struct {
	Classes    []string    `json:"classes"`
	Coefs      [][]float64 `json:"coefs"`
	Intercepts []float64   `json:"intercepts"`
}

// LoadArtifact reads and validates a model artifact from path.
// Any structural problem is reported as ErrUnavailable so the process refuses
// to start with a half-usable model.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading artifact %q: %v", ErrUnavailable, path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parsing artifact %q: %v", ErrUnavailable, path, err)
	}

	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: artifact %q: %v", ErrUnavailable, path, err)
	}

	return &a, nil
}

// validate checks the artifact for internal consistency: every model head
// must line up with the vectorizer's feature space.
func (a *Artifact) validate() error {
	vocabSize := len(a.Vectorizer.Vocabulary)
	if vocabSize == 0 {
		return fmt.Errorf("vectorizer has empty vocabulary")
	}
	if len(a.Vectorizer.IDF) != vocabSize {
		return fmt.Errorf("idf length %d does not match vocabulary size %d",
			len(a.Vectorizer.IDF), vocabSize)
	}
	for term, idx := range a.Vectorizer.Vocabulary {
		if idx < 0 || idx >= vocabSize {
			return fmt.Errorf("vocabulary index %d for term %q out of range", idx, term)
		}
	}

	if len(a.Profanity.Coef) != vocabSize {
		return fmt.Errorf("profanity coefficient length %d does not match vocabulary size %d",
			len(a.Profanity.Coef), vocabSize)
	}

	if len(a.Intent.Classes) == 0 {
		return fmt.Errorf("intent head has no classes")
	}
	if len(a.Intent.Coefs) != len(a.Intent.Classes) {
		return fmt.Errorf("intent head has %d coefficient rows for %d classes",
			len(a.Intent.Coefs), len(a.Intent.Classes))
	}
	if len(a.Intent.Intercepts) != len(a.Intent.Classes) {
		return fmt.Errorf("intent head has %d intercepts for %d classes",
			len(a.Intent.Intercepts), len(a.Intent.Classes))
	}
	for i, row := range a.Intent.Coefs {
		if len(row) != vocabSize {
			return fmt.Errorf("intent coefficient row %d has length %d, want %d",
				i, len(row), vocabSize)
		}
	}

	return nil
}
