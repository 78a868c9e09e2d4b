package classifier

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/kljensen/snowball"

	"github.com/jediamps/ZapSync/internal/normalize"
)

// Local evaluates the trained linear models in-process.
// It is safe for concurrent use: the artifact is read-only after construction.
type Local struct {
	artifact *Artifact

	// maxIDF weights out-of-vocabulary terms during keyword ranking;
	// an unseen term is treated as maximally rare
	maxIDF float64
}

var _ Capability = (*Local)(nil)

// NewLocal builds a Local capability from an already-validated artifact.
func NewLocal(artifact *Artifact) *Local {
	maxIDF := 1.0
	for _, idf := range artifact.Vectorizer.IDF {
		if idf > maxIDF {
			maxIDF = idf
		}
	}
	return &Local{artifact: artifact, maxIDF: maxIDF}
}

// NewLocalFromFile loads, validates, and wraps the artifact at path.
func NewLocalFromFile(path string) (*Local, error) {
	artifact, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded classifier artifact",
		"path", path,
		"vocabulary", len(artifact.Vectorizer.Vocabulary),
		"intentClasses", len(artifact.Intent.Classes))
	return NewLocal(artifact), nil
}

// ScoreWords scores the whole batch in one pass over the profanity head.
//
// A single in-vocabulary word tf-idf-transforms to a one-hot vector after L2
// normalization, so its logit reduces to intercept + coefficient. Words
// missing from the vocabulary are retried under their English stem; if still
// unknown they fall back to the intercept-only prior.
func (l *Local) ScoreWords(ctx context.Context, words []string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make([]float64, len(words))
	for i, word := range words {
		logit := l.artifact.Profanity.Intercept
		if idx, ok := l.lookup(word); ok {
			logit += l.artifact.Profanity.Coef[idx]
		}
		scores[i] = sigmoid(logit)
	}

	slog.Debug("Scored word batch", "words", len(words))
	return scores, nil
}

// PredictCategory runs the one-vs-rest intent head over the tf-idf transform
// of text. Per-class sigmoid outputs are normalized to sum to one; the label
// with the highest normalized probability wins.
func (l *Local) PredictCategory(ctx context.Context, text string) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	features := l.transform(text)
	head := l.artifact.Intent

	probs := make([]float64, len(head.Classes))
	var total float64
	for c := range head.Classes {
		logit := head.Intercepts[c]
		for idx, value := range features {
			logit += head.Coefs[c][idx] * value
		}
		probs[c] = sigmoid(logit)
		total += probs[c]
	}

	best := 0
	for c := range probs {
		if probs[c] > probs[best] {
			best = c
		}
	}

	confidence := probs[best]
	if total > 0 {
		confidence = probs[best] / total
	}

	slog.Debug("Predicted category", "label", head.Classes[best], "confidence", confidence)
	return head.Classes[best], confidence, nil
}

// TopKeywords ranks the distinct terms of text by tf-idf weight and returns
// at most k of them. Out-of-vocabulary terms are weighted as maximally rare
// rather than dropped, so novel query terms still surface. Ties keep
// first-occurrence order.
func (l *Local) TopKeywords(ctx context.Context, text string, k int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	distinct, counts := normalize.Tokenize(text)
	if len(distinct) == 0 {
		return nil, nil
	}

	type weighted struct {
		term   string
		weight float64
	}
	ranked := make([]weighted, 0, len(distinct))
	for _, term := range distinct {
		idf := l.maxIDF
		if idx, ok := l.lookup(term); ok {
			idf = l.artifact.Vectorizer.IDF[idx]
		}
		ranked = append(ranked, weighted{term: term, weight: float64(counts[term]) * idf})
	}

	// stable sort preserves first-occurrence order among equal weights
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].weight > ranked[j].weight
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	keywords := make([]string, k)
	for i := 0; i < k; i++ {
		keywords[i] = ranked[i].term
	}
	return keywords, nil
}

// transform computes the L2-normalized tf-idf vector of text as a sparse
// column index -> value map over the trained vocabulary.
func (l *Local) transform(text string) map[int]float64 {
	distinct, counts := normalize.Tokenize(text)

	features := make(map[int]float64)
	for _, term := range distinct {
		idx, ok := l.lookup(term)
		if !ok {
			continue
		}
		features[idx] += float64(counts[term]) * l.artifact.Vectorizer.IDF[idx]
	}

	var norm float64
	for _, value := range features {
		norm += value * value
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}

	return features
}

// lookup resolves a term to its vocabulary column, retrying under the
// English stem for out-of-vocabulary surface forms.
func (l *Local) lookup(term string) (int, bool) {
	vocab := l.artifact.Vectorizer.Vocabulary
	if idx, ok := vocab[term]; ok {
		return idx, true
	}
	stemmed, err := snowball.Stem(term, "english", true)
	if err != nil || stemmed == term {
		return 0, false
	}
	idx, ok := vocab[stemmed]
	return idx, ok
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
