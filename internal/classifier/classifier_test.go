package classifier_test

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jediamps/ZapSync/internal/classifier"
)

// testArtifact builds a small but fully-consistent model over a three-word
// vocabulary: "free" and "offer" push toward profanity, "notes" away.
func testArtifact() *classifier.Artifact {
	return &classifier.Artifact{
		Vectorizer: classifier.VectorizerSpec{
			Vocabulary: map[string]int{"free": 0, "offer": 1, "notes": 2},
			IDF:        []float64{1.0, 2.0, 1.5},
		},
		Profanity: classifier.BinaryHead{
			Coef:      []float64{2.0, 3.0, -2.0},
			Intercept: -1.0,
		},
		Intent: classifier.MultiHead{
			Classes:    []string{"lecture", "exam"},
			Coefs:      [][]float64{{5, 0, 0}, {0, 5, 0}},
			Intercepts: []float64{0, 0},
		},
	}
}

func writeArtifact(t *testing.T, artifact *classifier.Artifact) string {
	t.Helper()
	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "classifier.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func TestLoadArtifact(t *testing.T) {
	path := writeArtifact(t, testArtifact())

	artifact, err := classifier.LoadArtifact(path)
	require.NoError(t, err)
	assert.Len(t, artifact.Vectorizer.Vocabulary, 3)
	assert.Equal(t, []string{"lecture", "exam"}, artifact.Intent.Classes)
}

func TestLoadArtifact_MissingFile(t *testing.T) {
	_, err := classifier.LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestLoadArtifact_InvalidShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *classifier.Artifact)
	}{
		{
			name:   "empty vocabulary",
			mutate: func(a *classifier.Artifact) { a.Vectorizer.Vocabulary = nil },
		},
		{
			name:   "idf length mismatch",
			mutate: func(a *classifier.Artifact) { a.Vectorizer.IDF = []float64{1.0} },
		},
		{
			name:   "profanity coefficient mismatch",
			mutate: func(a *classifier.Artifact) { a.Profanity.Coef = []float64{1.0} },
		},
		{
			name:   "no intent classes",
			mutate: func(a *classifier.Artifact) { a.Intent.Classes = nil },
		},
		{
			name:   "intent row length mismatch",
			mutate: func(a *classifier.Artifact) { a.Intent.Coefs[1] = []float64{1.0} },
		},
		{
			name:   "intercept count mismatch",
			mutate: func(a *classifier.Artifact) { a.Intent.Intercepts = []float64{0} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := testArtifact()
			tt.mutate(artifact)

			_, err := classifier.LoadArtifact(writeArtifact(t, artifact))
			assert.ErrorIs(t, err, classifier.ErrUnavailable)
		})
	}
}

func TestLocal_ScoreWords(t *testing.T) {
	local := classifier.NewLocal(testArtifact())

	scores, err := local.ScoreWords(context.Background(), []string{"free", "offer", "notes", "zzzz"})
	require.NoError(t, err)
	require.Len(t, scores, 4)

	// a single in-vocabulary word reduces to intercept + coefficient
	assert.InDelta(t, sigmoid(-1.0+2.0), scores[0], 1e-9)
	assert.InDelta(t, sigmoid(-1.0+3.0), scores[1], 1e-9)
	assert.InDelta(t, sigmoid(-1.0-2.0), scores[2], 1e-9)
	// out-of-vocabulary words fall back to the intercept-only prior
	assert.InDelta(t, sigmoid(-1.0), scores[3], 1e-9)

	for _, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestLocal_ScoreWords_StemFallback(t *testing.T) {
	local := classifier.NewLocal(testArtifact())

	// "offers" is not in the vocabulary but stems to "offer"
	scores, err := local.ScoreWords(context.Background(), []string{"offers", "offer"})
	require.NoError(t, err)
	assert.Equal(t, scores[1], scores[0])
}

func TestLocal_PredictCategory(t *testing.T) {
	local := classifier.NewLocal(testArtifact())

	label, confidence, err := local.PredictCategory(context.Background(), "free offer")
	require.NoError(t, err)

	// "offer" carries the higher idf weight and only the exam row rewards it
	assert.Equal(t, "exam", label)
	assert.Greater(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestLocal_TopKeywords(t *testing.T) {
	local := classifier.NewLocal(testArtifact())

	tests := []struct {
		name string
		text string
		k    int
		want []string
	}{
		{
			name: "ranked by tf-idf weight",
			text: "notes notes free",
			k:    5,
			want: []string{"notes", "free"}, // 2*1.5 beats 1*1.0
		},
		{
			name: "ties keep first occurrence order",
			text: "free free offer",
			k:    5,
			want: []string{"free", "offer"}, // both weigh 2.0
		},
		{
			name: "k truncates",
			text: "notes notes free",
			k:    1,
			want: []string{"notes"},
		},
		{
			name: "unknown terms rank as maximally rare",
			text: "xylophone free",
			k:    5,
			want: []string{"xylophone", "free"}, // maxIDF 2.0 beats free's 1.0
		},
		{
			name: "empty text",
			text: "",
			k:    5,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords, err := local.TopKeywords(context.Background(), tt.text, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keywords)
		})
	}
}

func TestNewLocalFromFile(t *testing.T) {
	local, err := classifier.NewLocalFromFile(writeArtifact(t, testArtifact()))
	require.NoError(t, err)

	scores, err := local.ScoreWords(context.Background(), []string{"offer"})
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(2.0), scores[0], 1e-9)
}
