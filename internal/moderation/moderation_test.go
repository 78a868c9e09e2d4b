package moderation_test

import (
	"errors"
	"testing"

	"github.com/jediamps/ZapSync/internal/moderation"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name              string
		words             []string
		counts            map[string]int
		confidences       []float64
		threshold         float64
		wantFlagged       int
		wantMostOffensive string
		wantMaxConfidence float64
		wantReject        bool
	}{
		{
			name:              "two flagged words reject the document",
			words:             []string{"free", "offer"},
			counts:            map[string]int{"free": 1, "offer": 1},
			confidences:       []float64{0.9, 0.95},
			threshold:         0.5,
			wantFlagged:       2,
			wantMostOffensive: "offer",
			wantMaxConfidence: 0.95,
			wantReject:        true,
		},
		{
			name:              "clean content accepted",
			words:             []string{"calculus", "notes"},
			counts:            map[string]int{"calculus": 2, "notes": 1},
			confidences:       []float64{0.1, 0.05},
			threshold:         0.5,
			wantFlagged:       0,
			wantMostOffensive: "calculus",
			wantMaxConfidence: 0.1,
			wantReject:        false,
		},
		{
			name:              "exact threshold is not flagged",
			words:             []string{"edge"},
			counts:            map[string]int{"edge": 1},
			confidences:       []float64{0.5},
			threshold:         0.5,
			wantFlagged:       0,
			wantMostOffensive: "edge",
			wantMaxConfidence: 0.5,
			wantReject:        false,
		},
		{
			name:              "ties keep the first-encountered word",
			words:             []string{"first", "second"},
			counts:            map[string]int{"first": 1, "second": 1},
			confidences:       []float64{0.8, 0.8},
			threshold:         0.5,
			wantFlagged:       2,
			wantMostOffensive: "first",
			wantMaxConfidence: 0.8,
			wantReject:        true,
		},
		{
			name:              "higher threshold tolerates more",
			words:             []string{"free", "offer"},
			counts:            map[string]int{"free": 1, "offer": 1},
			confidences:       []float64{0.9, 0.95},
			threshold:         0.96,
			wantFlagged:       0,
			wantMostOffensive: "offer",
			wantMaxConfidence: 0.95,
			wantReject:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := moderation.Aggregate(tt.words, tt.counts, tt.confidences, tt.threshold)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}

			if verdict.WordsAnalyzed != len(tt.words) {
				t.Errorf("WordsAnalyzed = %d, want %d", verdict.WordsAnalyzed, len(tt.words))
			}
			if verdict.TotalFlagged != tt.wantFlagged {
				t.Errorf("TotalFlagged = %d, want %d", verdict.TotalFlagged, tt.wantFlagged)
			}
			if verdict.MostOffensive == nil {
				t.Fatal("MostOffensive is nil")
			}
			if verdict.MostOffensive.Word != tt.wantMostOffensive {
				t.Errorf("MostOffensive.Word = %q, want %q", verdict.MostOffensive.Word, tt.wantMostOffensive)
			}
			if verdict.MaxConfidence != tt.wantMaxConfidence {
				t.Errorf("MaxConfidence = %v, want %v", verdict.MaxConfidence, tt.wantMaxConfidence)
			}
			if verdict.ShouldReject != tt.wantReject {
				t.Errorf("ShouldReject = %v, want %v", verdict.ShouldReject, tt.wantReject)
			}
		})
	}
}

func TestAggregate_CountsReported(t *testing.T) {
	verdict, err := moderation.Aggregate(
		[]string{"spam"},
		map[string]int{"spam": 7},
		[]float64{0.99},
		moderation.DefaultThreshold,
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if verdict.MostOffensive.Count != 7 {
		t.Errorf("MostOffensive.Count = %d, want 7", verdict.MostOffensive.Count)
	}
}

func TestAggregate_NoWords(t *testing.T) {
	_, err := moderation.Aggregate(nil, nil, nil, moderation.DefaultThreshold)
	if !errors.Is(err, moderation.ErrNoValidWords) {
		t.Errorf("Aggregate(nil) error = %v, want ErrNoValidWords", err)
	}
}

func TestAggregate_MismatchedConfidences(t *testing.T) {
	_, err := moderation.Aggregate(
		[]string{"one", "two"},
		map[string]int{"one": 1, "two": 1},
		[]float64{0.5},
		moderation.DefaultThreshold,
	)
	if err == nil {
		t.Error("expected error for mismatched confidence count")
	}
}
