package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zapsync.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_OverridesMergeOverDefaults(t *testing.T) {
	path := writeConfig(t, `
threshold = 0.7
listen_addr = ":9090"
scorer_timeout_seconds = 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold != 0.7 {
		t.Errorf("Threshold = %v, want 0.7", cfg.Threshold)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if got := cfg.ScorerTimeout(); got != 10*time.Second {
		t.Errorf("ScorerTimeout = %v, want 10s", got)
	}
	// untouched fields keep their defaults
	if cfg.MaxDepth != Default().MaxDepth {
		t.Errorf("MaxDepth = %v, want default %v", cfg.MaxDepth, Default().MaxDepth)
	}
	if cfg.ArtifactPath != Default().ArtifactPath {
		t.Errorf("ArtifactPath = %q, want default", cfg.ArtifactPath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed toml", content: "threshold = ="},
		{name: "threshold out of range", content: "threshold = 1.5"},
		{name: "zero depth", content: "max_depth = -1"},
		{name: "zero timeout", content: "scorer_timeout_seconds = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load accepted an invalid config")
			}
		})
	}
}
