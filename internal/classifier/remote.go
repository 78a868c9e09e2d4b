package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultRemoteTimeout bounds every call to the hosted scoring service.
// A slow classifier must surface as ErrUnavailable, never hang a request.
const DefaultRemoteTimeout = 5 * time.Second

// maxResponseBytes caps how much of a scoring response is read into memory
const maxResponseBytes = 4 * 1024 * 1024

// Remote delegates scoring to the hosted classifier service over HTTP.
// All transport failures, non-200 responses, and timeouts are reported as
// ErrUnavailable.
type Remote struct {
	baseURL string
	client  *http.Client
}

var _ Capability = (*Remote)(nil)

// NewRemote creates a Remote capability against baseURL.
// A non-positive timeout falls back to DefaultRemoteTimeout.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Dial: (&net.Dialer{
					Timeout: timeout / 2,
				}).Dial,
				TLSHandshakeTimeout:   timeout / 2,
				ResponseHeaderTimeout: timeout,
				DisableKeepAlives:     true,
			},
		},
	}
}

// ScoreWords sends the whole distinct-word batch in one request.
func (r *Remote) ScoreWords(ctx context.Context, words []string) ([]float64, error) {
	var out struct {
		Confidences []float64 `json:"confidences"`
	}
	err := r.post(ctx, "/score-words", map[string]any{"words": words}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Confidences) != len(words) {
		return nil, fmt.Errorf("%w: service returned %d confidences for %d words",
			ErrUnavailable, len(out.Confidences), len(words))
	}
	return out.Confidences, nil
}

// PredictCategory asks the service for an intent label and confidence.
func (r *Remote) PredictCategory(ctx context.Context, text string) (string, float64, error) {
	var out struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	err := r.post(ctx, "/predict-category", map[string]any{"text": text}, &out)
	if err != nil {
		return "", 0, err
	}
	return out.Label, out.Confidence, nil
}

// TopKeywords asks the service for the k highest-weighted terms of text.
func (r *Remote) TopKeywords(ctx context.Context, text string, k int) ([]string, error) {
	var out struct {
		Keywords []string `json:"keywords"`
	}
	err := r.post(ctx, "/top-keywords", map[string]any{"text": text, "k": k}, &out)
	if err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

// post issues one JSON request/response exchange against the service.
func (r *Remote) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		// covers client timeouts and context cancellation alike
		slog.Error("Classifier service call failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Classifier service returned error status", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: service status %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
