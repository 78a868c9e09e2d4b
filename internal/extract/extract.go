// Package extract decodes uploaded files into plain text for classification.
//
// Dispatch is by declared file extension, never by content sniffing. Each
// format decoder is an isolated failure domain: a file that cannot be decoded
// degrades to an empty-text outcome with a recorded reason instead of
// aborting anything else, and a format nobody recognizes is "nothing
// extracted", which is a success. Archive containers are unpacked recursively
// under an explicit depth limit and a cumulative decompressed-byte budget so
// that nested-archive amplification cannot exhaust the process.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Default traversal bounds applied when a Limits field is left zero.
const (
	DefaultMaxDepth        = 5
	DefaultMaxArchiveBytes = 64 * 1024 * 1024 // 64MB of cumulative decompressed content
)

// reasonBudget marks outcomes terminated by the depth or byte budget.
const reasonBudget = "budget exceeded"

// SourceItem is one named blob to extract text from. Archive members become
// SourceItems themselves during traversal.
type SourceItem struct {
	Name string
	Data []byte
}

// Outcome reports the extraction result for one SourceItem.
// Invariant: when Succeeded is false, Text is always empty.
type Outcome struct {
	Text          string
	Succeeded     bool
	FailureReason string
}

// BudgetExceeded reports whether this outcome was terminated by the depth or
// byte budget rather than an ordinary decode failure.
func (o Outcome) BudgetExceeded() bool {
	return !o.Succeeded && o.FailureReason == reasonBudget
}

// ok wraps extracted text in a successful outcome.
func ok(text string) Outcome {
	return Outcome{Text: text, Succeeded: true}
}

// failed records a non-fatal per-item failure; the text is dropped.
func failed(reason string) Outcome {
	return Outcome{Succeeded: false, FailureReason: reason}
}

// Limits bounds recursive archive traversal.
type Limits struct {
	// MaxDepth is the deepest nesting level that will be unpacked;
	// the top-level item is depth 0.
	MaxDepth int

	// MaxArchiveBytes caps the cumulative decompressed size of all archive
	// members across one whole traversal.
	MaxArchiveBytes int64
}

// Extractor converts SourceItems to plain text. The zero value is not usable;
// construct with New.
type Extractor struct {
	limits Limits
}

// New creates an Extractor, filling unset limits with defaults.
func New(limits Limits) *Extractor {
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	if limits.MaxArchiveBytes <= 0 {
		limits.MaxArchiveBytes = DefaultMaxArchiveBytes
	}
	return &Extractor{limits: limits}
}

// Extract decodes one item, recursing into archive containers.
// It never returns a Go error: every failure mode is captured in the Outcome.
// ctx cancellation short-circuits the traversal.
func (e *Extractor) Extract(ctx context.Context, item SourceItem) Outcome {
	budget := newByteBudget(e.limits.MaxArchiveBytes)
	return e.extract(ctx, item, 0, budget)
}

// extract is the recursive worker carrying the current depth and the shared
// byte budget for the whole traversal.
func (e *Extractor) extract(ctx context.Context, item SourceItem, depth int, budget *byteBudget) (outcome Outcome) {
	if err := ctx.Err(); err != nil {
		return failed(fmt.Sprintf("cancelled: %v", err))
	}
	if depth > e.limits.MaxDepth {
		slog.Debug("Archive nesting exceeds depth limit", "name", item.Name, "depth", depth)
		return failed(reasonBudget)
	}

	// third-party decoders may panic on crafted input; a panicking item
	// must degrade exactly like any other decode failure
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Decoder panic recovered", "name", item.Name, "panic", r)
			outcome = failed(fmt.Sprintf("decoder panic: %v", r))
		}
	}()

	switch extension(item.Name) {
	case ".txt", ".csv", ".md":
		return ok(decodeText(item.Data))
	case ".pdf":
		return extractPDF(item.Data)
	case ".docx":
		return extractWordDocument(item.Data)
	case ".pptx":
		return extractPresentation(item.Data)
	case ".xlsx":
		return extractSpreadsheet(item.Data)
	case ".json":
		return extractJSON(item.Data)
	case ".html", ".htm":
		return extractHTML(item.Data)
	case ".zip":
		return e.extractArchive(ctx, item, depth, budget)
	default:
		// unknown formats are "nothing extracted", not a failure
		slog.Debug("Unsupported extension, nothing extracted", "name", item.Name)
		return ok("")
	}
}

// extension returns the lower-cased declared extension of name.
func extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// decodeText interprets bytes as UTF-8 text, dropping invalid sequences
// rather than failing the item.
func decodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// extractJSON round-trips the document through a structured form so the
// normalizer sees flattened values instead of raw punctuation-heavy source.
func extractJSON(data []byte) Outcome {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return failed(fmt.Sprintf("invalid json: %v", err))
	}
	canonical, err := json.Marshal(parsed)
	if err != nil {
		return failed(fmt.Sprintf("reserializing json: %v", err))
	}
	return ok(string(canonical))
}
