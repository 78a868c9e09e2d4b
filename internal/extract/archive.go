package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// byteBudget tracks cumulative decompressed bytes across one traversal.
// It is shared by every frame of the recursion, so deeply nested archives
// charge against the same allowance.
type byteBudget struct {
	remaining int64
}

func newByteBudget(limit int64) *byteBudget {
	return &byteBudget{remaining: limit}
}

// charge consumes n bytes and reports whether the budget still holds.
func (b *byteBudget) charge(n int64) bool {
	b.remaining -= n
	return b.remaining >= 0
}

// extractArchive unpacks a zip container, extracting every member in archive
// listing order and concatenating their texts.
//
// Member failures are local: a member that cannot be decoded contributes an
// empty string and its siblings proceed. Budget exhaustion is different; the
// byte budget is cumulative across the traversal, so once it trips this whole
// branch terminates with a budget failure.
func (e *Extractor) extractArchive(ctx context.Context, item SourceItem, depth int, budget *byteBudget) Outcome {
	reader, err := zip.NewReader(bytes.NewReader(item.Data), int64(len(item.Data)))
	if err != nil {
		return failed(fmt.Sprintf("opening archive: %v", err))
	}

	var texts []string
	for _, member := range reader.File {
		if err := ctx.Err(); err != nil {
			return failed(fmt.Sprintf("cancelled: %v", err))
		}

		data, readErr := readMember(member, budget)
		if readErr != nil {
			if readErr == errBudget {
				slog.Debug("Archive byte budget exhausted", "archive", item.Name, "member", member.Name)
				return failed(reasonBudget)
			}
			// unreadable member degrades to nothing; siblings continue
			slog.Debug("Skipping unreadable archive member",
				"archive", item.Name, "member", member.Name, "error", readErr)
			continue
		}

		outcome := e.extract(ctx, SourceItem{Name: member.Name, Data: data}, depth+1, budget)
		if outcome.BudgetExceeded() {
			return failed(reasonBudget)
		}
		if !outcome.Succeeded {
			slog.Debug("Archive member extraction failed",
				"archive", item.Name, "member", member.Name, "reason", outcome.FailureReason)
			continue
		}
		if outcome.Text != "" {
			texts = append(texts, outcome.Text)
		}
	}

	return ok(strings.Join(texts, "\n"))
}

// errBudget distinguishes budget exhaustion from ordinary member read errors.
var errBudget = fmt.Errorf(reasonBudget)

// readMember decompresses one archive member, charging its actual inflated
// size against the traversal budget. The declared sizes inside a crafted
// archive cannot be trusted, so the charge is based on bytes really read.
func readMember(member *zip.File, budget *byteBudget) ([]byte, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// read at most one byte past the remaining budget to detect overflow
	limit := budget.remaining + 1
	if limit < 1 {
		return nil, errBudget
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return nil, err
	}
	if !budget.charge(int64(len(data))) {
		return nil, errBudget
	}
	return data, nil
}
