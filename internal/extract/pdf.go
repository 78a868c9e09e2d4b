package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the text of every page in page order, space-joined.
// Individual unreadable pages are skipped; only a document that cannot be
// opened at all counts as a failure.
func extractPDF(data []byte) Outcome {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return failed(fmt.Sprintf("opening pdf: %v", err))
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	return ok(strings.Join(pages, " "))
}
