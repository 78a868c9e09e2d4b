package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractSpreadsheet renders an xlsx workbook as text: for every sheet, each
// row's non-empty cell values are space-joined, rows are newline-joined, in
// sheet-then-row order.
func extractSpreadsheet(data []byte) Outcome {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return failed(fmt.Sprintf("opening xlsx: %v", err))
	}
	defer workbook.Close()

	var lines []string
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			// a broken sheet skips, the rest of the workbook continues
			continue
		}
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
	}

	return ok(strings.Join(lines, "\n"))
}
