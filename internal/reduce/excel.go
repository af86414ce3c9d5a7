package reduce

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dataprompt/dataprompt/internal/config"
)

// reduceExcel renders a workbook sheet by sheet, in workbook order, up to
// the configured sheet cap. Sheets beyond the cap are never opened; a
// single marker notes how many were left out. Per-sheet read failures are
// reported inline and do not abort the remaining sheets.
func (r *Reducer) reduceExcel(target config.FileTarget) (Result, error) {
	wb, err := excelize.OpenFile(target.Path)
	if err != nil {
		return Result{}, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	var sections []string
	processed := 0
	for _, name := range sheets {
		if processed >= r.opts.MaxSheets {
			remaining := len(sheets) - processed
			sections = append(sections, fmt.Sprintf("*Note: workbook truncated; %d more sheet(s) not shown.*", remaining))
			break
		}
		sections = append(sections, r.renderSheet(wb, name))
		processed++
	}

	return Result{
		Content:         strings.Join(sections, "\n\n"),
		Status:          StatusExtracted,
		DisplayType:     fmt.Sprintf("Excel (%d sheets)", processed),
		SheetsProcessed: processed,
	}, nil
}

// renderSheet renders one sheet's tabular data, capped positionally to the
// first SampleSize rows. Spreadsheet rows are often already sorted or
// time-ordered, so the head is taken rather than a random sample.
func (r *Reducer) renderSheet(wb *excelize.File, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Sheet: %s\n", name)

	if cells, err := wb.GetPictureCells(name); err == nil && len(cells) > 0 {
		b.WriteString("\n*Note: sheet contains embedded visuals (images/charts) that are not represented textually.*\n")
	}

	rows, err := wb.GetRows(name)
	if err != nil {
		fmt.Fprintf(&b, "\nError reading sheet %q: %v", name, err)
		return b.String()
	}
	if len(rows) == 0 {
		b.WriteString("\n*Note: no tabular data found; sheet is likely a dashboard or empty.*")
		return b.String()
	}

	header, data := rows[0], rows[1:]
	if len(data) > r.opts.SampleSize {
		data = headRows(data, r.opts.SampleSize)
		fmt.Fprintf(&b, "\n#### [First %d rows]\n", r.opts.SampleSize)
	} else {
		b.WriteString("\n")
	}
	b.WriteString(renderMarkdownTable(header, data))
	return b.String()
}
