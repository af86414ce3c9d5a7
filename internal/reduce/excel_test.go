package reduce

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dataprompt/dataprompt/internal/config"
)

// writeWorkbook authors a workbook with the given sheet names and dataRows
// data rows (plus header) per sheet. Sheets named in emptySheets get no
// cells at all.
func writeWorkbook(t *testing.T, sheets []string, dataRows int, emptySheets map[string]bool) config.FileTarget {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	for i, name := range sheets {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("renaming default sheet: %v", err)
			}
		} else {
			if _, err := wb.NewSheet(name); err != nil {
				t.Fatalf("adding sheet %s: %v", name, err)
			}
		}
		if emptySheets[name] {
			continue
		}
		if err := wb.SetSheetRow(name, "A1", &[]interface{}{"region", "total"}); err != nil {
			t.Fatalf("writing header: %v", err)
		}
		for row := 0; row < dataRows; row++ {
			cell := fmt.Sprintf("A%d", row+2)
			if err := wb.SetSheetRow(name, cell, &[]interface{}{fmt.Sprintf("r%d", row), row * 10}); err != nil {
				t.Fatalf("writing row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return config.NewFileTarget(path, "book.xlsx", 0)
}

func sheetNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Data%d", i+1)
	}
	return names
}

func TestExcelSheetCapWithSingleMarker(t *testing.T) {
	opts := config.DefaultReduceOptions()
	opts.MaxSheets = 5
	r := newTestReducer(opts)

	target := writeWorkbook(t, sheetNames(6), 3, nil)
	res := r.Reduce(target)

	if res.Status != StatusExtracted {
		t.Fatalf("Status = %v, want %v", res.Status, StatusExtracted)
	}
	if res.SheetsProcessed != 5 {
		t.Errorf("SheetsProcessed = %d, want 5", res.SheetsProcessed)
	}
	if got := strings.Count(res.Content, "### Sheet:"); got != 5 {
		t.Errorf("rendered sheets = %d, want 5", got)
	}
	if got := strings.Count(res.Content, "workbook truncated"); got != 1 {
		t.Errorf("truncation markers = %d, want exactly 1", got)
	}
	if strings.Contains(res.Content, "Data6") {
		t.Error("sheet past the cap should not be rendered")
	}
	if res.DisplayType != "Excel (5 sheets)" {
		t.Errorf("DisplayType = %q", res.DisplayType)
	}
}

func TestExcelAllSheetsWithinCap(t *testing.T) {
	opts := config.DefaultReduceOptions()
	opts.MaxSheets = 5
	r := newTestReducer(opts)

	target := writeWorkbook(t, sheetNames(2), 3, nil)
	res := r.Reduce(target)

	if res.SheetsProcessed != 2 {
		t.Errorf("SheetsProcessed = %d, want 2", res.SheetsProcessed)
	}
	if strings.Contains(res.Content, "workbook truncated") {
		t.Error("no truncation marker expected when all sheets fit")
	}
}

func TestExcelHeadRowsNotRandom(t *testing.T) {
	opts := config.DefaultReduceOptions()
	opts.SampleSize = 5
	r := newTestReducer(opts)

	target := writeWorkbook(t, []string{"Sales"}, 20, nil)
	res := r.Reduce(target)

	if !strings.Contains(res.Content, "[First 5 rows]") {
		t.Errorf("missing head-rows caption:\n%s", res.Content)
	}
	// The first five rows are kept positionally, in order.
	for i := 0; i < 5; i++ {
		if !strings.Contains(res.Content, fmt.Sprintf("r%d", i)) {
			t.Errorf("missing head row r%d", i)
		}
	}
	if strings.Contains(res.Content, "r10") {
		t.Error("row past the cap should not be rendered")
	}
}

func TestExcelEmptySheetNote(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	target := writeWorkbook(t, []string{"Dashboard"}, 0, map[string]bool{"Dashboard": true})
	res := r.Reduce(target)

	if !strings.Contains(res.Content, "likely a dashboard or empty") {
		t.Errorf("missing empty-sheet note:\n%s", res.Content)
	}
}

func TestExcelUnreadableFileYieldsError(t *testing.T) {
	r := newTestReducer(config.DefaultReduceOptions())

	target := writeTempFile(t, "fake.xlsx", "this is not a zip archive")
	res := r.Reduce(target)

	if res.Status != StatusError {
		t.Fatalf("Status = %v, want %v", res.Status, StatusError)
	}
	if !strings.Contains(res.Content, "Error reading workbook") {
		t.Errorf("unexpected error content: %q", res.Content)
	}
}
