package reduce

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/dataprompt/dataprompt/internal/config"
)

// reduceCSV loads a CSV table and renders it as markdown. Tables larger
// than the sample size are reduced to a seeded random row sample.
func (r *Reducer) reduceCSV(target config.FileTarget) (Result, error) {
	f, err := os.Open(target.Path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, fmt.Errorf("empty table")
	}

	header, rows := records[0], records[1:]
	status := StatusParsed
	var b strings.Builder
	if len(rows) > r.opts.SampleSize {
		rows = sampleRows(rows, r.opts.SampleSize, r.opts.Seed)
		fmt.Fprintf(&b, "#### [Sample - Random %d rows]\n", r.opts.SampleSize)
		status = StatusSampled
	}
	b.WriteString(renderMarkdownTable(header, rows))

	return Result{Content: b.String(), Status: status, DisplayType: "CSV"}, nil
}

// sampleRows selects n distinct rows using a seeded permutation. The same
// rows and seed always select the same set; selected rows keep their
// original relative order.
func sampleRows(rows [][]string, n int, seed int64) [][]string {
	if n >= len(rows) {
		return rows
	}
	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(rows))[:n]
	sort.Ints(picked)

	out := make([][]string, 0, n)
	for _, i := range picked {
		out = append(out, rows[i])
	}
	return out
}

// headRows takes the first n rows. Spreadsheet sheets use positional
// sampling because their row order is often meaningful.
func headRows(rows [][]string, n int) [][]string {
	if n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// renderMarkdownTable renders a header and rows as a pipe table with
// padded columns. Ragged rows are padded with empty cells.
func renderMarkdownTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = len(escapeCell(cell))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := len(escapeCell(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := range header {
			cell := ""
			if i < len(cells) {
				cell = escapeCell(cells[i])
			}
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteString("\n")
	}

	writeRow(header)
	b.WriteString("|")
	for i := range header {
		b.WriteString(strings.Repeat("-", widths[i]+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// escapeCell keeps cell content from breaking the pipe table.
func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "|", "\\|")
	return strings.ReplaceAll(cell, "\n", " ")
}
