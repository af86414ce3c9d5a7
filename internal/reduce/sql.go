package reduce

import (
	"bufio"
	"os"
	"strings"

	"github.com/dataprompt/dataprompt/internal/config"
)

// sqlTruncationMarker replaces the first data line beyond a table's budget.
// At most one marker is emitted per table.
const sqlTruncationMarker = "-- ... [Table data truncated for brevity] ..."

// schemaKeywords mark lines that are always kept verbatim, uncapped.
// Matched as case-insensitive substrings; the trailing space avoids
// matching words like ALTERNATIVE.
var schemaKeywords = []string{"ALTER ", "CONSTRAINT ", "VIEW ", "DROP ", "INDEX ", "TABLE "}

// reduceSQL scans a relational dump line by line, keeping schema
// statements verbatim while capping data rows per table. Each CREATE TABLE
// (or BEGIN TABLE) resets the per-table budget, so a huge early table
// cannot starve samples from later tables. Lines that are neither schema
// nor data count against a global budget and are silently dropped past it.
func (r *Reducer) reduceSQL(target config.FileTarget) (Result, error) {
	f, err := os.Open(target.Path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	var kept []string
	rowCount := 0
	tableTruncated := false
	anyTruncated := false
	nonDataBudget := r.opts.SQLNonDataBudget()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.ToValidUTF8(scanner.Text(), "�")
		upper := strings.ToUpper(line)

		switch {
		case strings.Contains(upper, "CREATE TABLE") || strings.Contains(upper, "BEGIN TABLE"):
			rowCount = 0
			tableTruncated = false
			kept = append(kept, line)

		case strings.Contains(upper, "INSERT INTO") || strings.HasPrefix(strings.TrimSpace(line), "("):
			if rowCount < r.opts.SampleSize {
				kept = append(kept, line)
				rowCount++
			} else if !tableTruncated {
				kept = append(kept, sqlTruncationMarker)
				tableTruncated = true
				anyTruncated = true
			}

		case containsSchemaKeyword(upper):
			kept = append(kept, line)

		default:
			// Comments, blank lines, setup statements. The budget counts
			// all already-kept lines, so a schema-heavy file leaves no
			// room for filler.
			if len(kept) < nonDataBudget {
				kept = append(kept, line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}

	status := StatusParsed
	if anyTruncated {
		status = StatusSampled
	}
	return Result{
		Content:     fencedBlock("sql", strings.Join(kept, "\n")),
		Status:      status,
		DisplayType: "SQL",
	}, nil
}

func containsSchemaKeyword(upperLine string) bool {
	for _, kw := range schemaKeywords {
		if strings.Contains(upperLine, kw) {
			return true
		}
	}
	return false
}
