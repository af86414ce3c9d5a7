package reduce

import "strings"

// Status tags how a file's content was reduced.
type Status string

const (
	StatusRead          Status = "Read"          // full content emitted
	StatusSampled       Status = "Sampled"       // rows sampled to a cap
	StatusCleaned       Status = "Cleaned"       // notebook outputs filtered
	StatusParsed        Status = "Parsed"        // parsed and emitted whole
	StatusExtracted     Status = "Extracted"     // workbook data extracted
	StatusTruncated     Status = "Truncated"     // head-truncated text
	StatusSkippedBinary Status = "SkippedBinary" // content never emitted
	StatusError         Status = "Error"         // reduction failed
)

// Result is the outcome of reducing a single file. It is created once per
// file and never mutated after return; the caller owns it for aggregation.
type Result struct {
	// Content is the rendered text block, markdown-fenced where relevant.
	// It is always self-contained: every opening fence is closed.
	Content string

	// TokenEstimate is the approximate token count of Content, or 0 if
	// estimation failed or content was skipped.
	TokenEstimate int

	// Status tags the reduction outcome.
	Status Status

	// DisplayType is a short human-readable type label, e.g. "CSV" or
	// "Excel (3 sheets)".
	DisplayType string

	// SheetsProcessed is the number of workbook sheets actually rendered.
	// Zero for non-spreadsheet files.
	SheetsProcessed int
}

// Kind is the closed set of supported reduction strategies.
type Kind int

const (
	KindGeneric Kind = iota
	KindCSV
	KindSQL
	KindNotebook
	KindExcel
)

// String returns the strategy label used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindCSV:
		return "CSV"
	case KindSQL:
		return "SQL"
	case KindNotebook:
		return "Notebook"
	case KindExcel:
		return "Excel"
	default:
		return "Text"
	}
}

// KindForExtension maps a lowercase dotted extension to its reduction
// strategy. Unrecognized extensions fall through to the generic reducer.
func KindForExtension(ext string) Kind {
	switch ext {
	case ".csv":
		return KindCSV
	case ".sql":
		return KindSQL
	case ".ipynb":
		return KindNotebook
	case ".xlsx", ".xls":
		return KindExcel
	default:
		return KindGeneric
	}
}

// fenceFor returns a backtick fence longer than any backtick run inside
// body, so the emitted block is always balanced even when the body itself
// contains fences.
func fenceFor(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	width := 3
	if longest >= 3 {
		width = longest + 1
	}
	return strings.Repeat("`", width)
}

// fencedBlock wraps body in a balanced fence with the given language tag.
func fencedBlock(lang, body string) string {
	fence := fenceFor(body)
	return fence + lang + "\n" + body + "\n" + fence
}
