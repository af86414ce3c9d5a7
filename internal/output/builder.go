// Package output assembles the aggregate prompt document and reports
// per-run progress and statistics. Every reduction result arrives as a
// self-contained fragment; the builder only concatenates fragments with
// separators and never rewrites their content.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/dataprompt/dataprompt/internal/config"
	"github.com/dataprompt/dataprompt/internal/reduce"
)

// AdvisoryTokenLimit is the aggregate token estimate above which the run
// summary carries a size warning. It is informational only; the builder
// never rejects writes.
const AdvisoryTokenLimit = 100_000

const sectionSeparator = "\n---\n"

// Stats accumulates per-run counters for the final summary.
type Stats struct {
	Files            int
	CSVsSampled      int
	NotebooksCleaned int
	SheetsProcessed  int
	Skipped          int
	Errors           int
	TokenTotal       int
	ByStatus         map[reduce.Status]int
}

// Builder accumulates the aggregate document for one packaging run.
type Builder struct {
	doc   strings.Builder
	stats Stats
}

// NewBuilder starts a document for the named project, emitting the heading
// and a settings banner describing the reduction caps in effect.
func NewBuilder(projectName string, opts config.ReduceOptions) *Builder {
	b := &Builder{stats: Stats{ByStatus: make(map[reduce.Status]int)}}
	fmt.Fprintf(&b.doc, "# Project Context: %s\n\n", projectName)
	fmt.Fprintf(&b.doc,
		"*Settings: sample size %d, seed %d, max output lines %d, max sheets %d, max file size %dKB*\n%s\n",
		opts.SampleSize, opts.Seed, opts.MaxTextLines, opts.MaxSheets, opts.MaxFileSizeKB, sectionSeparator)
	return b
}

// AddTree emits the project structure block.
func (b *Builder) AddTree(tree string) {
	b.doc.WriteString("## Project Structure\n\n")
	b.doc.WriteString("```text\n")
	b.doc.WriteString(tree)
	b.doc.WriteString("\n```\n")
	b.doc.WriteString(sectionSeparator + "\n")
}

// AddFile appends one file section and updates the run statistics.
func (b *Builder) AddFile(target config.FileTarget, res reduce.Result) {
	fmt.Fprintf(&b.doc, "## FILE: %s\n", target.RelPath)
	if res.DisplayType != "" {
		fmt.Fprintf(&b.doc, "*Type: %s | ~%d tokens*\n", res.DisplayType, res.TokenEstimate)
	}
	b.doc.WriteString("\n")
	b.doc.WriteString(res.Content)
	b.doc.WriteString("\n" + sectionSeparator + "\n")

	b.stats.Files++
	b.stats.TokenTotal += res.TokenEstimate
	b.stats.SheetsProcessed += res.SheetsProcessed
	b.stats.ByStatus[res.Status]++
	switch res.Status {
	case reduce.StatusSampled:
		if strings.HasPrefix(res.DisplayType, "CSV") {
			b.stats.CSVsSampled++
		}
	case reduce.StatusCleaned:
		b.stats.NotebooksCleaned++
	case reduce.StatusSkippedBinary:
		b.stats.Skipped++
	case reduce.StatusError:
		b.stats.Errors++
	}
}

// Stats returns the counters accumulated so far.
func (b *Builder) Stats() Stats {
	return b.stats
}

// String returns the assembled document.
func (b *Builder) String() string {
	return b.doc.String()
}

// WriteFile writes the assembled document to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, []byte(b.doc.String()), 0o644)
}

// Summary renders the end-of-run statistics block printed to the user.
func (b *Builder) Summary(outputPath string) string {
	s := b.stats
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 46) + "\n")
	sb.WriteString("DONE! Packaging complete.\n")
	fmt.Fprintf(&sb, "Total files processed: %d\n", s.Files)
	fmt.Fprintf(&sb, "CSVs sampled:          %d\n", s.CSVsSampled)
	fmt.Fprintf(&sb, "Notebooks cleaned:     %d\n", s.NotebooksCleaned)
	fmt.Fprintf(&sb, "Skipped (binary):      %d\n", s.Skipped)
	fmt.Fprintf(&sb, "Errors:                %d\n", s.Errors)
	fmt.Fprintf(&sb, "Estimated tokens:      %d\n", s.TokenTotal)
	fmt.Fprintf(&sb, "Output file:           %s\n", outputPath)
	if s.TokenTotal > AdvisoryTokenLimit {
		fmt.Fprintf(&sb, "Warning: estimated size exceeds %d tokens; consider tighter caps.\n", AdvisoryTokenLimit)
	}
	sb.WriteString(strings.Repeat("=", 46))
	return sb.String()
}
