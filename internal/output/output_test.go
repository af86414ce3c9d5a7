package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dataprompt/dataprompt/internal/config"
	"github.com/dataprompt/dataprompt/internal/reduce"
)

func target(rel string) config.FileTarget {
	return config.NewFileTarget("/proj/"+rel, rel, 10)
}

func TestBuilderDocumentLayout(t *testing.T) {
	b := NewBuilder("churn-model", config.DefaultReduceOptions())
	b.AddTree("📂 churn-model/\n    📄 data.csv")
	b.AddFile(target("data.csv"), reduce.Result{
		Content:       "|a|b|",
		TokenEstimate: 12,
		Status:        reduce.StatusSampled,
		DisplayType:   "CSV",
	})

	doc := b.String()
	for _, want := range []string{
		"# Project Context: churn-model",
		"## Project Structure",
		"```text",
		"📄 data.csv",
		"## FILE: data.csv",
		"*Type: CSV | ~12 tokens*",
		"|a|b|",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	if strings.Index(doc, "## Project Structure") > strings.Index(doc, "## FILE:") {
		t.Error("tree block should precede file sections")
	}
}

func TestBuilderStats(t *testing.T) {
	b := NewBuilder("proj", config.DefaultReduceOptions())

	b.AddFile(target("a.csv"), reduce.Result{Status: reduce.StatusSampled, DisplayType: "CSV", TokenEstimate: 5})
	b.AddFile(target("b.ipynb"), reduce.Result{Status: reduce.StatusCleaned, DisplayType: "Notebook", TokenEstimate: 7})
	b.AddFile(target("c.png"), reduce.Result{Status: reduce.StatusSkippedBinary, DisplayType: "Skipped"})
	b.AddFile(target("d.xlsx"), reduce.Result{Status: reduce.StatusExtracted, DisplayType: "Excel (2 sheets)", SheetsProcessed: 2})
	b.AddFile(target("e.csv"), reduce.Result{Status: reduce.StatusError, DisplayType: "CSV"})

	stats := b.Stats()
	if stats.Files != 5 {
		t.Errorf("Files = %d, want 5", stats.Files)
	}
	if stats.CSVsSampled != 1 {
		t.Errorf("CSVsSampled = %d, want 1", stats.CSVsSampled)
	}
	if stats.NotebooksCleaned != 1 {
		t.Errorf("NotebooksCleaned = %d, want 1", stats.NotebooksCleaned)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.SheetsProcessed != 2 {
		t.Errorf("SheetsProcessed = %d, want 2", stats.SheetsProcessed)
	}
	if stats.TokenTotal != 12 {
		t.Errorf("TokenTotal = %d, want 12", stats.TokenTotal)
	}
}

func TestSummaryAdvisoryWarning(t *testing.T) {
	b := NewBuilder("proj", config.DefaultReduceOptions())
	b.AddFile(target("big.csv"), reduce.Result{Status: reduce.StatusSampled, DisplayType: "CSV", TokenEstimate: AdvisoryTokenLimit + 1})

	summary := b.Summary("PROMPT.md")
	if !strings.Contains(summary, "Warning") {
		t.Errorf("summary should warn past the advisory limit:\n%s", summary)
	}

	small := NewBuilder("proj", config.DefaultReduceOptions())
	if strings.Contains(small.Summary("PROMPT.md"), "Warning") {
		t.Error("summary should not warn under the advisory limit")
	}
}

func TestProgressSilentWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Step("data.csv")
	p.Step("notes.md")
	p.Done()

	if buf.Len() != 0 {
		t.Errorf("non-TTY progress wrote %q", buf.String())
	}
	if p.Count() != 2 {
		t.Errorf("Count() = %d, want 2", p.Count())
	}
}
