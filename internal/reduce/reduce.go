// Package reduce converts files of unbounded size into bounded textual
// excerpts suitable for a language-model context window.
//
// The entry point is Reducer.Reduce, which picks exactly one strategy per
// file based on its extension: CSV tables are randomly sampled, SQL dumps
// keep schema verbatim and cap data rows per table, notebooks keep code
// and filter oversized or binary outputs, spreadsheets render head rows
// per sheet, and everything else goes through a binary probe plus a
// size-capped text read. Every strategy traps its own failures; a bad file
// yields an Error result, never an error return.
package reduce

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/dataprompt/dataprompt/internal/config"
	"github.com/dataprompt/dataprompt/internal/tokens"
)

// Reducer dispatches files to per-format reduction strategies.
// It is safe to reuse across files within a run; the options are read-only.
type Reducer struct {
	opts   config.ReduceOptions
	est    *tokens.Estimator
	logger *slog.Logger
}

// New creates a Reducer with the given options and token estimator.
// A nil estimator disables token estimates; a nil logger discards logs.
func New(opts config.ReduceOptions, est *tokens.Estimator, logger *slog.Logger) *Reducer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Reducer{opts: opts, est: est, logger: logger}
}

// Reduce converts one file into a bounded Result. Files whose extension is
// in the skip set are never opened. Strategy failures are converted into
// Error-status results so that one bad file cannot abort a run.
func (r *Reducer) Reduce(target config.FileTarget) Result {
	if _, ok := r.opts.SkipExtensions[target.Extension]; ok {
		return Result{
			Content:     fmt.Sprintf("*Note: Binary/Heavy file (%s). Content skipped for brevity.*", target.Extension),
			Status:      StatusSkippedBinary,
			DisplayType: "Skipped",
		}
	}

	kind := KindForExtension(target.Extension)
	res, err := r.reduceKind(kind, target)
	if err != nil {
		r.logger.Debug("reduction failed", "path", target.RelPath, "kind", kind.String(), "error", err)
		res = errorResult(kind, err)
	}
	if r.est != nil {
		res.TokenEstimate = r.est.Count(res.Content)
	}
	return res
}

func (r *Reducer) reduceKind(kind Kind, target config.FileTarget) (Result, error) {
	switch kind {
	case KindCSV:
		return r.reduceCSV(target)
	case KindSQL:
		return r.reduceSQL(target)
	case KindNotebook:
		return r.reduceNotebook(target)
	case KindExcel:
		return r.reduceExcel(target)
	default:
		return r.reduceGeneric(target)
	}
}

// errorResult renders a trapped strategy failure as a short diagnostic.
func errorResult(kind Kind, err error) Result {
	var content string
	switch kind {
	case KindCSV:
		content = fmt.Sprintf("Error reading CSV: %v", err)
	case KindSQL:
		content = fmt.Sprintf("Error reading SQL: %v", err)
	case KindNotebook:
		content = fmt.Sprintf("Error processing notebook: %v", err)
	case KindExcel:
		content = fmt.Sprintf("Error reading workbook: %v", err)
	default:
		content = "*Could not read file.*"
	}
	return Result{Content: content, Status: StatusError, DisplayType: kind.String()}
}
