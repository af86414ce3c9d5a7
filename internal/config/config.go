// Package config provides configuration types and helpers for dataprompt.
package config

import (
	"path/filepath"
	"strings"
)

// Defaults for reduction behavior. These match the documented CLI defaults
// and are also registered with viper in cmd/root.go.
const (
	DefaultSampleSize    = 70
	DefaultSeed          = 42
	DefaultMaxTextLines  = 55
	DefaultMaxSheets     = 5
	DefaultMaxFileSizeKB = 200
	DefaultOutputFile    = "PROMPT.md"
)

// CoreIgnoreFolders are directory names excluded from both the project
// tree and content processing. User-provided ignores are merged on top;
// they can add to this set but never remove from it.
var CoreIgnoreFolders = []string{
	".git", "__pycache__", "venv", ".vscode", ".ipynb_checkpoints",
	"node_modules", ".idea", "dist", "build", ".mypy_cache",
	".pytest_cache", "target", ".docker", ".aws", ".gcloud",
}

// CoreSkipExtensions are file extensions whose names appear in the project
// tree but whose content is never read.
var CoreSkipExtensions = []string{
	// Data & databases
	".pbix", ".db", ".sqlite", ".sqlite3", ".parquet", ".pkl", ".pickle", ".feather", ".h5",
	// Compressed & binary
	".zip", ".tar", ".gz", ".7z", ".rar", ".exe", ".dll", ".so", ".bin",
	// Media
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".pdf", ".mp4", ".mp3", ".mov",
	// Environment & secrets
	".env", ".venv", ".pyc", ".ds_store",
}

// ReduceOptions holds the knobs for per-file content reduction.
// It is built once per run and shared read-only across all reductions.
type ReduceOptions struct {
	// SampleSize is the maximum number of data rows kept per table:
	// random rows for CSVs, head rows per spreadsheet sheet, and the
	// per-table data-line budget for SQL dumps.
	SampleSize int

	// Seed controls the pseudo-random row sampling. The same input with
	// the same seed always produces the same sample.
	Seed int64

	// MaxTextLines is the maximum line count for a notebook cell output
	// to be retained. Outputs at or above the limit are dropped.
	MaxTextLines int

	// SQLMaxNonDataLines caps how many non-schema, non-data lines of a
	// SQL dump are kept verbatim. Zero or negative derives the cap from
	// MaxTextLines.
	SQLMaxNonDataLines int

	// MaxSheets is the maximum number of spreadsheet sheets processed
	// per workbook.
	MaxSheets int

	// MaxFileSizeKB is the size threshold in kilobytes above which
	// generic text files are head-truncated.
	MaxFileSizeKB int

	// SkipExtensions holds lowercase dotted extensions (".png") whose
	// content is never read.
	SkipExtensions map[string]struct{}
}

// DefaultReduceOptions returns reduction options with all documented
// defaults and the core skip-extension set.
func DefaultReduceOptions() ReduceOptions {
	return ReduceOptions{
		SampleSize:     DefaultSampleSize,
		Seed:           DefaultSeed,
		MaxTextLines:   DefaultMaxTextLines,
		MaxSheets:      DefaultMaxSheets,
		MaxFileSizeKB:  DefaultMaxFileSizeKB,
		SkipExtensions: MergeSkipExtensions(nil),
	}
}

// SQLNonDataBudget resolves the effective cap on non-schema, non-data SQL
// lines. When SQLMaxNonDataLines is unset the notebook text-line cap is
// reused, matching the CLI default behavior.
func (o ReduceOptions) SQLNonDataBudget() int {
	if o.SQLMaxNonDataLines > 0 {
		return o.SQLMaxNonDataLines
	}
	return o.MaxTextLines
}

// FileTarget identifies one file to reduce. It is produced by the scan
// step and consumed read-only by the reduction core.
type FileTarget struct {
	// Path is the absolute (or run-relative) path used to open the file.
	Path string
	// RelPath is the path relative to the project root, used in headers.
	RelPath string
	// Extension is the lowercase extension including the dot, or "".
	Extension string
	// Size is the file size in bytes at discovery time.
	Size int64
}

// NewFileTarget builds a FileTarget for path, with relPath relative to the
// project root.
func NewFileTarget(path, relPath string, size int64) FileTarget {
	return FileTarget{
		Path:      path,
		RelPath:   relPath,
		Extension: strings.ToLower(filepath.Ext(path)),
		Size:      size,
	}
}

// MergeSkipExtensions combines the core skip-extension set with extra
// user-provided extensions. Extensions are normalized to lowercase with a
// leading dot, so "PNG", "png" and ".png" are equivalent.
func MergeSkipExtensions(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(CoreSkipExtensions)+len(extra))
	for _, ext := range CoreSkipExtensions {
		set[NormalizeExtension(ext)] = struct{}{}
	}
	for _, ext := range extra {
		if ext = NormalizeExtension(ext); ext != "" && ext != "." {
			set[ext] = struct{}{}
		}
	}
	return set
}

// MergeIgnoreSet combines core names with extra user-provided names into a
// lookup set. Used for both ignored folders and ignored files.
func MergeIgnoreSet(core, extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(core)+len(extra))
	for _, name := range core {
		set[name] = struct{}{}
	}
	for _, name := range extra {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// NormalizeExtension lowercases an extension and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
