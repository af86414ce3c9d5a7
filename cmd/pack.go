package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dataprompt/dataprompt/internal/config"
	"github.com/dataprompt/dataprompt/internal/output"
	"github.com/dataprompt/dataprompt/internal/reduce"
	"github.com/dataprompt/dataprompt/internal/scan"
	"github.com/dataprompt/dataprompt/internal/tokens"
)

var packCmd = &cobra.Command{
	Use:   "pack [path]",
	Short: "Package a project directory into one markdown document",
	Long: `Walk a project directory, reduce every file to a bounded excerpt,
and write the aggregate document.

User-provided ignores and skip extensions are merged with the built-in
core sets, so essentials like .git or media extensions are always handled.
A project-local ` + config.IgnoreFileName + ` file (one name per line) is merged too.

Examples:
  dataprompt pack
  dataprompt pack -o context.md ~/projects/sales-report
  dataprompt pack --skip-exts log,tmp --ignore-folders data/raw .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", config.DefaultOutputFile, "name of the generated markdown file")
	packCmd.Flags().IntP("sample-size", "s", config.DefaultSampleSize, "rows kept per CSV, sheet, or SQL table")
	packCmd.Flags().Int("seed", config.DefaultSeed, "random seed for reproducible CSV sampling")
	packCmd.Flags().Int("max-lines", config.DefaultMaxTextLines, "max lines of notebook cell output kept")
	packCmd.Flags().Int("sql-max-lines", 0, "cap on non-schema SQL lines (0 derives from --max-lines)")
	packCmd.Flags().Int("max-sheets", config.DefaultMaxSheets, "max spreadsheet sheets processed per workbook")
	packCmd.Flags().Int("max-file-size", config.DefaultMaxFileSizeKB, "max file size in KB to read entirely")
	packCmd.Flags().StringSlice("skip-exts", nil, "additional file extensions to skip content for")
	packCmd.Flags().StringSlice("ignore-folders", nil, "additional folders to skip entirely")
	packCmd.Flags().StringSlice("ignore-files", nil, "additional files to skip entirely")

	_ = viper.BindPFlag("output", packCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("sample_size", packCmd.Flags().Lookup("sample-size"))
	_ = viper.BindPFlag("seed", packCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("max_text_lines", packCmd.Flags().Lookup("max-lines"))
	_ = viper.BindPFlag("sql_max_nondata_lines", packCmd.Flags().Lookup("sql-max-lines"))
	_ = viper.BindPFlag("max_sheets", packCmd.Flags().Lookup("max-sheets"))
	_ = viper.BindPFlag("max_file_size_kb", packCmd.Flags().Lookup("max-file-size"))
	_ = viper.BindPFlag("skip_exts", packCmd.Flags().Lookup("skip-exts"))
	_ = viper.BindPFlag("ignore_folders", packCmd.Flags().Lookup("ignore-folders"))
	_ = viper.BindPFlag("ignore_files", packCmd.Flags().Lookup("ignore-files"))

	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	settings, err := settingsFromViper(root)
	if err != nil {
		return err
	}

	_, err = runPackOnce(settings, cmd.OutOrStdout())
	return err
}

// packSettings is everything one packaging run needs, resolved once from
// viper plus the project-local ignore file.
type packSettings struct {
	Root          string
	OutputPath    string
	Opts          config.ReduceOptions
	IgnoreFolders map[string]struct{}
	IgnoreFiles   map[string]struct{}
	Verbose       bool
}

// settingsFromViper resolves the merged configuration for a run rooted at
// root. User input adds to the core ignore and skip sets, never replaces
// them, and the output document always excludes itself.
func settingsFromViper(root string) (packSettings, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return packSettings{}, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return packSettings{}, err
	}
	if !info.IsDir() {
		return packSettings{}, fmt.Errorf("not a directory: %s", root)
	}

	localIgnores, err := config.LoadIgnoreFile(absRoot)
	if err != nil {
		return packSettings{}, fmt.Errorf("reading %s: %w", config.IgnoreFileName, err)
	}

	opts := config.ReduceOptions{
		SampleSize:         viper.GetInt("sample_size"),
		Seed:               viper.GetInt64("seed"),
		MaxTextLines:       viper.GetInt("max_text_lines"),
		SQLMaxNonDataLines: viper.GetInt("sql_max_nondata_lines"),
		MaxSheets:          viper.GetInt("max_sheets"),
		MaxFileSizeKB:      viper.GetInt("max_file_size_kb"),
		SkipExtensions:     config.MergeSkipExtensions(viper.GetStringSlice("skip_exts")),
	}

	outputName := viper.GetString("output")
	ignoreFiles := append(viper.GetStringSlice("ignore_files"), localIgnores...)
	// The generated document must never package itself.
	ignoreFiles = append(ignoreFiles, filepath.Base(outputName), config.IgnoreFileName)

	return packSettings{
		Root:          absRoot,
		OutputPath:    outputName,
		Opts:          opts,
		IgnoreFolders: config.MergeIgnoreSet(config.CoreIgnoreFolders, append(viper.GetStringSlice("ignore_folders"), localIgnores...)),
		IgnoreFiles:   config.MergeIgnoreSet(nil, ignoreFiles),
		Verbose:       viper.GetBool("verbose"),
	}, nil
}

// runPackOnce executes one full packaging run and writes the document.
func runPackOnce(s packSettings, out io.Writer) (output.Stats, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	if s.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	scanOpts := scan.Options{IgnoreFolders: s.IgnoreFolders, IgnoreFiles: s.IgnoreFiles}
	targets, err := scan.Targets(s.Root, scanOpts)
	if err != nil {
		return output.Stats{}, fmt.Errorf("scanning %s: %w", s.Root, err)
	}
	tree, err := scan.Tree(s.Root, scanOpts)
	if err != nil {
		return output.Stats{}, fmt.Errorf("rendering tree: %w", err)
	}

	reducer := reduce.New(s.Opts, tokens.New(), logger)
	builder := output.NewBuilder(filepath.Base(s.Root), s.Opts)
	builder.AddTree(tree)

	progress := output.NewProgress(out)
	for _, target := range targets {
		progress.Step(target.RelPath)
		builder.AddFile(target, reducer.Reduce(target))
	}
	progress.Done()

	outPath := s.OutputPath
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(s.Root, outPath)
	}
	if err := builder.WriteFile(outPath); err != nil {
		return output.Stats{}, fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintln(out, builder.Summary(outPath))
	return builder.Stats(), nil
}
