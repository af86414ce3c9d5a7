package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces bursts of filesystem events (editors often fire
// several per save) into a single re-pack.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-package the project whenever its files change",
	Long: `Run an initial pack, then watch the project directory and regenerate
the document after every change. Ignored folders are not watched, and
changes to the output document itself are not treated as project changes.

Examples:
  dataprompt watch
  dataprompt watch --sample-size 30 ~/projects/churn-model`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().AddFlagSet(packCmd.Flags())

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	settings, err := settingsFromViper(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := runPackOnce(settings, out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, settings); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, "Watching for changes... (Ctrl+C to stop)")

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !isRelevantEvent(event, settings) {
				continue
			}
			// Newly created directories need watching too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if _, ignored := settings.IgnoreFolders[filepath.Base(event.Name)]; !ignored {
						_ = watcher.Add(event.Name)
					}
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}

		case <-fire:
			debounce, fire = nil, nil
			if _, err := runPackOnce(settings, out); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Repack failed:", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// addWatchDirs registers the project root and every non-ignored
// subdirectory with the watcher.
func addWatchDirs(watcher *fsnotify.Watcher, settings packSettings) error {
	return filepath.WalkDir(settings.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != settings.Root {
			if _, ok := settings.IgnoreFolders[d.Name()]; ok {
				return fs.SkipDir
			}
		}
		return watcher.Add(path)
	})
}

// isRelevantEvent filters out chmods and changes to the generated document,
// which would otherwise re-trigger the pack that produced them.
func isRelevantEvent(event fsnotify.Event, settings packSettings) bool {
	if event.Op&fsnotify.Chmod != 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if _, ok := settings.IgnoreFiles[base]; ok {
		return false
	}
	if _, ok := settings.IgnoreFolders[base]; ok {
		return false
	}
	return true
}
