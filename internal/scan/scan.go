// Package scan discovers the files of a project directory and renders its
// tree structure. Discovery honors ignore sets for folder and file names;
// ignored folders are pruned entirely and never descended into.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dataprompt/dataprompt/internal/config"
)

// Options controls which entries are visited.
type Options struct {
	// IgnoreFolders prunes directories by base name.
	IgnoreFolders map[string]struct{}
	// IgnoreFiles skips files by base name.
	IgnoreFiles map[string]struct{}
}

// Walk visits every non-ignored file under root in lexical order, calling
// fn with a FileTarget for each. Returning an error from fn stops the walk.
func Walk(root string, opts Options, fn func(config.FileTarget) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root {
				if _, ok := opts.IgnoreFolders[d.Name()]; ok {
					return fs.SkipDir
				}
			}
			return nil
		}
		if _, ok := opts.IgnoreFiles[d.Name()]; ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(config.NewFileTarget(path, filepath.ToSlash(rel), info.Size()))
	})
}

// Targets collects all non-ignored files under root.
func Targets(root string, opts Options) ([]config.FileTarget, error) {
	var targets []config.FileTarget
	err := Walk(root, opts, func(t config.FileTarget) error {
		targets = append(targets, t)
		return nil
	})
	return targets, err
}

// Tree renders the project structure as an indented listing, four spaces
// per level, honoring the same ignore sets as Walk.
func Tree(root string, opts Options) (string, error) {
	var b strings.Builder
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			level := 0
			if rel != "." {
				if _, ok := opts.IgnoreFolders[d.Name()]; ok {
					return fs.SkipDir
				}
				level = strings.Count(rel, string(os.PathSeparator)) + 1
			}
			fmt.Fprintf(&b, "%s📂 %s/\n", strings.Repeat(" ", 4*level), d.Name())
			return nil
		}
		if _, ok := opts.IgnoreFiles[d.Name()]; ok {
			return nil
		}
		level := strings.Count(rel, string(os.PathSeparator)) + 1
		fmt.Fprintf(&b, "%s📄 %s\n", strings.Repeat(" ", 4*level), d.Name())
		return nil
	})
	return strings.TrimRight(b.String(), "\n"), err
}
