package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the project-local exclusion list. Each line names a
// folder or file to exclude; blank lines and '#' comments are skipped.
const IgnoreFileName = ".datapromptignore"

// LoadIgnoreFile reads the project-local ignore list under root. A missing
// file is not an error; it simply yields no names.
func LoadIgnoreFile(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, IgnoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
