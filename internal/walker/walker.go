// Package walker enumerates the files a scan should read. It is glue around
// the engine: the engine itself only ever sees the (relative path, loader)
// pairs produced here.
package walker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revscan-dev/revscan/internal/ignore"
	"github.com/revscan-dev/revscan/internal/scan"
	"github.com/revscan-dev/revscan/internal/scanner"
)

// IgnoreFile is the per-tree rules file honored in addition to the
// configured directory excludes.
const IgnoreFile = ".revscanignore"

// Collect walks root and returns an input per file whose extension is in
// extensions and that no ignore rule excludes. Walk errors are collected as
// issues; they never abort enumeration.
func Collect(root string, matcher *ignore.Matcher, extensions []string) ([]scan.Input, []scanner.Issue) {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	var inputs []scan.Input
	var issues []scanner.Issue

	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			relPath := path
			if rel, relErr := filepath.Rel(root, path); relErr == nil {
				relPath = rel
			}
			issues = append(issues, scanner.Issue{
				File:     filepath.ToSlash(relPath),
				Severity: "warning",
				Message:  fmt.Sprintf("walk error: %v", err),
			})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath := filepath.ToSlash(rel)

		if matcher != nil && matcher.ShouldIgnore(relPath, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !extSet[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		abs := path
		inputs = append(inputs, scan.Input{
			Path: relPath,
			Load: func() ([]byte, error) { return os.ReadFile(abs) },
		})
		return nil
	})

	return inputs, issues
}

// LoadIgnoreRules reads user ignore rules from root's .revscanignore, if
// present. Blank lines and comments are dropped.
func LoadIgnoreRules(root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	lines := bufio.NewScanner(f)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFile, err)
	}

	return rules, nil
}
