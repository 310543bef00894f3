// Package discovery finds GitFlix repositories on disk: list a
// directory, filter to entries that look like bare repositories, sort
// the result for stable output.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindRepositories returns the subdirectories of root that look like
// GitFlix repositories (bare git repos, recognized by a HEAD file and a
// refs directory), sorted alphabetically. Used by the gitflix CLI's
// inspect --list mode.
func FindRepositories(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", root, err)
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(root, name)
		if looksLikeRepository(fullPath) {
			repos = append(repos, fullPath)
		}
	}

	sort.Slice(repos, func(i, j int) bool {
		return strings.ToLower(filepath.Base(repos[i])) < strings.ToLower(filepath.Base(repos[j]))
	})

	return repos, nil
}

func looksLikeRepository(path string) bool {
	headInfo, err := os.Stat(filepath.Join(path, "HEAD"))
	if err != nil || headInfo.IsDir() {
		return false
	}
	refsInfo, err := os.Stat(filepath.Join(path, "refs"))
	return err == nil && refsInfo.IsDir()
}
