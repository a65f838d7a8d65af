package util

import (
	"path/filepath"
	"strings"
)

// MatchesIgnore reports whether a slash-separated relative path matches
// an ignore pattern. Patterns use filepath.Match syntax; a pattern
// without a slash is also tried against every path segment suffix, so
// "*.bak" ignores backups at any depth while "drafts/*.txt" only
// applies at the top level.
func MatchesIgnore(pattern, relPath string) bool {
	pattern = filepath.ToSlash(pattern)
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}
	if ok, _ := filepath.Match(pattern, relPath); ok {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	parts := strings.Split(relPath, "/")
	for i := range parts {
		if ok, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}

// MatchesAnyIgnore applies MatchesIgnore over a pattern list.
func MatchesAnyIgnore(patterns []string, relPath string) bool {
	for _, p := range patterns {
		if MatchesIgnore(p, relPath) {
			return true
		}
	}
	return false
}
