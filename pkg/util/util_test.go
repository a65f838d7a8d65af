package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesIgnore(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		relPath string
		want    bool
	}{
		{"exact file", "notes.txt", "notes.txt", true},
		{"glob extension at root", "*.bak", "draft.bak", true},
		{"glob extension nested", "*.bak", "a/b/draft.bak", true},
		{"rooted pattern matches", "drafts/*.txt", "drafts/x.txt", true},
		{"rooted pattern does not recurse", "drafts/*.txt", "deep/drafts/x.txt", false},
		{"directory segment", "tmp/*", "tmp/x", true},
		{"no match", "*.log", "report.txt", false},
		{"empty pattern", "", "report.txt", false},
		{"dot path", "*.txt", ".", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesIgnore(tc.pattern, tc.relPath))
		})
	}
}

func TestMatchesAnyIgnore(t *testing.T) {
	patterns := []string{"*.bak", "tmp/*"}
	assert.True(t, MatchesAnyIgnore(patterns, "a/x.bak"))
	assert.True(t, MatchesAnyIgnore(patterns, "tmp/scratch"))
	assert.False(t, MatchesAnyIgnore(patterns, "src/main.txt"))
	assert.False(t, MatchesAnyIgnore(nil, "src/main.txt"))
}
