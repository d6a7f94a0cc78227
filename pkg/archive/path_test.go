package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		desc     string
		path     string
		expected string
	}{
		{
			desc:     "empty",
			path:     "",
			expected: "",
		},
		{
			desc:     "root slash",
			path:     "/",
			expected: "",
		},
		{
			desc:     "leading slash",
			path:     "/a/b",
			expected: "a/b",
		},
		{
			desc:     "trailing slash",
			path:     "a/b/",
			expected: "a/b",
		},
		{
			desc:     "backslashes",
			path:     `a\b\c`,
			expected: "a/b/c",
		},
		{
			desc:     "mixed separators",
			path:     `\a\b/c/`,
			expected: "a/b/c",
		},
	}
	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizePath(tt.path))
			// idempotence
			assert.Equal(t, tt.expected, normalizePath(normalizePath(tt.path)))
		})
	}
}

func TestIsDescendant(t *testing.T) {
	testCases := []struct {
		desc     string
		entry    string
		parent   string
		expected bool
	}{
		{
			desc:     "everything under root",
			entry:    "a/b/c",
			parent:   "",
			expected: true,
		},
		{
			desc:     "self",
			entry:    "a/b",
			parent:   "a/b",
			expected: true,
		},
		{
			desc:     "direct child",
			entry:    "a/b",
			parent:   "a",
			expected: true,
		},
		{
			desc:     "deep descendant",
			entry:    "a/b/c/d",
			parent:   "a",
			expected: true,
		},
		{
			desc:     "sibling",
			entry:    "a/x",
			parent:   "a/b",
			expected: false,
		},
		{
			desc:     "prefix but not segment boundary",
			entry:    "a/bc",
			parent:   "a/b",
			expected: false,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDescendant(tt.entry, tt.parent))
		})
	}
}

func TestDirectChildKey(t *testing.T) {
	testCases := []struct {
		desc     string
		entry    string
		parent   string
		expected string
	}{
		{
			desc:     "top level file",
			entry:    "a",
			parent:   "",
			expected: "a",
		},
		{
			desc:     "deep entry at root",
			entry:    "a/b/c",
			parent:   "",
			expected: "a",
		},
		{
			desc:     "direct child",
			entry:    "a/b",
			parent:   "a",
			expected: "a/b",
		},
		{
			desc:     "deep entry under parent",
			entry:    "a/b/c/d.txt",
			parent:   "a",
			expected: "a/b",
		},
		{
			desc:     "deep entry under nested parent",
			entry:    "a/b/c/d.txt",
			parent:   "a/b",
			expected: "a/b/c",
		},
	}
	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, directChildKey(tt.entry, tt.parent))
		})
	}
}
