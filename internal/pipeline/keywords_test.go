package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cvforge/cvforge/internal/schema"
)

func TestBoldString(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		keywords []string
		expected string
	}{
		{
			name:     "whole word",
			input:    "Built services in Go and Python",
			keywords: []string{"Go"},
			expected: "Built services in **Go** and Python",
		},
		{
			name:     "substring left alone",
			input:    "Going forward with Go",
			keywords: []string{"Go"},
			expected: "Going forward with **Go**",
		},
		{
			name:     "case sensitive",
			input:    "go is not Go",
			keywords: []string{"Go"},
			expected: "go is not **Go**",
		},
		{
			name:     "multiple keywords and occurrences",
			input:    "Go and Rust, then Go again",
			keywords: []string{"Go", "Rust"},
			expected: "**Go** and **Rust**, then **Go** again",
		},
		{
			name:     "regex metacharacters treated literally",
			input:    "Worked on node.js tooling",
			keywords: []string{"node.js"},
			expected: "Worked on **node.js** tooling",
		},
		{
			name:     "empty keyword ignored",
			input:    "unchanged",
			keywords: []string{""},
			expected: "unchanged",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, boldString(tc.input, tc.keywords))
		})
	}
}

func TestBoldTreeRecursesAndKeepsNonStrings(t *testing.T) {
	tree := map[string]any{
		"company":    "Acme Go Shop",
		"start_date": 2020,
		"highlights": []any{"Shipped Go services", map[string]any{"note": "Go rocks"}, 42},
	}

	out := boldTree(tree, []string{"Go"}).(map[string]any)

	assert.Equal(t, "Acme **Go** Shop", out["company"])
	assert.Equal(t, 2020, out["start_date"])
	highlights := out["highlights"].([]any)
	assert.Equal(t, "Shipped **Go** services", highlights[0])
	assert.Equal(t, "**Go** rocks", highlights[1].(map[string]any)["note"])
	assert.Equal(t, 42, highlights[2])
}

func TestBoldSections(t *testing.T) {
	sections := []schema.Section{
		{
			Title: "Experience",
			Entries: []schema.Entry{
				{Kind: schema.NormalEntry, Fields: map[string]any{"name": "Kubernetes migration"}},
			},
		},
	}

	boldSections(sections, []string{"Kubernetes"})

	assert.Equal(t, "**Kubernetes** migration", sections[0].Entries[0].Fields["name"])
}
