package pipeline

import (
	"regexp"

	"github.com/cvforge/cvforge/internal/schema"
)

// boldSections wraps every whole-word, case-sensitive occurrence of
// each keyword in emphasis markup across the sections' string leaves.
func boldSections(sections []schema.Section, keywords []string) {
	for i := range sections {
		for j := range sections[i].Entries {
			sections[i].Entries[j].Fields = boldTree(sections[i].Entries[j].Fields, keywords).(map[string]any)
		}
	}
}

// boldTree recursively rewrites string leaves of a mapping/sequence
// tree; non-string leaves pass through untouched.
func boldTree(value any, keywords []string) any {
	switch v := value.(type) {
	case string:
		return boldString(v, keywords)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = boldTree(child, keywords)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = boldTree(child, keywords)
		}
		return out
	default:
		return value
	}
}

func boldString(s string, keywords []string) string {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		if err != nil {
			continue
		}
		s = pattern.ReplaceAllString(s, "**"+keyword+"**")
	}
	return s
}
