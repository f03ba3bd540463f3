package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFromTreeDefaults(t *testing.T) {
	settings := SettingsFromTree(map[string]any{})

	assert.Equal(t, "cvforge_output", settings.OutputFolderName)
	assert.False(t, settings.DontGeneratePNG)
	assert.False(t, settings.DontGenerateMarkdown)
	assert.False(t, settings.DontGenerateHTML)
	assert.Empty(t, settings.PDFPath)
}

func TestSettingsFromTree(t *testing.T) {
	tree := map[string]any{
		"settings": map[string]any{
			"bold_keywords": []any{"Go", "Typst"},
			"render_command": map[string]any{
				"output_folder_name":     "out",
				"pdf_path":               "final.pdf",
				"png_path":               []any{"a.png", "b.png"},
				"dont_generate_png":      true,
				"dont_generate_markdown": false,
				"dont_generate_html":     true,
			},
		},
	}

	settings := SettingsFromTree(tree)

	assert.Equal(t, "out", settings.OutputFolderName)
	assert.Equal(t, []string{"final.pdf"}, settings.PDFPath)
	assert.Equal(t, []string{"a.png", "b.png"}, settings.PNGPath)
	assert.True(t, settings.DontGeneratePNG)
	assert.False(t, settings.DontGenerateMarkdown)
	assert.True(t, settings.DontGenerateHTML)
	assert.Equal(t, []string{"Go", "Typst"}, settings.BoldKeywords)
}

func TestMergeRenderOptionsPrecedence(t *testing.T) {
	tree := map[string]any{
		"settings": map[string]any{
			"render_command": map[string]any{
				"output_folder_name": "from_file",
				"dont_generate_png":  true,
			},
		},
	}

	merged := MergeRenderOptions(tree,
		map[string]any{"dont_generate_html": true},
		map[string]any{"output_folder_name": "default", "dont_generate_png": false, "dont_generate_html": false},
	)

	command := merged["settings"].(map[string]any)["render_command"].(map[string]any)
	// Explicitly changed flags always win.
	assert.Equal(t, true, command["dont_generate_html"])
	// File values survive unchanged defaults.
	assert.Equal(t, "from_file", command["output_folder_name"])
	assert.Equal(t, true, command["dont_generate_png"])
}

func TestMergeRenderOptionsCreatesSettings(t *testing.T) {
	merged := MergeRenderOptions(map[string]any{}, nil, map[string]any{"output_folder_name": "cvforge_output"})

	command := merged["settings"].(map[string]any)["render_command"].(map[string]any)
	assert.Equal(t, "cvforge_output", command["output_folder_name"])
}
