package config

// RenderSettings is the recognized configuration surface of the render
// pipeline, read from the input file's settings.render_command field
// after CLI flags have been merged into it.
type RenderSettings struct {
	OutputFolderName string

	// Destination lists; each produced artifact is copied to every
	// configured destination of its kind.
	TypstPath    []string
	PDFPath      []string
	PNGPath      []string
	MarkdownPath []string
	HTMLPath     []string

	DontGeneratePNG      bool
	DontGenerateMarkdown bool
	DontGenerateHTML     bool

	BoldKeywords []string
}

// DefaultRenderSettings returns the settings of a plain render run.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{OutputFolderName: "cvforge_output"}
}

// SettingsFromTree extracts render settings from a configuration tree.
// Unknown or mistyped values fall back to defaults; the schema validator
// reports them separately.
func SettingsFromTree(tree map[string]any) RenderSettings {
	settings := DefaultRenderSettings()

	root, _ := tree["settings"].(map[string]any)
	if root == nil {
		return settings
	}
	if keywords, ok := root["bold_keywords"].([]any); ok {
		settings.BoldKeywords = stringList(keywords)
	}
	command, _ := root["render_command"].(map[string]any)
	if command == nil {
		return settings
	}

	if name, ok := command["output_folder_name"].(string); ok && name != "" {
		settings.OutputFolderName = name
	}
	settings.TypstPath = pathList(command["typst_path"])
	settings.PDFPath = pathList(command["pdf_path"])
	settings.PNGPath = pathList(command["png_path"])
	settings.MarkdownPath = pathList(command["markdown_path"])
	settings.HTMLPath = pathList(command["html_path"])
	settings.DontGeneratePNG, _ = command["dont_generate_png"].(bool)
	settings.DontGenerateMarkdown, _ = command["dont_generate_markdown"].(bool)
	settings.DontGenerateHTML, _ = command["dont_generate_html"].(bool)

	return settings
}

// MergeRenderOptions writes CLI-provided render options into the tree's
// settings.render_command field. Explicitly changed options always win;
// unchanged options are written only when the input file does not set
// them, so file values survive defaults.
func MergeRenderOptions(tree map[string]any, changed map[string]any, defaults map[string]any) map[string]any {
	root, _ := tree["settings"].(map[string]any)
	if root == nil {
		root = map[string]any{}
	}
	command, _ := root["render_command"].(map[string]any)
	if command == nil {
		command = map[string]any{}
	}

	for key, value := range changed {
		command[key] = value
	}
	for key, value := range defaults {
		if _, ok := command[key]; !ok {
			command[key] = value
		}
	}

	root["render_command"] = command
	tree["settings"] = root
	return tree
}

func pathList(raw any) []string {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		return stringList(v)
	default:
		return nil
	}
}

func stringList(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
