package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cvforge/cvforge/internal/schema"
)

// TemplateSuffix is the file suffix of theme template files.
const TemplateSuffix = ".j2.typ"

// baseTemplates are the templates every theme must provide, in addition
// to one template per entry kind.
var baseTemplates = []string{"SectionBeginning", "SectionEnding", "Preamble", "Header"}

// Options carries the surroundings of one resolution. InputDir is the
// input file's directory; custom theme folders live next to the input
// file, never in the process working directory.
type Options struct {
	InputDir   string
	EntryKinds []string
}

// RequiredTemplates lists the template file names a theme folder must
// contain for the given entry kinds.
func RequiredTemplates(entryKinds []string) []string {
	names := make([]string, 0, len(baseTemplates)+len(entryKinds))
	for _, name := range baseTemplates {
		names = append(names, name+TemplateSuffix)
	}
	for _, kind := range entryKinds {
		names = append(names, kind+TemplateSuffix)
	}
	return names
}

// Resolve turns a raw design mapping into a theme Config. Already
// resolved configs pass through unchanged. Built-in failures return a
// *schema.ValidationError, everything else a *schema.FieldError; both
// shapes flow through the diagnostics normalizer.
func Resolve(design any, opts Options) (*Config, error) {
	if resolved, ok := design.(*Config); ok {
		return resolved, nil
	}

	mapping, ok := design.(map[string]any)
	if !ok {
		return nil, &schema.FieldError{
			Message: "The design field should be a mapping with a `theme` field.",
			Loc:     "",
			Value:   fmt.Sprintf("%v", design),
		}
	}

	name, _ := mapping["theme"].(string)
	if name == "" {
		return nil, &schema.FieldError{
			Message: "The `theme` field is required and should be a theme name.",
			Loc:     "theme",
			Value:   "",
		}
	}

	if builtin, ok := builtinSchemas[name]; ok {
		return validateBuiltin(mapping, builtin)
	}

	return resolveCustom(name, mapping, opts)
}

func resolveCustom(name string, design map[string]any, opts Options) (*Config, error) {
	if !schema.ThemeNamePattern(name) {
		return nil, &schema.FieldError{
			Message: "The custom theme name should only contain letters and digits.",
			Loc:     "theme",
			Value:   name,
		}
	}

	folder := filepath.Join(opts.InputDir, name)
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		return nil, &schema.FieldError{
			Message: fmt.Sprintf(
				"The custom theme folder `%s` does not exist. It should be in the same directory as the input file.",
				folder,
			),
			Loc:   "",
			Value: name,
		}
	}

	for _, file := range RequiredTemplates(opts.EntryKinds) {
		if _, err := os.Stat(filepath.Join(folder, file)); err != nil {
			return nil, &schema.FieldError{
				Message: fmt.Sprintf(
					"You provided a custom theme, but the file `%s` is not found in the folder `%s`.",
					file, folder,
				),
				Loc:   "",
				Value: name,
			}
		}
	}

	pluginSchema, err := loadPluginSchema(folder, name)
	if err != nil {
		return nil, err
	}

	if pluginSchema == nil {
		// No schema plugin: only the theme field itself is accepted.
		pluginSchema = map[string]any{"theme": name}
	}

	var failures []schema.RawFailure
	options := make(map[string]any, len(design))
	for key, value := range design {
		if key == "theme" {
			continue
		}
		if _, ok := pluginSchema[key]; !ok {
			failures = append(failures, schema.RawFailure{
				Loc: []string{key}, Msg: "Extra inputs are not permitted", Input: value,
			})
			continue
		}
		options[key] = value
	}
	if len(failures) > 0 {
		return nil, &schema.ValidationError{Failures: failures}
	}

	// Schema defaults fill options the design mapping leaves unset.
	for key, value := range pluginSchema {
		if key == "theme" {
			continue
		}
		if _, ok := options[key]; !ok {
			options[key] = value
		}
	}

	return &Config{
		Theme:       name,
		Options:     options,
		Custom:      true,
		TemplateDir: folder,
	}, nil
}
