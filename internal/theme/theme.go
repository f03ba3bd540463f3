// Package theme resolves the polymorphic `design` field of an input
// file: a discriminator field selects one of the built-in theme schemas,
// and anything else is treated as a custom theme backed by template
// files on disk, optionally with a dynamically loaded option schema.
package theme

import (
	"fmt"

	"github.com/cvforge/cvforge/internal/schema"
)

// Config is a resolved theme configuration.
type Config struct {
	Theme   string
	Options map[string]any

	// Custom themes carry the absolute path of their template folder;
	// built-in themes render from embedded templates.
	Custom      bool
	TemplateDir string
}

// optionKind types a theme option for validation.
type optionKind int

const (
	optionString optionKind = iota
	optionBool
)

// Schema describes the options one built-in theme accepts.
type Schema struct {
	Name    string
	Options map[string]optionKind
}

var commonOptions = map[string]optionKind{
	"font_family":               optionString,
	"font_size":                 optionString,
	"page_size":                 optionString,
	"color":                     optionString,
	"text_alignment":            optionString,
	"disable_page_numbering":    optionBool,
	"disable_last_updated_date": optionBool,
}

// builtinSchemas is the closed registry of built-in themes, keyed by the
// discriminator value.
var builtinSchemas = map[string]Schema{
	"classic":            {Name: "classic", Options: withOptions(nil)},
	"moderncv":           {Name: "moderncv", Options: withOptions(map[string]optionKind{"date_width": optionString})},
	"sb2nov":             {Name: "sb2nov", Options: withOptions(nil)},
	"engineeringresumes": {Name: "engineeringresumes", Options: withOptions(map[string]optionKind{"header_font_size": optionString})},
}

func withOptions(extra map[string]optionKind) map[string]optionKind {
	out := make(map[string]optionKind, len(commonOptions)+len(extra))
	for k, v := range commonOptions {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// BuiltinThemes lists the built-in theme names.
func BuiltinThemes() []string {
	return []string{"classic", "moderncv", "sb2nov", "engineeringresumes"}
}

// IsBuiltin reports whether name is a built-in theme.
func IsBuiltin(name string) bool {
	_, ok := builtinSchemas[name]
	return ok
}

// validateBuiltin checks a design mapping against one built-in schema.
func validateBuiltin(design map[string]any, s Schema) (*Config, error) {
	var failures []schema.RawFailure
	options := make(map[string]any, len(design))
	for key, value := range design {
		if key == "theme" {
			continue
		}
		kind, ok := s.Options[key]
		if !ok {
			failures = append(failures, schema.RawFailure{
				Loc: []string{key}, Msg: "Extra inputs are not permitted", Input: value,
			})
			continue
		}
		switch kind {
		case optionString:
			if _, ok := value.(string); !ok {
				failures = append(failures, schema.RawFailure{
					Loc: []string{key}, Msg: "Input should be a valid string", Input: value,
				})
				continue
			}
		case optionBool:
			if _, ok := value.(bool); !ok {
				failures = append(failures, schema.RawFailure{
					Loc: []string{key}, Msg: fmt.Sprintf("Input should be a valid boolean, got %T", value), Input: value,
				})
				continue
			}
		}
		options[key] = value
	}
	if len(failures) > 0 {
		return nil, &schema.ValidationError{Failures: failures}
	}
	return &Config{Theme: s.Name, Options: options}, nil
}
