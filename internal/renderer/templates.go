package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cvforge/cvforge/internal/theme"
)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"option": func(options map[string]any, key, fallback string) string {
		if v, ok := options[key].(string); ok && v != "" {
			return v
		}
		return fallback
	},
	"escape": escapeTypst,
}

// escapeTypst escapes characters Typst treats as markup in plain text.
func escapeTypst(s string) string {
	replacer := strings.NewReplacer(
		"#", "\\#",
		"$", "\\$",
		"@", "\\@",
		"<", "\\<",
		">", "\\>",
	)
	return replacer.Replace(s)
}

// WriteBuiltinTemplates writes the built-in template set into dir, one
// file per template, as a starting point for a custom theme. An
// existing dir is left untouched.
func WriteBuiltinTemplates(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating theme folder %s: %w", dir, err)
	}
	for name, text := range builtinTemplates {
		path := filepath.Join(dir, name+theme.TemplateSuffix)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing theme template %s: %w", path, err)
		}
	}
	return nil
}

// builtinTemplates is the template set shared by the built-in themes.
// Theme-specific appearance comes from the options passed in (font,
// color, page size); the structure is common. Custom themes replace the
// whole set with files from their folder.
var builtinTemplates = map[string]string{
	"Preamble": `#set page(paper: "<< option .Options "page_size" "a4" >>", margin: 2cm)
#set text(font: "<< option .Options "font_family" "New Computer Modern" >>", size: << option .Options "font_size" "10pt" >>)
#let accent = rgb("<< option .Options "color" "#004f90" >>")
#show heading: set text(fill: accent)
`,
	"Header": `#align(center)[
  #text(size: 24pt, weight: "bold")[<< escape .CV.Name >>]
  << if .CV.Location >>\ << escape .CV.Location >><< end >>
  << if .CV.Email >>\ #link("mailto:<< .CV.Email >>")[<< .CV.Email >>]<< end >>
  << if .CV.Phone >>\ << escape .CV.Phone >><< end >>
  << if .CV.Website >>\ #link("<< .CV.Website >>")<< end >>
]
`,
	"SectionBeginning": `== << escape .Section.Title >>
`,
	"SectionEnding": `
`,
	"EducationEntry": `*<< escape (.Entry.Text "institution") >>*, << escape (.Entry.Text "area") >><< if .Entry.Text "degree" >> (<< escape (.Entry.Text "degree") >>)<< end >> #h(1fr) << escape (.Entry.Text "start_date") >><< if .Entry.Text "end_date" >> -- << escape (.Entry.Text "end_date") >><< end >>
<< range .Entry.Highlights >>- << escape . >>
<< end >>`,
	"ExperienceEntry": `*<< escape (.Entry.Text "company") >>*, << escape (.Entry.Text "position") >> #h(1fr) << escape (.Entry.Text "start_date") >><< if .Entry.Text "end_date" >> -- << escape (.Entry.Text "end_date") >><< end >>
<< range .Entry.Highlights >>- << escape . >>
<< end >>`,
	"PublicationEntry": `*<< escape (.Entry.Text "title") >>* #h(1fr) << escape (.Entry.Text "date") >>
<< if .Entry.Text "doi" >>#link("https://doi.org/<< .Entry.Text "doi" >>")[<< .Entry.Text "doi" >>]
<< end >>`,
	"NormalEntry": `*<< escape (.Entry.Text "name") >>*<< if .Entry.Text "summary" >> -- << escape (.Entry.Text "summary") >><< end >>
<< range .Entry.Highlights >>- << escape . >>
<< end >>`,
	"OneLineEntry": `*<< escape (.Entry.Text "label") >>:* << escape (.Entry.Text "details") >>
`,
	"BulletEntry": `- << escape (.Entry.Text "bullet") >>
`,
	"TextEntry": `<< escape (.Entry.Text "text") >>
`,
}
