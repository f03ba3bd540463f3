// Package renderer produces the render pipeline's artifacts: the Typst
// source, the PDF and PNGs compiled from it, and the Markdown/HTML pair.
package renderer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/cvforge/cvforge/internal/logging"
	"github.com/cvforge/cvforge/internal/schema"
	"github.com/cvforge/cvforge/internal/theme"
)

// Typst renders Typst sources from a validated document and compiles
// them with the typst binary.
type Typst struct {
	// Binary is the typst executable; defaults to "typst" on PATH.
	Binary string
	Log    logging.Logger
}

// NewTypst creates a Typst renderer.
func NewTypst(log logging.Logger) *Typst {
	return &Typst{Binary: "typst", Log: log.WithComponent("typst")}
}

// templateData is the root object theme templates render against.
type templateData struct {
	CV      schema.CurriculumVitae
	Theme   string
	Options map[string]any
}

type sectionData struct {
	templateData
	Section schema.Section
}

type entryData struct {
	templateData
	Section schema.Section
	Entry   schema.Entry
}

// Typeset renders the document into <name>_CV.typ inside outDir using
// the resolved theme's templates.
func (t *Typst) Typeset(doc *schema.Document, cfg *theme.Config, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}

	templates, err := t.loadTemplates(cfg)
	if err != nil {
		return "", err
	}

	// Custom themes may reference images and fonts relative to their
	// folder; typst compile runs in outDir, so those files move with the
	// generated source.
	if cfg.Custom {
		if err := copyThemeAssets(cfg.TemplateDir, outDir); err != nil {
			return "", err
		}
	}

	data := templateData{CV: doc.CV, Theme: cfg.Theme, Options: cfg.Options}

	var out strings.Builder
	if err := execTemplate(&out, templates, "Preamble", data); err != nil {
		return "", err
	}
	if err := execTemplate(&out, templates, "Header", data); err != nil {
		return "", err
	}
	for _, section := range doc.CV.Sections {
		sData := sectionData{templateData: data, Section: section}
		if err := execTemplate(&out, templates, "SectionBeginning", sData); err != nil {
			return "", err
		}
		for _, entry := range section.Entries {
			eData := entryData{templateData: data, Section: section, Entry: entry}
			if err := execTemplate(&out, templates, string(entry.Kind), eData); err != nil {
				return "", err
			}
		}
		if err := execTemplate(&out, templates, "SectionEnding", sData); err != nil {
			return "", err
		}
	}

	path := filepath.Join(outDir, outputStem(doc)+".typ")
	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	t.Log.Info("typst file generated", "path", path)
	return path, nil
}

// PDF compiles a Typst file to a PDF next to it.
func (t *Typst) PDF(typPath string) (string, error) {
	pdfPath := strings.TrimSuffix(typPath, ".typ") + ".pdf"
	if err := t.compile(typPath, pdfPath); err != nil {
		return "", err
	}
	t.Log.Info("pdf generated", "path", pdfPath)
	return pdfPath, nil
}

// PNGs compiles a Typst file to one PNG per page, returned in page
// order.
func (t *Typst) PNGs(typPath string) ([]string, error) {
	stem := strings.TrimSuffix(typPath, ".typ")
	// Typst expands {p} to the page number.
	pattern := stem + "_{p}.png"
	if err := t.compile(typPath, pattern); err != nil {
		return nil, err
	}
	pages, err := filepath.Glob(stem + "_*.png")
	if err != nil {
		return nil, err
	}
	sort.Strings(pages)
	t.Log.Info("png files generated", "count", len(pages))
	return pages, nil
}

func (t *Typst) compile(input, output string) error {
	binary := t.Binary
	if binary == "" {
		binary = "typst"
	}
	cmd := exec.Command(binary, "compile", input, output)
	cmd.Dir = filepath.Dir(input)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("typst compile failed: %w\n%s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// loadTemplates parses the theme's template set: files from the custom
// theme folder, or the embedded built-in set.
func (t *Typst) loadTemplates(cfg *theme.Config) (*template.Template, error) {
	root := template.New("theme").Delims("<<", ">>").Funcs(templateFuncs)

	if !cfg.Custom {
		for name, text := range builtinTemplates {
			if _, err := root.New(name).Parse(text); err != nil {
				return nil, fmt.Errorf("parsing built-in template %s: %w", name, err)
			}
		}
		return root, nil
	}

	names := theme.RequiredTemplates(schema.EntryKinds())
	for _, file := range names {
		raw, err := os.ReadFile(filepath.Join(cfg.TemplateDir, file))
		if err != nil {
			return nil, fmt.Errorf("reading theme template %s: %w", file, err)
		}
		name := strings.TrimSuffix(file, theme.TemplateSuffix)
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return nil, fmt.Errorf("parsing theme template %s: %w", file, err)
		}
	}
	return root, nil
}

// copyThemeAssets copies a custom theme folder's non-template files
// into outDir, preserving the folder layout. Templates and the schema
// plugin stay behind.
func copyThemeAssets(themeDir, outDir string) error {
	return filepath.WalkDir(themeDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, theme.TemplateSuffix) || name == theme.PluginFileName {
			return nil
		}
		rel, err := filepath.Rel(themeDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("copying theme file %s: %w", rel, err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("copying theme file %s: %w", rel, err)
		}
		if err := os.WriteFile(dst, raw, 0o644); err != nil {
			return fmt.Errorf("copying theme file %s: %w", rel, err)
		}
		return nil
	})
}

func execTemplate(out *strings.Builder, root *template.Template, name string, data any) error {
	tmpl := root.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("theme template %s is not defined", name)
	}
	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("rendering template %s: %w", name, err)
	}
	return nil
}

// outputStem derives the artifact base name from the CV owner's name.
func outputStem(doc *schema.Document) string {
	name := strings.TrimSpace(doc.CV.Name)
	if name == "" {
		name = "CV"
		return name
	}
	return strings.ReplaceAll(name, " ", "_") + "_CV"
}
