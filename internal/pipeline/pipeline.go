// Package pipeline sequences the render stages of one run: validate,
// typeset, PDF, PNG, Markdown, HTML. The step count is computed from the
// skip flags before the first stage so progress reporting stays
// accurate, and each stage's artifacts are copied to the caller's
// destinations.
package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/cvforge/cvforge/internal/config"
	"github.com/cvforge/cvforge/internal/logging"
	"github.com/cvforge/cvforge/internal/printer"
	"github.com/cvforge/cvforge/internal/schema"
	"github.com/cvforge/cvforge/internal/theme"
)

// TypstRenderer produces the Typst source and its compiled artifacts.
type TypstRenderer interface {
	Typeset(doc *schema.Document, cfg *theme.Config, outDir string) (string, error)
	PDF(typPath string) (string, error)
	PNGs(typPath string) ([]string, error)
}

// MarkdownRenderer produces the Markdown artifact and its HTML form.
type MarkdownRenderer interface {
	Render(doc *schema.Document, outDir string) (string, error)
	HTML(mdPath string) (string, error)
}

// StageError is a fatal failure of one render stage. Remaining stages
// are skipped; there are no retries here, retries belong to the
// renderers themselves.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StepCount computes the pipeline's total step count from the skip
// flags. Skipping Markdown also skips HTML.
func StepCount(settings config.RenderSettings) int {
	steps := 6
	if settings.DontGeneratePNG {
		steps--
	}
	if settings.DontGenerateMarkdown {
		steps -= 2
	} else if settings.DontGenerateHTML {
		steps--
	}
	return steps
}

// Orchestrator drives the render stages.
type Orchestrator struct {
	Typst    TypstRenderer
	Markdown MarkdownRenderer
	Printer  *printer.Printer
	Log      logging.Logger
}

// New creates an Orchestrator over the given renderers.
func New(typst TypstRenderer, markdown MarkdownRenderer, pr *printer.Printer, log logging.Logger) *Orchestrator {
	return &Orchestrator{Typst: typst, Markdown: markdown, Printer: pr, Log: log.WithComponent("pipeline")}
}

// Run executes the pipeline for one assembled input. Output artifacts
// land in workDir/<output_folder_name>; validation failures are returned
// as a *schema.ValidationError for the caller to normalize and print.
func (o *Orchestrator) Run(input *config.Input, workDir string) error {
	settings := config.SettingsFromTree(input.Tree)
	progress := o.Printer.NewProgress(StepCount(settings))
	outDir := filepath.Join(workDir, settings.OutputFolderName)

	progress.StartStep("Validating the input file")
	doc, err := schema.Validate(input.Tree, schema.Context{
		InputDir:     input.Dir,
		SectionOrder: input.SectionOrder,
		ResolveDesign: func(design any, dir string) (any, error) {
			cfg, err := theme.Resolve(design, theme.Options{
				InputDir:   dir,
				EntryKinds: schema.EntryKinds(),
			})
			if err != nil {
				return nil, err
			}
			return cfg, nil
		},
	})
	if err != nil {
		return err
	}
	themeConfig, ok := doc.Design.(*theme.Config)
	if !ok {
		themeConfig = &theme.Config{Theme: "classic", Options: map[string]any{}}
	}
	if len(settings.BoldKeywords) > 0 {
		boldSections(doc.CV.Sections, settings.BoldKeywords)
	}
	progress.FinishStep()

	progress.StartStep("Generating the Typst file")
	typPath, err := o.Typst.Typeset(doc, themeConfig, outDir)
	if err != nil {
		return &StageError{Stage: "typeset", Err: err}
	}
	if err := copyArtifacts([]string{typPath}, settings.TypstPath); err != nil {
		return &StageError{Stage: "typeset", Err: err}
	}
	progress.FinishStep()

	progress.StartStep("Rendering the Typst file to a PDF")
	pdfPath, err := o.Typst.PDF(typPath)
	if err != nil {
		return &StageError{Stage: "pdf", Err: err}
	}
	if err := copyArtifacts([]string{pdfPath}, settings.PDFPath); err != nil {
		return &StageError{Stage: "pdf", Err: err}
	}
	progress.FinishStep()

	if !settings.DontGeneratePNG {
		progress.StartStep("Rendering PNG files from the PDF")
		pngPaths, err := o.Typst.PNGs(typPath)
		if err != nil {
			return &StageError{Stage: "png", Err: err}
		}
		if err := copyArtifacts(pngPaths, settings.PNGPath); err != nil {
			return &StageError{Stage: "png", Err: err}
		}
		progress.FinishStep()
	}

	if settings.DontGenerateMarkdown {
		return nil
	}

	progress.StartStep("Generating the Markdown file")
	mdPath, err := o.Markdown.Render(doc, outDir)
	if err != nil {
		return &StageError{Stage: "markdown", Err: err}
	}
	if err := copyArtifacts([]string{mdPath}, settings.MarkdownPath); err != nil {
		return &StageError{Stage: "markdown", Err: err}
	}
	progress.FinishStep()

	if settings.DontGenerateHTML {
		return nil
	}

	progress.StartStep("Rendering the Markdown file to HTML")
	htmlPath, err := o.Markdown.HTML(mdPath)
	if err != nil {
		return &StageError{Stage: "html", Err: err}
	}
	if err := copyArtifacts([]string{htmlPath}, settings.HTMLPath); err != nil {
		return &StageError{Stage: "html", Err: err}
	}
	progress.FinishStep()

	return nil
}
