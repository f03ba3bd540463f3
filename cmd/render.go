package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cvforge/cvforge/internal/config"
	"github.com/cvforge/cvforge/internal/diagnostics"
	"github.com/cvforge/cvforge/internal/pipeline"
	"github.com/cvforge/cvforge/internal/renderer"
	"github.com/cvforge/cvforge/internal/schema"
	"github.com/cvforge/cvforge/internal/version"
	"github.com/cvforge/cvforge/internal/watcher"
)

type renderFlags struct {
	design   string
	locale   string
	settings string

	outputFolderName string
	typstPath        []string
	pdfPath          []string
	pngPath          []string
	markdownPath     []string
	htmlPath         []string

	dontGeneratePNG      bool
	dontGenerateMarkdown bool
	dontGenerateHTML     bool

	watch bool
}

func init() {
	flags := &renderFlags{}

	renderCmd := &cobra.Command{
		Use:   "render input.yaml [--dotted.path value ...]",
		Short: "Render a CV input file",
		Long: `Render a CV input file into the configured artifacts.

Any token pair after the input file overrides a field of the input by
dotted path, e.g.:

  cvforge render CV.yaml --cv.phone "+90 541 999 99 99"
  cvforge render CV.yaml --design.theme moderncv
  cvforge render CV.yaml --cv.sections.education.0.institution "Bogazici University"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	// Flags must precede the input file; everything after it is treated
	// as dotted-path override pairs.
	renderCmd.Flags().SetInterspersed(false)

	renderCmd.Flags().StringVar(&flags.design, "design", "", "YAML file overriding the `design` field")
	renderCmd.Flags().StringVar(&flags.locale, "locale", "", "YAML file overriding the `locale` field")
	renderCmd.Flags().StringVar(&flags.settings, "settings", "", "YAML file overriding the `settings` field")
	renderCmd.Flags().StringVar(&flags.outputFolderName, "output-folder-name", "cvforge_output", "name of the output folder")
	renderCmd.Flags().StringArrayVar(&flags.typstPath, "typst-path", nil, "copy the Typst file to this path (repeatable)")
	renderCmd.Flags().StringArrayVar(&flags.pdfPath, "pdf-path", nil, "copy the PDF file to this path (repeatable)")
	renderCmd.Flags().StringArrayVar(&flags.pngPath, "png-path", nil, "copy the PNG files to this path (repeatable)")
	renderCmd.Flags().StringArrayVar(&flags.markdownPath, "markdown-path", nil, "copy the Markdown file to this path (repeatable)")
	renderCmd.Flags().StringArrayVar(&flags.htmlPath, "html-path", nil, "copy the HTML file to this path (repeatable)")
	renderCmd.Flags().BoolVar(&flags.dontGeneratePNG, "dont-generate-png", false, "skip PNG generation")
	renderCmd.Flags().BoolVar(&flags.dontGenerateMarkdown, "dont-generate-markdown", false, "skip Markdown and HTML generation")
	renderCmd.Flags().BoolVar(&flags.dontGenerateHTML, "dont-generate-html", false, "skip HTML generation")
	renderCmd.Flags().BoolVar(&flags.watch, "watch", false, "watch the input file and re-render on change")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	inputPath := args[0]
	log := newLogger()
	pr := newPrinter()

	overrides, err := config.ParseOverridePairs(args[1:])
	if err != nil {
		return err
	}

	fieldFiles := map[string]string{}
	for field, file := range map[string]string{
		"design":   flags.design,
		"locale":   flags.locale,
		"settings": flags.settings,
	} {
		if file != "" {
			fieldFiles[field] = file
		}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	if latest := version.CheckLatest(2 * time.Second); latest != "" && latest != version.Get() {
		pr.Warning("A new version of cvforge is available: %s (you have %s)", latest, version.Get())
	}

	orchestrator := pipeline.New(renderer.NewTypst(log), renderer.NewMarkdown(log), pr, log)

	rerun := func() error {
		input, err := config.ReadInput(inputPath, fieldFiles, overrides)
		if err != nil {
			return err
		}
		input.Tree = config.MergeRenderOptions(input.Tree, changedRenderOptions(cmd.Flags(), flags), defaultRenderOptions())

		err = orchestrator.Run(input, workDir)
		var validationErr *schema.ValidationError
		if errors.As(err, &validationErr) {
			pr.Diagnostics(diagnostics.Normalize(validationErr.Failures))
			return fmt.Errorf("the input file is not valid")
		}
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			pr.Error("The %s stage failed: %v", stageErr.Stage, stageErr.Err)
			return err
		}
		return err
	}

	if !flags.watch {
		return rerun()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watcher.New(log).Watch(ctx, inputPath, rerun)
}

// changedRenderOptions collects the render options the caller set
// explicitly; they override whatever the input file says.
func changedRenderOptions(fs *pflag.FlagSet, flags *renderFlags) map[string]any {
	changed := map[string]any{}
	set := func(name string, value any) {
		if fs.Changed(name) {
			changed[settingsKey(name)] = value
		}
	}
	set("output-folder-name", flags.outputFolderName)
	set("typst-path", stringsToAny(flags.typstPath))
	set("pdf-path", stringsToAny(flags.pdfPath))
	set("png-path", stringsToAny(flags.pngPath))
	set("markdown-path", stringsToAny(flags.markdownPath))
	set("html-path", stringsToAny(flags.htmlPath))
	set("dont-generate-png", flags.dontGeneratePNG)
	set("dont-generate-markdown", flags.dontGenerateMarkdown)
	set("dont-generate-html", flags.dontGenerateHTML)
	return changed
}

// defaultRenderOptions fills render options the input file does not set.
func defaultRenderOptions() map[string]any {
	return map[string]any{
		"output_folder_name":     "cvforge_output",
		"dont_generate_png":      false,
		"dont_generate_markdown": false,
		"dont_generate_html":     false,
	}
}

func settingsKey(flagName string) string {
	switch flagName {
	case "output-folder-name":
		return "output_folder_name"
	case "typst-path":
		return "typst_path"
	case "pdf-path":
		return "pdf_path"
	case "png-path":
		return "png_path"
	case "markdown-path":
		return "markdown_path"
	case "html-path":
		return "html_path"
	case "dont-generate-png":
		return "dont_generate_png"
	case "dont-generate-markdown":
		return "dont_generate_markdown"
	case "dont-generate-html":
		return "dont_generate_html"
	}
	return flagName
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
