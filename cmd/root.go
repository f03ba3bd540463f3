// Package cmd provides the cvforge command-line interface.
//
// The render command reads a YAML input file describing a CV, lets the
// caller override arbitrary fields with `--dotted.path value` pairs,
// and drives the render pipeline producing Typst, PDF, PNG, Markdown,
// and HTML artifacts. Configuration precedence, highest first:
//
//  1. Explicitly set command-line flags (--output-folder-name, ...),
//     for the render settings they map to
//  2. Dotted-path override pairs after the input file
//  3. Separate per-field files (--design, --locale, --settings)
//  4. The input file itself
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cvforge/cvforge/internal/logging"
	"github.com/cvforge/cvforge/internal/printer"
)

var rootCmd = &cobra.Command{
	Use:   "cvforge",
	Short: "Render a CV from a YAML description",
	Long: `cvforge renders a YAML description of a CV into Typst, PDF, PNG,
Markdown, and HTML artifacts, with built-in and custom visual themes.

Quick Start:
  cvforge new "Your Name"         Create a starter input file
  cvforge render Your_Name_CV.yaml
  cvforge render Your_Name_CV.yaml --watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func newLogger() logging.Logger {
	level := viper.GetString("log-level")
	if level == "" {
		level = "info"
	}
	return logging.New(rootCmd.ErrOrStderr(), level)
}

func newPrinter() *printer.Printer {
	return printer.New(rootCmd.OutOrStdout())
}
