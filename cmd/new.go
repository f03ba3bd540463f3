package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cvforge/cvforge/internal/renderer"
	"github.com/cvforge/cvforge/internal/theme"
)

func init() {
	var themeName string

	newCmd := &cobra.Command{
		Use:   `new "Full Name"`,
		Short: "Create a starter input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(args[0], themeName)
		},
	}

	newCmd.Flags().StringVar(&themeName, "theme", "classic",
		fmt.Sprintf("built-in theme of the starter file (%s)", strings.Join(theme.BuiltinThemes(), ", ")))
	rootCmd.AddCommand(newCmd)
}

func runNew(fullName, themeName string) error {
	if !theme.IsBuiltin(themeName) {
		return fmt.Errorf("%q is not a built-in theme; available themes: %s",
			themeName, strings.Join(theme.BuiltinThemes(), ", "))
	}

	path := strings.ReplaceAll(fullName, " ", "_") + "_CV.yaml"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	starter := map[string]any{
		"cv": map[string]any{
			"name":     fullName,
			"email":    "you@example.com",
			"sections": map[string]any{
				"welcome": []any{
					"This is a starter CV file. Edit it and run `cvforge render " + path + "`.",
				},
			},
		},
		"design": map[string]any{"theme": themeName},
	}

	out, err := yaml.Marshal(starter)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}

	// The theme's template sources land next to the input file so they
	// can be edited into a custom theme.
	if err := renderer.WriteBuiltinTemplates(themeName); err != nil {
		return err
	}

	pr := newPrinter()
	pr.Information("The input file %s has been created.", path)
	pr.Information("The theme templates have been copied into the %s folder.", themeName)
	return nil
}
