package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cvforge/cvforge/internal/schema"
)

// PluginFileName is the optional schema-definition file of a custom
// theme folder.
const PluginFileName = "theme.go"

// loadPluginSchema interprets the custom theme's optional theme.go and
// calls its option-schema function, named `<Themename>ThemeOptions` by
// convention. The function returns the accepted option keys with their
// default values, `theme` included. A missing plugin file returns
// (nil, nil).
//
// The interpreter is restricted to stdlib symbols; plugin code cannot
// reach into the host process.
func loadPluginSchema(folder, name string) (map[string]any, error) {
	path := filepath.Join(folder, PluginFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, pluginError(name, fmt.Sprintf("the custom theme %s's theme.go could not be loaded: %v", name, err))
	}

	if _, err := i.EvalPath(path); err != nil {
		message := fmt.Sprintf("The custom theme %s's theme.go file has a syntax error. Please fix it: %v", name, err)
		if strings.Contains(err.Error(), "import") || strings.Contains(err.Error(), "unable to find source") {
			message = fmt.Sprintf(
				"The custom theme %s's theme.go file has an import error. If you have copy-pasted a"+
					" built-in theme, make sure to update the import statements: %v",
				name, err,
			)
		}
		return nil, pluginError(name, message)
	}

	symbol := cases.Title(language.English).String(name) + "ThemeOptions"
	value, err := i.Eval(symbol)
	if err != nil {
		return nil, pluginError(name, fmt.Sprintf(
			"the custom theme %s's theme.go file must define %s() map[string]any: %v", name, symbol, err,
		))
	}

	fn, ok := value.Interface().(func() map[string]any)
	if !ok {
		return nil, pluginError(name, fmt.Sprintf(
			"%s in the custom theme %s's theme.go must be a func() map[string]any", symbol, name,
		))
	}

	return fn(), nil
}

func pluginError(name, message string) *schema.FieldError {
	return &schema.FieldError{Message: message, Loc: "", Value: name}
}
