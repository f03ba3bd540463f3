//go:build property
// +build property

package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestOverrideProperties checks the algebraic laws of override
// application.
func TestOverrideProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	segmentGen := gen.RegexMatch(`[a-z][a-z_]{0,8}`)
	pathGen := gen.SliceOfN(3, segmentGen).Map(func(segments []string) string {
		return strings.Join(segments, ".")
	})
	valueGen := gen.RegexMatch(`[a-zA-Z0-9 ]{1,16}`)

	properties.Property("overwrite is idempotent", prop.ForAll(
		func(path, v1, v2 string) bool {
			once, err := Apply(map[string]any{}, path, v2)
			if err != nil {
				return false
			}
			intermediate, err := Apply(map[string]any{}, path, v1)
			if err != nil {
				return false
			}
			twice, err := Apply(intermediate, path, v2)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(once, twice)
		},
		pathGen, valueGen, valueGen,
	))

	properties.Property("intermediate containers are mappings", prop.ForAll(
		func(path, value string) bool {
			updated, err := Apply(map[string]any{}, path, value)
			if err != nil {
				return false
			}
			segments := strings.Split(path, ".")
			var current any = updated
			for _, segment := range segments[:len(segments)-1] {
				m, ok := current.(map[string]any)
				if !ok {
					return false
				}
				current = m[segment]
			}
			return true
		},
		pathGen, valueGen,
	))

	properties.Property("siblings survive overrides", prop.ForAll(
		func(path, value string) bool {
			tree := map[string]any{"untouched": "sibling"}
			updated, err := Apply(tree, path, value)
			if err != nil {
				return false
			}
			if strings.Split(path, ".")[0] == "untouched" {
				return true
			}
			return updated["untouched"] == "sibling"
		},
		pathGen, valueGen,
	))

	properties.TestingRun(t)
}
