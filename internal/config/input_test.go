package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	input := writeTempYAML(t, dir, "cv.yaml", `
cv:
  name: Ada Lovelace
  sections:
    summary:
      - First analyst.
    education:
      - institution: Home
        area: Mathematics
design:
  theme: classic
`)

	result, err := ReadInput(input, nil, nil)
	require.NoError(t, err)

	cv := result.Tree["cv"].(map[string]any)
	assert.Equal(t, "Ada Lovelace", cv["name"])
	assert.Equal(t, []string{"summary", "education"}, result.SectionOrder)
	assert.Equal(t, dir, result.Dir)
}

func TestReadInputFieldFileReplacesField(t *testing.T) {
	dir := t.TempDir()
	input := writeTempYAML(t, dir, "cv.yaml", `
cv:
  name: Ada
design:
  theme: classic
  color: "#000000"
`)
	designFile := writeTempYAML(t, dir, "design.yaml", `
design:
  theme: moderncv
`)

	result, err := ReadInput(input, map[string]string{"design": designFile}, nil)
	require.NoError(t, err)

	design := result.Tree["design"].(map[string]any)
	assert.Equal(t, "moderncv", design["theme"])
	// The whole field is replaced, not merged.
	assert.NotContains(t, design, "color")
}

func TestReadInputFieldFileMissingField(t *testing.T) {
	dir := t.TempDir()
	input := writeTempYAML(t, dir, "cv.yaml", "cv:\n  name: Ada\n")
	wrong := writeTempYAML(t, dir, "other.yaml", "locale:\n  language: en\n")

	_, err := ReadInput(input, map[string]string{"design": wrong}, nil)
	assert.Error(t, err)
}

func TestReadInputAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	input := writeTempYAML(t, dir, "cv.yaml", `
cv:
  name: Ada
design:
  theme: classic
`)

	result, err := ReadInput(input, nil, map[string]string{"design.theme": "moderncv"})
	require.NoError(t, err)

	assert.Equal(t, "moderncv", result.Tree["design"].(map[string]any)["theme"])
}

func TestParseOverridePairs(t *testing.T) {
	overrides, err := ParseOverridePairs([]string{"--cv.phone", "+1 555", "--design.theme", "sb2nov"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"cv.phone": "+1 555", "design.theme": "sb2nov"}, overrides)
}

func TestParseOverridePairsErrors(t *testing.T) {
	_, err := ParseOverridePairs([]string{"--cv.phone"})
	assert.Error(t, err, "odd token count is a fatal input error")

	_, err = ParseOverridePairs([]string{"cv.phone", "+1 555"})
	assert.Error(t, err, "keys must start with double dashes")
}
