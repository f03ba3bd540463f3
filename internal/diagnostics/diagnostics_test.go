package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvforge/cvforge/internal/schema"
)

func TestNormalizeFriendlyMessages(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		friendly string
	}{
		{"required", "Field required", "This field is required!"},
		{"extra", "Extra inputs are not permitted", "This field is unknown for this object! Please remove it."},
		{"phone", "value is not a valid phone number", "This is not a valid phone number!"},
		{"url", "URL scheme should be 'http' or 'https'", "This is not a valid URL!"},
		{"month", "month must be in 1..12", "The month must be between 1 and 12!"},
		{"day", "day is out of range for month", "The day is out of range for the month!"},
		{"string", "Input should be a valid string", "This field should be a string!"},
		{"list", "Input should be a valid list", "This field should contain a list of items but it doesn't!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			diags := Normalize([]schema.RawFailure{{Loc: []string{"cv", "name"}, Msg: tc.raw, Input: "x"}})
			require.Len(t, diags, 1)
			assert.Equal(t, tc.friendly, diags[0].Message)
			assert.Equal(t, "cv.name", diags[0].Location)
		})
	}
}

func TestNormalizeStripsUnwantedTexts(t *testing.T) {
	diags := Normalize([]schema.RawFailure{{
		Loc:   []string{"cv", "email"},
		Msg:   "value is not a valid email address: An email address must have an @-sign.",
		Input: "nope",
	}})
	require.Len(t, diags, 1)
	assert.Equal(t, "An email address must have an @-sign.", diags[0].Message)
}

func TestNormalizeCleansInternalLocations(t *testing.T) {
	diags := Normalize([]schema.RawFailure{{
		Loc:   []string{"cv", "sections", "education", "0", "tagged-union[EducationEntry]", "start_date", "constrained-str"},
		Msg:   "Field required",
		Input: nil,
	}})
	require.Len(t, diags, 1)
	assert.Equal(t, "cv.sections.education.0.start_date", diags[0].Location)
}

func TestNormalizeFlattensCauses(t *testing.T) {
	diags := Normalize([]schema.RawFailure{{
		Loc:   []string{"cv", "sections", "education", "0"},
		Msg:   schema.EntriesSentinel,
		Input: map[string]any{"institution": "X"},
		Cause: []schema.RawFailure{{
			Loc:   []string{"entries", "area"},
			Msg:   "Field required",
			Input: nil,
		}},
	}})

	locations := make([]string, 0, len(diags))
	for _, d := range diags {
		locations = append(locations, d.Location)
	}
	assert.Contains(t, locations, "cv.sections.education.0.area")
}

func TestNormalizeCustomErrorStructured(t *testing.T) {
	field := &schema.FieldError{
		Message: "The custom theme name should only contain letters and digits.",
		Loc:     "theme",
		Value:   "bad-name",
	}
	diags := Normalize([]schema.RawFailure{{
		Loc:   []string{"design"},
		Msg:   field.Error(),
		Input: "bad-name",
		Field: field,
	}})

	require.Len(t, diags, 1)
	assert.Equal(t, "design.theme", diags[0].Location)
	assert.Equal(t, "The custom theme name should only contain letters and digits.", diags[0].Message)
	assert.Equal(t, "bad-name", diags[0].Input)
}

func TestNormalizeCustomErrorFromMessage(t *testing.T) {
	// Compatibility shim: the tuple is parsed back out of the message
	// when the structured field is absent.
	diags := Normalize([]schema.RawFailure{{
		Loc:   []string{"design"},
		Msg:   "('Something went wrong.', 'theme', 'oops')",
		Input: nil,
	}})

	require.Len(t, diags, 1)
	assert.Equal(t, "design.theme", diags[0].Location)
	assert.Equal(t, "Something went wrong.", diags[0].Message)
	assert.Equal(t, "oops", diags[0].Input)
}

func TestNormalizeEndDateCollapse(t *testing.T) {
	// A bad end date fails every accepted format, so several raw
	// failures share one location. Exactly one diagnostic survives.
	raw := []schema.RawFailure{
		{Loc: []string{"cv", "sections", "experience", "0", "end_date", "literal['present']"}, Msg: "Input should be 'present'", Input: "2020-13"},
		{Loc: []string{"cv", "sections", "experience", "0", "end_date", "constrained-str"}, Msg: `String should match pattern '\d{4}-\d{2}(-\d{2})?'`, Input: "2020-13"},
	}

	diags := Normalize(raw)
	require.Len(t, diags, 1)
	assert.Equal(t, "cv.sections.experience.0.end_date", diags[0].Location)
	assert.Contains(t, diags[0].Message, "end date")
}

func TestNormalizeDeduplicates(t *testing.T) {
	failure := schema.RawFailure{Loc: []string{"cv", "name"}, Msg: "Field required", Input: nil}

	diags := Normalize([]schema.RawFailure{failure, failure, failure})
	assert.Len(t, diags, 1)
}

func TestNormalizeCompositeInput(t *testing.T) {
	diags := Normalize([]schema.RawFailure{{
		Loc:   []string{"cv"},
		Msg:   "Input should be a valid dictionary",
		Input: map[string]any{"big": "structure"},
	}})
	require.Len(t, diags, 1)
	assert.Equal(t, "", diags[0].Input)
}

func TestNormalizeIsStable(t *testing.T) {
	raw := []schema.RawFailure{
		{Loc: []string{"cv", "name"}, Msg: "Field required", Input: nil},
		{Loc: []string{"cv", "phone"}, Msg: "value is not a valid phone number", Input: "abc"},
	}

	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)

	// Round-tripping the diagnostics through the raw shape changes
	// nothing: normalization is idempotent.
	roundTripped := make([]schema.RawFailure, 0, len(first))
	for _, d := range first {
		roundTripped = append(roundTripped, schema.RawFailure{Loc: []string{d.Location}, Msg: d.Message, Input: d.Input})
	}
	assert.Equal(t, first, Normalize(roundTripped))
}
