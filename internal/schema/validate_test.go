package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFailures(t *testing.T, tree map[string]any, ctx Context) []RawFailure {
	t.Helper()
	_, err := Validate(tree, ctx)
	require.Error(t, err)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	return validationErr.Failures
}

func hasFailure(failures []RawFailure, msg string) bool {
	for _, f := range failures {
		if f.Msg == msg {
			return true
		}
	}
	return false
}

func TestValidateMinimalDocument(t *testing.T) {
	doc, err := Validate(map[string]any{
		"cv": map[string]any{"name": "Ada Lovelace"},
	}, Context{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.CV.Name)
}

func TestValidateNameRequired(t *testing.T) {
	failures := validationFailures(t, map[string]any{"cv": map[string]any{}}, Context{})
	require.Len(t, failures, 1)
	assert.Equal(t, []string{"cv", "name"}, failures[0].Loc)
	assert.Equal(t, "Field required", failures[0].Msg)
}

func TestValidateContactFields(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv": map[string]any{
			"name":    "Ada",
			"email":   "not-an-email",
			"phone":   "abc",
			"website": "ftp://example.com",
		},
	}, Context{})

	assert.True(t, hasFailure(failures, "value is not a valid email address: An email address must have an @-sign."))
	assert.True(t, hasFailure(failures, "value is not a valid phone number"))
	assert.True(t, hasFailure(failures, "URL scheme should be 'http' or 'https'"))
}

func TestValidateExtraTopLevelField(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv":         map[string]any{"name": "Ada"},
		"unexpected": "value",
	}, Context{})
	require.Len(t, failures, 1)
	assert.Equal(t, "Extra inputs are not permitted", failures[0].Msg)
	assert.Equal(t, []string{"unexpected"}, failures[0].Loc)
}

func TestValidateEntryKinds(t *testing.T) {
	doc, err := Validate(map[string]any{
		"cv": map[string]any{
			"name": "Ada",
			"sections": map[string]any{
				"mixed": []any{
					"Plain text entry.",
					map[string]any{"bullet": "A bullet."},
					map[string]any{"label": "Skill", "details": "Go"},
					map[string]any{"company": "ACME", "position": "Engineer", "start_date": "2020-01", "end_date": "present"},
					map[string]any{"institution": "MIT", "area": "CS", "start_date": 2018, "end_date": "2022-06"},
					map[string]any{"title": "A Paper", "authors": []any{"Ada"}, "doi": "10.1000/x"},
					map[string]any{"name": "Project", "highlights": []any{"Fast", "Small"}},
				},
			},
		},
	}, Context{})
	require.NoError(t, err)

	require.Len(t, doc.CV.Sections, 1)
	entries := doc.CV.Sections[0].Entries
	require.Len(t, entries, 7)
	kinds := make([]EntryKind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EntryKind{
		TextEntry, BulletEntry, OneLineEntry, ExperienceEntry,
		EducationEntry, PublicationEntry, NormalEntry,
	}, kinds)
}

func TestValidateSectionOrderPreserved(t *testing.T) {
	doc, err := Validate(map[string]any{
		"cv": map[string]any{
			"name": "Ada",
			"sections": map[string]any{
				"zeta":  []any{"z"},
				"alpha": []any{"a"},
			},
		},
	}, Context{SectionOrder: []string{"zeta", "alpha"}})
	require.NoError(t, err)

	require.Len(t, doc.CV.Sections, 2)
	assert.Equal(t, "zeta", doc.CV.Sections[0].Title)
	assert.Equal(t, "alpha", doc.CV.Sections[1].Title)
}

func TestValidateBadEntryCarriesCause(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv": map[string]any{
			"name": "Ada",
			"sections": map[string]any{
				"education": []any{
					map[string]any{"institution": "MIT"},
				},
			},
		},
	}, Context{})

	require.Len(t, failures, 1)
	assert.Equal(t, EntriesSentinel, failures[0].Msg)
	assert.Equal(t, []string{"cv", "sections", "education", "0"}, failures[0].Loc)
	require.NotEmpty(t, failures[0].Cause)
	assert.Equal(t, "Field required", failures[0].Cause[0].Msg)
	// The nested location's first segment is the internal entry model.
	assert.Equal(t, "entries", failures[0].Cause[0].Loc[0])
}

func TestValidateBadEndDateYieldsMultipleFailures(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv": map[string]any{
			"name": "Ada",
			"sections": map[string]any{
				"experience": []any{
					map[string]any{"company": "ACME", "position": "Engineer", "end_date": "not a date"},
				},
			},
		},
	}, Context{})

	require.Len(t, failures, 1)
	// One failure per accepted end-date format.
	endDateFailures := 0
	for _, nested := range failures[0].Cause {
		for _, segment := range nested.Loc {
			if segment == "end_date" {
				endDateFailures++
				break
			}
		}
	}
	assert.GreaterOrEqual(t, endDateFailures, 2)
}

func TestValidateDateRanges(t *testing.T) {
	testCases := []struct {
		name string
		date string
		msg  string
	}{
		{"bad month", "2020-13", "month must be in 1..12"},
		{"bad day", "2020-02-31", "day is out of range for month"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			failures := validationFailures(t, map[string]any{
				"cv": map[string]any{
					"name": "Ada",
					"sections": map[string]any{
						"work": []any{
							map[string]any{"company": "ACME", "position": "X", "start_date": tc.date},
						},
					},
				},
			}, Context{})
			require.Len(t, failures, 1)
			require.NotEmpty(t, failures[0].Cause)
			assert.Equal(t, tc.msg, failures[0].Cause[0].Msg)
		})
	}
}

func TestValidateDesignHook(t *testing.T) {
	resolved := map[string]any{"resolved": true}
	doc, err := Validate(map[string]any{
		"cv":     map[string]any{"name": "Ada"},
		"design": map[string]any{"theme": "classic"},
	}, Context{
		ResolveDesign: func(design any, dir string) (any, error) {
			return resolved, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, resolved, doc.Design)
}

func TestValidateDesignHookFieldError(t *testing.T) {
	fieldErr := &FieldError{Message: "Bad theme.", Loc: "theme", Value: "x!"}
	failures := validationFailures(t, map[string]any{
		"cv":     map[string]any{"name": "Ada"},
		"design": map[string]any{"theme": "x!"},
	}, Context{
		ResolveDesign: func(design any, dir string) (any, error) {
			return nil, fieldErr
		},
	})

	require.Len(t, failures, 1)
	assert.Equal(t, []string{"design"}, failures[0].Loc)
	assert.Same(t, fieldErr, failures[0].Field)
}

func TestValidateDesignHookValidationError(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv":     map[string]any{"name": "Ada"},
		"design": map[string]any{"theme": "classic", "bogus": 1},
	}, Context{
		ResolveDesign: func(design any, dir string) (any, error) {
			return nil, &ValidationError{Failures: []RawFailure{
				{Loc: []string{"bogus"}, Msg: "Extra inputs are not permitted", Input: 1},
			}}
		},
	})

	require.Len(t, failures, 1)
	assert.Equal(t, []string{"design", "bogus"}, failures[0].Loc)
}

func TestValidateLocale(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv": map[string]any{"name": "Ada"},
		"locale": map[string]any{
			"language":                 "en",
			"unknown_key":              "x",
			"abbreviations_for_months": []any{"Jan"},
		},
	}, Context{})

	assert.True(t, hasFailure(failures, "Extra inputs are not permitted"))
	assert.True(t, hasFailure(failures, "List should have 12 items after validation, not 1"))
}

func TestValidateSettings(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv": map[string]any{"name": "Ada"},
		"settings": map[string]any{
			"not_a_real_key": true,
			"render_command": map[string]any{
				"dont_generate_pngs": true,
			},
		},
	}, Context{})

	require.Len(t, failures, 2)
	assert.Equal(t, []string{"settings", "not_a_real_key"}, failures[0].Loc)
	assert.Equal(t, "Extra inputs are not permitted", failures[0].Msg)
	assert.Equal(t, []string{"settings", "render_command", "dont_generate_pngs"}, failures[1].Loc)
	assert.Equal(t, "Extra inputs are not permitted", failures[1].Msg)
}

func TestValidateSettingsKnownKeysAccepted(t *testing.T) {
	doc, err := Validate(map[string]any{
		"cv": map[string]any{"name": "Ada"},
		"settings": map[string]any{
			"bold_keywords": []any{"Go"},
			"render_command": map[string]any{
				"output_folder_name": "out",
				"dont_generate_png":  true,
				"pdf_path":           "final.pdf",
			},
		},
	}, Context{})
	require.NoError(t, err)
	assert.NotNil(t, doc.Settings)
}

func TestValidateSettingsTypeChecks(t *testing.T) {
	failures := validationFailures(t, map[string]any{
		"cv": map[string]any{"name": "Ada"},
		"settings": map[string]any{
			"bold_keywords":  "Go",
			"render_command": []any{"x"},
		},
	}, Context{})

	assert.True(t, hasFailure(failures, "Input should be a valid list"))
	assert.True(t, hasFailure(failures, "Input should be a valid dictionary"))
}

func TestValidateFailureOrderDeterministic(t *testing.T) {
	tree := map[string]any{
		"cv": map[string]any{
			"name": "Ada",
			"sections": map[string]any{
				"projects": []any{
					map[string]any{
						"name":     "Engine",
						"zz_extra": 1,
						"aa_extra": 2,
					},
				},
			},
		},
	}

	failures := validationFailures(t, tree, Context{})
	require.Len(t, failures, 1)
	cause := failures[0].Cause
	require.Len(t, cause, 2)
	assert.Equal(t, "aa_extra", cause[0].Loc[len(cause[0].Loc)-1])
	assert.Equal(t, "zz_extra", cause[1].Loc[len(cause[1].Loc)-1])

	// Map iteration order must not leak into the report.
	for i := 0; i < 20; i++ {
		again := validationFailures(t, tree, Context{})
		assert.Equal(t, failures, again)
	}
}
