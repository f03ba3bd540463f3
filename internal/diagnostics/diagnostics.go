// Package diagnostics converts the validator's raw failures into the
// deduplicated, user-legible list the CLI prints. Raw failures carry
// model-internal locations and technical messages; nothing internal may
// leak to the user.
package diagnostics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cvforge/cvforge/internal/schema"
)

// Diagnostic is one user-facing validation error.
type Diagnostic struct {
	Location string
	Message  string
	Input    string
}

// friendlyMessages rewrites exact technical validator messages into
// user-facing ones.
var friendlyMessages = map[string]string{
	"Input should be 'present'": "This is not a valid date! Please use either YYYY-MM-DD, YYYY-MM, or YYYY" +
		` format or "present"!`,
	"Input should be a valid integer, unable to parse string as an integer": "This is not a valid date!" +
		" Please use either YYYY-MM-DD, YYYY-MM, or YYYY format!",
	`String should match pattern '\d{4}-\d{2}(-\d{2})?'`: "This is not a valid date!" +
		" Please use either YYYY-MM-DD, YYYY-MM, or YYYY format!",
	`String should match pattern '\b10\..*'`: `A DOI prefix should always start with "10.". For example,` +
		` "10.1109/TASC.2023.3340648".`,
	"URL scheme should be 'http' or 'https'": "This is not a valid URL!",
	"Field required":                         "This field is required!",
	"value is not a valid phone number":      "This is not a valid phone number!",
	"month must be in 1..12":                 "The month must be between 1 and 12!",
	"day is out of range for month":          "The day is out of range for the month!",
	"Extra inputs are not permitted":         "This field is unknown for this object! Please remove it.",
	"Input should be a valid string":         "This field should be a string!",
	"Input should be a valid list":           "This field should contain a list of items but it doesn't!",
}

// unwantedTexts are stripped from messages before the friendly-message
// lookup.
var unwantedTexts = []string{
	"value is not a valid email address: ",
	"Value error, ",
}

// unwantedLocations mark path segments that describe the data model
// rather than the user's file; any segment containing one is dropped.
var unwantedLocations = []string{"tagged-union", "list", "literal", "int", "constrained-str"}

const endDateMessage = "This is not a valid end date! Please use either YYYY-MM-DD, YYYY-MM," +
	` or YYYY format or "present"!`

// customErrorPattern extracts the (message, location, value) tuple from
// failures whose message embeds a stringified FieldError. Failures that
// carry the structured field directly skip this shim.
var customErrorPattern = regexp.MustCompile(`\(['"](.*)['"], '(.*)', '(.*)'\)`)

// Normalize converts raw failures into an ordered, deduplicated list of
// diagnostics. It never fails and drops failures only through dedup.
func Normalize(failures []schema.RawFailure) []Diagnostic {
	flattened := flattenCauses(failures)

	var out []Diagnostic
	for _, failure := range flattened {
		d := normalizeOne(failure)
		if !containsDiagnostic(out, d) {
			out = append(out, d)
		}
	}
	return out
}

// flattenCauses appends the nested failures of every sentinel-carrying
// failure to the working list. The nested failure's first location
// segment belongs to the internal entry model and is dropped.
func flattenCauses(failures []schema.RawFailure) []schema.RawFailure {
	out := append([]schema.RawFailure(nil), failures...)
	for _, failure := range failures {
		if !strings.Contains(failure.Msg, schema.EntriesSentinel) || len(failure.Cause) == 0 {
			continue
		}
		for _, nested := range failure.Cause {
			nestedLoc := nested.Loc
			if len(nestedLoc) > 0 {
				nestedLoc = nestedLoc[1:]
			}
			nested.Loc = append(append([]string(nil), failure.Loc...), nestedLoc...)
			nested.Cause = nil
			out = append(out, nested)
		}
	}
	return out
}

func normalizeOne(failure schema.RawFailure) Diagnostic {
	location := strings.Join(cleanLocation(failure.Loc), ".")
	message := failure.Msg
	input := failure.Input

	if custom := extractCustom(failure); custom != nil {
		message = custom.Message
		if custom.Loc != "" {
			location = location + "." + custom.Loc
		}
		input = custom.Value
	}

	for _, unwanted := range unwantedTexts {
		message = strings.ReplaceAll(message, unwanted, "")
	}

	if friendly, ok := friendlyMessages[message]; ok {
		message = friendly
	}

	// Several date formats are tried for end dates, so one bad value
	// yields several format-mismatch failures. Collapse them all into
	// one canonical message; dedup then keeps a single diagnostic.
	if strings.Contains(location, "end_date") {
		message = endDateMessage
	}

	return Diagnostic{
		Location: location,
		Message:  message,
		Input:    stringifyInput(input),
	}
}

func cleanLocation(loc []string) []string {
	out := make([]string, 0, len(loc))
	for _, segment := range loc {
		if hasUnwantedMarker(segment) {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func hasUnwantedMarker(segment string) bool {
	for _, marker := range unwantedLocations {
		if strings.Contains(segment, marker) {
			return true
		}
	}
	return false
}

func extractCustom(failure schema.RawFailure) *schema.FieldError {
	if failure.Field != nil {
		return failure.Field
	}
	match := customErrorPattern.FindStringSubmatch(failure.Msg)
	if match == nil {
		return nil
	}
	return &schema.FieldError{Message: match[1], Loc: match[2], Value: match[3]}
}

// stringifyInput renders the offending input for display. Composite
// values are dumped as an empty string; their structure is already
// described by the location.
func stringifyInput(input any) string {
	switch input.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	case string:
		return input.(string)
	default:
		return fmt.Sprintf("%v", input)
	}
}

func containsDiagnostic(list []Diagnostic, d Diagnostic) bool {
	for _, existing := range list {
		if existing == d {
			return true
		}
	}
	return false
}
