package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}(-\d{2})?$`)

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// checkDate validates a date value in YYYY, YYYY-MM, or YYYY-MM-DD form.
// allowPresent additionally accepts the literal "present" (end dates
// only). The returned failures carry the raw technical messages that the
// diagnostics tables rewrite.
func checkDate(value any, loc []string, allowPresent bool) []RawFailure {
	switch v := value.(type) {
	case int:
		// Bare years arrive as integers from the YAML reader.
		if v >= 1000 && v <= 9999 {
			return nil
		}
		return []RawFailure{{Loc: loc, Msg: "Input should be a valid integer, unable to parse string as an integer", Input: v}}
	case string:
		return checkDateString(v, loc, allowPresent)
	default:
		return []RawFailure{{Loc: loc, Msg: "Input should be a valid string", Input: value}}
	}
}

func checkDateString(v string, loc []string, allowPresent bool) []RawFailure {
	if allowPresent && v == "present" {
		return nil
	}

	if _, err := strconv.Atoi(v); err == nil && len(v) == 4 {
		return nil
	}

	if !datePattern.MatchString(v) {
		failures := []RawFailure{
			{Loc: append(cloneLoc(loc), "constrained-str"), Msg: `String should match pattern '\d{4}-\d{2}(-\d{2})?'`, Input: v},
		}
		if allowPresent {
			// End dates accept several formats; each candidate format
			// reports its own mismatch, mirroring a union of validators.
			failures = append(failures, RawFailure{
				Loc:   append(cloneLoc(loc), "literal['present']"),
				Msg:   "Input should be 'present'",
				Input: v,
			})
		}
		return failures
	}

	parts := strings.Split(v, "-")
	month, _ := strconv.Atoi(parts[1])
	if month < 1 || month > 12 {
		return []RawFailure{{Loc: loc, Msg: "month must be in 1..12", Input: v}}
	}
	if len(parts) == 3 {
		day, _ := strconv.Atoi(parts[2])
		if day < 1 || day > daysInMonth[month] {
			return []RawFailure{{Loc: loc, Msg: "day is out of range for month", Input: v}}
		}
	}
	return nil
}

func cloneLoc(loc []string) []string {
	return append([]string(nil), loc...)
}
