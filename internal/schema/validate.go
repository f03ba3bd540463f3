package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Context carries the surroundings a validation pass needs beyond the
// tree itself.
type Context struct {
	// InputDir is the directory of the input file. Custom theme folders
	// are resolved against it.
	InputDir string

	// ResolveDesign is the pre-validation hook for the `design` field.
	// It returns the resolved theme configuration, a *FieldError for
	// resolution problems, or a *ValidationError when a built-in theme
	// schema rejected the options.
	ResolveDesign func(design any, inputDir string) (any, error)

	// SectionOrder preserves the input file's cv.sections key order,
	// which the YAML-to-map decoding loses. Sections absent from it are
	// appended in sorted order.
	SectionOrder []string
}

var (
	phonePattern     = regexp.MustCompile(`^\+?[0-9 ()-]{7,}$`)
	themeNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ThemeNamePattern reports whether a custom theme name is acceptable.
func ThemeNamePattern(name string) bool {
	return themeNamePattern.MatchString(name)
}

var topLevelFields = []string{"cv", "design", "locale", "settings"}

// TopLevelFields lists the recognized top-level fields of an input file.
// The CLI accepts a separate override file per field.
func TopLevelFields() []string {
	return append([]string(nil), topLevelFields...)
}

// Validate checks a configuration tree and returns the validated
// Document, or a *ValidationError listing every failure found.
func Validate(tree map[string]any, ctx Context) (*Document, error) {
	v := &validator{ctx: ctx}

	doc := &Document{}

	for _, key := range sortedKeys(tree) {
		if !contains(topLevelFields, key) {
			v.fail([]string{key}, "Extra inputs are not permitted", tree[key])
		}
	}

	cvRaw, ok := tree["cv"]
	if !ok {
		v.fail([]string{"cv"}, "Field required", nil)
	} else if cvMap, ok := cvRaw.(map[string]any); ok {
		doc.CV = v.validateCV(cvMap)
	} else {
		v.fail([]string{"cv"}, "Input should be a valid dictionary", cvRaw)
	}

	if designRaw, ok := tree["design"]; ok {
		doc.Design = v.validateDesign(designRaw)
	}

	if localeRaw, ok := tree["locale"]; ok {
		doc.Locale = v.validateLocale(localeRaw)
	}

	if settingsRaw, ok := tree["settings"]; ok {
		doc.Settings = v.validateSettings(settingsRaw)
	}

	if len(v.failures) > 0 {
		return nil, &ValidationError{Failures: v.failures}
	}
	return doc, nil
}

type validator struct {
	ctx      Context
	failures []RawFailure
}

func (v *validator) fail(loc []string, msg string, input any) {
	v.failures = append(v.failures, RawFailure{Loc: loc, Msg: msg, Input: input})
}

func (v *validator) add(f RawFailure) {
	v.failures = append(v.failures, f)
}

// ---- cv ----

var cvStringFields = []string{"name", "email", "phone", "website", "location"}
var cvFields = []string{"name", "email", "phone", "website", "location", "social_networks", "sections"}

func (v *validator) validateCV(cv map[string]any) CurriculumVitae {
	out := CurriculumVitae{}

	for _, key := range sortedKeys(cv) {
		if !contains(cvFields, key) {
			v.fail([]string{"cv", key}, "Extra inputs are not permitted", cv[key])
		}
	}

	for _, field := range cvStringFields {
		raw, ok := cv[field]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			v.fail([]string{"cv", field}, "Input should be a valid string", raw)
			continue
		}
		switch field {
		case "name":
			out.Name = s
		case "email":
			out.Email = s
			if !strings.Contains(s, "@") {
				v.fail([]string{"cv", "email"}, "value is not a valid email address: An email address must have an @-sign.", s)
			}
		case "phone":
			out.Phone = s
			if !phonePattern.MatchString(s) {
				v.fail([]string{"cv", "phone"}, "value is not a valid phone number", s)
			}
		case "website":
			out.Website = s
			if u, err := url.Parse(s); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				v.fail([]string{"cv", "website"}, "URL scheme should be 'http' or 'https'", s)
			}
		case "location":
			out.Location = s
		}
	}

	if _, ok := cv["name"]; !ok {
		v.fail([]string{"cv", "name"}, "Field required", nil)
	}

	if raw, ok := cv["social_networks"]; ok {
		out.SocialNetworks = v.validateSocialNetworks(raw)
	}

	if raw, ok := cv["sections"]; ok {
		sections, ok := raw.(map[string]any)
		if !ok {
			v.fail([]string{"cv", "sections"}, "Input should be a valid dictionary", raw)
		} else {
			out.Sections = v.validateSections(sections)
		}
	}

	return out
}

func (v *validator) validateSocialNetworks(raw any) []SocialNetwork {
	list, ok := raw.([]any)
	if !ok {
		v.fail([]string{"cv", "social_networks"}, "Input should be a valid list", raw)
		return nil
	}
	networks := make([]SocialNetwork, 0, len(list))
	for i, item := range list {
		loc := []string{"cv", "social_networks", strconv.Itoa(i)}
		m, ok := item.(map[string]any)
		if !ok {
			v.fail(loc, "Input should be a valid dictionary", item)
			continue
		}
		sn := SocialNetwork{}
		for _, field := range []string{"network", "username"} {
			raw, ok := m[field]
			if !ok {
				v.fail(append(cloneLoc(loc), field), "Field required", nil)
				continue
			}
			s, ok := raw.(string)
			if !ok {
				v.fail(append(cloneLoc(loc), field), "Input should be a valid string", raw)
				continue
			}
			if field == "network" {
				sn.Network = s
			} else {
				sn.Username = s
			}
		}
		networks = append(networks, sn)
	}
	return networks
}

func (v *validator) validateSections(sections map[string]any) []Section {
	titles := orderedTitles(sections, v.ctx.SectionOrder)

	out := make([]Section, 0, len(titles))
	for _, title := range titles {
		loc := []string{"cv", "sections", title}
		list, ok := sections[title].([]any)
		if !ok {
			v.fail(loc, "Input should be a valid list", sections[title])
			continue
		}
		section := Section{Title: title}
		for i, item := range list {
			entry, failure := validateEntry(item)
			if failure != nil {
				failure.Loc = append(cloneLoc(loc), strconv.Itoa(i))
				v.add(*failure)
				continue
			}
			section.Entries = append(section.Entries, entry)
		}
		out = append(out, section)
	}
	return out
}

func orderedTitles(sections map[string]any, order []string) []string {
	titles := make([]string, 0, len(sections))
	seen := make(map[string]bool, len(sections))
	for _, title := range order {
		if _, ok := sections[title]; ok && !seen[title] {
			titles = append(titles, title)
			seen[title] = true
		}
	}
	rest := make([]string, 0)
	for title := range sections {
		if !seen[title] {
			rest = append(rest, title)
		}
	}
	sort.Strings(rest)
	return append(titles, rest...)
}

// ---- design / locale ----

func (v *validator) validateDesign(design any) any {
	if v.ctx.ResolveDesign == nil {
		return design
	}
	resolved, err := v.ctx.ResolveDesign(design, v.ctx.InputDir)
	if err == nil {
		return resolved
	}
	switch e := err.(type) {
	case *FieldError:
		v.add(RawFailure{Loc: []string{"design"}, Msg: e.Error(), Input: e.Value, Field: e})
	case *ValidationError:
		for _, failure := range e.Failures {
			failure.Loc = append([]string{"design"}, failure.Loc...)
			v.add(failure)
		}
	default:
		v.fail([]string{"design"}, err.Error(), "")
	}
	return nil
}

var settingsFields = []string{"render_command", "bold_keywords"}

var renderCommandFields = []string{
	"output_folder_name",
	"typst_path", "pdf_path", "png_path", "markdown_path", "html_path",
	"dont_generate_png", "dont_generate_markdown", "dont_generate_html",
}

func (v *validator) validateSettings(raw any) map[string]any {
	settings, ok := raw.(map[string]any)
	if !ok {
		v.fail([]string{"settings"}, "Input should be a valid dictionary", raw)
		return nil
	}
	for _, key := range sortedKeys(settings) {
		value := settings[key]
		if !contains(settingsFields, key) {
			v.fail([]string{"settings", key}, "Extra inputs are not permitted", value)
			continue
		}
		switch key {
		case "bold_keywords":
			if _, ok := value.([]any); !ok {
				v.fail([]string{"settings", "bold_keywords"}, "Input should be a valid list", value)
			}
		case "render_command":
			command, ok := value.(map[string]any)
			if !ok {
				v.fail([]string{"settings", "render_command"}, "Input should be a valid dictionary", value)
				continue
			}
			for _, option := range sortedKeys(command) {
				if !contains(renderCommandFields, option) {
					v.fail([]string{"settings", "render_command", option}, "Extra inputs are not permitted", command[option])
				}
			}
		}
	}
	return settings
}

var localeFields = []string{
	"language", "phone_number_format", "page_numbering_template",
	"last_updated_date_template", "date_template", "month", "months",
	"year", "years", "present", "to",
	"abbreviations_for_months", "full_names_of_months",
}

func (v *validator) validateLocale(raw any) map[string]any {
	locale, ok := raw.(map[string]any)
	if !ok {
		v.fail([]string{"locale"}, "Input should be a valid dictionary", raw)
		return nil
	}
	for _, key := range sortedKeys(locale) {
		value := locale[key]
		if !contains(localeFields, key) {
			v.fail([]string{"locale", key}, "Extra inputs are not permitted", value)
			continue
		}
		switch key {
		case "abbreviations_for_months", "full_names_of_months":
			list, ok := value.([]any)
			if !ok {
				v.fail([]string{"locale", key}, "Input should be a valid list", value)
			} else if len(list) != 12 {
				v.fail([]string{"locale", key}, fmt.Sprintf("List should have 12 items after validation, not %d", len(list)), value)
			}
		default:
			if _, ok := value.(string); !ok {
				v.fail([]string{"locale", key}, "Input should be a valid string", value)
			}
		}
	}
	return locale
}

// sortedKeys fixes the iteration order of failure-producing map walks,
// so repeated runs report diagnostics in the same order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
