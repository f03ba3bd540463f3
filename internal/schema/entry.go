package schema

import (
	"fmt"
	"sort"
)

// fieldClass describes how an entry field is validated.
type fieldClass int

const (
	classString fieldClass = iota
	classDate
	classEndDate
	classList
)

type entrySpec struct {
	kind EntryKind
	// discriminator is the field whose presence selects this kind.
	discriminator string
	required      map[string]fieldClass
	optional      map[string]fieldClass
}

var commonOptional = map[string]fieldClass{
	"start_date": classDate,
	"end_date":   classEndDate,
	"date":       classDate,
	"location":   classString,
	"summary":    classString,
	"highlights": classList,
}

var entrySpecs = []entrySpec{
	{
		kind:          ExperienceEntry,
		discriminator: "company",
		required:      map[string]fieldClass{"company": classString, "position": classString},
		optional:      commonOptional,
	},
	{
		kind:          EducationEntry,
		discriminator: "institution",
		required:      map[string]fieldClass{"institution": classString, "area": classString},
		optional:      merged(commonOptional, map[string]fieldClass{"degree": classString}),
	},
	{
		kind:          PublicationEntry,
		discriminator: "title",
		required:      map[string]fieldClass{"title": classString, "authors": classList},
		optional: map[string]fieldClass{
			"doi":     classString,
			"url":     classString,
			"journal": classString,
			"date":    classDate,
		},
	},
	{
		kind:          OneLineEntry,
		discriminator: "label",
		required:      map[string]fieldClass{"label": classString, "details": classString},
		optional:      map[string]fieldClass{},
	},
	{
		kind:          BulletEntry,
		discriminator: "bullet",
		required:      map[string]fieldClass{"bullet": classString},
		optional:      map[string]fieldClass{},
	},
	{
		kind:          NormalEntry,
		discriminator: "name",
		required:      map[string]fieldClass{"name": classString},
		optional:      commonOptional,
	},
}

func merged(a, b map[string]fieldClass) map[string]fieldClass {
	out := make(map[string]fieldClass, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// validateEntry validates one section entry. On failure the returned
// RawFailure carries the sentinel message and the candidate kind's
// failures as Cause; the caller fills in Loc.
func validateEntry(item any) (Entry, *RawFailure) {
	if text, ok := item.(string); ok {
		return Entry{Kind: TextEntry, Fields: map[string]any{"text": text}}, nil
	}

	fields, ok := item.(map[string]any)
	if !ok {
		return Entry{}, &RawFailure{Msg: EntriesSentinel, Input: item}
	}

	spec := discriminate(fields)
	if spec == nil {
		// No known discriminator field; report against NormalEntry, the
		// most permissive kind.
		spec = &entrySpecs[len(entrySpecs)-1]
	}

	cause := checkEntryFields(fields, *spec)
	if len(cause) > 0 {
		return Entry{}, &RawFailure{Msg: EntriesSentinel, Input: item, Cause: cause}
	}
	return Entry{Kind: spec.kind, Fields: fields}, nil
}

func discriminate(fields map[string]any) *entrySpec {
	for i := range entrySpecs {
		if _, ok := fields[entrySpecs[i].discriminator]; ok {
			return &entrySpecs[i]
		}
	}
	return nil
}

// checkEntryFields validates fields against one entry kind. Failure
// locations start with a synthetic "entries" segment followed by the
// attempted kind; both describe the model, not the user's file, and are
// dropped during normalization.
func checkEntryFields(fields map[string]any, spec entrySpec) []RawFailure {
	prefix := []string{"entries", fmt.Sprintf("tagged-union[%s]", spec.kind)}
	var failures []RawFailure

	for _, field := range sortedFieldNames(spec.required) {
		if _, ok := fields[field]; !ok {
			failures = append(failures, RawFailure{
				Loc: append(cloneLoc(prefix), field), Msg: "Field required", Input: nil,
			})
		}
	}

	for _, field := range sortedKeys(fields) {
		value := fields[field]
		class, ok := spec.required[field]
		if !ok {
			class, ok = spec.optional[field]
		}
		if !ok {
			failures = append(failures, RawFailure{
				Loc: append(cloneLoc(prefix), field), Msg: "Extra inputs are not permitted", Input: value,
			})
			continue
		}
		failures = append(failures, checkFieldValue(field, value, class, prefix)...)
	}

	return failures
}

func sortedFieldNames(m map[string]fieldClass) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkFieldValue(field string, value any, class fieldClass, prefix []string) []RawFailure {
	loc := append(cloneLoc(prefix), field)
	switch class {
	case classString:
		if _, ok := value.(string); !ok {
			return []RawFailure{{Loc: loc, Msg: "Input should be a valid string", Input: value}}
		}
		if field == "doi" {
			if s := value.(string); len(s) < 3 || s[:3] != "10." {
				return []RawFailure{{
					Loc:   append(cloneLoc(prefix), field, "constrained-str"),
					Msg:   `String should match pattern '\b10\..*'`,
					Input: s,
				}}
			}
		}
		return nil
	case classDate:
		return checkDate(value, loc, false)
	case classEndDate:
		return checkDate(value, loc, true)
	case classList:
		list, ok := value.([]any)
		if !ok {
			return []RawFailure{{Loc: loc, Msg: "Input should be a valid list", Input: value}}
		}
		var failures []RawFailure
		for i, item := range list {
			if _, ok := item.(string); !ok {
				failures = append(failures, RawFailure{
					Loc:   append(cloneLoc(loc), fmt.Sprintf("list[%d]", i)),
					Msg:   "Input should be a valid string",
					Input: item,
				})
			}
		}
		return failures
	}
	return nil
}
