package schema

// Document is the validated form of a cvforge input file.
type Document struct {
	CV       CurriculumVitae
	Design   any
	Locale   map[string]any
	Settings map[string]any
}

// CurriculumVitae holds the validated `cv` field.
type CurriculumVitae struct {
	Name           string
	Email          string
	Phone          string
	Website        string
	Location       string
	SocialNetworks []SocialNetwork
	Sections       []Section
}

// SocialNetwork is one entry of `cv.social_networks`.
type SocialNetwork struct {
	Network  string
	Username string
}

// Section is one titled list of entries. Section order follows the
// input file.
type Section struct {
	Title   string
	Entries []Entry
}

// EntryKind discriminates the polymorphic entry types.
type EntryKind string

const (
	EducationEntry   EntryKind = "EducationEntry"
	ExperienceEntry  EntryKind = "ExperienceEntry"
	PublicationEntry EntryKind = "PublicationEntry"
	NormalEntry      EntryKind = "NormalEntry"
	OneLineEntry     EntryKind = "OneLineEntry"
	BulletEntry      EntryKind = "BulletEntry"
	TextEntry        EntryKind = "TextEntry"
)

// EntryKinds lists every known entry kind. Theme resolution requires one
// template file per kind.
func EntryKinds() []string {
	return []string{
		string(EducationEntry),
		string(ExperienceEntry),
		string(PublicationEntry),
		string(NormalEntry),
		string(OneLineEntry),
		string(BulletEntry),
		string(TextEntry),
	}
}

// Entry is one validated entry of a section. Fields is the entry's
// mapping form; TextEntry stores its text under the "text" key.
type Entry struct {
	Kind   EntryKind
	Fields map[string]any
}

// Text returns the string value of a field, or "" when absent or not a
// string.
func (e Entry) Text(field string) string {
	s, _ := e.Fields[field].(string)
	return s
}

// Highlights returns the entry's highlight list, if any.
func (e Entry) Highlights() []string {
	raw, ok := e.Fields["highlights"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
