package renderer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/cvforge/cvforge/internal/logging"
	"github.com/cvforge/cvforge/internal/schema"
)

// Markdown renders the document's Markdown form and converts it to HTML.
type Markdown struct {
	Log logging.Logger
}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown(log logging.Logger) *Markdown {
	return &Markdown{Log: log.WithComponent("markdown")}
}

// Render writes <name>_CV.md into outDir.
func (m *Markdown) Render(doc *schema.Document, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# %s\n\n", doc.CV.Name)

	var contact []string
	for _, field := range []string{doc.CV.Location, doc.CV.Email, doc.CV.Phone, doc.CV.Website} {
		if field != "" {
			contact = append(contact, field)
		}
	}
	if len(contact) > 0 {
		fmt.Fprintf(&out, "%s\n\n", strings.Join(contact, " · "))
	}

	for _, section := range doc.CV.Sections {
		fmt.Fprintf(&out, "## %s\n\n", section.Title)
		for _, entry := range section.Entries {
			writeEntryMarkdown(&out, entry)
		}
	}

	path := filepath.Join(outDir, outputStem(doc)+".md")
	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	m.Log.Info("markdown file generated", "path", path)
	return path, nil
}

// HTML converts a rendered Markdown file into a standalone HTML file
// next to it.
func (m *Markdown) HTML(mdPath string) (string, error) {
	source, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", mdPath, err)
	}

	converter := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	var body bytes.Buffer
	if err := converter.Convert(source, &body); err != nil {
		return "", fmt.Errorf("converting %s: %w", mdPath, err)
	}

	htmlPath := strings.TrimSuffix(mdPath, ".md") + ".html"
	page := fmt.Sprintf(
		"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		strings.TrimSuffix(filepath.Base(mdPath), ".md"),
		body.String(),
	)
	if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", htmlPath, err)
	}
	m.Log.Info("html file generated", "path", htmlPath)
	return htmlPath, nil
}

func writeEntryMarkdown(out *strings.Builder, entry schema.Entry) {
	switch entry.Kind {
	case schema.TextEntry:
		fmt.Fprintf(out, "%s\n\n", entry.Text("text"))
	case schema.BulletEntry:
		fmt.Fprintf(out, "- %s\n", entry.Text("bullet"))
	case schema.OneLineEntry:
		fmt.Fprintf(out, "**%s:** %s\n\n", entry.Text("label"), entry.Text("details"))
	case schema.PublicationEntry:
		fmt.Fprintf(out, "**%s**", entry.Text("title"))
		if doi := entry.Text("doi"); doi != "" {
			fmt.Fprintf(out, " ([%s](https://doi.org/%s))", doi, doi)
		}
		out.WriteString("\n\n")
	default:
		title := entry.Text("name")
		if title == "" {
			title = entry.Text("institution")
		}
		if title == "" {
			title = entry.Text("company")
		}
		fmt.Fprintf(out, "**%s**", title)
		if sub := entrySubtitle(entry); sub != "" {
			fmt.Fprintf(out, ", %s", sub)
		}
		if dates := entryDates(entry); dates != "" {
			fmt.Fprintf(out, " (%s)", dates)
		}
		out.WriteString("\n\n")
		for _, highlight := range entry.Highlights() {
			fmt.Fprintf(out, "- %s\n", highlight)
		}
		if len(entry.Highlights()) > 0 {
			out.WriteString("\n")
		}
	}
}

func entrySubtitle(entry schema.Entry) string {
	switch entry.Kind {
	case schema.EducationEntry:
		return entry.Text("area")
	case schema.ExperienceEntry:
		return entry.Text("position")
	default:
		return entry.Text("summary")
	}
}

func entryDates(entry schema.Entry) string {
	if date := entry.Text("date"); date != "" {
		return date
	}
	start, end := entry.Text("start_date"), entry.Text("end_date")
	if start == "" {
		return ""
	}
	if end == "" {
		return start
	}
	return start + " – " + end
}
