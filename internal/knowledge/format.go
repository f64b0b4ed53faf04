package knowledge

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/cerebro/internal/catalog"
)

const maxSnippet = 280

func bulletBlock(title string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, l := range lines {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCourse(c catalog.Course) string {
	parts := []string{c.Title}
	if c.Level != "" {
		parts = append(parts, "nível "+c.Level)
	}
	if c.Instructor != "" {
		parts = append(parts, "com "+c.Instructor)
	}
	if c.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", c.DurationMinutes))
	}
	line := strings.Join(parts, " | ")
	if c.Description != "" {
		line += ": " + snippet(c.Description)
	}
	return line
}

func formatEquipment(e catalog.Equipment) string {
	line := e.Name
	if e.Technology != "" {
		line += " (" + e.Technology + ")"
	}
	if e.Indications != "" {
		line += ". Indicações: " + snippet(e.Indications)
	}
	if e.Contraindications != "" {
		line += ". Contraindicações: " + snippet(e.Contraindications)
	}
	return line
}

func formatVideo(v catalog.Video) string {
	line := v.Title
	if v.DurationSeconds > 0 {
		line += fmt.Sprintf(" (%d min)", (v.DurationSeconds+59)/60)
	}
	if v.URL != "" {
		line += " " + v.URL
	}
	if v.Description != "" {
		line += ": " + snippet(v.Description)
	}
	return line
}

func formatArticle(a catalog.Article) string {
	line := a.Title
	var cite []string
	if a.Authors != "" {
		cite = append(cite, a.Authors)
	}
	if a.Journal != "" {
		cite = append(cite, a.Journal)
	}
	if a.Year > 0 {
		cite = append(cite, fmt.Sprint(a.Year))
	}
	if len(cite) > 0 {
		line += " (" + strings.Join(cite, ", ") + ")"
	}
	if a.Summary != "" {
		line += ": " + snippet(a.Summary)
	}
	if a.DOI != "" {
		line += " doi:" + a.DOI
	}
	return line
}

func formatExample(e catalog.ApprovedExample) string {
	return fmt.Sprintf("[%s] %s: %s", e.Format, e.Topic, snippet(e.Content))
}

// snippet collapses whitespace and cuts s to maxSnippet runes.
func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxSnippet {
		return s
	}
	return string(r[:maxSnippet]) + "…"
}
