// Package report renders dashboards, journals and activity grids as markdown.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"journey/internal/database"
	"journey/internal/services"
	"journey/internal/utils"

	md "github.com/nao1215/markdown"
)

//go:embed templates/*.md
var templates embed.FS

// Renderer holds the clock and time zone used for relative dates.
type Renderer struct {
	Now      time.Time
	Location *time.Location
}

// New returns a Renderer for the given moment.
func New(now time.Time, loc *time.Location) *Renderer {
	return &Renderer{Now: now, Location: loc}
}

// Dashboard renders the main screen.
func (r *Renderer) Dashboard(d services.Dashboard) string {
	partials := map[string]string{
		"dashboard_goals":  "dashboard_goals.md",
		"dashboard_recent": "dashboard_recent.md",
	}
	return r.renderTemplate("dashboard", "dashboard.md", partials, d)
}

// Journal renders entries grouped by day, newest first.
func (r *Renderer) Journal(entries []database.JournalEntry) string {
	return r.renderTemplate("entries", "entries.md", nil, services.GroupEntriesByDate(entries))
}

// Goals renders goals with their milestones as task lists.
func (r *Renderer) Goals(goals []database.Goal) string {
	return r.renderTemplate("goals", "goals.md", nil, goals)
}

// Grid renders the contribution grid as a fixed width block.
func (r *Renderer) Grid(g services.ContributionGrid) string {
	return r.renderTemplate("grid", "grid.md", nil, g)
}

// Mood renders a mood summary with its distribution table.
func (r *Renderer) Mood(s services.MoodSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Mood over the last %d days", s.Days))
	if s.Entries == 0 {
		doc.PlainText(s.Label)
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("%s, average %.1f over %d entries", s.Label, s.Average, s.Entries))

	table := md.TableSet{Header: []string{"Mood", "Entries", "Share"}}
	for _, m := range database.Moods {
		n := s.Distribution[m]
		table.Rows = append(table.Rows, []string{
			utils.GetMoodEmoji(m) + " " + utils.GetMoodName(m),
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%.0f%%", 100*float64(n)/float64(s.Entries)),
		})
	}
	doc.Table(table)
	return doc.String()
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"bar":           progressBar,
		"cells":         gridCells,
		"moodEmoji":     utils.GetMoodEmoji,
		"categoryEmoji": utils.GetCategoryEmoji,
		"entryType":     utils.GetEntryTypeName,
		"relative": func(day string) string {
			return utils.FormatRelativeDate(day, r.Now, r.Location)
		},
	}
}

// renderTemplate renders a main template that depends on several partials.
func (r *Renderer) renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(r.funcs()).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

const barWidth = 10

// progressBar draws a percentage as ten blocks.
func progressBar(percent any) string {
	var p float64
	switch v := percent.(type) {
	case int:
		p = float64(v)
	case float64:
		p = v
	}
	filled := int(p / 100 * barWidth)
	filled = min(barWidth, max(0, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

var levelGlyphs = [5]string{"·", "░", "▒", "▓", "█"}

var weekdayLabels = [7]string{"Sun", "   ", "Tue", "   ", "Thu", "   ", "Sat"}

// gridCells draws one line per weekday with a month header.
func gridCells(g services.ContributionGrid) string {
	var b strings.Builder

	header := []rune(strings.Repeat(" ", g.Weeks))
	free := 0
	for _, m := range g.Months {
		// подпись не должна наезжать на предыдущую
		if m.Col < free {
			continue
		}
		free = m.Col + len([]rune(m.Label)) + 1
		for i, c := range m.Label {
			if m.Col+i < len(header) {
				header[m.Col+i] = c
			}
		}
	}
	b.WriteString("    " + strings.TrimRight(string(header), " ") + "\n")

	for row, cells := range g.Rows {
		b.WriteString(weekdayLabels[row] + " ")
		for _, c := range cells {
			switch {
			case c.Future:
				b.WriteString(" ")
			default:
				b.WriteString(levelGlyphs[c.Level])
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
