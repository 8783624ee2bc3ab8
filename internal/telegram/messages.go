package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"journey/internal/database"
	"journey/internal/services"
	"journey/internal/utils"
)

const helpMessage = `🎯 <b>1796 Days</b>

Commands:
/today - dashboard
/goals - list goals
/goal [category] [title] | m1; m2 - add a goal
/entry [mood] [type] [title] | [content] #tags - write an entry
/journal [query] - search entries
/show [id] - open an entry or a goal
/delentry [id] - delete an entry
/delgoal [id] - delete a goal
/streak - current streak
/mood - mood over the last 7 days
/grid [weeks] - activity grid
/help - this help

Example:
/goal learning Learn Spanish | A1; A2; B1
/entry good journal First lesson | Learned greetings #spanish`

func bar(percent float64) string {
	const width = 10
	filled := min(width, max(0, int(percent/100*width)))
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

// formatDashboard экран /today
func formatDashboard(d services.Dashboard, p services.Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏳ <b>%d days remaining</b>\n", d.DaysRemaining)
	fmt.Fprintf(&b, "%s %.1f%%\n\n", bar(d.TimeProgress), d.TimeProgress)
	fmt.Fprintf(&b, "🔥 Streak: %d\n📝 Entries: %d (today %d)\n🎯 Goals: %d\n📅 Consistency: %d%%\n",
		d.Streak, d.TotalEntries, d.TodayEntries, d.ActiveGoals, d.Consistency)

	if len(d.Goals) > 0 {
		b.WriteString("\n<b>Goals</b>\n")
		for _, gp := range d.Goals {
			fmt.Fprintf(&b, "%s %s %d%%\n", utils.GetCategoryEmoji(gp.Goal.Category), html.EscapeString(gp.Goal.Title), gp.Goal.Progress)
		}
	}

	if d.TodayEntries == 0 {
		fmt.Fprintf(&b, "\n💡 <b>%s</b>: <i>%s</i>", html.EscapeString(p.Title), html.EscapeString(p.Hint))
	}
	return b.String()
}

// formatGoal карточка цели с вехами
func formatGoal(g database.Goal, contributions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", utils.GetCategoryEmoji(g.Category), html.EscapeString(g.Title))
	if g.Description != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(g.Description))
	}
	fmt.Fprintf(&b, "%s %d%%\n", bar(float64(g.Progress)), g.Progress)
	fmt.Fprintf(&b, "🗓 Target: %s\n📝 Entries: %d\n", g.TargetDate, contributions)
	if len(g.Milestones) > 0 {
		fmt.Fprintf(&b, "🏁 Milestones: %d/%d\n", g.CompletedMilestones(), len(g.Milestones))
	}
	fmt.Fprintf(&b, "<code>%s</code>", g.ID)
	return b.String()
}

// formatGoalList краткий список целей
func formatGoalList(goals []database.Goal) string {
	if len(goals) == 0 {
		return "📭 No goals yet. Add one with /goal"
	}
	var b strings.Builder
	b.WriteString("🎯 <b>Goals</b>\n\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "%s <b>%s</b> %d%%\n<code>%s</code>\n\n",
			utils.GetCategoryEmoji(g.Category), html.EscapeString(g.Title), g.Progress, g.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatEntry полная запись
func formatEntry(e database.JournalEntry, goals []database.Goal, now time.Time, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", utils.GetMoodEmoji(e.Mood), html.EscapeString(e.Title))
	fmt.Fprintf(&b, "<i>%s, %s</i>\n\n", utils.GetEntryTypeName(e.Type), utils.FormatRelativeDate(e.Date, now, loc))
	b.WriteString(html.EscapeString(e.Content))
	b.WriteString("\n")

	if len(e.Tags) > 0 {
		b.WriteString("\n")
		for _, t := range e.Tags {
			fmt.Fprintf(&b, "#%s ", html.EscapeString(t))
		}
		b.WriteString("\n")
	}
	if len(goals) > 0 {
		b.WriteString("\n🎯 ")
		titles := make([]string, len(goals))
		for i, g := range goals {
			titles[i] = html.EscapeString(g.Title)
		}
		b.WriteString(strings.Join(titles, ", "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n<code>%s</code>", e.ID)
	return b.String()
}

// formatJournal записи, сгруппированные по дням
func formatJournal(groups []services.DayGroup, now time.Time, loc *time.Location, limit int) string {
	if len(groups) == 0 {
		return "📭 No entries found. Write one with /entry"
	}
	var b strings.Builder
	shown := 0
	for _, g := range groups {
		if shown >= limit {
			break
		}
		fmt.Fprintf(&b, "📅 <b>%s</b>\n", utils.FormatRelativeDate(g.Date, now, loc))
		for _, e := range g.Entries {
			if shown >= limit {
				break
			}
			fmt.Fprintf(&b, "%s %s\n<code>%s</code>\n", utils.GetMoodEmoji(e.Mood), html.EscapeString(e.Title), e.ID)
			shown++
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatMood сводка настроения
func formatMood(s services.MoodSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💭 <b>Mood, last %d days</b>\n\n", s.Days)
	if s.Entries == 0 {
		b.WriteString(s.Label)
		return b.String()
	}
	fmt.Fprintf(&b, "%s (%.1f, %d entries)\n\n", s.Label, s.Average, s.Entries)
	for _, m := range database.Moods {
		fmt.Fprintf(&b, "%s %s: %d\n", utils.GetMoodEmoji(m), utils.GetMoodName(m), s.Distribution[m])
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatGrid сетка активности моноширинным блоком
func formatGrid(g services.ContributionGrid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Last %d weeks</b> (all time: %d days, %d entries)\n\n", g.Weeks, g.DaysWithEntries, g.TotalEntries)
	for _, row := range g.Rows {
		for _, c := range row {
			switch {
			case c.Future:
				b.WriteString("▫️")
			case c.Count > 0:
				b.WriteString(utils.GetMoodEmoji(c.Mood))
			default:
				b.WriteString("⬛")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
