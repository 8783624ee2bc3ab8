package services

import (
	"sort"
	"strings"

	"journey/internal/database"
)

// EntryFilter пустые поля не ограничивают выборку
type EntryFilter struct {
	Type   database.EntryType
	Mood   database.Mood
	GoalID string
	Query  string
}

type GoalFilter struct {
	Category database.Category
	Query    string
}

// FilterEntries фильтрует записи по типу, настроению, цели и подстроке в заголовке, тексте или тегах без учёта регистра
func FilterEntries(entries []database.JournalEntry, f EntryFilter) []database.JournalEntry {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []database.JournalEntry{}
	for _, e := range entries {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Mood != "" && e.Mood != f.Mood {
			continue
		}
		if f.GoalID != "" && !e.LinksGoal(f.GoalID) {
			continue
		}
		if q != "" && !entryMatches(e, q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func entryMatches(e database.JournalEntry, q string) bool {
	if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Content), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// FilterGoals фильтрует цели по категории и подстроке в заголовке или описании
func FilterGoals(goals []database.Goal, f GoalFilter) []database.Goal {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []database.Goal{}
	for _, g := range goals {
		if f.Category != "" && g.Category != f.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(g.Title), q) &&
			!strings.Contains(strings.ToLower(g.Description), q) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// DayGroup записи одного календарного дня
type DayGroup struct {
	Date    string                  `json:"date"`
	Entries []database.JournalEntry `json:"entries"`
}

// GroupEntriesByDate группирует записи по дню, свежие дни первыми. Порядок внутри дня сохраняется
func GroupEntriesByDate(entries []database.JournalEntry) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup
	for _, e := range entries {
		day := e.Day()
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Date: day})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}
