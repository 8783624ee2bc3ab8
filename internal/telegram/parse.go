package telegram

import (
	"fmt"
	"strings"

	"journey/internal/database"
	"journey/internal/services"
)

// commandArgs отрезает команду (с возможным @botname) и возвращает остаток
func commandArgs(text string) (string, string) {
	command, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	command, _, _ = strings.Cut(command, "@")
	return command, strings.TrimSpace(args)
}

// ParseGoalCommand разбирает "<category> <title> | m1; m2"
func ParseGoalCommand(args string) (services.GoalInput, error) {
	head, tail, _ := strings.Cut(args, "|")
	category, title, _ := strings.Cut(strings.TrimSpace(head), " ")

	in := services.GoalInput{
		Category: database.Category(strings.ToLower(category)),
		Title:    strings.TrimSpace(title),
	}
	if !database.ValidCategory(in.Category) {
		return in, fmt.Errorf("unknown category %q, use one of: %s", category, joinCategories())
	}
	if in.Title == "" {
		return in, fmt.Errorf("goal title is required")
	}
	for _, m := range strings.Split(tail, ";") {
		if m = strings.TrimSpace(m); m != "" {
			in.Milestones = append(in.Milestones, m)
		}
	}
	return in, nil
}

// ParseEntryCommand разбирает "<mood> <type> <title> | <content> #tag1 #tag2"
func ParseEntryCommand(args string) (services.EntryInput, error) {
	head, body, found := strings.Cut(args, "|")
	if !found {
		return services.EntryInput{}, fmt.Errorf("separate the title and the content with |")
	}

	fields := strings.Fields(head)
	if len(fields) < 3 {
		return services.EntryInput{}, fmt.Errorf("expected <mood> <type> <title>")
	}

	in := services.EntryInput{
		Mood:  database.Mood(strings.ToLower(fields[0])),
		Type:  database.EntryType(strings.ToLower(fields[1])),
		Title: strings.Join(fields[2:], " "),
	}
	if !database.ValidMood(in.Mood) {
		return in, fmt.Errorf("unknown mood %q, use one of: %s", fields[0], joinMoods())
	}
	if !database.ValidEntryType(in.Type) {
		return in, fmt.Errorf("unknown entry type %q, use journal, blog or reflection", fields[1])
	}

	var words, tags []string
	for _, w := range strings.Fields(body) {
		if tag, ok := strings.CutPrefix(w, "#"); ok && tag != "" {
			tags = append(tags, tag)
			continue
		}
		words = append(words, w)
	}
	in.Content = strings.Join(words, " ")
	in.Tags = services.NormalizeTags(tags)
	if in.Content == "" {
		return in, fmt.Errorf("entry content is required")
	}
	return in, nil
}

func joinCategories() string {
	names := make([]string, len(database.Categories))
	for i, c := range database.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func joinMoods() string {
	names := make([]string, len(database.Moods))
	for i, m := range database.Moods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

const (
	milestonePrefix = "ms:"
	// короткий префикс id вехи, чтобы callback data уложилась в 64 байта
	milestoneIDLen = 8
)

// milestoneCallback данные кнопки переключения вехи
func milestoneCallback(goalID, milestoneID string) string {
	if len(milestoneID) > milestoneIDLen {
		milestoneID = milestoneID[:milestoneIDLen]
	}
	return milestonePrefix + goalID + ":" + milestoneID
}

// parseMilestoneCallback обратная операция к milestoneCallback
func parseMilestoneCallback(data string) (goalID, idPrefix string, ok bool) {
	rest, ok := strings.CutPrefix(data, milestonePrefix)
	if !ok {
		return "", "", false
	}
	goalID, idPrefix, ok = strings.Cut(rest, ":")
	return goalID, idPrefix, ok && goalID != "" && idPrefix != ""
}

// resolveMilestone ищет веху цели по префиксу id
func resolveMilestone(g database.Goal, prefix string) (string, bool) {
	for _, m := range g.Milestones {
		if strings.HasPrefix(m.ID, prefix) {
			return m.ID, true
		}
	}
	return "", false
}
