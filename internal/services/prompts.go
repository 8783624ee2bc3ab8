package services

import (
	"time"

	"journey/internal/database"
)

// Prompt подсказка, о чём написать сегодня
type Prompt struct {
	Type  database.EntryType `json:"type"`
	Title string             `json:"title"`
	Hint  string             `json:"hint"`
}

// DailyPrompt план записи на день недели
func DailyPrompt(weekday time.Weekday) Prompt {
	switch weekday {
	case time.Sunday:
		return Prompt{
			Type:  database.Reflection,
			Title: "Weekly review",
			Hint:  "What moved your goals forward this week, and what will you change next week?",
		}
	case time.Saturday:
		return Prompt{
			Type:  database.Blog,
			Title: "Share a lesson",
			Hint:  "Write up one thing you learned this week as if explaining it to a friend.",
		}
	case time.Monday:
		return Prompt{
			Type:  database.Journal,
			Title: "Plan the week",
			Hint:  "Pick one milestone to push forward and the first concrete step.",
		}
	case time.Wednesday:
		return Prompt{
			Type:  database.Reflection,
			Title: "Midweek check-in",
			Hint:  "How is your energy? Is the plan from Monday still realistic?",
		}
	default:
		return Prompt{
			Type:  database.Journal,
			Title: "Daily log",
			Hint:  "What did you do today, and how did it feel?",
		}
	}
}

// PromptFor подсказка для дня, на который приходится now
func PromptFor(now time.Time, loc *time.Location) Prompt {
	return DailyPrompt(now.In(loc).Weekday())
}
