package database

import (
	"strings"
	"time"
)

type Category string

const (
	Health        Category = "health"
	Career        Category = "career"
	Personal      Category = "personal"
	Financial     Category = "financial"
	Learning      Category = "learning"
	Relationships Category = "relationships"
)

// Categories перечисляет категории в порядке отображения
var Categories = []Category{Health, Career, Personal, Financial, Learning, Relationships}

var CategoryNames = map[Category]string{
	Health:        "Health & Fitness",
	Career:        "Career & Work",
	Personal:      "Personal Growth",
	Financial:     "Financial",
	Learning:      "Learning & Skills",
	Relationships: "Relationships",
}

var CategoryEmojis = map[Category]string{
	Health:        "💪",
	Career:        "💼",
	Personal:      "🌱",
	Financial:     "💰",
	Learning:      "📚",
	Relationships: "❤️",
}

type Mood string

const (
	Great    Mood = "great"
	Good     Mood = "good"
	Okay     Mood = "okay"
	Bad      Mood = "bad"
	Terrible Mood = "terrible"
)

var Moods = []Mood{Great, Good, Okay, Bad, Terrible}

var MoodNames = map[Mood]string{
	Great:    "Great",
	Good:     "Good",
	Okay:     "Okay",
	Bad:      "Bad",
	Terrible: "Terrible",
}

var MoodEmojis = map[Mood]string{
	Great:    "🌟",
	Good:     "😊",
	Okay:     "😐",
	Bad:      "😔",
	Terrible: "😢",
}

// MoodScores числовая оценка настроения: 5 лучшее, 1 худшее
var MoodScores = map[Mood]int{
	Great:    5,
	Good:     4,
	Okay:     3,
	Bad:      2,
	Terrible: 1,
}

type EntryType string

const (
	Journal    EntryType = "journal"
	Blog       EntryType = "blog"
	Reflection EntryType = "reflection"
)

var EntryTypes = []EntryType{Journal, Blog, Reflection}

var EntryTypeNames = map[EntryType]string{
	Journal:    "Daily Journal",
	Blog:       "Blog Post",
	Reflection: "Reflection",
}

var EntryTypeDescriptions = map[EntryType]string{
	Journal:    "Quick daily check-in",
	Blog:       "Longer form writing",
	Reflection: "Deep thoughts on progress",
}

// GoalColors палитра цветов целей, первый цвет используется по умолчанию
var GoalColors = []string{
	"#ef4444",
	"#f97316",
	"#eab308",
	"#22c55e",
	"#14b8a6",
	"#0ea5e9",
	"#6366f1",
	"#a855f7",
	"#ec4899",
}

type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	TargetDate  string      `json:"targetDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	Progress    int         `json:"progress"` // 0-100
	Milestones  []Milestone `json:"milestones"`
	Color       string      `json:"color"`
}

// CompletedMilestones возвращает количество выполненных вех
func (g Goal) CompletedMilestones() int {
	n := 0
	for _, m := range g.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}

type JournalEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	Mood        Mood      `json:"mood"`
	LinkedGoals []string  `json:"linkedGoals"`
	Tags        []string  `json:"tags"`
	Type        EntryType `json:"type"`
}

// Day возвращает календарный день записи в формате 2006-01-02
func (e JournalEntry) Day() string {
	day, _, _ := strings.Cut(e.Date, "T")
	return day
}

// LinksGoal проверяет, привязана ли запись к цели
func (e JournalEntry) LinksGoal(goalID string) bool {
	for _, id := range e.LinkedGoals {
		if id == goalID {
			return true
		}
	}
	return false
}

// DayProgress объявлен в формате хранения, но не вычисляется
type DayProgress struct {
	Date           string   `json:"date"`
	JournalEntries int      `json:"journalEntries"`
	GoalsWorkedOn  []string `json:"goalsWorkedOn"`
	OverallMood    Mood     `json:"overallMood,omitempty"`
}

type AppState struct {
	Version     int            `json:"version"`
	Goals       []Goal         `json:"goals"`
	Entries     []JournalEntry `json:"entries"`
	DayProgress []DayProgress  `json:"dayProgress"`
}

// DefaultState пустое состояние, которое подставляется при любой ошибке чтения
func DefaultState() AppState {
	return AppState{
		Version:     SchemaVersion,
		Goals:       []Goal{},
		Entries:     []JournalEntry{},
		DayProgress: []DayProgress{},
	}
}

// FindGoal возвращает индекс цели или -1
func (s AppState) FindGoal(id string) int {
	for i, g := range s.Goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// FindEntry возвращает индекс записи или -1
func (s AppState) FindEntry(id string) int {
	for i, e := range s.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func ValidCategory(c Category) bool {
	_, ok := CategoryNames[c]
	return ok
}

func ValidMood(m Mood) bool {
	_, ok := MoodScores[m]
	return ok
}

func ValidEntryType(t EntryType) bool {
	_, ok := EntryTypeNames[t]
	return ok
}
