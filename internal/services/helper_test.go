package services

import (
	"fmt"
	"testing"
	"time"

	"journey/internal/database"
)

// fixedClock возвращает часы, которые всегда показывают t
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// sequentialIDs подменяет генератор id на id-1, id-2, ... на время теста
func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	prev := newID
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

// entry собирает запись на день day с настроением mood
func entry(id, day string, mood database.Mood, createdAt time.Time) database.JournalEntry {
	return database.JournalEntry{
		ID:          id,
		Title:       "title " + id,
		Content:     "content " + id,
		Date:        day + "T00:00:00.000Z",
		CreatedAt:   createdAt,
		Mood:        mood,
		LinkedGoals: []string{},
		Tags:        []string{},
		Type:        database.Journal,
	}
}

func newTestManager(t *testing.T, now time.Time) *ServiceManager {
	t.Helper()
	sequentialIDs(t)
	repo := database.NewRepository(database.NewMemorySlot(), "")
	return NewServiceManager(repo, DefaultJourney(time.UTC), fixedClock(now))
}
