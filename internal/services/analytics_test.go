package services

import (
	"testing"
	"time"

	"journey/internal/database"

	"github.com/google/go-cmp/cmp"
)

func TestTimeProgress(t *testing.T) {
	target := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		name          string
		now           time.Time
		wantRemaining int
		wantProgress  float64
	}{
		{"start of journey", target.AddDate(0, 0, -1796), 1796, 0},
		{"half a day before target", target.Add(-12 * time.Hour), 1, 100 * 1795.0 / 1796},
		{"target reached", target, 0, 100},
		{"after target", target.AddDate(0, 0, 10), -10, 100},
		{"before start", target.AddDate(0, 0, -2000), 2000, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			remaining := DaysRemaining(target, tc.now)
			if remaining != tc.wantRemaining {
				t.Errorf("DaysRemaining() = %d, want %d", remaining, tc.wantRemaining)
			}
			if got := TimeProgress(remaining, 1796); got != tc.wantProgress {
				t.Errorf("TimeProgress(%d) = %v, want %v", remaining, got, tc.wantProgress)
			}
		})
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 21, 0, 0, 0, time.UTC)
	days := func(ds ...string) []database.JournalEntry {
		var out []database.JournalEntry
		for i, d := range ds {
			out = append(out, entry(string(rune('a'+i)), d, database.Good, now))
		}
		return out
	}

	testCases := []struct {
		name    string
		entries []database.JournalEntry
		want    int
	}{
		{"no entries", nil, 0},
		{"today only", days("2025-06-10"), 1},
		{"three days ending today", days("2025-06-10", "2025-06-09", "2025-06-08"), 3},
		{"duplicates on one day count once", days("2025-06-10", "2025-06-10", "2025-06-09"), 2},
		{"grace: today empty, yesterday written", days("2025-06-09", "2025-06-08"), 2},
		{"gap breaks the streak", days("2025-06-10", "2025-06-08", "2025-06-07"), 1},
		{"last entry two days ago", days("2025-06-08"), 0},
		{"future entries are ignored", days("2025-06-11"), 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(tc.entries, now, time.UTC); got != tc.want {
				t.Errorf("Streak() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMoodLabel(t *testing.T) {
	testCases := []struct {
		avg  float64
		ok   bool
		want string
	}{
		{0, false, "No data"},
		{5, true, "Great"},
		{4.5, true, "Great"},
		{4.49, true, "Good"},
		{3.5, true, "Good"},
		{3, true, "Okay"},
		{2.5, true, "Okay"},
		{2, true, "Bad"},
		{1.49, true, "Terrible"},
	}
	for _, tc := range testCases {
		if got := MoodLabel(tc.avg, tc.ok); got != tc.want {
			t.Errorf("MoodLabel(%v, %v) = %q, want %q", tc.avg, tc.ok, got, tc.want)
		}
	}
}

func TestSummarizeMood(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	entries := []database.JournalEntry{
		entry("a", "2025-06-10", database.Great, now),
		entry("b", "2025-06-07", database.Bad, now),
		entry("c", "2025-06-04", database.Good, now), // первый день окна
		entry("d", "2025-06-03", database.Terrible, now),
	}

	got := SummarizeMood(entries, now, time.UTC, 7)
	want := MoodSummary{
		Days:    7,
		Entries: 3,
		Average: (5.0 + 2 + 4) / 3,
		Label:   "Good",
		Distribution: map[database.Mood]int{
			database.Great: 1, database.Good: 1, database.Okay: 0, database.Bad: 1, database.Terrible: 0,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SummarizeMood() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildContributionGrid(t *testing.T) {
	// среда
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	morning := time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 11, 20, 0, 0, 0, time.UTC)
	entries := []database.JournalEntry{
		entry("late", "2025-06-11", database.Great, evening),
		entry("early", "2025-06-11", database.Bad, morning),
		entry("sun", "2025-05-25", database.Okay, morning),
		entry("old", "2025-05-24", database.Good, morning),
	}

	grid := BuildContributionGrid(entries, now, time.UTC, 4, MoodOfLatest)

	if grid.Len() != 28 {
		t.Fatalf("Len() = %d, want 28", grid.Len())
	}
	if first := grid.Cell(time.Sunday, 0); first.Date != "2025-05-18" {
		t.Errorf("first cell = %s, want 2025-05-18", first.Date)
	}

	today := grid.Cell(time.Wednesday, 3)
	wantToday := GridCell{Date: "2025-06-11", Count: 2, Mood: database.Great, Level: 2, Today: true}
	if diff := cmp.Diff(wantToday, today); diff != "" {
		t.Errorf("today cell mismatch (-want +got):\n%s", diff)
	}

	for _, wd := range []time.Weekday{time.Thursday, time.Friday, time.Saturday} {
		c := grid.Cell(wd, 3)
		if !c.Future || c.Count != 0 || c.Mood != "" || c.Level != 0 {
			t.Errorf("cell %s = %+v, want empty future cell", c.Date, c)
		}
	}
	if c := grid.Cell(time.Sunday, 1); c.Count != 1 || c.Mood != database.Okay || c.Level != 1 {
		t.Errorf("cell %s = %+v", c.Date, c)
	}
	if grid.DaysWithEntries != 3 || grid.TotalEntries != 4 {
		t.Errorf("totals = %d days, %d entries; want 3, 4", grid.DaysWithEntries, grid.TotalEntries)
	}

	earliest := BuildContributionGrid(entries, now, time.UTC, 4, MoodOfEarliest)
	if m := earliest.Cell(time.Wednesday, 3).Mood; m != database.Bad {
		t.Errorf("MoodOfEarliest today mood = %q, want bad", m)
	}

	wantMonths := []MonthLabel{{Label: "May", Col: 0}, {Label: "Jun", Col: 2}}
	if diff := cmp.Diff(wantMonths, grid.Months); diff != "" {
		t.Errorf("Months mismatch (-want +got):\n%s", diff)
	}
}

func TestContributionGridTotalsCoverAllEntries(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	entries := []database.JournalEntry{
		entry("in", "2025-06-10", database.Good, now),
		entry("old", "2024-01-15", database.Bad, now),
		entry("old2", "2024-01-15", database.Okay, now),
	}

	grid := BuildContributionGrid(entries, now, time.UTC, 4, MoodOfLatest)
	if grid.DaysWithEntries != 2 || grid.TotalEntries != 3 {
		t.Errorf("totals = %d days, %d entries; want 2, 3", grid.DaysWithEntries, grid.TotalEntries)
	}
	if c := grid.Cell(time.Tuesday, 3); c.Count != 1 {
		t.Errorf("cell %s count = %d, want 1", c.Date, c.Count)
	}

	empty := BuildContributionGrid(entries, now, time.UTC, 0, MoodOfLatest)
	if empty.Len() != 0 || empty.TotalEntries != 3 {
		t.Errorf("zero-week grid = %d cells, %d entries", empty.Len(), empty.TotalEntries)
	}
}

func TestActivityLevel(t *testing.T) {
	for count, want := range map[int]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 3, 5: 4, 12: 4} {
		if got := ActivityLevel(count); got != want {
			t.Errorf("ActivityLevel(%d) = %d, want %d", count, got, want)
		}
	}
}

func TestBuildTimeline(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	entries := []database.JournalEntry{entry("a", "2025-02-28", database.Good, now)}

	months := BuildTimeline(entries, now, time.UTC, 2)
	if len(months) != 2 {
		t.Fatalf("len = %d, want 2", len(months))
	}
	if months[0].Month != "February 2025" || len(months[0].Days) != 28 {
		t.Errorf("first month = %s with %d days", months[0].Month, len(months[0].Days))
	}
	if last := months[0].Days[27]; !last.HasEntry || last.Mood != database.Good {
		t.Errorf("2025-02-28 = %+v", last)
	}
	if months[1].Month != "March 2025" || len(months[1].Days) != 31 {
		t.Errorf("second month = %s with %d days", months[1].Month, len(months[1].Days))
	}
}

func TestFilterEntries(t *testing.T) {
	now := time.Now()
	a := entry("a", "2025-01-01", database.Good, now)
	a.Title = "Morning Run"
	a.Tags = []string{"fitness"}
	a.LinkedGoals = []string{"g1"}
	b := entry("b", "2025-01-02", database.Bad, now)
	b.Content = "Spent the day on FITNESS plans"
	b.Type = database.Reflection
	c := entry("c", "2025-01-02", database.Good, now)
	c.Tags = []string{"reading"}
	entries := []database.JournalEntry{a, b, c}

	ids := func(es []database.JournalEntry) []string {
		out := []string{}
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	testCases := []struct {
		name   string
		filter EntryFilter
		want   []string
	}{
		{"no filter", EntryFilter{}, []string{"a", "b", "c"}},
		{"text in tag and content", EntryFilter{Query: "Fitness"}, []string{"a", "b"}},
		{"text in tag only", EntryFilter{Query: "READ"}, []string{"c"}},
		{"mood", EntryFilter{Mood: database.Good}, []string{"a", "c"}},
		{"type", EntryFilter{Type: database.Reflection}, []string{"b"}},
		{"goal", EntryFilter{GoalID: "g1"}, []string{"a"}},
		{"combined", EntryFilter{Mood: database.Good, Query: "fitness"}, []string{"a"}},
		{"no match", EntryFilter{Query: "swimming"}, []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ids(FilterEntries(entries, tc.filter))); diff != "" {
				t.Errorf("FilterEntries() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	groups := GroupEntriesByDate(entries)
	if len(groups) != 2 || groups[0].Date != "2025-01-02" || len(groups[0].Entries) != 2 {
		t.Errorf("GroupEntriesByDate() = %+v", groups)
	}
}

func TestAnalyticsServiceDashboardCache(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	sm := newTestManager(t, now)

	if d := sm.Analytics.Dashboard(); d.TotalEntries != 0 || d.Streak != 0 {
		t.Fatalf("empty dashboard = %+v", d)
	}

	if _, err := sm.Entry.Create(EntryInput{Title: "Hello", Content: "First entry"}); err != nil {
		t.Fatal(err)
	}

	d := sm.Analytics.Dashboard()
	if d.TotalEntries != 1 || d.TodayEntries != 1 || d.Streak != 1 {
		t.Errorf("dashboard after create = %+v", d)
	}
	if d.Today != "2025-06-10" {
		t.Errorf("Today = %q", d.Today)
	}
	if d.WeeklyMood.Label != "Okay" {
		t.Errorf("WeeklyMood.Label = %q, want Okay (default mood)", d.WeeklyMood.Label)
	}
}
