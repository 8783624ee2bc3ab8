package services

import (
	"errors"
	"testing"
	"time"

	"journey/internal/database"

	"github.com/google/go-cmp/cmp"
)

func TestProgress(t *testing.T) {
	testCases := []struct {
		completed, total int
		want             int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
	}
	for _, tc := range testCases {
		if got := Progress(tc.completed, tc.total); got != tc.want {
			t.Errorf("Progress(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestBuildGoal(t *testing.T) {
	sequentialIDs(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	got, err := BuildGoal(GoalInput{
		Title:      "  Learn Spanish ",
		Category:   database.Learning,
		Milestones: []string{"A1", "  ", "A2"},
	}, now, "2031-01-01")
	if err != nil {
		t.Fatalf("BuildGoal() error = %v", err)
	}

	want := database.Goal{
		ID:         "id-3",
		Title:      "Learn Spanish",
		Category:   database.Learning,
		TargetDate: "2031-01-01",
		CreatedAt:  now,
		Milestones: []database.Milestone{
			{ID: "id-1", Title: "A1"},
			{ID: "id-2", Title: "A2"},
		},
		Color: database.GoalColors[0],
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildGoal() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGoalRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name string
		in   GoalInput
	}{
		{"empty title", GoalInput{Title: "   "}},
		{"unknown category", GoalInput{Title: "x", Category: "hobby"}},
		{"bad target date", GoalInput{Title: "x", TargetDate: "next year"}},
		{"bad color", GoalInput{Title: "x", Color: "green"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildGoal(tc.in, time.Now(), "2031-01-01"); !errors.Is(err, ErrInvalid) {
				t.Errorf("BuildGoal() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestToggleMilestoneRecomputesProgress(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	g := database.Goal{
		ID: "g",
		Milestones: []database.Milestone{
			{ID: "a", Title: "A"},
			{ID: "b", Title: "B"},
			{ID: "c", Title: "C"},
		},
	}

	g, err := ToggleMilestone(g, "b", now)
	if err != nil {
		t.Fatal(err)
	}
	if g.Progress != 33 {
		t.Errorf("Progress = %d, want 33", g.Progress)
	}
	if m := g.Milestones[1]; !m.Completed || m.CompletedAt == nil || !m.CompletedAt.Equal(now) {
		t.Errorf("milestone after toggle = %+v", m)
	}

	g, err = ToggleMilestone(g, "b", now)
	if err != nil {
		t.Fatal(err)
	}
	if g.Progress != 0 || g.Milestones[1].CompletedAt != nil {
		t.Errorf("after second toggle: progress %d, completedAt %v", g.Progress, g.Milestones[1].CompletedAt)
	}

	if _, err := ToggleMilestone(g, "missing", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleMilestone(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEditMilestonesMatchesByID(t *testing.T) {
	sequentialIDs(t)
	done := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	g := database.Goal{
		ID:       "g",
		Progress: 50,
		Milestones: []database.Milestone{
			{ID: "a", Title: "First", Completed: true, CompletedAt: &done},
			{ID: "b", Title: "Second"},
		},
	}

	// переименование, перестановка, удаление b и новая веха
	got, err := EditMilestones(g, []MilestoneDraft{
		{Title: "New"},
		{ID: "a", Title: "First, renamed"},
		{ID: "", Title: "   "},
	})
	if err != nil {
		t.Fatalf("EditMilestones() error = %v", err)
	}

	want := database.Goal{
		ID:       "g",
		Progress: 50,
		Milestones: []database.Milestone{
			{ID: "id-1", Title: "New"},
			{ID: "a", Title: "First, renamed", Completed: true, CompletedAt: &done},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EditMilestones() mismatch (-want +got):\n%s", diff)
	}

	if _, err := EditMilestones(g, []MilestoneDraft{{ID: "zzz", Title: "x"}}); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown id: error = %v, want ErrInvalid", err)
	}
	if _, err := EditMilestones(g, []MilestoneDraft{{ID: "a", Title: "x"}, {ID: "a", Title: "y"}}); !errors.Is(err, ErrInvalid) {
		t.Errorf("duplicate id: error = %v, want ErrInvalid", err)
	}
}

func TestEditMilestonesWithoutMilestones(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	testCases := []struct {
		name   string
		goal   func(t *testing.T) database.Goal
		drafts []MilestoneDraft
		want   int
	}{
		{
			name: "removing the last milestone resets derived progress",
			goal: func(t *testing.T) database.Goal {
				g := database.Goal{ID: "g", Milestones: []database.Milestone{{ID: "a", Title: "A"}}}
				g, err := ToggleMilestone(g, "a", now)
				if err != nil {
					t.Fatal(err)
				}
				if g.Progress != 100 {
					t.Fatalf("progress after toggle = %d, want 100", g.Progress)
				}
				return g
			},
			want: 0,
		},
		{
			name: "removing some milestones recomputes",
			goal: func(t *testing.T) database.Goal {
				return RecomputeProgress(database.Goal{ID: "g", Milestones: []database.Milestone{
					{ID: "a", Title: "A", Completed: true},
					{ID: "b", Title: "B"},
				}})
			},
			drafts: []MilestoneDraft{{ID: "a", Title: "A"}},
			want:   100,
		},
		{
			name: "manual progress survives an empty edit",
			goal: func(t *testing.T) database.Goal {
				g, err := SetProgress(database.Goal{ID: "g"}, 40)
				if err != nil {
					t.Fatal(err)
				}
				return g
			},
			want: 40,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EditMilestones(tc.goal(t), tc.drafts)
			if err != nil {
				t.Fatalf("EditMilestones() error = %v", err)
			}
			if got.Progress != tc.want {
				t.Errorf("Progress = %d, want %d", got.Progress, tc.want)
			}
		})
	}
}

func TestSetProgress(t *testing.T) {
	plain := database.Goal{ID: "g"}
	for in, want := range map[int]int{-5: 0, 42: 42, 250: 100} {
		got, err := SetProgress(plain, in)
		if err != nil {
			t.Fatalf("SetProgress(%d) error = %v", in, err)
		}
		if got.Progress != want {
			t.Errorf("SetProgress(%d) = %d, want %d", in, got.Progress, want)
		}
	}

	withMilestones := database.Goal{ID: "g", Milestones: []database.Milestone{{ID: "a"}}}
	if _, err := SetProgress(withMilestones, 10); !errors.Is(err, ErrInvalid) {
		t.Errorf("SetProgress() with milestones error = %v, want ErrInvalid", err)
	}
}

func TestDeleteGoalRemovesLinks(t *testing.T) {
	state := database.DefaultState()
	state.Goals = []database.Goal{{ID: "g1"}, {ID: "g2"}}
	e1 := entry("e1", "2025-01-01", database.Good, time.Time{})
	e1.LinkedGoals = []string{"g1", "g2"}
	e2 := entry("e2", "2025-01-02", database.Good, time.Time{})
	e2.LinkedGoals = []string{"g1"}
	state.Entries = []database.JournalEntry{e1, e2}

	got, err := DeleteGoal(state, "g1")
	if err != nil {
		t.Fatalf("DeleteGoal() error = %v", err)
	}

	if diff := cmp.Diff([]database.Goal{{ID: "g2"}}, got.Goals); diff != "" {
		t.Errorf("goals mismatch (-want +got):\n%s", diff)
	}
	for _, e := range got.Entries {
		if e.LinksGoal("g1") {
			t.Errorf("entry %s still links the deleted goal", e.ID)
		}
	}
	if diff := cmp.Diff([]string{"g2"}, got.Entries[0].LinkedGoals); diff != "" {
		t.Errorf("e1 links mismatch (-want +got):\n%s", diff)
	}
	// исходное состояние не изменилось
	if len(state.Entries[0].LinkedGoals) != 2 || len(state.Goals) != 2 {
		t.Error("DeleteGoal() modified its input")
	}

	if _, err := DeleteGoal(state, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGoal(nope) error = %v, want ErrNotFound", err)
	}
}

func TestGoalServiceFlow(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sm := newTestManager(t, now)

	goal, err := sm.Goal.Create(GoalInput{Title: "Ship the app", Category: database.Career, Milestones: []string{"MVP", "Beta"}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if goal.TargetDate != "2031-01-01" {
		t.Errorf("TargetDate = %q, want the journey target", goal.TargetDate)
	}

	goal, err = sm.Goal.ToggleMilestone(goal.ID, goal.Milestones[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if goal.Progress != 50 {
		t.Errorf("Progress = %d, want 50", goal.Progress)
	}

	title := "Ship it"
	goal, err = sm.Goal.Update(goal.ID, GoalPatch{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if goal.Title != title || goal.Progress != 50 {
		t.Errorf("Update() = %q %d%%", goal.Title, goal.Progress)
	}

	// состояние сохранено в репозиторий
	stored := sm.Repository().Load()
	if diff := cmp.Diff(sm.Store.State(), stored); diff != "" {
		t.Errorf("stored state mismatch (-memory +stored):\n%s", diff)
	}

	if err := sm.Goal.Delete(goal.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Goal.Get(goal.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}
