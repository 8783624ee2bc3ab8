package services

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"journey/internal/database"
	"journey/internal/utils"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// GoalInput данные формы создания цели
type GoalInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    database.Category `json:"category"`
	TargetDate  string            `json:"targetDate"`
	Color       string            `json:"color"`
	Milestones  []string          `json:"milestones"`
}

// GoalPatch частичное обновление цели. nil поля не меняются
type GoalPatch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Category    *database.Category `json:"category,omitempty"`
	TargetDate  *string            `json:"targetDate,omitempty"`
	Color       *string            `json:"color,omitempty"`
}

// MilestoneDraft веха из формы редактирования. Пустой ID означает новую веху
type MilestoneDraft struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

// Progress процент выполненных вех, round(100*completed/total)
func Progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// RecomputeProgress пересчитывает прогресс по вехам. Для цели без вех прогресс не трогается
func RecomputeProgress(g database.Goal) database.Goal {
	if len(g.Milestones) > 0 {
		g.Progress = Progress(g.CompletedMilestones(), len(g.Milestones))
	}
	return g
}

// BuildGoal проверяет форму и собирает новую цель
func BuildGoal(in GoalInput, now time.Time, defaultTarget string) (database.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return database.Goal{}, invalid("goal title is required")
	}

	category := in.Category
	if category == "" {
		category = database.Personal
	}
	if !database.ValidCategory(category) {
		return database.Goal{}, invalid("unknown category %q", category)
	}

	target := strings.TrimSpace(in.TargetDate)
	if target == "" {
		target = defaultTarget
	}
	if _, err := time.Parse(utils.DayFormat, target); err != nil {
		return database.Goal{}, invalid("target date %q must be %s", target, utils.DayFormat)
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = database.GoalColors[0]
	}
	if !colorPattern.MatchString(color) {
		return database.Goal{}, invalid("color %q must be a hex value like #22c55e", color)
	}

	milestones := []database.Milestone{}
	for _, m := range in.Milestones {
		if t := strings.TrimSpace(m); t != "" {
			milestones = append(milestones, database.Milestone{ID: newID(), Title: t})
		}
	}

	return database.Goal{
		ID:          newID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		TargetDate:  target,
		CreatedAt:   now,
		Progress:    0,
		Milestones:  milestones,
		Color:       color,
	}, nil
}

// AddGoal добавляет цель в конец списка
func AddGoal(state database.AppState, goal database.Goal) database.AppState {
	state.Goals = append(slices.Clip(state.Goals), goal)
	return state
}

// UpdateGoal применяет fn к копии цели с данным id
func UpdateGoal(state database.AppState, id string, fn func(database.Goal) (database.Goal, error)) (database.AppState, error) {
	i := state.FindGoal(id)
	if i < 0 {
		return state, notFound("goal", id)
	}
	updated, err := fn(state.Goals[i])
	if err != nil {
		return state, err
	}
	updated.ID = id

	goals := slices.Clone(state.Goals)
	goals[i] = updated
	state.Goals = goals
	return state, nil
}

// ApplyGoalPatch сливает частичное обновление с целью. Прогресс и вехи не меняются
func ApplyGoalPatch(g database.Goal, p GoalPatch) (database.Goal, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return g, invalid("goal title is required")
		}
		g.Title = title
	}
	if p.Description != nil {
		g.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		if !database.ValidCategory(*p.Category) {
			return g, invalid("unknown category %q", *p.Category)
		}
		g.Category = *p.Category
	}
	if p.TargetDate != nil {
		if _, err := time.Parse(utils.DayFormat, *p.TargetDate); err != nil {
			return g, invalid("target date %q must be %s", *p.TargetDate, utils.DayFormat)
		}
		g.TargetDate = *p.TargetDate
	}
	if p.Color != nil {
		if !colorPattern.MatchString(*p.Color) {
			return g, invalid("color %q must be a hex value like #22c55e", *p.Color)
		}
		g.Color = *p.Color
	}
	return g, nil
}

// DeleteGoal удаляет цель вместе с вехами и вычищает её id из всех записей
func DeleteGoal(state database.AppState, id string) (database.AppState, error) {
	i := state.FindGoal(id)
	if i < 0 {
		return state, notFound("goal", id)
	}

	goals := make([]database.Goal, 0, len(state.Goals)-1)
	goals = append(goals, state.Goals[:i]...)
	goals = append(goals, state.Goals[i+1:]...)

	entries := make([]database.JournalEntry, len(state.Entries))
	for j, e := range state.Entries {
		if e.LinksGoal(id) {
			e.LinkedGoals = slices.DeleteFunc(slices.Clone(e.LinkedGoals), func(g string) bool { return g == id })
		}
		entries[j] = e
	}

	state.Goals = goals
	state.Entries = entries
	return state, nil
}

// ToggleMilestone переключает выполнение вехи и пересчитывает прогресс
func ToggleMilestone(g database.Goal, milestoneID string, now time.Time) (database.Goal, error) {
	i := slices.IndexFunc(g.Milestones, func(m database.Milestone) bool { return m.ID == milestoneID })
	if i < 0 {
		return g, notFound("milestone", milestoneID)
	}

	milestones := slices.Clone(g.Milestones)
	m := milestones[i]
	m.Completed = !m.Completed
	if m.Completed {
		at := now
		m.CompletedAt = &at
	} else {
		m.CompletedAt = nil
	}
	milestones[i] = m

	g.Milestones = milestones
	return RecomputeProgress(g), nil
}

// EditMilestones заменяет список вех. Существующие вехи сопоставляются только по id,
// поэтому отметка о выполнении сохраняется при переименовании и перестановке
func EditMilestones(g database.Goal, drafts []MilestoneDraft) (database.Goal, error) {
	existing := make(map[string]database.Milestone, len(g.Milestones))
	for _, m := range g.Milestones {
		existing[m.ID] = m
	}

	seen := make(map[string]bool)
	milestones := []database.Milestone{}
	for _, d := range drafts {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}
		if d.ID == "" {
			milestones = append(milestones, database.Milestone{ID: newID(), Title: title})
			continue
		}
		m, ok := existing[d.ID]
		if !ok {
			return g, invalid("milestone %q does not belong to goal %q", d.ID, g.ID)
		}
		if seen[d.ID] {
			return g, invalid("milestone %q listed twice", d.ID)
		}
		seen[d.ID] = true
		m.Title = title
		milestones = append(milestones, m)
	}

	hadMilestones := len(g.Milestones) > 0
	g.Milestones = milestones
	if hadMilestones && len(milestones) == 0 {
		// прогресс был производным от вех, ручного значения у цели нет
		g.Progress = 0
		return g, nil
	}
	return RecomputeProgress(g), nil
}

// SetProgress ручная установка прогресса, разрешена только для целей без вех
func SetProgress(g database.Goal, progress int) (database.Goal, error) {
	if len(g.Milestones) > 0 {
		return g, invalid("progress of goal %q is derived from its milestones", g.ID)
	}
	g.Progress = min(100, max(0, progress))
	return g, nil
}

// GoalService операции над целями поверх хранилища
type GoalService struct {
	store         *Store
	clock         func() time.Time
	defaultTarget string
}

func NewGoalService(store *Store, clock func() time.Time, defaultTarget string) *GoalService {
	return &GoalService{
		store:         store,
		clock:         clock,
		defaultTarget: defaultTarget,
	}
}

func (gs *GoalService) Create(in GoalInput) (database.Goal, error) {
	goal, err := BuildGoal(in, gs.clock(), gs.defaultTarget)
	if err != nil {
		return database.Goal{}, err
	}
	_, err = gs.store.Mutate(func(s database.AppState) (database.AppState, error) {
		return AddGoal(s, goal), nil
	})
	return goal, err
}

func (gs *GoalService) Get(id string) (database.Goal, error) {
	state := gs.store.State()
	i := state.FindGoal(id)
	if i < 0 {
		return database.Goal{}, notFound("goal", id)
	}
	return state.Goals[i], nil
}

func (gs *GoalService) List(filter GoalFilter) []database.Goal {
	return FilterGoals(gs.store.State().Goals, filter)
}

func (gs *GoalService) Update(id string, patch GoalPatch) (database.Goal, error) {
	return gs.update(id, func(g database.Goal) (database.Goal, error) {
		return ApplyGoalPatch(g, patch)
	})
}

func (gs *GoalService) Delete(id string) error {
	_, err := gs.store.Mutate(func(s database.AppState) (database.AppState, error) {
		return DeleteGoal(s, id)
	})
	return err
}

func (gs *GoalService) ToggleMilestone(goalID, milestoneID string) (database.Goal, error) {
	now := gs.clock()
	return gs.update(goalID, func(g database.Goal) (database.Goal, error) {
		return ToggleMilestone(g, milestoneID, now)
	})
}

func (gs *GoalService) EditMilestones(goalID string, drafts []MilestoneDraft) (database.Goal, error) {
	return gs.update(goalID, func(g database.Goal) (database.Goal, error) {
		return EditMilestones(g, drafts)
	})
}

func (gs *GoalService) SetProgress(goalID string, progress int) (database.Goal, error) {
	return gs.update(goalID, func(g database.Goal) (database.Goal, error) {
		return SetProgress(g, progress)
	})
}

func (gs *GoalService) update(id string, fn func(database.Goal) (database.Goal, error)) (database.Goal, error) {
	state, err := gs.store.Mutate(func(s database.AppState) (database.AppState, error) {
		return UpdateGoal(s, id, fn)
	})
	if err != nil {
		return database.Goal{}, err
	}
	return state.Goals[state.FindGoal(id)], nil
}
