package services

import (
	"slices"
	"strings"
	"time"

	"journey/internal/database"
	"journey/internal/utils"
)

// EntryInput данные формы новой записи
type EntryInput struct {
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Date        string             `json:"date"`
	Mood        database.Mood      `json:"mood"`
	Type        database.EntryType `json:"type"`
	LinkedGoals []string           `json:"linkedGoals"`
	Tags        []string           `json:"tags"`
}

// EntryPatch частичное обновление записи. nil поля не меняются
type EntryPatch struct {
	Title       *string             `json:"title,omitempty"`
	Content     *string             `json:"content,omitempty"`
	Date        *string             `json:"date,omitempty"`
	Mood        *database.Mood      `json:"mood,omitempty"`
	Type        *database.EntryType `json:"type,omitempty"`
	LinkedGoals *[]string           `json:"linkedGoals,omitempty"`
	Tags        *[]string           `json:"tags,omitempty"`
}

// ParseTags разбирает строку тегов через запятую
func ParseTags(input string) []string {
	return NormalizeTags(strings.Split(input, ","))
}

// NormalizeTags обрезает пробелы, приводит к нижнему регистру и убирает пустые и повторы
func NormalizeTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// linkGoals оставляет только существующие цели без повторов
func linkGoals(state database.AppState, ids []string) []string {
	out := []string{}
	for _, id := range ids {
		if state.FindGoal(id) >= 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// BuildEntry проверяет форму и собирает новую запись
func BuildEntry(state database.AppState, in EntryInput, now time.Time, loc *time.Location) (database.JournalEntry, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return database.JournalEntry{}, invalid("entry title and content are required")
	}

	mood := in.Mood
	if mood == "" {
		mood = database.Okay
	}
	if !database.ValidMood(mood) {
		return database.JournalEntry{}, invalid("unknown mood %q", mood)
	}

	entryType := in.Type
	if entryType == "" {
		entryType = database.Journal
	}
	if !database.ValidEntryType(entryType) {
		return database.JournalEntry{}, invalid("unknown entry type %q", entryType)
	}

	day := in.Date
	if strings.TrimSpace(day) == "" {
		day = utils.DayKey(now, loc)
	}
	date, err := utils.EntryDate(day, loc)
	if err != nil {
		return database.JournalEntry{}, invalid("%v", err)
	}

	return database.JournalEntry{
		ID:          newID(),
		Title:       title,
		Content:     content,
		Date:        date,
		CreatedAt:   now,
		Mood:        mood,
		LinkedGoals: linkGoals(state, in.LinkedGoals),
		Tags:        NormalizeTags(in.Tags),
		Type:        entryType,
	}, nil
}

// AddEntry вставляет запись в начало списка, новые записи идут первыми
func AddEntry(state database.AppState, entry database.JournalEntry) database.AppState {
	entries := make([]database.JournalEntry, 0, len(state.Entries)+1)
	entries = append(entries, entry)
	state.Entries = append(entries, state.Entries...)
	return state
}

// UpdateEntry сливает частичное обновление с записью
func UpdateEntry(state database.AppState, id string, p EntryPatch, loc *time.Location) (database.AppState, error) {
	i := state.FindEntry(id)
	if i < 0 {
		return state, notFound("entry", id)
	}
	e := state.Entries[i]

	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		e.Content = strings.TrimSpace(*p.Content)
	}
	if e.Title == "" || e.Content == "" {
		return state, invalid("entry title and content are required")
	}
	if p.Date != nil {
		date, err := utils.EntryDate(*p.Date, loc)
		if err != nil {
			return state, invalid("%v", err)
		}
		e.Date = date
	}
	if p.Mood != nil {
		if !database.ValidMood(*p.Mood) {
			return state, invalid("unknown mood %q", *p.Mood)
		}
		e.Mood = *p.Mood
	}
	if p.Type != nil {
		if !database.ValidEntryType(*p.Type) {
			return state, invalid("unknown entry type %q", *p.Type)
		}
		e.Type = *p.Type
	}
	if p.LinkedGoals != nil {
		e.LinkedGoals = linkGoals(state, *p.LinkedGoals)
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}

	entries := slices.Clone(state.Entries)
	entries[i] = e
	state.Entries = entries
	return state, nil
}

// DeleteEntry удаляет запись. Цели не затрагиваются
func DeleteEntry(state database.AppState, id string) (database.AppState, error) {
	i := state.FindEntry(id)
	if i < 0 {
		return state, notFound("entry", id)
	}
	entries := make([]database.JournalEntry, 0, len(state.Entries)-1)
	entries = append(entries, state.Entries[:i]...)
	state.Entries = append(entries, state.Entries[i+1:]...)
	return state, nil
}

// EntryService операции над записями журнала поверх хранилища
type EntryService struct {
	store *Store
	clock func() time.Time
	loc   *time.Location
}

func NewEntryService(store *Store, clock func() time.Time, loc *time.Location) *EntryService {
	return &EntryService{
		store: store,
		clock: clock,
		loc:   loc,
	}
}

func (es *EntryService) Create(in EntryInput) (database.JournalEntry, error) {
	var entry database.JournalEntry
	_, err := es.store.Mutate(func(s database.AppState) (database.AppState, error) {
		e, err := BuildEntry(s, in, es.clock(), es.loc)
		if err != nil {
			return s, err
		}
		entry = e
		return AddEntry(s, e), nil
	})
	return entry, err
}

func (es *EntryService) Get(id string) (database.JournalEntry, error) {
	state := es.store.State()
	i := state.FindEntry(id)
	if i < 0 {
		return database.JournalEntry{}, notFound("entry", id)
	}
	return state.Entries[i], nil
}

func (es *EntryService) List(filter EntryFilter) []database.JournalEntry {
	return FilterEntries(es.store.State().Entries, filter)
}

func (es *EntryService) Update(id string, patch EntryPatch) (database.JournalEntry, error) {
	state, err := es.store.Mutate(func(s database.AppState) (database.AppState, error) {
		return UpdateEntry(s, id, patch, es.loc)
	})
	if err != nil {
		return database.JournalEntry{}, err
	}
	return state.Entries[state.FindEntry(id)], nil
}

func (es *EntryService) Delete(id string) error {
	_, err := es.store.Mutate(func(s database.AppState) (database.AppState, error) {
		return DeleteEntry(s, id)
	})
	return err
}

// LinkedGoals возвращает цели, к которым привязана запись, в порядке списка целей
func (es *EntryService) LinkedGoals(e database.JournalEntry) []database.Goal {
	var goals []database.Goal
	for _, g := range es.store.State().Goals {
		if e.LinksGoal(g.ID) {
			goals = append(goals, g)
		}
	}
	return goals
}
