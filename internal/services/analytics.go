package services

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"journey/internal/database"
	"journey/internal/utils"
)

// Journey параметры отсчёта: целевая дата и полная длина пути в днях
type Journey struct {
	Target    time.Time
	TotalDays int
	Location  *time.Location
}

// DefaultJourney 1796 дней до 1 января 2031
func DefaultJourney(loc *time.Location) Journey {
	return Journey{
		Target:    time.Date(2031, 1, 1, 0, 0, 0, 0, loc),
		TotalDays: 1796,
		Location:  loc,
	}
}

// DaysRemaining ceil((target - now) / 1 день)
func DaysRemaining(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// TimeProgress доля пройденного пути в процентах, ограничена 0..100
func TimeProgress(daysRemaining, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	p := 100 * float64(totalDays-daysRemaining) / float64(totalDays)
	return math.Max(0, math.Min(100, p))
}

// entryDays множество дней, в которые есть хотя бы одна запись
func entryDays(entries []database.JournalEntry) map[string]bool {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.Day()] = true
	}
	return days
}

// Streak число подряд идущих дней с записями, считая назад от сегодня.
// Если сегодня записи ещё нет, отсчёт начинается со вчера
func Streak(entries []database.JournalEntry, now time.Time, loc *time.Location) int {
	if len(entries) == 0 {
		return 0
	}
	days := entryDays(entries)

	day := utils.StartOfDay(now, loc)
	if !days[day.Format(utils.DayFormat)] {
		day = utils.AddDays(day, -1)
	}

	streak := 0
	for days[day.Format(utils.DayFormat)] {
		streak++
		day = utils.AddDays(day, -1)
	}
	return streak
}

// GoalContribution количество записей, привязанных к цели
func GoalContribution(entries []database.JournalEntry, goalID string) int {
	n := 0
	for _, e := range entries {
		if e.LinksGoal(goalID) {
			n++
		}
	}
	return n
}

// EntriesForDate записи за календарный день
func EntriesForDate(entries []database.JournalEntry, day string) []database.JournalEntry {
	day, _, _ = strings.Cut(day, "T")
	out := []database.JournalEntry{}
	for _, e := range entries {
		if e.Day() == day {
			out = append(out, e)
		}
	}
	return out
}

// TodayEntries записи за сегодняшний день
func TodayEntries(entries []database.JournalEntry, now time.Time, loc *time.Location) []database.JournalEntry {
	return EntriesForDate(entries, utils.DayKey(now, loc))
}

// RecentEntries первые n записей списка (список хранится от новых к старым)
func RecentEntries(entries []database.JournalEntry, n int) []database.JournalEntry {
	if n < len(entries) {
		return entries[:n]
	}
	return entries
}

// TrailingEntries записи за последние days дней, включая сегодня
func TrailingEntries(entries []database.JournalEntry, now time.Time, loc *time.Location, days int) []database.JournalEntry {
	today := utils.StartOfDay(now, loc)
	from := utils.AddDays(today, -(days - 1)).Format(utils.DayFormat)
	to := today.Format(utils.DayFormat)

	out := []database.JournalEntry{}
	for _, e := range entries {
		if d := e.Day(); d >= from && d <= to {
			out = append(out, e)
		}
	}
	return out
}

// MoodAverage средняя оценка настроения; ok=false, если оценивать нечего
func MoodAverage(entries []database.JournalEntry) (avg float64, ok bool) {
	sum, n := 0, 0
	for _, e := range entries {
		if score, known := database.MoodScores[e.Mood]; known {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// MoodLabel переводит среднюю оценку в качественную метку
func MoodLabel(avg float64, ok bool) string {
	switch {
	case !ok:
		return "No data"
	case avg >= 4.5:
		return database.MoodNames[database.Great]
	case avg >= 3.5:
		return database.MoodNames[database.Good]
	case avg >= 2.5:
		return database.MoodNames[database.Okay]
	case avg >= 1.5:
		return database.MoodNames[database.Bad]
	default:
		return database.MoodNames[database.Terrible]
	}
}

// MoodDistribution количество записей по каждому настроению
func MoodDistribution(entries []database.JournalEntry) map[database.Mood]int {
	dist := make(map[database.Mood]int, len(database.Moods))
	for _, m := range database.Moods {
		dist[m] = 0
	}
	for _, e := range entries {
		if database.ValidMood(e.Mood) {
			dist[e.Mood]++
		}
	}
	return dist
}

type MoodSummary struct {
	Days         int                   `json:"days"`
	Entries      int                   `json:"entries"`
	Average      float64               `json:"average"`
	Label        string                `json:"label"`
	Distribution map[database.Mood]int `json:"distribution"`
}

// SummarizeMood сводка настроения за последние days дней
func SummarizeMood(entries []database.JournalEntry, now time.Time, loc *time.Location, days int) MoodSummary {
	window := TrailingEntries(entries, now, loc, days)
	avg, ok := MoodAverage(window)
	return MoodSummary{
		Days:         days,
		Entries:      len(window),
		Average:      avg,
		Label:        MoodLabel(avg, ok),
		Distribution: MoodDistribution(window),
	}
}

// MoodPolicy какая запись дня задаёт настроение ячейки
type MoodPolicy int

const (
	// MoodOfLatest настроение записи с самым поздним createdAt
	MoodOfLatest MoodPolicy = iota
	// MoodOfEarliest настроение записи с самым ранним createdAt
	MoodOfEarliest
)

// RepresentativeMood выбирает настроение дня согласно политике
func RepresentativeMood(day []database.JournalEntry, policy MoodPolicy) database.Mood {
	if len(day) == 0 {
		return ""
	}
	pick := day[0]
	for _, e := range day[1:] {
		switch policy {
		case MoodOfEarliest:
			if e.CreatedAt.Before(pick.CreatedAt) {
				pick = e
			}
		default:
			if e.CreatedAt.After(pick.CreatedAt) {
				pick = e
			}
		}
	}
	return pick.Mood
}

// ActivityLevel уровень интенсивности ячейки 0..4
func ActivityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	default:
		return 4
	}
}

type GridCell struct {
	Date   string        `json:"date"`
	Count  int           `json:"count"`
	Mood   database.Mood `json:"mood,omitempty"`
	Level  int           `json:"level"`
	Today  bool          `json:"isToday"`
	Future bool          `json:"isFuture"`
}

type MonthLabel struct {
	Label string `json:"label"`
	Col   int    `json:"col"`
}

// ContributionGrid сетка активности: 7 строк (Sun..Sat) на Weeks столбцов.
// DaysWithEntries и TotalEntries считаются по всем записям, а не только по окну сетки
type ContributionGrid struct {
	Weeks           int           `json:"weeks"`
	Rows            [7][]GridCell `json:"rows"`
	Months          []MonthLabel  `json:"months"`
	DaysWithEntries int           `json:"daysWithEntries"`
	TotalEntries    int           `json:"totalEntries"`
}

// Len общее количество ячеек
func (g ContributionGrid) Len() int {
	n := 0
	for _, row := range g.Rows {
		n += len(row)
	}
	return n
}

// Cell ячейка по дню недели и номеру недели
func (g ContributionGrid) Cell(weekday time.Weekday, col int) GridCell {
	return g.Rows[weekday][col]
}

func groupByDay(entries []database.JournalEntry) map[string][]database.JournalEntry {
	byDay := make(map[string][]database.JournalEntry)
	for _, e := range entries {
		byDay[e.Day()] = append(byDay[e.Day()], e)
	}
	return byDay
}

// BuildContributionGrid раскладывает записи по сетке из weeks недель, начинающихся с воскресенья.
// Последний столбец содержит сегодняшний день, ячейки после него помечены как будущие и пусты
func BuildContributionGrid(entries []database.JournalEntry, now time.Time, loc *time.Location, weeks int, policy MoodPolicy) ContributionGrid {
	byDay := groupByDay(entries)
	grid := ContributionGrid{
		Weeks:           max(0, weeks),
		Months:          []MonthLabel{},
		DaysWithEntries: len(byDay),
		TotalEntries:    len(entries),
	}
	if weeks <= 0 {
		return grid
	}

	today := utils.StartOfDay(now, loc)
	todayKey := today.Format(utils.DayFormat)
	start := utils.AddDays(today, -int(today.Weekday())-(weeks-1)*7)

	for row := range grid.Rows {
		grid.Rows[row] = make([]GridCell, 0, weeks)
	}

	currentMonth := time.Month(0)
	for col := 0; col < weeks; col++ {
		for row := 0; row < 7; row++ {
			day := utils.AddDays(start, col*7+row)
			key := day.Format(utils.DayFormat)
			cell := GridCell{
				Date:   key,
				Today:  key == todayKey,
				Future: day.After(today),
			}

			if row == 0 && day.Month() != currentMonth {
				currentMonth = day.Month()
				grid.Months = append(grid.Months, MonthLabel{Label: day.Format("Jan"), Col: col})
			}

			if !cell.Future {
				dayEntries := byDay[key]
				cell.Count = len(dayEntries)
				cell.Mood = RepresentativeMood(dayEntries, policy)
			}
			cell.Level = ActivityLevel(cell.Count)
			grid.Rows[row] = append(grid.Rows[row], cell)
		}
	}
	return grid
}

type TimelineDay struct {
	Date     string        `json:"date"`
	HasEntry bool          `json:"hasEntry"`
	Mood     database.Mood `json:"mood,omitempty"`
}

type TimelineMonth struct {
	Month string        `json:"month"`
	Days  []TimelineDay `json:"days"`
}

// BuildTimeline календарь за последние months месяцев, включая текущий
func BuildTimeline(entries []database.JournalEntry, now time.Time, loc *time.Location, months int) []TimelineMonth {
	byDay := groupByDay(entries)
	local := now.In(loc)

	out := make([]TimelineMonth, 0, max(0, months))
	for m := months - 1; m >= 0; m-- {
		first := time.Date(local.Year(), local.Month()-time.Month(m), 1, 0, 0, 0, 0, loc)
		daysInMonth := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, loc).Day()

		month := TimelineMonth{Month: first.Format("January 2006"), Days: make([]TimelineDay, 0, daysInMonth)}
		for d := 0; d < daysInMonth; d++ {
			key := utils.AddDays(first, d).Format(utils.DayFormat)
			dayEntries := byDay[key]
			month.Days = append(month.Days, TimelineDay{
				Date:     key,
				HasEntry: len(dayEntries) > 0,
				Mood:     RepresentativeMood(dayEntries, MoodOfLatest),
			})
		}
		out = append(out, month)
	}
	return out
}

// Consistency процент дней с записями среди прошедших дней пути, но не более чем за год
func Consistency(entries []database.JournalEntry, now time.Time, j Journey) int {
	elapsed := j.TotalDays - DaysRemaining(j.Target, now)
	if elapsed <= 0 {
		return 0
	}
	days := len(entryDays(entries))
	return int(math.Round(100 * float64(days) / float64(min(elapsed, 365))))
}

type GoalProgress struct {
	Goal          database.Goal `json:"goal"`
	Contributions int           `json:"contributions"`
}

// Dashboard всё, что показывается на главном экране
type Dashboard struct {
	Today         string                  `json:"today"`
	DaysRemaining int                     `json:"daysRemaining"`
	TimeProgress  float64                 `json:"timeProgress"`
	Streak        int                     `json:"streak"`
	TotalEntries  int                     `json:"totalEntries"`
	ActiveGoals   int                     `json:"activeGoals"`
	TodayEntries  int                     `json:"todayEntries"`
	Consistency   int                     `json:"consistency"`
	Goals         []GoalProgress          `json:"goals"`
	Recent        []database.JournalEntry `json:"recent"`
	WeeklyMood    MoodSummary             `json:"weeklyMood"`
}

// BuildDashboard собирает главный экран из состояния
func BuildDashboard(state database.AppState, now time.Time, j Journey) Dashboard {
	remaining := DaysRemaining(j.Target, now)
	today := utils.DayKey(now, j.Location)

	goals := make([]GoalProgress, 0, len(state.Goals))
	for _, g := range state.Goals {
		goals = append(goals, GoalProgress{Goal: g, Contributions: GoalContribution(state.Entries, g.ID)})
	}

	return Dashboard{
		Today:         today,
		DaysRemaining: remaining,
		TimeProgress:  TimeProgress(remaining, j.TotalDays),
		Streak:        Streak(state.Entries, now, j.Location),
		TotalEntries:  len(state.Entries),
		ActiveGoals:   len(state.Goals),
		TodayEntries:  len(TodayEntries(state.Entries, now, j.Location)),
		Consistency:   Consistency(state.Entries, now, j),
		Goals:         goals,
		Recent:        RecentEntries(state.Entries, 5),
		WeeklyMood:    SummarizeMood(state.Entries, now, j.Location, 7),
	}
}

// WeeklyAnalytics итоги ISO недели
type WeeklyAnalytics struct {
	WeekNumber    int            `json:"week_number"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	Entries       int            `json:"entries"`
	DaysWritten   int            `json:"days_written"`
	Mood          MoodSummary    `json:"mood"`
	GoalsWorkedOn map[string]int `json:"goals_worked_on"`
	Insights      string         `json:"insights"`
}

// BuildWeeklyAnalytics итоги недели, в которую попадает now
func BuildWeeklyAnalytics(state database.AppState, now time.Time, loc *time.Location) WeeklyAnalytics {
	local := now.In(loc)
	year, week := local.ISOWeek()
	start := firstDayOfISOWeek(year, week, loc)
	end := utils.AddDays(start, 6)
	from, to := start.Format(utils.DayFormat), end.Format(utils.DayFormat)

	var window []database.JournalEntry
	for _, e := range state.Entries {
		if d := e.Day(); d >= from && d <= to {
			window = append(window, e)
		}
	}

	worked := make(map[string]int)
	for _, e := range window {
		for _, id := range e.LinkedGoals {
			if i := state.FindGoal(id); i >= 0 {
				worked[state.Goals[i].Title]++
			}
		}
	}

	avg, ok := MoodAverage(window)
	analytics := WeeklyAnalytics{
		WeekNumber:  week,
		StartDate:   from,
		EndDate:     to,
		Entries:     len(window),
		DaysWritten: len(entryDays(window)),
		Mood: MoodSummary{
			Days:         7,
			Entries:      len(window),
			Average:      avg,
			Label:        MoodLabel(avg, ok),
			Distribution: MoodDistribution(window),
		},
		GoalsWorkedOn: worked,
	}
	analytics.Insights = generateInsights(analytics, state.Goals)
	return analytics
}

func generateInsights(a WeeklyAnalytics, goals []database.Goal) string {
	var insights []string

	switch {
	case a.DaysWritten == 0:
		return "📊 Not enough data yet. Keep writing!"
	case a.DaysWritten >= 6:
		insights = append(insights, "🎯 Outstanding week! You wrote almost every day")
	case a.DaysWritten >= 4:
		insights = append(insights, "📈 Solid consistency, there is room to grow")
	default:
		insights = append(insights, "💪 Try to write a little every day")
	}

	if a.Mood.Entries > 0 {
		if a.Mood.Average < 2.5 {
			insights = append(insights, "🔋 Mood was low this week. Check your sleep and workload")
		} else if a.Mood.Average >= 4.5 {
			insights = append(insights, "⚡ Great mood all week!")
		}
	}

	for _, g := range goals {
		if a.GoalsWorkedOn[g.Title] == 0 && g.Progress < 100 {
			insights = append(insights, fmt.Sprintf("⚠️ %s %s got no attention this week", utils.GetCategoryEmoji(g.Category), g.Title))
		}
	}

	return strings.Join(insights, "\n")
}

func firstDayOfISOWeek(year, week int, loc *time.Location) time.Time {
	date := time.Date(year, 1, 4, 0, 0, 0, 0, loc)
	for date.Weekday() != time.Monday {
		date = utils.AddDays(date, -1)
	}
	return utils.AddDays(date, (week-1)*7)
}

// AnalyticsService производная статистика с кэшем по ревизии хранилища и текущему дню
type AnalyticsService struct {
	store   *Store
	clock   func() time.Time
	journey Journey

	mu        sync.Mutex
	cachedRev uint64
	cachedDay string
	dashboard *Dashboard
}

func NewAnalyticsService(store *Store, clock func() time.Time, journey Journey) *AnalyticsService {
	return &AnalyticsService{
		store:   store,
		clock:   clock,
		journey: journey,
	}
}

func (as *AnalyticsService) Journey() Journey {
	return as.journey
}

func (as *AnalyticsService) Now() time.Time {
	return as.clock()
}

// Dashboard пересчитывается только при изменении состояния или смене дня
func (as *AnalyticsService) Dashboard() Dashboard {
	now := as.clock()
	rev := as.store.Revision()
	day := utils.DayKey(now, as.journey.Location)

	as.mu.Lock()
	defer as.mu.Unlock()

	if as.dashboard != nil && as.cachedRev == rev && as.cachedDay == day {
		d := *as.dashboard
		// обратный отсчёт меняется в течение дня
		d.DaysRemaining = DaysRemaining(as.journey.Target, now)
		d.TimeProgress = TimeProgress(d.DaysRemaining, as.journey.TotalDays)
		return d
	}

	d := BuildDashboard(as.store.State(), now, as.journey)
	as.dashboard = &d
	as.cachedRev = rev
	as.cachedDay = day
	return d
}

func (as *AnalyticsService) Grid(weeks int, policy MoodPolicy) ContributionGrid {
	return BuildContributionGrid(as.store.State().Entries, as.clock(), as.journey.Location, weeks, policy)
}

func (as *AnalyticsService) Timeline(months int) []TimelineMonth {
	return BuildTimeline(as.store.State().Entries, as.clock(), as.journey.Location, months)
}

func (as *AnalyticsService) Mood(days int) MoodSummary {
	return SummarizeMood(as.store.State().Entries, as.clock(), as.journey.Location, days)
}

func (as *AnalyticsService) GetWeeklyAnalytics() WeeklyAnalytics {
	return BuildWeeklyAnalytics(as.store.State(), as.clock(), as.journey.Location)
}

func (as *AnalyticsService) RelativeDate(day string) string {
	return utils.FormatRelativeDate(day, as.clock(), as.journey.Location)
}
