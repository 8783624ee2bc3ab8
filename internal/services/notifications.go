package services

import (
	"fmt"
	"html"
	"slices"
	"strings"

	"journey/internal/config"
	"journey/internal/utils"
)

// NotificationSender интерфейс для отправки уведомлений
type NotificationSender interface {
	SendMessage(text string) error
}

type NotificationService struct {
	sender    NotificationSender
	analytics *AnalyticsService
	store     *Store
}

func NewNotificationService(sender NotificationSender, analytics *AnalyticsService, store *Store) *NotificationService {
	return &NotificationService{
		sender:    sender,
		analytics: analytics,
		store:     store,
	}
}

// SendEveningReminder напоминает о записи, если сегодня ещё ничего не написано.
// Возвращает true, если напоминание было отправлено
func (ns *NotificationService) SendEveningReminder() bool {
	now := ns.analytics.Now()
	loc := ns.analytics.Journey().Location
	today := TodayEntries(ns.store.State().Entries, now, loc)

	config.Logger.Infow("🔔 Проверка вечернего напоминания", "day", utils.DayKey(now, loc), "entries", len(today))
	if len(today) > 0 {
		return false
	}

	ns.send(ReminderMessage(PromptFor(now, loc), Streak(ns.store.State().Entries, now, loc)))
	return true
}

// SendDailyCountdown отправляет обратный отсчёт дня
func (ns *NotificationService) SendDailyCountdown() {
	ns.send(CountdownMessage(ns.analytics.Dashboard()))
}

// SendWeeklySummary отправляет итоги недели
func (ns *NotificationService) SendWeeklySummary() {
	ns.send(WeeklySummaryMessage(ns.analytics.GetWeeklyAnalytics()))
}

func (ns *NotificationService) send(message string) {
	if err := ns.sender.SendMessage(message); err != nil {
		config.Logger.Errorw("❌ Ошибка отправки уведомления", "error", err)
		return
	}
	config.Logger.Infow("✅ Уведомление отправлено")
}

// ReminderMessage текст вечернего напоминания
func ReminderMessage(p Prompt, streak int) string {
	var b strings.Builder
	b.WriteString("📝 <b>No entry yet today</b>\n\n")
	if streak > 0 {
		fmt.Fprintf(&b, "🔥 Your streak is %d days. Keep it alive!\n\n", streak)
	}
	fmt.Fprintf(&b, "%s <b>%s</b>\n<i>%s</i>\n\n",
		utils.GetEntryTypeName(p.Type), html.EscapeString(p.Title), html.EscapeString(p.Hint))
	fmt.Fprintf(&b, "Use: /entry okay %s %s | ...", p.Type, html.EscapeString(p.Title))
	return b.String()
}

// CountdownMessage текст ежедневного обратного отсчёта
func CountdownMessage(d Dashboard) string {
	return fmt.Sprintf(
		"⏳ <b>%d days remaining</b>\n\n"+
			"📈 Journey: %.1f%%\n"+
			"🔥 Streak: %d days\n"+
			"🎯 Active goals: %d\n"+
			"📝 Total entries: %d",
		d.DaysRemaining,
		d.TimeProgress,
		d.Streak,
		d.ActiveGoals,
		d.TotalEntries,
	)
}

// WeeklySummaryMessage текст итогов недели
func WeeklySummaryMessage(w WeeklyAnalytics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Week %d</b> (%s to %s)\n\n", w.WeekNumber, w.StartDate, w.EndDate)
	fmt.Fprintf(&b, "📝 Entries: %d\n", w.Entries)
	fmt.Fprintf(&b, "📅 Days written: %d/7\n", w.DaysWritten)
	fmt.Fprintf(&b, "💭 Mood: %s", w.Mood.Label)
	if w.Mood.Entries > 0 {
		fmt.Fprintf(&b, " (%.1f)", w.Mood.Average)
	}
	b.WriteString("\n")

	if len(w.GoalsWorkedOn) > 0 {
		b.WriteString("\n<b>Goals worked on:</b>\n")
		for _, title := range sortedKeys(w.GoalsWorkedOn) {
			fmt.Fprintf(&b, "• %s: %d\n", html.EscapeString(title), w.GoalsWorkedOn[title])
		}
	}

	if w.Insights != "" {
		b.WriteString("\n" + html.EscapeString(w.Insights))
	}
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
