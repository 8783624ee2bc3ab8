package telegram

import (
	"errors"
	"fmt"
	"html"
	"strconv"

	"journey/internal/config"
	"journey/internal/database"
	"journey/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handlers.go - обработчики команд Telegram бота

const (
	journalLimit = 15
	defaultWeeks = 12
	maxWeeks     = 26
)

func (b *Bot) handleHelp(msg *tgbotapi.Message, args string) {
	b.SendMessageOrLogError(helpMessage)
}

func (b *Bot) handleToday(msg *tgbotapi.Message, args string) {
	as := b.services.Analytics
	prompt := services.PromptFor(as.Now(), as.Journey().Location)
	b.SendMessageOrLogError(formatDashboard(as.Dashboard(), prompt))
}

func (b *Bot) handleGoals(msg *tgbotapi.Message, args string) {
	goals := b.services.Goal.List(services.GoalFilter{Query: args})
	if len(goals) == 0 || len(goals) > 5 {
		b.SendMessageOrLogError(formatGoalList(goals))
		return
	}
	// немного целей: каждую карточкой с кнопками вех
	for _, g := range goals {
		b.sendGoalCard(g)
	}
}

func (b *Bot) handleAddGoal(msg *tgbotapi.Message, args string) {
	in, err := ParseGoalCommand(args)
	if err != nil {
		b.SendMessageOrLogError("❌ " + html.EscapeString(err.Error()) + "\nFormat: /goal [category] [title] | m1; m2")
		return
	}
	goal, err := b.services.Goal.Create(in)
	if err != nil {
		b.replyError(err, "/goals")
		return
	}
	config.Logger.Infow("🎯 Цель создана", "goal_id", goal.ID)
	b.sendGoalCard(goal)
}

func (b *Bot) handleAddEntry(msg *tgbotapi.Message, args string) {
	in, err := ParseEntryCommand(args)
	if err != nil {
		b.SendMessageOrLogError("❌ " + html.EscapeString(err.Error()) + "\nFormat: /entry [mood] [type] [title] | [content] #tags")
		return
	}
	entry, err := b.services.Entry.Create(in)
	if err != nil {
		b.replyError(err, "/journal")
		return
	}
	config.Logger.Infow("📝 Запись создана", "entry_id", entry.ID)

	streak := b.services.Analytics.Dashboard().Streak
	b.SendMessageOrLogError(fmt.Sprintf("✅ Saved <b>%s</b>\n🔥 Streak: %d\n<code>%s</code>",
		html.EscapeString(entry.Title), streak, entry.ID))
}

func (b *Bot) handleJournal(msg *tgbotapi.Message, args string) {
	entries := b.services.Entry.List(services.EntryFilter{Query: args})
	as := b.services.Analytics
	b.SendMessageOrLogError(formatJournal(services.GroupEntriesByDate(entries), as.Now(), as.Journey().Location, journalLimit))
}

func (b *Bot) handleShow(msg *tgbotapi.Message, args string) {
	if args == "" {
		b.SendMessageOrLogError("❌ Format: /show [id]")
		return
	}
	if entry, err := b.services.Entry.Get(args); err == nil {
		as := b.services.Analytics
		b.SendMessageOrLogError(formatEntry(entry, b.services.Entry.LinkedGoals(entry), as.Now(), as.Journey().Location))
		return
	}
	goal, err := b.services.Goal.Get(args)
	if err != nil {
		b.replyError(err, "/journal or /goals")
		return
	}
	b.sendGoalCard(goal)
}

func (b *Bot) handleDeleteEntry(msg *tgbotapi.Message, args string) {
	if err := b.services.Entry.Delete(args); err != nil {
		b.replyError(err, "/journal")
		return
	}
	b.SendMessageOrLogError("🗑 Entry deleted")
}

func (b *Bot) handleDeleteGoal(msg *tgbotapi.Message, args string) {
	if err := b.services.Goal.Delete(args); err != nil {
		b.replyError(err, "/goals")
		return
	}
	b.SendMessageOrLogError("🗑 Goal deleted, its links were removed from entries")
}

func (b *Bot) handleStreak(msg *tgbotapi.Message, args string) {
	d := b.services.Analytics.Dashboard()
	message := fmt.Sprintf("🔥 <b>%d day streak</b>", d.Streak)
	if d.TodayEntries == 0 && d.Streak > 0 {
		message += "\nWrite today to keep it going!"
	}
	b.SendMessageOrLogError(message)
}

func (b *Bot) handleMood(msg *tgbotapi.Message, args string) {
	b.SendMessageOrLogError(formatMood(b.services.Analytics.Mood(7)))
}

func (b *Bot) handleGrid(msg *tgbotapi.Message, args string) {
	weeks := defaultWeeks
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			b.SendMessageOrLogError("❌ Weeks must be a positive number")
			return
		}
		weeks = min(n, maxWeeks)
	}
	b.SendMessageOrLogError(formatGrid(b.services.Analytics.Grid(weeks, services.MoodOfLatest)))
}

// sendGoalCard отправляет карточку цели с кнопками переключения вех
func (b *Bot) sendGoalCard(g database.Goal) {
	contributions := services.GoalContribution(b.services.Store.State().Entries, g.ID)
	msg := tgbotapi.NewMessage(b.chatID, formatGoal(g, contributions))
	msg.ParseMode = tgbotapi.ModeHTML
	if len(g.Milestones) > 0 {
		msg.ReplyMarkup = milestoneKeyboard(g)
	}
	if _, err := b.bot.Send(msg); err != nil {
		config.Logger.Errorw("❌ Ошибка отправки карточки цели", "goal_id", g.ID, "error", err)
	}
}

// milestoneKeyboard одна кнопка на веху
func milestoneKeyboard(g database.Goal) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(g.Milestones))
	for _, m := range g.Milestones {
		mark := "⬜"
		if m.Completed {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+m.Title, milestoneCallback(g.ID, m.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// replyError отвечает пользователю в зависимости от вида ошибки
func (b *Bot) replyError(err error, back string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		b.SendMessageOrLogError("🔍 Not found. See " + back)
	case errors.Is(err, services.ErrInvalid):
		b.SendMessageOrLogError("❌ " + html.EscapeString(err.Error()))
	default:
		config.Logger.Errorw("❌ Ошибка обработки команды", "error", err)
		b.SendMessageOrLogError("❌ Something went wrong")
	}
}
