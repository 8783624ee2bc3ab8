package telegram

import (
	"context"
	"fmt"
	"strings"

	"journey/internal/config"
	"journey/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	services *services.ServiceManager
	handlers map[string]func(*tgbotapi.Message, string)
}

func NewBot(token string, chatID int64, serviceManager *services.ServiceManager) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      botAPI,
		chatID:   chatID,
		services: serviceManager,
		handlers: make(map[string]func(*tgbotapi.Message, string)),
	}

	bot.registerHandlers()
	config.Logger.Infow("🤖 Бот инициализирован", "username", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleHelp
	b.handlers["/help"] = b.handleHelp
	b.handlers["/today"] = b.handleToday
	b.handlers["/goals"] = b.handleGoals
	b.handlers["/goal"] = b.handleAddGoal
	b.handlers["/entry"] = b.handleAddEntry
	b.handlers["/journal"] = b.handleJournal
	b.handlers["/show"] = b.handleShow
	b.handlers["/delentry"] = b.handleDeleteEntry
	b.handlers["/delgoal"] = b.handleDeleteGoal
	b.handlers["/streak"] = b.handleStreak
	b.handlers["/mood"] = b.handleMood
	b.handlers["/grid"] = b.handleGrid
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.bot.Send(msg)
	return err
}

// SendMessageOrLogError отправляет сообщение и логирует неудачу
func (b *Bot) SendMessageOrLogError(text string) {
	if err := b.SendMessage(text); err != nil {
		config.Logger.Errorw("❌ Ошибка отправки сообщения", "error", err)
	}
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		config.Logger.Warnw("⛔ Сообщение из чужого чата", "chat_id", update.Message.Chat.ID)
		reply := tgbotapi.NewMessage(update.Message.Chat.ID, "⛔ Access denied")
		if _, err := b.bot.Send(reply); err != nil {
			config.Logger.Errorw("❌ Ошибка отправки сообщения", "error", err)
		}
		return
	}

	b.handleMessage(update.Message)
}

// handleMessage обрабатывает текстовые сообщения
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	text := msg.Text
	if !strings.HasPrefix(text, "/") {
		return
	}

	command, args := commandArgs(text)
	handler, exists := b.handlers[command]
	if !exists {
		b.SendMessageOrLogError("❌ Unknown command. Use /help")
		return
	}
	config.Logger.Debugw("📨 Команда", "command", command)
	handler(msg, args)
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	answer := "✅"
	defer func() {
		if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, answer)); err != nil {
			config.Logger.Errorw("❌ Ошибка ответа на callback", "error", err)
		}
	}()

	if callback.Message == nil || callback.Message.Chat.ID != b.chatID {
		return
	}

	config.Logger.Debugw("🔘 Callback", "data", callback.Data)

	goalID, prefix, ok := parseMilestoneCallback(callback.Data)
	if !ok {
		answer = "Unknown action"
		return
	}
	if err := b.toggleMilestone(goalID, prefix, callback.Message.MessageID); err != nil {
		answer = err.Error()
	}
}

// toggleMilestone переключает веху и обновляет карточку цели на месте
func (b *Bot) toggleMilestone(goalID, prefix string, messageID int) error {
	goal, err := b.services.Goal.Get(goalID)
	if err != nil {
		return err
	}
	milestoneID, ok := resolveMilestone(goal, prefix)
	if !ok {
		return fmt.Errorf("milestone not found")
	}
	goal, err = b.services.Goal.ToggleMilestone(goalID, milestoneID)
	if err != nil {
		return err
	}

	contributions := services.GoalContribution(b.services.Store.State().Entries, goal.ID)
	edit := tgbotapi.NewEditMessageTextAndMarkup(b.chatID, messageID, formatGoal(goal, contributions), milestoneKeyboard(goal))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.bot.Send(edit); err != nil {
		config.Logger.Errorw("⚠️ Ошибка обновления карточки цели", "goal_id", goalID, "error", err)
	}
	return nil
}
