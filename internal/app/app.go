package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"journey/internal/api"
	"journey/internal/config"
	"journey/internal/database"
	"journey/internal/services"
	"journey/internal/telegram"

	"github.com/robfig/cron/v3"
)

type Application struct {
	config     *config.Config
	storage    io.Closer
	bot        *telegram.Bot
	server     *api.Server
	services   *services.ServiceManager
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStorage открывает слот хранения, выбранный в конфигурации
func OpenStorage(cfg *config.Config) (database.Slot, io.Closer, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := database.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case "file":
		slot, err := database.NewFileSlot(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return slot, nopCloser{}, nil
	case "memory":
		return database.NewMemorySlot(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// JourneyFrom параметры обратного отсчёта из конфигурации
func JourneyFrom(cfg *config.Config) services.Journey {
	return services.Journey{
		Target:    cfg.Journey.TargetDate,
		TotalDays: cfg.Journey.TotalDays,
		Location:  cfg.Journey.Location,
	}
}

// OpenServices открывает хранилище и собирает сервисы без фронтендов
func OpenServices(cfg *config.Config) (*services.ServiceManager, io.Closer, error) {
	slot, closer, err := OpenStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	repo := database.NewRepository(slot, cfg.Storage.Key)
	return services.NewServiceManager(repo, JourneyFrom(cfg), time.Now), closer, nil
}

func New(cfg *config.Config) (*Application, error) {
	serviceManager, closer, err := OpenServices(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		config:     cfg,
		storage:    closer,
		server:     api.NewServer(cfg.Server.Port, serviceManager),
		services:   serviceManager,
		cron:       cron.New(cron.WithLocation(cfg.Journey.Location)),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if cfg.BotEnabled() {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, serviceManager)
		if err != nil {
			cancel()
			closer.Close()
			return nil, err
		}
		app.bot = bot
		serviceManager.SetNotificationSender(bot)
		if err := app.setupCronJobs(); err != nil {
			cancel()
			closer.Close()
			return nil, err
		}
	} else {
		config.Logger.Warnw("⚠️ TG_TOKEN или TG_CHAT_ID не заданы, бот и напоминания отключены")
	}

	return app, nil
}

func (a *Application) Start() error {
	config.Logger.Infow("🚀 Запуск приложения...")

	go func() {
		if err := a.server.Start(); err != nil {
			config.Logger.Errorw("❌ Ошибка HTTP сервера", "error", err)
		}
	}()

	if a.bot != nil {
		go a.bot.Start(a.ctx)
		a.cron.Start()
		a.sendWelcomeMessage()
		config.Logger.Infow("✅ Бот запущен", "username", a.bot.GetUsername())
	}

	config.Logger.Infow("✅ Приложение запущено", "port", a.config.Server.Port, "storage", a.config.Storage.Driver)
	return nil
}

func (a *Application) Stop() error {
	config.Logger.Infow("🛑 Остановка приложения...")

	a.cancelFunc()
	<-a.cron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		config.Logger.Warnw("⚠️ Ошибка остановки HTTP сервера", "error", err)
	}

	if err := a.storage.Close(); err != nil {
		config.Logger.Warnw("⚠️ Ошибка закрытия хранилища", "error", err)
	}

	config.Logger.Infow("✅ Приложение остановлено")
	return nil
}

// Расписание в часовом поясе TZ_NAME
func (a *Application) setupCronJobs() error {
	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		// Обратный отсчёт каждое утро в 8:00
		{"0 8 * * *", "countdown", a.services.Notification.SendDailyCountdown},
		// Напоминание о записи в 20:00, если сегодня ничего не написано
		{"0 20 * * *", "reminder", func() { a.services.Notification.SendEveningReminder() }},
		// Итоги недели в воскресенье в 19:00
		{"0 19 * * 0", "weekly", a.services.Notification.SendWeeklySummary},
	}

	for _, job := range jobs {
		if _, err := a.cron.AddFunc(job.spec, job.fn); err != nil {
			return fmt.Errorf("schedule %s job: %w", job.name, err)
		}
	}
	return nil
}

func (a *Application) sendWelcomeMessage() {
	d := a.services.Analytics.Dashboard()
	message := fmt.Sprintf(`🎯 <b>1796 Days</b>

Tracker started.

Today: %s
⏳ %d days remaining
🔥 Streak: %d

Use /help to see the commands.`, d.Today, d.DaysRemaining, d.Streak)

	a.bot.SendMessageOrLogError(message)
}
