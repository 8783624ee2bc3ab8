package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"journey/internal/app"
	"journey/internal/config"

	"github.com/google/subcommands"
)

type serveCmd struct {
	cfg *config.Config
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API, the Telegram bot and the reminders" }
func (*serveCmd) Usage() string {
	return `journey serve

  Starts the JSON API on PORT. When TG_TOKEN and TG_CHAT_ID are set it also
  starts the Telegram bot and the scheduled reminders. Stops on SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cfg.Server.Port, "port", c.cfg.Server.Port, "HTTP port")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	application, err := app.New(c.cfg)
	if err != nil {
		return fail("❌ Ошибка создания приложения: %v", err)
	}

	if err := application.Start(); err != nil {
		return fail("❌ Ошибка запуска приложения: %v", err)
	}
	defer application.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	config.Logger.Infow("👋 Приложение завершает работу")
	return subcommands.ExitSuccess
}
