package main

import (
	"context"
	"flag"
	"log"
	"os"

	"journey/internal/cli"
	"journey/internal/config"

	"github.com/google/subcommands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// при вызове из shell completion печатает варианты и завершает процесс
	cli.Completion(cfg).Complete("journey")

	if err := config.InitLogger(cfg.Log.Dir, cfg.Log.Level); err != nil {
		log.Fatalf("❌ Ошибка настройки логгера: %v", err)
	}
	commander := subcommands.NewCommander(flag.CommandLine, "journey")
	cli.Register(commander, cfg)

	flag.Parse()
	status := commander.Execute(context.Background())
	config.Logger.Sync()
	os.Exit(int(status))
}
