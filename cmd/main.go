package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-telegram/bot"

	dotenv "github.com/joho/godotenv"
	envconf "github.com/sethvargo/go-envconfig"

	"github.com/luckyComet55/tablefsm/internal/demo"
	"github.com/luckyComet55/tablefsm/internal/handler"
	"github.com/luckyComet55/tablefsm/internal/middleware"
	repo "github.com/luckyComet55/tablefsm/internal/repository"
	"github.com/luckyComet55/tablefsm/pkg/fsm"
)

const (
	modeConsole  = "console"
	modeTelegram = "telegram"
)

type AppConfig struct {
	Env             string  `env:"ENV, required"`
	Mode            string  `env:"MODE, default=console"`
	BotApiKey       string  `env:"BOT_TOKEN"`
	AuthorizedUsers []int64 `env:"AUTHORIZED_USER_IDS"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := dotenv.Load(); err != nil {
		log.Println("Warning! No .env file found")
	}

	var c AppConfig

	envconf.MustProcess(ctx, &c)

	logger := configureLogger(c)

	switch c.Mode {
	case modeConsole:
		runConsole(logger)
	case modeTelegram:
		if err := runTelegram(ctx, c, logger); err != nil {
			logger.Error("telegram mode failed", "error", err)
			os.Exit(1)
		}
	default:
		panic(fmt.Sprintf("incorrect mode: %s. possible values: %s, %s", c.Mode, modeConsole, modeTelegram))
	}
}

func runConsole(logger *slog.Logger) {
	demo.Run(func(line string) { fmt.Println(line) }, fsm.WithLogger(logger.With("component", "fsm")))
}

func runTelegram(ctx context.Context, c AppConfig, logger *slog.Logger) error {
	if c.BotApiKey == "" {
		return fmt.Errorf("BOT_TOKEN is required in %s mode", modeTelegram)
	}

	sessionRepo := repo.NewSessionRepository(logger.With("component", "sessionRepo"))

	handlerWrapper := handler.NewMessageHandler(sessionRepo, logger.With("component", "handlerWrapper"))
	whitelistMiddleware := middleware.NewWhitelistMiddleware(c.AuthorizedUsers, logger.With("component", "whitelistMiddleware"))
	updateHandler := middleware.WithWhitelist(whitelistMiddleware, handlerWrapper.HandleUpdate)
	startHandler := middleware.WithWhitelist(whitelistMiddleware, handlerWrapper.HandleStart)
	resetHandler := middleware.WithWhitelist(whitelistMiddleware, handlerWrapper.HandleReset)

	opts := []bot.Option{
		bot.WithDefaultHandler(updateHandler),
		bot.WithMessageTextHandler("/start", bot.MatchTypeExact, startHandler),
		bot.WithMessageTextHandler("/reset", bot.MatchTypeExact, resetHandler),
	}
	if c.Env == "dev" {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(c.BotApiKey, opts...)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	logger.Info("bot started")
	b.Start(ctx)
	return nil
}

func configureLogger(c AppConfig) *slog.Logger {
	var logger *slog.Logger
	switch c.Env {
	case "dev":
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case "prod":
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		panic(fmt.Sprintf("incorrect env type: %s. possible values: dev, prod", c.Env))
	}
	return logger
}
