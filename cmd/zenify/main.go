// Package main is the entrypoint of the Zenify companion bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/zenify/companion/internal/bot"
	"github.com/zenify/companion/internal/bot/handlers"
	"github.com/zenify/companion/internal/bot/tasks"
	"github.com/zenify/companion/internal/companion"
	"github.com/zenify/companion/internal/config"
	"github.com/zenify/companion/internal/database"
	"github.com/zenify/companion/internal/gemini"
	"github.com/zenify/companion/internal/logger"
	"github.com/zenify/companion/internal/monitor"
	"github.com/zenify/companion/internal/profile"
	"github.com/zenify/companion/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)
	loc := cfg.Location()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	backend := database.NewStore(db, log)

	registry := profile.NewRegistry(backend,
		profile.WithMonitor(monitor.New(cfg.Monitor.ExtraKeywords...)),
		profile.WithLogger(log),
	)
	if err := seedAdmin(ctx, registry, cfg.Telegram.AdminUserID); err != nil {
		log.Error("Failed to seed admin profile", "error", err)
		return 1
	}

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}
	chat := companion.NewService(gemClient, log,
		companion.WithTimeout(cfg.Gemini.Timeout),
		companion.WithMaxContextTokens(cfg.Gemini.MaxContextTokens),
	)

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Registry:  registry,
		Companion: chat,
		Location:  loc,
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log,
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(hDeps)),
	)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	commands := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, commands); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, commands); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Config:   cfg,
		Backend:  backend,
		Registry: registry,
		Sender:   tg,
		Location: loc,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), loc)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	log.Info("Starting Zenify", "timezone", loc.String(), "model", cfg.Gemini.ModelName)
	runErr := bot.NewBot(log, tg, sched).Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	time.Sleep(time.Second)
	return 0
}

// seedAdmin marks the configured Telegram user as admin. Zero disables seeding.
func seedAdmin(ctx context.Context, registry *profile.Registry, adminUserID int64) error {
	if adminUserID == 0 {
		return nil
	}
	store, err := registry.Get(handlers.Namespace(adminUserID))
	if err != nil {
		return err
	}
	_, err = store.SeedAdmin(ctx, true)
	return err
}
