// Package main contains the entrypoint for the vibechat Telegram bot.
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
	"golang.org/x/sync/errgroup"

	"github.com/vibelabs/vibechat/internal/app"
	"github.com/vibelabs/vibechat/internal/chat"
	"github.com/vibelabs/vibechat/internal/config"
	"github.com/vibelabs/vibechat/internal/credential"
	"github.com/vibelabs/vibechat/internal/database"
	"github.com/vibelabs/vibechat/internal/embedding"
	"github.com/vibelabs/vibechat/internal/logger"
	"github.com/vibelabs/vibechat/internal/provider"
	"github.com/vibelabs/vibechat/internal/scheduler"
	"github.com/vibelabs/vibechat/internal/telegram"
	"github.com/vibelabs/vibechat/internal/telegram/handlers"
	"github.com/vibelabs/vibechat/internal/vector"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the application, and returns an exit
// code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	cipher, err := credential.NewCipher(cfg.Crypto.AESKeyHex)
	if err != nil {
		log.Error("Failed to initialize credential cipher", "error", err)
		return 1
	}
	resolver := credential.NewResolver(cipher)

	embedClient := embedding.NewClient(cfg.Embedding, log)
	vectorClient := vector.NewClient(cfg.Vector, log)

	registry, err := provider.NewRegistry(log,
		provider.NewOllama(cfg.Providers, log),
		provider.NewOpenAI(cfg.Providers, log),
		provider.NewGemini(cfg.Providers, log),
		provider.NewAnthropic(cfg.Providers, log),
	)
	if err != nil {
		log.Error("Failed to build provider registry", "error", err)
		return 1
	}

	if err := startupChecks(ctx, log, store, embedClient, vectorClient); err != nil {
		log.Error("Startup checks failed", "error", err)
		return 1
	}

	chatService := chat.NewService(
		store, embedClient, vectorClient, resolver, registry,
		cfg.Chat.TopK, cfg.Chat.SystemPrompt, log,
	)

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
		Chat:   chatService,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewChatHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := scheduler.TaskDeps{
		Logger:   log,
		Store:    store,
		Memories: vectorClient,
	}
	sched, err := scheduler.NewScheduler(log, cfg.Scheduler, scheduler.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	log.Info("Starting vibechat...")
	runErr := app.NewApp(log, tg, sched).Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// startupChecks verifies the external dependencies in parallel before serving
// traffic: the selection database must answer a ping, the embedding backend
// must embed a probe text, and the vector collection must exist (it is
// created if missing).
func startupChecks(ctx context.Context, log *slog.Logger, store database.Store, embedClient *embedding.Client, vectorClient *vector.Client) error {
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	g, gCtx := errgroup.WithContext(checkCtx)

	g.Go(func() error {
		if err := store.Ping(gCtx); err != nil {
			return err
		}
		log.Info("Database reachable")
		return nil
	})

	g.Go(func() error {
		if err := vectorClient.EnsureCollection(gCtx); err != nil {
			return err
		}
		log.Info("Vector collection ready")
		return nil
	})

	g.Go(func() error {
		vec, err := embedClient.Embed(gCtx, "ping")
		if err != nil {
			return err
		}
		log.Info("Embedding backend reachable", "dimensions", len(vec))
		return nil
	})

	return g.Wait()
}
