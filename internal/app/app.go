// Package app orchestrates the lifecycle of the long-running components: the
// Telegram listener and the task scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/vibelabs/vibechat/internal/scheduler"
)

// App supervises the bot components and handles graceful shutdown on context
// cancellation.
type App struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	scheduler *scheduler.Scheduler
}

// NewApp creates the application supervisor.
func NewApp(logger *slog.Logger, tgBot *tgbot.Bot, sched *scheduler.Scheduler) *App {
	return &App{
		logger:    logger.With("component", "app"),
		tgBot:     tgBot,
		scheduler: sched,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting Telegram bot listener...")
		a.tgBot.Start(gCtx)
		a.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := a.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		a.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := a.scheduler.Stop(); err != nil {
			a.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	a.logger.Info("Application running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Application stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Application stopped gracefully.")
	return nil
}
