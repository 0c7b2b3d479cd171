package handlers

import (
	"context"
	"slices"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AllowedOnly creates a middleware that restricts handling to the configured
// allowed user IDs. An empty allowlist admits everyone.
func AllowedOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, bot, update)
				return
			}

			allowed := deps.Config.Telegram.AllowedUserIDs
			if len(allowed) == 0 || slices.Contains(allowed, update.Message.From.ID) {
				next(ctx, bot, update)
				return
			}

			log := deps.Logger.With("middleware", "allowed_only")
			log.WarnContext(ctx, "Unauthorized access attempt",
				"user_id", update.Message.From.ID, "chat_id", update.Message.Chat.ID)

			if _, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "You are not authorized to use this bot.",
			}); err != nil {
				log.ErrorContext(ctx, "Failed to send unauthorized message",
					"error", err, "chat_id", update.Message.Chat.ID)
			}
		}
	}
}
