package handlers

import (
	"context"
	"errors"
	"slices"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/vibelabs/vibechat/internal/database"
	"github.com/vibelabs/vibechat/internal/provider"
)

// NewChatHandler returns the default handler that feeds plain text messages
// through the memory-augmented answering pipeline.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		log.DebugContext(ctx, "Ignoring update with nil message, empty text, or nil sender", "update_id", update.ID)
		return
	}

	allowed := h.deps.Config.Telegram.AllowedUserIDs
	if len(allowed) > 0 && !slices.Contains(allowed, msg.From.ID) {
		log.WarnContext(ctx, "Ignoring message from unauthorized user", "user_id", msg.From.ID)
		return
	}

	chatID := msg.Chat.ID
	if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		log.DebugContext(ctx, "Failed to send typing action", "error", err, "chat_id", chatID)
	}

	answer, err := h.deps.Chat.Answer(ctx, msg.From.ID, msg.Text)
	if err != nil {
		log.ErrorContext(ctx, "Chat pipeline failed",
			"error", err, "user_id", msg.From.ID, "chat_id", chatID)
		answer = h.replyForError(err)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: answer}); err != nil {
		log.ErrorContext(ctx, "Failed to send chat reply", "error", err, "chat_id", chatID)
	}
}

// replyForError maps pipeline failures to user-facing replies without leaking
// internals.
func (h chatHandler) replyForError(err error) string {
	switch {
	case errors.Is(err, database.ErrSelectionNotFound):
		return "You have no active AI provider yet. Pick one with /provider."
	case errors.Is(err, provider.ErrModelNotFound):
		return "The selected model is not available right now. Try another provider with /provider."
	case errors.Is(err, provider.ErrGeneration):
		return "The AI backend did not respond. Please try again in a moment."
	default:
		return "Sorry, something went wrong while answering. Please try again."
	}
}
