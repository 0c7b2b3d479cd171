package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/vibelabs/vibechat/internal/database"
)

// NewProviderHandler returns a handler for the /provider command. Without an
// argument it lists the available provider profiles and the user's active
// one; with a numeric argument it switches the active selection.
func NewProviderHandler(deps HandlerDeps) bot.HandlerFunc {
	return providerHandler{deps}.Handle
}

type providerHandler struct {
	deps HandlerDeps
}

func (h providerHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "provider")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Provider handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/provider"))
	var reply string
	if arg == "" {
		reply = h.listProfiles(ctx, userID)
	} else {
		reply = h.switchProfile(ctx, userID, arg)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply}); err != nil {
		log.ErrorContext(ctx, "Failed to send provider reply", "error", err, "chat_id", chatID)
	}
}

func (h providerHandler) listProfiles(ctx context.Context, userID int64) string {
	profiles, err := h.deps.Store.ListProfiles(ctx)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to list provider profiles", "error", err)
		return "Sorry, I could not load the provider list."
	}

	activeID := int64(-1)
	if sel, err := h.deps.Store.ActiveSelection(ctx, userID); err == nil {
		activeID = sel.ProviderID
	}

	var sb strings.Builder
	sb.WriteString("Available providers:\n")
	for _, p := range profiles {
		marker := "  "
		if p.ID == activeID {
			marker = "* "
		}
		fmt.Fprintf(&sb, "%s%d. %s (%s)\n", marker, p.ID, p.Brand, p.Model)
	}
	sb.WriteString("\nSwitch with /provider <number>.")
	return sb.String()
}

func (h providerHandler) switchProfile(ctx context.Context, userID int64, arg string) string {
	providerID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return "Please give the provider number, for example /provider 1."
	}

	sel, err := h.deps.Store.SetActiveSelection(ctx, userID, providerID)
	if err != nil {
		if errors.Is(err, database.ErrSelectionNotFound) {
			return "There is no provider with that number. Use /provider to see the list."
		}
		h.deps.Logger.ErrorContext(ctx, "Failed to switch provider",
			"error", err, "user_id", userID, "provider_id", providerID)
		return "Sorry, I could not switch providers. Please try again."
	}

	return fmt.Sprintf("Switched to %s (%s).", sel.Brand, sel.Model)
}
