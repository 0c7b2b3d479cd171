// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"log/slog"

	"github.com/vibelabs/vibechat/internal/chat"
	"github.com/vibelabs/vibechat/internal/config"
	"github.com/vibelabs/vibechat/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Chat   *chat.Service
}
