package middleware

import (
	"context"
	"log/slog"
	"slices"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type WhitelistMiddleware struct {
	logger         *slog.Logger
	userAllowedIDs []int64
}

// NewWhitelistMiddleware restricts handlers to userAllowedIDs. An empty list
// lets every user through.
func NewWhitelistMiddleware(userAllowedIDs []int64, logger *slog.Logger) *WhitelistMiddleware {
	return &WhitelistMiddleware{
		userAllowedIDs: userAllowedIDs,
		logger:         logger,
	}
}

func (wm *WhitelistMiddleware) IsUserAllowed(userID int64) bool {
	return len(wm.userAllowedIDs) == 0 || slices.Contains(wm.userAllowedIDs, userID)
}

// Sender returns the user and chat an update originates from. ok is false
// for update kinds that carry neither a message nor a callback query.
func Sender(update *models.Update) (userID, chatID int64, username string, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, update.Message.From.Username, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.From.ID, update.CallbackQuery.From.Username, true
	}
	return 0, 0, "", false
}

func WithWhitelist(whitelist *WhitelistMiddleware, handler bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID, chatID, username, ok := Sender(update)
		if !ok {
			handler(ctx, b, update)
			return
		}

		if !whitelist.IsUserAllowed(userID) {
			whitelist.logger.Warn("user is not in the whitelist", "username", username, "user", userID)

			if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
				Text:   "You are not allowed to use this",
				ChatID: chatID,
			}); err != nil {
				whitelist.logger.Error("failed to notify rejected user", "error", err)
			}
			return
		}

		handler(ctx, b, update)
	}
}
