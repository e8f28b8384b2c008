package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/luckyComet55/tablefsm/internal/demo"
	"github.com/luckyComet55/tablefsm/internal/middleware"
	repo "github.com/luckyComet55/tablefsm/internal/repository"
)

type MessageHandler struct {
	logger            *slog.Logger
	sessionRepository repo.SessionRepository
}

func NewMessageHandler(sessionRepo repo.SessionRepository, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		logger:            logger,
		sessionRepository: sessionRepo,
	}
}

func (mh *MessageHandler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, chatID, _, ok := middleware.Sender(update)
	if !ok {
		return
	}

	state, ok := mh.sessionRepository.GetState(chatID)
	if !ok {
		state = mh.sessionRepository.ResetSession(chatID)
	}

	mh.send(ctx, b, chatID, fmt.Sprintf("Current state: %s\nSelect event", state))
}

func (mh *MessageHandler) HandleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, chatID, _, ok := middleware.Sender(update)
	if !ok {
		return
	}

	state := mh.sessionRepository.ResetSession(chatID)
	mh.send(ctx, b, chatID, fmt.Sprintf("State forced to %s, no hooks were run\nSelect event", state))
}

// HandleUpdate dispatches the event named by a pressed button.
func (mh *MessageHandler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	chatID := update.CallbackQuery.From.ID

	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
	}); err != nil {
		mh.logger.Error("failed to answer callback query", "error", err)
	}

	event, ok := demo.ParseEvent(update.CallbackQuery.Data)
	if !ok {
		mh.logger.Warn("unknown event", "chat", chatID, "data", update.CallbackQuery.Data)
		mh.send(ctx, b, chatID, fmt.Sprintf("Unknown event %q\nSelect event", update.CallbackQuery.Data))
		return
	}

	mh.logger.Debug("dispatching event", "chat", chatID, "event", event)
	res := mh.sessionRepository.Dispatch(chatID, event)
	mh.send(ctx, b, chatID, formatDispatch(event, res))
}

func (mh *MessageHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: eventKeyboard(),
	}); err != nil {
		mh.logger.Error("failed to send message", "chat", chatID, "error", err)
	}
}

func eventKeyboard() *models.InlineKeyboardMarkup {
	row := make([]models.InlineKeyboardButton, 0, len(demo.Events))
	for _, e := range demo.Events {
		row = append(row, models.InlineKeyboardButton{Text: e.String(), CallbackData: e.String()})
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{row},
	}
}

func formatDispatch(event demo.Event, res repo.DispatchResult) string {
	var sb strings.Builder
	for _, line := range res.Transcript {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	// A matched event with no output and no state change reads as a guard
	// rejection. A silent self-loop would look the same; the reference table
	// has none.
	switch {
	case !res.Matched:
		fmt.Fprintf(&sb, "%s ignored in %s", event, res.From)
	case res.Changed() || len(res.Transcript) > 0:
		fmt.Fprintf(&sb, "%s: %s -> %s", event, res.From, res.To)
	default:
		fmt.Fprintf(&sb, "%s blocked by guard in %s", event, res.From)
	}
	return sb.String()
}
