package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/controller/formatting"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// replyServiceError переводит ошибку сервиса в сообщение пользователю.
// Отказы по бизнес-правилам уже залогированы сервисом, здесь логируются только внутренние.
func (h *Handlers) replyServiceError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodePersistence || code == apperrors.CodeUnknown {
		h.logger.Error("Command failed",
			zap.String("op", op),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
	h.sendError(ctx, b, chatID, formatting.ErrorMessage(err))
}

// replyUsage отвечает на неверные аргументы команды подсказкой
func (h *Handlers) replyUsage(ctx context.Context, b *bot.Bot, chatID int64, err error, usage string) {
	h.sendError(ctx, b, chatID, formatting.ErrorMessage(err)+"\n\nИспользование: "+usage)
}
