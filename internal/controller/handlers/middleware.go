package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser проверяет что пользователь существует и активен.
// Возвращает контекст с инициатором операции для аудита записей.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (context.Context, *model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return ctx, nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.userService.GetByTelegramID(ctx, telegramID)

	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return ctx, nil, false
	}

	if user == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Пользователь не найден. Используйте /start для регистрации.")
		return ctx, nil, false
	}

	if !user.IsActive {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Учётная запись отключена.")
		return ctx, nil, false
	}

	ctx = service.WithActor(ctx, service.Actor{UserID: user.ID, Role: user.Role})
	return ctx, user, true
}

// requireManager проверяет что пользователь может управлять записями и расписанием
func (h *Handlers) requireManager(ctx context.Context, b *bot.Bot, update *models.Update) (context.Context, *model.User, bool) {
	ctx, user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return ctx, nil, false
	}

	if !user.CanManageEnrollments() {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только преподавателям и учебной части.")
		return ctx, nil, false
	}

	return ctx, user, true
}
