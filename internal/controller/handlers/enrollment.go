package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/controller/formatting"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	usageEnroll      = "/enroll <курс> [студент]"
	usageUnenroll    = "/unenroll <курс> [студент]"
	usageBulkEnroll  = "/bulkenroll <курс> group | <id,id,...>"
	usageSeats       = "/seats <курс>"
	usageEnrollments = "/enrollments <курс>"
	usageSetSeats    = "/setseats <курс> <мест>"
)

// enrollTarget определяет курс и студента. Без явного студента действует сам пользователь,
// чужой ID доступен только преподавателям и учебной части.
func (h *Handlers) enrollTarget(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, args []string, usage string) (int64, int64, bool) {
	if len(args) < 1 || len(args) > 2 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usage)
		return 0, 0, false
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usage)
		return 0, 0, false
	}

	if len(args) == 1 {
		if !user.IsStudent() {
			h.sendError(ctx, b, chatID, "❌ Укажите ID студента.\n\nИспользование: "+usage)
			return 0, 0, false
		}
		return offeringID, user.ID, true
	}

	studentID, err := parseID(args[1])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usage)
		return 0, 0, false
	}

	if studentID != user.ID && !user.CanManageEnrollments() {
		h.sendError(ctx, b, chatID, "❌ Записывать других студентов могут только преподаватели и учебная часть.")
		return 0, 0, false
	}

	return offeringID, studentID, true
}

// HandleEnroll обрабатывает команду /enroll
func (h *Handlers) HandleEnroll(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	offeringID, studentID, ok := h.enrollTarget(ctx, b, chatID, user, args, usageEnroll)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(ctx, offeringID, studentID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "enroll", err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Готово!\n\n"+formatting.FormatEnrollment(enrollment))
}

// HandleUnenroll обрабатывает команду /unenroll
func (h *Handlers) HandleUnenroll(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	offeringID, studentID, ok := h.enrollTarget(ctx, b, chatID, user, args, usageUnenroll)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Unenroll(ctx, offeringID, studentID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "unenroll", err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Запись отменена\n\n"+formatting.FormatEnrollment(enrollment))
}

// HandleBulkEnroll обрабатывает команду /bulkenroll. Работа ограничена по времени,
// при отмене пользователь получает частичный результат.
func (h *Handlers) HandleBulkEnroll(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, user, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) < 2 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageBulkEnroll)
		return
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageBulkEnroll)
		return
	}

	bulkCtx, cancel := context.WithTimeout(ctx, h.bulkTimeout)
	defer cancel()

	var result *model.BulkResult
	if len(args) == 2 && strings.EqualFold(args[1], "group") {
		result, err = h.bulkService.BulkEnrollGroup(bulkCtx, offeringID)
		if err != nil {
			h.replyServiceError(ctx, b, chatID, "bulk enroll group", err)
			return
		}
	} else {
		studentIDs, err := parseIDs(args[1:])
		if err != nil {
			h.replyUsage(ctx, b, chatID, err, usageBulkEnroll)
			return
		}
		result = h.bulkService.BulkEnroll(bulkCtx, offeringID, studentIDs)
	}

	h.logger.Info("Bulk enrollment requested from bot",
		zap.Int64("user_id", user.ID),
		zap.String("bulk_id", result.OperationID.String()),
	)

	h.sendMessage(ctx, b, chatID, formatting.FormatBulkResult(result))
}

// HandleSeats обрабатывает команду /seats
func (h *Handlers) HandleSeats(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) != 1 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageSeats)
		return
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageSeats)
		return
	}

	view, err := h.offeringService.Describe(ctx, offeringID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "describe offering", err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatOffering(view))
}

// HandleEnrollments обрабатывает команду /enrollments: история записей на курс
func (h *Handlers) HandleEnrollments(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) != 1 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageEnrollments)
		return
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageEnrollments)
		return
	}

	enrollments, err := h.enrollmentService.ListEnrollments(ctx, offeringID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "list enrollments", err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatEnrollmentList(offeringID, enrollments))
}

// HandleSetSeats обрабатывает команду /setseats. Меньше занятых мест поставить нельзя.
func (h *Handlers) HandleSetSeats(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) != 2 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageSetSeats)
		return
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageSetSeats)
		return
	}

	maxSeats, err := parseSeats(args[1])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageSetSeats)
		return
	}

	if err := h.offeringService.SetCapacity(ctx, offeringID, maxSeats); err != nil {
		h.replyServiceError(ctx, b, chatID, "set capacity", err)
		return
	}

	view, err := h.offeringService.Describe(ctx, offeringID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "describe offering", err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Лимит мест обновлён\n\n"+formatting.FormatOffering(view))
}
