package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/controller/formatting"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	usageConflicts  = "/conflicts <курс> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата]"
	usageAddSlot    = "/addslot <курс> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата] [force]"
	usageMoveSlot   = "/moveslot <слот> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата] [force]"
	usageCancelSlot = "/cancelslot <слот>"
	usageSlots      = "/slots <курс>"
)

// HandleConflicts обрабатывает команду /conflicts: проверка без сохранения
func (h *Handlers) HandleConflicts(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	parsed, err := parseSlotArgs(args, time.Now())
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageConflicts)
		return
	}

	conflicts, err := h.scheduleService.CheckSlot(ctx, parsed.slot, nil)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "check slot", err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatSlotInfo(parsed.slot)+"\n\n"+formatting.FormatConflicts(conflicts))
}

// HandleAddSlot обрабатывает команду /addslot. С force слот сохраняется несмотря на пересечения.
func (h *Handlers) HandleAddSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	parsed, err := parseSlotArgs(args, time.Now())
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageAddSlot)
		return
	}

	conflicts, err := h.scheduleService.CreateSlot(ctx, parsed.slot, parsed.force)
	if err != nil {
		h.replySlotError(ctx, b, chatID, "create slot", err)
		return
	}

	text := "✅ Занятие #" + formatID(parsed.slot.ID) + " добавлено\n\n" + formatting.FormatSlotInfo(parsed.slot)
	if len(conflicts) > 0 {
		text += "\n\n" + formatting.FormatConflicts(conflicts)
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandleMoveSlot обрабатывает команду /moveslot: перенос занятия с той же проверкой пересечений
func (h *Handlers) HandleMoveSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) < 3 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageMoveSlot)
		return
	}

	slotID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageMoveSlot)
		return
	}

	current, err := h.scheduleService.GetSlot(ctx, slotID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "get slot", err)
		return
	}

	parsed, err := parseMoveArgs(args, current)
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageMoveSlot)
		return
	}

	conflicts, err := h.scheduleService.UpdateSlot(ctx, parsed.slot, parsed.force)
	if err != nil {
		h.replySlotError(ctx, b, chatID, "update slot", err)
		return
	}

	text := "✅ Занятие #" + formatID(slotID) + " перенесено\n\n" + formatting.FormatSlotInfo(parsed.slot)
	if !parsed.slot.IsActive {
		text += "\n⏸ Занятие отменено и в расписании не участвует"
	}
	if len(conflicts) > 0 {
		text += "\n\n" + formatting.FormatConflicts(conflicts)
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandleCancelSlot обрабатывает команду /cancelslot. Слот выключается, но не удаляется.
func (h *Handlers) HandleCancelSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) != 1 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageCancelSlot)
		return
	}

	slotID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageCancelSlot)
		return
	}

	if err := h.scheduleService.DeactivateSlot(ctx, slotID); err != nil {
		h.replyServiceError(ctx, b, chatID, "deactivate slot", err)
		return
	}

	h.sendMessage(ctx, b, chatID, "🗑 Занятие #"+formatID(slotID)+" отменено")
}

// HandleSlots обрабатывает команду /slots: расписание курса
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	ctx, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	_, args := SplitCommand(update.Message.Text)

	if len(args) != 1 {
		h.replyUsage(ctx, b, chatID, apperrors.New(apperrors.CodeValidation, "wrong number of arguments"), usageSlots)
		return
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, usageSlots)
		return
	}

	slots, err := h.scheduleService.GetSlotsByCourseOffering(ctx, offeringID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, "get slots", err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatSlotList(offeringID, slots, time.Now()))
}

// replySlotError показывает пересечения, из-за которых слот не сохранён
func (h *Handlers) replySlotError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		h.sendError(ctx, b, chatID, formatting.FormatConflicts(conflictErr.Conflicts)+
			"\n\nЗанятие не сохранено. Чтобы сохранить всё равно, добавьте force.")
		return
	}
	h.replyServiceError(ctx, b, chatID, op, err)
}
