package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Для всех:\n" +
	"/start - Зарегистрироваться в боте\n" +
	"/seats <курс> - Свободные места на курсе\n" +
	"/slots <курс> - Расписание курса\n" +
	"/conflicts <курс> <день> <чч:мм-чч:мм> [аудитория] - Проверить пересечения\n" +
	"/help - Показать эту справку\n\n" +
	"Для студентов:\n" +
	"/enroll <курс> - Записаться на курс\n" +
	"/unenroll <курс> - Отменить запись\n\n" +
	"Для преподавателей и учебной части:\n" +
	"/enroll <курс> <студент> - Записать студента\n" +
	"/unenroll <курс> <студент> - Отписать студента\n" +
	"/bulkenroll <курс> group - Записать всю группу курса\n" +
	"/bulkenroll <курс> <id,id,...> - Записать список студентов\n" +
	"/enrollments <курс> - История записей на курс\n" +
	"/setseats <курс> <мест> - Изменить лимит мест\n" +
	"/addslot <курс> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата] [force] - Добавить занятие\n" +
	"/moveslot <слот> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата] [force] - Перенести занятие\n" +
	"/cancelslot <слот> - Отменить занятие\n\n" +
	"День: пн..вс или 1-7. Дата: ГГГГ-ММ-ДД или ДД.ММ.ГГГГ."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	// Регистрируем пользователя
	user, err := h.userService.RegisterUser(ctx, from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот расписания: здесь можно записаться на курс, "+
			"посмотреть свободные места и проверить занятие на пересечения.\n\n"+
			"Ваш ID: %d\n\n"+
			"Список команд: /help",
		user.FullName(),
		user.ID,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleUnknown отвечает на всё, что не разобрали другие обработчики
func (h *Handlers) HandleUnknown(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "🤔 Неизвестная команда. Список команд: /help")
}
