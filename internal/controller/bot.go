package controller

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Команды с аргументами: "/enroll 12 7"
	c.registerCommand("enroll", c.handlers.HandleEnroll)
	c.registerCommand("unenroll", c.handlers.HandleUnenroll)
	c.registerCommand("bulkenroll", c.handlers.HandleBulkEnroll)
	c.registerCommand("seats", c.handlers.HandleSeats)
	c.registerCommand("conflicts", c.handlers.HandleConflicts)
	c.registerCommand("addslot", c.handlers.HandleAddSlot)
	c.registerCommand("moveslot", c.handlers.HandleMoveSlot)
	c.registerCommand("cancelslot", c.handlers.HandleCancelSlot)
	c.registerCommand("slots", c.handlers.HandleSlots)
	c.registerCommand("enrollments", c.handlers.HandleEnrollments)
	c.registerCommand("setseats", c.handlers.HandleSetSeats)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// registerCommand матчит команду по имени, а не по префиксу текста,
// чтобы /enroll не перехватывал /enrollments и работал с /enroll@bot
func (c *BotController) registerCommand(name string, handler bot.HandlerFunc) {
	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		cmd, _ := handlers.SplitCommand(update.Message.Text)
		return cmd == name
	}, handler)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "enroll", Description: "✍️ Записаться на курс"},
		{Command: "unenroll", Description: "🗑 Отменить запись"},
		{Command: "seats", Description: "🪑 Свободные места на курсе"},
		{Command: "slots", Description: "📅 Расписание курса"},
		{Command: "conflicts", Description: "⚠️ Проверить занятие на пересечения"},
		{Command: "bulkenroll", Description: "📋 Массовая запись (преподаватель)"},
		{Command: "enrollments", Description: "📋 Записи на курс (преподаватель)"},
		{Command: "setseats", Description: "🪑 Изменить лимит мест (преподаватель)"},
		{Command: "addslot", Description: "➕ Добавить занятие (преподаватель)"},
		{Command: "moveslot", Description: "🔁 Перенести занятие (преподаватель)"},
		{Command: "cancelslot", Description: "🗑 Отменить занятие (преподаватель)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
