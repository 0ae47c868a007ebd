package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks"
	"github.com/Freeeeeet/tutor_match/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которыми пользуется бот
type Services struct {
	Users     *service.UserService
	Bookings  *service.BookingService
	Matches   *service.MatchService
	Bookmarks *service.BookmarkService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

// NewBotController создаёт бота и контроллер. Свободный текст уходит в обработчик
// по умолчанию, потому что порядок проверки зарегистрированных обработчиков не задан.
func NewBotController(
	token string,
	services Services,
	policy config.BookingPolicy,
	location *time.Location,
	logger *zap.Logger,
) (*BotController, error) {
	// Создаём менеджер состояний
	stateManager := state.NewManager(state.DefaultTTL)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Users,
		services.Bookings,
		services.Matches,
		services.Bookmarks,
		stateManager,
		policy,
		location,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		services.Users,
		services.Bookings,
		services.Bookmarks,
		stateManager,
		policy,
		location,
		logger,
	)

	botInstance, err := bot.New(token, bot.WithDefaultHandler(cmdHandlers.HandleTextMessage))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}, nil
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/bookmarks", bot.MatchTypeExact, c.handlers.HandleBookmarks)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/match", bot.MatchTypeExact, c.handlers.HandleMatch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/find", bot.MatchTypePrefix, c.handlers.HandleFind)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "find", Description: "🔎 Поиск по имени, курсу или предмету"},
		{Command: "match", Description: "✨ Подбор по моим предметам"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "bookmarks", Description: "⭐️ Закладки (студент)"},
		{Command: "cancel", Description: "✖️ Прервать диалог"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return fmt.Errorf("set bot commands: %w", err)
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	c.logger.Info("Bot stopped")
	return nil
}

// SweepDialogs удаляет брошенные диалоги. Запускается планировщиком.
func (c *BotController) SweepDialogs(context.Context) error {
	if n := c.stateManager.Sweep(); n > 0 {
		c.logger.Debug("Stale dialogs removed", zap.Int("count", n))
	}
	return nil
}
