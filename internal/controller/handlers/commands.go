package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const studentCommands = "/find - Найти репетитора\n" +
	"/match - Репетиторы по моим предметам\n" +
	"/mybookings - Мои записи\n" +
	"/bookmarks - Закладки\n" +
	"/help - Справка"

const tutorCommands = "/find - Найти студентов\n" +
	"/match - Студенты, которым нужны мои предметы\n" +
	"/mybookings - Запросы и записи\n" +
	"/help - Справка"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	_, user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	var welcomeText string
	if user.Role == model.RoleTutor {
		welcomeText = fmt.Sprintf(
			"👋 Привет, %s!\n\n"+
				"Здесь студенты находят репетиторов и записываются на занятия. "+
				"Новые запросы появятся в /mybookings.\n\n%s",
			user.Name, tutorCommands,
		)
	} else {
		welcomeText = fmt.Sprintf(
			"👋 Привет, %s!\n\n"+
				"Найдите репетитора по своим предметам и запишитесь на занятие.\n\n%s",
			user.Name, studentCommands,
		)
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Для студентов:\n" + studentCommands + "\n\n" +
		"Для репетиторов:\n" + tutorCommands + "\n\n" +
		"/cancel - Прервать текущий диалог"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя.
// Регистрируется как обработчик по умолчанию, поэтому сюда попадает всё, что не команда.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	if strings.HasPrefix(update.Message.Text, "/") {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❓ Неизвестная команда. Список команд: /help", nil)
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("Text message",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)),
	)

	switch currentState {
	case state.StateEditBookingMessage:
		h.handleEditMessageStep(ctx, b, update)
	case state.StateEditBookingDate:
		h.handleEditDateStep(ctx, b, update)
	case state.StateCreateBookingDate:
		h.handleCreateDateStep(ctx, b, update)
	case state.StateSearchingCandidates:
		h.handleSearchStep(ctx, b, update)
	case state.StateNone:
		// Свободный текст вне диалога
	default:
		h.logger.Warn("Unhandled dialog state",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(currentState)),
		)
	}
}
