package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ========================
// Редактирование записи
// ========================

func (h *Handlers) handleEditMessageStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	message := update.Message.Text
	h.applyEdit(ctx, b, update, model.BookingPatch{Message: &message})
}

func (h *Handlers) handleEditDateStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	date, ok := h.parseFutureDate(ctx, b, update)
	if !ok {
		return
	}
	h.applyEdit(ctx, b, update, model.BookingPatch{Date: &date})
}

// applyEdit отправляет изменение в сервис. При ошибке ввода диалог остаётся
// открытым, чтобы можно было отправить исправленное значение.
func (h *Handlers) applyEdit(ctx context.Context, b *bot.Bot, update *models.Update, patch model.BookingPatch) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	bookingID, ok := h.stateManager.GetString(telegramID, state.KeyBookingID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "⌛️ Диалог устарел. Откройте запись заново: /mybookings")
		return
	}

	identity, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	updated, err := h.bookingService.Edit(ctx, identity, bookingID, patch)
	if err != nil {
		h.reportError(ctx, b, chatID, "edit_booking", err)
		if apperr.CodeOf(err) != apperr.CodeInvalidInput {
			h.stateManager.ClearState(telegramID)
		}
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, chatID, "✅ Запись обновлена", nil)
	common.SendBooking(ctx, b, chatID, updated, model.RoleStudent, h.location, h.logger)
}

// ========================
// Создание записи
// ========================

func (h *Handlers) handleCreateDateStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	tutorID, ok := h.stateManager.GetString(telegramID, state.KeyTutorID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, "⌛️ Диалог устарел. Выберите репетитора заново: /find")
		return
	}

	date, ok := h.parseFutureDate(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.Begin(telegramID, state.StateCreateBookingDuration, map[string]any{
		state.KeyTutorID: tutorID,
		state.KeyDate:    date,
	})

	kb := keyboard.Durations(common.DurationChoices(h.policy.AllowedDurations), func(minutes string) string {
		return callbacktypes.Data(callbacktypes.CreateDuration, minutes)
	})
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"⏱ "+formatting.FormatDateTime(date.In(h.location))+"\nВыберите длительность занятия:",
		kb.Markup(),
	)
}

// parseFutureDate разбирает дату из сообщения. При ошибке сообщает формат
// и оставляет диалог открытым.
func (h *Handlers) parseFutureDate(ctx context.Context, b *bot.Bot, update *models.Update) (date time.Time, ok bool) {
	chatID := update.Message.Chat.ID

	date, err := formatting.ParseDateTime(strings.TrimSpace(update.Message.Text), h.location)
	if err != nil {
		h.sendError(ctx, b, chatID, "⚠️ Не получилось разобрать дату. Формат: ДД.ММ.ГГГГ ЧЧ:ММ, например 15.03.2026 18:30")
		return date, false
	}
	if !date.After(h.now()) {
		h.sendError(ctx, b, chatID, "⚠️ Дата должна быть в будущем. Попробуйте ещё раз.")
		return date, false
	}
	return date, true
}
