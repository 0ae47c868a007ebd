package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBookTutor начинает запись к учителю: сначала дата, потом длительность
func HandleBookTutor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	tutorID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, common.ErrorMessage(common.ErrNoMessage))
		return
	}

	identity, ok := common.RequireIdentity(ctx, b, callback, h)
	if !ok {
		return
	}
	if !identity.IsStudent() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⛔️ Записываться могут только студенты.")
		return
	}

	h.StateManager.Begin(callback.From.ID, state.StateCreateBookingDate, map[string]any{state.KeyTutorID: tutorID})

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text: "📅 Когда вам удобно заниматься?\n\n" +
			"Отправьте дату и время в формате ДД.ММ.ГГГГ ЧЧ:ММ\n" +
			"Например: 15.03.2026 18:30\n\n/cancel для отмены",
	})
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// HandleCreateDuration создаёт запись после выбора длительности.
// Учитель и дата берутся из диалога.
func HandleCreateDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	minutes, err := strconv.Atoi(strings.TrimPrefix(callback.Data, callbacktypes.CreateDuration))
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, common.ErrorMessage(common.ErrNoMessage))
		return
	}

	telegramID := callback.From.ID
	if h.StateManager.GetState(telegramID) != state.StateCreateBookingDuration {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⌛️ Диалог записи устарел. Выберите учителя заново: /find")
		return
	}

	tutorID, _ := h.StateManager.GetString(telegramID, state.KeyTutorID)
	rawDate, _ := h.StateManager.GetData(telegramID, state.KeyDate)
	date, _ := rawDate.(time.Time)

	identity, ok := common.RequireIdentity(ctx, b, callback, h)
	if !ok {
		return
	}

	booking, err := h.BookingService.Create(ctx, identity, service.CreateBookingInput{
		TutorID:         tutorID,
		Date:            date,
		DurationMinutes: minutes,
	})
	if err != nil {
		common.ReportError(ctx, b, callback, h, "create_booking", err)
		return
	}

	h.StateManager.ClearState(telegramID)

	common.RenderBooking(ctx, b, msg, booking, model.RoleStudent, h.Location, h.Logger)
	common.AnswerCallback(ctx, b, callback.ID, "✅ Запрос отправлен учителю")
}

// HandleToggleBookmark добавляет учителя в закладки или убирает из них
func HandleToggleBookmark(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	tutorID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	identity, ok := common.RequireIdentity(ctx, b, callback, h)
	if !ok {
		return
	}

	bookmarked, err := h.BookmarkService.Toggle(ctx, identity, tutorID)
	if err != nil {
		common.ReportError(ctx, b, callback, h, "bookmark", err)
		return
	}

	if bookmarked {
		common.AnswerCallback(ctx, b, callback.ID, "⭐️ Добавлено в закладки")
	} else {
		common.AnswerCallback(ctx, b, callback.ID, "☆ Убрано из закладок")
	}
}
