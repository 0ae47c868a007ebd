package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleEditMessageStart начинает диалог изменения комментария
func HandleEditMessageStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEditDialog(ctx, b, callback, h, state.StateEditBookingMessage,
		fmt.Sprintf("💬 Отправьте новый комментарий к записи (до %d символов).\n\n/cancel для отмены", h.Policy.MaxMessageLength))
}

// HandleEditDateStart начинает диалог изменения даты
func HandleEditDateStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEditDialog(ctx, b, callback, h, state.StateEditBookingDate,
		"📅 Отправьте новую дату и время в формате ДД.ММ.ГГГГ ЧЧ:ММ\nНапример: 15.03.2026 18:30\n\n/cancel для отмены")
}

func startEditDialog(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, step state.UserState, prompt string) {
	bookingID, err := common.ParseIDFromCallback(callback.Data)
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

	if _, err := editableBooking(ctx, h, identity, bookingID); err != nil {
		common.ReportError(ctx, b, callback, h, "edit_start", err)
		return
	}

	h.StateManager.Begin(callback.From.ID, step, map[string]any{state.KeyBookingID: bookingID})

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: msg.Chat.ID, Text: prompt})
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// HandleEditDurationStart показывает кнопки выбора длительности
func HandleEditDurationStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	bookingID, err := common.ParseIDFromCallback(callback.Data)
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

	if _, err := editableBooking(ctx, h, identity, bookingID); err != nil {
		common.ReportError(ctx, b, callback, h, "edit_duration_start", err)
		return
	}

	kb := keyboard.Durations(common.DurationChoices(h.Policy.AllowedDurations), func(minutes string) string {
		return callbacktypes.Data(callbacktypes.SetDuration, bookingID, minutes)
	})

	b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		ReplyMarkup: kb.Build(),
	})
	common.AnswerCallback(ctx, b, callback.ID, "⏱ Выберите длительность")
}

// HandleSetDuration сохраняет выбранную длительность.
// Формат: set_duration:<booking_id>:<minutes>
func HandleSetDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	bookingID, minutes, err := parseSetDuration(callback.Data)
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

	updated, err := h.BookingService.Edit(ctx, identity, bookingID, model.BookingPatch{DurationMinutes: &minutes})
	if err != nil {
		common.ReportError(ctx, b, callback, h, "set_duration", err)
		return
	}

	h.Logger.Debug("Booking duration changed from bot",
		zap.String("booking_id", updated.ID),
		zap.Int("duration", minutes),
	)

	common.RenderBooking(ctx, b, msg, updated, model.RoleStudent, h.Location, h.Logger)
	common.AnswerCallback(ctx, b, callback.ID, "✅ Длительность изменена")
}

func parseSetDuration(data string) (string, int, error) {
	rest := strings.TrimPrefix(data, callbacktypes.SetDuration)
	bookingID, rawMinutes, ok := strings.Cut(rest, ":")
	if !ok || bookingID == "" {
		return "", 0, common.ErrInvalidFormat
	}
	minutes, err := strconv.Atoi(rawMinutes)
	if err != nil {
		return "", 0, common.ErrInvalidFormat
	}
	return bookingID, minutes, nil
}

// editableBooking загружает запись через сервис, чтобы проверить доступ до начала диалога.
// Окончательные проверки статуса выполняет BookingService.Edit.
func editableBooking(ctx context.Context, h *callbacktypes.Handler, identity model.Identity, bookingID string) (*model.Booking, error) {
	booking, err := h.BookingService.Get(ctx, identity, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.StudentID != identity.UserID {
		return nil, errNotStudent
	}
	if booking.Status != model.BookingStatusPending {
		return nil, errNotPending
	}
	return booking, nil
}
