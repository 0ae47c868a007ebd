package booking

import (
	"context"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCancelRequest спрашивает подтверждение перед отменой записи
func HandleCancelRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	// Проверяем доступ до того, как показывать подтверждение
	booking, err := h.BookingService.Get(ctx, identity, bookingID)
	if err != nil {
		common.ReportError(ctx, b, callback, h, "cancel_request", err)
		return
	}

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        formatting.FormatBooking(booking, identity.Role, h.Location) + "\n\n❓ Отменить эту запись?",
		ReplyMarkup: keyboard.ConfirmCancel(booking.ID).Markup(),
	})
	if err != nil {
		h.Logger.Error("Failed to show cancel confirmation", zap.String("booking_id", booking.ID), zap.Error(err))
	}
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// HandleConfirmCancel отменяет запись после подтверждения
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	updated, err := h.BookingService.Cancel(ctx, identity, bookingID)
	if err != nil {
		common.ReportError(ctx, b, callback, h, "cancel", err)
		return
	}

	common.RenderBooking(ctx, b, msg, updated, model.RoleStudent, h.Location, h.Logger)
	common.AnswerCallback(ctx, b, callback.ID, "🚫 Запись отменена")
}

// HandleDismiss убирает отменённую запись из списка
func HandleDismiss(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	bookingID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	identity, ok := common.RequireIdentity(ctx, b, callback, h)
	if !ok {
		return
	}

	if err := h.BookingService.Dismiss(ctx, identity, bookingID); err != nil {
		common.ReportError(ctx, b, callback, h, "dismiss", err)
		return
	}

	if msg := common.GetMessageFromCallback(callback); msg != nil {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: msg.Chat.ID, MessageID: msg.ID})
	}
	common.AnswerCallback(ctx, b, callback.ID, "🗑 Запись убрана из списка")
}
