package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/search"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Решение учителя =====
	case strings.HasPrefix(data, callbacktypes.AcceptBooking):
		booking.HandleDecision(ctx, b, callback, h, true)
	case strings.HasPrefix(data, callbacktypes.RejectBooking):
		booking.HandleDecision(ctx, b, callback, h, false)

	// ===== Отмена и удаление из списка =====
	case strings.HasPrefix(data, callbacktypes.CancelBooking):
		booking.HandleCancelRequest(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ConfirmCancel):
		booking.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.DismissBooking):
		booking.HandleDismiss(ctx, b, callback, h)

	// ===== Редактирование записи студентом =====
	case strings.HasPrefix(data, callbacktypes.EditMessage):
		booking.HandleEditMessageStart(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.EditDate):
		booking.HandleEditDateStart(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.EditDuration):
		booking.HandleEditDurationStart(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.SetDuration):
		booking.HandleSetDuration(ctx, b, callback, h)

	// ===== Поиск и закладки =====
	case strings.HasPrefix(data, callbacktypes.BookTutor):
		search.HandleBookTutor(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.CreateDuration):
		search.HandleCreateDuration(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ToggleBookmark):
		search.HandleToggleBookmark(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data), zap.Int64("telegram_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестное действие")
	}
}
