package booking

import (
	"context"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleDecision учитель принимает (accept=true) или отклоняет ожидающую запись
func HandleDecision(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, accept bool) {
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

	decision := service.DecisionRejected
	if accept {
		decision = service.DecisionAccepted
	}

	updated, err := h.BookingService.Decide(ctx, identity, bookingID, decision)
	if err != nil {
		common.ReportError(ctx, b, callback, h, "decide", err)
		return
	}

	common.RenderBooking(ctx, b, msg, updated, model.RoleTutor, h.Location, h.Logger)

	if accept {
		common.AnswerCallback(ctx, b, callback.ID, "✅ Запись принята")
	} else {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Запись отклонена")
	}
}
