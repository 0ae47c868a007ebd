package common

import (
	"context"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// RequireIdentity находит профиль по Telegram ID автора callback.
// При ошибке сам отвечает на callback и возвращает false.
func RequireIdentity(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) (model.Identity, bool) {
	identity, _, err := h.UserService.IdentityForTelegram(ctx, callback.From.ID)
	if err != nil {
		h.Logger.Debug("Callback from unknown user",
			zap.Int64("telegram_id", callback.From.ID),
			zap.Error(err),
		)
		AnswerCallbackAlert(ctx, b, callback.ID, ErrorMessage(err))
		return model.Identity{}, false
	}
	return identity, true
}

// ReportError логирует неожиданные ошибки и показывает пользователю текст по коду ошибки
func ReportError(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, action string, err error) {
	fields := []zap.Field{
		zap.String("action", action),
		zap.Int64("telegram_id", callback.From.ID),
		zap.Error(err),
	}
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.Logger.Error("Callback action failed", fields...)
	} else {
		h.Logger.Info("Callback action rejected", fields...)
	}
	AnswerCallbackAlert(ctx, b, callback.ID, ErrorMessage(err))
}
