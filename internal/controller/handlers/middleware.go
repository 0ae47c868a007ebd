package handlers

import (
	"context"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser находит профиль автора сообщения по Telegram ID.
// Возвращает identity, профиль и true если OK.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (model.Identity, *model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return model.Identity{}, nil, false
	}

	telegramID := update.Message.From.ID
	identity, user, err := h.userService.IdentityForTelegram(ctx, telegramID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeInternal {
			h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return model.Identity{}, nil, false
	}

	return identity, user, true
}

// reportError логирует неожиданную ошибку и отправляет пользователю текст по коду
func (h *Handlers) reportError(ctx context.Context, b *bot.Bot, chatID int64, action string, err error) {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.logger.Error("Command failed", zap.String("action", action), zap.Error(err))
	} else {
		h.logger.Debug("Command rejected", zap.String("action", action), zap.Error(err))
	}
	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
