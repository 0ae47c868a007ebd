package common

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// RenderBooking заменяет текст и кнопки сообщения на актуальное состояние записи
func RenderBooking(ctx context.Context, b *bot.Bot, msg *models.Message, booking *model.Booking, viewer model.Role, loc *time.Location, logger *zap.Logger) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        formatting.FormatBooking(booking, viewer, loc),
		ReplyMarkup: keyboard.BookingActions(booking, viewer).Markup(),
	})
	if err != nil {
		logger.Error("Failed to edit booking message",
			zap.String("booking_id", booking.ID),
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
	}
}

// SendBooking отправляет запись новым сообщением
func SendBooking(ctx context.Context, b *bot.Bot, chatID int64, booking *model.Booking, viewer model.Role, loc *time.Location, logger *zap.Logger) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        formatting.FormatBooking(booking, viewer, loc),
		ReplyMarkup: keyboard.BookingActions(booking, viewer).Markup(),
	})
	if err != nil {
		logger.Error("Failed to send booking message",
			zap.String("booking_id", booking.ID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// DurationChoices варианты длительности для кнопок. Если политика разрешает
// любую длительность, предлагаются стандартные варианты.
func DurationChoices(allowed []int) []int {
	if len(allowed) == 0 {
		return []int{30, 60, 90}
	}
	return allowed
}
