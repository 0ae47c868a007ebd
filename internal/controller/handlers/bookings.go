package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxListedBookings сколько записей из каждой части списка отправляется отдельными сообщениями
const maxListedBookings = 10

// HandleMyBookings обрабатывает команду /mybookings.
// Ожидающие записи идут первыми, каждая отдельным сообщением со своими кнопками.
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	identity, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	list, err := h.bookingService.ListMine(ctx, identity)
	if err != nil {
		h.reportError(ctx, b, chatID, "list_bookings", err)
		return
	}

	if len(list.Pending) == 0 && len(list.Settled) == 0 {
		text := "📭 У вас пока нет записей."
		if identity.IsStudent() {
			text += "\n\nНайдите репетитора: /find"
		}
		h.sendMessage(ctx, b, chatID, text, nil)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"📅 Ваши записи\n\n⏳ Ожидают ответа: %d\n✅ Подтверждены: %d\n❌ Отменены: %d",
		len(list.Pending), len(list.Confirmed()), len(list.Cancelled()),
	), nil)

	h.sendBookings(ctx, b, chatID, list.Pending, identity.Role)
	h.sendBookings(ctx, b, chatID, list.Settled, identity.Role)
}

func (h *Handlers) sendBookings(ctx context.Context, b *bot.Bot, chatID int64, bookings []*model.Booking, viewer model.Role) {
	for i, booking := range bookings {
		if i == maxListedBookings {
			h.sendMessage(ctx, b, chatID, fmt.Sprintf("… и ещё %d", len(bookings)-maxListedBookings), nil)
			return
		}
		common.SendBooking(ctx, b, chatID, booking, viewer, h.location, h.logger)
	}
}

// HandleBookmarks обрабатывает команду /bookmarks
func (h *Handlers) HandleBookmarks(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	identity, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	tutors, err := h.bookmarkService.List(ctx, identity)
	if err != nil {
		h.reportError(ctx, b, chatID, "list_bookmarks", err)
		return
	}

	if len(tutors) == 0 {
		h.sendMessage(ctx, b, chatID, "☆ В закладках пока пусто. Найдите репетитора: /find", nil)
		return
	}

	for _, tutor := range tutors {
		h.sendMessage(ctx, b, chatID,
			formatting.FormatProfile(tutor, nil),
			keyboard.Candidate(tutor, identity.Role).Markup(),
		)
	}
}
