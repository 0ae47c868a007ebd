package callbacktypes

import (
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"go.uber.org/zap"
)

// Форматы callback data. ID записи и пользователя это UUID,
// поэтому самая длинная строка укладывается в лимит Telegram в 64 байта.
const (
	Noop = "noop"

	AcceptBooking  = "accept_booking:"  // accept_booking:<booking_id>
	RejectBooking  = "reject_booking:"  // reject_booking:<booking_id>
	CancelBooking  = "cancel_booking:"  // cancel_booking:<booking_id>
	ConfirmCancel  = "confirm_cancel:"  // confirm_cancel:<booking_id>
	DismissBooking = "dismiss_booking:" // dismiss_booking:<booking_id>
	EditMessage    = "edit_message:"    // edit_message:<booking_id>
	EditDate       = "edit_date:"       // edit_date:<booking_id>
	EditDuration   = "edit_duration:"   // edit_duration:<booking_id>
	SetDuration    = "set_duration:"    // set_duration:<booking_id>:<minutes>

	BookTutor      = "book_tutor:"      // book_tutor:<tutor_id>
	CreateDuration = "create_duration:" // create_duration:<minutes>
	ToggleBookmark = "bookmark:"        // bookmark:<tutor_id>
)

// Data собирает callback data из префикса и частей
func Data(prefix string, parts ...string) string {
	return prefix + strings.Join(parts, ":")
}

// StateManager интерфейс для управления диалогами пользователей
type StateManager interface {
	GetState(telegramID int64) state.UserState
	Begin(telegramID int64, s state.UserState, data map[string]any)
	GetData(telegramID int64, key string) (any, bool)
	GetString(telegramID int64, key string) (string, bool)
	ClearState(telegramID int64)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService     *service.UserService
	BookingService  *service.BookingService
	BookmarkService *service.BookmarkService
	StateManager    StateManager
	Policy          config.BookingPolicy
	Location        *time.Location
	Logger          *zap.Logger
}
