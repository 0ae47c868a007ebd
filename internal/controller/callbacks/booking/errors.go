package booking

import "github.com/Freeeeeet/tutor_match/internal/apperr"

var (
	errNotStudent = apperr.Forbidden("only the booking's student can edit it")
	errNotPending = apperr.InvalidState("only pending bookings can be edited")
)
