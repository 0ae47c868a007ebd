package handlers

import (
	"time"

	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/Freeeeeet/tutor_match/internal/validation"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService     *service.UserService
	bookingService  *service.BookingService
	matchService    *service.MatchService
	bookmarkService *service.BookmarkService
	stateManager    *state.Manager
	validator       *validation.Validator
	policy          config.BookingPolicy
	location        *time.Location
	now             func() time.Time
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	matchService *service.MatchService,
	bookmarkService *service.BookmarkService,
	stateManager *state.Manager,
	policy config.BookingPolicy,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.UTC
	}
	return &Handlers{
		userService:     userService,
		bookingService:  bookingService,
		matchService:    matchService,
		bookmarkService: bookmarkService,
		stateManager:    stateManager,
		validator:       validation.New(),
		policy:          policy,
		location:        location,
		now:             time.Now,
		logger:          logger,
	}
}
