package create_blocked_time

import (
	"errors"
	"net/http"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
	scheduleService "github.com/appointa/booking-service/internal/service/schedule"
)

const (
	msgUnauthorized       = "требуется аутентификация бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimestamps  = "некорректные времена блокировки, ожидается RFC 3339"
	msgInvalidInput       = "некорректные данные блокировки"
	msgBusinessNotFound   = "бизнес не найден"
	msgTierLimit          = "многодневные блокировки недоступны на текущем тарифе"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/manage/blocked-times
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateBlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /manage/blocked-times - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /manage/blocked-times - Failed to parse timestamps: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimestamps)
		return
	}

	result, err := h.service.CreateBlockedTime(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrBusinessNotFound):
			h.logger.Warn("POST /manage/blocked-times - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, scheduleService.ErrTierLimit):
			h.logger.Warn("POST /manage/blocked-times - Tier limit exceeded: business_id=%d", businessID)
			handlers.RespondForbidden(w, msgTierLimit)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("POST /manage/blocked-times - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /manage/blocked-times - Failed to create blocked time: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /manage/blocked-times - Blocked time created: block_id=%d, business_id=%d", result.ID, businessID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
