package get_blocked_times

import (
	"net/http"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
)

const msgUnauthorized = "требуется аутентификация бизнеса"

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

// Handle GET /api/v1/manage/blocked-times
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	result, err := h.service.ListBlockedTimes(r.Context(), businessID)
	if err != nil {
		h.logger.Error("GET /manage/blocked-times - Failed to list blocked times: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /manage/blocked-times - Blocked times retrieved: business_id=%d, count=%d",
		businessID, len(result.BlockedTimes))
	handlers.RespondJSON(w, http.StatusOK, result)
}
