package delete_blocked_time

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
	scheduleService "github.com/appointa/booking-service/internal/service/schedule"
)

const (
	msgUnauthorized        = "требуется аутентификация бизнеса"
	msgInvalidBlockID      = "некорректный ID блокировки"
	msgBlockedTimeNotFound = "блокировка не найдена"
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

// Handle DELETE /api/v1/manage/blocked-times/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	blockID, err := strconv.ParseInt(mux.Vars(r)["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /manage/blocked-times/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.DeleteBlockedTime(r.Context(), businessID, blockID); err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrBlockedTimeNotFound):
			h.logger.Warn("DELETE /manage/blocked-times/{id} - Blocked time not found: block_id=%d, business_id=%d",
				blockID, businessID)
			handlers.RespondNotFound(w, msgBlockedTimeNotFound)

		default:
			h.logger.Error("DELETE /manage/blocked-times/{id} - Failed to delete blocked time: block_id=%d, error=%v",
				blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /manage/blocked-times/{id} - Blocked time deleted: block_id=%d, business_id=%d", blockID, businessID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
