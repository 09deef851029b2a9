package get_business_bookings

import (
	"errors"
	"net/http"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
	bookingsService "github.com/appointa/booking-service/internal/service/bookings"
)

const (
	msgUnauthorized  = "требуется аутентификация бизнеса"
	msgInvalidQuery  = "некорректные параметры фильтрации"
	msgInvalidStatus = "некорректный статус бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/manage/bookings
// Query params: teamMemberId, startDate, endDate, status, includeCancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	req, err := ToServiceRequest(businessID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /manage/bookings - Invalid query params: business_id=%d, error=%v", businessID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.GetBusinessBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput), errors.Is(err, bookingsService.ErrInvalidStatus):
			h.logger.Warn("GET /manage/bookings - Invalid filter: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /manage/bookings - Failed to get bookings: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /manage/bookings - Bookings retrieved: business_id=%d, count=%d", businessID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
