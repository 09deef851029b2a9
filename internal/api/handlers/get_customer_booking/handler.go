package get_customer_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	bookingsService "github.com/appointa/booking-service/internal/service/bookings"
)

const msgBookingNotFound = "запись не найдена"

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

// Handle GET /api/v1/my-booking/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.service.GetByActionToken(r.Context(), token)
	if err != nil {
		// Любая проблема с токеном отвечает одинаковым not found,
		// чтобы не раскрывать, какие токены существуют
		if errors.Is(err, bookingsService.ErrBookingNotFound) {
			h.logger.Warn("GET /my-booking - Booking not found by token")
			handlers.RespondNotFound(w, msgBookingNotFound)
			return
		}
		h.logger.Error("GET /my-booking - Failed to get booking: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /my-booking - Booking retrieved: booking_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
