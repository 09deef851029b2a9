package cancel_customer_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	bookingsService "github.com/appointa/booking-service/internal/service/bookings"
	"github.com/appointa/booking-service/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "запись не найдена"
	msgCannotCancel       = "запись уже отменена"
	msgPastBooking        = "прошедшую запись нельзя отменить"
)

// CancelBookingRequest HTTP request model, тело опционально
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

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

// Handle POST /api/v1/my-booking/{token}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /my-booking/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.CustomerCancel(r.Context(), &models.CustomerCancelRequest{
		Token:              token,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("POST /my-booking/cancel - Booking not found by token")
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrCannotCancel):
			h.logger.Warn("POST /my-booking/cancel - Booking already cancelled")
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookingsService.ErrPastBooking):
			h.logger.Warn("POST /my-booking/cancel - Past booking cannot be cancelled")
			handlers.RespondConflict(w, msgPastBooking)

		default:
			h.logger.Error("POST /my-booking/cancel - Failed to cancel booking: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /my-booking/cancel - Booking cancelled by customer")
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
