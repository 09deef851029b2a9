package request_modification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
	bookingsService "github.com/appointa/booking-service/internal/service/bookings"
)

const (
	msgUnauthorized       = "требуется аутентификация бизнеса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректные дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgBookingNotFound    = "бронирование не найдено"
	msgAccessDenied       = "бронирование принадлежит другому бизнесу"
	msgCannotReschedule   = "это бронирование нельзя перенести"
	msgInvalidTimeRange   = "некорректный временной интервал"
	msgInvalidInput       = "некорректные данные переноса"
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

// Handle POST /api/v1/manage/bookings/{bookingId}/request-modification
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /manage/bookings/{id}/request-modification - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RequestModificationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /manage/bookings/{id}/request-modification - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /manage/bookings/{id}/request-modification - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.service.RequestModification(r.Context(), bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("POST /manage/bookings/{id}/request-modification - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("POST /manage/bookings/{id}/request-modification - Access denied: booking_id=%d, business_id=%d",
				bookingID, businessID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookingsService.ErrCannotReschedule):
			h.logger.Warn("POST /manage/bookings/{id}/request-modification - Cannot reschedule: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, bookingsService.ErrInvalidTimeRange):
			h.logger.Warn("POST /manage/bookings/{id}/request-modification - Invalid time range: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("POST /manage/bookings/{id}/request-modification - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /manage/bookings/{id}/request-modification - Failed to request modification: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /manage/bookings/{id}/request-modification - Modification proposed: booking_id=%d, date=%s, time=%s",
		bookingID, req.ProposedDate, req.ProposedStartTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
