package modify_customer_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	customerModify "github.com/appointa/booking-service/internal/usecase/customer_modify"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректные дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgBookingNotFound    = "запись не найдена"
	msgCannotModify       = "отмененную запись нельзя перенести"
	msgSlotNotAvailable   = "выбранное время уже занято"
	msgBusinessClosed     = "бизнес закрыт в выбранную дату"
	msgInvalidBookingDate = "некорректная дата переноса"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для переноса на это время"
)

type Handler struct {
	useCase CustomerModifyUseCase
	logger  Logger
}

func NewHandler(useCase CustomerModifyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/my-booking/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req ModifyBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /my-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(token)
	if err != nil {
		h.logger.Warn("PATCH /my-booking - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, customerModify.ErrBookingNotFound):
			h.logger.Warn("PATCH /my-booking - Booking not found by token")
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, customerModify.ErrCannotModify):
			h.logger.Warn("PATCH /my-booking - Booking cannot be modified")
			handlers.RespondConflict(w, msgCannotModify)

		case errors.Is(err, customerModify.ErrSlotConflict):
			h.logger.Warn("PATCH /my-booking - Slot conflict: date=%s, time=%s", req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, customerModify.ErrBusinessClosed):
			h.logger.Warn("PATCH /my-booking - Business closed: date=%s", req.BookingDate)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, customerModify.ErrInvalidDate):
			h.logger.Warn("PATCH /my-booking - Invalid date: date=%s", req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, customerModify.ErrInvalidTimeSlot):
			h.logger.Warn("PATCH /my-booking - Invalid time slot: time=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, customerModify.ErrTooLateToBook):
			h.logger.Warn("PATCH /my-booking - Too late to book: date=%s, time=%s", req.BookingDate, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, customerModify.ErrInvalidInput):
			h.logger.Warn("PATCH /my-booking - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateOrTime)

		default:
			h.logger.Error("PATCH /my-booking - Failed to modify booking: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /my-booking - Booking rescheduled: booking_id=%d, date=%s, time=%s",
		result.ID, req.BookingDate, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, response)
}
