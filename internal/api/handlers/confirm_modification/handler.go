package confirm_modification

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	confirmModification "github.com/appointa/booking-service/internal/usecase/confirm_modification"
)

const (
	msgTokenNotFound  = "ссылка недействительна или уже использована"
	msgTokenExpired   = "срок действия ссылки истек, запись сохранила прежнее время"
	msgSlotConflict   = "предложенное время уже занято"
	msgBusinessClosed = "бизнес закрыт в предложенную дату"
)

type Handler struct {
	useCase ConfirmModificationUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmModificationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/confirm-modification/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.useCase.Execute(r.Context(), &confirmModification.Request{Token: token})
	if err != nil {
		switch {
		case errors.Is(err, confirmModification.ErrTokenNotFound):
			h.logger.Warn("POST /confirm-modification - Token not found or already used")
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, confirmModification.ErrTokenExpired):
			h.logger.Warn("POST /confirm-modification - Token expired")
			handlers.RespondError(w, http.StatusGone, msgTokenExpired)

		case errors.Is(err, confirmModification.ErrSlotConflict):
			h.logger.Warn("POST /confirm-modification - Proposed slot taken")
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, confirmModification.ErrBusinessClosed):
			h.logger.Warn("POST /confirm-modification - Business closed on proposed date")
			handlers.RespondConflict(w, msgBusinessClosed)

		default:
			h.logger.Error("POST /confirm-modification - Failed to confirm modification: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /confirm-modification - Modification confirmed: booking_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
