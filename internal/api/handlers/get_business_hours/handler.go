package get_business_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/appointa/booking-service/internal/api/handlers"
	scheduleService "github.com/appointa/booking-service/internal/service/schedule"
)

const (
	msgInvalidBusinessID   = "некорректный ID бизнеса"
	msgInvalidTeamMemberID = "некорректный ID сотрудника"
	msgTeamMemberNotFound  = "сотрудник не найден"
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

// Handle GET /api/v1/businesses/{businessId}/availability-rules
// Публичное расписание работы для страницы записи.
// Query params: teamMemberId (optional, без него возвращаются правила бизнеса)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil || businessID <= 0 {
		h.logger.Warn("GET /businesses/{businessId}/availability-rules - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var teamMemberID *int64
	if raw := r.URL.Query().Get("teamMemberId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{businessId}/availability-rules - Invalid team member ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTeamMemberID)
			return
		}
		teamMemberID = &id
	}

	result, err := h.service.GetRules(r.Context(), businessID, teamMemberID)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrTeamMemberNotFound):
			h.logger.Warn("GET /businesses/{businessId}/availability-rules - Team member not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgTeamMemberNotFound)

		default:
			h.logger.Error("GET /businesses/{businessId}/availability-rules - Failed to get rules: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{businessId}/availability-rules - Rules retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
