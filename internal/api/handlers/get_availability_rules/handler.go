package get_availability_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
	scheduleService "github.com/appointa/booking-service/internal/service/schedule"
)

const (
	msgUnauthorized        = "требуется аутентификация бизнеса"
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

// Handle GET /api/v1/manage/availability-rules
// Query params: teamMemberId (optional, без него возвращаются правила бизнеса)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var teamMemberID *int64
	if raw := r.URL.Query().Get("teamMemberId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /manage/availability-rules - Invalid team member ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTeamMemberID)
			return
		}
		teamMemberID = &id
	}

	result, err := h.service.GetRules(r.Context(), businessID, teamMemberID)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrTeamMemberNotFound):
			h.logger.Warn("GET /manage/availability-rules - Team member not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgTeamMemberNotFound)

		default:
			h.logger.Error("GET /manage/availability-rules - Failed to get rules: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /manage/availability-rules - Rules retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
