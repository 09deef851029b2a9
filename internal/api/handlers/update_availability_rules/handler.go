package update_availability_rules

import (
	"errors"
	"net/http"

	"github.com/appointa/booking-service/internal/api/handlers"
	"github.com/appointa/booking-service/internal/api/middleware"
	scheduleService "github.com/appointa/booking-service/internal/service/schedule"
	"github.com/appointa/booking-service/internal/service/schedule/models"
)

const (
	msgUnauthorized       = "требуется аутентификация бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRules       = "некорректные правила доступности"
	msgTeamMemberNotFound = "сотрудник не найден"
)

// UpdateRulesRequest HTTP request model
type UpdateRulesRequest struct {
	TeamMemberID *int64             `json:"teamMemberId,omitempty"`
	Rules        []models.RuleInput `json:"rules"`
}

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

// Handle PUT /api/v1/manage/availability-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req UpdateRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /manage/availability-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateRules(r.Context(), &models.UpdateRulesRequest{
		BusinessID:   businessID,
		TeamMemberID: req.TeamMemberID,
		Rules:        req.Rules,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrTeamMemberNotFound):
			h.logger.Warn("PUT /manage/availability-rules - Team member not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgTeamMemberNotFound)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("PUT /manage/availability-rules - Invalid rules: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		default:
			h.logger.Error("PUT /manage/availability-rules - Failed to update rules: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /manage/availability-rules - Rules updated: business_id=%d, rules_count=%d", businessID, len(req.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
