package update_availability_rules

import (
	"context"

	"github.com/appointa/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateRules(ctx context.Context, req *models.UpdateRulesRequest) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
