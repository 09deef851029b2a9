package get_business_hours

import (
	"context"

	"github.com/appointa/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetRules(ctx context.Context, businessID int64, teamMemberID *int64) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
