package get_blocked_times

import (
	"context"

	"github.com/appointa/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	ListBlockedTimes(ctx context.Context, businessID int64) (*models.BlockedTimeListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
