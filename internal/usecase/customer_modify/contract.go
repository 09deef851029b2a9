package customer_modify

import (
	"context"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCustomerActionToken(ctx context.Context, token string) (*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
	ApplyModification(ctx context.Context, id int64, date time.Time, startTime, endTime types.TimeString) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний и блокировок
type ScheduleRepository interface {
	GetRulesByResource(ctx context.Context, businessID int64, teamMemberID *int64) ([]*domain.AvailabilityRule, error)
	GetBlockedTimesOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
