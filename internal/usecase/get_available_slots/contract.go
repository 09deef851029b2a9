package get_available_slots

import (
	"context"
	"time"

	"github.com/appointa/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByBusinessWithFilter получает все бронирования бизнеса по фильтру
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний и блокировок
type ScheduleRepository interface {
	// GetRulesByResource получает правила доступности бизнеса или сотрудника
	GetRulesByResource(ctx context.Context, businessID int64, teamMemberID *int64) ([]*domain.AvailabilityRule, error)
	// GetBlockedTimesOverlapping получает блокировки, пересекающие период [from, to)
	GetBlockedTimesOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error)
	// GetTeamMember получает сотрудника бизнеса
	GetTeamMember(ctx context.Context, businessID, memberID int64) (*domain.TeamMember, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
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
