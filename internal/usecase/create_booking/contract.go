package create_booking

import (
	"context"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/internal/integrations/tenantservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний и блокировок
type ScheduleRepository interface {
	GetRulesByResource(ctx context.Context, businessID int64, teamMemberID *int64) ([]*domain.AvailabilityRule, error)
	GetBlockedTimesOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error)
	GetTeamMember(ctx context.Context, businessID, memberID int64) (*domain.TeamMember, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*tenantservice.Business, error)
}

// Notifier интерфейс постановки писем в очередь.
// Ошибки постановки логируются и не влияют на результат бронирования.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking, businessName string) error
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
