package bookings

import (
	"context"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/internal/integrations/tenantservice"
	"github.com/appointa/booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerActionToken(ctx context.Context, token string) (*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, cancelledBy string, reason *string) error
	SetProposedModification(ctx context.Context, id int64, token string, expiresAt time.Time, date time.Time, startTime, endTime types.TimeString, reason *string) error
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*tenantservice.Business, error)
}

// Notifier интерфейс постановки писем в очередь.
// Ошибки постановки логируются и не влияют на результат операции.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking, businessName string) error
	BookingCancelled(ctx context.Context, booking *domain.Booking, businessName string) error
	ModificationProposed(ctx context.Context, booking *domain.Booking, businessName string) error
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
