package domain

import (
	"time"

	"github.com/appointa/booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusModificationPending BookingStatus = "modification_pending"
	StatusCancelled           BookingStatus = "cancelled"
)

// CancelledBy указывает, кто отменил бронирование
const (
	CancelledByCustomer = "customer"
	CancelledByBusiness = "business"
)

// Booking represents a customer appointment in the system
type Booking struct {
	ID           int64
	BusinessID   int64
	ServiceID    int64
	TeamMemberID *int64 // nil = бронирование на бизнес целиком, без конкретного сотрудника

	CustomerName  string
	CustomerEmail string

	BookingDate time.Time // только дата, время хранится отдельно
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus

	// Denormalized data for history
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int
	Notes           *string

	// Постоянный capability-токен для self-service ссылок клиента
	CustomerActionToken string

	// Эфемерный токен подтверждения переноса (48 часов) и предложенные
	// бизнесом значения; оригинальные поля не перезаписываются до подтверждения
	ModificationToken          *string
	ModificationTokenExpiresAt *time.Time
	ProposedBookingDate        *time.Time
	ProposedStartTime          *types.TimeString
	ProposedEndTime            *types.TimeString
	ModificationReason         *string

	CancelledBy        *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still claims its time interval
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled.
// Отмена доступна из любого неотмененного статуса; cancelled - терминальный.
func (b *Booking) CanBeCancelled() bool {
	return b.Status != StatusCancelled
}

// CanBeRescheduled returns true if the business may propose a new time
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// HasPendingModification returns true if a business-proposed reschedule awaits the customer
func (b *Booking) HasPendingModification() bool {
	return b.Status == StatusModificationPending && b.ModificationToken != nil
}

// ModificationTokenExpired проверяет срок жизни токена переноса на момент now
func (b *Booking) ModificationTokenExpired(now time.Time) bool {
	return b.ModificationTokenExpiresAt == nil || now.After(*b.ModificationTokenExpiresAt)
}

// IsPast returns true if the booking starts before now.
// Используется для запрета self-service отмены прошедших бронирований.
func (b *Booking) IsPast(now time.Time) bool {
	y, m, d := b.BookingDate.Date()
	start := time.Date(y, m, d, b.StartTime.Minutes()/60, b.StartTime.Minutes()%60, 0, 0, now.Location())
	return start.Before(now)
}

// OverlapsInterval проверяет пересечение бронирования с интервалом [start, end)
// на той же дате. Граничащие интервалы не пересекаются.
func (b *Booking) OverlapsInterval(start, end types.TimeString) bool {
	return types.Overlaps(b.StartTime, b.EndTime, start, end)
}

// ValidStatusTransition проверяет допустимость перехода между статусами
func ValidStatusTransition(from, to BookingStatus) bool {
	if from == StatusCancelled {
		return false // терминальный статус
	}
	switch to {
	case StatusCancelled:
		return true
	case StatusConfirmed:
		return from == StatusPending || from == StatusModificationPending
	case StatusModificationPending:
		return from == StatusPending || from == StatusConfirmed
	default:
		// pending назначается только при создании
		return false
	}
}

// BusinessBookingsFilter фильтр для получения бронирований бизнеса
type BusinessBookingsFilter struct {
	BusinessID       int64          // Обязательный параметр
	TeamMemberID     *int64         // Фильтр по сотруднику (опционально)
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные бронирования
}
