package domain

import "time"

// Service represents a bookable service offered by a business.
// Длительность услуги определяет конец бронирования и должна целиком
// помещаться в рабочее окно дня.
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
	// RequiresConfirmation - создавать ли бронирования в статусе pending
	// до ручного подтверждения бизнесом
	RequiresConfirmation bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeBooked returns true if new bookings may reference this service.
// Услуги с бронированиями выключаются через IsActive, а не удаляются.
func (s *Service) CanBeBooked() bool {
	return s.IsActive
}

// InitialBookingStatus возвращает статус нового бронирования этой услуги
func (s *Service) InitialBookingStatus() BookingStatus {
	if s.RequiresConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}
