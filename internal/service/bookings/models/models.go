package models

import (
	"errors"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	BusinessID       int64
	TeamMemberID     *int64     // Фильтр по сотруднику (опционально)
	StartDate        *time.Time // Начало периода (опционально)
	EndDate          *time.Time // Конец периода (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool       // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BusinessBookingsFilter, error) {
	filter := domain.BusinessBookingsFilter{
		BusinessID:       r.BusinessID,
		TeamMemberID:     r.TeamMemberID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на обновление статуса бронирования бизнесом
type UpdateStatusRequest struct {
	BusinessID int64
	Status     string
}

// CancelBookingRequest запрос бизнеса на отмену бронирования
type CancelBookingRequest struct {
	BusinessID         int64
	CancellationReason *string
}

// RequestModificationRequest запрос бизнеса на предложение переноса
type RequestModificationRequest struct {
	BusinessID int64
	Date       time.Time        // Предложенная дата
	StartTime  types.TimeString // Предложенное время начала
	Reason     *string          // Причина переноса (опционально)
}

// CustomerCancelRequest запрос клиента на отмену по постоянному токену
type CustomerCancelRequest struct {
	Token              string
	CancellationReason *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64  `json:"id"`
	BusinessID   int64  `json:"businessId"`
	ServiceID    int64  `json:"serviceId"`
	TeamMemberID *int64 `json:"teamMemberId,omitempty"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`

	BookingDate string `json:"bookingDate"` // "2026-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "10:30"
	Status      string `json:"status"`

	// Денормализованные данные услуги
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes,omitempty"`

	// Предложенный бизнесом перенос, ждущий подтверждения клиента
	ProposedBookingDate *string `json:"proposedBookingDate,omitempty"`
	ProposedStartTime   *string `json:"proposedStartTime,omitempty"`
	ProposedEndTime     *string `json:"proposedEndTime,omitempty"`
	ModificationReason  *string `json:"modificationReason,omitempty"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BusinessID:         b.BusinessID,
		ServiceID:          b.ServiceID,
		TeamMemberID:       b.TeamMemberID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		DurationMinutes:    b.DurationMinutes,
		Notes:              b.Notes,
		ModificationReason: b.ModificationReason,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.ProposedBookingDate != nil {
		dateStr := b.ProposedBookingDate.Format(domain.DateFormat)
		resp.ProposedBookingDate = &dateStr
	}
	if b.ProposedStartTime != nil {
		startStr := b.ProposedStartTime.String()
		resp.ProposedStartTime = &startStr
	}
	if b.ProposedEndTime != nil {
		endStr := b.ProposedEndTime.String()
		resp.ProposedEndTime = &endStr
	}
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending:
		return domain.StatusPending, nil
	case domain.StatusConfirmed:
		return domain.StatusConfirmed, nil
	case domain.StatusModificationPending:
		return domain.StatusModificationPending, nil
	case domain.StatusCancelled:
		return domain.StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
