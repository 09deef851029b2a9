package domain

import (
	"errors"
	"time"
)

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultMaxBookingsPerSlot  = 1
	DefaultStartTime           = "09:00"
	DefaultEndTime             = "17:00"

	DefaultAdvanceBookingDays      = 0  // 0 = без ограничения
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 часов
	MinBookingsPerSlot      = 1
	MaxBookingsPerSlotLimit = 100
	MaxAdvanceBookingDays   = 365
	MaxNoticeMinutes        = 10080 // неделя

	MaxCustomerNameLength       = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlockReasonLength        = 200
)

// ModificationTokenTTL срок жизни токена подтверждения переноса
const ModificationTokenTTL = 48 * time.Hour

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Ошибки валидации доменных инвариантов
var (
	ErrInvalidDayOfWeek     = errors.New("domain: day of week must be in [0,6]")
	ErrInvalidWorkingWindow = errors.New("domain: start time must be before end time")
	ErrInvalidSlotDuration  = errors.New("domain: invalid slot duration")
	ErrInvalidSlotCapacity  = errors.New("domain: invalid max bookings per slot")
)

// ActiveStatuses статусы бронирований, занимающих свой интервал времени.
// Используется при подсчёте конфликтов и доступных слотов.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusModificationPending,
}
