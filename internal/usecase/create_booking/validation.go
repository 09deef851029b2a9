package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.TeamMemberID != nil && *req.TeamMemberID <= 0 {
		return fmt.Errorf("%w: teamMemberID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is too long", ErrInvalidInput)
	}

	if err := validateEmail(req.CustomerEmail); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}

// validateEmail проверяет минимальную форму адреса, остальное решает письмо
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid customerEmail", ErrInvalidInput)
	}
	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateSlotWithinWindow проверяет, что интервал [startTime, endTime)
// целиком помещается в рабочее окно и попадает на сетку слотов
func validateSlotWithinWindow(rule *domain.AvailabilityRule, startTime, endTime types.TimeString) error {
	if startTime.IsBefore(rule.StartTime) || endTime.IsAfter(rule.EndTime) {
		return fmt.Errorf("%w: slot is outside working hours %s-%s",
			ErrInvalidTimeSlot, rule.StartTime, rule.EndTime)
	}

	offset := startTime.Minutes() - rule.StartTime.Minutes()
	if offset%rule.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: startTime is not aligned to %d minute grid",
			ErrInvalidTimeSlot, rule.SlotDurationMinutes)
	}

	return nil
}

// validateBookingWindow применяет настройки окна записи бизнеса: минимальный
// интервал до начала и горизонт записи вперед. Нулевые значения = без
// ограничения, значения сверх предельных обрезаются
func validateBookingWindow(minNoticeMinutes, advanceBookingDays int, bookingDate time.Time, startTime types.TimeString, now time.Time) error {
	if minNoticeMinutes > domain.MaxNoticeMinutes {
		minNoticeMinutes = domain.MaxNoticeMinutes
	}
	if advanceBookingDays > domain.MaxAdvanceBookingDays {
		advanceBookingDays = domain.MaxAdvanceBookingDays
	}

	if advanceBookingDays > 0 {
		horizon := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, advanceBookingDays)
		dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, now.Location())
		if dateOnly.After(horizon) {
			return fmt.Errorf("%w: date is beyond the booking horizon of %d days", ErrInvalidDate, advanceBookingDays)
		}
	}

	if minNoticeMinutes > 0 {
		start := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, now.Location()).
			Add(time.Duration(startTime.Minutes()) * time.Minute)
		if start.Before(now.Add(time.Duration(minNoticeMinutes) * time.Minute)) {
			return ErrTooLateToBook
		}
	}

	return nil
}

// validateBookingTime запрещает бронировать прошедшее время сегодняшнего дня
func validateBookingTime(bookingDate time.Time, startTime types.TimeString, now time.Time) error {
	if !isSameDay(bookingDate, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	if !startTime.IsAfter(currentTime) {
		return ErrTooLateToBook
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
