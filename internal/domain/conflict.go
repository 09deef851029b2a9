package domain

import (
	"time"

	"github.com/appointa/booking-service/pkg/types"
)

// ConflictKind результат проверки интервала на конфликты
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	// ConflictBlocked интервал пересекается с блокировкой времени
	ConflictBlocked
	// ConflictCapacity интервал исчерпал вместимость слота
	ConflictCapacity
)

// ConflictCheck кандидат-интервал для проверки конфликтов.
// ExcludeBookingID исключает само переносимое бронирование из подсчета,
// 0 - ничего не исключать.
type ConflictCheck struct {
	Date               time.Time
	StartTime          types.TimeString
	EndTime            types.TimeString
	TeamMemberID       *int64
	MaxBookingsPerSlot int
	ExcludeBookingID   int64
}

// FindConflict проверяет кандидат-интервал против живого состояния дня.
// Блокировки всегда побеждают и не зависят от вместимости. Затем считаются
// активные бронирования того же ресурса, пересекающие интервал; граничащие
// интервалы конфликтом не считаются.
func FindConflict(check ConflictCheck, bookings []*Booking, blocked []*BlockedTime) ConflictKind {
	startMin := check.StartTime.Minutes()
	endMin := check.EndTime.Minutes()

	for _, block := range blocked {
		blockStart, blockEnd, ok := block.ClipToDate(check.Date)
		if !ok {
			continue
		}
		if startMin < blockEnd && endMin > blockStart {
			return ConflictBlocked
		}
	}

	if CountOverlapping(bookings, check) >= check.MaxBookingsPerSlot {
		return ConflictCapacity
	}

	return ConflictNone
}

// CountOverlapping считает активные бронирования ресурса, пересекающие
// кандидат-интервал. Ресурс бронирования определяется TeamMemberID:
// nil - бизнес целиком, иначе конкретный сотрудник.
func CountOverlapping(bookings []*Booking, check ConflictCheck) int {
	count := 0
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if booking.ID == check.ExcludeBookingID && check.ExcludeBookingID != 0 {
			continue
		}
		if !sameResource(booking.TeamMemberID, check.TeamMemberID) {
			continue
		}
		if booking.OverlapsInterval(check.StartTime, check.EndTime) {
			count++
		}
	}
	return count
}

func sameResource(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
