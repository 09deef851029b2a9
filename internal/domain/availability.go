package domain

import (
	"time"

	"github.com/appointa/booking-service/pkg/types"
)

// AvailabilityRule represents working hours for one weekday of a resource.
// Ресурс - это либо бизнес целиком (TeamMemberID == nil), либо конкретный
// сотрудник. Если правила для дня нет, день считается закрытым (fail closed).
type AvailabilityRule struct {
	ID           int64
	BusinessID   int64
	TeamMemberID *int64 // nil = правило самого бизнеса

	DayOfWeek           int // 0 = воскресенье ... 6 = суббота, как time.Weekday
	IsOpen              bool
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	MaxBookingsPerSlot  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBusinessRule returns true if the rule belongs to the business itself
func (r *AvailabilityRule) IsBusinessRule() bool {
	return r.TeamMemberID == nil
}

// Validate проверяет инварианты правила
func (r *AvailabilityRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	if !r.IsOpen {
		return nil
	}
	if err := r.StartTime.Validate(); err != nil {
		return err
	}
	if err := r.EndTime.Validate(); err != nil {
		return err
	}
	if !r.StartTime.IsBefore(r.EndTime) {
		return ErrInvalidWorkingWindow
	}
	if r.SlotDurationMinutes < MinSlotDurationMinutes || r.SlotDurationMinutes > MaxSlotDurationMinutes {
		return ErrInvalidSlotDuration
	}
	if r.MaxBookingsPerSlot < MinBookingsPerSlot || r.MaxBookingsPerSlot > MaxBookingsPerSlotLimit {
		return ErrInvalidSlotCapacity
	}
	return nil
}

// RuleForDate ищет правило ресурса для дня недели указанной даты.
// Возвращает nil, если правила нет - такой день закрыт.
func RuleForDate(rules []*AvailabilityRule, date time.Time) *AvailabilityRule {
	weekday := int(date.Weekday())
	for _, rule := range rules {
		if rule.DayOfWeek == weekday {
			return rule
		}
	}
	return nil
}

// BlockedTime represents an absolute timestamp interval during which no
// bookings may be placed for the business. Не привязан к дням недели и
// не таргетирует отдельных сотрудников.
type BlockedTime struct {
	ID         int64
	BusinessID int64
	StartAt    time.Time
	EndAt      time.Time
	Reason     *string
	CreatedAt  time.Time
}

// DurationDays количество календарных дней, которые затрагивает блокировка.
// Используется для tier-ограничения на многодневные блокировки.
func (b *BlockedTime) DurationDays() int {
	start := time.Date(b.StartAt.Year(), b.StartAt.Month(), b.StartAt.Day(), 0, 0, 0, 0, b.StartAt.Location())
	end := time.Date(b.EndAt.Year(), b.EndAt.Month(), b.EndAt.Day(), 0, 0, 0, 0, b.EndAt.Location())
	return int(end.Sub(start).Hours()/24) + 1
}

// ClipToDate проецирует абсолютный интервал блокировки на указанную дату,
// возвращая границы в минутах от полуночи [startMin, endMin).
// ok == false означает, что блокировка не затрагивает эту дату.
func (b *BlockedTime) ClipToDate(date time.Time) (startMin, endMin int, ok bool) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	if !b.StartAt.Before(dayEnd) || !b.EndAt.After(dayStart) {
		return 0, 0, false
	}

	startMin = 0
	if b.StartAt.After(dayStart) {
		startMin = b.StartAt.Hour()*60 + b.StartAt.Minute()
	}

	endMin = types.MinutesPerDay
	if b.EndAt.Before(dayEnd) {
		endMin = b.EndAt.Hour()*60 + b.EndAt.Minute()
	}

	return startMin, endMin, startMin < endMin
}

// TeamMember represents a bookable member of a business
type TeamMember struct {
	ID         int64
	BusinessID int64
	Name       string
	Email      *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
