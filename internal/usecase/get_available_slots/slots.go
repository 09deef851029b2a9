package get_available_slots

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/types"
)

// generateSlots генерирует слоты дня для правила доступности и вычисляет
// доступность каждого с учетом текущего времени, блокировок и вместимости.
//
// Кандидаты идут от начала рабочего окна с шагом slotDuration, но только те,
// чей конец (start + serviceDuration) помещается в окно целиком. Хвостовой
// неполный слот никогда не предлагается: окно 09:00-17:00 с услугой 45 минут
// включает 16:00 (конец 16:45), но не 16:45 (конец 17:30).
func generateSlots(
	rule *domain.AvailabilityRule,
	serviceDuration int,
	teamMemberID *int64,
	requestDate time.Time,
	now time.Time,
	bookings []*domain.Booking,
	blocked []*domain.BlockedTime,
) ([]domain.AvailableSlot, error) {
	windowStart := rule.StartTime.Minutes()
	windowEnd := rule.EndTime.Minutes()

	// Для сегодняшней даты слоты, начинающиеся не позже текущего времени,
	// недоступны независимо от состояния бронирований
	nowMinutes := -1
	if isSameDay(requestDate, now) {
		nowMinutes = now.Hour()*60 + now.Minute()
	}

	slots := make([]domain.AvailableSlot, 0)

	for t := windowStart; t+serviceDuration <= windowEnd; t += rule.SlotDurationMinutes {
		startTime, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			return nil, err
		}
		endTime, err := types.NewTimeStringFromMinutes(t + serviceDuration)
		if err != nil {
			return nil, err
		}

		slot := domain.AvailableSlot{
			StartTime:  startTime,
			EndTime:    endTime,
			TotalSpots: rule.MaxBookingsPerSlot,
		}

		switch {
		case t <= nowMinutes:
			// Слот в прошлом

		case isBlocked(blocked, requestDate, t, t+serviceDuration):
			// Блокировки имеют нулевую вместимость, без исключений

		default:
			overlapping := domain.CountOverlapping(bookings, domain.ConflictCheck{
				Date:         requestDate,
				StartTime:    startTime,
				EndTime:      endTime,
				TeamMemberID: teamMemberID,
			})
			spots := rule.MaxBookingsPerSlot - overlapping
			if spots < 0 {
				spots = 0
			}
			slot.AvailableSpots = spots
			slot.Available = spots > 0
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// isBlocked проверяет, пересекает ли кандидат-интервал [startMin, endMin)
// хотя бы одну блокировку, спроецированную на дату
func isBlocked(blocked []*domain.BlockedTime, date time.Time, startMin, endMin int) bool {
	for _, block := range blocked {
		blockStart, blockEnd, ok := block.ClipToDate(date)
		if !ok {
			continue
		}
		if startMin < blockEnd && endMin > blockStart {
			return true
		}
	}
	return false
}
