package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/ptr"
	"github.com/appointa/booking-service/pkg/types"
)

// Среда, открыто 09:00-17:00
var testDate = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

func openRule(start, end string, slotDuration, maxPerSlot int) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		BusinessID:          1,
		DayOfWeek:           int(testDate.Weekday()),
		IsOpen:              true,
		StartTime:           types.TimeString(start),
		EndTime:             types.TimeString(end),
		SlotDurationMinutes: slotDuration,
		MaxBookingsPerSlot:  maxPerSlot,
	}
}

func activeBooking(id int64, start, end string) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		BusinessID:  1,
		BookingDate: testDate,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Status:      domain.StatusConfirmed,
	}
}

func slotTimes(slots []domain.AvailableSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestGenerateSlots_ServiceMustFitWindow(t *testing.T) {
	// Окно 09:00-17:00, шаг 30, услуга 45 минут:
	// 16:00 влезает (конец 16:45), 16:45 уже нет (конец 17:30)
	rule := openRule("09:00", "17:00", 30, 1)
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 45, nil, testDate, yesterday, nil, nil)
	require.NoError(t, err)

	times := slotTimes(slots)
	assert.Equal(t, "09:00", times[0])
	assert.Equal(t, "16:00", times[len(times)-1])
	assert.NotContains(t, times, "16:30")
	assert.NotContains(t, times, "16:45")
	assert.Len(t, slots, 15)

	for _, s := range slots {
		assert.True(t, s.Available, "slot %s", s.StartTime)
		assert.Equal(t, 1, s.AvailableSpots)
	}
}

func TestGenerateSlots_OverlapAgainstExistingBooking(t *testing.T) {
	// Бронирование 10:00-10:30: 09:45-10:15 пересекается,
	// 10:30-11:00 только граничит и не конфликтует
	rule := openRule("09:00", "17:00", 15, 1)
	bookings := []*domain.Booking{activeBooking(1, "10:00", "10:30")}
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 30, nil, testDate, yesterday, bookings, nil)
	require.NoError(t, err)

	byStart := make(map[string]domain.AvailableSlot, len(slots))
	for _, s := range slots {
		byStart[s.StartTime.String()] = s
	}

	assert.False(t, byStart["09:45"].Available) // 09:45-10:15 пересекает
	assert.False(t, byStart["10:00"].Available)
	assert.False(t, byStart["10:15"].Available)
	assert.True(t, byStart["09:30"].Available) // 09:30-10:00 граничит
	assert.True(t, byStart["10:30"].Available) // 10:30-11:00 граничит
}

func TestGenerateSlots_CapacityAboveOne(t *testing.T) {
	rule := openRule("09:00", "12:00", 30, 2)
	bookings := []*domain.Booking{activeBooking(1, "09:00", "09:30")}
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 30, nil, testDate, yesterday, bookings, nil)
	require.NoError(t, err)

	first := slots[0]
	assert.Equal(t, "09:00", first.StartTime.String())
	assert.True(t, first.Available)
	assert.Equal(t, 1, first.AvailableSpots)
	assert.Equal(t, 2, first.TotalSpots)
	assert.True(t, first.IsPartiallyAvailable())

	// Второе бронирование заполняет слот
	bookings = append(bookings, activeBooking(2, "09:00", "09:30"))
	slots, err = generateSlots(rule, 30, nil, testDate, yesterday, bookings, nil)
	require.NoError(t, err)
	assert.False(t, slots[0].Available)
	assert.Equal(t, 0, slots[0].AvailableSpots)
	assert.True(t, slots[0].IsFull())
}

func TestGenerateSlots_CancelledBookingsIgnored(t *testing.T) {
	rule := openRule("09:00", "12:00", 30, 1)
	cancelled := activeBooking(1, "09:00", "09:30")
	cancelled.Status = domain.StatusCancelled
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 30, nil, testDate, yesterday, []*domain.Booking{cancelled}, nil)
	require.NoError(t, err)
	assert.True(t, slots[0].Available)
}

func TestGenerateSlots_SameDayPastFiltering(t *testing.T) {
	rule := openRule("09:00", "12:00", 30, 1)

	// Сейчас 10:00 того же дня: 10:00 недоступен (начало не позже now),
	// 10:30 и дальше доступны
	now := time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 10, 0, 0, 0, time.UTC)

	slots, err := generateSlots(rule, 30, nil, testDate, now, nil, nil)
	require.NoError(t, err)

	byStart := make(map[string]domain.AvailableSlot, len(slots))
	for _, s := range slots {
		byStart[s.StartTime.String()] = s
	}

	assert.False(t, byStart["09:00"].Available)
	assert.False(t, byStart["09:30"].Available)
	assert.False(t, byStart["10:00"].Available)
	assert.True(t, byStart["10:30"].Available)
	assert.True(t, byStart["11:00"].Available)
}

func TestGenerateSlots_BlockedRangeWins(t *testing.T) {
	// Блокировка 12:00-14:00 перекрывает слоты независимо от вместимости
	rule := openRule("09:00", "17:00", 60, 5)
	blocked := []*domain.BlockedTime{{
		BusinessID: 1,
		StartAt:    time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 12, 0, 0, 0, time.UTC),
		EndAt:      time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 14, 0, 0, 0, time.UTC),
	}}
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 60, nil, testDate, yesterday, nil, blocked)
	require.NoError(t, err)

	byStart := make(map[string]domain.AvailableSlot, len(slots))
	for _, s := range slots {
		byStart[s.StartTime.String()] = s
	}

	assert.True(t, byStart["11:00"].Available) // 11:00-12:00 граничит с блокировкой
	assert.False(t, byStart["12:00"].Available)
	assert.False(t, byStart["13:00"].Available)
	assert.Equal(t, 0, byStart["13:00"].AvailableSpots)
	assert.True(t, byStart["14:00"].Available)
}

func TestGenerateSlots_MultiDayBlockCoversWholeDay(t *testing.T) {
	rule := openRule("09:00", "17:00", 30, 1)
	blocked := []*domain.BlockedTime{{
		BusinessID: 1,
		StartAt:    testDate.AddDate(0, 0, -1),
		EndAt:      testDate.AddDate(0, 0, 2),
	}}
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 30, nil, testDate, yesterday, nil, blocked)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.False(t, s.Available, "slot %s", s.StartTime)
	}
}

func TestGenerateSlots_TeamMemberResourceIsolation(t *testing.T) {
	// Бронирование сотрудника 2 не занимает слоты сотрудника 1
	rule := openRule("09:00", "12:00", 30, 1)
	other := activeBooking(1, "09:00", "09:30")
	other.TeamMemberID = ptr.Ptr(int64(2))
	yesterday := testDate.AddDate(0, 0, -1)

	slots, err := generateSlots(rule, 30, ptr.Ptr(int64(1)), testDate, yesterday, []*domain.Booking{other}, nil)
	require.NoError(t, err)
	assert.True(t, slots[0].Available)

	// А бронирование того же сотрудника занимает
	mine := activeBooking(2, "09:00", "09:30")
	mine.TeamMemberID = ptr.Ptr(int64(1))
	slots, err = generateSlots(rule, 30, ptr.Ptr(int64(1)), testDate, yesterday, []*domain.Booking{mine}, nil)
	require.NoError(t, err)
	assert.False(t, slots[0].Available)
}
