package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/appointa/booking-service/pkg/types"
)

var conflictDate = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

func activeBooking(id int64, start, end string) *Booking {
	return &Booking{
		ID:          id,
		BusinessID:  1,
		BookingDate: conflictDate,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Status:      StatusConfirmed,
	}
}

func check(start, end string) ConflictCheck {
	return ConflictCheck{
		Date:               conflictDate,
		StartTime:          types.TimeString(start),
		EndTime:            types.TimeString(end),
		MaxBookingsPerSlot: 1,
	}
}

func TestFindConflict_OverlapAndBoundaries(t *testing.T) {
	existing := []*Booking{activeBooking(1, "10:00", "10:30")}

	cases := []struct {
		name       string
		start, end string
		want       ConflictKind
	}{
		{"identical interval", "10:00", "10:30", ConflictCapacity},
		{"overlaps start", "09:45", "10:15", ConflictCapacity},
		{"overlaps end", "10:15", "10:45", ConflictCapacity},
		{"contains existing", "09:30", "11:00", ConflictCapacity},
		{"back to back before", "09:30", "10:00", ConflictNone},
		{"back to back after", "10:30", "11:00", ConflictNone},
		{"disjoint", "12:00", "12:30", ConflictNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FindConflict(check(tc.start, tc.end), existing, nil))
		})
	}
}

func TestFindConflict_CapacityCountsPerSlot(t *testing.T) {
	existing := []*Booking{
		activeBooking(1, "10:00", "10:30"),
		activeBooking(2, "10:00", "10:30"),
	}

	c := check("10:00", "10:30")
	c.MaxBookingsPerSlot = 3
	assert.Equal(t, ConflictNone, FindConflict(c, existing, nil))

	c.MaxBookingsPerSlot = 2
	assert.Equal(t, ConflictCapacity, FindConflict(c, existing, nil))
}

func TestFindConflict_CancelledBookingsIgnored(t *testing.T) {
	cancelled := activeBooking(1, "10:00", "10:30")
	cancelled.Status = StatusCancelled

	assert.Equal(t, ConflictNone, FindConflict(check("10:00", "10:30"), []*Booking{cancelled}, nil))
}

func TestFindConflict_BlockedWinsRegardlessOfCapacity(t *testing.T) {
	blocked := []*BlockedTime{{
		BusinessID: 1,
		StartAt:    time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 16, 15, 0, 0, 0, time.UTC),
	}}

	c := check("14:30", "15:30")
	c.MaxBookingsPerSlot = 100
	assert.Equal(t, ConflictBlocked, FindConflict(c, nil, blocked))

	// Слот, начинающийся ровно в конце блокировки, проходит
	assert.Equal(t, ConflictNone, FindConflict(check("15:00", "16:00"), nil, blocked))
}

func TestFindConflict_MultiDayBlockCoversMiddleDay(t *testing.T) {
	blocked := []*BlockedTime{{
		BusinessID: 1,
		StartAt:    time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 18, 9, 0, 0, 0, time.UTC),
	}}

	// 16-е лежит целиком внутри блокировки
	assert.Equal(t, ConflictBlocked, FindConflict(check("00:00", "00:30"), nil, blocked))
	assert.Equal(t, ConflictBlocked, FindConflict(check("23:00", "23:30"), nil, blocked))
}

func TestFindConflict_ExcludesOwnBooking(t *testing.T) {
	existing := []*Booking{activeBooking(7, "10:00", "10:30")}

	c := check("10:00", "10:30")
	c.ExcludeBookingID = 7
	assert.Equal(t, ConflictNone, FindConflict(c, existing, nil))

	c.ExcludeBookingID = 8
	assert.Equal(t, ConflictCapacity, FindConflict(c, existing, nil))
}

func TestCountOverlapping_ResourceScoping(t *testing.T) {
	memberA := int64(1)
	memberB := int64(2)

	withMember := activeBooking(1, "10:00", "10:30")
	withMember.TeamMemberID = &memberA
	businessWide := activeBooking(2, "10:00", "10:30")

	bookings := []*Booking{withMember, businessWide}

	c := check("10:00", "10:30")
	assert.Equal(t, 1, CountOverlapping(bookings, c), "business-wide check sees only business-wide bookings")

	c.TeamMemberID = &memberA
	assert.Equal(t, 1, CountOverlapping(bookings, c), "member check sees only that member")

	c.TeamMemberID = &memberB
	assert.Equal(t, 0, CountOverlapping(bookings, c), "other member is free")
}
