package domain

import "github.com/appointa/booking-service/pkg/types"

// AvailableSlot represents a candidate start time for a service on a given day
type AvailableSlot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	Available      bool // false = слот в прошлом, заблокирован или заполнен
	AvailableSpots int  // свободные места с учётом maxBookingsPerSlot
	TotalSpots     int
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}
