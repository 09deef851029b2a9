package get_available_slots

import (
	"strconv"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	getAvailableSlots "github.com/appointa/booking-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                   string          `json:"date"`
	BusinessID             int64           `json:"businessId"`
	ServiceID              int64           `json:"serviceId"`
	TeamMemberID           *int64          `json:"teamMemberId,omitempty"`
	ServiceDurationMinutes int             `json:"serviceDurationMinutes"`
	Slots                  []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Available      bool   `json:"available"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			Available:      slot.Available,
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		Date:                   resp.Date.Format(domain.DateFormat),
		BusinessID:             resp.BusinessID,
		ServiceID:              resp.ServiceID,
		TeamMemberID:           resp.TeamMemberID,
		ServiceDurationMinutes: resp.ServiceDurationMinutes,
		Slots:                  slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(businessID, serviceID int64, teamMemberIDStr, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	var teamMemberID *int64
	if teamMemberIDStr != "" {
		id, err := strconv.ParseInt(teamMemberIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		teamMemberID = &id
	}

	return &getAvailableSlots.Request{
		BusinessID:   businessID,
		ServiceID:    serviceID,
		TeamMemberID: teamMemberID,
		Date:         date,
	}, nil
}
