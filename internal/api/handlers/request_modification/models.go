package request_modification

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/internal/service/bookings/models"
	"github.com/appointa/booking-service/pkg/types"
)

// RequestModificationRequest HTTP request model
type RequestModificationRequest struct {
	ProposedDate      string  `json:"proposedDate"`      // "2026-10-15"
	ProposedStartTime string  `json:"proposedStartTime"` // "14:00"
	Reason            *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RequestModificationRequest) ToServiceRequest(businessID int64) (*models.RequestModificationRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.ProposedDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.ProposedStartTime)
	if err != nil {
		return nil, err
	}

	return &models.RequestModificationRequest{
		BusinessID: businessID,
		Date:       date,
		StartTime:  startTime,
		Reason:     r.Reason,
	}, nil
}
