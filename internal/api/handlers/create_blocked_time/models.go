package create_blocked_time

import (
	"time"

	"github.com/appointa/booking-service/internal/service/schedule/models"
)

// CreateBlockedTimeRequest HTTP request model.
// Времена передаются в RFC 3339, например "2026-09-16T12:00:00+03:00"
type CreateBlockedTimeRequest struct {
	StartAt string  `json:"startAt"`
	EndAt   string  `json:"endAt"`
	Reason  *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockedTimeRequest) ToServiceRequest(businessID int64) (*models.CreateBlockedTimeRequest, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockedTimeRequest{
		BusinessID: businessID,
		StartAt:    startAt,
		EndAt:      endAt,
		Reason:     r.Reason,
	}, nil
}
