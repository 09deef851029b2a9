package modify_customer_booking

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
	customerModify "github.com/appointa/booking-service/internal/usecase/customer_modify"
	"github.com/appointa/booking-service/pkg/types"
)

// ModifyBookingRequest HTTP request model
type ModifyBookingRequest struct {
	BookingDate string `json:"bookingDate"` // "2026-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
}

// BookingResponse HTTP response model с обновленным временем бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	BusinessID  int64  `json:"businessId"`
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ModifyBookingRequest) ToUseCaseRequest(token string) (*customerModify.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &customerModify.Request{
		Token:     token,
		Date:      date,
		StartTime: startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *customerModify.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		BusinessID:  resp.BusinessID,
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Status:      resp.Status,
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
