package confirm_modification

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
	confirmModification "github.com/appointa/booking-service/internal/usecase/confirm_modification"
)

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

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmModification.Response) *BookingResponse {
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
