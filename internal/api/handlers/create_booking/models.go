package create_booking

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
	createBooking "github.com/appointa/booking-service/internal/usecase/create_booking"
	"github.com/appointa/booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID    int64   `json:"businessId"`
	ServiceID     int64   `json:"serviceId"`
	TeamMemberID  *int64  `json:"teamMemberId,omitempty"`
	BookingDate   string  `json:"bookingDate"` // "2026-10-15"
	StartTime     string  `json:"startTime"`   // "10:00"
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                   int64   `json:"id"`
	BusinessID           int64   `json:"businessId"`
	ServiceID            int64   `json:"serviceId"`
	TeamMemberID         *int64  `json:"teamMemberId,omitempty"`
	BookingDate          string  `json:"bookingDate"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	Status               string  `json:"status"`
	RequiresConfirmation bool    `json:"requiresConfirmation"`
	ServiceName          string  `json:"serviceName"`
	ServicePrice         float64 `json:"servicePrice"`
	DurationMinutes      int     `json:"durationMinutes"`
	CustomerName         string  `json:"customerName"`
	CustomerEmail        string  `json:"customerEmail"`
	Notes                *string `json:"notes,omitempty"`

	// CustomerActionToken постоянная ссылка клиента на управление записью
	CustomerActionToken string `json:"customerActionToken"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		BusinessID:    r.BusinessID,
		ServiceID:     r.ServiceID,
		TeamMemberID:  r.TeamMemberID,
		Date:          bookingDate,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                   resp.ID,
		BusinessID:           resp.BusinessID,
		ServiceID:            resp.ServiceID,
		TeamMemberID:         resp.TeamMemberID,
		BookingDate:          resp.BookingDate.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		Status:               resp.Status,
		RequiresConfirmation: resp.RequiresConfirmation,
		ServiceName:          resp.ServiceName,
		ServicePrice:         resp.ServicePrice,
		DurationMinutes:      resp.DurationMinutes,
		CustomerName:         resp.CustomerName,
		CustomerEmail:        resp.CustomerEmail,
		Notes:                resp.Notes,
		CustomerActionToken:  resp.CustomerActionToken,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            resp.UpdatedAt.Format(time.RFC3339),
	}
}
