package customer_modify

import (
	"time"

	"github.com/appointa/booking-service/pkg/types"
)

// Request модель запроса self-service переноса по постоянному токену клиента
type Request struct {
	Token     string           // Постоянный customerActionToken из письма
	Date      time.Time        // Новая дата бронирования
	StartTime types.TimeString // Новое время начала
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID          int64
	BusinessID  int64
	ServiceID   int64
	ServiceName string
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      string
	UpdatedAt   time.Time
}
