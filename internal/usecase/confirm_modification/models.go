package confirm_modification

import (
	"time"

	"github.com/appointa/booking-service/pkg/types"
)

// Request модель запроса на подтверждение переноса клиентом
type Request struct {
	Token string // Токен из письма с предложением переноса
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
