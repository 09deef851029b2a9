package create_booking

import (
	"time"

	"github.com/appointa/booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	BusinessID    int64            // ID бизнеса
	ServiceID     int64            // ID услуги
	TeamMemberID  *int64           // ID сотрудника (опционально)
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	CustomerName  string
	CustomerEmail string
	Notes         *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64
	BusinessID   int64
	ServiceID    int64
	TeamMemberID *int64
	BookingDate  time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       string

	// RequiresConfirmation true, если бронирование создано в статусе pending
	// и ждет подтверждения бизнесом
	RequiresConfirmation bool

	// Денормализованные данные услуги
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int

	CustomerName  string
	CustomerEmail string
	Notes         *string

	// CustomerActionToken постоянный токен self-service ссылок клиента
	CustomerActionToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}
