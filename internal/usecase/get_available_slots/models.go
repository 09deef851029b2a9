package get_available_slots

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID   int64     // ID бизнеса
	ServiceID    int64     // ID услуги, длительность которой определяет конец слота
	TeamMemberID *int64    // ID сотрудника (опционально, nil = бизнес целиком)
	Date         time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	Date                   time.Time
	BusinessID             int64
	ServiceID              int64
	TeamMemberID           *int64
	ServiceDurationMinutes int
	Slots                  []domain.AvailableSlot
}
