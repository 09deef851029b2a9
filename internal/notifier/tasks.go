// Package notifier асинхронная отправка писем клиентам через очередь asynq.
// Постановка в очередь - side effect вне транзакционного ядра: её ошибки
// логируются, но никогда не откатывают и не фейлят запись бронирования.
package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Типы задач очереди писем
const (
	TypeBookingConfirmed     = "email:booking_confirmed"
	TypeModificationProposed = "email:modification_proposed"
	TypeBookingCancelled     = "email:booking_cancelled"
)

// queueName очередь писем в Redis
const queueName = "mail"

// BookingEmailPayload данные для письма о бронировании
type BookingEmailPayload struct {
	BookingID     int64  `json:"booking_id"`
	BusinessName  string `json:"business_name"`
	ServiceName   string `json:"service_name"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	BookingDate   string `json:"booking_date"` // YYYY-MM-DD
	StartTime     string `json:"start_time"`   // HH:MM
	EndTime       string `json:"end_time"`     // HH:MM

	// ActionToken постоянный токен для self-service ссылок
	ActionToken string `json:"action_token"`
}

// ModificationEmailPayload данные для письма о предложенном переносе
type ModificationEmailPayload struct {
	BookingID     int64  `json:"booking_id"`
	BusinessName  string `json:"business_name"`
	ServiceName   string `json:"service_name"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	OldDate      string `json:"old_date"`
	OldStartTime string `json:"old_start_time"`
	NewDate      string `json:"new_date"`
	NewStartTime string `json:"new_start_time"`
	NewEndTime   string `json:"new_end_time"`
	Reason       string `json:"reason,omitempty"`

	// ModificationToken эфемерный токен подтверждения переноса (48 часов)
	ModificationToken string `json:"modification_token"`
	ExpiresAt         string `json:"expires_at"` // RFC3339
}

// newTask собирает asynq-задачу с JSON-пейлоадом
func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notifier: marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data,
		asynq.Queue(queueName),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}
