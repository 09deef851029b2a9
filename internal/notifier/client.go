package notifier

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/ptr"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Enqueuer кладет задачи на отправку писем в очередь
type Enqueuer struct {
	client *asynq.Client
	log    Logger
}

// NewEnqueuer создает producer очереди писем
func NewEnqueuer(redisAddr, redisPassword string, redisDB int, log Logger) *Enqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &Enqueuer{client: client, log: log}
}

// Close закрывает соединение с Redis
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// BookingConfirmed ставит в очередь письмо-подтверждение бронирования
func (e *Enqueuer) BookingConfirmed(ctx context.Context, booking *domain.Booking, businessName string) error {
	task, err := newTask(TypeBookingConfirmed, bookingPayload(booking, businessName))
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, booking.ID)
}

// BookingCancelled ставит в очередь уведомление об отмене бронирования бизнесом
func (e *Enqueuer) BookingCancelled(ctx context.Context, booking *domain.Booking, businessName string) error {
	task, err := newTask(TypeBookingCancelled, bookingPayload(booking, businessName))
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, booking.ID)
}

// ModificationProposed ставит в очередь письмо с предложением переноса
// и ссылкой подтверждения по токену
func (e *Enqueuer) ModificationProposed(ctx context.Context, booking *domain.Booking, businessName string) error {
	payload := ModificationEmailPayload{
		BookingID:     booking.ID,
		BusinessName:  businessName,
		ServiceName:   booking.ServiceName,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		OldDate:       booking.BookingDate.Format(domain.DateFormat),
		OldStartTime:  booking.StartTime.String(),
	}

	if booking.ProposedBookingDate != nil {
		payload.NewDate = booking.ProposedBookingDate.Format(domain.DateFormat)
	}
	if booking.ProposedStartTime != nil {
		payload.NewStartTime = booking.ProposedStartTime.String()
	}
	if booking.ProposedEndTime != nil {
		payload.NewEndTime = booking.ProposedEndTime.String()
	}
	payload.Reason = ptr.Deref(booking.ModificationReason)
	payload.ModificationToken = ptr.Deref(booking.ModificationToken)
	if booking.ModificationTokenExpiresAt != nil {
		payload.ExpiresAt = booking.ModificationTokenExpiresAt.Format(time.RFC3339)
	}

	task, err := newTask(TypeModificationProposed, payload)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, booking.ID)
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, bookingID int64) error {
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	e.log.Info("notifier: enqueued %s for booking id=%d, task id=%s", task.Type(), bookingID, info.ID)
	return nil
}

func bookingPayload(booking *domain.Booking, businessName string) BookingEmailPayload {
	return BookingEmailPayload{
		BookingID:     booking.ID,
		BusinessName:  businessName,
		ServiceName:   booking.ServiceName,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		BookingDate:   booking.BookingDate.Format(domain.DateFormat),
		StartTime:     booking.StartTime.String(),
		EndTime:       booking.EndTime.String(),
		ActionToken:   booking.CustomerActionToken,
	}
}
