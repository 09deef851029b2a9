package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

// MailSender абстракция над SMTP для тестов воркера
type MailSender interface {
	Send(to, subject, body string) error
}

// Worker обрабатывает задачи очереди писем
type Worker struct {
	sender  MailSender
	baseURL string
	log     Logger
}

// NewWorker создает обработчик почтовых задач.
// baseURL - публичный адрес, на который указывают ссылки в письмах
func NewWorker(sender MailSender, baseURL string, log Logger) *Worker {
	return &Worker{sender: sender, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// Register вешает обработчики на mux asynq-сервера
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeBookingConfirmed, w.handleBookingConfirmed)
	mux.HandleFunc(TypeBookingCancelled, w.handleBookingCancelled)
	mux.HandleFunc(TypeModificationProposed, w.handleModificationProposed)
}

func (w *Worker) handleBookingConfirmed(ctx context.Context, task *asynq.Task) error {
	var p BookingEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
	}

	subject := fmt.Sprintf("Запись подтверждена: %s, %s", p.ServiceName, p.BookingDate)

	var body strings.Builder
	fmt.Fprintf(&body, "Здравствуйте, %s!\n\n", p.CustomerName)
	fmt.Fprintf(&body, "Ваша запись в %q подтверждена.\n\n", p.BusinessName)
	fmt.Fprintf(&body, "Услуга: %s\n", p.ServiceName)
	fmt.Fprintf(&body, "Дата: %s\n", p.BookingDate)
	fmt.Fprintf(&body, "Время: %s - %s\n\n", p.StartTime, p.EndTime)
	fmt.Fprintf(&body, "Управление записью (перенос, отмена):\n%s/my-booking/%s\n", w.baseURL, p.ActionToken)

	return w.send(p.CustomerEmail, subject, body.String(), task.Type(), p.BookingID)
}

func (w *Worker) handleBookingCancelled(ctx context.Context, task *asynq.Task) error {
	var p BookingEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
	}

	subject := fmt.Sprintf("Запись отменена: %s, %s", p.ServiceName, p.BookingDate)

	var body strings.Builder
	fmt.Fprintf(&body, "Здравствуйте, %s!\n\n", p.CustomerName)
	fmt.Fprintf(&body, "К сожалению, %q отменил вашу запись.\n\n", p.BusinessName)
	fmt.Fprintf(&body, "Услуга: %s\n", p.ServiceName)
	fmt.Fprintf(&body, "Дата: %s\n", p.BookingDate)
	fmt.Fprintf(&body, "Время: %s - %s\n\n", p.StartTime, p.EndTime)
	fmt.Fprintf(&body, "Вы можете выбрать другое время:\n%s/book\n", w.baseURL)

	return w.send(p.CustomerEmail, subject, body.String(), task.Type(), p.BookingID)
}

func (w *Worker) handleModificationProposed(ctx context.Context, task *asynq.Task) error {
	var p ModificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
	}

	subject := fmt.Sprintf("Предложен перенос записи: %s", p.ServiceName)

	var body strings.Builder
	fmt.Fprintf(&body, "Здравствуйте, %s!\n\n", p.CustomerName)
	fmt.Fprintf(&body, "%q предлагает перенести вашу запись.\n\n", p.BusinessName)
	fmt.Fprintf(&body, "Текущее время: %s %s\n", p.OldDate, p.OldStartTime)
	fmt.Fprintf(&body, "Новое время: %s %s - %s\n", p.NewDate, p.NewStartTime, p.NewEndTime)
	if p.Reason != "" {
		fmt.Fprintf(&body, "Причина: %s\n", p.Reason)
	}
	fmt.Fprintf(&body, "\nПодтвердить перенос (ссылка действует до %s):\n%s/confirm-modification/%s\n",
		p.ExpiresAt, w.baseURL, p.ModificationToken)
	body.WriteString("\nЕсли новое время не подходит, просто проигнорируйте это письмо,\nзапись останется на прежнее время.\n")

	return w.send(p.CustomerEmail, subject, body.String(), task.Type(), p.BookingID)
}

func (w *Worker) send(to, subject, body, taskType string, bookingID int64) error {
	if err := w.sender.Send(to, subject, body); err != nil {
		w.log.Error("notifier: %s for booking id=%d failed: %v", taskType, bookingID, err)
		return err
	}
	w.log.Info("notifier: sent %s for booking id=%d to %s", taskType, bookingID, to)
	return nil
}
