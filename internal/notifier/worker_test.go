package notifier

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	to      string
	subject string
	body    string
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.to = to
	f.subject = subject
	f.body = body
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTask(t *testing.T, taskType string, payload interface{}) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(taskType, data)
}

func TestWorker_BookingConfirmedEmail(t *testing.T) {
	sender := &fakeSender{}
	w := NewWorker(sender, "https://app.example.com/", nopLogger{})

	task := mustTask(t, TypeBookingConfirmed, BookingEmailPayload{
		BookingID:     42,
		BusinessName:  "Барбершоп Ножницы",
		ServiceName:   "Стрижка",
		CustomerName:  "Анна",
		CustomerEmail: "anna@example.com",
		BookingDate:   "2026-09-16",
		StartTime:     "10:00",
		EndTime:       "10:30",
		ActionToken:   "tok123",
	})

	require.NoError(t, w.handleBookingConfirmed(context.Background(), task))

	assert.Equal(t, "anna@example.com", sender.to)
	assert.Contains(t, sender.subject, "Стрижка")
	assert.Contains(t, sender.body, "Барбершоп Ножницы")
	// Слэш в конце baseURL не должен давать двойной слэш в ссылке
	assert.Contains(t, sender.body, "https://app.example.com/my-booking/tok123")
}

func TestWorker_ModificationProposedEmail(t *testing.T) {
	sender := &fakeSender{}
	w := NewWorker(sender, "https://app.example.com", nopLogger{})

	task := mustTask(t, TypeModificationProposed, ModificationEmailPayload{
		BookingID:         7,
		BusinessName:      "Барбершоп Ножницы",
		ServiceName:       "Стрижка",
		CustomerName:      "Анна",
		CustomerEmail:     "anna@example.com",
		OldDate:           "2026-09-16",
		OldStartTime:      "10:00",
		NewDate:           "2026-09-17",
		NewStartTime:      "14:00",
		NewEndTime:        "14:30",
		ModificationToken: "modtok456",
	})

	require.NoError(t, w.handleModificationProposed(context.Background(), task))

	assert.Equal(t, "anna@example.com", sender.to)
	assert.Contains(t, sender.body, "2026-09-17")
	assert.Contains(t, sender.body, "https://app.example.com/confirm-modification/modtok456")
}

func TestWorker_MalformedPayloadFails(t *testing.T) {
	w := NewWorker(&fakeSender{}, "https://app.example.com", nopLogger{})

	task := asynq.NewTask(TypeBookingCancelled, []byte("{not json"))
	assert.Error(t, w.handleBookingCancelled(context.Background(), task))
}
