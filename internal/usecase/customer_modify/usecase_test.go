package customer_modify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointa/booking-service/internal/domain"
	bookingRepo "github.com/appointa/booking-service/internal/infra/storage/booking"
	"github.com/appointa/booking-service/pkg/types"
)

var (
	testDate   = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	targetDate = time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	testToken  = strings.Repeat("cd", 32)
)

type fakeBookingRepo struct {
	booking *domain.Booking
	others  []*domain.Booking
	applied bool
}

func (f *fakeBookingRepo) GetByCustomerActionToken(_ context.Context, token string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.CustomerActionToken != token {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	return append([]*domain.Booking{f.booking}, f.others...), nil
}

func (f *fakeBookingRepo) ApplyModification(_ context.Context, _ int64, date time.Time, start, end types.TimeString) error {
	f.applied = true
	f.booking.BookingDate = date
	f.booking.StartTime = start
	f.booking.EndTime = end
	f.booking.Status = domain.StatusConfirmed
	f.booking.ModificationToken = nil
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, nil
}

type fakeScheduleRepo struct {
	rules   []*domain.AvailabilityRule
	blocked []*domain.BlockedTime
}

func (f *fakeScheduleRepo) GetRulesByResource(_ context.Context, _ int64, _ *int64) ([]*domain.AvailabilityRule, error) {
	return f.rules, nil
}

func (f *fakeScheduleRepo) GetBlockedTimesOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.BlockedTime, error) {
	return f.blocked, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:                  1,
		BusinessID:          1,
		ServiceID:           10,
		ServiceName:         "Стрижка",
		BookingDate:         testDate,
		StartTime:           "10:00",
		EndTime:             "10:30",
		Status:              domain.StatusConfirmed,
		DurationMinutes:     30,
		CustomerActionToken: testToken,
	}
}

func allWeekRules() []*domain.AvailabilityRule {
	rules := make([]*domain.AvailabilityRule, 7)
	for day := 0; day < 7; day++ {
		rules[day] = &domain.AvailabilityRule{
			BusinessID:          1,
			DayOfWeek:           day,
			IsOpen:              true,
			StartTime:           "09:00",
			EndTime:             "17:00",
			SlotDurationMinutes: 30,
			MaxBookingsPerSlot:  1,
		}
	}
	return rules
}

func newTestUseCase(repo *fakeBookingRepo, schedule *fakeScheduleRepo, now time.Time) *UseCase {
	uc := NewUseCase(repo, schedule, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func validRequest() *Request {
	return &Request{Token: testToken, Date: targetDate, StartTime: "14:00"}
}

func TestExecute_MovesBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, repo.applied)
	assert.Equal(t, targetDate, resp.BookingDate)
	assert.Equal(t, "14:00", resp.StartTime.String())
	assert.Equal(t, "14:30", resp.EndTime.String())
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_ConflictExcludesOwnBooking(t *testing.T) {
	// Перенос в пределах того же дня на то же время не конфликтует сам с собой
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate.Add(-24*time.Hour))

	req := &Request{Token: testToken, Date: testDate, StartTime: "10:00"}
	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ConflictWithOtherBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	repo.others = []*domain.Booking{{
		ID:          2,
		BusinessID:  1,
		BookingDate: targetDate,
		StartTime:   "14:00",
		EndTime:     "14:30",
		Status:      domain.StatusPending,
	}}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, repo.applied)
}

func TestExecute_BlockedTargetRejects(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	schedule := &fakeScheduleRepo{
		rules: allWeekRules(),
		blocked: []*domain.BlockedTime{{
			BusinessID: 1,
			StartAt:    time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 13, 0, 0, 0, time.UTC),
			EndAt:      time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 15, 0, 0, 0, time.UTC),
		}},
	}
	uc := newTestUseCase(repo, schedule, testDate)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_CancelledBookingRejects(t *testing.T) {
	booking := confirmedBooking()
	booking.Status = domain.StatusCancelled
	repo := &fakeBookingRepo{booking: booking}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCannotModify)
}

func TestExecute_UnknownToken(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate)

	req := validRequest()
	req.Token = strings.Repeat("ef", 32)
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	req.Token = "garbage"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_PastDateRejects(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, targetDate.AddDate(0, 0, 1))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_OutsideWindowRejects(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate)

	req := validRequest()
	req.StartTime = "16:45"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}
