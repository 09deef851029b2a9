package confirm_modification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointa/booking-service/internal/domain"
	bookingRepo "github.com/appointa/booking-service/internal/infra/storage/booking"
	"github.com/appointa/booking-service/pkg/ptr"
	"github.com/appointa/booking-service/pkg/types"
)

var (
	testDate     = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	proposedDate = time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC)
	testToken    = strings.Repeat("ab", 32)
)

type fakeBookingRepo struct {
	booking  *domain.Booking
	others   []*domain.Booking
	applied  bool
	appliedTo struct {
		date       time.Time
		start, end types.TimeString
	}
}

func (f *fakeBookingRepo) GetByModificationToken(_ context.Context, token string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ModificationToken == nil || *f.booking.ModificationToken != token {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	all := append([]*domain.Booking{f.booking}, f.others...)
	return all, nil
}

func (f *fakeBookingRepo) ApplyModification(_ context.Context, _ int64, date time.Time, start, end types.TimeString) error {
	f.applied = true
	f.appliedTo.date = date
	f.appliedTo.start = start
	f.appliedTo.end = end
	f.booking.BookingDate = date
	f.booking.StartTime = start
	f.booking.EndTime = end
	f.booking.Status = domain.StatusConfirmed
	f.booking.ModificationToken = nil
	f.booking.ProposedBookingDate = nil
	f.booking.ProposedStartTime = nil
	f.booking.ProposedEndTime = nil
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

func pendingBooking() *domain.Booking {
	expires := proposedDate.Add(-time.Hour)
	return &domain.Booking{
		ID:                         1,
		BusinessID:                 1,
		ServiceID:                  10,
		ServiceName:                "Стрижка",
		CustomerEmail:              "ivan@example.com",
		BookingDate:                testDate,
		StartTime:                  "10:00",
		EndTime:                    "10:30",
		Status:                     domain.StatusModificationPending,
		DurationMinutes:            30,
		ModificationToken:          ptr.Ptr(testToken),
		ModificationTokenExpiresAt: &expires,
		ProposedBookingDate:        &proposedDate,
		ProposedStartTime:          ptr.Ptr(types.TimeString("14:00")),
		ProposedEndTime:            ptr.Ptr(types.TimeString("14:30")),
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

func TestExecute_AppliesProposedValues(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	now := testDate.Add(12 * time.Hour)
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken})
	require.NoError(t, err)

	assert.True(t, repo.applied)
	assert.Equal(t, proposedDate, repo.appliedTo.date)
	assert.Equal(t, "14:00", repo.appliedTo.start.String())
	assert.Equal(t, "14:30", repo.appliedTo.end.String())
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_TokenIsSingleUse(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	now := testDate.Add(12 * time.Hour)
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, now)

	_, err := uc.Execute(context.Background(), &Request{Token: testToken})
	require.NoError(t, err)

	// Повторное использование: токен очищен применением переноса
	_, err = uc.Execute(context.Background(), &Request{Token: testToken})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestExecute_ExpiredTokenIsNonDestructive(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	now := proposedDate.Add(time.Hour) // позже срока жизни токена
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, now)

	_, err := uc.Execute(context.Background(), &Request{Token: testToken})
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Бронирование не изменилось
	assert.False(t, repo.applied)
	assert.Equal(t, domain.StatusModificationPending, repo.booking.Status)
	assert.Equal(t, testDate, repo.booking.BookingDate)
}

func TestExecute_ConflictOnProposedSlot(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	// Пока клиент думал, предложенное время занял другой
	repo.others = []*domain.Booking{{
		ID:          2,
		BusinessID:  1,
		BookingDate: proposedDate,
		StartTime:   "14:00",
		EndTime:     "14:30",
		Status:      domain.StatusConfirmed,
	}}
	now := testDate.Add(12 * time.Hour)
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, now)

	_, err := uc.Execute(context.Background(), &Request{Token: testToken})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, repo.applied)
}

func TestExecute_OwnBookingExcludedFromConflict(t *testing.T) {
	// Перенос в пределах того же дня: старый интервал бронирования
	// не должен конфликтовать сам с собой
	booking := pendingBooking()
	booking.ProposedBookingDate = &testDate
	booking.ProposedStartTime = ptr.Ptr(types.TimeString("10:00"))
	booking.ProposedEndTime = ptr.Ptr(types.TimeString("10:30"))
	repo := &fakeBookingRepo{booking: booking}
	now := testDate.Add(2 * time.Hour)
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, now)

	_, err := uc.Execute(context.Background(), &Request{Token: testToken})
	assert.NoError(t, err)
}

func TestExecute_MalformedToken(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newTestUseCase(repo, &fakeScheduleRepo{rules: allWeekRules()}, testDate)

	_, err := uc.Execute(context.Background(), &Request{Token: "short"})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestExecute_ClosedProposedDay(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	now := testDate.Add(12 * time.Hour)
	uc := newTestUseCase(repo, &fakeScheduleRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{Token: testToken})
	assert.ErrorIs(t, err, ErrBusinessClosed)
}
