package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointa/booking-service/internal/domain"
	bookingRepo "github.com/appointa/booking-service/internal/infra/storage/booking"
	"github.com/appointa/booking-service/internal/integrations/tenantservice"
	"github.com/appointa/booking-service/internal/service/bookings/models"
	"github.com/appointa/booking-service/pkg/tokens"
	"github.com/appointa/booking-service/pkg/types"
)

var (
	testNow    = time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)
	futureDate = time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	testToken  = strings.Repeat("aa", 32)
)

type fakeRepo struct {
	booking *domain.Booking

	updatedStatus *domain.BookingStatus
	cancelledBy   string
	proposed      struct {
		token      string
		expiresAt  time.Time
		date       time.Time
		start, end types.TimeString
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeRepo) GetByCustomerActionToken(_ context.Context, token string) (*domain.Booking, error) {
	if f.booking == nil || f.booking.CustomerActionToken != token {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	if f.booking == nil {
		return nil, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.updatedStatus = &status
	f.booking.Status = status
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, _ int64, cancelledBy string, reason *string) error {
	f.cancelledBy = cancelledBy
	f.booking.Status = domain.StatusCancelled
	f.booking.CancelledBy = &cancelledBy
	f.booking.CancellationReason = reason
	return nil
}

func (f *fakeRepo) SetProposedModification(_ context.Context, _ int64, token string, expiresAt time.Time, date time.Time, start, end types.TimeString, reason *string) error {
	f.proposed.token = token
	f.proposed.expiresAt = expiresAt
	f.proposed.date = date
	f.proposed.start = start
	f.proposed.end = end
	f.booking.Status = domain.StatusModificationPending
	f.booking.ModificationToken = &token
	f.booking.ModificationTokenExpiresAt = &expiresAt
	f.booking.ProposedBookingDate = &date
	f.booking.ProposedStartTime = &start
	f.booking.ProposedEndTime = &end
	f.booking.ModificationReason = reason
	return nil
}

type fakeTenantClient struct{}

func (fakeTenantClient) GetBusiness(_ context.Context, id int64) (*tenantservice.Business, error) {
	return &tenantservice.Business{ID: id, Name: "Барбершоп", IsActive: true}, nil
}

type fakeNotifier struct {
	confirmed []int64
	cancelled []int64
	proposed  []int64
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, b *domain.Booking, _ string) error {
	f.confirmed = append(f.confirmed, b.ID)
	return nil
}

func (f *fakeNotifier) BookingCancelled(_ context.Context, b *domain.Booking, _ string) error {
	f.cancelled = append(f.cancelled, b.ID)
	return nil
}

func (f *fakeNotifier) ModificationProposed(_ context.Context, b *domain.Booking, _ string) error {
	f.proposed = append(f.proposed, b.ID)
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:                  1,
		BusinessID:          1,
		ServiceID:           10,
		ServiceName:         "Стрижка",
		CustomerName:        "Иван Петров",
		CustomerEmail:       "ivan@example.com",
		BookingDate:         futureDate,
		StartTime:           "10:00",
		EndTime:             "10:30",
		Status:              status,
		DurationMinutes:     30,
		CustomerActionToken: testToken,
	}
}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	svc := NewService(repo, fakeTenantClient{}, notifier, nopLogger{})
	svc.timeProvider = fixedTime{now: testNow}
	return svc, notifier
}

func TestGetByID_OwnershipEnforced(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, _ := newTestService(repo)

	resp, err := svc.GetByID(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByID(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_ConfirmPendingSendsEmail(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusPending)}
	svc, notifier := newTestService(repo)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{BusinessID: 1, Status: "confirmed"})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)
	assert.Equal(t, []int64{1}, notifier.confirmed)
}

func TestUpdateStatus_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.BookingStatus
		to     string
	}{
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "confirmed"},
		{name: "cancel not settable directly", from: domain.StatusConfirmed, to: "cancelled"},
		{name: "modification_pending not settable directly", from: domain.StatusConfirmed, to: "modification_pending"},
		{name: "pending only at creation", from: domain.StatusConfirmed, to: "pending"},
		{name: "unknown status", from: domain.StatusPending, to: "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{booking: testBooking(tt.from)}
			svc, _ := newTestService(repo)

			err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{BusinessID: 1, Status: tt.to})
			assert.ErrorIs(t, err, ErrInvalidStatus)
			assert.Nil(t, repo.updatedStatus)
		})
	}
}

func TestCancel_ByBusiness(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, notifier := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{BusinessID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.CancelledByBusiness, repo.cancelledBy)
	assert.Equal(t, []int64{1}, notifier.cancelled)

	// Повторная отмена отклоняется
	err = svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{BusinessID: 1})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestRequestModification_IssuesToken(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, notifier := newTestService(repo)

	resp, err := svc.RequestModification(context.Background(), 1, &models.RequestModificationRequest{
		BusinessID: 1,
		Date:       futureDate.AddDate(0, 0, 1),
		StartTime:  "14:00",
	})
	require.NoError(t, err)

	assert.True(t, tokens.IsWellFormed(repo.proposed.token))
	assert.Equal(t, testNow.Add(domain.ModificationTokenTTL), repo.proposed.expiresAt)
	assert.Equal(t, "14:00", repo.proposed.start.String())
	assert.Equal(t, "14:30", repo.proposed.end.String())

	// Оригинальные дата и время не перезаписаны
	assert.Equal(t, futureDate.Format(domain.DateFormat), resp.BookingDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "modification_pending", resp.Status)
	require.NotNil(t, resp.ProposedStartTime)
	assert.Equal(t, "14:00", *resp.ProposedStartTime)

	assert.Equal(t, []int64{1}, notifier.proposed)
}

func TestRequestModification_RejectsBadStates(t *testing.T) {
	// Из modification_pending и cancelled перенос не предлагается
	for _, status := range []domain.BookingStatus{domain.StatusModificationPending, domain.StatusCancelled} {
		repo := &fakeRepo{booking: testBooking(status)}
		svc, _ := newTestService(repo)

		_, err := svc.RequestModification(context.Background(), 1, &models.RequestModificationRequest{
			BusinessID: 1,
			Date:       futureDate,
			StartTime:  "14:00",
		})
		assert.ErrorIs(t, err, ErrCannotReschedule, "status %s", status)
	}
}

func TestRequestModification_PastDateRejected(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, _ := newTestService(repo)

	_, err := svc.RequestModification(context.Background(), 1, &models.RequestModificationRequest{
		BusinessID: 1,
		Date:       testNow.AddDate(0, 0, -1),
		StartTime:  "14:00",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCustomerCancel(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, _ := newTestService(repo)

	err := svc.CustomerCancel(context.Background(), &models.CustomerCancelRequest{Token: testToken})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelledByCustomer, repo.cancelledBy)

	// Повторная отмена отклоняется
	err = svc.CustomerCancel(context.Background(), &models.CustomerCancelRequest{Token: testToken})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCustomerCancel_PastBookingRejected(t *testing.T) {
	booking := testBooking(domain.StatusConfirmed)
	booking.BookingDate = testNow.AddDate(0, 0, -2)
	repo := &fakeRepo{booking: booking}
	svc, _ := newTestService(repo)

	err := svc.CustomerCancel(context.Background(), &models.CustomerCancelRequest{Token: testToken})
	assert.ErrorIs(t, err, ErrPastBooking)
}

func TestCustomerCancel_UnknownToken(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, _ := newTestService(repo)

	err := svc.CustomerCancel(context.Background(), &models.CustomerCancelRequest{Token: "garbage"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	err = svc.CustomerCancel(context.Background(), &models.CustomerCancelRequest{Token: strings.Repeat("ff", 32)})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByActionToken(t *testing.T) {
	repo := &fakeRepo{booking: testBooking(domain.StatusConfirmed)}
	svc, _ := newTestService(repo)

	resp, err := svc.GetByActionToken(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "Стрижка", resp.ServiceName)

	_, err = svc.GetByActionToken(context.Background(), strings.Repeat("bb", 32))
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
