package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointa/booking-service/internal/domain"
	scheduleRepo "github.com/appointa/booking-service/internal/infra/storage/schedule"
	servicesRepo "github.com/appointa/booking-service/internal/infra/storage/services"
	"github.com/appointa/booking-service/internal/integrations/tenantservice"
	"github.com/appointa/booking-service/pkg/ptr"
	"github.com/appointa/booking-service/pkg/tokens"
	"github.com/appointa/booking-service/pkg/types"
)

// Среда, открыто 09:00-17:00
var testDate = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	created  *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = 100
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeScheduleRepo struct {
	rules   []*domain.AvailabilityRule
	blocked []*domain.BlockedTime
	member  *domain.TeamMember
}

func (f *fakeScheduleRepo) GetRulesByResource(_ context.Context, _ int64, _ *int64) ([]*domain.AvailabilityRule, error) {
	return f.rules, nil
}

func (f *fakeScheduleRepo) GetBlockedTimesOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.BlockedTime, error) {
	return f.blocked, nil
}

func (f *fakeScheduleRepo) GetTeamMember(_ context.Context, _, _ int64) (*domain.TeamMember, error) {
	if f.member == nil {
		return nil, scheduleRepo.ErrTeamMemberNotFound
	}
	return f.member, nil
}

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	if f.service == nil {
		return nil, servicesRepo.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeTenantClient struct {
	business *tenantservice.Business
}

func (f *fakeTenantClient) GetBusiness(_ context.Context, _ int64) (*tenantservice.Business, error) {
	if f.business == nil {
		return nil, tenantservice.ErrBusinessNotFound
	}
	return f.business, nil
}

type fakeNotifier struct {
	confirmed []int64
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, booking *domain.Booking, _ string) error {
	f.confirmed = append(f.confirmed, booking.ID)
	return nil
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

type testEnv struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	schedule *fakeScheduleRepo
	services *fakeServiceRepo
	tenant   *fakeTenantClient
	notifier *fakeNotifier
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		bookings: &fakeBookingRepo{},
		schedule: &fakeScheduleRepo{rules: []*domain.AvailabilityRule{openRule("09:00", "17:00", 30, 1)}},
		services: &fakeServiceRepo{service: testService(30, false)},
		tenant:   &fakeTenantClient{business: &tenantservice.Business{ID: 1, Name: "Барбершоп", IsActive: true}},
		notifier: &fakeNotifier{},
	}
	env.uc = NewUseCase(
		env.bookings,
		env.schedule,
		env.services,
		env.tenant,
		env.notifier,
		fakeTxManager{},
		nopLogger{},
	)
	env.uc.timeProvider = fixedTime{now: now}
	return env
}

func openRule(start, end string, slotDuration, maxPerSlot int) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		BusinessID:          1,
		DayOfWeek:           int(testDate.Weekday()),
		IsOpen:              true,
		StartTime:           types.TimeString(start),
		EndTime:             types.TimeString(end),
		SlotDurationMinutes: slotDuration,
		MaxBookingsPerSlot:  maxPerSlot,
	}
}

func testService(duration int, requiresConfirmation bool) *domain.Service {
	return &domain.Service{
		ID:                   10,
		BusinessID:           1,
		Name:                 "Стрижка",
		DurationMinutes:      duration,
		Price:                1500,
		IsActive:             true,
		RequiresConfirmation: requiresConfirmation,
	}
}

func activeBooking(id int64, start, end string) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		BusinessID:  1,
		BookingDate: testDate,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Status:      domain.StatusConfirmed,
	}
}

func validRequest() *Request {
	return &Request{
		BusinessID:    1,
		ServiceID:     10,
		Date:          testDate,
		StartTime:     "10:00",
		CustomerName:  "Иван Петров",
		CustomerEmail: "ivan@example.com",
	}
}

func TestExecute_CreatesConfirmedBooking(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.False(t, resp.RequiresConfirmation)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.True(t, tokens.IsWellFormed(resp.CustomerActionToken))

	// Подтвержденное бронирование получает письмо
	assert.Equal(t, []int64{100}, env.notifier.confirmed)
}

func TestExecute_PendingWhenServiceRequiresConfirmation(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.services.service = testService(30, true)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.True(t, resp.RequiresConfirmation)

	// Письмо не отправляется, пока бизнес не подтвердит
	assert.Empty(t, env.notifier.confirmed)
}

func TestExecute_SlotConflictWhenTaken(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.bookings.bookings = []*domain.Booking{activeBooking(1, "10:00", "10:30")}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, env.bookings.created)
}

func TestExecute_BackToBackDoesNotConflict(t *testing.T) {
	// Существующее бронирование 09:30-10:00 граничит с кандидатом 10:00-10:30
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.bookings.bookings = []*domain.Booking{activeBooking(1, "09:30", "10:00")}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_CapacityAllowsParallelBookings(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.schedule.rules = []*domain.AvailabilityRule{openRule("09:00", "17:00", 30, 2)}
	env.bookings.bookings = []*domain.Booking{activeBooking(1, "10:00", "10:30")}

	// Второе бронирование на тот же слот проходит при вместимости 2
	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Третье уже нет
	env.bookings.bookings = append(env.bookings.bookings, activeBooking(2, "10:00", "10:30"))
	_, err = env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_BlockedRangeRejects(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.schedule.blocked = []*domain.BlockedTime{{
		BusinessID: 1,
		StartAt:    time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 10, 0, 0, 0, time.UTC),
		EndAt:      time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 12, 0, 0, 0, time.UTC),
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_ClosedDayRejects(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.schedule.rules = nil

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_SlotOutsideWindowRejects(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.services.service = testService(45, false)

	// Окно 09:00-17:00, услуга 45 минут: старт 16:45 кончается 17:30
	req := validRequest()
	req.StartTime = "16:45"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	// А 16:00 помещается
	req.StartTime = "16:00"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_MisalignedStartRejects(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))

	req := validRequest()
	req.StartTime = "10:10"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SameDayPastTimeRejects(t *testing.T) {
	now := time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)

	// Старт ровно в "сейчас" тоже недоступен
	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)

	req := validRequest()
	req.StartTime = "10:30"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_PastDateRejects(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, 1))

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ValidationErrors(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "no business", mutate: func(r *Request) { r.BusinessID = 0 }},
		{name: "no service", mutate: func(r *Request) { r.ServiceID = 0 }},
		{name: "no name", mutate: func(r *Request) { r.CustomerName = "  " }},
		{name: "bad email", mutate: func(r *Request) { r.CustomerEmail = "not-an-email" }},
		{name: "bad time format", mutate: func(r *Request) { r.StartTime = "9:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_InactiveBusinessRejects(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.uc.tenantClient = &fakeTenantClient{business: &tenantservice.Business{ID: 1, IsActive: false}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_MinNoticeWindowRejects(t *testing.T) {
	// Сейчас 09:30 того же дня, запись на 10:00 при требуемом часе до начала
	env := newTestEnv(time.Date(2026, 9, 16, 9, 30, 0, 0, time.UTC))
	env.tenant.business.Settings.MinNoticeMinutes = 60

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_AdvanceHorizonRejects(t *testing.T) {
	// Запись за месяц вперед при горизонте в 7 дней
	env := newTestEnv(testDate.AddDate(0, 0, -30))
	env.tenant.business.Settings.AdvanceBookingDays = 7

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_WithinBookingWindowAllowed(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -5))
	env.tenant.business.Settings.MinNoticeMinutes = 60
	env.tenant.business.Settings.AdvanceBookingDays = 7

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_TeamMemberResourceIsolation(t *testing.T) {
	env := newTestEnv(testDate.AddDate(0, 0, -1))
	env.schedule.member = &domain.TeamMember{ID: 5, BusinessID: 1, Name: "Мастер", IsActive: true}

	// Чужое бронирование сотрудника 2 не мешает сотруднику 5
	other := activeBooking(1, "10:00", "10:30")
	other.TeamMemberID = ptr.Ptr(int64(2))
	env.bookings.bookings = []*domain.Booking{other}

	req := validRequest()
	req.TeamMemberID = ptr.Ptr(int64(5))

	_, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, env.bookings.created)
	assert.Equal(t, int64(5), *env.bookings.created.TeamMemberID)
}
