package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	bookingRepo "github.com/appointa/booking-service/internal/infra/storage/booking"
	"github.com/appointa/booking-service/internal/service/bookings/models"
	"github.com/appointa/booking-service/pkg/tokens"
)

// Service сервис для работы с бронированиями со стороны бизнеса
// и self-service операций клиента по постоянному токену
type Service struct {
	bookingRepo  BookingRepository
	tenantClient TenantServiceClient
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	tenantClient TenantServiceClient,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		tenantClient: tenantClient,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Бизнес видит только собственные бронирования
func (s *Service) GetByID(ctx context.Context, businessID, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for business=%d", bookingID, businessID)

	booking, err := s.getOwnedBooking(ctx, businessID, bookingID, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetBusinessBookings получает бронирования бизнеса с гибкой фильтрацией
// по сотруднику, периоду, статусу и включению отмененных
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBusinessBookings: fetching bookings for business=%d", req.BusinessID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: successfully fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus обновляет статус бронирования бизнесом.
// Практически единственный допустимый переход здесь - подтверждение
// pending бронирования; отмена идет через Cancel, перенос через
// RequestModification
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by business=%d",
		bookingID, req.Status, req.BusinessID)

	booking, err := s.getOwnedBooking(ctx, req.BusinessID, bookingID, "UpdateStatus")
	if err != nil {
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, req.Status)
	}

	// Отмена и предложение переноса имеют собственные операции
	if newStatus == domain.StatusCancelled || newStatus == domain.StatusModificationPending {
		s.logger.Warn("UpdateStatus: status=%s for booking id=%d must go through its own operation", newStatus, bookingID)
		return fmt.Errorf("%w: status %q is not settable directly", ErrInvalidStatus, newStatus)
	}

	if !domain.ValidStatusTransition(booking.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: transition %s -> %s is not allowed", ErrInvalidStatus, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)

	// Подтверждение pending бронирования отправляет клиенту письмо
	if booking.Status == domain.StatusPending && newStatus == domain.StatusConfirmed {
		confirmed := *booking
		confirmed.Status = domain.StatusConfirmed
		s.notify(ctx, &confirmed, s.notifier.BookingConfirmed, "UpdateStatus")
	}

	return nil
}

// Cancel отменяет бронирование со стороны бизнеса.
// Отмена терминальна и не требует проверки конфликтов; ограничений
// на прошедшие даты у бизнеса нет
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by business=%d", bookingID, req.BusinessID)

	booking, err := s.getOwnedBooking(ctx, req.BusinessID, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, domain.CancelledByBusiness, req.CancellationReason); err != nil {
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by business", bookingID)

	s.notify(ctx, booking, s.notifier.BookingCancelled, "Cancel")
	return nil
}

// RequestModification предлагает клиенту перенос бронирования.
// Генерируется одноразовый токен на 48 часов, предложенные дата и время
// сохраняются рядом с оригинальными, не перезаписывая их, а бронирование
// переходит в modification_pending. Конфликты здесь не проверяются:
// проверка выполняется при подтверждении клиентом по живым данным
func (s *Service) RequestModification(ctx context.Context, bookingID int64, req *models.RequestModificationRequest) (*models.BookingResponse, error) {
	s.logger.Info("RequestModification: booking id=%d, business=%d, proposed=%s %s",
		bookingID, req.BusinessID, req.Date.Format(domain.DateFormat), req.StartTime)

	booking, err := s.getOwnedBooking(ctx, req.BusinessID, bookingID, "RequestModification")
	if err != nil {
		return nil, err
	}

	if !booking.CanBeRescheduled() {
		s.logger.Warn("RequestModification: booking id=%d cannot be rescheduled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotReschedule
	}

	now := s.timeProvider.Now()

	if err := validateProposedTime(req, now); err != nil {
		s.logger.Warn("RequestModification: invalid proposed time for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	endTime, err := req.StartTime.AddMinutes(booking.DurationMinutes)
	if err != nil {
		s.logger.Warn("RequestModification: proposed slot %s + %d min does not fit the day",
			req.StartTime, booking.DurationMinutes)
		return nil, fmt.Errorf("%w: service does not fit the day", ErrInvalidTimeRange)
	}

	token, err := tokens.New()
	if err != nil {
		s.logger.Error("RequestModification: failed to generate token: %v", err)
		return nil, fmt.Errorf("%w: failed to generate token: %v", ErrInternal, err)
	}
	expiresAt := now.Add(domain.ModificationTokenTTL)

	if err := s.bookingRepo.SetProposedModification(ctx, bookingID, token, expiresAt, req.Date, req.StartTime, endTime, req.Reason); err != nil {
		s.logger.Error("RequestModification: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: RequestModification - repository error: %v", ErrInternal, err)
	}

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("RequestModification: failed to re-read booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: RequestModification - failed to re-read booking: %v", ErrInternal, err)
	}

	s.logger.Info("RequestModification: booking id=%d moved to modification_pending, token expires %s",
		bookingID, expiresAt.Format("2006-01-02 15:04"))

	s.notify(ctx, updated, s.notifier.ModificationProposed, "RequestModification")

	return models.FromDomainBooking(updated), nil
}

// CustomerCancel отменяет бронирование клиентом по постоянному токену.
// Прошедшие бронирования клиент отменить не может, повторная отмена
// отклоняется
func (s *Service) CustomerCancel(ctx context.Context, req *models.CustomerCancelRequest) error {
	s.logger.Info("CustomerCancel: received cancellation request")

	booking, err := s.getByActionToken(ctx, req.Token, "CustomerCancel")
	if err != nil {
		return err
	}

	if booking.IsCancelled() {
		s.logger.Warn("CustomerCancel: booking id=%d is already cancelled", booking.ID)
		return ErrCannotCancel
	}

	if booking.IsPast(s.timeProvider.Now()) {
		s.logger.Warn("CustomerCancel: booking id=%d is in the past", booking.ID)
		return ErrPastBooking
	}

	if err := s.bookingRepo.Cancel(ctx, booking.ID, domain.CancelledByCustomer, req.CancellationReason); err != nil {
		s.logger.Error("CustomerCancel: repository error for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: CustomerCancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CustomerCancel: successfully cancelled booking id=%d", booking.ID)
	return nil
}

// GetByActionToken получает бронирование клиента по постоянному токену
// для self-service страницы управления
func (s *Service) GetByActionToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	booking, err := s.getByActionToken(ctx, token, "GetByActionToken")
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

// getOwnedBooking читает бронирование и проверяет, что оно принадлежит бизнесу
func (s *Service) getOwnedBooking(ctx context.Context, businessID, bookingID int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if booking.BusinessID != businessID {
		s.logger.Warn("%s: booking id=%d belongs to business=%d, requested by business=%d",
			op, bookingID, booking.BusinessID, businessID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// getByActionToken читает бронирование по постоянному токену клиента.
// Неизвестный и некорректный токены дают одинаковый ответ
func (s *Service) getByActionToken(ctx context.Context, token, op string) (*domain.Booking, error) {
	if !tokens.IsWellFormed(token) {
		s.logger.Warn("%s: malformed action token", op)
		return nil, ErrBookingNotFound
	}

	booking, err := s.bookingRepo.GetByCustomerActionToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: action token not found", op)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, nil
}

// notify ставит письмо в очередь, логируя ошибки вместо возврата:
// почта не должна ломать уже выполненную операцию
func (s *Service) notify(ctx context.Context, booking *domain.Booking, send func(context.Context, *domain.Booking, string) error, op string) {
	business, err := s.tenantClient.GetBusiness(ctx, booking.BusinessID)
	if err != nil {
		s.logger.Error("%s: failed to get business=%d for email: %v", op, booking.BusinessID, err)
		return
	}
	if err := send(ctx, booking, business.Name); err != nil {
		s.logger.Error("%s: failed to enqueue email for booking id=%d: %v", op, booking.ID, err)
	}
}

// validateProposedTime проверяет предложенные дату и время переноса
func validateProposedTime(req *models.RequestModificationRequest, now time.Time) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	dateOnly := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: proposed date is in the past", ErrInvalidTimeRange)
	}

	return nil
}
