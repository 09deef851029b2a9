package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	scheduleRepo "github.com/appointa/booking-service/internal/infra/storage/schedule"
	servicesRepo "github.com/appointa/booking-service/internal/infra/storage/services"
	tenantClient "github.com/appointa/booking-service/internal/integrations/tenantservice"
	"github.com/appointa/booking-service/pkg/tokens"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	serviceRepo  ServiceRepository
	tenantClient TenantServiceClient
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	tenantClient TenantServiceClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		tenantClient: tenantClient,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликтов и запись выполняются в одной сериализуемой транзакции:
// чтение доступности на странице клиента к моменту отправки могло устареть,
// поэтому конфликт перепроверяется по свежим данным строго перед записью
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем бизнес через TenantService
	business, err := uc.tenantClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateBooking: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 2.1. Настройки окна записи бизнеса: минимальный интервал и горизонт
	if err := validateBookingWindow(
		business.Settings.MinNoticeMinutes,
		business.Settings.AdvanceBookingDays,
		req.Date, req.StartTime, now,
	); err != nil {
		uc.logger.Warn("CreateBooking: booking window validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу, она задает длительность бронирования
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.CanBeBooked() {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotAvailable
	}

	// 4. Конец бронирования вычисляется из длительности услуги
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot %s + %d min does not fit the day", req.StartTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service does not fit the day", ErrInvalidTimeSlot)
	}

	// 5. Если указан сотрудник - проверяем, что он существует и активен
	if req.TeamMemberID != nil {
		member, err := uc.scheduleRepo.GetTeamMember(ctx, req.BusinessID, *req.TeamMemberID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrTeamMemberNotFound) {
				uc.logger.Warn("CreateBooking: team member id=%d not found", *req.TeamMemberID)
				return nil, ErrTeamMemberNotFound
			}
			uc.logger.Error("CreateBooking: failed to get team member id=%d: %v", *req.TeamMemberID, err)
			return nil, fmt.Errorf("%w: failed to get team member: %v", ErrInternal, err)
		}
		if !member.IsActive {
			uc.logger.Warn("CreateBooking: team member id=%d is inactive", *req.TeamMemberID)
			return nil, ErrTeamMemberNotFound
		}
	}

	var result *domain.Booking

	// 6. Проверка конфликтов и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Дата не должна быть в прошлом
		if err := validateDate(req.Date, now); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		// 6.2. Ищем правило доступности ресурса, нет правила - день закрыт
		rules, err := uc.scheduleRepo.GetRulesByResource(txCtx, req.BusinessID, req.TeamMemberID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get availability rules: %v", err)
			return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
		}

		rule := domain.RuleForDate(rules, req.Date)
		if rule == nil || !rule.IsOpen {
			uc.logger.Warn("CreateBooking: business=%d closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
			return ErrBusinessClosed
		}

		// 6.3. Слот должен помещаться в рабочее окно и попадать на сетку
		if err := validateSlotWithinWindow(rule, req.StartTime, endTime); err != nil {
			uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
			return err
		}

		// 6.4. Сегодняшние прошедшие слоты недоступны
		if err := validateBookingTime(req.Date, req.StartTime, now); err != nil {
			uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
			return err
		}

		// 6.5. Свежее чтение бронирований дня с блокировкой (FOR UPDATE).
		// Именно это чтение, а не то, что видел клиент при выборе слота,
		// участвует в проверке конфликтов
		filter := domain.BusinessBookingsFilter{
			BusinessID:       req.BusinessID,
			StartDate:        &req.Date,
			EndDate:          &req.Date,
			IncludeCancelled: false,
		}

		bookings, err := uc.bookingRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
		blocked, err := uc.scheduleRepo.GetBlockedTimesOverlapping(txCtx, req.BusinessID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocked times: %v", err)
			return fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
		}

		// 6.6. Проверяем конфликты по свежему состоянию
		conflict := domain.FindConflict(domain.ConflictCheck{
			Date:               req.Date,
			StartTime:          req.StartTime,
			EndTime:            endTime,
			TeamMemberID:       req.TeamMemberID,
			MaxBookingsPerSlot: rule.MaxBookingsPerSlot,
		}, bookings, blocked)

		switch conflict {
		case domain.ConflictBlocked:
			uc.logger.Warn("CreateBooking: slot %s-%s is blocked", req.StartTime, endTime)
			return ErrSlotConflict
		case domain.ConflictCapacity:
			uc.logger.Warn("CreateBooking: slot %s-%s is full, capacity %d", req.StartTime, endTime, rule.MaxBookingsPerSlot)
			return ErrSlotConflict
		}

		// 6.7. Генерируем постоянный токен self-service управления
		actionToken, err := tokens.New()
		if err != nil {
			uc.logger.Error("CreateBooking: failed to generate action token: %v", err)
			return fmt.Errorf("%w: failed to generate action token: %v", ErrInternal, err)
		}

		// 6.8. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			BusinessID:          req.BusinessID,
			ServiceID:           req.ServiceID,
			TeamMemberID:        req.TeamMemberID,
			CustomerName:        req.CustomerName,
			CustomerEmail:       req.CustomerEmail,
			BookingDate:         req.Date,
			StartTime:           req.StartTime,
			EndTime:             endTime,
			Status:              service.InitialBookingStatus(),
			ServiceName:         service.Name,
			ServicePrice:        service.Price,
			DurationMinutes:     service.DurationMinutes,
			Notes:               req.Notes,
			CustomerActionToken: actionToken,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	// 7. Письмо-подтверждение вне транзакционного ядра, ошибки не фейлят бронирование
	if result.Status == domain.StatusConfirmed {
		if err := uc.notifier.BookingConfirmed(ctx, result, business.Name); err != nil {
			uc.logger.Error("CreateBooking: failed to enqueue confirmation email for booking id=%d: %v", result.ID, err)
		}
	}

	return &Response{
		ID:                   result.ID,
		BusinessID:           result.BusinessID,
		ServiceID:            result.ServiceID,
		TeamMemberID:         result.TeamMemberID,
		BookingDate:          result.BookingDate,
		StartTime:            result.StartTime,
		EndTime:              result.EndTime,
		Status:               string(result.Status),
		RequiresConfirmation: result.Status == domain.StatusPending,
		ServiceName:          result.ServiceName,
		ServicePrice:         result.ServicePrice,
		DurationMinutes:      result.DurationMinutes,
		CustomerName:         result.CustomerName,
		CustomerEmail:        result.CustomerEmail,
		Notes:                result.Notes,
		CustomerActionToken:  result.CustomerActionToken,
		CreatedAt:            result.CreatedAt,
		UpdatedAt:            result.UpdatedAt,
	}, nil
}
