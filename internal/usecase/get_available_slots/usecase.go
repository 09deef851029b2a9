package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	scheduleRepo "github.com/appointa/booking-service/internal/infra/storage/schedule"
	servicesRepo "github.com/appointa/booking-service/internal/infra/storage/services"
)

// UseCase use case для получения доступных слотов на день
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	serviceRepo  ServiceRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата не должна быть в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу и проверяем, что она доступна для бронирования
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.CanBeBooked() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotAvailable
	}

	// 4. Если указан сотрудник - проверяем, что он существует и активен
	if req.TeamMemberID != nil {
		member, err := uc.scheduleRepo.GetTeamMember(ctx, req.BusinessID, *req.TeamMemberID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrTeamMemberNotFound) {
				uc.logger.Warn("GetAvailableSlots: team member id=%d not found", *req.TeamMemberID)
				return nil, ErrTeamMemberNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get team member id=%d: %v", *req.TeamMemberID, err)
			return nil, fmt.Errorf("%w: failed to get team member: %v", ErrInternal, err)
		}
		if !member.IsActive {
			uc.logger.Warn("GetAvailableSlots: team member id=%d is inactive", *req.TeamMemberID)
			return nil, ErrTeamMemberNotFound
		}
	}

	// 5. Ищем правило доступности ресурса на день недели даты.
	// Нет правила или день закрыт - ноль слотов (fail closed)
	rules, err := uc.scheduleRepo.GetRulesByResource(ctx, req.BusinessID, req.TeamMemberID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	rule := domain.RuleForDate(rules, req.Date)
	if rule == nil || !rule.IsOpen {
		uc.logger.Info("GetAvailableSlots: business=%d closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, service), nil
	}

	// 6. Получаем активные бронирования бизнеса на эту дату
	filter := domain.BusinessBookingsFilter{
		BusinessID:       req.BusinessID,
		StartDate:        &req.Date,
		EndDate:          &req.Date,
		IncludeCancelled: false,
	}

	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Получаем блокировки, пересекающие эту дату
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	blocked, err := uc.scheduleRepo.GetBlockedTimesOverlapping(ctx, req.BusinessID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}

	// 8. Генерируем слоты и вычисляем доступность каждого
	slots, err := generateSlots(rule, service.DurationMinutes, req.TeamMemberID, req.Date, now, bookings, blocked)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                   req.Date,
		BusinessID:             req.BusinessID,
		ServiceID:              req.ServiceID,
		TeamMemberID:           req.TeamMemberID,
		ServiceDurationMinutes: service.DurationMinutes,
		Slots:                  slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request, service *domain.Service) *Response {
	return &Response{
		Date:                   req.Date,
		BusinessID:             req.BusinessID,
		ServiceID:              req.ServiceID,
		TeamMemberID:           req.TeamMemberID,
		ServiceDurationMinutes: service.DurationMinutes,
		Slots:                  []domain.AvailableSlot{},
	}
}
