package customer_modify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	bookingRepo "github.com/appointa/booking-service/internal/infra/storage/booking"
	"github.com/appointa/booking-service/pkg/tokens"
	"github.com/appointa/booking-service/pkg/types"
)

// UseCase use case self-service переноса бронирования клиентом
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переносит бронирование на новые дату и время по постоянному токену
// клиента. В отличие от подтверждения предложения бизнеса, здесь клиент сам
// выбирает время, поэтому перенос сразу подтверждается. Новое время
// перепроверяется на конфликты в сериализуемой транзакции, исключая само
// переносимое бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CustomerModify: date=%s, time=%s", req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CustomerModify: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Читаем бронирование по токену с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByCustomerActionToken(txCtx, req.Token)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CustomerModify: action token not found")
				return ErrBookingNotFound
			}
			uc.logger.Error("CustomerModify: failed to get booking by token: %v", err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.IsCancelled() {
			uc.logger.Warn("CustomerModify: booking id=%d is cancelled", booking.ID)
			return ErrCannotModify
		}

		// 3. Новая дата не должна быть в прошлом, сегодняшнее прошедшее
		// время недоступно
		if err := validateDate(req.Date, now); err != nil {
			uc.logger.Warn("CustomerModify: date validation failed: %v", err)
			return err
		}
		if err := validateBookingTime(req.Date, req.StartTime, now); err != nil {
			uc.logger.Warn("CustomerModify: booking time validation failed: %v", err)
			return err
		}

		// 4. Конец интервала вычисляется из сохраненной длительности услуги
		endTime, err := req.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			uc.logger.Warn("CustomerModify: slot %s + %d min does not fit the day", req.StartTime, booking.DurationMinutes)
			return fmt.Errorf("%w: service does not fit the day", ErrInvalidTimeSlot)
		}

		// 5. Ищем правило доступности ресурса на новую дату
		rules, err := uc.scheduleRepo.GetRulesByResource(txCtx, booking.BusinessID, booking.TeamMemberID)
		if err != nil {
			uc.logger.Error("CustomerModify: failed to get availability rules: %v", err)
			return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
		}

		rule := domain.RuleForDate(rules, req.Date)
		if rule == nil || !rule.IsOpen {
			uc.logger.Warn("CustomerModify: business=%d closed on %s", booking.BusinessID, req.Date.Format(domain.DateFormat))
			return ErrBusinessClosed
		}

		if err := validateSlotWithinWindow(rule, req.StartTime, endTime); err != nil {
			uc.logger.Warn("CustomerModify: slot validation failed: %v", err)
			return err
		}

		// 6. Перепроверяем конфликты по живым данным, исключая само бронирование
		if err := uc.checkSlot(txCtx, booking, rule, req.Date, req.StartTime, endTime); err != nil {
			return err
		}

		// 7. Применяем перенос. Возможное висящее предложение бизнеса
		// очищается вместе с его токеном
		if err := uc.bookingRepo.ApplyModification(txCtx, booking.ID, req.Date, req.StartTime, endTime); err != nil {
			uc.logger.Error("CustomerModify: failed to apply modification for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to apply modification: %v", ErrInternal, err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("CustomerModify: failed to re-read booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to re-read booking: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CustomerModify: booking id=%d moved to %s %s",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime)

	return &Response{
		ID:          result.ID,
		BusinessID:  result.BusinessID,
		ServiceID:   result.ServiceID,
		ServiceName: result.ServiceName,
		BookingDate: result.BookingDate,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		Status:      string(result.Status),
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

func (uc *UseCase) checkSlot(
	txCtx context.Context,
	booking *domain.Booking,
	rule *domain.AvailabilityRule,
	date time.Time,
	startTime, endTime types.TimeString,
) error {
	filter := domain.BusinessBookingsFilter{
		BusinessID:       booking.BusinessID,
		StartDate:        &date,
		EndDate:          &date,
		IncludeCancelled: false,
	}

	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(txCtx, filter)
	if err != nil {
		uc.logger.Error("CustomerModify: failed to get bookings: %v", err)
		return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	blocked, err := uc.scheduleRepo.GetBlockedTimesOverlapping(txCtx, booking.BusinessID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("CustomerModify: failed to get blocked times: %v", err)
		return fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}

	conflict := domain.FindConflict(domain.ConflictCheck{
		Date:               date,
		StartTime:          startTime,
		EndTime:            endTime,
		TeamMemberID:       booking.TeamMemberID,
		MaxBookingsPerSlot: rule.MaxBookingsPerSlot,
		ExcludeBookingID:   booking.ID,
	}, bookings, blocked)

	if conflict != domain.ConflictNone {
		uc.logger.Warn("CustomerModify: slot %s-%s for booking id=%d conflicts", startTime, endTime, booking.ID)
		return ErrSlotConflict
	}

	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !tokens.IsWellFormed(req.Token) {
		return ErrBookingNotFound
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что новая дата не в прошлом
func validateDate(date time.Time, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}
	return nil
}

// validateBookingTime запрещает переносить на прошедшее время сегодняшнего дня
func validateBookingTime(date time.Time, startTime types.TimeString, now time.Time) error {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return nil
	}

	currentTime := types.NewTimeString(now)
	if !startTime.IsAfter(currentTime) {
		return ErrTooLateToBook
	}

	return nil
}

// validateSlotWithinWindow проверяет, что интервал [startTime, endTime)
// целиком помещается в рабочее окно и попадает на сетку слотов
func validateSlotWithinWindow(rule *domain.AvailabilityRule, startTime, endTime types.TimeString) error {
	if startTime.IsBefore(rule.StartTime) || endTime.IsAfter(rule.EndTime) {
		return fmt.Errorf("%w: slot is outside working hours %s-%s",
			ErrInvalidTimeSlot, rule.StartTime, rule.EndTime)
	}

	offset := startTime.Minutes() - rule.StartTime.Minutes()
	if offset%rule.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: startTime is not aligned to %d minute grid",
			ErrInvalidTimeSlot, rule.SlotDurationMinutes)
	}

	return nil
}
