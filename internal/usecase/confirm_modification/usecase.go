package confirm_modification

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

// UseCase use case подтверждения предложенного бизнесом переноса
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

// Execute подтверждает перенос по токену из письма. Токен одноразовый и
// живет 48 часов. Предложенное время перепроверяется на конфликты по живым
// данным в той же сериализуемой транзакции, что и запись: между отправкой
// письма и подтверждением слот могли занять
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmModification: received token")

	if !tokens.IsWellFormed(req.Token) {
		uc.logger.Warn("ConfirmModification: malformed token")
		return nil, ErrTokenNotFound
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование по токену с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByModificationToken(txCtx, req.Token)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ConfirmModification: token not found")
				return ErrTokenNotFound
			}
			uc.logger.Error("ConfirmModification: failed to get booking by token: %v", err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !booking.HasPendingModification() {
			uc.logger.Warn("ConfirmModification: booking id=%d has no pending modification", booking.ID)
			return ErrTokenNotFound
		}

		// 2. Срок жизни токена проверяется при чтении, протухший токен
		// отклоняется без изменения бронирования
		if booking.ModificationTokenExpired(now) {
			uc.logger.Warn("ConfirmModification: token expired for booking id=%d", booking.ID)
			return ErrTokenExpired
		}

		if booking.ProposedBookingDate == nil || booking.ProposedStartTime == nil || booking.ProposedEndTime == nil {
			uc.logger.Error("ConfirmModification: booking id=%d in modification_pending without proposed values", booking.ID)
			return fmt.Errorf("%w: inconsistent modification state", ErrInternal)
		}

		proposedDate := *booking.ProposedBookingDate
		proposedStart := *booking.ProposedStartTime
		proposedEnd := *booking.ProposedEndTime

		// 3. Перепроверяем предложенное время на конфликты, исключая само
		// переносимое бронирование
		if err := uc.checkProposedSlot(txCtx, booking, proposedDate, proposedStart, proposedEnd); err != nil {
			return err
		}

		// 4. Копируем предложенные значения в живые, подтверждаем и очищаем
		// предложение вместе с токеном - токен одноразовый
		if err := uc.bookingRepo.ApplyModification(txCtx, booking.ID, proposedDate, proposedStart, proposedEnd); err != nil {
			uc.logger.Error("ConfirmModification: failed to apply modification for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to apply modification: %v", ErrInternal, err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("ConfirmModification: failed to re-read booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to re-read booking: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmModification: booking id=%d moved to %s %s",
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

func (uc *UseCase) checkProposedSlot(
	txCtx context.Context,
	booking *domain.Booking,
	date time.Time,
	startTime, endTime types.TimeString,
) error {
	rules, err := uc.scheduleRepo.GetRulesByResource(txCtx, booking.BusinessID, booking.TeamMemberID)
	if err != nil {
		uc.logger.Error("ConfirmModification: failed to get availability rules: %v", err)
		return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	rule := domain.RuleForDate(rules, date)
	if rule == nil || !rule.IsOpen {
		uc.logger.Warn("ConfirmModification: business=%d closed on %s", booking.BusinessID, date.Format(domain.DateFormat))
		return ErrBusinessClosed
	}

	filter := domain.BusinessBookingsFilter{
		BusinessID:       booking.BusinessID,
		StartDate:        &date,
		EndDate:          &date,
		IncludeCancelled: false,
	}

	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(txCtx, filter)
	if err != nil {
		uc.logger.Error("ConfirmModification: failed to get bookings: %v", err)
		return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	blocked, err := uc.scheduleRepo.GetBlockedTimesOverlapping(txCtx, booking.BusinessID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("ConfirmModification: failed to get blocked times: %v", err)
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
		uc.logger.Warn("ConfirmModification: proposed slot %s-%s for booking id=%d conflicts", startTime, endTime, booking.ID)
		return ErrSlotConflict
	}

	return nil
}
