package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/dbmetrics"
	"github.com/appointa/booking-service/pkg/psqlbuilder"
	"github.com/appointa/booking-service/pkg/types"
)

// bookingColumns полный набор колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"business_id",
	"service_id",
	"team_member_id",
	"customer_name",
	"customer_email",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"service_name",
	"service_price",
	"duration_minutes",
	"notes",
	"customer_action_token",
	"modification_token",
	"modification_token_expires_at",
	"proposed_booking_date",
	"proposed_start_time",
	"proposed_end_time",
	"modification_reason",
	"cancelled_by",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её - при
// создании с проверкой доступности слота вставка обязана идти в той же
// транзакции, что и чтение существующих бронирований.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"business_id",
			"service_id",
			"team_member_id",
			"customer_name",
			"customer_email",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"service_name",
			"service_price",
			"duration_minutes",
			"notes",
			"customer_action_token",
		).
		Values(
			booking.BusinessID,
			booking.ServiceID,
			booking.TeamMemberID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.ServiceName,
			booking.ServicePrice,
			booking.DurationMinutes,
			booking.Notes,
			booking.CustomerActionToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByCustomerActionToken получает бронирование по постоянному
// capability-токену клиента
func (r *Repository) GetByCustomerActionToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"customer_action_token": token}, "GetByCustomerActionToken")
}

// GetByModificationToken получает бронирование по эфемерному токену переноса.
// Срок жизни токена проверяет вызывающий код - здесь только поиск.
func (r *Repository) GetByModificationToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"modification_token": token}, "GetByModificationToken")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, op string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	// Внутри транзакции читаем с блокировкой - найденная строка будет изменяться
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// GetByBusinessWithFilter получает бронирования бизнеса с гибкой фильтрацией.
// Поддерживает фильтрацию по сотруднику, периоду, статусу и включению
// отмененных бронирований.
//
// Внутри транзакции при запросе на конкретную дату добавляет FOR UPDATE -
// это блокировка дня, на которую опирается проверка конфликтов при записи.
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	// Фильтрация по сотруднику (если указан)
	if filter.TeamMemberID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": *filter.TeamMemberID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)

	if singleDay {
		// Для конкретной даты сортируем по времени начала
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	// Блокировка строк дня для проверки конфликтов внутри транзакции записи
	if dbmetrics.IsInTransaction(ctx) && singleDay {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "UpdateStatus")
}

// UpdateNotes обновляет заметки бизнеса к бронированию
func (r *Repository) UpdateNotes(ctx context.Context, id int64, notes *string) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "UpdateNotes")
}

// Cancel отменяет бронирование с указанием стороны и причины
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledBy string, reason *string) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", cancelledBy).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "Cancel")
}

// SetProposedModification сохраняет предложенный бизнесом перенос и токен
// подтверждения, переводя бронирование в modification_pending.
// Оригинальные дата и время не изменяются до подтверждения клиентом.
func (r *Repository) SetProposedModification(
	ctx context.Context,
	id int64,
	token string,
	expiresAt time.Time,
	date time.Time,
	startTime, endTime types.TimeString,
	reason *string,
) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusModificationPending).
		Set("modification_token", token).
		Set("modification_token_expires_at", expiresAt).
		Set("proposed_booking_date", date).
		Set("proposed_start_time", startTime).
		Set("proposed_end_time", endTime).
		Set("modification_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "SetProposedModification")
}

// ApplyModification переносит бронирование на новые дату и время,
// подтверждает его и очищает предложение вместе с токеном.
// Используется и при подтверждении клиентом, и при self-service переносе.
func (r *Repository) ApplyModification(
	ctx context.Context,
	id int64,
	date time.Time,
	startTime, endTime types.TimeString,
) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("booking_date", date).
		Set("start_time", startTime).
		Set("end_time", endTime).
		Set("status", domain.StatusConfirmed).
		Set("modification_token", nil).
		Set("modification_token_expires_at", nil).
		Set("proposed_booking_date", nil).
		Set("proposed_start_time", nil).
		Set("proposed_end_time", nil).
		Set("modification_reason", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "ApplyModification")
}

// ClearExpiredModificationTokens очищает протухшие токены переноса и
// возвращает такие бронирования в confirmed с исходным временем.
// Вызывается воркером оппортунистически; сами токены также отклоняются
// при чтении по сроку жизни.
func (r *Repository) ClearExpiredModificationTokens(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("modification_token", nil).
		Set("modification_token_expires_at", nil).
		Set("proposed_booking_date", nil).
		Set("proposed_start_time", nil).
		Set("proposed_end_time", nil).
		Set("modification_reason", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusModificationPending}).
		Where(squirrel.Lt{"modification_token_expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ClearExpiredModificationTokens - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ClearExpiredModificationTokens - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ClearExpiredModificationTokens - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

func (r *Repository) exec(ctx context.Context, builder squirrel.UpdateBuilder, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var tokenExpiresAt, proposedDate, cancelledAt sql.NullTime
	var modToken, modReason, cancelledBy, cancelReason sql.NullString
	var proposedStart, proposedEnd types.TimeString

	err := row.Scan(
		&booking.ID,
		&booking.BusinessID,
		&booking.ServiceID,
		&booking.TeamMemberID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.ServiceName,
		&booking.ServicePrice,
		&booking.DurationMinutes,
		&booking.Notes,
		&booking.CustomerActionToken,
		&modToken,
		&tokenExpiresAt,
		&proposedDate,
		&proposedStart,
		&proposedEnd,
		&modReason,
		&cancelledBy,
		&cancelReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if modToken.Valid {
		booking.ModificationToken = &modToken.String
	}
	if tokenExpiresAt.Valid {
		booking.ModificationTokenExpiresAt = &tokenExpiresAt.Time
	}
	if proposedDate.Valid {
		booking.ProposedBookingDate = &proposedDate.Time
	}
	if !proposedStart.IsZero() {
		booking.ProposedStartTime = &proposedStart
	}
	if !proposedEnd.IsZero() {
		booking.ProposedEndTime = &proposedEnd
	}
	if modReason.Valid {
		booking.ModificationReason = &modReason.String
	}
	if cancelledBy.Valid {
		booking.CancelledBy = &cancelledBy.String
	}
	if cancelReason.Valid {
		booking.CancellationReason = &cancelReason.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
