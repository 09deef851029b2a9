package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/dbmetrics"
	"github.com/appointa/booking-service/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"business_id",
	"team_member_id",
	"day_of_week",
	"is_open",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"max_bookings_per_slot",
	"created_at",
	"updated_at",
}

// Repository репозиторий расписаний: правила доступности по дням недели,
// блокировки времени и сотрудники бизнеса
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRulesByResource получает правила доступности ресурса на все дни недели.
// teamMemberID == nil - правила самого бизнеса.
// Пустой результат - не ошибка: ресурс без правил закрыт во все дни.
func (r *Repository) GetRulesByResource(ctx context.Context, businessID int64, teamMemberID *int64) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC")

	if teamMemberID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": *teamMemberID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		var rule domain.AvailabilityRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.BusinessID,
			&rule.TeamMemberID,
			&rule.DayOfWeek,
			&rule.IsOpen,
			&rule.StartTime,
			&rule.EndTime,
			&rule.SlotDurationMinutes,
			&rule.MaxBookingsPerSlot,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRulesByResource - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRulesByResource - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// UpsertRule создает или обновляет правило ресурса на день недели.
// Правила создаются лениво: до первого сохранения настроек их нет,
// и все дни ресурса считаются закрытыми.
func (r *Repository) UpsertRule(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Частичные уникальные индексы по (business_id, day_of_week) для правил
	// бизнеса и (business_id, team_member_id, day_of_week) для сотрудников
	conflictTarget := "(business_id, day_of_week) WHERE team_member_id IS NULL"
	if rule.TeamMemberID != nil {
		conflictTarget = "(business_id, team_member_id, day_of_week) WHERE team_member_id IS NOT NULL"
	}

	query, args, err := psqlbuilder.Insert("availability_rules").
		Columns(
			"business_id",
			"team_member_id",
			"day_of_week",
			"is_open",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"max_bookings_per_slot",
		).
		Values(
			rule.BusinessID,
			rule.TeamMemberID,
			rule.DayOfWeek,
			rule.IsOpen,
			rule.StartTime,
			rule.EndTime,
			rule.SlotDurationMinutes,
			rule.MaxBookingsPerSlot,
		).
		Suffix("ON CONFLICT "+conflictTarget+` DO UPDATE SET
			is_open = EXCLUDED.is_open,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			max_bookings_per_slot = EXCLUDED.max_bookings_per_slot,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - execute upsert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// GetBlockedTimes получает все блокировки бизнеса, отсортированные по началу
func (r *Repository) GetBlockedTimes(ctx context.Context, businessID int64) ([]*domain.BlockedTime, error) {
	return r.selectBlockedTimes(ctx, psqlbuilder.Select(
		"id", "business_id", "start_at", "end_at", "reason", "created_at",
	).
		From("blocked_times").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("start_at ASC"), "GetBlockedTimes")
}

// GetBlockedTimesOverlapping получает блокировки бизнеса, пересекающие
// интервал [from, to). Используется при расчете слотов на конкретную дату.
func (r *Repository) GetBlockedTimesOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error) {
	return r.selectBlockedTimes(ctx, psqlbuilder.Select(
		"id", "business_id", "start_at", "end_at", "reason", "created_at",
	).
		From("blocked_times").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC"), "GetBlockedTimesOverlapping")
}

func (r *Repository) selectBlockedTimes(ctx context.Context, builder squirrel.SelectBuilder, op string) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		var block domain.BlockedTime
		var reason sql.NullString
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.BusinessID,
			&block.StartAt,
			&block.EndAt,
			&reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}

		if reason.Valid {
			block.Reason = &reason.String
		}
		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return blocks, nil
}

// CreateBlockedTime создает блокировку времени
func (r *Repository) CreateBlockedTime(ctx context.Context, block *domain.BlockedTime) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_times").
		Columns("business_id", "start_at", "end_at", "reason").
		Values(block.BusinessID, block.StartAt, block.EndAt, block.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedTime - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedTime - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time
	return block, nil
}

// DeleteBlockedTime удаляет блокировку времени бизнеса
func (r *Repository) DeleteBlockedTime(ctx context.Context, businessID, blockID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_times").
		Where(squirrel.Eq{"id": blockID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedTimeNotFound
	}

	return nil
}

// GetTeamMember получает сотрудника бизнеса по ID
func (r *Repository) GetTeamMember(ctx context.Context, businessID, memberID int64) (*domain.TeamMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "business_id", "name", "email", "is_active", "created_at", "updated_at",
	).
		From("team_members").
		Where(squirrel.Eq{"id": memberID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTeamMember - build select query: %v", ErrBuildQuery, err)
	}

	var member domain.TeamMember
	var email sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&member.ID,
		&member.BusinessID,
		&member.Name,
		&email,
		&member.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTeamMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTeamMember - scan team member: %v", ErrScanRow, err)
	}

	if email.Valid {
		member.Email = &email.String
	}
	member.CreatedAt = createdAt.Time
	member.UpdatedAt = updatedAt.Time

	return &member, nil
}
