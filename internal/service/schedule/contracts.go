package schedule

import (
	"context"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/internal/integrations/tenantservice"
)

// ScheduleRepository интерфейс репозитория расписаний и блокировок
type ScheduleRepository interface {
	GetRulesByResource(ctx context.Context, businessID int64, teamMemberID *int64) ([]*domain.AvailabilityRule, error)
	UpsertRule(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	GetBlockedTimes(ctx context.Context, businessID int64) ([]*domain.BlockedTime, error)
	CreateBlockedTime(ctx context.Context, block *domain.BlockedTime) (*domain.BlockedTime, error)
	DeleteBlockedTime(ctx context.Context, businessID, blockID int64) error
	GetTeamMember(ctx context.Context, businessID, memberID int64) (*domain.TeamMember, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*tenantservice.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
