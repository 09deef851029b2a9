package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/appointa/booking-service/internal/domain"
	scheduleRepo "github.com/appointa/booking-service/internal/infra/storage/schedule"
	tenantClient "github.com/appointa/booking-service/internal/integrations/tenantservice"
	"github.com/appointa/booking-service/internal/service/schedule/models"
)

// Service сервис настройки расписаний и блокировок времени
type Service struct {
	scheduleRepo ScheduleRepository
	tenantClient TenantServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	tenantClient TenantServiceClient,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		tenantClient: tenantClient,
		logger:       logger,
	}
}

// GetRules возвращает правила доступности ресурса, упорядоченные по дням
// недели. Дни без сохраненного правила отдаются как закрытые с дефолтным
// окном: форма настроек всегда видит все 7 дней, но движок доступности
// такие дни считает закрытыми, пока владелец их явно не откроет
func (s *Service) GetRules(ctx context.Context, businessID int64, teamMemberID *int64) (*models.RulesResponse, error) {
	s.logger.Info("GetRules: business=%d, teamMember=%v", businessID, teamMemberID)

	if teamMemberID != nil {
		if err := s.checkTeamMember(ctx, businessID, *teamMemberID, "GetRules"); err != nil {
			return nil, err
		}
	}

	rules, err := s.scheduleRepo.GetRulesByResource(ctx, businessID, teamMemberID)
	if err != nil {
		s.logger.Error("GetRules: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetRules - repository error: %v", ErrInternal, err)
	}

	byDay := make(map[int]*domain.AvailabilityRule, len(rules))
	for _, rule := range rules {
		byDay[rule.DayOfWeek] = rule
	}

	resp := &models.RulesResponse{
		BusinessID:   businessID,
		TeamMemberID: teamMemberID,
		Rules:        make([]models.RuleResponse, 0, 7),
	}

	for day := 0; day < 7; day++ {
		if rule, ok := byDay[day]; ok {
			resp.Rules = append(resp.Rules, models.FromDomainRule(rule))
			continue
		}
		resp.Rules = append(resp.Rules, models.RuleResponse{
			DayOfWeek:           day,
			IsOpen:              false,
			StartTime:           domain.DefaultStartTime,
			EndTime:             domain.DefaultEndTime,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			MaxBookingsPerSlot:  domain.DefaultMaxBookingsPerSlot,
		})
	}

	return resp, nil
}

// UpdateRules сохраняет правила доступности ресурса. Каждое правило
// валидируется доменными инвариантами до записи, запись идет upsert-ом
// по (ресурс, день недели)
func (s *Service) UpdateRules(ctx context.Context, req *models.UpdateRulesRequest) (*models.RulesResponse, error) {
	s.logger.Info("UpdateRules: business=%d, teamMember=%v, %d rules", req.BusinessID, req.TeamMemberID, len(req.Rules))

	if len(req.Rules) == 0 {
		return nil, fmt.Errorf("%w: rules are required", ErrInvalidInput)
	}

	if req.TeamMemberID != nil {
		if err := s.checkTeamMember(ctx, req.BusinessID, *req.TeamMemberID, "UpdateRules"); err != nil {
			return nil, err
		}
	}

	seen := make(map[int]bool, len(req.Rules))
	domainRules := make([]*domain.AvailabilityRule, 0, len(req.Rules))

	for _, input := range req.Rules {
		if seen[input.DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate day of week %d", ErrInvalidInput, input.DayOfWeek)
		}
		seen[input.DayOfWeek] = true

		rule := input.ToDomainRule(req.BusinessID, req.TeamMemberID)
		if err := rule.Validate(); err != nil {
			s.logger.Warn("UpdateRules: invalid rule for day=%d: %v", input.DayOfWeek, err)
			return nil, fmt.Errorf("%w: day %d: %v", ErrInvalidInput, input.DayOfWeek, err)
		}
		domainRules = append(domainRules, rule)
	}

	for _, rule := range domainRules {
		if _, err := s.scheduleRepo.UpsertRule(ctx, rule); err != nil {
			s.logger.Error("UpdateRules: repository error for day=%d: %v", rule.DayOfWeek, err)
			return nil, fmt.Errorf("%w: UpdateRules - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateRules: saved %d rules for business=%d", len(domainRules), req.BusinessID)
	return s.GetRules(ctx, req.BusinessID, req.TeamMemberID)
}

// ListBlockedTimes возвращает все блокировки времени бизнеса
func (s *Service) ListBlockedTimes(ctx context.Context, businessID int64) (*models.BlockedTimeListResponse, error) {
	blocks, err := s.scheduleRepo.GetBlockedTimes(ctx, businessID)
	if err != nil {
		s.logger.Error("ListBlockedTimes: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListBlockedTimes - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBlockedTimeList(blocks), nil
}

// CreateBlockedTime создает блокировку времени. Длительность блокировки
// ограничена тарифом бизнеса: многодневные блокировки доступны только
// тарифам с соответствующим MaxBlockDays
func (s *Service) CreateBlockedTime(ctx context.Context, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	s.logger.Info("CreateBlockedTime: business=%d, %s - %s", req.BusinessID,
		req.StartAt.Format("2006-01-02 15:04"), req.EndAt.Format("2006-01-02 15:04"))

	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}
	if !req.StartAt.Before(req.EndAt) {
		return nil, fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	block := &domain.BlockedTime{
		BusinessID: req.BusinessID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Reason:     req.Reason,
	}

	// Тарифная граница проверяется здесь, на границе API, а не внутри
	// движка конфликтов
	business, err := s.tenantClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrBusinessNotFound) {
			s.logger.Warn("CreateBlockedTime: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("CreateBlockedTime: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if days := block.DurationDays(); days > 1 && days > business.Capabilities.MaxBlockDays {
		s.logger.Warn("CreateBlockedTime: %d-day block exceeds tier limit %d for business=%d",
			days, business.Capabilities.MaxBlockDays, req.BusinessID)
		return nil, fmt.Errorf("%w: multi-day blocks up to %d days", ErrTierLimit, business.Capabilities.MaxBlockDays)
	}

	created, err := s.scheduleRepo.CreateBlockedTime(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlockedTime: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: CreateBlockedTime - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedTime: created block id=%d for business=%d", created.ID, req.BusinessID)
	return models.FromDomainBlockedTime(created), nil
}

// DeleteBlockedTime удаляет блокировку времени бизнеса
func (s *Service) DeleteBlockedTime(ctx context.Context, businessID, blockID int64) error {
	s.logger.Info("DeleteBlockedTime: business=%d, block=%d", businessID, blockID)

	if err := s.scheduleRepo.DeleteBlockedTime(ctx, businessID, blockID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedTimeNotFound) {
			s.logger.Warn("DeleteBlockedTime: block id=%d not found for business=%d", blockID, businessID)
			return ErrBlockedTimeNotFound
		}
		s.logger.Error("DeleteBlockedTime: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteBlockedTime - repository error: %v", ErrInternal, err)
	}

	return nil
}

// checkTeamMember проверяет, что сотрудник существует и принадлежит бизнесу
func (s *Service) checkTeamMember(ctx context.Context, businessID, memberID int64, op string) error {
	if _, err := s.scheduleRepo.GetTeamMember(ctx, businessID, memberID); err != nil {
		if errors.Is(err, scheduleRepo.ErrTeamMemberNotFound) {
			s.logger.Warn("%s: team member id=%d not found in business=%d", op, memberID, businessID)
			return ErrTeamMemberNotFound
		}
		s.logger.Error("%s: failed to get team member id=%d: %v", op, memberID, err)
		return fmt.Errorf("%w: %s - failed to get team member: %v", ErrInternal, op, err)
	}
	return nil
}
