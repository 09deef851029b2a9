package models

import (
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/pkg/types"
)

// Request модели

// RuleInput одно правило доступности на день недели
type RuleInput struct {
	DayOfWeek           int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	IsOpen              bool   `json:"isOpen"`
	StartTime           string `json:"startTime"` // "09:00"
	EndTime             string `json:"endTime"`   // "17:00"
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	MaxBookingsPerSlot  int    `json:"maxBookingsPerSlot"`
}

// UpdateRulesRequest запрос на замену правил доступности ресурса
type UpdateRulesRequest struct {
	BusinessID   int64
	TeamMemberID *int64 // nil = правила самого бизнеса
	Rules        []RuleInput
}

// ToDomainRule конвертирует входное правило в domain модель
func (r *RuleInput) ToDomainRule(businessID int64, teamMemberID *int64) *domain.AvailabilityRule {
	rule := &domain.AvailabilityRule{
		BusinessID:          businessID,
		TeamMemberID:        teamMemberID,
		DayOfWeek:           r.DayOfWeek,
		IsOpen:              r.IsOpen,
		StartTime:           types.TimeString(r.StartTime),
		EndTime:             types.TimeString(r.EndTime),
		SlotDurationMinutes: r.SlotDurationMinutes,
		MaxBookingsPerSlot:  r.MaxBookingsPerSlot,
	}

	// Закрытые дни хранятся с дефолтным окном, чтобы форма настроек
	// могла показать что-то осмысленное при повторном открытии дня
	if rule.StartTime == "" {
		rule.StartTime = domain.DefaultStartTime
	}
	if rule.EndTime == "" {
		rule.EndTime = domain.DefaultEndTime
	}
	if rule.SlotDurationMinutes == 0 {
		rule.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if rule.MaxBookingsPerSlot == 0 {
		rule.MaxBookingsPerSlot = domain.DefaultMaxBookingsPerSlot
	}

	return rule
}

// CreateBlockedTimeRequest запрос на создание блокировки времени
type CreateBlockedTimeRequest struct {
	BusinessID int64
	StartAt    time.Time
	EndAt      time.Time
	Reason     *string
}

// Response модели

// RuleResponse правило доступности на день недели
type RuleResponse struct {
	ID                  int64  `json:"id,omitempty"` // 0 = дефолт, еще не сохранен
	DayOfWeek           int    `json:"dayOfWeek"`
	IsOpen              bool   `json:"isOpen"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	MaxBookingsPerSlot  int    `json:"maxBookingsPerSlot"`
}

// RulesResponse упорядоченный по дням недели список правил ресурса
type RulesResponse struct {
	BusinessID   int64          `json:"businessId"`
	TeamMemberID *int64         `json:"teamMemberId,omitempty"`
	Rules        []RuleResponse `json:"rules"`
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) RuleResponse {
	return RuleResponse{
		ID:                  r.ID,
		DayOfWeek:           r.DayOfWeek,
		IsOpen:              r.IsOpen,
		StartTime:           r.StartTime.String(),
		EndTime:             r.EndTime.String(),
		SlotDurationMinutes: r.SlotDurationMinutes,
		MaxBookingsPerSlot:  r.MaxBookingsPerSlot,
	}
}

// BlockedTimeResponse блокировка времени
type BlockedTimeResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlockedTimeListResponse список блокировок бизнеса
type BlockedTimeListResponse struct {
	BlockedTimes []BlockedTimeResponse `json:"blockedTimes"`
}

// FromDomainBlockedTime конвертирует domain модель в DTO
func FromDomainBlockedTime(b *domain.BlockedTime) *BlockedTimeResponse {
	if b == nil {
		return nil
	}
	return &BlockedTimeResponse{
		ID:         b.ID,
		BusinessID: b.BusinessID,
		StartAt:    b.StartAt,
		EndAt:      b.EndAt,
		Reason:     b.Reason,
		CreatedAt:  b.CreatedAt,
	}
}

// FromDomainBlockedTimeList конвертирует список domain моделей в DTO
func FromDomainBlockedTimeList(blocks []*domain.BlockedTime) *BlockedTimeListResponse {
	resp := &BlockedTimeListResponse{
		BlockedTimes: make([]BlockedTimeResponse, 0, len(blocks)),
	}
	for _, b := range blocks {
		resp.BlockedTimes = append(resp.BlockedTimes, *FromDomainBlockedTime(b))
	}
	return resp
}
