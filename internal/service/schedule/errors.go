package schedule

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден в справочнике тенантов
	ErrBusinessNotFound = errors.New("business not found")

	// ErrTeamMemberNotFound возвращается, когда сотрудник не найден у бизнеса
	ErrTeamMemberNotFound = errors.New("team member not found")

	// ErrBlockedTimeNotFound возвращается, когда блокировка не найдена
	ErrBlockedTimeNotFound = errors.New("blocked time not found")

	// ErrTierLimit возвращается, когда операция недоступна на тарифе бизнеса
	ErrTierLimit = errors.New("not available on current tier")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
