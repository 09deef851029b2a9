package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у бизнеса
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceNotAvailable возвращается, когда услуга выключена из бронирования
	ErrServiceNotAvailable = errors.New("service is not available for booking")

	// ErrTeamMemberNotFound возвращается, когда сотрудник не найден или неактивен
	ErrTeamMemberNotFound = errors.New("team member not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
