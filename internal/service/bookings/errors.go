package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому бизнесу
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается при попытке отменить уже отмененное бронирование
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrPastBooking возвращается при self-service отмене прошедшего бронирования
	ErrPastBooking = errors.New("past bookings cannot be cancelled")

	// ErrCannotReschedule возвращается, когда бронирование нельзя перенести
	// из его текущего статуса
	ErrCannotReschedule = errors.New("booking cannot be rescheduled")

	// ErrInvalidStatus возвращается при недопустимом переходе статусов
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeRange возвращается при некорректном предложенном времени
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
