package customer_modify

import "errors"

var (
	// ErrBookingNotFound возвращается на неизвестный или некорректный токен.
	// Единый ответ, чтобы не раскрывать существование токенов
	ErrBookingNotFound = errors.New("customer_modify: booking not found")

	// ErrCannotModify возвращается при попытке перенести отмененное бронирование
	ErrCannotModify = errors.New("customer_modify: booking cannot be modified")

	// ErrInvalidDate возвращается при новой дате в прошлом
	ErrInvalidDate = errors.New("customer_modify: invalid booking date")

	// ErrBusinessClosed возвращается, когда ресурс закрыт в новую дату
	ErrBusinessClosed = errors.New("customer_modify: business is closed on this date")

	// ErrSlotConflict возвращается, когда новое время занято или перекрыто блокировкой
	ErrSlotConflict = errors.New("customer_modify: slot conflict")

	// ErrInvalidTimeSlot возвращается, когда новое время не совпадает с сеткой
	// слотов или услуга не помещается в рабочее окно
	ErrInvalidTimeSlot = errors.New("customer_modify: invalid time slot")

	// ErrTooLateToBook возвращается при попытке перенести на прошедшее время сегодня
	ErrTooLateToBook = errors.New("customer_modify: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("customer_modify: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("customer_modify: internal error")
)
