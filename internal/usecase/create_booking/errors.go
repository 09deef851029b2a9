package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у бизнеса
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceNotAvailable возвращается, когда услуга выключена из бронирования
	ErrServiceNotAvailable = errors.New("create_booking: service is not available for booking")

	// ErrTeamMemberNotFound возвращается, когда сотрудник не найден или неактивен
	ErrTeamMemberNotFound = errors.New("create_booking: team member not found")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	// или за горизонтом записи бизнеса
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrBusinessClosed возвращается, когда у ресурса нет открытого правила на этот день
	ErrBusinessClosed = errors.New("create_booking: business is closed on this date")

	// ErrSlotConflict возвращается, когда слот занят конкурирующим бронированием
	// или перекрыт блокировкой времени. Клиенту следует перечитать доступность
	// и выбрать другое время
	ErrSlotConflict = errors.New("create_booking: slot conflict")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с сеткой слотов
	// или услуга не помещается в рабочее окно
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается при попытке забронировать прошедшее
	// время сегодня или время внутри минимального интервала до записи
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
