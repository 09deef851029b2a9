package confirm_modification

import "errors"

var (
	// ErrTokenNotFound возвращается на неизвестный, использованный или
	// некорректный токен. Единый ответ, чтобы не раскрывать существование токенов
	ErrTokenNotFound = errors.New("confirm_modification: modification token not found")

	// ErrTokenExpired возвращается на протухший токен. Бронирование при этом
	// не меняется и остается в modification_pending до очистки воркером
	ErrTokenExpired = errors.New("confirm_modification: modification token expired")

	// ErrSlotConflict возвращается, когда предложенное время успело занять
	// конкурирующее бронирование или блокировка
	ErrSlotConflict = errors.New("confirm_modification: slot conflict")

	// ErrBusinessClosed возвращается, когда ресурс закрыт в предложенную дату
	ErrBusinessClosed = errors.New("confirm_modification: business is closed on this date")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_modification: internal error")
)
