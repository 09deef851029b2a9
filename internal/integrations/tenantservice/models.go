package tenantservice

// Business модель бизнеса из справочника тенантов
type Business struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OwnerEmail string `json:"owner_email"`
	Timezone   string `json:"timezone"`
	Tier       string `json:"tier"` // free, starter, pro
	IsActive   bool   `json:"is_active"`

	// Capabilities - фичи, разрешённые тарифом тенанта.
	// Проверяются на границе API, а не внутри движка конфликтов.
	Capabilities Capabilities `json:"capabilities"`

	// Settings настройки окна записи, задаются самим бизнесом
	Settings BookingSettings `json:"booking_settings"`
}

// BookingSettings ограничения на время создания записи
type BookingSettings struct {
	// MinNoticeMinutes минимальный интервал от текущего момента до начала
	// записи; 0 = можно записываться впритык
	MinNoticeMinutes int `json:"min_notice_minutes"`
	// AdvanceBookingDays горизонт записи вперед в днях; 0 = без ограничения
	AdvanceBookingDays int `json:"advance_booking_days"`
}

// Capabilities тарифные ограничения бизнеса
type Capabilities struct {
	// MaxBlockDays максимальная длительность блокировки времени в днях;
	// 0 = блокировки недоступны на тарифе
	MaxBlockDays int `json:"max_block_days"`
	// MaxTeamMembers максимум сотрудников; 0 = без командных бронирований
	MaxTeamMembers int `json:"max_team_members"`
}

// ErrorResponse модель ошибки от справочника тенантов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
