package reserve_appointment

import "time"

// FailureKind категория отказа в бронировании
type FailureKind string

const (
	// FailureNotFound услуга не найдена
	FailureNotFound FailureKind = "not_found"

	// FailureInvalid запрошенная дата не подходит для бронирования (праздник)
	FailureInvalid FailureKind = "invalid"

	// FailureConflict слот занят или время не совпадает с началом слота
	FailureConflict FailureKind = "conflict"
)

// Причины отказа, возвращаемые клиенту
const (
	ReasonServiceNotFound    = "service not found"
	ReasonHoliday            = "cannot book appointment on a holiday"
	ReasonSlotNotAvailable   = "requested time slot is not available or does not match an exact available slot"
	ReasonSlotConflict       = "requested time slot conflicts with an existing appointment (including pending ones)"
	ReasonNoEmployeeAssigned = "no employee assigned to the requested time slot"
)

// Request модель запроса на бронирование
type Request struct {
	ServiceID  int64     // ID услуги
	CustomerID int64     // ID клиента
	StartAt    time.Time // Запрошенное время начала (должно точно совпадать с началом слота)
}

// Response структурированный результат бронирования
// Бизнес-отказы возвращаются здесь, а не ошибкой: вызывающая сторона
// маппит их в ответ пользователю без обработки исключительных ситуаций
type Response struct {
	Success     bool
	FailureKind FailureKind // заполнено только при Success=false
	Reason      string      // человекочитаемая причина отказа

	AppointmentID int64     // ID созданной записи (при успехе)
	EmployeeID    int64     // ID назначенного сотрудника (при успехе)
	StartAt       time.Time // Начало записи (при успехе)
	EndAt         time.Time // Конец записи (при успехе)
	Status        string    // Статус созданной записи (при успехе)
}

func failure(kind FailureKind, reason string) *Response {
	return &Response{
		Success:     false,
		FailureKind: kind,
		Reason:      reason,
	}
}
