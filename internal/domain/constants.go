package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
)

// InactiveStatuses статусы записей, которые не занимают свой интервал
// Используются при фильтрации занятости сотрудника
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusRejected,
}

// ValidStatuses полный набор допустимых статусов записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusScheduled,
	StatusCancelled,
	StatusCompleted,
	StatusRejected,
}

// ParseStatus конвертирует строку в AppointmentStatus с валидацией
func ParseStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	for _, valid := range ValidStatuses {
		if status == valid {
			return status, true
		}
	}
	return "", false
}
