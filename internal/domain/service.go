package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service represents a bookable service with a fixed duration
// Управляется внешней административной частью, здесь только читается
type Service struct {
	ID              int64
	Name            string
	Cost            float64
	DurationMinutes int
}

// Duration returns the service duration as time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// WorkingWindow represents recurring weekday hours during which
// one or more employees are available for the services they provide
type WorkingWindow struct {
	ID          int64
	DayOfWeek   time.Weekday
	StartTime   types.TimeString
	EndTime     types.TimeString
	EmployeeIDs []int64
}

// FirstQualifiedEmployee returns the first employee of the window that
// belongs to the qualified set
// Окно может содержать сотрудников, не оказывающих запрошенную услугу:
// календарь выдает слоты окна от имени первого подходящего сотрудника
func (w *WorkingWindow) FirstQualifiedEmployee(qualified map[int64]struct{}) (int64, bool) {
	for _, id := range w.EmployeeIDs {
		if _, ok := qualified[id]; ok {
			return id, true
		}
	}
	return 0, false
}

// EmployeeSet строит множество сотрудников для проверки вхождения
func EmployeeSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Holiday represents a date on which no reservation may start
type Holiday struct {
	ID   int64
	Date time.Time
	Name string
}
