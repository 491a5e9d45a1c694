package domain

import "time"

// Slot represents a candidate bookable interval of exactly one service duration
// Вычисляется на лету и нигде не сохраняется
type Slot struct {
	StartAt    time.Time
	EndAt      time.Time
	EmployeeID int64
}

// Matches returns true if the slot starts exactly at the given time
// Бронирование требует точного совпадения начала слота
func (s *Slot) Matches(start time.Time) bool {
	return s.StartAt.Equal(start)
}
