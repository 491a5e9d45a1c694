package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusRejected  AppointmentStatus = "rejected"
)

// Appointment represents a reserved time interval with an employee for a service
// Associations are foreign-key identifiers; related entities are fetched by id
type Appointment struct {
	ID         int64
	CustomerID int64
	EmployeeID int64
	ServiceID  int64
	StartAt    time.Time
	EndAt      time.Time // StartAt + длительность услуги
	Status     AppointmentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still owns its time interval
// Отмененные и отклоненные записи интервал не занимают
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusRejected
}

// IsScheduled returns true if the appointment is accepted and waiting for its start time
func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusScheduled
}

// IsTerminal returns true if no further transitions are expected
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusRejected
}

// Overlaps returns true if the appointment interval overlaps [start, end)
// Интервалы полуоткрытые: соприкасающиеся границы пересечением не считаются
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && a.EndAt.After(start)
}
