package appointments

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error)
	GetByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByEmployee(ctx context.Context, employeeID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error)
}

// CompletionScheduler интерфейс планировщика завершения записей
// Arm ставит одноразовый таймер на время начала записи,
// Disarm снимает еще не сработавший таймер
type CompletionScheduler interface {
	Arm(appt *domain.Appointment)
	Disarm(appointmentID int64)
}

// NotificationClient интерфейс клиента сервиса уведомлений
type NotificationClient interface {
	Notify(ctx context.Context, userID int64, kind notifyservice.NotificationKind, message string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
