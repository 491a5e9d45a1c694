package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByServiceAndDate получает записи по услуге на дату
	GetByServiceAndDate(ctx context.Context, serviceID int64, date time.Time, includeInactive bool) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс репозитория каталога услуг и рабочих окон
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetWorkingWindows(ctx context.Context, serviceID int64, dayOfWeek time.Weekday) ([]*domain.WorkingWindow, error)
	GetServiceEmployees(ctx context.Context, serviceID int64) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
