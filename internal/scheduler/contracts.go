package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentLifecycle интерфейс перевода записи в завершенное состояние
// Реализация сама проверяет актуальность статуса на момент срабатывания
type AppointmentLifecycle interface {
	Complete(ctx context.Context, appointmentID int64) error
}

// AppointmentSource интерфейс выборки записей для восстановления таймеров
type AppointmentSource interface {
	GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
