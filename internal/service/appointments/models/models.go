package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID int64 `json:"userId"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetCustomerAppointmentsRequest запрос на получение записей клиента
type GetCustomerAppointmentsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// GetEmployeeAppointmentsRequest запрос на получение записей сотрудника
type GetEmployeeAppointmentsRequest struct {
	EmployeeID int64   `json:"employeeId"`
	Status     *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	EmployeeID int64  `json:"employeeId"`
	ServiceID  int64  `json:"serviceId"`
	StartAt    string `json:"startAt"` // RFC3339
	EndAt      string `json:"endAt"`   // RFC3339
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// Конвертеры

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         appt.ID,
		CustomerID: appt.CustomerID,
		EmployeeID: appt.EmployeeID,
		ServiceID:  appt.ServiceID,
		StartAt:    appt.StartAt.Format(time.RFC3339),
		EndAt:      appt.EndAt.Format(time.RFC3339),
		Status:     string(appt.Status),
		CreatedAt:  appt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  appt.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	items := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		items = append(items, *FromDomainAppointment(appt))
	}
	return &AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return parsed, nil
}
