package reserve_appointment

import (
	"time"

	reserveAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reserve_appointment"
)

// ReserveAppointmentRequest HTTP request model
type ReserveAppointmentRequest struct {
	ServiceID int64  `json:"serviceId"`
	StartAt   string `json:"startAt"` // RFC3339
}

// AppointmentCreatedResponse HTTP response model
type AppointmentCreatedResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employeeId"`
	StartAt    string `json:"startAt"` // RFC3339
	EndAt      string `json:"endAt"`   // RFC3339
	Status     string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// customerID берется из авторизационного контекста, а не из тела запроса
func (r *ReserveAppointmentRequest) ToUseCaseRequest(customerID int64) (*reserveAppointment.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &reserveAppointment.Request{
		ServiceID:  r.ServiceID,
		CustomerID: customerID,
		StartAt:    startAt,
	}, nil
}

// FromUseCaseResponse конвертирует успешный ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveAppointment.Response) *AppointmentCreatedResponse {
	return &AppointmentCreatedResponse{
		ID:         resp.AppointmentID,
		EmployeeID: resp.EmployeeID,
		StartAt:    resp.StartAt.Format(time.RFC3339),
		EndAt:      resp.EndAt.Format(time.RFC3339),
		Status:     resp.Status,
	}
}
