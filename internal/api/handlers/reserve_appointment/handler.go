package reserve_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	reserveAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reserve_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgServiceNotFound    = "услуга не найдена"
	msgHoliday            = "запись на праздничный день недоступна"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotConflict       = "выбранный временной слот уже занят"
	msgNoEmployee         = "на выбранное время нет свободного сотрудника"
	msgInvalidInput       = "некорректные параметры запроса"
)

type Handler struct {
	useCase ReserveAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ReserveAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReserveAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to reserve: customer_id=%d, service_id=%d, error=%v",
				customerID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Бизнес-отказы приходят в структурированном виде, не ошибкой
	if !result.Success {
		h.respondFailure(w, result, customerID, req.ServiceID)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, customer_id=%d, employee_id=%d",
		result.AppointmentID, customerID, result.EmployeeID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// respondFailure маппит категорию отказа на HTTP статус
func (h *Handler) respondFailure(w http.ResponseWriter, result *reserveAppointment.Response, customerID, serviceID int64) {
	h.logger.Warn("POST /appointments - Reservation rejected: customer_id=%d, service_id=%d, kind=%s, reason=%s",
		customerID, serviceID, result.FailureKind, result.Reason)

	switch result.FailureKind {
	case reserveAppointment.FailureNotFound:
		handlers.RespondNotFound(w, msgServiceNotFound)

	case reserveAppointment.FailureInvalid:
		handlers.RespondBadRequest(w, msgHoliday)

	case reserveAppointment.FailureConflict:
		switch result.Reason {
		case reserveAppointment.ReasonSlotConflict:
			handlers.RespondConflict(w, msgSlotConflict)
		case reserveAppointment.ReasonNoEmployeeAssigned:
			handlers.RespondConflict(w, msgNoEmployee)
		default:
			handlers.RespondConflict(w, msgSlotNotAvailable)
		}

	default:
		handlers.RespondInternalError(w)
	}
}
