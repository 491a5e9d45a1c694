package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Несуществующая услуга дает пустой результат, а не ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	emptyResponse := &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     []domain.Slot{},
	}

	// 2. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Info("GetAvailableSlots: service id=%d not found, returning empty slots", req.ServiceID)
			return emptyResponse, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if service.DurationMinutes <= 0 {
		uc.logger.Warn("GetAvailableSlots: service id=%d has non-positive duration", req.ServiceID)
		return emptyResponse, nil
	}

	// 3. Получаем сотрудников, оказывающих услугу
	// Окна фильтруются по пересечению с этим множеством, поэтому окно
	// может содержать и посторонних сотрудников
	serviceEmployees, err := uc.catalogRepo.GetServiceEmployees(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get service employees: %v", err)
		return nil, fmt.Errorf("%w: failed to get service employees: %w", ErrInternal, err)
	}

	if len(serviceEmployees) == 0 {
		uc.logger.Info("GetAvailableSlots: service id=%d has no employees", req.ServiceID)
		return emptyResponse, nil
	}
	qualified := domain.EmployeeSet(serviceEmployees)

	// 4. Получаем рабочие окна на день недели запрошенной даты
	windows, err := uc.catalogRepo.GetWorkingWindows(ctx, req.ServiceID, req.Date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get working windows: %v", err)
		return nil, fmt.Errorf("%w: failed to get working windows: %w", ErrInternal, err)
	}

	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no working windows for service=%d on %s",
			req.ServiceID, req.Date.Weekday())
		return emptyResponse, nil
	}

	// 5. Получаем активные записи по услуге на эту дату
	// Отмененные и отклоненные записи слоты не занимают
	appointments, err := uc.appointmentRepo.GetByServiceAndDate(ctx, req.ServiceID, req.Date, false)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	// 6. Обходим каждое рабочее окно и собираем слоты
	slots := make([]domain.Slot, 0)
	for _, window := range windows {
		windowSlots, err := calculateWindowSlots(window, req.Date, service.Duration(), appointments, qualified)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to calculate slots for window id=%d: %v",
				window.ID, err)
			return nil, fmt.Errorf("%w: failed to calculate slots: %w", ErrInternal, err)
		}
		slots = append(slots, windowSlots...)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     slots,
	}, nil
}
