package reserve_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case для бронирования записи на услугу
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	holidayLookup   HolidayLookup
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	holidayLookup HolidayLookup,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		holidayLookup:   holidayLookup,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case бронирования
// Пересчет доступности, проверка занятости и вставка выполняются в
// сериализуемой транзакции: два конкурентных бронирования одного слота
// не могут пройти проверку одновременно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Reserve: service=%d, customer=%d, start=%s",
		req.ServiceID, req.CustomerID, req.StartAt.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("Reserve: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("Reserve: service id=%d not found", req.ServiceID)
			return failure(FailureNotFound, ReasonServiceNotFound), nil
		}
		uc.logger.Error("Reserve: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	// 3. Проверяем, что дата не праздничная
	isHoliday, err := uc.holidayLookup.IsHoliday(ctx, req.StartAt)
	if err != nil {
		uc.logger.Error("Reserve: failed to check holiday: %v", err)
		return nil, fmt.Errorf("%w: failed to check holiday: %w", ErrInternal, err)
	}
	if isHoliday {
		uc.logger.Warn("Reserve: date %s is a holiday", req.StartAt.Format(domain.DateFormat))
		return failure(FailureInvalid, ReasonHoliday), nil
	}

	var result *Response

	// 4. Пересчет доступности, повторная проверка занятости и вставка
	// выполняются атомарно в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем сотрудников, оказывающих услугу
		// Окна могут содержать и посторонних сотрудников, запись должна
		// достаться только привязанному к услуге
		serviceEmployees, err := uc.catalogRepo.GetServiceEmployees(txCtx, req.ServiceID)
		if err != nil {
			uc.logger.Error("Reserve: failed to get service employees: %v", err)
			return fmt.Errorf("%w: failed to get service employees: %w", ErrInternal, err)
		}
		if len(serviceEmployees) == 0 {
			uc.logger.Warn("Reserve: service id=%d has no employees", req.ServiceID)
			result = failure(FailureConflict, ReasonNoEmployeeAssigned)
			return nil
		}
		qualified := domain.EmployeeSet(serviceEmployees)

		// 4.2. Получаем рабочие окна и активные записи по услуге
		windows, err := uc.catalogRepo.GetWorkingWindows(txCtx, req.ServiceID, req.StartAt.Weekday())
		if err != nil {
			uc.logger.Error("Reserve: failed to get working windows: %v", err)
			return fmt.Errorf("%w: failed to get working windows: %w", ErrInternal, err)
		}

		appointments, err := uc.appointmentRepo.GetByServiceAndDate(txCtx, req.ServiceID, req.StartAt, false)
		if err != nil {
			uc.logger.Error("Reserve: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 4.3. Пересчитываем доступные слоты на дату запроса
		slots, err := computeAvailableSlots(windows, req.StartAt, service.Duration(), appointments, qualified)
		if err != nil {
			uc.logger.Error("Reserve: failed to compute slots: %v", err)
			return fmt.Errorf("%w: failed to compute slots: %w", ErrInternal, err)
		}

		// 4.4. Запрошенное время должно точно совпадать с началом слота
		// Сотрудник берется из совпавшего слота
		slot, ok := findMatchingSlot(slots, req.StartAt)
		if !ok {
			uc.logger.Warn("Reserve: no exact slot match for service=%d at %s",
				req.ServiceID, req.StartAt.Format("15:04"))
			result = failure(FailureConflict, ReasonSlotNotAvailable)
			return nil
		}

		// 4.5. Повторная проверка занятости сотрудника, включая PENDING записи
		// Шаги 4.3-4.4 уже подразумевают доступность, но между вычислением
		// и вставкой могло появиться новое бронирование
		requestedEnd := req.StartAt.Add(service.Duration())

		employeeAppts, err := uc.appointmentRepo.GetByEmployeeAndDate(txCtx, slot.EmployeeID, req.StartAt, false)
		if err != nil {
			uc.logger.Error("Reserve: failed to get employee appointments: %v", err)
			return fmt.Errorf("%w: failed to get employee appointments: %w", ErrInternal, err)
		}

		if hasOverlap(employeeAppts, req.StartAt, requestedEnd) {
			uc.logger.Warn("Reserve: slot conflict for employee=%d at %s",
				slot.EmployeeID, req.StartAt.Format("15:04"))
			result = failure(FailureConflict, ReasonSlotConflict)
			return nil
		}

		// 4.6. Создаем запись в статусе PENDING
		appt := &domain.Appointment{
			CustomerID: req.CustomerID,
			EmployeeID: slot.EmployeeID,
			ServiceID:  req.ServiceID,
			StartAt:    req.StartAt,
			EndAt:      requestedEnd,
			Status:     domain.StatusPending,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("Reserve: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = &Response{
			Success:       true,
			AppointmentID: created.ID,
			EmployeeID:    created.EmployeeID,
			StartAt:       created.StartAt,
			EndAt:         created.EndAt,
			Status:        string(created.Status),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if result.Success {
		uc.logger.Info("Reserve: successfully created appointment id=%d, employee=%d",
			result.AppointmentID, result.EmployeeID)
	}

	return result, nil
}
