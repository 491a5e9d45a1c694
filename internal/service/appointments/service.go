package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Service сервис жизненного цикла записей
type Service struct {
	appointmentRepo AppointmentRepository
	scheduler       CompletionScheduler
	notifyClient    NotificationClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduler CompletionScheduler,
	notifyClient NotificationClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduler:       scheduler,
		notifyClient:    notifyClient,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - запись видят только её клиент и её сотрудник
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if appt.CustomerID != userID && appt.EmployeeID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	domainStatus, err := toOptionalStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
		return nil, ErrInvalidStatus
	}

	appts, err := s.appointmentRepo.GetByCustomer(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d", len(appts), req.CustomerID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetEmployeeAppointments получает записи сотрудника
// Опционально фильтрует по статусу
func (s *Service) GetEmployeeAppointments(ctx context.Context, req *models.GetEmployeeAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetEmployeeAppointments: fetching appointments for employee=%d, status=%v", req.EmployeeID, req.Status)

	domainStatus, err := toOptionalStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetEmployeeAppointments: invalid status=%s for employee=%d", *req.Status, req.EmployeeID)
		return nil, ErrInvalidStatus
	}

	appts, err := s.appointmentRepo.GetByEmployee(ctx, req.EmployeeID, domainStatus)
	if err != nil {
		s.logger.Error("GetEmployeeAppointments: repository error for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: GetEmployeeAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEmployeeAppointments: successfully fetched %d appointments for employee=%d", len(appts), req.EmployeeID)
	return models.FromDomainAppointmentList(appts), nil
}

// UpdateStatus обновляет статус записи
// При переводе в scheduled таймер завершения взводится ДО сохранения статуса,
// при переводе в cancelled таймер снимается ДО сохранения - запись не может
// оказаться подтвержденной без таймера
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", appointmentID, req.Status)

	// 1. Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, ErrInvalidStatus
	}

	// 2. Получаем текущее состояние записи
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// 3. Управляем таймером завершения до сохранения нового статуса
	if newStatus == domain.StatusScheduled && appt.Status != domain.StatusScheduled {
		s.scheduler.Arm(appt)
	}
	if newStatus == domain.StatusCancelled && appt.Status != domain.StatusCancelled {
		s.scheduler.Disarm(appointmentID)
	}

	// 4. Сохраняем новый статус
	updated, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// 5. Уведомляем клиента о смене статуса
	s.notifyStatusChange(ctx, updated)

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return models.FromDomainAppointment(updated), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись и только в статусе pending или scheduled
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	// 1. Получаем запись клиента
	appt, err := s.appointmentRepo.GetByIDAndCustomer(ctx, appointmentID, req.UserID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found for user=%d", appointmentID, req.UserID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// 2. Проверяем, можно ли отменить запись
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return nil, ErrCannotCancel
	}

	// 3. Снимаем таймер завершения до сохранения статуса
	s.scheduler.Disarm(appointmentID)

	// 4. Сохраняем статус cancelled
	updated, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusCancelled)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// 5. Уведомляем клиента об отмене
	s.notifyStatusChange(ctx, updated)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return models.FromDomainAppointment(updated), nil
}

// Complete переводит запись в статус completed по срабатыванию таймера
// Если к моменту срабатывания запись уже не scheduled (отменена или
// завершена вручную), переход не выполняется
func (s *Service) Complete(ctx context.Context, appointmentID int64) error {
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if appt.Status != domain.StatusScheduled {
		s.logger.Info("Complete: appointment id=%d is %s, skipping completion", appointmentID, appt.Status)
		return nil
	}

	updated, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusCompleted)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.notifyStatusChange(ctx, updated)

	s.logger.Info("Complete: successfully completed appointment id=%d", appointmentID)
	return nil
}

// Вспомогательные методы

// notifyStatusChange отправляет клиенту уведомление о смене статуса записи
// Уведомления не критичны: ошибка логируется и не прерывает операцию
func (s *Service) notifyStatusChange(ctx context.Context, appt *domain.Appointment) {
	kind, message, ok := notificationFor(appt)
	if !ok {
		return
	}

	if err := s.notifyClient.Notify(ctx, appt.CustomerID, kind, message); err != nil {
		s.logger.Error("notifyStatusChange: failed to notify user=%d about appointment id=%d: %v",
			appt.CustomerID, appt.ID, err)
	}
}

// notificationFor подбирает тип и текст уведомления по статусу записи
func notificationFor(appt *domain.Appointment) (notifyservice.NotificationKind, string, bool) {
	switch appt.Status {
	case domain.StatusScheduled:
		return notifyservice.KindAccept,
			fmt.Sprintf("Ваша запись №%d подтверждена на %s", appt.ID, appt.StartAt.Format("02.01.2006 15:04")), true
	case domain.StatusRejected:
		return notifyservice.KindReject,
			fmt.Sprintf("Ваша запись №%d отклонена", appt.ID), true
	case domain.StatusCancelled:
		return notifyservice.KindCancelled,
			fmt.Sprintf("Ваша запись №%d отменена", appt.ID), true
	case domain.StatusCompleted:
		return notifyservice.KindExecuted,
			fmt.Sprintf("Ваша запись №%d выполнена", appt.ID), true
	default:
		return "", "", false
	}
}

// toOptionalStatus конвертирует опциональный строковый статус в domain
func toOptionalStatus(status *string) (*domain.AppointmentStatus, error) {
	if status == nil {
		return nil, nil
	}
	parsed, err := models.ToDomainAppointmentStatus(*status)
	if err != nil {
		return nil, err
	}
	return ptr.Ptr(parsed), nil
}
