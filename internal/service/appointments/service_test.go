package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type repoMock struct {
	getByID            func(ctx context.Context, id int64) (*domain.Appointment, error)
	getByIDAndCustomer func(ctx context.Context, id, customerID int64) (*domain.Appointment, error)
	getByCustomer      func(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	getByEmployee      func(ctx context.Context, employeeID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	getByStatus        func(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error)
	updateStatus       func(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error)
}

func (m *repoMock) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return m.getByID(ctx, id)
}

func (m *repoMock) GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error) {
	return m.getByIDAndCustomer(ctx, id, customerID)
}

func (m *repoMock) GetByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return m.getByCustomer(ctx, customerID, status)
}

func (m *repoMock) GetByEmployee(ctx context.Context, employeeID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return m.getByEmployee(ctx, employeeID, status)
}

func (m *repoMock) GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return m.getByStatus(ctx, status)
}

func (m *repoMock) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	return m.updateStatus(ctx, id, status)
}

// schedulerRecorder записывает порядок вызовов Arm/Disarm
type schedulerRecorder struct {
	calls    []string
	armed    []int64
	disarmed []int64
}

func (s *schedulerRecorder) Arm(appt *domain.Appointment) {
	s.calls = append(s.calls, "arm")
	s.armed = append(s.armed, appt.ID)
}

func (s *schedulerRecorder) Disarm(appointmentID int64) {
	s.calls = append(s.calls, "disarm")
	s.disarmed = append(s.disarmed, appointmentID)
}

type notifyRecorder struct {
	kinds []notifyservice.NotificationKind
	users []int64
	err   error
}

func (n *notifyRecorder) Notify(ctx context.Context, userID int64, kind notifyservice.NotificationKind, message string) error {
	n.kinds = append(n.kinds, kind)
	n.users = append(n.users, userID)
	return n.err
}

func fixtureAppointment(status domain.AppointmentStatus) *domain.Appointment {
	start := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:         1,
		CustomerID: 5,
		EmployeeID: 7,
		ServiceID:  3,
		StartAt:    start,
		EndAt:      start.Add(30 * time.Minute),
		Status:     status,
	}
}

func fixtureRepo(current *domain.Appointment) *repoMock {
	return &repoMock{
		getByID: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			if current == nil || current.ID != id {
				return nil, appointmentRepo.ErrAppointmentNotFound
			}
			return current, nil
		},
		getByIDAndCustomer: func(ctx context.Context, id, customerID int64) (*domain.Appointment, error) {
			if current == nil || current.ID != id || current.CustomerID != customerID {
				return nil, appointmentRepo.ErrAppointmentNotFound
			}
			return current, nil
		},
		updateStatus: func(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
			updated := *current
			updated.Status = status
			return &updated, nil
		},
	}
}

func TestUpdateStatus_ToScheduledArmsAndNotifies(t *testing.T) {
	current := fixtureAppointment(domain.StatusPending)
	repo := fixtureRepo(current)

	sched := &schedulerRecorder{}
	notify := &notifyRecorder{}
	svc := NewService(repo, sched, notify, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	require.NoError(t, err)
	require.Equal(t, "scheduled", resp.Status)

	require.Equal(t, []int64{1}, sched.armed)
	require.Empty(t, sched.disarmed)
	require.Equal(t, []notifyservice.NotificationKind{notifyservice.KindAccept}, notify.kinds)
	require.Equal(t, []int64{5}, notify.users)
}

func TestUpdateStatus_ArmHappensBeforePersist(t *testing.T) {
	current := fixtureAppointment(domain.StatusPending)
	repo := fixtureRepo(current)

	var order []string
	baseUpdate := repo.updateStatus
	repo.updateStatus = func(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
		order = append(order, "persist")
		return baseUpdate(ctx, id, status)
	}

	sched := &orderedScheduler{order: &order}
	svc := NewService(repo, sched, &notifyRecorder{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	require.NoError(t, err)
	require.Equal(t, []string{"arm", "persist"}, order)
}

type orderedScheduler struct {
	order *[]string
}

func (s *orderedScheduler) Arm(appt *domain.Appointment) {
	*s.order = append(*s.order, "arm")
}

func (s *orderedScheduler) Disarm(appointmentID int64) {
	*s.order = append(*s.order, "disarm")
}

func TestUpdateStatus_AlreadyScheduledDoesNotRearm(t *testing.T) {
	current := fixtureAppointment(domain.StatusScheduled)
	repo := fixtureRepo(current)
	sched := &schedulerRecorder{}

	svc := NewService(repo, sched, &notifyRecorder{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	require.NoError(t, err)
	require.Empty(t, sched.armed)
}

func TestUpdateStatus_ToCancelledDisarms(t *testing.T) {
	current := fixtureAppointment(domain.StatusScheduled)
	repo := fixtureRepo(current)
	sched := &schedulerRecorder{}
	notify := &notifyRecorder{}

	svc := NewService(repo, sched, notify, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	require.Equal(t, "cancelled", resp.Status)

	require.Equal(t, []int64{1}, sched.disarmed)
	require.Empty(t, sched.armed)
	require.Equal(t, []notifyservice.NotificationKind{notifyservice.KindCancelled}, notify.kinds)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewService(fixtureRepo(fixtureAppointment(domain.StatusPending)), &schedulerRecorder{}, &notifyRecorder{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := NewService(fixtureRepo(nil), &schedulerRecorder{}, &notifyRecorder{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus_NotificationFailureIsSwallowed(t *testing.T) {
	current := fixtureAppointment(domain.StatusPending)
	notify := &notifyRecorder{err: errors.New("notify service down")}

	svc := NewService(fixtureRepo(current), &schedulerRecorder{}, notify, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "rejected"})
	require.NoError(t, err)
	require.Equal(t, "rejected", resp.Status)
	require.Equal(t, []notifyservice.NotificationKind{notifyservice.KindReject}, notify.kinds)
}

func TestCancel_Success(t *testing.T) {
	current := fixtureAppointment(domain.StatusScheduled)
	sched := &schedulerRecorder{}
	notify := &notifyRecorder{}

	svc := NewService(fixtureRepo(current), sched, notify, nopLogger{})

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	require.NoError(t, err)
	require.Equal(t, "cancelled", resp.Status)

	require.Equal(t, []int64{1}, sched.disarmed)
	require.Equal(t, []notifyservice.NotificationKind{notifyservice.KindCancelled}, notify.kinds)
}

func TestCancel_ForeignAppointmentNotFound(t *testing.T) {
	current := fixtureAppointment(domain.StatusScheduled)
	svc := NewService(fixtureRepo(current), &schedulerRecorder{}, &notifyRecorder{}, nopLogger{})

	// Чужой клиент не видит запись
	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 99})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_CompletedCannotBeCancelled(t *testing.T) {
	current := fixtureAppointment(domain.StatusCompleted)
	sched := &schedulerRecorder{}

	svc := NewService(fixtureRepo(current), sched, &notifyRecorder{}, nopLogger{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	require.ErrorIs(t, err, ErrCannotCancel)
	require.Empty(t, sched.disarmed)
}

func TestComplete_TransitionsScheduledToCompleted(t *testing.T) {
	current := fixtureAppointment(domain.StatusScheduled)
	notify := &notifyRecorder{}

	var persisted []domain.AppointmentStatus
	repo := fixtureRepo(current)
	baseUpdate := repo.updateStatus
	repo.updateStatus = func(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
		persisted = append(persisted, status)
		return baseUpdate(ctx, id, status)
	}

	svc := NewService(repo, &schedulerRecorder{}, notify, nopLogger{})

	err := svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []domain.AppointmentStatus{domain.StatusCompleted}, persisted)
	require.Equal(t, []notifyservice.NotificationKind{notifyservice.KindExecuted}, notify.kinds)
}

func TestComplete_SkipsStaleAppointment(t *testing.T) {
	// Запись отменили до срабатывания таймера: завершение не выполняется
	current := fixtureAppointment(domain.StatusCancelled)
	notify := &notifyRecorder{}

	var persisted []domain.AppointmentStatus
	repo := fixtureRepo(current)
	repo.updateStatus = func(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
		persisted = append(persisted, status)
		return nil, errors.New("must not be called")
	}

	svc := NewService(repo, &schedulerRecorder{}, notify, nopLogger{})

	err := svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, persisted)
	require.Empty(t, notify.kinds)
}

func TestGetByID_AccessControl(t *testing.T) {
	current := fixtureAppointment(domain.StatusScheduled)
	svc := NewService(fixtureRepo(current), &schedulerRecorder{}, &notifyRecorder{}, nopLogger{})

	// Клиент видит свою запись
	resp, err := svc.GetByID(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.ID)

	// Сотрудник видит свою запись
	_, err = svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)

	// Посторонний пользователь получает отказ
	_, err = svc.GetByID(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetCustomerAppointments_InvalidStatus(t *testing.T) {
	svc := NewService(&repoMock{}, &schedulerRecorder{}, &notifyRecorder{}, nopLogger{})

	bad := "confirmed"
	_, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 5,
		Status:     &bad,
	})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetCustomerAppointments_PassesStatusFilter(t *testing.T) {
	var gotStatus *domain.AppointmentStatus
	repo := &repoMock{
		getByCustomer: func(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
			gotStatus = status
			return []*domain.Appointment{fixtureAppointment(domain.StatusScheduled)}, nil
		},
	}

	svc := NewService(repo, &schedulerRecorder{}, &notifyRecorder{}, nopLogger{})

	filter := "scheduled"
	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 5,
		Status:     &filter,
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	require.NotNil(t, gotStatus)
	require.Equal(t, domain.StatusScheduled, *gotStatus)
}
