package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fixedClock отдает заранее заданное время
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type lifecycleMock struct {
	mu        sync.Mutex
	completed []int64
	fired     chan int64
}

func newLifecycleMock() *lifecycleMock {
	return &lifecycleMock{fired: make(chan int64, 16)}
}

func (l *lifecycleMock) Complete(ctx context.Context, appointmentID int64) error {
	l.mu.Lock()
	l.completed = append(l.completed, appointmentID)
	l.mu.Unlock()
	l.fired <- appointmentID
	return nil
}

func (l *lifecycleMock) completedIDs() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int64(nil), l.completed...)
}

type sourceMock struct {
	appointments []*domain.Appointment
}

func (s *sourceMock) GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return s.appointments, nil
}

func waitForCompletion(t *testing.T, lifecycle *lifecycleMock) int64 {
	t.Helper()
	select {
	case id := <-lifecycle.fired:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion")
		return 0
	}
}

func requireNoCompletion(t *testing.T, lifecycle *lifecycleMock, within time.Duration) {
	t.Helper()
	select {
	case id := <-lifecycle.fired:
		t.Fatalf("unexpected completion of appointment id=%d", id)
	case <-time.After(within):
	}
}

func scheduledAppointment(id int64, startAt time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:      id,
		StartAt: startAt,
		EndAt:   startAt.Add(30 * time.Minute),
		Status:  domain.StatusScheduled,
	}
}

func newTestScheduler(lifecycle AppointmentLifecycle, source AppointmentSource, clock TimeProvider) *Scheduler {
	s := New(source, clock, nopLogger{}, nil, "test", 4, time.Hour)
	s.SetLifecycle(lifecycle)
	return s
}

func TestArm_PastStartCompletesImmediately(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	lifecycle := newLifecycleMock()
	s := newTestScheduler(lifecycle, &sourceMock{}, fixedClock{now: now})
	defer s.Stop()

	s.Arm(scheduledAppointment(1, now.Add(-time.Hour)))

	require.Equal(t, int64(1), waitForCompletion(t, lifecycle))
}

func TestDisarm_PreventsCompletion(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	lifecycle := newLifecycleMock()
	s := newTestScheduler(lifecycle, &sourceMock{}, fixedClock{now: now})
	defer s.Stop()

	s.Arm(scheduledAppointment(1, now.Add(50*time.Millisecond)))
	s.Disarm(1)

	requireNoCompletion(t, lifecycle, 300*time.Millisecond)
	require.Empty(t, lifecycle.completedIDs())
}

func TestDisarm_UnknownAppointmentIsNoop(t *testing.T) {
	lifecycle := newLifecycleMock()
	s := newTestScheduler(lifecycle, &sourceMock{}, fixedClock{now: time.Now()})
	defer s.Stop()

	s.Disarm(42)
}

func TestArm_ReplacesExistingTimer(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	lifecycle := newLifecycleMock()
	s := newTestScheduler(lifecycle, &sourceMock{}, fixedClock{now: now})
	defer s.Stop()

	// Первый таймер далеко в будущем, повторный Arm заменяет его
	s.Arm(scheduledAppointment(1, now.Add(time.Hour)))
	s.Arm(scheduledAppointment(1, now.Add(-time.Minute)))

	require.Equal(t, int64(1), waitForCompletion(t, lifecycle))
	requireNoCompletion(t, lifecycle, 200*time.Millisecond)
	require.Equal(t, []int64{1}, lifecycle.completedIDs())
}

func TestStart_RearmsScheduledAppointments(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	lifecycle := newLifecycleMock()
	source := &sourceMock{appointments: []*domain.Appointment{
		scheduledAppointment(1, now.Add(-time.Hour)),
		scheduledAppointment(2, now.Add(-time.Minute)),
	}}

	s := newTestScheduler(lifecycle, source, fixedClock{now: now})
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))

	first := waitForCompletion(t, lifecycle)
	second := waitForCompletion(t, lifecycle)
	require.ElementsMatch(t, []int64{1, 2}, []int64{first, second})
}

func TestStop_CancelsArmedTimers(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	lifecycle := newLifecycleMock()
	s := newTestScheduler(lifecycle, &sourceMock{}, fixedClock{now: now})

	s.Arm(scheduledAppointment(1, now.Add(50*time.Millisecond)))
	s.Stop()

	requireNoCompletion(t, lifecycle, 300*time.Millisecond)
}
