package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// completeTimeout ограничивает время одного перевода записи в completed
const completeTimeout = 30 * time.Second

// Scheduler планировщик завершения записей
// Держит в памяти по одному одноразовому таймеру на каждую подтвержденную
// запись и по срабатыванию переводит её в completed через AppointmentLifecycle.
// Реестр таймеров не переживает рестарт: Start восстанавливает таймеры из
// хранилища, reaper периодически доставляет потерянные
type Scheduler struct {
	lifecycle AppointmentLifecycle
	source    AppointmentSource
	timeProv  TimeProvider
	logger    Logger

	metrics     *metrics.Metrics
	serviceName string

	jobs  sync.Map // appointmentID -> *job
	armed atomic.Int64

	sem            chan struct{}
	reaperInterval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// job одноразовый таймер завершения одной записи
type job struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

// stop снимает таймер; после stop job уже не сработает
func (j *job) stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancelled = true
	if j.timer != nil {
		j.timer.Stop()
	}
}

func (j *job) isCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

func (j *job) setTimer(t *time.Timer) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancelled {
		t.Stop()
		return
	}
	j.timer = t
}

// New создает планировщик завершения записей
// workers ограничивает число одновременно выполняемых завершений,
// reaperInterval задает период восстановления потерянных таймеров.
// Перед Start планировщику нужно передать lifecycle через SetLifecycle
func New(
	source AppointmentSource,
	timeProv TimeProvider,
	logger Logger,
	m *metrics.Metrics,
	serviceName string,
	workers int,
	reaperInterval time.Duration,
) *Scheduler {
	return &Scheduler{
		source:         source,
		timeProv:       timeProv,
		logger:         logger,
		metrics:        m,
		serviceName:    serviceName,
		sem:            make(chan struct{}, workers),
		reaperInterval: reaperInterval,
		stopCh:         make(chan struct{}),
	}
}

// SetLifecycle связывает планировщик с сервисом записей
// Сервис и планировщик зависят друг от друга, поэтому lifecycle
// передается отдельным вызовом после создания обоих
func (s *Scheduler) SetLifecycle(lifecycle AppointmentLifecycle) {
	s.lifecycle = lifecycle
}

// Arm взводит таймер завершения записи на время её начала
// Повторный Arm той же записи заменяет прежний таймер.
// Если время начала уже прошло, завершение выполняется немедленно
func (s *Scheduler) Arm(appt *domain.Appointment) {
	if prev, loaded := s.jobs.LoadAndDelete(appt.ID); loaded {
		prev.(*job).stop()
		s.trackArmed(-1)
	}

	j := &job{}
	s.jobs.Store(appt.ID, j)
	s.trackArmed(1)

	delay := appt.StartAt.Sub(s.timeProv.Now())
	if delay <= 0 {
		s.logger.Info("Arm: appointment id=%d start is in the past, completing now", appt.ID)
		go s.fire(appt.ID, j)
		return
	}

	s.logger.Info("Arm: appointment id=%d will complete in %s", appt.ID, delay.Round(time.Second))
	j.setTimer(time.AfterFunc(delay, func() {
		s.fire(appt.ID, j)
	}))
}

// Disarm снимает таймер завершения записи
// Снятие несуществующего таймера не является ошибкой
func (s *Scheduler) Disarm(appointmentID int64) {
	v, loaded := s.jobs.LoadAndDelete(appointmentID)
	if !loaded {
		return
	}
	v.(*job).stop()
	s.trackArmed(-1)
	s.logger.Info("Disarm: removed completion timer for appointment id=%d", appointmentID)
}

// Start восстанавливает таймеры по всем подтвержденным записям из хранилища
// и запускает фоновое восстановление потерянных таймеров
func (s *Scheduler) Start(ctx context.Context) error {
	appts, err := s.source.GetByStatus(ctx, domain.StatusScheduled)
	if err != nil {
		return fmt.Errorf("scheduler: failed to load scheduled appointments: %w", err)
	}

	for _, appt := range appts {
		s.Arm(appt)
	}
	s.logger.Info("Start: re-armed %d scheduled appointments", len(appts))

	s.wg.Add(1)
	go s.reaperLoop()

	return nil
}

// Stop снимает все таймеры и останавливает фоновые горутины
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	s.jobs.Range(func(key, value interface{}) bool {
		value.(*job).stop()
		if s.jobs.CompareAndDelete(key, value) {
			s.trackArmed(-1)
		}
		return true
	})

	s.wg.Wait()
	s.logger.Info("Stop: completion scheduler stopped")
}

// fire выполняет завершение записи по срабатыванию таймера
// Завершения выполняются через ограниченный пул воркеров
func (s *Scheduler) fire(appointmentID int64, j *job) {
	if j.isCancelled() {
		return
	}
	// Таймер актуален, только если job все еще числится в реестре
	if !s.jobs.CompareAndDelete(appointmentID, j) {
		return
	}
	s.trackArmed(-1)

	select {
	case s.sem <- struct{}{}:
	case <-s.stopCh:
		return
	}
	defer func() { <-s.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	if err := s.lifecycle.Complete(ctx, appointmentID); err != nil {
		s.logger.Error("fire: failed to complete appointment id=%d: %v", appointmentID, err)
		s.trackCompletion("error")
		return
	}
	s.trackCompletion("ok")
}

// reaperLoop периодически восстанавливает таймеры подтвержденных записей,
// у которых нет job в реестре (например, после ошибки или рестарта)
func (s *Scheduler) reaperLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.reaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.reap()
		}
	}
}

func (s *Scheduler) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	appts, err := s.source.GetByStatus(ctx, domain.StatusScheduled)
	if err != nil {
		s.logger.Error("reap: failed to load scheduled appointments: %v", err)
		return
	}

	restored := 0
	for _, appt := range appts {
		if _, ok := s.jobs.Load(appt.ID); !ok {
			s.Arm(appt)
			restored++
		}
	}

	if restored > 0 {
		s.logger.Warn("reap: restored %d lost completion timers", restored)
	}
}

func (s *Scheduler) trackArmed(delta int64) {
	armed := s.armed.Add(delta)
	if s.metrics != nil {
		s.metrics.SchedulerArmedJobs.WithLabelValues(s.serviceName).Set(float64(armed))
	}
}

func (s *Scheduler) trackCompletion(result string) {
	if s.metrics != nil {
		s.metrics.SchedulerCompletionsTotal.WithLabelValues(s.serviceName, result).Inc()
	}
}
