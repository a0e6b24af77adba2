package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Job - фоновая задача; ошибка логируется, процесс не падает
type Job func(ctx context.Context) error

// Scheduler запускает задачи по cron-выражениям с секундами ("0 */30 * * * *")
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *logger.Logger
}

// New создает планировщик; timeout ограничивает один запуск задачи (0 = без ограничения)
func New(location *time.Location, timeout time.Duration, log *logger.Logger) *Scheduler {
	if location == nil {
		location = time.Local
	}
	cronLog := cronLogger{log: log}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(location),
			cron.WithLogger(cronLog),
			// долгий sync не должен наслаиваться на следующий запуск
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		logger:  log,
	}
}

// Add регистрирует задачу; пустое расписание отключает ее
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.logger.Info("Scheduled job disabled", "job", name)
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s (%q): %w", name, spec, err)
	}

	s.logger.Info("Scheduled job registered", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("Scheduled job failed", err, "job", name, "duration", time.Since(started).String())
		return
	}
	s.logger.Debug("Scheduled job finished", "job", name, "duration", time.Since(started).String())
}

// Start запускает cron в собственной goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop отменяет контекст задач и ждет завершения текущих запусков (или ctx)
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop().Done()

	select {
	case <-done:
		s.logger.Info("Cron scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cron scheduler stop: %w", ctx.Err())
	}
}

// cronLogger адаптирует logger к cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, err, keysAndValues...)
}
