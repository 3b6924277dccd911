package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

const (
	HoldSweepJob = "hold-sweep"
	ReconcileJob = "occupancy-reconcile"
)

// Options интервалы фоновых задач; Clock nil означает реальное время
type Options struct {
	HoldSweepInterval time.Duration
	ReconcileInterval time.Duration
	Clock             clockwork.Clock
}

// Scheduler периодические задачи обслуживания бронирований
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	logger    Logger
}

// NewScheduler регистрирует задачи, но не запускает их
func NewScheduler(expirer HoldExpirer, reconciler OccupancyReconciler, opts Options, logger Logger) (*Scheduler, error) {
	var schedulerOpts []gocron.SchedulerOption
	if opts.Clock != nil {
		schedulerOpts = append(schedulerOpts, gocron.WithClock(opts.Clock))
	}

	s, err := gocron.NewScheduler(schedulerOpts...)
	if err != nil {
		return nil, fmt.Errorf("jobs: create scheduler: %w", err)
	}

	sch := &Scheduler{scheduler: s, jobs: make(map[string]gocron.Job, 2), logger: logger}

	tasks := []struct {
		name     string
		interval time.Duration
		run      func(ctx context.Context) error
	}{
		{HoldSweepJob, opts.HoldSweepInterval, func(ctx context.Context) error {
			result, err := expirer.Execute(ctx)
			if err == nil && len(result.Expired) > 0 {
				logger.Info("Jobs: %s cancelled %d reservations", HoldSweepJob, len(result.Expired))
			}
			return err
		}},
		{ReconcileJob, opts.ReconcileInterval, func(ctx context.Context) error {
			_, err := reconciler.Execute(ctx)
			return err
		}},
	}

	for _, t := range tasks {
		if t.interval <= 0 {
			_ = s.Shutdown()
			return nil, fmt.Errorf("jobs: %s interval must be positive, got %s", t.name, t.interval)
		}

		job, err := s.NewJob(
			gocron.DurationJob(t.interval),
			gocron.NewTask(sch.wrap(t.name, t.interval, t.run)),
			gocron.WithName(t.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("jobs: register %s: %w", t.name, err)
		}
		sch.jobs[t.name] = job
	}

	return sch, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("Jobs: scheduler started with %d jobs", len(s.jobs))
}

// RunNow запускает задачу вне расписания
func (s *Scheduler) RunNow(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("jobs: unknown job %q", name)
	}
	return job.RunNow()
}

// Shutdown ждет завершения текущих запусков
func (s *Scheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("jobs: shutdown: %w", err)
	}
	s.logger.Info("Jobs: scheduler stopped")
	return nil
}

// wrap один запуск ограничен интервалом задачи
func (s *Scheduler) wrap(name string, timeout time.Duration, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := run(ctx); err != nil {
			s.logger.Error("Jobs: %s failed: %v", name, err)
		}
	}
}
