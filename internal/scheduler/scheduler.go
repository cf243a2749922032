package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron"

	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

// Job is a named reconciliation task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// Scheduler drives the registered jobs on their own worker, off the
// request path.
type Scheduler struct {
	log  *logger.Logger
	cron *cron.Cron
}

func New(baseLog *logger.Logger) *Scheduler {
	return &Scheduler{
		log:  baseLog.With("service", "Scheduler"),
		cron: cron.New(),
	}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) error {
	if job.Interval <= 0 {
		return fmt.Errorf("scheduler: job %q has no interval", job.Name)
	}
	spec := fmt.Sprintf("@every %s", job.Interval)
	name := job.Name
	run := job.Run
	err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		run(context.Background())
		s.log.Debug("scheduled job finished", "job", name, "took", time.Since(start).String())
	})
	if err != nil {
		return fmt.Errorf("scheduler: register %q: %w", job.Name, err)
	}
	s.log.Info("Registered scheduled job", "job", name, "interval", job.Interval.String())
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
