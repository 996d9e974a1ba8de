package lockset

import (
	"time"

	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/go-co-op/gocron"
)

type Job struct {
	Name       string        // name of the job.
	Every      time.Duration // interval between executions.
	Run        func() error  // actual job execution logic.
	LogJobExec bool          // whether job execution should be logged, error msg is always logged and is not affected by this option.
}

// Scheduler of interval based jobs.
//
// To create a new Scheduler, use [NewScheduler].
type Scheduler struct {
	s *gocron.Scheduler
}

// Create new Scheduler at local time.
func NewScheduler() *Scheduler {
	return &Scheduler{s: gocron.NewScheduler(time.Local)}
}

// Add job to scheduler. The job runs once right after the scheduler is started, and then every job.Every.
//
// This func doesn't start the scheduler.
func (s *Scheduler) Schedule(job Job) error {
	if job.Every <= 0 {
		return errs.ErrIllegalArgument.WithInternalMsg("invalid interval for job '%v': %v", job.Name, job.Every)
	}

	wrappedJob := func() {
		if job.LogJobExec {
			Infof("Running job '%s'", job.Name)
		}

		start := time.Now()
		errRun := job.Run()
		took := time.Since(start)
		if errRun == nil {
			if job.LogJobExec {
				Infof("Job '%s' finished, took: %s", job.Name, took)
			}
		} else {
			Errorf("Job '%s' failed, took: %s, %v", job.Name, took, errRun)
		}
	}

	if _, err := s.s.Every(job.Every).Tag(job.Name).Do(wrappedJob); err != nil {
		return errs.WrapErrf(err, "failed to schedule job '%v', every: %v", job.Name, job.Every)
	}
	return nil
}

// Number of scheduled jobs
func (s *Scheduler) Len() int {
	return s.s.Len()
}

// Start scheduler asynchronously
func (s *Scheduler) StartAsync() {
	s.s.StartAsync()
}

// Stop scheduler, running jobs are not interrupted
func (s *Scheduler) Stop() {
	s.s.Stop()
}
