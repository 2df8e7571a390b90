package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pfrederiksen/ru-menu/internal/logger"
)

// Job is the work run at each scheduled time
type Job func(ctx context.Context) error

// Daily runs Job every day at a fixed time in Location
type Daily struct {
	Location *time.Location
	Job      Job

	spec     string
	schedule cron.Schedule
}

// ParseClock parses "HH:MM" into hour and minute
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q (want HH:MM): %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NewDaily creates a schedule running job at the time given as "HH:MM"
func NewDaily(at string, loc *time.Location, job Job) (*Daily, error) {
	hour, minute, err := ParseClock(at)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}

	return &Daily{
		Location: loc,
		Job:      job,
		spec:     spec,
		schedule: schedule,
	}, nil
}

// Spec returns the cron expression of the schedule
func (d *Daily) Spec() string {
	return d.spec
}

// NextRun returns the first scheduled time strictly after now
func (d *Daily) NextRun(now time.Time) time.Time {
	return d.schedule.Next(now.In(d.Location))
}

// Run blocks until ctx is done, running the job at each scheduled time. Job
// errors are logged and do not stop the schedule. A run still in progress
// when ctx ends is waited for.
func (d *Daily) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(d.Location),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(
			cron.Recover(cronLogger{}),
			cron.SkipIfStillRunning(cronLogger{}),
		),
	)
	c.Schedule(d.schedule, cron.FuncJob(func() {
		d.runJob(ctx)
	}))

	logger.Info("Next scheduled run", logger.Fields{
		"at":   d.NextRun(time.Now()).Format(time.RFC3339),
		"spec": d.spec,
	})
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (d *Daily) runJob(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := d.Job(ctx); err != nil {
		logger.IncrCounter("scheduler.job_failure")
		logger.Error("Scheduled job failed", nil, err)
	}
	logger.RecordTiming("scheduler.job", time.Since(start))

	logger.Info("Next scheduled run", logger.Fields{
		"at": d.NextRun(time.Now()).Format(time.RFC3339),
	})
}

// cronLogger sends cron's own messages to the package logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, fields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, fields(keysAndValues), err)
}

func fields(keysAndValues []interface{}) logger.Fields {
	f := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
