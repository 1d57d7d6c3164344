package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
)

const (
	JobPollDevices       = "poll_biometric_devices"
	JobBackfillAbsences  = "backfill_absences"
	JobCalculateSalaries = "auto_calculate_salaries"
)

type DevicePoller interface {
	PollAll(ctx context.Context) error
}

type AbsenceBackfiller interface {
	BackfillAbsences(ctx context.Context, date time.Time) (attendance.BackfillResult, error)
}

type SalaryCalculator interface {
	CalculatePreviousMonth(ctx context.Context, now time.Time) (salary.CalculateResponse, error)
}

// Jobs holds the periodic work of the attendance system. The daily jobs
// are checked hourly and act once per local date.
type Jobs struct {
	poller     DevicePoller
	backfiller AbsenceBackfiller
	salaries   SalaryCalculator
	cfg        config.JobsConfig
	location   *time.Location
	now        func() time.Time

	mu      sync.Mutex
	lastRun map[string]time.Time
}

func NewJobs(poller DevicePoller, backfiller AbsenceBackfiller, salaries SalaryCalculator, cfg config.JobsConfig, timezone string) *Jobs {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("Unknown timezone for jobs, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}
	return &Jobs{
		poller:     poller,
		backfiller: backfiller,
		salaries:   salaries,
		cfg:        cfg,
		location:   loc,
		now:        time.Now,
		lastRun:    make(map[string]time.Time),
	}
}

// RegisterJobs adds the jobs to scheduler. Device polling is left out when
// pollInterval is zero.
func (j *Jobs) RegisterJobs(scheduler *Scheduler, pollInterval time.Duration) {
	if pollInterval > 0 {
		scheduler.AddJob(JobPollDevices, pollInterval, j.PollDevices)
	}
	scheduler.AddJob(JobBackfillAbsences, time.Hour, j.BackfillAbsences)
	scheduler.AddJob(JobCalculateSalaries, time.Hour, j.CalculateSalaries)
}

func (j *Jobs) PollDevices(ctx context.Context) error {
	return j.poller.PollAll(ctx)
}

// due reports whether name has not yet acted on today's local date, and
// marks it as having done so.
func (j *Jobs) due(name string, today time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if last, ok := j.lastRun[name]; ok && !last.Before(today) {
		return false
	}
	j.lastRun[name] = today
	return true
}

func (j *Jobs) forget(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.lastRun, name)
}

// BackfillAbsences writes absent, weekend, holiday or on_leave rows for
// yesterday once the configured hour has been reached.
func (j *Jobs) BackfillAbsences(ctx context.Context) error {
	now := j.now().In(j.location)
	if now.Hour() < j.cfg.AbsenceBackfillHour {
		return nil
	}
	today := attendance.DateOf(now, j.location)
	if !j.due(JobBackfillAbsences, today) {
		return nil
	}

	slog.Info("Cron: Starting absence backfill")
	if _, err := j.backfiller.BackfillAbsences(ctx, today.AddDate(0, 0, -1)); err != nil {
		j.forget(JobBackfillAbsences)
		return fmt.Errorf("failed to backfill absences: %w", err)
	}
	return nil
}

// CalculateSalaries computes the previous month on the configured day of
// the month.
func (j *Jobs) CalculateSalaries(ctx context.Context) error {
	now := j.now().In(j.location)
	if now.Day() != j.cfg.SalaryAutoCalcDay || now.Hour() < j.cfg.AbsenceBackfillHour {
		return nil
	}
	today := attendance.DateOf(now, j.location)
	if !j.due(JobCalculateSalaries, today) {
		return nil
	}

	slog.Info("Cron: Starting salary calculation")
	res, err := j.salaries.CalculatePreviousMonth(ctx, now)
	if err != nil {
		j.forget(JobCalculateSalaries)
		return fmt.Errorf("failed to calculate salaries: %w", err)
	}
	slog.Info("Cron: Salaries calculated",
		"month", res.Month,
		"created", res.Created,
		"updated", res.Updated,
		"skipped_paid", res.SkippedPaid,
		"failed", res.Failed,
	)
	return nil
}
