package models

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule is a cron-style time trigger for a workflow. NextRunAt is
// precomputed so the scheduler sweep is a single indexed query; it is
// advanced after every fire.
type Schedule struct {
	ID             string     `json:"id"`
	WorkflowID     string     `json:"workflow_id"     validate:"required"`
	CronExpression string     `json:"cron_expression" validate:"required"`
	Timezone       string     `json:"timezone,omitempty"`
	IsActive       bool       `json:"is_active"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	NextRunAt      *time.Time `json:"next_run_at,omitempty"`
}

func cronParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// Location resolves the schedule's timezone, defaulting to UTC.
func (s *Schedule) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %s timezone %q: %w", ErrInvalidSchedule, s.ID, s.Timezone, err)
	}

	return loc, nil
}

// NextOccurrence computes the first cron occurrence strictly after the given
// time, honoring the schedule's timezone.
func (s *Schedule) NextOccurrence(after time.Time) (time.Time, error) {
	cronSchedule, err := cronParser().Parse(s.CronExpression)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: schedule %s cron %q: %w", ErrInvalidSchedule, s.ID, s.CronExpression, err)
	}

	loc, err := s.Location()
	if err != nil {
		return time.Time{}, err
	}

	return cronSchedule.Next(after.In(loc)), nil
}

// IsDue reports whether the schedule should fire at the given time.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.IsActive && s.NextRunAt != nil && !s.NextRunAt.After(now)
}

// Validate checks the schedule's cron expression and timezone.
func (s *Schedule) Validate() error {
	if s.WorkflowID == "" {
		return fmt.Errorf("%w: schedule %s has no workflow", ErrInvalidSchedule, s.ID)
	}

	if _, err := cronParser().Parse(s.CronExpression); err != nil {
		return fmt.Errorf("%w: schedule %s cron %q: %w", ErrInvalidSchedule, s.ID, s.CronExpression, err)
	}

	_, err := s.Location()

	return err
}
