package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule re-runs a job a fixed duration after each run. The profile
// sync uses it as the default cadence; DailySchedule covers deployments that
// pin the sync to a fixed local time.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates an interval schedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: interval}
}

// Next returns the run time following t.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String describes the schedule for registration logs.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}
