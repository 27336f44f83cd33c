package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/metrics"
	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"go.uber.org/zap"
)

// SchedulerState is the lifecycle of the daily timer
type SchedulerState string

const (
	StateIdle      SchedulerState = "idle"
	StateScheduled SchedulerState = "scheduled"
	StateFiring    SchedulerState = "firing"
)

// RolloverStore creates the new month's document records
type RolloverStore interface {
	CreateMonthRecords(month string) (int, error)
}

// Status is the operator view of the scheduler
type Status struct {
	State          SchedulerState `json:"state"`
	CronExpression string         `json:"cron_expression,omitempty"`
	NextRun        *time.Time     `json:"next_run,omitempty"`
	NextRollover   *time.Time     `json:"next_rollover,omitempty"`
	LastRun        *RunSummary    `json:"last_run,omitempty"`
}

// Scheduler owns the process-wide timers: the daily reminder job at
// the configured dispatch time and the monthly rollover. All state is
// held here explicitly rather than in package globals, so reload and
// shutdown can cancel and recompute deterministically.
type Scheduler struct {
	engine   *Engine
	settings SettingsSource
	rollover RolloverStore
	log      *zap.Logger
	now      func() time.Time

	mu            sync.Mutex
	state         SchedulerState
	timer         *time.Timer
	rolloverTimer *time.Timer
	cronExpr      string
	nextRun       time.Time
	nextRollover  time.Time
	lastRun       *RunSummary
	stopped       bool
}

func NewScheduler(engine *Engine, settings SettingsSource, rollover RolloverStore, log *zap.Logger) *Scheduler {
	return &Scheduler{
		engine:   engine,
		settings: settings,
		rollover: rollover,
		log:      log,
		now:      time.Now,
		state:    StateIdle,
	}
}

// Start computes the initial schedule. Absent settings leave the daily
// timer idle; the rollover timer runs regardless.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("scheduler is shut down")
	}
	s.scheduleRolloverLocked()
	return s.scheduleDailyLocked()
}

// Reload cancels the current daily timer and recomputes it from the
// active settings. Called whenever the dispatch time may have changed.
func (s *Scheduler) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("scheduler is shut down")
	}
	s.cancelDailyLocked()
	return s.scheduleDailyLocked()
}

// RunNow triggers one channel immediately, bypassing the clock but not
// the reminder-day gate: if today is not a configured reminder day the
// run completes with zero tasks.
func (s *Scheduler) RunNow(ctx context.Context, channel string) (*RunSummary, error) {
	switch channel {
	case string(models.ChannelEmail), string(models.ChannelChat):
	case "report":
		return nil, s.engine.RunReport(ctx)
	default:
		return nil, fmt.Errorf("unknown channel %q", channel)
	}

	sum := s.engine.Run(ctx, "manual", s.now(), models.Channel(channel))
	s.mu.Lock()
	s.lastRun = sum
	s.mu.Unlock()
	return sum, nil
}

// Status reports the schedule and the last run's summary
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		State:          s.state,
		CronExpression: s.cronExpr,
		LastRun:        s.lastRun,
	}
	if !s.nextRun.IsZero() {
		next := s.nextRun
		st.NextRun = &next
	}
	if !s.nextRollover.IsZero() {
		next := s.nextRollover
		st.NextRollover = &next
	}
	return st
}

// Shutdown cancels all timers. Reminders already dispatched are not
// rolled back.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.cancelDailyLocked()
	if s.rolloverTimer != nil {
		s.rolloverTimer.Stop()
		s.rolloverTimer = nil
	}
	s.nextRollover = time.Time{}
	s.log.Info("scheduler shut down")
}

func (s *Scheduler) cancelDailyLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateIdle
	s.cronExpr = ""
	s.nextRun = time.Time{}
}

func (s *Scheduler) scheduleDailyLocked() error {
	settings, err := s.settings.Active()
	if err != nil {
		return fmt.Errorf("load settings for scheduling: %w", err)
	}
	if settings == nil {
		s.log.Info("no settings configured, daily job not scheduled")
		return nil
	}

	hour, minute, err := settings.DispatchClock()
	if err != nil {
		return fmt.Errorf("invalid dispatch time: %w", err)
	}

	now := s.now()
	next := nextFireTime(now, hour, minute)
	s.state = StateScheduled
	s.cronExpr = fmt.Sprintf("%d %d * * *", minute, hour)
	s.nextRun = next
	s.timer = time.AfterFunc(next.Sub(now), s.fireDaily)

	s.log.Info("daily reminder job scheduled",
		zap.String("cron", s.cronExpr),
		zap.Time("next_run", next))
	return nil
}

func (s *Scheduler) fireDaily() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.state = StateFiring
	now := s.now()
	s.mu.Unlock()

	sum := s.engine.Run(context.Background(), "schedule", now, models.ChannelEmail, models.ChannelChat)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = sum
	s.state = StateIdle
	if s.stopped {
		return
	}
	if err := s.scheduleDailyLocked(); err != nil {
		s.log.Error("failed to reschedule daily job", zap.Error(err))
	}
}

func (s *Scheduler) scheduleRolloverLocked() {
	now := s.now()
	next := nextRolloverTime(now)
	s.nextRollover = next
	s.rolloverTimer = time.AfterFunc(next.Sub(now), s.fireRollover)
	s.log.Info("monthly rollover scheduled", zap.Time("next_rollover", next))
}

func (s *Scheduler) fireRollover() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	now := s.now()
	s.mu.Unlock()

	month := MonthLabel(now)
	created, err := s.rollover.CreateMonthRecords(month)
	if err != nil {
		s.log.Error("monthly rollover failed", zap.String("month", month), zap.Error(err))
	} else {
		metrics.RolloverRecordsCreated.Add(float64(created))
		s.log.Info("monthly rollover complete",
			zap.String("month", month), zap.Int("created", created))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.scheduleRolloverLocked()
}

// nextFireTime returns the next daily occurrence of hour:minute after now
func nextFireTime(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextRolloverTime returns 00:05 on the first of the next month
func nextRolloverTime(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 5, 0, 0, now.Location())
	return first.AddDate(0, 1, 0)
}

// MonthLabel formats the tracking-period label for a point in time
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}
