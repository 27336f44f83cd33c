package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRollover struct {
	month   string
	created int
}

func (f *fakeRollover) CreateMonthRecords(month string) (int, error) {
	f.month = month
	return f.created, nil
}

func newTestScheduler(fs *fakeSettings, fl *fakeLedger, now time.Time) *Scheduler {
	e := newTestEngine(fs, fl, &fakeEvents{},
		&scriptDispatcher{ch: models.ChannelEmail, result: sentResult})
	s := NewScheduler(e, fs, &fakeRollover{}, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestSchedulerStartWithoutSettings(t *testing.T) {
	s := newTestScheduler(&fakeSettings{}, newFakeLedger(), day(2024, time.June, 15))
	require.NoError(t, s.Start())
	defer s.Shutdown()

	st := s.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.Empty(t, st.CronExpression)
	assert.Nil(t, st.NextRun)
	// Rollover runs regardless of settings
	require.NotNil(t, st.NextRollover)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 5, 0, 0, time.UTC), *st.NextRollover)
}

func TestSchedulerStartSchedulesDaily(t *testing.T) {
	settings := testSettings()
	settings.DispatchHour = 2
	settings.DispatchMinute = 30
	settings.DispatchMeridiem = "PM"

	now := day(2024, time.June, 15) // 10:30
	s := newTestScheduler(&fakeSettings{s: settings}, newFakeLedger(), now)
	require.NoError(t, s.Start())
	defer s.Shutdown()

	st := s.Status()
	assert.Equal(t, StateScheduled, st.State)
	assert.Equal(t, "30 14 * * *", st.CronExpression)
	require.NotNil(t, st.NextRun)
	assert.Equal(t, time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC), *st.NextRun)
}

func TestSchedulerReloadRecomputes(t *testing.T) {
	settings := testSettings()
	settings.DispatchHour = 9
	fs := &fakeSettings{s: settings}
	s := newTestScheduler(fs, newFakeLedger(), day(2024, time.June, 15))
	require.NoError(t, s.Start())
	defer s.Shutdown()

	// Dispatch time moved to 11 AM; reload picks it up
	updated := testSettings()
	updated.DispatchHour = 11
	fs.s = updated
	require.NoError(t, s.Reload())

	st := s.Status()
	assert.Equal(t, "0 11 * * *", st.CronExpression)
	require.NotNil(t, st.NextRun)
	assert.Equal(t, 11, st.NextRun.Hour())
}

func TestSchedulerRunNowUnknownChannel(t *testing.T) {
	s := newTestScheduler(&fakeSettings{s: testSettings()}, newFakeLedger(), day(2024, time.June, 10))
	_, err := s.RunNow(context.Background(), "carrier-pigeon")
	assert.Error(t, err)
}

func TestSchedulerRunNowKeepsReminderDayGate(t *testing.T) {
	client := models.Client{ID: 1, Name: "Acme", Emails: models.StringList{"a@x.com"},
		TaxFilingApplicable: true}
	s := newTestScheduler(&fakeSettings{s: testSettings()}, newFakeLedger(client), day(2024, time.June, 11))

	sum, err := s.RunNow(context.Background(), "email")
	require.NoError(t, err)
	assert.Zero(t, sum.Tasks)
	assert.Equal(t, "no reminders due today", sum.Note)
	assert.Equal(t, "manual", sum.Trigger)
}

func TestSchedulerRunNowStoresLastRun(t *testing.T) {
	client := models.Client{ID: 1, Name: "Acme", Emails: models.StringList{"a@x.com"},
		TaxFilingApplicable: true}
	s := newTestScheduler(&fakeSettings{s: testSettings()}, newFakeLedger(client), day(2024, time.June, 10))

	sum, err := s.RunNow(context.Background(), "email")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Tasks)

	st := s.Status()
	require.NotNil(t, st.LastRun)
	assert.Equal(t, sum.RunID, st.LastRun.RunID)
}

func TestSchedulerRunNowReportUnconfigured(t *testing.T) {
	s := newTestScheduler(&fakeSettings{s: testSettings()}, newFakeLedger(), day(2024, time.June, 10))
	_, err := s.RunNow(context.Background(), "report")
	assert.Error(t, err)
}

func TestSchedulerShutdownRejectsRestart(t *testing.T) {
	s := newTestScheduler(&fakeSettings{s: testSettings()}, newFakeLedger(), day(2024, time.June, 15))
	require.NoError(t, s.Start())
	s.Shutdown()

	assert.Error(t, s.Start())
	assert.Error(t, s.Reload())
	st := s.Status()
	assert.Nil(t, st.NextRun)
	assert.Nil(t, st.NextRollover)
}

func TestNextFireTime(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	// Later today
	next := nextFireTime(now, 14, 0)
	assert.Equal(t, time.Date(2024, time.June, 15, 14, 0, 0, 0, time.UTC), next)

	// Already past, rolls to tomorrow
	next = nextFireTime(now, 9, 0)
	assert.Equal(t, time.Date(2024, time.June, 16, 9, 0, 0, 0, time.UTC), next)

	// Exactly now also rolls to tomorrow
	next = nextFireTime(now, 10, 30)
	assert.Equal(t, time.Date(2024, time.June, 16, 10, 30, 0, 0, time.UTC), next)
}

func TestNextRolloverTime(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 5, 0, 0, time.UTC), nextRolloverTime(now))

	// December rolls into the next year
	dec := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 5, 0, 0, time.UTC), nextRolloverTime(dec))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "2024-06", MonthLabel(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-12", MonthLabel(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
