package reminder

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/metrics"
	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingsSource provides the active configuration snapshot. A nil
// snapshot means nothing is configured yet, which is not an error.
type SettingsSource interface {
	Active() (*models.Settings, error)
}

// Ledger is the engine's read/write window onto document records. The
// engine never touches received flags, only the tier-sent subset.
type Ledger interface {
	FindEligible(t models.DocumentType, tier models.Tier, month string) ([]models.Client, error)
	MarkReminderSent(clientID uint, t models.DocumentType, tier models.Tier, month string, at time.Time) error
}

// EventSink appends delivery-attempt events to the audit log
type EventSink interface {
	Record(ev *models.ReminderEvent) error
}

// ChannelOutcome classifies how a channel's run ended. Disabled and
// unavailable are skips, not failures; only failed sends alert anyone.
type ChannelOutcome string

const (
	ChannelCompleted   ChannelOutcome = "completed"
	ChannelDisabled    ChannelOutcome = "disabled"
	ChannelUnavailable ChannelOutcome = "unavailable"
)

// ChannelSummary counts one channel's outcomes for a run
type ChannelSummary struct {
	Channel models.Channel `json:"channel"`
	Outcome ChannelOutcome `json:"outcome"`
	Sent    int            `json:"sent"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
}

// RunSummary is the operator-visible result of one engine run
type RunSummary struct {
	RunID      string                             `json:"run_id"`
	Trigger    string                             `json:"trigger"`
	Month      string                             `json:"month,omitempty"`
	StartedAt  time.Time                          `json:"started_at"`
	FinishedAt time.Time                          `json:"finished_at"`
	Due        []models.TierKey                   `json:"due,omitempty"`
	Tasks      int                                `json:"tasks"`
	Channels   map[models.Channel]*ChannelSummary `json:"channels"`
	Note       string                             `json:"note,omitempty"`
}

// Engine evaluates which reminders are due, groups them into tasks and
// fans them out to the registered channels.
type Engine struct {
	settings    SettingsSource
	ledger      Ledger
	events      EventSink
	dispatchers map[models.Channel]Dispatcher

	chatSession  ChatSession
	reportTarget string
	reports      ReportSource

	log   *zap.Logger
	delay func()
}

func NewEngine(settings SettingsSource, ledger Ledger, events EventSink, log *zap.Logger) *Engine {
	e := &Engine{
		settings:    settings,
		ledger:      ledger,
		events:      events,
		dispatchers: make(map[models.Channel]Dispatcher),
		log:         log,
	}
	e.SetDelayRange(2*time.Second, 6*time.Second)
	return e
}

// Register adds a channel dispatcher
func (e *Engine) Register(d Dispatcher) {
	e.dispatchers[d.Channel()] = d
}

// SetDelayRange configures the randomized pause between successive
// sends on one channel. Rate-limit politeness, not correctness.
func (e *Engine) SetDelayRange(min, max time.Duration) {
	if max < min {
		max = min
	}
	span := max - min
	e.delay = func() {
		d := min
		if span > 0 {
			d += time.Duration(rand.Int63n(int64(span)))
		}
		time.Sleep(d)
	}
}

// Run executes one reminder pass for the given day. Channels run
// concurrently and independently; they are joined only for the summary.
func (e *Engine) Run(ctx context.Context, trigger string, now time.Time, channels ...models.Channel) *RunSummary {
	sum := &RunSummary{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: now,
		Channels:  make(map[models.Channel]*ChannelSummary),
	}
	metrics.RunsTotal.WithLabelValues(trigger).Inc()

	settings, err := e.settings.Active()
	if err != nil {
		e.log.Error("failed to load settings", zap.Error(err))
		sum.Note = "settings load failed: " + err.Error()
		sum.FinishedAt = time.Now()
		return sum
	}
	if settings == nil {
		// Configuration absent is "nothing due", not an error
		e.log.Info("no settings configured, nothing due")
		sum.Note = "no settings configured"
		sum.FinishedAt = time.Now()
		return sum
	}
	sum.Month = settings.ActiveMonth

	due := DueToday(now, settings)
	sum.Due = due
	if len(due) == 0 {
		e.log.Info("no reminders due today",
			zap.String("month", settings.ActiveMonth),
			zap.String("date", now.Format("2006-01-02")))
		sum.Note = "no reminders due today"
		sum.FinishedAt = time.Now()
		return sum
	}

	eligible := make(map[models.TierKey][]models.Client, len(due))
	for _, key := range due {
		clients, err := e.ledger.FindEligible(key.Type, key.Tier, settings.ActiveMonth)
		if err != nil {
			e.log.Error("eligibility query failed",
				zap.String("type", string(key.Type)),
				zap.Int("tier", int(key.Tier)),
				zap.Error(err))
			continue
		}
		eligible[key] = clients
	}

	tasks := GroupTasks(due, eligible, settings, settings.ActiveMonth)
	sum.Tasks = len(tasks)
	e.log.Info("reminder run starting",
		zap.String("run_id", sum.RunID),
		zap.String("trigger", trigger),
		zap.Int("due_pairs", len(due)),
		zap.Int("tasks", len(tasks)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, ch := range channels {
		d, ok := e.dispatchers[ch]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(d Dispatcher) {
			defer wg.Done()
			cs := e.runChannel(ctx, d, settings, tasks, sum.RunID, now)
			mu.Lock()
			sum.Channels[d.Channel()] = cs
			mu.Unlock()
		}(d)
	}
	wg.Wait()

	sum.FinishedAt = time.Now()
	for ch, cs := range sum.Channels {
		e.log.Info("channel run finished",
			zap.String("run_id", sum.RunID),
			zap.String("channel", string(ch)),
			zap.String("outcome", string(cs.Outcome)),
			zap.Int("sent", cs.Sent),
			zap.Int("failed", cs.Failed),
			zap.Int("skipped", cs.Skipped))
	}
	return sum
}

// runChannel sends every task sequentially on one channel, throttled
// between attempts. A single client's failure never aborts the batch.
func (e *Engine) runChannel(ctx context.Context, d Dispatcher, settings *models.Settings, tasks []Task, runID string, now time.Time) *ChannelSummary {
	ch := d.Channel()
	cs := &ChannelSummary{Channel: ch, Outcome: ChannelCompleted}

	if !settings.ChannelEnabled(ch) {
		cs.Outcome = ChannelDisabled
		e.log.Info("channel disabled, skipping run", zap.String("channel", string(ch)))
		return cs
	}
	if err := d.Ready(ctx); err != nil {
		cs.Outcome = ChannelUnavailable
		e.log.Warn("channel unavailable, skipping run",
			zap.String("channel", string(ch)), zap.Error(err))
		return cs
	}

	for i, task := range tasks {
		if ctx.Err() != nil {
			e.log.Warn("channel run cancelled",
				zap.String("channel", string(ch)), zap.Error(ctx.Err()))
			break
		}

		msg := Compose(task)
		res := d.Dispatch(ctx, task, msg)
		switch res.Status {
		case StatusSkipped:
			cs.Skipped++
			continue
		case StatusFailed:
			cs.Failed++
			metrics.MessagesTotal.WithLabelValues(string(ch), models.OutcomeFailed).Inc()
			e.recordEvent(runID, ch, task, msg, res, models.OutcomeFailed)
			e.log.Warn("reminder send failed",
				zap.String("channel", string(ch)),
				zap.Uint("client_id", task.Client.ID),
				zap.Error(res.Err))
		case StatusSent:
			cs.Sent++
			metrics.MessagesTotal.WithLabelValues(string(ch), models.OutcomeSent).Inc()
			e.recordEvent(runID, ch, task, msg, res, models.OutcomeSent)
			for _, t := range task.Types {
				if err := e.ledger.MarkReminderSent(task.Client.ID, t, task.Tier, task.Month, now); err != nil {
					e.log.Error("failed to mark reminder sent",
						zap.Uint("client_id", task.Client.ID),
						zap.String("type", string(t)),
						zap.Error(err))
				}
			}
		}
		if i < len(tasks)-1 {
			e.delay()
		}
	}
	return cs
}

func (e *Engine) recordEvent(runID string, ch models.Channel, task Task, msg Message, res DispatchResult, outcome string) {
	content := msg.ChatText
	if ch == models.ChannelEmail {
		content = msg.Subject + "\n\n" + msg.PlainBody
	}
	types := make(models.StringList, len(task.Types))
	for i, t := range task.Types {
		types[i] = string(t)
	}
	ev := &models.ReminderEvent{
		RunID:         runID,
		Channel:       ch,
		ClientID:      task.Client.ID,
		Target:        res.Target,
		Month:         task.Month,
		Tier:          task.Tier,
		DocumentTypes: types,
		Content:       content,
		Outcome:       outcome,
	}
	if res.Err != nil {
		ev.ErrorDetail = res.Err.Error()
	}
	if err := e.events.Record(ev); err != nil {
		e.log.Error("failed to record reminder event", zap.Error(err))
	}
}
