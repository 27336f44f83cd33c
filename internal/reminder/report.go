package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"go.uber.org/zap"
)

// ReportSource supplies the month's records for the status report
type ReportSource interface {
	MonthEntries(month string) ([]models.MonthEntry, error)
}

// SetReportChannel wires the chat session and target group used by the
// monthly status report trigger.
func (e *Engine) SetReportChannel(session ChatSession, target string, source ReportSource) {
	e.chatSession = session
	e.reportTarget = target
	e.reports = source
}

// RunReport posts the month's submission status to the office chat
// group. It is a manual trigger; it does not touch the ledger.
func (e *Engine) RunReport(ctx context.Context) error {
	if e.chatSession == nil || e.reports == nil {
		return fmt.Errorf("report channel not configured")
	}
	if e.reportTarget == "" {
		return fmt.Errorf("report target not configured")
	}

	settings, err := e.settings.Active()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		return fmt.Errorf("no settings configured")
	}
	if !settings.ChatEnabled {
		return fmt.Errorf("chat channel is disabled")
	}

	entries, err := e.reports.MonthEntries(settings.ActiveMonth)
	if err != nil {
		return fmt.Errorf("load month entries: %w", err)
	}

	text := BuildStatusReport(settings.ActiveMonth, entries)

	readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := e.chatSession.WaitReady(readyCtx); err != nil {
		return fmt.Errorf("chat session not ready: %w", err)
	}
	if err := e.chatSession.SendGroup(ctx, e.reportTarget, text); err != nil {
		return fmt.Errorf("send status report: %w", err)
	}

	e.log.Info("status report posted",
		zap.String("month", settings.ActiveMonth),
		zap.Int("clients", len(entries)))
	return nil
}

// BuildStatusReport renders the per-type received/pending summary.
// Pure; testable without a chat session.
func BuildStatusReport(month string, entries []models.MonthEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Submission status for %s (%d clients)\n", month, len(entries))

	for _, t := range models.AllDocumentTypes {
		applicable, received := 0, 0
		var pending []string
		for _, entry := range entries {
			if !entry.Client.Applicable(t) {
				continue
			}
			applicable++
			if entry.Record.Received(t) {
				received++
			} else {
				pending = append(pending, entry.Client.Name)
			}
		}
		fmt.Fprintf(&b, "\n%s: %d/%d received", t.DisplayName(), received, applicable)
		if len(pending) > 0 {
			fmt.Fprintf(&b, "\npending: %s", strings.Join(pending, ", "))
		}
	}
	return b.String()
}
