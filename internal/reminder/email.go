package reminder

import (
	"context"
	"strings"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"
)

// Mailer is the transport behind the email dispatcher
type Mailer interface {
	SendReminder(toName string, addresses []string, subject, plain, html string) error
}

// EmailDispatcher delivers tasks over email. Clients without any email
// address are skipped, not failed.
type EmailDispatcher struct {
	mailer Mailer
}

func NewEmailDispatcher(mailer Mailer) *EmailDispatcher {
	return &EmailDispatcher{mailer: mailer}
}

func (d *EmailDispatcher) Channel() models.Channel {
	return models.ChannelEmail
}

// Ready always succeeds; SendGrid needs no session
func (d *EmailDispatcher) Ready(ctx context.Context) error {
	return nil
}

func (d *EmailDispatcher) Dispatch(ctx context.Context, task Task, msg Message) DispatchResult {
	if !task.Client.Reachable(models.ChannelEmail) {
		return DispatchResult{Status: StatusSkipped}
	}

	target := strings.Join(task.Client.Emails, ",")
	if err := d.mailer.SendReminder(task.Client.Name, task.Client.Emails, msg.Subject, msg.PlainBody, msg.HTMLBody); err != nil {
		return DispatchResult{Status: StatusFailed, Target: target, Err: err}
	}
	return DispatchResult{Status: StatusSent, Target: target}
}
