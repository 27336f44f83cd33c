package reminder

import (
	"context"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"
)

// ChatSession is the long-lived gateway connection behind the chat
// dispatcher. One authenticated session serves the whole run.
type ChatSession interface {
	// WaitReady blocks until the session is authenticated or the
	// context ends.
	WaitReady(ctx context.Context) error
	SendGroup(ctx context.Context, target, text string) error
}

// ChatDispatcher delivers tasks to each client's group-chat target.
// If the session is not ready within the bounded wait, the whole chat
// run for the day is skipped; the email channel is unaffected.
type ChatDispatcher struct {
	session      ChatSession
	readyTimeout time.Duration
}

func NewChatDispatcher(session ChatSession, readyTimeout time.Duration) *ChatDispatcher {
	if readyTimeout <= 0 {
		readyTimeout = 30 * time.Second
	}
	return &ChatDispatcher{session: session, readyTimeout: readyTimeout}
}

func (d *ChatDispatcher) Channel() models.Channel {
	return models.ChannelChat
}

func (d *ChatDispatcher) Ready(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, d.readyTimeout)
	defer cancel()
	return d.session.WaitReady(waitCtx)
}

func (d *ChatDispatcher) Dispatch(ctx context.Context, task Task, msg Message) DispatchResult {
	if !task.Client.Reachable(models.ChannelChat) {
		return DispatchResult{Status: StatusSkipped}
	}

	target := task.Client.ChatTarget
	if err := d.session.SendGroup(ctx, target, msg.ChatText); err != nil {
		return DispatchResult{Status: StatusFailed, Target: target, Err: err}
	}
	return DispatchResult{Status: StatusSent, Target: target}
}
