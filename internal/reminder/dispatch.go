package reminder

import (
	"context"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"
)

// DispatchStatus distinguishes an attempted-and-failed send from a
// client that was never attempted on this channel. Only failures
// should alert operators.
type DispatchStatus int

const (
	// StatusSent means the transport accepted the message
	StatusSent DispatchStatus = iota
	// StatusSkipped means the client has no contact for this channel;
	// not an error, the client is silently excluded
	StatusSkipped
	// StatusFailed means the transport was attempted and failed
	StatusFailed
)

// DispatchResult is the outcome of one task on one channel
type DispatchResult struct {
	Status DispatchStatus
	Target string
	Err    error
}

// Dispatcher sends composed tasks on one channel. Implementations must
// not touch the ledger; the engine marks tiers sent only on success.
type Dispatcher interface {
	Channel() models.Channel
	// Ready blocks until the channel can send or the context ends.
	// A non-nil error means the whole channel run is skipped for the
	// day (reported as unavailable, distinct from failed).
	Ready(ctx context.Context) error
	Dispatch(ctx context.Context, task Task, msg Message) DispatchResult
}
