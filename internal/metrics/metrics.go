package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MessagesTotal counts outbound reminder messages by channel and outcome
var MessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hpfp_reminder_messages_total",
		Help: "Outbound reminder messages by channel and outcome.",
	},
	[]string{"channel", "outcome"},
)

// RunsTotal counts engine runs by trigger (schedule or manual)
var RunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hpfp_reminder_runs_total",
		Help: "Reminder engine runs by trigger.",
	},
	[]string{"trigger"},
)

// RolloverRecordsCreated counts document records created by the
// monthly rollover
var RolloverRecordsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "hpfp_rollover_records_created_total",
		Help: "Document records created by the monthly rollover.",
	},
)
