package worker

import (
	"context"
	"log/slog"

	"pollshare/internal/metrics"
)

type VoteEvent struct {
	PollID    string
	OptionID  string
	Anonymous bool
}

// StatsWorker drains vote events off the request path and feeds the vote
// counters. Handlers publish with a non-blocking send; a full channel drops
// the event rather than stalling a voter.
type StatsWorker struct {
	Ch <-chan VoteEvent
}

func NewStatsWorker(ch <-chan VoteEvent) *StatsWorker {
	return &StatsWorker{Ch: ch}
}

func (w *StatsWorker) Run(ctx context.Context) {
	slog.Info("stats worker started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("stats worker stopped")
			return
		case ev := <-w.Ch:
			metrics.IncVote(ev.Anonymous)
			slog.Info("vote recorded",
				"poll_id", ev.PollID,
				"option_id", ev.OptionID,
				"anonymous", ev.Anonymous,
			)
		}
	}
}
