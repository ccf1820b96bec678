package vote

import (
	"context"
	"time"
)

// Vote is insert-only. A nil VoterID records an anonymous vote; those are
// never deduplicated at the data layer.
type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	VoterID   *string   `json:"voter_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, v *Vote) error
	OptionInPoll(ctx context.Context, optionID, pollID string) (bool, error)
	HasUserVoted(ctx context.Context, pollID, voterID string) (bool, error)
	CountsForPolls(ctx context.Context, pollIDs []string) (map[string]map[string]int64, error)
}
