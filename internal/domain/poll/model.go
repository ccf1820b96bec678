package poll

import (
	"context"
	"time"
)

type Poll struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Description *string    `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type Option struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	Label     string    `json:"label"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type OptionWithVotes struct {
	Option
	Votes int64 `json:"votes"`
}

type PollWithOptions struct {
	Poll    Poll              `json:"poll"`
	Options []OptionWithVotes `json:"options"`
}

// UpdateFields carries the mutable poll attributes. Options are replaced
// through a separate operation because replacement discards votes.
type UpdateFields struct {
	Question    string
	Description *string
	ExpiresAt   *time.Time
}

type Repository interface {
	Create(ctx context.Context, p *Poll, options []Option) (string, error)
	GetByID(ctx context.Context, id string) (*Poll, []Option, error)
	GetOwner(ctx context.Context, id string) (string, error)
	// ListByOwner returns all polls owned by ownerID newest-first, plus
	// every poll's options keyed by poll id, using a constant number of
	// queries regardless of how many polls the owner has.
	ListByOwner(ctx context.Context, ownerID string) ([]Poll, map[string][]Option, error)
	UpdateFields(ctx context.Context, id string, f UpdateFields) error
	ReplaceOptions(ctx context.Context, id string, options []Option) error
	UpdateComplete(ctx context.Context, id string, f UpdateFields, options []Option) error
	Delete(ctx context.Context, id string) error
}

// CountSource supplies per-option vote counts, batched over polls. The vote
// domain implements it; poll reads never touch vote rows directly.
type CountSource interface {
	CountsForPolls(ctx context.Context, pollIDs []string) (map[string]map[string]int64, error)
}
