package vote

import (
	"context"
	"errors"
)

var (
	ErrAlreadyVoted    = errors.New("voter already voted in this poll")
	ErrOptionNotInPoll = errors.New("option does not belong to poll")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Cast records a vote. voterID is nil for anonymous voters. The pre-checks
// here are advisory; the real guards are the composite foreign key and the
// partial unique index, which hold under concurrent requests.
func (s *Service) Cast(ctx context.Context, pollID, optionID string, voterID *string) error {
	ok, err := s.repo.OptionInPoll(ctx, optionID, pollID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOptionNotInPoll
	}

	if voterID != nil {
		voted, err := s.repo.HasUserVoted(ctx, pollID, *voterID)
		if err != nil {
			return err
		}
		if voted {
			return ErrAlreadyVoted
		}
	}

	return s.repo.Create(ctx, &Vote{
		PollID:   pollID,
		OptionID: optionID,
		VoterID:  voterID,
	})
}

// HasUserVoted reports whether voterID already voted in pollID. No matching
// row is false, not an error.
func (s *Service) HasUserVoted(ctx context.Context, pollID, voterID string) (bool, error) {
	return s.repo.HasUserVoted(ctx, pollID, voterID)
}

type Result struct {
	OptionID   string  `json:"option_id"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// Results recomputes per-option counts from the vote rows on every call.
func (s *Service) Results(ctx context.Context, pollID string) ([]Result, int64, error) {
	counts, err := s.repo.CountsForPolls(ctx, []string{pollID})
	if err != nil {
		return nil, 0, err
	}

	perOption := counts[pollID]
	var total int64
	for _, c := range perOption {
		total += c
	}

	results := make([]Result, 0, len(perOption))
	for optionID, c := range perOption {
		var p float64
		if total > 0 {
			p = float64(c) * 100.0 / float64(total)
		}
		results = append(results, Result{
			OptionID:   optionID,
			Votes:      c,
			Percentage: p,
		})
	}

	return results, total, nil
}

// CountsForPolls exposes batched counts for the poll read paths.
func (s *Service) CountsForPolls(ctx context.Context, pollIDs []string) (map[string]map[string]int64, error) {
	return s.repo.CountsForPolls(ctx, pollIDs)
}
