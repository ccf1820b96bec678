package poll

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("poll not found")
	ErrNotOwner = errors.New("acting user does not own this poll")
)

type Service struct {
	repo   Repository
	counts CountSource
	now    func() time.Time
}

func NewService(repo Repository, counts CountSource) *Service {
	return &Service{repo: repo, counts: counts, now: time.Now}
}

type CreateInput struct {
	Question    string
	Description *string
	ExpiresAt   *time.Time
	Options     []string
	OwnerID     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	question, err := ValidateQuestion(in.Question)
	if err != nil {
		return "", err
	}
	description, err := ValidateDescription(in.Description)
	if err != nil {
		return "", err
	}
	if err := ValidateExpiresAt(in.ExpiresAt, s.now()); err != nil {
		return "", err
	}
	labels, err := ValidateOptionLabels(in.Options)
	if err != nil {
		return "", err
	}

	p := &Poll{
		Question:    question,
		Description: description,
		ExpiresAt:   in.ExpiresAt,
		OwnerID:     in.OwnerID,
	}
	return s.repo.Create(ctx, p, optionRows(labels))
}

// Get returns the poll with its options, each annotated with its current
// vote count. A missing poll returns (nil, nil); errors are reserved for
// storage failures.
func (s *Service) Get(ctx context.Context, id string) (*PollWithOptions, error) {
	p, opts, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.counts.CountsForPolls(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	return &PollWithOptions{
		Poll:    *p,
		Options: annotate(opts, counts[id]),
	}, nil
}

// ListByOwner returns the owner's polls newest-first with options and vote
// counts. The retrieval stays at three queries total: polls, options, counts.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]PollWithOptions, error) {
	polls, optsByPoll, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(polls) == 0 {
		return []PollWithOptions{}, nil
	}

	ids := make([]string, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
	}
	counts, err := s.counts.CountsForPolls(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]PollWithOptions, len(polls))
	for i, p := range polls {
		res[i] = PollWithOptions{
			Poll:    p,
			Options: annotate(optsByPoll[p.ID], counts[p.ID]),
		}
	}
	return res, nil
}

func (s *Service) Update(ctx context.Context, id, actingUserID string, f UpdateFields) error {
	if err := s.authorizeOwner(ctx, id, actingUserID); err != nil {
		return err
	}
	validated, err := s.validateFields(f)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, validated)
}

// ReplaceOptions swaps the entire option set. Votes for the old options are
// gone afterwards; warning the user is the caller's job, not this layer's.
func (s *Service) ReplaceOptions(ctx context.Context, id, actingUserID string, labels []string) error {
	if err := s.authorizeOwner(ctx, id, actingUserID); err != nil {
		return err
	}
	cleaned, err := ValidateOptionLabels(labels)
	if err != nil {
		return err
	}
	return s.repo.ReplaceOptions(ctx, id, optionRows(cleaned))
}

// UpdateComplete updates poll fields and, when labels is non-nil, replaces
// the options too, under a single ownership check.
func (s *Service) UpdateComplete(ctx context.Context, id, actingUserID string, f UpdateFields, labels []string) error {
	if err := s.authorizeOwner(ctx, id, actingUserID); err != nil {
		return err
	}
	validated, err := s.validateFields(f)
	if err != nil {
		return err
	}
	if labels == nil {
		return s.repo.UpdateFields(ctx, id, validated)
	}
	cleaned, err := ValidateOptionLabels(labels)
	if err != nil {
		return err
	}
	return s.repo.UpdateComplete(ctx, id, validated, optionRows(cleaned))
}

func (s *Service) Delete(ctx context.Context, id, actingUserID string) error {
	if err := s.authorizeOwner(ctx, id, actingUserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorizeOwner distinguishes a missing poll (ErrNotFound) from one owned
// by someone else (ErrNotOwner). Every mutating operation calls it first.
func (s *Service) authorizeOwner(ctx context.Context, id, actingUserID string) error {
	ownerID, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != actingUserID {
		return ErrNotOwner
	}
	return nil
}

func (s *Service) validateFields(f UpdateFields) (UpdateFields, error) {
	question, err := ValidateQuestion(f.Question)
	if err != nil {
		return UpdateFields{}, err
	}
	description, err := ValidateDescription(f.Description)
	if err != nil {
		return UpdateFields{}, err
	}
	if err := ValidateExpiresAt(f.ExpiresAt, s.now()); err != nil {
		return UpdateFields{}, err
	}
	return UpdateFields{Question: question, Description: description, ExpiresAt: f.ExpiresAt}, nil
}

func optionRows(labels []string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Label: l, Position: i}
	}
	return opts
}

func annotate(opts []Option, counts map[string]int64) []OptionWithVotes {
	res := make([]OptionWithVotes, len(opts))
	for i, o := range opts {
		res[i] = OptionWithVotes{Option: o, Votes: counts[o.ID]}
	}
	return res
}
