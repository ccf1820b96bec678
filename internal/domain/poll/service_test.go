package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type memoryPollRepo struct {
	mu     sync.Mutex
	order  []string
	polls  map[string]*Poll
	opts   map[string][]Option
	nextID int
}

func newMemoryPollRepo() *memoryPollRepo {
	return &memoryPollRepo{
		polls: make(map[string]*Poll),
		opts:  make(map[string][]Option),
	}
}

func (r *memoryPollRepo) Create(ctx context.Context, p *Poll, options []Option) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = fmt.Sprintf("poll-%d", r.nextID)
	p.CreatedAt = time.Now()

	copyPoll := *p
	r.polls[p.ID] = &copyPoll
	r.order = append(r.order, p.ID)
	r.opts[p.ID] = r.cloneOptions(p.ID, options)
	return p.ID, nil
}

func (r *memoryPollRepo) cloneOptions(pollID string, options []Option) []Option {
	cloned := make([]Option, len(options))
	for i, opt := range options {
		r.nextID++
		opt.ID = fmt.Sprintf("opt-%d", r.nextID)
		opt.PollID = pollID
		opt.CreatedAt = time.Now()
		cloned[i] = opt
	}
	return cloned
}

func (r *memoryPollRepo) GetByID(ctx context.Context, id string) (*Poll, []Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	copyPoll := *p
	copiedOpts := make([]Option, len(r.opts[id]))
	copy(copiedOpts, r.opts[id])
	return &copyPoll, copiedOpts, nil
}

func (r *memoryPollRepo) GetOwner(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return "", ErrNotFound
	}
	return p.OwnerID, nil
}

func (r *memoryPollRepo) ListByOwner(ctx context.Context, ownerID string) ([]Poll, map[string][]Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Poll
	optsByPoll := make(map[string][]Option)
	// newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		p := r.polls[r.order[i]]
		if p.OwnerID != ownerID {
			continue
		}
		res = append(res, *p)
		optsByPoll[p.ID] = append([]Option(nil), r.opts[p.ID]...)
	}
	return res, optsByPoll, nil
}

func (r *memoryPollRepo) UpdateFields(ctx context.Context, id string, f UpdateFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return ErrNotFound
	}
	p.Question = f.Question
	p.Description = f.Description
	p.ExpiresAt = f.ExpiresAt
	return nil
}

func (r *memoryPollRepo) ReplaceOptions(ctx context.Context, id string, options []Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return ErrNotFound
	}
	r.opts[id] = r.cloneOptions(id, options)
	return nil
}

func (r *memoryPollRepo) UpdateComplete(ctx context.Context, id string, f UpdateFields, options []Option) error {
	if err := r.UpdateFields(ctx, id, f); err != nil {
		return err
	}
	return r.ReplaceOptions(ctx, id, options)
}

func (r *memoryPollRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.polls, id)
	delete(r.opts, id)
	return nil
}

type fakeCounts struct {
	counts map[string]map[string]int64
	calls  [][]string
}

func (f *fakeCounts) CountsForPolls(ctx context.Context, pollIDs []string) (map[string]map[string]int64, error) {
	f.calls = append(f.calls, pollIDs)
	res := make(map[string]map[string]int64)
	for _, id := range pollIDs {
		if c, ok := f.counts[id]; ok {
			res[id] = c
		}
	}
	return res, nil
}

func newTestService() (*Service, *memoryPollRepo, *fakeCounts) {
	repo := newMemoryPollRepo()
	counts := &fakeCounts{counts: make(map[string]map[string]int64)}
	return NewService(repo, counts), repo, counts
}

func TestCreateValidation(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"question too short", CreateInput{Question: "ab", Options: []string{"A", "B"}, OwnerID: "u1"}},
		{"one option", CreateInput{Question: "Pick one", Options: []string{"Only"}, OwnerID: "u1"}},
		{"duplicate labels", CreateInput{Question: "Pick one", Options: []string{"Same", "Same"}, OwnerID: "u1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(ctx, CreateInput{
		Question:  "Pick one",
		ExpiresAt: &past,
		Options:   []string{"A", "B"},
		OwnerID:   "u1",
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for past expiry, got %v", err)
	}

	// nothing may reach storage on a validation failure
	if len(repo.polls) != 0 {
		t.Fatalf("validation failures must not write rows, found %d polls", len(repo.polls))
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{
		Question: "Coffee or tea?",
		Options:  []string{"Coffee", "Tea", "Neither"},
		OwnerID:  "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected poll, got absent")
	}
	if len(got.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(got.Options))
	}
	for _, o := range got.Options {
		if o.Votes != 0 {
			t.Fatalf("fresh poll must have zero votes, option %s has %d", o.Label, o.Votes)
		}
	}
}

func TestGetAbsent(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.Get(context.Background(), "no-such-poll")
	if err != nil {
		t.Fatalf("absent poll must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent poll, got %+v", got)
	}
}

func TestListByOwnerBatchesCounts(t *testing.T) {
	svc, _, counts := newTestService()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := svc.Create(ctx, CreateInput{
			Question: fmt.Sprintf("Poll number %d", i),
			Options:  []string{"A", "B"},
			OwnerID:  "u1",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, id)
	}

	res, err := svc.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 polls, got %d", len(res))
	}
	// newest first
	if res[0].Poll.ID != ids[2] || res[2].Poll.ID != ids[0] {
		t.Fatalf("expected newest-first ordering, got %s..%s", res[0].Poll.ID, res[2].Poll.ID)
	}
	// one batched counts call, not one per poll
	if len(counts.calls) != 1 {
		t.Fatalf("expected one counts call, got %d", len(counts.calls))
	}
	if len(counts.calls[0]) != 3 {
		t.Fatalf("expected counts batched over 3 polls, got %d", len(counts.calls[0]))
	}
}

func TestOwnershipGuard(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{
		Question: "Owned by u1",
		Options:  []string{"A", "B"},
		OwnerID:  "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fields := UpdateFields{Question: "Edited question"}

	if err := svc.Delete(ctx, id, "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on delete, got %v", err)
	}
	if err := svc.Update(ctx, id, "intruder", fields); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on update, got %v", err)
	}
	if err := svc.ReplaceOptions(ctx, id, "intruder", []string{"C", "D"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on replace, got %v", err)
	}

	// the poll is untouched after all rejected attempts
	if p := repo.polls[id]; p == nil || p.Question != "Owned by u1" {
		t.Fatalf("rejected mutations must leave the poll unchanged")
	}

	if err := svc.Delete(ctx, "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing poll, got %v", err)
	}

	if err := svc.Delete(ctx, id, "u1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := repo.polls[id]; ok {
		t.Fatalf("poll should be gone after owner delete")
	}
}

func TestReplaceOptions(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{
		Question: "Replace me",
		Options:  []string{"A", "B"},
		OwnerID:  "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.ReplaceOptions(ctx, id, "u1", []string{"C", "D"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	opts := repo.opts[id]
	if len(opts) != 2 || opts[0].Label != "C" || opts[1].Label != "D" {
		t.Fatalf("expected options [C D], got %+v", opts)
	}
}

func TestUpdateComplete(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{
		Question: "Original question",
		Options:  []string{"A", "B"},
		OwnerID:  "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	originalOpts := append([]Option(nil), repo.opts[id]...)

	// options nil: only fields change
	if err := svc.UpdateComplete(ctx, id, "u1", UpdateFields{Question: "New question"}, nil); err != nil {
		t.Fatalf("update complete (fields only): %v", err)
	}
	if repo.polls[id].Question != "New question" {
		t.Fatalf("question not updated")
	}
	if len(repo.opts[id]) != len(originalOpts) || repo.opts[id][0].ID != originalOpts[0].ID {
		t.Fatalf("options must be untouched when omitted")
	}

	// options present: replaced too
	if err := svc.UpdateComplete(ctx, id, "u1", UpdateFields{Question: "Third question"}, []string{"X", "Y", "Z"}); err != nil {
		t.Fatalf("update complete (with options): %v", err)
	}
	if len(repo.opts[id]) != 3 {
		t.Fatalf("expected 3 replacement options, got %d", len(repo.opts[id]))
	}

	// invalid options reject the whole operation
	err = svc.UpdateComplete(ctx, id, "u1", UpdateFields{Question: "Fourth"}, []string{"Only"})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.polls[id].Question != "Third question" {
		t.Fatalf("failed update must not change fields")
	}
}
