package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"pollshare/internal/domain/poll"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	p.ID = uuid.NewString()

	queryPoll := `
        INSERT INTO polls (id, question, description, owner_id, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `
	err = tx.QueryRowContext(ctx, queryPoll,
		p.ID,
		p.Question,
		p.Description,
		p.OwnerID,
		p.ExpiresAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return "", err
	}

	if err := insertOptions(ctx, tx, p.ID, options); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return p.ID, nil
}

func (r *PollRepo) GetByID(ctx context.Context, id string) (*poll.Poll, []poll.Option, error) {
	p := &poll.Poll{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, question, description, owner_id, created_at, expires_at
        FROM polls WHERE id = $1
    `, id).Scan(&p.ID, &p.Question, &p.Description, &p.OwnerID, &p.CreatedAt, &p.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, poll.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, label, position, created_at
        FROM poll_options WHERE poll_id = $1
        ORDER BY position, created_at
    `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var opts []poll.Option
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.Label, &o.Position, &o.CreatedAt); err != nil {
			return nil, nil, err
		}
		opts = append(opts, o)
	}

	return p, opts, rows.Err()
}

func (r *PollRepo) GetOwner(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM polls WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", poll.ErrNotFound
	}
	return ownerID, err
}

// ListByOwner loads all of the owner's polls and their options in two
// queries total, never one query per poll.
func (r *PollRepo) ListByOwner(ctx context.Context, ownerID string) ([]poll.Poll, map[string][]poll.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, question, description, owner_id, created_at, expires_at
        FROM polls WHERE owner_id = $1
        ORDER BY created_at DESC
    `, ownerID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var polls []poll.Poll
	var ids []string
	for rows.Next() {
		var p poll.Poll
		if err := rows.Scan(&p.ID, &p.Question, &p.Description, &p.OwnerID, &p.CreatedAt, &p.ExpiresAt); err != nil {
			return nil, nil, err
		}
		polls = append(polls, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	optsByPoll := make(map[string][]poll.Option, len(polls))
	if len(ids) == 0 {
		return polls, optsByPoll, nil
	}

	optRows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, label, position, created_at
        FROM poll_options WHERE poll_id = ANY($1)
        ORDER BY poll_id, position, created_at
    `, ids)
	if err != nil {
		return nil, nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var o poll.Option
		if err := optRows.Scan(&o.ID, &o.PollID, &o.Label, &o.Position, &o.CreatedAt); err != nil {
			return nil, nil, err
		}
		optsByPoll[o.PollID] = append(optsByPoll[o.PollID], o)
	}

	return polls, optsByPoll, optRows.Err()
}

func (r *PollRepo) UpdateFields(ctx context.Context, id string, f poll.UpdateFields) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE polls SET question = $1, description = $2, expires_at = $3
        WHERE id = $4
    `, f.Question, f.Description, f.ExpiresAt, id)
	return err
}

// ReplaceOptions deletes and reinserts the option set in one transaction so
// the poll is never observable with zero options. Votes for the old options
// go away via cascade.
func (r *PollRepo) ReplaceOptions(ctx context.Context, id string, options []poll.Option) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceOptionsTx(ctx, tx, id, options); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PollRepo) UpdateComplete(ctx context.Context, id string, f poll.UpdateFields, options []poll.Option) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        UPDATE polls SET question = $1, description = $2, expires_at = $3
        WHERE id = $4
    `, f.Question, f.Description, f.ExpiresAt, id)
	if err != nil {
		return err
	}

	if err := replaceOptionsTx(ctx, tx, id, options); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PollRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	return err
}

func replaceOptionsTx(ctx context.Context, tx *sql.Tx, pollID string, options []poll.Option) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, pollID); err != nil {
		return err
	}
	return insertOptions(ctx, tx, pollID, options)
}

func insertOptions(ctx context.Context, tx *sql.Tx, pollID string, options []poll.Option) error {
	query := `
        INSERT INTO poll_options (id, poll_id, label, position)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	for i := range options {
		options[i].ID = uuid.NewString()
		options[i].PollID = pollID
		if err := tx.QueryRowContext(ctx, query,
			options[i].ID, pollID, options[i].Label, options[i].Position,
		).Scan(&options[i].CreatedAt); err != nil {
			return err
		}
	}
	return nil
}
