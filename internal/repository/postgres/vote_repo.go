package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"pollshare/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote) error {
	v.ID = uuid.NewString()
	query := `
        INSERT INTO votes (id, poll_id, option_id, voter_id)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	err := r.db.QueryRowContext(ctx, query, v.ID, v.PollID, v.OptionID, v.VoterID).
		Scan(&v.CreatedAt)
	if err != nil {
		// the partial unique index and the composite foreign key fire here
		// when two requests race past the service pre-checks
		if isUniqueViolation(err) {
			return vote.ErrAlreadyVoted
		}
		if isForeignKeyViolation(err) {
			return vote.ErrOptionNotInPoll
		}
		return err
	}
	return nil
}

func (r *VoteRepo) OptionInPoll(ctx context.Context, optionID, pollID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM poll_options WHERE id = $1 AND poll_id = $2
        )
    `, optionID, pollID).Scan(&ok)
	return ok, err
}

func (r *VoteRepo) HasUserVoted(ctx context.Context, pollID, voterID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM votes WHERE poll_id = $1 AND voter_id = $2
        )
    `, pollID, voterID).Scan(&ok)
	return ok, err
}

// CountsForPolls reads the option_vote_counts view for all requested polls
// in one query. The view recomputes from the vote rows on every read.
func (r *VoteRepo) CountsForPolls(ctx context.Context, pollIDs []string) (map[string]map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT option_id, poll_id, votes_count
        FROM option_vote_counts
        WHERE poll_id = ANY($1)
    `, pollIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]map[string]int64, len(pollIDs))
	for rows.Next() {
		var optionID, pollID string
		var c int64
		if err := rows.Scan(&optionID, &pollID, &c); err != nil {
			return nil, err
		}
		if res[pollID] == nil {
			res[pollID] = make(map[string]int64)
		}
		res[pollID][optionID] = c
	}

	return res, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
