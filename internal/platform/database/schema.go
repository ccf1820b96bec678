package database

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Idempotent; safe to run on every startup.
//
// The constraints here are the real enforcement point for poll/vote
// consistency: anonymous voters hit the tables concurrently and bypass any
// in-process pre-checks, so uniqueness and referential rules must live in
// the database.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS polls (
    id UUID PRIMARY KEY,
    question TEXT NOT NULL CHECK (btrim(question) <> ''),
    description TEXT,
    owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    expires_at TIMESTAMPTZ,
    CHECK (expires_at IS NULL OR expires_at > created_at)
);

CREATE INDEX IF NOT EXISTS idx_polls_owner_id ON polls(owner_id);

CREATE TABLE IF NOT EXISTS poll_options (
    id UUID PRIMARY KEY,
    poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    label TEXT NOT NULL CHECK (btrim(label) <> ''),
    position INT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (poll_id, label),
    -- supports the composite foreign key from votes
    UNIQUE (id, poll_id)
);

CREATE INDEX IF NOT EXISTS idx_poll_options_poll_id ON poll_options(poll_id);

CREATE TABLE IF NOT EXISTS votes (
    id UUID PRIMARY KEY,
    poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_id UUID NOT NULL,
    voter_id UUID REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    -- an option can only be voted on under its own poll
    FOREIGN KEY (option_id, poll_id) REFERENCES poll_options (id, poll_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_id ON votes(poll_id);
CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id);

-- one vote per authenticated user per poll; NULL voter_id (anonymous) is
-- exempt on purpose
CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_poll_voter
    ON votes(poll_id, voter_id) WHERE voter_id IS NOT NULL;

CREATE OR REPLACE VIEW option_vote_counts AS
    SELECT o.id AS option_id, o.poll_id, COUNT(v.id) AS votes_count
    FROM poll_options o
    LEFT JOIN votes v ON v.option_id = o.id
    GROUP BY o.id, o.poll_id;
`
