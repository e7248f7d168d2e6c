package replaystore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/tabletop/internal/canon"
	"github.com/roach88/tabletop/internal/playback"
)

// ErrNotFound is returned when no session matches.
var ErrNotFound = errors.New("replaystore: session not found")

// Session is a stored replay artifact.
type Session struct {
	ID       string
	Artifact playback.Artifact

	// Digests[i] is the state digest recorded after i answers; Digests[0]
	// is the state before the first answer.
	Digests []string
}

// Summary describes a stored session without its log.
type Summary struct {
	ID     string `json:"id"`
	Game   string `json:"game"`
	Seed   uint64 `json:"seed"`
	Steps  int    `json:"steps"`
	Digest string `json:"digest"`
}

// Save stores an artifact with its step digests. digests must hold one
// entry per step plus the initial state (len(art.Log)+1).
func (s *Store) Save(ctx context.Context, id string, art playback.Artifact, digests []string) error {
	if len(digests) != len(art.Log)+1 {
		return fmt.Errorf("save session %s: %d digests for %d answers", id, len(digests), len(art.Log))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, game, seed, steps, first_digest, final_digest, seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM sessions))
	`, id, art.Game, strconv.FormatUint(art.Seed, 10), len(art.Log), digests[0], digests[len(digests)-1])
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO answers (session_id, step, requester, answer, digest)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	defer stmt.Close()

	for i, e := range art.Log {
		answer, err := canon.Marshal(e.Answer)
		if err != nil {
			return fmt.Errorf("save session %s step %d: %w", id, i, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, e.Requester, string(answer), digests[i+1]); err != nil {
			return fmt.Errorf("save session %s step %d: %w", id, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Load reads a session by id.
func (s *Store) Load(ctx context.Context, id string) (Session, error) {
	var sess Session
	var seed, first string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, game, seed, first_digest FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Artifact.Game, &seed, &first)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("load %s: %w", id, err)
	}
	if sess.Artifact.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Session{}, fmt.Errorf("load %s: bad seed %q: %w", id, seed, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT requester, answer, digest FROM answers
		WHERE session_id = ?
		ORDER BY step ASC
	`, id)
	if err != nil {
		return Session{}, fmt.Errorf("load %s answers: %w", id, err)
	}
	defer rows.Close()

	sess.Artifact.Log = []playback.Entry{}
	sess.Digests = []string{first}
	for rows.Next() {
		var e playback.Entry
		var answer, digest string
		if err := rows.Scan(&e.Requester, &answer, &digest); err != nil {
			return Session{}, fmt.Errorf("load %s answers: %w", id, err)
		}
		if err := json.Unmarshal([]byte(answer), &e.Answer); err != nil {
			return Session{}, fmt.Errorf("load %s answer %d: %w", id, len(sess.Artifact.Log), err)
		}
		sess.Artifact.Log = append(sess.Artifact.Log, e)
		sess.Digests = append(sess.Digests, digest)
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("load %s answers: %w", id, err)
	}
	return sess, nil
}

// Latest loads the most recently saved session.
func (s *Store) Latest(ctx context.Context) (Session, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM sessions ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("latest: %w", ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("latest: %w", err)
	}
	return s.Load(ctx, id)
}

// List summarizes stored sessions, oldest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game, seed, steps, final_digest FROM sessions ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var seed string
		if err := rows.Scan(&sum.ID, &sum.Game, &seed, &sum.Steps, &sum.Digest); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if sum.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("list sessions: bad seed %q: %w", seed, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a session and its answers.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}
