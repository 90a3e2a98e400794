package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"truthordare/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
	player_id TEXT PRIMARY KEY,
	score     INTEGER NOT NULL DEFAULT 0
);`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and creates the tables
func OpenSQLite(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer keeps commits serialized across sessions
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, sessionID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(state), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if sess.ChangeCounts == nil {
		sess.ChangeCounts = make(map[string]int)
	}
	if sess.RecentPrompts == nil {
		sess.RecentPrompts = make(map[string][]string)
	}
	return &sess, nil
}

// Commit upserts the session and applies the deltas in one transaction
func (s *sqliteStore) Commit(ctx context.Context, sess *model.Session, deltas ...model.ScoreDelta) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		sess.ID, string(state), time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	for _, d := range deltas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scores (player_id, score) VALUES (?, ?)
			 ON CONFLICT(player_id) DO UPDATE SET score = score + excluded.score`,
			d.PlayerID, d.Points,
		); err != nil {
			return fmt.Errorf("apply delta for %s: %w", d.PlayerID, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (s *sqliteStore) SessionIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *sqliteStore) Score(ctx context.Context, playerID string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM scores WHERE player_id = ?`, playerID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return score, err
}

func (s *sqliteStore) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, score FROM scores ORDER BY score DESC, player_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rank(entries, 0), nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
