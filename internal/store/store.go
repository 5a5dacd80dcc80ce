// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/blockfall/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the EEPROM image and game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS eeprom_cells (
			addr INTEGER PRIMARY KEY,
			value INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			rows_cleared INTEGER NOT NULL,
			interval_ms INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			initials TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordGame stores a finished game.
func (s *Store) RecordGame(ctx context.Context, rec model.GameRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (started_at, ended_at, score, rows_cleared, interval_ms, rank, initials, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		int64(rec.Score),
		rec.Rows,
		rec.IntervalMs,
		rec.Rank,
		rec.Initials,
		rec.EndedAt.Sub(rec.StartedAt).Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	return res.LastInsertId()
}

// ListGames returns finished games oldest first, filtered by cfg. With Last
// set, only the most recent Last games are returned.
func (s *Store) ListGames(ctx context.Context, cfg model.HistoryConfig) ([]model.GameAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, score, rows_cleared, duration_ms, rank, initials
		FROM games
		WHERE %s
		ORDER BY ended_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameAggregate
	for rows.Next() {
		var agg model.GameAggregate
		var endedAt string
		var points int64
		if err := rows.Scan(&agg.GameID, &endedAt, &points, &agg.Rows, &agg.DurationMs, &agg.Rank, &agg.Initials); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Score = uint32(points)
		games = append(games, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(games)-1; i < j; i, j = i+1, j-1 {
		games[i], games[j] = games[j], games[i]
	}
	return games, nil
}
