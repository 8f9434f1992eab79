// Package sqlite persists priorities and the match log in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

// Store keeps the per-player priority counters and the canonical match log
// in one SQLite file.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open creates the database file if needed and runs migrations.
func Open(path string, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single writer keeps the upserts serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Debug("sqlite store ready", zap.String("path", cleanPath))
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS priorities (
			player TEXT PRIMARY KEY,
			times_queued INTEGER NOT NULL DEFAULT 0,
			last_game_at INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			blue_tank TEXT NOT NULL,
			blue_dps1 TEXT NOT NULL,
			blue_dps2 TEXT NOT NULL,
			blue_support1 TEXT NOT NULL,
			blue_support2 TEXT NOT NULL,
			red_tank TEXT NOT NULL,
			red_dps1 TEXT NOT NULL,
			red_dps2 TEXT NOT NULL,
			red_support1 TEXT NOT NULL,
			red_support2 TEXT NOT NULL,
			captain1 TEXT NOT NULL,
			captain2 TEXT NOT NULL,
			winner TEXT NOT NULL,
			recorded_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_recorded_at ON games(recorded_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Priority operations

func (s *Store) Get(ctx context.Context, player string) (storage.Priority, error) {
	p := storage.Priority{Player: player}
	err := s.db.QueryRowContext(ctx,
		`SELECT times_queued, last_game_at FROM priorities WHERE player = ?`, player,
	).Scan(&p.TimesQueued, &p.LastGameAt)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return storage.Priority{}, fmt.Errorf("get priority %s: %w", player, err)
	}
	return p, nil
}

func (s *Store) IncrementAll(ctx context.Context, players []string) error {
	return s.batch(ctx, "increment priorities", players,
		`INSERT INTO priorities (player, times_queued, last_game_at) VALUES (?, 1, 0)
		 ON CONFLICT(player) DO UPDATE SET times_queued = times_queued + 1`,
		func(p string) []any { return []any{p} },
	)
}

func (s *Store) Reset(ctx context.Context, players []string, now time.Time) error {
	ts := now.Unix()
	return s.batch(ctx, "reset priorities", players,
		`INSERT INTO priorities (player, times_queued, last_game_at) VALUES (?, 0, ?)
		 ON CONFLICT(player) DO UPDATE SET times_queued = 0, last_game_at = excluded.last_game_at`,
		func(p string) []any { return []any{p, ts} },
	)
}

// batch runs stmt once per player inside one transaction.
func (s *Store) batch(ctx context.Context, op string, players []string, stmt string, args func(string) []any) error {
	if len(players) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer prepared.Close()

	for _, p := range players {
		if _, err := prepared.ExecContext(ctx, args(p)...); err != nil {
			return fmt.Errorf("%s: %s: %w", op, p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// Match log operations

func (s *Store) Log(ctx context.Context, rec storage.GameRecord) error {
	slots, err := storage.SlotsOf(rec)
	if err != nil {
		return err
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	args := make([]any, 0, 15)
	args = append(args, rec.ID)
	for _, p := range slots {
		args = append(args, p)
	}
	args = append(args, rec.Captain1, rec.Captain2, string(rec.Winner), rec.RecordedAt.Unix())

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (
			id,
			blue_tank, blue_dps1, blue_dps2, blue_support1, blue_support2,
			red_tank, red_dps1, red_dps2, red_support1, red_support2,
			captain1, captain2, winner, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("log game %s: %w", rec.ID, err)
	}
	return nil
}

// Games returns the newest logged games first.
func (s *Store) Games(ctx context.Context, limit int) ([]storage.GameRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,
			blue_tank, blue_dps1, blue_dps2, blue_support1, blue_support2,
			red_tank, red_dps1, red_dps2, red_support1, red_support2,
			captain1, captain2, winner, recorded_at
		 FROM games ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []storage.GameRecord
	for rows.Next() {
		var (
			rec    storage.GameRecord
			slots  storage.Slots
			winner string
			at     int64
		)
		dest := []any{&rec.ID}
		for i := range slots {
			dest = append(dest, &slots[i])
		}
		dest = append(dest, &rec.Captain1, &rec.Captain2, &winner, &at)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		rec.Team1, rec.Team2 = slots.Teams()
		rec.Winner = match.Winner(winner)
		rec.RecordedAt = time.Unix(at, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}
