// Package sqlite provides a SQLite-backed game snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/storage"
	"github.com/benbeisheim/checkers-backend/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists game snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.GameStore = (*Store)(nil)

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveGame inserts or replaces the snapshot for gameID.
func (s *Store) SaveGame(ctx context.Context, gameID string, state model.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	now := s.now().UTC().UnixMilli()
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO games (id, current_player, state_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   current_player = excluded.current_player,
		   state_json = excluded.state_json,
		   updated_at = excluded.updated_at`,
		gameID,
		string(state.CurrentPlayer),
		payload,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", gameID, err)
	}
	return nil
}

// LoadGame returns the latest snapshot for gameID.
func (s *Store) LoadGame(ctx context.Context, gameID string) (model.GameState, error) {
	if err := ctx.Err(); err != nil {
		return model.GameState{}, err
	}
	if s == nil || s.sqlDB == nil {
		return model.GameState{}, fmt.Errorf("storage is not configured")
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT state_json FROM games WHERE id = ?`, strings.TrimSpace(gameID)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GameState{}, storage.ErrNotFound
	}
	if err != nil {
		return model.GameState{}, fmt.Errorf("load game %s: %w", gameID, err)
	}

	var state model.GameState
	if err := json.Unmarshal(payload, &state); err != nil {
		return model.GameState{}, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	if state.PossibleMoves == nil {
		state.PossibleMoves = make([]model.Position, 0)
	}
	return state, nil
}

// DeleteGame removes the snapshot for gameID. Deleting an unknown game
// returns storage.ErrNotFound.
func (s *Store) DeleteGame(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, strings.TrimSpace(gameID))
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
