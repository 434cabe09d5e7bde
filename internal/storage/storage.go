// Package storage defines persistence contracts for game snapshots.
package storage

import (
	"context"
	"errors"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

// ErrNotFound indicates a requested game has no saved snapshot.
var ErrNotFound = errors.New("record not found")

// GameStore persists the latest state of each game.
type GameStore interface {
	SaveGame(ctx context.Context, gameID string, state model.GameState) error
	LoadGame(ctx context.Context, gameID string) (model.GameState, error)
	DeleteGame(ctx context.Context, gameID string) error
	Close() error
}
