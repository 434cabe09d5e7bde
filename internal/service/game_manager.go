package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/storage"
	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameManager keeps the live games. When a store is configured every state
// change is snapshotted and games missing from memory are restored from it.
type GameManager struct {
	games map[string]*model.Game
	store storage.GameStore
	mu    sync.RWMutex
}

// NewGameManager returns a manager; store may be nil for memory-only games.
func NewGameManager(store storage.GameStore) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		store: store,
	}
}

func (gm *GameManager) CreateGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	game := model.NewGame(gameID)
	gm.games[gameID] = game
	gm.snapshot(ctx, game.ID, game.GetState())
	log.Infof("created game %s", gameID)
	return game, nil
}

func (gm *GameManager) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	// Loading under the write lock keeps a restore from overlapping a delete.
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}

	state, err := gm.store.LoadGame(ctx, gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}
	game = model.RestoreGame(gameID, state)
	gm.games[gameID] = game
	log.Infof("restored game %s", gameID)
	return game, nil
}

func (gm *GameManager) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) Click(ctx context.Context, gameID string, pos model.Position) (model.GameState, bool, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, false, err
	}

	state, moved := game.Click(pos)
	if err := gm.save(ctx, game, state); err != nil {
		return model.GameState{}, false, err
	}
	return state, moved, nil
}

func (gm *GameManager) MakeMove(ctx context.Context, gameID string, move model.WSMove) (model.GameState, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, err
	}

	state, err := game.Move(move.From, move.To)
	if err != nil {
		return model.GameState{}, err
	}
	if err := gm.save(ctx, game, state); err != nil {
		return model.GameState{}, err
	}
	return state, nil
}

func (gm *GameManager) ResetGame(ctx context.Context, gameID string) (model.GameState, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, err
	}

	state := game.Reset()
	if err := gm.save(ctx, game, state); err != nil {
		return model.GameState{}, err
	}
	return state, nil
}

// DeleteGame drops the game from memory and the store. The write lock is
// held across both so a concurrent save or restore cannot bring it back.
func (gm *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	gm.mu.Lock()
	game, inMemory := gm.games[gameID]
	delete(gm.games, gameID)
	err := gm.deleteSnapshot(ctx, gameID)
	gm.mu.Unlock()

	if inMemory {
		game.CloseConnections()
	}
	if errors.Is(err, storage.ErrNotFound) {
		if inMemory {
			return nil
		}
		return ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	return nil
}

// deleteSnapshot removes the stored copy. Callers hold gm.mu.
func (gm *GameManager) deleteSnapshot(ctx context.Context, gameID string) error {
	if gm.store == nil {
		return storage.ErrNotFound
	}
	return gm.store.DeleteGame(ctx, gameID)
}

func (gm *GameManager) RegisterConnection(ctx context.Context, gameID string, connID string, conn model.Observer) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	game.RegisterConnection(connID, conn)
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID string, connID string) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}

	game.UnregisterConnection(connID)
}

// save snapshots state for a game that is still live. A game deleted while
// the transition was in flight reports ErrGameNotFound and is not written.
func (gm *GameManager) save(ctx context.Context, game *model.Game, state model.GameState) error {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	if gm.games[game.ID] != game {
		log.Debugf("game %s deleted before its snapshot", game.ID)
		return ErrGameNotFound
	}
	gm.snapshot(ctx, game.ID, state)
	return nil
}

// snapshot writes state to the store. Callers hold gm.mu. A failed write is
// logged; the live game keeps the transition either way.
func (gm *GameManager) snapshot(ctx context.Context, gameID string, state model.GameState) {
	if gm.store == nil {
		return
	}
	if err := gm.store.SaveGame(ctx, gameID, state); err != nil {
		log.Errorf("snapshot game %s: %v", gameID, err)
	}
}
