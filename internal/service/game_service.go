package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(ctx context.Context) (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(ctx, gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(ctx, gameID)
}

func (gs *GameService) GetBoardView(ctx context.Context, gameID string) (model.BoardView, error) {
	state, err := gs.gameManager.GetGameState(ctx, gameID)
	if err != nil {
		return model.BoardView{}, err
	}
	return model.NewBoardView(state), nil
}

func (gs *GameService) GetPossibleMoves(ctx context.Context, gameID string, pos model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.GetPossibleMoves(pos), nil
}

// HandleClick runs a click through the selection state machine and reports
// whether it completed a move.
func (gs *GameService) HandleClick(ctx context.Context, gameID string, click model.WSClick) (model.GameState, bool, error) {
	return gs.gameManager.Click(ctx, gameID, click.Position())
}

func (gs *GameService) HandleMove(ctx context.Context, gameID string, move model.WSMove) (model.GameState, error) {
	return gs.gameManager.MakeMove(ctx, gameID, move)
}

func (gs *GameService) ResetGame(ctx context.Context, gameID string) (model.GameState, error) {
	return gs.gameManager.ResetGame(ctx, gameID)
}

func (gs *GameService) DeleteGame(ctx context.Context, gameID string) error {
	return gs.gameManager.DeleteGame(ctx, gameID)
}

// RegisterConnection attaches an observer and returns the id it was
// registered under.
func (gs *GameService) RegisterConnection(ctx context.Context, gameID string, conn model.Observer) (string, error) {
	connID := uuid.New().String()
	if err := gs.gameManager.RegisterConnection(ctx, gameID, connID, conn); err != nil {
		return "", err
	}
	return connID, nil
}

func (gs *GameService) UnregisterConnection(gameID string, connID string) {
	gs.gameManager.UnregisterConnection(gameID, connID)
}
