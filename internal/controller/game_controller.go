package controller

import (
	"errors"
	"strconv"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.UserContext(), gameID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetBoardView(c *fiber.Ctx) error {
	view, err := gc.gameService.GetBoardView(c.UserContext(), gameID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) GetPossibleMoves(c *fiber.Ctx) error {
	row, rowErr := intQuery(c, "row")
	col, colErr := intQuery(c, "col")
	if rowErr != nil || colErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col query parameters are required integers",
		})
	}

	moves, err := gc.gameService.GetPossibleMoves(c.UserContext(), gameID(c), model.Position{Row: row, Col: col})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(moves)
}

func (gc *GameController) Click(c *fiber.Ctx) error {
	var click model.WSClick
	if err := c.BodyParser(&click); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid click body",
		})
	}

	state, moved, err := gc.gameService.HandleClick(c.UserContext(), gameID(c), click)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"state": state,
		"moved": moved,
	})
}

func (gc *GameController) Move(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	state, err := gc.gameService.HandleMove(c.UserContext(), gameID(c), move)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	state, err := gc.gameService.ResetGame(c.UserContext(), gameID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.UserContext(), gameID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// gameID prefers the id normalized by middleware.EnsureGameID.
func gameID(c *fiber.Ctx) string {
	if id, ok := c.Locals("gameID").(string); ok {
		return id
	}
	return c.Params("gameId")
}

func intQuery(c *fiber.Ctx, key string) (int, error) {
	return strconv.Atoi(c.Query(key))
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, model.ErrIllegalMove):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
}
