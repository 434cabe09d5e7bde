package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, ok := c.Locals("wsGameID").(string)
	if !ok || gameID == "" {
		gameID = c.Params("gameId")
	}
	ctx := context.Background()
	// broadcasts and error replies share this writer
	conn := ws.NewSerialConn(c)

	// Register this connection with the game; it receives the current state
	connID, err := wsc.gameService.RegisterConnection(ctx, gameID, conn)
	if err != nil {
		log.Warnf("failed to register connection for game %s: %v", gameID, err)
		wsc.sendError(conn, err.Error())
		conn.Close()
		return
	}
	log.Infof("websocket %s joined game %s", connID, gameID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("websocket %s read error: %v", connID, err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, "malformed message")
			continue
		}

		if err := wsc.handleMessage(ctx, gameID, msg); err != nil {
			log.Debugf("websocket %s: %v", connID, err)
			wsc.sendError(conn, err.Error())
		}
	}

	wsc.gameService.UnregisterConnection(gameID, connID)
	log.Infof("websocket %s left game %s", connID, gameID)
}

// Handle different types of incoming messages. Resulting states reach the
// client through the game's broadcast, not as a reply.
func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeClick:
		var click model.WSClick
		if err := json.Unmarshal(msg.Payload, &click); err != nil {
			return fmt.Errorf("invalid click payload: %w", err)
		}
		_, _, err := wsc.gameService.HandleClick(ctx, gameID, click)
		return err

	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		_, err := wsc.gameService.HandleMove(ctx, gameID, move)
		return err

	case ws.MessageTypeReset:
		_, err := wsc.gameService.ResetGame(ctx, gameID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(conn ws.JSONConn, errorMsg string) {
	if err := conn.WriteJSON(ws.NewErrorMessage(errorMsg)); err != nil {
		log.Debugf("failed to send error message: %v", err)
	}
}
