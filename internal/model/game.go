package model

import (
	"encoding/json"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// Observer receives state pushes. Live sockets are registered wrapped in a
// ws.SerialConn so other writers on the same socket do not interleave.
type Observer interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections watching a specific game
type GameConnections struct {
	connections map[string]Observer // connID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

// Game holds one live board. Every click or move is applied under mu, so
// events from different connections are seen in a single order.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
}

func NewGame(id string) *Game {
	return RestoreGame(id, NewGameState())
}

// RestoreGame wraps a previously saved state.
func RestoreGame(id string, state GameState) *Game {
	return &Game{
		ID:          id,
		state:       state,
		connections: NewGameConnections(),
	}
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.Clone()
}

func (g *Game) GetPossibleMoves(pos Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.GetPossibleMoves(pos)
}

// Click applies a click and reports whether it completed a move.
func (g *Game) Click(pos Position) (GameState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := g.state.CurrentPlayer
	g.state = g.state.Click(pos)
	moved := g.state.CurrentPlayer != before
	if moved {
		log.Debugf("game %s: %s moved %s to %s", g.ID, before, g.state.LastMove.From, g.state.LastMove.To)
	}
	g.broadcastState()
	return g.state.Clone(), moved
}

func (g *Game) Move(from, to Position) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := g.state.ApplyMove(from, to)
	if err != nil {
		return GameState{}, err
	}
	g.state = next
	g.broadcastState()
	return g.state.Clone(), nil
}

// Reset puts the opening position back on the board.
func (g *Game) Reset() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = NewGameState()
	g.broadcastState()
	return g.state.Clone()
}

func (g *Game) RegisterConnection(connID string, conn Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.connections.mu.Lock()
	g.connections.connections[connID] = conn
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection %s", g.ID, connID)

	// new observers get the current board straight away
	g.sendState(connID, conn)
}

func (g *Game) UnregisterConnection(connID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[connID]; exists {
		delete(g.connections.connections, connID)
		log.Debugf("game %s: unregistered connection %s", g.ID, connID)
	}
}

// CloseConnections drops every observer, closing their sockets.
func (g *Game) CloseConnections() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for connID, conn := range g.connections.connections {
		if err := conn.Close(); err != nil {
			log.Warnf("game %s: close connection %s: %v", g.ID, connID, err)
		}
		delete(g.connections.connections, connID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// broadcastState pushes the current state to every observer. Callers hold
// g.mu so pushes go out in the order moves were applied.
func (g *Game) broadcastState() {
	g.connections.mu.RLock()
	activeConnections := make(map[string]Observer, len(g.connections.connections))
	for connID, conn := range g.connections.connections {
		activeConnections[connID] = conn
	}
	g.connections.mu.RUnlock()

	for connID, conn := range activeConnections {
		g.sendState(connID, conn)
	}
}

func (g *Game) sendState(connID string, conn Observer) {
	payload, err := json.Marshal(g.state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	if err := conn.WriteJSON(ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(payload),
	}); err != nil {
		log.Warnf("game %s: failed to send state to %s: %v", g.ID, connID, err)
		g.UnregisterConnection(connID)
	}
}
