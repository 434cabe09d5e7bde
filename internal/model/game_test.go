package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/benbeisheim/checkers-backend/internal/ws"
)

type fakeObserver struct {
	mu       sync.Mutex
	messages []ws.Message
	failWith error
	closed   bool
}

func (f *fakeObserver) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeObserver) lastState(t *testing.T) GameState {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatal("observer received no messages")
	}
	msg := f.messages[len(f.messages)-1]
	if msg.Type != ws.MessageTypeGameState {
		t.Fatalf("message type = %q, want %q", msg.Type, ws.MessageTypeGameState)
	}
	var state GameState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func (f *fakeObserver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func TestGameRegisterConnectionSendsState(t *testing.T) {
	game := NewGame("g1")
	obs := &fakeObserver{}

	game.RegisterConnection("c1", obs)

	if game.ConnectionCount() != 1 {
		t.Fatalf("connections = %d, want 1", game.ConnectionCount())
	}
	if state := obs.lastState(t); state.CurrentPlayer != PlayerColorBlack {
		t.Fatalf("current player = %q, want %q", state.CurrentPlayer, PlayerColorBlack)
	}
}

func TestGameClickBroadcastsAndReportsMove(t *testing.T) {
	game := NewGame("g1")
	obs := &fakeObserver{}
	game.RegisterConnection("c1", obs)

	state, moved := game.Click(Position{Row: 2, Col: 1})
	if moved {
		t.Fatal("selecting a piece should not report a move")
	}
	if state.SelectedPiece == nil {
		t.Fatal("expected a selection")
	}

	state, moved = game.Click(Position{Row: 3, Col: 2})
	if !moved {
		t.Fatal("clicking a candidate should report a move")
	}
	if state.CurrentPlayer != PlayerColorWhite {
		t.Fatalf("current player = %q, want %q", state.CurrentPlayer, PlayerColorWhite)
	}

	if obs.count() != 3 {
		t.Fatalf("messages = %d, want 3", obs.count())
	}
	pushed := obs.lastState(t)
	if pushed.CurrentPlayer != PlayerColorWhite || pushed.Board.At(Position{Row: 3, Col: 2}) == nil {
		t.Fatalf("pushed state does not reflect the move:\n%s", pushed.Board.String())
	}
}

func TestGameMoveRejectsIllegal(t *testing.T) {
	game := NewGame("g1")
	obs := &fakeObserver{}
	game.RegisterConnection("c1", obs)

	if _, err := game.Move(Position{Row: 2, Col: 1}, Position{Row: 4, Col: 3}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("error = %v, want %v", err, ErrIllegalMove)
	}
	if obs.count() != 1 {
		t.Fatalf("illegal move broadcast a state; messages = %d", obs.count())
	}
	if game.GetState().CurrentPlayer != PlayerColorBlack {
		t.Fatal("illegal move switched players")
	}
}

func TestGameGetStateIsACopy(t *testing.T) {
	game := NewGame("g1")
	state := game.GetState()
	state.Board[2][1] = nil

	if game.GetState().Board.At(Position{Row: 2, Col: 1}) == nil {
		t.Fatal("mutating a returned state changed the game")
	}
}

func TestGameReset(t *testing.T) {
	game := NewGame("g1")
	if _, err := game.Move(Position{Row: 2, Col: 1}, Position{Row: 3, Col: 0}); err != nil {
		t.Fatalf("move: %v", err)
	}

	state := game.Reset()
	if state.CurrentPlayer != PlayerColorBlack || state.Board.String() != NewBoard().String() {
		t.Fatalf("reset state =\n%s", state.Board.String())
	}
}

func TestGameDropsFailingObserver(t *testing.T) {
	game := NewGame("g1")
	good := &fakeObserver{}
	bad := &fakeObserver{}
	game.RegisterConnection("good", good)
	game.RegisterConnection("bad", bad)

	bad.mu.Lock()
	bad.failWith = errors.New("broken pipe")
	bad.mu.Unlock()

	game.Click(Position{Row: 2, Col: 1})

	if game.ConnectionCount() != 1 {
		t.Fatalf("connections = %d, want 1", game.ConnectionCount())
	}
	if good.count() != 2 {
		t.Fatalf("good observer messages = %d, want 2", good.count())
	}
}

func TestGameUnregisterAndClose(t *testing.T) {
	game := NewGame("g1")
	a := &fakeObserver{}
	b := &fakeObserver{}
	game.RegisterConnection("a", a)
	game.RegisterConnection("b", b)

	game.UnregisterConnection("a")
	game.UnregisterConnection("missing")
	if game.ConnectionCount() != 1 {
		t.Fatalf("connections = %d, want 1", game.ConnectionCount())
	}

	game.CloseConnections()
	if game.ConnectionCount() != 0 {
		t.Fatalf("connections = %d, want 0", game.ConnectionCount())
	}
	if !b.closed {
		t.Fatal("expected remaining observer to be closed")
	}
	if a.closed {
		t.Fatal("unregistered observer should not be closed")
	}
}

func TestGameSerializesConcurrentClicks(t *testing.T) {
	game := NewGame("g1")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			game.Click(Position{Row: 2, Col: 1 + 2*(i%4)})
		}(i)
	}
	wg.Wait()

	state := game.GetState()
	if state.CurrentPlayer != PlayerColorBlack {
		t.Fatal("selection clicks alone should never switch players")
	}
	if state.Board.Count(PlayerColorBlack) != 12 {
		t.Fatal("selection clicks changed the board")
	}
}
