package model

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

// GameState is treated as an immutable value: every operation that changes
// the game returns a new GameState with its own copy of the board.
type GameState struct {
	Board         Board       `json:"board"`
	CurrentPlayer PlayerColor `json:"currentPlayer"`
	SelectedPiece *Piece      `json:"selectedPiece"`
	PossibleMoves []Position  `json:"possibleMoves"`
	LastMove      *LastMove   `json:"lastMove"`
}

func NewGameState() GameState {
	return GameState{
		Board:         NewBoard(),
		CurrentPlayer: PlayerColorBlack,
		SelectedPiece: nil,
		PossibleMoves: make([]Position, 0),
		LastMove:      nil,
	}
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	out := GameState{
		Board:         s.Board.Clone(),
		CurrentPlayer: s.CurrentPlayer,
		PossibleMoves: append(make([]Position, 0, len(s.PossibleMoves)), s.PossibleMoves...),
	}
	if s.SelectedPiece != nil {
		sel := *s.SelectedPiece
		out.SelectedPiece = &sel
	}
	if s.LastMove != nil {
		last := *s.LastMove
		if last.Captured != nil {
			captured := *last.Captured
			last.Captured = &captured
		}
		out.LastMove = &last
	}
	return out
}

// IsValidMove reports whether the piece on from may move to to in a single
// step. Out of range squares are never valid.
func (s GameState) IsValidMove(from, to Position) bool {
	if !boundaryCheck(from) || !boundaryCheck(to) {
		return false
	}
	piece := s.Board.At(from)
	if piece == nil || piece.Color != s.CurrentPlayer {
		return false
	}

	rowDiff := to.Row - from.Row
	colDiff := abs(to.Col - from.Col)

	if piece.Type != King {
		if rowDiff*piece.Color.forward() <= 0 {
			return false
		}
	}

	if colDiff != abs(rowDiff) || abs(rowDiff) > 2 {
		return false
	}
	if s.Board.At(to) != nil {
		return false
	}

	switch abs(rowDiff) {
	case 1:
		return true
	case 2:
		jumped := s.Board.At(midpoint(from, to))
		return jumped != nil && jumped.Color != piece.Color
	default:
		return false
	}
}

// GetPossibleMoves lists the squares the piece on pos can reach this turn, in
// row direction then column direction order, simple step before jump.
func (s GameState) GetPossibleMoves(pos Position) []Position {
	moves := []Position{}
	piece := s.Board.At(pos)
	if piece == nil || piece.Color != s.CurrentPlayer {
		return moves
	}

	rowDirs := []int{piece.Color.forward()}
	if piece.Type == King {
		rowDirs = []int{-1, 1}
	}

	for _, rowDir := range rowDirs {
		for _, colDir := range []int{-1, 1} {
			for _, dist := range []int{1, 2} {
				target := Position{Row: pos.Row + rowDir*dist, Col: pos.Col + colDir*dist}
				if boundaryCheck(target) && s.IsValidMove(pos, target) {
					moves = append(moves, target)
				}
			}
		}
	}
	return moves
}

// ApplyMove returns the state after moving the piece on from to to, with any
// capture and promotion resolved and the turn handed to the opponent. An
// illegal move returns ErrIllegalMove and s unchanged.
func (s GameState) ApplyMove(from, to Position) (GameState, error) {
	if !s.IsValidMove(from, to) {
		return s, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}

	next := s.Clone()
	piece := next.Board[from.Row][from.Col]
	next.Board[from.Row][from.Col] = nil
	next.Board[to.Row][to.Col] = piece
	piece.Position = to

	last := &LastMove{From: from, To: to}
	if abs(to.Row-from.Row) == 2 {
		jumped := midpoint(from, to)
		next.Board[jumped.Row][jumped.Col] = nil
		last.Captured = &jumped
	}

	if piece.Type == Normal && to.Row == piece.Color.promotionRow() {
		piece.Type = King
		last.Promoted = true
	}

	next.switchTurn()
	next.LastMove = last
	return next, nil
}

// Click feeds one board click through the selection state machine and
// returns the resulting state. Clicks that match nothing leave the board as
// it was.
func (s GameState) Click(pos Position) GameState {
	if !boundaryCheck(pos) {
		return s
	}

	if s.SelectedPiece != nil && containsPosition(s.PossibleMoves, pos) {
		next, err := s.ApplyMove(s.SelectedPiece.Position, pos)
		if err == nil {
			return next
		}
	}

	next := s.Clone()
	next.clearSelection()
	if piece := next.Board.At(pos); piece != nil && piece.Color == next.CurrentPlayer {
		sel := *piece
		next.SelectedPiece = &sel
		next.PossibleMoves = s.GetPossibleMoves(pos)
	}
	return next
}

func (s *GameState) switchTurn() {
	s.CurrentPlayer = s.CurrentPlayer.Opponent()
	s.clearSelection()
}

func (s *GameState) clearSelection() {
	s.SelectedPiece = nil
	s.PossibleMoves = make([]Position, 0)
}

func containsPosition(positions []Position, pos Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}
