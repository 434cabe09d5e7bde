package model

import (
	"fmt"
	"strings"
)

const BoardSize = 8

type PieceType string

const (
	Normal PieceType = "normal"
	King   PieceType = "king"
)

type Piece struct {
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	Position Position    `json:"position"`
}

func (p Piece) notation() byte {
	var c byte = 'b'
	if p.Color == PlayerColorWhite {
		c = 'w'
	}
	if p.Type == King {
		c -= 'a' - 'A'
	}
	return c
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// IsDark reports whether the square is one pieces can stand on.
func (p Position) IsDark() bool {
	return (p.Row+p.Col)%2 == 1
}

func boundaryCheck(p Position) bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Board is indexed [row][col]. A non-nil cell's piece always carries that
// cell's position.
type Board [BoardSize][BoardSize]*Piece

// NewBoard returns the opening position: black on the dark squares of rows
// 0-2, white on the dark squares of rows 5-7.
func NewBoard() Board {
	var board Board
	for row := 0; row < BoardSize; row++ {
		var color PlayerColor
		switch {
		case row < 3:
			color = PlayerColorBlack
		case row > 4:
			color = PlayerColorWhite
		default:
			continue
		}
		for col := 0; col < BoardSize; col++ {
			pos := Position{Row: row, Col: col}
			if pos.IsDark() {
				board[row][col] = &Piece{Type: Normal, Color: color, Position: pos}
			}
		}
	}
	return board
}

// At returns the piece on pos, or nil for an empty or out of range square.
func (b Board) At(pos Position) *Piece {
	if !boundaryCheck(pos) {
		return nil
	}
	return b[pos.Row][pos.Col]
}

// Clone copies the board along with every piece on it.
func (b Board) Clone() Board {
	var out Board
	for row := range b {
		for col, piece := range b[row] {
			if piece != nil {
				cp := *piece
				out[row][col] = &cp
			}
		}
	}
	return out
}

// Count returns how many pieces of the given color remain.
func (b Board) Count(color PlayerColor) int {
	n := 0
	for row := range b {
		for _, piece := range b[row] {
			if piece != nil && piece.Color == color {
				n++
			}
		}
	}
	return n
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pos := Position{Row: row, Col: col}
			switch piece := b[row][col]; {
			case piece != nil:
				sb.WriteByte(piece.notation())
			case pos.IsDark():
				sb.WriteByte('.')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
