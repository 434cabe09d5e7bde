package model

type PlayerColor string

const (
	PlayerColorBlack PlayerColor = "black"
	PlayerColorWhite PlayerColor = "white"
)

// Opponent returns the color that moves after c.
func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorBlack {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}

// forward is the row direction a normal piece of this color travels in.
func (c PlayerColor) forward() int {
	if c == PlayerColorBlack {
		return 1
	}
	return -1
}

// promotionRow is the far rank where a normal piece becomes a king.
func (c PlayerColor) promotionRow() int {
	if c == PlayerColorBlack {
		return BoardSize - 1
	}
	return 0
}
