package model

// WSClick is a single click on the board, as sent by a client.
type WSClick struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c WSClick) Position() Position {
	return Position{Row: c.Row, Col: c.Col}
}

// WSMove asks for a move to be applied directly, bypassing selection.
type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// LastMove describes the most recently applied move so a renderer can
// highlight it.
type LastMove struct {
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Captured *Position `json:"captured"`
	Promoted bool      `json:"promoted"`
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// midpoint returns the square jumped over by a two-row move.
func midpoint(from, to Position) Position {
	return Position{
		Row: from.Row + (to.Row-from.Row)/2,
		Col: from.Col + (to.Col-from.Col)/2,
	}
}
