package model

// CellView is one square of a BoardView.
type CellView struct {
	Row          int    `json:"row"`
	Col          int    `json:"col"`
	Dark         bool   `json:"dark"`
	Piece        *Piece `json:"piece"`
	Selected     bool   `json:"selected"`
	PossibleMove bool   `json:"possibleMove"`
}

// BoardView flattens a GameState into row-major cells so a renderer can
// address squares by index (row*8 + col) without knowing the rules.
type BoardView struct {
	Cells         []CellView  `json:"cells"`
	CurrentPlayer PlayerColor `json:"currentPlayer"`
	BlackPieces   int         `json:"blackPieces"`
	WhitePieces   int         `json:"whitePieces"`
	LastMove      *LastMove   `json:"lastMove"`
}

func NewBoardView(state GameState) BoardView {
	view := BoardView{
		Cells:         make([]CellView, 0, BoardSize*BoardSize),
		CurrentPlayer: state.CurrentPlayer,
		BlackPieces:   state.Board.Count(PlayerColorBlack),
		WhitePieces:   state.Board.Count(PlayerColorWhite),
		LastMove:      state.LastMove,
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pos := Position{Row: row, Col: col}
			cell := CellView{
				Row:          row,
				Col:          col,
				Dark:         pos.IsDark(),
				Piece:        state.Board[row][col],
				PossibleMove: state.SelectedPiece != nil && containsPosition(state.PossibleMoves, pos),
			}
			if state.SelectedPiece != nil && state.SelectedPiece.Position == pos {
				cell.Selected = true
			}
			view.Cells = append(view.Cells, cell)
		}
	}
	return view
}
