package game

import "fmt"

// Move is a player action. The set of variants is closed: only the types in
// this file implement it.
type Move interface {
	// Target is the cell the move acts on.
	Target() Position
	isMove()
}

// SudokuMove writes Value into a Sudoku cell; 0 clears it.
type SudokuMove struct {
	Position Position
	Value    int
}

// TangoMove writes a symbol into a Tango cell; Empty clears it.
type TangoMove struct {
	Position Position
	Value    CellValue
}

// ZipMove extends the Zip path by one cell.
type ZipMove struct {
	Position Position
}

func (m SudokuMove) Target() Position { return m.Position }
func (m TangoMove) Target() Position  { return m.Position }
func (m ZipMove) Target() Position    { return m.Position }

func (SudokuMove) isMove() {}
func (TangoMove) isMove()  {}
func (ZipMove) isMove()    {}

// Outcome explains what ApplyMove did with a move. Every outcome other than
// Accepted leaves the state unchanged.
type Outcome uint8

const (
	Accepted Outcome = iota
	RejectedWrongGame
	RejectedOutOfBounds
	RejectedInvalidValue
	RejectedFixedCell
	RejectedCompleted
	RejectedNotAdjacent
	RejectedRevisit
	RejectedWall
	RejectedNothingToUndo
)

var outcomeNames = [...]string{
	Accepted:              "accepted",
	RejectedWrongGame:     "rejected_wrong_game",
	RejectedOutOfBounds:   "rejected_out_of_bounds",
	RejectedInvalidValue:  "rejected_invalid_value",
	RejectedFixedCell:     "rejected_fixed_cell",
	RejectedCompleted:     "rejected_completed",
	RejectedNotAdjacent:   "rejected_not_adjacent",
	RejectedRevisit:       "rejected_revisit",
	RejectedWall:          "rejected_wall",
	RejectedNothingToUndo: "rejected_nothing_to_undo",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Accepted reports whether the move changed the state.
func (o Outcome) Accepted() bool { return o == Accepted }

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
