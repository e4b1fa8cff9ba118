// internal/sudoku/definition.go
//
// game.Definition implementation for 6×6 Mini Sudoku.
// Rules:
//   - Fill the grid with digits 1–6; no repeats in a row, column or block.
//   - Givens (non-zero cells of the initial board) cannot be changed.
//   - The puzzle is complete when the board is full and equals the solution.

package sudoku

import (
	"encoding/json"
	"time"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

// Definition implements game.Definition[Payload, State].
type Definition struct {
	now func() time.Time
}

var _ game.Definition[Payload, State] = (*Definition)(nil)

// New returns a Sudoku definition. now stamps the start of a session; nil
// means time.Now.
func New(now func() time.Time) *Definition {
	if now == nil {
		now = time.Now
	}
	return &Definition{now: now}
}

func (d *Definition) Type() game.GameType { return game.MiniSudoku6x6 }

func (d *Definition) Info() game.Info {
	return game.Info{
		Type:        game.MiniSudoku6x6,
		DisplayName: "Mini Sudoku 6×6",
		Description: "Fill the 6×6 grid with digits 1 to 6 with no repeats in rows, columns, or 2×3 blocks.",
	}
}

// DecodePayload parses and checks a Sudoku payload. size defaults to 6 when
// absent.
func (d *Definition) DecodePayload(raw json.RawMessage) (Payload, error) {
	type wire struct {
		Size          int     `json:"size"`
		BlockRows     int     `json:"blockRows"`
		BlockCols     int     `json:"blockCols"`
		InitialBoard  [][]int `json:"initialBoard"`
		SolutionBoard [][]int `json:"solutionBoard"`
	}
	w, err := game.DecodeJSON[wire](game.MiniSudoku6x6, raw)
	if err != nil {
		return Payload{}, err
	}
	if w.Size == 0 {
		w.Size = Size
	}
	if w.Size != Size {
		return Payload{}, game.Invalid(game.MiniSudoku6x6, "size", "got %d, want %d", w.Size, Size)
	}
	if w.BlockRows <= 0 || w.BlockCols <= 0 || w.BlockRows*w.BlockCols != Size ||
		Size%w.BlockRows != 0 || Size%w.BlockCols != 0 {
		return Payload{}, game.Invalid(game.MiniSudoku6x6, "blockRows",
			"block %dx%d does not tile a %dx%d board", w.BlockRows, w.BlockCols, Size, Size)
	}
	initial, err := toGrid("initialBoard", w.InitialBoard, 0)
	if err != nil {
		return Payload{}, err
	}
	solution, err := toGrid("solutionBoard", w.SolutionBoard, 1)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Size:          Size,
		BlockRows:     w.BlockRows,
		BlockCols:     w.BlockCols,
		InitialBoard:  initial,
		SolutionBoard: solution,
	}, nil
}

func toGrid(field string, rows [][]int, lo int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, game.Invalid(game.MiniSudoku6x6, field, "got %d rows, want %d", len(rows), Size)
	}
	for r, row := range rows {
		if len(row) != Size {
			return g, game.Invalid(game.MiniSudoku6x6, field, "row %d has %d cells, want %d", r, len(row), Size)
		}
		for c, v := range row {
			if v < lo || v > Size {
				return g, game.Invalid(game.MiniSudoku6x6, field, "cell (%d, %d) = %d out of range %d..%d", r, c, v, lo, Size)
			}
			g[r][c] = v
		}
	}
	return g, nil
}

// InitialState copies the initial board and records its givens as fixed.
func (d *Definition) InitialState(p Payload) State {
	var fixed []game.Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p.InitialBoard[r][c] != 0 {
				fixed = append(fixed, game.Position{Row: r, Col: c})
			}
		}
	}
	return State{
		Board:           p.InitialBoard,
		Fixed:           game.NewCellSet(fixed...),
		StartedAtMillis: d.now().UnixMilli(),
	}
}

// ApplyMove writes a digit (or clears with 0). Givens are never modified.
func (d *Definition) ApplyMove(s State, _ Payload, m game.Move) (State, game.Outcome) {
	mv, ok := m.(game.SudokuMove)
	if !ok {
		return s, game.RejectedWrongGame
	}
	switch {
	case !mv.Position.InBounds(Size):
		return s, game.RejectedOutOfBounds
	case mv.Value < 0 || mv.Value > Size:
		return s, game.RejectedInvalidValue
	case s.Fixed.Has(mv.Position):
		return s, game.RejectedFixedCell
	}
	next := s
	next.Board[mv.Position.Row][mv.Position.Col] = mv.Value
	next.MovesCount++
	return next, game.Accepted
}

func (d *Definition) ValidateState(s State, p Payload) game.ValidationResult {
	return game.NewValidationResult(InvalidPositions(s.Board, p.BlockRows, p.BlockCols))
}

// IsCompleted requires a full board, no rule violations and an exact match
// with the solution.
func (d *Definition) IsCompleted(s State, p Payload) bool {
	if !s.Board.Full() {
		return false
	}
	if !BoardValid(s.Board, p.BlockRows, p.BlockCols) {
		return false
	}
	return s.Board == p.SolutionBoard
}
