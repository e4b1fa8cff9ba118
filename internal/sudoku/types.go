// internal/sudoku/types.go
//
// Payload and state for 6×6 Mini Sudoku.
// Defines:
//   - Grid: a fixed 6×6 board of digits (0 = empty). Arrays are values, so a
//     State copy never aliases another state's board.
//   - Payload: puzzle definition (givens, solution, block shape).
//   - State: player progress.

package sudoku

import (
	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

// Size is the board edge length.
const Size = 6

// Grid holds one digit per cell; 0 marks an empty cell.
type Grid [Size][Size]int

func (g Grid) At(p game.Position) int { return g[p.Row][p.Col] }

// Full reports whether every cell holds a digit.
func (g Grid) Full() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == 0 {
				return false
			}
		}
	}
	return true
}

// Payload is the immutable puzzle definition.
type Payload struct {
	Size          int  `json:"size"`
	BlockRows     int  `json:"blockRows"`
	BlockCols     int  `json:"blockCols"`
	InitialBoard  Grid `json:"initialBoard"`
	SolutionBoard Grid `json:"solutionBoard"`
}

// State is the player's progress. Fixed holds the givens and never changes
// after InitialState.
type State struct {
	Board           Grid         `json:"board"`
	Fixed           game.CellSet `json:"fixedCells"`
	StartedAtMillis int64        `json:"startedAtMillis"`
	MovesCount      int          `json:"movesCount"`
}

func (s State) Moves() int       { return s.MovesCount }
func (s State) StartedAt() int64 { return s.StartedAtMillis }
