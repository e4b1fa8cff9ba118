// internal/tango/types.go
//
// Payload and state for Tango, the sun/moon placement puzzle.
// Defines:
//   - Cells: a copy-on-write grid of symbols; With returns a new grid and
//     never touches the receiver.
//   - Clue: an "=" or "×" constraint between a cell and its right or lower
//     neighbour.
//   - Payload / State.

package tango

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

// DefaultSize is the board edge used by the daily puzzle.
const DefaultSize = 6

// Direction orients a clue from its anchor cell.
type Direction string

const (
	Horizontal Direction = "HORIZONTAL"
	Vertical   Direction = "VERTICAL"
)

func (d *Direction) UnmarshalText(b []byte) error {
	switch v := Direction(strings.ToUpper(string(b))); v {
	case Horizontal, Vertical:
		*d = v
		return nil
	}
	return fmt.Errorf("unknown clue direction %q", string(b))
}

// Clue links the cell at (Row, Col) with its neighbour in Direction.
type Clue struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
}

// Cells returns the two positions the clue constrains.
func (c Clue) Cells() (game.Position, game.Position) {
	a := game.Position{Row: c.Row, Col: c.Col}
	if c.Direction == Vertical {
		return a, game.Position{Row: c.Row + 1, Col: c.Col}
	}
	return a, game.Position{Row: c.Row, Col: c.Col + 1}
}

// Prefilled is a given symbol.
type Prefilled struct {
	Row   int            `json:"row"`
	Col   int            `json:"col"`
	Value game.CellValue `json:"value"`
}

func (p Prefilled) Position() game.Position { return game.Position{Row: p.Row, Col: p.Col} }

// Payload is the immutable puzzle definition.
type Payload struct {
	Size          int         `json:"size"`
	Prefilled     []Prefilled `json:"prefilled"`
	EqualClues    []Clue      `json:"equalClues"`
	OppositeClues []Clue      `json:"oppositeClues"`
	Difficulty    string      `json:"difficulty,omitempty"`
}

// Quota is the number of suns (and of moons) each full line must hold.
func (p Payload) Quota() int { return p.Size / 2 }

// Cells is a size×size grid of symbols. The zero value is unusable; build
// one with NewCells.
type Cells struct {
	size int
	v    []game.CellValue
}

// NewCells returns an all-empty grid.
func NewCells(size int) Cells {
	return Cells{size: size, v: make([]game.CellValue, size*size)}
}

func (c Cells) Size() int { return c.size }

// Get returns the symbol at p; out-of-bounds positions read as Empty.
func (c Cells) Get(p game.Position) game.CellValue {
	if !p.InBounds(c.size) {
		return game.Empty
	}
	return c.v[p.Row*c.size+p.Col]
}

// With returns a copy of c with p set to v.
func (c Cells) With(p game.Position, v game.CellValue) Cells {
	next := Cells{size: c.size, v: make([]game.CellValue, len(c.v))}
	copy(next.v, c.v)
	next.v[p.Row*c.size+p.Col] = v
	return next
}

// Full reports whether no cell is Empty.
func (c Cells) Full() bool {
	for _, v := range c.v {
		if v == game.Empty {
			return false
		}
	}
	return true
}

// Rows returns the grid as nested rows.
func (c Cells) Rows() [][]game.CellValue {
	out := make([][]game.CellValue, c.size)
	for r := range out {
		out[r] = append([]game.CellValue(nil), c.v[r*c.size:(r+1)*c.size]...)
	}
	return out
}

func (c Cells) MarshalJSON() ([]byte, error) { return json.Marshal(c.Rows()) }

// State is the player's progress.
type State struct {
	Cells           Cells        `json:"cells"`
	Fixed           game.CellSet `json:"fixedCells"`
	StartedAtMillis int64        `json:"startedAtMillis"`
	MovesCount      int          `json:"movesCount"`
	Completed       bool         `json:"isCompleted"`
}

func (s State) Moves() int       { return s.MovesCount }
func (s State) StartedAt() int64 { return s.StartedAtMillis }
