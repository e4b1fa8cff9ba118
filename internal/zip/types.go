// internal/zip/types.go
//
// Payload and state for Zip, the numbered-dot path puzzle.
// Defines:
//   - Dot: a numbered waypoint; dot 1 is where every path starts.
//   - Wall: a blocked side of a cell. A wall on one cell also blocks the
//     step from the neighbour on the other side.
//   - Payload / State.

package zip

import (
	"fmt"
	"strings"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

// DefaultSize is the board edge used by the daily puzzle.
const DefaultSize = 6

// Side names one edge of a cell.
type Side string

const (
	Top    Side = "TOP"
	Right  Side = "RIGHT"
	Bottom Side = "BOTTOM"
	Left   Side = "LEFT"
)

func (s *Side) UnmarshalText(b []byte) error {
	switch v := Side(strings.ToUpper(string(b))); v {
	case Top, Right, Bottom, Left:
		*s = v
		return nil
	}
	return fmt.Errorf("unknown wall side %q", string(b))
}

// sideToward returns the side of from that faces the adjacent cell to.
func sideToward(from, to game.Position) Side {
	switch {
	case to.Row < from.Row:
		return Top
	case to.Row > from.Row:
		return Bottom
	case to.Col > from.Col:
		return Right
	default:
		return Left
	}
}

func opposite(s Side) Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Right:
		return Left
	default:
		return Right
	}
}

// Dot is a numbered waypoint.
type Dot struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Index int `json:"index"`
}

func (d Dot) Position() game.Position { return game.Position{Row: d.Row, Col: d.Col} }

// Wall blocks one side of the cell at (Row, Col).
type Wall struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Side Side `json:"side"`
}

func (w Wall) Position() game.Position { return game.Position{Row: w.Row, Col: w.Col} }

// Payload is the immutable puzzle definition.
type Payload struct {
	Size  int    `json:"size"`
	Dots  []Dot  `json:"dots"`
	Walls []Wall `json:"walls,omitempty"`
}

// Cells is the number of cells a complete path visits.
func (p Payload) Cells() int { return p.Size * p.Size }

func (p Payload) DotCount() int { return len(p.Dots) }

// DotPosition returns the cell of dot i.
func (p Payload) DotPosition(i int) (game.Position, bool) {
	for _, d := range p.Dots {
		if d.Index == i {
			return d.Position(), true
		}
	}
	return game.Position{}, false
}

// DotAt returns the index of the dot on pos, or 0.
func (p Payload) DotAt(pos game.Position) int {
	for _, d := range p.Dots {
		if d.Position() == pos {
			return d.Index
		}
	}
	return 0
}

// Blocked reports whether a wall separates the adjacent cells from and to.
func (p Payload) Blocked(from, to game.Position) bool {
	if len(p.Walls) == 0 || !from.Adjacent(to) {
		return false
	}
	out := sideToward(from, to)
	in := opposite(out)
	for _, w := range p.Walls {
		if (w.Position() == from && w.Side == out) || (w.Position() == to && w.Side == in) {
			return true
		}
	}
	return false
}

// Steps returns the neighbours of pos reachable in one step, in
// up, down, left, right order.
func (p Payload) Steps(pos game.Position) []game.Position {
	ns := pos.Neighbors(p.Size)
	out := ns[:0]
	for _, q := range ns {
		if !p.Blocked(pos, q) {
			out = append(out, q)
		}
	}
	return out
}

// State is the player's progress. Path is never empty once built by
// InitialState and always starts on dot 1.
type State struct {
	Path                  []game.Position `json:"path"`
	LastConnectedDotIndex int             `json:"lastConnectedDotIndex"`
	StartedAtMillis       int64           `json:"startedAtMillis"`
	MovesCount            int             `json:"movesCount"`
	Completed             bool            `json:"isCompleted"`
}

func (s State) Moves() int       { return s.MovesCount }
func (s State) StartedAt() int64 { return s.StartedAtMillis }

// Head returns the last cell of the path.
func (s State) Head() (game.Position, bool) {
	if len(s.Path) == 0 {
		return game.Position{}, false
	}
	return s.Path[len(s.Path)-1], true
}

// Contains reports whether pos is on the path.
func (s State) Contains(pos game.Position) bool {
	return indexOf(s.Path, pos) >= 0
}

func indexOf(path []game.Position, pos game.Position) int {
	for i, q := range path {
		if q == pos {
			return i
		}
	}
	return -1
}
