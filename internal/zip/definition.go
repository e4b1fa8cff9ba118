// internal/zip/definition.go
//
// game.Definition implementation for Zip.
// Rules:
//   - The path starts on dot 1 and grows one orthogonal step at a time.
//   - A cell may be visited once; walls cannot be crossed.
//   - Dots count only when reached in order: dot k after dot k-1.
//   - The puzzle is solved when every cell is on the path and every dot has
//     been connected in order.
// Extras:
//   - StepBack removes the last cell; UndoTo cuts the path back to a cell.

package zip

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

// New returns a Zip definition; nil now means time.Now.
func New(now func() time.Time) *Definition {
	if now == nil {
		now = time.Now
	}
	return &Definition{now: now}
}

func (d *Definition) Type() game.GameType { return game.Zip }

func (d *Definition) Info() game.Info {
	return game.Info{
		Type:        game.Zip,
		DisplayName: "Zip",
		Description: "Connect numbered dots in order with a continuous path. No crossing, no revisiting cells.",
	}
}

// DecodePayload parses and checks a Zip payload: dots must be numbered
// 1..N on distinct cells, and walls must name a side of an on-board cell.
func (d *Definition) DecodePayload(raw json.RawMessage) (Payload, error) {
	p, err := game.DecodeJSON[Payload](game.Zip, raw)
	if err != nil {
		return Payload{}, err
	}
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.Size < 1 {
		return Payload{}, game.Invalid(game.Zip, "size", "must be positive, got %d", p.Size)
	}
	if len(p.Dots) == 0 {
		return Payload{}, game.Invalid(game.Zip, "dots", "dot 1 is required")
	}

	byIndex := make(map[int]bool, len(p.Dots))
	byCell := make(map[game.Position]int, len(p.Dots))
	for _, dot := range p.Dots {
		pos := dot.Position()
		switch {
		case dot.Index < 1 || dot.Index > len(p.Dots):
			return Payload{}, game.Invalid(game.Zip, "dots", "index %d outside 1..%d", dot.Index, len(p.Dots))
		case byIndex[dot.Index]:
			return Payload{}, game.Invalid(game.Zip, "dots", "index %d appears twice", dot.Index)
		case !pos.InBounds(p.Size):
			return Payload{}, game.Invalid(game.Zip, "dots", "dot %d at %v is off the board", dot.Index, pos)
		case byCell[pos] != 0:
			return Payload{}, game.Invalid(game.Zip, "dots", "dots %d and %d share %v", byCell[pos], dot.Index, pos)
		}
		byIndex[dot.Index] = true
		byCell[pos] = dot.Index
	}

	for i, w := range p.Walls {
		if w.Side == "" {
			return Payload{}, game.Invalid(game.Zip, "walls", "entry %d has no side", i)
		}
		if !w.Position().InBounds(p.Size) {
			return Payload{}, game.Invalid(game.Zip, "walls", "entry %d at %v is off the board", i, w.Position())
		}
	}
	return p, nil
}

// InitialState puts dot 1 on the path. The payload must have passed
// DecodePayload.
func (d *Definition) InitialState(p Payload) State {
	start, _ := p.DotPosition(1)
	return d.settle(State{
		Path:            []game.Position{start},
		StartedAtMillis: d.now().UnixMilli(),
	}, p)
}

// ApplyMove extends the path by one cell.
func (d *Definition) ApplyMove(s State, p Payload, m game.Move) (State, game.Outcome) {
	mv, ok := m.(game.ZipMove)
	if !ok {
		return s, game.RejectedWrongGame
	}
	if s.Completed {
		return s, game.RejectedCompleted
	}
	head, ok := s.Head()
	switch {
	case !ok:
		return s, game.RejectedNotAdjacent
	case !mv.Position.InBounds(p.Size):
		return s, game.RejectedOutOfBounds
	case s.Contains(mv.Position):
		return s, game.RejectedRevisit
	case !head.Adjacent(mv.Position):
		return s, game.RejectedNotAdjacent
	case p.Blocked(head, mv.Position):
		return s, game.RejectedWall
	}

	next := s
	next.Path = make([]game.Position, len(s.Path), len(s.Path)+1)
	copy(next.Path, s.Path)
	next.Path = append(next.Path, mv.Position)
	next.MovesCount++
	return d.settle(next, p), game.Accepted
}

// StepBack removes the last cell of the path. Dot 1 always stays.
func (d *Definition) StepBack(s State, p Payload) (State, game.Outcome) {
	if s.Completed {
		return s, game.RejectedCompleted
	}
	if len(s.Path) <= 1 {
		return s, game.RejectedNothingToUndo
	}
	return d.truncate(s, p, len(s.Path)-1), game.Accepted
}

// UndoTo removes pos and every cell after it from the path. pos must be on
// the path and must not be the starting cell.
func (d *Definition) UndoTo(s State, p Payload, pos game.Position) (State, game.Outcome) {
	if s.Completed {
		return s, game.RejectedCompleted
	}
	i := indexOf(s.Path, pos)
	switch {
	case i < 0:
		return s, game.RejectedNothingToUndo
	case i == 0:
		return s, game.RejectedFixedCell
	}
	return d.truncate(s, p, i), game.Accepted
}

func (d *Definition) truncate(s State, p Payload, n int) State {
	next := s
	next.Path = append([]game.Position(nil), s.Path[:n]...)
	next.MovesCount++
	return d.settle(next, p)
}

// settle recomputes the derived fields after a path change.
func (d *Definition) settle(s State, p Payload) State {
	s.LastConnectedDotIndex = progress(s.Path, p)
	s.Completed = d.IsCompleted(s, p)
	return s
}

// progress returns the largest k such that dots 1..k lie on the path at
// strictly increasing indices.
func progress(path []game.Position, p Payload) int {
	prev := -1
	k := 0
	for i := 1; i <= p.DotCount(); i++ {
		pos, ok := p.DotPosition(i)
		if !ok {
			break
		}
		at := indexOf(path, pos)
		if at <= prev {
			break
		}
		prev = at
		k = i
	}
	return k
}

// ValidateState flags dots the path has crossed out of order.
func (d *Definition) ValidateState(s State, p Payload) game.ValidationResult {
	connected := progress(s.Path, p)
	var out game.PositionSet
	for _, pos := range s.Path {
		if i := p.DotAt(pos); i > connected {
			out.Add(pos)
		}
	}
	return game.NewValidationResult(out.Slice())
}

// IsCompleted requires every cell on the path and every dot connected in
// order, the last one included.
func (d *Definition) IsCompleted(s State, p Payload) bool {
	if p.DotCount() == 0 || len(s.Path) != p.Cells() {
		return false
	}
	return progress(s.Path, p) == p.DotCount()
}
