// internal/tango/definition.go
//
// game.Definition implementation for Tango.
// Rules:
//   - Fill the grid with suns and moons; each row and column holds the same
//     number of each (3 on the 6×6 board).
//   - No three identical symbols next to each other in a line.
//   - "=" clues join equal symbols, "×" clues join opposite ones.
//   - Prefilled cells are fixed.

package tango

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

// New returns a Tango definition; nil now means time.Now.
func New(now func() time.Time) *Definition {
	if now == nil {
		now = time.Now
	}
	return &Definition{now: now}
}

func (d *Definition) Type() game.GameType { return game.Tango }

func (d *Definition) Info() game.Info {
	return game.Info{
		Type:        game.Tango,
		DisplayName: "Tango",
		Description: "Fill the grid with sun and moon symbols. Each row/column has 3 of each. No 3 consecutive identical symbols.",
	}
}

// DecodePayload parses and checks a Tango payload. size defaults to 6.
func (d *Definition) DecodePayload(raw json.RawMessage) (Payload, error) {
	p, err := game.DecodeJSON[Payload](game.Tango, raw)
	if err != nil {
		return Payload{}, err
	}
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.Size < 2 || p.Size%2 != 0 {
		return Payload{}, game.Invalid(game.Tango, "size", "must be a positive even number, got %d", p.Size)
	}
	seen := make(map[game.Position]bool, len(p.Prefilled))
	for i, f := range p.Prefilled {
		pos := f.Position()
		switch {
		case !pos.InBounds(p.Size):
			return Payload{}, game.Invalid(game.Tango, "prefilled", "entry %d at %v is off the board", i, pos)
		case f.Value == game.Empty:
			return Payload{}, game.Invalid(game.Tango, "prefilled", "entry %d at %v is empty", i, pos)
		case seen[pos]:
			return Payload{}, game.Invalid(game.Tango, "prefilled", "entry %d repeats %v", i, pos)
		}
		seen[pos] = true
	}
	for field, clues := range map[string][]Clue{"equalClues": p.EqualClues, "oppositeClues": p.OppositeClues} {
		for i, c := range clues {
			a, b := c.Cells()
			if c.Direction == "" {
				return Payload{}, game.Invalid(game.Tango, field, "entry %d has no direction", i)
			}
			if !a.InBounds(p.Size) || !b.InBounds(p.Size) {
				return Payload{}, game.Invalid(game.Tango, field, "entry %d links %v and %v off the board", i, a, b)
			}
		}
	}
	return p, nil
}

// InitialState places the prefilled symbols and marks them fixed.
func (d *Definition) InitialState(p Payload) State {
	cells := NewCells(p.Size)
	fixed := make([]game.Position, 0, len(p.Prefilled))
	for _, f := range p.Prefilled {
		cells.v[f.Row*p.Size+f.Col] = f.Value
		fixed = append(fixed, f.Position())
	}
	return State{
		Cells:           cells,
		Fixed:           game.NewCellSet(fixed...),
		StartedAtMillis: d.now().UnixMilli(),
	}
}

// ApplyMove sets or clears a symbol. A completed board accepts no moves.
func (d *Definition) ApplyMove(s State, p Payload, m game.Move) (State, game.Outcome) {
	mv, ok := m.(game.TangoMove)
	if !ok {
		return s, game.RejectedWrongGame
	}
	switch {
	case s.Completed:
		return s, game.RejectedCompleted
	case !mv.Position.InBounds(s.Cells.Size()):
		return s, game.RejectedOutOfBounds
	case !mv.Value.Valid():
		return s, game.RejectedInvalidValue
	case s.Fixed.Has(mv.Position):
		return s, game.RejectedFixedCell
	}
	next := s
	next.Cells = s.Cells.With(mv.Position, mv.Value)
	next.MovesCount++
	next.Completed = d.IsCompleted(next, p)
	return next, game.Accepted
}

func (d *Definition) ValidateState(s State, p Payload) game.ValidationResult {
	return game.NewValidationResult(Violations(s.Cells, p))
}

// IsCompleted requires a full board with no violations and balanced lines.
func (d *Definition) IsCompleted(s State, p Payload) bool {
	if s.Cells.Size() != p.Size || !s.Cells.Full() {
		return false
	}
	if len(Violations(s.Cells, p)) > 0 {
		return false
	}
	return balanced(s.Cells, p)
}
