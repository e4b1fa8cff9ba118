package game

import (
	"encoding/json"
	"sort"
)

// CellSet is an immutable set of positions. The zero value is empty.
type CellSet struct {
	m map[Position]struct{}
}

// NewCellSet builds a set from ps.
func NewCellSet(ps ...Position) CellSet {
	m := make(map[Position]struct{}, len(ps))
	for _, p := range ps {
		m[p] = struct{}{}
	}
	return CellSet{m: m}
}

func (s CellSet) Has(p Position) bool {
	_, ok := s.m[p]
	return ok
}

func (s CellSet) Len() int { return len(s.m) }

// Positions returns the members in row-major order.
func (s CellSet) Positions() []Position {
	out := make([]Position, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func (s CellSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Positions()) }

// PositionSet accumulates positions without duplicates, keeping the order in
// which they were first added. Validators use it to merge flags.
type PositionSet struct {
	seen  map[Position]struct{}
	order []Position
}

func (s *PositionSet) Add(ps ...Position) {
	if s.seen == nil {
		s.seen = make(map[Position]struct{})
	}
	for _, p := range ps {
		if _, ok := s.seen[p]; ok {
			continue
		}
		s.seen[p] = struct{}{}
		s.order = append(s.order, p)
	}
}

func (s *PositionSet) Len() int { return len(s.order) }

// Slice returns the accumulated positions; never nil.
func (s *PositionSet) Slice() []Position {
	out := make([]Position, len(s.order))
	copy(out, s.order)
	return out
}
