package zip

import (
	"encoding/json"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

// Hint is one suggestion for the player. The variants are the four types
// below.
type Hint interface {
	Kind() string
	isHint()
}

// HighlightCell marks the only cell the path can move to next.
type HighlightCell struct {
	Position game.Position `json:"position"`
}

// HighlightDot points at the next dot when several moves are open.
type HighlightDot struct {
	Index int `json:"index"`
}

// SuggestUndo tells the player to cut the path back to From, the first cell
// that leaves the solution.
type SuggestUndo struct {
	From game.Position `json:"from"`
}

// NoHint means there is nothing useful to suggest.
type NoHint struct{}

func (HighlightCell) Kind() string { return "highlight_cell" }
func (HighlightDot) Kind() string  { return "highlight_dot" }
func (SuggestUndo) Kind() string   { return "suggest_undo" }
func (NoHint) Kind() string        { return "none" }

func (HighlightCell) isHint() {}
func (HighlightDot) isHint()  {}
func (SuggestUndo) isHint()   {}
func (NoHint) isHint()        {}

func (h HighlightCell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string        `json:"kind"`
		Position game.Position `json:"position"`
	}{h.Kind(), h.Position})
}

func (h HighlightDot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Index int    `json:"index"`
	}{h.Kind(), h.Index})
}

func (h SuggestUndo) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string        `json:"kind"`
		From game.Position `json:"from"`
	}{h.Kind(), h.From})
}

func (h NoHint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{h.Kind()})
}

// Divergence returns the first index at which path leaves solution, or
// len(path) when path is a prefix of solution.
func Divergence(path, solution []game.Position) int {
	for i, p := range path {
		if i >= len(solution) || p != solution[i] {
			return i
		}
	}
	return len(path)
}

// DetermineHint compares the player's path with a solved path. A nil
// solution (no solve available) yields NoHint.
func DetermineHint(s State, solution []game.Position, p Payload) Hint {
	if s.Completed || solution == nil {
		return NoHint{}
	}
	if len(s.Path) == 0 {
		return HighlightDot{Index: 1}
	}
	if i := Divergence(s.Path, solution); i < len(s.Path) {
		return SuggestUndo{From: s.Path[i]}
	}

	open := continuations(s, p)
	if len(open) == 1 {
		return HighlightCell{Position: open[0]}
	}
	if next := s.LastConnectedDotIndex + 1; next <= p.DotCount() {
		return HighlightDot{Index: next}
	}
	return NoHint{}
}

// continuations lists the cells the path may step to from its head.
func continuations(s State, p Payload) []game.Position {
	head, ok := s.Head()
	if !ok {
		return nil
	}
	var out []game.Position
	for _, q := range p.Steps(head) {
		if !s.Contains(q) {
			out = append(out, q)
		}
	}
	return out
}
