// internal/game/types.go
//
// Core type definitions shared by every puzzle engine.
// Defines:
//   - GameType: identifier of a registered puzzle variant.
//   - Position: a (row, col) cell coordinate.
//   - CellValue: Tango symbols (sun/moon/empty).
//   - ValidationResult: advisory rule-violation report.
//   - Completion: the signal emitted once a puzzle is solved.

package game

import (
	"fmt"
	"strings"
	"time"
)

// GameType identifies a puzzle variant. Values match the payload documents
// produced by the puzzle backend.
type GameType string

const (
	MiniSudoku6x6 GameType = "MINI_SUDOKU_6X6"
	Tango         GameType = "TANGO"
	Zip           GameType = "ZIP"
)

// ParseGameType accepts the canonical identifier in any letter case.
func ParseGameType(s string) (GameType, error) {
	switch t := GameType(strings.ToUpper(strings.TrimSpace(s))); t {
	case MiniSudoku6x6, Tango, Zip:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
}

// Info is display metadata for a game variant.
type Info struct {
	Type        GameType `json:"type"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
}

// Position is a cell coordinate on a square board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.Row, p.Col) }

// InBounds reports whether p lies on a size×size board.
func (p Position) InBounds(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Adjacent reports whether q is exactly one orthogonal step from p.
func (p Position) Adjacent(q Position) bool {
	return p.Manhattan(q) == 1
}

// Manhattan returns the taxicab distance between p and q.
func (p Position) Manhattan(q Position) int {
	return abs(p.Row-q.Row) + abs(p.Col-q.Col)
}

// Neighbors returns the in-bounds orthogonal neighbours of p in
// up, down, left, right order.
func (p Position) Neighbors(size int) []Position {
	out := make([]Position, 0, 4)
	for _, q := range [4]Position{
		{p.Row - 1, p.Col},
		{p.Row + 1, p.Col},
		{p.Row, p.Col - 1},
		{p.Row, p.Col + 1},
	} {
		if q.InBounds(size) {
			out = append(out, q)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// CellValue is the content of a Tango cell.
type CellValue uint8

const (
	Empty CellValue = iota
	Sun
	Moon
)

func (v CellValue) String() string {
	switch v {
	case Sun:
		return "SUN"
	case Moon:
		return "MOON"
	case Empty:
		return "EMPTY"
	}
	return fmt.Sprintf("CellValue(%d)", uint8(v))
}

// Valid reports whether v is one of the three defined symbols.
func (v CellValue) Valid() bool { return v <= Moon }

func (v CellValue) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid cell value %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *CellValue) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "SUN":
		*v = Sun
	case "MOON":
		*v = Moon
	case "EMPTY", "":
		*v = Empty
	default:
		return fmt.Errorf("unknown cell value %q", string(b))
	}
	return nil
}

// ValidationResult reports which positions currently violate the game's
// rules. It is advisory: it never blocks further moves.
type ValidationResult struct {
	Valid            bool       `json:"isValid"`
	InvalidPositions []Position `json:"invalidPositions"`
}

// NewValidationResult builds a result from a (possibly nil) position list.
func NewValidationResult(invalid []Position) ValidationResult {
	if invalid == nil {
		invalid = []Position{}
	}
	return ValidationResult{Valid: len(invalid) == 0, InvalidPositions: invalid}
}

// Tracker is implemented by every game state so callers can read session
// metadata without knowing the concrete game.
type Tracker interface {
	Moves() int
	StartedAt() int64
}

// Completion is emitted once a session transitions to completed.
type Completion struct {
	DurationMs int64 `json:"durationMs"`
	MovesCount int   `json:"movesCount"`
}

// CompletionOf derives the completion signal for a state at time now.
func CompletionOf(t Tracker, now time.Time) Completion {
	d := now.UnixMilli() - t.StartedAt()
	if d < 0 {
		d = 0
	}
	return Completion{DurationMs: d, MovesCount: t.Moves()}
}
