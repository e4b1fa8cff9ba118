package zip

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

func clock() time.Time { return time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC) }

func at(r, c int) game.Position { return game.Position{Row: r, Col: c} }

// corners is the 6×6 board with dot 1 top-left and dot 2 bottom-right.
func corners() Payload {
	return Payload{Size: 6, Dots: []Dot{{0, 0, 1}, {5, 5, 2}}}
}

// snake3 is the 3×3 boustrophedon path starting top-left.
var snake3 = []game.Position{at(0, 0), at(0, 1), at(0, 2), at(1, 2), at(1, 1), at(1, 0), at(2, 0), at(2, 1), at(2, 2)}

// walk applies moves from the initial state and fails on any rejection.
func walk(t *testing.T, d *Definition, p Payload, cells ...game.Position) State {
	t.Helper()
	s := d.InitialState(p)
	for _, c := range cells {
		var out game.Outcome
		s, out = d.ApplyMove(s, p, game.ZipMove{Position: c})
		require.Equal(t, game.Accepted, out, "move to %v", c)
	}
	return s
}

func TestDecodePayload(t *testing.T) {
	d := New(clock)
	p, err := d.DecodePayload([]byte(`{
		"size": 6,
		"dots": [{"row": 5, "col": 5, "index": 2}, {"row": 0, "col": 0, "index": 1}],
		"walls": [{"row": 2, "col": 3, "side": "right"}],
		"theme": "night"
	}`))
	require.NoError(t, err)
	assert.Equal(t, 2, p.DotCount())
	start, ok := p.DotPosition(1)
	require.True(t, ok)
	assert.Equal(t, at(0, 0), start)
	assert.Equal(t, Right, p.Walls[0].Side)
	assert.Equal(t, 2, p.DotAt(at(5, 5)))
	assert.Zero(t, p.DotAt(at(1, 1)))
}

func TestDecodePayloadErrors(t *testing.T) {
	d := New(clock)
	for name, raw := range map[string]string{
		"no dots":       `{"size": 6, "dots": []}`,
		"index zero":    `{"dots": [{"row": 0, "col": 0, "index": 0}]}`,
		"gap":           `{"dots": [{"row": 0, "col": 0, "index": 1}, {"row": 0, "col": 1, "index": 3}]}`,
		"repeat index":  `{"dots": [{"row": 0, "col": 0, "index": 1}, {"row": 0, "col": 1, "index": 1}]}`,
		"shared cell":   `{"dots": [{"row": 0, "col": 0, "index": 1}, {"row": 0, "col": 0, "index": 2}]}`,
		"dot off board": `{"dots": [{"row": 0, "col": 6, "index": 1}]}`,
		"bad side":      `{"dots": [{"row": 0, "col": 0, "index": 1}], "walls": [{"row": 0, "col": 0, "side": "UP"}]}`,
		"no side":       `{"dots": [{"row": 0, "col": 0, "index": 1}], "walls": [{"row": 0, "col": 0}]}`,
		"wall off":      `{"dots": [{"row": 0, "col": 0, "index": 1}], "walls": [{"row": -1, "col": 0, "side": "TOP"}]}`,
		"negative size": `{"size": -2, "dots": [{"row": 0, "col": 0, "index": 1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := d.DecodePayload(json.RawMessage(raw))
			var de *game.DecodeError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, game.Zip, de.Game)
		})
	}
}

func TestInitialState(t *testing.T) {
	d := New(clock)
	s := d.InitialState(corners())
	assert.Equal(t, []game.Position{at(0, 0)}, s.Path)
	assert.Equal(t, 1, s.LastConnectedDotIndex)
	assert.Equal(t, clock().UnixMilli(), s.StartedAtMillis)
	assert.False(t, s.Completed)
}

func TestApplyMoveRejectsNonAdjacentStep(t *testing.T) {
	d := New(clock)
	p := corners()
	s := d.InitialState(p)

	next, out := d.ApplyMove(s, p, game.ZipMove{Position: at(5, 5)})
	assert.Equal(t, game.RejectedNotAdjacent, out)
	assert.Equal(t, s, next)

	again, out := d.ApplyMove(next, p, game.ZipMove{Position: at(5, 5)})
	assert.Equal(t, game.RejectedNotAdjacent, out)
	assert.Equal(t, s, again)
}

func TestApplyMoveRejections(t *testing.T) {
	d := New(clock)
	p := corners()
	p.Walls = []Wall{{Row: 0, Col: 2, Side: Bottom}, {Row: 1, Col: 1, Side: Left}}
	s := walk(t, d, p, at(0, 1), at(0, 2))

	cases := []struct {
		name string
		from State
		move game.Move
		want game.Outcome
	}{
		{"revisit", s, game.ZipMove{Position: at(0, 1)}, game.RejectedRevisit},
		{"head again", s, game.ZipMove{Position: at(0, 2)}, game.RejectedRevisit},
		{"off board", s, game.ZipMove{Position: at(-1, 2)}, game.RejectedOutOfBounds},
		{"wall on head", s, game.ZipMove{Position: at(1, 2)}, game.RejectedWall},
		{"wrong game", s, game.SudokuMove{Position: at(0, 3), Value: 1}, game.RejectedWrongGame},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, out := d.ApplyMove(tc.from, p, tc.move)
			assert.Equal(t, tc.want, out)
			assert.Equal(t, tc.from, got)
		})
	}

	// The wall on (1,1) LEFT also blocks the step from (1,0).
	s = walk(t, d, p, at(1, 0))
	_, out := d.ApplyMove(s, p, game.ZipMove{Position: at(1, 1)})
	assert.Equal(t, game.RejectedWall, out)
}

func TestApplyMoveIsPure(t *testing.T) {
	d := New(clock)
	p := corners()
	s0 := d.InitialState(p)
	s1, out := d.ApplyMove(s0, p, game.ZipMove{Position: at(0, 1)})
	require.Equal(t, game.Accepted, out)
	s2, out := d.ApplyMove(s1, p, game.ZipMove{Position: at(1, 1)})
	require.Equal(t, game.Accepted, out)

	assert.Len(t, s0.Path, 1)
	assert.Equal(t, []game.Position{at(0, 0), at(0, 1)}, s1.Path)
	assert.Equal(t, []game.Position{at(0, 0), at(0, 1), at(1, 1)}, s2.Path)
	assert.Equal(t, 2, s2.MovesCount)
}

func TestProgressIsSequential(t *testing.T) {
	d := New(clock)
	// Dot 3 sits on the first row, dot 2 in the bottom-left corner.
	p := Payload{Size: 3, Dots: []Dot{{0, 0, 1}, {2, 0, 2}, {0, 2, 3}}}

	s := walk(t, d, p, at(0, 1), at(0, 2))
	assert.Equal(t, 1, s.LastConnectedDotIndex, "dot 3 before dot 2 is not credited")
	assert.Equal(t, []game.Position{at(0, 2)}, d.ValidateState(s, p).InvalidPositions)

	s = walk(t, d, p, at(0, 1), at(0, 2), at(1, 2), at(1, 1), at(1, 0), at(2, 0), at(2, 1), at(2, 2))
	assert.Equal(t, 2, s.LastConnectedDotIndex)
	assert.Len(t, s.Path, 9)
	assert.False(t, s.Completed, "every cell visited but dots out of order")
	assert.False(t, d.IsCompleted(s, p))
	assert.False(t, d.ValidateState(s, p).Valid)

	in := Payload{Size: 3, Dots: []Dot{{0, 0, 1}, {0, 2, 2}, {2, 0, 3}}}
	s = walk(t, d, in, at(0, 1), at(0, 2), at(1, 2), at(1, 1), at(1, 0))
	assert.Equal(t, 2, s.LastConnectedDotIndex)
	assert.True(t, d.ValidateState(s, in).Valid)
}

func TestCompletion(t *testing.T) {
	d := New(clock)
	p := Payload{Size: 3, Dots: []Dot{{0, 0, 1}, {2, 2, 2}}}
	s := walk(t, d, p, snake3[1:]...)
	assert.True(t, s.Completed)
	assert.True(t, d.IsCompleted(s, p))
	assert.Equal(t, 2, s.LastConnectedDotIndex)
	assert.Equal(t, 8, s.MovesCount)

	_, out := d.StepBack(s, p)
	assert.Equal(t, game.RejectedCompleted, out)
	_, out = d.UndoTo(s, p, at(1, 1))
	assert.Equal(t, game.RejectedCompleted, out)
}

func TestCompletionDoesNotRequireEndingOnLastDot(t *testing.T) {
	d := New(clock)
	// The snake passes the centre dot at index 4 and ends in a corner.
	p := Payload{Size: 3, Dots: []Dot{{0, 0, 1}, {1, 1, 2}}}
	s := walk(t, d, p, snake3[1:]...)
	assert.True(t, s.Completed)

	partial := walk(t, d, p, snake3[1:8]...)
	assert.False(t, partial.Completed)
}

func TestStepBack(t *testing.T) {
	d := New(clock)
	p := Payload{Size: 3, Dots: []Dot{{0, 0, 1}, {0, 2, 2}, {2, 2, 3}}}
	s := d.InitialState(p)

	same, out := d.StepBack(s, p)
	assert.Equal(t, game.RejectedNothingToUndo, out)
	assert.Equal(t, s, same)

	s = walk(t, d, p, at(0, 1), at(0, 2))
	require.Equal(t, 2, s.LastConnectedDotIndex)
	back, out := d.StepBack(s, p)
	require.Equal(t, game.Accepted, out)
	assert.Equal(t, []game.Position{at(0, 0), at(0, 1)}, back.Path)
	assert.Equal(t, 1, back.LastConnectedDotIndex)
	assert.Equal(t, 3, back.MovesCount)
	assert.Len(t, s.Path, 3, "input state untouched")
}

func TestUndoTo(t *testing.T) {
	d := New(clock)
	p := Payload{Size: 3, Dots: []Dot{{0, 0, 1}, {0, 2, 2}, {2, 2, 3}}}
	s := walk(t, d, p, at(0, 1), at(0, 2), at(1, 2), at(1, 1))

	cut, out := d.UndoTo(s, p, at(0, 2))
	require.Equal(t, game.Accepted, out)
	assert.Equal(t, []game.Position{at(0, 0), at(0, 1)}, cut.Path)
	assert.Equal(t, 1, cut.LastConnectedDotIndex)

	same, out := d.UndoTo(s, p, at(0, 0))
	assert.Equal(t, game.RejectedFixedCell, out)
	assert.Equal(t, s, same)

	same, out = d.UndoTo(s, p, at(2, 2))
	assert.Equal(t, game.RejectedNothingToUndo, out)
	assert.Equal(t, s, same)
}

func TestBlocked(t *testing.T) {
	p := Payload{Size: 3, Walls: []Wall{{Row: 1, Col: 1, Side: Top}}}
	assert.True(t, p.Blocked(at(1, 1), at(0, 1)))
	assert.True(t, p.Blocked(at(0, 1), at(1, 1)))
	assert.False(t, p.Blocked(at(1, 1), at(1, 2)))
	assert.False(t, p.Blocked(at(0, 0), at(0, 1)))
	assert.ElementsMatch(t, []game.Position{at(2, 1), at(1, 0), at(1, 2)}, p.Steps(at(1, 1)))
}
