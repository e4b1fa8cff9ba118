package sudoku

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

var fixedNow = time.Date(2025, 12, 25, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// puzzle blanks the first two rows of the solved board.
func puzzle() Payload {
	initial := solved
	for c := 0; c < Size; c++ {
		initial[0][c] = 0
		initial[1][c] = 0
	}
	return Payload{Size: Size, BlockRows: 2, BlockCols: 3, InitialBoard: initial, SolutionBoard: solved}
}

func TestDecodePayload(t *testing.T) {
	d := New(clock)
	want := puzzle()
	raw, err := json.Marshal(map[string]any{
		"size":          6,
		"blockRows":     2,
		"blockCols":     3,
		"initialBoard":  want.InitialBoard,
		"solutionBoard": want.SolutionBoard,
		"difficulty":    "easy", // unknown fields are tolerated
	})
	require.NoError(t, err)

	got, err := d.DecodePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodePayloadRejectsSchemaMismatch(t *testing.T) {
	d := New(clock)
	cases := map[string]string{
		"syntax":        `{"size":`,
		"wrong type":    `{"size":"six"}`,
		"short board":   `{"blockRows":2,"blockCols":3,"initialBoard":[[0]],"solutionBoard":[]}`,
		"bad blocks":    `{"blockRows":4,"blockCols":2}`,
		"wrong size":    `{"size":9,"blockRows":3,"blockCols":3}`,
		"digit too big": `{"blockRows":2,"blockCols":3,"initialBoard":[[7,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0]]}`,
		"empty":         ``,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.DecodePayload(json.RawMessage(raw))
			var de *game.DecodeError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, game.MiniSudoku6x6, de.Game)
		})
	}
}

func TestInitialState(t *testing.T) {
	d := New(clock)
	p := puzzle()
	s := d.InitialState(p)

	assert.Equal(t, p.InitialBoard, s.Board)
	assert.Equal(t, 4*Size, s.Fixed.Len())
	assert.True(t, s.Fixed.Has(game.Position{Row: 2, Col: 0}))
	assert.False(t, s.Fixed.Has(game.Position{Row: 0, Col: 0}))
	assert.Equal(t, fixedNow.UnixMilli(), s.StartedAtMillis)
	assert.Zero(t, s.MovesCount)
}

func TestApplyMoveIsPure(t *testing.T) {
	d := New(clock)
	p := puzzle()
	s0 := d.InitialState(p)

	s1, out := d.ApplyMove(s0, p, game.SudokuMove{Position: game.Position{Row: 0, Col: 0}, Value: 1})
	require.Equal(t, game.Accepted, out)
	assert.Equal(t, 1, s1.Board[0][0])
	assert.Equal(t, 1, s1.MovesCount)
	assert.Equal(t, 0, s0.Board[0][0], "input state must not change")
	assert.Equal(t, 0, s0.MovesCount)

	s2, out := d.ApplyMove(s1, p, game.SudokuMove{Position: game.Position{Row: 0, Col: 0}, Value: 0})
	require.Equal(t, game.Accepted, out)
	assert.Equal(t, 0, s2.Board[0][0])
}

func TestApplyMoveRejections(t *testing.T) {
	d := New(clock)
	p := puzzle()
	s := d.InitialState(p)

	cases := []struct {
		name string
		move game.Move
		want game.Outcome
	}{
		{"fixed cell", game.SudokuMove{Position: game.Position{Row: 3, Col: 3}, Value: 2}, game.RejectedFixedCell},
		{"same value on fixed cell", game.SudokuMove{Position: game.Position{Row: 3, Col: 3}, Value: solved[3][3]}, game.RejectedFixedCell},
		{"out of bounds", game.SudokuMove{Position: game.Position{Row: 6, Col: 0}, Value: 1}, game.RejectedOutOfBounds},
		{"value too large", game.SudokuMove{Position: game.Position{Row: 0, Col: 0}, Value: 7}, game.RejectedInvalidValue},
		{"wrong game", game.ZipMove{Position: game.Position{Row: 0, Col: 0}}, game.RejectedWrongGame},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, out := d.ApplyMove(s, p, tc.move)
			assert.Equal(t, tc.want, out)
			assert.Equal(t, s, got)
			again, _ := d.ApplyMove(got, p, tc.move)
			assert.Equal(t, s, again)
		})
	}
}

func TestValidateAndComplete(t *testing.T) {
	d := New(clock)
	p := puzzle()
	s := d.InitialState(p)

	// Duplicate 5 in row 0 next to nothing else: only the row clash matters.
	s, _ = d.ApplyMove(s, p, game.SudokuMove{Position: game.Position{Row: 0, Col: 0}, Value: 5})
	s, _ = d.ApplyMove(s, p, game.SudokuMove{Position: game.Position{Row: 0, Col: 4}, Value: 5})
	res := d.ValidateState(s, p)
	assert.False(t, res.Valid)
	assert.Contains(t, res.InvalidPositions, game.Position{Row: 0, Col: 0})
	assert.Contains(t, res.InvalidPositions, game.Position{Row: 0, Col: 4})
	assert.False(t, d.IsCompleted(s, p))

	s = d.InitialState(p)
	for r := 0; r < 2; r++ {
		for c := 0; c < Size; c++ {
			assert.False(t, d.IsCompleted(s, p))
			s, _ = d.ApplyMove(s, p, game.SudokuMove{Position: game.Position{Row: r, Col: c}, Value: solved[r][c]})
		}
	}
	assert.True(t, d.ValidateState(s, p).Valid)
	assert.True(t, d.IsCompleted(s, p))
	assert.Equal(t, 12, s.MovesCount)
}

func TestFullValidBoardThatDiffersFromSolutionIsIncomplete(t *testing.T) {
	d := New(clock)
	p := puzzle()
	// Swapping rows 0 and 1 keeps every unit valid but differs from the solution.
	s := d.InitialState(p)
	for c := 0; c < Size; c++ {
		s, _ = d.ApplyMove(s, p, game.SudokuMove{Position: game.Position{Row: 0, Col: c}, Value: solved[1][c]})
		s, _ = d.ApplyMove(s, p, game.SudokuMove{Position: game.Position{Row: 1, Col: c}, Value: solved[0][c]})
	}
	assert.True(t, d.ValidateState(s, p).Valid)
	assert.False(t, d.IsCompleted(s, p))
}
