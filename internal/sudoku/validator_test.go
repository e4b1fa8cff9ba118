package sudoku

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

var solved = Grid{
	{1, 2, 3, 4, 5, 6},
	{4, 5, 6, 1, 2, 3},
	{2, 3, 1, 5, 6, 4},
	{5, 6, 4, 2, 3, 1},
	{3, 1, 2, 6, 4, 5},
	{6, 4, 5, 3, 1, 2},
}

func TestInvalidPositionsSolvedBoard(t *testing.T) {
	assert.Empty(t, InvalidPositions(solved, 2, 3))
	assert.True(t, BoardValid(solved, 2, 3))
}

func TestInvalidPositionsFlagsEveryOccurrence(t *testing.T) {
	var b Grid
	b[0] = [Size]int{1, 0, 3, 0, 5, 1}

	got := InvalidPositions(b, 2, 3)
	assert.Contains(t, got, game.Position{Row: 0, Col: 0})
	assert.Contains(t, got, game.Position{Row: 0, Col: 5})
	assert.NotContains(t, got, game.Position{Row: 0, Col: 1}, "empty cells are never flagged")
	assert.NotContains(t, got, game.Position{Row: 0, Col: 2})
	assert.Len(t, got, 2)
}

func TestInvalidPositionsColumnAndBlock(t *testing.T) {
	var b Grid
	b[0][0] = 4
	b[5][0] = 4 // column clash
	b[2][3] = 2
	b[3][5] = 2 // same 2×3 block, different row and column

	got := InvalidPositions(b, 2, 3)
	assert.ElementsMatch(t, []game.Position{
		{Row: 0, Col: 0}, {Row: 5, Col: 0},
		{Row: 2, Col: 3}, {Row: 3, Col: 5},
	}, got)

	// With 3×2 blocks (2,3) and (3,5) fall in different blocks.
	got = InvalidPositions(b, 3, 2)
	assert.ElementsMatch(t, []game.Position{{Row: 0, Col: 0}, {Row: 5, Col: 0}}, got)
}

// naiveInvalid marks both cells of every equal non-zero pair sharing a unit.
func naiveInvalid(b Grid, br, bc int) map[game.Position]bool {
	out := map[game.Position]bool{}
	for r1 := 0; r1 < Size; r1++ {
		for c1 := 0; c1 < Size; c1++ {
			for r2 := 0; r2 < Size; r2++ {
				for c2 := 0; c2 < Size; c2++ {
					if r1 == r2 && c1 == c2 {
						continue
					}
					v := b[r1][c1]
					if v == 0 || v != b[r2][c2] {
						continue
					}
					sameBlock := r1/br == r2/br && c1/bc == c2/bc
					if r1 == r2 || c1 == c2 || sameBlock {
						out[game.Position{Row: r1, Col: c1}] = true
					}
				}
			}
		}
	}
	return out
}

func TestInvalidPositionsMatchesPairwiseDefinition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, shape := range [][2]int{{2, 3}, {3, 2}} {
		for i := 0; i < 300; i++ {
			var b Grid
			for r := 0; r < Size; r++ {
				for c := 0; c < Size; c++ {
					if rng.Intn(3) > 0 {
						b[r][c] = rng.Intn(Size + 1)
					}
				}
			}
			want := naiveInvalid(b, shape[0], shape[1])
			got := InvalidPositions(b, shape[0], shape[1])

			require.Len(t, got, len(want), "board %v blocks %v", b, shape)
			for _, p := range got {
				require.True(t, want[p], "unexpected %v on board %v", p, b)
			}
			require.Equal(t, len(want) == 0, BoardValid(b, shape[0], shape[1]))
		}
	}
}
