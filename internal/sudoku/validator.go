package sudoku

import "github.com/robalobadob/brainburst/apps/go-server/internal/game"

// InvalidPositions returns every cell whose digit repeats inside a row,
// column or block. All occurrences of a repeated digit are reported, empty
// cells never are. Blocks are blockRows×blockCols tiles.
func InvalidPositions(b Grid, blockRows, blockCols int) []game.Position {
	var out game.PositionSet

	unit := make([]game.Position, 0, Size)
	for r := 0; r < Size; r++ {
		unit = unit[:0]
		for c := 0; c < Size; c++ {
			unit = append(unit, game.Position{Row: r, Col: c})
		}
		out.Add(duplicates(b, unit)...)
	}
	for c := 0; c < Size; c++ {
		unit = unit[:0]
		for r := 0; r < Size; r++ {
			unit = append(unit, game.Position{Row: r, Col: c})
		}
		out.Add(duplicates(b, unit)...)
	}
	if blockRows > 0 && blockCols > 0 {
		for br := 0; br < Size; br += blockRows {
			for bc := 0; bc < Size; bc += blockCols {
				unit = unit[:0]
				for r := br; r < br+blockRows && r < Size; r++ {
					for c := bc; c < bc+blockCols && c < Size; c++ {
						unit = append(unit, game.Position{Row: r, Col: c})
					}
				}
				out.Add(duplicates(b, unit)...)
			}
		}
	}
	return out.Slice()
}

// duplicates returns the cells of unit holding a digit that occurs at least
// twice in the unit, in unit order.
func duplicates(b Grid, unit []game.Position) []game.Position {
	var count [Size + 1]int
	for _, p := range unit {
		if v := b.At(p); v > 0 && v <= Size {
			count[v]++
		}
	}
	var out []game.Position
	for _, p := range unit {
		if v := b.At(p); v > 0 && v <= Size && count[v] > 1 {
			out = append(out, p)
		}
	}
	return out
}

// BoardValid reports whether b has no repeated digit in any unit.
func BoardValid(b Grid, blockRows, blockCols int) bool {
	return len(InvalidPositions(b, blockRows, blockCols)) == 0
}
