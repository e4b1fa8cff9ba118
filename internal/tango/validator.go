package tango

import "github.com/robalobadob/brainburst/apps/go-server/internal/game"

// Violations returns every cell taking part in a broken rule:
//   - a line (row or column) holding more than Quota suns or moons flags the
//     whole line;
//   - three identical consecutive symbols in a line flag those three cells;
//   - a filled clue pair that is unequal ("=") or equal ("×") flags both.
//
// Each position appears once, in the order it was first flagged.
func Violations(c Cells, p Payload) []game.Position {
	var out game.PositionSet
	quota := p.Quota()

	line := make([]game.Position, c.Size())
	for i := 0; i < c.Size(); i++ {
		for j := range line {
			line[j] = game.Position{Row: i, Col: j}
		}
		checkLine(&out, c, line, quota)
	}
	for i := 0; i < c.Size(); i++ {
		for j := range line {
			line[j] = game.Position{Row: j, Col: i}
		}
		checkLine(&out, c, line, quota)
	}

	for _, clue := range p.EqualClues {
		a, b := clue.Cells()
		va, vb := c.Get(a), c.Get(b)
		if va != game.Empty && vb != game.Empty && va != vb {
			out.Add(a, b)
		}
	}
	for _, clue := range p.OppositeClues {
		a, b := clue.Cells()
		va, vb := c.Get(a), c.Get(b)
		if va != game.Empty && vb != game.Empty && va == vb {
			out.Add(a, b)
		}
	}
	return out.Slice()
}

func checkLine(out *game.PositionSet, c Cells, line []game.Position, quota int) {
	suns, moons := count(c, line)
	if suns > quota || moons > quota {
		out.Add(line...)
	}
	for i := 0; i+2 < len(line); i++ {
		v := c.Get(line[i])
		if v != game.Empty && v == c.Get(line[i+1]) && v == c.Get(line[i+2]) {
			out.Add(line[i], line[i+1], line[i+2])
		}
	}
}

func count(c Cells, line []game.Position) (suns, moons int) {
	for _, p := range line {
		switch c.Get(p) {
		case game.Sun:
			suns++
		case game.Moon:
			moons++
		}
	}
	return suns, moons
}

// balanced reports whether every row and column holds exactly Quota of each
// symbol.
func balanced(c Cells, p Payload) bool {
	quota := p.Quota()
	line := make([]game.Position, c.Size())
	for i := 0; i < c.Size(); i++ {
		for j := range line {
			line[j] = game.Position{Row: i, Col: j}
		}
		if s, m := count(c, line); s != quota || m != quota {
			return false
		}
		for j := range line {
			line[j] = game.Position{Row: j, Col: i}
		}
		if s, m := count(c, line); s != quota || m != quota {
			return false
		}
	}
	return true
}
