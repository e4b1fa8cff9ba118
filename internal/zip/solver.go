// internal/zip/solver.go
//
// Path solver for Zip puzzles.
// The search is a depth-first walk over an explicit stack. Visited cells live
// in a uint64 bitmask, which caps boards at 64 cells.
//
// At each step the unvisited neighbours are tried closest-first (Manhattan
// distance to the next dot to connect). Unless DisablePruning is set, a
// neighbour is skipped when:
//   - it is a dot other than the next one;
//   - some unvisited cell (the next dot included) can no longer be reached
//     from it;
//   - two or more unvisited cells would be left with a single way in, since
//     only the final cell of a path may be a dead end.
//
// None of these rules removes a subtree that contains a solution, so the
// pruned search returns the same path as the exhaustive one.

package zip

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"time"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

var (
	ErrNoSolution    = errors.New("zip: puzzle has no solution")
	ErrBoardTooLarge = errors.New("zip: board too large for solver")
)

// MaxCells is the largest board the solver accepts.
const MaxCells = 64

// ctxCheckEvery is how many search steps run between context checks.
const ctxCheckEvery = 1024

// SolverOptions tunes the search.
type SolverOptions struct {
	// DisablePruning turns off the reachability and dead-end checks. Only
	// useful for testing the pruned search against the exhaustive one.
	DisablePruning bool
}

// Stats describes one Solve call.
type Stats struct {
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
}

// Solver finds a full path for a Zip payload. It is stateless and safe for
// concurrent use.
type Solver struct {
	opts SolverOptions
}

func NewSolver(opts SolverOptions) *Solver {
	return &Solver{opts: opts}
}

// board is a payload flattened to cell indices.
type board struct {
	size   int
	cells  int
	adj    [][]int // wall-aware neighbours
	dotAt  []int   // dot index per cell, 0 if none
	dotPos []int   // cell per dot index; dotPos[0] unused
}

func newBoard(p Payload) (*board, error) {
	n := p.Cells()
	if n > MaxCells {
		return nil, fmt.Errorf("%w: %d cells", ErrBoardTooLarge, n)
	}
	b := &board{
		size:   p.Size,
		cells:  n,
		adj:    make([][]int, n),
		dotAt:  make([]int, n),
		dotPos: make([]int, p.DotCount()+1),
	}
	for c := 0; c < n; c++ {
		for _, q := range p.Steps(b.pos(c)) {
			b.adj[c] = append(b.adj[c], b.cell(q))
		}
	}
	for i := 1; i <= p.DotCount(); i++ {
		pos, ok := p.DotPosition(i)
		if !ok || !pos.InBounds(p.Size) {
			return nil, fmt.Errorf("%w: dot %d missing", ErrNoSolution, i)
		}
		b.dotPos[i] = b.cell(pos)
		b.dotAt[b.cell(pos)] = i
	}
	if len(b.dotPos) < 2 {
		return nil, fmt.Errorf("%w: dot 1 missing", ErrNoSolution)
	}
	return b, nil
}

func (b *board) cell(p game.Position) int { return p.Row*b.size + p.Col }
func (b *board) pos(c int) game.Position  { return game.Position{Row: c / b.size, Col: c % b.size} }
func (b *board) dots() int                { return len(b.dotPos) - 1 }

func (b *board) manhattan(x, y int) int {
	return b.pos(x).Manhattan(b.pos(y))
}

type frame struct {
	cell  int
	dot   int // highest dot connected once cell is on the path
	cands []int
	next  int
}

// Solve returns a path that visits every cell once, starts on dot 1 and
// passes the dots in order. The path need not end on the last dot.
func (s *Solver) Solve(ctx context.Context, p Payload) ([]game.Position, Stats, error) {
	began := time.Now()
	var stats Stats
	b, err := newBoard(p)
	if err != nil {
		return nil, stats, err
	}

	start := b.dotPos[1]
	visited := uint64(1) << start
	stack := make([]frame, 0, b.cells)
	stack = append(stack, frame{cell: start, dot: 1, cands: s.order(b, start, 1, visited)})
	stats.Nodes = 1

	for steps := 0; len(stack) > 0; steps++ {
		if steps%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				stats.Duration = time.Since(began)
				return nil, stats, err
			}
		}

		top := &stack[len(stack)-1]
		if len(stack) == b.cells && top.dot == b.dots() {
			path := make([]game.Position, len(stack))
			for i, f := range stack {
				path[i] = b.pos(f.cell)
			}
			stats.Duration = time.Since(began)
			return path, stats, nil
		}
		if top.next >= len(top.cands) {
			visited &^= uint64(1) << top.cell
			stack = stack[:len(stack)-1]
			continue
		}

		c := top.cands[top.next]
		top.next++
		dot := top.dot
		if b.dotAt[c] == dot+1 {
			dot++
		}
		visited |= uint64(1) << c
		if !s.opts.DisablePruning && !viable(b, c, visited) {
			visited &^= uint64(1) << c
			continue
		}
		stack = append(stack, frame{cell: c, dot: dot, cands: s.order(b, c, dot, visited)})
		stats.Nodes++
	}

	stats.Duration = time.Since(began)
	return nil, stats, ErrNoSolution
}

// order returns the unvisited neighbours of c, closest to the next dot first.
// Ties keep up, down, left, right order.
func (s *Solver) order(b *board, c, dot int, visited uint64) []int {
	out := make([]int, 0, 4)
	for _, q := range b.adj[c] {
		if visited&(uint64(1)<<q) != 0 {
			continue
		}
		if !s.opts.DisablePruning && b.dotAt[q] > dot+1 {
			continue
		}
		out = append(out, q)
	}
	if dot < b.dots() {
		target := b.dotPos[dot+1]
		slices.SortStableFunc(out, func(x, y int) int {
			return b.manhattan(x, target) - b.manhattan(y, target)
		})
	}
	return out
}

// viable reports whether the path may continue from head with the given
// cells visited: every unvisited cell must be reachable from head, and at
// most one of them may be a dead end.
func viable(b *board, head int, visited uint64) bool {
	free := uint64(1)<<b.cells - 1
	if b.cells == MaxCells {
		free = ^uint64(0)
	}
	free &^= visited
	remaining := bits.OnesCount64(free)
	if remaining == 0 {
		return true
	}

	seen := uint64(0)
	queue := []int{head}
	reached := 0
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, q := range b.adj[c] {
			bit := uint64(1) << q
			if free&bit == 0 || seen&bit != 0 {
				continue
			}
			seen |= bit
			reached++
			queue = append(queue, q)
		}
	}
	if reached != remaining {
		return false
	}

	deadEnds := 0
	for c := 0; c < b.cells; c++ {
		if free&(uint64(1)<<c) == 0 {
			continue
		}
		ways := 0
		for _, q := range b.adj[c] {
			if q == head || free&(uint64(1)<<q) != 0 {
				ways++
			}
		}
		if ways <= 1 {
			deadEnds++
			if deadEnds > 1 {
				return false
			}
		}
	}
	return true
}
