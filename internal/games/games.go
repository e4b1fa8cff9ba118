// Package games wires the built-in puzzle definitions into a registry.
package games

import (
	"time"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/sudoku"
	"github.com/robalobadob/brainburst/apps/go-server/internal/tango"
	"github.com/robalobadob/brainburst/apps/go-server/internal/zip"
)

// NewRegistry registers Mini Sudoku, Tango and Zip, in that order. now
// stamps session start times; nil means time.Now.
func NewRegistry(now func() time.Time) (*game.Registry, error) {
	return game.NewRegistry(
		game.Erase[sudoku.Payload, sudoku.State](sudoku.New(now)),
		game.Erase[tango.Payload, tango.State](tango.New(now)),
		game.Erase[zip.Payload, zip.State](zip.New(now)),
	)
}
