// internal/daily/puzzles.go
//
// Daily puzzle catalog.
// Responsibilities:
//   - Store the payload documents the server serves as daily puzzles, one
//     per game type and date, under the canonical id GAMETYPE_YYYY-MM-DD.
//   - Import documents from *.json files (the puzzle generator's output).
//
// Notes:
//   - Only sessions started from this catalog are ranked; results for
//     uploaded payloads are never written.
//   - A puzzle, once stored, is never replaced: results already recorded
//     against it stay meaningful.

package daily

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

var ErrPuzzleNotFound = errors.New("puzzle not found")

// PutPuzzle stores doc in the catalog. It reports false when a puzzle with
// the same id already exists.
func (s *Store) PutPuzzle(ctx context.Context, doc game.Document) (bool, error) {
	if _, err := ParseDateKey(doc.Date); err != nil {
		return false, fmt.Errorf("put puzzle: %w", err)
	}
	id := game.PuzzleID(doc.GameType, doc.Date)
	if doc.PuzzleID != "" && doc.PuzzleID != id {
		return false, fmt.Errorf("put puzzle: puzzleId %q does not match %q", doc.PuzzleID, id)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_puzzles(puzzle_id, game_type, date, payload) VALUES(?,?,?,?)`,
		id, string(doc.GameType), doc.Date, string(doc.Payload),
	)
	if err != nil {
		return false, fmt.Errorf("put puzzle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put puzzle: %w", err)
	}
	return n == 1, nil
}

// Puzzle returns the catalog document for puzzleID.
func (s *Store) Puzzle(ctx context.Context, puzzleID string) (game.Document, error) {
	var gt, date, payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT game_type, date, payload FROM daily_puzzles WHERE puzzle_id=?`, puzzleID,
	).Scan(&gt, &date, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Document{}, fmt.Errorf("%w: %s", ErrPuzzleNotFound, puzzleID)
	}
	if err != nil {
		return game.Document{}, fmt.Errorf("get puzzle: %w", err)
	}
	return game.Document{
		GameType: game.GameType(gt),
		Date:     date,
		PuzzleID: puzzleID,
		Payload:  []byte(payload),
	}, nil
}

// ImportPuzzles stores every *.json document in fsys. check vets each
// document before it is stored (decodable, playable). It returns how many
// new puzzles were added.
func (s *Store) ImportPuzzles(ctx context.Context, fsys fs.FS, check func(game.Document) error) (int, error) {
	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("import puzzles: %w", err)
	}
	sort.Strings(files)

	added := 0
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, f)
		if err != nil {
			return added, fmt.Errorf("read %s: %w", f, err)
		}
		doc, err := game.DecodeDocument(raw)
		if err != nil {
			return added, fmt.Errorf("%s: %w", f, err)
		}
		if check != nil {
			if err := check(doc); err != nil {
				return added, fmt.Errorf("%s: %w", f, err)
			}
		}
		ok, err := s.PutPuzzle(ctx, doc)
		if err != nil {
			return added, fmt.Errorf("%s: %w", f, err)
		}
		if ok {
			added++
			log.Info().Str("puzzle", game.PuzzleID(doc.GameType, doc.Date)).Str("file", f).Msg("puzzle imported")
		}
	}
	return added, nil
}
