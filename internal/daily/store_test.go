package daily

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/brainburst/apps/go-server/assets"
	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db, assets.FS, assets.MigrationsDir))
	// Applying twice is a no-op.
	require.NoError(t, Migrate(db, assets.FS, assets.MigrationsDir))
	return NewStore(db)
}

func result(user string, gt game.GameType, ms int64, moves int) Result {
	return Result{
		UserID:     user,
		PuzzleID:   game.PuzzleID(gt, "2025-12-25"),
		GameType:   gt,
		Date:       "2025-12-25",
		DurationMs: ms,
		MovesCount: moves,
	}
}

func TestInsertResultOncePerPuzzle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	played, err := s.AlreadyPlayed(ctx, "alice", "ZIP_2025-12-25")
	require.NoError(t, err)
	assert.False(t, played)

	inserted, err := s.InsertResult(ctx, result("alice", game.Zip, 40_000, 35))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertResult(ctx, result("alice", game.Zip, 1_000, 35))
	require.NoError(t, err)
	assert.False(t, inserted, "second result for the same puzzle is ignored")

	played, err = s.AlreadyPlayed(ctx, "alice", "ZIP_2025-12-25")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := s.Leaderboard(ctx, "ZIP_2025-12-25", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{{UserID: "alice", DurationMs: 40_000, MovesCount: 35}}, rows)
}

func TestLeaderboardOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, r := range []Result{
		result("slow", game.Tango, 90_000, 20),
		result("fast", game.Tango, 30_000, 25),
		result("tidy", game.Tango, 30_000, 18),
		result("other-game", game.Zip, 1_000, 35),
		{UserID: "other-puzzle", PuzzleID: "TANGO_2025-12-25_custom", GameType: game.Tango, Date: "2025-12-25", DurationMs: 1, MovesCount: 1},
	} {
		_, err := s.InsertResult(ctx, r)
		require.NoError(t, err)
	}

	rows, err := s.Leaderboard(ctx, "TANGO_2025-12-25", 10)
	require.NoError(t, err)
	var users []string
	for _, r := range rows {
		users = append(users, r.UserID)
	}
	assert.Equal(t, []string{"tidy", "fast", "slow"}, users)

	rows, err = s.Leaderboard(ctx, "TANGO_2025-12-25", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = s.Leaderboard(ctx, "TANGO_2025-12-24", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, "2025-12-24", DateKey(time.Date(2025, 12, 25, 8, 0, 0, 0, loc)))

	got, err := ParseDateKey("2025-12-25")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-25", got)
	_, err = ParseDateKey("25/12/2025")
	assert.Error(t, err)
}

func TestPuzzleCatalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	doc := game.Document{GameType: game.Zip, Date: "2025-12-25", Payload: []byte(`{"dots":[{"row":0,"col":0,"index":1}]}`)}

	added, err := s.PutPuzzle(ctx, doc)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.PutPuzzle(ctx, game.Document{GameType: game.Zip, Date: "2025-12-25", Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.False(t, added, "a stored puzzle is never replaced")

	got, err := s.Puzzle(ctx, "ZIP_2025-12-25")
	require.NoError(t, err)
	assert.Equal(t, "ZIP_2025-12-25", got.PuzzleID)
	assert.Equal(t, game.Zip, got.GameType)
	assert.JSONEq(t, string(doc.Payload), string(got.Payload))

	_, err = s.Puzzle(ctx, "ZIP_2025-12-26")
	assert.ErrorIs(t, err, ErrPuzzleNotFound)

	_, err = s.PutPuzzle(ctx, game.Document{GameType: game.Zip, Date: "someday", Payload: []byte(`{}`)})
	assert.Error(t, err)
	_, err = s.PutPuzzle(ctx, game.Document{GameType: game.Zip, Date: "2025-12-27", PuzzleID: "ZIP_easy", Payload: []byte(`{}`)})
	assert.Error(t, err)
}

func TestImportPuzzles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"2025-12-25/zip.json":   {Data: []byte(`{"gameType":"ZIP","date":"2025-12-25","payload":{"dots":[{"row":0,"col":0,"index":1}]}}`)},
		"2025-12-25/tango.json": {Data: []byte(`{"gameType":"TANGO","date":"2025-12-25","payload":{"size":6}}`)},
		"README.md":             {Data: []byte("not a puzzle")},
	}

	var checked []string
	n, err := s.ImportPuzzles(ctx, fsys, func(doc game.Document) error {
		checked = append(checked, doc.PuzzleID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"TANGO_2025-12-25", "ZIP_2025-12-25"}, checked)

	n, err = s.ImportPuzzles(ctx, fsys, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "importing twice adds nothing")

	bad := errors.New("unplayable")
	fsys["2025-12-26/zip.json"] = &fstest.MapFile{Data: []byte(`{"gameType":"ZIP","date":"2025-12-26","payload":{}}`)}
	_, err = s.ImportPuzzles(ctx, fsys, func(doc game.Document) error {
		if doc.Date == "2025-12-26" {
			return bad
		}
		return nil
	})
	assert.ErrorIs(t, err, bad)
	_, err = s.Puzzle(ctx, "ZIP_2025-12-26")
	assert.ErrorIs(t, err, ErrPuzzleNotFound)
}
