package daily

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
)

// DefaultLeaderboardLimit is used when Leaderboard is given limit <= 0.
const DefaultLeaderboardLimit = 20

// Result is one completed daily puzzle.
type Result struct {
	UserID     string        `json:"userId"`
	PuzzleID   string        `json:"puzzleId"`
	GameType   game.GameType `json:"gameType"`
	Date       string        `json:"date"`
	DurationMs int64         `json:"durationMs"`
	MovesCount int           `json:"movesCount"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for puzzleID.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, puzzleID string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND puzzle_id=?",
		userID, puzzleID,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("check played: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult stores r. A second result for the same user and puzzle is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, puzzle_id, game_type, date, duration_ms, moves_count)
VALUES(?,?,?,?,?,?)`, r.UserID, r.PuzzleID, string(r.GameType), r.Date, r.DurationMs, r.MovesCount,
	)
	if err != nil {
		return false, fmt.Errorf("insert result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert result: %w", err)
	}
	return n == 1, nil
}

type LBRow struct {
	UserID     string `json:"userId"`
	DurationMs int64  `json:"durationMs"`
	MovesCount int    `json:"movesCount"`
}

// Leaderboard returns the fastest results for one puzzle; ties go to fewer
// moves, then to the earlier finisher.
func (s *Store) Leaderboard(ctx context.Context, puzzleID string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, duration_ms, moves_count
FROM daily_results
WHERE puzzle_id=?
ORDER BY duration_ms ASC, moves_count ASC, created_at ASC, rowid ASC
LIMIT ?`, puzzleID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.DurationMs, &r.MovesCount); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
