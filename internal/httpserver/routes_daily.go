package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brainburst/apps/go-server/internal/daily"
	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/session"
)

// mountDaily registers:
//
//	POST /daily/sessions     start (or report played) the daily puzzle
//	GET  /daily/leaderboard  top results for a daily puzzle
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/sessions", s.handleDailyNew)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyPuzzleID resolves gameType and date (default today, UTC) to the
// catalog id. It writes 400 on bad input.
func (s *Server) dailyPuzzleID(w http.ResponseWriter, gameType, date string) (game.GameType, string, string, bool) {
	gt, err := game.ParseGameType(gameType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", "", false
	}
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	} else if date, err = daily.ParseDateKey(date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", "", false
	}
	return gt, date, game.PuzzleID(gt, date), true
}

// -----------------------------------------------------------------------------
// /daily/sessions

type dailyNewReq struct {
	GameType string `json:"gameType"`
	Date     string `json:"date"`
}

// dailyNewRes is returned by POST /daily/sessions.
type dailyNewRes struct {
	PuzzleID string            `json:"puzzleId"`
	Date     string            `json:"date"`
	Played   bool              `json:"played"`
	Session  *session.Snapshot `json:"session,omitempty"`
}

// handleDailyNew starts a ranked session for the catalog puzzle.
// - If the player already has a result for it → Played=true, no session.
// - Otherwise a new session is created and returned with 201.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	_, date, puzzleID, ok := s.dailyPuzzleID(w, req.GameType, req.Date)
	if !ok {
		return
	}
	uid := s.playerID(w, r)

	played, err := s.results.AlreadyPlayed(r.Context(), uid, puzzleID)
	if err != nil {
		log.Error().Err(err).Msg("check played")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{PuzzleID: puzzleID, Date: date, Played: true})
		return
	}

	doc, err := s.results.Puzzle(r.Context(), puzzleID)
	if errors.Is(err, daily.ErrPuzzleNotFound) {
		writeError(w, http.StatusNotFound, "no puzzle for that day")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("load puzzle")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	sess, err := session.New(s.reg, doc, uid, s.opts.Now)
	if err != nil {
		log.Error().Err(err).Str("puzzle", puzzleID).Msg("catalog puzzle does not load")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	sess.Ranked = true
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	s.prefetch(sess)
	log.Info().Str("session", sess.ID).Str("puzzle", puzzleID).Msg("daily session started")
	snap := sess.Snapshot()
	writeJSON(w, http.StatusCreated, dailyNewRes{PuzzleID: puzzleID, Date: date, Session: &snap})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	GameType game.GameType `json:"gameType"`
	Date     string        `json:"date"`
	PuzzleID string        `json:"puzzleId"`
	Top      []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the top results for the daily puzzle of
// ?gameType= on ?date= (default today, UTC).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gt, date, puzzleID, ok := s.dailyPuzzleID(w, q.Get("gameType"), q.Get("date"))
	if !ok {
		return
	}
	rows, err := s.results.Leaderboard(r.Context(), puzzleID, daily.DefaultLeaderboardLimit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{GameType: gt, Date: date, PuzzleID: puzzleID, Top: rows})
}
