package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brainburst/apps/go-server/internal/daily"
	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/session"
	"github.com/robalobadob/brainburst/apps/go-server/internal/store"
)

// maxDocumentBytes bounds POST /sessions bodies.
const maxDocumentBytes = 1 << 20

// mountSessions registers:
//
//	POST   /sessions                 create from a payload document (unranked)
//	GET    /sessions/{id}            snapshot
//	DELETE /sessions/{id}            end the session
//	POST   /sessions/{id}/moves      apply a move
//	GET    /sessions/{id}/validation advisory validation
//	POST   /sessions/{id}/reset      restart the puzzle
//	POST   /sessions/{id}/undo       zip: step back, or undo to {row,col}
//	POST   /sessions/{id}/hint       zip: hint
func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/moves", s.handleMove)
			r.Get("/validation", s.handleValidate)
			r.Post("/reset", s.handleReset)
			r.Post("/undo", s.handleUndo)
			r.Post("/hint", s.handleHint)
		})
	})
}

// -----------------------------------------------------------------------------
// lookup

// session returns the caller's session for {id}, writing 404 otherwise.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.OwnerID != s.playerID(w, r) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("session lookup")
		}
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

// prefetch starts the background solve for a zip session.
func (s *Server) prefetch(sess *session.Session) {
	if sess.GameType != game.Zip {
		return
	}
	p, _, key, err := sess.ZipView()
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("zip prefetch")
		return
	}
	s.hints.Prefetch(key, p)
}

// -----------------------------------------------------------------------------
// create / get / delete

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	doc, err := game.DecodeDocument(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := session.New(s.reg, doc, s.playerID(w, r), s.opts.Now)
	if err != nil {
		var de *game.DecodeError
		if errors.As(err, &de) || errors.Is(err, game.ErrUnknownGame) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	s.prefetch(sess)
	log.Info().Str("session", sess.ID).Str("game", string(sess.GameType)).Str("puzzle", sess.PuzzleID).Msg("session started")
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("delete session")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if sess.GameType == game.Zip {
		s.hints.Forget(sess.HintKey())
	}
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// moves

// moveReq is the body of POST /sessions/{id}/moves. value is a digit for
// Sudoku, "SUN" | "MOON" | "EMPTY" for Tango, and ignored for Zip.
type moveReq struct {
	Row   int             `json:"row"`
	Col   int             `json:"col"`
	Value json.RawMessage `json:"value"`
}

func (m moveReq) toMove(t game.GameType) (game.Move, error) {
	pos := game.Position{Row: m.Row, Col: m.Col}
	switch t {
	case game.MiniSudoku6x6:
		var v int
		if len(m.Value) > 0 {
			if err := json.Unmarshal(m.Value, &v); err != nil {
				return nil, fmt.Errorf("value: want a digit: %w", err)
			}
		}
		return game.SudokuMove{Position: pos, Value: v}, nil
	case game.Tango:
		var v game.CellValue
		if len(m.Value) > 0 {
			if err := json.Unmarshal(m.Value, &v); err != nil {
				return nil, fmt.Errorf("value: %w", err)
			}
		}
		return game.TangoMove{Position: pos, Value: v}, nil
	case game.Zip:
		return game.ZipMove{Position: pos}, nil
	}
	return nil, fmt.Errorf("%w: %s", game.ErrUnknownGame, t)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	m, err := req.toMove(sess.GameType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := sess.Apply(m)
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("apply move")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	s.afterMove(r, sess, res)
	writeJSON(w, http.StatusOK, res)
}

// afterMove records a ranked completion in the daily results.
func (s *Server) afterMove(r *http.Request, sess *session.Session, res session.MoveResult) {
	if res.Completion == nil {
		return
	}
	ev := log.Info().
		Str("session", sess.ID).
		Str("puzzle", sess.PuzzleID).
		Int64("duration_ms", res.Completion.DurationMs).
		Int("moves", res.Completion.MovesCount).
		Bool("ranked", sess.Ranked)
	if !sess.Ranked {
		ev.Msg("puzzle completed")
		return
	}
	inserted, err := s.results.InsertResult(r.Context(), daily.Result{
		UserID:     sess.OwnerID,
		PuzzleID:   sess.PuzzleID,
		GameType:   sess.GameType,
		Date:       sess.Date,
		DurationMs: res.Completion.DurationMs,
		MovesCount: res.Completion.MovesCount,
	})
	if err != nil {
		ev.Discard()
		log.Error().Err(err).Str("session", sess.ID).Msg("record result")
		return
	}
	ev.Bool("recorded", inserted).Msg("puzzle completed")
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.Validate()
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("validate")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	old := sess.HintKey()
	snap, err := sess.Reset()
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("reset")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if sess.GameType == game.Zip {
		s.hints.Forget(old)
		s.prefetch(sess)
	}
	writeJSON(w, http.StatusOK, snap)
}

// -----------------------------------------------------------------------------
// zip extras

type undoReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req undoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	var res session.MoveResult
	var err error
	switch {
	case req.Row != nil && req.Col != nil:
		res, err = sess.UndoTo(game.Position{Row: *req.Row, Col: *req.Col})
	case req.Row == nil && req.Col == nil:
		res, err = sess.StepBack()
	default:
		writeError(w, http.StatusBadRequest, "row and col go together")
		return
	}
	if errors.Is(err, session.ErrNotZip) {
		writeError(w, http.StatusConflict, "undo is only available for zip")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("undo")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	p, st, key, err := sess.ZipView()
	if errors.Is(err, session.ErrNotZip) {
		writeError(w, http.StatusConflict, "hints are only available for zip")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("hint")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	h := s.hints.Hint(r.Context(), key, p, st)
	writeJSON(w, http.StatusOK, map[string]any{"hint": h})
}
