// internal/session/session.go
//
// Session controller: the single owner of one player's puzzle state.
// Responsibilities:
//   - Decode the payload document once and build the initial state.
//   - Thread moves through the game's pure transitions.
//   - Emit the completion signal exactly once.
//   - Zip extras: step back, undo to a cell, hint key for cached solves.
//
// Notes:
//   - Engine transitions are pure; the mutex only serialises callers that
//     share a Session (HTTP handlers run on separate goroutines).
//   - The hint key changes on every Reset so a solve started for the old
//     state can be told apart from one for the new state.

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/zip"
)

// ErrNotZip is returned by Zip-only operations on other games.
var ErrNotZip = errors.New("operation requires a zip session")

// pathEditor is the part of the Zip definition beyond game.Definition.
type pathEditor interface {
	StepBack(s zip.State, p zip.Payload) (zip.State, game.Outcome)
	UndoTo(s zip.State, p zip.Payload, pos game.Position) (zip.State, game.Outcome)
}

// Session holds one puzzle attempt.
type Session struct {
	ID       string
	OwnerID  string
	GameType game.GameType
	PuzzleID string
	Date     string
	// Ranked marks a session started from the daily catalog; only ranked
	// completions are recorded. Set before the session is shared.
	Ranked bool

	reg    *game.Registry
	engine game.Engine
	now    func() time.Time

	mu         sync.Mutex
	payload    any
	state      any
	completed  bool
	emitted    bool
	generation int
}

// Snapshot is the JSON view of a session.
type Snapshot struct {
	ID         string        `json:"id"`
	GameType   game.GameType `json:"gameType"`
	PuzzleID   string        `json:"puzzleId"`
	Date       string        `json:"date"`
	Ranked     bool          `json:"ranked"`
	Generation int           `json:"generation"`
	Completed  bool          `json:"isCompleted"`
	State      any           `json:"state"`
}

// MoveResult is returned by every state-changing call.
type MoveResult struct {
	Outcome    game.Outcome          `json:"outcome"`
	Session    Snapshot              `json:"session"`
	Validation game.ValidationResult `json:"validation"`
	// Completion is set only on the call that first completes the puzzle.
	Completion *game.Completion `json:"completion,omitempty"`
}

// New decodes doc with the registered definition and starts a session.
// now stamps completion times; nil means time.Now.
func New(reg *game.Registry, doc game.Document, ownerID string, now func() time.Time) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	e, err := reg.Get(doc.GameType)
	if err != nil {
		return nil, err
	}
	payload, err := e.Decode(doc.Payload)
	if err != nil {
		return nil, err
	}
	state, err := e.Initial(payload)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		GameType: doc.GameType,
		PuzzleID: doc.PuzzleID,
		Date:     doc.Date,
		reg:      reg,
		engine:   e,
		now:      now,
		payload:  payload,
		state:    state,
	}
	done, err := e.Completed(state, payload)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, game.Invalid(doc.GameType, "payload", "puzzle is already solved")
	}
	return s, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:         s.ID,
		GameType:   s.GameType,
		PuzzleID:   s.PuzzleID,
		Date:       s.Date,
		Ranked:     s.Ranked,
		Generation: s.generation,
		Completed:  s.completed,
		State:      s.state,
	}
}

// Apply runs one move through the game definition.
func (s *Session) Apply(m game.Move) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, out, err := s.engine.Apply(s.state, s.payload, m)
	if err != nil {
		return MoveResult{}, err
	}
	return s.commitLocked(next, out)
}

// Validate reports rule violations of the current state.
func (s *Session) Validate() (game.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Validate(s.state, s.payload)
}

// Reset restarts the puzzle and moves the session to a new hint key. A
// completion already emitted is not emitted again.
func (s *Session) Reset() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.engine.Initial(s.payload)
	if err != nil {
		return Snapshot{}, err
	}
	done, err := s.engine.Completed(state, s.payload)
	if err != nil {
		return Snapshot{}, err
	}
	s.state, s.completed = state, done
	s.generation++
	return s.snapshotLocked(), nil
}

// HintKey identifies the current generation of the session.
func (s *Session) HintKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hintKeyLocked()
}

func (s *Session) hintKeyLocked() string {
	return fmt.Sprintf("%s/%d", s.ID, s.generation)
}

// StepBack removes the last cell of a Zip path.
func (s *Session) StepBack() (MoveResult, error) {
	return s.editPath(func(d pathEditor, st zip.State, p zip.Payload) (zip.State, game.Outcome) {
		return d.StepBack(st, p)
	})
}

// UndoTo cuts a Zip path back to before pos.
func (s *Session) UndoTo(pos game.Position) (MoveResult, error) {
	return s.editPath(func(d pathEditor, st zip.State, p zip.Payload) (zip.State, game.Outcome) {
		return d.UndoTo(st, p, pos)
	})
}

// ZipView returns the payload, state and hint key of a Zip session.
func (s *Session) ZipView() (zip.Payload, zip.State, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, st, err := s.zipLocked()
	return p, st, s.hintKeyLocked(), err
}

func (s *Session) editPath(edit func(pathEditor, zip.State, zip.Payload) (zip.State, game.Outcome)) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, st, err := s.zipLocked()
	if err != nil {
		return MoveResult{}, err
	}
	def, err := game.Lookup[zip.Payload, zip.State](s.reg, game.Zip)
	if err != nil {
		return MoveResult{}, err
	}
	ed, ok := def.(pathEditor)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %T cannot edit paths", ErrNotZip, def)
	}
	next, out := edit(ed, st, p)
	return s.commitLocked(next, out)
}

func (s *Session) zipLocked() (zip.Payload, zip.State, error) {
	p, okP := s.payload.(zip.Payload)
	st, okS := s.state.(zip.State)
	if s.GameType != game.Zip || !okP || !okS {
		return zip.Payload{}, zip.State{}, fmt.Errorf("%w: %s", ErrNotZip, s.GameType)
	}
	return p, st, nil
}

// commitLocked stores an accepted state. Completion is emitted on the first
// accepted move that turns the session from incomplete to complete.
func (s *Session) commitLocked(next any, out game.Outcome) (MoveResult, error) {
	finished := false
	if out.Accepted() {
		done, err := s.engine.Completed(next, s.payload)
		if err != nil {
			return MoveResult{}, err
		}
		finished = done && !s.completed
		s.state, s.completed = next, done
	}
	v, err := s.engine.Validate(s.state, s.payload)
	if err != nil {
		return MoveResult{}, err
	}
	res := MoveResult{Outcome: out, Session: s.snapshotLocked(), Validation: v}
	if finished && !s.emitted {
		s.emitted = true
		if t, ok := s.state.(game.Tracker); ok {
			c := game.CompletionOf(t, s.now())
			res.Completion = &c
		}
	}
	return res, nil
}
