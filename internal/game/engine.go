// internal/game/engine.go
//
// The polymorphic game contract and its registry.
// Responsibilities:
//   - Definition[P, S]: typed contract one puzzle variant implements
//     (decode payload, initial state, apply move, validate, completion).
//   - Engine: the same contract with payload/state erased to `any`, so a
//     single registry can hold heterogeneous games.
//   - Registry: GameType → Engine lookup, built once at startup.
//
// Notes:
//   - Definitions are pure: every transition returns a new state value.
//   - Lookup recovers the typed Definition from the registry for callers that
//     know which game they are driving.

package game

import (
	"encoding/json"
	"fmt"
)

// Definition is implemented once per puzzle variant. P is the decoded
// puzzle payload and S the player's state.
type Definition[P, S any] interface {
	Type() GameType
	Info() Info

	// DecodePayload parses a game-specific payload. Failures are *DecodeError.
	DecodePayload(raw json.RawMessage) (P, error)

	// InitialState derives the starting state for a payload.
	InitialState(p P) S

	// ApplyMove returns the state after m. When the outcome is not Accepted
	// the returned state is s unchanged.
	ApplyMove(s S, p P, m Move) (S, Outcome)

	// ValidateState reports rule violations without blocking play.
	ValidateState(s S, p P) ValidationResult

	// IsCompleted reports whether s solves p.
	IsCompleted(s S, p P) bool
}

// Engine is a type-erased Definition.
type Engine interface {
	Type() GameType
	Info() Info
	Decode(raw json.RawMessage) (any, error)
	Initial(payload any) (any, error)
	Apply(state, payload any, m Move) (any, Outcome, error)
	Validate(state, payload any) (ValidationResult, error)
	Completed(state, payload any) (bool, error)
}

// Erase wraps a typed Definition as an Engine.
func Erase[P, S any](d Definition[P, S]) Engine { return erased[P, S]{def: d} }

type erased[P, S any] struct {
	def Definition[P, S]
}

func (e erased[P, S]) Type() GameType { return e.def.Type() }
func (e erased[P, S]) Info() Info     { return e.def.Info() }

func (e erased[P, S]) Decode(raw json.RawMessage) (any, error) {
	p, err := e.def.DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (e erased[P, S]) Initial(payload any) (any, error) {
	p, err := e.payload(payload)
	if err != nil {
		return nil, err
	}
	return e.def.InitialState(p), nil
}

func (e erased[P, S]) Apply(state, payload any, m Move) (any, Outcome, error) {
	s, p, err := e.unpack(state, payload)
	if err != nil {
		return state, RejectedWrongGame, err
	}
	next, out := e.def.ApplyMove(s, p, m)
	return next, out, nil
}

func (e erased[P, S]) Validate(state, payload any) (ValidationResult, error) {
	s, p, err := e.unpack(state, payload)
	if err != nil {
		return ValidationResult{}, err
	}
	return e.def.ValidateState(s, p), nil
}

func (e erased[P, S]) Completed(state, payload any) (bool, error) {
	s, p, err := e.unpack(state, payload)
	if err != nil {
		return false, err
	}
	return e.def.IsCompleted(s, p), nil
}

func (e erased[P, S]) payload(v any) (P, error) {
	p, ok := v.(P)
	if !ok {
		return p, fmt.Errorf("%w: %s got %T", ErrPayloadMismatch, e.def.Type(), v)
	}
	return p, nil
}

func (e erased[P, S]) unpack(state, payload any) (S, P, error) {
	p, err := e.payload(payload)
	if err != nil {
		var zero S
		return zero, p, err
	}
	s, ok := state.(S)
	if !ok {
		return s, p, fmt.Errorf("%w: %s got %T", ErrStateMismatch, e.def.Type(), state)
	}
	return s, p, nil
}

// Registry maps game types to engines. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	byType map[GameType]Engine
	order  []GameType
}

// NewRegistry registers engines in the given order.
func NewRegistry(engines ...Engine) (*Registry, error) {
	r := &Registry{byType: make(map[GameType]Engine, len(engines))}
	for _, e := range engines {
		t := e.Type()
		if _, dup := r.byType[t]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGame, t)
		}
		r.byType[t] = e
		r.order = append(r.order, t)
	}
	return r, nil
}

// Get returns the engine for t or ErrUnknownGame.
func (r *Registry) Get(t GameType) (Engine, error) {
	e, ok := r.byType[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, t)
	}
	return e, nil
}

// Types lists registered game types in registration order.
func (r *Registry) Types() []GameType {
	out := make([]GameType, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) IsRegistered(t GameType) bool {
	_, ok := r.byType[t]
	return ok
}

// Lookup returns the typed Definition registered for t.
func Lookup[P, S any](r *Registry, t GameType) (Definition[P, S], error) {
	e, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	w, ok := e.(erased[P, S])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionAssert, t)
	}
	return w.def, nil
}
