package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownGame      = errors.New("unknown game type")
	ErrDuplicateGame    = errors.New("game type already registered")
	ErrPayloadMismatch  = errors.New("payload does not belong to this game")
	ErrStateMismatch    = errors.New("state does not belong to this game")
	ErrDefinitionAssert = errors.New("registered definition has different payload/state types")
)

// DecodeError reports a payload that does not match its game's schema.
type DecodeError struct {
	Game  GameType
	Field string // empty when the whole document failed to parse
	Err   error
}

func (e *DecodeError) Error() string {
	what := "document"
	if e.Game != "" {
		what = string(e.Game) + " payload"
	}
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", what, e.Err)
	}
	return fmt.Sprintf("decode %s: %s: %v", what, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Invalid builds a DecodeError for a schema violation on field.
func Invalid(game GameType, field, format string, args ...any) *DecodeError {
	return &DecodeError{Game: game, Field: field, Err: fmt.Errorf(format, args...)}
}

// DecodeJSON unmarshals raw into a T. Unknown fields are ignored so newer
// payload producers stay compatible; syntax and type errors become a
// DecodeError.
func DecodeJSON[T any](game GameType, raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, &DecodeError{Game: game, Err: errors.New("empty payload")}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return out, &DecodeError{Game: game, Field: te.Field, Err: err}
		}
		return out, &DecodeError{Game: game, Err: err}
	}
	return out, nil
}
