package game

import (
	"encoding/json"
	"errors"
	"strings"
)

// Document is the envelope in which puzzles are delivered:
// {gameType, date, puzzleId, payload}. Payload stays raw until the matching
// Definition decodes it.
type Document struct {
	GameType GameType        `json:"gameType"`
	Date     string          `json:"date"`
	PuzzleID string          `json:"puzzleId"`
	Payload  json.RawMessage `json:"payload"`
}

// PuzzleID is the canonical identifier for a game's puzzle on a date,
// e.g. "ZIP_2025-12-25".
func PuzzleID(t GameType, date string) string { return string(t) + "_" + date }

// DecodeDocument parses a payload document. Unknown top-level fields are
// ignored. A missing puzzleId is derived from gameType and date.
func DecodeDocument(raw []byte) (Document, error) {
	type wire struct {
		GameType string          `json:"gameType"`
		Date     string          `json:"date"`
		PuzzleID string          `json:"puzzleId"`
		Payload  json.RawMessage `json:"payload"`
	}
	w, err := DecodeJSON[wire]("", raw)
	if err != nil {
		return Document{}, err
	}
	t, err := ParseGameType(w.GameType)
	if err != nil {
		return Document{}, &DecodeError{Field: "gameType", Err: err}
	}
	if len(w.Payload) == 0 || string(w.Payload) == "null" {
		return Document{}, &DecodeError{Game: t, Field: "payload", Err: errors.New("missing")}
	}
	doc := Document{
		GameType: t,
		Date:     strings.TrimSpace(w.Date),
		PuzzleID: strings.TrimSpace(w.PuzzleID),
		Payload:  w.Payload,
	}
	if doc.PuzzleID == "" && doc.Date != "" {
		doc.PuzzleID = PuzzleID(t, doc.Date)
	}
	return doc, nil
}
