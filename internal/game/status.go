package game

import "github.com/lgbarn/chessrules-go/internal/chess"

// Status is the state of a game. Every status other than InProgress is
// terminal.
type Status int

const (
	InProgress Status = iota
	Checkmate
	Stalemate
	DrawByRepetition
	DrawByFiftyMove
	DrawByInsufficientMaterial
)

var statusNames = [...]string{
	InProgress:                 "in_progress",
	Checkmate:                  "checkmate",
	Stalemate:                  "stalemate",
	DrawByRepetition:           "draw_by_repetition",
	DrawByFiftyMove:            "draw_by_fifty_move",
	DrawByInsufficientMaterial: "draw_by_insufficient_material",
}

// String returns the snake_case name of the status.
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether no further moves are accepted.
func (s Status) IsTerminal() bool {
	return s != InProgress
}

// IsDraw reports whether the game ended without a winner.
func (s Status) IsDraw() bool {
	switch s {
	case Stalemate, DrawByRepetition, DrawByFiftyMove, DrawByInsufficientMaterial:
		return true
	default:
		return false
	}
}

// resultToken maps a status and winner to the PGN result.
func resultToken(s Status, winner chess.Colour) string {
	switch {
	case s == Checkmate && winner == chess.White:
		return chess.WhiteWins
	case s == Checkmate:
		return chess.BlackWins
	case s.IsDraw():
		return chess.DrawResult
	default:
		return chess.InProgress
	}
}
