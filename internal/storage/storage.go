// Package storage defines persistence contracts for the round journal.
//
// A round is one game on a board, from the first prompt until the player
// wins, explodes a mine or leaves. Implementations live in subpackages.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

var (
	// ErrNotFound indicates a requested round is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "round not found")
	// ErrAlreadyExists indicates a round with the same ID was already stored.
	ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "round already exists")
)

// RoundOutcome is how a round ended.
type RoundOutcome string

const (
	RoundWon       RoundOutcome = "won"
	RoundLost      RoundOutcome = "lost"
	RoundAbandoned RoundOutcome = "abandoned"
)

// Valid reports whether o is a known outcome.
func (o RoundOutcome) Valid() bool {
	switch o {
	case RoundWon, RoundLost, RoundAbandoned:
		return true
	default:
		return false
	}
}

// Round is one journal entry.
type Round struct {
	ID         string
	Rows       int
	Cols       int
	Mines      int
	Seed       int64
	Outcome    RoundOutcome
	Moves      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RoundSummary aggregates the journal for one board configuration.
type RoundSummary struct {
	Played    int
	Won       int
	Lost      int
	Abandoned int
	// BestMoves is the fewest moves in a won round, zero when none was won.
	BestMoves int
}

// RoundStore persists finished rounds.
type RoundStore interface {
	PutRound(ctx context.Context, round Round) error
	GetRound(ctx context.Context, id string) (Round, error)
	// ListRounds returns up to limit rounds, most recently finished first.
	ListRounds(ctx context.Context, limit int) ([]Round, error)
	Summary(ctx context.Context, rows, cols, mines int) (RoundSummary, error)
}
