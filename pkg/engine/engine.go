// Package engine provides the move-producing side of the game: a fixed
// Engine interface, in-process and UCI-subprocess implementations, and a
// Bridge that runs requests off the event loop.
package engine

import (
	"context"
	"errors"
	"time"
)

// Limits bound a single move computation. Zero values mean engine defaults.
type Limits struct {
	MoveTime    time.Duration
	Depth       int
	Temperature float64
}

// Engine computes a best move for a position. Implementations receive an
// immutable snapshot (FEN plus history copy), never a live board, so
// concurrent undo/reset on the UI side cannot corrupt a computation.
// The returned move is long algebraic (e2e4, e7e8q); callers validate it
// and fall back on their own when it is garbage.
type Engine interface {
	Name() string
	BestMove(ctx context.Context, fen string, history []string, limits Limits) (string, error)
	Close() error
}

// ErrBusy is returned when a request arrives while one is outstanding.
// Requests are never queued; the caller waits or cancels.
var ErrBusy = errors.New("engine: request already pending")

// ErrNoMoves is returned for positions with no legal moves.
var ErrNoMoves = errors.New("engine: no legal moves")
