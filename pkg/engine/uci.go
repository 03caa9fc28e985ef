package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

// UCIEngine drives an external UCI process (stockfish and friends).
// Selecting it over the in-process heuristic is a constructor choice.
type UCIEngine struct {
	name string
	mu   sync.Mutex
	eng  *uci.Engine
}

// NewUCIEngine starts the engine binary at path and runs the UCI handshake.
func NewUCIEngine(path string) (*UCIEngine, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("uci: start %s: %w", path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, fmt.Errorf("uci: handshake: %w", err)
	}
	return &UCIEngine{name: "uci:" + path, eng: eng}, nil
}

func (u *UCIEngine) Name() string {
	return u.name
}

func (u *UCIEngine) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.eng.Close()
	return nil
}

const defaultMoveTime = time.Second

// BestMove asks the process for a move in the position given by fen.
// Cancellation sends a stop command; the search then returns with its best
// effort, which the caller's generation check will discard if stale.
func (u *UCIEngine) BestMove(ctx context.Context, fen string, history []string, limits Limits) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("uci: %w", err)
	}
	pos := chess.NewGame(opt).Position()

	moveTime := limits.MoveTime
	if moveTime <= 0 {
		moveTime = defaultMoveTime
	}
	cmdGo := uci.CmdGo{MoveTime: moveTime}
	if limits.Depth > 0 {
		cmdGo = uci.CmdGo{Depth: limits.Depth}
	}

	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			u.eng.Run(uci.CmdStop)
		case <-stopWatch:
		}
	}()
	defer close(stopWatch)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.eng.Run(uci.CmdPosition{Position: pos}, cmdGo); err != nil {
		return "", fmt.Errorf("uci: go: %w", err)
	}
	best := u.eng.SearchResults().BestMove
	if best == nil {
		return "", fmt.Errorf("uci: no best move returned")
	}
	return best.String(), nil
}
