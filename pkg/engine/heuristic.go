package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/notnil/chess"
)

// Strategy selects how the in-process engine picks its move.
type Strategy int

const (
	// StrategyRandom picks uniformly among legal moves.
	StrategyRandom Strategy = iota
	// StrategyCaptures prefers capturing moves, random otherwise.
	StrategyCaptures
	// StrategyCenter prefers moves into the four central squares.
	StrategyCenter
	// StrategyMaterial evaluates material balance one ply ahead.
	StrategyMaterial
)

func (s Strategy) String() string {
	switch s {
	case StrategyRandom:
		return "random"
	case StrategyCaptures:
		return "captures"
	case StrategyCenter:
		return "center"
	case StrategyMaterial:
		return "material"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config/flag value to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "random":
		return StrategyRandom, nil
	case "captures":
		return StrategyCaptures, nil
	case "center":
		return StrategyCenter, nil
	case "material":
		return StrategyMaterial, nil
	default:
		return StrategyRandom, fmt.Errorf("unknown strategy %q", name)
	}
}

// Heuristic is a lightweight in-process engine. It needs no external
// process and is the default opponent.
type Heuristic struct {
	strategy Strategy

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristic builds a heuristic engine using the given strategy.
func NewHeuristic(strategy Strategy) *Heuristic {
	return &Heuristic{
		strategy: strategy,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *Heuristic) Name() string {
	return "heuristic-" + h.strategy.String()
}

func (h *Heuristic) Close() error {
	return nil
}

// thinkCap keeps the simulated thinking pause short even when the caller
// allows multiple seconds.
const thinkCap = 500 * time.Millisecond

// BestMove picks a move for the position in fen. It simulates a short
// thinking pause, honoring cancellation.
func (h *Heuristic) BestMove(ctx context.Context, fen string, history []string, limits Limits) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("heuristic: %w", err)
	}
	pos := chess.NewGame(opt).Position()
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return "", ErrNoMoves
	}

	pause := limits.MoveTime
	if pause <= 0 || pause > thinkCap {
		pause = thinkCap
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(pause):
	}

	// Temperature injects occasional random play into the non-random
	// strategies so games do not repeat.
	if limits.Temperature > 0 && h.roll() < limits.Temperature {
		return h.pick(moves), nil
	}

	switch h.strategy {
	case StrategyCaptures:
		return h.pickCapture(pos, moves), nil
	case StrategyCenter:
		return h.pickCenter(moves), nil
	case StrategyMaterial:
		return h.pickMaterial(pos, moves), nil
	default:
		return h.pick(moves), nil
	}
}

func (h *Heuristic) roll() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Float64()
}

func (h *Heuristic) pick(moves []*chess.Move) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return moves[h.rng.Intn(len(moves))].String()
}

func (h *Heuristic) pickCapture(pos *chess.Position, moves []*chess.Move) string {
	var captures []*chess.Move
	for _, m := range moves {
		if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
			captures = append(captures, m)
		}
	}
	if len(captures) > 0 {
		return h.pick(captures)
	}
	return h.pick(moves)
}

func (h *Heuristic) pickCenter(moves []*chess.Move) string {
	center := map[chess.Square]bool{chess.D4: true, chess.E4: true, chess.D5: true, chess.E5: true}
	var central []*chess.Move
	for _, m := range moves {
		if center[m.S2()] {
			central = append(central, m)
		}
	}
	if len(central) > 0 {
		return h.pick(central)
	}
	return h.pick(moves)
}

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

// pickMaterial looks one ply ahead and keeps the move with the best
// material balance; captures get a bonus so equal trades still happen.
// Ties break randomly to vary play.
func (h *Heuristic) pickMaterial(pos *chess.Position, moves []*chess.Move) string {
	us := pos.Turn()
	bestScore := -1 << 30
	var best []*chess.Move
	for _, m := range moves {
		after := pos.Update(m)
		score := 0
		for _, p := range after.Board().SquareMap() {
			v := pieceValues[p.Type()]
			if p.Color() == us {
				score += v
			} else {
				score -= v
			}
		}
		if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
			if victim := pos.Board().Piece(m.S2()); victim != chess.NoPiece {
				score += pieceValues[victim.Type()] * 2
			}
		}
		switch {
		case score > bestScore:
			bestScore = score
			best = []*chess.Move{m}
		case score == bestScore:
			best = append(best, m)
		}
	}
	return h.pick(best)
}
