package engine

import (
	"context"
	"testing"
	"time"

	"github.com/notnil/chess"
)

// hangingQueenFEN gives White exactly one material-winning move, d2d5.
const hangingQueenFEN = "4k3/8/8/3q4/8/8/3R4/3K4 w - - 0 1"

func TestMaterialStrategyTakesHangingQueen(t *testing.T) {
	h := NewHeuristic(StrategyMaterial)
	uci, err := h.BestMove(context.Background(), hangingQueenFEN, nil, Limits{MoveTime: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if uci != "d2d5" {
		t.Fatalf("expected the queen capture d2d5, got %s", uci)
	}
}

func TestTemperatureInjectsRandomMoves(t *testing.T) {
	h := NewHeuristic(StrategyMaterial)
	limits := Limits{MoveTime: time.Millisecond, Temperature: 1}

	opt, err := chess.FEN(hangingQueenFEN)
	if err != nil {
		t.Fatal(err)
	}

	sawOther := false
	for i := 0; i < 30; i++ {
		uci, err := h.BestMove(context.Background(), hangingQueenFEN, nil, limits)
		if err != nil {
			t.Fatal(err)
		}
		// Every pick, random or not, must be legal.
		game := chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))
		if err := game.MoveStr(uci); err != nil {
			t.Fatalf("temperature pick %s is illegal: %v", uci, err)
		}
		if uci != "d2d5" {
			sawOther = true
		}
	}
	if !sawOther {
		t.Fatal("full temperature never deviated from the strategy move")
	}
}

func TestHeuristicNoMoves(t *testing.T) {
	h := NewHeuristic(StrategyRandom)
	// Stalemate: Black has no legal moves.
	_, err := h.BestMove(context.Background(), "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", nil, Limits{MoveTime: time.Millisecond})
	if err != ErrNoMoves {
		t.Fatalf("expected ErrNoMoves, got %v", err)
	}
}
