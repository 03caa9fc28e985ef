package pkg

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

func mustMove(t *testing.T, g *Game, uci string) MoveReport {
	t.Helper()
	report, err := g.TryMoveUCI(uci)
	if err != nil {
		t.Fatalf("move %s failed: %v", uci, err)
	}
	return report
}

func mustGameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q) failed: %v", fen, err)
	}
	return g
}

func TestKnightDestinationsAfterOpening(t *testing.T) {
	g := NewGame()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		mustMove(t, g, uci)
	}

	dests := make(map[chess.Square]bool)
	for _, m := range g.LegalMovesFrom(chess.F3) {
		dests[m.To] = true
	}
	for _, want := range []chess.Square{chess.D4, chess.E5, chess.G5, chess.H4} {
		if !dests[want] {
			t.Errorf("expected %s among knight destinations, got %v", want, dests)
		}
	}
	if dests[chess.D2] || dests[chess.H2] || dests[chess.E1] {
		t.Errorf("knight may not land on own pieces, got %v", dests)
	}
}

func TestFoolsMateIsCheckmate(t *testing.T) {
	// Black just played Qh4#, White to move and is checkmated.
	fen := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	g := mustGameFromFEN(t, fen)

	term := g.Terminal()
	if term == nil {
		t.Fatal("expected terminal state, got live game")
	}
	if term.Kind != Checkmate {
		t.Fatalf("expected checkmate, got %s", term.Kind)
	}
	if term.Winner != chess.Black {
		t.Fatalf("expected Black to win, got %s", colorName(term.Winner))
	}
	if len(g.LegalMoves()) != 0 {
		t.Fatalf("expected no legal moves in mate, got %d", len(g.LegalMoves()))
	}
}

func TestStalemateIsDraw(t *testing.T) {
	// Black to move, no legal moves, not in check.
	g := mustGameFromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	term := g.Terminal()
	if term == nil {
		t.Fatal("expected terminal state, got live game")
	}
	if term.Kind != Stalemate {
		t.Fatalf("expected stalemate, got %s", term.Kind)
	}
	if term.Winner != chess.NoColor {
		t.Fatalf("stalemate has no winner, got %s", colorName(term.Winner))
	}
	if g.InCheck() {
		t.Fatal("stalemated side must not be in check")
	}
}

func TestPromotionRequiresKind(t *testing.T) {
	g := mustGameFromFEN(t, "8/P7/8/8/8/8/8/4K2k w - - 0 1")

	if !g.IsPromotionMove(chess.A7, chess.A8) {
		t.Fatal("a7a8 should be structurally a promotion")
	}
	_, err := g.TryMove(Move{From: chess.A7, To: chess.A8})
	if !errors.Is(err, ErrPromotionRequired) {
		t.Fatalf("expected ErrPromotionRequired, got %v", err)
	}

	report, err := g.TryMove(Move{From: chess.A7, To: chess.A8, Promo: chess.Queen})
	if err != nil {
		t.Fatalf("promotion with kind failed: %v", err)
	}
	if !report.Promotion {
		t.Fatal("report should flag promotion")
	}
	if p := g.PieceAt(chess.A8); p.Type() != chess.Queen || p.Color() != chess.White {
		t.Fatalf("expected white queen on a8, got %s", p)
	}
}

func TestRejectionLeavesStateUntouched(t *testing.T) {
	g := NewGame()
	before := g.FEN()

	for i := 0; i < 2; i++ {
		if _, err := g.TryMoveUCI("e2e5"); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("attempt %d: expected ErrIllegalMove, got %v", i+1, err)
		}
	}
	if g.FEN() != before {
		t.Fatalf("rejection mutated position:\n before %s\n after  %s", before, g.FEN())
	}
	if g.Plies() != 0 {
		t.Fatalf("rejection grew history to %d plies", g.Plies())
	}
}

func TestUndoRestoresPosition(t *testing.T) {
	g := NewGame()
	start := g.FEN()
	mustMove(t, g, "e2e4")
	afterFirst := g.FEN()
	mustMove(t, g, "e7e5")

	if m, ok := g.UndoLast(); !ok || m.UCI() != "e7e5" {
		t.Fatalf("undo reported %v, %v", m, ok)
	}
	if g.FEN() != afterFirst {
		t.Fatalf("undo did not restore position:\n want %s\n got  %s", afterFirst, g.FEN())
	}
	g.UndoLast()
	if g.FEN() != start {
		t.Fatalf("second undo did not restore start:\n want %s\n got  %s", start, g.FEN())
	}
	if _, ok := g.UndoLast(); ok {
		t.Fatal("undo on empty history should report false")
	}
}

func TestHistoryBothNotations(t *testing.T) {
	g := NewGame()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		mustMove(t, g, uci)
	}

	if diff := cmp.Diff([]string{"e2e4", "e7e5", "g1f3"}, g.HistoryUCI()); diff != "" {
		t.Errorf("uci history mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"e4", "e5", "Nf3"}, g.HistorySAN()); diff != "" {
		t.Errorf("san history mismatch (-want +got):\n%s", diff)
	}
}

func TestAtPlyNavigation(t *testing.T) {
	g := NewGame()
	start := g.FEN()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		mustMove(t, g, uci)
	}

	nav := g.AtPly(2)
	if nav.Plies() != 2 {
		t.Fatalf("expected 2 plies, got %d", nav.Plies())
	}
	if nav.Turn() != chess.White {
		t.Fatalf("after two plies White is to move, got %s", colorName(nav.Turn()))
	}
	if g.Plies() != 4 {
		t.Fatal("navigation must not touch the live game")
	}
	if got := g.AtPly(0).FEN(); got != start {
		t.Fatalf("AtPly(0) should be the start position, got %s", got)
	}
}

func TestPGNRoundTrip(t *testing.T) {
	g := NewGame()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		mustMove(t, g, uci)
	}
	pgn := g.ToPGN(PGNTags{Event: "test", White: "alpha", Black: "beta"})

	loaded, err := FromPGN(pgn)
	if err != nil {
		t.Fatalf("FromPGN failed: %v", err)
	}
	if diff := cmp.Diff(g.HistoryUCI(), loaded.HistoryUCI()); diff != "" {
		t.Errorf("history mismatch after round trip (-want +got):\n%s", diff)
	}
	if g.FEN() != loaded.FEN() {
		t.Fatalf("position mismatch after round trip:\n want %s\n got  %s", g.FEN(), loaded.FEN())
	}
}

func TestFromPGNRejectsCorruptRecord(t *testing.T) {
	if _, err := FromPGN("1. e4 e5 2. Qxe5"); err == nil {
		t.Fatal("expected corrupt record to fail")
	}
}

func TestHasMatingMaterial(t *testing.T) {
	cases := []struct {
		fen   string
		side  chess.Color
		want  bool
		label string
	}{
		{"4k3/8/8/8/8/8/8/4K2R w - - 0 1", chess.White, true, "king and rook"},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", chess.White, false, "king and bishop"},
		{"4k3/8/8/8/8/8/8/3NKN2 w - - 0 1", chess.White, true, "king and two knights"},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", chess.Black, false, "bare king"},
		{"4k3/7p/8/8/8/8/8/4K3 w - - 0 1", chess.Black, true, "king and pawn"},
	}
	for _, c := range cases {
		g := mustGameFromFEN(t, c.fen)
		if got := g.HasMatingMaterial(c.side); got != c.want {
			t.Errorf("%s: HasMatingMaterial(%s) = %v, want %v", c.label, colorName(c.side), got, c.want)
		}
	}
}

func TestInCheck(t *testing.T) {
	g := mustGameFromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !g.InCheck() {
		t.Fatal("expected White in check in fool's mate position")
	}
	if NewGame().InCheck() {
		t.Fatal("start position is not check")
	}
}

func TestInCheckByPinnedPiece(t *testing.T) {
	// The black rook on a3 is pinned against its own king by the a8 rook,
	// so it has no legal moves, but it still checks the white king on a1.
	g := mustGameFromFEN(t, "R7/8/8/k7/8/r7/8/K7 w - - 0 1")
	if !g.InCheck() {
		t.Fatal("a pinned piece still gives check")
	}
}

func TestInCheckAttackTypes(t *testing.T) {
	cases := []struct {
		label string
		fen   string
		want  bool
	}{
		{"knight check", "4k3/8/8/8/8/3n4/8/4K3 w - - 0 1", true},
		{"pawn check", "4k3/8/8/8/8/3p4/4K3/8 w - - 0 1", true},
		{"pawn straight ahead", "4k3/8/8/8/8/4p3/4K3/8 w - - 0 1", false},
		{"bishop check", "4k3/8/8/7b/8/8/8/3K4 w - - 0 1", true},
		{"blocked rook", "4k3/8/8/8/8/4r3/4P3/4K3 w - - 0 1", false},
		{"queen on file", "3qk3/8/8/8/8/8/8/3K4 w - - 0 1", true},
	}
	for _, c := range cases {
		g := mustGameFromFEN(t, c.fen)
		if got := g.InCheck(); got != c.want {
			t.Errorf("%s: InCheck() = %v, want %v", c.label, got, c.want)
		}
	}
}

func TestCastlingRights(t *testing.T) {
	g := NewGame()
	rights := g.Castling()
	if !rights.WhiteKingSide || !rights.WhiteQueenSide || !rights.BlackKingSide || !rights.BlackQueenSide {
		t.Fatalf("start position has all rights, got %+v", rights)
	}

	g = mustGameFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")
	rights = g.Castling()
	if !rights.WhiteKingSide || rights.WhiteQueenSide || rights.BlackKingSide || !rights.BlackQueenSide {
		t.Fatalf("expected Kq only, got %+v", rights)
	}
}

func TestResignation(t *testing.T) {
	g := NewGame()
	g.Resign(chess.White)
	term := g.Terminal()
	if term == nil || term.Kind != Resignation {
		t.Fatalf("expected resignation, got %+v", term)
	}
	if term.Winner != chess.Black {
		t.Fatalf("expected Black to win by resignation, got %s", colorName(term.Winner))
	}
}
