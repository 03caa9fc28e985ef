package pkg

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// TerminalKind classifies game-ending conditions.
type TerminalKind int

const (
	Checkmate TerminalKind = iota
	Stalemate
	DrawInsufficientMaterial
	DrawFiftyMoves
	DrawThreefold
	TimeForfeit
	Resignation
)

func (k TerminalKind) String() string {
	switch k {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawInsufficientMaterial:
		return "draw by insufficient material"
	case DrawFiftyMoves:
		return "draw by fifty-move rule"
	case DrawThreefold:
		return "draw by threefold repetition"
	case TimeForfeit:
		return "time forfeit"
	case Resignation:
		return "resignation"
	default:
		return "unknown"
	}
}

// TerminalState reports how a game ended. Winner is NoColor for draws.
type TerminalState struct {
	Kind   TerminalKind
	Winner chess.Color
	Reason string
}

// MoveReport is returned by TryMove with everything the caller needs to
// trigger side effects: sound, animation, history panels.
type MoveReport struct {
	Move      Move
	SAN       string
	UCI       string
	Capture   bool
	Check     bool
	Castle    bool
	EnPassant bool
	Promotion bool
}

// Game owns the authoritative position and the move history in both
// notations. All mutation goes through TryMove, UndoLast or Reset; no other
// component holds a mutable reference to the position.
type Game struct {
	inner    *chess.Game
	startFEN string
	uciMoves []string
	sanMoves []string
}

// NewGame starts from the standard setup.
func NewGame() *Game {
	g := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	return &Game{inner: g, startFEN: g.Position().String()}
}

// NewGameFromFEN starts from an arbitrary position.
func NewGameFromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("bad fen: %w", err)
	}
	g := chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))
	return &Game{inner: g, startFEN: g.Position().String()}, nil
}

// FEN returns the full position serialization, castling rights and
// en-passant target included.
func (g *Game) FEN() string {
	return g.inner.Position().String()
}

// Turn is the side to move.
func (g *Game) Turn() chess.Color {
	return g.inner.Position().Turn()
}

// PieceAt returns the piece on sq, chess.NoPiece when empty.
func (g *Game) PieceAt(sq chess.Square) chess.Piece {
	return g.inner.Position().Board().Piece(sq)
}

// LegalMoves enumerates every legal move for the side to move.
func (g *Game) LegalMoves() []Move {
	valid := g.inner.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, vm := range valid {
		moves = append(moves, moveOf(vm))
	}
	return moves
}

// LegalMovesFrom is the subset of LegalMoves originating at sq. Used for
// destination highlighting.
func (g *Game) LegalMovesFrom(sq chess.Square) []Move {
	var moves []Move
	for _, vm := range g.inner.ValidMoves() {
		if vm.S1() == sq {
			moves = append(moves, moveOf(vm))
		}
	}
	return moves
}

// IsPromotionMove reports whether from→to would structurally be a pawn
// promotion: a pawn reaching the terminal rank for its side. Callers must
// supply a promotion kind to TryMove when this is true.
func (g *Game) IsPromotionMove(from, to chess.Square) bool {
	return isPromotion(g.inner.Position(), from, to)
}

func isPromotion(pos *chess.Position, from, to chess.Square) bool {
	p := pos.Board().Piece(from)
	if p == chess.NoPiece || p.Type() != chess.Pawn {
		return false
	}
	if p.Color() == chess.White {
		return to.Rank() == chess.Rank8
	}
	return to.Rank() == chess.Rank1
}

// TryMove validates m against the current legal moves and commits it.
// SAN is computed before mutation since it depends on the prior position.
// On rejection nothing is mutated; calling again with the same illegal move
// rejects again without side effects.
func (g *Game) TryMove(m Move) (MoveReport, error) {
	vm, err := findValid(g.inner.ValidMoves(), m)
	if err != nil {
		return MoveReport{}, err
	}
	pos := g.inner.Position()
	san := chess.AlgebraicNotation{}.Encode(pos, vm)
	uci := chess.UCINotation{}.Encode(pos, vm)
	if err := g.inner.Move(vm); err != nil {
		// Unreachable after findValid, but never trust it silently.
		return MoveReport{}, fmt.Errorf("apply %s: %w", uci, err)
	}
	g.uciMoves = append(g.uciMoves, uci)
	g.sanMoves = append(g.sanMoves, san)
	return MoveReport{
		Move:      m,
		SAN:       san,
		UCI:       uci,
		Capture:   vm.HasTag(chess.Capture) || vm.HasTag(chess.EnPassant),
		Check:     vm.HasTag(chess.Check),
		Castle:    vm.HasTag(chess.KingSideCastle) || vm.HasTag(chess.QueenSideCastle),
		EnPassant: vm.HasTag(chess.EnPassant),
		Promotion: vm.Promo() != chess.NoPieceType,
	}, nil
}

// TryMoveUCI parses and applies a long-algebraic move string.
func (g *Game) TryMoveUCI(uci string) (MoveReport, error) {
	m, err := ParseMove(uci)
	if err != nil {
		return MoveReport{}, err
	}
	return g.TryMove(m)
}

// UndoLast reverts the most recent move by replaying the shortened history
// onto a fresh game; the rules library has no pop. Reports the undone move.
func (g *Game) UndoLast() (Move, bool) {
	if len(g.uciMoves) == 0 {
		return Move{}, false
	}
	last := g.uciMoves[len(g.uciMoves)-1]
	g.uciMoves = g.uciMoves[:len(g.uciMoves)-1]
	g.sanMoves = g.sanMoves[:len(g.sanMoves)-1]
	g.inner = replay(g.startFEN, g.uciMoves)
	m, _ := ParseMove(last)
	return m, true
}

// replay rebuilds a rules-library game from a start position and a UCI
// history. The history is trusted here: it only ever contains moves that
// previously passed TryMove.
func replay(startFEN string, uciMoves []string) *chess.Game {
	opt, err := chess.FEN(startFEN)
	if err != nil {
		return chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	}
	g := chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))
	for _, uci := range uciMoves {
		if err := g.MoveStr(uci); err != nil {
			break
		}
	}
	return g
}

// Reset returns to the game's starting position and clears both histories.
func (g *Game) Reset() {
	g.inner = replay(g.startFEN, nil)
	g.uciMoves = nil
	g.sanMoves = nil
}

// HistoryUCI is the applied-move history in engine transport form.
func (g *Game) HistoryUCI() []string {
	out := make([]string, len(g.uciMoves))
	copy(out, g.uciMoves)
	return out
}

// HistorySAN is the human-display history, computed at application time.
func (g *Game) HistorySAN() []string {
	out := make([]string, len(g.sanMoves))
	copy(out, g.sanMoves)
	return out
}

// Plies is the number of applied moves.
func (g *Game) Plies() int {
	return len(g.uciMoves)
}

// AtPly returns a fresh Game positioned after the first n applied moves.
// Used for history navigation; the live game is untouched.
func (g *Game) AtPly(n int) *Game {
	if n < 0 {
		n = 0
	}
	if n > len(g.uciMoves) {
		n = len(g.uciMoves)
	}
	nav := &Game{startFEN: g.startFEN}
	nav.inner = replay(g.startFEN, nil)
	for i := 0; i < n; i++ {
		m, err := ParseMove(g.uciMoves[i])
		if err != nil {
			break
		}
		if _, err := nav.TryMove(m); err != nil {
			break
		}
	}
	return nav
}

// Terminal evaluates game-ending conditions in fixed priority order:
// checkmate, stalemate, insufficient material, fifty-move claimable,
// threefold claimable. First match wins; checkmate strictly dominates the
// draw conditions. Returns nil while the game is live.
func (g *Game) Terminal() *TerminalState {
	switch g.inner.Method() {
	case chess.Checkmate:
		winner := chess.White
		if g.inner.Outcome() == chess.BlackWon {
			winner = chess.Black
		}
		return &TerminalState{Kind: Checkmate, Winner: winner}
	case chess.Stalemate:
		return &TerminalState{Kind: Stalemate, Winner: chess.NoColor}
	case chess.InsufficientMaterial:
		return &TerminalState{Kind: DrawInsufficientMaterial, Winner: chess.NoColor, Reason: "insufficient material"}
	case chess.Resignation:
		winner := chess.White
		if g.inner.Outcome() == chess.BlackWon {
			winner = chess.Black
		}
		return &TerminalState{Kind: Resignation, Winner: winner}
	}
	// Claimable draws are not auto-applied by the rules library.
	for _, method := range g.inner.EligibleDraws() {
		if method == chess.FiftyMoveRule {
			return &TerminalState{Kind: DrawFiftyMoves, Winner: chess.NoColor, Reason: "fifty-move rule"}
		}
	}
	for _, method := range g.inner.EligibleDraws() {
		if method == chess.ThreefoldRepetition {
			return &TerminalState{Kind: DrawThreefold, Winner: chess.NoColor, Reason: "threefold repetition"}
		}
	}
	return nil
}

// Resign ends the game in favor of the opposite side.
func (g *Game) Resign(side chess.Color) {
	g.inner.Resign(side)
}

// KingSquare locates side's king, chess.NoSquare when absent.
func (g *Game) KingSquare(side chess.Color) chess.Square {
	for sq, p := range g.inner.Position().Board().SquareMap() {
		if p.Type() == chess.King && p.Color() == side {
			return sq
		}
	}
	return chess.NoSquare
}

// InCheck reports whether the side to move is currently in check.
func (g *Game) InCheck() bool {
	pos := g.inner.Position()
	king := g.KingSquare(pos.Turn())
	if king == chess.NoSquare {
		return false
	}
	return squareAttacked(pos, king, pos.Turn().Other())
}

// HasMatingMaterial reports whether side could ever deliver checkmate with
// unlimited time. A side with a bare king, or king plus a single minor
// piece, cannot; its opponent draws on flag fall instead of losing.
func (g *Game) HasMatingMaterial(side chess.Color) bool {
	minors := 0
	for _, p := range g.inner.Position().Board().SquareMap() {
		if p.Color() != side {
			continue
		}
		switch p.Type() {
		case chess.Pawn, chess.Rook, chess.Queen:
			return true
		case chess.Bishop, chess.Knight:
			minors++
		}
	}
	return minors >= 2
}

// Status is a one-line human readable game summary.
func (g *Game) Status() string {
	if t := g.Terminal(); t != nil {
		if t.Winner == chess.NoColor {
			return t.Kind.String()
		}
		return fmt.Sprintf("%s, %s wins", t.Kind, colorName(t.Winner))
	}
	if g.InCheck() {
		return fmt.Sprintf("%s is in check", colorName(g.Turn()))
	}
	return fmt.Sprintf("%s to move", colorName(g.Turn()))
}

func colorName(c chess.Color) string {
	if c == chess.White {
		return "White"
	}
	return "Black"
}

// CastlingRights describes the four independent castling permissions.
type CastlingRights struct {
	WhiteKingSide  bool
	WhiteQueenSide bool
	BlackKingSide  bool
	BlackQueenSide bool
}

// Castling reads the rights out of the position serialization.
func (g *Game) Castling() CastlingRights {
	fields := strings.Fields(g.FEN())
	if len(fields) < 3 {
		return CastlingRights{}
	}
	return CastlingRights{
		WhiteKingSide:  strings.Contains(fields[2], "K"),
		WhiteQueenSide: strings.Contains(fields[2], "Q"),
		BlackKingSide:  strings.Contains(fields[2], "k"),
		BlackQueenSide: strings.Contains(fields[2], "q"),
	}
}
