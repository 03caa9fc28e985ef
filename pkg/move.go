package pkg

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// Errors surfaced by the core. All of them are recoverable: the caller
// clears its selection or retries, the process never dies over them.
var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrPromotionRequired = errors.New("promotion piece required")
	ErrNoMoves           = errors.New("no legal moves available")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrGameOver          = errors.New("game is over")
	ErrBusyThinking      = errors.New("engine is thinking")
)

// Move is a (from, to, promotion) triple. It is only meaningful relative to
// a specific position; the same triple may be legal in one position and
// nonexistent in another. Equality is structural.
type Move struct {
	From  chess.Square
	To    chess.Square
	Promo chess.PieceType
}

// UCI renders the move in long algebraic form: e2e4, e7e8q.
func (m Move) UCI() string {
	if m.Promo == chess.NoPieceType {
		return m.From.String() + m.To.String()
	}
	return m.From.String() + m.To.String() + m.Promo.String()
}

func (m Move) String() string {
	return m.UCI()
}

var promoKinds = map[byte]chess.PieceType{
	'q': chess.Queen,
	'r': chess.Rook,
	'b': chess.Bishop,
	'n': chess.Knight,
}

// ParseMove parses long algebraic notation into a Move. It validates shape
// only, not legality.
func ParseMove(uci string) (Move, error) {
	if len(uci) != 4 && len(uci) != 5 {
		return Move{}, fmt.Errorf("malformed move %q", uci)
	}
	from, err := parseSquare(uci[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("malformed move %q: %w", uci, err)
	}
	to, err := parseSquare(uci[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("malformed move %q: %w", uci, err)
	}
	m := Move{From: from, To: to}
	if len(uci) == 5 {
		promo, ok := promoKinds[uci[4]]
		if !ok {
			return Move{}, fmt.Errorf("malformed promotion in %q", uci)
		}
		m.Promo = promo
	}
	return m, nil
}

func parseSquare(s string) (chess.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return chess.NoSquare, fmt.Errorf("bad square %q", s)
	}
	return SquareOf(chess.File(s[0]-'a'), chess.Rank(s[1]-'1')), nil
}

// moveOf converts a rules-library move into our structural form.
func moveOf(m *chess.Move) Move {
	return Move{From: m.S1(), To: m.S2(), Promo: m.Promo()}
}

// findValid locates the rules-library move matching m among valid moves.
// Returns ErrPromotionRequired when from/to match only promotion variants
// and m carries no promotion kind.
func findValid(valid []*chess.Move, m Move) (*chess.Move, error) {
	promotionOnly := false
	for _, vm := range valid {
		if vm.S1() != m.From || vm.S2() != m.To {
			continue
		}
		if vm.Promo() == m.Promo {
			return vm, nil
		}
		if vm.Promo() != chess.NoPieceType && m.Promo == chess.NoPieceType {
			promotionOnly = true
		}
	}
	if promotionOnly {
		return nil, ErrPromotionRequired
	}
	return nil, ErrIllegalMove
}
