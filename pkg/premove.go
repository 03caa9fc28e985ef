package pkg

import (
	"github.com/notnil/chess"
)

// premoveQueue holds moves entered while it is not the human's turn, in
// entry order. Every queued move was legal against the projection that
// existed just before it was appended; none of them has been validated
// against what the opponent will actually play. The queue is speculative
// and is only ever cleared wholesale.
type premoveQueue struct {
	moves []Move
}

func (q *premoveQueue) append(m Move) {
	q.moves = append(q.moves, m)
}

func (q *premoveQueue) head() (Move, bool) {
	if len(q.moves) == 0 {
		return Move{}, false
	}
	return q.moves[0], true
}

func (q *premoveQueue) popHead() {
	if len(q.moves) > 0 {
		q.moves = q.moves[1:]
	}
}

func (q *premoveQueue) clear() {
	q.moves = nil
}

func (q *premoveQueue) len() int {
	return len(q.moves)
}

func (q *premoveQueue) snapshot() []Move {
	out := make([]Move, len(q.moves))
	copy(out, q.moves)
	return out
}

// projectedPosition builds the hypothetical position used to validate
// further premove entry: a copy of the real position with every queued move
// applied in order, the turn forced to side at each step. The live position
// is never touched.
func projectedPosition(g *Game, queue []Move, side chess.Color) *chess.Position {
	pos, err := positionFromFEN(g.FEN())
	if err != nil {
		return g.positionCopy()
	}
	for _, m := range queue {
		pos = forceTurn(pos, side)
		vm, err := findValid(pos.ValidMoves(), m)
		if err != nil {
			// A queued move no longer replays onto its own projection; the
			// queue is stale and the caller will clear it on drain.
			break
		}
		pos = pos.Update(vm)
	}
	return forceTurn(pos, side)
}

// positionCopy returns a detached copy of the authoritative position.
func (g *Game) positionCopy() *chess.Position {
	pos, err := positionFromFEN(g.FEN())
	if err != nil {
		return g.inner.Position()
	}
	return pos
}
