package pkg

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/notnil/chess"
)

// SquareOf builds a square from file and rank indices.
func SquareOf(f chess.File, r chess.Rank) chess.Square {
	return chess.Square((int(r) * 8) + int(f))
}

// positionFromFEN parses a full FEN into a standalone position.
func positionFromFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("bad fen %q: %w", fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// forceTurn returns a copy of pos with side-to-move set to c. The en-passant
// target is dropped since it belongs to the discarded half-move. Used only
// for speculative projections, never for the authoritative position.
func forceTurn(pos *chess.Position, c chess.Color) *chess.Position {
	if pos.Turn() == c {
		return pos
	}
	fields := strings.Fields(pos.String())
	if len(fields) != 6 {
		return pos
	}
	if c == chess.White {
		fields[1] = "w"
	} else {
		fields[1] = "b"
	}
	fields[3] = "-"
	forced, err := positionFromFEN(strings.Join(fields, " "))
	if err != nil {
		return pos
	}
	return forced
}

var (
	knightJumps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	diagonals   = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonals = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// squareAttacked reports whether a piece of color `by` attacks sq. Attacks
// are board-geometric: a pinned piece still attacks, so a pinned checker
// gives check even though it has no legal moves.
func squareAttacked(pos *chess.Position, sq chess.Square, by chess.Color) bool {
	board := pos.Board()
	file, rank := int(sq.File()), int(sq.Rank())

	pieceAt := func(f, r int) chess.Piece {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return chess.NoPiece
		}
		return board.Piece(SquareOf(chess.File(f), chess.Rank(r)))
	}
	attacker := func(p chess.Piece, kind chess.PieceType) bool {
		return p != chess.NoPiece && p.Color() == by && p.Type() == kind
	}

	for _, d := range knightJumps {
		if attacker(pieceAt(file+d[0], rank+d[1]), chess.Knight) {
			return true
		}
	}
	for _, d := range kingSteps {
		if attacker(pieceAt(file+d[0], rank+d[1]), chess.King) {
			return true
		}
	}

	// Pawns capture diagonally toward their direction of travel.
	pawnRank := rank - 1
	if by == chess.Black {
		pawnRank = rank + 1
	}
	if attacker(pieceAt(file-1, pawnRank), chess.Pawn) || attacker(pieceAt(file+1, pawnRank), chess.Pawn) {
		return true
	}

	// Sliders: walk each ray to the first occupied square.
	slide := func(dirs [4][2]int, a, b chess.PieceType) bool {
		for _, d := range dirs {
			for f, r := file+d[0], rank+d[1]; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+d[0], r+d[1] {
				p := pieceAt(f, r)
				if p == chess.NoPiece {
					continue
				}
				if p.Color() == by && (p.Type() == a || p.Type() == b) {
					return true
				}
				break
			}
		}
		return false
	}
	if slide(diagonals, chess.Bishop, chess.Queen) {
		return true
	}
	return slide(orthogonals, chess.Rook, chess.Queen)
}

// randomLegalMove picks uniformly among the legal moves; used as the
// fallback when an engine responds with garbage.
func randomLegalMove(g *Game) (Move, error) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return Move{}, ErrNoMoves
	}
	return moves[rand.Intn(len(moves))], nil
}

func InitLog(dest, prefix string) {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
}
