package gui

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"

	"github.com/bmedvedec/chess-board/pkg"
)

const (
	numOfSquaresInRow = 8
	squareWidth       = 2
)

// drawText places text at the specified coordinates with the provided style
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range []rune(text) {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawRune places a rune at the specified coordinates with the provided style
func drawRune(s tcell.Screen, x, y int, style tcell.Style, r rune) {
	s.SetContent(x, y, r, nil, style)
}

// DefStyle is the default style for tcell rendering
var DefStyle = tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)

// stylePiece applies the theme's style to a piece based upon its color
func stylePiece(p chess.Piece, sqBg tcell.Color, t Theme) tcell.Style {
	pieceStyle := tcell.StyleDefault.Background(sqBg)
	if p.Color() == chess.White {
		return pieceStyle.Foreground(t.White)
	}
	return pieceStyle.Foreground(t.Black)
}

// squareBg returns the theme's base color for the square
func squareBg(sq chess.Square, t Theme) tcell.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return t.SquareDark
	}
	return t.SquareLight
}

// drawSquare draws a board square and its corresponding piece
func drawSquare(s tcell.Screen, col, row int, p chess.Piece, sqBg tcell.Color, t Theme) {
	if p == chess.NoPiece {
		// Fill two columns wide to make it square
		s.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(sqBg))
		s.SetContent(col+1, row, ' ', nil, tcell.StyleDefault.Background(sqBg))
	} else {
		piece, _ := utf8.DecodeRuneInString(p.String())
		pieceStyle := stylePiece(p, sqBg, t)
		s.SetContent(col, row, piece, nil, pieceStyle)
		s.SetContent(col+1, row, ' ', nil, tcell.StyleDefault.Background(sqBg))
	}
}

// boardGeometry maps between screen cells and board squares. The origin is
// the top-left cell of the rank indicators; squares start two cells right.
type boardGeometry struct {
	x, y    int
	flipped bool
}

// cellOf returns the screen cell of a square's left column.
func (g boardGeometry) cellOf(sq chess.Square) (int, int) {
	f, r := int(sq.File()), int(sq.Rank())
	if g.flipped {
		f, r = 7-f, 7-r
	}
	return g.x + 2 + f*squareWidth, g.y + (7 - r)
}

// SquareAt maps a screen cell back to a square, chess.NoSquare when the cell
// lies outside the 8x8 grid.
func (g boardGeometry) SquareAt(mx, my int) chess.Square {
	f := (mx - (g.x + 2)) / squareWidth
	r := 7 - (my - g.y)
	if mx < g.x+2 || f < 0 || f > 7 || r < 0 || r > 7 {
		return chess.NoSquare
	}
	if g.flipped {
		f, r = 7-f, 7-r
	}
	return pkg.SquareOf(chess.File(f), chess.Rank(r))
}

// highlightLayers resolves the background for each square, from lowest to
// highest precedence: base, last move, premove, destination, selection,
// check.
func highlightLayers(ctrl *pkg.Controller, t Theme) map[chess.Square]tcell.Color {
	out := make(map[chess.Square]tcell.Color)
	game := ctrl.Game()
	rec := ctrl.Reconciler()

	if hist := game.HistoryUCI(); len(hist) > 0 {
		if m, err := pkg.ParseMove(hist[len(hist)-1]); err == nil {
			out[m.From] = t.SquareLast
			out[m.To] = t.SquareLast
		}
	}
	for _, m := range rec.Premoves() {
		out[m.From] = t.SquarePremove
		out[m.To] = t.SquarePremove
	}
	for _, sq := range rec.Destinations() {
		out[sq] = t.SquareDest
	}
	if sq, ok := rec.Selected(); ok {
		out[sq] = t.SquareSelect
	}
	if game.InCheck() {
		if king := game.KingSquare(game.Turn()); king != chess.NoSquare {
			out[king] = t.SquareCheck
		}
	}
	return out
}

// renderBoard draws the board, rank and file indicators, highlights and the
// dragged piece. Squares in the reconciler's hidden set render empty; the
// piece in flight appears at the pointer instead.
func renderBoard(s tcell.Screen, geo boardGeometry, ctrl *pkg.Controller, t Theme) {
	game := ctrl.Game()
	rec := ctrl.Reconciler()
	hidden := rec.HiddenSquares()
	high := highlightLayers(ctrl, t)

	var r chess.Rank
	for r = 7; r >= 0; r-- {
		rr := r
		if geo.flipped {
			rr = 7 - r
		}
		row := geo.y + (7 - int(r))
		rank, _ := utf8.DecodeRuneInString(rr.String())
		drawRune(s, geo.x, row, tcell.StyleDefault.Foreground(t.Rank), rank)

		for f := 0; f < numOfSquaresInRow; f++ {
			ff := chess.File(f)
			if geo.flipped {
				ff = chess.File(7 - f)
			}
			sq := pkg.SquareOf(ff, rr)
			p := game.PieceAt(sq)
			if hidden[sq] {
				p = chess.NoPiece
			}
			bg := squareBg(sq, t)
			if c, ok := high[sq]; ok {
				bg = c
			}
			drawSquare(s, geo.x+2+f*squareWidth, row, p, bg, t)
		}
	}

	files := "a b c d e f g h"
	if geo.flipped {
		files = "h g f e d c b a"
	}
	drawText(s, geo.x+2, geo.y+8, tcell.StyleDefault.Foreground(t.File), files)

	if _, piece, dx, dy, ok := rec.Drag(); ok {
		px, py := int(dx), int(dy)
		pr, _ := utf8.DecodeRuneInString(piece.String())
		under := geo.SquareAt(px, py)
		bg := t.SquareSelect
		if under != chess.NoSquare {
			bg = squareBg(under, t)
		}
		drawRune(s, px, py, stylePiece(piece, bg, t), pr)
	}
}
