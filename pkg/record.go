package pkg

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// PGNTags name the players and event recorded in an exported game.
type PGNTags struct {
	Event  string
	Site   string
	White  string
	Black  string
	GameID string
}

// ToPGN exports the game as portable game notation. The result tag follows
// the current terminal state, "*" while the game is live. The export game
// keeps the default algebraic notation so the move text is standard SAN.
func (g *Game) ToPGN(tags PGNTags) string {
	out := chess.NewGame()
	if opt, err := chess.FEN(g.startFEN); err == nil {
		out = chess.NewGame(opt)
	}
	for _, uci := range g.uciMoves {
		m, err := ParseMove(uci)
		if err != nil {
			break
		}
		vm, err := findValid(out.ValidMoves(), m)
		if err != nil {
			break
		}
		if err := out.Move(vm); err != nil {
			break
		}
	}
	if tags.Event != "" {
		out.AddTagPair("Event", tags.Event)
	}
	if tags.Site != "" {
		out.AddTagPair("Site", tags.Site)
	}
	if tags.White != "" {
		out.AddTagPair("White", tags.White)
	}
	if tags.Black != "" {
		out.AddTagPair("Black", tags.Black)
	}
	if tags.GameID != "" {
		out.AddTagPair("GameId", tags.GameID)
	}
	if g.startFEN != chess.StartingPosition().String() {
		out.AddTagPair("FEN", g.startFEN)
	}
	if t := g.Terminal(); t != nil {
		switch t.Winner {
		case chess.White:
			out.AddTagPair("Result", "1-0")
		case chess.Black:
			out.AddTagPair("Result", "0-1")
		default:
			out.AddTagPair("Result", "1/2-1/2")
		}
	}
	return out.String()
}

// FromPGN loads a recorded game. The record is replayed move by move through
// the same validation as live play, so a corrupt record fails at the first
// illegal move with a clear error. The load is transactional: a new Game is
// returned only when the whole record replays cleanly, and the caller's
// current game is never touched.
func FromPGN(text string) (*Game, error) {
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse pgn: %w", err)
	}
	parsed := chess.NewGame(opt)

	startFEN := chess.StartingPosition().String()
	if fen, ok := tagValue(parsed, "FEN"); ok && fen != "" {
		startFEN = fen
	}
	loaded, err := NewGameFromFEN(startFEN)
	if err != nil {
		return nil, err
	}
	for i, m := range parsed.Moves() {
		if _, err := loaded.TryMove(moveOf(m)); err != nil {
			return nil, fmt.Errorf("replay move %d (%s): %w", i+1, m.String(), err)
		}
	}
	return loaded, nil
}

func tagValue(g *chess.Game, key string) (string, bool) {
	if tp := g.GetTagPair(key); tp != nil {
		return tp.Value, true
	}
	return "", false
}
