package pkg

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"github.com/notnil/chess"

	"github.com/bmedvedec/chess-board/pkg/engine"
)

// Hooks are the controller's outward notifications. The GUI registers these
// for sounds, animation and redraws; nil hooks are skipped.
type Hooks struct {
	OnMove       func(MoveReport, bool) // bool is true for engine moves
	OnGameEnd    func(TerminalState)
	OnPremove    func(Move)
	OnEngineTurn func()
}

// Controller owns the game, the input reconciler, the engine bridge and the
// clocks, and sequences them from the single event loop. All methods must be
// called from that loop; the only concurrency is inside the bridge.
type Controller struct {
	ID         string
	WhiteName  string
	BlackName  string
	HumanColor chess.Color

	cfg    Config
	game   *Game
	rec    *Reconciler
	bridge *engine.Bridge
	clocks *ClockPair
	hooks  Hooks

	over *TerminalState
}

// NewController wires up a fresh game against eng. The human plays
// cfg.HumanColor; "random" flips a coin.
func NewController(cfg Config, eng engine.Engine, hooks Hooks) *Controller {
	human := chess.White
	switch cfg.HumanColor {
	case "black":
		human = chess.Black
	case "random":
		if rand.Intn(2) == 1 {
			human = chess.Black
		}
	}

	game := NewGame()
	duration, increment := cfg.TimeControl()
	c := &Controller{
		ID:         uuid.NewString(),
		HumanColor: human,
		cfg:        cfg,
		game:       game,
		rec:        NewReconciler(game, human, cfg.PremoveEnabled),
		bridge:     engine.NewBridge(eng, engineLimits(cfg)),
		clocks:     NewClockPair(duration, increment),
		hooks:      hooks,
	}
	c.assignNames(eng.Name())
	log.Printf("game %s: human plays %s vs %s", c.ID, colorName(human), eng.Name())
	return c
}

func engineLimits(cfg Config) engine.Limits {
	return engine.Limits{MoveTime: cfg.EngineMoveTime(), Temperature: cfg.Temperature}
}

func (c *Controller) assignNames(engineName string) {
	humanName := petname.Generate(2, "-")
	if c.HumanColor == chess.White {
		c.WhiteName, c.BlackName = humanName, engineName
	} else {
		c.WhiteName, c.BlackName = engineName, humanName
	}
}

// SetHooks registers the notification callbacks. The GUI calls this once
// before Start.
func (c *Controller) SetHooks(h Hooks) { c.hooks = h }

func (c *Controller) Game() *Game             { return c.game }
func (c *Controller) Reconciler() *Reconciler { return c.rec }
func (c *Controller) Clocks() *ClockPair      { return c.clocks }
func (c *Controller) Thinking() bool          { return c.bridge.Thinking() }

// Over returns the terminal state, nil while the game is live.
func (c *Controller) Over() *TerminalState { return c.over }

// Start begins the game: clocks run and the engine moves first when it has
// the white pieces.
func (c *Controller) Start() {
	c.clocks.Start(c.game.Turn())
	c.maybeRequestEngine()
}

// premoveEntry reports whether pointer input right now captures premoves
// rather than live moves.
func (c *Controller) premoveEntry() bool {
	return c.game.Turn() != c.HumanColor
}

// PointerDown forwards a press to the reconciler. Input is ignored once the
// game is over.
func (c *Controller) PointerDown(sq chess.Square, x, y float64) InputEvent {
	if c.over != nil {
		return InputEvent{Kind: EventNone}
	}
	return c.rec.PointerDown(sq, x, y, c.premoveEntry())
}

func (c *Controller) PointerMotion(x, y float64) InputEvent {
	if c.over != nil {
		return InputEvent{Kind: EventNone}
	}
	return c.rec.PointerMotion(x, y)
}

func (c *Controller) PointerUp(sq chess.Square, x, y float64) InputEvent {
	if c.over != nil {
		return InputEvent{Kind: EventNone}
	}
	ev := c.rec.PointerUp(sq, x, y, c.premoveEntry())
	c.dispatch(ev)
	return ev
}

// ResolvePromotion completes a parked promotion with the chosen piece.
func (c *Controller) ResolvePromotion(kind chess.PieceType) InputEvent {
	ev := c.rec.ResolvePromotion(kind)
	c.dispatch(ev)
	return ev
}

func (c *Controller) CancelPromotion() InputEvent {
	return c.rec.CancelPromotion()
}

// dispatch applies the consequences of a committed human action.
func (c *Controller) dispatch(ev InputEvent) {
	switch ev.Kind {
	case EventMoved:
		c.afterMove(ev.Report, false)
	case EventPremoveQueued:
		if c.hooks.OnPremove != nil {
			c.hooks.OnPremove(ev.Premove)
		}
	}
}

// afterMove runs the shared post-move sequence for human and engine moves:
// clock switch, notification, terminal check, then the next engine request.
func (c *Controller) afterMove(report MoveReport, byEngine bool) {
	c.clocks.OnMoveApplied(c.game.Turn())
	if c.hooks.OnMove != nil {
		c.hooks.OnMove(report, byEngine)
	}
	if c.checkTerminal() {
		return
	}
	c.maybeRequestEngine()
}

// checkTerminal finalizes the game when a terminal condition holds.
func (c *Controller) checkTerminal() bool {
	if c.over != nil {
		return true
	}
	t := c.game.Terminal()
	if t == nil {
		return false
	}
	c.finish(*t)
	return true
}

func (c *Controller) finish(t TerminalState) {
	c.over = &t
	c.clocks.Halt()
	c.bridge.Cancel()
	c.rec.Reset()
	log.Printf("game %s over: %s", c.ID, t.Kind)
	if c.hooks.OnGameEnd != nil {
		c.hooks.OnGameEnd(t)
	}
}

func (c *Controller) maybeRequestEngine() {
	if c.over != nil || c.game.Turn() == c.HumanColor || c.bridge.Thinking() {
		return
	}
	if err := c.bridge.Request(c.game.FEN(), c.game.HistoryUCI()); err != nil {
		log.Printf("engine request failed: %v", err)
		return
	}
	if c.hooks.OnEngineTurn != nil {
		c.hooks.OnEngineTurn()
	}
}

// Poll advances asynchronous state: clock expiry first, then any finished
// engine computation. The GUI calls it from a timer at redraw frequency.
func (c *Controller) Poll() {
	if c.over != nil {
		return
	}
	if flagged, ok := c.clocks.Expired(); ok {
		c.finishOnTime(flagged)
		return
	}
	res, ok := c.bridge.Poll()
	if !ok {
		return
	}
	c.applyEngineResponse(res)
}

// finishOnTime applies the flag-fall rule: the flagged side loses unless the
// opponent could never have mated, in which case the game is drawn.
func (c *Controller) finishOnTime(flagged chess.Color) {
	winner := flagged.Other()
	if !c.game.HasMatingMaterial(winner) {
		c.finish(TerminalState{Kind: TimeForfeit, Winner: chess.NoColor,
			Reason: fmt.Sprintf("%s flagged, %s has insufficient material", colorName(flagged), colorName(winner))})
		return
	}
	c.finish(TerminalState{Kind: TimeForfeit, Winner: winner,
		Reason: fmt.Sprintf("%s flagged", colorName(flagged))})
}

// applyEngineResponse validates and applies an engine move. A garbage or
// illegal response degrades to a random legal move rather than stalling the
// game. After the engine move at most one queued premove is drained.
func (c *Controller) applyEngineResponse(res engine.Response) {
	if c.game.Turn() == c.HumanColor {
		log.Printf("dropping engine response %q out of turn", res.UCI)
		return
	}

	var report MoveReport
	var err error
	if res.Err != nil {
		err = res.Err
	} else {
		report, err = c.game.TryMoveUCI(res.UCI)
	}
	if err != nil {
		log.Printf("engine response %q unusable (%v), picking random move", res.UCI, err)
		m, rerr := randomLegalMove(c.game)
		if rerr != nil {
			c.checkTerminal()
			return
		}
		report, err = c.game.TryMove(m)
		if err != nil {
			log.Printf("random fallback %s failed: %v", m, err)
			return
		}
	}

	// A live selection may reference squares the engine just changed.
	c.rec.SoftReset()
	c.afterMove(report, true)
	if c.over != nil {
		return
	}

	if report, ok := c.rec.DrainPremove(); ok {
		c.afterMove(report, false)
	}
}

// Undo reverts a full move pair so the human is to move again, or a single
// ply when only one has been played. Refused while the engine is thinking.
func (c *Controller) Undo() error {
	if c.bridge.Thinking() {
		return fmt.Errorf("undo: %w", ErrBusyThinking)
	}
	if c.game.Plies() == 0 {
		return ErrNothingToUndo
	}
	plies := 2
	if c.game.Plies() < 2 || c.game.Turn() != c.HumanColor {
		plies = 1
	}
	for i := 0; i < plies; i++ {
		c.game.UndoLast()
	}
	c.over = nil
	c.rec.Reset()
	c.clocks.Halt()
	c.clocks.Start(c.game.Turn())
	log.Printf("undid %d plies, back to ply %d", plies, c.game.Plies())
	c.maybeRequestEngine()
	return nil
}

// Resign ends the game with a win for the engine side.
func (c *Controller) Resign() {
	if c.over != nil {
		return
	}
	c.game.Resign(c.HumanColor)
	c.finish(TerminalState{Kind: Resignation, Winner: c.HumanColor.Other(),
		Reason: fmt.Sprintf("%s resigned", colorName(c.HumanColor))})
}

// NewGameReset abandons the current game and starts over with the given
// human color. Any in-flight computation is cancelled first.
func (c *Controller) NewGameReset(human chess.Color) {
	c.bridge.Cancel()
	c.game = NewGame()
	c.HumanColor = human
	c.rec.SetGame(c.game)
	c.rec.SetHumanColor(human)
	c.over = nil
	duration, increment := c.cfg.TimeControl()
	c.clocks = NewClockPair(duration, increment)
	c.assignNames(c.bridge.Engine().Name())
	log.Printf("game %s reset: human plays %s", c.ID, colorName(human))
	c.Start()
}

// SetEngine swaps the opponent. Any in-flight computation is cancelled and
// the old engine is closed; if it is the new engine's turn it starts
// thinking immediately.
func (c *Controller) SetEngine(eng engine.Engine) {
	c.bridge.Cancel()
	if err := c.bridge.Engine().Close(); err != nil {
		log.Printf("closing previous engine: %v", err)
	}
	c.bridge = engine.NewBridge(eng, engineLimits(c.cfg))
	c.assignNames(eng.Name())
	log.Printf("engine swapped to %s", eng.Name())
	c.maybeRequestEngine()
}

// SetHeuristicStrategy swaps in a built-in engine with the given strategy
// and records the choice in the config.
func (c *Controller) SetHeuristicStrategy(strat engine.Strategy) {
	c.cfg.Engine = "heuristic"
	c.cfg.Strategy = strat.String()
	c.persistConfig()
	c.SetEngine(engine.NewHeuristic(strat))
}

// SetTimeControl stores a new time control; it takes effect on the next
// new game rather than mid-game.
func (c *Controller) SetTimeControl(seconds, increment int) {
	c.cfg.TimeControlSec = seconds
	c.cfg.IncrementSec = increment
	c.persistConfig()
}

// SetPremoveEnabled toggles premove capture. Disabling drops the queue.
func (c *Controller) SetPremoveEnabled(on bool) {
	c.cfg.PremoveEnabled = on
	c.rec.SetPremoveEnabled(on)
	c.persistConfig()
}

// persistConfig writes settings changes back to the config file, when the
// config came from one.
func (c *Controller) persistConfig() {
	if err := c.cfg.Save(); err != nil {
		log.Printf("saving config: %v", err)
	}
}

// PremoveEnabled reports the current premove setting.
func (c *Controller) PremoveEnabled() bool {
	return c.cfg.PremoveEnabled
}

// SavePGN writes the game record to path.
func (c *Controller) SavePGN(path string) error {
	pgn := c.game.ToPGN(PGNTags{
		Event:  "chess-board casual game",
		Site:   "local",
		White:  c.WhiteName,
		Black:  c.BlackName,
		GameID: c.ID,
	})
	if err := os.WriteFile(path, []byte(pgn), 0644); err != nil {
		return fmt.Errorf("save pgn: %w", err)
	}
	log.Printf("saved game %s to %s", c.ID, path)
	return nil
}

// LoadPGN replaces the current game with the record at path. The swap only
// happens after the whole record replays cleanly; on failure the current
// game is untouched.
func (c *Controller) LoadPGN(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load pgn: %w", err)
	}
	loaded, err := FromPGN(string(data))
	if err != nil {
		return fmt.Errorf("load pgn %s: %w", path, err)
	}
	c.bridge.Cancel()
	c.game = loaded
	c.rec.SetGame(loaded)
	c.over = nil
	c.checkTerminal()
	duration, increment := c.cfg.TimeControl()
	c.clocks = NewClockPair(duration, increment)
	if c.over == nil {
		c.Start()
	}
	log.Printf("loaded game from %s at ply %d", path, c.game.Plies())
	return nil
}

// Close releases engine resources.
func (c *Controller) Close() error {
	c.bridge.Cancel()
	return c.bridge.Engine().Close()
}

// DescribeClock renders one side's clock for the header line, with the
// player name attached.
func (c *Controller) DescribeClock(side chess.Color) string {
	name := c.WhiteName
	if side == chess.Black {
		name = c.BlackName
	}
	cl := c.clocks.Clock(side)
	if cl == nil {
		return name
	}
	return fmt.Sprintf("%s %s", name, cl)
}
