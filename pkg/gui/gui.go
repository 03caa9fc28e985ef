package gui

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"github.com/bmedvedec/chess-board/pkg"
	"github.com/bmedvedec/chess-board/pkg/engine"
)

const pollInterval = 100 * time.Millisecond

// App is the terminal front end. It owns the tview application and feeds
// pointer and key events into the controller; all game mutation happens on
// the tview event loop.
type App struct {
	app     *tview.Application
	pages   *tview.Pages
	board   *tview.Box
	sidebar *tview.TextView
	status  *tview.TextView

	ctrl  *pkg.Controller
	theme Theme

	// geo is refreshed on every draw so mouse mapping survives resizes.
	geo       boardGeometry
	modalOpen bool
	message   string

	done chan struct{}
}

// NewApp builds the full layout around ctrl.
func NewApp(ctrl *pkg.Controller, theme Theme) *App {
	a := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		ctrl:  ctrl,
		theme: theme,
		done:  make(chan struct{}),
	}

	a.board = tview.NewBox()
	a.board.SetDrawFunc(func(screen tcell.Screen, x, y, w, h int) (int, int, int, int) {
		a.geo = boardGeometry{x: x + 1, y: y + 1, flipped: ctrl.HumanColor == chess.Black}
		renderBoard(screen, a.geo, a.ctrl, a.theme)
		return x, y, 0, 0
	})

	a.sidebar = tview.NewTextView()
	a.sidebar.SetDynamicColors(true)

	a.status = tview.NewTextView()
	a.status.SetDynamicColors(true)

	layout := tview.NewGrid().
		SetRows(-1, 10, -1).
		SetColumns(-1, 22, 28, -1).
		AddItem(tview.NewTextView(), 0, 0, 1, 4, 0, 0, false).
		AddItem(a.board, 1, 1, 1, 1, 0, 0, true).
		AddItem(a.sidebar, 1, 2, 1, 1, 0, 0, false).
		AddItem(a.status, 2, 0, 1, 4, 0, 0, false)

	a.pages.AddPage("table", layout, true, true)

	ctrl.SetHooks(pkg.Hooks{
		OnMove: func(report pkg.MoveReport, byEngine bool) {
			a.message = describeMove(report, byEngine)
		},
		OnGameEnd: func(t pkg.TerminalState) {
			a.showResult(t)
		},
		OnPremove: func(m pkg.Move) {
			a.message = fmt.Sprintf("premove queued: %s", m)
		},
	})

	a.app.SetMouseCapture(a.handleMouse)
	a.app.SetInputCapture(a.handleKey)
	a.refresh()
	return a
}

// Run starts the controller, the poll loop and the event loop. It blocks
// until the application exits.
func (a *App) Run() error {
	a.ctrl.Start()
	go a.pollLoop()
	defer close(a.done)
	return a.app.SetRoot(a.pages, true).EnableMouse(true).Run()
}

// pollLoop pumps asynchronous state (clocks, engine results) into the event
// loop at redraw frequency.
func (a *App) pollLoop() {
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			a.app.QueueUpdateDraw(func() {
				a.ctrl.Poll()
				a.refresh()
			})
		case <-a.done:
			return
		}
	}
}

func (a *App) handleMouse(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
	if a.modalOpen {
		return event, action
	}
	mx, my := event.Position()
	x, y := float64(mx), float64(my)

	switch action {
	case tview.MouseLeftDown:
		a.handleEvent(a.ctrl.PointerDown(a.geo.SquareAt(mx, my), x, y))
	case tview.MouseMove:
		a.ctrl.PointerMotion(x, y)
	case tview.MouseLeftUp:
		a.handleEvent(a.ctrl.PointerUp(a.geo.SquareAt(mx, my), x, y))
	default:
		return event, action
	}
	a.refresh()
	return nil, action
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if a.modalOpen {
		return event
	}
	switch {
	case event.Key() == tcell.KeyEscape:
		a.ctrl.Reconciler().Reset()
		a.refresh()
		return nil
	case event.Rune() == 'q':
		a.Stop()
		return nil
	case event.Rune() == 'u':
		if err := a.ctrl.Undo(); err != nil {
			a.message = err.Error()
		}
		a.refresh()
		return nil
	case event.Rune() == 'n':
		a.showNewGame()
		return nil
	case event.Rune() == 't':
		a.showTimeControl()
		return nil
	case event.Rune() == 'p':
		on := !a.ctrl.PremoveEnabled()
		a.ctrl.SetPremoveEnabled(on)
		if on {
			a.message = "premove on"
		} else {
			a.message = "premove off"
		}
		a.refresh()
		return nil
	case event.Rune() == 'e':
		a.showStrategy()
		return nil
	case event.Rune() == 'r':
		a.showConfirmResign()
		return nil
	case event.Rune() == 's':
		path := fmt.Sprintf("chess-board-%d.pgn", time.Now().Unix())
		if err := a.ctrl.SavePGN(path); err != nil {
			a.message = err.Error()
		} else {
			a.message = "saved " + path
		}
		a.refresh()
		return nil
	case event.Rune() == 'l':
		a.loadLatest()
		a.refresh()
		return nil
	}
	return event
}

// loadLatest restores the most recently saved game from the working
// directory.
func (a *App) loadLatest() {
	matches, err := filepath.Glob("chess-board-*.pgn")
	if err != nil || len(matches) == 0 {
		a.message = "no saved games found"
		return
	}
	sort.Strings(matches)
	path := matches[len(matches)-1]
	if err := a.ctrl.LoadPGN(path); err != nil {
		a.message = err.Error()
		return
	}
	a.message = "loaded " + path
}

// handleEvent reacts to the reconciler's answer to a pointer event.
func (a *App) handleEvent(ev pkg.InputEvent) {
	switch ev.Kind {
	case pkg.EventPromotionPending:
		a.showPromotion()
	case pkg.EventRejected:
		a.message = "illegal move"
	case pkg.EventMoved, pkg.EventPremoveQueued:
		// Message comes through the controller hooks.
	}
}

var promotionKinds = map[string]chess.PieceType{
	"Queen":  chess.Queen,
	"Rook":   chess.Rook,
	"Bishop": chess.Bishop,
	"Knight": chess.Knight,
}

func (a *App) showPromotion() {
	modal := tview.NewModal().
		SetText("Promote to").
		AddButtons([]string{"Queen", "Rook", "Bishop", "Knight", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.closeModal("promotion")
			if kind, ok := promotionKinds[buttonLabel]; ok {
				a.handleEvent(a.ctrl.ResolvePromotion(kind))
			} else {
				a.ctrl.CancelPromotion()
			}
			a.refresh()
		})
	a.openModal("promotion", modal)
}

// showStrategy swaps the built-in opponent's strategy.
func (a *App) showStrategy() {
	modal := tview.NewModal().
		SetText("Engine strategy").
		AddButtons([]string{"random", "captures", "center", "material", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.closeModal("strategy")
			if strat, err := engine.ParseStrategy(buttonLabel); err == nil {
				a.ctrl.SetHeuristicStrategy(strat)
				a.message = "engine strategy " + buttonLabel
			}
			a.refresh()
		})
	a.openModal("strategy", modal)
}

// showNewGame asks which side to play before resetting.
func (a *App) showNewGame() {
	modal := tview.NewModal().
		SetText("New game: pick your side").
		AddButtons([]string{"White", "Black", "Random", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.closeModal("newgame")
			switch buttonLabel {
			case "White":
				a.ctrl.NewGameReset(chess.White)
			case "Black":
				a.ctrl.NewGameReset(chess.Black)
			case "Random":
				side := chess.White
				if time.Now().UnixNano()%2 == 1 {
					side = chess.Black
				}
				a.ctrl.NewGameReset(side)
			}
			if buttonLabel != "Cancel" {
				a.message = "new game"
			}
			a.refresh()
		})
	a.openModal("newgame", modal)
}

var timeControls = map[string][2]int{
	"10+0":    {600, 0},
	"5+0":     {300, 0},
	"3+2":     {180, 2},
	"Untimed": {0, 0},
}

// showTimeControl picks the clock settings for the next new game.
func (a *App) showTimeControl() {
	modal := tview.NewModal().
		SetText("Time control (applies to the next game)").
		AddButtons([]string{"10+0", "5+0", "3+2", "Untimed", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.closeModal("timecontrol")
			if tc, ok := timeControls[buttonLabel]; ok {
				a.ctrl.SetTimeControl(tc[0], tc[1])
				a.message = "time control " + buttonLabel
			}
			a.refresh()
		})
	a.openModal("timecontrol", modal)
}

func (a *App) showConfirmResign() {
	modal := tview.NewModal().
		SetText("Resign the game?").
		AddButtons([]string{"Resign", "Keep playing"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.closeModal("resign")
			if buttonLabel == "Resign" {
				a.ctrl.Resign()
			}
			a.refresh()
		})
	a.openModal("resign", modal)
}

func (a *App) showResult(t pkg.TerminalState) {
	text := t.Kind.String()
	if t.Winner != chess.NoColor {
		winner := a.ctrl.WhiteName
		if t.Winner == chess.Black {
			winner = a.ctrl.BlackName
		}
		text = fmt.Sprintf("%s\n%s wins", t.Kind, winner)
	}
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"New game", "Quit"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.closeModal("result")
			if buttonLabel == "New game" {
				a.ctrl.NewGameReset(a.ctrl.HumanColor)
			} else {
				a.Stop()
			}
			a.refresh()
		})
	a.openModal("result", modal)
}

func (a *App) openModal(name string, modal *tview.Modal) {
	a.modalOpen = true
	a.pages.AddPage(name, modal, true, true)
}

func (a *App) closeModal(name string) {
	a.modalOpen = false
	a.pages.RemovePage(name)
}

// refresh rebuilds the text panels from the current game state.
func (a *App) refresh() {
	a.sidebar.SetText(sidebarText(a.ctrl))
	a.status.SetText(statusText(a.ctrl, a.message))
}

// Stop shuts the application down.
func (a *App) Stop() {
	if err := a.ctrl.Close(); err != nil {
		log.Printf("engine close: %v", err)
	}
	a.app.Stop()
}
