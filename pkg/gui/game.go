package gui

import (
	"fmt"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/bmedvedec/chess-board/pkg"
)

// movePairRows is the number of move pairs shown in the sidebar at once.
const movePairRows = 10

// gameMove is one numbered move pair for the history panel.
type gameMove struct {
	index string
	white string
	black string
}

// movePairs folds the SAN history into numbered pairs, windowed to the most
// recent movePairRows.
func movePairs(game *pkg.Game) []gameMove {
	san := game.HistorySAN()
	pairs := make([]gameMove, 0, len(san)/2+1)
	var gm gameMove
	for i, txt := range san {
		if i%2 == 0 {
			gm = gameMove{index: fmt.Sprintf("%d.", i/2+1), white: txt}
			if i == len(san)-1 {
				pairs = append(pairs, gm)
			}
		} else {
			gm.black = txt
			pairs = append(pairs, gm)
		}
	}
	if len(pairs) > movePairRows {
		pairs = pairs[len(pairs)-movePairRows:]
	}
	return pairs
}

// sidebarText renders the clocks, players and recent moves.
func sidebarText(ctrl *pkg.Controller) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", clockLine(ctrl, ctrl.HumanColor.Other()))
	b.WriteString("\n")
	for _, gm := range movePairs(ctrl.Game()) {
		fmt.Fprintf(&b, " %-4s %-8s %-8s\n", gm.index, gm.white, gm.black)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", clockLine(ctrl, ctrl.HumanColor))

	if premoves := ctrl.Reconciler().Premoves(); len(premoves) > 0 {
		parts := make([]string, 0, len(premoves))
		for _, m := range premoves {
			parts = append(parts, m.String())
		}
		fmt.Fprintf(&b, "\npremoves: %s\n", strings.Join(parts, " "))
	}
	return b.String()
}

// lowTime is the threshold below which a clock renders in the warning color.
const lowTime = 30 * time.Second

func clockLine(ctrl *pkg.Controller, side chess.Color) string {
	line := ctrl.DescribeClock(side)
	if cl := ctrl.Clocks().Clock(side); cl != nil && cl.Remaining() < lowTime {
		return fmt.Sprintf(" [red]%s[-]", line)
	}
	return " " + line
}

// statusText is the bottom line: game status, transient message and keys.
func statusText(ctrl *pkg.Controller, message string) string {
	status := ctrl.Game().Status()
	if ctrl.Thinking() {
		status += " (thinking)"
	}
	help := "q quit  u undo  n new  t time  p premove  e engine  r resign  s save  l load  esc clear"
	if message == "" {
		return fmt.Sprintf(" %s\n %s", status, help)
	}
	return fmt.Sprintf(" %s | %s\n %s", status, message, help)
}

// describeMove is the transient message after a committed move.
func describeMove(report pkg.MoveReport, byEngine bool) string {
	who := "you"
	if byEngine {
		who = "engine"
	}
	suffix := ""
	switch {
	case report.Check:
		suffix = " check"
	case report.Capture:
		suffix = " takes"
	case report.Castle:
		suffix = " castles"
	case report.Promotion:
		suffix = " promotes"
	}
	return fmt.Sprintf("%s: %s%s", who, report.SAN, suffix)
}
