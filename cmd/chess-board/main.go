package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/bmedvedec/chess-board/pkg"
	"github.com/bmedvedec/chess-board/pkg/engine"
	"github.com/bmedvedec/chess-board/pkg/gui"
)

func main() {
	logPath := flag.String("log", "/tmp/chess-board.log", "path to log file")
	configPath := flag.String("config", "", "path to config file")
	side := flag.String("side", "", "side to play: white, black or random")
	enginePath := flag.String("engine", "", "path to a UCI engine binary")
	strategy := flag.String("strategy", "", "built-in engine strategy: random, captures, center or material")
	flag.Parse()

	pkg.InitLog(*logPath, "CLIENT: ")
	log.Println("chess-board starting")

	cfg := pkg.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = pkg.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	if *side != "" {
		cfg.HumanColor = *side
	}
	if *enginePath != "" {
		cfg.Engine = *enginePath
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	theme, err := gui.ImportTheme(cfg.Theme, nil)
	if err != nil {
		theme = gui.ThemeBasic
	}

	ctrl := pkg.NewController(cfg, eng, pkg.Hooks{})

	banner := color.New(color.FgCyan, color.Bold)
	banner.Printf("chess-board: %s vs %s\n", ctrl.WhiteName, ctrl.BlackName)

	app := gui.NewApp(ctrl, theme)
	if err := app.Run(); err != nil {
		log.Printf("application error: %v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// buildEngine picks the opponent: a UCI subprocess when the config names a
// binary, the built-in heuristic otherwise.
func buildEngine(cfg pkg.Config) (engine.Engine, error) {
	if cfg.Engine != "" && cfg.Engine != "heuristic" {
		return engine.NewUCIEngine(cfg.Engine)
	}
	strat, err := engine.ParseStrategy(cfg.Strategy)
	if err != nil {
		log.Printf("%v, using random", err)
	}
	return engine.NewHeuristic(strat), nil
}
