package gui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Terminal safe color palette is available here
// Themes should be limited to the colors defined in this reference
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg

// Theme is used for dynamically coloring the UI
type Theme struct {
	Name          string      `json:"name"`
	SquareDark    tcell.Color `json:"squareDark"`
	SquareLight   tcell.Color `json:"squareLight"`
	SquareSelect  tcell.Color `json:"squareSelect"`
	SquareDest    tcell.Color `json:"squareDest"`
	SquarePremove tcell.Color `json:"squarePremove"`
	SquareLast    tcell.Color `json:"squareLast"`
	SquareCheck   tcell.Color `json:"squareCheck"`
	White         tcell.Color `json:"white"`
	Black         tcell.Color `json:"black"`
	Rank          tcell.Color `json:"rank"`
	File          tcell.Color `json:"file"`
	Msg           tcell.Color `json:"msg"`
	Clock         tcell.Color `json:"clock"`
	ClockLow      tcell.Color `json:"clockLow"`
	MoveBox       tcell.Color `json:"moveBox"`
	PlayerNames   tcell.Color `json:"playerNames"`
}

// ThemeHex is the JSON-portable form of a Theme
type ThemeHex struct {
	Name          string `json:"name"`
	SquareDark    string `json:"squareDark"`
	SquareLight   string `json:"squareLight"`
	SquareSelect  string `json:"squareSelect"`
	SquareDest    string `json:"squareDest"`
	SquarePremove string `json:"squarePremove"`
	SquareLast    string `json:"squareLast"`
	SquareCheck   string `json:"squareCheck"`
	White         string `json:"white"`
	Black         string `json:"black"`
	Rank          string `json:"rank"`
	File          string `json:"file"`
	Msg           string `json:"msg"`
	Clock         string `json:"clock"`
	ClockLow      string `json:"clockLow"`
	MoveBox       string `json:"moveBox"`
	PlayerNames   string `json:"playerNames"`
}

// fmtHex returns a one character hex for the ColorDefault
// and otherwise it returns a standard hex. This is useful
// because it allows ColorDefault to be imported from the config
// and parsed properly rather than being interpreted as black
func fmtHex(v int32) string {
	if v == -1 {
		return "#0"
	}
	return fmt.Sprintf("#%06x", v)
}

// Hex converts a Theme to a ThemeHex
func (t Theme) Hex() ThemeHex {
	return ThemeHex{
		t.Name,
		fmtHex(t.SquareDark.Hex()),
		fmtHex(t.SquareLight.Hex()),
		fmtHex(t.SquareSelect.Hex()),
		fmtHex(t.SquareDest.Hex()),
		fmtHex(t.SquarePremove.Hex()),
		fmtHex(t.SquareLast.Hex()),
		fmtHex(t.SquareCheck.Hex()),
		fmtHex(t.White.Hex()),
		fmtHex(t.Black.Hex()),
		fmtHex(t.Rank.Hex()),
		fmtHex(t.File.Hex()),
		fmtHex(t.Msg.Hex()),
		fmtHex(t.Clock.Hex()),
		fmtHex(t.ClockLow.Hex()),
		fmtHex(t.MoveBox.Hex()),
		fmtHex(t.PlayerNames.Hex()),
	}
}

// Theme converts a ThemeHex to a Theme
func (t ThemeHex) Theme() Theme {
	return Theme{
		t.Name,
		tcell.GetColor(t.SquareDark),
		tcell.GetColor(t.SquareLight),
		tcell.GetColor(t.SquareSelect),
		tcell.GetColor(t.SquareDest),
		tcell.GetColor(t.SquarePremove),
		tcell.GetColor(t.SquareLast),
		tcell.GetColor(t.SquareCheck),
		tcell.GetColor(t.White),
		tcell.GetColor(t.Black),
		tcell.GetColor(t.Rank),
		tcell.GetColor(t.File),
		tcell.GetColor(t.Msg),
		tcell.GetColor(t.Clock),
		tcell.GetColor(t.ClockLow),
		tcell.GetColor(t.MoveBox),
		tcell.GetColor(t.PlayerNames),
	}
}

// ImportTheme returns the theme named want from themes, falling back to the
// built-in set.
func ImportTheme(want string, themes []ThemeHex) (Theme, error) {
	for _, t := range themes {
		if t.Name == want {
			return t.Theme(), nil
		}
	}
	for _, t := range builtinThemes {
		if t.Name == want {
			return t, nil
		}
	}
	return Theme{}, errors.New("theme: no theme found")
}

// ThemeBasic is the default theme
var ThemeBasic = Theme{
	"basic",            // Name
	tcell.Color188,     // SquareDark
	tcell.Color230,     // SquareLight
	tcell.Color226,     // SquareSelect
	tcell.Color157,     // SquareDest
	tcell.Color117,     // SquarePremove
	tcell.Color223,     // SquareLast
	tcell.Color218,     // SquareCheck
	tcell.Color232,     // White
	tcell.Color232,     // Black
	tcell.Color247,     // Rank
	tcell.Color247,     // File
	tcell.Color160,     // Msg
	tcell.Color247,     // Clock
	tcell.Color196,     // ClockLow
	tcell.ColorDefault, // MoveBox
	tcell.ColorDefault, // PlayerNames
}

// ThemeBlue is a darker variant
var ThemeBlue = Theme{
	"blue",             // Name
	tcell.Color25,      // SquareDark
	tcell.Color111,     // SquareLight
	tcell.Color226,     // SquareSelect
	tcell.Color78,      // SquareDest
	tcell.Color87,      // SquarePremove
	tcell.Color67,      // SquareLast
	tcell.Color203,     // SquareCheck
	tcell.Color231,     // White
	tcell.Color232,     // Black
	tcell.Color247,     // Rank
	tcell.Color247,     // File
	tcell.Color160,     // Msg
	tcell.Color247,     // Clock
	tcell.Color196,     // ClockLow
	tcell.ColorDefault, // MoveBox
	tcell.ColorDefault, // PlayerNames
}

var builtinThemes = []Theme{ThemeBasic, ThemeBlue}
