// Package ui draws the controls layered over the backdrop: the theme toggle
// button and the optional diagnostic panels.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/theme"
)

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorCenter
)

// AnchorRect places a width x height box against the given screen corner,
// inset by margin.
func AnchorRect(anchor PanelAnchor, width, height, screenW, screenH, margin float32) rl.Rectangle {
	r := rl.Rectangle{Width: width, Height: height}
	switch anchor {
	case AnchorTopLeft:
		r.X, r.Y = margin, margin
	case AnchorTopRight:
		r.X, r.Y = screenW-width-margin, margin
	case AnchorBottomLeft:
		r.X, r.Y = margin, screenH-height-margin
	case AnchorBottomRight:
		r.X, r.Y = screenW-width-margin, screenH-height-margin
	case AnchorCenter:
		r.X, r.Y = (screenW-width)/2, (screenH-height)/2
	}
	return r
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the dark UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Color{R: 6, G: 182, B: 212, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 16, G: 185, B: 129, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// ThemeFor returns UI styling matching a backdrop palette.
func ThemeFor(p theme.Palette) Theme {
	t := DefaultTheme()
	if p.Dark {
		return t
	}
	t.PanelBg = rl.Color{R: 248, G: 250, B: 252, A: 230}
	t.PanelBorder = rl.Color{R: 203, G: 213, B: 225, A: 255}
	t.SectionHeader = rl.Color{R: 8, G: 145, B: 178, A: 255}
	t.LabelColor = rl.Color{R: 71, G: 85, B: 105, A: 255}
	t.ValueColor = rl.Color{R: p.Text.R, G: p.Text.G, B: p.Text.B, A: 255}
	t.BarBg = rl.Color{R: 226, G: 232, B: 240, A: 255}
	return t
}
