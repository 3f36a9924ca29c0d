package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ThemeToggle is the fixed button in the bottom-right corner that flips
// between the light and dark themes.
type ThemeToggle struct {
	width, height float32
	margin        float32
}

// NewThemeToggle creates the toggle with its default size.
func NewThemeToggle() *ThemeToggle {
	return &ThemeToggle{width: 96, height: 36, margin: 24}
}

// Bounds returns the button rectangle for the given screen size.
func (t *ThemeToggle) Bounds(screenW, screenH int32) rl.Rectangle {
	return AnchorRect(AnchorBottomRight, t.width, t.height, float32(screenW), float32(screenH), t.margin)
}

// Label returns the button text: the theme a click switches to.
func (t *ThemeToggle) Label(dark bool) string {
	if dark {
		return "Light"
	}
	return "Dark"
}

// Draw renders the button and reports whether it was clicked this frame.
func (t *ThemeToggle) Draw(dark bool, screenW, screenH int32) bool {
	return gui.Button(t.Bounds(screenW, screenH), t.Label(dark))
}
