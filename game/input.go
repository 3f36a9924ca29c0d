package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (a *App) handleInput() {
	// Window resize propagation
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyT) {
		a.toggleTheme()
	}

	if rl.IsKeyPressed(rl.KeyS) {
		a.saveSnapshot()
	}

	for _, desc := range a.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			a.overlays.HandleKeyPress(desc.Key)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.backdrop.Resize(float32(w), float32(h))
}
