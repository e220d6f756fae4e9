package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the editor window.
type Window struct {
	Title     string
	Width     int32
	Height    int32
	TargetFPS int32
}

// Run opens the window and runs the main loop. Each frame it calls update (input), then
// clears the screen and calls draw. unload, if set, runs after the last frame while the GL
// context still exists. The window is resizable; ESC toggles the console, so the editor
// closes only via the window button.
func Run(win Window, update, draw, unload func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(win.Width, win.Height, win.Title)
	defer rl.CloseWindow()
	if unload != nil {
		defer unload()
	}

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(win.TargetFPS)

	background := rl.NewColor(38, 41, 48, 255)
	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(background)
		draw()
		rl.EndDrawing()
	}
}
