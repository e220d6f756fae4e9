// Package terminal is the editor console: an input bar with the recent log above it.
// Every submitted line runs through the command registry.
package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/commands"
	"scene-editor/internal/logger"
	"scene-editor/internal/ui"
)

const (
	BarHeight = 32
	prompt    = "> "
	padding   = 8
	// Number of log lines drawn above the input bar when the console is open.
	maxLinesOnScreen = 10
	maxLineLen       = 200
	historyLimit     = 50
)

// Terminal is the console bar at the bottom of the screen, shown and hidden with ESC.
// While open it captures the keyboard, so editor shortcuts are ignored.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	history  []string
	recall   int // index into history while browsing with Up/Down; len(history) means none
}

// New returns a closed Terminal that logs lines and runs them through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen returns true when the console is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetOpen shows or hides the console.
func (t *Terminal) SetOpen(open bool) {
	t.open = open
}

// Input returns the text typed so far.
func (t *Terminal) Input() string {
	return t.inputBuf
}

// Submit echoes line to the log and runs it as a command. Errors are logged, not returned,
// so a bad line never stops the editor.
func (t *Terminal) Submit(line string) {
	if line == "" {
		return
	}
	t.log.Log(prompt + line)
	t.history = append(t.history, line)
	if len(t.history) > historyLimit {
		t.history = t.history[len(t.history)-historyLimit:]
	}
	t.recall = len(t.history)
	if err := t.reg.Run(line); err != nil {
		t.log.Warn("%v", err)
	}
}

// Recall moves through submitted lines: -1 for older, +1 for newer. Past the newest line
// the input is cleared.
func (t *Terminal) Recall(step int) {
	if len(t.history) == 0 {
		return
	}
	t.recall = max(0, min(t.recall+step, len(t.history)))
	if t.recall == len(t.history) {
		t.inputBuf = ""
		return
	}
	t.inputBuf = t.history[t.recall]
}

// Update handles ESC (toggle), and when open: typing, paste, history, backspace, enter.
// Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += pasted
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		t.Recall(-1)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		t.Recall(1)
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		line := t.inputBuf
		t.inputBuf = ""
		t.Submit(line)
	}
}

// VisibleLines returns the log lines shown above the bar, newest last, each cut to a
// drawable length.
func (t *Terminal) VisibleLines() []string {
	lines := t.log.Lines()
	if len(lines) > maxLinesOnScreen {
		lines = lines[len(lines)-maxLinesOnScreen:]
	}
	for i, line := range lines {
		if len(line) > maxLineLen {
			lines[i] = line[:maxLineLen-3] + "..."
		}
	}
	return lines
}

// Draw draws the console at the bottom when open, styled by the .console and
// .console-input rules.
func (t *Terminal) Draw(e *ui.Engine) {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	body := e.Style("div", "console", "")
	input := e.Style("div", "console-input", "")
	barY := screenH - BarHeight

	lineHeight := body.LineHeight
	if lineHeight <= 0 {
		lineHeight = body.FontSize + 4
	}
	chatHeight := int32(maxLinesOnScreen)*lineHeight + padding
	if body.Height > 0 {
		chatHeight = min(chatHeight, body.Height)
	}
	chatY := max(barY-chatHeight, 0)
	ui.DrawBox(rl.NewRectangle(0, float32(chatY), float32(screenW), float32(barY-chatY)), body)

	lines := t.VisibleLines()
	y := barY - int32(len(lines))*lineHeight - padding/2
	for _, line := range lines {
		if y >= chatY {
			ui.DrawText(line, padding, y, body.FontSize, body.Color)
		}
		y += lineHeight
	}

	bar := rl.NewRectangle(0, float32(barY), float32(screenW), BarHeight)
	ui.DrawBox(bar, input)
	rl.DrawRectangle(0, barY, screenW, 1, input.Accent)
	ui.DrawText(prompt+t.inputBuf+"|", padding, barY+(BarHeight-input.FontSize)/2, input.FontSize, input.Color)
}
