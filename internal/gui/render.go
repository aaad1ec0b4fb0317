package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"

	"github.com/san-kum/pendulum/internal/viz"
)

// The default raylib font is ASCII only.
var asciiNames = map[string]string{"θ": "theta", "ω": "omega"}

// screen flips world y (up) to window y (down).
func (a *App) screen(p cp.Vector) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(a.cfg.World.Height-p.Y))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.showGrid {
		a.drawGrid()
	}
	a.drawSim()
	a.drawHUD()
	a.drawTelemetry()

	rl.EndDrawing()
}

func (a *App) drawGrid() {
	w, h := int32(a.cfg.World.Width), int32(a.cfg.World.Height)
	for x := int32(0); x <= w; x += gridSpacing {
		rl.DrawLine(x, 0, x, h, ColGrid)
	}
	for y := int32(0); y <= h; y += gridSpacing {
		rl.DrawLine(0, y, w, y, ColGrid)
	}
}

func (a *App) drawSim() {
	s := a.snap

	rl.DrawLineEx(a.screen(s.RailStart), a.screen(s.RailEnd), 2, ColTextDim)

	cart := a.screen(s.Cart)
	w, h := float32(s.CartSize[0]), float32(s.CartSize[1])
	rl.DrawRectangleLinesEx(rl.NewRectangle(cart.X-w/2, cart.Y-h/2, w, h), 2, ColAccent)

	bob := a.screen(s.Bob)
	rl.DrawLineEx(cart, bob, 2, ColAccent)
	rl.DrawCircleV(bob, float32(s.BobRadius), ColSelect)

	// Controller push, scaled so 1 impulse unit is 2 px.
	if s.Impulse.X != 0 {
		tip := rl.NewVector2(cart.X+float32(s.Impulse.X)*2, cart.Y)
		col := ColText
		if s.Saturated {
			col = ColWarn
		}
		rl.DrawLineEx(cart, tip, 3, col)
	}
}

func (a *App) drawHUD() {
	rl.DrawText(a.cfg.Title, 30, 30, 24, ColSelect)

	status, col := "RUNNING", ColSelect
	if a.paused {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, int32(a.cfg.World.Width)-130, 30, 16, col)

	y := int32(70)
	for _, l := range viz.Labels(a.snap) {
		name := l.Name
		if n, ok := asciiNames[name]; ok {
			name = n
		}
		rl.DrawText(name, 30, y, 16, ColTextDim)
		rl.DrawText(strings.NewReplacer("°", " deg").Replace(l.Value), 130, y, 16, ColText)
		y += 20
	}

	bottom := int32(a.cfg.World.Height) - 40
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, bottom, 14, ColTextDim)
	rl.DrawText("[LEFT/RIGHT] PUSH  [C] CONTROLLER  [G] GRID  [SPACE] PAUSE  [R] RESET  [Q] QUIT",
		int32(a.cfg.World.Width)-700, bottom, 14, ColTextDim)
}

// drawTelemetry plots the recent angle as a line strip under the readout.
func (a *App) drawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}

	rectX, rectY := float32(30), float32(a.cfg.World.Height)-140
	width, height := float32(400), float32(60)

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := rectX + float32(i)/float32(len(a.telemetry))*width
		norm := (val - minVal) / (maxVal - minVal)
		py := rectY + height - float32(norm)*height
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("theta %.2f deg", a.telemetry[len(a.telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}
