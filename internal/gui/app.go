// Package gui is the raylib window view of a running simulation.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
	"github.com/san-kum/pendulum/internal/viz"
)

// Monochrome palette.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColWarn    = rl.NewColor(230, 160, 40, 255)
)

const (
	gridSpacing  = 50
	telemetryLen = 400
	// maxTicksPerFrame bounds catch-up after a stalled frame.
	maxTicksPerFrame = 64
)

type Config struct {
	Title        string
	World        physics.Bounds
	TickInterval float64
	FPS          int32
	ShowGrid     bool
	Logger       zerolog.Logger
}

// App owns the window state. The loop is only touched from the goroutine
// running Run.
type App struct {
	cfg     Config
	factory viz.Factory
	loop    viz.Driver
	clock   sim.Accumulator

	snap      dynamo.Snapshot
	telemetry []float64
	// paused holds back the accumulator; the loop stays running.
	paused    bool
	showGrid  bool
	err       error
	log       zerolog.Logger
}

func NewApp(cfg Config, factory viz.Factory) (*App, error) {
	if !(cfg.TickInterval > 0) {
		return nil, fmt.Errorf("%w: tick interval must be positive", dynamo.ErrConfiguration)
	}
	loop, err := factory()
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:       cfg,
		factory:   factory,
		loop:      loop,
		clock:     sim.Accumulator{Interval: cfg.TickInterval, MaxTicks: maxTicksPerFrame},
		snap:      loop.Snapshot(),
		telemetry: make([]float64, 0, telemetryLen),
		showGrid:  cfg.ShowGrid,
		log:       cfg.Logger.With().Str("component", "window").Logger(),
	}, nil
}

// Run opens the window and blocks until it is closed or the simulation
// fails. The loop is closed on return.
func Run(cfg Config, factory viz.Factory) error {
	app, err := NewApp(cfg, factory)
	if err != nil {
		return err
	}

	rl.InitWindow(int32(cfg.World.Width), int32(cfg.World.Height), cfg.Title)
	defer rl.CloseWindow()
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)
	rl.SetExitKey(0)

	for !rl.WindowShouldClose() {
		if quit := app.Update(); quit {
			break
		}
		app.Draw()
	}

	closeErr := app.loop.Close()
	if app.err != nil {
		return app.err
	}
	return closeErr
}

func (a *App) input() dynamo.Direction {
	left := rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA)
	right := rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD)
	return dynamo.DirectionFromKeys(left, right)
}

// Update handles keys and runs the ticks due for this frame. It returns true
// when the window should close.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.loop.ToggleController()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.showGrid = !a.showGrid
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyP) {
		a.paused = !a.paused
		a.clock.Reset()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.err = err
			return true
		}
	}

	if !a.paused {
		in := a.input()
		frame := float64(rl.GetFrameTime())
		for n := a.clock.Advance(frame); n > 0; n-- {
			if err := a.loop.Tick(frame, in); err != nil {
				a.err = err
				a.log.Error().Err(err).Msg("simulation stopped")
				return true
			}
		}
	}

	a.snap = a.loop.Snapshot()
	a.telemetry = append(a.telemetry, a.snap.State.Angle())
	if len(a.telemetry) > telemetryLen {
		a.telemetry = a.telemetry[1:]
	}
	return false
}

func (a *App) reset() error {
	if err := a.loop.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing loop on reset")
	}
	loop, err := a.factory()
	if err != nil {
		return err
	}
	a.loop = loop
	a.clock.Reset()
	a.telemetry = a.telemetry[:0]
	a.snap = loop.Snapshot()
	return nil
}
