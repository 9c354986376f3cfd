// Package game implements the main game loop.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/assets"
	"github.com/Faultbox/prisonstep/internal/config"
	"github.com/Faultbox/prisonstep/internal/engine/camera"
	"github.com/Faultbox/prisonstep/internal/engine/debug"
	"github.com/Faultbox/prisonstep/internal/engine/input"
	"github.com/Faultbox/prisonstep/internal/engine/renderer"
	"github.com/Faultbox/prisonstep/internal/engine/window"
	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/internal/savegame"
	"github.com/Faultbox/prisonstep/internal/sim"
)

// MaxFrameTime caps the time one frame may simulate, so a stall (a window
// drag, a breakpoint) does not fling the character.
const MaxFrameTime = 0.1

// Game is the main game instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Sampler
	content  *assets.Manager
	store    *savegame.Store

	sim      *sim.Sim
	orbit    *camera.OrbitCamera
	overview bool

	screenshots *debug.Screenshots
	capture     bool

	log *zap.Logger
}

// New creates the window and renderer and loads the level.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("game"),
	}
	g.log.Info("initializing game",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	g.content = assets.NewManager()
	if err := g.content.AddDir(cfg.Content.Dir); err != nil {
		return nil, err
	}

	var err error
	g.store, err = savegame.Open(cfg.Savegame.AppName, cfg.Savegame.Enabled)
	if err != nil {
		g.log.Warn("saves will not persist", zap.Error(err))
	}
	g.log.Info("placement store ready", zap.Bool("persistent", g.store.Persistent()))

	g.sim, err = sim.Load(cfg, g.content, g.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load level: %w", err)
	}

	// Window also creates the OpenGL context.
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := g.window.Size()
	g.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	g.renderer.SetRegions(g.sim.Regions)
	g.renderer.SetRig(g.sim.Character.Rig())
	g.sim.Camera.Resize(width, height)

	c := cfg.Character
	g.input = input.New(input.NewMapper(c.PanRate, c.AimScale, c.WalkSpeed))

	g.orbit = camera.NewOrbitCamera()
	g.orbit.FitToRegions(g.sim.Regions)

	g.screenshots = debug.NewScreenshots("screenshots", "prisonstep")

	g.log.Info("game initialized successfully")
	return g, nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := min(now.Sub(lastTime).Seconds(), MaxFrameTime)
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		for _, event := range g.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				g.renderer.Resize(event.Width, event.Height)
				g.sim.Camera.Resize(event.Width, event.Height)
			case input.EventMouseWheel:
				if g.overview {
					g.orbit.HandleZoom(event.Wheel)
				}
			case input.EventKeyDown:
				switch event.Key {
				case input.KeyOverview:
					g.overview = !g.overview
				case input.KeyScreenshot:
					g.capture = true
				}
			}
		}

		g.update(dt)
		g.render()
		if g.capture {
			g.capture = false
			g.saveScreenshot()
		}
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.config.Window.ShowFPS {
				state := g.sim.Character.State().String()
				if g.sim.Character.Pose().SpineAimEnabled() {
					state += " (aiming)"
				}
				g.window.SetTitle(fmt.Sprintf("%s - %d fps - %s", g.config.Window.Title, frameCount, state))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) update(dt float64) {
	in := g.input.Sample()
	if g.overview {
		// Arrows orbit the overview camera; the character stands still.
		g.orbit.HandleYaw(-in.TurnRate * float32(dt) * 200)
		g.orbit.HandlePitch(in.AimDelta.Y * 50)
		in = locomotion.Input{}
	}
	g.sim.Tick(dt, in)
	if g.overview {
		g.orbit.Apply(g.sim.Camera)
	}
}

func (g *Game) render() {
	cam := g.sim.Camera
	g.renderer.Begin(cam.ViewMatrix(), cam.ProjectionMatrix())
	g.renderer.DrawFloor()
	g.renderer.DrawCharacter(g.sim.Character.World(), g.sim.Character.SkinMatrices())
	g.renderer.DrawMarker(g.sim.Character.WeaponTransform())
	g.renderer.End()
}

func (g *Game) saveScreenshot() {
	pixels, width, height := g.renderer.ReadPixels()
	name, err := g.screenshots.Save(pixels, width, height)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("file", name))
}

// Close saves the placement and releases resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.sim != nil {
		if err := g.sim.Save(); err != nil {
			g.log.Error("failed to save placement", zap.Error(err))
		}
	}
	if g.input != nil {
		g.input.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	if g.content != nil {
		g.content.Close()
	}
}
