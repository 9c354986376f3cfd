// Package window opens the SDL2 window and its OpenGL 4.1 core context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/logger"
)

func init() {
	// GL contexts are bound to the thread that created them.
	runtime.LockOSThread()
}

// Config describes the window to open.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window owns the SDL window and its GL context.
type Window struct {
	handle  *sdl.Window
	context sdl.GLContext
	log     *zap.Logger
}

// macOS tops out at 4.1 core.
var glAttributes = []struct {
	attr  sdl.GLattr
	value int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// New initializes SDL video, events and game controllers, then opens the
// window and makes its GL context current.
func New(cfg Config) (w *Window, err error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_GAMECONTROLLER); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	w = &Window{log: logger.Named("window")}
	defer func() {
		if err != nil {
			w.Close()
			w = nil
		}
	}()

	for _, a := range glAttributes {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return w, fmt.Errorf("gl attribute %d: %w", a.attr, err)
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	w.handle, err = sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		return w, fmt.Errorf("create window: %w", err)
	}

	if w.context, err = w.handle.GLCreateContext(); err != nil {
		return w, fmt.Errorf("create gl context: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		// Not fatal: some drivers refuse adaptive intervals.
		w.log.Warn("swap interval rejected", zap.Int("interval", interval), zap.Error(err))
	}

	width, height := w.Size()
	w.log.Info("window open",
		zap.String("title", cfg.Title),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync))
	return w, nil
}

// Close releases the context and window and shuts SDL down.
func (w *Window) Close() {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
		w.context = nil
	}
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
	w.log.Debug("window closed")
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.handle.GLSwap()
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	width, height := w.handle.GetSize()
	return int(width), int(height)
}

// SetTitle replaces the title bar text.
func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}
