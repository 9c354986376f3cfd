package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/internal/logger"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	// Wheel is the vertical scroll amount, positive away from the user.
	Wheel float32
}

// Key bindings.
const (
	KeyLeft   = sdl.SCANCODE_LEFT
	KeyRight  = sdl.SCANCODE_RIGHT
	KeyUp     = sdl.SCANCODE_UP
	KeyDown   = sdl.SCANCODE_DOWN
	KeyCrouch = sdl.SCANCODE_X
	KeyAim    = sdl.SCANCODE_A
	KeyQuit   = sdl.SCANCODE_ESCAPE

	// KeyOverview toggles the free overview camera.
	KeyOverview = sdl.SCANCODE_TAB
	// KeyScreenshot saves the next frame as a PNG.
	KeyScreenshot = sdl.SCANCODE_F12
)

// Sampler polls SDL events and samples keyboard and game controller state.
type Sampler struct {
	mapper *Mapper
	events []Event
	pad    *sdl.GameController
	padID  sdl.JoystickID
	log    *zap.Logger
}

// New creates a sampler that maps controls through mapper. It opens the
// first connected game controller, if any.
func New(mapper *Mapper) *Sampler {
	s := &Sampler{
		mapper: mapper,
		events: make([]Event, 0, 16),
		log:    logger.Named("input"),
	}
	for i := 0; i < sdl.NumJoysticks(); i++ {
		if sdl.IsGameController(i) {
			s.openPad(i)
			break
		}
	}
	return s
}

// Close releases the game controller.
func (s *Sampler) Close() {
	if s.pad != nil {
		s.pad.Close()
		s.pad = nil
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (s *Sampler) Update() bool {
	s.events = s.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.events = append(s.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				s.events = append(s.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				s.events = append(s.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
				if e.Keysym.Scancode == KeyQuit {
					quit = true
				}
			}

		case *sdl.MouseWheelEvent:
			wheel := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wheel = -wheel
			}
			s.events = append(s.events, Event{Type: EventMouseWheel, Wheel: wheel})

		case *sdl.ControllerDeviceEvent:
			switch e.Type {
			case sdl.CONTROLLERDEVICEADDED:
				if s.pad == nil {
					s.openPad(int(e.Which))
				}
			case sdl.CONTROLLERDEVICEREMOVED:
				if s.pad != nil && e.Which == s.padID {
					s.log.Info("game controller removed")
					s.pad.Close()
					s.pad = nil
					s.mapper.Reset()
				}
			}
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (s *Sampler) Events() []Event {
	return s.events
}

// Controls reads the current keyboard and controller state.
func (s *Sampler) Controls() Controls {
	keys := sdl.GetKeyboardState()
	c := Controls{
		Left:   keys[KeyLeft] != 0,
		Right:  keys[KeyRight] != 0,
		Up:     keys[KeyUp] != 0,
		Down:   keys[KeyDown] != 0,
		Crouch: keys[KeyCrouch] != 0,
		Aim:    keys[KeyAim] != 0,
	}
	if s.pad != nil {
		c.HasPad = true
		c.StickX = axis(s.pad.Axis(sdl.CONTROLLER_AXIS_RIGHTX))
		// SDL reports Y down.
		c.StickY = -axis(s.pad.Axis(sdl.CONTROLLER_AXIS_RIGHTY))
		c.Crouch = c.Crouch || s.pad.Button(sdl.CONTROLLER_BUTTON_X) != 0
		c.Aim = c.Aim || s.pad.Button(sdl.CONTROLLER_BUTTON_A) != 0
	}
	return c
}

// Sample reads the controls and maps them to locomotion input.
func (s *Sampler) Sample() locomotion.Input {
	return s.mapper.Map(s.Controls())
}

func (s *Sampler) openPad(index int) {
	pad := sdl.GameControllerOpen(index)
	if pad == nil {
		s.log.Warn("failed to open game controller", zap.Int("index", index))
		return
	}
	s.pad = pad
	s.padID = pad.Joystick().InstanceID()
	s.log.Info("game controller connected", zap.String("name", pad.Name()))
}

func axis(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768
	}
	return float32(v) / 32767
}
