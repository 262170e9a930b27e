//go:build sdl
// +build sdl

package input

import "github.com/veandco/go-sdl2/sdl"

// SDLSource polls SDL2 keyboard and joystick state once per host frame
// and feeds input.Event values into a Dispatcher, grounded on the same
// sibling repos' sdl.PollEvent loops as internal/graphics/sdl2_backend.go.
type SDLSource struct {
	dispatcher *Dispatcher
	joysticks  []*sdl.Joystick
}

func NewSDLSource(d *Dispatcher) *SDLSource {
	s := &SDLSource{dispatcher: d}
	if err := sdl.InitSubSystem(sdl.INIT_JOYSTICK); err == nil {
		for i := 0; i < sdl.NumJoysticks(); i++ {
			if j := sdl.JoystickOpen(i); j != nil {
				s.joysticks = append(s.joysticks, j)
			}
		}
	}
	return s
}

// Poll drains the SDL event queue, translating keyboard and joystick
// events into queued input.Events.
func (s *SDLSource) Poll() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.KeyboardEvent:
			s.dispatcher.Queue(Event{Kind: EventKey, Index: uint32(e.Keysym.Sym), Pressed: e.State == sdl.PRESSED})
		case *sdl.JoyButtonEvent:
			s.dispatcher.Queue(Event{Kind: EventGamepadButton, Index: uint32(e.Button), Pressed: e.State == sdl.PRESSED})
		case *sdl.JoyAxisEvent:
			s.dispatcher.Queue(Event{Kind: EventGamepadAxis, Index: uint32(e.Axis), Value: float64(e.Value) / 32767.0})
		case *sdl.JoyHatEvent:
			s.dispatcher.Queue(Event{Kind: EventGamepadHat, Index: uint32(e.Hat), Value: float64(e.Value)})
		}
	}
}

// OnFocusLost should be wired to SDL's WindowEvent focus-lost case.
func (s *SDLSource) OnFocusLost() { s.dispatcher.OnFocusLost() }

func (s *SDLSource) Close() {
	for _, j := range s.joysticks {
		j.Close()
	}
}

// sdlKeyNames resolves the same Config.Input KeyMapping name set
// ebitenKeyNames does, to SDL2 keycodes.
var sdlKeyNames = map[string]sdl.Keycode{
	"W": sdl.K_w, "A": sdl.K_a, "S": sdl.K_s, "D": sdl.K_d,
	"J": sdl.K_j, "K": sdl.K_k, "N": sdl.K_n, "M": sdl.K_m,
	"X": sdl.K_x, "Z": sdl.K_z,
	"Up": sdl.K_UP, "Down": sdl.K_DOWN, "Left": sdl.K_LEFT, "Right": sdl.K_RIGHT,
	"Return": sdl.K_RETURN, "Enter": sdl.K_RETURN, "Space": sdl.K_SPACE,
	"RShift": sdl.K_RSHIFT, "LShift": sdl.K_LSHIFT,
	"RCtrl": sdl.K_RCTRL, "LCtrl": sdl.K_LCTRL,
	"Escape": sdl.K_ESCAPE,
}

func init() {
	newSDLSource = func(d *Dispatcher) Source { return NewSDLSource(d) }
	keyByName = func(name string) (uint32, bool) {
		k, ok := sdlKeyNames[name]
		return uint32(k), ok
	}
}
