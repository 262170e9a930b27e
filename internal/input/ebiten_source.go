//go:build !headless
// +build !headless

package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenSource polls Ebitengine's keyboard and gamepad state once per
// host frame and feeds input.Event values into a Dispatcher, replacing
// the old direct-to-InputState wiring.
type EbitenSource struct {
	dispatcher *Dispatcher
	prevKeys   map[ebiten.Key]bool
	prevPads   map[ebiten.GamepadID]map[ebiten.StandardGamepadButton]bool
}

func NewEbitenSource(d *Dispatcher) *EbitenSource {
	return &EbitenSource{
		dispatcher: d,
		prevKeys:   map[ebiten.Key]bool{},
		prevPads:   map[ebiten.GamepadID]map[ebiten.StandardGamepadButton]bool{},
	}
}

// Poll should be called once per Ebitengine Update tick; it diffs
// key/button state against the previous tick and queues press/release
// events for every transition.
func (s *EbitenSource) Poll() {
	for _, k := range inpututil.AppendPressedKeys(nil) {
		if !s.prevKeys[k] {
			s.dispatcher.Queue(Event{Kind: EventKey, Index: uint32(k), Pressed: true})
		}
		s.prevKeys[k] = true
	}
	for k, wasPressed := range s.prevKeys {
		if wasPressed && !ebiten.IsKeyPressed(k) {
			s.dispatcher.Queue(Event{Kind: EventKey, Index: uint32(k), Pressed: false})
			s.prevKeys[k] = false
		}
	}

	ids := ebiten.AppendGamepadIDs(nil)
	for _, id := range ids {
		prev, ok := s.prevPads[id]
		if !ok {
			prev = map[ebiten.StandardGamepadButton]bool{}
			s.prevPads[id] = prev
		}
		for b := ebiten.StandardGamepadButton(0); b < ebiten.StandardGamepadButtonMax; b++ {
			pressed := ebiten.IsStandardGamepadButtonPressed(id, b)
			if pressed != prev[b] {
				s.dispatcher.Queue(Event{Kind: EventGamepadButton, Index: uint32(b), Pressed: pressed})
				prev[b] = pressed
			}
		}
		for axis := ebiten.StandardGamepadAxis(0); axis < ebiten.StandardGamepadAxisMax; axis++ {
			v := ebiten.StandardGamepadAxisValue(id, axis)
			s.dispatcher.Queue(Event{Kind: EventGamepadAxis, Index: uint32(axis), Value: v})
		}
	}
}

// OnFocusLost should be wired to Ebitengine's window-focus callback.
func (s *EbitenSource) OnFocusLost() { s.dispatcher.OnFocusLost() }

// ebitenKeyNames resolves the key names used by Config.Input's
// KeyMapping strings to ebiten key codes, the same name set the
// teacher's own ebitengine_backend.go keyMappings table recognizes.
var ebitenKeyNames = map[string]ebiten.Key{
	"W": ebiten.KeyW, "A": ebiten.KeyA, "S": ebiten.KeyS, "D": ebiten.KeyD,
	"J": ebiten.KeyJ, "K": ebiten.KeyK, "N": ebiten.KeyN, "M": ebiten.KeyM,
	"X": ebiten.KeyX, "Z": ebiten.KeyZ,
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"Return": ebiten.KeyEnter, "Enter": ebiten.KeyEnter, "Space": ebiten.KeySpace,
	"RShift": ebiten.KeyShiftRight, "LShift": ebiten.KeyShiftLeft,
	"RCtrl": ebiten.KeyControlRight, "LCtrl": ebiten.KeyControlLeft,
	"Escape": ebiten.KeyEscape,
}

func init() {
	newEbitenSource = func(d *Dispatcher) Source { return NewEbitenSource(d) }
	keyByName = func(name string) (uint32, bool) {
		k, ok := ebitenKeyNames[name]
		return uint32(k), ok
	}
}
