//go:build sdl
// +build sdl

package graphics

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

func init() { newSDL2Backend = NewSDL2Backend }

// SDL2Backend implements Backend using go-sdl2, grounded on the pack's
// yoshiomiyamae-gones and andrewthecodertx-go-nes-emulator uses of
// go-sdl2 for NES video/input.
type SDL2Backend struct {
	initialized bool
	config      Config
}

// SDL2Window implements Window over an sdl.Window/sdl.Renderer pair
// streaming a single RGBA texture, the same approach as the sibling
// repos' gui.go.
type SDL2Window struct {
	window      *sdl.Window
	renderer    *sdl.Renderer
	texture     *sdl.Texture
	title       string
	width       int
	height      int
	shouldClose bool
	events      []InputEvent
}

func NewSDL2Backend() Backend { return &SDL2Backend{} }

func (b *SDL2Backend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("sdl2 backend already initialized")
	}
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl2: init failed: %w", err)
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *SDL2Backend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	if b.config.Headless {
		return nil, fmt.Errorf("cannot create window in headless mode")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("sdl2: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("sdl2: create renderer: %w", err)
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, 256, 240)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("sdl2: create texture: %w", err)
	}

	return &SDL2Window{window: window, renderer: renderer, texture: texture, title: title, width: width, height: height}, nil
}

func (b *SDL2Backend) Cleanup() error {
	sdl.Quit()
	return nil
}

func (b *SDL2Backend) IsHeadless() bool { return b.config.Headless }
func (b *SDL2Backend) GetName() string  { return "sdl2" }

func (w *SDL2Window) SetTitle(title string) {
	w.title = title
	w.window.SetTitle(title)
}

func (w *SDL2Window) GetSize() (int, int) { return w.width, w.height }

func (w *SDL2Window) ShouldClose() bool { return w.shouldClose }

func (w *SDL2Window) SwapBuffers() {}

func (w *SDL2Window) RenderFrame(frameBuffer [256 * 240]uint32) error {
	if err := w.texture.Update(nil, toBytes(frameBuffer[:]), 256*4); err != nil {
		return fmt.Errorf("sdl2: texture update: %w", err)
	}
	w.renderer.Clear()
	w.renderer.Copy(w.texture, nil, nil)
	w.renderer.Present()
	return nil
}

func (w *SDL2Window) PollEvents() []InputEvent {
	w.events = w.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.shouldClose = true
			w.events = append(w.events, InputEvent{Type: InputEventTypeQuit})
		case *sdl.KeyboardEvent:
			w.events = append(w.events, InputEvent{
				Type: InputEventTypeKey, Key: sdlKeyToKey(e.Keysym.Sym), Pressed: e.State == sdl.PRESSED,
			})
		}
	}
	return w.events
}

func (w *SDL2Window) Cleanup() error {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	return nil
}

func toBytes(frame []uint32) []byte {
	buf := make([]byte, len(frame)*4)
	for i, px := range frame {
		buf[i*4+0] = byte(px)
		buf[i*4+1] = byte(px >> 8)
		buf[i*4+2] = byte(px >> 16)
		buf[i*4+3] = byte(px >> 24)
	}
	return buf
}

// sdlKeyToKey maps the small set of SDL keycodes this emulator's
// default bindings use onto the backend-neutral Key enum; unmapped keys
// report KeyUnknown and are filtered by the input dispatcher upstream.
func sdlKeyToKey(sym sdl.Keycode) Key {
	switch sym {
	case sdl.K_ESCAPE:
		return KeyEscape
	case sdl.K_RETURN:
		return KeyEnter
	case sdl.K_SPACE:
		return KeySpace
	case sdl.K_UP:
		return KeyUp
	case sdl.K_DOWN:
		return KeyDown
	case sdl.K_LEFT:
		return KeyLeft
	case sdl.K_RIGHT:
		return KeyRight
	case sdl.K_w:
		return KeyW
	case sdl.K_a:
		return KeyA
	case sdl.K_s:
		return KeyS
	case sdl.K_d:
		return KeyD
	case sdl.K_j:
		return KeyJ
	case sdl.K_k:
		return KeyK
	case sdl.K_x:
		return KeyX
	case sdl.K_z:
		return KeyZ
	default:
		return KeyUnknown
	}
}
