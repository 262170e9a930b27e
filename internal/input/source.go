package input

// Source polls a host input library once per frame and queues the
// events it finds onto a Dispatcher. EbitenSource and SDLSource both
// implement it; which one exists in a given build depends on build
// tags, so callers outside this package go through NewDefaultSource
// instead of referencing either concrete type directly.
type Source interface {
	Poll()
	OnFocusLost()
}

// newEbitenSource/newSDLSource are populated by init() in
// ebiten_source.go (build tag !headless) and sdl_source.go (build tag
// sdl) respectively. Both, neither, or (in a build combining both
// tags) either may be set; nil means that backend wasn't compiled in,
// mirroring internal/graphics/backend.go's newSDL2Backend pattern.
var (
	newEbitenSource func(d *Dispatcher) Source
	newSDLSource    func(d *Dispatcher) Source
	keyByName       func(name string) (uint32, bool)
)

// ResolveKeyName translates a Config.Input KeyMapping name (e.g. "W",
// "Return", "RShift") to the key code the compiled-in host source
// uses, so callers binding default controls never need to import
// ebiten or sdl themselves. Returns ok=false if no source is compiled
// in, or the name isn't recognized.
func ResolveKeyName(name string) (uint32, bool) {
	if keyByName == nil {
		return 0, false
	}
	return keyByName(name)
}

// NewDefaultSource builds whichever host event source was compiled
// into this binary, preferring Ebitengine, or returns nil if the
// build carries neither (e.g. -tags headless without -tags sdl).
func NewDefaultSource(d *Dispatcher) Source {
	if newEbitenSource != nil {
		return newEbitenSource(d)
	}
	if newSDLSource != nil {
		return newSDLSource(d)
	}
	return nil
}
