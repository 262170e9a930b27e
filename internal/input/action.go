package input

// Action identifies what a bound event does once dispatched — a
// controller button, a modifier, or a host-level command like
// quicksave.
type Action struct {
	Name     string
	Deferred bool // runs only on a forced process pass — quicksave/load, etc.
	Modifier bool // contributes to the active modifier set rather than firing a handler
	Handler  func(pressed bool)
}

// EventKind distinguishes the host input sources a binding can name.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouseButton
	EventGamepadButton
	EventGamepadAxis
	EventGamepadHat
)

// Event is one raw host input occurrence queued for the dispatcher.
type Event struct {
	Kind     EventKind
	Index    uint32 // key code / button index / axis index / hat index
	Pressed  bool   // digital press/release; axes use Value instead
	Value    float64 // analog value for EventGamepadAxis
	Modifiers uint8  // the modifier bitset active when this event fired
}

// bucketOf returns the hash bucket an event is filed under: the low 3
// bits of its index, giving 8 buckets.
func bucketOf(index uint32) int { return int(index & 0x07) }
