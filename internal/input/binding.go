package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Binding is one registered (event, modifier-set) -> action-list
// mapping.
type Binding struct {
	Kind      EventKind
	Index     uint32
	Modifiers uint8
	Actions   []*Action
}

// ParseBindingString decodes a binding string of the form
// "kind:index[+modifiers]", e.g. "key:42+3" (key code 42, modifier bits
// 0 and 1 held). This grammar is its own small format, not a generic
// config format, so it's hand-parsed rather than piggybacked on a
// structured-data library.
func ParseBindingString(s string) (kind EventKind, index uint32, modifiers uint8, err error) {
	parts := strings.SplitN(s, "+", 2)
	kindIndex := strings.SplitN(parts[0], ":", 2)
	if len(kindIndex) != 2 {
		return 0, 0, 0, fmt.Errorf("input: malformed binding %q", s)
	}
	switch kindIndex[0] {
	case "key":
		kind = EventKey
	case "mousebutton":
		kind = EventMouseButton
	case "gamepadbutton":
		kind = EventGamepadButton
	case "gamepadaxis":
		kind = EventGamepadAxis
	case "gamepadhat":
		kind = EventGamepadHat
	default:
		return 0, 0, 0, fmt.Errorf("input: unknown binding kind %q", kindIndex[0])
	}
	idx, err := strconv.ParseUint(kindIndex[1], 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("input: malformed binding index in %q: %w", s, err)
	}
	index = uint32(idx)
	if len(parts) == 2 {
		m, err := strconv.ParseUint(parts[1], 10, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("input: malformed modifier set in %q: %w", s, err)
		}
		modifiers = uint8(m)
	}
	return kind, index, modifiers, nil
}
