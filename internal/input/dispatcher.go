package input

// numModifierSlots is the fixed modifier-slot count.
const numModifierSlots = 8

// numHashBuckets is the fixed bucket count events are filed under.
const numHashBuckets = 8

// kbdModifierSlot is the toggle-style KBD modifier slot.
const kbdModifierSlot = 7

// Dispatcher is the input event dispatcher. It owns the
// binding table, the modifier ref-counts and the pending event queue,
// and is the single collaborator Hub drains before every bus access.
type Dispatcher struct {
	buckets [numHashBuckets][]*Binding

	modifierRefCount [numModifierSlots]int
	activeModifiers  uint8

	queue []Event

	// pressedRefCount tracks, per action, how many currently-matching
	// bindings have it pressed, so overlapping bindings collapse to one
	// logical press/release.
	pressedRefCount map[*Action]int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{pressedRefCount: map[*Action]int{}}
}

// Bind registers a binding under its event's hash bucket.
func (d *Dispatcher) Bind(b *Binding) {
	bucket := bucketOf(b.Index)
	d.buckets[bucket] = append(d.buckets[bucket], b)
}

// ModifierBinding designates a binding as a modifier contributor at the
// given slot; applyModifier looks the slot up in modifierBindings when
// a modifier action fires (the dispatcher matches modifier slots by
// binding, not by action identity, so callers register the slot
// alongside the binding).
type ModifierBinding struct {
	Slot    int
	Binding *Binding
}

var modifierBindings []*ModifierBinding

// Queue appends a raw host event to the pending queue.
func (d *Dispatcher) Queue(e Event) {
	d.queue = append(d.queue, e)
}

// Process walks the pending queue. Non-deferred actions always
// execute; deferred actions (quicksave/load) only execute when force
// is true, at a safe point in the frame.
func (d *Dispatcher) Process(force bool) {
	pending := d.queue
	d.queue = nil
	for _, e := range pending {
		d.dispatch(e, force)
	}
}

func (d *Dispatcher) dispatch(e Event, force bool) {
	bucket := d.buckets[bucketOf(e.Index)]
	best := d.bestMatch(bucket, e)
	if best == nil {
		return
	}
	for _, a := range best.Actions {
		if a.Modifier {
			d.applyModifier(best, e.Pressed)
			continue
		}
		if a.Deferred && !force {
			continue
		}
		d.fire(a, e.Pressed)
	}
}

// bestMatch finds the binding whose modifier requirement is the
// longest prefix of the currently active modifier set.
func (d *Dispatcher) bestMatch(bindings []*Binding, e Event) *Binding {
	var best *Binding
	bestBits := -1
	for _, b := range bindings {
		if b.Index != e.Index || b.Kind != e.Kind {
			continue
		}
		if b.Modifiers&^d.activeModifiers != 0 {
			continue // requires modifier bits that aren't active
		}
		bits := popcount(b.Modifiers)
		if bits > bestBits {
			best, bestBits = b, bits
		}
	}
	if best == nil {
		// Fall back to the zero-modifier binding for this event, if any.
		for _, b := range bindings {
			if b.Index == e.Index && b.Kind == e.Kind && b.Modifiers == 0 {
				return b
			}
		}
	}
	return best
}

func popcount(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

func (d *Dispatcher) fire(a *Action, pressed bool) {
	if pressed {
		d.pressedRefCount[a]++
		if d.pressedRefCount[a] == 1 && a.Handler != nil {
			a.Handler(true)
		}
	} else {
		if d.pressedRefCount[a] > 0 {
			d.pressedRefCount[a]--
		}
		if d.pressedRefCount[a] == 0 && a.Handler != nil {
			a.Handler(false)
		}
	}
}

// applyModifier bumps or decrements a modifier slot's ref-count and, on
// a net change to the active modifier set, synthesises press/release
// events for actions that newly match or stop matching.
func (d *Dispatcher) applyModifier(b *Binding, pressed bool) {
	slot := modifierSlotOf(b)
	if slot < 0 {
		return
	}
	before := d.activeModifiers

	if slot == kbdModifierSlot {
		if pressed {
			d.activeModifiers ^= 1 << kbdModifierSlot
		}
	} else {
		if pressed {
			d.modifierRefCount[slot]++
		} else if d.modifierRefCount[slot] > 0 {
			d.modifierRefCount[slot]--
		}
		if d.modifierRefCount[slot] > 0 {
			d.activeModifiers |= 1 << uint(slot)
		} else {
			d.activeModifiers &^= 1 << uint(slot)
		}
	}

	if before != d.activeModifiers {
		d.resyncLayerTransfer(before, d.activeModifiers)
	}
}

// resyncLayerTransfer releases actions bound only under the old
// modifier set and presses actions newly matched by the new one, so a
// held key cleanly transfers between mapping layers.
func (d *Dispatcher) resyncLayerTransfer(before, after uint8) {
	for _, bucket := range d.buckets {
		for _, b := range bucket {
			wasActive := b.Modifiers&^before == 0
			isActive := b.Modifiers&^after == 0
			if wasActive == isActive {
				continue
			}
			for _, a := range b.Actions {
				if a.Modifier {
					continue
				}
				if isActive {
					d.fire(a, true)
				} else {
					d.fire(a, false)
				}
			}
		}
	}
}

func modifierSlotOf(b *Binding) int {
	for _, m := range modifierBindings {
		if m.Binding == b {
			return m.Slot
		}
	}
	return -1
}

// OnFocusLost releases every currently pressed event so no emulated
// button remains stuck, preserving the KBD toggle slot.
func (d *Dispatcher) OnFocusLost() {
	for a, count := range d.pressedRefCount {
		if count > 0 && a.Handler != nil {
			a.Handler(false)
		}
		d.pressedRefCount[a] = 0
	}
	kbd := d.activeModifiers & (1 << kbdModifierSlot)
	d.activeModifiers = kbd
	for i := range d.modifierRefCount {
		if i != kbdModifierSlot {
			d.modifierRefCount[i] = 0
		}
	}
}
