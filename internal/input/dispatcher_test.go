package input

import "testing"

func TestDispatcherBestMatchPrefersMostModifierBits(t *testing.T) {
	d := NewDispatcher()
	var plainFired, modFired int
	plain := &Action{Name: "plain", Handler: func(p bool) {
		if p {
			plainFired++
		}
	}}
	withMod := &Action{Name: "withMod", Handler: func(p bool) {
		if p {
			modFired++
		}
	}}
	d.Bind(&Binding{Kind: EventKey, Index: 5, Modifiers: 0, Actions: []*Action{plain}})
	d.Bind(&Binding{Kind: EventKey, Index: 5, Modifiers: 1, Actions: []*Action{withMod}})
	d.activeModifiers = 1

	d.Queue(Event{Kind: EventKey, Index: 5, Pressed: true})
	d.Process(true)

	if modFired != 1 {
		t.Fatalf("modFired = %d, want 1 (the modifier-qualified binding should win)", modFired)
	}
	if plainFired != 0 {
		t.Fatalf("plainFired = %d, want 0", plainFired)
	}
}

func TestDispatcherNoMatchingBindingDoesNothing(t *testing.T) {
	d := NewDispatcher()
	var fired int
	a := &Action{Name: "needsMod", Handler: func(p bool) { fired++ }}
	// Requires modifier bit 4; nothing ever activates it.
	d.Bind(&Binding{Kind: EventKey, Index: 1, Modifiers: 1 << 4, Actions: []*Action{a}})

	d.Queue(Event{Kind: EventKey, Index: 1, Pressed: true})
	d.Process(true)

	if fired != 0 {
		t.Fatalf("fired = %d, want 0 (no binding's modifier requirement is satisfied)", fired)
	}
}

func TestDispatcherDeferredActionOnlyFiresWhenForced(t *testing.T) {
	d := NewDispatcher()
	var count int
	a := &Action{Name: "quicksave", Deferred: true, Handler: func(p bool) {
		if p {
			count++
		}
	}}
	d.Bind(&Binding{Kind: EventKey, Index: 1, Actions: []*Action{a}})

	d.Queue(Event{Kind: EventKey, Index: 1, Pressed: true})
	d.Process(false)
	if count != 0 {
		t.Fatalf("count = %d, want 0 (deferred action processed without force)", count)
	}

	d.Queue(Event{Kind: EventKey, Index: 1, Pressed: true})
	d.Process(true)
	if count != 1 {
		t.Fatalf("count = %d, want 1 after a forced Process", count)
	}
}

func TestDispatcherOverlappingBindingsCollapseToOneLogicalPress(t *testing.T) {
	d := NewDispatcher()
	var presses, releases int
	a := &Action{Name: "shared", Handler: func(p bool) {
		if p {
			presses++
		} else {
			releases++
		}
	}}
	d.Bind(&Binding{Kind: EventKey, Index: 2, Actions: []*Action{a}})
	d.Bind(&Binding{Kind: EventKey, Index: 3, Actions: []*Action{a}})

	d.Queue(Event{Kind: EventKey, Index: 2, Pressed: true})
	d.Queue(Event{Kind: EventKey, Index: 3, Pressed: true})
	d.Process(true)
	if presses != 1 {
		t.Fatalf("presses = %d, want 1 (second overlapping press shouldn't refire)", presses)
	}

	d.Queue(Event{Kind: EventKey, Index: 2, Pressed: false})
	d.Process(true)
	if releases != 0 {
		t.Fatalf("releases = %d, want 0 (one binding still holding the action)", releases)
	}

	d.Queue(Event{Kind: EventKey, Index: 3, Pressed: false})
	d.Process(true)
	if releases != 1 {
		t.Fatalf("releases = %d, want 1 after the last overlapping binding releases", releases)
	}
}

func TestDispatcherModifierResyncFiresBoundActionsOnLayerTransfer(t *testing.T) {
	d := NewDispatcher()
	modAction := &Action{Name: "shift", Modifier: true}
	modBinding := &Binding{Kind: EventKey, Index: 4, Actions: []*Action{modAction}}
	d.Bind(modBinding)
	modifierBindings = append(modifierBindings, &ModifierBinding{Slot: 2, Binding: modBinding})

	var seen []bool
	target := &Action{Name: "special", Handler: func(p bool) { seen = append(seen, p) }}
	d.Bind(&Binding{Kind: EventKey, Index: 9, Modifiers: 1 << 2, Actions: []*Action{target}})

	d.Queue(Event{Kind: EventKey, Index: 4, Pressed: true})
	d.Process(true)
	if d.activeModifiers&(1<<2) == 0 {
		t.Fatalf("activeModifiers = %#x, want bit 2 set", d.activeModifiers)
	}
	if len(seen) != 1 || seen[0] != true {
		t.Fatalf("seen = %v, want [true] (binding under the new layer fires on transfer)", seen)
	}

	d.Queue(Event{Kind: EventKey, Index: 4, Pressed: false})
	d.Process(true)
	if d.activeModifiers&(1<<2) != 0 {
		t.Fatalf("activeModifiers = %#x, want bit 2 cleared", d.activeModifiers)
	}
	if len(seen) != 2 || seen[1] != false {
		t.Fatalf("seen = %v, want [true false]", seen)
	}
}

func TestDispatcherKBDModifierTogglesOnlyOnPress(t *testing.T) {
	d := NewDispatcher()
	kbdAction := &Action{Name: "kbd", Modifier: true}
	kbdBinding := &Binding{Kind: EventKey, Index: 6, Actions: []*Action{kbdAction}}
	d.Bind(kbdBinding)
	modifierBindings = append(modifierBindings, &ModifierBinding{Slot: kbdModifierSlot, Binding: kbdBinding})

	d.Queue(Event{Kind: EventKey, Index: 6, Pressed: true})
	d.Process(true)
	if d.activeModifiers&(1<<kbdModifierSlot) == 0 {
		t.Fatalf("KBD bit not set after first press")
	}

	d.Queue(Event{Kind: EventKey, Index: 6, Pressed: false})
	d.Process(true)
	if d.activeModifiers&(1<<kbdModifierSlot) == 0 {
		t.Fatalf("KBD bit cleared on release; release should be ignored for the toggle slot")
	}

	d.Queue(Event{Kind: EventKey, Index: 6, Pressed: true})
	d.Process(true)
	if d.activeModifiers&(1<<kbdModifierSlot) != 0 {
		t.Fatalf("KBD bit not cleared after the second press (toggle off)")
	}
}

func TestDispatcherOnFocusLostReleasesPressedActions(t *testing.T) {
	d := NewDispatcher()
	var events []bool
	a := &Action{Name: "A", Handler: func(p bool) { events = append(events, p) }}
	d.Bind(&Binding{Kind: EventKey, Index: 1, Actions: []*Action{a}})

	d.Queue(Event{Kind: EventKey, Index: 1, Pressed: true})
	d.Process(true)
	d.OnFocusLost()

	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("events = %v, want [true false]", events)
	}
	if d.pressedRefCount[a] != 0 {
		t.Fatalf("pressedRefCount[a] = %d, want 0 after OnFocusLost", d.pressedRefCount[a])
	}
}

func TestDispatcherOnFocusLostPreservesKBDModifierSlot(t *testing.T) {
	d := NewDispatcher()
	d.activeModifiers = (1 << kbdModifierSlot) | (1 << 2)
	d.modifierRefCount[2] = 3
	d.modifierRefCount[kbdModifierSlot] = 5

	d.OnFocusLost()

	if d.activeModifiers != 1<<kbdModifierSlot {
		t.Fatalf("activeModifiers = %#x, want only the KBD bit", d.activeModifiers)
	}
	if d.modifierRefCount[2] != 0 {
		t.Fatalf("modifierRefCount[2] = %d, want cleared to 0", d.modifierRefCount[2])
	}
	if d.modifierRefCount[kbdModifierSlot] != 5 {
		t.Fatalf("modifierRefCount[kbdModifierSlot] = %d, want preserved at 5", d.modifierRefCount[kbdModifierSlot])
	}
}
