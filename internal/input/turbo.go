package input

// turboPeriods are the selectable turbo periods in frames, indexed by
// a speed config value 0-7, grounded on cxNES input/controller.c's turbo rate
// table.
var turboPeriods = [8]int{1, 10, 8, 6, 5, 4, 3, 2}

// TurboMode is which behavior a turbo-capable button uses.
type TurboMode int

const (
	TurboOff TurboMode = iota
	TurboHold   // asserted for half the period, every period, while held
	TurboToggle // press toggles a persistent mask bit
)

// TurboEngine tracks turbo state for the A/B buttons of one controller.
type TurboEngine struct {
	modeA, modeB TurboMode
	speed        int // index into turboPeriods
	counter      int
	toggleMask   Button
}

func NewTurboEngine(speed int) *TurboEngine {
	if speed < 0 || speed >= len(turboPeriods) {
		speed = 0
	}
	return &TurboEngine{speed: speed}
}

func (t *TurboEngine) SetSpeed(speed int) {
	if speed < 0 || speed >= len(turboPeriods) {
		return
	}
	t.speed = speed
}

func (t *TurboEngine) SetMode(button Button, mode TurboMode) {
	switch button {
	case ButtonA:
		t.modeA = mode
	case ButtonB:
		t.modeB = mode
	}
}

// OnPress handles a physical press of a turbo-toggle button, flipping
// its bit in the toggle mask.
func (t *TurboEngine) OnPress(button Button) {
	if (button == ButtonA && t.modeA == TurboToggle) ||
		(button == ButtonB && t.modeB == TurboToggle) {
		t.toggleMask ^= button
	}
}

// AdvanceFrame advances the turbo period counter once per frame.
func (t *TurboEngine) AdvanceFrame() {
	period := turboPeriods[t.speed]
	t.counter = (t.counter + 1) % period
}

// active reports whether the turbo button is asserted this frame: for
// half of the period, it presents as pressed.
func (t *TurboEngine) active() bool {
	period := turboPeriods[t.speed]
	return t.counter < period/2
}

// Apply overlays turbo-hold and turbo-toggle state onto a live button
// mask, returning the effective mask the controller should latch.
func (t *TurboEngine) Apply(live, heldTurbo Button) Button {
	result := live
	if t.modeA == TurboHold && heldTurbo&ButtonA != 0 {
		if t.active() {
			result |= ButtonA
		} else {
			result &^= ButtonA
		}
	}
	if t.modeB == TurboHold && heldTurbo&ButtonB != 0 {
		if t.active() {
			result |= ButtonB
		} else {
			result &^= ButtonB
		}
	}
	if t.modeA == TurboToggle && t.toggleMask&ButtonA != 0 && t.active() {
		result |= ButtonA
	}
	if t.modeB == TurboToggle && t.toggleMask&ButtonB != 0 && t.active() {
		result |= ButtonB
	}
	return result
}
