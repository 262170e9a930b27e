package bus

import "gones/internal/input"

// zapperBrightnessThreshold is the luma level (ITU-R BT.601 weights,
// 0-255 scale) above which a pixel counts as "lit" for light-gun
// sensing, the same kind of CRT-beam brightness test real zapper
// hardware performs.
const zapperBrightnessThreshold = 0x60

// ppuVideoSampler adapts the PPU's rendered frame buffer to the Zapper's
// narrow video collaborator interface.
type ppuVideoSampler struct{ bus *Bus }

func (s *ppuVideoSampler) SampleBrightness(x, y int) bool {
	if x < 0 || x >= 256 || y < 0 || y >= 240 {
		return false
	}
	fb := s.bus.PPU.GetFrameBuffer()
	px := fb[y*256+x]
	r := uint16(px>>16) & 0xFF
	g := uint16(px>>8) & 0xFF
	bch := uint16(px) & 0xFF
	luma := (r*299 + g*587 + bch*114) / 1000
	return luma >= zapperBrightnessThreshold
}

// setupPeripherals (re)registers the zapper, Arkanoid paddle, Power Pad
// and mouse into Port2's device slots, selectable alongside the
// standard pad, and wires the VS-Unisystem cabinet switches onto the
// expansion port when the loaded cartridge is an arcade board. The
// Family BASIC keyboard is created but attached to no port, so nothing
// reads it through $4016/$4017. Called
// from New and from LoadCartridge/LoadFDS after the cartridge and input
// hub are in place.
func (b *Bus) setupPeripherals() {
	b.Zapper = input.NewZapper(&ppuVideoSampler{bus: b})
	b.Input.Port2.Register("zapper", b.Zapper)

	b.ArkanoidPaddle = input.NewArkanoidPaddle(0x20)
	b.Input.Port2.Register("arkanoid", b.ArkanoidPaddle)

	b.Mat = input.NewMat(input.StandardMatPermutation)
	b.Input.Port2.Register("powerpad", b.Mat)

	b.Mouse = input.NewMouse()
	b.Input.Port2.Register("mouse", b.Mouse)

	// Family BASIC's physical key-matrix layout isn't recorded anywhere
	// in the retrieval pack, so the keyboard is wired with no scan-code
	// translation table (nil) rather than inventing one; SetKeyboardKey
	// addresses rows/columns directly.
	b.Keyboard = input.NewKeyboard(nil)

	b.Input.Port2.Select("controller")

	b.VSSwitches = nil
	b.Input.Port1.SetReadMask(0x1F)
	b.Input.Port2.SetReadMask(0x1F)
	b.Input.Expansion = nil

	if b.Cartridge != nil && b.Cartridge.BoardName == "VS-Unisystem" {
		b.VSSwitches = input.NewVSSwitches(b.Cartridge.DIPSwitch)
		b.Input.Expansion = b.VSSwitches
		b.Input.Port1.SetReadMask(0xFF)
		b.Input.Port2.SetReadMask(0xFF)
	}
}

// SelectPort2Device switches the active device on port 2 ("controller",
// "zapper", "arkanoid", "powerpad" or "mouse").
func (b *Bus) SelectPort2Device(name string) {
	b.Input.Port2.Select(name)
}

// SetZapperPosition updates the light gun's screen-space crosshair.
func (b *Bus) SetZapperPosition(x, y int) {
	if b.Zapper != nil {
		b.Zapper.SetPosition(x, y)
	}
}

// TriggerZapper fires the light gun's trigger; offscreen distinguishes
// the deliberate off-screen shot some games use to reload.
func (b *Bus) TriggerZapper(pressed bool, offscreen bool) {
	if b.Zapper != nil {
		b.Zapper.Trigger(pressed, offscreen)
	}
}

// SetArkanoidDial moves the Arkanoid paddle to an absolute dial position.
func (b *Bus) SetArkanoidDial(value int) {
	if b.ArkanoidPaddle != nil {
		b.ArkanoidPaddle.SetDial(value)
	}
}

// SetMatKey drives one of the Power Pad's twelve pressure pads.
func (b *Bus) SetMatKey(index int, pressed bool) {
	if b.Mat != nil {
		b.Mat.SetKey(index, pressed)
	}
}

// SetMouseDelta/SetMouseButtons drive the SNES Mouse adapter.
func (b *Bus) SetMouseDelta(dx, dy int8) {
	if b.Mouse != nil {
		b.Mouse.SetDelta(dx, dy)
	}
}

func (b *Bus) SetMouseButtons(mask uint8) {
	if b.Mouse != nil {
		b.Mouse.SetButtons(mask)
	}
}

// SetKeyboardKey drives one Family BASIC keyboard matrix position.
func (b *Bus) SetKeyboardKey(row, col int, pressed bool) {
	if b.Keyboard != nil {
		b.Keyboard.SetKey(row, col, pressed)
	}
}

// PressVSCoin1/PressVSCoin2/PressVSService drive the VS-Unisystem
// cabinet's coin slots and service-credit switch; no-ops unless a
// VS-Unisystem cartridge is loaded.
func (b *Bus) PressVSCoin1() {
	if b.VSSwitches != nil {
		b.VSSwitches.PressCoin1()
	}
}

func (b *Bus) PressVSCoin2() {
	if b.VSSwitches != nil {
		b.VSSwitches.PressCoin2()
	}
}

func (b *Bus) PressVSService() {
	if b.VSSwitches != nil {
		b.VSSwitches.PressService()
	}
}

// SetVSDIP sets the cabinet's eight DIP switch bits, keeping the
// expansion-port device and the cartridge's own $4021-mapped copy
// (read directly by the VS-Unisystem board) in sync.
func (b *Bus) SetVSDIP(value uint8) {
	if b.Cartridge != nil {
		b.Cartridge.DIPSwitch = value
	}
	if b.VSSwitches != nil {
		b.VSSwitches.SetDIP(value)
	}
}
