// Package input implements the I/O hub, peripheral devices, turbo
// engine and event dispatcher that bind host input to emulated NES/
// Famicom peripherals.
package input

// Device is the contract every peripheral implements.
type Device interface {
	Connect()
	Disconnect()
	Read() uint8
	Write(value uint8)
	Reset()
	EndFrame()
}

// FourPlayerMode selects how the hub multiplexes a third and fourth
// controller onto the two-port bus.
type FourPlayerMode int

const (
	FourPlayerNone FourPlayerMode = iota
	FourPlayerNESFourScore
	FourPlayerFamicom
	FourPlayerAuto
)

// Port holds one port's registered device slots, exactly one of which
// is selected and (optionally) connected.
type Port struct {
	devices  map[string]Device
	order    []string
	selected string
	readMask uint8
}

func newPort(readMask uint8) *Port {
	return &Port{devices: map[string]Device{}, readMask: readMask}
}

// SetReadMask overrides the expansion-port bit mask applied to this
// port's reads; VS-Unisystem cartridges widen it to 0xFF (see NewHub).
func (p *Port) SetReadMask(mask uint8) { p.readMask = mask }

// Register adds a device definition under a name (e.g. "controller",
// "zapper", "arkanoid", "mat") to this port's slot list.
func (p *Port) Register(name string, d Device) {
	if _, exists := p.devices[name]; !exists {
		p.order = append(p.order, name)
	}
	p.devices[name] = d
}

// Select switches which registered device is active in this port; the
// previous device is disconnected and the new one connected.
func (p *Port) Select(name string) {
	if cur, ok := p.devices[p.selected]; ok {
		cur.Disconnect()
	}
	p.selected = name
	if d, ok := p.devices[name]; ok {
		d.Connect()
	}
}

func (p *Port) active() Device { return p.devices[p.selected] }

// Hub is the $4016/$4017 I/O hub. It owns two player ports
// plus an expansion-port device and the four-player slots for a third
// and fourth controller.
type Hub struct {
	Port1, Port2   *Port
	Expansion      Device
	ThirdPlayer    Device
	FourthPlayer   Device
	FourPlayerMode FourPlayerMode

	queue *Dispatcher

	port1Stream, port2Stream streamState
}

// streamState tracks the serial-bit index for the NESFourScore
// signature-byte insertion.
type streamState struct {
	bitIndex int
}

// NewHub builds a hub with NES-standard (0x1F) expansion-port masking;
// readMask is overridden to 0xFF for VS-Unisystem cartridges.
func NewHub(readMask uint8) *Hub {
	return &Hub{
		Port1: newPort(readMask),
		Port2: newPort(readMask),
	}
}

// AttachDispatcher wires the event dispatcher the hub drains on every
// bus access.
func (h *Hub) AttachDispatcher(d *Dispatcher) { h.queue = d }

// Write broadcasts the strobe bit (and, to the expansion port, the
// low 3 bits) to every attached device.
func (h *Hub) Write(value uint8) {
	if h.queue != nil {
		h.queue.Process(false)
	}
	if d := h.Port1.active(); d != nil {
		d.Write(value & 1)
	}
	if d := h.Port2.active(); d != nil {
		d.Write(value & 1)
	}
	if h.Expansion != nil {
		h.Expansion.Write(value & 0x07)
	}
	h.port1Stream.bitIndex = 0
	h.port2Stream.bitIndex = 0
}

// Read implements the OR-together contract for $4016 (port==0) or
// $4017 (port==1).
func (h *Hub) Read(port int) uint8 {
	if h.queue != nil {
		h.queue.Process(false)
	}
	var p *Port
	var st *streamState
	var fourScoreSig uint8
	if port == 0 {
		p, st, fourScoreSig = h.Port1, &h.port1Stream, 0x10
	} else {
		p, st, fourScoreSig = h.Port2, &h.port2Stream, 0x20
	}

	var result uint8
	if d := p.active(); d != nil {
		result = d.Read() & 1
	}

	if h.Expansion != nil {
		result |= h.Expansion.Read() & h.readMaskFor(p)
	}

	if h.FourPlayerMode == FourPlayerNESFourScore && st.bitIndex >= 8 && st.bitIndex < 16 {
		// Bits 8-15 carry the third (port 0) or fourth (port 1)
		// controller's bits; from bit 16 on, the next branch shifts out
		// the signature byte (0x10 on $4016, 0x20 on $4017) LSB first.
		var third Device
		if port == 0 {
			third = h.ThirdPlayer
		} else {
			third = h.FourthPlayer
		}
		if third != nil {
			result = third.Read() & 1
		}
	} else if h.FourPlayerMode == FourPlayerNESFourScore && st.bitIndex >= 16 {
		sigBit := (fourScoreSig >> uint(st.bitIndex-16)) & 1
		result = sigBit
	} else if h.FourPlayerMode != FourPlayerNone && h.thirdFourthActive(port) {
		var third Device
		if port == 0 {
			third = h.ThirdPlayer
		} else {
			third = h.FourthPlayer
		}
		if third != nil {
			result |= (third.Read() & 1) << 1
		}
	}

	st.bitIndex++
	return result
}

func (h *Hub) thirdFourthActive(port int) bool {
	return h.FourPlayerMode == FourPlayerFamicom || h.FourPlayerMode == FourPlayerAuto
}

func (h *Hub) readMaskFor(p *Port) uint8 { return p.readMask }

// Reset resets every attached device.
func (h *Hub) Reset() {
	for _, d := range h.Port1.devices {
		d.Reset()
	}
	for _, d := range h.Port2.devices {
		d.Reset()
	}
	if h.Expansion != nil {
		h.Expansion.Reset()
	}
}

// EndFrame runs the per-frame hook on every active device (turbo
// advancement, mouse sensitivity decay, etc).
func (h *Hub) EndFrame() {
	if d := h.Port1.active(); d != nil {
		d.EndFrame()
	}
	if d := h.Port2.active(); d != nil {
		d.EndFrame()
	}
	if h.Expansion != nil {
		h.Expansion.EndFrame()
	}
}
