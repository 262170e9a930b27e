package fds

// Control register bits ($4025).
const (
	CtrlMirroring uint8 = 1 << 0
	CtrlMotor     uint8 = 1 << 1 // internal polarity: 1 means active
	CtrlReadWrite uint8 = 1 << 2 // 1 = read, 0 = write
	CtrlCRC       uint8 = 1 << 4
	CtrlTransfer  uint8 = 1 << 6
	CtrlIRQ       uint8 = 1 << 7
)

// Status register bits ($4030).
const (
	StatusIRQ      uint8 = 1 << 0
	StatusTransfer uint8 = 1 << 1
	StatusCRC      uint8 = 1 << 4
	StatusEOF      uint8 = 1 << 6
)

// Drive status register bits ($4032).
const (
	DriveInserted  uint8 = 1 << 0
	DriveReady     uint8 = 1 << 1
	DriveProtected uint8 = 1 << 2
)

// ByteReadyCycles is the CPU-cycle delay between successive byte-ready
// events on the drive head; hardware-derived, preserved as a named constant rather than
// re-derived (open question, see DESIGN.md).
const ByteReadyCycles = 150

// Drive is the FDS disk drive state machine. It owns no
// CPU-scheduling primitives of its own; the bus collaborator calls Tick
// with elapsed CPU cycles and polls IRQPending.
type Drive struct {
	image    *Image
	side     int
	inserted bool

	control uint8
	status  uint8
	drive   uint8

	readBuffer  uint8
	writeBuffer uint8

	gapCovered bool
	crc        uint16
	headOffset int

	nextClock         int64
	scheduled         bool
	irqAsserted       bool

	dirty           bool
	modifiedOffsets []int
}

// NewDrive returns an ejected drive with no image loaded.
func NewDrive() *Drive {
	return &Drive{nextClock: -1}
}

// InsertImage loads a disk image and selects its first side.
func (d *Drive) InsertImage(img *Image) {
	d.image = img
	d.side = 0
	d.inserted = true
	d.drive = DriveInserted
	d.resetHead()
}

// Eject removes the currently inserted image.
func (d *Drive) Eject() {
	d.inserted = false
	d.image = nil
	d.drive = 0
}

// SelectSide switches to a different side of the inserted image without
// ejecting it (the auto-eject heuristic and the host UI both drive
// this).
func (d *Drive) SelectSide(side int) {
	if d.image == nil || side < 0 || side >= len(d.image.Sides) {
		return
	}
	d.side = side
	d.resetHead()
}

func (d *Drive) resetHead() {
	d.headOffset = 0
	d.gapCovered = false
	d.crc = 0
	d.nextClock = -1
	d.scheduled = false
	d.status &^= StatusEOF
}

func (d *Drive) currentSide() *Side {
	if d.image == nil || d.side < 0 || d.side >= len(d.image.Sides) {
		return nil
	}
	return d.image.Sides[d.side]
}

// WriteControl handles a CPU write to $4025. Bit 0 mirroring is
// reported via Mirroring() for the bus collaborator to apply; the rest
// of the bits drive the drive's own state machine.
func (d *Drive) WriteControl(value uint8) {
	d.control = value
	if d.control&CtrlMotor == 0 || d.control&(CtrlReadWrite|CtrlTransfer) == 0 {
		d.nextClock = -1
		d.scheduled = false
	} else if !d.scheduled {
		d.nextClock = ByteReadyCycles
		d.scheduled = true
	}
}

// WriteData handles a CPU write to $4024 (the write-data register),
// staging a byte for the write path.
func (d *Drive) WriteData(value uint8) {
	d.writeBuffer = value
}

// ReadData handles a CPU read of $4031 (the read-data register),
// returning the latched byte and clearing the transfer-ready status
// bit so the next byte can be requested.
func (d *Drive) ReadData() uint8 {
	d.status &^= StatusTransfer
	return d.readBuffer
}

// Mirroring reports the mirroring-select bit from the control
// register; horizontal when clear.
func (d *Drive) Mirroring() (vertical bool) { return d.control&CtrlMirroring != 0 }

// ReadStatus handles a CPU read of $4030 and clears the IRQ status bit.
func (d *Drive) ReadStatus() uint8 {
	v := d.status
	d.status &^= StatusIRQ
	d.irqAsserted = false
	return v
}

// ReadDriveStatus handles a CPU read of $4032.
func (d *Drive) ReadDriveStatus() uint8 {
	if !d.inserted {
		return DriveProtected
	}
	return d.drive
}

// IRQPending reports whether the drive currently wants to assert the
// FDS IRQ line.
func (d *Drive) IRQPending() bool { return d.irqAsserted }

// Tick advances the drive state machine by cpuCycles, performing the
// scheduled read or write byte transfer when the 150-cycle deadline
// elapses.
func (d *Drive) Tick(cpuCycles int64) {
	if !d.scheduled || d.nextClock < 0 {
		return
	}
	d.nextClock -= cpuCycles
	for d.nextClock <= 0 {
		if d.control&CtrlReadWrite != 0 {
			d.readByte()
		} else {
			d.writeByte()
		}
		if !d.scheduled {
			return
		}
		d.nextClock += ByteReadyCycles
	}
}

// readByte advances the head by one byte on the read path.
func (d *Drive) readByte() {
	side := d.currentSide()
	if side == nil {
		return
	}
	if d.control&CtrlTransfer == 0 {
		return
	}
	if !d.gapCovered {
		for d.headOffset < len(side.Data) && side.Data[d.headOffset] == 0 {
			d.headOffset++
		}
		if d.headOffset >= len(side.Data) {
			d.endOfSide()
			return
		}
		d.gapCovered = true
		d.crc = 0
		d.headOffset++ // consume the start mark itself
	}
	if d.headOffset >= len(side.Data) {
		d.endOfSide()
		return
	}
	b := side.Data[d.headOffset]
	d.headOffset++
	d.crc = crcStep(d.crc, b)
	d.readBuffer = b
	d.status |= StatusTransfer
	if d.control&CtrlIRQ != 0 {
		d.status |= StatusIRQ
		d.irqAsserted = true
	}
}

func (d *Drive) endOfSide() {
	d.status |= StatusEOF
	d.scheduled = false
}

// writeByte advances the head by one byte on the write path:
// symmetric to readByte, either committing writeBuffer or, when CRC
// transfer is enabled, emitting the accumulated CRC's two bytes
// instead.
func (d *Drive) writeByte() {
	side := d.currentSide()
	if side == nil {
		return
	}
	if d.control&CtrlTransfer == 0 {
		return
	}
	if d.headOffset >= len(side.Data) {
		d.endOfSide()
		return
	}
	if d.control&CtrlCRC != 0 {
		lo := uint8(d.crc & 0xFF)
		hi := uint8(d.crc >> 8)
		side.Data[d.headOffset] = lo
		d.markDirty(d.headOffset)
		d.headOffset++
		if d.headOffset < len(side.Data) {
			side.Data[d.headOffset] = hi
			d.markDirty(d.headOffset)
			d.headOffset++
		}
		return
	}
	side.Data[d.headOffset] = d.writeBuffer
	d.crc = crcStep(d.crc, d.writeBuffer)
	d.markDirty(d.headOffset)
	d.headOffset++
	d.status |= StatusTransfer
	if d.control&CtrlIRQ != 0 {
		d.status |= StatusIRQ
		d.irqAsserted = true
	}
}

func (d *Drive) markDirty(offset int) {
	d.dirty = true
	d.modifiedOffsets = append(d.modifiedOffsets, offset)
}

// Dirty reports whether any write has occurred since the last flush,
// and ModifiedOffsets/ClearDirty let the persistence layer collect and
// reset that state.
func (d *Drive) Dirty() bool           { return d.dirty }
func (d *Drive) ModifiedOffsets() []int { return d.modifiedOffsets }
func (d *Drive) ClearDirty() {
	d.dirty = false
	d.modifiedOffsets = nil
}

// crc accumulates bytes with the FDS's CCITT-derived polynomial: the
// well-known FDS disk CRC, reused verbatim by every cxNES-derived
// emulator since it's part of the on-disk format, not an
// implementation choice.
func crcStep(crc uint16, b uint8) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ 0x8408
		} else {
			crc >>= 1
		}
	}
	return crc
}
