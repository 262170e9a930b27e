package bus

import (
	"gones/internal/cpu"
	"gones/internal/fds"
	"gones/internal/memory"
)

// LoadFDS loads a Famicom Disk System image in place of a cartridge.
// biosROM is the 8KB disk-system boot ROM dump ($E000-$FFFF); callers
// that don't have one can pass nil and the BIOS call-site patches below
// stand in for its disk-load routines, but no code exists below $E000
// to jump to, so nothing will run without a real dump.
func (b *Bus) LoadFDS(data []byte, biosROM []byte) error {
	img, err := fds.LoadFile(data)
	if err != nil {
		return err
	}

	drive := fds.NewDrive()
	drive.InsertImage(img)

	cart := &fdsCartridge{bios: biosROM}

	b.FDS = drive
	b.FDSImage = img
	b.FDSPatches = fds.NewPatchTable(true)
	b.FDSEjector = fds.NewAutoEjector(true)
	b.Cartridge = nil
	b.setupPeripherals()

	b.Memory = memory.New(b.PPU, b.APU, cart)
	b.Memory.SetInputSystem(&hubMemoryAdapter{hub: b.Input})
	b.Memory.SetFDSSystem(&fdsMemoryAdapter{drive: drive})
	b.CPU = cpu.New(b.Memory)

	mirrorMode := memory.MirrorHorizontal
	if drive.Mirroring() {
		mirrorMode = memory.MirrorVertical
	}
	ppuMemory := memory.NewPPUMemory(cart, mirrorMode)
	b.PPU.SetMemory(ppuMemory)

	b.PPU.SetNMICallback(b.triggerNMI)
	b.PPU.SetA12Callback(b.notifyA12Rising)
	b.Memory.SetDMACallback(b.TriggerOAMDMA)

	b.CPU.Reset()
	return nil
}

// EjectFDS removes the currently inserted disk, if any.
func (b *Bus) EjectFDS() {
	if b.FDS != nil {
		b.FDS.Eject()
	}
}

// SelectFDSSide switches the inserted disk to a different side.
func (b *Bus) SelectFDSSide(side int) {
	if b.FDS != nil {
		b.FDS.SelectSide(side)
	}
}

// fdsCartridge satisfies memory.CartridgeInterface for a loaded FDS
// image: 32KB of battery-backed RAM at $6000-$DFFF (the BIOS loads disk
// contents here), an 8KB BIOS ROM at $E000-$FFFF, and 8KB of CHR-RAM
// (the disk system has no CHR-ROM chip).
type fdsCartridge struct {
	wram [0x8000]uint8
	bios []byte
	chr  [0x2000]uint8
}

func (c *fdsCartridge) ReadPRG(address uint16) uint8 {
	switch {
	case address < 0x6000:
		return 0
	case address < 0xE000:
		return c.wram[address-0x6000]
	default:
		off := int(address) - 0xE000
		if c.bios == nil || off >= len(c.bios) {
			return 0
		}
		return c.bios[off]
	}
}

func (c *fdsCartridge) WritePRG(address uint16, value uint8) {
	if address >= 0x6000 && address < 0xE000 {
		c.wram[address-0x6000] = value
	}
}

func (c *fdsCartridge) ReadCHR(address uint16) uint8          { return c.chr[address&0x1FFF] }
func (c *fdsCartridge) WriteCHR(address uint16, value uint8) { c.chr[address&0x1FFF] = value }

// fdsMemoryAdapter satisfies memory.FDSInterface by dispatching the
// disk-system registers the drive implements ($4024/$4025 writes,
// $4030-$4032 reads) to it.
type fdsMemoryAdapter struct{ drive *fds.Drive }

func (a *fdsMemoryAdapter) Read(address uint16) uint8 {
	switch address {
	case 0x4030:
		return a.drive.ReadStatus()
	case 0x4031:
		return a.drive.ReadData()
	case 0x4032:
		return a.drive.ReadDriveStatus()
	}
	return 0
}

func (a *fdsMemoryAdapter) Write(address uint16, value uint8) {
	switch address {
	case 0x4024:
		a.drive.WriteData(value)
	case 0x4025:
		a.drive.WriteControl(value)
	}
}

// fdsCPUAdapter satisfies fds.CPU by delegating to the real CPU's
// register accessors. It is only ever constructed at the exact point
// Bus.Step fetches the next opcode, so IsOpcodeFetch is unconditionally
// true.
type fdsCPUAdapter struct{ cpu *cpu.CPU }

func (a *fdsCPUAdapter) A() uint8                        { return a.cpu.GetA() }
func (a *fdsCPUAdapter) SetA(v uint8)                     { a.cpu.SetAReg(v) }
func (a *fdsCPUAdapter) X() uint8                         { return a.cpu.GetX() }
func (a *fdsCPUAdapter) SetX(v uint8)                     { a.cpu.SetXReg(v) }
func (a *fdsCPUAdapter) ZeroPage(addr uint8) uint8        { return a.cpu.ZeroPage(addr) }
func (a *fdsCPUAdapter) SetZeroPage(addr uint8, v uint8)  { a.cpu.SetZeroPage(addr, v) }
func (a *fdsCPUAdapter) PC() uint16                       { return a.cpu.GetPC() }
func (a *fdsCPUAdapter) SetPC(v uint16)                   { a.cpu.SetPCReg(v) }
func (a *fdsCPUAdapter) IsOpcodeFetch() bool              { return true }
