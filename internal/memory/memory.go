// Package memory implements memory management and mappers for the NES.
package memory

import "fmt"

// Memory represents the NES memory map
type Memory struct {
	// Internal RAM (2KB, mirrored to 8KB)
	ram [0x800]uint8

	// PPU registers (mirrored)
	ppuRegisters PPUInterface

	// APU and I/O registers
	apuRegisters APUInterface

	// Input system
	inputSystem InputInterface

	// Cartridge
	cartridge CartridgeInterface

	// FDS disk-system registers; nil unless a Famicom Disk System image
	// is loaded in place of a cartridge
	fdsSystem FDSInterface

	// DMA callback
	dmaCallback func(uint8)
	
	// Open bus - last value read from bus (for unmapped areas)
	openBusValue uint8
}

// PPUMemory represents the PPU's memory space for testing
type PPUMemory struct {
	vram       [0x1000]uint8 // 4KB VRAM (nametables)
	paletteRAM [32]uint8     // 32 bytes palette RAM
	cartridge  CartridgeInterface
	mirroring  MirrorMode
	
	// Debug counters for palette analysis
	debugFrameCount uint64
	debugWriteCount uint64
	debugCount      int
}

// MirrorMode represents nametable mirroring mode
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// PPUInterface defines the interface for PPU register access
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface defines the interface for APU register access
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface defines the interface for input system access
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface defines the interface for cartridge access
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// FDSInterface defines the interface for Famicom Disk System register
// access ($4024/$4025 writes, $4030-$4032 reads).
type FDSInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// New creates a new Memory instance
func New(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *Memory {
	mem := &Memory{
		ppuRegisters: ppu,
		apuRegisters: apu,
		cartridge:    cart,
	}
	
	// Initialize RAM with realistic power-up patterns
	// Real NES RAM has semi-random patterns on power-up, not all zeros
	mem.initializePowerUpRAM()
	
	return mem
}

// SetInputSystem sets the input system for controller access
func (m *Memory) SetInputSystem(input InputInterface) {
	m.inputSystem = input
}

// SetFDSSystem installs the FDS disk-register dispatch target, or clears
// it (nil) when no disk system is active.
func (m *Memory) SetFDSSystem(fds FDSInterface) {
	m.fdsSystem = fds
}

// SetDMACallback sets the DMA callback function
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// initializePowerUpRAM initializes RAM with realistic power-up patterns
// Real NES RAM contains semi-random patterns on power-up, not all zeros
func (m *Memory) initializePowerUpRAM() {
	// Pattern based on real NES power-up observations
	// Common patterns include:
	// - $00 and $FF alternating regions
	// - Some completely $00 regions
	// - Some completely $FF regions
	// - Checkerboard patterns in some areas
	
	// For SMB compatibility, use a pattern that's been observed to work
	// This specific pattern is based on hardware measurements
	for i := 0; i < 0x800; i++ {
		switch {
		case i < 0x100:
			// First page: alternating $00/$FF pattern
			if i%2 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		case i < 0x200:
			// Second page: mostly $00 with some $FF
			if i%16 < 2 {
				m.ram[i] = 0xFF
			} else {
				m.ram[i] = 0x00
			}
		case i < 0x300:
			// Third page: checkerboard pattern
			if (i/8)%2 == (i%8)/4 {
				m.ram[i] = 0xAA
			} else {
				m.ram[i] = 0x55
			}
		case i < 0x400:
			// Fourth page: mostly $FF
			if i%8 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		default:
			// Remaining pages: mixed pattern
			// This mimics the semi-random nature of uninitialized RAM
			switch i % 4 {
			case 0:
				m.ram[i] = 0x00
			case 1:
				m.ram[i] = 0xFF
			case 2:
				m.ram[i] = 0xAA
			case 3:
				m.ram[i] = 0x55
			}
		}
	}
}

// Read reads a byte from the given address
func (m *Memory) Read(address uint16) uint8 {
	var value uint8
	
	switch {
	case address < 0x2000:
		// Internal RAM (mirrored)
		realAddr := address & 0x07FF
		value = m.ram[realAddr]

	case address < 0x4000:
		// PPU registers (mirrored every 8 bytes)
		value = m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))

	case address < 0x4020:
		// APU and I/O registers
		if address == 0x4015 {
			// APU status register
			value = m.apuRegisters.ReadStatus()
		} else if address == 0x4016 || address == 0x4017 {
			// Controller registers
			if m.inputSystem != nil {
				value = m.inputSystem.Read(address)
				// Debug log for controller reads (disabled for performance - uncomment if needed for debugging)
				// fmt.Printf("[MEMORY_DEBUG] Controller read $%04X = $%02X\n", address, value)
			} else {
				// fmt.Printf("[MEMORY_DEBUG] Controller read $%04X = $00 (no input system)\n", address)
				value = 0
			}
		} else {
			// Other APU/I/O registers are write-only, return open bus
			value = m.openBusValue
		}

	case address >= 0x4030 && address <= 0x4032:
		// FDS disk-status/read-data/drive-status registers
		if m.fdsSystem != nil {
			value = m.fdsSystem.Read(address)
		} else {
			value = m.openBusValue
		}

	case address >= 0x6000 && address < 0x8000:
		// PRG RAM/SRAM ($6000-$7FFF)
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			// No cartridge RAM, return open bus
			value = m.openBusValue
		}

	case address < 0x8000:
		// Cartridge expansion area ($4020-$5FFF) - unmapped, return open bus
		value = m.openBusValue

	default:
		// PRG ROM ($8000-$FFFF)
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			// No cartridge, return open bus
			value = m.openBusValue
		}
	}
	
	// Update open bus value with the value that was read
	// This simulates the NES behavior where the last value on the bus "lingers"
	m.openBusValue = value
	return value
}

// Write writes a byte to the given address
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		// Internal RAM (mirrored)
		realAddr := address & 0x07FF
		m.ram[realAddr] = value
		

	case address < 0x4000:
		// PPU registers (mirrored every 8 bytes)
		m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)

	case address < 0x4020:
		// APU and I/O registers
		if address == 0x4014 {
			// OAM DMA - trigger through callback if available
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			} else {
				// Fallback to immediate DMA (for compatibility)
				m.performOAMDMA(value)
			}
		} else if address == 0x4016 {
			// Controller strobe register
			if m.inputSystem != nil {
				// Debug logging for controller writes (disabled for performance - uncomment if needed for debugging)
				// fmt.Printf("[MEMORY_DEBUG] Controller write $%04X = $%02X (strobe=%t)\n", 
				// 	address, value, (value & 1) != 0)
				m.inputSystem.Write(address, value)
			} else {
				// fmt.Printf("[MEMORY_DEBUG] Controller write $%04X = $%02X (no input system)\n", address, value)
			}
		} else if address >= 0x4000 && address <= 0x4013 {
			// APU sound registers only (0x4000-0x4013)
			m.apuRegisters.WriteRegister(address, value)
		} else if address == 0x4015 {
			// APU status register
			m.apuRegisters.WriteRegister(address, value)
		} else if address == 0x4017 {
			// APU frame counter register
			m.apuRegisters.WriteRegister(address, value)
		}
		// Test mode registers ($4018-$401F) are ignored

	case address == 0x4024 || address == 0x4025:
		// FDS write-data/control registers
		if m.fdsSystem != nil {
			m.fdsSystem.Write(address, value)
		}

	case address >= 0x6000 && address < 0x8000:
		// PRG RAM/SRAM ($6000-$7FFF)
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}

	case address < 0x8000:
		// Cartridge expansion area ($4020-$5FFF) - unmapped, ignore writes

	default:
		// PRG ROM ($8000-$FFFF) (some mappers allow writes)
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}
	}
}

// performOAMDMA performs OAM DMA transfer
func (m *Memory) performOAMDMA(page uint8) {
	// Copy 256 bytes from CPU page to OAM
	baseAddress := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		value := m.Read(baseAddress + i)
		m.ppuRegisters.WriteRegister(0x2004, value)
	}
}

// NewPPUMemory creates a new PPU memory instance
func NewPPUMemory(cart CartridgeInterface, mirroring MirrorMode) *PPUMemory {
	mem := &PPUMemory{
		cartridge: cart,
		mirroring: mirroring,
	}
	
	// Initialize palette RAM with proper default values
	// Background color positions (0x00, 0x04, 0x08, 0x0C) should be black (0x0F)
	for i := 0; i < 32; i += 4 {
		mem.paletteRAM[i] = 0x0F // Black background color
	}
	
	return mem
}

// Read reads from PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF // Mask to 14-bit address space

	switch {
	case address < 0x2000:
		// Pattern Tables ($0000-$1FFF) - CHR ROM/RAM
		return pm.cartridge.ReadCHR(address)

	case address < 0x3000:
		// Nametables ($2000-$2FFF)
		return pm.readNametable(address)

	case address < 0x3F00:
		// Nametable mirrors ($3000-$3EFF)
		return pm.readNametable(address - 0x1000)

	case address < 0x3F20:
		// Palette RAM ($3F00-$3F1F)
		return pm.readPalette(address)

	default:
		// Palette RAM mirrors ($3F20-$3FFF)
		return pm.readPalette(address)
	}
}

// Write writes to PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF // Mask to 14-bit address space

	switch {
	case address < 0x2000:
		// Pattern Tables ($0000-$1FFF) - CHR ROM/RAM
		pm.cartridge.WriteCHR(address, value)

	case address < 0x3000:
		// Nametables ($2000-$2FFF)
		pm.writeNametable(address, value)

	case address < 0x3F00:
		// Nametable mirrors ($3000-$3EFF)
		pm.writeNametable(address-0x1000, value)

	case address < 0x3F20:
		// Palette RAM ($3F00-$3F1F)
		pm.writePalette(address, value)

	default:
		// Palette RAM mirrors ($3F20-$3FFF)
		pm.writePalette(address, value)
	}
}

// readNametable reads from nametable with mirroring
func (pm *PPUMemory) readNametable(address uint16) uint8 {
	index := pm.getNametableIndex(address)
	return pm.vram[index]
}

// writeNametable writes to nametable with mirroring
func (pm *PPUMemory) writeNametable(address uint16, value uint8) {
	index := pm.getNametableIndex(address)
	pm.vram[index] = value
}

// getNametableIndex calculates the actual VRAM index based on mirroring mode
func (pm *PPUMemory) getNametableIndex(address uint16) uint16 {
	address &= 0x0FFF                // Keep only nametable bits
	nametable := (address >> 10) & 3 // Which nametable (0-3)
	offset := address & 0x3FF        // Offset within nametable

	switch pm.mirroring {
	case MirrorHorizontal:
		// $2000-$23FF and $2400-$27FF map to first 1KB
		// $2800-$2BFF and $2C00-$2FFF map to second 1KB
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset

	case MirrorVertical:
		// $2000-$23FF and $2800-$2BFF map to first 1KB
		// $2400-$27FF and $2C00-$2FFF map to second 1KB
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset

	case MirrorSingleScreen0:
		// All nametables map to first 1KB
		return offset

	case MirrorSingleScreen1:
		// All nametables map to second 1KB
		return 0x400 + offset

	case MirrorFourScreen:
		// Each nametable has its own 1KB (requires 4KB VRAM)
		return uint16(nametable)*0x400 + offset

	default:
		return offset
	}
}

// readPalette reads from palette RAM with mirroring
func (pm *PPUMemory) readPalette(address uint16) uint8 {
	index := (address - 0x3F00) & 0x1F

	// Background color mirroring
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}

	value := pm.paletteRAM[index]
	
	// Debug palette reads
	if index == 6 && pm.debugCount < 10 {
		fmt.Printf("[PALETTE_READ_DEBUG] Read palette[%02X] = $%02X from addr $%04X\n", index, value, address)
		pm.debugCount++
	}
	
	return value
}

// writePalette writes to palette RAM with mirroring
func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	index := (address - 0x3F00) & 0x1F

	// Background color mirroring
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}

	pm.paletteRAM[index] = value
	
	// Reduced debug logging for palette writes
	if false && index <= 0x0F {
		fmt.Printf("[PALETTE_DEBUG] Frame %d: Palette write $%04X (index %d) = $%02X (bg color %d)\n", 
			pm.debugFrameCount, address, index, value, index)
	} else if false {
		fmt.Printf("[PALETTE_DEBUG] Frame %d: Palette write $%04X (index %d) = $%02X (sprite color %d)\n", 
			pm.debugFrameCount, address, index, value, index-16)
	}
	
	// Log full palette state every 600 writes for Super Mario Bros analysis
	pm.debugWriteCount++
	if pm.debugWriteCount%600 == 0 {
		fmt.Printf("[PALETTE_DUMP] Frame %d: Full palette state:\n", pm.debugFrameCount)
		for i := 0; i < 32; i++ {
			if i%8 == 0 {
				if i == 0 {
					fmt.Printf("  BG: ")
				} else if i == 16 {
					fmt.Printf("\n  SP: ")
				}
			}
			fmt.Printf("$%02X ", pm.paletteRAM[i])
		}
		fmt.Printf("\n")
	}
}
