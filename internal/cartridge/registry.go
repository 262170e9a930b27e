package cartridge

import "errors"

// Flags is a bitfield on a registry entry.
type Flags uint32

const (
	// FlagMirrorMapperControlled marks boards whose mirroring comes from
	// a lookup table indexed by bits of a register write rather than a
	// fixed iNES header value.
	FlagMirrorMapperControlled Flags = 1 << iota
	// FlagPRGUsesIPS marks boards whose PRG-RAM saves are stored as IPS
	// patches rather than full images.
	FlagPRGUsesIPS
	// FlagHasM2Timer marks boards with a CPU-clock IRQ counter.
	FlagHasM2Timer
	// FlagWRAMNonVolatile marks boards whose WRAM chip 0 is battery
	// backed.
	FlagWRAMNonVolatile
	// FlagBusConflict marks boards whose PRG-ROM bus hardware ANDs the
	// written value with the ROM byte at that address before decoding it.
	FlagBusConflict
)

// RegistryEntry is the immutable static definition of one cartridge
// board. At load, the entry for the detected board type is
// cloned into the cartridge's initial descriptor state.
type RegistryEntry struct {
	BoardType   uint16
	Name        string
	MapperName  string
	InitPRG     []BankDescriptor
	InitCHR0    []BankDescriptor
	InitCHR1    []BankDescriptor
	MirrorTable []Mirroring
	MirrorShift uint

	MinPRGSize, MaxPRGSize int
	MinCHRSize, MaxCHRSize int
	MinWRAMSize            [2]int
	MaxWRAMSize            [2]int

	Flags Flags

	NewBoard func(c *Cartridge) Board
}

var registry = map[uint16]*RegistryEntry{}

func register(e *RegistryEntry) {
	registry[e.BoardType] = e
}

// ErrUnsupportedMapper is returned when a ROM's detected board type has
// no registry entry.
var ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")

// Lookup returns the registry entry for a mapper/board number, or
// ErrUnsupportedMapper.
func Lookup(mapperID uint16) (*RegistryEntry, error) {
	e, ok := registry[mapperID]
	if !ok {
		return nil, ErrUnsupportedMapper
	}
	return e, nil
}

// stdPRG16K is the common "two switchable 16K windows" PRG template used
// by most non-bankswitched-at-$6000 boards.
// stdPRG16K is a template only; boards that fix the last 16K bank at
// $C000 set PRGDescriptors[2].Bank to numBanks-1 themselves during
// Reset(hard=true), once the loaded PRG-ROM size is known.
func stdPRG16K() []BankDescriptor {
	return []BankDescriptor{
		{Size: Window8K, Address: 0x6000, Perm: PermReadWrite, Kind: KindWRAM0},
		{Bank: 0, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM},
		{Bank: 0, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM},
	}
}

func stdPRG32K() []BankDescriptor {
	return []BankDescriptor{
		{Size: Window8K, Address: 0x6000, Perm: PermReadWrite, Kind: KindWRAM0},
		{Bank: 0, Size: Window32K, Address: 0x8000, Perm: PermRead, Kind: KindROM},
	}
}

// stdPRG8K4 is the "four independently switchable 8K windows" PRG
// template, used by boards like VRC1 that bank $8000/$A000/$C000/$E000
// separately (the last often fixed by the board itself at reset).
func stdPRG8K4() []BankDescriptor {
	return []BankDescriptor{
		{Bank: 0, Size: Window8K, Address: 0x8000, Perm: PermRead, Kind: KindROM},
		{Bank: 0, Size: Window8K, Address: 0xA000, Perm: PermRead, Kind: KindROM},
		{Bank: 0, Size: Window8K, Address: 0xC000, Perm: PermRead, Kind: KindROM},
		{Bank: 0, Size: Window8K, Address: 0xE000, Perm: PermRead, Kind: KindROM},
	}
}

func stdCHR8K() []BankDescriptor {
	return []BankDescriptor{
		{Bank: 0, Size: Window8K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto},
	}
}

func stdCHR4K() []BankDescriptor {
	return []BankDescriptor{
		{Bank: 0, Size: Window4K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto},
		{Bank: 1, Size: Window4K, Address: 0x1000, Perm: PermReadWrite, Kind: KindAuto},
	}
}

// applyEntry clones a registry entry's initial descriptors into a fresh
// cartridge and installs its board state machine.
func (c *Cartridge) applyEntry(e *RegistryEntry) {
	c.registry = e
	c.MapperID = e.BoardType
	c.BoardName = e.Name
	copy(c.PRGDescriptors[:], e.InitPRG)
	copy(c.CHR0[:], e.InitCHR0)
	copy(c.CHR1[:], e.InitCHR1)
	c.PRGAnd, c.CHRAnd, c.WRAMAnd = 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF
	if e.Flags&FlagMirrorMapperControlled != 0 {
		c.Mirror = MirrorMapperControlled
	}
	if e.NewBoard != nil {
		c.Board = e.NewBoard(c)
	}
}
