package cartridge

// VS-Unisystem (arcade NROM variant). Grounded on cxNES boards/vs_
// unisystem.c: behaves like NROM for PRG/CHR banking, but additionally
// exposes the arcade cabinet's coin slots, service-credit switch and
// eight DIP switches through reads in the $4020-$40FF I/O window (the
// real hardware maps these below the APU/IO registers; modeled here as
// a board read handler layered over the standard cartridge space).
//
// Scratch[0] bit0/bit1 are the coin-1/coin-2 switches, bit2 is the
// service-credit switch; DIPSwitch holds the eight cabinet DIP bits.
type vsUnisystemBoard struct {
	BaseBoard
}

func newVSUnisystem(c *Cartridge) Board { return &vsUnisystemBoard{} }

func (b *vsUnisystemBoard) ReadHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x4020, Size: 0x00E0}}
}

func (b *vsUnisystemBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	numPRG := uint32(c.PRGROM.Size()) / uint32(Window16K)
	if numPRG >= 2 {
		c.PRGDescriptors[1] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: 1, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	} else {
		c.PRGDescriptors[1] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	}
	c.SyncPRG()
}

// SetCoinSwitch drives the coin-slot and service-credit inputs; slot is
// 0 or 1 for the two coin chutes, 2 for the service-credit switch.
func (b *vsUnisystemBoard) SetCoinSwitch(c *Cartridge, slot int, pressed bool) {
	mask := uint8(1) << uint(slot)
	if pressed {
		c.Scratch[0] |= mask
	} else {
		c.Scratch[0] &^= mask
	}
}

func (b *vsUnisystemBoard) HandleRead(c *Cartridge, addr uint16, passThrough uint8, cycle uint64) uint8 {
	switch addr {
	case 0x4020:
		return c.Scratch[0]
	case 0x4021:
		return c.DIPSwitch
	default:
		return passThrough
	}
}

func init() {
	register(&RegistryEntry{
		BoardType: 0xFF01, Name: "VS-Unisystem", MapperName: "VS-Unisystem",
		InitPRG: stdPRG16K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window16K) * 2, MaxCHRSize: int(Window8K),
		NewBoard: newVSUnisystem,
	})
}
