package cartridge

// Namco 108 (mapper 206). Grounded on cxNES boards/namco108.c, the
// bank-select-then-data protocol MMC3 itself specializes, but without
// any IRQ counter or PRG-RAM-protect register: $8000 selects one of
// eight bank registers, $8001 loads it, CHR registers 0-1 are 2K and
// registers 2-5 are 1K, PRG registers 6-7 are 8K.
type namco108Board struct {
	BaseBoard
	bankSelect uint8
	banks      [8]uint8
}

func newNamco108(c *Cartridge) Board { return &namco108Board{} }

func (b *namco108Board) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *namco108Board) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	*b = namco108Board{}
	last := b.lastBank(c)
	c.PRGDescriptors[2] = BankDescriptor{Bank: last - 1, Size: Window8K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[3] = BankDescriptor{Bank: last, Size: Window8K, Address: 0xE000, Perm: PermRead, Kind: KindROM}
	b.sync(c)
}

func (b *namco108Board) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	even := addr%2 == 0
	switch {
	case even:
		b.bankSelect = value & 0x07
	default:
		b.banks[b.bankSelect] = value
		b.sync(c)
	}
}

func (b *namco108Board) lastBank(c *Cartridge) uint32 {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window8K)
	if numBanks == 0 {
		return 0
	}
	return numBanks - 1
}

func (b *namco108Board) sync(c *Cartridge) {
	numPRGBanks := uint32(c.PRGROM.Size()) / uint32(Window8K)
	numCHRBanks := uint32(c.CHRROM.Size()) / uint32(Window1K)
	if numPRGBanks == 0 {
		numPRGBanks = 1
	}

	c.PRGDescriptors[0] = BankDescriptor{Bank: uint32(b.banks[6]) % numPRGBanks, Size: Window8K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[1] = BankDescriptor{Bank: uint32(b.banks[7]) % numPRGBanks, Size: Window8K, Address: 0xA000, Perm: PermRead, Kind: KindROM}
	c.SyncPRG()

	r := func(i int) uint32 {
		if numCHRBanks == 0 {
			return 0
		}
		return uint32(b.banks[i]) % numCHRBanks
	}
	c.CHR0[0] = BankDescriptor{Bank: r(0) &^ 1, Size: Window2K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
	c.CHR0[1] = BankDescriptor{Bank: r(1) &^ 1, Size: Window2K, Address: 0x0800, Perm: PermReadWrite, Kind: KindAuto}
	c.CHR0[2] = BankDescriptor{Bank: r(2), Size: Window1K, Address: 0x1000, Perm: PermReadWrite, Kind: KindAuto}
	c.CHR0[3] = BankDescriptor{Bank: r(3), Size: Window1K, Address: 0x1400, Perm: PermReadWrite, Kind: KindAuto}
	c.CHR0[4] = BankDescriptor{Bank: r(4), Size: Window1K, Address: 0x1800, Perm: PermReadWrite, Kind: KindAuto}
	c.CHR0[5] = BankDescriptor{Bank: r(5), Size: Window1K, Address: 0x1C00, Perm: PermReadWrite, Kind: KindAuto}
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 206, Name: "Namco 108", MapperName: "Namco 108",
		InitPRG: stdPRG8K4(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window8K) * 64, MaxCHRSize: int(Window1K) * 256,
		NewBoard: newNamco108,
	})
}
