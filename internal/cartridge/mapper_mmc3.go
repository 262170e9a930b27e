package cartridge

// MMC3 (mapper 4, TxROM family). Grounded on cxNES boards/namco108.c
// (the bank-select-then-data protocol MMC3 specializes) plus cxNES
// boards/txrom.c's scanline IRQ counter, cross-checked against
// other_examples/…meadori-vibemulator__cartridge-mmc3.go for the
// bank-register-to-window mapping and
// other_examples/…dendy__ines-mapper007.go.go-style period-counter
// shape for the IRQ clocking.
//
// $8000 (even): bank-select register (low 3 bits select which of 8 bank
// registers the next $8001 write targets; bit 6 selects PRG mode, bit 7
// selects CHR mode).
// $8001 (odd): bank data for the selected register.
// $A000 (even): mirroring (bit 0).
// $A001 (odd): PRG-RAM enable/write-protect.
// $C000 (even): IRQ latch (reload value).
// $C001 (odd): IRQ reload (forces counter to reload on next clock).
// $E000 (even): IRQ disable + acknowledge.
// $E001 (odd): IRQ enable.
type mmc3Board struct {
	BaseBoard
	bankSelect uint8
	banks      [8]uint8
	prgMode    uint8
	chrMode    uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool

	lastA12 bool
}

func newMMC3(c *Cartridge) Board { return &mmc3Board{} }

func (b *mmc3Board) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *mmc3Board) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	*b = mmc3Board{}
	b.sync(c)
}

func (b *mmc3Board) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	even := addr%2 == 0
	switch {
	case addr < 0xA000 && even:
		b.bankSelect = value & 0x07
		b.prgMode = (value >> 6) & 1
		b.chrMode = (value >> 7) & 1
		b.sync(c)
	case addr < 0xA000:
		b.banks[b.bankSelect] = value
		b.sync(c)
	case addr < 0xC000 && even:
		if value&1 != 0 {
			c.ApplyMirroring(MirrorHorizontal)
		} else {
			c.ApplyMirroring(MirrorVertical)
		}
	case addr < 0xC000:
		// PRG-RAM enable/write-protect: not modeled beyond acceptance.
	case addr < 0xE000 && even:
		b.irqLatch = value
	case addr < 0xE000:
		b.irqReload = true
	case even:
		b.irqEnabled = false
		c.ClearIRQ(IRQLineScanline)
	default:
		b.irqEnabled = true
	}
}

// OnA12Rising clocks the scanline IRQ counter.
func (b *mmc3Board) OnA12Rising(c *Cartridge) {
	if b.irqCounter == 0 || b.irqReload {
		b.irqCounter = b.irqLatch
		b.irqReload = false
	} else {
		b.irqCounter--
	}
	if b.irqCounter == 0 && b.irqEnabled {
		c.AssertIRQ(IRQLineScanline)
	}
}

func (b *mmc3Board) sync(c *Cartridge) {
	numPRGBanks := uint32(c.PRGROM.Size()) / uint32(Window8K)
	numCHRBanks := uint32(c.CHRROM.Size()) / uint32(Window1K)

	fixed := numPRGBanks - 2
	r6, r7 := uint32(b.banks[6])%numPRGBanks, uint32(b.banks[7])%numPRGBanks
	if b.prgMode == 0 {
		c.PRGDescriptors[1] = BankDescriptor{Bank: r6, Size: Window8K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: fixed, Size: Window8K, Address: 0xA000, Perm: PermRead, Kind: KindROM}
	} else {
		c.PRGDescriptors[1] = BankDescriptor{Bank: fixed, Size: Window8K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: r6, Size: Window8K, Address: 0xA000, Perm: PermRead, Kind: KindROM}
	}
	c.PRGDescriptors[3] = BankDescriptor{Bank: r7, Size: Window8K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[4] = BankDescriptor{Bank: numPRGBanks - 1, Size: Window8K, Address: 0xE000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[0] = BankDescriptor{Size: Window8K, Address: 0x6000, Perm: PermReadWrite, Kind: KindWRAM0}
	c.SyncPRG()

	r := func(i int) uint32 {
		if numCHRBanks == 0 {
			return 0
		}
		return uint32(b.banks[i]) % numCHRBanks
	}
	var slots [6]BankDescriptor
	if b.chrMode == 0 {
		slots[0] = BankDescriptor{Bank: r(0) &^ 1, Size: Window2K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
		slots[1] = BankDescriptor{Bank: r(1) &^ 1, Size: Window2K, Address: 0x0800, Perm: PermReadWrite, Kind: KindAuto}
		slots[2] = BankDescriptor{Bank: r(2), Size: Window1K, Address: 0x1000, Perm: PermReadWrite, Kind: KindAuto}
		slots[3] = BankDescriptor{Bank: r(3), Size: Window1K, Address: 0x1400, Perm: PermReadWrite, Kind: KindAuto}
		slots[4] = BankDescriptor{Bank: r(4), Size: Window1K, Address: 0x1800, Perm: PermReadWrite, Kind: KindAuto}
		slots[5] = BankDescriptor{Bank: r(5), Size: Window1K, Address: 0x1C00, Perm: PermReadWrite, Kind: KindAuto}
	} else {
		slots[0] = BankDescriptor{Bank: r(2), Size: Window1K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
		slots[1] = BankDescriptor{Bank: r(3), Size: Window1K, Address: 0x0400, Perm: PermReadWrite, Kind: KindAuto}
		slots[2] = BankDescriptor{Bank: r(4), Size: Window1K, Address: 0x0800, Perm: PermReadWrite, Kind: KindAuto}
		slots[3] = BankDescriptor{Bank: r(5), Size: Window1K, Address: 0x0C00, Perm: PermReadWrite, Kind: KindAuto}
		slots[4] = BankDescriptor{Bank: r(0) &^ 1, Size: Window2K, Address: 0x1000, Perm: PermReadWrite, Kind: KindAuto}
		slots[5] = BankDescriptor{Bank: r(1) &^ 1, Size: Window2K, Address: 0x1800, Perm: PermReadWrite, Kind: KindAuto}
	}
	copy(c.CHR0[:], slots[:])
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 4, Name: "TxROM", MapperName: "MMC3",
		InitPRG: stdPRG16K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window8K) * 64, MaxCHRSize: int(Window1K) * 256,
		MaxWRAMSize: [2]int{int(Window8K), 0},
		Flags:       FlagWRAMNonVolatile,
		NewBoard:    newMMC3,
	})
}
