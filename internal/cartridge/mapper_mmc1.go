package cartridge

// MMC1 (mapper 1, SxROM/SNROM/SOROM/SUROM family). Grounded on cxNES
// boards/mmc1.c and cross-checked against
// other_examples/…meadori-vibemulator__cartridge-mmc1.go's shift-
// register protocol.
//
// Registers are loaded through a 5-write serial shift register; bit 0 of
// each write supplies the next bit (LSB first). Writing with bit 7 set
// resets the shift register and forces control into PRG mode 3.
//
// The shift register ignores a write if it lands on the CPU cycle
// immediately following the previous write.
const cpuClockDivider = 1

type mmc1Board struct {
	BaseBoard
	control       uint8
	chrBank0      uint8
	chrBank1      uint8
	prgBank       uint8
	shiftRegister uint8
	writeCount    uint8
	lastWriteCycle uint64
	haveLastWrite  bool
}

func newMMC1(c *Cartridge) Board { return &mmc1Board{} }

func (b *mmc1Board) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *mmc1Board) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.control = 0x0C
	b.chrBank0, b.chrBank1, b.prgBank = 0, 0, 0
	b.shiftRegister, b.writeCount = 0, 0
	b.haveLastWrite = false
	b.syncPRG(c)
	b.syncCHR(c)
}

func (b *mmc1Board) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	if b.haveLastWrite && cycle-b.lastWriteCycle == cpuClockDivider {
		// Consecutive-cycle write (e.g. an RMW instruction's dummy
		// write): ignored per the open-question rule.
		b.lastWriteCycle = cycle
		return
	}
	b.lastWriteCycle = cycle
	b.haveLastWrite = true

	if value&0x80 != 0 {
		b.shiftRegister = 0
		b.writeCount = 0
		b.control |= 0x0C
		b.syncPRG(c)
		return
	}

	b.shiftRegister = (b.shiftRegister >> 1) | ((value & 1) << 4)
	b.writeCount++
	if b.writeCount < 5 {
		return
	}

	target := (addr >> 13) & 3
	v := b.shiftRegister
	b.shiftRegister, b.writeCount = 0, 0
	switch target {
	case 0:
		b.control = v
		c.ApplyMirroring([]Mirroring{MirrorSingleA, MirrorSingleB, MirrorVertical, MirrorHorizontal}[v&3])
		b.syncCHR(c)
		b.syncPRG(c)
	case 1:
		b.chrBank0 = v
		b.syncCHR(c)
	case 2:
		b.chrBank1 = v
		b.syncCHR(c)
	case 3:
		b.prgBank = v & 0x1F
		b.syncPRG(c)
	}
}

func (b *mmc1Board) syncPRG(c *Cartridge) {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window16K)
	prgMode := (b.control >> 2) & 3
	bank := uint32(b.prgBank)
	switch prgMode {
	case 0, 1:
		// 32K mode: ignore the low bit of the bank register.
		half := (bank &^ 1)
		c.PRGDescriptors[1] = BankDescriptor{Bank: half, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: half + 1, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	case 2:
		// Fixed first bank at $8000, switch 16K at $C000.
		c.PRGDescriptors[1] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: bank, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	case 3:
		// Switch 16K at $8000, fixed last bank at $C000.
		c.PRGDescriptors[1] = BankDescriptor{Bank: bank, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: numBanks - 1, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	}

	wramPerm := PermReadWrite
	if b.prgBank&0x10 != 0 && c.registry != nil && c.registry.MaxWRAMSize[1] > 0 {
		// SOROM/SUROM-style bit 4 selects the second WRAM chip.
		c.PRGDescriptors[0] = BankDescriptor{Size: Window8K, Address: 0x6000, Perm: wramPerm, Kind: KindWRAM1}
	} else {
		c.PRGDescriptors[0] = BankDescriptor{Size: Window8K, Address: 0x6000, Perm: wramPerm, Kind: KindWRAM0}
	}
	c.SyncPRG()
}

func (b *mmc1Board) syncCHR(c *Cartridge) {
	if b.control&0x10 == 0 {
		// 8K mode: low bit of chrBank0 selects the 8K pair.
		bank := uint32(b.chrBank0 >> 1)
		c.CHR0[0] = BankDescriptor{Bank: bank, Size: Window8K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
	} else {
		c.CHR0[0] = BankDescriptor{Bank: uint32(b.chrBank0), Size: Window4K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
		c.CHR0[1] = BankDescriptor{Bank: uint32(b.chrBank1), Size: Window4K, Address: 0x1000, Perm: PermReadWrite, Kind: KindAuto}
	}
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 1, Name: "SxROM", MapperName: "MMC1",
		InitPRG: stdPRG16K(), InitCHR0: stdCHR4K(),
		MaxPRGSize: int(Window16K) * 32, MaxCHRSize: int(Window4K) * 32,
		MaxWRAMSize: [2]int{int(Window8K), int(Window8K)},
		Flags:       FlagMirrorMapperControlled | FlagWRAMNonVolatile,
		NewBoard:    newMMC1,
	})
}
