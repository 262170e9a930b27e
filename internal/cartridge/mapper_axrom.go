package cartridge

// AxROM (mapper 7). Grounded on cxNES's single-register-selects-
// everything boards (boards/74x139_74.c family): one write selects both
// the 32K PRG bank and single-screen mirroring bank, CHR is always RAM.
type axromBoard struct {
	BaseBoard
}

func newAxROM(c *Cartridge) Board { return &axromBoard{} }

func (b *axromBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *axromBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.sync(c, 0)
}

func (b *axromBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.sync(c, value)
}

func (b *axromBoard) sync(c *Cartridge, value uint8) {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window32K)
	if numBanks == 0 {
		numBanks = 1
	}
	c.PRGDescriptors[1] = BankDescriptor{Bank: uint32(value&0x07) % numBanks, Size: Window32K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.SyncPRG()
	if value&0x10 != 0 {
		c.ApplyMirroring(MirrorSingleB)
	} else {
		c.ApplyMirroring(MirrorSingleA)
	}
}

func init() {
	register(&RegistryEntry{
		BoardType: 7, Name: "AxROM", MapperName: "AxROM",
		InitPRG: stdPRG32K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window32K) * 8, MaxCHRSize: int(Window8K),
		Flags:    FlagMirrorMapperControlled,
		NewBoard: newAxROM,
	})
}
