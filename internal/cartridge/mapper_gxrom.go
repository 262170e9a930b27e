package cartridge

// GxROM/MxROM (mapper 66). Grounded on cxNES's simultaneous-PRG-and-CHR
// select boards: one register byte selects both a 32K PRG bank (bits
// 4-5) and an 8K CHR bank (bits 0-1); bus-conflict sensitive.
type gxromBoard struct {
	BaseBoard
}

func newGxROM(c *Cartridge) Board { return &gxromBoard{} }

func (b *gxromBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *gxromBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.sync(c, 0)
}

func (b *gxromBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.sync(c, value)
}

func (b *gxromBoard) sync(c *Cartridge, value uint8) {
	numPRG := uint32(c.PRGROM.Size()) / uint32(Window32K)
	numCHR := uint32(c.CHRROM.Size()) / uint32(Window8K)
	if numPRG == 0 {
		numPRG = 1
	}
	if numCHR == 0 {
		numCHR = 1
	}
	c.PRGDescriptors[1] = BankDescriptor{Bank: uint32((value>>4)&0x03) % numPRG, Size: Window32K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.CHR0[0] = BankDescriptor{Bank: uint32(value&0x03) % numCHR, Size: Window8K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
	c.SyncPRG()
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 66, Name: "GxROM", MapperName: "MHROM",
		InitPRG: stdPRG32K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window32K) * 4, MaxCHRSize: int(Window8K) * 4,
		Flags:    FlagBusConflict,
		NewBoard: newGxROM,
	})
}
