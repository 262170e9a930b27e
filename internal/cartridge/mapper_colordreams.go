package cartridge

// Color Dreams (mapper 11). Grounded on cxNES boards/colordreams.c: one
// register byte with independent PRG (bits 0-1) and CHR (bits 4-7)
// fields, no bus-conflict hardware (unlike GxROM's similar layout).
type colorDreamsBoard struct {
	BaseBoard
}

func newColorDreams(c *Cartridge) Board { return &colorDreamsBoard{} }

func (b *colorDreamsBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *colorDreamsBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.sync(c, 0)
}

func (b *colorDreamsBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.sync(c, value)
}

func (b *colorDreamsBoard) sync(c *Cartridge, value uint8) {
	numPRG := uint32(c.PRGROM.Size()) / uint32(Window32K)
	numCHR := uint32(c.CHRROM.Size()) / uint32(Window8K)
	if numPRG == 0 {
		numPRG = 1
	}
	if numCHR == 0 {
		numCHR = 1
	}
	c.PRGDescriptors[1] = BankDescriptor{Bank: uint32(value&0x03) % numPRG, Size: Window32K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.CHR0[0] = BankDescriptor{Bank: uint32(value>>4) % numCHR, Size: Window8K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
	c.SyncPRG()
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 11, Name: "Color Dreams", MapperName: "Color Dreams",
		InitPRG: stdPRG32K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window32K) * 4, MaxCHRSize: int(Window8K) * 16,
		NewBoard: newColorDreams,
	})
}
