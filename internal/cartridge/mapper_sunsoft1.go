package cartridge

// Sunsoft-1 (mapper 184). Grounded on cxNES boards/sunsoft1.c: CHR-only
// board, no PRG banking (fixed 32K). One register byte's low nibble
// selects a 4K bank for $0000-$0FFF and the high nibble selects a fixed
// 4K bank for $1000-$1FFF — both windows stay within the same 32K CHR
// bank, so the high nibble is masked down before use.
type sunsoft1Board struct {
	BaseBoard
	lo, hi uint8
}

func newSunsoft1(c *Cartridge) Board { return &sunsoft1Board{} }

func (b *sunsoft1Board) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x6000, Size: 0x2000}}
}

func (b *sunsoft1Board) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.lo, b.hi = 0, 1
	b.sync(c)
}

func (b *sunsoft1Board) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.lo = value & 0x07
	b.hi = (value >> 4) & 0x07
	b.sync(c)
}

func (b *sunsoft1Board) sync(c *Cartridge) {
	numBanks := uint32(c.CHRROM.Size()) / uint32(Window4K)
	if numBanks == 0 {
		numBanks = 1
	}
	c.CHR0[0] = BankDescriptor{Bank: uint32(b.lo) % numBanks, Size: Window4K, Address: 0x0000, Perm: PermRead, Kind: KindROM}
	c.CHR0[1] = BankDescriptor{Bank: uint32(b.hi) % numBanks, Size: Window4K, Address: 0x1000, Perm: PermRead, Kind: KindROM}
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 184, Name: "Sunsoft-1", MapperName: "Sunsoft-1",
		InitPRG: stdPRG32K(), InitCHR0: stdCHR4K(),
		MaxPRGSize: int(Window32K), MaxCHRSize: int(Window4K) * 8,
		NewBoard: newSunsoft1,
	})
}
