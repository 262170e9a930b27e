package cartridge

// CNROM (mapper 3). Grounded on cxNES boards/cnrom.c: fixed 32K PRG, a
// single switchable 8K CHR-ROM bank, bus-conflict sensitive.
type cnromBoard struct {
	BaseBoard
	bank uint8
}

func newCNROM(c *Cartridge) Board { return &cnromBoard{} }

func (b *cnromBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *cnromBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.bank = 0
	b.sync(c)
}

func (b *cnromBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.bank = value & 0x03
	b.sync(c)
}

func (b *cnromBoard) sync(c *Cartridge) {
	numBanks := uint32(c.CHRROM.Size()) / uint32(Window8K)
	if numBanks == 0 {
		numBanks = 1
	}
	c.CHR0[0] = BankDescriptor{Bank: uint32(b.bank) % numBanks, Size: Window8K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 3, Name: "CNROM", MapperName: "CNROM",
		InitPRG: stdPRG32K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window32K), MaxCHRSize: int(Window8K) * 4,
		Flags:    FlagBusConflict,
		NewBoard: newCNROM,
	})
}
