package cartridge

// UxROM (mapper 2). Grounded on cxNES boards/uxrom.c: a single
// switchable 16K window at $8000, fixed last 16K at $C000, CHR is
// always RAM. Some UxROM boards have bus-conflict hardware; that's
// expressed via FlagBusConflict on the registry entry rather than in
// this board, since bus-conflict ANDing is applied generically by
// Cartridge.WritePRG.
type uxromBoard struct {
	BaseBoard
	bank uint8
}

func newUxROM(c *Cartridge) Board { return &uxromBoard{} }

func (b *uxromBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *uxromBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.bank = 0
	b.sync(c)
}

func (b *uxromBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.bank = value
	b.sync(c)
}

func (b *uxromBoard) sync(c *Cartridge) {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window16K)
	bank := uint32(b.bank) % numBanks
	c.PRGDescriptors[1] = BankDescriptor{Bank: bank, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[2] = BankDescriptor{Bank: numBanks - 1, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	c.SyncPRG()
}

func init() {
	register(&RegistryEntry{
		BoardType: 2, Name: "UxROM", MapperName: "UxROM",
		InitPRG: stdPRG16K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window16K) * 16, MaxCHRSize: int(Window8K),
		Flags:      FlagBusConflict,
		NewBoard:   newUxROM,
	})
}
