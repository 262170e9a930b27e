package cartridge

// Camerica/Codemasters (mapper 71). Grounded on cxNES boards/camerica.c:
// UxROM-alike switchable 16K PRG at $8000 with a fixed last 16K at
// $C000, CHR is always RAM. The BF9097 variant additionally exposes a
// single-screen mirroring select at $9000-$9FFF, gated here by the
// FlagMirrorMapperControlled registry flag since most Camerica boards
// hardwire vertical mirroring instead.
type camericaBoard struct {
	BaseBoard
	bank uint8
}

func newCamerica(c *Cartridge) Board { return &camericaBoard{} }

func (b *camericaBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *camericaBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	b.bank = 0
	c.PRGDescriptors[2] = BankDescriptor{Bank: b.lastBank(c), Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	b.sync(c)
}

func (b *camericaBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	switch {
	case addr >= 0x9000 && addr < 0xA000 && c.registry.Flags&FlagMirrorMapperControlled != 0:
		if value&0x10 != 0 {
			c.ApplyMirroring(MirrorSingleB)
		} else {
			c.ApplyMirroring(MirrorSingleA)
		}
	case addr >= 0xC000:
		b.bank = value & 0x0F
		b.sync(c)
	}
}

func (b *camericaBoard) lastBank(c *Cartridge) uint32 {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window16K)
	if numBanks == 0 {
		return 0
	}
	return numBanks - 1
}

func (b *camericaBoard) sync(c *Cartridge) {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window16K)
	if numBanks == 0 {
		numBanks = 1
	}
	c.PRGDescriptors[1] = BankDescriptor{Bank: uint32(b.bank) % numBanks, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.SyncPRG()
}

func init() {
	register(&RegistryEntry{
		BoardType: 71, Name: "Camerica", MapperName: "Camerica/BF9097",
		InitPRG: stdPRG16K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window16K) * 16, MaxCHRSize: int(Window8K),
		NewBoard: newCamerica,
	})
}
