package cartridge

// nsfBoard is the synthetic bankswitch board LoadNSF installs: eight 4K
// PRG windows covering $8000-$FFFF, each independently switchable via a
// write to $5FF8-$5FFF (window i <- $5FF8+i), grounded on cxNES's
// boards/inlnsf.c synthetic-bank-table board. The initial bank values
// come from the song table LoadNSF writes into c.Scratch[:8].
type nsfBoard struct {
	BaseBoard
	banks [8]uint8
}

func newNSFBoard(c *Cartridge) Board { return &nsfBoard{} }

func (b *nsfBoard) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x5FF8, Size: 0x0008}}
}

func (b *nsfBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	copy(b.banks[:], c.Scratch[:8])
	b.sync(c)
}

func (b *nsfBoard) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	b.banks[addr&0x07] = value
	b.sync(c)
}

func (b *nsfBoard) sync(c *Cartridge) {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window4K)
	if numBanks == 0 {
		numBanks = 1
	}
	for i := 0; i < 8; i++ {
		c.PRGDescriptors[i] = BankDescriptor{
			Bank: uint32(b.banks[i]) % numBanks, Size: Window4K,
			Address: 0x8000 + uint16(i)*0x1000, Perm: PermReadWrite, Kind: KindWRAM0,
		}
	}
	c.SyncPRG()
}

func init() {
	register(&RegistryEntry{
		BoardType: nsfBoardType, Name: "NSF", MapperName: "NSF bankswitch",
		MaxPRGSize: int(Window4K) * 256, MaxCHRSize: int(Window8K),
		NewBoard: newNSFBoard,
	})
}
