package cartridge

// NROM (mapper 0): no bank switching. PRG is either 16K (mirrored
// across both $8000 and $C000 windows) or 32K (direct mapped); CHR is
// 8K ROM or RAM.
type nromBoard struct {
	BaseBoard
}

func newNROM(c *Cartridge) Board { return &nromBoard{} }

func (b *nromBoard) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	numBanks := c.PRGROM.Size() / int(Window16K)
	if numBanks <= 1 {
		// 16K ROM: both windows alias the same bank, mirrored to fill
		// the 32K space.
		c.PRGDescriptors[1] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	} else {
		c.PRGDescriptors[1] = BankDescriptor{Bank: 0, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
		c.PRGDescriptors[2] = BankDescriptor{Bank: 1, Size: Window16K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	}
}

func init() {
	register(&RegistryEntry{
		BoardType: 0, Name: "NROM", MapperName: "NROM",
		InitPRG: stdPRG16K(), InitCHR0: stdCHR8K(),
		MaxPRGSize: int(Window32K), MaxCHRSize: int(Window8K),
		MaxWRAMSize: [2]int{int(Window8K), 0},
		NewBoard:    newNROM,
	})
}
