package cartridge

// Konami VRC1 (mapper 75). Grounded on cxNES boards/vrc1.c: three 8K PRG
// windows switchable independently via $8000/$9000/$A000, two 4K CHR
// banks switchable via $B000/$C000, with the mirroring select (bit 1)
// and the two CHR high bits (bits 2-3) folded into the $9000 PRG-select
// write (unlike later VRC boards which give mirroring its own register).
type vrc1Board struct {
	BaseBoard
	prg       [3]uint8
	chr       [2]uint8
	chrHiBits uint8
}

func newVRC1(c *Cartridge) Board { return &vrc1Board{} }

func (b *vrc1Board) WriteHandlers() []HandlerRange {
	return []HandlerRange{{Base: 0x8000, Size: 0x8000}}
}

func (b *vrc1Board) Reset(c *Cartridge, hard bool) {
	if !hard {
		return
	}
	*b = vrc1Board{}
	c.PRGDescriptors[3] = BankDescriptor{Bank: b.lastBank(c), Size: Window8K, Address: 0xE000, Perm: PermRead, Kind: KindROM}
	b.syncPRG(c)
	b.syncCHR(c)
}

func (b *vrc1Board) HandleWrite(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	switch addr & 0xF000 {
	case 0x8000:
		b.prg[0] = value & 0x0F
		b.syncPRG(c)
	case 0x9000:
		b.prg[1] = value & 0x0F
		if value&0x02 != 0 {
			c.ApplyMirroring(MirrorHorizontal)
		} else {
			c.ApplyMirroring(MirrorVertical)
		}
		b.chrHiBits = (value >> 2) & 0x03
		b.syncPRG(c)
		b.syncCHR(c)
	case 0xA000:
		b.prg[2] = value & 0x0F
		b.syncPRG(c)
	case 0xB000:
		b.chr[0] = value & 0x0F
		b.syncCHR(c)
	case 0xC000:
		b.chr[1] = value & 0x0F
		b.syncCHR(c)
	}
}

func (b *vrc1Board) lastBank(c *Cartridge) uint32 {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window8K)
	if numBanks == 0 {
		return 0
	}
	return numBanks - 1
}

func (b *vrc1Board) syncPRG(c *Cartridge) {
	numBanks := uint32(c.PRGROM.Size()) / uint32(Window8K)
	if numBanks == 0 {
		numBanks = 1
	}
	c.PRGDescriptors[0] = BankDescriptor{Bank: uint32(b.prg[0]) % numBanks, Size: Window8K, Address: 0x8000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[1] = BankDescriptor{Bank: uint32(b.prg[1]) % numBanks, Size: Window8K, Address: 0xA000, Perm: PermRead, Kind: KindROM}
	c.PRGDescriptors[2] = BankDescriptor{Bank: uint32(b.prg[2]) % numBanks, Size: Window8K, Address: 0xC000, Perm: PermRead, Kind: KindROM}
	c.SyncPRG()
}

func (b *vrc1Board) syncCHR(c *Cartridge) {
	numBanks := uint32(c.CHRROM.Size()) / uint32(Window4K)
	if numBanks == 0 {
		numBanks = 1
	}
	hi0 := uint32(b.chrHiBits&0x01) << 4
	hi1 := uint32((b.chrHiBits>>1)&0x01) << 4
	c.CHR0[0] = BankDescriptor{Bank: (uint32(b.chr[0]) | hi0) % numBanks, Size: Window4K, Address: 0x0000, Perm: PermReadWrite, Kind: KindAuto}
	c.CHR0[1] = BankDescriptor{Bank: (uint32(b.chr[1]) | hi1) % numBanks, Size: Window4K, Address: 0x1000, Perm: PermReadWrite, Kind: KindAuto}
	c.SyncCHR(0)
}

func init() {
	register(&RegistryEntry{
		BoardType: 75, Name: "VRC1", MapperName: "Konami VRC1",
		InitPRG: stdPRG8K4(), InitCHR0: stdCHR4K(),
		MaxPRGSize: int(Window8K) * 16, MaxCHRSize: int(Window4K) * 16,
		Flags:    FlagMirrorMapperControlled,
		NewBoard: newVRC1,
	})
}
