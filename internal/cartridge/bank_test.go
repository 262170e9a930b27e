package cartridge

import "testing"

func TestAddressSpaceSyncAndRead(t *testing.T) {
	rom := &Chip{Data: make([]byte, 0x8000), Kind: KindROM}
	for i := range rom.Data {
		rom.Data[i] = byte(i / 0x4000)
	}
	as := newAddressSpace(0x10000)
	descs := []BankDescriptor{
		{Bank: 1, Size: Window16K, Address: 0x8000, Perm: PermRead, Kind: KindROM},
	}
	as.sync(descs, 0xFFFFFFFF, 0, func(Kind) *Chip { return rom })

	if got := as.Read(0x8000); got != 1 {
		t.Fatalf("Read($8000) = %d, want 1", got)
	}
	// Unmapped pages return the last value driven on the bus (1, from the
	// read above).
	if got := as.Read(0x4000); got != 1 {
		t.Fatalf("unmapped page returned %d, want open-bus 1", got)
	}
}

func TestAddressSpaceWriteRejectsROM(t *testing.T) {
	rom := &Chip{Data: make([]byte, 0x4000), Kind: KindROM}
	as := newAddressSpace(0x10000)
	as.sync([]BankDescriptor{{Size: Window16K, Address: 0x8000, Perm: PermReadWrite, Kind: KindROM}},
		0xFFFFFFFF, 0, func(Kind) *Chip { return rom })

	modified, _, _ := as.Write(0x8000, 0xFF)
	if modified {
		t.Fatalf("write to a ROM-kind chip reported modified")
	}
	if as.Read(0x8000) != 0 {
		t.Fatalf("ROM data mutated by a rejected write")
	}
}

func TestAddressSpaceWriteAcceptsRAM(t *testing.T) {
	ram := NewChip(0x2000, KindWRAM0)
	as := newAddressSpace(0x10000)
	as.sync([]BankDescriptor{{Size: Window8K, Address: 0x6000, Perm: PermReadWrite, Kind: KindWRAM0}},
		0xFFFFFFFF, 0, func(Kind) *Chip { return ram })

	modified, chip, off := as.Write(0x6000, 0x42)
	if !modified || chip != ram || off != 0 {
		t.Fatalf("Write(ram) = (%v, %p, %d), want (true, %p, 0)", modified, chip, off, ram)
	}
	if got := as.Read(0x6000); got != 0x42 {
		t.Fatalf("Read($6000) = %#x, want 0x42", got)
	}
}

func TestBankOffsetWithShift(t *testing.T) {
	// A shift of 1 reinterprets adjacent bank pairs as one double-size
	// window.
	off := bankOffset(2, 1, Window8K)
	want := 1*int(Window8K)<<1 + 0*int(Window8K)
	if off != want {
		t.Fatalf("bankOffset(2,1,8K) = %d, want %d", off, want)
	}
}

func TestApplyMirroringPatterns(t *testing.T) {
	c := NewCartridge()
	c.CIRAM = NewChip(0x2000, KindCIRAM)
	c.CIRAM.Data[0x000] = 0xAA
	c.CIRAM.Data[0x400] = 0xBB

	c.ApplyMirroring(MirrorHorizontal)
	if c.ReadNMT(0x000) != 0xAA || c.ReadNMT(0x400) != 0xAA {
		t.Fatalf("horizontal mirroring: nametables 0 and 1 should share bank 0")
	}
	if c.ReadNMT(0x800) != 0xBB || c.ReadNMT(0xC00) != 0xBB {
		t.Fatalf("horizontal mirroring: nametables 2 and 3 should share bank 1")
	}

	c.ApplyMirroring(MirrorVertical)
	if c.ReadNMT(0x000) != 0xAA || c.ReadNMT(0x800) != 0xAA {
		t.Fatalf("vertical mirroring: nametables 0 and 2 should share bank 0")
	}
	if c.ReadNMT(0x400) != 0xBB || c.ReadNMT(0xC00) != 0xBB {
		t.Fatalf("vertical mirroring: nametables 1 and 3 should share bank 1")
	}
}
