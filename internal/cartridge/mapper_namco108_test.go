package cartridge

import "testing"

func selectNamco108(c *Cartridge, reg, value uint8) {
	c.WritePRG(0x8000, reg) // even address: select register
	c.WritePRG(0x8001, value)
}

func TestNamco108FixesLastTwoBanksAtReset(t *testing.T) {
	c, err := loadTestCart(206, 4, 2, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	// 4*16K = 8 eight-K banks (0..7); 16K source chunk value = bank/2.
	if got := c.ReadPRG(0xC000); got != 3 {
		t.Fatalf("$C000 = %d, want 3 (second-to-last 8K bank)", got)
	}
	if got := c.ReadPRG(0xE000); got != 3 {
		t.Fatalf("$E000 = %d, want 3 (last 8K bank)", got)
	}
}

func TestNamco108SelectsPRGRegisters6And7(t *testing.T) {
	c, err := loadTestCart(206, 4, 2, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	selectNamco108(c, 6, 3) // 8K bank 3 -> 16K source chunk 1
	selectNamco108(c, 7, 5) // 8K bank 5 -> 16K source chunk 2
	if got := c.ReadPRG(0x8000); got != 1 {
		t.Fatalf("$8000 = %d, want 1", got)
	}
	if got := c.ReadPRG(0xA000); got != 2 {
		t.Fatalf("$A000 = %d, want 2", got)
	}
}

func TestNamco108SelectsCHR1KRegister(t *testing.T) {
	c, err := loadTestCart(206, 2, 2, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	selectNamco108(c, 2, 9) // 1K bank 9 -> 8K source chunk 1
	if got := c.ReadCHR(0x1000); got != 0x41 {
		t.Fatalf("CHR $1000 = %#x, want %#x", got, 0x41)
	}
}
