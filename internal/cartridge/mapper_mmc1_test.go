package cartridge

import "testing"

// writeMMC1 shifts an MMC1 5-bit value in one bit per write, as the real
// shift register requires.
func writeMMC1(c *Cartridge, addr uint16, value uint8, cycle uint64) {
	for i := 0; i < 5; i++ {
		bit := (value >> uint(i)) & 1
		c.currentCycle = cycle
		c.WritePRG(addr, bit)
		cycle += 2 // stay clear of the same-cycle write-suppression rule
	}
}

func TestMMC1PowerOnControlIsMode0xC(t *testing.T) {
	c, err := loadTestCart(1, 8, 0, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	board := c.Board.(*mmc1Board)
	if board.control != 0x0C {
		t.Fatalf("control = %#x, want 0x0C", board.control)
	}
	// $8000-$C000 mode 3: switchable 16K at $8000, fixed last at $C000.
	if got := c.ReadPRG(0xC000); got != 7 {
		t.Fatalf("$C000 = %d, want 7 (last bank fixed in mode 3)", got)
	}
}

func TestMMC1SwitchesPRGBankInMode3(t *testing.T) {
	c, err := loadTestCart(1, 8, 0, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	writeMMC1(c, 0xE000, 0x03, 100) // PRG bank register <- 3
	if got := c.ReadPRG(0x8000); got != 3 {
		t.Fatalf("$8000 = %d, want 3", got)
	}
	if got := c.ReadPRG(0xC000); got != 7 {
		t.Fatalf("$C000 = %d, want 7 (still fixed)", got)
	}
}

func TestMMC1ResetBitForcesMode3(t *testing.T) {
	c, err := loadTestCart(1, 8, 0, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	writeMMC1(c, 0x8000, 0x00, 100) // control <- 0 (32K PRG mode)
	board := c.Board.(*mmc1Board)
	if board.control&0x0C != 0x00 {
		t.Fatalf("control low PRG-mode bits = %#x, want 0", board.control&0x0C)
	}
	c.currentCycle = 200
	c.WritePRG(0x8000, 0x80) // bit 7 set: reset shift register, force mode 3
	if board.control&0x0C != 0x0C {
		t.Fatalf("control after reset write = %#x, want bits 2-3 set", board.control&0x0C)
	}
}

func TestMMC1ConsecutiveCycleWriteIsIgnored(t *testing.T) {
	c, err := loadTestCart(1, 8, 0, 0)
	if err != nil {
		t.Fatalf("loadTestCart: %v", err)
	}
	board := c.Board.(*mmc1Board)
	c.currentCycle = 100
	c.WritePRG(0xE000, 1)
	c.currentCycle = 101 // one cycle later: must be dropped
	c.WritePRG(0xE000, 1)
	if board.writeCount != 1 {
		t.Fatalf("writeCount = %d, want 1 (second write ignored)", board.writeCount)
	}
}
