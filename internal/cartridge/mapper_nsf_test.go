package cartridge

import (
	"bytes"
	"testing"
)

func buildNSFImage(t *testing.T, loadAddr uint16, payload []byte) []byte {
	t.Helper()
	h := make([]byte, 0x80)
	copy(h[0:5], "NESM\x1a")
	h[5] = 1    // version
	h[6] = 1    // total songs
	h[7] = 1    // start song
	h[8] = byte(loadAddr)
	h[9] = byte(loadAddr >> 8)
	h[10] = byte(loadAddr) // init addr, unused by LoadNSF
	h[11] = byte(loadAddr >> 8)
	h[12] = byte(loadAddr)
	h[13] = byte(loadAddr >> 8)
	return append(h, payload...)
}

func TestLoadNSFSynthesizesLinearBankTable(t *testing.T) {
	payload := make([]byte, 0x2000)
	payload[0] = 0xAB
	data := buildNSFImage(t, 0x8000, payload)

	c, err := LoadNSF(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadNSF: %v", err)
	}
	if got := c.ReadPRG(0x8000); got != 0xAB {
		t.Fatalf("$8000 = %#x, want 0xAB (first payload byte at the load address)", got)
	}
}

func TestLoadNSFPayloadIsWritable(t *testing.T) {
	payload := make([]byte, 0x1000)
	data := buildNSFImage(t, 0x8000, payload)

	c, err := LoadNSF(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadNSF: %v", err)
	}
	c.WritePRG(0x8000, 0x42)
	if got := c.ReadPRG(0x8000); got != 0x42 {
		t.Fatalf("$8000 after write = %#x, want 0x42 (NSF PRG image is writable)", got)
	}
}

func TestLoadNSFBankswitchedInitTable(t *testing.T) {
	payload := make([]byte, 0x4000)
	h := make([]byte, 0x80)
	copy(h[0:5], "NESM\x1a")
	h[5], h[6], h[7] = 1, 1, 1
	h[8], h[9] = 0x00, 0x80 // load addr $8000
	initBanks := [8]byte{1, 1, 1, 1, 2, 2, 2, 2}
	copy(h[0x70:0x78], initBanks[:])
	data := append(h, payload...)

	c, err := LoadNSF(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadNSF: %v", err)
	}
	board := c.Board.(*nsfBoard)
	if board.banks != initBanks {
		t.Fatalf("banks = %v, want %v (header init-bank table honored)", board.banks, initBanks)
	}
}
