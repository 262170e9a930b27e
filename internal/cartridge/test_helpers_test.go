package cartridge

import (
	"bytes"
)

// buildINES assembles a minimal iNES 1.0 image whose PRG/CHR banks are
// each filled with a distinct repeating byte (the bank index), so a test
// can identify which bank got mapped into a window just by reading its
// first byte, trimmed down to what these mapper tests need.
func buildINES(mapperID uint16, prgBanks16K, chrBanks8K int, flags6 uint8) []byte {
	if chrBanks8K == 0 {
		chrBanks8K = 0 // CHR RAM: header stays 0, no CHR data appended
	}
	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = uint8(prgBanks16K)
	header[5] = uint8(chrBanks8K)
	header[6] = flags6 | uint8(mapperID<<4)
	header[7] = uint8(mapperID & 0xF0)

	buf := append([]byte{}, header...)
	for bank := 0; bank < prgBanks16K; bank++ {
		data := make([]byte, 16384)
		for i := range data {
			data[i] = byte(bank)
		}
		buf = append(buf, data...)
	}
	for bank := 0; bank < chrBanks8K; bank++ {
		data := make([]byte, 8192)
		for i := range data {
			data[i] = byte(0x40 + bank)
		}
		buf = append(buf, data...)
	}
	return buf
}

func loadTestCart(mapperID uint16, prgBanks16K, chrBanks8K int, flags6 uint8) (*Cartridge, error) {
	return LoadINES(bytes.NewReader(buildINES(mapperID, prgBanks16K, chrBanks8K, flags6)))
}
