package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// nsfHeader is the fixed-size NESM header.
type nsfHeader struct {
	Magic        [5]byte
	Version      uint8
	TotalSongs   uint8
	StartSong    uint8
	LoadAddr     uint16
	InitAddr     uint16
	PlayAddr     uint16
	SongName     [32]byte
	Artist       [32]byte
	Copyright    [32]byte
	PlaySpeedNTSC uint16
	InitBanks    [8]byte
	PlaySpeedPAL uint16
	TVFlags      uint8
	ExtraSound   uint8
	Reserved     [4]byte
}

// playerROMSize is the size of the zero-filled region LoadNSF appends
// after the payload for a player ROM. No player code is placed there,
// and the region is not pinned to CPU $E000: like the rest of the
// buffer it is reachable only through whichever 4K bank the init-bank
// table selects.
var playerROMSize = 4096

// LoadNSF rewrites an NSF file into a synthetic NES cartridge: the
// payload is copied into one writable buffer at its load address,
// followed by playerROMSize zero bytes. Bankswitched NSFs
// (header.InitBanks non-zero) use the header's init-bank table;
// non-bankswitched NSFs receive a synthetic table aligned to the load
// address, grounded on cxNES's boards/inlnsf.c synthetic bank-table
// board. The table is kept in c.Scratch[:8] for nsfBoard; it is not
// written into CPU address space.
func LoadNSF(r io.Reader) (*Cartridge, error) {
	var h nsfHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if !bytes.Equal(h.Magic[:], []byte("NESM\x1a")) {
		return nil, fmt.Errorf("%w: bad NSF magic", ErrInvalidImage)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bankSwitched := false
	for _, b := range h.InitBanks {
		if b != 0 {
			bankSwitched = true
			break
		}
	}

	// The non-bankswitched synthetic table below indexes 4K pages
	// starting from page LoadAddr/0x1000, so the backing buffer must
	// itself start at page 0 and reserve the leading pages up to the
	// load address, rather than packing the payload at the buffer's
	// start.
	pageBase := int(h.LoadAddr) / 0x1000
	pageOffset := int(h.LoadAddr) % 0x1000
	payloadPages := (pageOffset + len(payload) + 0xFFF) / 0x1000
	if payloadPages == 0 {
		payloadPages = 1
	}
	prgSize := (pageBase + payloadPages) * 0x1000
	prg := make([]byte, prgSize+playerROMSize)
	copy(prg[pageBase*0x1000+pageOffset:], payload)

	// nsfBoard's descriptors are tagged KindWRAM0 (the payload is
	// writable, since some players store state inside their own loaded
	// image), so PRGROM and WRAM[0] alias the same backing chip: one
	// buffer, read through whichever Kind a descriptor names.
	chip := &Chip{Data: prg, Kind: KindWRAM0}
	c := NewCartridge()
	c.PRGROM = chip
	c.CHRROM = &Chip{Data: make([]byte, 8192), Kind: KindAuto}
	c.HasCHRRAM = true
	c.WRAM[0] = chip
	c.CIRAM = NewChip(0x2000, KindCIRAM)

	entry, err := Lookup(nsfBoardType)
	if err != nil {
		return nil, err
	}
	c.applyEntry(entry)
	c.ApplyMirroring(MirrorHorizontal)

	// The init-bank table holds one bank value per 4K PRG window;
	// synthesize a linear table when the NSF itself isn't bankswitched.
	table := make([]byte, 8)
	if bankSwitched {
		copy(table, h.InitBanks[:])
	} else {
		base := uint8(int(h.LoadAddr) / 0x1000)
		for i := range table {
			table[i] = base + uint8(i)
		}
	}
	copy(c.Scratch[:8], table)

	c.Reset(true)
	return c, nil
}

const nsfBoardType = 0xFF00 // synthetic board id, never collides with an iNES mapper number
