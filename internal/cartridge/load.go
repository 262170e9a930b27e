package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Format identifies the ROM container a cartridge was loaded from.
type Format int

const (
	FormatINES Format = iota
	FormatNES20
	FormatUNIF
	FormatFDS
	FormatNSF
)

type inesHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8
	CHRROMSize uint8
	Flags6     uint8
	Flags7     uint8
	Flags8     uint8
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

// LoadINES parses an iNES 1.0 or NES 2.0 image (distinguished by the
// Flags7 low nibble per the NES 2.0 identification bits) into a fresh
// Cartridge, looking up the detected board in the registry.
func LoadINES(r io.Reader) (*Cartridge, error) {
	var h inesHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if !bytes.Equal(h.Magic[:], []byte("NES\x1a")) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidImage)
	}
	if h.PRGROMSize == 0 {
		return nil, fmt.Errorf("%w: zero PRG ROM size", ErrInvalidImage)
	}

	format := FormatINES
	if h.Flags7&0x0C == 0x08 {
		format = FormatNES20
	}

	mapperID := uint16(h.Flags6>>4) | uint16(h.Flags7&0xF0)
	if format == FormatNES20 {
		mapperID |= uint16(h.Flags8&0x0F) << 8
	}

	if h.Flags6&0x04 != 0 {
		trainer := make([]byte, 512)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, fmt.Errorf("%w: truncated trainer", ErrInvalidImage)
		}
	}

	prgSize := int(h.PRGROMSize) * 16384
	prg := make([]byte, prgSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("%w: truncated PRG ROM", ErrInvalidImage)
	}

	chrSize := int(h.CHRROMSize) * 8192
	var chr []byte
	hasCHRRAM := chrSize == 0
	if chrSize > 0 {
		chr = make([]byte, chrSize)
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("%w: truncated CHR ROM", ErrInvalidImage)
		}
	} else {
		chr = make([]byte, 8192)
	}

	c := NewCartridge()
	c.PRGROM = &Chip{Data: prg, Kind: KindROM}
	c.CHRROM = &Chip{Data: chr, Kind: map[bool]Kind{true: KindAuto, false: KindROM}[hasCHRRAM]}
	c.HasCHRRAM = hasCHRRAM
	c.HasBattery = h.Flags6&0x02 != 0
	c.WRAM[0] = NewChip(0x2000, KindWRAM0)
	c.CIRAM = NewChip(0x2000, KindCIRAM)

	entry, err := Lookup(mapperID)
	if err != nil {
		return nil, err
	}
	c.applyEntry(entry)

	if entry.Flags&FlagMirrorMapperControlled == 0 {
		switch {
		case h.Flags6&0x08 != 0:
			c.ApplyMirroring(MirrorFourScreen)
			c.CIRAM = NewChip(0x1000, KindCIRAM)
		case h.Flags6&0x01 != 0:
			c.ApplyMirroring(MirrorVertical)
		default:
			c.ApplyMirroring(MirrorHorizontal)
		}
	}

	c.Reset(true)
	return c, nil
}

// LoadUNIF parses the chunked UNIF container format: a "UNIF" magic
// followed by 4-byte-ID, 4-byte little-endian length, payload triples.
// Only the chunks needed to populate a Cartridge are interpreted; unknown
// chunks are skipped, mirroring the same unknown-chunks-are-skipped
// policy the save-state format uses on load.
func LoadUNIF(r io.Reader) (*Cartridge, error) {
	var magic [32]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated UNIF header", ErrInvalidImage)
	}
	if !bytes.Equal(magic[:4], []byte("UNIF")) {
		return nil, fmt.Errorf("%w: bad UNIF magic", ErrInvalidImage)
	}

	var (
		prg, chr []byte
		boardTag string
		mirror   byte
		battery  bool
	)

	for {
		var id [4]byte
		if _, err := io.ReadFull(r, id[:]); err != nil {
			break
		}
		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("%w: truncated UNIF chunk length", ErrInvalidImage)
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: truncated UNIF chunk payload", ErrInvalidImage)
		}
		switch {
		case bytes.HasPrefix(id[:], []byte("PRG")):
			prg = append(prg, payload...)
		case bytes.HasPrefix(id[:], []byte("CHR")):
			chr = append(chr, payload...)
		case string(id[:]) == "MAPR":
			boardTag = string(bytes.TrimRight(payload, "\x00"))
		case string(id[:]) == "MIRR":
			if len(payload) > 0 {
				mirror = payload[0]
			}
		case string(id[:]) == "BATR":
			battery = len(payload) > 0 && payload[0] != 0
		}
	}

	if len(prg) == 0 {
		return nil, fmt.Errorf("%w: UNIF image has no PRG chunk", ErrInvalidImage)
	}

	mapperID, err := unifBoardToMapper(boardTag)
	if err != nil {
		return nil, err
	}

	c := NewCartridge()
	c.PRGROM = &Chip{Data: prg, Kind: KindROM}
	hasCHRRAM := len(chr) == 0
	if hasCHRRAM {
		chr = make([]byte, 8192)
	}
	chrKind := KindROM
	if hasCHRRAM {
		chrKind = KindAuto
	}
	c.CHRROM = &Chip{Data: chr, Kind: chrKind}
	c.HasCHRRAM = hasCHRRAM
	c.HasBattery = battery
	c.WRAM[0] = NewChip(0x2000, KindWRAM0)
	c.CIRAM = NewChip(0x2000, KindCIRAM)

	entry, err := Lookup(mapperID)
	if err != nil {
		return nil, err
	}
	c.applyEntry(entry)

	if entry.Flags&FlagMirrorMapperControlled == 0 {
		switch mirror & 0x0F {
		case 1:
			c.ApplyMirroring(MirrorVertical)
		case 2:
			c.ApplyMirroring(MirrorSingleA)
		case 3:
			c.ApplyMirroring(MirrorSingleB)
		case 4:
			c.CIRAM = NewChip(0x1000, KindCIRAM)
			c.ApplyMirroring(MirrorFourScreen)
		default:
			c.ApplyMirroring(MirrorHorizontal)
		}
	}

	c.Reset(true)
	return c, nil
}

// unifBoardToMapper maps the handful of UNIF board-name tags this core
// recognizes onto iNES-equivalent mapper numbers already in the
// registry (UNIF predates NES 2.0 and names boards by string rather than
// number).
func unifBoardToMapper(tag string) (uint16, error) {
	switch tag {
	case "NES-NROM-128", "NES-NROM-256":
		return 0, nil
	case "NES-SXROM", "NES-SNROM", "NES-SOROM":
		return 1, nil
	case "NES-UNROM", "NES-UOROM":
		return 2, nil
	case "NES-CNROM":
		return 3, nil
	case "NES-TxROM":
		return 4, nil
	case "NES-AxROM":
		return 7, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized UNIF board %q", ErrUnsupportedMapper, tag)
	}
}
