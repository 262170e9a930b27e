// Package fds implements the Famicom Disk System drive and BIOS
// interception layer: disk image parsing, byte-granular read/write
// timing, CRC tracking, the auto-eject heuristic and the BIOS call
// patch table.
package fds

import "fmt"

// Block kinds.
const (
	BlockDiskHeader uint8 = 0x01
	BlockFileCount  uint8 = 0x02
	BlockFileHeader uint8 = 0x03
	BlockFileData   uint8 = 0x04
)

const (
	startMark   = 0x80
	diskHeaderSize = 58
	fileCountSize  = 2
	fileHeaderSize = 16
)

// SideSize is the standard FDS disk side length in bytes.
const SideSize = 65500

// fwNESHeaderSize is the length of the optional fwNES container header
// ("FDS\x1a" magic, side count, 11 reserved bytes) some dumps prepend
// ahead of the raw disk sides.
const fwNESHeaderSize = 16

// LoadFile parses a .fds dump, stripping the optional 16-byte fwNES
// container header (magic "FDS\x1a") when present, and splits the
// remainder into SideSize-byte sides.
func LoadFile(data []byte) (*Image, error) {
	if len(data) >= 4 && data[0] == 'F' && data[1] == 'D' && data[2] == 'S' && data[3] == 0x1A {
		if len(data) < fwNESHeaderSize {
			return nil, fmt.Errorf("%w: truncated fwNES header", ErrInvalidImage)
		}
		data = data[fwNESHeaderSize:]
	}
	return ParseImage(data, SideSize)
}

// Block is one decoded (start-mark, kind, payload, crc) group on a disk
// side, located by byte offset within that side.
type Block struct {
	Offset  int
	Kind    uint8
	Payload []byte
}

// Side is one playable face of a disk image: the raw byte sequence plus
// its decoded block list, used both for emulation and for the
// modified-ranges-to-dirty-blocks mapping persistence needs.
type Side struct {
	Data   []byte
	Blocks []Block
}

// Image is a loaded FDS disk: one or more sides, each disk.SideSize
// bytes long.
type Image struct {
	SideSize int
	Sides    []*Side
}

// ErrInvalidImage is returned when a disk side can't be decoded into a
// block list at all (not a validation of game-specific content, only of
// the start-mark/block-kind framing).
var ErrInvalidImage = fmt.Errorf("fds: invalid disk image")

// ParseImage splits a raw FDS image buffer into sides of sideSize bytes
// each and decodes each side's block list.
func ParseImage(data []byte, sideSize int) (*Image, error) {
	if sideSize <= 0 || len(data)%sideSize != 0 {
		return nil, fmt.Errorf("%w: size %d not a multiple of side size %d", ErrInvalidImage, len(data), sideSize)
	}
	img := &Image{SideSize: sideSize}
	for off := 0; off < len(data); off += sideSize {
		side, err := parseSide(data[off : off+sideSize])
		if err != nil {
			return nil, err
		}
		img.Sides = append(img.Sides, side)
	}
	return img, nil
}

// parseSide walks a single side's byte stream decoding
// (start-mark, kind, payload, crc-lo, crc-hi, gap) groups. Gaps (runs of
// zero bytes) are skipped when hunting for the next start mark; parsing
// stops, without error, at the first position where no further start
// mark is found, since trailing gap bytes are normal at end of side.
func parseSide(data []byte) (*Side, error) {
	s := &Side{Data: data}
	i := 0
	for i < len(data) {
		for i < len(data) && data[i] == 0 {
			i++
		}
		if i >= len(data) {
			break
		}
		if data[i] != startMark {
			return nil, fmt.Errorf("%w: expected start mark 0x%02x at offset %d, got 0x%02x", ErrInvalidImage, startMark, i, data[i])
		}
		if i+1 >= len(data) {
			return nil, fmt.Errorf("%w: truncated block at offset %d", ErrInvalidImage, i)
		}
		kind := data[i+1]
		payloadSize, err := blockPayloadSize(kind, data, i+2)
		if err != nil {
			return nil, err
		}
		payloadStart := i + 2
		payloadEnd := payloadStart + payloadSize
		if payloadEnd+2 > len(data) {
			return nil, fmt.Errorf("%w: block at offset %d overruns side", ErrInvalidImage, i)
		}
		payload := make([]byte, payloadSize)
		copy(payload, data[payloadStart:payloadEnd])
		s.Blocks = append(s.Blocks, Block{Offset: i, Kind: kind, Payload: payload})
		i = payloadEnd + 2 // skip CRC-lo, CRC-hi
	}
	return s, nil
}

// blockPayloadSize returns the payload length for a block kind. File
// header blocks declare no length field of their own (fixed size); file
// data blocks carry their size in the immediately preceding file
// header, so the caller passes the data block's payload offset and this
// reads the size from the bytes before it, returning ErrInvalidImage
// when no header fits there.
func blockPayloadSize(kind uint8, data []byte, fileHeaderDataStart int) (int, error) {
	switch kind {
	case BlockDiskHeader:
		return diskHeaderSize, nil
	case BlockFileCount:
		return fileCountSize, nil
	case BlockFileHeader:
		return fileHeaderSize, nil
	case BlockFileData:
		if fileHeaderDataStart < fileHeaderSize+2 {
			return 0, fmt.Errorf("%w: file data block with no preceding header", ErrInvalidImage)
		}
		hdrStart := fileHeaderDataStart - fileHeaderSize - 2
		if hdrStart < 0 || hdrStart+fileHeaderSize > len(data) {
			return 0, fmt.Errorf("%w: file data block header out of range", ErrInvalidImage)
		}
		size := int(data[hdrStart+13]) | int(data[hdrStart+14])<<8
		return size, nil
	default:
		return 0, fmt.Errorf("%w: unknown block kind 0x%02x", ErrInvalidImage, kind)
	}
}

// DirtyBlockRanges maps a set of raw byte-offset modified ranges (as
// recorded by the drive's write path) onto the enclosing block's full
// extent (start mark through CRC), so a persistence layer can patch
// only the blocks that actually changed, start-mark and CRC bytes
// included.
func (s *Side) DirtyBlockRanges(modifiedOffsets []int) [][2]int {
	var ranges [][2]int
	for _, off := range modifiedOffsets {
		for _, b := range s.Blocks {
			end := b.Offset + 2 + len(b.Payload) + 2
			if off < b.Offset || off >= end {
				continue
			}
			ranges = append(ranges, [2]int{b.Offset, end})
			break
		}
	}
	return ranges
}
