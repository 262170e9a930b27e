package cartridge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// LoadFile sniffs a ROM file's magic and dispatches to the matching
// parser. FDS images are
// handled by the fds package, not here, since they don't produce a
// Cartridge (they drive the FDS drive directly); NSF files are rewritten
// into a synthetic cartridge by LoadNSF.
func LoadFile(path string) (*Cartridge, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	switch {
	case bytes.Equal(magic, []byte("NES\x1a")):
		c, err := LoadINES(br)
		return c, FormatINES, err
	case bytes.Equal(magic[:4], []byte("UNIF")):
		c, err := LoadUNIF(br)
		return c, FormatUNIF, err
	case bytes.Equal(magic[:4], []byte("NESM")):
		c, err := LoadNSF(br)
		return c, FormatNSF, err
	default:
		return nil, 0, fmt.Errorf("%w: unrecognized magic %x", ErrInvalidImage, magic)
	}
}

// LoadFromReader is kept for callers (tests) that already
// have an io.Reader positioned at the start of an iNES image.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	return LoadINES(r)
}
