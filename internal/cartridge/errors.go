package cartridge

import "errors"

// Error kinds the core surfaces at load time. Runtime errors (failed
// auto-save) are logged by the caller and do not use these.
var (
	ErrInvalidImage    = errors.New("cartridge: invalid or truncated ROM image")
	ErrChecksumMismatch = errors.New("cartridge: checksum mismatch")
	ErrNvramOpenFailed  = errors.New("cartridge: failed to open non-volatile RAM file")
	ErrNvramWriteFailed = errors.New("cartridge: failed to write non-volatile RAM file")
)
