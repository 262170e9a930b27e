package fds

// AutoEjectState is the auto-eject heuristic's state machine.
type AutoEjectState int

const (
	AutoEjectInserted AutoEjectState = iota
	AutoEjectEjected
	AutoEjectWaiting
	AutoEjectDisabled
)

// defaultEjectCountdown is the fallback countdown length in frames when
// a game isn't listed in the per-title override table.
const defaultEjectCountdown = 68

// gameEjectOverride is one entry of the game-id-indexed countdown
// table, grounded on cxNES `boards/fds.c`'s eject_timer_settings.
type gameEjectOverride struct {
	gameID       [4]byte
	manufacturer uint8
	revision     uint8
	count        int
}

var ejectOverrides = []gameEjectOverride{
	{gameID: [4]byte{'L', 'T', 'D', ' '}, manufacturer: 0xe7, count: 60},
	{gameID: [4]byte{'N', 'E', 'U', ' '}, manufacturer: 0xb3, count: 85},
	{gameID: [4]byte{'F', 'Y', 'T', ' '}, manufacturer: 0xb3, count: 50},
}

// AutoEjector drives disk-swap automation: it watches for the BIOS
// ChkDiskHdr entry point, scores every loaded side's disk header
// against the CPU's currently-expected header, and when exactly one
// side matches, selects it and starts a countdown to virtual eject.
type AutoEjector struct {
	State     AutoEjectState
	countdown int
	countMax  int
}

// NewAutoEjector returns an ejector in the given initial state: Disabled
// when the feature is turned off in configuration, else Waiting.
func NewAutoEjector(enabled bool) *AutoEjector {
	if !enabled {
		return &AutoEjector{State: AutoEjectDisabled}
	}
	return &AutoEjector{State: AutoEjectWaiting, countMax: defaultEjectCountdown}
}

// CountdownFor looks up the override table by game id/manufacturer/
// revision, falling back to the default.
func CountdownFor(gameID [4]byte, manufacturer, revision uint8) int {
	for _, o := range ejectOverrides {
		if o.gameID == gameID && o.manufacturer == manufacturer && o.revision == revision {
			return o.count
		}
	}
	return defaultEjectCountdown
}

// HeaderMatch scores a disk header's game-id fields against a
// CPU-supplied expectation. Score is the number of matching bytes across game
// id, manufacturer and revision (0-6); exact full matches are callers'
// responsibility to disambiguate via "exactly one match".
func HeaderMatch(header []byte, expectGameID [4]byte, expectManufacturer, expectRevision uint8) int {
	if len(header) < diskHeaderSize {
		return 0
	}
	score := 0
	// Disk header layout (block kind 0x01, 58 bytes): game id at offset
	// 0x0F, manufacturer at 0x13, revision at 0x14 (cxNES boards/fds.c's
	// disk-header field offsets).
	const gameIDOff, mfgOff, revOff = 0x0F, 0x13, 0x14
	for i := 0; i < 4; i++ {
		if header[gameIDOff+i] == expectGameID[i] {
			score++
		}
	}
	if header[mfgOff] == expectManufacturer {
		score++
	}
	if header[revOff] == expectRevision {
		score++
	}
	return score
}

// ChooseSide evaluates every side of an image against the expected
// header and returns the unique best-scoring side index, or -1 if zero
// or more than one side is a full (score == 6) match.
func ChooseSide(img *Image, expectGameID [4]byte, expectManufacturer, expectRevision uint8) int {
	best := -1
	matches := 0
	for i, side := range img.Sides {
		for _, b := range side.Blocks {
			if b.Kind != BlockDiskHeader {
				continue
			}
			if HeaderMatch(b.Payload, expectGameID, expectManufacturer, expectRevision) == 6 {
				matches++
				best = i
			}
		}
	}
	if matches != 1 {
		return -1
	}
	return best
}

// OnChkDiskHdr is called when the BIOS's ChkDiskHdr entry ($E445) is
// fetched as an opcode. On a unique match it selects that side and
// transitions to Waiting; an ambiguous or absent match leaves the
// current state unchanged.
func (a *AutoEjector) OnChkDiskHdr(drive *Drive, img *Image, expectGameID [4]byte, expectManufacturer, expectRevision uint8) {
	if a.State == AutoEjectDisabled {
		return
	}
	side := ChooseSide(img, expectGameID, expectManufacturer, expectRevision)
	if side < 0 {
		return
	}
	drive.SelectSide(side)
	a.State = AutoEjectWaiting
	a.countdown = a.countMax
}

// Tick advances the eject countdown once per frame; reaching zero while
// Waiting transitions to Ejected and the caller should eject the drive.
func (a *AutoEjector) Tick(drive *Drive) {
	if a.State != AutoEjectWaiting {
		return
	}
	if a.countdown > 0 {
		a.countdown--
		return
	}
	a.State = AutoEjectEjected
	drive.Eject()
}
