package fds

import "testing"

// fakeCPU is a minimal CPU implementation driving the BIOS patch table
// tests: zero page is a flat byte array, registers are plain fields, and
// IsOpcodeFetch is toggled by the test to exercise the data-read guard.
type fakeCPU struct {
	a, x        uint8
	pc          uint16
	zp          [256]uint8
	opcodeFetch bool
}

func (c *fakeCPU) A() uint8                        { return c.a }
func (c *fakeCPU) SetA(v uint8)                    { c.a = v }
func (c *fakeCPU) X() uint8                        { return c.x }
func (c *fakeCPU) SetX(v uint8)                    { c.x = v }
func (c *fakeCPU) ZeroPage(addr uint8) uint8       { return c.zp[addr] }
func (c *fakeCPU) SetZeroPage(addr uint8, v uint8) { c.zp[addr] = v }
func (c *fakeCPU) PC() uint16                      { return c.pc }
func (c *fakeCPU) SetPC(v uint16)                  { c.pc = v }
func (c *fakeCPU) IsOpcodeFetch() bool             { return c.opcodeFetch }

func TestPatchTableRequiresOpcodeFetch(t *testing.T) {
	table := NewPatchTable(true)
	cpu := &fakeCPU{opcodeFetch: false}
	drive := NewDrive()
	if table.TryIntercept(uint16(PatchMilSecTimer), cpu, drive) {
		t.Fatalf("TryIntercept fired on a non-opcode-fetch read")
	}
	cpu.opcodeFetch = true
	if !table.TryIntercept(uint16(PatchMilSecTimer), cpu, drive) {
		t.Fatalf("TryIntercept did not fire on an opcode fetch at a registered site")
	}
}

func TestPatchTableDisabledIgnoresEverySite(t *testing.T) {
	table := NewPatchTable(false)
	cpu := &fakeCPU{opcodeFetch: true}
	drive := NewDrive()
	if table.TryIntercept(uint16(PatchMilSecTimer), cpu, drive) {
		t.Fatalf("TryIntercept fired while the table is disabled")
	}
	table.SetEnabled(true)
	if !table.TryIntercept(uint16(PatchMilSecTimer), cpu, drive) {
		t.Fatalf("TryIntercept did not fire after SetEnabled(true)")
	}
}

func TestPatchTableUnregisteredSite(t *testing.T) {
	table := NewPatchTable(true)
	cpu := &fakeCPU{opcodeFetch: true}
	if table.TryIntercept(0x1234, cpu, NewDrive()) {
		t.Fatalf("TryIntercept fired at an address with no registered handler")
	}
}

func TestPatchLoadCPUDataDrainsDriveAndClearsRegisters(t *testing.T) {
	data := []byte{startMark, 0x11, 0x22, 0x33}
	drive, _ := newSingleSideDrive(data)
	drive.control = CtrlTransfer

	cpu := &fakeCPU{a: 0xFF, x: 0xFF}
	cpu.SetZeroPage(0x02, 3)
	cpu.SetZeroPage(0x03, 0)

	if !patchLoadCPUData(cpu, drive) {
		t.Fatalf("patchLoadCPUData returned false")
	}
	if cpu.A() != 0 || cpu.X() != 0 {
		t.Fatalf("A/X = %d/%d, want 0/0", cpu.A(), cpu.X())
	}
	if drive.headOffset != len(data) {
		t.Fatalf("headOffset = %d, want %d (start mark plus all 3 bytes consumed)", drive.headOffset, len(data))
	}
}

func TestPatchLoadPPUDataLeavesXUntouched(t *testing.T) {
	data := []byte{startMark, 0x11}
	drive, _ := newSingleSideDrive(data)
	drive.control = CtrlTransfer

	cpu := &fakeCPU{a: 0xFF, x: 0xFF}
	cpu.SetZeroPage(0x02, 1)
	cpu.SetZeroPage(0x03, 0)

	if !patchLoadPPUData(cpu, drive) {
		t.Fatalf("patchLoadPPUData returned false")
	}
	if cpu.A() != 0 {
		t.Fatalf("A = %d, want 0", cpu.A())
	}
	if cpu.X() != 0xFF {
		t.Fatalf("X = %d, want untouched 0xFF", cpu.X())
	}
}

func TestPatchXfer1stByteResetsGapCovered(t *testing.T) {
	drive := NewDrive()
	drive.gapCovered = true
	if !patchXfer1stByte(&fakeCPU{}, drive) {
		t.Fatalf("patchXfer1stByte returned false")
	}
	if drive.gapCovered {
		t.Fatalf("gapCovered still true after patchXfer1stByte")
	}
}

func TestPatchMilSecTimerIsNoop(t *testing.T) {
	if !patchMilSecTimer(&fakeCPU{}, NewDrive()) {
		t.Fatalf("patchMilSecTimer returned false")
	}
}

func TestByteCountLittleEndian(t *testing.T) {
	cpu := &fakeCPU{}
	cpu.SetZeroPage(0x02, 0x34)
	cpu.SetZeroPage(0x03, 0x12)
	if got := byteCount(cpu); got != 0x1234 {
		t.Fatalf("byteCount = %#x, want 0x1234", got)
	}
}
