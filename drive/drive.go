// Package drive implements the 1541 disk drive's own address space
// and the two 6522 VIAs wired into it, grounded on the bank-switched
// layout of github.com/jrb64/c64core/c64/mem but much smaller: 2 KiB
// of RAM repeated every $0800 from $0000 to $17ff, 16 KiB of ROM
// mirrored at both $8000 and $C000, and the two VIAs occupying
// $1800-$1bff and $1c00-$1fff. The RAM does not repeat above $1fff:
// reads of $2000-$7fff return the address high byte and writes there
// are ignored.
package drive

import (
	"fmt"

	"github.com/jrb64/c64core/cpu"
	"github.com/jrb64/c64core/drive/via"
)

const (
	RAMSize    = 0x0800
	RAMMirror  = 0x0800 // RAM repeats every $0800 below $1800
	VIA1Start  = 0x1800
	VIA1End    = 0x1bff
	VIA2Start  = 0x1c00
	VIA2End    = 0x1fff
	ROMStart   = 0x8000
	ROMSize    = 0x4000
)

// busPeripherals wires VIA1's ports to the serial bus: port B carries
// DATA/CLK/ATN-ack out and the computer-side bus state in.
type busPeripherals struct {
	d *Drive
}

func (p busPeripherals) ReadPortA(uint8) uint8 { return 0xFF }
func (p busPeripherals) ReadPortB(ddr uint8) uint8 {
	// Bits 0/2/7 are inputs driven by the wired bus state (DATA, CLK,
	// ATN); the rest float high. Matches spec.md §4.2's VIA1 PB
	// wiring note.
	var in uint8 = 0xFF
	if !p.d.busIn.DATA {
		in &^= 0x01
	}
	if !p.d.busIn.CLK {
		in &^= 0x04
	}
	if !p.d.busIn.ATN {
		in &^= 0x80
	}
	return in
}
func (p busPeripherals) WritePortA(uint8, uint8) {}
func (p busPeripherals) WritePortB(value, ddr uint8) {
	p.d.atnAck = value&0x10 != 0
	p.d.selfData = value&0x02 != 0  // DATA out is inverted on the wire
	p.d.selfClk = value&0x08 != 0   // CLK out is inverted on the wire
}

// diskPeripherals wires VIA2's ports to the disk mechanism: stepper,
// spindle motor, LED, GCR bit rate and write-protect/sync sensors.
// The mechanical side itself (head position, GCR bitstream) is an
// external collaborator per spec.md's Non-goals; this core only
// exposes the pins those collaborators would drive.
type diskPeripherals struct {
	d *Drive
}

func (p diskPeripherals) ReadPortA(uint8) uint8 { return p.d.diskByte }
func (p diskPeripherals) ReadPortB(ddr uint8) uint8 {
	var in uint8 = 0xFF
	if p.d.writeProtect {
		in &^= 0x10
	}
	if p.d.syncFound {
		in &^= 0x80
	}
	return in
}
func (p diskPeripherals) WritePortA(value uint8, ddr uint8) {}
func (p diskPeripherals) WritePortB(value, ddr uint8) {
	p.d.stepperPhase = value & 0x03
	p.d.motorOn = value&0x04 != 0
	p.d.ledOn = value&0x08 != 0
	p.d.bitRate = (value >> 5) & 0x03
}

// Drive is the 1541's CPU-visible address space plus its two VIAs. It
// satisfies cpu.Bus so a *cpu.CPU can run it directly.
type Drive struct {
	ram [RAMSize]uint8
	rom [ROMSize]uint8

	VIA1 *via.VIA
	VIA2 *via.VIA

	busIn  ibusLines // what the computer side currently presents
	atnAck bool

	selfData, selfClk bool // this drive's own pulled-low contribution

	diskByte     uint8
	writeProtect bool
	syncFound    bool
	stepperPhase uint8
	motorOn      bool
	ledOn        bool
	bitRate      uint8

	irq, reset bool

	// idle tracks spec.md §4.6's drive main-loop wait state: the drive
	// is idle when its ROM loop is parked waiting on the bus. It exits
	// idle on any line transition, a reset request, or a posted
	// interrupt, and re-enters idle only when the $F2 extension opcode
	// dispatches job 0x00 (idle-in-DOS-loop).
	idle bool

	GCR GCR
}

// GCR is the external disk-image decoder collaborator (spec.md §1's
// GCR subsystem, out of scope for this core beyond this call shape).
// The drive CPU's $F2 escape opcode dispatches directly into it
// instead of running the real 1541 ROM's ATN/job-queue handling.
type GCR interface {
	WriteSector()
	FormatTrack()
}

// nullGCR discards every request; used when no GCR collaborator has
// been wired in (e.g. unit tests exercising the drive CPU alone).
type nullGCR struct{}

func (nullGCR) WriteSector()  {}
func (nullGCR) FormatTrack()  {}

// ExtensionResumeAddr is the fixed ROM address execution resumes at
// after a dispatched $F2 job, standing in for the real 1541 DOS's
// "job done" loop entry point.
const ExtensionResumeAddr uint16 = 0xC100

// Extension implements the drive's $F2 escape opcode (spec.md §4.5):
// captured only once the PC is within ROM ($c000+), since code running
// from RAM has no business invoking it. The byte immediately following
// $F2 selects the job; on entry PC points at that byte, so this reads
// it, dispatches, and then jumps to the fixed resumption address.
func (d *Drive) Extension(c *cpu.CPU) bool {
	opAddr := c.PC - 1
	if opAddr < 0xC000 {
		return false
	}
	job := d.Read(c.PC)
	c.PC++
	switch job {
	case 0x00: // idle-in-DOS-loop: parks the drive idle per spec.md §4.6
		d.idle = true
	case 0x01:
		d.gcr().WriteSector()
	case 0x02:
		d.gcr().FormatTrack()
	}
	c.PC = ExtensionResumeAddr
	return true
}

func (d *Drive) gcr() GCR {
	if d.GCR == nil {
		return nullGCR{}
	}
	return d.GCR
}

// ibusLines mirrors iec.Lines to avoid an import-cycle-prone direct
// dependency; the machine scheduler translates between the two.
type ibusLines struct {
	ATN, CLK, DATA bool
}

// NewDrive constructs a drive with both VIAs wired to the mechanism
// and serial-bus peripherals above.
func NewDrive() *Drive {
	d := &Drive{reset: true}
	d.VIA1 = via.NewVIA()
	d.VIA1.Peripherals = busPeripherals{d}
	d.VIA2 = via.NewVIA()
	d.VIA2.Peripherals = diskPeripherals{d}
	return d
}

func (d *Drive) LoadROM(data []uint8) error {
	if len(data) != len(d.rom) {
		return fmt.Errorf("1541 ROM must be %d bytes, got %d", len(d.rom), len(data))
	}
	copy(d.rom[:], data)
	return nil
}

// SetBusLines updates what the computer side of the serial bus
// currently presents to this drive, ahead of the next CPU step. Any
// change to the wired state exits idle, per spec.md §4.6.
func (d *Drive) SetBusLines(atn, clk, data bool) {
	next := ibusLines{ATN: atn, CLK: clk, DATA: data}
	if next != d.busIn {
		d.idle = false
	}
	d.busIn = next
}

// Idle reports whether the drive's main loop is currently waiting on
// the bus (spec.md §4.6).
func (d *Drive) Idle() bool { return d.idle }

// OutputLines returns this drive's own pulled-low contribution to the
// wired-AND bus, for the machine scheduler to combine with CIA2's.
func (d *Drive) OutputLines() (atnAck, clk, data bool) {
	return d.atnAck, d.selfClk, d.selfData
}

func (d *Drive) Read(addr uint16) uint8 {
	switch {
	case addr < VIA1Start:
		return d.ram[addr%RAMMirror]
	case addr >= VIA1Start && addr <= VIA1End:
		return d.VIA1.ReadRegister(uint8(addr & 0x0F))
	case addr >= VIA2Start && addr <= VIA2End:
		return d.VIA2.ReadRegister(uint8(addr & 0x0F))
	case addr >= ROMStart:
		return d.rom[addr&(ROMSize-1)]
	default:
		return uint8(addr >> 8) // open bus: floating data lines read back the address high byte
	}
}

func (d *Drive) Write(addr uint16, v uint8) {
	switch {
	case addr < VIA1Start:
		d.ram[addr%RAMMirror] = v
	case addr >= VIA1Start && addr <= VIA1End:
		d.VIA1.WriteRegister(uint8(addr&0x0F), v)
	case addr >= VIA2Start && addr <= VIA2End:
		d.VIA2.WriteRegister(uint8(addr&0x0F), v)
	}
}

// Step advances both VIAs by the given number of cycles and updates
// the latched IRQ line (the 1541's IRQ is the OR of both VIAs' IRQ
// outputs, matching its real wiring). A newly posted interrupt exits
// idle, per spec.md §4.6.
func (d *Drive) Step(cycles uint8) {
	irq1 := d.VIA1.Update(cycles)
	irq2 := d.VIA2.Update(cycles)
	newIRQ := irq1 || irq2
	if newIRQ && !d.irq {
		d.idle = false
	}
	d.irq = newIRQ
}

func (d *Drive) IRQPending() bool   { return d.irq }
func (d *Drive) NMIPending() bool   { return false }
func (d *Drive) ResetPending() bool { v := d.reset; d.reset = false; return v }

// RequestReset implements the AsyncReset path of spec.md §4.6: it
// latches a pending reset and un-idles the drive unconditionally.
func (d *Drive) RequestReset() {
	d.reset = true
	d.idle = false
}
func (d *Drive) CheckSO(c *cpu.CPU) {}

// State is the serializable subset of the drive's RAM and mechanism
// latches. ROM is excluded since it is reloaded from a file on every
// run; the two VIAs snapshot separately via their own GetState.
type State struct {
	RAM                      [RAMSize]uint8
	AtnAck, SelfData, SelfClk bool
	DiskByte                 uint8
	WriteProtect, SyncFound  bool
	StepperPhase             uint8
	MotorOn, LEDOn           bool
	BitRate                  uint8
	Idle                     bool
	VIA1, VIA2               via.State
}

// GetState captures RAM and mechanism latches, including both VIAs.
func (d *Drive) GetState() State {
	return State{
		RAM:          d.ram,
		AtnAck:       d.atnAck,
		SelfData:     d.selfData,
		SelfClk:      d.selfClk,
		DiskByte:     d.diskByte,
		WriteProtect: d.writeProtect,
		SyncFound:    d.syncFound,
		StepperPhase: d.stepperPhase,
		MotorOn:      d.motorOn,
		LEDOn:        d.ledOn,
		BitRate:      d.bitRate,
		Idle:         d.idle,
		VIA1:         d.VIA1.GetState(),
		VIA2:         d.VIA2.GetState(),
	}
}

// SetState restores RAM and mechanism latches captured by GetState.
func (d *Drive) SetState(s State) {
	d.ram = s.RAM
	d.atnAck, d.selfData, d.selfClk = s.AtnAck, s.SelfData, s.SelfClk
	d.diskByte = s.DiskByte
	d.writeProtect, d.syncFound = s.WriteProtect, s.SyncFound
	d.stepperPhase = s.StepperPhase
	d.motorOn, d.ledOn = s.MotorOn, s.LEDOn
	d.bitRate = s.BitRate
	d.idle = s.Idle
	d.VIA1.SetState(s.VIA1)
	d.VIA2.SetState(s.VIA2)
}
