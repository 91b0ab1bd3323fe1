// Package machine is the line-stepped scheduler tying the VIC-II video
// generator, the main 6510 and the 1541 drive's 6502 together, exactly
// per spec.md §4.1/§5: within one call to StepLine, all video
// rendering for that line happens before either CPU executes a single
// instruction belonging to it, so register writes made during line N
// take effect starting line N+1.
package machine

import (
	"fmt"
	"log"

	"github.com/jrb64/c64core/c64/cia"
	"github.com/jrb64/c64core/c64/input"
	"github.com/jrb64/c64core/c64/mem"
	"github.com/jrb64/c64core/c64/sid"
	"github.com/jrb64/c64core/c64/vic"
	"github.com/jrb64/c64core/cpu"
	"github.com/jrb64/c64core/drive"
	"github.com/jrb64/c64core/iec"
	"github.com/jrb64/c64core/snapshot"
)

// DriveCycleNumerator/Denominator give the drive CPU its nominal,
// clock-ratio-compensated share of the main CPU's per-line cycle
// budget. Per spec.md §9's open question, this core keeps the
// teacher's simpler fixed split (applied to the cycles the main CPU
// actually spent this line, so the drive's share shrinks on bad lines)
// rather than locking both CPUs to one shared cycle counter.
const (
	DriveCycleNumerator   = 16
	DriveCycleDenominator = 17
)

// Outcome is the closed severity taxonomy for operations that cross
// the scheduler boundary, per spec.md §7's failure taxonomy.
type Outcome int

const (
	OK Outcome = iota
	SoftError        // e.g. unmounted drive; reported to the emulated program, not the host
	Notification     // e.g. illegal-opcode jam; one-shot host notice, emulation continues
	RestoreFailed    // corrupt snapshot; prior state is left intact
	Fatal            // host cannot obtain a frame buffer; abort cleanly
)

// Failure pairs an Outcome with the underlying error, if any.
type Failure struct {
	Outcome Outcome
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("machine: %v", f.Err)
	}
	return "machine: failure"
}

// vicBusAdapter gives the VIC read-only access to RAM and colour RAM
// independent of the CPU's bank switching (the VIC never sees BASIC/
// KERNAL ROM or the I/O window, only the raw RAM underneath). Bitmap
// accesses to the character-generator ROM shadow at $1000/$9000 are an
// explicit non-goal (spec.md §1), so this always reads RAM.
type vicBusAdapter struct{ bus *mem.Bus }

func (a vicBusAdapter) VICRead(addr uint16) uint8   { return a.bus.ReadRAM(addr) }
func (a vicBusAdapter) ColorRAM(offset uint16) uint8 { return a.bus.ColorRAM(offset) }

// Machine owns every component's live state and is the sole place
// cross-component side effects (raising an IRQ, recombining the IEC
// bus) happen, per spec.md §9's state-ownership design note.
type Machine struct {
	MainCPU  *cpu.CPU
	DriveCPU *cpu.CPU
	Bus      *mem.Bus
	VIC      *vic.VIC
	CIA1     *cia.CIA
	CIA2     *cia.CIA
	Drive    *drive.Drive
	SID      *sid.SID
	Mailbox  *input.Mailbox

	driveCycleCarry int // fractional cycles owed to the drive CPU, carried line to line

	OnMainJam  func(pc uint16, opcode uint8)
	OnDriveJam func(pc uint16, opcode uint8)
}

// NewMachine constructs and wires a complete, powered-up machine ready
// for ROM loading and Reset.
func NewMachine() *Machine {
	m := &Machine{
		Bus:      mem.NewBus(),
		VIC:      nil,
		CIA1:     cia.NewCIA(false),
		CIA2:     cia.NewCIA(true),
		Drive:    drive.NewDrive(),
		SID:      sid.NewSID(),
		Mailbox:  &input.Mailbox{},
	}

	m.VIC = vic.NewVIC(vicBusAdapter{m.Bus})
	m.VIC.BankBase = m.vicBankBase

	m.CIA1.Peripherals = input.CIA1Peripherals{Mailbox: m.Mailbox}
	m.CIA2.Peripherals = input.CIA2Peripherals{IECLines: m.computerIECInput}

	m.Bus.VIC = m.VIC
	m.Bus.SID = m.SID
	m.Bus.CIA1 = m.CIA1
	m.Bus.CIA2 = m.CIA2

	m.MainCPU = cpu.NewCPU(m.Bus)
	m.MainCPU.Name = "main"
	m.MainCPU.OnJam = func(pc uint16, opcode uint8) {
		log.Printf("machine: main CPU jammed at $%04X on opcode $%02X", pc, opcode)
		if m.OnMainJam != nil {
			m.OnMainJam(pc, opcode)
		}
	}

	m.DriveCPU = cpu.NewCPU(m.Drive)
	m.DriveCPU.Name = "drive"
	m.DriveCPU.OnJam = func(pc uint16, opcode uint8) {
		log.Printf("machine: drive CPU jammed at $%04X on opcode $%02X", pc, opcode)
		if m.OnDriveJam != nil {
			m.OnDriveJam(pc, opcode)
		}
	}

	return m
}

// vicBankBase derives the VIC's 16K bank base from CIA2 Port A bits
// 0-1, which are active-low (spec.md §4.2's bank-switched windows,
// applied to the VIC's own view of memory rather than the CPU's).
func (m *Machine) vicBankBase() uint16 {
	sel := ^m.CIA2.PortA() & 0x03
	return uint16(sel) * 0x4000
}

// cia2Pulls decodes CIA2 Port A's ATN OUT/CLK OUT/DATA OUT bits
// (3/4/5): true means the computer side is actively pulling that line
// low, the opposite convention from iec.Lines (true = released/high).
func (m *Machine) cia2Pulls() (atn, clk, data bool) {
	p := m.CIA2.PortA()
	return p&0x08 != 0, p&0x10 != 0, p&0x20 != 0
}

// iecLines computes the actual electrical state of the three IEC bus
// lines (iec.Lines convention: true = released/high) by wire-ANDing
// CIA2's own contribution with the drive's, including the drive's
// ATN-acknowledge circuit forcing DATA low whenever ATN is asserted
// and the latched ack disagrees with it, regardless of any other DATA
// output (spec.md §4.6's CalcIECLines behaviour, reproduced in bools).
func (m *Machine) iecLines() iec.Lines {
	cAtn, cClk, cData := m.cia2Pulls()
	atnAck, dClk, dData := m.Drive.OutputLines()

	if cAtn != atnAck {
		dData = true
	}

	return iec.Combine(
		iec.Lines{ATN: !cAtn, CLK: !cClk, DATA: !cData},
		iec.Lines{ATN: true, CLK: !dClk, DATA: !dData}, // the drive never drives ATN itself
	)
}

// computerIECInput reports the ATN/CLK/DATA lines as CIA2Peripherals
// expects them: true meaning the bus reads back pulled low, the
// inverse of iecLines' released/high convention.
func (m *Machine) computerIECInput() (atn, clk, data bool) {
	l := m.iecLines()
	return !l.ATN, !l.CLK, !l.DATA
}

// IECPinByte reproduces spec.md §4.6's CalcIECLines formula directly,
// the byte-oriented form of the same wired-AND math iecLines computes
// with bools. All bytes use CIA2 Port A's layout (ATN bit 3, CLK bit 4,
// DATA bit 5); the XOR term's left-shift-by-2 moves ATN's bit 3 onto
// DATA's bit 5. Nothing in this module calls it.
func (m *Machine) IECPinByte() uint8 {
	cAtn, cClk, cData := m.cia2Pulls()
	atnAck, dClk, dData := m.Drive.OutputLines()

	self := uint8(0xFF)
	if dClk {
		self &^= 0x10
	}
	if dData {
		self &^= 0x20
	}

	cia2 := uint8(0xFF)
	if cClk {
		cia2 &^= 0x10
	}
	if cData {
		cia2 &^= 0x20
	}

	bus := uint8(0xFF)
	if cAtn {
		bus &^= 0x08
	}
	var ack uint8
	if atnAck {
		ack = 0x08
	}

	return iec.CalcIECLines(self, cia2, bus, ack)
}

// Reset re-initialises both CPUs' registers and re-reads their reset
// vectors without draining the rest of the pipeline, per spec.md §5's
// cancellation model.
func (m *Machine) Reset() {
	m.Bus.RequestReset()
	m.Drive.RequestReset()
	m.MainCPU.Reset()
	m.DriveCPU.Reset()
}

// StepLine advances the whole machine by exactly one raster line,
// implementing spec.md §4.1's five-step contract.
func (m *Machine) StepLine() (vblank bool, cpuCycles int) {
	vblank = m.VIC.StepLine()

	m.driveIECBeforeCPU()

	lineCycles := int(vic.CyclesPerLine)
	if m.VIC.BadLine() {
		lineCycles = int(vic.CyclesPerLine) - int(vic.BadLineStolenCycles)
	}
	lineCycles -= m.VIC.SpriteDMACycles()

	mainIRQ := m.VIC.IRQ()
	m.Bus.SetIRQ(mainIRQ || m.CIA1.IsIRQActive())
	m.Bus.SetNMI(m.CIA2.IsIRQActive())

	spent := 0
	for spent < lineCycles {
		if m.MainCPU.Jammed() {
			spent = lineCycles
			break
		}
		spent += int(m.MainCPU.Step())
	}

	m.CIA1.Update(uint8(spent))
	m.CIA2.Update(uint8(spent))
	m.Bus.SetIRQ(m.VIC.IRQ() || m.CIA1.IsIRQActive())
	m.Bus.SetNMI(m.CIA2.IsIRQActive())

	driveBudget := m.driveCyclesFor(spent)
	driveSpent := 0
	for driveSpent < driveBudget {
		if m.DriveCPU.Jammed() {
			driveSpent = driveBudget
			break
		}
		driveSpent += int(m.DriveCPU.Step())
	}
	m.Drive.Step(uint8(driveSpent))

	m.driveIECAfterCPU()

	return vblank, spent
}

// driveCyclesFor converts the main CPU's actual cycle spend this line
// into the drive's nominal share, carrying the rounding remainder
// forward so the long-run ratio stays exact.
func (m *Machine) driveCyclesFor(mainCycles int) int {
	total := mainCycles*DriveCycleNumerator + m.driveCycleCarry
	budget := total / DriveCycleDenominator
	m.driveCycleCarry = total % DriveCycleDenominator
	return budget
}

// driveIECBeforeCPU pushes the full wired-AND bus state (including the
// drive's own loopback of its last pull) into the drive's VIA1 ahead
// of this line's drive CPU execution, so a poll of its own output pin
// reads back correctly, matching real open-collector wiring.
func (m *Machine) driveIECBeforeCPU() {
	l := m.iecLines()
	m.Drive.SetBusLines(l.ATN, l.CLK, l.DATA)
}

// driveIECAfterCPU is a no-op placeholder keeping the two halves of
// the per-line IEC refresh symmetrical; the drive's own output lines
// are read lazily via OutputLines() wherever the computer side needs
// them, so nothing needs pushing back here.
func (m *Machine) driveIECAfterCPU() {}

// Snapshot captures every component's state into a restorable value.
func (m *Machine) Snapshot() *snapshot.State {
	return &snapshot.State{
		Version:  snapshot.Version,
		MainCPU:  m.MainCPU.GetState(),
		DriveCPU: m.DriveCPU.GetState(),
		Bus:      m.Bus.GetState(),
		VIC:      m.VIC.GetState(),
		CIA1:     m.CIA1.GetState(),
		CIA2:     m.CIA2.GetState(),
		Drive:    m.Drive.GetState(),
	}
}

// Restore applies a previously captured snapshot. A version mismatch
// is a RestoreFailed Outcome: the prior live state is left untouched
// (spec.md §7's emulation-state-restore-failure handling).
func (m *Machine) Restore(s *snapshot.State) *Failure {
	if s == nil {
		return &Failure{Outcome: RestoreFailed, Err: fmt.Errorf("nil snapshot")}
	}
	if s.Version != snapshot.Version {
		return &Failure{Outcome: RestoreFailed, Err: fmt.Errorf("snapshot version %d, want %d", s.Version, snapshot.Version)}
	}
	m.MainCPU.SetState(s.MainCPU)
	m.DriveCPU.SetState(s.DriveCPU)
	m.Bus.SetState(s.Bus)
	m.VIC.SetState(s.VIC)
	m.CIA1.SetState(s.CIA1)
	m.CIA2.SetState(s.CIA2)
	m.Drive.SetState(s.Drive)
	return nil
}
