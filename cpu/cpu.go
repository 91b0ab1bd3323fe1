// Package cpu implements the 6502-class execution engine shared by the
// C64's main CPU (a 6510) and the 1541 disk drive's 6502. The two
// differ only in their memory map, their interrupt sources and a
// handful of hooks, so the core is written once here and parameterised
// by the Bus capability set.
package cpu

import "fmt"

// Bus is the capability set the CPU needs from its owner. The main CPU
// and the drive CPU each implement it against disjoint address spaces.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)

	// IRQPending/NMIPending/ResetPending report latched, edge-like
	// interrupt lines. The owner clears NMI/Reset once serviced.
	IRQPending() bool
	NMIPending() bool
	ResetPending() bool

	// CheckSO is polled once per instruction boundary; a bus may set
	// the V flag from an external event (the GCR "byte ready" signal
	// on the drive CPU). Most buses no-op here.
	CheckSO(c *CPU)

	// Extension is consulted when the CPU fetches opcode $F2 (a KIL
	// opcode on real silicon). The drive CPU's bus repurposes it as an
	// emulator escape; c.PC already points at the byte after $F2. If
	// the bus handles it, it is responsible for leaving PC at the
	// resumption address and returns true. A bus that has no use for
	// the hook returns false so the CPU falls through to the normal
	// jam behaviour.
	Extension(c *CPU) bool
}

// JamHandler is invoked exactly once when the CPU freezes on an undefined
// opcode. Hosts use it to surface a one-shot notification (spec §7).
type JamHandler func(pc uint16, opcode uint8)

// CPU is a 6502/6510-class processor. Flags are stored per spec: Z is
// derived from the zero-ness of zFlag, N from bit 7 of nFlag; the
// remaining flags are plain booleans.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16

	zFlag uint8 // Z flag true iff zFlag == 0
	nFlag uint8 // N flag is bit 7 of nFlag
	carry bool
	decim bool
	irqD  bool // I flag, interrupt disable
	ovf   bool // V flag

	// Cycles is the monotone count of emulated cycles since power-up,
	// used by the disk subsystem for head timing.
	Cycles uint64

	Bus Bus

	jammed     bool
	jamPC      uint16
	jamOpcode  uint8
	OnJam      JamHandler
	Name       string // "main" or "drive", used only for logging
}

// Status flag bits, used only for push/pull/BRK framing.
const (
	FlagC uint8 = 0x01
	FlagZ uint8 = 0x02
	FlagI uint8 = 0x04
	FlagD uint8 = 0x08
	FlagB uint8 = 0x10
	Flag5 uint8 = 0x20 // always 1 when pushed
	FlagV uint8 = 0x40
	FlagN uint8 = 0x80
)

// NewCPU creates a CPU wired to the given bus.
func NewCPU(bus Bus) *CPU {
	c := &CPU{Bus: bus, SP: 0xFD}
	c.irqD = true
	c.zFlag = 1
	return c
}

// Status packs the individual flags into the classic 8-bit P register,
// with the break and unused bits synthesised as described in spec §3.
func (c *CPU) Status(breakFlag bool) uint8 {
	var p uint8 = Flag5
	if c.carry {
		p |= FlagC
	}
	if c.zFlag == 0 {
		p |= FlagZ
	}
	if c.irqD {
		p |= FlagI
	}
	if c.decim {
		p |= FlagD
	}
	if breakFlag {
		p |= FlagB
	}
	if c.ovf {
		p |= FlagV
	}
	if c.nFlag&0x80 != 0 {
		p |= FlagN
	}
	return p
}

// SetStatus unpacks a classic P byte into the individual flags. B and
// bit 5 are not stored; they are synthesised again on push.
func (c *CPU) SetStatus(p uint8) {
	c.carry = p&FlagC != 0
	if p&FlagZ != 0 {
		c.zFlag = 0
	} else {
		c.zFlag = 1
	}
	c.irqD = p&FlagI != 0
	c.decim = p&FlagD != 0
	c.ovf = p&FlagV != 0
	if p&FlagN != 0 {
		c.nFlag = 0x80
	} else {
		c.nFlag = 0
	}
}

// Flags exposes the individual flags for snapshotting.
func (c *CPU) Flags() (carry, zero, irqDisable, decimal, overflow, negative bool) {
	return c.carry, c.zFlag == 0, c.irqD, c.decim, c.ovf, c.nFlag&0x80 != 0
}

func (c *CPU) SetFlags(carry, zero, irqDisable, decimal, overflow, negative bool) {
	c.carry, c.irqD, c.decim, c.ovf = carry, irqDisable, decimal, overflow
	if zero {
		c.zFlag = 0
	} else {
		c.zFlag = 1
	}
	if negative {
		c.nFlag = 0x80
	} else {
		c.nFlag = 0
	}
}

// Jammed reports whether the CPU has frozen on an undefined opcode.
func (c *CPU) Jammed() bool { return c.jammed }

// State is the serializable subset of CPU state a snapshot needs to
// resume execution identically; the jam latch is deliberately
// excluded since a jammed CPU never has resumable progress to save.
type State struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
	Cycles      uint64
}

// GetState captures the CPU's registers and flags.
func (c *CPU) GetState() State {
	return State{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.Status(false), Cycles: c.Cycles}
}

// SetState restores registers and flags captured by GetState.
func (c *CPU) SetState(s State) {
	c.A, c.X, c.Y, c.SP, c.PC = s.A, s.X, s.Y, s.SP, s.PC
	c.SetStatus(s.P)
	c.Cycles = s.Cycles
	c.jammed = false
}

// Reset loads PC from the reset vector and restores power-up register
// state. It does not drain cycles already in flight.
func (c *CPU) Reset() {
	lo := uint16(c.Bus.Read(0xFFFC))
	hi := uint16(c.Bus.Read(0xFFFD))
	c.PC = hi<<8 | lo
	c.SP = 0xFD
	c.A, c.X, c.Y = 0, 0, 0
	c.zFlag = 1
	c.nFlag = 0
	c.carry, c.decim, c.ovf = false, false, false
	c.irqD = true
	c.jammed = false
}

// Step executes exactly one instruction (or services exactly one
// interrupt) and returns the number of cycles it consumed.
//
// Interrupt sampling happens at every call boundary, which in practice
// covers the points spec §4.5 names: entry to the line-step (the
// scheduler calls Step in a loop), and immediately after CLI/PLP/RTI
// because those also return through here before the next instruction
// fetch.
func (c *CPU) Step() uint8 {
	if c.jammed {
		return 0
	}

	if c.Bus.ResetPending() {
		c.Reset()
		return 0
	}

	c.Bus.CheckSO(c)

	if c.Bus.NMIPending() {
		return c.serviceInterrupt(0xFFFA, false)
	}
	if !c.irqD && c.Bus.IRQPending() {
		return c.serviceInterrupt(0xFFFE, false)
	}

	opcode := c.Bus.Read(c.PC)
	c.PC++
	cycles := c.execute(opcode)
	c.Cycles += uint64(cycles)
	return cycles
}

// serviceInterrupt pushes PC/P in the BRK shape and jumps to vector.
// breakFlag is true only for a software BRK.
func (c *CPU) serviceInterrupt(vector uint16, breakFlag bool) uint8 {
	c.push16(c.PC)
	c.push(c.Status(breakFlag))
	c.irqD = true
	lo := uint16(c.Bus.Read(vector))
	hi := uint16(c.Bus.Read(vector + 1))
	c.PC = hi<<8 | lo
	return 7
}

// jam freezes the CPU at the offending instruction's address, leaving
// PC visible to the host per spec §4.5/§7.
func (c *CPU) jam(opcode uint8) uint8 {
	addr := c.PC - 1
	c.jammed = true
	c.jamPC = addr
	c.jamOpcode = opcode
	if c.OnJam != nil {
		c.OnJam(addr, opcode)
	}
	c.PC = addr
	return 0
}

func (c *CPU) updateZN(v uint8) {
	c.zFlag = v
	c.nFlag = v
}

func (c *CPU) push(v uint8) {
	c.Bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.Bus.Read(0x0100 | uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v & 0xFF))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

func (c *CPU) String() string {
	return fmt.Sprintf("%s PC=%04X A=%02X X=%02X Y=%02X SP=%02X P=%02X",
		c.Name, c.PC, c.A, c.X, c.Y, c.SP, c.Status(false))
}
