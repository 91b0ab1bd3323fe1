// Package via implements the 6522 VIA pair on the 1541 disk drive. Its
// timer/interrupt shape is grounded on the 6526 CIA core in
// github.com/jrb64/c64core/c64/cia: both chips are a pair of
// decrementing timers feeding a masked interrupt flag register. The
// 6522 differs in using two independently-addressable 8-bit ports
// (no combined port-B timer-output byte split across two chips) and
// a single IFR/IER pair instead of the CIA's split mask/data ICR.
package via

// Register offsets from a VIA's base address.
const (
	ORB  = 0x00 // Output Register B (also Input Register B on read)
	ORA  = 0x01 // Output Register A
	DDRB = 0x02
	DDRA = 0x03
	T1CL = 0x04 // Timer 1 counter low (write: latch low; read: counter low, clears IFR T1)
	T1CH = 0x05 // Timer 1 counter high (write: loads counter from latch)
	T1LL = 0x06 // Timer 1 latch low
	T1LH = 0x07 // Timer 1 latch high
	T2CL = 0x08 // Timer 2 counter/latch low
	T2CH = 0x09 // Timer 2 counter high
	SR   = 0x0A // Shift register
	ACR  = 0x0B // Auxiliary Control Register
	PCR  = 0x0C // Peripheral Control Register
	IFR  = 0x0D // Interrupt Flag Register
	IER  = 0x0E // Interrupt Enable Register
	ORA2 = 0x0F // ORA without handshake
)

// ACR bits relevant to timer behaviour.
const (
	ACR_T1_PB7    uint8 = 0x80 // Timer 1 output enabled on PB7
	ACR_T1_FREERUN uint8 = 0x40 // Timer 1 continuous (vs one-shot)
	ACR_T2_PULSE  uint8 = 0x20 // Timer 2 counts PB6 pulses instead of free-running
)

// IFR/IER bit positions.
const (
	IRQ_T1   uint8 = 0x40
	IRQ_T2   uint8 = 0x20
	IRQ_CB1  uint8 = 0x10
	IRQ_CB2  uint8 = 0x08
	IRQ_SR   uint8 = 0x04
	IRQ_CA1  uint8 = 0x02
	IRQ_CA2  uint8 = 0x01
	IRQ_ANY  uint8 = 0x80
)

// Peripherals supplies external port state for whichever pins a VIA's
// DDR marks as inputs. The two VIAs on a 1541 each wire a distinct
// implementation: VIA1 reads/drives the serial bus, VIA2 reads/drives
// the disk mechanism.
type Peripherals interface {
	ReadPortA(ddr uint8) uint8
	ReadPortB(ddr uint8) uint8
	// WritePort is called whenever the CPU writes the output register,
	// so the peripheral side can react immediately (e.g. the serial
	// bus lines or the stepper motor), rather than only on the next
	// poll.
	WritePortA(value, ddr uint8)
	WritePortB(value, ddr uint8)
}

type nullPeripherals struct{}

func (nullPeripherals) ReadPortA(uint8) uint8        { return 0xFF }
func (nullPeripherals) ReadPortB(uint8) uint8        { return 0xFF }
func (nullPeripherals) WritePortA(uint8, uint8)       {}
func (nullPeripherals) WritePortB(uint8, uint8)       {}

// VIA is a single 6522.
type VIA struct {
	portA, portB uint8
	ddrA, ddrB   uint8

	t1Counter, t1Latch uint16
	t2Counter, t2Latch uint16
	t1Running, t2Running bool
	t1PB7 bool // current state of the PB7 square-wave output in free-run mode

	sr uint8

	acr, pcr uint8
	ifr, ier uint8

	Peripherals Peripherals
}

// NewVIA constructs a VIA with both ports floating.
func NewVIA() *VIA {
	return &VIA{
		t1Counter:   0xFFFF,
		t1Latch:     0xFFFF,
		t2Counter:   0xFFFF,
		Peripherals: nullPeripherals{},
	}
}

// Update advances both timers by the given number of clock cycles and
// returns whether the VIA's IRQ line is asserted afterward.
func (v *VIA) Update(cycles uint8) bool {
	for i := uint8(0); i < cycles; i++ {
		v.tickT1()
		v.tickT2()
	}
	return v.IRQ()
}

func (v *VIA) tickT1() {
	if v.t1Counter == 0 {
		v.ifr |= IRQ_T1
		if v.acr&ACR_T1_PB7 != 0 {
			v.t1PB7 = !v.t1PB7
		}
		v.t1Counter = v.t1Latch
		if v.acr&ACR_T1_FREERUN == 0 {
			v.t1Running = false
		}
		return
	}
	v.t1Counter--
}

func (v *VIA) tickT2() {
	if v.acr&ACR_T2_PULSE != 0 {
		// Pulse-counting mode decrements on PB6 edges, which this
		// emulation core does not drive from the CPU clock; treated
		// as idle since nothing in the drive model toggles PB6.
		return
	}
	if v.t2Counter == 0 {
		v.ifr |= IRQ_T2
		v.t2Counter = 0xFFFF
		return
	}
	v.t2Counter--
}

// IRQ reports the VIA's interrupt output: true when any flagged and
// enabled interrupt source is pending.
func (v *VIA) IRQ() bool {
	return v.ifr&v.ier&0x7F != 0
}

func (v *VIA) WriteRegister(reg uint8, val uint8) {
	switch reg {
	case ORB:
		v.portB = val
		v.ifr &^= IRQ_CB1
		v.Peripherals.WritePortB(v.portB, v.ddrB)
	case ORA, ORA2:
		v.portA = val
		v.ifr &^= IRQ_CA1
		v.Peripherals.WritePortA(v.portA, v.ddrA)
	case DDRB:
		v.ddrB = val
	case DDRA:
		v.ddrA = val
	case T1CL:
		v.t1Latch = (v.t1Latch & 0xFF00) | uint16(val)
	case T1CH:
		v.t1Latch = (v.t1Latch & 0x00FF) | uint16(val)<<8
		v.t1Counter = v.t1Latch
		v.t1Running = true
		v.ifr &^= IRQ_T1
	case T1LL:
		v.t1Latch = (v.t1Latch & 0xFF00) | uint16(val)
	case T1LH:
		v.t1Latch = (v.t1Latch & 0x00FF) | uint16(val)<<8
		v.ifr &^= IRQ_T1
	case T2CL:
		v.t2Latch = (v.t2Latch & 0xFF00) | uint16(val)
	case T2CH:
		v.t2Counter = uint16(val)<<8 | (v.t2Latch & 0xFF)
		v.t2Running = true
		v.ifr &^= IRQ_T2
	case SR:
		v.sr = val
		v.ifr &^= IRQ_SR
	case ACR:
		v.acr = val
	case PCR:
		v.pcr = val
	case IFR:
		v.ifr &^= val & 0x7F
	case IER:
		if val&0x80 != 0 {
			v.ier |= val & 0x7F
		} else {
			v.ier &^= val & 0x7F
		}
	}
}

func (v *VIA) ReadRegister(reg uint8) uint8 {
	switch reg {
	case ORB:
		return v.readPortB()
	case ORA:
		v.ifr &^= IRQ_CA1
		return v.readPortA()
	case ORA2:
		return v.readPortA()
	case DDRB:
		return v.ddrB
	case DDRA:
		return v.ddrA
	case T1CL:
		v.ifr &^= IRQ_T1
		return uint8(v.t1Counter & 0xFF)
	case T1CH:
		return uint8(v.t1Counter >> 8)
	case T1LL:
		return uint8(v.t1Latch & 0xFF)
	case T1LH:
		return uint8(v.t1Latch >> 8)
	case T2CL:
		v.ifr &^= IRQ_T2
		return uint8(v.t2Counter & 0xFF)
	case T2CH:
		return uint8(v.t2Counter >> 8)
	case SR:
		return v.sr
	case ACR:
		return v.acr
	case PCR:
		return v.pcr
	case IFR:
		status := v.ifr
		if v.IRQ() {
			status |= IRQ_ANY
		}
		return status
	case IER:
		return v.ier | IRQ_ANY
	}
	return 0
}

func (v *VIA) readPortA() uint8 {
	in := v.Peripherals.ReadPortA(v.ddrA)
	return (v.portA & v.ddrA) | (in &^ v.ddrA)
}

func (v *VIA) readPortB() uint8 {
	in := v.Peripherals.ReadPortB(v.ddrB)
	out := (v.portB & v.ddrB) | (in &^ v.ddrB)
	if v.acr&ACR_T1_PB7 != 0 {
		if v.t1PB7 {
			out |= 0x80
		} else {
			out &^= 0x80
		}
	}
	return out
}

// State is the serializable subset of a VIA's registers and timers.
type State struct {
	PortA, PortB       uint8
	DDRA, DDRB         uint8
	T1Counter, T1Latch uint16
	T2Counter, T2Latch uint16
	T1PB7              bool
	SR, ACR, PCR       uint8
	IFR, IER           uint8
}

// GetState captures this VIA's registers and timers.
func (v *VIA) GetState() State {
	return State{
		PortA: v.portA, PortB: v.portB,
		DDRA: v.ddrA, DDRB: v.ddrB,
		T1Counter: v.t1Counter, T1Latch: v.t1Latch,
		T2Counter: v.t2Counter, T2Latch: v.t2Latch,
		T1PB7: v.t1PB7,
		SR:    v.sr, ACR: v.acr, PCR: v.pcr,
		IFR: v.ifr, IER: v.ier,
	}
}

// SetState restores registers and timers captured by GetState.
func (v *VIA) SetState(s State) {
	v.portA, v.portB = s.PortA, s.PortB
	v.ddrA, v.ddrB = s.DDRA, s.DDRB
	v.t1Counter, v.t1Latch = s.T1Counter, s.T1Latch
	v.t2Counter, v.t2Latch = s.T2Counter, s.T2Latch
	v.t1PB7 = s.T1PB7
	v.sr, v.acr, v.pcr = s.SR, s.ACR, s.PCR
	v.ifr, v.ier = s.IFR, s.IER
}

// PortA/PortB return the raw output register contents independent of
// DDR masking, for peripherals (the stepper, the serial bus driver)
// that need to see what the CPU last wrote regardless of direction.
func (v *VIA) PortA() uint8 { return v.portA }
func (v *VIA) PortB() uint8 { return v.portB }
