package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// testBus is a flat 64KiB RAM bus with no interrupt sources, used to
// drive the CPU core directly in tests.
type testBus struct {
	mem        [65536]uint8
	irq, nmi   bool
	reset      bool
	extensions int
}

func (b *testBus) Read(addr uint16) uint8          { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8)      { b.mem[addr] = v }
func (b *testBus) IRQPending() bool                { return b.irq }
func (b *testBus) NMIPending() bool {
	if b.nmi {
		b.nmi = false
		return true
	}
	return false
}
func (b *testBus) ResetPending() bool {
	if b.reset {
		b.reset = false
		return true
	}
	return false
}
func (b *testBus) CheckSO(c *CPU) {}
func (b *testBus) Extension(c *CPU) bool {
	b.extensions++
	return false
}

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x02
	c := NewCPU(bus)
	c.Reset()
	return c, bus
}

func TestLDAImmediate(t *testing.T) {
	as := assert.New(t)

	tests := []struct {
		name    string
		value   uint8
		expectZ bool
		expectN bool
	}{
		{"zero sets Z", 0x00, true, false},
		{"positive clears flags", 0x42, false, false},
		{"bit 7 set sets N", 0x80, false, true},
		{"max value sets N", 0xFF, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, bus := newTestCPU()
			c.PC = 0x0200
			bus.mem[0x0200] = LDA_IMM
			bus.mem[0x0201] = tc.value

			cycles := c.Step()

			as.Equal(uint8(2), cycles)
			as.Equal(tc.value, c.A)
			as.Equal(tc.expectZ, c.zFlag == 0)
			as.Equal(tc.expectN, c.nFlag&0x80 != 0)
		})
	}
}

func TestPageCrossAddsCycle(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.X = 0xFF
	bus.mem[0x0200] = LDA_ABX
	bus.mem[0x0201] = 0x80
	bus.mem[0x0202] = 0x02 // base 0x0280, +0xFF crosses into 0x037F
	bus.mem[0x037F] = 0x55

	cycles := c.Step()

	as.Equal(uint8(5), cycles)
	as.Equal(uint8(0x55), c.A)
}

func TestIndexedWriteAlwaysCostsExtraCycle(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.X = 0x01
	bus.mem[0x0200] = STA_ABX
	bus.mem[0x0201] = 0x00
	bus.mem[0x0202] = 0x02 // no page cross at all
	c.A = 0x99

	cycles := c.Step()

	as.Equal(uint8(5), cycles)
	as.Equal(uint8(0x99), bus.mem[0x0201])
}

func TestBranchTakenCrossingPageCosts4Cycles(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x02F0
	bus.mem[0x02F0] = BEQ
	bus.mem[0x02F1] = 0x20 // 0x02F2 + 0x20 = 0x0312, crosses page
	c.SetFlags(false, true, false, false, false, false)

	cycles := c.Step()

	as.Equal(uint8(4), cycles)
	as.Equal(uint16(0x0312), c.PC)
}

func TestStackAndStatusRoundTrip(t *testing.T) {
	as := assert.New(t)
	c, _ := newTestCPU()
	c.SetFlags(true, false, true, true, true, true)
	p := c.Status(false)

	c.SetStatus(0)
	c.SetStatus(p)

	carry, zero, irqD, dec, ovf, neg := c.Flags()
	as.True(carry)
	as.False(zero)
	as.True(irqD)
	as.True(dec)
	as.True(ovf)
	as.True(neg)
}

func TestBRKPushesBreakFlagAndJumpsToIRQVector(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x03
	c.PC = 0x0200
	bus.mem[0x0200] = BRK

	cycles := c.Step()

	as.Equal(uint8(7), cycles)
	as.Equal(uint16(0x0300), c.PC)
	pushedStatus := bus.mem[0x01FB]
	as.NotZero(pushedStatus&FlagB, "break flag should be set in the pushed status")
}

func TestNMITakesPriorityOverIRQ(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	bus.mem[0xFFFA] = 0x00
	bus.mem[0xFFFB] = 0x04
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x05
	c.PC = 0x0200
	c.irqD = false
	bus.irq = true
	bus.nmi = true

	c.Step()

	as.Equal(uint16(0x0400), c.PC)
}

func TestIRQIgnoredWhenDisabled(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	bus.mem[0x0200] = NOP
	c.PC = 0x0200
	c.irqD = true
	bus.irq = true

	cycles := c.Step()

	as.Equal(uint8(2), cycles)
	as.Equal(uint16(0x0201), c.PC)
}

func TestJamFreezesPCAndNotifiesOnce(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	bus.mem[0x0200] = 0x02 // undefined opcode, genuine KIL

	var notified int
	var notifiedPC uint16
	c.OnJam = func(pc uint16, opcode uint8) {
		notified++
		notifiedPC = pc
	}

	c.Step()
	as.True(c.Jammed())
	as.Equal(1, notified)
	as.Equal(uint16(0x0200), notifiedPC)
	as.Equal(uint16(0x0200), c.PC)

	cycles := c.Step()
	as.Equal(uint8(0), cycles)
	as.Equal(1, notified, "jam handler fires only once")
}

func TestExtensionHookConsultedOnF2(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	bus.mem[0x0200] = EXT

	c.Step()

	as.Equal(1, bus.extensions)
	as.True(c.Jammed(), "bus declined the hook, so CPU should jam rather than silently continue")
}

func TestResetLoadsVectorAndPowerUpState(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	bus.mem[0xFFFC] = 0x34
	bus.mem[0xFFFD] = 0x12
	c.A, c.X, c.Y = 1, 2, 3

	c.Reset()

	as.Equal(uint16(0x1234), c.PC)
	as.Equal(uint8(0xFD), c.SP)
	as.Equal(uint8(0), c.A)
	as.True(c.irqD)
}

func TestDecimalModeAdditionMatchesBCDExpectation(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.decim = true
	c.A = 0x09
	c.carry = false
	bus.mem[0x0200] = ADC_IMM
	bus.mem[0x0201] = 0x01

	c.Step()

	as.Equal(uint8(0x10), c.A)
	as.False(c.carry)
}
