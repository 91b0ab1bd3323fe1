package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLAXLoadsBothAAndX(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	bus.mem[0x0200] = LAX_ZP
	bus.mem[0x0201] = 0x10
	bus.mem[0x0010] = 0x77

	c.Step()

	as.Equal(uint8(0x77), c.A)
	as.Equal(uint8(0x77), c.X)
}

func TestSAXStoresAANDX(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.A = 0xF0
	c.X = 0x3C
	bus.mem[0x0200] = SAX_ZP
	bus.mem[0x0201] = 0x10

	c.Step()

	as.Equal(uint8(0xF0&0x3C), bus.mem[0x0010])
}

func TestDCPDecrementsThenCompares(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.A = 0x10
	bus.mem[0x0200] = DCP_ZP
	bus.mem[0x0201] = 0x10
	bus.mem[0x0010] = 0x11

	c.Step()

	as.Equal(uint8(0x10), bus.mem[0x0010])
	as.True(c.zFlag == 0, "A == decremented memory should set Z")
}

func TestISCIncrementsThenSubtracts(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.A = 0x10
	c.carry = true
	bus.mem[0x0200] = ISC_ZP
	bus.mem[0x0201] = 0x10
	bus.mem[0x0010] = 0x04

	c.Step()

	as.Equal(uint8(0x05), bus.mem[0x0010])
	as.Equal(uint8(0x0B), c.A)
}

func TestNOPVariantsConsumeOperandsAndCycles(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	bus.mem[0x0200] = NOP_ABX1
	bus.mem[0x0201] = 0x00
	bus.mem[0x0202] = 0x02

	cycles := c.Step()

	as.Equal(uint8(4), cycles)
	as.Equal(uint16(0x0203), c.PC)
}

func TestANCSetsCarryFromNegativeResult(t *testing.T) {
	as := assert.New(t)
	c, bus := newTestCPU()
	c.PC = 0x0200
	c.A = 0xFF
	bus.mem[0x0200] = ANC_IMM
	bus.mem[0x0201] = 0x80

	c.Step()

	as.Equal(uint8(0x80), c.A)
	as.True(c.carry)
}
