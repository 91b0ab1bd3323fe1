package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixReadColumnsReflectsPressedKey(t *testing.T) {
	as := assert.New(t)
	var m Matrix
	m.SetKey(2, 5, true)

	as.Equal(uint8(0xFF), m.ReadColumns(0xFF), "no rows selected, no columns pulled low")

	col := m.ReadColumns(^uint8(1 << 2))
	as.Equal(uint8(0xFF&^(1<<5)), col)
}

func TestJoystickBitsActiveLow(t *testing.T) {
	as := assert.New(t)
	j := Joystick{Up: true, Fire: true}
	as.Equal(uint8(0x1F&^0x01&^0x10), j.bits())
}

func TestCIA1PeripheralsCombinesKeyboardAndJoystick1(t *testing.T) {
	as := assert.New(t)
	mb := &Mailbox{}
	mb.Keyboard.SetKey(0, 0, true)
	mb.Joystick1 = Joystick{Fire: true}

	p := CIA1Peripherals{Mailbox: mb}
	col := p.ReadPortB(0, ^uint8(1))

	as.Equal(uint8(0xFF&^(1<<0)&^0x10), col)
}

func TestCIA1PeripheralsPortSwapMovesJoystick1ToPortA(t *testing.T) {
	as := assert.New(t)
	mb := &Mailbox{PortsSwapped: true, Joystick1: Joystick{Fire: true}}

	p := CIA1Peripherals{Mailbox: mb}
	as.Equal(Joystick{Fire: true}.bits()|0xE0, p.ReadPortA(0))
}

func TestCIA2PeripheralsReflectsIECLines(t *testing.T) {
	as := assert.New(t)
	p := CIA2Peripherals{IECLines: func() (bool, bool, bool) { return true, false, true }}

	result := p.ReadPortA(0)

	as.Zero(result & 0x08)
	as.NotZero(result & 0x40)
	as.Zero(result & 0x80)
}
