package vic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	ram   [16384]uint8
	color [1024]uint8
}

func (b *fakeBus) VICRead(addr uint16) uint8     { return b.ram[addr&0x3FFF] }
func (b *fakeBus) ColorRAM(offset uint16) uint8  { return b.color[offset&0x03FF] }

func newTestVIC() (*VIC, *fakeBus) {
	bus := &fakeBus{}
	v := NewVIC(bus)
	v.WriteRegister(RegScreenControl1, SC1DEN|SC1RSEL)
	v.WriteRegister(RegScreenControl2, SC2CSEL)
	v.WriteRegister(RegMemPointers, 0x10) // video matrix at $0400, char gen at bank base
	return v, bus
}

func TestModeSelection(t *testing.T) {
	as := assert.New(t)
	v, _ := newTestVIC()
	as.Equal(ModeStandardText, v.mode())

	v.WriteRegister(RegScreenControl2, SC2CSEL|SC2MCM)
	as.Equal(ModeMulticolorText, v.mode())

	v.WriteRegister(RegScreenControl1, SC1DEN|SC1RSEL|SC1BMM)
	as.Equal(ModeMulticolorBitmap, v.mode())

	v.WriteRegister(RegScreenControl1, SC1DEN|SC1RSEL|SC1ECM|SC1BMM)
	as.Equal(ModeInvalid, v.mode())
}

func TestBadLineDetectedInRangeWithMatchingScroll(t *testing.T) {
	as := assert.New(t)
	v, _ := newTestVIC()
	v.RasterY = FirstBadLine

	v.StepLine()

	as.True(v.BadLine())
}

func TestBadLineSuppressedWhenDisplayDisabled(t *testing.T) {
	as := assert.New(t)
	v, _ := newTestVIC()
	v.WriteRegister(RegScreenControl1, SC1RSEL) // DEN clear
	v.RasterY = FirstBadLine

	v.StepLine()

	as.False(v.BadLine())
}

func TestStandardTextRendersForegroundColorFromColorRAM(t *testing.T) {
	as := assert.New(t)
	v, bus := newTestVIC()
	bus.ram[0x0400] = 1                  // screen code
	bus.color[0] = 5                     // char color
	bus.ram[1*8] = 0xFF                  // char bitmap row 0 fully set
	v.RasterY = FirstVisLine

	v.StepLine()

	as.Equal(uint8(5), v.Frame[textAreaStart])
}

func TestRasterIRQFiresAtConfiguredLine(t *testing.T) {
	as := assert.New(t)
	v, _ := newTestVIC()
	v.WriteRegister(RegRaster, 100)
	v.WriteRegister(RegInterruptEnable, IRQRaster)
	v.RasterY = 100

	v.StepLine()

	as.True(v.IRQ())
}

func TestSpriteSpriteCollisionLatched(t *testing.T) {
	as := assert.New(t)
	v, bus := newTestVIC()
	bus.ram[0x0400+0x07F8+0] = 0 // sprite 0 pointer -> bank offset 0
	bus.ram[0x0400+0x07F8+1] = 0 // sprite 1 same pointer, same data: guaranteed overlap
	bus.ram[0] = 0xFF           // sprite byte 0 fully set

	v.sprites[0] = Sprite{X: 0, Y: FirstVisLine, Enabled: true, Color: 1}
	v.sprites[1] = Sprite{X: 0, Y: FirstVisLine, Enabled: true, Color: 2}
	v.RasterY = FirstVisLine

	v.StepLine()

	as.NotZero(v.ReadRegister(RegSpriteCollision) & 0x03)
}

func TestCollisionRegisterClearsOnRead(t *testing.T) {
	as := assert.New(t)
	v, _ := newTestVIC()
	v.clxSpr = 0x03

	first := v.ReadRegister(RegSpriteCollision)
	second := v.ReadRegister(RegSpriteCollision)

	as.Equal(uint8(0x03), first)
	as.Zero(second)
}

func TestSpriteJustInsideRightEdgeRenders(t *testing.T) {
	as := assert.New(t)
	v, bus := newTestVIC()
	bus.ram[0x0400+0x07F8] = 0 // sprite 0 pointer -> bank offset 0
	bus.ram[0] = 0xFF          // sprite byte 0 fully set

	v.sprites[0] = Sprite{X: DisplayX - 33, Y: FirstVisLine, Enabled: true, Color: 2}
	v.RasterY = FirstVisLine

	v.StepLine()

	as.Zero(v.clxSpr & 0x01) // no other sprite to collide with; just confirms no panic/clip past the edge
	startX := int(DisplayX-33) + textAreaStart - 24
	as.Equal(uint8(2), v.Frame[startX])
}

func TestSpriteOffRightEdgeDropped(t *testing.T) {
	as := assert.New(t)
	v, bus := newTestVIC()
	bus.ram[0x0400+0x07F8] = 0 // sprite 0 pointer -> bank offset 0
	bus.ram[0] = 0xFF          // sprite byte 0 fully set

	v.sprites[0] = Sprite{X: DisplayX - 32, Y: FirstVisLine, Enabled: true, Color: 2}
	v.RasterY = FirstVisLine

	v.StepLine()

	startX := int(DisplayX-32) + textAreaStart - 24
	as.NotEqual(uint8(2), v.Frame[startX], "sprite at DisplayX-32 is dropped, not clipped")
}

func TestMulticolorTextUsesSharedAndPerCharColors(t *testing.T) {
	as := assert.New(t)
	v, bus := newTestVIC()
	v.WriteRegister(RegScreenControl2, SC2CSEL|SC2MCM)
	v.WriteRegister(RegBgColor0, 2) // %00 -> background
	v.WriteRegister(RegBgColor1, 3) // %01 -> shared multicolor register 1
	v.WriteRegister(RegBgColor2, 4) // %10 -> shared multicolor register 2
	bus.ram[0x0400] = 1
	bus.color[0] = 0x0D          // bit 3 set selects the multicolor branch; low nibble 5 is %11's color
	bus.ram[1*8] = 0b01_10_11_00 // four 2-bit pixel pairs, MSB first: %01 %10 %11 %00
	v.RasterY = FirstVisLine

	v.StepLine()

	as.Equal(uint8(3), v.Frame[textAreaStart+0], "%01 pixel pair renders multicolor register 1")
	as.Equal(uint8(4), v.Frame[textAreaStart+2], "%10 pixel pair renders multicolor register 2")
	as.Equal(uint8(5), v.Frame[textAreaStart+4], "%11 pixel pair renders the char's own color from color RAM")
	as.Equal(uint8(2), v.Frame[textAreaStart+6], "%00 pixel pair renders the shared background color")
}
