package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDevice struct {
	reads  map[uint8]uint8
	writes map[uint8]uint8
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{reads: map[uint8]uint8{}, writes: map[uint8]uint8{}}
}

func (f *fakeDevice) ReadRegister(reg uint8) uint8 { return f.reads[reg] }
func (f *fakeDevice) WriteRegister(reg uint8, v uint8) { f.writes[reg] = v }

func TestBasicAndKernalROMBankInByDefault(t *testing.T) {
	as := assert.New(t)
	b := NewBus()
	as.NoError(b.LoadROM(make([]uint8, 8192), "basic"))
	as.NoError(b.LoadROM(make([]uint8, 8192), "kernal"))
	b.basic[0] = 0xAA
	b.kernal[0] = 0xBB
	b.ram[BasicROMStart] = 0x11
	b.ram[KernalROMStart] = 0x22

	as.Equal(uint8(0xAA), b.Read(BasicROMStart))
	as.Equal(uint8(0xBB), b.Read(KernalROMStart))
}

func TestProcessorPortBanksOutROMsWhenCleared(t *testing.T) {
	as := assert.New(t)
	b := NewBus()
	b.ram[BasicROMStart] = 0x11
	b.ram[KernalROMStart] = 0x22

	b.Write(ProcessorPort, 0x00)

	as.Equal(uint8(0x11), b.Read(BasicROMStart))
	as.Equal(uint8(0x22), b.Read(KernalROMStart))
}

func TestIOWindowDispatchesToCIA1(t *testing.T) {
	as := assert.New(t)
	b := NewBus()
	cia1 := newFakeDevice()
	cia1.reads[0x0D] = 0x42
	b.CIA1 = cia1

	as.Equal(uint8(0x42), b.Read(CIA1Start+0x0D))

	b.Write(CIA1Start+0x00, 0x55)
	as.Equal(uint8(0x55), cia1.writes[0x00])
}

func TestCharROMVisibleWhenCHARENClear(t *testing.T) {
	as := assert.New(t)
	b := NewBus()
	b.char[0] = 0x99
	b.Write(ProcessorPort, 0x03) // LORAM+HIRAM set, CHAREN clear

	as.Equal(uint8(0x99), b.Read(CharROMStart))
}

func TestColorRAMOnlyExposesLowNibble(t *testing.T) {
	as := assert.New(t)
	b := NewBus()
	b.Write(ProcessorPort, 0x07) // CHAREN set, I/O window visible
	b.Write(ColorRAMStart, 0xFF)

	as.Equal(uint8(0x0F), b.Read(ColorRAMStart))
}

func TestResetPendingFiresOnlyOnce(t *testing.T) {
	as := assert.New(t)
	b := NewBus()

	as.True(b.ResetPending())
	as.False(b.ResetPending())
}
