package iec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineIsWiredAnd(t *testing.T) {
	as := assert.New(t)

	result := Combine(
		Lines{ATN: true, CLK: true, DATA: true},
		Lines{ATN: true, CLK: false, DATA: true},
	)

	as.True(result.ATN)
	as.False(result.CLK, "one participant pulling CLK low wins over the bus")
	as.True(result.DATA)
}

func TestCombineWithNoParticipantsIsIdle(t *testing.T) {
	as := assert.New(t)
	result := Combine()
	as.Equal(Lines{ATN: true, CLK: true, DATA: true}, result)
}

func TestCalcIECLinesMasksAllButData(t *testing.T) {
	as := assert.New(t)

	// self and cia2 fully open, bus all high, no ack mismatch.
	result := CalcIECLines(0xFF, 0xFF, 0xFF, 0)
	as.Equal(uint8(0xFF), result)
}

func TestCalcIECLinesNarrowsOnSelfOrCia2(t *testing.T) {
	as := assert.New(t)
	result := CalcIECLines(0x00, 0xFF, 0xFF, 0)
	as.Equal(uint8(0x00), result)
}
