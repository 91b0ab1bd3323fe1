// Package iec models the wired-AND serial bus connecting the main
// computer's CIA2 to the 1541 disk drive. Each of the three lines
// (ATN, CLK, DATA) is an open-collector output: any participant
// pulling it low wins, so the bus's released/high state is the
// logical AND of every participant's own released/high contribution
// (true here means "released, reads back high"; a participant that
// is actively pulling a line low contributes false).
package iec

// Lines is one participant's view of (or contribution to) the bus.
type Lines struct {
	ATN  bool
	CLK  bool
	DATA bool
}

// Combine wire-ANDs any number of participant contributions into the
// resulting bus state.
func Combine(participants ...Lines) Lines {
	result := Lines{ATN: true, CLK: true, DATA: true}
	for _, p := range participants {
		result.ATN = result.ATN && p.ATN
		result.CLK = result.CLK && p.CLK
		result.DATA = result.DATA && p.DATA
	}
	return result
}

// CalcIECLines reproduces the drive's ATN-acknowledge wiring: the
// drive's own port contribution (self) and CIA2's port contribution
// (cia2) are ANDed together, then ANDed again with the computer-side
// bus byte (bus) XORed against the drive's ATN-ack latch (atnAck) and
// shifted so the ack term lands on DATA; 0xdf leaves every bit but
// DATA unconditionally passed through.
func CalcIECLines(self, cia2, bus uint8, atnAck uint8) uint8 {
	return (self & cia2) & (((bus ^ atnAck) << 2) | 0xdf)
}
