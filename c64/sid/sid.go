// Package sid is a register-file stub for the 6581 SID sound chip.
// Audio synthesis is an external collaborator per spec.md §1's scope
// (out of scope beyond the pins/registers this core's bus dispatches
// to); this package only keeps the register state a real SID would
// expose to CPU reads/writes so c64/mem's I/O window dispatch and a
// snapshot have somewhere real to land.
package sid

type Voice struct {
	frequency   uint16
	pulseWidth  uint16
	waveform    uint8
	attack      uint8
	decay       uint8
	sustain     uint8
	release     uint8
	gateEnabled bool
}

type SID struct {
	voices [3]Voice
	volume uint8

	filterCutoff    uint16
	filterResonance uint8
	filterMode      uint8
	filterEnabled   [3]bool
	Clock           int
}

func NewSID() *SID {
	return &SID{}
}

func (s *SID) Update() {
	// No-op: no audio state is kept or advanced
}

func (s *SID) AddDelta(i int) {

}

// Per-voice register offsets, repeated at +0, +7, +14 for voices 1-3.
const (
	RegFreqLo    = 0x00
	RegFreqHi    = 0x01
	RegPWLo      = 0x02
	RegPWHi      = 0x03
	RegControl   = 0x04
	RegAttackDecay = 0x05
	RegSustainRelease = 0x06

	RegFilterCutoffLo = 0x15
	RegFilterCutoffHi = 0x16
	RegResonanceFilt  = 0x17
	RegModeVolume     = 0x18
)

// WriteRegister implements mem.Device for the SID's 29-register block
// (mirrored across $D400-$D7FF). Only register state is kept; no
// audio is synthesized (out of scope per spec.md §1).
func (s *SID) WriteRegister(reg uint8, value uint8) {
	if reg < 0x15 {
		v := &s.voices[reg/7]
		switch reg % 7 {
		case RegFreqLo:
			v.frequency = (v.frequency & 0xFF00) | uint16(value)
		case RegFreqHi:
			v.frequency = (v.frequency & 0x00FF) | uint16(value)<<8
		case RegPWLo:
			v.pulseWidth = (v.pulseWidth & 0xFF00) | uint16(value)
		case RegPWHi:
			v.pulseWidth = (v.pulseWidth & 0x00FF) | uint16(value&0x0F)<<8
		case RegControl:
			v.waveform = value
			v.gateEnabled = value&0x01 != 0
		case RegAttackDecay:
			v.attack = value >> 4
			v.decay = value & 0x0F
		case RegSustainRelease:
			v.sustain = value >> 4
			v.release = value & 0x0F
		}
		return
	}
	switch reg {
	case RegFilterCutoffLo:
		s.filterCutoff = (s.filterCutoff & 0x07F8) | uint16(value&0x07)
	case RegFilterCutoffHi:
		s.filterCutoff = (s.filterCutoff & 0x0007) | uint16(value)<<3
	case RegResonanceFilt:
		s.filterResonance = value >> 4
		for i := range s.filterEnabled {
			s.filterEnabled[i] = value&(1<<uint(i)) != 0
		}
	case RegModeVolume:
		s.filterMode = value >> 4
		s.volume = value & 0x0F
	}
}

// ReadRegister implements mem.Device. Real SID read-back is limited to
// the oscillator/envelope outputs of voice 3 and the A/D converter
// inputs; this stub returns 0 for those since no synthesis runs.
func (s *SID) ReadRegister(reg uint8) uint8 {
	return 0
}

// State is the serializable subset of SID register state.
type State struct {
	Voices          [3]Voice
	Volume          uint8
	FilterCutoff    uint16
	FilterResonance uint8
	FilterMode      uint8
	FilterEnabled   [3]bool
}

func (s *SID) GetState() State {
	return State{
		Voices: s.voices, Volume: s.volume,
		FilterCutoff: s.filterCutoff, FilterResonance: s.filterResonance,
		FilterMode: s.filterMode, FilterEnabled: s.filterEnabled,
	}
}

func (s *SID) SetState(st State) {
	s.voices = st.Voices
	s.volume = st.Volume
	s.filterCutoff = st.FilterCutoff
	s.filterResonance = st.FilterResonance
	s.filterMode = st.FilterMode
	s.filterEnabled = st.FilterEnabled
}
