package cpu

// Opcode constants, named by instruction and addressing mode following
// the teacher's convention (IMM/ZP/ZPX/ZPY/ABS/ABX/ABY/INX/INY/REL/ACC).
const (
	// Load/Store
	LDA_IMM, LDA_ZP, LDA_ZPX, LDA_ABS, LDA_ABX, LDA_ABY, LDA_INX, LDA_INY = 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1
	LDX_IMM, LDX_ZP, LDX_ZPY, LDX_ABS, LDX_ABY                           = 0xA2, 0xA6, 0xB6, 0xAE, 0xBE
	LDY_IMM, LDY_ZP, LDY_ZPX, LDY_ABS, LDY_ABX                           = 0xA0, 0xA4, 0xB4, 0xAC, 0xBC
	STA_ZP, STA_ZPX, STA_ABS, STA_ABX, STA_ABY, STA_INX, STA_INY         = 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91
	STX_ZP, STX_ZPY, STX_ABS                                             = 0x86, 0x96, 0x8E
	STY_ZP, STY_ZPX, STY_ABS                                             = 0x84, 0x94, 0x8C

	// Register transfers
	TAX, TAY, TXA, TYA, TSX, TXS = 0xAA, 0xA8, 0x8A, 0x98, 0xBA, 0x9A

	// Stack
	PHA, PHP, PLA, PLP = 0x48, 0x08, 0x68, 0x28

	// Logical
	AND_IMM, AND_ZP, AND_ZPX, AND_ABS, AND_ABX, AND_ABY, AND_INX, AND_INY = 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31
	EOR_IMM, EOR_ZP, EOR_ZPX, EOR_ABS, EOR_ABX, EOR_ABY, EOR_INX, EOR_INY = 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51
	ORA_IMM, ORA_ZP, ORA_ZPX, ORA_ABS, ORA_ABX, ORA_ABY, ORA_INX, ORA_INY = 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11
	BIT_ZP, BIT_ABS                                                      = 0x24, 0x2C

	// Arithmetic
	ADC_IMM, ADC_ZP, ADC_ZPX, ADC_ABS, ADC_ABX, ADC_ABY, ADC_INX, ADC_INY = 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71
	SBC_IMM, SBC_ZP, SBC_ZPX, SBC_ABS, SBC_ABX, SBC_ABY, SBC_INX, SBC_INY = 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1
	CMP_IMM, CMP_ZP, CMP_ZPX, CMP_ABS, CMP_ABX, CMP_ABY, CMP_INX, CMP_INY = 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1
	CPX_IMM, CPX_ZP, CPX_ABS                                             = 0xE0, 0xE4, 0xEC
	CPY_IMM, CPY_ZP, CPY_ABS                                             = 0xC0, 0xC4, 0xCC

	// Inc/Dec
	INC_ZP, INC_ZPX, INC_ABS, INC_ABX = 0xE6, 0xF6, 0xEE, 0xFE
	DEC_ZP, DEC_ZPX, DEC_ABS, DEC_ABX = 0xC6, 0xD6, 0xCE, 0xDE
	INX, INY, DEX, DEY                = 0xE8, 0xC8, 0xCA, 0x88

	// Shifts
	ASL_ACC, ASL_ZP, ASL_ZPX, ASL_ABS, ASL_ABX = 0x0A, 0x06, 0x16, 0x0E, 0x1E
	LSR_ACC, LSR_ZP, LSR_ZPX, LSR_ABS, LSR_ABX = 0x4A, 0x46, 0x56, 0x4E, 0x5E
	ROL_ACC, ROL_ZP, ROL_ZPX, ROL_ABS, ROL_ABX = 0x2A, 0x26, 0x36, 0x2E, 0x3E
	ROR_ACC, ROR_ZP, ROR_ZPX, ROR_ABS, ROR_ABX = 0x6A, 0x66, 0x76, 0x6E, 0x7E

	// Jumps & calls
	JMP_ABS, JMP_IND, JSR_ABS, RTS = 0x4C, 0x6C, 0x20, 0x60

	// Branches
	BCC, BCS, BEQ, BMI, BNE, BPL, BVC, BVS = 0x90, 0xB0, 0xF0, 0x30, 0xD0, 0x10, 0x50, 0x70

	// Flags
	CLC, CLD, CLI, CLV, SEC, SED, SEI = 0x18, 0xD8, 0x58, 0xB8, 0x38, 0xF8, 0x78

	// System
	BRK, NOP, RTI = 0x00, 0xEA, 0x40

	// Emulator escape hatch (real silicon: KIL). The drive CPU's bus
	// intercepts this; the main CPU's bus treats it as a jam.
	EXT = 0xF2
)

// Illegal opcodes, limited to the stable, widely-documented subset.
const (
	LAX_ZP, LAX_ZPY, LAX_ABS, LAX_ABY, LAX_INX, LAX_INY = 0xA7, 0xB7, 0xAF, 0xBF, 0xA3, 0xB3
	SAX_ZP, SAX_ZPY, SAX_ABS, SAX_INX                   = 0x87, 0x97, 0x8F, 0x83
	DCP_ZP, DCP_ZPX, DCP_ABS, DCP_ABX, DCP_ABY, DCP_INX, DCP_INY = 0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3
	ISC_ZP, ISC_ZPX, ISC_ABS, ISC_ABX, ISC_ABY, ISC_INX, ISC_INY = 0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3
	SLO_ZP, SLO_ZPX, SLO_ABS, SLO_ABX, SLO_ABY, SLO_INX, SLO_INY = 0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13
	RLA_ZP, RLA_ZPX, RLA_ABS, RLA_ABX, RLA_ABY, RLA_INX, RLA_INY = 0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33
	SRE_ZP, SRE_ZPX, SRE_ABS, SRE_ABX, SRE_ABY, SRE_INX, SRE_INY = 0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53
	RRA_ZP, RRA_ZPX, RRA_ABS, RRA_ABX, RRA_ABY, RRA_INX, RRA_INY = 0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73
	ANC_IMM, ANC_IMM2                                            = 0x0B, 0x2B
	ALR_IMM                                                      = 0x4B
	ARR_IMM                                                      = 0x6B
	AXS_IMM                                                      = 0xCB
	SBC_IMM2                                                     = 0xEB

	NOP_IMP1, NOP_IMP2, NOP_IMP3, NOP_IMP4, NOP_IMP5, NOP_IMP6 = 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA
	NOP_IMM1, NOP_IMM2, NOP_IMM3, NOP_IMM4, NOP_IMM5           = 0x80, 0x82, 0x89, 0xC2, 0xE2
	NOP_ZP1, NOP_ZP2, NOP_ZP3                                  = 0x04, 0x44, 0x64
	NOP_ZPX1, NOP_ZPX2, NOP_ZPX3, NOP_ZPX4, NOP_ZPX5, NOP_ZPX6 = 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4
	NOP_ABS                                                    = 0x0C
	NOP_ABX1, NOP_ABX2, NOP_ABX3, NOP_ABX4, NOP_ABX5, NOP_ABX6 = 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC
)
