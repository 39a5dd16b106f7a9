package cpu

// AddressingMode identifies how an instruction's operand address is resolved.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Instruction describes one decoded opcode entry: its mnemonic, addressing
// mode, total encoded length in bytes, and base cycle cost before any
// page-cross/branch-taken penalty.
type Instruction struct {
	Name   string
	Mode   AddressingMode
	Length uint8
	Cycles uint8
}

// opcodes is the 256-entry decode table. Entries not set explicitly keep the
// default {"NOP", Implied, 1, 2}: opcodes this module does not model
// individually execute as a 1-byte, 2-cycle NOP.
var opcodes = buildOpcodeTable()

func buildOpcodeTable() [256]Instruction {
	var t [256]Instruction
	for i := range t {
		t[i] = Instruction{Name: "NOP", Mode: Implied, Length: 1, Cycles: 2}
	}

	set := func(op uint8, name string, mode AddressingMode, length, cycles uint8) {
		t[op] = Instruction{Name: name, Mode: mode, Length: length, Cycles: cycles}
	}

	// Load/store
	set(0xA9, "LDA", Immediate, 2, 2)
	set(0xA5, "LDA", ZeroPage, 2, 3)
	set(0xB5, "LDA", ZeroPageX, 2, 4)
	set(0xAD, "LDA", Absolute, 3, 4)
	set(0xBD, "LDA", AbsoluteX, 3, 4)
	set(0xB9, "LDA", AbsoluteY, 3, 4)
	set(0xA1, "LDA", IndexedIndirect, 2, 6)
	set(0xB1, "LDA", IndirectIndexed, 2, 5)

	set(0xA2, "LDX", Immediate, 2, 2)
	set(0xA6, "LDX", ZeroPage, 2, 3)
	set(0xB6, "LDX", ZeroPageY, 2, 4)
	set(0xAE, "LDX", Absolute, 3, 4)
	set(0xBE, "LDX", AbsoluteY, 3, 4)

	set(0xA0, "LDY", Immediate, 2, 2)
	set(0xA4, "LDY", ZeroPage, 2, 3)
	set(0xB4, "LDY", ZeroPageX, 2, 4)
	set(0xAC, "LDY", Absolute, 3, 4)
	set(0xBC, "LDY", AbsoluteX, 3, 4)

	set(0x85, "STA", ZeroPage, 2, 3)
	set(0x95, "STA", ZeroPageX, 2, 4)
	set(0x8D, "STA", Absolute, 3, 4)
	set(0x9D, "STA", AbsoluteX, 3, 5)
	set(0x99, "STA", AbsoluteY, 3, 5)
	set(0x81, "STA", IndexedIndirect, 2, 6)
	set(0x91, "STA", IndirectIndexed, 2, 6)

	set(0x86, "STX", ZeroPage, 2, 3)
	set(0x96, "STX", ZeroPageY, 2, 4)
	set(0x8E, "STX", Absolute, 3, 4)

	set(0x84, "STY", ZeroPage, 2, 3)
	set(0x94, "STY", ZeroPageX, 2, 4)
	set(0x8C, "STY", Absolute, 3, 4)

	// Transfers
	set(0xAA, "TAX", Implied, 1, 2)
	set(0xA8, "TAY", Implied, 1, 2)
	set(0xBA, "TSX", Implied, 1, 2)
	set(0x8A, "TXA", Implied, 1, 2)
	set(0x9A, "TXS", Implied, 1, 2)
	set(0x98, "TYA", Implied, 1, 2)

	// Stack
	set(0x48, "PHA", Implied, 1, 3)
	set(0x08, "PHP", Implied, 1, 3)
	set(0x68, "PLA", Implied, 1, 4)
	set(0x28, "PLP", Implied, 1, 4)

	// Arithmetic
	set(0x69, "ADC", Immediate, 2, 2)
	set(0x65, "ADC", ZeroPage, 2, 3)
	set(0x75, "ADC", ZeroPageX, 2, 4)
	set(0x6D, "ADC", Absolute, 3, 4)
	set(0x7D, "ADC", AbsoluteX, 3, 4)
	set(0x79, "ADC", AbsoluteY, 3, 4)
	set(0x61, "ADC", IndexedIndirect, 2, 6)
	set(0x71, "ADC", IndirectIndexed, 2, 5)

	set(0xE9, "SBC", Immediate, 2, 2)
	set(0xE5, "SBC", ZeroPage, 2, 3)
	set(0xF5, "SBC", ZeroPageX, 2, 4)
	set(0xED, "SBC", Absolute, 3, 4)
	set(0xFD, "SBC", AbsoluteX, 3, 4)
	set(0xF9, "SBC", AbsoluteY, 3, 4)
	set(0xE1, "SBC", IndexedIndirect, 2, 6)
	set(0xF1, "SBC", IndirectIndexed, 2, 5)
	set(0xEB, "SBC", Immediate, 2, 2) // unofficial SBC #imm alias

	// Logical
	set(0x29, "AND", Immediate, 2, 2)
	set(0x25, "AND", ZeroPage, 2, 3)
	set(0x35, "AND", ZeroPageX, 2, 4)
	set(0x2D, "AND", Absolute, 3, 4)
	set(0x3D, "AND", AbsoluteX, 3, 4)
	set(0x39, "AND", AbsoluteY, 3, 4)
	set(0x21, "AND", IndexedIndirect, 2, 6)
	set(0x31, "AND", IndirectIndexed, 2, 5)

	set(0x09, "ORA", Immediate, 2, 2)
	set(0x05, "ORA", ZeroPage, 2, 3)
	set(0x15, "ORA", ZeroPageX, 2, 4)
	set(0x0D, "ORA", Absolute, 3, 4)
	set(0x1D, "ORA", AbsoluteX, 3, 4)
	set(0x19, "ORA", AbsoluteY, 3, 4)
	set(0x01, "ORA", IndexedIndirect, 2, 6)
	set(0x11, "ORA", IndirectIndexed, 2, 5)

	set(0x49, "EOR", Immediate, 2, 2)
	set(0x45, "EOR", ZeroPage, 2, 3)
	set(0x55, "EOR", ZeroPageX, 2, 4)
	set(0x4D, "EOR", Absolute, 3, 4)
	set(0x5D, "EOR", AbsoluteX, 3, 4)
	set(0x59, "EOR", AbsoluteY, 3, 4)
	set(0x41, "EOR", IndexedIndirect, 2, 6)
	set(0x51, "EOR", IndirectIndexed, 2, 5)

	// Shifts/rotates
	set(0x0A, "ASL", Accumulator, 1, 2)
	set(0x06, "ASL", ZeroPage, 2, 5)
	set(0x16, "ASL", ZeroPageX, 2, 6)
	set(0x0E, "ASL", Absolute, 3, 6)
	set(0x1E, "ASL", AbsoluteX, 3, 7)

	set(0x4A, "LSR", Accumulator, 1, 2)
	set(0x46, "LSR", ZeroPage, 2, 5)
	set(0x56, "LSR", ZeroPageX, 2, 6)
	set(0x4E, "LSR", Absolute, 3, 6)
	set(0x5E, "LSR", AbsoluteX, 3, 7)

	set(0x2A, "ROL", Accumulator, 1, 2)
	set(0x26, "ROL", ZeroPage, 2, 5)
	set(0x36, "ROL", ZeroPageX, 2, 6)
	set(0x2E, "ROL", Absolute, 3, 6)
	set(0x3E, "ROL", AbsoluteX, 3, 7)

	set(0x6A, "ROR", Accumulator, 1, 2)
	set(0x66, "ROR", ZeroPage, 2, 5)
	set(0x76, "ROR", ZeroPageX, 2, 6)
	set(0x6E, "ROR", Absolute, 3, 6)
	set(0x7E, "ROR", AbsoluteX, 3, 7)

	// Increments/decrements
	set(0xE6, "INC", ZeroPage, 2, 5)
	set(0xF6, "INC", ZeroPageX, 2, 6)
	set(0xEE, "INC", Absolute, 3, 6)
	set(0xFE, "INC", AbsoluteX, 3, 7)
	set(0xE8, "INX", Implied, 1, 2)
	set(0xC8, "INY", Implied, 1, 2)

	set(0xC6, "DEC", ZeroPage, 2, 5)
	set(0xD6, "DEC", ZeroPageX, 2, 6)
	set(0xCE, "DEC", Absolute, 3, 6)
	set(0xDE, "DEC", AbsoluteX, 3, 7)
	set(0xCA, "DEX", Implied, 1, 2)
	set(0x88, "DEY", Implied, 1, 2)

	// Compare
	set(0xC9, "CMP", Immediate, 2, 2)
	set(0xC5, "CMP", ZeroPage, 2, 3)
	set(0xD5, "CMP", ZeroPageX, 2, 4)
	set(0xCD, "CMP", Absolute, 3, 4)
	set(0xDD, "CMP", AbsoluteX, 3, 4)
	set(0xD9, "CMP", AbsoluteY, 3, 4)
	set(0xC1, "CMP", IndexedIndirect, 2, 6)
	set(0xD1, "CMP", IndirectIndexed, 2, 5)

	set(0xE0, "CPX", Immediate, 2, 2)
	set(0xE4, "CPX", ZeroPage, 2, 3)
	set(0xEC, "CPX", Absolute, 3, 4)

	set(0xC0, "CPY", Immediate, 2, 2)
	set(0xC4, "CPY", ZeroPage, 2, 3)
	set(0xCC, "CPY", Absolute, 3, 4)

	// Branches
	set(0x90, "BCC", Relative, 2, 2)
	set(0xB0, "BCS", Relative, 2, 2)
	set(0xF0, "BEQ", Relative, 2, 2)
	set(0x30, "BMI", Relative, 2, 2)
	set(0xD0, "BNE", Relative, 2, 2)
	set(0x10, "BPL", Relative, 2, 2)
	set(0x50, "BVC", Relative, 2, 2)
	set(0x70, "BVS", Relative, 2, 2)

	// Jumps/calls
	set(0x4C, "JMP", Absolute, 3, 3)
	set(0x6C, "JMP", Indirect, 3, 5)
	set(0x20, "JSR", Absolute, 3, 6)
	set(0x60, "RTS", Implied, 1, 6)
	set(0x40, "RTI", Implied, 1, 6)
	set(0x00, "BRK", Implied, 1, 7)

	// Flags
	set(0x18, "CLC", Implied, 1, 2)
	set(0x38, "SEC", Implied, 1, 2)
	set(0xD8, "CLD", Implied, 1, 2)
	set(0xF8, "SED", Implied, 1, 2)
	set(0x58, "CLI", Implied, 1, 2)
	set(0x78, "SEI", Implied, 1, 2)
	set(0xB8, "CLV", Implied, 1, 2)

	// Bit test
	set(0x24, "BIT", ZeroPage, 2, 3)
	set(0x2C, "BIT", Absolute, 3, 4)

	// Unofficial NOPs with operands (cycle-accurate filler, no side effect beyond the read)
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", ZeroPage, 2, 3)
	}
	for _, op := range []uint8{0x0C} {
		set(op, "NOP", Absolute, 3, 4)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", ZeroPageX, 2, 4)
	}
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", Implied, 1, 2)
	}
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", AbsoluteX, 3, 4)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", Immediate, 2, 2)
	}

	// Illegal opcode family: LAX, SAX, DCP, ISB, SLO, RLA, SRE, RRA
	set(0xA7, "LAX", ZeroPage, 2, 3)
	set(0xB7, "LAX", ZeroPageY, 2, 4)
	set(0xAF, "LAX", Absolute, 3, 4)
	set(0xBF, "LAX", AbsoluteY, 3, 4)
	set(0xA3, "LAX", IndexedIndirect, 2, 6)
	set(0xB3, "LAX", IndirectIndexed, 2, 5)

	set(0x87, "SAX", ZeroPage, 2, 3)
	set(0x97, "SAX", ZeroPageY, 2, 4)
	set(0x8F, "SAX", Absolute, 3, 4)
	set(0x83, "SAX", IndexedIndirect, 2, 6)

	set(0xC7, "DCP", ZeroPage, 2, 5)
	set(0xD7, "DCP", ZeroPageX, 2, 6)
	set(0xCF, "DCP", Absolute, 3, 6)
	set(0xDF, "DCP", AbsoluteX, 3, 7)
	set(0xDB, "DCP", AbsoluteY, 3, 7)
	set(0xC3, "DCP", IndexedIndirect, 2, 8)
	set(0xD3, "DCP", IndirectIndexed, 2, 8)

	set(0xE7, "ISB", ZeroPage, 2, 5)
	set(0xF7, "ISB", ZeroPageX, 2, 6)
	set(0xEF, "ISB", Absolute, 3, 6)
	set(0xFF, "ISB", AbsoluteX, 3, 7)
	set(0xFB, "ISB", AbsoluteY, 3, 7)
	set(0xE3, "ISB", IndexedIndirect, 2, 8)
	set(0xF3, "ISB", IndirectIndexed, 2, 8)

	set(0x07, "SLO", ZeroPage, 2, 5)
	set(0x17, "SLO", ZeroPageX, 2, 6)
	set(0x0F, "SLO", Absolute, 3, 6)
	set(0x1F, "SLO", AbsoluteX, 3, 7)
	set(0x1B, "SLO", AbsoluteY, 3, 7)
	set(0x03, "SLO", IndexedIndirect, 2, 8)
	set(0x13, "SLO", IndirectIndexed, 2, 8)

	set(0x27, "RLA", ZeroPage, 2, 5)
	set(0x37, "RLA", ZeroPageX, 2, 6)
	set(0x2F, "RLA", Absolute, 3, 6)
	set(0x3F, "RLA", AbsoluteX, 3, 7)
	set(0x3B, "RLA", AbsoluteY, 3, 7)
	set(0x23, "RLA", IndexedIndirect, 2, 8)
	set(0x33, "RLA", IndirectIndexed, 2, 8)

	set(0x47, "SRE", ZeroPage, 2, 5)
	set(0x57, "SRE", ZeroPageX, 2, 6)
	set(0x4F, "SRE", Absolute, 3, 6)
	set(0x5F, "SRE", AbsoluteX, 3, 7)
	set(0x5B, "SRE", AbsoluteY, 3, 7)
	set(0x43, "SRE", IndexedIndirect, 2, 8)
	set(0x53, "SRE", IndirectIndexed, 2, 8)

	set(0x67, "RRA", ZeroPage, 2, 5)
	set(0x77, "RRA", ZeroPageX, 2, 6)
	set(0x6F, "RRA", Absolute, 3, 6)
	set(0x7F, "RRA", AbsoluteX, 3, 7)
	set(0x7B, "RRA", AbsoluteY, 3, 7)
	set(0x63, "RRA", IndexedIndirect, 2, 8)
	set(0x73, "RRA", IndirectIndexed, 2, 8)

	return t
}
