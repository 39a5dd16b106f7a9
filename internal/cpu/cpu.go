// Package cpu implements the MOS 6502 instruction interpreter used by the
// console: register file, addressing-mode resolution, the full official
// opcode set plus the common illegal-opcode family, and interrupt servicing.
package cpu

const (
	stackBase = 0x0100

	cFlagMask = 0x01
	zFlagMask = 0x02
	iFlagMask = 0x04
	dFlagMask = 0x08
	bFlagMask = 0x10
	uFlagMask = 0x20
	vFlagMask = 0x40
	nFlagMask = 0x80

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Bus is the CPU's view of the memory map: everything outside the register
// file goes through it, including cartridge, PPU registers, and controllers.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPU is the 6502 register file and fetch-decode-execute loop.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, V, N bool

	bus        Bus
	nmiPending bool
}

// New constructs a CPU wired to bus. Call Reset before stepping.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset loads PC from the reset vector and establishes power-up flag state.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.nmiPending = false
	c.PC = c.readWord(resetVector)
}

// TriggerNMI latches a pending non-maskable interrupt, serviced at the start
// of the next Step.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// Step services a pending NMI if one is latched, otherwise fetches, decodes
// and executes one instruction. Returns the number of CPU cycles consumed.
func (c *CPU) Step() int {
	if c.nmiPending {
		c.nmiPending = false
		return c.serviceInterrupt(nmiVector, false)
	}

	opcode := c.bus.Read(c.PC)
	c.PC++

	instr := opcodes[opcode]
	startPC := c.PC
	addr, pageCrossed := c.resolveAddress(instr.Mode)
	// resolveAddress alone advances PC past the operand; the table's Length
	// field is not consulted here.
	_ = startPC

	cycles := int(instr.Cycles)
	extra := c.execute(instr.Name, instr.Mode, addr)
	cycles += extra

	if pageCrossed && readClassInstruction[instr.Name] {
		cycles++
	}

	return cycles
}

// readClassInstruction marks mnemonics whose indexed addressing modes incur
// an extra cycle on a page boundary cross (read-class, per spec.md's rule).
var readClassInstruction = map[string]bool{
	"LDA": true, "LDX": true, "LDY": true,
	"ADC": true, "SBC": true,
	"AND": true, "ORA": true, "EOR": true,
	"CMP": true, "LAX": true, "NOP": true,
}

func (c *CPU) serviceInterrupt(vector uint16, brk bool) int {
	if brk {
		c.PC++
	}
	c.pushWord(c.PC)
	c.push(c.statusByte(brk))
	c.I = true
	c.PC = c.readWord(vector)
	return 7
}

// resolveAddress advances PC past the operand and returns the effective
// address plus whether an indexed/indirect computation crossed a page.
// Accumulator and Implied modes return (0, false); callers special-case them.
func (c *CPU) resolveAddress(mode AddressingMode) (addr uint16, pageCrossed bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		addr = c.PC
		c.PC++

	case ZeroPage:
		addr = uint16(c.bus.Read(c.PC))
		c.PC++

	case ZeroPageX:
		b := c.bus.Read(c.PC)
		addr = uint16(b + c.X)
		c.PC++

	case ZeroPageY:
		b := c.bus.Read(c.PC)
		addr = uint16(b + c.Y)
		c.PC++

	case Absolute:
		addr = c.readWord(c.PC)
		c.PC += 2

	case AbsoluteX:
		base := c.readWord(c.PC)
		addr = base + uint16(c.X)
		pageCrossed = (base & 0xFF00) != (addr & 0xFF00)
		c.PC += 2

	case AbsoluteY:
		base := c.readWord(c.PC)
		addr = base + uint16(c.Y)
		pageCrossed = (base & 0xFF00) != (addr & 0xFF00)
		c.PC += 2

	case Indirect:
		base := c.readWord(c.PC)
		addr = c.readWordWrapped(base)
		c.PC += 2

	case IndexedIndirect:
		b := c.bus.Read(c.PC)
		zp := b + c.X
		addr = c.readWordZeroPage(zp)
		c.PC++

	case IndirectIndexed:
		zp := c.bus.Read(c.PC)
		base := c.readWordZeroPage(zp)
		addr = base + uint16(c.Y)
		pageCrossed = (base & 0xFF00) != (addr & 0xFF00)
		c.PC++

	case Relative:
		offset := int8(c.bus.Read(c.PC))
		c.PC++
		addr = uint16(int32(c.PC) + int32(offset))
	}
	return addr, pageCrossed
}

func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return lo | hi<<8
}

// readWordWrapped reproduces the JMP (indirect) page-wrap bug: the high
// byte is fetched from the start of the same page as the low byte.
func (c *CPU) readWordWrapped(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	hi := uint16(c.bus.Read(hiAddr))
	return lo | hi<<8
}

func (c *CPU) readWordZeroPage(zp uint8) uint16 {
	lo := uint16(c.bus.Read(uint16(zp)))
	hi := uint16(c.bus.Read(uint16(zp + 1)))
	return lo | hi<<8
}

func (c *CPU) push(v uint8) {
	c.bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return lo | hi<<8
}

// statusByte packs the flags into P. The Break bit only ever exists in this
// pushed representation, never as persistent CPU state: breakFlag is 1 for
// PHP/BRK and 0 for hardware interrupts. Unused always reads 1 when pushed.
func (c *CPU) statusByte(breakFlag bool) uint8 {
	var s uint8
	if c.C {
		s |= cFlagMask
	}
	if c.Z {
		s |= zFlagMask
	}
	if c.I {
		s |= iFlagMask
	}
	if c.D {
		s |= dFlagMask
	}
	if breakFlag {
		s |= bFlagMask
	}
	s |= uFlagMask
	if c.V {
		s |= vFlagMask
	}
	if c.N {
		s |= nFlagMask
	}
	return s
}

// setStatusByte unpacks P into the flags. Break and Unused are not stored;
// the 6502 has no latch for them outside the pushed byte.
func (c *CPU) setStatusByte(s uint8) {
	c.C = s&cFlagMask != 0
	c.Z = s&zFlagMask != 0
	c.I = s&iFlagMask != 0
	c.D = s&dFlagMask != 0
	c.V = s&vFlagMask != 0
	c.N = s&nFlagMask != 0
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// GetStatusByte exposes P as read by PHP/BRK (Break=1) for host-side tooling
// such as debuggers or tests that want to inspect the packed register.
func (c *CPU) GetStatusByte() uint8 {
	return c.statusByte(true)
}

// SetStatusByte loads P from a packed byte, as RTI/PLP would. Useful for
// constructing specific test fixtures.
func (c *CPU) SetStatusByte(s uint8) {
	c.setStatusByte(s)
}
