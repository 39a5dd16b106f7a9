// Package bus implements the CPU-visible address map: internal RAM
// mirroring, PPU register dispatch, the APU no-op range, controller ports,
// OAM DMA, cartridge delegation, and PPU clock propagation.
package bus

// PPUPort is the Bus's view of the PPU: register access plus the clock
// and NMI-line query needed to propagate ticks and detect the frame edge.
type PPUPort interface {
	ReadRegister(reg uint8) uint8
	WriteRegister(reg uint8, value uint8)
	Step() bool
	NMIPending() bool
	OAM() [256]uint8
}

// OAMWriter lets the bus perform the DMA page copy directly into OAM
// without round-tripping through the $2004 register (which would also
// auto-increment OAMADDR once per byte, which DMA does not do on the
// target address — only the source is a flat page).
type OAMWriter interface {
	WriteOAMDMA(oamAddr uint8, data []uint8)
	OAMAddr() uint8
}

// Cartridge is the Bus's view of the loaded cartridge.
type Cartridge interface {
	ReadCPU(addr uint16) uint8
	WriteCPU(addr uint16, value uint8)
}

// Controller is the Bus's view of one controller port.
type Controller interface {
	Read() uint8
	Write(value uint8)
}

// FrameSink receives a signal once per frame, invoked on the None->Some
// edge of the PPU's NMI line.
type FrameSink interface {
	OnFrame()
}

// NMITarget is the Bus's view of the CPU for NMI servicing: TriggerNMI
// latches a pending non-maskable interrupt for the CPU to service at the
// start of its next Step.
type NMITarget interface {
	TriggerNMI()
}

// Bus wires CPU-visible address decoding to internal RAM, the PPU, the
// controllers, and the cartridge, and propagates the CPU clock to the PPU.
type Bus struct {
	ram         [0x0800]uint8
	ppu         PPUPort
	cart        Cartridge
	controllers [2]Controller
	sink        FrameSink
	cpu         NMITarget

	prevNMI bool

	pendingStall int
	oddCycle     bool
}

// New constructs a Bus. Cartridge/PPU/controllers/sink are wired via the
// Attach* methods once the emulator has constructed them.
func New() *Bus {
	return &Bus{}
}

func (b *Bus) AttachPPU(ppu PPUPort)       { b.ppu = ppu }
func (b *Bus) AttachCartridge(c Cartridge) { b.cart = c }
func (b *Bus) AttachSink(sink FrameSink)   { b.sink = sink }
func (b *Bus) AttachCPU(cpu NMITarget)     { b.cpu = cpu }
func (b *Bus) AttachController(i int, c Controller) {
	b.controllers[i] = c
}

func (b *Bus) Reset() {
	for i := range b.ram {
		b.ram[i] = 0
	}
	b.prevNMI = false
	b.pendingStall = 0
}

// Read decodes a CPU address per the memory map in spec.md §3.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(uint8(addr & 0x0007))
	case addr == 0x4016:
		return b.readController(0)
	case addr == 0x4017:
		return b.readController(1)
	case addr < 0x4020:
		return 0 // APU/IO no-op range, including the write-only $4014
	default:
		return b.cart.ReadCPU(addr)
	}
}

func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(uint8(addr&0x0007), value)
	case addr == 0x4014:
		b.triggerOAMDMA(value)
	case addr == 0x4016:
		b.writeController(0, value)
		b.writeController(1, value) // both ports share the strobe line
	case addr == 0x4017:
		// APU frame counter, no-op here.
	case addr < 0x4020:
		// remaining APU/IO range, no-op
	default:
		b.cart.WriteCPU(addr, value)
	}
}

func (b *Bus) readController(i int) uint8 {
	if b.controllers[i] == nil {
		return 0
	}
	return b.controllers[i].Read()
}

func (b *Bus) writeController(i int, value uint8) {
	if b.controllers[i] == nil {
		return
	}
	b.controllers[i].Write(value)
}

// ReadWord reads a little-endian 16-bit word.
func (b *Bus) ReadWord(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return lo | hi<<8
}

// ConsumeDMAStall returns and clears the CPU stall cycles accumulated by
// any OAM DMA transfers since the last call, for the emulator's Step loop
// to add to the instruction's reported cycle count.
func (b *Bus) ConsumeDMAStall() int {
	s := b.pendingStall
	b.pendingStall = 0
	return s
}

// triggerOAMDMA copies 256 bytes from page (value<<8) into OAM immediately
// and records the 513-cycle CPU stall (514 if the transfer starts on an
// odd CPU cycle) for the caller to collect via ConsumeDMAStall.
func (b *Bus) triggerOAMDMA(page uint8) {
	base := uint16(page) << 8
	if writer, ok := b.ppu.(OAMWriter); ok {
		data := make([]uint8, 256)
		for i := range data {
			data[i] = b.Read(base + uint16(i))
		}
		writer.WriteOAMDMA(writer.OAMAddr(), data)
	} else {
		for i := 0; i < 256; i++ {
			b.ppu.WriteRegister(4, b.Read(base+uint16(i)))
		}
	}

	stall := 513
	if b.oddCycle {
		stall = 514
	}
	b.pendingStall += stall
}

// Tick advances the PPU by 3x the given CPU cycles and edge-detects the
// PPU's NMI line transition to both latch the CPU's non-maskable interrupt
// and invoke the frame sink.
func (b *Bus) Tick(cpuCycles int) {
	for i := 0; i < cpuCycles*3; i++ {
		b.ppu.Step()
	}

	for i := 0; i < cpuCycles; i++ {
		b.oddCycle = !b.oddCycle
	}

	current := b.ppu.NMIPending()
	if current && !b.prevNMI {
		if b.cpu != nil {
			b.cpu.TriggerNMI()
		}
		if b.sink != nil {
			b.sink.OnFrame()
		}
	}
	b.prevNMI = current
}
