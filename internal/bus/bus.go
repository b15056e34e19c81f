// Package bus implements the CPU's address decode, OAM-DMA, and the two
// latched interrupt lines that couple the CPU to the PPU and APU.
package bus

import (
	"log"

	"github.com/DrBarnabus/nes-emulator/internal/controller"
)

const ramSize = 0x0800 // 2 KiB, mirrored every 2 KiB through $1FFF

// PPU is the subset of ppu.PPU the bus drives.
type PPU interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
	Tick() bool
	WriteOAM(offset uint8, value uint8)
	OAMAddr() uint8
}

// APU is the subset of apu.APU the bus drives.
type APU interface {
	Step()
	WriteRegister(addr uint16, value uint8, evenCycle bool)
	ReadStatus() uint8
	IRQLine() bool
}

// Cartridge is the subset of cartridge.Cartridge the bus forwards $4020-$FFFF
// accesses to.
type Cartridge interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, value uint8)
}

// Bus is the NES system bus: it owns work RAM, the two controller ports,
// and the NMI/IRQ latches, and holds shared references to the PPU, APU, and
// cartridge (spec.md §3's ownership model).
type Bus struct {
	ram [ramSize]uint8

	ppu  PPU
	apu  APU
	cart Cartridge

	controllers [2]*controller.Controller

	nmiPending bool

	cycles uint64

	dmaActive        bool
	dmaAlign         int // alignment cycles (1 or 2) before the transfer proper starts
	dmaSubCycle      int // 0 = read half of the current byte's pair, 1 = write half
	dmaBytes         int // bytes copied so far, also the next byte's index
	dmaPending       uint8
	dmaSuppressTicks int // ticks still owed to the triggering instruction's own cycle count before the transfer may progress
	oamDMAPage       uint8

	Debug bool
}

// New creates a bus with its two controllers and no PPU, APU, or cartridge;
// those are attached later via the Attach* methods (the emulator package
// wires them in dependency order).
func New() *Bus {
	return &Bus{
		controllers: [2]*controller.Controller{controller.New(), controller.New()},
	}
}

// AttachPPU wires the PPU this bus forwards $2000-$3FFF accesses to.
func (b *Bus) AttachPPU(p PPU) { b.ppu = p }

// AttachAPU wires the APU this bus forwards $4000-$4017 accesses to.
func (b *Bus) AttachAPU(a APU) { b.apu = a }

// AttachCartridge wires the cartridge this bus forwards $4020-$FFFF accesses
// to.
func (b *Bus) AttachCartridge(c Cartridge) { b.cart = c }

// Controller returns the standard joypad at port 0 or 1.
func (b *Bus) Controller(port int) *controller.Controller { return b.controllers[port] }

// TriggerNMI arms the edge-triggered NMI latch; called by the PPU at the
// top of VBlank (spec.md §3: "edge-armed by a trigger call").
func (b *Bus) TriggerNMI() {
	b.nmiPending = true
	if b.Debug {
		log.Printf("[BUS] NMI armed at cycle %d", b.cycles)
	}
}

// PollNMI reports and clears the armed NMI latch; consumed by exactly one
// CPU poll per edge.
func (b *Bus) PollNMI() bool {
	if !b.nmiPending {
		return false
	}
	b.nmiPending = false
	return true
}

// IRQAsserted reports the live, level-triggered IRQ line: true whenever the
// APU's frame or DMC IRQ flag is currently set.
func (b *Bus) IRQAsserted() bool {
	if b.apu == nil {
		return false
	}
	return b.apu.IRQLine()
}

// Tick advances the bus by one CPU cycle: three PPU ticks, one APU tick,
// and one tick of any in-flight OAM-DMA stall. It returns true exactly once
// per completed PPU frame.
func (b *Bus) Tick() bool {
	b.cycles++
	frameDone := false
	if b.ppu != nil {
		for i := 0; i < 3; i++ {
			if b.ppu.Tick() {
				frameDone = true
			}
		}
	}
	if b.apu != nil {
		b.apu.Step()
	}
	if b.dmaActive {
		if b.dmaSuppressTicks > 0 {
			b.dmaSuppressTicks--
		} else {
			b.stepDMA()
		}
	}
	return frameDone
}

// SuppressDMAFor holds off stepping an in-flight OAM-DMA transfer for the
// next n ticks. The emulator calls this immediately after executing the
// instruction whose write to $4014 armed the transfer, passing that
// instruction's own cycle count: those n ticks already belong to the
// triggering instruction's base cycle count, so the transfer must not also
// count them as stall progress (spec.md §4.4/§5: the stall follows the
// write, it does not overlap it). A no-op if no transfer is active.
func (b *Bus) SuppressDMAFor(n int) {
	if b.dmaActive {
		b.dmaSuppressTicks = n
	}
}

// evenCycle reports whether the current CPU cycle count is even, used to
// resolve the $4017 write-delay parity and the OAM-DMA odd/even stall rule.
func (b *Bus) evenCycle() bool { return b.cycles%2 == 0 }

// Read services a CPU read, decoding the address per spec.md §4.4.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr%ramSize]
	case addr < 0x4000:
		if b.ppu != nil {
			return b.ppu.ReadRegister(0x2000 | addr&7)
		}
		return 0
	case addr == 0x4015:
		if b.apu != nil {
			return b.apu.ReadStatus()
		}
		return 0
	case addr == 0x4016:
		return b.controllers[0].Read()
	case addr == 0x4017:
		return b.controllers[1].Read()
	case addr < 0x4020:
		return 0 // open bus
	default:
		if b.cart != nil {
			return b.cart.CPURead(addr)
		}
		return 0
	}
}

// Write services a CPU write, decoding the address per spec.md §4.4.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr%ramSize] = value
	case addr < 0x4000:
		if b.ppu != nil {
			b.ppu.WriteRegister(0x2000|addr&7, value)
		}
	case addr == 0x4014:
		b.startOAMDMA(value)
	case addr == 0x4016:
		b.controllers[0].Write(value)
		b.controllers[1].Write(value)
	case addr == 0x4017:
		if b.apu != nil {
			b.apu.WriteRegister(addr, value, b.evenCycle())
		}
	case addr < 0x4020:
		if b.apu != nil {
			b.apu.WriteRegister(addr, value, b.evenCycle())
		}
	default:
		if b.cart != nil {
			b.cart.CPUWrite(addr, value)
		}
	}
}

// startOAMDMA begins a 256-byte transfer from page hi00-hiFF into OAM: one
// alignment cycle (two if the write landed on an odd CPU cycle), then 256
// read/write pairs, for a total CPU stall of 513 or 514 cycles. The copy
// itself plays out one half-pair per stepDMA call, driven by Tick, so the
// PPU/APU keep advancing during the stall per spec.md §4.4.
func (b *Bus) startOAMDMA(hi uint8) {
	b.oamDMAPage = hi
	b.dmaActive = true
	b.dmaSubCycle = 0
	b.dmaBytes = 0
	if b.evenCycle() {
		b.dmaAlign = 1
	} else {
		b.dmaAlign = 2
	}
	if b.Debug {
		log.Printf("[BUS] OAM-DMA from $%02X00, stall=%d", hi, b.DMAStallCycles())
	}
}

func (b *Bus) stepDMA() {
	if b.dmaAlign > 0 {
		b.dmaAlign--
		return
	}

	if b.dmaSubCycle == 0 {
		addr := uint16(b.oamDMAPage)<<8 | uint16(b.dmaBytes)
		b.dmaPending = b.Read(addr)
		b.dmaSubCycle = 1
		return
	}

	if b.ppu != nil {
		b.ppu.WriteOAM(b.ppu.OAMAddr()+uint8(b.dmaBytes), b.dmaPending)
	}
	b.dmaBytes++
	b.dmaSubCycle = 0
	if b.dmaBytes >= 256 {
		b.dmaActive = false
	}
}

// DMAActive reports whether an OAM-DMA transfer is still stalling the CPU.
func (b *Bus) DMAActive() bool { return b.dmaActive }

// DMAStallCycles returns the number of CPU cycles remaining in the current
// OAM-DMA stall (513 or 514 at the moment the transfer starts), for the
// emulator loop to account for directly rather than discovering it one
// Tick at a time.
func (b *Bus) DMAStallCycles() int {
	if !b.dmaActive {
		return 0
	}
	return b.dmaSuppressTicks + b.dmaAlign + 2*(256-b.dmaBytes) - b.dmaSubCycle
}
