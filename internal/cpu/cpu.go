// Package cpu implements the 6502 CPU used by the NES: the full
// documented and undocumented instruction set, all thirteen addressing
// modes, flag semantics, stack discipline, and NMI/IRQ dispatch.
package cpu

import (
	"fmt"
	"log"
)

// Status register bit masks. U is never stored as a live flag: it is
// always observed as 1, and B is purely a transient value baked into a
// pushed status byte, never a bit of the live register (spec.md §3).
const (
	flagC = 0x01
	flagZ = 0x02
	flagI = 0x04
	flagD = 0x08
	flagB = 0x10
	flagU = 0x20
	flagV = 0x40
	flagN = 0x80
)

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Memory is the CPU's bus-facing interface. Side-effecting reads (e.g. a
// PPU status read that clears VBlank) are expressed as Read itself having
// side effects, not a separate pure getter, per spec.md §9.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// InterruptLines exposes the bus's two latched interrupt signals. NMI is
// edge-armed and consumed by exactly one poll; IRQ is level-triggered and
// reflects whatever the APU/mapper are currently asserting.
type InterruptLines interface {
	PollNMI() bool
	IRQAsserted() bool
}

// CPU is the NES's MOS 6502 (minus decimal mode, which the console never
// wires up).
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, V, N bool // B and U are not stored; see status pack/unpack

	memory     Memory
	interrupts InterruptLines
	halted     bool

	Debug bool
}

// New creates a CPU wired to the given bus. AttachInterrupts must be called
// before the first Step.
func New(memory Memory) *CPU {
	c := &CPU{memory: memory}
	return c
}

// AttachInterrupts wires the bus's NMI/IRQ lines.
func (c *CPU) AttachInterrupts(lines InterruptLines) { c.interrupts = lines }

// Halted reports whether a KIL/JAM opcode has stopped the CPU.
func (c *CPU) Halted() bool { return c.halted }

// Reset performs the 6502 reset sequence: PC loaded from the reset vector,
// I and the (unstored) U bit forced set, SP set to $FD, A/X/Y cleared.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.I = true
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.halted = false
	c.PC = c.readWord(resetVector)
}

// SetPC forcibly sets the program counter; used by the nestest automation
// harness, which starts execution at $C000 rather than the reset vector.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

func (c *CPU) readWord(addr uint16) uint16 {
	lo := c.memory.Read(addr)
	hi := c.memory.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) packStatus(bFlag bool) uint8 {
	var p uint8 = flagU
	if c.C {
		p |= flagC
	}
	if c.Z {
		p |= flagZ
	}
	if c.I {
		p |= flagI
	}
	if c.D {
		p |= flagD
	}
	if bFlag {
		p |= flagB
	}
	if c.V {
		p |= flagV
	}
	if c.N {
		p |= flagN
	}
	return p
}

func (c *CPU) unpackStatus(p uint8) {
	c.C = p&flagC != 0
	c.Z = p&flagZ != 0
	c.I = p&flagI != 0
	c.D = p&flagD != 0
	c.V = p&flagV != 0
	c.N = p&flagN != 0
}

func (c *CPU) push(v uint8) {
	c.memory.Write(stackBase|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.memory.Read(stackBase | uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pullWord() uint16 {
	lo := c.pull()
	hi := c.pull()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// Step polls the interrupt lines, services one if due, or else fetches,
// decodes, and executes exactly one instruction. It returns the number of
// CPU cycles consumed.
func (c *CPU) Step() int {
	if c.halted {
		return 0
	}

	if c.interrupts != nil {
		if c.interrupts.PollNMI() {
			if c.Debug {
				log.Printf("[CPU] NMI serviced at PC=$%04X", c.PC)
			}
			c.serviceInterrupt(nmiVector, false)
			return 7
		}
		if !c.I && c.interrupts.IRQAsserted() {
			if c.Debug {
				log.Printf("[CPU] IRQ serviced at PC=$%04X", c.PC)
			}
			c.serviceInterrupt(irqVector, false)
			return 7
		}
	}

	opcode := c.fetchByte()
	instr := opcodeTable[opcode]
	if instr.Exec == nil {
		panic(fmt.Sprintf("cpu: opcode table missing entry for $%02X (programming defect)", opcode))
	}

	extra := instr.Exec(c, instr.Mode)
	return int(instr.BaseCycles) + extra
}

// serviceInterrupt runs the shared BRK/NMI/IRQ push-vector-dispatch
// sequence. brk is true only for the software BRK instruction, which sets
// the B bit in the pushed status byte; hardware NMI/IRQ push B=0.
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.pushWord(c.PC)
	c.push(c.packStatus(brk))
	c.I = true
	c.PC = c.readWord(vector)
}

// Trace formats the current CPU state as a nestest-compatible log line
// (supplemented from original_source/src/cpu/trace.rs; see SPEC_FULL.md).
func (c *CPU) Trace(ppuCycle, ppuScanline int, cycles uint64) string {
	opcode := c.memory.Read(c.PC)
	instr := opcodeTable[opcode]
	return fmt.Sprintf("%04X  %02X        %-4sA:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		c.PC, opcode, instr.Mnemonic, c.A, c.X, c.Y, c.packStatus(false), c.SP, ppuScanline, ppuCycle, cycles)
}
