package cpu

// AddressingMode identifies one of the 6502's thirteen addressing modes.
type AddressingMode uint8

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
	IndirectX
	IndirectY
)

// resolve consumes the operand bytes for mode from the instruction stream
// (advancing PC past them) and returns the effective address together with
// whether an indexed access crossed a page boundary, per spec.md §4.1.
// Implied and Accumulator modes consume nothing and return address 0; the
// executor never dereferences it for those modes.
func (c *CPU) resolve(mode AddressingMode) (address uint16, pageCrossed bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		addr := c.PC
		c.PC++
		return addr, false

	case ZeroPage:
		addr := uint16(c.fetchByte())
		return addr, false

	case ZeroPageX:
		base := c.fetchByte()
		return uint16(base + c.X), false

	case ZeroPageY:
		base := c.fetchByte()
		return uint16(base + c.Y), false

	case Relative:
		offset := int8(c.fetchByte())
		base := c.PC // address of the instruction following this branch
		target := uint16(int32(base) + int32(offset))
		return target, (base & 0xFF00) != (target & 0xFF00)

	case Absolute:
		return c.fetchWord(), false

	case AbsoluteX:
		base := c.fetchWord()
		addr := base + uint16(c.X)
		return addr, (base & 0xFF00) != (addr & 0xFF00)

	case AbsoluteY:
		base := c.fetchWord()
		addr := base + uint16(c.Y)
		return addr, (base & 0xFF00) != (addr & 0xFF00)

	case Indirect:
		ptr := c.fetchWord()
		return c.readIndirectWithPageWrapBug(ptr), false

	case IndirectX:
		base := c.fetchByte() + c.X // wraps within zero page
		lo := c.memory.Read(uint16(base))
		hi := c.memory.Read(uint16(base + 1))
		return uint16(hi)<<8 | uint16(lo), false

	case IndirectY:
		base := c.fetchByte()
		lo := c.memory.Read(uint16(base))
		hi := c.memory.Read(uint16(base + 1))
		ptrBase := uint16(hi)<<8 | uint16(lo)
		addr := ptrBase + uint16(c.Y)
		return addr, (ptrBase & 0xFF00) != (addr & 0xFF00)

	default:
		return 0, false
	}
}

// readIndirectWithPageWrapBug reproduces the 6502's JMP (indirect) bug: when
// the pointer's low byte is $FF, the high byte is fetched from the start of
// the same page rather than the next page.
func (c *CPU) readIndirectWithPageWrapBug(ptr uint16) uint16 {
	lo := c.memory.Read(ptr)
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := c.memory.Read(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) fetchByte() uint8 {
	v := c.memory.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}
