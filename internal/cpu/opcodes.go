package cpu

// Instruction is one entry of the 256-slot opcode table: the mnemonic (for
// tracing), the addressing mode, the base cycle count, and the function
// that performs the operation.
type Instruction struct {
	Mnemonic   string
	Mode       AddressingMode
	BaseCycles uint8
	Exec       execFunc
}

func op(mnemonic string, mode AddressingMode, cycles uint8, exec execFunc) Instruction {
	return Instruction{Mnemonic: mnemonic, Mode: mode, BaseCycles: cycles, Exec: exec}
}

// opcodeTable is the full NMOS 6502 decode table: every documented opcode
// plus the undocumented opcodes real NES cartridges are known to rely on
// (LAX/SAX/DCP/ISC/SLO/RLA/SRE/RRA and the NOP/KIL families), per spec.md
// §4.1's requirement that illegal opcodes be dispatched, not merely
// tolerated.
var opcodeTable = [256]Instruction{
	0x00: op("BRK", Implied, 7, execBRK),
	0x01: op("ORA", IndirectX, 6, execORA),
	0x02: op("KIL", Implied, 2, execKIL),
	0x03: op("SLO", IndirectX, 8, execSLO),
	0x04: op("NOP", ZeroPage, 3, execNOP),
	0x05: op("ORA", ZeroPage, 3, execORA),
	0x06: op("ASL", ZeroPage, 5, execASL),
	0x07: op("SLO", ZeroPage, 5, execSLO),
	0x08: op("PHP", Implied, 3, execPHP),
	0x09: op("ORA", Immediate, 2, execORA),
	0x0A: op("ASL", Accumulator, 2, execASL),
	0x0B: op("ANC", Immediate, 2, execANC),
	0x0C: op("NOP", Absolute, 4, execNOP),
	0x0D: op("ORA", Absolute, 4, execORA),
	0x0E: op("ASL", Absolute, 6, execASL),
	0x0F: op("SLO", Absolute, 6, execSLO),

	0x10: op("BPL", Relative, 2, execBPL),
	0x11: op("ORA", IndirectY, 5, execORA),
	0x12: op("KIL", Implied, 2, execKIL),
	0x13: op("SLO", IndirectY, 8, execSLO),
	0x14: op("NOP", ZeroPageX, 4, execNOP),
	0x15: op("ORA", ZeroPageX, 4, execORA),
	0x16: op("ASL", ZeroPageX, 6, execASL),
	0x17: op("SLO", ZeroPageX, 6, execSLO),
	0x18: op("CLC", Implied, 2, execCLC),
	0x19: op("ORA", AbsoluteY, 4, execORA),
	0x1A: op("NOP", Implied, 2, execNOP),
	0x1B: op("SLO", AbsoluteY, 7, execSLO),
	0x1C: op("NOP", AbsoluteX, 4, execNOP),
	0x1D: op("ORA", AbsoluteX, 4, execORA),
	0x1E: op("ASL", AbsoluteX, 7, execASL),
	0x1F: op("SLO", AbsoluteX, 7, execSLO),

	0x20: op("JSR", Absolute, 6, execJSR),
	0x21: op("AND", IndirectX, 6, execAND),
	0x22: op("KIL", Implied, 2, execKIL),
	0x23: op("RLA", IndirectX, 8, execRLA),
	0x24: op("BIT", ZeroPage, 3, execBIT),
	0x25: op("AND", ZeroPage, 3, execAND),
	0x26: op("ROL", ZeroPage, 5, execROL),
	0x27: op("RLA", ZeroPage, 5, execRLA),
	0x28: op("PLP", Implied, 4, execPLP),
	0x29: op("AND", Immediate, 2, execAND),
	0x2A: op("ROL", Accumulator, 2, execROL),
	0x2B: op("ANC", Immediate, 2, execANC),
	0x2C: op("BIT", Absolute, 4, execBIT),
	0x2D: op("AND", Absolute, 4, execAND),
	0x2E: op("ROL", Absolute, 6, execROL),
	0x2F: op("RLA", Absolute, 6, execRLA),

	0x30: op("BMI", Relative, 2, execBMI),
	0x31: op("AND", IndirectY, 5, execAND),
	0x32: op("KIL", Implied, 2, execKIL),
	0x33: op("RLA", IndirectY, 8, execRLA),
	0x34: op("NOP", ZeroPageX, 4, execNOP),
	0x35: op("AND", ZeroPageX, 4, execAND),
	0x36: op("ROL", ZeroPageX, 6, execROL),
	0x37: op("RLA", ZeroPageX, 6, execRLA),
	0x38: op("SEC", Implied, 2, execSEC),
	0x39: op("AND", AbsoluteY, 4, execAND),
	0x3A: op("NOP", Implied, 2, execNOP),
	0x3B: op("RLA", AbsoluteY, 7, execRLA),
	0x3C: op("NOP", AbsoluteX, 4, execNOP),
	0x3D: op("AND", AbsoluteX, 4, execAND),
	0x3E: op("ROL", AbsoluteX, 7, execROL),
	0x3F: op("RLA", AbsoluteX, 7, execRLA),

	0x40: op("RTI", Implied, 6, execRTI),
	0x41: op("EOR", IndirectX, 6, execEOR),
	0x42: op("KIL", Implied, 2, execKIL),
	0x43: op("SRE", IndirectX, 8, execSRE),
	0x44: op("NOP", ZeroPage, 3, execNOP),
	0x45: op("EOR", ZeroPage, 3, execEOR),
	0x46: op("LSR", ZeroPage, 5, execLSR),
	0x47: op("SRE", ZeroPage, 5, execSRE),
	0x48: op("PHA", Implied, 3, execPHA),
	0x49: op("EOR", Immediate, 2, execEOR),
	0x4A: op("LSR", Accumulator, 2, execLSR),
	0x4B: op("ALR", Immediate, 2, execALR),
	0x4C: op("JMP", Absolute, 3, execJMP),
	0x4D: op("EOR", Absolute, 4, execEOR),
	0x4E: op("LSR", Absolute, 6, execLSR),
	0x4F: op("SRE", Absolute, 6, execSRE),

	0x50: op("BVC", Relative, 2, execBVC),
	0x51: op("EOR", IndirectY, 5, execEOR),
	0x52: op("KIL", Implied, 2, execKIL),
	0x53: op("SRE", IndirectY, 8, execSRE),
	0x54: op("NOP", ZeroPageX, 4, execNOP),
	0x55: op("EOR", ZeroPageX, 4, execEOR),
	0x56: op("LSR", ZeroPageX, 6, execLSR),
	0x57: op("SRE", ZeroPageX, 6, execSRE),
	0x58: op("CLI", Implied, 2, execCLI),
	0x59: op("EOR", AbsoluteY, 4, execEOR),
	0x5A: op("NOP", Implied, 2, execNOP),
	0x5B: op("SRE", AbsoluteY, 7, execSRE),
	0x5C: op("NOP", AbsoluteX, 4, execNOP),
	0x5D: op("EOR", AbsoluteX, 4, execEOR),
	0x5E: op("LSR", AbsoluteX, 7, execLSR),
	0x5F: op("SRE", AbsoluteX, 7, execSRE),

	0x60: op("RTS", Implied, 6, execRTS),
	0x61: op("ADC", IndirectX, 6, execADC),
	0x62: op("KIL", Implied, 2, execKIL),
	0x63: op("RRA", IndirectX, 8, execRRA),
	0x64: op("NOP", ZeroPage, 3, execNOP),
	0x65: op("ADC", ZeroPage, 3, execADC),
	0x66: op("ROR", ZeroPage, 5, execROR),
	0x67: op("RRA", ZeroPage, 5, execRRA),
	0x68: op("PLA", Implied, 4, execPLA),
	0x69: op("ADC", Immediate, 2, execADC),
	0x6A: op("ROR", Accumulator, 2, execROR),
	0x6B: op("ARR", Immediate, 2, execARR),
	0x6C: op("JMP", Indirect, 5, execJMP),
	0x6D: op("ADC", Absolute, 4, execADC),
	0x6E: op("ROR", Absolute, 6, execROR),
	0x6F: op("RRA", Absolute, 6, execRRA),

	0x70: op("BVS", Relative, 2, execBVS),
	0x71: op("ADC", IndirectY, 5, execADC),
	0x72: op("KIL", Implied, 2, execKIL),
	0x73: op("RRA", IndirectY, 8, execRRA),
	0x74: op("NOP", ZeroPageX, 4, execNOP),
	0x75: op("ADC", ZeroPageX, 4, execADC),
	0x76: op("ROR", ZeroPageX, 6, execROR),
	0x77: op("RRA", ZeroPageX, 6, execRRA),
	0x78: op("SEI", Implied, 2, execSEI),
	0x79: op("ADC", AbsoluteY, 4, execADC),
	0x7A: op("NOP", Implied, 2, execNOP),
	0x7B: op("RRA", AbsoluteY, 7, execRRA),
	0x7C: op("NOP", AbsoluteX, 4, execNOP),
	0x7D: op("ADC", AbsoluteX, 4, execADC),
	0x7E: op("ROR", AbsoluteX, 7, execROR),
	0x7F: op("RRA", AbsoluteX, 7, execRRA),

	0x80: op("NOP", Immediate, 2, execNOP),
	0x81: op("STA", IndirectX, 6, execSTA),
	0x82: op("NOP", Immediate, 2, execNOP),
	0x83: op("SAX", IndirectX, 6, execSAX),
	0x84: op("STY", ZeroPage, 3, execSTY),
	0x85: op("STA", ZeroPage, 3, execSTA),
	0x86: op("STX", ZeroPage, 3, execSTX),
	0x87: op("SAX", ZeroPage, 3, execSAX),
	0x88: op("DEY", Implied, 2, execDEY),
	0x89: op("NOP", Immediate, 2, execNOP),
	0x8A: op("TXA", Implied, 2, execTXA),
	0x8B: op("XAA", Immediate, 2, execXAA),
	0x8C: op("STY", Absolute, 4, execSTY),
	0x8D: op("STA", Absolute, 4, execSTA),
	0x8E: op("STX", Absolute, 4, execSTX),
	0x8F: op("SAX", Absolute, 4, execSAX),

	0x90: op("BCC", Relative, 2, execBCC),
	0x91: op("STA", IndirectY, 6, execSTA),
	0x92: op("KIL", Implied, 2, execKIL),
	0x93: op("SHA", IndirectY, 6, execSHA),
	0x94: op("STY", ZeroPageX, 4, execSTY),
	0x95: op("STA", ZeroPageX, 4, execSTA),
	0x96: op("STX", ZeroPageY, 4, execSTX),
	0x97: op("SAX", ZeroPageY, 4, execSAX),
	0x98: op("TYA", Implied, 2, execTYA),
	0x99: op("STA", AbsoluteY, 5, execSTA),
	0x9A: op("TXS", Implied, 2, execTXS),
	0x9B: op("TAS", AbsoluteY, 5, execTAS),
	0x9C: op("SHY", AbsoluteX, 5, execSHY),
	0x9D: op("STA", AbsoluteX, 5, execSTA),
	0x9E: op("SHX", AbsoluteY, 5, execSHX),
	0x9F: op("SHA", AbsoluteY, 5, execSHA),

	0xA0: op("LDY", Immediate, 2, execLDY),
	0xA1: op("LDA", IndirectX, 6, execLDA),
	0xA2: op("LDX", Immediate, 2, execLDX),
	0xA3: op("LAX", IndirectX, 6, execLAX),
	0xA4: op("LDY", ZeroPage, 3, execLDY),
	0xA5: op("LDA", ZeroPage, 3, execLDA),
	0xA6: op("LDX", ZeroPage, 3, execLDX),
	0xA7: op("LAX", ZeroPage, 3, execLAX),
	0xA8: op("TAY", Implied, 2, execTAY),
	0xA9: op("LDA", Immediate, 2, execLDA),
	0xAA: op("TAX", Implied, 2, execTAX),
	0xAB: op("LAX", Immediate, 2, execLAX),
	0xAC: op("LDY", Absolute, 4, execLDY),
	0xAD: op("LDA", Absolute, 4, execLDA),
	0xAE: op("LDX", Absolute, 4, execLDX),
	0xAF: op("LAX", Absolute, 4, execLAX),

	0xB0: op("BCS", Relative, 2, execBCS),
	0xB1: op("LDA", IndirectY, 5, execLDA),
	0xB2: op("KIL", Implied, 2, execKIL),
	0xB3: op("LAX", IndirectY, 5, execLAX),
	0xB4: op("LDY", ZeroPageX, 4, execLDY),
	0xB5: op("LDA", ZeroPageX, 4, execLDA),
	0xB6: op("LDX", ZeroPageY, 4, execLDX),
	0xB7: op("LAX", ZeroPageY, 4, execLAX),
	0xB8: op("CLV", Implied, 2, execCLV),
	0xB9: op("LDA", AbsoluteY, 4, execLDA),
	0xBA: op("TSX", Implied, 2, execTSX),
	0xBB: op("LAS", AbsoluteY, 4, execLAS),
	0xBC: op("LDY", AbsoluteX, 4, execLDY),
	0xBD: op("LDA", AbsoluteX, 4, execLDA),
	0xBE: op("LDX", AbsoluteY, 4, execLDX),
	0xBF: op("LAX", AbsoluteY, 4, execLAX),

	0xC0: op("CPY", Immediate, 2, execCPY),
	0xC1: op("CMP", IndirectX, 6, execCMP),
	0xC2: op("NOP", Immediate, 2, execNOP),
	0xC3: op("DCP", IndirectX, 8, execDCP),
	0xC4: op("CPY", ZeroPage, 3, execCPY),
	0xC5: op("CMP", ZeroPage, 3, execCMP),
	0xC6: op("DEC", ZeroPage, 5, execDEC),
	0xC7: op("DCP", ZeroPage, 5, execDCP),
	0xC8: op("INY", Implied, 2, execINY),
	0xC9: op("CMP", Immediate, 2, execCMP),
	0xCA: op("DEX", Implied, 2, execDEX),
	0xCB: op("AXS", Immediate, 2, execAXS),
	0xCC: op("CPY", Absolute, 4, execCPY),
	0xCD: op("CMP", Absolute, 4, execCMP),
	0xCE: op("DEC", Absolute, 6, execDEC),
	0xCF: op("DCP", Absolute, 6, execDCP),

	0xD0: op("BNE", Relative, 2, execBNE),
	0xD1: op("CMP", IndirectY, 5, execCMP),
	0xD2: op("KIL", Implied, 2, execKIL),
	0xD3: op("DCP", IndirectY, 8, execDCP),
	0xD4: op("NOP", ZeroPageX, 4, execNOP),
	0xD5: op("CMP", ZeroPageX, 4, execCMP),
	0xD6: op("DEC", ZeroPageX, 6, execDEC),
	0xD7: op("DCP", ZeroPageX, 6, execDCP),
	0xD8: op("CLD", Implied, 2, execCLD),
	0xD9: op("CMP", AbsoluteY, 4, execCMP),
	0xDA: op("NOP", Implied, 2, execNOP),
	0xDB: op("DCP", AbsoluteY, 7, execDCP),
	0xDC: op("NOP", AbsoluteX, 4, execNOP),
	0xDD: op("CMP", AbsoluteX, 4, execCMP),
	0xDE: op("DEC", AbsoluteX, 7, execDEC),
	0xDF: op("DCP", AbsoluteX, 7, execDCP),

	0xE0: op("CPX", Immediate, 2, execCPX),
	0xE1: op("SBC", IndirectX, 6, execSBC),
	0xE2: op("NOP", Immediate, 2, execNOP),
	0xE3: op("ISC", IndirectX, 8, execISC),
	0xE4: op("CPX", ZeroPage, 3, execCPX),
	0xE5: op("SBC", ZeroPage, 3, execSBC),
	0xE6: op("INC", ZeroPage, 5, execINC),
	0xE7: op("ISC", ZeroPage, 5, execISC),
	0xE8: op("INX", Implied, 2, execINX),
	0xE9: op("SBC", Immediate, 2, execSBC),
	0xEA: op("NOP", Implied, 2, execNOP),
	0xEB: op("SBC", Immediate, 2, execSBC),
	0xEC: op("CPX", Absolute, 4, execCPX),
	0xED: op("SBC", Absolute, 4, execSBC),
	0xEE: op("INC", Absolute, 6, execINC),
	0xEF: op("ISC", Absolute, 6, execISC),

	0xF0: op("BEQ", Relative, 2, execBEQ),
	0xF1: op("SBC", IndirectY, 5, execSBC),
	0xF2: op("KIL", Implied, 2, execKIL),
	0xF3: op("ISC", IndirectY, 8, execISC),
	0xF4: op("NOP", ZeroPageX, 4, execNOP),
	0xF5: op("SBC", ZeroPageX, 4, execSBC),
	0xF6: op("INC", ZeroPageX, 6, execINC),
	0xF7: op("ISC", ZeroPageX, 6, execISC),
	0xF8: op("SED", Implied, 2, execSED),
	0xF9: op("SBC", AbsoluteY, 4, execSBC),
	0xFA: op("NOP", Implied, 2, execNOP),
	0xFB: op("ISC", AbsoluteY, 7, execISC),
	0xFC: op("NOP", AbsoluteX, 4, execNOP),
	0xFD: op("SBC", AbsoluteX, 4, execSBC),
	0xFE: op("INC", AbsoluteX, 7, execINC),
	0xFF: op("ISC", AbsoluteX, 7, execISC),
}
