package cpu

import "testing"

type fakeMemory struct {
	ram [0x10000]uint8
}

func (m *fakeMemory) Read(addr uint16) uint8        { return m.ram[addr] }
func (m *fakeMemory) Write(addr uint16, value uint8) { m.ram[addr] = value }

func (m *fakeMemory) loadAt(addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.ram[int(addr)+i] = b
	}
}

func (m *fakeMemory) setResetVector(addr uint16) {
	m.ram[0xFFFC] = uint8(addr)
	m.ram[0xFFFD] = uint8(addr >> 8)
}

type fakeInterrupts struct {
	nmi bool
	irq bool
}

func (f *fakeInterrupts) PollNMI() bool {
	v := f.nmi
	f.nmi = false
	return v
}
func (f *fakeInterrupts) IRQAsserted() bool { return f.irq }

func newTestCPU() (*CPU, *fakeMemory) {
	mem := &fakeMemory{}
	mem.setResetVector(0x8000)
	c := New(mem)
	c.Reset()
	return c, mem
}

func TestResetLoadsVectorAndFlags(t *testing.T) {
	c, _ := newTestCPU()
	if c.PC != 0x8000 {
		t.Errorf("PC = $%04X, want $8000", c.PC)
	}
	if c.SP != 0xFD {
		t.Errorf("SP = $%02X, want $FD", c.SP)
	}
	if !c.I {
		t.Error("I should be set after reset")
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("A/X/Y = %d/%d/%d, want 0/0/0", c.A, c.X, c.Y)
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0xA9, 0x00) // LDA #$00
	c.Step()
	if !c.Z || c.N {
		t.Errorf("LDA #$00: Z=%v N=%v, want Z=true N=false", c.Z, c.N)
	}

	c, mem = newTestCPU()
	mem.loadAt(0x8000, 0xA9, 0x80) // LDA #$80
	c.Step()
	if c.Z || !c.N {
		t.Errorf("LDA #$80: Z=%v N=%v, want Z=false N=true", c.Z, c.N)
	}
}

func TestADCCarryAndOverflow(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0xA9, 0x7F, 0x69, 0x01) // LDA #$7F; ADC #$01
	c.Step()
	c.Step()
	if c.A != 0x80 {
		t.Errorf("A = $%02X, want $80", c.A)
	}
	if !c.V {
		t.Error("V should be set: positive + positive overflowed into negative")
	}
	if c.C {
		t.Error("C should be clear: no unsigned carry out")
	}
}

func TestSBCIsOnesComplementADC(t *testing.T) {
	c, mem := newTestCPU()
	// SEC; LDA #$05; SBC #$01 -> A=4, C=1 (no borrow)
	mem.loadAt(0x8000, 0x38, 0xA9, 0x05, 0xE9, 0x01)
	c.Step()
	c.Step()
	c.Step()
	if c.A != 0x04 {
		t.Errorf("A = $%02X, want $04", c.A)
	}
	if !c.C {
		t.Error("C should be set: no borrow occurred")
	}
}

func TestCompareSetsCarryAndZero(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0xA9, 0x10, 0xC9, 0x10) // LDA #$10; CMP #$10
	c.Step()
	c.Step()
	if !c.C || !c.Z {
		t.Errorf("CMP equal values: C=%v Z=%v, want both true", c.C, c.Z)
	}
}

func TestPHAPLARoundTrip(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68) // LDA #$42; PHA; LDA #$00; PLA
	for i := 0; i < 4; i++ {
		c.Step()
	}
	if c.A != 0x42 {
		t.Errorf("A after PLA = $%02X, want $42", c.A)
	}
}

func TestPHPPLPForcesBAndU(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0x08, 0x28) // PHP; PLP
	c.Step()
	pushed := mem.ram[0x0100|uint16(c.SP+1)]
	if pushed&flagB == 0 {
		t.Error("PHP should set B in the pushed byte")
	}
	c.Step()
	if c.packStatus(false)&flagU == 0 {
		t.Error("U must always observe as 1 after PLP")
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0x6C, 0xFF, 0x10) // JMP ($10FF)
	mem.ram[0x10FF] = 0x34
	mem.ram[0x1000] = 0x12 // bug: high byte read from $1000, not $1100
	mem.ram[0x1100] = 0xAB
	c.Step()
	if c.PC != 0x1234 {
		t.Errorf("PC = $%04X, want $1234 (page-wrap bug)", c.PC)
	}
}

func TestBranchCyclesAddPageCross(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x80FD, 0xF0, 0x02) // BEQ +2, lands at $8101 (crosses page from $80FF)
	c.PC = 0x80FD
	c.Z = true
	cycles := c.Step()
	if cycles != 4 {
		t.Errorf("branch taken with page cross: cycles = %d, want 4 (2 base + 1 taken + 1 cross)", cycles)
	}
	if c.PC != 0x8101 {
		t.Errorf("PC = $%04X, want $8101", c.PC)
	}
}

func TestNMIServicedBeforeFetch(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0xFFFA] = 0x00
	mem.ram[0xFFFB] = 0x90 // NMI vector -> $9000
	mem.loadAt(0x8000, 0xEA)

	interrupts := &fakeInterrupts{nmi: true}
	c.AttachInterrupts(interrupts)

	cycles := c.Step()
	if cycles != 7 {
		t.Errorf("NMI service: cycles = %d, want 7", cycles)
	}
	if c.PC != 0x9000 {
		t.Errorf("PC after NMI = $%04X, want $9000", c.PC)
	}
	if !c.I {
		t.Error("I should be set after servicing an interrupt")
	}
}

func TestIRQSuppressedByInterruptDisable(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0xEA) // NOP
	c.I = true
	interrupts := &fakeInterrupts{irq: true}
	c.AttachInterrupts(interrupts)

	c.Step()
	if c.PC != 0x8001 {
		t.Errorf("IRQ should be masked by I=1: PC = $%04X, want $8001", c.PC)
	}
}

func TestKILHaltsCPU(t *testing.T) {
	c, mem := newTestCPU()
	mem.loadAt(0x8000, 0x02) // KIL
	c.Step()
	if !c.Halted() {
		t.Error("KIL should set halted=true")
	}
	pc := c.PC
	c.Step()
	if c.PC != pc {
		t.Error("a halted CPU should not advance further")
	}
}
