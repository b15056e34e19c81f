// Package apu implements the NES Audio Processing Unit: five sound
// channels, the frame sequencer, and the mixer that produces one
// normalised float sample per CPU cycle.
package apu

import "log"

// MemoryReader is the CPU-bus read callback the DMC channel uses to fetch
// sample bytes, reentrantly, from cartridge PRG space.
type MemoryReader interface {
	Read(addr uint16) uint8
}

// AudioSink is the external collaborator that receives mixed samples;
// spec.md §6 specifies it as a thin push contract with downsampling and
// device output left entirely to the host.
type AudioSink interface {
	PushSample(sample float32)
}

const ntscCPUFrequency = 1789773.0

// APU is the NES Audio Processing Unit.
type APU struct {
	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frame frameCounter
	mix   mixer

	mem  MemoryReader
	sink AudioSink

	evenCycle bool
	cycles    uint64

	Debug bool
}

// New creates an APU. sampleRate is stored on the mixer for Reset only; the
// mixer produces one sample per Step (one per CPU cycle) regardless of it.
func New(sampleRate float64) *APU {
	a := &APU{
		pulse1: newPulseChannel(true),
		pulse2: newPulseChannel(false),
		noise:  newNoiseChannel(),
		dmc:    newDMCChannel(),
		mix:    newMixer(sampleRate),
	}
	return a
}

// AttachMemory wires the CPU-bus read callback used for DMC sample fetch.
func (a *APU) AttachMemory(m MemoryReader) { a.mem = m }

// AttachSink wires the host's audio sample sink.
func (a *APU) AttachSink(s AudioSink) { a.sink = s }

// Reset returns the APU to its post-power state.
func (a *APU) Reset() {
	*a = APU{
		pulse1: newPulseChannel(true),
		pulse2: newPulseChannel(false),
		noise:  newNoiseChannel(),
		dmc:    newDMCChannel(),
		mix:    newMixer(a.mix.sampleRate),
		mem:    a.mem,
		sink:   a.sink,
		Debug:  a.Debug,
	}
}

// Step advances the APU by one CPU cycle: the frame sequencer, both
// timer-driven channel clocks (at CPU/2 for pulse/noise, CPU rate for
// triangle/DMC), the DMC sample fetch, and the mixer.
func (a *APU) Step() {
	a.cycles++

	frameIRQWasSet := a.frame.irqFlag
	a.frame.step(a.clockQuarterFrame, a.clockHalfFrame)
	if a.Debug && a.frame.irqFlag && !frameIRQWasSet {
		log.Printf("[APU_IRQ] frame IRQ asserted at cycle %d", a.cycles)
	}

	if a.evenCycle {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
		a.noise.clockTimer()
	}
	a.evenCycle = !a.evenCycle

	a.triangle.clockTimer()
	a.dmc.clockTimer()

	if a.mem != nil {
		dmcIRQWasSet := a.dmc.irqFlag
		a.dmc.fetchSample(a.mem.Read)
		if a.Debug && a.dmc.irqFlag && !dmcIRQWasSet {
			log.Printf("[APU_IRQ] DMC IRQ asserted at cycle %d", a.cycles)
		}
	}

	if a.sink != nil {
		sample := a.mix.mix(a.pulse1.output(), a.pulse2.output(), a.triangle.output(), a.noise.output(), a.dmc.output())
		a.sink.PushSample(sample)
	}
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.clockQuarterFrame()
	a.pulse2.clockQuarterFrame()
	a.triangle.clockQuarterFrame()
	a.noise.clockQuarterFrame()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.clockHalfFrame()
	a.pulse2.clockHalfFrame()
	a.triangle.clockHalfFrame()
	a.noise.clockHalfFrame()
}

// IRQLine reports whether the APU currently asserts the shared IRQ line
// (frame IRQ or DMC IRQ), gated only by the CPU's own interrupt-disable
// flag at the bus/CPU layer, per spec.md §2.
func (a *APU) IRQLine() bool {
	return a.frame.irqFlag || a.dmc.irqFlag
}

// WriteRegister handles a CPU write to $4000-$4013 or $4015. evenCycle is
// forwarded to the frame-counter write-delay state machine and is only
// meaningful for $4017, which the bus routes here too (spec.md §4.4 maps
// $4017 writes to "APU frame-counter control").
func (a *APU) WriteRegister(addr uint16, value uint8, evenCycle bool) {
	switch addr {
	case 0x4000:
		a.pulse1.writeControl(value)
	case 0x4001:
		a.pulse1.writeSweep(value)
	case 0x4002:
		a.pulse1.writeTimerLow(value)
	case 0x4003:
		a.pulse1.writeTimerHighAndLength(value)
	case 0x4004:
		a.pulse2.writeControl(value)
	case 0x4005:
		a.pulse2.writeSweep(value)
	case 0x4006:
		a.pulse2.writeTimerLow(value)
	case 0x4007:
		a.pulse2.writeTimerHighAndLength(value)
	case 0x4008:
		a.triangle.writeControl(value)
	case 0x400A:
		a.triangle.writeTimerLow(value)
	case 0x400B:
		a.triangle.writeTimerHighAndLength(value)
	case 0x400C:
		a.noise.writeControl(value)
	case 0x400E:
		a.noise.writePeriod(value)
	case 0x400F:
		a.noise.writeLength(value)
	case 0x4010:
		a.dmc.writeControl(value)
	case 0x4011:
		a.dmc.writeDirectLoad(value)
	case 0x4012:
		a.dmc.writeSampleAddress(value)
	case 0x4013:
		a.dmc.writeSampleLength(value)
	case 0x4015:
		a.writeChannelEnable(value)
	case 0x4017:
		a.frame.write(value, evenCycle)
	}
}

func (a *APU) writeChannelEnable(value uint8) {
	a.pulse1.setEnabled(value&0x01 != 0)
	a.pulse2.setEnabled(value&0x02 != 0)
	a.triangle.setEnabled(value&0x04 != 0)
	a.noise.setEnabled(value&0x08 != 0)
	a.dmc.setEnabled(value&0x10 != 0)
	a.dmc.irqFlag = false
}

// ReadStatus handles a CPU read of $4015: length-counter-nonzero bits per
// channel, the DMC bytes-remaining bit, and the frame/DMC IRQ flags. The
// read clears the frame-IRQ flag (not the DMC-IRQ flag), per spec.md §8.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.pulse1.lengthCounter > 0 {
		v |= 0x01
	}
	if a.pulse2.lengthCounter > 0 {
		v |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		v |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		v |= 0x08
	}
	if a.dmc.hasBytesRemaining() {
		v |= 0x10
	}
	if a.frame.readAndClearIRQ() {
		v |= 0x40
	}
	if a.dmc.irqFlag {
		v |= 0x80
	}
	return v
}
