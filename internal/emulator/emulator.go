// Package emulator wires the CPU, PPU, APU, bus, and cartridge together
// and drives the CPU:PPU:APU step ratio and frame pacing that the other
// packages only individually implement.
package emulator

import (
	"time"

	"github.com/DrBarnabus/nes-emulator/internal/apu"
	"github.com/DrBarnabus/nes-emulator/internal/bus"
	"github.com/DrBarnabus/nes-emulator/internal/cartridge"
	"github.com/DrBarnabus/nes-emulator/internal/controller"
	"github.com/DrBarnabus/nes-emulator/internal/cpu"
	"github.com/DrBarnabus/nes-emulator/internal/ppu"
)

// ntscCyclesPerSecond is the NTSC NES's CPU clock.
const ntscCyclesPerSecond = 1789773.0

// Config governs the small set of knobs the host can tune; everything else
// about the emulated machine (NTSC timing, step ratio) is fixed by
// hardware and not configurable, per spec.md §9.
type Config struct {
	// SampleRate is passed to apu.New and kept by its mixer across Reset;
	// the mixer's filters do not use it, and an attached sink receives one
	// sample per CPU cycle whatever its value.
	SampleRate float64
	// Paced, when true, makes Run sleep to track wall-clock NTSC speed.
	// RunFrame always runs at full speed regardless of this setting.
	Paced bool
}

// DefaultConfig returns the configuration a standalone host should start
// from: 44.1 kHz audio, wall-clock paced playback.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, Paced: true}
}

// Emulator owns the cartridge and every component wired to it, and
// exposes the host-facing API surface spec.md §6 describes.
type Emulator struct {
	cfg Config

	cart *cartridge.Cartridge
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	bus  *bus.Bus

	totalCycles uint64
}

// New builds an emulator around an already-loaded cartridge and resets it
// to its post-power state.
func New(cart *cartridge.Cartridge, cfg Config) *Emulator {
	e := &Emulator{
		cfg:  cfg,
		cart: cart,
		ppu:  ppu.New(),
		apu:  apu.New(cfg.SampleRate),
		bus:  bus.New(),
	}
	e.cpu = cpu.New(e.bus)
	e.cpu.AttachInterrupts(e.bus)

	e.ppu.AttachCartridge(cart)
	e.ppu.SetNMICallback(e.bus.TriggerNMI)

	e.apu.AttachMemory(e.bus)

	e.bus.AttachPPU(e.ppu)
	e.bus.AttachAPU(e.apu)
	e.bus.AttachCartridge(cart)

	e.Reset()
	return e
}

// Reset returns every component to its post-power/post-reset state. The
// CPU reset costs 7 cycles, observed here by ticking the PPU 21 times and
// the APU 7 times, matching spec.md §4.3.
func (e *Emulator) Reset() {
	e.ppu.Reset()
	e.apu.Reset()
	e.cpu.Reset()
	e.totalCycles = 0
	for i := 0; i < 7; i++ {
		e.bus.Tick()
	}
}

// AttachAudioSink wires the host's audio sample sink.
func (e *Emulator) AttachAudioSink(sink apu.AudioSink) { e.apu.AttachSink(sink) }

// SetButtonState forwards a button press/release to the given controller
// port (0 or 1).
func (e *Emulator) SetButtonState(port int, button controller.Button, pressed bool) {
	e.bus.Controller(port).SetButtonState(button, pressed)
}

// FrameBuffer returns the most recently rasterised frame, packed
// 0x00RRGGBB, row-major, 256x240.
func (e *Emulator) FrameBuffer() *[256 * 240]uint32 { return e.ppu.FrameBuffer() }

// FrameCount returns the number of frames completed since the last Reset.
func (e *Emulator) FrameCount() uint64 { return e.ppu.FrameCount() }

// Halted reports whether a KIL/JAM opcode has stopped CPU execution.
func (e *Emulator) Halted() bool { return e.cpu.Halted() }

// TotalCycles returns the number of CPU cycles executed since Reset.
func (e *Emulator) TotalCycles() uint64 { return e.totalCycles }

// SetPC forcibly sets the CPU's program counter, used by automation
// harnesses such as nestest that start execution at a fixed address rather
// than the reset vector.
func (e *Emulator) SetPC(pc uint16) { e.cpu.SetPC(pc) }

// ReadCPU performs a bus read as the CPU would see it; exposed so test
// harnesses can inspect shared-memory status bytes (e.g. nestest's $0002).
func (e *Emulator) ReadCPU(addr uint16) uint8 { return e.bus.Read(addr) }

// Trace formats the CPU's current state as a nestest-compatible log line.
func (e *Emulator) Trace() string {
	return e.cpu.Trace(e.ppu.Cycle(), e.ppu.Scanline(), e.totalCycles)
}

// RunFrame advances the machine until exactly one PPU frame completes (or
// the CPU halts) and returns the number of CPU cycles consumed. It always
// runs at full speed; pacing is Run's concern.
func (e *Emulator) RunFrame() int {
	consumed := 0
	for {
		if e.cpu.Halted() {
			return consumed
		}
		if e.bus.DMAActive() {
			e.bus.Tick()
			consumed++
			e.totalCycles++
			continue
		}

		n := e.cpu.Step()
		// A write to $4014 inside this instruction may have just armed an
		// OAM-DMA transfer; its stall must start after, not during, this
		// instruction's own n cycles (see Bus.SuppressDMAFor).
		e.bus.SuppressDMAFor(n)
		frameDone := false
		for i := 0; i < n; i++ {
			if e.bus.Tick() {
				frameDone = true
			}
		}
		consumed += n
		e.totalCycles += uint64(n)
		if frameDone {
			e.ppu.Render()
			return consumed
		}
	}
}

// Run drives RunFrame in a loop, invoking onFrame after each completed
// frame. onFrame returns false to request a clean stop — the only
// cancellation point spec.md §5 describes. When the configuration enables
// pacing, Run sleeps between frames to track wall-clock NTSC speed.
func (e *Emulator) Run(onFrame func(*Emulator) bool) {
	const cycleDuration = time.Second / time.Duration(ntscCyclesPerSecond)
	for {
		start := time.Now()
		cycles := e.RunFrame()
		if e.cfg.Paced {
			target := cycleDuration * time.Duration(cycles)
			if elapsed := time.Since(start); elapsed < target {
				time.Sleep(target - elapsed)
			}
		}
		if !onFrame(e) || e.cpu.Halted() {
			return
		}
	}
}
