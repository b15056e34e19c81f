// Package ppu implements the NES Picture Processing Unit (2C02): the
// CPU-visible register file, the per-tick scanline/cycle state machine,
// VRAM/palette mirroring, and a frame-at-a-time rasteriser.
package ppu

import (
	"log"

	"github.com/DrBarnabus/nes-emulator/internal/cartridge"
)

// Cartridge is the subset of cartridge.Cartridge the PPU needs: CHR access
// and the mapper's current mirroring mode. Held as a shared, non-owning
// reference (see spec.md §9 on cartridge ownership).
type Cartridge interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	Mirroring() cartridge.Mirroring
}

const (
	cyclesPerScanline = 341
	scanlinesPerFrame = 262
	visibleScanlines  = 240
	postRenderLine    = 240
	vblankStartLine   = 241
	preRenderLine     = 261
)

// OAMEntry mirrors the four-byte layout of one sprite's OAM record.
type OAMEntry struct {
	Y    uint8
	Tile uint8
	Attr uint8
	X    uint8
}

// PPU is the NES 2C02. Reads with hardware side effects (status clears
// VBlank, $2007 advances the VRAM pointer) are exposed as methods that take
// a pointer receiver, never a pure getter, per spec.md §9.
type PPU struct {
	// CPU-visible registers
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002 (only bits 5-7 meaningful)

	oamAddr uint8 // $2003

	// Latched two-write registers, sharing one write toggle.
	writeLatch bool
	addr       uint16 // current VRAM address, 14-bit effective
	addrHigh   uint8  // staged high byte between the two $2006 writes
	scrollX    uint8  // $2005 first write
	scrollY    uint8  // $2005 second write

	readBuffer uint8 // internal buffer backing delayed $2007 reads

	// Memory
	vram    [0x800]uint8 // two physical 1 KiB nametables
	palette [32]uint8
	oam     [256]uint8

	cart Cartridge

	// Timing
	cycle    int
	scanline int
	frame    uint64

	sprite0Hit     bool
	spriteOverflow bool

	// Render-time latched copies, captured at the top of VBlank so a
	// mid-frame register write can't retroactively change a frame already
	// rasterised.
	renderScrollX   uint8
	renderScrollY   uint8
	renderNametable uint8

	nmiCallback func()

	frameBuffer [256 * 240]uint32

	Debug bool
}

// New creates a PPU with no cartridge attached; AttachCartridge must be
// called before Tick or register access touches CHR/mirroring.
func New() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

// AttachCartridge wires the shared cartridge reference used for CHR access
// and mirroring queries.
func (p *PPU) AttachCartridge(c Cartridge) { p.cart = c }

// SetNMICallback installs the function invoked on a VBlank NMI edge.
func (p *PPU) SetNMICallback(f func()) { p.nmiCallback = f }

// Reset returns the PPU to its post-power state.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.writeLatch = false
	p.addr = 0
	p.addrHigh = 0
	p.scrollX = 0
	p.scrollY = 0
	p.readBuffer = 0
	p.cycle = 0
	p.scanline = 0
	p.frame = 0
	p.sprite0Hit = false
	p.spriteOverflow = false
	p.renderScrollX = 0
	p.renderScrollY = 0
	p.renderNametable = 0
}

// FrameCount returns the number of frames completed since Reset.
func (p *PPU) FrameCount() uint64 { return p.frame }

// FrameBuffer returns the most recently rasterised frame as packed
// 0x00RRGGBB pixels, row-major, 256x240.
func (p *PPU) FrameBuffer() *[256 * 240]uint32 { return &p.frameBuffer }

// Cycle returns the current PPU cycle within the scanline, [0,341).
func (p *PPU) Cycle() int { return p.cycle }

// Scanline returns the current scanline, [0,262).
func (p *PPU) Scanline() int { return p.scanline }

// ReadRegister services a CPU read of $2000-$2007 (mirrored every 8 bytes).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2: // PPUSTATUS
		v := p.status
		p.status &^= statusVBlank
		p.writeLatch = false
		return v
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	default:
		return 0 // write-only register: open bus
	}
}

// WriteRegister services a CPU write of $2000-$2007 (mirrored every 8 bytes).
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr & 7 {
	case 0: // PPUCTRL
		prevNMI := p.nmiEnabled()
		p.ctrl = value
		if !prevNMI && p.nmiEnabled() && p.status&statusVBlank != 0 {
			p.raiseNMI()
		}
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.writeLatch {
			p.scrollX = value
		} else {
			p.scrollY = value
		}
		p.writeLatch = !p.writeLatch
	case 6: // PPUADDR
		if !p.writeLatch {
			p.addrHigh = value
		} else {
			p.addr = (uint16(p.addrHigh)<<8 | uint16(value)) & 0x3FFF
		}
		p.writeLatch = !p.writeLatch
	case 7: // PPUDATA
		p.writeData(value)
	}
}

func (p *PPU) readData() uint8 {
	addr := p.addr & 0x3FFF
	var result uint8
	if addr >= 0x3F00 {
		result = p.readPalette(addr)
		p.readBuffer = p.readVRAMOrCHR(addr - 0x1000)
	} else {
		result = p.readBuffer
		p.readBuffer = p.readVRAMOrCHR(addr)
	}
	p.addr += p.vramIncrement()
	return result
}

func (p *PPU) writeData(value uint8) {
	addr := p.addr & 0x3FFF
	if addr >= 0x3F00 {
		p.writePalette(addr, value)
	} else {
		p.writeVRAMOrCHR(addr, value)
	}
	p.addr += p.vramIncrement()
}

func (p *PPU) readVRAMOrCHR(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr < 0x2000 {
		if p.cart != nil {
			return p.cart.PPURead(addr)
		}
		return 0
	}
	return p.vram[p.mirrorNametable(addr)]
}

func (p *PPU) writeVRAMOrCHR(addr uint16, value uint8) {
	addr &= 0x3FFF
	if addr < 0x2000 {
		if p.cart != nil {
			p.cart.PPUWrite(addr, value)
		}
		return
	}
	p.vram[p.mirrorNametable(addr)] = value
}

// mirrorNametable maps a $2000-$3EFF PPU address into one of the two
// physical 1 KiB nametable banks per the cartridge's mirroring mode.
func (p *PPU) mirrorNametable(addr uint16) uint16 {
	a := (addr - 0x2000) & 0x0FFF // collapses the $3000-$3EFF mirror of $2000-$2EFF
	slot := (a >> 10) & 3
	offset := a & 0x3FF

	mirror := cartridge.Horizontal
	if p.cart != nil {
		mirror = p.cart.Mirroring()
	}

	var bank uint16
	switch mirror {
	case cartridge.Horizontal:
		bank = map4to2Horizontal[slot]
	case cartridge.Vertical:
		bank = map4to2Vertical[slot]
	case cartridge.SingleScreenLower:
		bank = 0
	case cartridge.SingleScreenUpper:
		bank = 1
	default: // FourScreen: no cartridge nametable RAM is modelled; falls back to bank 0/1 by slot parity
		bank = slot & 1
	}
	return bank*0x400 + offset
}

var map4to2Horizontal = [4]uint16{0, 0, 1, 1}
var map4to2Vertical = [4]uint16{0, 1, 0, 1}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[palettIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, value uint8) {
	p.palette[palettIndex(addr)] = value
}

func palettIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	switch idx {
	case 0x10, 0x14, 0x18, 0x1C:
		idx -= 0x10
	}
	return idx
}

func (p *PPU) raiseNMI() {
	if p.Debug {
		log.Printf("[PPU] VBlank NMI raised at scanline=%d cycle=%d", p.scanline, p.cycle)
	}
	if p.nmiCallback != nil {
		p.nmiCallback()
	}
}

// Tick advances the PPU by one PPU cycle (the bus calls this three times
// per CPU cycle). It returns true exactly once per frame, on the
// scanline-261-to-0 wraparound.
func (p *PPU) Tick() bool {
	frameDone := false

	if p.scanline == vblankStartLine && p.cycle == 1 {
		p.status |= statusVBlank
		p.renderScrollX = p.scrollX
		p.renderScrollY = p.scrollY
		p.renderNametable = p.ctrl & ctrlNametableMask
		if p.nmiEnabled() {
			p.raiseNMI()
		}
	}

	if p.scanline == preRenderLine && p.cycle == 1 {
		p.status &^= (statusVBlank | statusSprite0Hit | statusSpriteOverflow)
		p.sprite0Hit = false
		p.spriteOverflow = false
	}

	if p.scanline <= visibleScanlines-1 && p.spritesEnabled() {
		p.evaluateSprite0Hit()
	}

	p.cycle++
	if p.cycle >= cyclesPerScanline {
		p.cycle = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.frame++
			frameDone = true
		}
	}

	return frameDone
}

// evaluateSprite0Hit implements spec.md §4.6's conservative approximation:
// set when OAM[0]'s Y equals the current scanline and its X is at or before
// the current cycle, while sprite rendering is enabled.
func (p *PPU) evaluateSprite0Hit() {
	if p.sprite0Hit {
		return
	}
	y := p.oam[0]
	x := p.oam[3]
	if int(y) == p.scanline && int(x) <= p.cycle {
		p.sprite0Hit = true
		p.status |= statusSprite0Hit
	}
}

// WriteOAM stores a byte delivered by OAM-DMA at the given OAM offset
// (wrapping modulo 256, matching real hardware where DMA starts at
// whatever OAMADDR currently holds).
func (p *PPU) WriteOAM(offset uint8, value uint8) {
	p.oam[offset] = value
}

// OAMAddr returns the current OAM write pointer, used by the bus to seed
// OAM-DMA's starting offset.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

// spriteAt decodes OAM entry index (0-63) into its four-byte record.
func (p *PPU) spriteAt(index int) OAMEntry {
	base := index * 4
	return OAMEntry{
		Y:    p.oam[base],
		Tile: p.oam[base+1],
		Attr: p.oam[base+2],
		X:    p.oam[base+3],
	}
}
