package cartridge

import "fmt"

// mapperKind selects which hardware mapper variant backs a mapperState.
// Dispatch is a small switch over this tag rather than an interface with
// two implementing structs, per spec.md §9's guidance to keep the two
// in-scope mappers as a sum-type-of-variants rather than virtual dispatch.
type mapperKind uint8

const (
	kindNROM mapperKind = iota
	kindUxROM
)

// mapperState holds the union of state needed by either in-scope mapper.
// Only the fields relevant to mapperState.kind are meaningful at a time.
type mapperState struct {
	kind mapperKind
	mirror Mirroring

	prgBanks int // number of 16 KiB PRG banks

	// UxROM bank select, masked by bankMask on every write.
	prgBank  uint8
	bankMask uint8
}

func newMapperState(mapperID uint8, prgBanks int, mirror Mirroring) (mapperState, error) {
	switch mapperID {
	case 0:
		return mapperState{kind: kindNROM, mirror: mirror, prgBanks: prgBanks}, nil
	case 2:
		return mapperState{
			kind:     kindUxROM,
			mirror:   mirror,
			prgBanks: prgBanks,
			bankMask: uint8(nextPowerOfTwo(prgBanks) - 1),
		}, nil
	default:
		return mapperState{}, fmt.Errorf("cartridge: unsupported mapper %d", mapperID)
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (m mapperState) mirroring() Mirroring { return m.mirror }

// cpuRead resolves a CPU-space read in $4020-$FFFF.
func (m mapperState) cpuRead(addr uint16) Resolution {
	switch m.kind {
	case kindNROM:
		return m.nromCPURead(addr)
	case kindUxROM:
		return m.uxromCPURead(addr)
	default:
		return Resolution{Kind: ResNone}
	}
}

// cpuWrite resolves a CPU-space write in $4020-$FFFF. For UxROM this also
// mutates the mapper's own bank-select state, which is why the write
// methods take a pointer receiver: Cartridge holds mapper by value and
// CPUWrite calls them on that field, mutating it in place.
func (m *mapperState) cpuWrite(addr uint16, value uint8) WriteEffect {
	switch m.kind {
	case kindNROM:
		return m.nromCPUWrite(addr, value)
	case kindUxROM:
		return m.uxromCPUWrite(addr, value)
	default:
		return WriteEffect{Kind: WENone}
	}
}

func (m mapperState) ppuRead(addr uint16) int {
	// Both in-scope mappers expose a flat, non-bankswitched 8 KiB CHR
	// space at PPU $0000-$1FFF.
	if addr < 0x2000 {
		return int(addr)
	}
	return -1
}

func (m mapperState) ppuWrite(addr uint16, value uint8) *int {
	if addr >= 0x2000 {
		return nil
	}
	off := int(addr)
	return &off
}

// --- Mapper 0 (NROM) ---

func (m mapperState) nromCPURead(addr uint16) Resolution {
	switch {
	case addr >= 0x8000:
		offset := int(addr - 0x8000)
		if m.prgBanks == 1 {
			offset &= 0x3FFF // 16 KiB ROM mirrored across the 32 KiB window
		}
		return Resolution{Kind: ResPrgROM, Offset: offset}
	case addr >= 0x6000:
		return Resolution{Kind: ResPrgRAM, Offset: int(addr - 0x6000)}
	default:
		return Resolution{Kind: ResNone}
	}
}

func (m mapperState) nromCPUWrite(addr uint16, value uint8) WriteEffect {
	if addr >= 0x6000 && addr < 0x8000 {
		return WriteEffect{Kind: WEPrgRAM, Offset: int(addr - 0x6000)}
	}
	return WriteEffect{Kind: WENone} // ROM writes silently ignored
}

// --- Mapper 2 (UxROM) ---

func (m mapperState) uxromCPURead(addr uint16) Resolution {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		offset := int(m.prgBank)*prgBankLen + int(addr-0x8000)
		return Resolution{Kind: ResPrgROM, Offset: offset}
	case addr >= 0xC000:
		lastBank := m.prgBanks - 1
		offset := lastBank*prgBankLen + int(addr-0xC000)
		return Resolution{Kind: ResPrgROM, Offset: offset}
	case addr >= 0x6000:
		return Resolution{Kind: ResPrgRAM, Offset: int(addr - 0x6000)}
	default:
		return Resolution{Kind: ResNone}
	}
}

func (m *mapperState) uxromCPUWrite(addr uint16, value uint8) WriteEffect {
	if addr >= 0x8000 {
		m.prgBank = value & m.bankMask
		return WriteEffect{Kind: WENone}
	}
	if addr >= 0x6000 {
		return WriteEffect{Kind: WEPrgRAM, Offset: int(addr - 0x6000)}
	}
	return WriteEffect{Kind: WENone}
}
