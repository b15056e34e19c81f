package ppu

// Render rasterises the current VRAM/OAM/palette state into the frame
// buffer. It is called once per frame by the host, after VBlank begins, so
// it sees the scroll/nametable values latched by Tick at the top of
// VBlank rather than whatever a mid-frame register write left behind.
func (p *PPU) Render() {
	var bgOpaque [256 * 240]bool

	backdrop := rgbFromPaletteIndex(p.palette[0])
	for i := range p.frameBuffer {
		p.frameBuffer[i] = backdrop
	}

	bgPatternTable := uint16(0)
	if p.ctrl&ctrlBgPatternHi != 0 {
		bgPatternTable = 0x1000
	}

	if p.backgroundEnabled() {
		p.renderBackground(bgPatternTable, &bgOpaque)
	}
	if p.spritesEnabled() {
		p.renderSprites(&bgOpaque)
	}
}

func (p *PPU) renderBackground(bgPatternTable uint16, bgOpaque *[256 * 240]bool) {
	ntX0 := p.renderNametable & 1
	ntY0 := (p.renderNametable >> 1) & 1

	for py := 0; py < 240; py++ {
		effY := py + int(p.renderScrollY)
		ntY := ntY0
		if effY >= 240 {
			effY -= 240
			ntY ^= 1
		}
		tileY := effY / 8
		fineY := effY % 8

		for px := 0; px < 256; px++ {
			effX := px + int(p.renderScrollX)
			ntX := ntX0
			if effX >= 256 {
				effX -= 256
				ntX ^= 1
			}
			tileX := effX / 8
			fineX := effX % 8

			nametableSelect := uint16(ntX) | uint16(ntY)<<1
			ntBase := 0x2000 + nametableSelect*0x400

			tileAddr := ntBase + uint16(tileY*32+tileX)
			tileIndex := p.readVRAMOrCHR(tileAddr)

			attrAddr := ntBase + 0x3C0 + uint16((tileY/4)*8+(tileX/4))
			attrByte := p.readVRAMOrCHR(attrAddr)
			shift := uint((tileY%4)/2*4 + (tileX%4)/2*2)
			paletteGroup := (attrByte >> shift) & 3

			var low, high uint8
			if p.cart != nil {
				patAddr := bgPatternTable + uint16(tileIndex)*16 + uint16(fineY)
				low = p.cart.PPURead(patAddr)
				high = p.cart.PPURead(patAddr + 8)
			}
			bit := uint(7 - fineX)
			colorBit := ((high>>bit)&1)<<1 | (low>>bit)&1

			idx := py*256 + px
			if colorBit == 0 {
				continue // backdrop already filled
			}
			bgOpaque[idx] = true
			p.frameBuffer[idx] = rgbFromPaletteIndex(p.palette[paletteGroup*4+uint8(colorBit)])
		}
	}
}

func (p *PPU) renderSprites(bgOpaque *[256 * 240]bool) {
	height := p.spriteHeight()
	spritePatternTable := uint16(0)
	if p.ctrl&ctrlSpritePatternHi != 0 {
		spritePatternTable = 0x1000
	}

	// Paint in reverse OAM order so sprite 0 is painted last and therefore
	// occludes higher-indexed sprites, per spec.md §4.6.
	for i := 63; i >= 0; i-- {
		sprite := p.spriteAt(i)
		y := int(sprite.Y)
		tile := sprite.Tile
		attr := sprite.Attr
		x := int(sprite.X)

		patternTable := spritePatternTable
		tileForRow := tile
		if height == 16 {
			patternTable = uint16(tile&1) * 0x1000
			tileForRow = tile &^ 1
		}

		for row := 0; row < height; row++ {
			py := y + row
			if py < 0 || py >= 240 {
				continue
			}
			patRow := row
			if attr&0x80 != 0 {
				patRow = height - 1 - row
			}
			rowInTile := patRow
			tileIdx := uint16(tileForRow)
			if height == 16 && patRow >= 8 {
				tileIdx++
				rowInTile -= 8
			}

			var low, high uint8
			if p.cart != nil {
				patAddr := patternTable + tileIdx*16 + uint16(rowInTile)
				low = p.cart.PPURead(patAddr)
				high = p.cart.PPURead(patAddr + 8)
			}

			for col := 0; col < 8; col++ {
				shiftBit := uint(7 - col)
				if attr&0x40 != 0 {
					shiftBit = uint(col)
				}
				colorBit := ((high>>shiftBit)&1)<<1 | (low>>shiftBit)&1
				if colorBit == 0 {
					continue
				}
				px := x + col
				if px < 0 || px >= 256 {
					continue
				}
				idx := py*256 + px
				if attr&0x20 != 0 && bgOpaque[idx] {
					continue // behind background, background wins
				}
				palGroup := attr & 0x3
				p.frameBuffer[idx] = rgbFromPaletteIndex(p.palette[16+uint16(palGroup)*4+uint16(colorBit)])
			}
		}
	}
}
