package vic

// renderSprites draws all eight sprites for the current line in
// priority order 0 (highest) through 7 (lowest), per spec.md §4.4: the
// first sprite to claim a pixel wins it outright, and every later
// sprite touching that same pixel is blocked from painting at all,
// only contributing to the collision latch.
func (v *VIC) renderSprites() {
	var collBuf [VisibleWidth]uint8 // spr_coll_buf: bitset of which sprites have claimed each pixel

	for i := 0; i < NumSprites; i++ {
		s := &v.sprites[i]
		if !v.spriteOn[i] {
			continue
		}

		if s.X >= DisplayX-32 {
			// partially off the right edge: dropped rather than clipped,
			// matching the non-goal in spec.md §1/§4.4.
			continue
		}

		pointerAddr := v.videoMatrix + SpritePointers + uint16(i)
		dataPtr := v.BankBase() | uint16(v.Mem.VICRead(pointerAddr))*64
		ptr := dataPtr + uint16(v.mc[i])
		b0 := v.Mem.VICRead(ptr)
		b1 := v.Mem.VICRead(ptr + 1)
		b2 := v.Mem.VICRead(ptr + 2)

		startX := int(s.X) + textAreaStart - 24 // sprite coordinate 0 maps just left of the text area, matching real hardware's $D000 offset
		step := 1
		if s.ExpandX {
			step = 2
		}

		if s.Multicolor {
			v.plotSpriteMulticolor(i, startX, step, b0, b1, b2, s, &collBuf)
		} else {
			v.plotSpriteHiRes(i, startX, step, b0, b1, b2, s, &collBuf)
		}
	}
}

func (v *VIC) plotSpriteHiRes(index int, startX, step int, b0, b1, b2 uint8, s *Sprite, collBuf *[VisibleWidth]uint8) {
	bits := [24]uint8{}
	for i := 0; i < 8; i++ {
		bits[i] = (b0 >> (7 - i)) & 1
		bits[8+i] = (b1 >> (7 - i)) & 1
		bits[16+i] = (b2 >> (7 - i)) & 1
	}
	x := startX
	for _, bit := range bits {
		if bit == 1 {
			v.plotSpritePixel(index, x, s.Color, s.Priority, collBuf)
			if step == 2 {
				v.plotSpritePixel(index, x+1, s.Color, s.Priority, collBuf)
			}
		}
		x += step
	}
}

func (v *VIC) plotSpriteMulticolor(index int, startX, step int, b0, b1, b2 uint8, s *Sprite, collBuf *[VisibleWidth]uint8) {
	bytes := [3]uint8{b0, b1, b2}
	x := startX
	for byteIdx := 0; byteIdx < 3; byteIdx++ {
		for pair := 0; pair < 4; pair++ {
			idx := (bytes[byteIdx] >> (6 - pair*2)) & 0x03
			var color uint8
			var visible bool
			switch idx {
			case 1:
				color, visible = v.spriteMulti[0], true
			case 2:
				color, visible = s.Color, true
			case 3:
				color, visible = v.spriteMulti[1], true
			}
			if visible {
				for d := 0; d < 2*step; d++ {
					v.plotSpritePixel(index, x+d, color, s.Priority, collBuf)
				}
			}
			x += 2 * step
		}
	}
}

// plotSpritePixel implements spec.md §4.4's per-pixel precedence rule
// for one non-transparent sprite pixel: a pixel already claimed by an
// earlier (lower-numbered) sprite records a collision only, blocking
// this sprite from painting over the earlier claim; an unclaimed
// pixel paints if the background isn't foreground, or if this sprite
// has priority over the foreground (mdp clear). Either way the pixel
// is marked claimed, and a sprite-background collision is recorded
// whenever the foreground mask is set here, independent of priority.
func (v *VIC) plotSpritePixel(index, x int, color uint8, behindForeground bool, collBuf *[VisibleWidth]uint8) {
	if x < 0 || x >= VisibleWidth {
		return
	}
	bit := uint8(1) << uint(index)

	if collBuf[x] != 0 {
		wasZero := v.clxSpr == 0
		v.clxSpr |= collBuf[x] | bit
		if wasZero {
			v.irqFlag |= IRQSprSpr
		}
	} else if !v.foreground[x] || !behindForeground {
		v.lineBuf[x] = color
	}
	collBuf[x] |= bit

	if v.foreground[x] {
		wasZero := v.clxBgr == 0
		v.clxBgr |= bit
		if wasZero {
			v.irqFlag |= IRQSpriteBg
		}
	}
}
