package vic

// Bus is the narrow memory interface the VIC reads through. addr is
// always pre-combined with the current 16K bank base the VIC has
// selected via CIA2 Port A, so the VIC itself never needs to know
// about CPU-side ROM banking.
type Bus interface {
	VICRead(addr uint16) uint8
	ColorRAM(offset uint16) uint8
}

// Sprite is one of the eight hardware sprites' live register state.
type Sprite struct {
	X, Y             uint16
	Enabled          bool
	Multicolor       bool
	ExpandX, ExpandY bool
	Color            uint8
	Priority         bool // true = sprite appears behind background
}

// VIC is the line-stepped VIC-II video generator.
type VIC struct {
	Mem      Bus
	BankBase func() uint16 // 16K bank base from CIA2 Port A, supplied by the owning machine

	RasterY uint16
	vc      uint16
	vcBase  uint16
	rc      uint8

	displayState    bool // true = display state, false = idle state
	badLinesEnabled bool // latched from DEN at line $30 for this frame
	badLine         bool
	borderOn        bool // vertical border latch, toggled at dyStart/dyStop

	mc             [NumSprites]uint8 // per-sprite data counter (0..63), advances by 3 per row
	spriteOn       [NumSprites]bool  // sprite_on: sprite is actively producing data (mc < 63)
	yExpFlip       [NumSprites]bool  // Y-expansion flip-flop, halves the mc advance rate
	spriteDMACount int               // sprites that did DMA work this line, for CPU cycle stealing

	sc1, sc2   uint8
	memPointer uint8
	xScroll    uint8
	yScroll    uint8

	borderColor uint8
	bgColor     [4]uint8
	spriteMulti [2]uint8

	sprites [NumSprites]Sprite

	irqFlag uint8
	irqMask uint8
	rasterIRQLine uint16

	lightPenX, lightPenY uint8

	clxSpr uint8 // sprite-sprite collision, clear on read
	clxBgr uint8 // sprite-background collision, clear on read

	// Frame buffer: one color index (0-15) per visible pixel, row-major.
	Frame []uint8

	foreground [VisibleWidth]bool // per-pixel foreground/background mask for this line
	lineBuf    [VisibleWidth]uint8

	videoMatrix uint16
	charGen     uint16
	bitmapBase  uint16
}

// FrameHeight is the number of rendered rows, matching FirstVisLine..LastVisLine.
const FrameHeight = LastVisLine - FirstVisLine

func NewVIC(bus Bus) *VIC {
	v := &VIC{
		Mem:      bus,
		BankBase: func() uint16 { return 0 },
		Frame:    make([]uint8, VisibleWidth*FrameHeight),
	}
	return v
}

// State is the serializable subset of VIC register and counter state.
// The documented open question about the collision-latch "clear on
// every write" hardware quirk is deliberately NOT reproduced here:
// clxSpr/clxBgr clear only on read (see DisplayState's sibling
// WriteRegister(0x19/0x1A, ...)), so a restored snapshot behaves
// identically to a live machine rather than replaying the quirk.
type State struct {
	RasterY         uint16
	VC, VCBase      uint16
	RC              uint8
	DisplayState    bool
	BadLinesEnabled bool
	BorderOn        bool
	SC1, SC2        uint8
	MemPointer      uint8
	XScroll, YScroll uint8
	BorderColor     uint8
	BgColor         [4]uint8
	SpriteMulti     [2]uint8
	Sprites         [NumSprites]Sprite
	MC              [NumSprites]uint8
	SpriteOn        [NumSprites]bool
	YExpFlip        [NumSprites]bool
	IRQFlag, IRQMask uint8
	RasterIRQLine   uint16
	LightPenX, LightPenY uint8
	ClxSpr, ClxBgr  uint8
}

// GetState captures the VIC's register and counter state. The frame
// buffer itself is host-owned and not part of a snapshot.
func (v *VIC) GetState() State {
	return State{
		RasterY: v.RasterY, VC: v.vc, VCBase: v.vcBase, RC: v.rc,
		DisplayState: v.displayState, BadLinesEnabled: v.badLinesEnabled,
		BorderOn: v.borderOn,
		SC1: v.sc1, SC2: v.sc2, MemPointer: v.memPointer,
		XScroll: v.xScroll, YScroll: v.yScroll,
		BorderColor: v.borderColor, BgColor: v.bgColor, SpriteMulti: v.spriteMulti,
		Sprites: v.sprites, MC: v.mc, SpriteOn: v.spriteOn, YExpFlip: v.yExpFlip,
		IRQFlag: v.irqFlag, IRQMask: v.irqMask, RasterIRQLine: v.rasterIRQLine,
		LightPenX: v.lightPenX, LightPenY: v.lightPenY,
		ClxSpr: v.clxSpr, ClxBgr: v.clxBgr,
	}
}

// SetState restores register and counter state captured by GetState,
// then recomputes the derived memory-layout pointers.
func (v *VIC) SetState(s State) {
	v.RasterY, v.vc, v.vcBase, v.rc = s.RasterY, s.VC, s.VCBase, s.RC
	v.displayState, v.badLinesEnabled = s.DisplayState, s.BadLinesEnabled
	v.borderOn = s.BorderOn
	v.sc1, v.sc2, v.memPointer = s.SC1, s.SC2, s.MemPointer
	v.xScroll, v.yScroll = s.XScroll, s.YScroll
	v.borderColor, v.bgColor, v.spriteMulti = s.BorderColor, s.BgColor, s.SpriteMulti
	v.sprites = s.Sprites
	v.mc, v.spriteOn, v.yExpFlip = s.MC, s.SpriteOn, s.YExpFlip
	v.irqFlag, v.irqMask, v.rasterIRQLine = s.IRQFlag, s.IRQMask, s.RasterIRQLine
	v.lightPenX, v.lightPenY = s.LightPenX, s.LightPenY
	v.clxSpr, v.clxBgr = s.ClxSpr, s.ClxBgr
	v.updateMemoryLayout()
}

// DisplayState reports whether the VIC is currently in display state
// (fetching and rendering graphics) rather than idle state.
func (v *VIC) DisplayState() bool { return v.displayState }

// BadLine reports whether the line just rendered was a bad line (DMA
// was stolen from the CPU for 40-43 cycles).
func (v *VIC) BadLine() bool { return v.badLine }

func (v *VIC) mode() DisplayMode {
	ecm := v.sc1&SC1ECM != 0
	bmm := v.sc1&SC1BMM != 0
	mcm := v.sc2&SC2MCM != 0
	switch {
	case !ecm && !bmm && !mcm:
		return ModeStandardText
	case !ecm && !bmm && mcm:
		return ModeMulticolorText
	case !ecm && bmm && !mcm:
		return ModeStandardBitmap
	case !ecm && bmm && mcm:
		return ModeMulticolorBitmap
	case ecm && !bmm && !mcm:
		return ModeECMText
	default:
		return ModeInvalid
	}
}

// StepLine advances the VIC by exactly one raster line: it updates the
// bad-line/display-state machine, renders the line into Frame if
// visible, runs the sprite engine, and checks the raster IRQ compare.
// It returns true when this call wrapped the raster back to line 0
// (end of frame, i.e. vertical blank).
func (v *VIC) StepLine() (vblank bool) {
	if v.RasterY == FirstBadLine {
		v.badLinesEnabled = v.sc1&SC1DEN != 0
	}

	v.badLine = v.badLinesEnabled &&
		v.RasterY >= FirstBadLine && v.RasterY <= LastBadLine &&
		uint16(v.RasterY&0x07) == uint16(v.sc1&SC1YSCROLL)

	if v.RasterY == 0 {
		v.vcBase = 0
	}

	if v.badLine {
		v.rc = 0
		v.displayState = true
	}
	if v.displayState {
		v.vc = v.vcBase
	}

	v.updateMemoryLayout()
	v.updateBorderLatch()
	v.spriteDMAUpdate()

	if v.RasterY >= FirstVisLine && v.RasterY < LastVisLine {
		v.renderLine()
	}

	if v.displayState {
		if v.rc == 7 {
			v.vcBase = v.vc
			v.displayState = false
		}
		v.rc = (v.rc + 1) & 0x07
	}

	v.checkRasterIRQ()

	v.RasterY++
	if v.RasterY >= TotalLines {
		v.RasterY = 0
		vblank = true
	}
	return vblank
}

func (v *VIC) checkRasterIRQ() {
	if v.RasterY == v.rasterIRQLine {
		v.irqFlag |= IRQRaster
	}
}

// checkRasterIRQWrite implements the testable property that a register
// write changing the latched raster-compare value to one that equals
// the current raster line fires the IRQ immediately, rather than
// waiting for the next line's compare.
func (v *VIC) checkRasterIRQWrite(old uint16) {
	if v.rasterIRQLine != old && v.rasterIRQLine == v.RasterY {
		v.irqFlag |= IRQRaster
	}
}

// IRQ reports the VIC's combined interrupt output line.
func (v *VIC) IRQ() bool {
	return v.irqFlag&v.irqMask&0x0F != 0
}

func (v *VIC) renderLine() {
	for i := range v.lineBuf {
		v.lineBuf[i] = v.bgColor[0]
		v.foreground[i] = false
	}

	if v.displayState {
		switch v.mode() {
		case ModeStandardText:
			v.renderStandardText()
		case ModeMulticolorText:
			v.renderMulticolorText()
		case ModeECMText:
			v.renderECMText()
		case ModeStandardBitmap:
			v.renderStandardBitmap()
		case ModeMulticolorBitmap:
			v.renderMulticolorBitmap()
		case ModeInvalid:
			v.renderInvalid()
		}
	}

	v.renderSprites()
	v.renderBorder()

	row := v.RasterY - FirstVisLine
	copy(v.Frame[int(row)*VisibleWidth:(int(row)+1)*VisibleWidth], v.lineBuf[:])
}

// charRowInCell is the pixel row (0-7) within the current character
// cell, accounting for vertical fine scroll via rc.
func (v *VIC) charRowInCell() uint8 { return v.rc }

const textAreaStart = 42 // first pixel column of the 320-pixel text/graphics area within the 403-wide line

func (v *VIC) renderStandardText() {
	row := v.charRowInCell()
	for col := uint16(0); col < 40; col++ {
		screenAddr := v.videoMatrix + v.vc + col
		char := v.Mem.VICRead(screenAddr)
		color := v.Mem.ColorRAM(v.vc + col)
		data := v.Mem.VICRead(v.charGen + uint16(char)*8 + uint16(row))
		v.plotByte(textAreaStart+int(col)*8, data, func(bit uint8) (uint8, bool) {
			if bit == 1 {
				return color, true
			}
			return v.bgColor[0], false
		})
	}
	v.vc += 40
}

func (v *VIC) renderMulticolorText() {
	row := v.charRowInCell()
	for col := uint16(0); col < 40; col++ {
		screenAddr := v.videoMatrix + v.vc + col
		char := v.Mem.VICRead(screenAddr)
		color := v.Mem.ColorRAM(v.vc + col)
		data := v.Mem.VICRead(v.charGen + uint16(char)*8 + uint16(row))
		if color&0x08 == 0 {
			// high bit clear: cell behaves like standard hi-res text
			v.plotByte(textAreaStart+int(col)*8, data, func(bit uint8) (uint8, bool) {
				if bit == 1 {
					return color & 0x07, true
				}
				return v.bgColor[0], false
			})
			continue
		}
		v.plotMulticolorByte(textAreaStart+int(col)*8, data, [4]uint8{
			v.bgColor[0], v.bgColor[1], v.bgColor[2], color & 0x07,
		}, [4]bool{false, false, true, true})
	}
	v.vc += 40
}

func (v *VIC) renderECMText() {
	row := v.charRowInCell()
	for col := uint16(0); col < 40; col++ {
		screenAddr := v.videoMatrix + v.vc + col
		char := v.Mem.VICRead(screenAddr)
		color := v.Mem.ColorRAM(v.vc + col)
		// top two bits of the character code select one of four
		// background colors instead of addressing character memory.
		bgIndex := (char >> 6) & 0x03
		data := v.Mem.VICRead(v.charGen + uint16(char&0x3F)*8 + uint16(row))
		bg := v.bgColor[bgIndex]
		v.plotByte(textAreaStart+int(col)*8, data, func(bit uint8) (uint8, bool) {
			if bit == 1 {
				return color, true
			}
			return bg, false
		})
	}
	v.vc += 40
}

func (v *VIC) renderStandardBitmap() {
	row := v.charRowInCell()
	for col := uint16(0); col < 40; col++ {
		screenAddr := v.videoMatrix + v.vc + col
		colorByte := v.Mem.VICRead(screenAddr)
		data := v.Mem.VICRead(v.bitmapBase + (v.vc+col)*8 + uint16(row))
		fg := colorByte >> 4
		bg := colorByte & 0x0F
		v.plotByte(textAreaStart+int(col)*8, data, func(bit uint8) (uint8, bool) {
			if bit == 1 {
				return fg, true
			}
			return bg, false
		})
	}
	v.vc += 40
}

func (v *VIC) renderMulticolorBitmap() {
	row := v.charRowInCell()
	for col := uint16(0); col < 40; col++ {
		screenAddr := v.videoMatrix + v.vc + col
		colorByte := v.Mem.VICRead(screenAddr)
		nibbleColor := v.Mem.ColorRAM(v.vc + col)
		data := v.Mem.VICRead(v.bitmapBase + (v.vc+col)*8 + uint16(row))
		v.plotMulticolorByte(textAreaStart+int(col)*8, data, [4]uint8{
			v.bgColor[0], colorByte >> 4, colorByte & 0x0F, nibbleColor & 0x0F,
		}, [4]bool{false, true, true, true})
	}
	v.vc += 40
}

func (v *VIC) renderInvalid() {
	for i := textAreaStart; i < textAreaStart+320; i++ {
		v.lineBuf[i] = 0
	}
	v.vc += 40
}

// plotByte renders one 8-pixel hi-res byte starting at x, calling pick
// for each bit to get its color and whether it counts as foreground.
func (v *VIC) plotByte(x int, data uint8, pick func(bit uint8) (uint8, bool)) {
	for i := 0; i < 8; i++ {
		bit := (data >> (7 - i)) & 1
		color, fg := pick(bit)
		px := x + i
		if px < 0 || px >= VisibleWidth {
			continue
		}
		v.lineBuf[px] = color
		v.foreground[px] = fg
	}
}

// plotMulticolorByte renders one 8-pixel multicolor byte (4 double-
// width pixel pairs) starting at x.
func (v *VIC) plotMulticolorByte(x int, data uint8, colors [4]uint8, fg [4]bool) {
	for i := 0; i < 4; i++ {
		idx := (data >> (6 - i*2)) & 0x03
		for j := 0; j < 2; j++ {
			px := x + i*2 + j
			if px < 0 || px >= VisibleWidth {
				continue
			}
			v.lineBuf[px] = colors[idx]
			v.foreground[px] = fg[idx]
		}
	}
}

// dyStart/dyStop give the first/last raster line of the non-border
// display window, which depends on RSEL (24 vs 25 text rows).
func (v *VIC) dyStart() uint16 {
	if v.sc1&SC1RSEL != 0 {
		return 51
	}
	return 55
}
func (v *VIC) dyStop() uint16 {
	if v.sc1&SC1RSEL != 0 {
		return 251
	}
	return 247
}
func (v *VIC) dxStart() int {
	if v.sc2&SC2CSEL != 0 {
		return textAreaStart
	}
	return textAreaStart + 7
}
func (v *VIC) dxStop() int {
	if v.sc2&SC2CSEL != 0 {
		return textAreaStart + 320
	}
	return textAreaStart + 320 - 9
}

// updateBorderLatch implements spec.md §4.3 step 2: the vertical
// border flip-flop turns on unconditionally at dyStop, and turns off
// at dyStart only if DEN is set. Unlike the horizontal border (which
// is a pure per-line comparison), this is a persistent latch: once
// set, it stays on across lines until the matching dyStart turn-off
// point, even if DEN is toggled in between.
func (v *VIC) updateBorderLatch() {
	if v.RasterY == v.dyStop() {
		v.borderOn = true
	} else if v.RasterY == v.dyStart() && v.sc1&SC1DEN != 0 {
		v.borderOn = false
	}
}

// spriteDMAUpdate implements spec.md §4.4's per-line sprite DMA
// update: a sprite whose Y position matches this raster line (and is
// enabled) starts a new pass (mc=0, sprite_on=true); an already-on
// sprite advances its data counter by 3, at half rate while
// Y-expanded, turning itself off once mc reaches 63. spriteDMACount
// tracks how many sprites did DMA work this line, each costing 2 CPU
// cycles per spec.md §4.4's last paragraph.
func (v *VIC) spriteDMAUpdate() {
	v.spriteDMACount = 0
	for n := 0; n < NumSprites; n++ {
		s := &v.sprites[n]
		if s.Enabled && uint8(s.Y) == uint8(v.RasterY) {
			v.mc[n] = 0
			v.spriteOn[n] = true
			v.yExpFlip[n] = false
			v.spriteDMACount++
			continue
		}
		if !v.spriteOn[n] {
			continue
		}
		if s.ExpandY {
			v.yExpFlip[n] = !v.yExpFlip[n]
			if !v.yExpFlip[n] {
				continue
			}
		}
		v.mc[n] += 3
		v.spriteDMACount++
		if v.mc[n] >= 63 {
			v.mc[n] = 63
			v.spriteOn[n] = false
		}
	}
}

// SpriteDMACycles reports the CPU cycles this line's sprite DMA steals
// from the line budget, for the scheduler to subtract (spec.md §4.4).
func (v *VIC) SpriteDMACycles() int { return 2 * v.spriteDMACount }

func (v *VIC) renderBorder() {
	dxStart, dxStop := v.dxStart(), v.dxStop()
	for x := 0; x < VisibleWidth; x++ {
		if v.borderOn || x < dxStart || x >= dxStop {
			v.lineBuf[x] = v.borderColor
			v.foreground[x] = false
		}
	}
}

func (v *VIC) updateMemoryLayout() {
	bank := v.BankBase()
	v.videoMatrix = bank | uint16(v.memPointer&MemPointersScreenMask)<<MemPointersScreenShift
	v.bitmapBase = bank
	if v.memPointer&0x08 != 0 {
		v.bitmapBase |= 0x2000
	}
	v.charGen = bank | uint16(v.memPointer&MemPointersCharMask)<<10
}
