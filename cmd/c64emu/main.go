// Command c64emu is the SDL2 host runner: it loads ROM images, drives
// machine.Machine one raster line at a time, and presents the VIC's
// frame buffer in a window, forwarding keyboard state back into the
// machine's input mailbox. Joystick input is not read.
package main

import (
	"flag"
	"log"
	"os"
	"unsafe"

	"github.com/jrb64/c64core/c64/input"
	"github.com/jrb64/c64core/c64/vic"
	"github.com/jrb64/c64core/machine"
	"github.com/veandco/go-sdl2/sdl"
)

const windowScale = 2

// palette is the standard C64 16-colour RGB palette (Pepto's widely
// used values), indexed by the VIC's 4-bit colour code.
var palette = [16]uint32{
	0x000000, 0xFFFFFF, 0x68372B, 0x70A4B2,
	0x6F3D86, 0x588D43, 0x352879, 0xB8C76F,
	0x6F4F25, 0x433900, 0x9A6759, 0x444444,
	0x6C6C6C, 0x9AD284, 0x6C5EB5, 0x959595,
}

func main() {
	basicPath := flag.String("basic", "basic-901226-01.bin", "BASIC ROM image")
	kernalPath := flag.String("kernal", "kernal-901227-03.bin", "KERNAL ROM image")
	charPath := flag.String("char", "chargen-901225-01.bin", "character generator ROM image")
	drivePath := flag.String("1541", "dos1541.bin", "1541 DOS ROM image")
	flag.Parse()

	m := machine.NewMachine()
	if err := loadROMs(m, *basicPath, *kernalPath, *charPath, *drivePath); err != nil {
		log.Fatalf("c64emu: %v", err)
	}
	m.Reset()

	host, err := newHost(m.Mailbox)
	if err != nil {
		log.Fatalf("c64emu: %v", err)
	}
	defer host.close()

	m.OnMainJam = func(pc uint16, opcode uint8) {
		log.Printf("c64emu: main CPU halted at $%04X on opcode $%02X", pc, opcode)
	}

	for host.running {
		vblank, _ := m.StepLine()
		if vblank {
			if !host.pump() {
				break
			}
			host.present(m.VIC)
		}
	}
}

func loadROMs(m *machine.Machine, basicPath, kernalPath, charPath, drivePath string) error {
	basic, err := os.ReadFile(basicPath)
	if err != nil {
		return err
	}
	if err := m.Bus.LoadROM(basic, "basic"); err != nil {
		return err
	}
	kernal, err := os.ReadFile(kernalPath)
	if err != nil {
		return err
	}
	if err := m.Bus.LoadROM(kernal, "kernal"); err != nil {
		return err
	}
	char, err := os.ReadFile(charPath)
	if err != nil {
		return err
	}
	if err := m.Bus.LoadROM(char, "char"); err != nil {
		return err
	}
	drive, err := os.ReadFile(drivePath)
	if err != nil {
		return err
	}
	return m.Drive.LoadROM(drive)
}

// host owns the SDL window/renderer/texture and the pixel buffer the
// VIC's colour-index frame gets expanded into every vblank.
type host struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	mailbox  *input.Mailbox
	running  bool
}

func newHost(mailbox *input.Mailbox) (*host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_JOYSTICK); err != nil {
		return nil, err
	}
	w := int32(vic.VisibleWidth * windowScale)
	h := int32(vic.FrameHeight * windowScale)
	window, err := sdl.CreateWindow("c64emu", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, err
	}
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), sdl.TEXTUREACCESS_STREAMING, vic.VisibleWidth, vic.FrameHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, err
	}
	return &host{
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, vic.VisibleWidth*vic.FrameHeight*4),
		mailbox:  mailbox,
		running:  true,
	}, nil
}

func (h *host) close() {
	h.texture.Destroy()
	h.renderer.Destroy()
	h.window.Destroy()
	sdl.Quit()
}

// pump drains pending SDL events, applying keyboard state to the
// mailbox's matrix and returning false once a quit has been seen.
func (h *host) pump() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			h.running = false
			return false
		case *sdl.KeyboardEvent:
			row, col, ok := scancodeToMatrix(e.Keysym.Scancode)
			if ok {
				h.mailbox.Keyboard.SetKey(row, col, e.State == sdl.PRESSED)
			}
		}
	}
	return true
}

// present expands the VIC's colour-index frame into RGBA pixels and
// flips it to the window, scaled by windowScale.
func (h *host) present(v *vic.VIC) {
	for i, idx := range v.Frame {
		c := palette[idx&0x0F]
		off := i * 4
		h.pixels[off+0] = byte(c >> 16) // R
		h.pixels[off+1] = byte(c >> 8)  // G
		h.pixels[off+2] = byte(c)       // B
		h.pixels[off+3] = 0xFF
	}
	if err := h.texture.Update(nil, unsafe.Pointer(&h.pixels[0]), vic.VisibleWidth*4); err != nil {
		log.Printf("c64emu: texture update: %v", err)
		return
	}
	h.renderer.Clear()
	h.renderer.Copy(h.texture, nil, nil)
	h.renderer.Present()
}
