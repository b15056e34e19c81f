// Command nesview is a thin Ebitengine host shell around the emulator
// core: it owns an emulator.Emulator, pulls its framebuffer once per
// ebiten.Game.Draw, and forwards keyboard state to controller port 0. Every other concern (audio device, configurable key bindings,
// multiple backends) stays out of scope, matching spec.md §1's exclusion
// of the window/graphics/audio shell from the core.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/DrBarnabus/nes-emulator/internal/cartridge"
	"github.com/DrBarnabus/nes-emulator/internal/controller"
	"github.com/DrBarnabus/nes-emulator/internal/emulator"
)

const (
	nesWidth  = 256
	nesHeight = 240
	scale     = 3
)

// game adapts an *emulator.Emulator to ebiten.Game.
type game struct {
	emu   *emulator.Emulator
	image *ebiten.Image
}

var keyBindings = map[ebiten.Key]controller.Button{
	ebiten.KeyZ:          controller.A,
	ebiten.KeyX:          controller.B,
	ebiten.KeyBackslash:  controller.Select,
	ebiten.KeyEnter:      controller.Start,
	ebiten.KeyArrowUp:    controller.Up,
	ebiten.KeyArrowDown:  controller.Down,
	ebiten.KeyArrowLeft:  controller.Left,
	ebiten.KeyArrowRight: controller.Right,
}

func (g *game) Update() error {
	for key, button := range keyBindings {
		g.emu.SetButtonState(0, button, ebiten.IsKeyPressed(key))
	}
	g.emu.RunFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.emu.Halted() {
		screen.Fill(color.RGBA{R: 32, A: 255})
		return
	}

	fb := g.emu.FrameBuffer()
	pix := make([]byte, nesWidth*nesHeight*4)
	for i, p := range fb {
		pix[i*4+0] = byte(p >> 16)
		pix[i*4+1] = byte(p >> 8)
		pix[i*4+2] = byte(p)
		pix[i*4+3] = 255
	}
	g.image.WritePixels(pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.image, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth * scale, nesHeight * scale
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: nesview <rom.nes>")
		os.Exit(1)
	}

	cart, err := cartridge.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("nesview: %v", err)
	}

	cfg := emulator.DefaultConfig()
	cfg.Paced = false // ebiten's own 60 TPS loop already paces us
	emu := emulator.New(cart, cfg)

	g := &game{
		emu:   emu,
		image: ebiten.NewImage(nesWidth, nesHeight),
	}

	ebiten.SetWindowSize(nesWidth*scale, nesHeight*scale)
	ebiten.SetWindowTitle("nesview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("nesview: %v", err)
	}
}
