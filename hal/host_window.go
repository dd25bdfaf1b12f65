//go:build !tinygo && !sbc && cgo

package hal

import (
	"image/color"

	"nixieclock/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	winW = 6*tubeW + 7*tubeGap
	winH = 200

	tubeW   = 64
	tubeH   = 110
	tubeGap = 12
	tubeY   = 40
)

// RunWindow opens a desktop window that renders the tubes and forwards
// keyboard input as buttons and encoder detents. It blocks until the
// window closes.
//
// Keys: 1..6 hold buttons 0..5, F/J hold the left/right encoder
// buttons, A/S click the left encoder, K/L click the right encoder.
func RunWindow(newApp func(HAL) func() error) error {
	h := New().(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("nixieclock (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(winW*2, winH*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	step func() error
}

func (g *hostGame) Update() error {
	g.pollKeys()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) pollKeys() {
	var mask uint8
	held := []struct {
		key ebiten.Key
		bit uint8
	}{
		{ebiten.KeyDigit1, ButtonBit0},
		{ebiten.KeyDigit2, ButtonBit1},
		{ebiten.KeyDigit3, ButtonBit2},
		{ebiten.KeyDigit4, ButtonBit3},
		{ebiten.KeyDigit5, ButtonBit4},
		{ebiten.KeyDigit6, ButtonBit5},
		{ebiten.KeyF, LeftButtonBit},
		{ebiten.KeyJ, RightButtonBit},
	}
	for _, k := range held {
		if ebiten.IsKeyPressed(k.key) {
			mask |= k.bit
		}
	}
	g.h.btns.set(mask)

	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.h.lenc.click(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.h.lenc.click(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.h.renc.click(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.h.renc.click(true)
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x10, 0x0c, 0x08, 0xFF})

	duty, oe := g.h.bus.snapshotDuty()
	if !oe {
		duty = [64]uint8{}
	}

	for tube := 0; tube < 6; tube++ {
		x := float32(tubeGap + tube*(tubeW+tubeGap))
		vector.StrokeRect(screen, x, tubeY, tubeW, tubeH, 1, color.RGBA{0x40, 0x38, 0x30, 0xFF}, false)
		base := [6]int{0, 10, 21, 32, 43, 53}[tube]
		for d := 0; d < 10; d++ {
			if v := duty[base+d]; v > 0 {
				drawDigit(screen, x+12, tubeY+20, d, glow(v))
			}
		}
	}

	// Neon colons between tube pairs 1/2 and 3/4.
	drawLamp(screen, lampX(1), duty[20])
	drawLamp(screen, lampX(3), duty[42])

	// Auxiliary indicators in the top corners.
	drawAux(screen, 8, duty[31])
	drawAux(screen, winW-16, duty[63])

	ebitenutil.DebugPrintAt(screen, "1-6 buttons  F/J enc buttons  A/S left enc  K/L right enc", 8, winH-16)
}

func lampX(leftTube int) float32 {
	return float32(tubeGap + (leftTube+1)*(tubeW+tubeGap) - tubeGap/2)
}

func glow(duty uint8) color.RGBA {
	if duty > 9 {
		duty = 9
	}
	a := uint32(duty) * 255 / 9
	return color.RGBA{
		R: uint8(0xFF * a / 255),
		G: uint8(0x90 * a / 255),
		B: uint8(0x28 * a / 255),
		A: uint8(a),
	}
}

func drawLamp(dst *ebiten.Image, x float32, duty uint8) {
	c := glow(duty)
	vector.DrawFilledCircle(dst, x, tubeY+38, 4, c, true)
	vector.DrawFilledCircle(dst, x, tubeY+72, 4, c, true)
}

func drawAux(dst *ebiten.Image, x float32, duty uint8) {
	vector.DrawFilledRect(dst, x, 10, 8, 8, glow(duty), false)
}

// sevenSeg maps numerals to segments a..g (bit 0 = a, clockwise, g mid).
var sevenSeg = [10]uint8{
	0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07, 0x7F, 0x6F,
}

func drawDigit(dst *ebiten.Image, x, y float32, digit int, c color.RGBA) {
	const (
		l = 28 // segment length
		t = 5  // segment thickness
	)
	segs := sevenSeg[digit]
	bar := func(bit uint8, sx, sy float32, horiz bool) {
		if segs&bit == 0 {
			return
		}
		if horiz {
			vector.DrawFilledRect(dst, x+sx, y+sy, l, t, c, false)
		} else {
			vector.DrawFilledRect(dst, x+sx, y+sy, t, l, c, false)
		}
	}
	bar(0x01, 0, 0, true)           // a
	bar(0x02, l-t, 0, false)        // b
	bar(0x04, l-t, l, false)        // c
	bar(0x08, 0, 2*l-t, true)       // d
	bar(0x10, 0, l, false)          // e
	bar(0x20, 0, 0, false)          // f
	bar(0x40, 0, l-t/2, true)       // g
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return winW, winH
}
