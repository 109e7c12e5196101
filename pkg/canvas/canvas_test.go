package canvas

import (
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	red   = colorful.Color{R: 1}
)

func pixel(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func TestNewAndResize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		scale        float64
		wantW, wantH int
		wantScale    float64
	}{
		{"full scale", 100, 50, 1, 100, 50, 1},
		{"half scale", 100, 50, 0.5, 50, 25, 0.5},
		{"rounds up", 101, 51, 0.5, 51, 26, 0.5},
		{"hidpi", 10, 10, 2, 20, 20, 2},
		{"invalid scale", 10, 10, 0, 10, 10, 1},
		{"negative size", -5, 10, 1, 0, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.w, tt.h, tt.scale)
			b := c.Image().Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("backing size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
			if c.Scale() != tt.wantScale {
				t.Errorf("Scale() = %v, want %v", c.Scale(), tt.wantScale)
			}
		})
	}
}

func TestResizeDiscardsContents(t *testing.T) {
	c := New(10, 10, 1)
	c.Fill(color.White)
	c.Resize(10, 10, 1)
	if p := pixel(c, 3, 3); p.A != 0 {
		t.Errorf("pixel after same-size resize = %v, want transparent", p)
	}

	c.Fill(color.White)
	c.Resize(20, 8, 1)
	if w, h := c.Size(); w != 20 || h != 8 {
		t.Errorf("Size() = %vx%v, want 20x8", w, h)
	}
	if p := pixel(c, 15, 3); p.A != 0 {
		t.Errorf("pixel after resize = %v, want transparent", p)
	}
}

func TestFillRectSourceOver(t *testing.T) {
	c := New(4, 4, 1)
	c.FillRect(0, 0, 4, 4, color.RGBA{B: 255, A: 255})
	c.FillRect(0, 0, 2, 4, color.NRGBA{R: 255, A: 128})

	blended := pixel(c, 0, 0)
	if !near(blended.R, 128) || !near(blended.B, 127) || blended.A != 255 {
		t.Errorf("half red over blue = %v, want ~{128 0 127 255}", blended)
	}
	if p := pixel(c, 3, 0); p != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel outside the rect = %v, want opaque blue", p)
	}
}

func TestLighterSaturates(t *testing.T) {
	c := New(2, 2, 1)
	c.SetComposite(Lighter)
	if c.Composite() != Lighter {
		t.Fatalf("Composite() = %v, want lighter", c.Composite())
	}

	src := color.RGBA{R: 200, G: 40, A: 200}
	c.Fill(src)
	c.Fill(src)

	p := pixel(c, 1, 1)
	if p.R != 255 || p.A != 255 {
		t.Errorf("R/A = %d/%d, want saturated 255", p.R, p.A)
	}
	if !near(p.G, 80) {
		t.Errorf("G = %d, want ~80 (additive)", p.G)
	}
}

func TestGlobalAlpha(t *testing.T) {
	c := New(2, 2, 1)
	c.SetGlobalAlpha(0.5)
	c.Fill(color.White)

	p := pixel(c, 0, 0)
	if !near(p.R, 128) || !near(p.A, 128) {
		t.Errorf("white at global alpha 0.5 = %v, want ~128", p)
	}

	c.SetGlobalAlpha(3)
	if c.GlobalAlpha() != 1 {
		t.Errorf("GlobalAlpha() = %v, want clamped 1", c.GlobalAlpha())
	}

	c.SetComposite(Lighter)
	c.SetGlobalAlpha(0.2)
	c.Reset()
	if c.Composite() != SourceOver || c.GlobalAlpha() != 1 {
		t.Error("Reset should restore source-over and alpha 1")
	}
}

func TestFillRadialGradient(t *testing.T) {
	c := New(20, 20, 1)
	g := NewGradient(
		Stop{Offset: 0, Color: white, Alpha: 1},
		Stop{Offset: 1, Color: white, Alpha: 0},
	)
	c.FillRadialGradient(10, 10, 5, 5, g)

	if p := pixel(c, 9, 9); p.A < 200 {
		t.Errorf("centre pixel alpha = %d, want > 200", p.A)
	}
	if p := pixel(c, 0, 0); p.A != 0 {
		t.Errorf("corner pixel = %v, want untouched", p)
	}
	if p := pixel(c, 10, 16); p.A != 0 {
		t.Errorf("pixel outside the ellipse = %v, want untouched", p)
	}
	// alpha falls off towards the rim
	if inner, outer := pixel(c, 10, 10).A, pixel(c, 10, 13).A; outer >= inner {
		t.Errorf("alpha at rim %d should be below centre %d", outer, inner)
	}
}

func TestFillRadialGradientEllipse(t *testing.T) {
	c := New(40, 40, 1)
	g := NewGradient(Stop{Offset: 0, Color: white, Alpha: 1})
	c.FillRadialGradient(20, 20, 4, 12, g)

	if p := pixel(c, 20, 29); p.A == 0 {
		t.Error("vertically stretched ellipse should cover (20, 29)")
	}
	if p := pixel(c, 27, 20); p.A != 0 {
		t.Error("ellipse should not reach (27, 20)")
	}
}

func TestFillRadialGradientMinimumRadius(t *testing.T) {
	c := New(10, 10, 1)
	g := NewGradient(Stop{Offset: 0, Color: white, Alpha: 1})
	c.FillRadialGradient(5, 5, 0.1, 0.1, g)

	if p := pixel(c, 4, 4); p.A == 0 {
		t.Error("sub-pixel radius should still cover the nearest pixel")
	}
}

func TestFillLinearGradient(t *testing.T) {
	g := NewGradient(
		Stop{Offset: 0, Color: red, Alpha: 1},
		Stop{Offset: 1, Color: red, Alpha: 0},
	)

	tests := []struct {
		name         string
		axis         Axis
		strongX      int
		strongY      int
		weakX, weakY int
	}{
		{"bottom to top", BottomToTop, 5, 9, 5, 0},
		{"top to bottom", TopToBottom, 5, 0, 5, 9},
		{"left to right", LeftToRight, 0, 5, 9, 5},
		{"right to left", RightToLeft, 9, 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(10, 10, 1)
			c.FillLinearGradient(0, 0, 10, 10, tt.axis, g)

			strong := pixel(c, tt.strongX, tt.strongY)
			weak := pixel(c, tt.weakX, tt.weakY)
			if strong.A < 200 {
				t.Errorf("start edge alpha = %d, want > 200", strong.A)
			}
			if weak.A > 40 {
				t.Errorf("end edge alpha = %d, want < 40", weak.A)
			}
			if strong.G != 0 || strong.B != 0 {
				t.Errorf("start edge = %v, want pure red", strong)
			}
		})
	}
}

func TestFillLinearGradientPartialRect(t *testing.T) {
	c := New(10, 10, 1)
	g := NewGradient(Stop{Offset: 0, Color: white, Alpha: 1})
	c.FillLinearGradient(0, 6, 10, 4, BottomToTop, g)

	if p := pixel(c, 5, 5); p.A != 0 {
		t.Errorf("pixel above the band = %v, want untouched", p)
	}
	if p := pixel(c, 5, 6); p.A != 255 {
		t.Errorf("pixel in the band = %v, want opaque", p)
	}

	// degenerate rects draw nothing
	c.Clear()
	c.FillLinearGradient(0, 0, 0, 10, BottomToTop, g)
	c.FillLinearGradient(0, 0, 10, -1, BottomToTop, g)
	if p := pixel(c, 0, 0); p.A != 0 {
		t.Errorf("degenerate fill touched pixels: %v", p)
	}
}

func TestScaledFill(t *testing.T) {
	c := New(20, 20, 0.5)
	c.FillRect(10, 0, 10, 20, color.White)

	if p := pixel(c, 4, 4); p.A != 0 {
		t.Errorf("backing pixel 4 = %v, want untouched", p)
	}
	if p := pixel(c, 5, 4); p.A != 255 {
		t.Errorf("backing pixel 5 = %v, want white", p)
	}
}

func TestClear(t *testing.T) {
	c := New(3, 3, 1)
	c.Fill(color.White)
	c.Clear()
	for _, v := range c.Image().Pix {
		if v != 0 {
			t.Fatal("Clear left non-zero bytes")
		}
	}
}

func TestGradientAt(t *testing.T) {
	empty := NewGradient()
	if got := empty.At(0.5); got != (color.RGBA{}) {
		t.Errorf("empty gradient At = %v, want transparent", got)
	}

	// stops given out of order
	g := NewGradient(
		Stop{Offset: 1, Color: white, Alpha: 1},
		Stop{Offset: 0, Color: red, Alpha: 1},
	)
	if got := g.At(0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("At(0) = %v, want red", got)
	}
	if got := g.At(1); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("At(1) = %v, want white", got)
	}
	if got := g.At(-3); got != g.At(0) {
		t.Errorf("At(-3) = %v, want clamped to At(0)", got)
	}
	if got := g.At(7); got != g.At(1) {
		t.Errorf("At(7) = %v, want clamped to At(1)", got)
	}

	mid := g.At(0.5)
	if mid.R != 255 || !near(mid.G, 128) {
		t.Errorf("At(0.5) = %v, want ~{255 128 128 255}", mid)
	}
}

func TestGradientPremultiplies(t *testing.T) {
	g := NewGradient(Stop{Offset: 0, Color: white, Alpha: 0.5})
	got := g.At(0.3)
	if !near(got.R, 128) || !near(got.A, 128) {
		t.Errorf("At = %v, want premultiplied ~128", got)
	}
}

func TestCompositeModeString(t *testing.T) {
	if SourceOver.String() != "source-over" || Lighter.String() != "lighter" {
		t.Errorf("unexpected names %q %q", SourceOver, Lighter)
	}
}
