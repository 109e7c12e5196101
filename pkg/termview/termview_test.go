package termview

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var black = colorful.Color{}

func near(a, b colorful.Color) bool {
	const eps = 1.0 / 255
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps && math.Abs(a.B-b.B) <= eps
}

func TestSurfaceSize(t *testing.T) {
	if w, h := SurfaceSize(80, 24); w != 80 || h != 48 {
		t.Errorf("SurfaceSize(80, 24) = %dx%d, want 80x48", w, h)
	}
	if w, h := SurfaceSize(-1, -5); w != 0 || h != 0 {
		t.Errorf("negative sizes = %dx%d, want 0x0", w, h)
	}
}

func TestComposite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 128, A: 128}) // 半透明红色（预乘）

	blue := colorful.Color{B: 1}
	tests := []struct {
		name string
		x, y int
		want colorful.Color
	}{
		{"opaque", 0, 0, colorful.Color{R: 1}},
		{"half alpha", 1, 0, colorful.Color{R: 128.0 / 255, B: 127.0 / 255}},
		{"transparent", 0, 1, blue},
		{"outside", 5, 5, blue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Composite(img, tt.x, tt.y, blue); !near(got, tt.want) {
				t.Errorf("Composite(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if got := Composite(nil, 0, 0, blue); got != blue {
		t.Error("nil image should return the background")
	}
}

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(cols, rows)
	return s
}

func TestBlit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{G: 255, A: 255})

	s := newScreen(t, 2, 2)
	Blit(s, img, 2, 2, black)

	mainc, _, style, _ := s.GetContent(0, 0)
	if mainc != HalfBlock {
		t.Fatalf("cell rune = %q, want half block", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, want the top pixel (red)", fg)
	}
	if bg != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("background = %v, want the bottom pixel (green)", bg)
	}

	_, _, style, _ = s.GetContent(1, 1)
	fg, bg, _ = style.Decompose()
	if fg != tcell.NewRGBColor(0, 0, 0) || bg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("empty cell = %v/%v, want the black background", fg, bg)
	}
}

func TestDrawTextTruncates(t *testing.T) {
	s := newScreen(t, 4, 1)
	DrawText(s, 1, 0, 4, "fire!", tcell.StyleDefault)

	for x, r := range map[int]rune{1: 'f', 2: 'i', 3: 'r'} {
		if mainc, _, _, _ := s.GetContent(x, 0); mainc != r {
			t.Errorf("cell %d = %q, want %q", x, mainc, r)
		}
	}
}
