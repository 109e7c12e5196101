// Package termview 用半块字符把预乘 RGBA 表面画到终端，每个字符单元两个像素
package termview

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HalfBlock 上半块字符：前景色为上像素，背景色为下像素
const HalfBlock = '▀'

// Screen 是 tcell.Screen 中绘制所需的部分
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// SurfaceSize 返回 cols×rows 个字符单元对应的像素尺寸
func SurfaceSize(cols, rows int) (int, int) {
	return max(cols, 0), max(rows, 0) * 2
}

// Blit 把 img 合成到 background 上并画到 s
//
// 第 y 行字符单元对应像素行 2y 与 2y+1；超出 img 的像素按透明处理。
func Blit(s Screen, img *image.RGBA, cols, rows int, background colorful.Color) {
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := Composite(img, cx, cy*2, background)
			bottom := Composite(img, cx, cy*2+1, background)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			s.SetContent(cx, cy, HalfBlock, nil, style)
		}
	}
}

// Composite 返回像素 (x, y) 叠加在 background 上的颜色
func Composite(img *image.RGBA, x, y int, background colorful.Color) colorful.Color {
	if img == nil || !(image.Point{x, y}).In(img.Bounds()) {
		return background
	}
	p := img.RGBAAt(x, y)
	if p.A == 0 {
		return background
	}

	// 预乘颜色还原为直通颜色后按 alpha 混合
	a := float64(p.A) / 255
	fg := colorful.Color{
		R: float64(p.R) / 255 / a,
		G: float64(p.G) / 255 / a,
		B: float64(p.B) / 255 / a,
	}
	return background.BlendRgb(fg.Clamped(), a)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// DrawText 在第 y 行从 x 开始写一行文字，超出 cols 的部分被截断
func DrawText(s Screen, x, y, cols int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= cols {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
