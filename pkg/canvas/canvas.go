// Package canvas 带渐变填充与两种合成模式的 CPU 光栅表面，非着色器火焰渲染器的绘制目标
//
// 填充方法的坐标都是逻辑单位。后备图像尺寸为逻辑尺寸乘以表面缩放，
// 缩放 0.5 即以四分之一分辨率渲染，由宿主在绘制时拉伸。
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/decker502/burnrate/pkg/utils"
)

// CompositeMode 填充与已有像素的合成方式
type CompositeMode int

const (
	// SourceOver 普通 alpha 混合
	SourceOver CompositeMode = iota
	// Lighter 源与目标相加，每个通道饱和截断
	Lighter
)

func (m CompositeMode) String() string {
	if m == Lighter {
		return "lighter"
	}
	return "source-over"
}

// Axis 线性渐变从偏移 0 到 1 的方向
type Axis int

const (
	TopToBottom Axis = iota
	BottomToTop
	LeftToRight
	RightToLeft
)

// minRadius 径向填充的最小半径（后备像素），更小的椭圆会落在像素中心之间而消失
const minRadius = 0.75

// Canvas 绘制到预乘 alpha 的 *image.RGBA
type Canvas struct {
	img    *image.RGBA
	width  float64
	height float64
	scale  float64

	mode  CompositeMode
	alpha float64
}

// New 创建 width×height 逻辑单位、给定缩放的表面
func New(width, height int, scale float64) *Canvas {
	c := &Canvas{alpha: 1}
	c.Resize(width, height, scale)
	return c
}

// Resize 重新分配后备图像并丢弃内容
// 非正缩放按 1 处理。
func (c *Canvas) Resize(width, height int, scale float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}

	bw := int(math.Ceil(float64(width) * scale))
	bh := int(math.Ceil(float64(height) * scale))
	if c.img == nil || c.img.Bounds().Dx() != bw || c.img.Bounds().Dy() != bh {
		c.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
	} else {
		c.Clear()
	}

	c.width = float64(width)
	c.height = float64(height)
	c.scale = scale
}

// Size 返回逻辑尺寸
func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

// Scale 返回逻辑单位到后备像素的比例
func (c *Canvas) Scale() float64 {
	return c.scale
}

// Image 返回后备图像，Pix 为预乘 RGBA
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// SetComposite 设置后续填充的合成模式
func (c *Canvas) SetComposite(mode CompositeMode) {
	c.mode = mode
}

// Composite 返回当前合成模式
func (c *Canvas) Composite() CompositeMode {
	return c.mode
}

// SetGlobalAlpha 后续每次填充都乘以 a（夹取到 [0, 1]）
func (c *Canvas) SetGlobalAlpha(a float64) {
	c.alpha = utils.Clamp01(a)
}

// GlobalAlpha 返回当前全局 alpha
func (c *Canvas) GlobalAlpha() float64 {
	return c.alpha
}

// Reset 恢复 SourceOver 与全局 alpha 1
func (c *Canvas) Reset() {
	c.mode = SourceOver
	c.alpha = 1
}

// Clear 把所有像素置为透明黑，不受合成模式影响
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// Fill 在整个表面上合成 col
func (c *Canvas) Fill(col color.Color) {
	c.FillRect(0, 0, c.width, c.height, col)
}

// FillRect 在逻辑矩形上合成纯色
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	src := colorToPremul(col)
	x0, y0, x1, y1, ok := c.span(x, y, x+w, y+h)
	if !ok {
		return
	}
	for py := y0; py < y1; py++ {
		off := c.img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			c.blend(off, src)
			off += 4
		}
	}
}

// FillLinearGradient 沿 axis 方向用 g 填充逻辑矩形
// 偏移 0 位于 axis 起始的那条边。
func (c *Canvas) FillLinearGradient(x, y, w, h float64, axis Axis, g *Gradient) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0, x1, y1, ok := c.span(x, y, x+w, y+h)
	if !ok {
		return
	}

	inv := 1 / c.scale
	for py := y0; py < y1; py++ {
		ly := (float64(py) + 0.5) * inv
		off := c.img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			var t float64
			switch axis {
			case TopToBottom:
				t = (ly - y) / h
			case BottomToTop:
				t = (y + h - ly) / h
			case LeftToRight:
				t = ((float64(px)+0.5)*inv - x) / w
			case RightToLeft:
				t = (x + w - (float64(px)+0.5)*inv) / w
			}
			c.blend(off, g.at(t))
			off += 4
		}
	}
}

// FillRadialGradient 填充以 (cx, cy) 为中心、半径 rx, ry 的椭圆
// 偏移 0 为中心，偏移 1 为边缘；椭圆外的像素保持不变。
func (c *Canvas) FillRadialGradient(cx, cy, rx, ry float64, g *Gradient) {
	// 后备像素单位的半径
	brx := math.Max(rx*c.scale, minRadius)
	bry := math.Max(ry*c.scale, minRadius)
	bcx := cx * c.scale
	bcy := cy * c.scale

	b := c.img.Bounds()
	x0 := max(int(math.Floor(bcx-brx)), b.Min.X)
	x1 := min(int(math.Ceil(bcx+brx)), b.Max.X)
	y0 := max(int(math.Floor(bcy-bry)), b.Min.Y)
	y1 := min(int(math.Ceil(bcy+bry)), b.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for py := y0; py < y1; py++ {
		dy := (float64(py) + 0.5 - bcy) / bry
		off := c.img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			dx := (float64(px) + 0.5 - bcx) / brx
			d2 := dx*dx + dy*dy
			if d2 < 1 {
				c.blend(off, g.at(math.Sqrt(d2)))
			}
			off += 4
		}
	}
}

// span 把逻辑矩形换算为中心落在其中的后备像素范围，并裁剪到图像内
func (c *Canvas) span(lx0, ly0, lx1, ly1 float64) (x0, y0, x1, y1 int, ok bool) {
	b := c.img.Bounds()
	x0 = max(int(math.Ceil(lx0*c.scale-0.5)), b.Min.X)
	y0 = max(int(math.Ceil(ly0*c.scale-0.5)), b.Min.Y)
	x1 = min(int(math.Ceil(lx1*c.scale-0.5)), b.Max.X)
	y1 = min(int(math.Ceil(ly1*c.scale-0.5)), b.Max.Y)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

func (c *Canvas) blend(off int, src premul) {
	a := c.alpha
	if a < 1 {
		src = premul{r: src.r * a, g: src.g * a, b: src.b * a, a: src.a * a}
	}
	if src.a <= 0 && src.r <= 0 && src.g <= 0 && src.b <= 0 {
		return
	}

	p := c.img.Pix[off : off+4 : off+4]
	switch c.mode {
	case Lighter:
		p[0] = toByte(float64(p[0])/255 + src.r)
		p[1] = toByte(float64(p[1])/255 + src.g)
		p[2] = toByte(float64(p[2])/255 + src.b)
		p[3] = toByte(float64(p[3])/255 + src.a)
	default:
		inv := 1 - src.a
		p[0] = toByte(src.r + float64(p[0])/255*inv)
		p[1] = toByte(src.g + float64(p[1])/255*inv)
		p[2] = toByte(src.b + float64(p[2])/255*inv)
		p[3] = toByte(src.a + float64(p[3])/255*inv)
	}
}

func colorToPremul(col color.Color) premul {
	r, g, b, a := col.RGBA()
	return premul{
		r: float64(r) / 0xffff,
		g: float64(g) / 0xffff,
		b: float64(b) / 0xffff,
		a: float64(a) / 0xffff,
	}
}

func toByte(v float64) uint8 {
	return uint8(utils.Clamp01(v)*255 + 0.5)
}
