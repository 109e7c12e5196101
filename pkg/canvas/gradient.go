package canvas

import (
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/burnrate/pkg/utils"
)

// lutSize 渐变查找表的采样数
const lutSize = 256

// Stop 渐变色标
type Stop struct {
	// Offset 位置 0.0 ~ 1.0
	Offset float64
	Color  colorful.Color
	// Alpha 不透明度 0.0 ~ 1.0（非预乘）
	Alpha float64
}

// premul 预乘 RGBA，分量范围 0.0 ~ 1.0
type premul struct {
	r, g, b, a float64
}

// Gradient 预先采样的颜色渐变
//
// 构建时在 sRGB 空间混合相邻色标（go-colorful BlendRgb），
// 结果以预乘形式存入查找表，绘制时按 t 直接取值。
// Gradient 创建后只读，可被多个 Canvas 共享。
type Gradient struct {
	lut [lutSize]premul
}

// NewGradient 从色标创建渐变
// 色标按 Offset 排序；第一个色标之前、最后一个色标之后取端点颜色。
// 没有色标时返回完全透明的渐变。
func NewGradient(stops ...Stop) *Gradient {
	g := &Gradient{}
	if len(stops) == 0 {
		return g
	}

	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i := range g.lut {
		g.lut[i] = sample(sorted, float64(i)/(lutSize-1))
	}
	return g
}

func sample(stops []Stop, t float64) premul {
	first, last := stops[0], stops[len(stops)-1]
	if t <= first.Offset {
		return toPremul(first.Color, first.Alpha)
	}
	if t >= last.Offset {
		return toPremul(last.Color, last.Alpha)
	}

	for k := 0; k < len(stops)-1; k++ {
		a, b := stops[k], stops[k+1]
		if t < a.Offset || t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return toPremul(b.Color, b.Alpha)
		}
		f := (t - a.Offset) / span
		return toPremul(a.Color.BlendRgb(b.Color, f), utils.Lerp(a.Alpha, b.Alpha, f))
	}
	return toPremul(last.Color, last.Alpha)
}

func toPremul(c colorful.Color, alpha float64) premul {
	c = c.Clamped()
	a := utils.Clamp01(alpha)
	return premul{r: c.R * a, g: c.G * a, b: c.B * a, a: a}
}

// at 返回位置 t（越界时夹取）处的预乘颜色
func (g *Gradient) at(t float64) premul {
	i := int(t*(lutSize-1) + 0.5)
	if i < 0 {
		i = 0
	} else if i >= lutSize {
		i = lutSize - 1
	}
	return g.lut[i]
}

// At 返回位置 t 处的预乘颜色
func (g *Gradient) At(t float64) color.RGBA {
	p := g.at(t)
	return color.RGBA{R: toByte(p.r), G: toByte(p.g), B: toByte(p.b), A: toByte(p.a)}
}
