package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/burnrate/pkg/canvas"
	"github.com/decker502/burnrate/pkg/fire"
)

// VisibilityEpsilon 低于此不透明度的粒子跳过绘制
const VisibilityEpsilon = 0.01

const (
	fadeInEnd    = 0.10 // 生命前 10% 线性淡入
	fadeOutStart = 0.85 // 生命后 15% 线性淡出

	emberRadiusScale = 2.0 // 余烬光晕半径 = Size * 2
	flameStretch     = 1.8 // 火焰椭圆纵向拉伸
)

// Palette 粒子调色板，按 ColorIndex 索引
// 火焰只使用前两个（最深的）颜色。
var Palette = [fire.NumColors]colorful.Color{
	colorful.MustParseHex("#ff3300"),
	colorful.MustParseHex("#ff6a00"),
	colorful.MustParseHex("#ffa31a"),
	colorful.MustParseHex("#ffd966"),
}

// FadeEnvelope 计算粒子生命周期的淡入淡出系数 [0, 1]
// 仍在等待生成（life < 0）或寿命无效时返回 0。
func FadeEnvelope(life, maxLife float64) float64 {
	if life < 0 || maxLife <= 0 {
		return 0
	}
	r := life / maxLife
	switch {
	case r >= 1:
		return 0
	case r < fadeInEnd:
		return r / fadeInEnd
	case r > fadeOutStart:
		return (1 - r) / (1 - fadeOutStart)
	default:
		return 1
	}
}

// ParticleRenderer 在画布上绘制余烬与火焰粒子
//
// 每种 (类型, 颜色) 的径向渐变在创建时预生成，逐帧绘制不分配内存。
type ParticleRenderer struct {
	embers [fire.NumColors]*canvas.Gradient
	flames [fire.NumColors]*canvas.Gradient
}

// NewParticleRenderer 创建粒子渲染器
func NewParticleRenderer() *ParticleRenderer {
	r := &ParticleRenderer{}
	for i, c := range Palette {
		core := c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.5)
		r.embers[i] = canvas.NewGradient(
			canvas.Stop{Offset: 0, Color: core, Alpha: 1},
			canvas.Stop{Offset: 0.35, Color: c, Alpha: 0.6},
			canvas.Stop{Offset: 1, Color: c, Alpha: 0},
		)
		r.flames[i] = canvas.NewGradient(
			canvas.Stop{Offset: 0, Color: c, Alpha: 0.8},
			canvas.Stop{Offset: 0.5, Color: c, Alpha: 0.3},
			canvas.Stop{Offset: 1, Color: c, Alpha: 0},
		)
	}
	return r
}

// RenderParticles 清空画布并绘制全部可见粒子
func (r *ParticleRenderer) RenderParticles(c *canvas.Canvas, pool *fire.Pool, width, height float64) {
	c.Clear()
	r.drawParticles(c, pool, width, height)
}

// drawParticles 以叠加（lighter）模式绘制粒子，不清空画布
// 画布回退在辉光层之上复用同一绘制逻辑。
func (r *ParticleRenderer) drawParticles(c *canvas.Canvas, pool *fire.Pool, width, height float64) {
	c.SetComposite(canvas.Lighter)
	defer c.Reset()

	for i := 0; i < pool.Count; i++ {
		alpha := FadeEnvelope(pool.Life[i], pool.MaxLife[i]) * pool.Opacity[i]
		if alpha < VisibilityEpsilon {
			continue
		}

		color := int(pool.ColorIndex[i]) % fire.NumColors
		x, y, size := pool.X[i], pool.Y[i], pool.Size[i]

		var rx, ry float64
		var g *canvas.Gradient
		if pool.Kind[i] == fire.KindFlame {
			rx, ry = size, size*flameStretch
			g = r.flames[color]
		} else {
			rx = size * emberRadiusScale
			ry = rx
			g = r.embers[color]
		}

		// 视口外的粒子
		if x+rx < 0 || x-rx > width || y+ry < 0 || y-ry > height {
			continue
		}

		c.SetGlobalAlpha(alpha)
		c.FillRadialGradient(x, y, rx, ry, g)
	}
}
