package render

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/burnrate/pkg/canvas"
	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/fire"
)

// 各辉光层相对底部辉光的强度，与着色器中的系数一致
const (
	sideGlowGain = 0.85
	topGlowGain  = 0.7
	shimmerAlpha = 0.18
)

var (
	vignetteGradient = canvas.NewGradient(
		canvas.Stop{Offset: 0, Alpha: 0},
		canvas.Stop{Offset: 0.55, Alpha: 0},
		canvas.Stop{Offset: 1, Color: colorful.MustParseHex("#1a0000"), Alpha: 1},
	)
	shimmerGradient = canvas.NewGradient(
		canvas.Stop{Offset: 0, Color: colorful.MustParseHex("#ffb347"), Alpha: 1},
		canvas.Stop{Offset: 1, Color: colorful.MustParseHex("#ff6a00"), Alpha: 0},
	)
)

// FallbackRenderer 无着色器时的画布渲染路径
//
// 用线性/径向渐变重现着色器的四个效果与热浪带，几何、不透明度与脉动相位
// 全部来自同一份 TierConfig 和相同的相位公式。逐像素的噪声边缘无法重现，
// 这是回退路径唯一的保真度损失。
type FallbackRenderer struct {
	particles *ParticleRenderer

	// 按色标缓存的辉光渐变
	glowStops []config.ColorStop
	glow      *canvas.Gradient
}

// NewFallbackRenderer 创建回退渲染器，particles 为 nil 时自动创建
func NewFallbackRenderer(particles *ParticleRenderer) *FallbackRenderer {
	if particles == nil {
		particles = NewParticleRenderer()
	}
	return &FallbackRenderer{particles: particles}
}

// RenderFallback 清空画布，绘制辉光、暗角与热浪带，最后叠加粒子
func (f *FallbackRenderer) RenderFallback(c *canvas.Canvas, pool *fire.Pool, cfg config.TierConfig, time, width, height float64) {
	c.Clear()
	c.Reset()

	bottom, side, top := GlowGeometry(cfg)
	opacity := cfg.GlowOpacity * GlowPulse(cfg, time)
	if opacity > 0 && len(cfg.GlowColorStops) > 0 {
		glow := f.glowGradient(cfg.GlowColorStops)

		if bottom > 0 {
			bh := bottom * height
			c.SetGlobalAlpha(opacity)
			c.FillLinearGradient(0, height-bh, width, bh, canvas.BottomToTop, glow)
		}
		if side > 0 {
			sw := side * width
			c.SetGlobalAlpha(opacity * sideGlowGain)
			c.FillLinearGradient(0, 0, sw, height, canvas.LeftToRight, glow)
			c.FillLinearGradient(width-sw, 0, sw, height, canvas.RightToLeft, glow)
		}
		if top > 0 {
			c.SetGlobalAlpha(opacity * topGlowGain)
			c.FillLinearGradient(0, 0, width, top*height, canvas.TopToBottom, glow)
		}
	}

	if strength := VignettePulse(cfg, time); strength > 0 {
		c.SetGlobalAlpha(strength)
		c.FillRadialGradient(width/2, height/2, width*0.75, height*0.75, vignetteGradient)
	}

	if band := ShimmerBand(cfg, time); band > 0 {
		bh := band * height
		c.SetGlobalAlpha(shimmerAlpha)
		c.FillLinearGradient(0, height-bh, width, bh, canvas.BottomToTop, shimmerGradient)
	}

	c.Reset()
	f.particles.drawParticles(c, pool, width, height)
}

// glowGradient 色标从边缘向内均匀分布
func (f *FallbackRenderer) glowGradient(stops []config.ColorStop) *canvas.Gradient {
	if f.glow != nil && slices.Equal(f.glowStops, stops) {
		return f.glow
	}

	cs := make([]canvas.Stop, len(stops))
	for i, s := range stops {
		offset := 0.0
		if len(stops) > 1 {
			offset = float64(i) / float64(len(stops)-1)
		}
		cs[i] = canvas.Stop{Offset: offset, Color: s.RGB(), Alpha: s.Alpha}
	}

	f.glowStops = slices.Clone(stops)
	f.glow = canvas.NewGradient(cs...)
	return f.glow
}
