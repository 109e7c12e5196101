package render

import (
	"math"

	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/fire"
)

// 脉动与暗角的相位公式
//
// 着色器 uniform 与画布回退共用以下函数，保证两条渲染路径的脉动节奏一致。

// GlowPulse 返回辉光亮度系数
// PulseSpeed 为 0 时恒为 1，否则在 [0.7, 1.0] 间正弦摆动。
func GlowPulse(cfg config.TierConfig, time float64) float64 {
	if cfg.PulseSpeed == 0 {
		return 1
	}
	return 0.85 + 0.15*math.Sin(time*cfg.PulseSpeed)
}

// VignetteStrength 返回暗角类型的基础强度，none 为 0
func VignetteStrength(v config.VignetteType) float64 {
	switch v {
	case config.VignetteBlazing:
		return 0.35
	case config.VignetteInferno:
		return 0.5
	case config.VignetteMeltdown:
		return 0.65
	default:
		return 0
	}
}

// VignettePulse 返回当前时刻的暗角强度
// meltdown 以 1.5 倍速、更大幅度脉动，其余类型幅度为 ±10%。
func VignettePulse(cfg config.TierConfig, time float64) float64 {
	base := VignetteStrength(cfg.Vignette)
	if base == 0 {
		return 0
	}
	if cfg.Vignette == config.VignetteMeltdown {
		return base * (0.8 + 0.2*math.Sin(time*cfg.PulseSpeed*1.5))
	}
	return base * (0.9 + 0.1*math.Sin(time*cfg.PulseSpeed))
}

// ShimmerBand 返回热浪带高度（视口高度比例），未开启时为 0
// 在 0.06 ~ 0.08 之间缓慢呼吸。
func ShimmerBand(cfg config.TierConfig, time float64) float64 {
	if !cfg.HeatShimmer {
		return 0
	}
	return 0.07 + 0.01*math.Sin(time*1.7)
}

// GlowGeometry 返回实际生效的底部高度、侧边宽度、顶部高度（视口比例）
// 对应开关关闭时为 0。
func GlowGeometry(cfg config.TierConfig) (bottom, side, top float64) {
	if cfg.BottomGlow {
		bottom = cfg.BottomGlowHeight
	}
	if cfg.SideGlow {
		side = cfg.SideGlowWidth
	}
	if cfg.TopGlow {
		top = cfg.TopGlowHeight
	}
	return bottom, side, top
}

// Uniforms 由档位配置计算着色器 uniform
//
// 纯函数：只依赖参数。offsetX/offsetY 为引擎噪声场的格点偏移。
func Uniforms(cfg config.TierConfig, time, width, height, offsetX, offsetY float64) map[string]any {
	bottom, side, top := GlowGeometry(cfg)
	return map[string]any{
		"Resolution":       []float32{float32(width), float32(height)},
		"Time":             float32(time),
		"NoiseOffset":      []float32{float32(offsetX), float32(offsetY)},
		"NoiseScale":       float32(fire.WindScale),
		"NoiseSpeed":       float32(fire.WindSpeed),
		"BottomHeight":     float32(bottom),
		"SideWidth":        float32(side),
		"TopHeight":        float32(top),
		"GlowOpacity":      float32(cfg.GlowOpacity),
		"Pulse":            float32(GlowPulse(cfg, time)),
		"Vignette":         float32(cfg.Vignette.Level()),
		"VignetteStrength": float32(VignettePulse(cfg, time)),
		"Shimmer":          float32(ShimmerBand(cfg, time)),
	}
}
