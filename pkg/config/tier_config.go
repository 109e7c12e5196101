package config

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// 火焰强度档位名称
//
// 档位由外部协作方（用量统计）根据固定阈值计算得出，引擎只消费档位名称。
const (
	TierCold     = "cold"
	TierSpark    = "spark"
	TierWarm     = "warm"
	TierBurning  = "burning"
	TierBlazing  = "blazing"
	TierInferno  = "inferno"
	TierMeltdown = "meltdown"
)

// Tiers 按强度从低到高排列的全部档位
var Tiers = []string{
	TierCold,
	TierSpark,
	TierWarm,
	TierBurning,
	TierBlazing,
	TierInferno,
	TierMeltdown,
}

// MaxParticles 粒子池固定容量
//
// 必须不小于任意档位的 EmberCount + FlameCount（当前最大为 meltdown 的 218）。
const MaxParticles = 256

// TierIndex 返回档位的强度序号（cold = 0 ... meltdown = 6）
// 未知档位返回 0，与 cold 等价。
func TierIndex(tier string) int {
	for i, name := range Tiers {
		if name == tier {
			return i
		}
	}
	return 0
}

// VignetteType 暗角类型
type VignetteType string

const (
	VignetteNone     VignetteType = "none"
	VignetteBlazing  VignetteType = "blazing"
	VignetteInferno  VignetteType = "inferno"
	VignetteMeltdown VignetteType = "meltdown"
)

// Level 返回暗角类型的数值编码（供着色器 uniform 使用）
func (v VignetteType) Level() int {
	switch v {
	case VignetteBlazing:
		return 1
	case VignetteInferno:
		return 2
	case VignetteMeltdown:
		return 3
	default:
		return 0
	}
}

// ColorStop 辉光渐变色标
type ColorStop struct {
	// Color 十六进制颜色，如 "#ff4500"
	Color string `yaml:"color"`

	// Alpha 不透明度 0.0 ~ 1.0
	Alpha float64 `yaml:"alpha"`
}

// RGB 解析色标颜色，解析失败时返回黑色
func (s ColorStop) RGB() colorful.Color {
	c, err := colorful.Hex(s.Color)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// NRGBA 返回带 Alpha 的非预乘颜色
func (s ColorStop) NRGBA() color.NRGBA {
	r, g, b := s.RGB().Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(s.Alpha)*255 + 0.5)}
}

// TierConfig 单个档位的火焰模拟参数
//
// 值对象：TierToConfig 每次返回新的副本，调用方修改不会影响内置档位表。
type TierConfig struct {
	// 粒子目标数量
	EmberCount int `yaml:"emberCount"`
	FlameCount int `yaml:"flameCount"`

	// 辉光几何（高度/宽度为视口比例 0 ~ 1）
	BottomGlow       bool    `yaml:"bottomGlow"`
	BottomGlowHeight float64 `yaml:"bottomGlowHeight"`
	SideGlow         bool    `yaml:"sideGlow"`
	SideGlowWidth    float64 `yaml:"sideGlowWidth"`
	TopGlow          bool    `yaml:"topGlow"`
	TopGlowHeight    float64 `yaml:"topGlowHeight"`
	GlowOpacity      float64 `yaml:"glowOpacity"`

	// PulseSpeed 辉光脉动角速度（rad/s），0 表示静止
	PulseSpeed float64 `yaml:"pulseSpeed"`

	Vignette    VignetteType `yaml:"vignette"`
	HeatShimmer bool         `yaml:"heatShimmer"`

	// 运动参数（单位：像素/秒）
	EmberSpeedMin float64 `yaml:"emberSpeedMin"`
	EmberSpeedMax float64 `yaml:"emberSpeedMax"`
	FlameSpeedMin float64 `yaml:"flameSpeedMin"`
	FlameSpeedMax float64 `yaml:"flameSpeedMax"`
	DriftStrength float64 `yaml:"driftStrength"`

	// GlowColorStops 辉光渐变色标，从边缘向内排列
	GlowColorStops []ColorStop `yaml:"glowColorStops"`
}

// TotalParticles 返回两类粒子目标数量之和
func (c TierConfig) TotalParticles() int {
	return c.EmberCount + c.FlameCount
}

// Clone 深拷贝（复制色标切片）
func (c TierConfig) Clone() TierConfig {
	if c.GlowColorStops != nil {
		stops := make([]ColorStop, len(c.GlowColorStops))
		copy(stops, c.GlowColorStops)
		c.GlowColorStops = stops
	}
	if c.Vignette == "" {
		c.Vignette = VignetteNone
	}
	return c
}

// TierToConfig 将档位名称映射为模拟参数
//
// 全函数：未知档位（包括空字符串）返回 cold 配置，从不报错。
func TierToConfig(tier string) TierConfig {
	switch tier {
	case TierSpark:
		return TierConfig{
			EmberCount:       24,
			FlameCount:       10,
			BottomGlow:       true,
			BottomGlowHeight: 0.12,
			GlowOpacity:      0.25,
			Vignette:         VignetteNone,
			EmberSpeedMin:    30,
			EmberSpeedMax:    60,
			FlameSpeedMin:    20,
			FlameSpeedMax:    40,
			DriftStrength:    10,
			GlowColorStops: []ColorStop{
				{Color: "#ff6a00", Alpha: 0.35},
				{Color: "#ff3d00", Alpha: 0.15},
				{Color: "#7a1000", Alpha: 0},
			},
		}
	case TierWarm:
		return TierConfig{
			EmberCount:       45,
			FlameCount:       20,
			BottomGlow:       true,
			BottomGlowHeight: 0.18,
			GlowOpacity:      0.35,
			PulseSpeed:       0.8,
			Vignette:         VignetteNone,
			EmberSpeedMin:    35,
			EmberSpeedMax:    75,
			FlameSpeedMin:    25,
			FlameSpeedMax:    50,
			DriftStrength:    14,
			GlowColorStops: []ColorStop{
				{Color: "#ff8c00", Alpha: 0.45},
				{Color: "#ff4500", Alpha: 0.2},
				{Color: "#8b1a00", Alpha: 0},
			},
		}
	case TierBurning:
		return TierConfig{
			EmberCount:       70,
			FlameCount:       32,
			BottomGlow:       true,
			BottomGlowHeight: 0.25,
			GlowOpacity:      0.45,
			PulseSpeed:       1.0,
			Vignette:         VignetteNone,
			EmberSpeedMin:    40,
			EmberSpeedMax:    90,
			FlameSpeedMin:    30,
			FlameSpeedMax:    60,
			DriftStrength:    18,
			GlowColorStops: []ColorStop{
				{Color: "#ffa500", Alpha: 0.55},
				{Color: "#ff4500", Alpha: 0.3},
				{Color: "#b22200", Alpha: 0.1},
				{Color: "#400000", Alpha: 0},
			},
		}
	case TierBlazing:
		return TierConfig{
			EmberCount:       95,
			FlameCount:       45,
			BottomGlow:       true,
			BottomGlowHeight: 0.32,
			SideGlow:         true,
			SideGlowWidth:    0.10,
			GlowOpacity:      0.55,
			PulseSpeed:       1.4,
			Vignette:         VignetteBlazing,
			EmberSpeedMin:    50,
			EmberSpeedMax:    110,
			FlameSpeedMin:    35,
			FlameSpeedMax:    75,
			DriftStrength:    24,
			GlowColorStops: []ColorStop{
				{Color: "#ffc040", Alpha: 0.65},
				{Color: "#ff6a00", Alpha: 0.4},
				{Color: "#cc2200", Alpha: 0.15},
				{Color: "#400000", Alpha: 0},
			},
		}
	case TierInferno:
		return TierConfig{
			EmberCount:       120,
			FlameCount:       60,
			BottomGlow:       true,
			BottomGlowHeight: 0.40,
			SideGlow:         true,
			SideGlowWidth:    0.15,
			TopGlow:          true,
			TopGlowHeight:    0.10,
			GlowOpacity:      0.65,
			PulseSpeed:       1.8,
			Vignette:         VignetteInferno,
			HeatShimmer:      true,
			EmberSpeedMin:    60,
			EmberSpeedMax:    130,
			FlameSpeedMin:    40,
			FlameSpeedMax:    90,
			DriftStrength:    30,
			GlowColorStops: []ColorStop{
				{Color: "#ffe080", Alpha: 0.75},
				{Color: "#ff8c00", Alpha: 0.5},
				{Color: "#e03000", Alpha: 0.2},
				{Color: "#500000", Alpha: 0},
			},
		}
	case TierMeltdown:
		return TierConfig{
			EmberCount:       145,
			FlameCount:       73,
			BottomGlow:       true,
			BottomGlowHeight: 0.50,
			SideGlow:         true,
			SideGlowWidth:    0.20,
			TopGlow:          true,
			TopGlowHeight:    0.18,
			GlowOpacity:      0.80,
			PulseSpeed:       2.6,
			Vignette:         VignetteMeltdown,
			HeatShimmer:      true,
			EmberSpeedMin:    70,
			EmberSpeedMax:    160,
			FlameSpeedMin:    50,
			FlameSpeedMax:    110,
			DriftStrength:    40,
			GlowColorStops: []ColorStop{
				{Color: "#ffffff", Alpha: 0.85},
				{Color: "#ffd040", Alpha: 0.6},
				{Color: "#ff5000", Alpha: 0.3},
				{Color: "#600000", Alpha: 0},
			},
		}
	default:
		// cold：无粒子、无辉光、无暗角
		return TierConfig{Vignette: VignetteNone}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
