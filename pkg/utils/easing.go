package utils

import "math"

// 插值与夹取工具
//
// 渲染层的渐变、淡入淡出与脉动都基于这几个函数，
// 输入输出均为 float64，不做任何分配。

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp 求 v 在 [a, b] 中的比例，结果夹取到 [0, 1]
// a == b 时返回 0
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// Clamp01 将 v 夹取到 [0, 1]，NaN 视为 0
func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SmoothStep Hermite 平滑阶跃
// 公式：t = clamp((x-e0)/(e1-e0))，f = t²(3-2t)
func SmoothStep(e0, e1, x float64) float64 {
	t := InverseLerp(e0, e1, x)
	return t * t * (3 - 2*t)
}
