package render

import (
	"math"
	"strings"
	"testing"

	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/fire"
)

func TestGlowPulse(t *testing.T) {
	spark := config.TierToConfig(config.TierSpark)
	for _, tm := range []float64{0, 1.3, 47} {
		if got := GlowPulse(spark, tm); got != 1 {
			t.Errorf("GlowPulse(spark, %v) = %v, want 1 for a static tier", tm, got)
		}
	}

	inferno := config.TierToConfig(config.TierInferno)
	if got := GlowPulse(inferno, 0); got != 0.85 {
		t.Errorf("GlowPulse at t=0 = %v, want 0.85", got)
	}
	for tm := 0.0; tm < 10; tm += 0.1 {
		got := GlowPulse(inferno, tm)
		if got < 0.7-1e-9 || got > 1+1e-9 {
			t.Fatalf("GlowPulse(%v) = %v, outside [0.7, 1]", tm, got)
		}
	}
}

func TestVignettePulse(t *testing.T) {
	tests := []struct {
		tier  string
		base  float64
		atT0  float64
		lower float64
	}{
		{config.TierCold, 0, 0, 0},
		{config.TierBurning, 0, 0, 0},
		{config.TierBlazing, 0.35, 0.35 * 0.9, 0.35 * 0.8},
		{config.TierInferno, 0.5, 0.5 * 0.9, 0.5 * 0.8},
		{config.TierMeltdown, 0.65, 0.65 * 0.8, 0.65 * 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			cfg := config.TierToConfig(tt.tier)
			if got := VignetteStrength(cfg.Vignette); got != tt.base {
				t.Errorf("VignetteStrength = %v, want %v", got, tt.base)
			}
			if got := VignettePulse(cfg, 0); math.Abs(got-tt.atT0) > 1e-9 {
				t.Errorf("VignettePulse(t=0) = %v, want %v", got, tt.atT0)
			}
			for tm := 0.0; tm < 10; tm += 0.05 {
				got := VignettePulse(cfg, tm)
				if got < tt.lower-1e-9 || got > tt.base+1e-9 {
					t.Fatalf("VignettePulse(%v) = %v, outside [%v, %v]", tm, got, tt.lower, tt.base)
				}
			}
		})
	}
}

func TestShimmerBand(t *testing.T) {
	if got := ShimmerBand(config.TierToConfig(config.TierBlazing), 3); got != 0 {
		t.Errorf("blazing shimmer = %v, want 0", got)
	}

	cfg := config.TierToConfig(config.TierMeltdown)
	for tm := 0.0; tm < 10; tm += 0.1 {
		got := ShimmerBand(cfg, tm)
		if got < 0.06-1e-9 || got > 0.08+1e-9 {
			t.Fatalf("ShimmerBand(%v) = %v, outside [0.06, 0.08]", tm, got)
		}
	}
}

func TestGlowGeometry(t *testing.T) {
	bottom, side, top := GlowGeometry(config.TierToConfig(config.TierBurning))
	if bottom != 0.25 || side != 0 || top != 0 {
		t.Errorf("burning geometry = %v/%v/%v, want 0.25/0/0", bottom, side, top)
	}

	cfg := config.TierToConfig(config.TierMeltdown)
	cfg.SideGlow = false
	bottom, side, top = GlowGeometry(cfg)
	if bottom != 0.5 || side != 0 || top != 0.18 {
		t.Errorf("geometry with side glow disabled = %v/%v/%v", bottom, side, top)
	}
}

func TestUniforms(t *testing.T) {
	cfg := config.TierToConfig(config.TierInferno)
	u := Uniforms(cfg, 2, 800, 600, 12.5, 99)

	keys := []string{
		"Resolution", "Time", "NoiseOffset", "NoiseScale", "NoiseSpeed",
		"BottomHeight", "SideWidth", "TopHeight", "GlowOpacity", "Pulse",
		"Vignette", "VignetteStrength", "Shimmer",
	}
	if len(u) != len(keys) {
		t.Errorf("len(Uniforms) = %d, want %d", len(u), len(keys))
	}
	for _, k := range keys {
		if _, ok := u[k]; !ok {
			t.Errorf("missing uniform %q", k)
		}
	}

	res := u["Resolution"].([]float32)
	if res[0] != 800 || res[1] != 600 {
		t.Errorf("Resolution = %v", res)
	}
	off := u["NoiseOffset"].([]float32)
	if off[0] != 12.5 || off[1] != 99 {
		t.Errorf("NoiseOffset = %v", off)
	}
	if u["NoiseScale"].(float32) != float32(fire.WindScale) || u["NoiseSpeed"].(float32) != float32(fire.WindSpeed) {
		t.Error("noise scaling must match the engine wind field")
	}
	if u["Vignette"].(float32) != 2 {
		t.Errorf("Vignette = %v, want 2 for inferno", u["Vignette"])
	}
	if u["GlowOpacity"].(float32) != float32(cfg.GlowOpacity) {
		t.Errorf("GlowOpacity = %v", u["GlowOpacity"])
	}
	if u["Pulse"].(float32) != float32(GlowPulse(cfg, 2)) {
		t.Errorf("Pulse = %v, want the shared GlowPulse value", u["Pulse"])
	}
	if u["Shimmer"].(float32) == 0 {
		t.Error("inferno enables the shimmer band")
	}
}

// 着色器遮罩的格点坐标必须与引擎风场的格点坐标一致
func TestShaderSamplesWindLattice(t *testing.T) {
	const tm = 7.25
	u := Uniforms(config.TierToConfig(config.TierMeltdown), tm, 800, 600, 0, 0)
	scale := float64(u["NoiseScale"].(float32))
	speed := float64(u["NoiseSpeed"].(float32))
	shaderTime := float64(u["Time"].(float32))

	points := []struct{ x, y float64 }{
		{0, 0}, {400, 300}, {799, 599}, {123.5, 42},
	}
	for _, pt := range points {
		px, py := pt.x*scale, pt.y*scale+shaderTime*speed
		wx, wy := fire.WindLattice(pt.x, pt.y, tm)
		if math.Abs(px-wx) > 1e-4 || math.Abs(py-wy) > 1e-4 {
			t.Errorf("(%v, %v): 着色器格点 (%v, %v) != 风场格点 (%v, %v)", pt.x, pt.y, px, py, wx, wy)
		}
	}

	src := string(fireShaderSrc)
	if !strings.Contains(src, "p := pos*NoiseScale + vec2(0.0, Time*NoiseSpeed)") {
		t.Error("shader lattice mapping changed")
	}
	masks := []string{
		"fbm(p))",
		"fbm(p+vec2(31.7, 17.3))",
		"fbm(p-vec2(17.3, 31.7))",
	}
	for _, m := range masks {
		if !strings.Contains(src, m) {
			t.Errorf("shader mask %q not sampled on the wind lattice", m)
		}
	}
	if strings.Contains(src, "fbm(p*2.0") {
		t.Error("shader rescales the lattice before sampling a flame mask")
	}
}

func TestUniformsCold(t *testing.T) {
	u := Uniforms(config.TierToConfig(config.TierCold), 5, 320, 240, 0, 0)
	for _, k := range []string{"BottomHeight", "SideWidth", "TopHeight", "GlowOpacity", "Vignette", "VignetteStrength", "Shimmer"} {
		if u[k].(float32) != 0 {
			t.Errorf("cold %s = %v, want 0", k, u[k])
		}
	}
}
