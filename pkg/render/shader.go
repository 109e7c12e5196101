package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// fireShaderSrc 全屏火焰着色器（Kage）
//
// 四个效果（底部火焰、左右侧火焰、顶部辉光、径向暗角）按最大 alpha 叠加，
// 外加可选的底部热浪带。每个效果的遮罩由 4 阶 FBM 噪声随时间滚动塑形，
// 再经过 黑→红→橙→黄→白 五段色带着色。
//
// 噪声格点哈希与 internal/noise 完全一致，NoiseOffset 取自引擎的噪声场。
// 三个火焰遮罩直接在 p（即 fire.WindLattice 的格点坐标）上采样，不再额外缩放，
// 因此 CPU 粒子的漂移与 GPU 火焰的大尺度结构同步；只有热浪带的细纹使用 p*4。
// 着色器本身不包含任何档位知识，几何与时间全部来自 uniform。
var fireShaderSrc = []byte(`//kage:unit pixels

package main

var Resolution vec2
var Time float
var NoiseOffset vec2
var NoiseScale float
var NoiseSpeed float
var BottomHeight float
var SideWidth float
var TopHeight float
var GlowOpacity float
var Pulse float
var Vignette float
var VignetteStrength float
var Shimmer float

func hash(p vec2) float {
	return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453)
}

func valueNoise(p vec2) float {
	i := floor(p)
	f := p - i
	u := f * f * (vec2(3.0) - 2.0*f)
	a := hash(i)
	b := hash(i + vec2(1.0, 0.0))
	c := hash(i + vec2(0.0, 1.0))
	d := hash(i + vec2(1.0, 1.0))
	ab := a + (b-a)*u.x
	cd := c + (d-c)*u.x
	return ab + (cd-ab)*u.y
}

func fbm(p vec2) float {
	v := 0.0
	amp := 0.5
	q := p
	for i := 0; i < 4; i++ {
		v = v + amp*valueNoise(q+NoiseOffset)
		q = q * 2.0
		amp = amp * 0.5
	}
	return v
}

func ramp(t float) vec3 {
	c0 := vec3(0.0, 0.0, 0.0)
	c1 := vec3(0.55, 0.02, 0.0)
	c2 := vec3(1.0, 0.35, 0.0)
	c3 := vec3(1.0, 0.8, 0.2)
	c4 := vec3(1.0, 1.0, 1.0)
	x := clamp(t, 0.0, 1.0) * 4.0
	if x < 1.0 {
		return c0 + (c1-c0)*x
	}
	if x < 2.0 {
		return c1 + (c2-c1)*(x-1.0)
	}
	if x < 3.0 {
		return c2 + (c3-c2)*(x-2.0)
	}
	return c3 + (c4-c3)*(x-3.0)
}

func edgeHeat(d float, n float) float {
	return clamp(1.0-d+(n-0.5)*0.8, 0.0, 1.0)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pos := dstPos.xy - imageDstOrigin()
	uv := pos / Resolution
	p := pos*NoiseScale + vec2(0.0, Time*NoiseSpeed)

	heat := 0.0
	if BottomHeight > 0.0 {
		heat = max(heat, edgeHeat((1.0-uv.y)/BottomHeight, fbm(p)))
	}
	if SideWidth > 0.0 {
		side := min(uv.x, 1.0-uv.x) / SideWidth
		heat = max(heat, edgeHeat(side, fbm(p+vec2(31.7, 17.3)))*0.85)
	}
	if TopHeight > 0.0 {
		heat = max(heat, edgeHeat(uv.y/TopHeight, fbm(p-vec2(17.3, 31.7)))*0.7)
	}
	heat = heat * Pulse * 0.9

	col := ramp(heat)
	a := smoothstep(0.0, 0.35, heat) * GlowOpacity

	if Vignette > 0.0 {
		r := length((pos - Resolution*0.5) / (Resolution * 0.75))
		va := smoothstep(0.55, 1.0, r) * VignetteStrength
		if va > a {
			col = vec3(0.102, 0.0, 0.0)
			a = va
		}
	}

	if Shimmer > 0.0 {
		band := (1.0 - uv.y) / Shimmer
		if band < 1.0 {
			wave := 0.5 + 0.5*sin(pos.x*0.04+Time*3.0+fbm(p*4.0)*6.0)
			sa := (1.0 - band) * wave * 0.18
			if sa > a {
				col = ramp(0.65)
				a = sa
			}
		}
	}

	return vec4(col*a, a)
}
`)

// ShaderProgram 编译后的火焰着色器
type ShaderProgram struct {
	shader *ebiten.Shader
	op     ebiten.DrawRectShaderOptions
}

// NewShaderProgram 编译火焰着色器
// 编译失败时返回的错误包含 Kage 编译器的诊断信息，调用方应回退到画布渲染。
func NewShaderProgram() (*ShaderProgram, error) {
	return compileShaderProgram(fireShaderSrc)
}

func compileShaderProgram(src []byte) (*ShaderProgram, error) {
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile fire shader: %w", err)
	}
	return &ShaderProgram{shader: shader}, nil
}

// Draw 用给定 uniform 覆盖整个 dst
func (p *ShaderProgram) Draw(dst *ebiten.Image, uniforms map[string]any) {
	if p.shader == nil {
		return
	}
	b := dst.Bounds()
	p.op.Uniforms = uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), p.shader, &p.op)
}

// Deallocate 释放 GPU 资源，可重复调用
func (p *ShaderProgram) Deallocate() {
	if p.shader == nil {
		return
	}
	p.shader.Deallocate()
	p.shader = nil
}
