// Package noise 提供按种子生成的相干值噪声场
//
// 格点哈希采用经典的 fract(sin(dot(p, (127.1, 311.7))) * 43758.5453) 形式。
// 火焰着色器在 GPU 上计算同一套格点，因此 Field 的 Offset 必须作为
// NoiseOffset uniform 传给着色器，CPU 粒子与程序化火焰才能对齐。
package noise

import (
	"math"
	"math/rand"
)

// offsetRange 格点偏移范围，保证 GPU 上 float32 sin() 的精度
const offsetRange = 256.0

// Field 噪声场实例
// 每个引擎独占一个 Field，偏移量由种子决定，不同实例之间互不影响。
type Field struct {
	seed       int64
	ox, oy, oz float64
}

// New 按种子创建噪声场，相同种子得到相同的噪声场
func New(seed int64) *Field {
	r := rand.New(rand.NewSource(seed))
	return &Field{
		seed: seed,
		ox:   r.Float64() * offsetRange,
		oy:   r.Float64() * offsetRange,
		oz:   r.Float64() * offsetRange,
	}
}

// Seed 返回创建时的种子
func (f *Field) Seed() int64 {
	return f.seed
}

// Offset 返回二维采样使用的格点偏移（着色器 NoiseOffset）
func (f *Field) Offset() (float64, float64) {
	return f.ox, f.oy
}

// Value2D 在 (x, y) 处采样，结果范围 [0, 1)
func (f *Field) Value2D(x, y float64) float64 {
	x += f.ox
	y += f.oy

	ix, iy := math.Floor(x), math.Floor(y)
	ux, uy := smoothstep(x-ix), smoothstep(y-iy)

	a := hash(ix, iy)
	b := hash(ix+1, iy)
	c := hash(ix, iy+1)
	d := hash(ix+1, iy+1)

	return lerp(lerp(a, b, ux), lerp(c, d, ux), uy)
}

// Value3D 在 (x, y, z) 处采样，结果范围 [0, 1)
//
// z 方向的每一层是一张独立的二维格点（按 z 平移），层间三线性插值。
// 常用于把时间作为第三维，得到随时间平滑变化而不是平移的噪声。
func (f *Field) Value3D(x, y, z float64) float64 {
	x += f.ox
	y += f.oy
	z += f.oz

	ix, iy, iz := math.Floor(x), math.Floor(y), math.Floor(z)
	ux, uy, uz := smoothstep(x-ix), smoothstep(y-iy), smoothstep(z-iz)

	layer := func(k float64) float64 {
		// 每层格点沿对角线平移，避免相邻层重复
		sx, sy := ix+k*57.0, iy+k*113.0
		a := hash(sx, sy)
		b := hash(sx+1, sy)
		c := hash(sx, sy+1)
		d := hash(sx+1, sy+1)
		return lerp(lerp(a, b, ux), lerp(c, d, ux), uy)
	}

	return lerp(layer(iz), layer(iz+1), uz)
}

// FBM2D 分形叠加 octaves 层 Value2D
// 每层频率翻倍、振幅减半，首层振幅 0.5；结果范围 [0, 1-0.5^octaves)。
func (f *Field) FBM2D(x, y float64, octaves int) float64 {
	sum := 0.0
	amp := 0.5
	for o := 0; o < octaves; o++ {
		sum += amp * f.Value2D(x, y)
		x *= 2
		y *= 2
		amp *= 0.5
	}
	return sum
}

// Signed 把 [0, 1) 的采样映射到 [-1, 1)
func Signed(v float64) float64 {
	return v*2 - 1
}

func hash(x, y float64) float64 {
	v := math.Sin(x*127.1+y*311.7) * 43758.5453
	return v - math.Floor(v)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
