package fire

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/decker502/burnrate/internal/noise"
	"github.com/decker502/burnrate/pkg/config"
)

// 生成预算（粒子/秒）
// 从 cold 直接跳到 meltdown（145 余烬、73 火焰）大约需要 5 秒铺满。
const (
	EmberSpawnRate = 30.0
	FlameSpawnRate = EmberSpawnRate / 2
)

// BoundsMargin 粒子越过视口边缘多远后被回收
const BoundsMargin = 50.0

// 与火焰着色器共享的噪声缩放
//
// 着色器以 NoiseScale/NoiseSpeed uniform 接收这两个值，并在与 Wind 相同的
// 格点坐标 (x*WindScale, y*WindScale + t*WindSpeed) 上采样火焰遮罩，
// 因此 CPU 粒子的漂移与程序化火焰的大尺度结构一致。
const (
	WindScale   = 0.006 // 每像素的格点数
	WindSpeed   = 0.35  // 每秒滚动的格点数
	WindOctaves = 2

	JitterFreq = 3.0 // 抖动场每秒采样次数
)

const (
	spawnStaggerMax = 0.5  // 秒
	spawnDepth      = 20.0 // 视口下方的生成带高度

	emberSizeMin, emberSizeMax       = 1.5, 3.5
	emberLifeMin, emberLifeMax       = 2.5, 5.0
	emberOpacityMin, emberOpacityMax = 0.6, 1.0

	flameSizeMin, flameSizeMax       = 8.0, 18.0
	flameLifeMin, flameLifeMax       = 0.8, 1.8
	flameOpacityMin, flameOpacityMax = 0.25, 0.55
)

// windNorm WindOctaves 层 FBM 的上界
var windNorm = 1 - math.Pow(0.5, WindOctaves)

// Option 引擎构造选项
type Option func(*engineOptions)

type engineOptions struct {
	seed     int64
	hasSeed  bool
	capacity int
}

// WithSeed 指定噪声场与生成随机数的种子
// 未指定时按创建时间生成，多个引擎互不同步。
func WithSeed(seed int64) Option {
	return func(o *engineOptions) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithCapacity 指定粒子池容量，默认 config.MaxParticles
func WithCapacity(capacity int) Option {
	return func(o *engineOptions) {
		o.capacity = capacity
	}
}

// Engine 单个火焰表面的粒子模拟
//
// 引擎独占自己的粒子池与噪声场。非并发安全，由渲染宿主在同一个帧回调中驱动。
type Engine struct {
	pool *Pool
	cfg  config.TierConfig
	time float64

	emberTarget int
	flameTarget int

	// 跨帧累积的小数生成额度
	emberCredit float64
	flameCredit float64

	field *noise.Field
	rng   *rand.Rand
	seed  int64
}

// NewEngine 创建引擎，粒子池只在此处分配一次
func NewEngine(cfg config.TierConfig, opts ...Option) *Engine {
	o := engineOptions{capacity: config.MaxParticles}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasSeed {
		o.seed = time.Now().UnixNano()
	}

	e := &Engine{
		pool:  NewPool(o.capacity),
		field: noise.New(o.seed),
		rng:   rand.New(rand.NewSource(o.seed)),
		seed:  o.seed,
	}
	e.Configure(cfg)
	return e
}

// Configure 切换档位配置与目标数量
//
// 超出新目标的粒子不会被立即杀死：它们走完自然寿命后不再重生，
// 降档时表现为逐渐熄灭而不是突然消失。
func (e *Engine) Configure(cfg config.TierConfig) {
	e.cfg = cfg.Clone()
	e.emberTarget = clampInt(cfg.EmberCount, 0, e.pool.Capacity)
	e.flameTarget = clampInt(cfg.FlameCount, 0, e.pool.Capacity-e.emberTarget)

	if cfg.TotalParticles() > e.pool.Capacity {
		log.Printf("[FireEngine] targets %d/%d exceed pool capacity %d, clamped to %d/%d",
			cfg.EmberCount, cfg.FlameCount, e.pool.Capacity, e.emberTarget, e.flameTarget)
	}
}

// Update 在 width×height 视口内推进 dt 秒
// dt <= 0 不做任何事；长时间暂停后的大 dt 由调用方夹取。
func (e *Engine) Update(dt, width, height float64) {
	if dt <= 0 {
		return
	}
	e.time += dt

	embers, flames := e.Census()

	embers += e.spawn(KindEmber, embers, e.emberTarget, &e.emberCredit, EmberSpawnRate*dt, width, height)
	flames += e.spawn(KindFlame, flames, e.flameTarget, &e.flameCredit, FlameSpawnRate*dt, width, height)

	p := e.pool
	for i := 0; i < p.Count; {
		if p.Life[i] < 0 {
			// 等待生成：不积分、不绘制；本帧刚转为存活的粒子仍要做回收检查
			p.Life[i] += dt
			if p.Life[i] < 0 {
				i++
				continue
			}
		} else {
			e.integrate(i, dt)
			p.Life[i] += dt
		}

		if !e.expired(i, width, height) {
			i++
			continue
		}

		kind := p.Kind[i]
		count, target := &embers, e.emberTarget
		if kind == KindFlame {
			count, target = &flames, e.flameTarget
		}

		if *count <= target {
			e.respawn(i, kind, width, height)
			i++
			continue
		}

		p.Remove(i)
		*count--
	}
}

// spawn 按缺口补充粒子，受累积额度与空闲槽位限制，返回新增数量
func (e *Engine) spawn(kind Kind, current, target int, credit *float64, budget, width, height float64) int {
	deficit := target - current
	if deficit <= 0 {
		*credit = 0
		return 0
	}

	*credit += budget
	if *credit > float64(deficit) {
		*credit = float64(deficit)
	}
	n := int(*credit)
	if n > deficit {
		n = deficit
	}
	if free := e.pool.Free(); n > free {
		n = free
	}
	if n <= 0 {
		return 0
	}
	*credit -= float64(n)

	p := e.pool
	for k := 0; k < n; k++ {
		i := p.Count
		p.Count++
		e.respawn(i, kind, width, height)
		p.Life[i] = -e.rng.Float64() * spawnStaggerMax
	}
	return n
}

// respawn 为槽位 i 写入新的随机属性
func (e *Engine) respawn(i int, kind Kind, width, height float64) {
	p := e.pool
	r := e.rng

	p.Kind[i] = kind
	p.X[i] = r.Float64() * width
	p.Y[i] = height + r.Float64()*spawnDepth
	p.VX[i] = (r.Float64() - 0.5) * e.cfg.DriftStrength * 0.5
	p.Life[i] = 0

	switch kind {
	case KindFlame:
		p.VY[i] = -randomInRange(r, e.cfg.FlameSpeedMin, e.cfg.FlameSpeedMax)
		p.Size[i] = randomInRange(r, flameSizeMin, flameSizeMax)
		p.MaxLife[i] = randomInRange(r, flameLifeMin, flameLifeMax)
		p.Opacity[i] = randomInRange(r, flameOpacityMin, flameOpacityMax)
		// 火焰只用最深的两个颜色
		p.ColorIndex[i] = uint8(r.Intn(2))
	default:
		p.VY[i] = -randomInRange(r, e.cfg.EmberSpeedMin, e.cfg.EmberSpeedMax)
		p.Size[i] = randomInRange(r, emberSizeMin, emberSizeMax)
		p.MaxLife[i] = randomInRange(r, emberLifeMin, emberLifeMax)
		p.Opacity[i] = randomInRange(r, emberOpacityMin, emberOpacityMax)
		p.ColorIndex[i] = uint8(r.Intn(NumColors))
	}
}

// integrate 基础速度 + 共享风场 + 粒子自身的高频抖动
func (e *Engine) integrate(i int, dt float64) {
	p := e.pool
	drift := e.cfg.DriftStrength

	wx, wy := e.Wind(p.X[i], p.Y[i])
	// 以时间为第三维：抖动随时间平滑变化，每个粒子独占一条 x 轨道
	jitter := noise.Signed(e.field.Value3D(float64(i)*7.13, 0, e.time*JitterFreq))

	windGain := 1.0
	if p.Kind[i] == KindFlame {
		windGain = 0.6
	}

	p.X[i] += (p.VX[i] + (wx*windGain+jitter*0.35)*drift) * dt
	p.Y[i] += (p.VY[i] + wy*windGain*drift*0.3) * dt
}

// Wind 在当前时刻采样 (x, y) 处的大尺度风场，两个分量都在 [-1, 1)
//
// 采样坐标与着色器火焰遮罩相同；wy 使用的 (31.7, 17.3) 平移也是侧边火焰遮罩的平移。
func (e *Engine) Wind(x, y float64) (float64, float64) {
	u, v := WindLattice(x, y, e.time)
	wx := noise.Signed(e.field.FBM2D(u, v, WindOctaves) / windNorm)
	wy := noise.Signed(e.field.FBM2D(u+31.7, v+17.3, WindOctaves) / windNorm)
	return wx, wy
}

// WindLattice 把像素坐标与时间映射到噪声格点坐标
// 着色器中 p := pos*NoiseScale + vec2(0, Time*NoiseSpeed) 是同一个映射。
func WindLattice(x, y, t float64) (float64, float64) {
	return x * WindScale, y*WindScale + t*WindSpeed
}

func (e *Engine) expired(i int, width, height float64) bool {
	p := e.pool
	if p.Life[i] >= p.MaxLife[i] {
		return true
	}
	x, y := p.X[i], p.Y[i]
	return x < -BoundsMargin || x > width+BoundsMargin ||
		y < -BoundsMargin || y > height+BoundsMargin
}

// Census 统计两类存活粒子数量（含等待生成的粒子）
func (e *Engine) Census() (embers, flames int) {
	p := e.pool
	for i := 0; i < p.Count; i++ {
		if p.Kind[i] == KindFlame {
			flames++
		} else {
			embers++
		}
	}
	return embers, flames
}

// Pool 返回粒子池；渲染器只读，只有引擎写入
func (e *Engine) Pool() *Pool {
	return e.pool
}

// Config 返回当前档位配置的副本
func (e *Engine) Config() config.TierConfig {
	return e.cfg.Clone()
}

// Time 返回模拟时间：所有正 dt 之和
func (e *Engine) Time() float64 {
	return e.time
}

// Targets 返回夹取后的两类目标数量
func (e *Engine) Targets() (embers, flames int) {
	return e.emberTarget, e.flameTarget
}

// Seed 返回引擎的种子
func (e *Engine) Seed() int64 {
	return e.seed
}

// NoiseOffset 返回噪声场的格点偏移，对应着色器的 NoiseOffset uniform
func (e *Engine) NoiseOffset() (float64, float64) {
	return e.field.Offset()
}

func randomInRange(r *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + r.Float64()*(max-min)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
