// Package host 驱动一个已挂载的火焰表面：后端选择、帧循环、暂停恢复、尺寸调整与释放
package host

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/burnrate/pkg/canvas"
	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/fire"
	"github.com/decker502/burnrate/pkg/render"
)

// State 宿主生命周期状态
type State int

const (
	Uninitialized State = iota
	Running
	Paused
	// Static 减少动态效果模式：已渲染唯一一帧，不再推进
	Static
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Static:
		return "static"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// 静态帧预热：减少动态效果时先模拟一段时间，让唯一的一帧有完整的粒子分布
const (
	prewarmSteps = 60
	prewarmStep  = 0.05
)

// Option 宿主构造选项
type Option func(*Host)

// WithCompiler 替换着色器探测函数（测试或禁用 GPU 时使用）
func WithCompiler(compile render.CompileFunc) Option {
	return func(h *Host) {
		h.compile = compile
	}
}

// WithTierTable 使用自定义档位表解析 SetTier 的档位名称
func WithTierTable(table config.TierTable) Option {
	return func(h *Host) {
		h.tiers = table
	}
}

// Host 单个火焰表面的渲染宿主
//
// 状态机：Uninitialized → Mount →（Running ⇄ Paused | Static）→ Disposed。
// 后端在 Mount 时选定一次，之后只会因上下文丢失永久切换到画布。
// Host 不是并发安全的，所有方法都应在同一个帧回调中调用。
type Host struct {
	cfg     config.HostConfig
	tier    string
	tierCfg config.TierConfig
	tiers   config.TierTable
	compile render.CompileFunc

	state   State
	backend render.Backend
	engine  *fire.Engine

	// CPU 画布：着色器后端下只画粒子，画布后端下画完整回退画面
	surface   *canvas.Canvas
	particles *render.ParticleRenderer
	fallback  *render.FallbackRenderer
	upload    *ebiten.Image
	uploadOp  ebiten.DrawImageOptions
	dirty     bool

	width, height int
	scale         float64

	last    time.Time
	hasLast bool
	frames  int
}

// New 创建宿主，tier 为初始档位配置
// 尚未分配任何渲染资源，调用 Mount 后才开始工作。
func New(cfg config.HostConfig, tier config.TierConfig, opts ...Option) *Host {
	h := &Host{
		cfg:     cfg,
		tier:    cfg.Tier,
		tierCfg: tier.Clone(),
		width:   cfg.Width,
		height:  cfg.Height,
		scale:   cfg.CanvasScale,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount 探测后端、创建引擎与画布
// 重复调用无效果。着色器编译失败只记录日志并回退到画布，不返回错误。
func (h *Host) Mount() State {
	if h.state != Uninitialized {
		return h.state
	}

	seed := h.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h.backend = render.SelectBackend(h.cfg.ForceCanvas, h.compile)
	h.engine = fire.NewEngine(h.tierCfg, fire.WithSeed(seed))
	h.surface = canvas.New(h.width, h.height, h.scale)
	h.particles = render.NewParticleRenderer()
	h.fallback = render.NewFallbackRenderer(h.particles)

	log.Printf("[RenderHost] mounted %dx%d backend=%s tier=%s seed=%d reducedMotion=%v",
		h.width, h.height, h.backend.Name(), h.tier, seed, h.cfg.ReducedMotion)

	if h.cfg.ReducedMotion {
		for i := 0; i < prewarmSteps; i++ {
			h.engine.Update(prewarmStep, float64(h.width), float64(h.height))
		}
		h.renderFrame()
		h.state = Static
		return h.state
	}

	h.state = Running
	return h.state
}

// Tick 推进一帧
//
// dt 取自上一次 Tick 的时间，夹取到 MaxDelta；第一次 Tick 的 dt 为 0。
// 只有 Running 状态会推进引擎。
func (h *Host) Tick(now time.Time) {
	if h.state != Running {
		return
	}

	dt := 0.0
	if h.hasLast {
		dt = now.Sub(h.last).Seconds()
		if dt < 0 {
			dt = 0
		} else if dt > h.cfg.MaxDelta {
			dt = h.cfg.MaxDelta
		}
	}
	h.last = now
	h.hasLast = true

	h.engine.Update(dt, float64(h.width), float64(h.height))
	h.renderFrame()
}

// renderFrame 把当前引擎状态画到 CPU 画布
func (h *Host) renderFrame() {
	w, ht := float64(h.width), float64(h.height)
	pool := h.engine.Pool()

	switch h.backend.(type) {
	case *render.ShaderBackend:
		h.particles.RenderParticles(h.surface, pool, w, ht)
	case *render.CanvasBackend:
		h.fallback.RenderFallback(h.surface, pool, h.tierCfg, h.engine.Time(), w, ht)
	}

	h.frames++
	h.dirty = true
}

// Draw 把当前帧画到 screen
func (h *Host) Draw(screen *ebiten.Image) {
	if h.state == Uninitialized || h.state == Disposed {
		return
	}

	if b, ok := h.backend.(*render.ShaderBackend); ok {
		sb := screen.Bounds()
		ox, oy := h.engine.NoiseOffset()
		b.Program.Draw(screen, render.Uniforms(h.tierCfg, h.engine.Time(),
			float64(sb.Dx()), float64(sb.Dy()), ox, oy))
	}
	h.drawSurface(screen)
}

// drawSurface 上传 CPU 画布并拉伸到 screen
func (h *Host) drawSurface(screen *ebiten.Image) {
	img := h.surface.Image()
	bw, bh := img.Bounds().Dx(), img.Bounds().Dy()
	if bw == 0 || bh == 0 {
		return
	}

	if h.upload == nil || h.upload.Bounds().Dx() != bw || h.upload.Bounds().Dy() != bh {
		if h.upload != nil {
			h.upload.Deallocate()
		}
		h.upload = ebiten.NewImage(bw, bh)
		h.dirty = true
	}
	if h.dirty {
		h.upload.WritePixels(img.Pix)
		h.dirty = false
	}

	sb := screen.Bounds()
	op := &h.uploadOp
	op.GeoM.Reset()
	op.GeoM.Scale(float64(sb.Dx())/float64(bw), float64(sb.Dy())/float64(bh))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(h.upload, op)
}

// Pause 停止推进（表面不可见时调用），丢弃暂停期间的时间
func (h *Host) Pause() {
	if h.state != Running {
		return
	}
	h.state = Paused
	h.hasLast = false
	log.Printf("[RenderHost] paused at t=%.2fs", h.engine.Time())
}

// Resume 恢复推进，下一次 Tick 的 dt 为 0
func (h *Host) Resume() {
	if h.state != Paused {
		return
	}
	h.state = Running
	h.hasLast = false
	log.Printf("[RenderHost] resumed")
}

// Resize 调整逻辑尺寸与画布分辨率，粒子状态保持不变
func (h *Host) Resize(width, height int, scale float64) {
	if h.state == Disposed {
		return
	}
	if width == h.width && height == h.height && scale == h.scale {
		return
	}
	h.width, h.height, h.scale = width, height, scale
	if h.surface == nil {
		return
	}

	h.surface.Resize(width, height, scale)
	if h.state == Static {
		// 画布内容已丢弃，用同一引擎状态重画静态帧
		h.renderFrame()
	}
	h.dirty = true
}

// SetTier 切换档位，未知名称视为 cold
func (h *Host) SetTier(name string) {
	if h.state == Disposed {
		return
	}
	if h.tiers != nil {
		h.tierCfg = h.tiers.Lookup(name)
	} else {
		h.tierCfg = config.TierToConfig(name)
	}
	h.tier = name
	if h.engine != nil {
		h.engine.Configure(h.tierCfg)
	}
	log.Printf("[RenderHost] tier -> %s (%d embers, %d flames)",
		name, h.tierCfg.EmberCount, h.tierCfg.FlameCount)
}

// ReportContextLost 报告 GPU 上下文丢失
// 永久切换到画布后端，本次挂载期间不再尝试恢复着色器。
// 不在 Running 状态时（Paused、Static）没有下一次 Tick，立即用画布后端重绘一帧。
func (h *Host) ReportContextLost() {
	b, ok := h.backend.(*render.ShaderBackend)
	if !ok || h.state == Disposed {
		return
	}
	b.Program.Deallocate()
	h.backend = &render.CanvasBackend{}
	log.Printf("[RenderHost] shader context lost, switched to canvas fallback")

	if h.state != Running {
		h.renderFrame()
	}
}

// Dispose 释放着色器与图像并丢弃引擎，可重复调用
func (h *Host) Dispose() {
	if h.state == Disposed {
		return
	}
	if b, ok := h.backend.(*render.ShaderBackend); ok {
		b.Program.Deallocate()
	}
	if h.upload != nil {
		h.upload.Deallocate()
		h.upload = nil
	}
	h.engine = nil
	h.surface = nil
	h.particles = nil
	h.fallback = nil
	h.state = Disposed
	log.Printf("[RenderHost] disposed after %d frames", h.frames)
}

// State 返回当前状态
func (h *Host) State() State {
	return h.state
}

// Backend 返回 Mount 选定的后端，Mount 之前为 nil
func (h *Host) Backend() render.Backend {
	return h.backend
}

// Engine 返回火焰引擎，Mount 之前与 Dispose 之后为 nil
func (h *Host) Engine() *fire.Engine {
	return h.engine
}

// Surface 返回 CPU 画布
func (h *Host) Surface() *canvas.Canvas {
	return h.surface
}

// Tier 返回当前档位名称
func (h *Host) Tier() string {
	return h.tier
}

// TierConfig 返回当前档位配置的副本
func (h *Host) TierConfig() config.TierConfig {
	return h.tierCfg.Clone()
}

// Frames 返回已渲染的帧数
func (h *Host) Frames() int {
	return h.frames
}

// Size 返回逻辑尺寸
func (h *Host) Size() (int, int) {
	return h.width, h.height
}
