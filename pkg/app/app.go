// Package app 提供火焰查看器的应用包装器
//
// 该包把配置加载、偏好设置与渲染宿主组装成一个 ebiten.Game，
// 桌面端通过 main.go 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/host"
	"github.com/decker502/burnrate/pkg/settings"
)

// AppName gdata 存储使用的应用名
const AppName = "burnrate"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool

	// 配置文件路径，为空时使用嵌入的 data/ 或内置默认值
	ConfigPath     string
	TiersPath      string
	ThresholdsPath string

	// 命令行覆盖项，只有 Explicit 中标记的字段生效
	Tier          string
	Usage         float64
	ReducedMotion bool
	ForceCanvas   bool
	Seed          int64

	// Explicit 命令行上显式给出的参数名（如 "tier"、"usage"）
	Explicit map[string]bool
}

// 查看器按键
var (
	keyTierUp     = ebiten.KeyArrowUp
	keyTierDown   = ebiten.KeyArrowDown
	keyLoseGPU    = ebiten.KeyC
	keyPause      = ebiten.KeyP
	keySave       = ebiten.KeyS
	keyToggleHUD  = ebiten.KeyH
	keyQuit       = ebiten.KeyEscape
	tierDigitKeys = []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7,
	}
	handledKeys = append([]ebiten.Key{
		keyTierUp, keyTierDown, keyLoseGPU, keyPause, keySave, keyToggleHUD, keyQuit,
	}, tierDigitKeys...)
)

// App 查看器应用，实现 ebiten.Game 接口
type App struct {
	host  *host.Host
	prefs *settings.SettingsManager
	cfg   config.HostConfig
	now   func() time.Time

	focused    bool
	userPaused bool
	showHUD    bool

	width, height int

	// 短暂显示在 HUD 上的提示
	notice      string
	noticeUntil time.Time
}

// NewApp 加载配置并创建查看器
//
// 调用此函数前，应先调用 embedded.Init() 初始化嵌入配置；
// 未初始化时使用内置默认值。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	res, err := LoadResources(cfg)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	prefs := settings.Open(AppName)
	hc := res.HostConfig(cfg, prefs, nil)
	log.Printf("[App] tier=%s reducedMotion=%v forceCanvas=%v canvasScale=%.2f",
		hc.Tier, hc.ReducedMotion, hc.ForceCanvas, hc.CanvasScale)

	return New(hc, res.Tiers, prefs), nil
}

// New 用已合并的配置创建查看器并挂载宿主
func New(hc config.HostConfig, tiers config.TierTable, prefs *settings.SettingsManager, opts ...host.Option) *App {
	if tiers == nil {
		tiers = config.DefaultTierTable()
	}
	if prefs == nil {
		prefs = settings.NewSettingsManager(nil)
	}
	opts = append([]host.Option{host.WithTierTable(tiers)}, opts...)

	h := host.New(hc, tiers.Lookup(hc.Tier), opts...)
	h.Mount()

	return &App{
		host:    h,
		prefs:   prefs,
		cfg:     hc,
		now:     time.Now,
		focused: true,
		showHUD: true,
		width:   hc.Width,
		height:  hc.Height,
	}
}

// Update 更新查看器状态
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.setFocused(ebiten.IsFocused())

	for _, key := range handledKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := a.handleKey(key); err != nil {
				return err
			}
		}
	}

	a.host.Tick(a.now())
	return nil
}

// handleKey 处理单个按键，返回 ebiten.Termination 表示退出
func (a *App) handleKey(key ebiten.Key) error {
	switch key {
	case keyQuit:
		return ebiten.Termination
	case keyTierUp:
		a.stepTier(1)
	case keyTierDown:
		a.stepTier(-1)
	case keyLoseGPU:
		a.host.ReportContextLost()
		a.flash("GPU context lost: canvas fallback")
	case keyPause:
		a.togglePause()
	case keySave:
		a.savePrefs()
	case keyToggleHUD:
		a.showHUD = !a.showHUD
	default:
		for i, k := range tierDigitKeys {
			if k == key && i < len(config.Tiers) {
				a.setTier(config.Tiers[i])
			}
		}
	}
	return nil
}

// stepTier 按强度顺序切换到相邻档位
func (a *App) stepTier(delta int) {
	idx := config.TierIndex(a.host.Tier()) + delta
	if idx < 0 || idx >= len(config.Tiers) {
		return
	}
	a.setTier(config.Tiers[idx])
}

func (a *App) setTier(tier string) {
	if tier == a.host.Tier() {
		return
	}
	a.host.SetTier(tier)
	a.prefs.SetTier(tier)
	a.flash("tier: " + tier)
}

// togglePause 手动暂停；失去焦点导致的暂停不会被焦点恢复解除手动暂停
func (a *App) togglePause() {
	a.userPaused = !a.userPaused
	if a.userPaused {
		a.host.Pause()
	} else if a.focused {
		a.host.Resume()
	}
}

// setFocused 在焦点变化时暂停或恢复，相当于页面可见性变化
func (a *App) setFocused(focused bool) {
	if focused == a.focused {
		return
	}
	a.focused = focused
	if !focused {
		a.host.Pause()
	} else if !a.userPaused {
		a.host.Resume()
	}
}

func (a *App) savePrefs() {
	a.prefs.SetTier(a.host.Tier())
	a.prefs.SetReducedMotion(a.cfg.ReducedMotion)
	a.prefs.SetForceCanvas(a.cfg.ForceCanvas)
	if err := a.prefs.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
		a.flash("save failed")
		return
	}
	if a.prefs.Persistent() {
		a.flash("preferences saved")
	} else {
		a.flash("preferences not persisted")
	}
}

func (a *App) flash(msg string) {
	a.notice = msg
	a.noticeUntil = a.now().Add(2 * time.Second)
}

// Draw 绘制火焰与 HUD
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	a.host.Draw(screen)

	if !a.showHUD {
		return
	}
	ebitenutil.DebugPrintAt(screen, a.hudText(), 8, 8)
}

func (a *App) hudText() string {
	particles := 0
	if e := a.host.Engine(); e != nil {
		particles = e.Pool().Count
	}
	backend := "-"
	if b := a.host.Backend(); b != nil {
		backend = b.Name()
	}

	text := fmt.Sprintf("tier: %s  backend: %s  particles: %d  state: %s\nTPS: %.0f  FPS: %.0f\n[Up/Down/1-7] tier  [P] pause  [C] lose GPU  [S] save  [H] hud  [Esc] quit",
		a.host.Tier(), backend, particles, a.host.State(), ebiten.ActualTPS(), ebiten.ActualFPS())
	if a.notice != "" && a.now().Before(a.noticeUntil) {
		text += "\n" + a.notice
	}
	return text
}

// Layout 逻辑尺寸跟随窗口尺寸，尺寸变化时调整宿主画布
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.width, a.height
	}
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.host.Resize(outsideWidth, outsideHeight, a.cfg.CanvasScale)
	}
	return a.width, a.height
}

// Close 释放宿主资源
func (a *App) Close() {
	a.host.Dispose()
}

// Title 窗口标题
func (a *App) Title() string {
	return a.cfg.Title
}

// Host 返回渲染宿主
func (a *App) Host() *host.Host {
	return a.host
}
