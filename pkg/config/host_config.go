package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 环境变量覆盖
const (
	EnvReducedMotion = "BURNRATE_REDUCED_MOTION"
	EnvForceCanvas   = "BURNRATE_FORCE_CANVAS"
)

// HostConfig 渲染宿主配置
//
// 配置文件位置: data/host.yaml
type HostConfig struct {
	// Title 窗口标题
	Title string `yaml:"title"`

	// Width/Height 初始逻辑尺寸（像素）
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// MaxDelta 单帧最大时间步长（秒），防止标签页恢复后的大跨度追帧
	MaxDelta float64 `yaml:"maxDelta"`

	// ReducedMotion 减少动态效果：只渲染一帧静态画面
	ReducedMotion bool `yaml:"reducedMotion"`

	// ForceCanvas 跳过着色器探测，直接使用 CPU 画布后端
	ForceCanvas bool `yaml:"forceCanvas"`

	// CanvasScale CPU 画布相对逻辑尺寸的分辨率比例 (0, 2]
	CanvasScale float64 `yaml:"canvasScale"`

	// Tier 启动档位
	Tier string `yaml:"tier"`

	// Seed 噪声/随机种子，0 表示按启动时间生成
	Seed int64 `yaml:"seed"`

	// TickRate 终端预览的固定刷新率（Hz）
	TickRate int `yaml:"tickRate"`
}

// DefaultHostConfig 返回默认宿主配置
func DefaultHostConfig() *HostConfig {
	return &HostConfig{
		Title:       "burnrate",
		Width:       800,
		Height:      600,
		MaxDelta:    0.1,
		CanvasScale: 0.5,
		Tier:        TierBurning,
		TickRate:    30,
	}
}

// LoadHostConfig 从 YAML 文件加载宿主配置
//
// 文件中缺省的字段保留 DefaultHostConfig 的默认值。
func LoadHostConfig(path string) (*HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host config: %w", err)
	}
	return ParseHostConfig(data)
}

// ParseHostConfig 解析 YAML 格式的宿主配置
func ParseHostConfig(data []byte) (*HostConfig, error) {
	cfg := DefaultHostConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse host config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid host config: %w", err)
	}

	return cfg, nil
}

// Validate 验证宿主配置
func (c *HostConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.MaxDelta <= 0 || c.MaxDelta > 1 {
		return fmt.Errorf("maxDelta must be within (0, 1], got %.3f", c.MaxDelta)
	}
	if c.CanvasScale <= 0 || c.CanvasScale > 2 {
		return fmt.Errorf("canvasScale must be within (0, 2], got %.2f", c.CanvasScale)
	}
	if c.TickRate <= 0 || c.TickRate > 240 {
		return fmt.Errorf("tickRate must be within [1, 240], got %d", c.TickRate)
	}
	// 未知档位不是错误：运行时会退化为 cold
	return nil
}

// ApplyEnv 应用环境变量覆盖
//
// 支持 BURNRATE_REDUCED_MOTION 和 BURNRATE_FORCE_CANVAS，值为 strconv.ParseBool
// 可识别的布尔字符串；无法识别的值被忽略。
func (c *HostConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := envBool(lookup, EnvReducedMotion); ok {
		c.ReducedMotion = v
	}
	if v, ok := envBool(lookup, EnvForceCanvas); ok {
		c.ForceCanvas = v
	}
}

func envBool(lookup func(string) (string, bool), key string) (bool, bool) {
	raw, ok := lookup(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}
