// Package settings 跨运行持久化查看器偏好设置
package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/burnrate/pkg/config"
)

// ViewerSettings 查看器偏好设置
// 启动参数与 host.yaml 的优先级高于这里保存的值
type ViewerSettings struct {
	// Tier 上次选择的档位
	Tier string `yaml:"tier"`

	// ReducedMotion 减少动态效果
	ReducedMotion bool `yaml:"reducedMotion"`

	// ForceCanvas 禁用着色器后端
	ForceCanvas bool `yaml:"forceCanvas"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		Tier: config.TierBurning,
	}
}

// SettingsManager 设置管理器
// 负责偏好设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建设置管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，记录日志后使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Open 按应用名打开 gdata 存储并创建设置管理器
// 存储不可用时退化为仅内存模式。
func Open(appName string) *SettingsManager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: persistent storage unavailable: %v (settings will not be saved)", err)
		return NewSettingsManager(nil)
	}
	return NewSettingsManager(m)
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或尚未保存过时使用默认设置。
// 保存的档位名称未知时替换为默认档位。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if config.TierIndex(loaded.Tier) == 0 && loaded.Tier != config.TierCold {
		log.Printf("[SettingsManager] Unknown saved tier %q, using %s", loaded.Tier, config.TierBurning)
		loaded.Tier = config.TierBurning
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// 降级模式下不持久化，也不报错。
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// Persistent 是否可以持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetTier 设置档位（仅内存，需调用 Save 持久化）
func (sm *SettingsManager) SetTier(tier string) {
	sm.settings.Tier = tier
}

// SetReducedMotion 设置减少动态效果（仅内存）
func (sm *SettingsManager) SetReducedMotion(enabled bool) {
	sm.settings.ReducedMotion = enabled
}

// SetForceCanvas 设置禁用着色器（仅内存）
func (sm *SettingsManager) SetForceCanvas(enabled bool) {
	sm.settings.ForceCanvas = enabled
}

// Apply 把已保存的偏好合并到宿主配置
// explicit 中为 true 的字段表示已由命令行指定，不被覆盖。
func (sm *SettingsManager) Apply(cfg *config.HostConfig, explicit map[string]bool) {
	s := sm.settings
	if !explicit["tier"] && s.Tier != "" {
		cfg.Tier = s.Tier
	}
	if !explicit["reduced-motion"] && s.ReducedMotion {
		cfg.ReducedMotion = true
	}
	if !explicit["force-canvas"] && s.ForceCanvas {
		cfg.ForceCanvas = true
	}
}
