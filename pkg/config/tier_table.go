package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TierTable 档位名称到模拟参数的映射表
//
// 配置文件位置: data/tiers.yaml
//
// 内置档位表由 TierToConfig 提供；YAML 档位表用于调参，
// 加载后必须通过 Validate 才能交给引擎使用。
type TierTable map[string]TierConfig

// DefaultTierTable 返回内置档位表的副本
func DefaultTierTable() TierTable {
	table := make(TierTable, len(Tiers))
	for _, name := range Tiers {
		table[name] = TierToConfig(name)
	}
	return table
}

// Lookup 查找档位配置
//
// 与 TierToConfig 语义一致：未配置的档位返回 cold 配置。
func (t TierTable) Lookup(tier string) TierConfig {
	if cfg, ok := t[tier]; ok {
		return cfg.Clone()
	}
	return TierToConfig(TierCold)
}

// LoadTierTable 从 YAML 文件加载档位表
//
// 参数:
//   - path: 配置文件路径（如 "data/tiers.yaml"）
//
// 返回:
//   - TierTable: 加载并验证后的档位表
//   - error: 读取、解析或验证失败时返回错误
func LoadTierTable(path string) (TierTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier table: %w", err)
	}
	return ParseTierTable(data)
}

// ParseTierTable 解析 YAML 格式的档位表
func ParseTierTable(data []byte) (TierTable, error) {
	var doc struct {
		Tiers TierTable `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tier table: %w", err)
	}
	if len(doc.Tiers) == 0 {
		return nil, fmt.Errorf("tier table is empty")
	}

	if err := doc.Tiers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tier table: %w", err)
	}

	return doc.Tiers, nil
}

// Validate 验证档位表
//
// 检查：
//   - 档位名称必须是已知档位
//   - 粒子总数不超过粒子池容量 MaxParticles
//   - 速度范围 min <= max，比例和不透明度在 [0, 1] 内
//   - 相邻档位的粒子数量单调不减
func (t TierTable) Validate() error {
	for name, cfg := range t {
		if !isKnownTier(name) {
			return fmt.Errorf("unknown tier '%s'", name)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("tier '%s': %w", name, err)
		}
	}

	prev := TierConfig{}
	for _, name := range Tiers {
		cfg, ok := t[name]
		if !ok {
			continue
		}
		if cfg.EmberCount < prev.EmberCount || cfg.FlameCount < prev.FlameCount {
			return fmt.Errorf("tier '%s' has fewer particles than a lower tier", name)
		}
		prev = cfg
	}

	return nil
}

// Validate 验证单个档位配置
func (c TierConfig) Validate() error {
	if c.EmberCount < 0 || c.FlameCount < 0 {
		return fmt.Errorf("particle counts must be non-negative, got %d/%d", c.EmberCount, c.FlameCount)
	}
	if c.TotalParticles() > MaxParticles {
		return fmt.Errorf("particle total %d exceeds pool capacity %d", c.TotalParticles(), MaxParticles)
	}
	if c.EmberSpeedMin > c.EmberSpeedMax {
		return fmt.Errorf("ember speed range invalid: min(%.1f) > max(%.1f)", c.EmberSpeedMin, c.EmberSpeedMax)
	}
	if c.FlameSpeedMin > c.FlameSpeedMax {
		return fmt.Errorf("flame speed range invalid: min(%.1f) > max(%.1f)", c.FlameSpeedMin, c.FlameSpeedMax)
	}

	fractions := map[string]float64{
		"bottomGlowHeight": c.BottomGlowHeight,
		"sideGlowWidth":    c.SideGlowWidth,
		"topGlowHeight":    c.TopGlowHeight,
		"glowOpacity":      c.GlowOpacity,
	}
	for field, v := range fractions {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %.2f", field, v)
		}
	}

	switch c.Vignette {
	case "", VignetteNone, VignetteBlazing, VignetteInferno, VignetteMeltdown:
	default:
		return fmt.Errorf("unknown vignette type '%s'", c.Vignette)
	}

	return nil
}

func isKnownTier(name string) bool {
	for _, known := range Tiers {
		if known == name {
			return true
		}
	}
	return false
}
