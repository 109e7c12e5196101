package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// TierThreshold 单个档位的用量下限
type TierThreshold struct {
	// Tier 档位名称
	Tier string `yaml:"tier"`

	// MinUsage 进入该档位所需的最小用量（含）
	MinUsage float64 `yaml:"minUsage"`
}

// TierThresholds 用量到档位的阈值表
//
// 这是外部协作方（仪表盘）与引擎之间的约定：仪表盘提供用量数值，
// 阈值表将其映射为档位名称。低于第一个阈值的用量为 cold。
//
// 配置文件位置: data/thresholds.yaml
type TierThresholds struct {
	Thresholds []TierThreshold `yaml:"thresholds"`
}

// DefaultTierThresholds 返回默认阈值（单位：当日花费，美元）
func DefaultTierThresholds() *TierThresholds {
	return &TierThresholds{
		Thresholds: []TierThreshold{
			{Tier: TierSpark, MinUsage: 1},
			{Tier: TierWarm, MinUsage: 5},
			{Tier: TierBurning, MinUsage: 15},
			{Tier: TierBlazing, MinUsage: 40},
			{Tier: TierInferno, MinUsage: 100},
			{Tier: TierMeltdown, MinUsage: 250},
		},
	}
}

// LoadTierThresholds 从 YAML 文件加载阈值表
func LoadTierThresholds(path string) (*TierThresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier thresholds: %w", err)
	}
	return ParseTierThresholds(data)
}

// ParseTierThresholds 解析 YAML 格式的阈值表
func ParseTierThresholds(data []byte) (*TierThresholds, error) {
	var th TierThresholds
	if err := yaml.Unmarshal(data, &th); err != nil {
		return nil, fmt.Errorf("failed to parse tier thresholds: %w", err)
	}

	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tier thresholds: %w", err)
	}

	return &th, nil
}

// Validate 验证阈值表
//
// 阈值必须严格递增，档位必须是已知且非 cold 的档位，且按强度顺序排列。
func (th *TierThresholds) Validate() error {
	if len(th.Thresholds) == 0 {
		return fmt.Errorf("no thresholds defined")
	}

	prevIndex := 0
	prevUsage := math.Inf(-1)
	for i, t := range th.Thresholds {
		if !isKnownTier(t.Tier) || t.Tier == TierCold {
			return fmt.Errorf("threshold %d: unknown tier '%s'", i, t.Tier)
		}
		if t.MinUsage <= prevUsage {
			return fmt.Errorf("threshold %d (%s): minUsage %.2f must be greater than %.2f",
				i, t.Tier, t.MinUsage, prevUsage)
		}
		idx := TierIndex(t.Tier)
		if idx <= prevIndex {
			return fmt.Errorf("threshold %d: tier '%s' is out of order", i, t.Tier)
		}
		prevIndex = idx
		prevUsage = t.MinUsage
	}

	return nil
}

// TierFor 返回用量对应的档位
//
// 负数、NaN 或低于第一个阈值的用量返回 cold。
func (th *TierThresholds) TierFor(usage float64) string {
	if th == nil || math.IsNaN(usage) {
		return TierCold
	}

	tier := TierCold
	for _, t := range th.Thresholds {
		if usage < t.MinUsage {
			break
		}
		tier = t.Tier
	}
	return tier
}
