package app

import (
	"fmt"
	"log"
	"os"

	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/embedded"
	"github.com/decker502/burnrate/pkg/settings"
)

// 嵌入配置的默认路径
const (
	HostConfigPath     = "data/host.yaml"
	TierTablePath      = "data/tiers.yaml"
	TierThresholdsPath = "data/thresholds.yaml"
)

// Resources 启动时加载的全部配置
type Resources struct {
	Host       *config.HostConfig
	Tiers      config.TierTable
	Thresholds *config.TierThresholds
}

// LoadResources 加载宿主配置、档位表与阈值表
//
// 每个文件的查找顺序：命令行指定的路径 → 嵌入的 data/ → 内置默认值。
// 指定路径的文件读取或验证失败是致命错误；嵌入文件缺失时静默使用默认值。
func LoadResources(cfg Config) (*Resources, error) {
	res := &Resources{
		Host:       config.DefaultHostConfig(),
		Tiers:      config.DefaultTierTable(),
		Thresholds: config.DefaultTierThresholds(),
	}

	if data, src, err := readConfig(cfg.ConfigPath, HostConfigPath); err != nil {
		return nil, err
	} else if data != nil {
		host, err := config.ParseHostConfig(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		res.Host = host
		log.Printf("[Config] 加载宿主配置: %s", src)
	}

	if data, src, err := readConfig(cfg.TiersPath, TierTablePath); err != nil {
		return nil, err
	} else if data != nil {
		tiers, err := config.ParseTierTable(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		res.Tiers = tiers
		log.Printf("[Config] 加载档位表: %s (%d 个档位)", src, len(tiers))
	}

	if data, src, err := readConfig(cfg.ThresholdsPath, TierThresholdsPath); err != nil {
		return nil, err
	} else if data != nil {
		th, err := config.ParseTierThresholds(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		res.Thresholds = th
		log.Printf("[Config] 加载档位阈值: %s", src)
	}

	return res, nil
}

// readConfig 按路径或嵌入文件读取配置，两者都没有时返回 nil
func readConfig(path, embeddedPath string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, path, nil
	}
	if embedded.Exists(embeddedPath) {
		data, err := embedded.ReadFile(embeddedPath)
		if err != nil {
			return nil, embeddedPath, fmt.Errorf("failed to read embedded %s: %w", embeddedPath, err)
		}
		return data, "embedded:" + embeddedPath, nil
	}
	return nil, "", nil
}

// HostConfig 合并出最终的宿主配置
//
// 优先级从低到高：host.yaml → 已保存的偏好 → 环境变量 → 命令行参数。
// 命令行同时给出 -usage 与 -tier 时以 -tier 为准。
func (r *Resources) HostConfig(cfg Config, prefs *settings.SettingsManager, lookup func(string) (string, bool)) config.HostConfig {
	hc := *r.Host

	if prefs != nil {
		prefs.Apply(&hc, cfg.Explicit)
	}
	hc.ApplyEnv(lookup)

	if cfg.Explicit["usage"] && !cfg.Explicit["tier"] {
		hc.Tier = r.Thresholds.TierFor(cfg.Usage)
	}
	if cfg.Explicit["tier"] {
		hc.Tier = cfg.Tier
	}
	if cfg.Explicit["reduced-motion"] {
		hc.ReducedMotion = cfg.ReducedMotion
	}
	if cfg.Explicit["force-canvas"] {
		hc.ForceCanvas = cfg.ForceCanvas
	}
	if cfg.Explicit["seed"] {
		hc.Seed = cfg.Seed
	}

	if r.Tiers != nil {
		if _, ok := r.Tiers[hc.Tier]; !ok {
			log.Printf("[Config] Warning: unknown tier %q, falling back to %s", hc.Tier, config.TierCold)
		}
	}
	return hc
}
