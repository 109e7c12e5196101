// Package main 校验档位表与阈值表，并对每个档位做一次无界面模拟
//
// 用法:
//
//	go run ./cmd/verify_tiers [--tiers data/tiers.yaml] [--thresholds data/thresholds.yaml] [--seconds 10]
package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/fire"
)

var (
	tiersFlag      = flag.String("tiers", "data/tiers.yaml", "Tier table YAML path")
	thresholdsFlag = flag.String("thresholds", "data/thresholds.yaml", "Usage thresholds YAML path")
	secondsFlag    = flag.Float64("seconds", 10, "Simulated seconds per tier")
)

// 模拟视口尺寸
const (
	simWidth  = 800
	simHeight = 600
	simStep   = 1.0 / 60.0
)

func main() {
	flag.Parse()

	failed := false

	fmt.Println("=== 档位表 ===")
	table, err := config.LoadTierTable(*tiersFlag)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ %s 通过验证 (%d 个档位)\n\n", *tiersFlag, len(table))

	fmt.Printf("%-10s %6s %6s %6s %8s %8s %9s %s\n",
		"tier", "embers", "flames", "total", "opacity", "pulse", "vignette", "glow")
	for _, name := range config.Tiers {
		cfg, ok := table[name]
		if !ok {
			fmt.Printf("%-10s (未配置，运行时按 cold 处理)\n", name)
			continue
		}
		fmt.Printf("%-10s %6d %6d %6d %8.2f %8.2f %9s %s\n",
			name, cfg.EmberCount, cfg.FlameCount, cfg.TotalParticles(),
			cfg.GlowOpacity, cfg.PulseSpeed, cfg.Clone().Vignette, glowSummary(cfg))
	}

	fmt.Println("\n=== 与内置档位表对比 ===")
	for _, name := range config.Tiers {
		cfg, ok := table[name]
		if !ok {
			continue
		}
		if reflect.DeepEqual(cfg.Clone(), config.TierToConfig(name)) {
			fmt.Printf("✅ %s 与内置一致\n", name)
		} else {
			fmt.Printf("⚠️  %s 与内置不同（调参中？）\n", name)
		}
	}

	fmt.Println("\n=== 阈值表 ===")
	th, err := config.LoadTierThresholds(*thresholdsFlag)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		failed = true
	} else {
		fmt.Printf("✅ %s 通过验证\n", *thresholdsFlag)
		for _, t := range th.Thresholds {
			fmt.Printf("  >= %8.2f → %s\n", t.MinUsage, t.Tier)
			if _, ok := table[t.Tier]; !ok {
				fmt.Printf("❌ 阈值档位 %s 不在档位表中\n", t.Tier)
				failed = true
			}
		}
	}

	fmt.Printf("\n=== 模拟 %.0f 秒 (%dx%d) ===\n", *secondsFlag, simWidth, simHeight)
	for _, name := range config.Tiers {
		cfg := table.Lookup(name)
		e := fire.NewEngine(cfg, fire.WithSeed(1))
		steps := int(*secondsFlag / simStep)
		peak := 0
		for i := 0; i < steps; i++ {
			e.Update(simStep, simWidth, simHeight)
			peak = max(peak, e.Pool().Count)
		}

		status := "✅"
		if peak > cfg.TotalParticles() || peak > e.Pool().Capacity {
			status = "❌"
			failed = true
		}
		fmt.Printf("%s %-10s 最终 %3d / 目标 %3d，峰值 %3d\n",
			status, name, e.Pool().Count, cfg.TotalParticles(), peak)
	}

	if failed {
		os.Exit(1)
	}
}

func glowSummary(cfg config.TierConfig) string {
	s := ""
	if cfg.BottomGlow {
		s += fmt.Sprintf("bottom %.2f ", cfg.BottomGlowHeight)
	}
	if cfg.SideGlow {
		s += fmt.Sprintf("side %.2f ", cfg.SideGlowWidth)
	}
	if cfg.TopGlow {
		s += fmt.Sprintf("top %.2f ", cfg.TopGlowHeight)
	}
	if cfg.HeatShimmer {
		s += "shimmer"
	}
	if s == "" {
		return "-"
	}
	return s
}
