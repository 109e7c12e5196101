// Command burnrate 在桌面窗口中显示用量火焰效果
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>       Host config YAML (default: embedded data/host.yaml)
//	--tiers <path>        Tier table YAML (default: embedded data/tiers.yaml)
//	--thresholds <path>   Usage thresholds YAML (default: embedded data/thresholds.yaml)
//	--tier <name>         Start tier (cold, spark, warm, burning, blazing, inferno, meltdown)
//	--usage <value>       Pick the start tier from a usage value via the thresholds
//	--reduced-motion      Render a single static frame
//	--force-canvas        Skip the shader and use the CPU canvas fallback
//	--seed <n>            Noise/random seed (0 = time based)
//	--verbose             Enable log output
//
// Controls:
//
//	Up/Down    - Next/previous tier
//	1-7        - Jump to tier (1=cold ... 7=meltdown)
//	P          - Toggle pause
//	C          - Simulate GPU context loss
//	S          - Save preferences
//	H          - Toggle HUD
//	Escape     - Quit
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/burnrate/pkg/app"
	"github.com/decker502/burnrate/pkg/embedded"
)

var (
	configFlag        = flag.String("config", "", "Host config YAML path")
	tiersFlag         = flag.String("tiers", "", "Tier table YAML path")
	thresholdsFlag    = flag.String("thresholds", "", "Usage thresholds YAML path")
	tierFlag          = flag.String("tier", "", "Start tier name")
	usageFlag         = flag.Float64("usage", 0, "Usage value mapped to a tier via the thresholds")
	reducedMotionFlag = flag.Bool("reduced-motion", false, "Render a single static frame")
	forceCanvasFlag   = flag.Bool("force-canvas", false, "Use the CPU canvas fallback")
	seedFlag          = flag.Int64("seed", 0, "Noise/random seed (0 = time based)")
	verboseFlag       = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// 初始化嵌入配置（必须在 NewApp 之前）
	embedded.Init(dataFS)

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	game, err := app.NewApp(app.Config{
		Verbose:        *verboseFlag,
		ConfigPath:     *configFlag,
		TiersPath:      *tiersFlag,
		ThresholdsPath: *thresholdsFlag,
		Tier:           *tierFlag,
		Usage:          *usageFlag,
		ReducedMotion:  *reducedMotionFlag,
		ForceCanvas:    *forceCanvasFlag,
		Seed:           *seedFlag,
		Explicit:       explicit,
	})
	if err != nil {
		log.SetOutput(flag.CommandLine.Output())
		log.Fatalf("Failed to start: %v", err)
	}
	defer game.Close()

	w, h := game.Host().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 失去焦点时仍调用 Update，由 App 根据焦点暂停/恢复
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
