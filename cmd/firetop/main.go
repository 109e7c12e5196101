// Package main 通过 CPU 画布路径在终端中渲染火焰效果
//
// Usage:
//
//	go run ./cmd/firetop [flags]
//
// Flags:
//
//	--tier <name>         Start tier (default from host config)
//	--usage <value>       Pick the start tier from a usage value via the thresholds
//	--config <path>       Host config YAML
//	--tiers <path>        Tier table YAML
//	--thresholds <path>   Usage thresholds YAML
//	--reduced-motion      Render a single static frame
//	--seed <n>            Noise/random seed (0 = time based)
//	--verbose             Log to stderr (garbles the screen)
//
// Controls:
//
//	1-7        - Jump to tier (1=cold ... 7=meltdown)
//	+/-        - Next/previous tier
//	Space      - Toggle pause
//	q/Escape   - Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/burnrate/pkg/app"
	"github.com/decker502/burnrate/pkg/config"
	"github.com/decker502/burnrate/pkg/host"
	"github.com/decker502/burnrate/pkg/termview"
)

var (
	tierFlag          = flag.String("tier", "", "Start tier name")
	usageFlag         = flag.Float64("usage", 0, "Usage value mapped to a tier via the thresholds")
	configFlag        = flag.String("config", "", "Host config YAML path")
	tiersFlag         = flag.String("tiers", "", "Tier table YAML path")
	thresholdsFlag    = flag.String("thresholds", "", "Usage thresholds YAML path")
	reducedMotionFlag = flag.Bool("reduced-motion", false, "Render a single static frame")
	seedFlag          = flag.Int64("seed", 0, "Noise/random seed (0 = time based)")
	verboseFlag       = flag.Bool("verbose", false, "Enable verbose logging")
)

var background = colorful.Color{}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	cfg := app.Config{
		ConfigPath:     *configFlag,
		TiersPath:      *tiersFlag,
		ThresholdsPath: *thresholdsFlag,
		Tier:           *tierFlag,
		Usage:          *usageFlag,
		ReducedMotion:  *reducedMotionFlag,
		Seed:           *seedFlag,
		Explicit:       explicit,
	}

	res, err := app.LoadResources(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "firetop: %v\n", err)
		os.Exit(1)
	}
	hc := res.HostConfig(cfg, nil, nil)

	if err := run(hc, res.Tiers); err != nil {
		fmt.Fprintf(os.Stderr, "firetop: %v\n", err)
		os.Exit(1)
	}
}

func run(hc config.HostConfig, tiers config.TierTable) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableFocus()
	screen.HideCursor()

	// 终端没有 GPU：始终使用画布后端，画布像素与字符半格一一对应
	cols, rows := screen.Size()
	hc.Width, hc.Height = termview.SurfaceSize(cols, rows)
	hc.ForceCanvas = true
	hc.CanvasScale = 1

	h := host.New(hc, tiers.Lookup(hc.Tier), host.WithTierTable(tiers))
	h.Mount()
	defer h.Dispose()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(time.Second / time.Duration(hc.TickRate))
	defer ticker.Stop()

	userPaused := false
	focused := true
	draw := func() {
		termview.Blit(screen, h.Surface().Image(), cols, rows, background)
		status := fmt.Sprintf(" %s | %d particles | %s ", h.Tier(), h.Engine().Pool().Count, h.State())
		termview.DrawText(screen, 0, 0, cols, status, tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))
		screen.Show()
	}
	draw()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				cols, rows = screen.Size()
				w, ht := termview.SurfaceSize(cols, rows)
				h.Resize(w, ht, 1)
				draw()
			case *tcell.EventFocus:
				focused = ev.Focused
				if !focused {
					h.Pause()
				} else if !userPaused {
					h.Resume()
				}
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Key() == tcell.KeyRune:
					switch r := ev.Rune(); {
					case r == 'q':
						return nil
					case r == ' ':
						userPaused = !userPaused
						if userPaused {
							h.Pause()
						} else if focused {
							h.Resume()
						}
					case r == '+' || r == '=':
						stepTier(h, 1)
					case r == '-':
						stepTier(h, -1)
					case r >= '1' && r <= '7':
						h.SetTier(config.Tiers[r-'1'])
					}
					draw()
				}
			}
		case now := <-ticker.C:
			if h.State() != host.Running {
				continue
			}
			h.Tick(now)
			draw()
		}
	}
}

func stepTier(h *host.Host, delta int) {
	idx := config.TierIndex(h.Tier()) + delta
	if idx < 0 || idx >= len(config.Tiers) {
		return
	}
	h.SetTier(config.Tiers[idx])
}
