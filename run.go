package larch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/kelseyhightower/envconfig"
)

// RunConfig configures the window and loop started by Run. Every field can be
// set from the environment with LoadRunConfig.
type RunConfig struct {
	Title      string `envconfig:"TITLE" default:"larch"`
	Width      int    `envconfig:"WIDTH" default:"640"`
	Height     int    `envconfig:"HEIGHT" default:"480"`
	TPS        int    `envconfig:"TPS" default:"60"`
	Debug      bool   `envconfig:"DEBUG" default:"false"`
	ShowStats  bool   `envconfig:"SHOW_STATS" default:"false"`
	Resizable  bool   `envconfig:"RESIZABLE" default:"false"`
	ClearColor Color  `envconfig:"CLEAR_COLOR" default:"#000000"`
}

// LoadRunConfig reads a RunConfig from environment variables named
// PREFIX_TITLE, PREFIX_WIDTH and so on. Unset variables take their defaults.
func LoadRunConfig(prefix string) (RunConfig, error) {
	var cfg RunConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("larch: load run config: %w", err)
	}
	return cfg, nil
}

// Decode parses "#rrggbb" or "#rrggbbaa" (the "#" is optional). It lets
// Color be used in envconfig-tagged structs.
func (c *Color) Decode(value string) error {
	parsed, err := ParseHexColor(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into a Color.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("larch: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("larch: invalid hex color %q: %w", s, err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// game adapts a Scene to ebiten.Game: Update steps the simulation by one
// fixed tick and Draw compiles and submits the tree to the screen.
type game struct {
	scene   *Scene
	backend *EbitenBackend
	cfg     RunConfig
	dt      float64
	err     error
}

func newGame(scene *Scene, cfg RunConfig) *game {
	if cfg.TPS <= 0 {
		cfg.TPS = ebiten.DefaultTPS
	}
	g := &game{
		scene:   scene,
		backend: NewEbitenBackend(nil),
		cfg:     cfg,
		dt:      1 / float64(cfg.TPS),
	}
	scene.SetBackend(g.backend)
	return g
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	g.scene.OnFrame(g.dt)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.ClearColor.toRGBA())
	g.backend.SetTarget(screen)
	if _, err := g.scene.RenderFrame(); err != nil {
		// Draw cannot return an error; stop on the next Update.
		g.err = err
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives scene until the window is closed or a frame
// fails to render.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("larch: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	g := newGame(scene, cfg)

	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	if cfg.ShowStats {
		if err := scene.Root().AddChild(NewStatsDisplay()); err != nil {
			return err
		}
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(g.cfg.TPS)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(g)
}
