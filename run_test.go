package larch

import (
	"testing"
)

func TestLoadRunConfigDefaults(t *testing.T) {
	cfg, err := LoadRunConfig("LARCHTEST")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "larch" || cfg.Width != 640 || cfg.Height != 480 || cfg.TPS != 60 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.ClearColor != (Color{0, 0, 0, 1}) {
		t.Errorf("ClearColor = %v, want opaque black", cfg.ClearColor)
	}
}

func TestLoadRunConfigFromEnv(t *testing.T) {
	t.Setenv("LARCHTEST_TITLE", "demo")
	t.Setenv("LARCHTEST_WIDTH", "800")
	t.Setenv("LARCHTEST_SHOW_STATS", "true")
	t.Setenv("LARCHTEST_CLEAR_COLOR", "#ff000080")

	cfg, err := LoadRunConfig("LARCHTEST")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "demo" || cfg.Width != 800 || !cfg.ShowStats {
		t.Errorf("cfg = %+v", cfg)
	}
	assertNear(t, "R", cfg.ClearColor.R, 1)
	assertNear(t, "A", cfg.ClearColor.A, 128.0/255)
}

func TestLoadRunConfigInvalid(t *testing.T) {
	t.Setenv("LARCHTEST_WIDTH", "wide")
	if _, err := LoadRunConfig("LARCHTEST"); err == nil {
		t.Error("expected an error for a non-numeric width")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ffffff", Color{1, 1, 1, 1}, true},
		{"000000", Color{0, 0, 0, 1}, true},
		{"#00ff0000", Color{0, 1, 0, 0}, true},
		{" #0000ff ", Color{0, 0, 1, 1}, true},
		{"#fff", Color{}, false},
		{"#gggggg", Color{}, false},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("ParseHexColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRunRejectsBadSize(t *testing.T) {
	if err := Run(NewScene(nil), RunConfig{Width: 0, Height: 10}); err == nil {
		t.Error("expected an error for zero width")
	}
}

func TestGameStepsScene(t *testing.T) {
	s := NewScene(nil)
	var total float64
	s.Root().AddEnterFrame(func(dt float64) { total += dt })

	g := newGame(s, RunConfig{Width: 320, Height: 240, TPS: 50})
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "dt", total, 0.02)
	if w, h := g.Layout(1000, 1000); w != 320 || h != 240 {
		t.Errorf("Layout = %dx%d, want 320x240", w, h)
	}
}
