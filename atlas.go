package larch

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Atlas is a sprite sheet: one or more page textures and a set of named
// regions, each a SubTexture of its page carrying trim frame and rotation.
type Atlas struct {
	// Pages contains the page textures indexed by page number.
	Pages   []Texture
	regions map[string]*SubTexture
}

// Texture returns the named region. If the name doesn't exist, it logs a
// warning (debug only) and returns a 1×1 magenta placeholder.
func (a *Atlas) Texture(name string) Texture {
	if r, ok := a.regions[name]; ok {
		return r
	}
	if globalDebug {
		log.Printf("larch: atlas region %q not found, using magenta placeholder", name)
	}
	return magentaTexture()
}

// Lookup returns the named region and whether it exists.
func (a *Atlas) Lookup(name string) (*SubTexture, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Names returns the sorted region names starting with prefix, e.g. the
// frames of an animation.
func (a *Atlas) Names(prefix string) []string {
	var names []string
	for name := range a.regions {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Textures returns the regions of Names(prefix), in the same order.
func (a *Atlas) Textures(prefix string) []Texture {
	names := a.Names(prefix)
	out := make([]Texture, len(names))
	for i, name := range names {
		out[i] = a.regions[name]
	}
	return out
}

// Len returns the number of regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// magenta placeholder singleton (single-threaded, no sync.Once)
var magentaTex *ImageTexture

func magentaTexture() *ImageTexture {
	if magentaTex == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
		magentaTex = NewImageTexture(img, 1)
		magentaTex.SetName("magenta")
	}
	return magentaTex
}

// LoadAtlas parses TexturePacker JSON data for the given page textures.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists). Pixel rectangles are
// converted to each page's points.
func LoadAtlas(jsonData []byte, pages ...Texture) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("larch: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]*SubTexture),
	}

	switch {
	case probe.Textures != nil:
		// Multi-page array format
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		// Single-page hash format
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("larch: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("larch: failed to parse atlas frames: %w", err)
	}
	return addFrames(frames, page, atlas)
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("larch: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		if err := addFrames(tex.Frames, i, atlas); err != nil {
			return err
		}
	}
	return nil
}

func addFrames(frames map[string]jsonFrame, page int, atlas *Atlas) error {
	if page >= len(atlas.Pages) || atlas.Pages[page] == nil {
		return fmt.Errorf("larch: atlas references page %d but %d pages were given", page, len(atlas.Pages))
	}
	parent := atlas.Pages[page]
	for name, f := range frames {
		sub := frameToTexture(f, parent)
		sub.SetName(name)
		atlas.regions[name] = sub
	}
	return nil
}

// frameToTexture builds the region for one TexturePacker frame. The JSON
// frame size is the unrotated sprite size; rotated sprites occupy a
// height × width rectangle on the page.
func frameToTexture(f jsonFrame, parent Texture) *SubTexture {
	s := parent.Scale()
	region := Rect{
		X:      float64(f.Frame.X) / s,
		Y:      float64(f.Frame.Y) / s,
		Width:  float64(f.Frame.W) / s,
		Height: float64(f.Frame.H) / s,
	}
	if f.Rotated {
		region.Width, region.Height = region.Height, region.Width
	}

	var frame *Rect
	if f.Trimmed && f.SourceSize.W > 0 && f.SourceSize.H > 0 {
		frame = &Rect{
			X:      -float64(f.SpriteSourceSize.X) / s,
			Y:      -float64(f.SpriteSourceSize.Y) / s,
			Width:  float64(f.SourceSize.W) / s,
			Height: float64(f.SourceSize.H) / s,
		}
	}
	return NewSubTexture(parent, &region, frame, f.Rotated)
}
