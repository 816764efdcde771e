package larch

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// --- glyph (internal) ---

type glyph struct {
	id       rune
	xOffset  float64
	yOffset  float64
	xAdvance float64
	width    float64
	height   float64
	texture  *SubTexture // nil for empty glyphs such as space
}

// --- BitmapFont ---

const asciiGlyphCount = 128

// BitmapFont is a pre-rasterized font in BMFont format. Each glyph is a
// SubTexture of the font texture, so all text using one font batches into a
// single draw call. Metrics are in texture points.
type BitmapFont struct {
	name       string
	size       float64
	lineHeight float64
	base       float64
	texture    Texture

	asciiGlyphs [asciiGlyphCount]glyph // fixed array for ASCII, zero-alloc lookup
	asciiSet    [asciiGlyphCount]bool  // which ASCII entries are populated
	extGlyphs   map[rune]*glyph        // extended Unicode (pointer avoids per-lookup alloc)

	kernings map[[2]rune]float64
}

// Name returns the face name from the font's info line.
func (f *BitmapFont) Name() string { return f.name }

// Size returns the native size the font was rasterized at.
func (f *BitmapFont) Size() float64 { return f.size }

// LineHeight returns the vertical distance between baselines.
func (f *BitmapFont) LineHeight() float64 { return f.lineHeight }

// Baseline returns the distance from the top of a line to the baseline.
func (f *BitmapFont) Baseline() float64 { return f.base }

// Texture returns the glyph texture.
func (f *BitmapFont) Texture() Texture { return f.texture }

// HasGlyph reports whether the font defines r.
func (f *BitmapFont) HasGlyph(r rune) bool { return f.glyph(r) != nil }

// glyph returns the glyph for the given rune, or nil if not found.
func (f *BitmapFont) glyph(r rune) *glyph {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.asciiGlyphs[r]
		}
		return nil
	}
	if g, ok := f.extGlyphs[r]; ok {
		return g
	}
	return nil
}

// kern returns the kerning amount for the given rune pair.
func (f *BitmapFont) kern(first, second rune) float64 {
	if f.kernings == nil {
		return 0
	}
	return f.kernings[[2]rune{first, second}]
}

// LoadBitmapFont parses BMFont .fnt text-format data whose glyphs live in
// tex. Glyph rectangles in the file are in pixels and are converted to the
// texture's points.
func LoadBitmapFont(fntData []byte, tex Texture) (*BitmapFont, error) {
	if tex == nil {
		return nil, fmt.Errorf("larch: bitmap font needs a texture")
	}
	f := &BitmapFont{texture: tex}
	scale := tex.Scale()

	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	var charCount int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "info":
			f.name = fields["face"]
			if v, ok := fields["size"]; ok {
				size, _ := strconv.ParseFloat(v, 64)
				// Negative sizes mean "match char height" in BMFont.
				f.size = abs(size) / scale
			}

		case "common":
			if v, ok := fields["lineHeight"]; ok {
				lh, _ := strconv.ParseFloat(v, 64)
				f.lineHeight = lh / scale
			}
			if v, ok := fields["base"]; ok {
				base, _ := strconv.ParseFloat(v, 64)
				f.base = base / scale
			}

		case "char":
			charCount++
			g := glyph{id: rune(fieldInt(fields, "id"))}
			g.xOffset = float64(fieldInt(fields, "xoffset")) / scale
			g.yOffset = float64(fieldInt(fields, "yoffset")) / scale
			g.xAdvance = float64(fieldInt(fields, "xadvance")) / scale
			g.width = float64(fieldInt(fields, "width")) / scale
			g.height = float64(fieldInt(fields, "height")) / scale
			if g.width > 0 && g.height > 0 {
				region := Rect{
					X:      float64(fieldInt(fields, "x")) / scale,
					Y:      float64(fieldInt(fields, "y")) / scale,
					Width:  g.width,
					Height: g.height,
				}
				g.texture = NewSubTexture(tex, &region, nil, false)
			}

			if g.id >= 0 && g.id < asciiGlyphCount {
				f.asciiGlyphs[g.id] = g
				f.asciiSet[g.id] = true
			} else {
				if f.extGlyphs == nil {
					f.extGlyphs = make(map[rune]*glyph)
				}
				g := g // copy for heap allocation
				f.extGlyphs[g.id] = &g
			}

		case "kerning":
			if f.kernings == nil {
				f.kernings = make(map[[2]rune]float64)
			}
			first := rune(fieldInt(fields, "first"))
			second := rune(fieldInt(fields, "second"))
			f.kernings[[2]rune{first, second}] = float64(fieldInt(fields, "amount")) / scale
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("larch: error reading .fnt data: %w", err)
	}

	if f.lineHeight == 0 {
		return nil, fmt.Errorf("larch: .fnt data missing common lineHeight")
	}
	if charCount == 0 {
		return nil, fmt.Errorf("larch: .fnt data has no char definitions")
	}
	if f.size == 0 {
		f.size = f.lineHeight
	}
	return f, nil
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func fieldInt(fields map[string]string, key string) int {
	v, _ := strconv.Atoi(fields[key])
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// --- Font registry ---

var bitmapFonts = map[string]*BitmapFont{}

// RegisterBitmapFont makes f available to text fields under name. An empty
// name registers the font under its face name.
func RegisterBitmapFont(name string, f *BitmapFont) {
	if name == "" {
		name = f.name
	}
	bitmapFonts[name] = f
}

// UnregisterBitmapFont removes a registered font. Text fields using it fail
// with ErrMissingFont on their next regeneration.
func UnregisterBitmapFont(name string) {
	delete(bitmapFonts, name)
}

// BitmapFontByName returns the registered font, or nil.
func BitmapFontByName(name string) *BitmapFont {
	return bitmapFonts[name]
}

// --- TextField ---

// TextField is the text state of a NodeTypeText node. Setters only mark the
// field dirty; glyph quads are rebuilt on the next render or bounds query.
type TextField struct {
	owner *Node

	width, height float64
	text          string
	fontName      string
	fontSize      float64 // 0 = the font's native size
	hAlign        TextAlign
	vAlign        VerticalAlign
	color         Color
	kerning       bool
	autoScale     bool

	dirty bool

	// Layout results
	lines     []textLine
	textSize  Vec2
	usedScale float64
}

// textLine stores one line of laid-out glyphs in font units.
type textLine struct {
	glyphs []placedGlyph
	width  float64
}

type placedGlyph struct {
	g    *glyph
	x, y float64
}

func newTextField(owner *Node, width, height float64, content, fontName string) *TextField {
	return &TextField{
		owner:    owner,
		width:    width,
		height:   height,
		text:     content,
		fontName: fontName,
		color:    ColorWhite,
		kerning:  true,
		dirty:    true,
	}
}

func (tf *TextField) markDirty() {
	tf.dirty = true
	tf.owner.geometryDirty = true
}

// Text returns the displayed string.
func (tf *TextField) Text() string { return tf.text }

// SetText replaces the displayed string.
func (tf *TextField) SetText(s string) {
	if s != tf.text {
		tf.text = s
		tf.markDirty()
	}
}

// Font returns the registered name of the font.
func (tf *TextField) Font() string { return tf.fontName }

// SetFont selects a registered font by name.
func (tf *TextField) SetFont(name string) {
	if name != tf.fontName {
		tf.fontName = name
		tf.markDirty()
	}
}

// FontSize returns the requested size; 0 means the font's native size.
func (tf *TextField) FontSize() float64 { return tf.fontSize }

// SetFontSize sets the size glyphs are scaled to.
func (tf *TextField) SetFontSize(size float64) {
	if size != tf.fontSize {
		tf.fontSize = size
		tf.markDirty()
	}
}

// HAlign returns the horizontal alignment.
func (tf *TextField) HAlign() TextAlign { return tf.hAlign }

// SetHAlign sets the horizontal alignment within the box.
func (tf *TextField) SetHAlign(a TextAlign) {
	if a != tf.hAlign {
		tf.hAlign = a
		tf.markDirty()
	}
}

// VAlign returns the vertical alignment.
func (tf *TextField) VAlign() VerticalAlign { return tf.vAlign }

// SetVAlign sets the vertical alignment within the box.
func (tf *TextField) SetVAlign(a VerticalAlign) {
	if a != tf.vAlign {
		tf.vAlign = a
		tf.markDirty()
	}
}

// Color returns the glyph color.
func (tf *TextField) Color() Color { return tf.color }

// SetColor sets the glyph color.
func (tf *TextField) SetColor(c Color) {
	if c != tf.color {
		tf.color = c
		tf.markDirty()
	}
}

// Kerning reports whether kerning pairs are applied.
func (tf *TextField) Kerning() bool { return tf.kerning }

// SetKerning enables or disables kerning pairs.
func (tf *TextField) SetKerning(enabled bool) {
	if enabled != tf.kerning {
		tf.kerning = enabled
		tf.markDirty()
	}
}

// AutoScale reports whether the text shrinks to fit its box.
func (tf *TextField) AutoScale() bool { return tf.autoScale }

// SetAutoScale makes the text shrink one size step at a time until it fits
// the box without breaking words.
func (tf *TextField) SetAutoScale(enabled bool) {
	if enabled != tf.autoScale {
		tf.autoScale = enabled
		tf.markDirty()
	}
}

// Box returns the layout box size.
func (tf *TextField) Box() (width, height float64) { return tf.width, tf.height }

// SetBox resizes the layout box. A zero width disables wrapping; a zero
// height disables vertical fitting.
func (tf *TextField) SetBox(width, height float64) {
	if width != tf.width || height != tf.height {
		tf.width, tf.height = width, height
		tf.markDirty()
	}
}

// TextSize returns the size of the laid-out text, regenerating if needed.
func (tf *TextField) TextSize() (Vec2, error) {
	if err := tf.regenerate(); err != nil {
		return Vec2{}, err
	}
	return tf.textSize, nil
}

// regenerate rebuilds the owner's glyph quads if any text property changed.
func (tf *TextField) regenerate() error {
	if !tf.dirty {
		return nil
	}
	f := BitmapFontByName(tf.fontName)
	if f == nil {
		return fmt.Errorf("larch: text %q uses font %q: %w", tf.owner.Name, tf.fontName, ErrMissingFont)
	}

	size := tf.fontSize
	if size <= 0 {
		size = f.size
	}
	var scale float64
	for {
		scale = size / f.size
		if tf.arrange(f, scale) || !tf.autoScale || size <= 1 {
			break
		}
		size--
	}
	tf.usedScale = scale

	vd := &tf.owner.geometry
	vd.Reset()
	tf.emit(f, scale, vd)

	tf.owner.texture = f.texture
	tf.owner.geometryDirty = false
	tf.dirty = false
	return nil
}

// arrange lays out the text in font units for the given scale. It reports
// false when auto-scaling is on and the text does not fit: a word is wider
// than the box or the lines are taller than it.
func (tf *TextField) arrange(f *BitmapFont, scale float64) bool {
	var maxW, maxH float64
	if tf.width > 0 {
		maxW = tf.width / scale
	}
	if tf.height > 0 {
		maxH = tf.height / scale
	}

	tf.lines = tf.lines[:0]
	var cur textLine
	var cursorX float64
	wordStart := -1 // index in cur.glyphs where the current word starts after a space
	var prev rune
	hasPrev := false

	newLine := func() {
		cur.width = lineWidth(cur.glyphs)
		tf.lines = append(tf.lines, cur)
		cur = textLine{}
		cursorX = 0
		wordStart = -1
		hasPrev = false
	}

	content := tf.text
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		i += size

		if r == '\n' {
			newLine()
			continue
		}
		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if tf.kerning && hasPrev {
			cursorX += f.kern(prev, r)
		}

		pg := placedGlyph{g: g, x: cursorX + g.xOffset, y: g.yOffset}
		cur.glyphs = append(cur.glyphs, pg)
		cursorX += g.xAdvance
		prev, hasPrev = r, true

		if isSpace(r) {
			wordStart = len(cur.glyphs)
			continue
		}
		if maxW <= 0 || pg.x+g.width <= maxW {
			continue
		}

		// Overflow: break at the last space, or inside the word.
		if tf.autoScale && wordStart < 0 {
			return false
		}
		split := wordStart
		if split < 0 || split >= len(cur.glyphs) {
			split = len(cur.glyphs) - 1
		}
		if split == 0 {
			continue // a single glyph wider than the box stays on its line
		}
		moved := cur.glyphs[split:]
		cur.glyphs = cur.glyphs[:split]
		shift := moved[0].x - moved[0].g.xOffset
		end := cursorX
		newLine()
		for _, m := range moved {
			m.x -= shift
			cur.glyphs = append(cur.glyphs, m)
		}
		cursorX = end - shift
		prev, hasPrev = r, true
	}
	newLine()

	var w float64
	for _, l := range tf.lines {
		w = max(w, l.width)
	}
	h := float64(len(tf.lines)) * f.lineHeight
	tf.textSize = Vec2{w * scale, h * scale}

	if maxH > 0 && h > maxH {
		return false
	}
	return true
}

// emit appends one quad per visible glyph, aligned inside the box.
func (tf *TextField) emit(f *BitmapFont, scale float64, vd *VertexData) {
	boxW, boxH := tf.width/scale, tf.height/scale
	totalH := float64(len(tf.lines)) * f.lineHeight

	var offY float64
	if tf.height > 0 {
		switch tf.vAlign {
		case VerticalAlignCenter:
			offY = (boxH - totalH) / 2
		case VerticalAlignBottom:
			offY = boxH - totalH
		}
	}

	for li := range tf.lines {
		line := &tf.lines[li]
		var offX float64
		if tf.width > 0 {
			switch tf.hAlign {
			case TextAlignCenter:
				offX = (boxW - line.width) / 2
			case TextAlignRight:
				offX = boxW - line.width
			}
		}
		lineY := float64(li)*f.lineHeight + offY
		for _, pg := range line.glyphs {
			if pg.g.texture == nil {
				continue
			}
			base := len(vd.Vertices)
			vd.AppendQuad(
				(pg.x+offX)*scale, (pg.y+lineY)*scale,
				pg.g.width*scale, pg.g.height*scale,
				tf.color,
			)
			AdjustTexCoords(pg.g.texture, vd, base, 4)
		}
	}
}

// lineWidth is the right edge of the last visible glyph, ignoring trailing
// spaces.
func lineWidth(glyphs []placedGlyph) float64 {
	for i := len(glyphs) - 1; i >= 0; i-- {
		if glyphs[i].g.texture != nil {
			return glyphs[i].x + glyphs[i].g.width
		}
	}
	return 0
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
