package larch

// batchKey groups geometry that can be submitted in a single draw call.
type batchKey struct {
	texture Texture // root texture; nil for untextured geometry
	blend   BlendMode
	style   *Style
}

// Batch is a contiguous run of world-space geometry sharing texture, blend
// mode and style. Backends must not keep a Batch after Submit returns; its
// buffers are reused on the next frame.
type Batch struct {
	VertexData
	Texture   Texture
	BlendMode BlendMode
	Style     *Style
}

func (b *Batch) key() batchKey {
	return batchKey{texture: b.Texture, blend: b.BlendMode, style: b.Style}
}

func (b *Batch) reset(k batchKey) {
	b.VertexData.Reset()
	b.Texture = k.texture
	b.BlendMode = k.blend
	b.Style = k.style
}

// Backend receives finished batches. Each Submit is one draw call.
type Backend interface {
	Submit(b *Batch) error
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(b *Batch) error

// Submit calls f(b).
func (f BackendFunc) Submit(b *Batch) error { return f(b) }

// batchList is a frame-scoped list of batches whose storage is kept across
// frames. After warmup, opening a batch does not allocate.
type batchList struct {
	items []*Batch
	n     int
}

func (l *batchList) open(k batchKey) *Batch {
	if l.n == len(l.items) {
		l.items = append(l.items, &Batch{})
	}
	b := l.items[l.n]
	l.n++
	b.reset(k)
	return b
}

func (l *batchList) reset() {
	l.n = 0
}

func (l *batchList) all() []*Batch {
	return l.items[:l.n]
}
