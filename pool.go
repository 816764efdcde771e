package larch

// DefaultPoolCapacity is the soft capacity of the package-level value pools.
const DefaultPoolCapacity = 256

// Pool is a free list of reusable *T values. Acquire returns a released value
// reset to its default state, or a new one when the list is empty. Release
// returns a value to the list; once the list holds Capacity values further
// releases are dropped for the garbage collector.
//
// A Pool is not safe for concurrent use. Callers must not keep a pointer
// after releasing it.
type Pool[T any] struct {
	free     []*T
	capacity int
	reset    func(*T)

	// Counters for diagnostics and tests.
	allocated int
	reused    int
}

// NewPool creates a pool with the given soft capacity. reset, when non-nil,
// restores an acquired value to its default state; otherwise the value is
// zeroed.
func NewPool[T any](capacity int, reset func(*T)) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{capacity: capacity, reset: reset}
}

// Acquire returns a value in its default state.
func (p *Pool[T]) Acquire() *T {
	if poolingEnabled {
		if n := len(p.free); n > 0 {
			v := p.free[n-1]
			p.free[n-1] = nil
			p.free = p.free[:n-1]
			p.reused++
			p.clear(v)
			return v
		}
	}
	p.allocated++
	v := new(T)
	p.clear(v)
	return v
}

// Release hands v back to the pool. Releasing nil is a no-op.
func (p *Pool[T]) Release(v *T) {
	if v == nil || !poolingEnabled {
		return
	}
	if len(p.free) >= p.capacity {
		return
	}
	p.free = append(p.free, v)
}

// Len returns the number of values waiting for reuse.
func (p *Pool[T]) Len() int {
	return len(p.free)
}

// Capacity returns the soft capacity.
func (p *Pool[T]) Capacity() int {
	return p.capacity
}

// Drain drops every retained value.
func (p *Pool[T]) Drain() {
	clear(p.free)
	p.free = p.free[:0]
}

func (p *Pool[T]) clear(v *T) {
	if p.reset != nil {
		p.reset(v)
		return
	}
	var zero T
	*v = zero
}

// poolingEnabled switches every pool between reuse and plain allocation.
// Results must be identical either way.
var poolingEnabled = true

// SetPoolingEnabled turns value pooling on or off for all pools. Turning it
// off drains the package-level pools.
func SetPoolingEnabled(enabled bool) {
	poolingEnabled = enabled
	if !enabled {
		matrixPool.Drain()
		vec2Pool.Drain()
		rectPool.Drain()
	}
}

// PoolingEnabled reports whether value pooling is active.
func PoolingEnabled() bool {
	return poolingEnabled
}

var (
	matrixPool = NewPool(DefaultPoolCapacity, func(m *Matrix) { m.Identity() })
	vec2Pool   = NewPool[Vec2](DefaultPoolCapacity, nil)
	rectPool   = NewPool[Rect](DefaultPoolCapacity, nil)
)

// AcquireMatrix returns a pooled identity matrix.
func AcquireMatrix() *Matrix { return matrixPool.Acquire() }

// ReleaseMatrix returns m to the matrix pool.
func ReleaseMatrix(m *Matrix) { matrixPool.Release(m) }

// AcquireVec2 returns a pooled zero vector.
func AcquireVec2() *Vec2 { return vec2Pool.Acquire() }

// ReleaseVec2 returns v to the vector pool.
func ReleaseVec2(v *Vec2) { vec2Pool.Release(v) }

// AcquireRect returns a pooled zero rectangle.
func AcquireRect() *Rect { return rectPool.Acquire() }

// ReleaseRect returns r to the rectangle pool.
func ReleaseRect(r *Rect) { rectPool.Release(r) }
