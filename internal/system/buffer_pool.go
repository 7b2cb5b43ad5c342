package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool reuses *image.RGBA frames of equal size so the render workers
// do not allocate a fresh frame for every snapshot.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex

	gets   atomic.Int64
	allocs atomic.Int64
}

// NewImagePool creates an empty pool.
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var globalPool = NewImagePool()

// DefaultPool returns the process-wide pool.
func DefaultPool() *ImagePool { return globalPool }

// Get returns a frame of the given bounds. Its contents are undefined.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.gets.Add(1)
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					p.allocs.Add(1)
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put hands img back for reuse. Frames of a size never requested are
// dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Stats reports how many frames were requested and how many of those had
// to be allocated.
func (p *ImagePool) Stats() (gets, allocs int64) {
	return p.gets.Load(), p.allocs.Load()
}
