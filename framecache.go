package termplay

import (
	"fmt"
	"image"
	"sync"

	"github.com/nfnt/resize"
)

// defaultFrameCacheSize bounds the per-session cache of resized frames.
// A looping GIF re-renders the same frames forever, so after one full loop
// every resize is a cache hit.
const defaultFrameCacheSize = 128

// frameCache is an LRU of resized animation frames, keyed by frame index
// and target size. Each animation session owns one; Clear releases it during
// session cleanup.
type frameCache struct {
	mu      sync.Mutex
	entries map[string]image.Image
	order   []string
	maxSize int
}

func newFrameCache() *frameCache {
	return &frameCache{
		entries: make(map[string]image.Image),
		maxSize: defaultFrameCacheSize,
	}
}

func frameKey(index, width, height int) string {
	return fmt.Sprintf("%d_%dx%d", index, width, height)
}

// resizeFrame returns the frame scaled to width x height, resizing at most
// once per key. Downscales of large frames use bilinear interpolation,
// everything else nearest-neighbor.
func (c *frameCache) resizeFrame(img image.Image, index, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	key := frameKey(index, width, height)
	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.touch(key)
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	interp := resize.NearestNeighbor
	if b.Dx()*b.Dy() > width*height*4 {
		interp = resize.Bilinear
	}
	resized := resize.Resize(uint(width), uint(height), img, interp)

	c.mu.Lock()
	c.set(key, resized)
	c.mu.Unlock()
	return resized
}

// touch moves key to the front of the access order. Callers hold mu.
func (c *frameCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append([]string{key}, c.order...)
}

// set inserts key, evicting the least recently used entries at capacity.
// Callers hold mu.
func (c *frameCache) set(key string, img image.Image) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = img
		c.touch(key)
		return
	}
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		lru := c.order[len(c.order)-1]
		c.order = c.order[:len(c.order)-1]
		delete(c.entries, lru)
	}
	c.entries[key] = img
	c.order = append([]string{key}, c.order...)
}

// Clear drops every cached frame.
func (c *frameCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]image.Image)
	c.order = nil
	c.mu.Unlock()
}
