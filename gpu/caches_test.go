// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countedResource struct {
	released *int
}

func (r countedResource) release() { *r.released++ }

func TestResourceCacheFrame(t *testing.T) {
	var released int
	cache := newResourceCache[int]()
	cache.put(1, countedResource{&released})
	cache.put(2, countedResource{&released})
	cache.frame()
	assert.Equal(t, 0, released)
	assert.Equal(t, 2, cache.len())

	// Only 1 is used during the next frame.
	_, ok := cache.get(1)
	assert.True(t, ok)
	cache.frame()
	assert.Equal(t, 1, released)
	_, ok = cache.get(2)
	assert.False(t, ok)

	cache.release()
	assert.Equal(t, 2, released)
	assert.Equal(t, 0, cache.len())
}

func TestResourceCacheDuplicatePut(t *testing.T) {
	cache := newResourceCache[string]()
	cache.put("a", nullResource{})
	assert.Panics(t, func() { cache.put("a", nullResource{}) })
}

func BenchmarkResourceCache(b *testing.B) {
	offset := 0
	const N = 100

	cache := newResourceCache[int]()
	for i := 0; i < b.N; i++ {
		// half are the same and half updated
		for k := 0; k < N; k++ {
			if _, ok := cache.get(offset + k); !ok {
				cache.put(offset+k, nullResource{})
			}
		}
		cache.frame()
		offset += N / 2
	}
}

type nullResource struct{}

func (nullResource) release() {}
