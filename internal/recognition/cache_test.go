package recognition

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

func TestReferenceCache_GetPut(t *testing.T) {
	cache := NewReferenceCache()

	_, ok := cache.Get("十", 32)
	assert.False(t, ok)

	img := imaging.NewInkImage(32)
	cache.Put("十", 32, img)

	got, ok := cache.Get("十", 32)
	require.True(t, ok)
	assert.Same(t, img, got)

	_, ok = cache.Get("十", 64)
	assert.False(t, ok, "size is part of the key")
	assert.Equal(t, 1, cache.Len())
}

func TestReferenceCache_EvictAndClear(t *testing.T) {
	cache := NewReferenceCache()
	cache.Put("十", 32, imaging.NewInkImage(32))
	cache.Put("一", 32, imaging.NewInkImage(32))
	cache.Put("一", 64, imaging.NewInkImage(64))
	require.Equal(t, 3, cache.Len())

	cache.Evict("一", 32)
	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("一", 32)
	assert.False(t, ok)
	_, ok = cache.Get("一", 64)
	assert.True(t, ok)

	// Evicting a missing key is a no-op.
	cache.Evict("山", 32)
	assert.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestReferenceCache_GetOrCreate(t *testing.T) {
	cache := NewReferenceCache()
	calls := 0
	create := func() (*imaging.InkImage, error) {
		calls++
		return imaging.NewInkImage(8), nil
	}

	first, err := cache.GetOrCreate("十", 8, create)
	require.NoError(t, err)
	second, err := cache.GetOrCreate("十", 8, create)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestReferenceCache_GetOrCreateErrorNotCached(t *testing.T) {
	cache := NewReferenceCache()
	boom := errors.New("boom")

	_, err := cache.GetOrCreate("十", 8, func() (*imaging.InkImage, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())
}

func TestReferenceCache_Concurrent(t *testing.T) {
	cache := NewReferenceCache()
	chars := []string{"一", "二", "三", "十"}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := chars[i%len(chars)]
			img, err := cache.GetOrCreate(c, 16, func() (*imaging.InkImage, error) {
				return imaging.NewInkImage(16), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 16, img.Size)
			if i%8 == 0 {
				cache.Evict(c, 16)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), len(chars))
}
