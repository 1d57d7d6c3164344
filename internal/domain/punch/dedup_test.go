package punch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(0)

	assert.False(t, d.SeenOrMark("dev-1", "a"))
	assert.True(t, d.SeenOrMark("dev-1", "a"))
	assert.False(t, d.Seen("dev-2", "a"), "hashes are per device")

	d.Mark("dev-2", "a")
	assert.True(t, d.Seen("dev-2", "a"))
	assert.Equal(t, 1, d.Len("dev-1"))

	d.Forget("dev-1")
	assert.False(t, d.Seen("dev-1", "a"))
	assert.True(t, d.Seen("dev-2", "a"))
}

func TestDeduplicator_Capacity(t *testing.T) {
	d := NewDeduplicator(2)
	d.Mark("dev", "a")
	d.Mark("dev", "b")
	d.Mark("dev", "c")

	assert.Equal(t, 1, d.Len("dev"))
	assert.True(t, d.Seen("dev", "c"))
	assert.False(t, d.Seen("dev", "a"))
}

func TestDeduplicator_Concurrent(t *testing.T) {
	d := NewDeduplicator(0)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !d.SeenOrMark("dev", "same") {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
}
