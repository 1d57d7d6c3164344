package punch

import "sync"

// DefaultDedupCapacity bounds the hashes remembered per device.
const DefaultDedupCapacity = 200000

// Deduplicator remembers record hashes already seen from each device during
// the life of the process. It only saves work on overlapping reads; the
// database is still checked before a punch is stored.
type Deduplicator struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]map[string]struct{}
}

func NewDeduplicator(capacity int) *Deduplicator {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &Deduplicator{
		capacity: capacity,
		seen:     make(map[string]map[string]struct{}),
	}
}

func (d *Deduplicator) Seen(deviceID, hash string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[deviceID][hash]
	return ok
}

func (d *Deduplicator) Mark(deviceID, hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.markLocked(deviceID, hash)
}

// SeenOrMark reports whether hash was already seen and marks it otherwise.
func (d *Deduplicator) SeenOrMark(deviceID, hash string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[deviceID][hash]; ok {
		return true
	}
	d.markLocked(deviceID, hash)
	return false
}

func (d *Deduplicator) markLocked(deviceID, hash string) {
	set, ok := d.seen[deviceID]
	if !ok || len(set) >= d.capacity {
		// Starting over only costs a database lookup per record.
		set = make(map[string]struct{})
		d.seen[deviceID] = set
	}
	set[hash] = struct{}{}
}

// Forget drops a device's hashes, e.g. after a failed batch was rolled back.
func (d *Deduplicator) Forget(deviceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, deviceID)
}

func (d *Deduplicator) Len(deviceID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen[deviceID])
}
