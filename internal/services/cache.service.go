package services

import (
	"sync"
	"time"

	"fsgraph/internal/models"
)

type volumeCacheEntry struct {
	status    *models.VolumeStatus
	fetchedAt time.Time
}

// VolumeCache holds volume usage per path with a TTL
type VolumeCache struct {
	mu      sync.RWMutex
	entries map[string]volumeCacheEntry
	ttl     time.Duration
	fetch   func(string) (*models.VolumeStatus, error)
	now     func() time.Time
}

// NewVolumeCache creates a cache that keeps entries for ttl
func NewVolumeCache(ttl time.Duration) *VolumeCache {
	return &VolumeCache{
		entries: make(map[string]volumeCacheEntry),
		ttl:     ttl,
		fetch:   GetVolumeUsage,
		now:     time.Now,
	}
}

// isValid checks if an entry is still fresh
func (vc *VolumeCache) isValid(entry volumeCacheEntry) bool {
	return vc.now().Sub(entry.fetchedAt) < vc.ttl
}

// Get returns cached usage for path if valid, otherwise fetches fresh
func (vc *VolumeCache) Get(path string) (*models.VolumeStatus, error) {
	vc.mu.RLock()
	entry, ok := vc.entries[path]
	if ok && vc.isValid(entry) {
		defer vc.mu.RUnlock()
		return entry.status, nil
	}
	vc.mu.RUnlock()

	// Fetch fresh data
	status, err := vc.fetch(path)
	if err != nil {
		return nil, err
	}

	vc.mu.Lock()
	vc.entries[path] = volumeCacheEntry{status: status, fetchedAt: vc.now()}
	vc.pruneLocked()
	vc.mu.Unlock()

	return status, nil
}

// Clear drops all cached entries
func (vc *VolumeCache) Clear() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.entries = make(map[string]volumeCacheEntry)
}

// pruneLocked removes expired entries so the map cannot grow without bound
func (vc *VolumeCache) pruneLocked() {
	for path, entry := range vc.entries {
		if !vc.isValid(entry) {
			delete(vc.entries, path)
		}
	}
}
