package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPositions = []byte("positions")

// PositionStore implements domain.PositionStore using BoltDB. Positions are
// stored one row per video under the key "video_position_{videoID}" with a
// string-encoded float value, matching the wire format the web prototype used
// for origin-scoped storage.
type PositionStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]float64
}

// NewPositionStore opens (or creates) the position database in dir. An empty
// dir yields a memory-only store with no persistence, which tests and
// incognito-style launches use.
func NewPositionStore(dir string) (*PositionStore, error) {
	if dir == "" {
		return &PositionStore{cache: make(map[string]float64)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "positions.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open position db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPositions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PositionStore{db: db, cache: make(map[string]float64)}, nil
}

// Close closes the underlying database.
func (s *PositionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func positionKey(videoID string) string {
	return "video_position_" + videoID
}

// Position returns the last saved position for a video, or false if none
// was ever recorded.
func (s *PositionStore) Position(videoID string) (float64, bool) {
	key := positionKey(videoID)

	// Check memory cache first
	s.mu.RLock()
	if seconds, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return seconds, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return 0, false
	}

	var raw []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPositions)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})

	if raw == nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || seconds < 0 {
		// Corrupt row: treat as never-watched rather than failing launch
		return 0, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = seconds
	s.mu.Unlock()

	return seconds, true
}

// SavePosition records the position for a video, overwriting any previous value.
func (s *PositionStore) SavePosition(videoID string, seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	key := positionKey(videoID)

	// Update memory cache
	s.mu.Lock()
	s.cache[key] = seconds
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	value := strconv.FormatFloat(seconds, 'f', 3, 64)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPositions)
		return b.Put([]byte(key), []byte(value))
	})
}

// Delete removes the saved position for a video.
func (s *PositionStore) Delete(videoID string) {
	key := positionKey(videoID)

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPositions)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}
