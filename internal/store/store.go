package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/folio/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketImages = []byte("images")
	bucketMeta   = []byte("meta")
)

// imageMeta is stored alongside each image for stats and debugging
type imageMeta struct {
	Ref     string    `json:"ref"`
	Size    int64     `json:"size"`
	SavedAt time.Time `json:"saved_at"`
}

// ImageStore implements domain.ImageStore using BoltDB.
type ImageStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewMemoryImageStore creates a store without persistence
func NewMemoryImageStore() *ImageStore {
	return &ImageStore{cache: make(map[string][]byte)}
}

// NewImageStore opens the image cache in cacheDir. An empty cacheDir gives a
// memory-only store.
func NewImageStore(cacheDir string) (*ImageStore, error) {
	if cacheDir == "" {
		return NewMemoryImageStore(), nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "images.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketImages, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ImageStore{db: db, cache: make(map[string][]byte)}, nil
}

// refKey keeps bolt keys short and uniform regardless of ref length
func refKey(ref string) string {
	hash := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(hash[:12])
}

func (s *ImageStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persistent reports whether the store is backed by a file.
func (s *ImageStore) Persistent() bool {
	return s.db != nil
}

func (s *ImageStore) GetImage(ref string) ([]byte, bool) {
	key := refKey(ref)

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketImages).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, true
}

func (s *ImageStore) SaveImage(ref string, data []byte) error {
	key := refKey(ref)

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	meta, err := json.Marshal(imageMeta{Ref: ref, Size: int64(len(data)), SavedAt: time.Now()})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketImages).Put([]byte(key), data); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put([]byte(key), meta)
	})
}

func (s *ImageStore) InvalidateImage(ref string) {
	key := refKey(ref)

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		tx.Bucket(bucketImages).Delete([]byte(key))
		tx.Bucket(bucketMeta).Delete([]byte(key))
		return nil
	})
}

func (s *ImageStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Recreate buckets rather than deleting key by key
	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketImages, bucketMeta} {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ImageStore) Stats() (count int, size int64) {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, data := range s.cache {
			count++
			size += int64(len(data))
		}
		return count, size
	}

	s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).ForEach(func(_, v []byte) error {
			count++
			size += int64(len(v))
			return nil
		})
	})
	return count, size
}

// Refs returns the refs recorded in the cache, in key order.
func (s *ImageStore) Refs() []string {
	if s.db == nil {
		return nil
	}
	var refs []string
	s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).ForEach(func(_, v []byte) error {
			var m imageMeta
			if json.Unmarshal(v, &m) == nil {
				refs = append(refs, m.Ref)
			}
			return nil
		})
	})
	return refs
}

var _ domain.ImageStore = (*ImageStore)(nil)
