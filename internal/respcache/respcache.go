// Package respcache stores HTTP response bodies on disk with a TTL, so
// repeated catalog fetches inside the TTL window can be served locally and
// expired entries can still seed conditional refetches.
package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one cached response.
type Entry struct {
	Body       []byte    `json:"body"`
	ETag       string    `json:"etag,omitempty"`
	LastMod    string    `json:"last_modified,omitempty"`
	StatusCode int       `json:"status_code"`
	StoredAt   time.Time `json:"stored_at"`
}

// Store is a TTL-based file cache keyed by URL.
type Store struct {
	dir string
	ttl time.Duration
}

// New creates the cache directory if needed.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

// Get returns the entry for key and whether it is still fresh. An expired
// entry is returned with fresh=false so its validators (ETag,
// Last-Modified) can drive a conditional refetch.
func (s *Store) Get(key string) (*Entry, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(s.path(key))
		return nil, false
	}

	if time.Since(entry.StoredAt) > s.ttl {
		return &entry, false
	}
	return &entry, true
}

// Set stores an entry under key, stamping it with the current time.
func (s *Store) Set(key string, entry *Entry) error {
	entry.StoredAt = time.Now()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

// Remove drops the entry for key, if any.
func (s *Store) Remove(key string) {
	os.Remove(s.path(key))
}

func (s *Store) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(h[:]))
}
