package snapshot

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// cacheEntry wraps a cached value with its write time so readers can
// enforce their own max age.
type cacheEntry struct {
	TS    int64           `json:"ts"`
	Value json.RawMessage `json:"value"`
}

// FileCache is a TTL cache of API responses, one JSON file per key.
// Misses and IO errors are silent: callers fall back to a live fetch.
type FileCache struct {
	Dir string
}

func NewFileCache(dir string) *FileCache {
	os.MkdirAll(dir, 0o755)
	return &FileCache{Dir: dir}
}

func (c *FileCache) path(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:])+".json")
}

func (c *FileCache) Get(key string, maxAge time.Duration, out any) bool {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return false
	}
	if time.Since(time.Unix(entry.TS, 0)) > maxAge {
		return false
	}
	return json.Unmarshal(entry.Value, out) == nil
}

func (c *FileCache) Set(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	entry := cacheEntry{TS: time.Now().Unix(), Value: raw}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	tmp, err := os.CreateTemp(c.Dir, "cache-*.tmp")
	if err != nil {
		return
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return
	}
	if err := os.Rename(tmpPath, c.path(key)); err != nil {
		os.Remove(tmpPath)
	}
}
