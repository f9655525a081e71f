package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/zodgen"
)

// CacheFilename is the default name of the cache file in the output
// directory.
const CacheFilename = ".zodgen-cache"

// cacheVersion is bumped when the cache format changes. A mismatch empties
// the cache.
const cacheVersion = 1

// FileCache is a zodgen.Cache persisted as a msgpack file. Every mutation
// is written through.
type FileCache struct {
	path string

	mu      sync.Mutex
	entries map[string][]byte
}

var _ zodgen.Cache = (*FileCache)(nil)

type cacheFile struct {
	Version int               `msgpack:"v"`
	Entries map[string][]byte `msgpack:"entries"`
}

// OpenFileCache loads the cache at path. A missing file, or one written by
// another format version, yields an empty cache.
func OpenFileCache(path string) (*FileCache, error) {
	c := &FileCache{path: path, entries: make(map[string][]byte)}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	var f cacheFile
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	if f.Version == cacheVersion && f.Entries != nil {
		c.entries = f.Entries
	}
	return c, nil
}

// Path returns the file backing the cache.
func (c *FileCache) Path() string { return c.path }

// Get implements zodgen.Cache.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set implements zodgen.Cache.
func (c *FileCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return c.save()
}

// Delete implements zodgen.Cache.
func (c *FileCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return nil
	}
	delete(c.entries, key)
	return c.save()
}

// Clear implements zodgen.Cache.
func (c *FileCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return c.save()
}

// save must be called with c.mu held.
func (c *FileCache) save() error {
	data, err := msgpack.Marshal(&cacheFile{Version: cacheVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	return writeFileAtomic(c.path, data)
}
