package api

import (
	"encoding/json"
	"os"
	"path"
	"sync"

	"github.com/pkg/errors"

	"github.com/juruen/slideview/log"
)

const cacheVersion = 1

type cacheFile struct {
	CacheVersion int                          `json:"cache_version"`
	Records      map[string]map[string]string `json:"records"`
}

// RecordCache keeps fetched metadata records on disk between runs.
type RecordCache struct {
	mu      sync.Mutex
	path    string
	records map[string]map[string]string
}

// DefaultCachePath returns the cache file under the user cache dir, falling
// back to the home directory.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err == nil {
		folder := path.Join(dir, "slideview")
		if err = os.MkdirAll(folder, 0700); err == nil {
			return path.Join(folder, "metadata.cache"), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	folder := path.Join(home, ".slideview-cache")
	if err := os.MkdirAll(folder, 0700); err != nil {
		return "", err
	}
	return path.Join(folder, "metadata.cache"), nil
}

// LoadCache reads the cache at cachePath. A missing, corrupt or outdated
// file yields an empty cache.
func LoadCache(cachePath string) (*RecordCache, error) {
	c := &RecordCache{path: cachePath, records: make(map[string]map[string]string)}

	b, err := os.ReadFile(cachePath)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cache")
	}

	var f cacheFile
	if err := json.Unmarshal(b, &f); err != nil {
		log.Error.Println("cache corrupt, starting fresh")
		return c, nil
	}
	if f.CacheVersion != cacheVersion {
		log.Info.Println("wrong cache file version, starting fresh")
		return c, nil
	}
	if f.Records != nil {
		c.records = f.Records
	}
	log.Info.Println("cache loaded: ", cachePath)

	return c, nil
}

func (c *RecordCache) Get(slideID string) (map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.records[slideID]
	if !ok {
		return nil, false
	}
	return copyRecord(r), true
}

// Put stores record and writes the cache file.
func (c *RecordCache) Put(slideID string, record map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[slideID] = copyRecord(record)
	return c.save()
}

// Forget drops slideID from the cache.
func (c *RecordCache) Forget(slideID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, slideID)
	return c.save()
}

func (c *RecordCache) save() error {
	log.Trace.Println("Writing cache: ", c.path)
	b, err := json.MarshalIndent(cacheFile{CacheVersion: cacheVersion, Records: c.records}, "", "")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0644)
}
