package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
)

// keyToPath maps a blob key to a path under root. Keys are URL-shaped
// ("tiles/042/mesh.bin"); '/' separators become nested directories so a
// project's blobs land in a browsable tree on disk.
func keyToPath(root, key string) string {
	return filepath.Join(root, filepath.FromSlash(key))
}

// cacheEntry is one GetCached LRU slot.
type cacheEntry struct {
	key  string
	data []byte
}

// FileBlobStore is the file://-backed reference BlobStore implementation.
// Put writes through os.CreateTemp + Write + atomic rename so a crash
// mid-write never leaves a half-written blob visible under its real name.
type FileBlobStore struct {
	root string

	mu        sync.Mutex
	cache     map[string]*cacheEntry
	cacheOrd  []string
	cacheSize int
}

// NewFileBlobStore returns a FileBlobStore rooted at dir, creating it if
// necessary. cacheCapacity bounds the GetCached LRU (0 disables caching).
func NewFileBlobStore(dir string, cacheCapacity int) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store.NewFileBlobStore: %w", err)
	}
	return &FileBlobStore{
		root:      dir,
		cache:     make(map[string]*cacheEntry, cacheCapacity),
		cacheSize: cacheCapacity,
	}, nil
}

// Get reads key, retrying transient OS errors (e.g. a momentary EMFILE
// under high worker-pool fan-out) with withBackoff. A missing key is not
// transient and fails fast.
func (s *FileBlobStore) Get(key string) ([]byte, error) {
	path := keyToPath(s.root, key)
	var data []byte
	err := withBackoff(func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		if os.IsNotExist(readErr) {
			return nil // not transient, don't retry; handled below
		}
		return readErr
	})
	if data == nil && err == nil {
		err = os.ErrNotExist
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: key %q: %w", key, ErrNotExist)
		}
		return nil, fmt.Errorf("store.Get %q: %w: %v", key, geoerror.ErrBlobIO, err)
	}
	return data, nil
}

func (s *FileBlobStore) Put(key string, data []byte) error {
	path := keyToPath(s.root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store.Put %q: %w", key, err)
	}

	err := withBackoff(func() error {
		tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*.tmp")
		if err != nil {
			return err
		}
		tmpPath := tmp.Name()

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpPath)
			return err
		}
		if err := os.Rename(tmpPath, path); err != nil {
			os.Remove(tmpPath)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store.Put %q: %w: %v", key, geoerror.ErrBlobIO, err)
	}

	s.invalidate(key)
	return nil
}

func (s *FileBlobStore) Exists(key string) bool {
	_, err := os.Stat(keyToPath(s.root, key))
	return err == nil
}

func (s *FileBlobStore) List(prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store.List %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileBlobStore) Delete(key string) error {
	path := keyToPath(s.root, key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store.Delete %q: %w", key, err)
	}
	s.invalidate(key)
	return nil
}

func (s *FileBlobStore) GetCached(key string) ([]byte, error) {
	if s.cacheSize <= 0 {
		return s.Get(key)
	}

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok {
		// Move the hit to the most-recently-used end of the eviction order.
		for i, k := range s.cacheOrd {
			if k == key {
				s.cacheOrd = append(s.cacheOrd[:i], s.cacheOrd[i+1:]...)
				break
			}
		}
		s.cacheOrd = append(s.cacheOrd, key)
		s.mu.Unlock()
		return entry.data, nil
	}
	s.mu.Unlock()

	data, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.cache) >= s.cacheSize && len(s.cacheOrd) > 0 {
		oldest := s.cacheOrd[0]
		s.cacheOrd = s.cacheOrd[1:]
		delete(s.cache, oldest)
	}
	s.cache[key] = &cacheEntry{key: key, data: data}
	s.cacheOrd = append(s.cacheOrd, key)
	return data, nil
}

func (s *FileBlobStore) invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[key]; !ok {
		return
	}
	delete(s.cache, key)
	for i, k := range s.cacheOrd {
		if k == key {
			s.cacheOrd = append(s.cacheOrd[:i], s.cacheOrd[i+1:]...)
			break
		}
	}
}
