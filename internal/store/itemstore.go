package store

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// ItemStore is a small typed record store for tile-tree and frame-graph
// metadata. Records are grouped into kinds (e.g. "tile", "frame",
// "site_drive") and identified within a kind by id.
//
// Compare-and-set is not required: duplicate create races resolve "last
// write wins", and FindOrCreate is the explicit helper that re-queries
// after a create races with another writer.
type ItemStore interface {
	// Save writes item under (kind, id), creating or overwriting it.
	Save(kind, id string, item any) error

	// Load reads the item at (kind, id) into dst (a pointer), returning
	// ok=false if no such record exists.
	Load(kind, id string, dst any) (ok bool, err error)

	// Scan returns every id currently stored under kind.
	Scan(kind string) ([]string, error)

	// Delete removes (kind, id). Deleting a missing record is not an error.
	Delete(kind, id string) error

	// FindOrCreate loads (kind, id); if absent, it calls create to produce
	// a new item, saves it, and re-loads — so a losing racer on Save still
	// observes the winner's value rather than its own.
	FindOrCreate(kind, id string, create func() (any, error)) (any, error)

	// NewID synthesizes a fresh id for kind (e.g. a new Frame or
	// Observation record not keyed by any natural name).
	NewID(kind string) string
}

// MemoryItemStore is the in-memory reference ItemStore implementation: a
// map[string]map[string]any protected by one sync.RWMutex, giving
// "last write wins" + find-or-create semantics without needing a database.
// google/uuid synthesizes ids for records with no natural key (frame and
// observation records).
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]map[string]any
}

// NewMemoryItemStore returns an empty MemoryItemStore.
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[string]map[string]any)}
}

func (s *MemoryItemStore) Save(kind, id string, item any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.items[kind]
	if !ok {
		bucket = make(map[string]any)
		s.items[kind] = bucket
	}
	bucket[id] = item
	return nil
}

func (s *MemoryItemStore) Load(kind, id string, dst any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.items[kind]
	if !ok {
		return false, nil
	}
	item, ok := bucket[id]
	if !ok {
		return false, nil
	}
	if err := assign(dst, item); err != nil {
		return false, fmt.Errorf("store.Load %s/%s: %w", kind, id, err)
	}
	return true, nil
}

func (s *MemoryItemStore) Scan(kind string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.items[kind]
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryItemStore) Delete(kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bucket, ok := s.items[kind]; ok {
		delete(bucket, id)
	}
	return nil
}

// FindOrCreate resolves a losing create (another writer already saved id
// first) by re-querying rather than overwriting, so the store ends up with
// whichever write landed first.
func (s *MemoryItemStore) FindOrCreate(kind, id string, create func() (any, error)) (any, error) {
	s.mu.RLock()
	if bucket, ok := s.items[kind]; ok {
		if item, ok := bucket[id]; ok {
			s.mu.RUnlock()
			return item, nil
		}
	}
	s.mu.RUnlock()

	item, err := create()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	bucket, ok := s.items[kind]
	if !ok {
		bucket = make(map[string]any)
		s.items[kind] = bucket
	}
	if existing, ok := bucket[id]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	bucket[id] = item
	s.mu.Unlock()
	return item, nil
}

func (s *MemoryItemStore) NewID(kind string) string {
	return kind + "-" + uuid.NewString()
}

// assign copies src into the value dst points to. dst must be a pointer to
// the same concrete type item was Saved as — the same contract
// json.Unmarshal(data, dst) places on its caller, just reflective instead
// of serialized, since this store keeps items as live Go values.
func assign(dst any, src any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("dst must be a non-nil pointer, got %T", dst)
	}
	sv := reflect.ValueOf(src)
	if !sv.Type().AssignableTo(dv.Elem().Type()) {
		return fmt.Errorf("cannot assign %T into %T", src, dst)
	}
	dv.Elem().Set(sv)
	return nil
}
