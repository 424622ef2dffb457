package frame

import (
	"fmt"
	"sync/atomic"

	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
	"github.com/NASA-AMMOS/Landform-sub006/internal/store"
)

// ItemKind is the store.ItemStore kind under which Frame records are
// saved.
const ItemKind = "frame"

// maxChainDepth bounds the observation→root walk against a cyclic
// ParentID mistake (site-drive pointing back to an observation, etc.)
// turning into an infinite loop.
const maxChainDepth = 64

// Frame is one node of the frame graph: a local TRS transform relative to
// ParentID. This is the same record a scene manifest serializes as a
// tileset.FrameGraphEdge; this package is where those chains are composed,
// not just recorded. ParentID == "" marks the root frame.
type Frame struct {
	ID       string
	ParentID string
	Local    Transform
}

// Cache holds every known Frame in a copy-on-write map: dictionaries are
// copy-on-write in the hot read path, and mutation is confined to a single
// thread during ingestion. Resolve reads the current map via one atomic
// load, so concurrent readers never observe a partially-built map even
// while ingestion is still replacing it.
type Cache struct {
	frames atomic.Pointer[map[string]Frame]
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	c := &Cache{}
	empty := make(map[string]Frame)
	c.frames.Store(&empty)
	return c
}

// Put adds or replaces a frame. Mutation is confined to a single ingestion
// thread — Put builds a new map (copying the current one plus the change)
// and atomically swaps the pointer, so it never races with a concurrent
// Resolve even if called from a different thread than the one that
// constructed the Cache.
func (c *Cache) Put(f Frame) {
	old := *c.frames.Load()
	next := make(map[string]Frame, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[f.ID] = f
	c.frames.Store(&next)
}

// Get returns the frame for id, if known.
func (c *Cache) Get(id string) (Frame, bool) {
	f, ok := (*c.frames.Load())[id]
	return f, ok
}

// LoadFromStore ingests every Frame record under ItemKind in s, replacing
// the cache's contents in one swap. Intended for single-threaded startup
// ingestion, not concurrent use alongside Resolve from other goroutines
// calling Put.
func (c *Cache) LoadFromStore(s store.ItemStore) error {
	ids, err := s.Scan(ItemKind)
	if err != nil {
		return fmt.Errorf("frame.Cache.LoadFromStore: %w", err)
	}
	next := make(map[string]Frame, len(ids))
	for _, id := range ids {
		var f Frame
		ok, err := s.Load(ItemKind, id, &f)
		if err != nil {
			return fmt.Errorf("frame.Cache.LoadFromStore: loading %q: %w", id, err)
		}
		if !ok {
			continue
		}
		next[id] = f
	}
	c.frames.Store(&next)
	return nil
}

// Resolve composes the full chain of transforms from observationID up to
// the root frame (the frame whose ParentID is ""), returning false if any
// link in the chain is missing from the cache. This surfaces as a boolean
// rather than a Go error since the caller decides whether an unresolved
// chain is fatal. geoerror.ErrTransformUnresolved exists for callers that do want to wrap
// this outcome as an error.
func (c *Cache) Resolve(observationID string) (Transform, bool) {
	frames := *c.frames.Load()

	chain := make([]Transform, 0, 8)
	id := observationID
	for depth := 0; depth < maxChainDepth; depth++ {
		f, ok := frames[id]
		if !ok {
			return Transform{}, false
		}
		chain = append(chain, f.Local)
		if f.ParentID == "" {
			return composeChain(chain), true
		}
		id = f.ParentID
	}
	return Transform{}, false
}

// composeChain folds observation-to-root local transforms (chain[0] is
// the observation's own local transform, chain[len-1] is the root's) into
// one observation-to-world transform. Composition proceeds from the root
// down, since Compose(parent, child) expects the parent's transform first.
func composeChain(chain []Transform) Transform {
	result := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		result = Compose(result, chain[i])
	}
	return result
}

// ResolveErr is a convenience wrapper returning geoerror.ErrTransformUnresolved
// as a Go error for callers that prefer the error-returning idiom over the
// boolean one (e.g. to fold into an errgroup or a function already
// returning error).
func (c *Cache) ResolveErr(observationID string) (Transform, error) {
	t, ok := c.Resolve(observationID)
	if !ok {
		return Transform{}, fmt.Errorf("frame %q: %w", observationID, geoerror.ErrTransformUnresolved)
	}
	return t, nil
}
