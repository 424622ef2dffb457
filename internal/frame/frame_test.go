package frame

import (
	"errors"
	"fmt"
	"testing"

	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
	"github.com/NASA-AMMOS/Landform-sub006/internal/store"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache()
	f := Frame{ID: "root", ParentID: "", Local: Identity}
	c.Put(f)

	got, ok := c.Get("root")
	if !ok {
		t.Fatalf("Get(%q) ok = false, want true", f.ID)
	}
	if got.ID != f.ID {
		t.Fatalf("Get(%q).ID = %q, want %q", f.ID, got.ID, f.ID)
	}
}

func TestCacheGetMissing(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("nope"); ok {
		t.Fatalf("Get of unknown id ok = true, want false")
	}
}

func TestCacheResolveRootIsIdentity(t *testing.T) {
	c := NewCache()
	c.Put(Frame{ID: "root", ParentID: "", Local: Identity})

	got, ok := c.Resolve("root")
	if !ok {
		t.Fatalf("Resolve(root) ok = false, want true")
	}
	if got.Translation != (Vec3{0, 0, 0}) {
		t.Fatalf("Resolve(root).Translation = %+v, want zero", got.Translation)
	}
}

// TestCacheResolveMultiLevelChain builds observation -> site-drive -> site
// -> root, each offset by (1,0,0) in its parent's frame (three hops of
// (1,0,0) each), and checks the composed observation-to-world translation
// lands at (3,0,0).
func TestCacheResolveMultiLevelChain(t *testing.T) {
	c := NewCache()
	step := Transform{Translation: Vec3{1, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}

	c.Put(Frame{ID: "root", ParentID: "", Local: Identity})
	c.Put(Frame{ID: "site", ParentID: "root", Local: step})
	c.Put(Frame{ID: "site-drive", ParentID: "site", Local: step})
	c.Put(Frame{ID: "observation", ParentID: "site-drive", Local: step})

	got, ok := c.Resolve("observation")
	if !ok {
		t.Fatalf("Resolve(observation) ok = false, want true")
	}
	want := Vec3{3, 0, 0}
	if !vecAlmostEqual(got.Translation, want, 1e-9) {
		t.Fatalf("Resolve(observation).Translation = %+v, want %+v", got.Translation, want)
	}
}

func TestCacheResolveMissingLinkFails(t *testing.T) {
	c := NewCache()
	c.Put(Frame{ID: "observation", ParentID: "site-drive", Local: Identity})
	// "site-drive" is never Put.

	if _, ok := c.Resolve("observation"); ok {
		t.Fatalf("Resolve with a missing parent link ok = true, want false")
	}
}

func TestCacheResolveUnknownObservationFails(t *testing.T) {
	c := NewCache()
	if _, ok := c.Resolve("ghost"); ok {
		t.Fatalf("Resolve of unknown observation ok = true, want false")
	}
}

// TestCacheResolveCycleGuard wires a loop (a -> b -> a) that never reaches a
// root frame, and checks Resolve gives up instead of spinning forever.
func TestCacheResolveCycleGuard(t *testing.T) {
	c := NewCache()
	c.Put(Frame{ID: "a", ParentID: "b", Local: Identity})
	c.Put(Frame{ID: "b", ParentID: "a", Local: Identity})

	if _, ok := c.Resolve("a"); ok {
		t.Fatalf("Resolve of a cyclic chain ok = true, want false")
	}
}

func TestCacheResolveErrWrapsSentinel(t *testing.T) {
	c := NewCache()
	_, err := c.ResolveErr("ghost")
	if err == nil {
		t.Fatalf("ResolveErr of unknown observation returned nil error")
	}
	if !errors.Is(err, geoerror.ErrTransformUnresolved) {
		t.Fatalf("ResolveErr error = %v, want it to wrap ErrTransformUnresolved", err)
	}
}

func TestCacheResolveErrSucceeds(t *testing.T) {
	c := NewCache()
	c.Put(Frame{ID: "root", ParentID: "", Local: Identity})

	if _, err := c.ResolveErr("root"); err != nil {
		t.Fatalf("ResolveErr(root) error = %v, want nil", err)
	}
}

func TestCacheLoadFromStore(t *testing.T) {
	s := store.NewMemoryItemStore()
	frames := []Frame{
		{ID: "root", ParentID: "", Local: Identity},
		{ID: "site", ParentID: "root", Local: Transform{Translation: Vec3{2, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}},
	}
	for _, f := range frames {
		if err := s.Save(ItemKind, f.ID, f); err != nil {
			t.Fatalf("Save(%q): %v", f.ID, err)
		}
	}

	c := NewCache()
	if err := c.LoadFromStore(s); err != nil {
		t.Fatalf("LoadFromStore: %v", err)
	}

	got, ok := c.Resolve("site")
	if !ok {
		t.Fatalf("Resolve(site) ok = false, want true")
	}
	want := Vec3{2, 0, 0}
	if !vecAlmostEqual(got.Translation, want, 1e-9) {
		t.Fatalf("Resolve(site).Translation = %+v, want %+v", got.Translation, want)
	}
}

func TestCacheLoadFromStoreEmptyScanYieldsEmptyCache(t *testing.T) {
	s := store.NewMemoryItemStore()
	c := NewCache()
	c.Put(Frame{ID: "stale", ParentID: "", Local: Identity})

	if err := c.LoadFromStore(s); err != nil {
		t.Fatalf("LoadFromStore: %v", err)
	}
	if _, ok := c.Get("stale"); ok {
		t.Fatalf("Get(stale) ok = true after LoadFromStore replaced the map, want false")
	}
}

func TestCachePutIsCopyOnWrite(t *testing.T) {
	c := NewCache()
	c.Put(Frame{ID: "a", ParentID: "", Local: Identity})
	snapshot := *c.frames.Load()

	c.Put(Frame{ID: "b", ParentID: "", Local: Identity})

	if _, ok := snapshot["b"]; ok {
		t.Fatalf("earlier snapshot observed a later Put; map was mutated in place instead of swapped")
	}
	if len(snapshot) != 1 {
		t.Fatalf("snapshot len = %d, want 1", len(snapshot))
	}
}

func ExampleCache_ResolveErr() {
	c := NewCache()
	_, err := c.ResolveErr("missing")
	fmt.Println(errors.Is(err, geoerror.ErrTransformUnresolved))
	// Output: true
}
