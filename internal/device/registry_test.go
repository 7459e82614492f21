package device

import (
	"errors"
	"sync"
	"testing"
)

// testEntry is a minimal Entry implementation.
type testEntry struct {
	id string
	r  *Range
}

func (e *testEntry) ID() string { return e.id }

func (e *testEntry) Range() (Range, bool) {
	if e.r == nil {
		return Range{}, false
	}
	return *e.r, true
}

func TestRegistry_PutAndGet(t *testing.T) {
	r := NewRegistry()

	if r.Exists("dev-1") {
		t.Fatal("Exists() = true on empty registry")
	}

	if err := r.Put(New("dev-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if !r.Exists("dev-1") {
		t.Error("Exists() = false after Put")
	}

	got, err := r.Get("dev-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "dev-1" {
		t.Errorf("Get().ID = %q, want %q", got.ID, "dev-1")
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestRegistry_PutDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Put(New("dev-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	err := r.Put(New("dev-1"))
	if !errors.Is(err, ErrDeviceExists) {
		t.Errorf("Put() duplicate error = %v, want ErrDeviceExists", err)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestRegistry_PutInvalid(t *testing.T) {
	r := NewRegistry()

	if err := r.Put(nil); !errors.Is(err, ErrInvalidDevice) {
		t.Errorf("Put(nil) error = %v, want ErrInvalidDevice", err)
	}
	if err := r.Put(New("")); !errors.Is(err, ErrInvalidDevice) {
		t.Errorf("Put(empty id) error = %v, want ErrInvalidDevice", err)
	}
}

func TestRegistry_GetReturnsStoredDevice(t *testing.T) {
	r := NewRegistry()
	if err := r.Put(New("dev-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	d, _ := r.Get("dev-1")
	d.Name = "Kitchen"

	again, _ := r.Get("dev-1")
	if again.Name != "Kitchen" {
		t.Errorf("in-place mutation lost: Name = %q", again.Name)
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry()

	d1, created, err := r.GetOrCreate("dev-1")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !created {
		t.Error("GetOrCreate() created = false for new id")
	}

	d2, created, err := r.GetOrCreate("dev-1")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if created {
		t.Error("GetOrCreate() created = true for existing id")
	}
	if d1 != d2 {
		t.Error("GetOrCreate() returned a different device for the same id")
	}
}

func TestRegistry_AllInsertionOrder(t *testing.T) {
	r := NewRegistry()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if err := r.Put(New(id)); err != nil {
			t.Fatalf("Put(%q) error = %v", id, err)
		}
	}

	all := r.All()
	if len(all) != len(ids) {
		t.Fatalf("All() len = %d, want %d", len(all), len(ids))
	}
	for i, d := range all {
		if d.ID != ids[i] {
			t.Errorf("All()[%d].ID = %q, want %q", i, d.ID, ids[i])
		}
	}
}

func TestRegistry_AllIsSnapshot(t *testing.T) {
	r := NewRegistry()
	_ = r.Put(New("a"))

	snap := r.All()
	_ = r.Put(New("b"))

	if len(snap) != 1 {
		t.Errorf("snapshot changed after Put: len = %d, want 1", len(snap))
	}
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	_ = r.Put(New("a"))
	r.Freeze()

	if !r.Frozen() {
		t.Error("Frozen() = false after Freeze")
	}
	if err := r.Put(New("b")); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("Put() after Freeze error = %v, want ErrRegistryFrozen", err)
	}
	if _, _, err := r.GetOrCreate("c"); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("GetOrCreate() after Freeze error = %v, want ErrRegistryFrozen", err)
	}
	if _, err := r.Get("a"); err != nil {
		t.Errorf("Get() after Freeze error = %v", err)
	}
}

func TestRegistry_ConcurrentReadsAfterFreeze(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		d := New(id)
		d.Register("turnOn", &testEntry{id: "item." + id})
		_ = r.Put(d)
	}
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, d := range r.All() {
				if _, err := r.Get(d.ID); err != nil {
					t.Errorf("Get(%q) error = %v", d.ID, err)
				}
				_ = d.SupportedActions()
			}
			_ = r.GetStats()
		}()
	}
	wg.Wait()
}

func TestRegistry_GetStats(t *testing.T) {
	r := NewRegistry()

	lamp := New("lamp")
	lamp.Types = []string{"LIGHT"}
	lamp.Register("turnOn", &testEntry{id: "item.lamp"})
	_ = r.Put(lamp)

	cam := New("cam")
	cam.Types = []string{"CAMERA"}
	cam.SetCameraStream(1, CameraStream{Protocols: []string{"RTSP"}})
	_ = r.Put(cam)

	alias := lamp.DeepCopy()
	alias.ID = "lamp-alias"
	alias.AliasOf = "lamp"
	_ = r.Put(alias)

	stats := r.GetStats()
	if stats.TotalDevices != 3 {
		t.Errorf("TotalDevices = %d, want 3", stats.TotalDevices)
	}
	if stats.PrimaryDevices != 2 || stats.AliasDevices != 1 {
		t.Errorf("Primary/Alias = %d/%d, want 2/1", stats.PrimaryDevices, stats.AliasDevices)
	}
	if stats.CameraDevices != 1 {
		t.Errorf("CameraDevices = %d, want 1", stats.CameraDevices)
	}
	if stats.ByType["LIGHT"] != 2 {
		t.Errorf("ByType[LIGHT] = %d, want 2", stats.ByType["LIGHT"])
	}
	if stats.ByAction["turnOn"] != 2 {
		t.Errorf("ByAction[turnOn] = %d, want 2", stats.ByAction["turnOn"])
	}
}
