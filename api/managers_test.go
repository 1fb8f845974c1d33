package api

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/store"
)

// fakeRegistry records registrations in memory.
type fakeRegistry struct {
	holds   []store.Hold
	deleted []string
}

func (f *fakeRegistry) RegisterHoldIfNotExists(group, name string) error {
	for _, h := range f.holds {
		if h.GroupName == group && h.HoldName == name {
			return nil
		}
	}
	f.holds = append(f.holds, store.Hold{HoldName: name, GroupName: group, Order: len(f.holds)})
	return nil
}

func (f *fakeRegistry) GetHolds(group string) ([]store.Hold, error) {
	return slices.Clone(f.holds), nil
}

func (f *fakeRegistry) DeleteHold(name, group string) error {
	f.holds = slices.DeleteFunc(f.holds, func(h store.Hold) bool {
		return h.GroupName == group && h.HoldName == name
	})
	f.deleted = append(f.deleted, holdKey(group, name))
	return nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalManager_ScanAndRegister(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Pinch", "Pinch 2.png"))
	touch(t, filepath.Join(root, "Pinch", "Pinch 1.png"))
	touch(t, filepath.Join(root, "Sloper B.jpg"))
	touch(t, filepath.Join(root, "notes.txt"))

	reg := &fakeRegistry{holds: []store.Hold{{HoldName: "Gone", GroupName: "Pinch"}}}
	groups := func() []string { return []string{"Sloper"} }

	l, err := NewLocalManager(catalog.ImageDir{Path: root}, groups, reg)
	if err != nil {
		t.Fatal(err)
	}
	l.scanAndRegister()

	var got []string
	for _, h := range reg.holds {
		got = append(got, holdKey(h.GroupName, h.HoldName))
	}
	want := []string{"Pinch/Pinch 1", "Pinch/Pinch 2", "Sloper/Sloper B"}
	if !slices.Equal(got, want) {
		t.Errorf("registered = %v, want %v", got, want)
	}
	if !slices.Equal(reg.deleted, []string{"Pinch/Gone"}) {
		t.Errorf("deleted = %v, want [Pinch/Gone]", reg.deleted)
	}

	if err := os.Remove(filepath.Join(root, "Pinch", "Pinch 1.png")); err != nil {
		t.Fatal(err)
	}
	l.scanAndRegister()
	if len(reg.holds) != 2 || !l.trackedHolds.Contains("Pinch/Pinch 2") || l.trackedHolds.Contains("Pinch/Pinch 1") {
		t.Errorf("after removal holds = %+v tracked = %v", reg.holds, l.trackedHolds)
	}
}

func TestNewLocalManager_MissingDir(t *testing.T) {
	dir := catalog.ImageDir{Path: filepath.Join(t.TempDir(), "missing")}
	if _, err := NewLocalManager(dir, func() []string { return nil }, &fakeRegistry{}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestObjectGroup(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"Jug/Jug 1.png", "Jug"},
		{"Jug 1.png", ""},
		{"brands/Teknik/Alto/Alto 3.jpg", "Alto"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := objectGroup(tt.key); got != tt.want {
				t.Errorf("objectGroup(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	r := &RemoteManager{outputPath: "/data/holds"}
	if got := r.localPath("brands/Teknik/Alto/Alto 3.jpg"); got != filepath.Join("/data/holds", "Alto", "Alto 3.jpg") {
		t.Errorf("localPath() = %q", got)
	}
}

// fakeObjects serves bucket contents from memory.
type fakeObjects struct {
	objects   map[string]string
	downloads []string
}

func (f *fakeObjects) ListKeys(ctx context.Context) ([]string, error) {
	keys := slices.Collect(maps.Keys(f.objects))
	slices.Sort(keys)
	return keys, nil
}

func (f *fakeObjects) Download(ctx context.Context, key string, w io.WriterAt) error {
	body, ok := f.objects[key]
	if !ok {
		return fmt.Errorf("no such key %s", key)
	}
	f.downloads = append(f.downloads, key)
	_, err := w.WriteAt([]byte(body), 0)
	return err
}

func signalled(r *RemoteManager) bool {
	select {
	case <-r.Updated:
		return true
	default:
		return false
	}
}

func TestRemoteManager_SyncFolder(t *testing.T) {
	out := t.TempDir()
	// a user file is never touched by the mirror
	touch(t, filepath.Join(out, "Jug", "mine.png"))
	outside := filepath.Join(filepath.Dir(out), "escaped.png")

	objects := &fakeObjects{objects: map[string]string{
		"Jug/Jug 1.png":     "jug",
		"Crimp/Crimp A.jpg": "crimp",
		"Sloper 1.png":      "loose",
		"notes.txt":         "skip",
		"../escaped.png":    "bad",
	}}
	reg := &fakeRegistry{}
	r := newRemoteManager(objects, out, reg)
	ctx := context.Background()

	if err := r.SyncFolder(ctx); err != nil {
		t.Fatalf("SyncFolder failed: %v", err)
	}
	for _, p := range []string{
		filepath.Join(out, "Jug", "Jug 1.png"),
		filepath.Join(out, "Crimp", "Crimp A.jpg"),
		filepath.Join(out, "Sloper 1.png"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to be downloaded: %v", p, err)
		}
	}
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Errorf("object outside the holds directory was written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "notes.txt")); !os.IsNotExist(err) {
		t.Error("unsupported object was downloaded")
	}

	var registered []string
	for _, h := range reg.holds {
		registered = append(registered, holdKey(h.GroupName, h.HoldName))
	}
	// loose images are left to the local scan
	if want := []string{"Crimp/Crimp A", "Jug/Jug 1"}; !slices.Equal(registered, want) {
		t.Errorf("registered = %v, want %v", registered, want)
	}
	if !signalled(r) {
		t.Error("expected an update signal after downloads")
	}

	// nothing changed: no downloads and no signal
	objects.downloads = nil
	if err := r.SyncFolder(ctx); err != nil {
		t.Fatal(err)
	}
	if len(objects.downloads) != 0 {
		t.Errorf("re-downloaded %v", objects.downloads)
	}
	if signalled(r) {
		t.Error("unexpected update signal without changes")
	}

	// a deleted local copy is fetched again
	if err := os.Remove(filepath.Join(out, "Sloper 1.png")); err != nil {
		t.Fatal(err)
	}
	if err := r.SyncFolder(ctx); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(objects.downloads, []string{"Sloper 1.png"}) {
		t.Errorf("downloads = %v, want [Sloper 1.png]", objects.downloads)
	}
	signalled(r)

	// an object removed from the bucket is removed locally
	delete(objects.objects, "Jug/Jug 1.png")
	if err := r.SyncFolder(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "Jug", "Jug 1.png")); !os.IsNotExist(err) {
		t.Errorf("vanished object still on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "Jug", "mine.png")); err != nil {
		t.Errorf("user file removed: %v", err)
	}
	if !signalled(r) {
		t.Error("expected an update signal after a deletion")
	}
}
