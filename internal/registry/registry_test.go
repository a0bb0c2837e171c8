package registry_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/logger"
	"github.com/keshon/snapvcs/internal/registry"
)

func newMemRegistry(mfs *fs.MemoryFS) *registry.Registry {
	s := config.DefaultSettings()
	return registry.New("state/repositories.yaml", &registry.Options{
		FS:      mfs,
		Logger:  logger.Discard(),
		RootFor: s.RepoRootFor,
	})
}

func TestEmptyRegistry(t *testing.T) {
	r := newMemRegistry(fs.NewMemoryFS())
	if err := r.Load(); err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if len(r.List()) != 0 {
		t.Errorf("expected no entries")
	}
	if _, ok := r.SelectedRoot(); ok {
		t.Error("nothing should be selected")
	}
}

func TestAddSelectSaveLoad(t *testing.T) {
	mfs := fs.NewMemoryFS()
	r := newMemRegistry(mfs)

	e, err := r.Add("notes", "")
	if err != nil {
		t.Fatal(err)
	}
	if e.Root != filepath.Join("repos", "notes", "data") {
		t.Errorf("unexpected default root %q", e.Root)
	}
	if _, err := r.Add("work", "/srv/work"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Add("notes", ""); !errors.Is(err, registry.ErrRepoExists) {
		t.Errorf("expected ErrRepoExists, got %v", err)
	}
	if err := r.Select("work"); err != nil {
		t.Fatal(err)
	}
	if err := r.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, _ := mfs.ReadFile("state/repositories.yaml")
	if !strings.Contains(string(data), "selected: work") {
		t.Errorf("unexpected yaml:\n%s", data)
	}

	again := newMemRegistry(mfs)
	if err := again.Load(); err != nil {
		t.Fatal(err)
	}
	list := again.List()
	if len(list) != 2 || list[0].Name != "notes" || list[1].Name != "work" {
		t.Fatalf("unexpected list %+v", list)
	}
	if root, ok := again.SelectedRoot(); !ok || root != "/srv/work" {
		t.Errorf("unexpected selection %q %v", root, ok)
	}
}

func TestRemove(t *testing.T) {
	r := newMemRegistry(fs.NewMemoryFS())
	r.Add("a", "")
	r.Select("a")

	if err := r.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Selected(); ok {
		t.Error("removing the selected repository must clear the selection")
	}
	if err := r.Remove("a"); !errors.Is(err, registry.ErrRepoUnknown) {
		t.Errorf("expected ErrRepoUnknown, got %v", err)
	}
	if err := r.Select("ghost"); !errors.Is(err, registry.ErrRepoUnknown) {
		t.Errorf("expected ErrRepoUnknown, got %v", err)
	}
	if _, err := r.Get("ghost"); !errors.Is(err, registry.ErrRepoUnknown) {
		t.Errorf("expected ErrRepoUnknown, got %v", err)
	}
}

func TestBadNames(t *testing.T) {
	r := newMemRegistry(fs.NewMemoryFS())
	for _, name := range []string{"", "..", "a/b", "has space"} {
		if _, err := r.Add(name, ""); !errors.Is(err, registry.ErrBadName) {
			t.Errorf("Add(%q): expected ErrBadName, got %v", name, err)
		}
	}
}

func TestLoadDropsInvalidEntries(t *testing.T) {
	mfs := fs.NewMemoryFS()
	mfs.MkdirAll("state", 0o755)
	mfs.WriteFile("state/repositories.yaml", []byte(`selected: gone
repositories:
  - name: ok
    root: data/ok
  - name: "bad/name"
    root: x
  - name: noroot
`), 0o644)

	r := newMemRegistry(mfs)
	if err := r.Load(); err != nil {
		t.Fatal(err)
	}
	if list := r.List(); len(list) != 1 || list[0].Name != "ok" {
		t.Errorf("unexpected entries %+v", list)
	}
	if _, ok := r.Selected(); ok {
		t.Error("unknown selection must be dropped")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	mfs := fs.NewMemoryFS()
	mfs.WriteFile("reg.yaml", []byte("repositories: [unclosed"), 0o644)

	r := registry.New("reg.yaml", &registry.Options{FS: mfs, Logger: logger.Discard()})
	if err := r.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestImplementsSelector(t *testing.T) {
	var _ config.Selector = registry.New("x", nil)
}
