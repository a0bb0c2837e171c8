package workset_test

import (
	"errors"
	"testing"

	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/repo/workset"
)

func TestStageRequiresOpen(t *testing.T) {
	w := workset.New()
	if err := w.Stage("a.txt", "x"); !errors.Is(err, errs.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if w.Len() != 0 {
		t.Fatal("closed working set must stay empty")
	}
}

func TestStageInsertAndOverwrite(t *testing.T) {
	w := workset.New()
	w.Open()

	if err := w.Stage("a.txt", "one"); err != nil {
		t.Fatal(err)
	}
	if err := w.Stage("a.txt", "two"); err != nil {
		t.Fatal(err)
	}

	got, ok := w.Get("a.txt")
	if !ok || got != "two" {
		t.Errorf("expected overwrite to two, got %q (%v)", got, ok)
	}
	if _, ok := w.Get("missing"); ok {
		t.Error("expected missing file to be absent")
	}
}

func TestStageRejectsBadNames(t *testing.T) {
	w := workset.New()
	w.Open()

	for _, name := range []string{"", "a\nb"} {
		if err := w.Stage(name, "x"); !errors.Is(err, errs.ErrInvalidFilename) {
			t.Errorf("Stage(%q): expected ErrInvalidFilename, got %v", name, err)
		}
	}
}

func TestListSorted(t *testing.T) {
	w := workset.New()
	w.Open()
	w.Stage("c", "")
	w.Stage("a", "")
	w.Stage("b", "")

	names := w.List()
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("unexpected list %v", names)
	}
}

func TestReplaceAllAndSnapshotAreCopies(t *testing.T) {
	w := workset.New()
	w.Open()
	w.Stage("old", "x")

	src := map[string]string{"a": "1", "b": "2"}
	w.ReplaceAll(src)
	src["a"] = "mutated"

	if w.Has("old") {
		t.Error("ReplaceAll must discard previous contents")
	}
	if got, _ := w.Get("a"); got != "1" {
		t.Errorf("ReplaceAll aliased its input, got %q", got)
	}

	snap := w.Snapshot()
	snap["b"] = "mutated"
	if got, _ := w.Get("b"); got != "2" {
		t.Errorf("Snapshot aliased internal map, got %q", got)
	}
}
