package chain_test

import (
	"errors"
	"testing"

	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/repo/chain"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

// recorder is an in-memory Persister that can be told to fail.
type recorder struct {
	commits   map[int]*meta.Commit
	meta      meta.Metadata
	metaSaves int
	failNext  error
}

func newRecorder() *recorder { return &recorder{commits: map[int]*meta.Commit{}} }

func (r *recorder) SaveCommit(c *meta.Commit) error {
	if r.failNext != nil {
		return r.failNext
	}
	r.commits[c.ID()] = c
	return nil
}

func (r *recorder) SaveMetadata(m meta.Metadata) error {
	if r.failNext != nil {
		return r.failNext
	}
	r.meta = m
	r.metaSaves++
	return nil
}

func newInitialized(t *testing.T) (*chain.Chain, *recorder) {
	t.Helper()
	rec := newRecorder()
	c := chain.New(rec)
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return c, rec
}

func files(kv ...string) map[string]string {
	m := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func TestInitializeTwice(t *testing.T) {
	c, rec := newInitialized(t)

	if err := c.Initialize(); !errors.Is(err, errs.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	if rec.metaSaves != 1 {
		t.Errorf("second Initialize must not persist, saves=%d", rec.metaSaves)
	}
	if c.Head().ID() != 0 || c.Current().ID() != 0 || c.TotalCount() != 0 {
		t.Errorf("expected sentinel head/current, got %v/%v", c.Head(), c.Current())
	}
	if rec.meta.NextID != 1 || !rec.meta.Initialized {
		t.Errorf("unexpected metadata %+v", rec.meta)
	}
}

func TestInitializePersistFailure(t *testing.T) {
	rec := newRecorder()
	rec.failNext = errors.New("disk")
	c := chain.New(rec)

	if err := c.Initialize(); err == nil {
		t.Fatal("expected error")
	}
	if c.IsInitialized() {
		t.Fatal("chain must stay uninitialized when metadata cannot be written")
	}
}

func TestCommitRequiresInitAndContent(t *testing.T) {
	c := chain.New(newRecorder())
	if _, err := c.Commit("m", files("a", "1")); !errors.Is(err, errs.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	c, rec := newInitialized(t)
	if _, err := c.Commit("m", nil); !errors.Is(err, errs.ErrEmptyCommit) {
		t.Fatalf("expected ErrEmptyCommit, got %v", err)
	}
	if _, err := c.Commit("\n ", files("a", "1")); !errors.Is(err, errs.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if c.NextID() != 1 || len(rec.commits) != 0 {
		t.Errorf("failed commits must not advance ids, next=%d", c.NextID())
	}
}

func TestCommitIDsAreContiguous(t *testing.T) {
	c, rec := newInitialized(t)

	for want := 1; want <= 5; want++ {
		cm, err := c.Commit("m", files("f", "x"))
		if err != nil {
			t.Fatal(err)
		}
		if cm.ID() != want {
			t.Fatalf("expected id %d, got %d", want, cm.ID())
		}
		if rec.meta.NextID != want+1 {
			t.Fatalf("metadata next id %d, want %d", rec.meta.NextID, want+1)
		}
	}
	if c.TotalCount() != 5 || c.Head().ID() != 5 || c.Current().ID() != 5 {
		t.Errorf("unexpected state total=%d head=%v", c.TotalCount(), c.Head())
	}
}

func TestCommitPersistFailureLeavesChainUnchanged(t *testing.T) {
	c, rec := newInitialized(t)
	c.Commit("one", files("a", "1"))

	rec.failNext = errors.New("disk full")
	if _, err := c.Commit("two", files("a", "2")); err == nil {
		t.Fatal("expected error")
	}
	if c.TotalCount() != 1 || c.Head().ID() != 1 || c.NextID() != 2 {
		t.Errorf("chain changed after failed commit: total=%d head=%v next=%d", c.TotalCount(), c.Head(), c.NextID())
	}
}

func TestHistoryExcludesSentinel(t *testing.T) {
	c, _ := newInitialized(t)
	if len(c.History()) != 0 {
		t.Fatal("fresh chain must have empty history")
	}

	c.Commit("first", files("a", "1"))
	c.Commit("second", files("a", "2"))

	h := c.History()
	if len(h) != 2 || h[0].ID() != 2 || h[1].ID() != 1 {
		t.Fatalf("unexpected history %v", h)
	}
}

func TestRevertMovesCurrentOnly(t *testing.T) {
	c, _ := newInitialized(t)
	c.Commit("first", files("a", "1"))
	c.Commit("second", files("a", "2"))

	target, err := c.Revert(1)
	if err != nil {
		t.Fatal(err)
	}
	if target.ID() != 1 || c.Current().ID() != 1 {
		t.Errorf("expected current 1, got %v", c.Current())
	}
	if c.Head().ID() != 2 || c.TotalCount() != 2 {
		t.Errorf("revert must not rewrite history, head=%v total=%d", c.Head(), c.TotalCount())
	}
}

func TestRevertUnknownID(t *testing.T) {
	c, _ := newInitialized(t)
	c.Commit("first", files("a", "1"))

	if _, err := c.Revert(42); !errors.Is(err, errs.ErrCommitNotFound) {
		t.Fatalf("expected ErrCommitNotFound, got %v", err)
	}
	if c.Current().ID() != 1 || c.CanUndo() {
		t.Error("failed revert must leave current and the revert log unchanged")
	}
}

func TestCommitAfterRevertAppendsAtHead(t *testing.T) {
	c, _ := newInitialized(t)
	c.Commit("first", files("a", "1"))
	c.Commit("second", files("a", "2"))
	c.Revert(1)

	cm, err := c.Commit("third", files("a", "1b"))
	if err != nil {
		t.Fatal(err)
	}
	if cm.ID() != 3 {
		t.Fatalf("expected id 3, got %d", cm.ID())
	}
	if prev := c.Prev(3); prev == nil || prev.ID() != 2 {
		t.Fatalf("commit after revert must link after head, prev=%v", prev)
	}
	if c.Head().ID() != 3 || c.Current().ID() != 3 {
		t.Errorf("head/current must move to the new commit")
	}
	if len(c.History()) != 3 {
		t.Errorf("no commit may be orphaned, history=%v", c.History())
	}
	if c.CanUndo() {
		t.Error("commit must clear the revert log")
	}
}

func TestUndoRevert(t *testing.T) {
	c, _ := newInitialized(t)
	if _, err := c.UndoRevert(); !errors.Is(err, errs.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}

	c.Commit("first", files("a", "1"))
	c.Commit("second", files("a", "2"))
	c.Commit("third", files("a", "3"))
	c.Revert(1)
	c.Revert(2)

	back, err := c.UndoRevert()
	if err != nil || back.ID() != 1 {
		t.Fatalf("expected back to 1, got %v (%v)", back, err)
	}
	back, err = c.UndoRevert()
	if err != nil || back.ID() != 3 {
		t.Fatalf("expected back to 3, got %v (%v)", back, err)
	}
	if c.CanUndo() {
		t.Error("revert log should be empty")
	}
}

func TestPrevNextTraversal(t *testing.T) {
	c, _ := newInitialized(t)
	c.Commit("first", files("a", "1"))
	c.Commit("second", files("a", "2"))

	if n := c.Next(0); n == nil || n.ID() != 1 {
		t.Errorf("Next(0) = %v", n)
	}
	if n := c.Next(1); n == nil || n.ID() != 2 {
		t.Errorf("Next(1) = %v", n)
	}
	if c.Next(2) != nil || c.Prev(0) != nil || c.Prev(99) != nil {
		t.Error("expected nil at the ends")
	}
	if c.FindByID(2) == nil || c.FindByID(7) != nil {
		t.Error("FindByID mismatch")
	}
}

func TestRestore(t *testing.T) {
	rec := newRecorder()
	c := chain.New(rec)

	c.Restore([]*meta.Commit{
		meta.RestoreCommit(2, "b", "t", files("a", "2")),
		meta.RestoreCommit(1, "a", "t", files("a", "1")),
		meta.RestoreCommit(3, "c", "t", files("a", "3")),
	})

	if !c.IsInitialized() || c.TotalCount() != 3 {
		t.Fatalf("unexpected restore state total=%d", c.TotalCount())
	}
	if c.Head().ID() != 3 || c.Current().ID() != 3 || c.NextID() != 4 {
		t.Errorf("expected head/current 3 and next 4, got %v/%v/%d", c.Head(), c.Current(), c.NextID())
	}
	if p := c.Prev(1); p == nil || !p.IsSentinel() {
		t.Errorf("expected sentinel before commit 1, got %v", p)
	}
	if rec.metaSaves != 0 || len(rec.commits) != 0 {
		t.Error("Restore must not persist anything")
	}
	if err := c.Initialize(); !errors.Is(err, errs.ErrAlreadyInitialized) {
		t.Errorf("restored chain must refuse Initialize, got %v", err)
	}
}

func TestRestoreEmpty(t *testing.T) {
	c := chain.New(newRecorder())
	c.Restore(nil)

	if !c.IsInitialized() || c.TotalCount() != 0 || c.Head().ID() != 0 || c.NextID() != 1 {
		t.Errorf("unexpected empty restore state")
	}
}

func TestResume(t *testing.T) {
	c, _ := newInitialized(t)
	c.Commit("first", files("a", "1"))
	c.Commit("second", files("a", "2"))

	if c.Resume(9, nil) {
		t.Fatal("Resume to unknown id must fail")
	}
	if c.Current().ID() != 2 {
		t.Fatalf("failed Resume changed current to %v", c.Current())
	}

	if !c.Resume(1, []int{2, 77}) {
		t.Fatal("Resume failed")
	}
	if c.Current().ID() != 1 || c.Head().ID() != 2 {
		t.Errorf("unexpected head/current %v/%v", c.Head(), c.Current())
	}
	if r := c.Reverts(); len(r) != 1 || r[0] != 2 {
		t.Errorf("expected revert log [2], got %v", r)
	}
	if back, err := c.UndoRevert(); err != nil || back.ID() != 2 {
		t.Errorf("undo after resume: %v %v", back, err)
	}
}
