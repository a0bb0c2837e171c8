package workset

import (
	"fmt"

	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/repo/meta"
	"github.com/keshon/snapvcs/internal/util"
)

// WorkingSet is the mutable staging area: the files currently
// materialized for editing before the next commit.
type WorkingSet struct {
	files map[string]string
	open  bool
}

// New returns a closed, empty working set. Stage fails until Open.
func New() *WorkingSet {
	return &WorkingSet{files: make(map[string]string)}
}

// Open allows staging; called once the repository is initialized or loaded.
func (w *WorkingSet) Open() { w.open = true }

// IsOpen reports whether staging is allowed.
func (w *WorkingSet) IsOpen() bool { return w.open }

// Stage inserts or overwrites name. Whether overwriting is acceptable is
// the caller's policy.
func (w *WorkingSet) Stage(name, content string) error {
	if !w.open {
		return errs.ErrNotInitialized
	}
	if !meta.ValidFilename(name) {
		return fmt.Errorf("stage %q: %w", name, errs.ErrInvalidFilename)
	}
	w.files[name] = content
	return nil
}

// Get returns the content of name.
func (w *WorkingSet) Get(name string) (string, bool) {
	content, ok := w.files[name]
	return content, ok
}

// Has reports whether name is staged.
func (w *WorkingSet) Has(name string) bool {
	_, ok := w.files[name]
	return ok
}

// List returns all file names, sorted.
func (w *WorkingSet) List() []string { return util.SortedKeys(w.files) }

// Len returns the number of staged files.
func (w *WorkingSet) Len() int { return len(w.files) }

// Snapshot returns a full copy of the current contents.
func (w *WorkingSet) Snapshot() map[string]string {
	out := make(map[string]string, len(w.files))
	for k, v := range w.files {
		out[k] = v
	}
	return out
}

// ReplaceAll discards the current contents and adopts a copy of files.
func (w *WorkingSet) ReplaceAll(files map[string]string) {
	next := make(map[string]string, len(files))
	for k, v := range files {
		next[k] = v
	}
	w.files = next
}
