package chain

import (
	"fmt"
	"sort"

	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

// Persister receives every commit and metadata change the chain makes.
type Persister interface {
	SaveCommit(c *meta.Commit) error
	SaveMetadata(m meta.Metadata) error
}

// Chain owns every commit of one repository in an append-only arena
// indexed by id. Neighbours are derived from the ascending id order, so
// traversal works in both directions without stored links.
//
// head is the chronological tip. current is the commit the working set was
// last materialized from. Commits always append after head, and revert
// only moves current, so history stays linear and nothing is orphaned.
type Chain struct {
	store       Persister
	commits     map[int]*meta.Commit
	order       []int // ascending ids, sentinel first
	head        int
	current     int
	nextID      int
	initialized bool
	reverts     []int // previous current ids, most recent last
}

// New returns an uninitialized chain that persists through p.
func New(p Persister) *Chain {
	return &Chain{store: p, commits: make(map[int]*meta.Commit), nextID: 1}
}

// Initialize creates the sentinel and persists the metadata.
func (c *Chain) Initialize() error {
	if c.initialized {
		return errs.ErrAlreadyInitialized
	}

	m := meta.Metadata{NextID: 1, Initialized: true}
	if err := c.store.SaveMetadata(m); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	c.reset()
	c.initialized = true
	return nil
}

func (c *Chain) reset() {
	s := meta.Sentinel()
	c.commits = map[int]*meta.Commit{s.ID(): s}
	c.order = []int{s.ID()}
	c.head, c.current = s.ID(), s.ID()
	c.nextID = 1
	c.reverts = nil
}

// CheckCommit reports the error Commit would fail with before writing
// anything, or nil.
func (c *Chain) CheckCommit(message string, files map[string]string) error {
	if !c.initialized {
		return errs.ErrNotInitialized
	}
	if len(files) == 0 {
		return errs.ErrEmptyCommit
	}
	if meta.NormalizeMessage(message) == "" {
		return errs.ErrEmptyMessage
	}
	return nil
}

// Commit snapshots files into a new commit appended after head.
// Nothing changes in memory unless both records were written.
func (c *Chain) Commit(message string, files map[string]string) (*meta.Commit, error) {
	if err := c.CheckCommit(message, files); err != nil {
		return nil, err
	}

	commit := meta.NewCommit(c.nextID, message, files)
	if err := c.store.SaveCommit(commit); err != nil {
		return nil, fmt.Errorf("commit %d: %w", commit.ID(), err)
	}
	// The commit record is on disk even if this fails; Load re-derives
	// the counter from the records, so the next commit still gets id+1.
	if err := c.store.SaveMetadata(meta.Metadata{NextID: c.nextID + 1, Initialized: true}); err != nil {
		return nil, fmt.Errorf("commit %d metadata: %w", commit.ID(), err)
	}

	c.commits[commit.ID()] = commit
	c.order = append(c.order, commit.ID())
	c.head, c.current = commit.ID(), commit.ID()
	c.nextID++
	c.reverts = nil
	return commit, nil
}

// Revert points current at id and returns that commit. History is not
// touched; the caller re-materializes its working set from the result.
func (c *Chain) Revert(id int) (*meta.Commit, error) {
	if !c.initialized {
		return nil, errs.ErrNotInitialized
	}
	target, ok := c.commits[id]
	if !ok {
		return nil, fmt.Errorf("revert to %d: %w", id, errs.ErrCommitNotFound)
	}
	c.reverts = append(c.reverts, c.current)
	c.current = id
	return target, nil
}

// UndoRevert moves current back to where it was before the last revert.
func (c *Chain) UndoRevert() (*meta.Commit, error) {
	if len(c.reverts) == 0 {
		return nil, errs.ErrNothingToUndo
	}
	prev := c.reverts[len(c.reverts)-1]
	c.reverts = c.reverts[:len(c.reverts)-1]
	c.current = prev
	return c.commits[prev], nil
}

// Restore rebuilds the chain from persisted commits (any order). head and
// current become the highest id and nextID follows it.
func (c *Chain) Restore(commits []*meta.Commit) {
	c.reset()
	sorted := make([]*meta.Commit, 0, len(commits))
	for _, cm := range commits {
		if cm == nil || cm.IsSentinel() {
			continue
		}
		sorted = append(sorted, cm)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	for _, cm := range sorted {
		if _, dup := c.commits[cm.ID()]; dup {
			continue
		}
		c.commits[cm.ID()] = cm
		c.order = append(c.order, cm.ID())
	}
	last := c.order[len(c.order)-1]
	c.head, c.current = last, last
	c.nextID = last + 1
	c.initialized = true
}

// Resume points current at id and replaces the revert log, as recorded by
// an earlier session. Unknown ids are dropped from the log; an unknown
// current leaves the chain untouched and reports false.
func (c *Chain) Resume(current int, reverts []int) bool {
	if !c.initialized {
		return false
	}
	if _, ok := c.commits[current]; !ok {
		return false
	}
	c.current = current
	c.reverts = c.reverts[:0]
	for _, id := range reverts {
		if _, ok := c.commits[id]; ok {
			c.reverts = append(c.reverts, id)
		}
	}
	return true
}

// Reverts returns a copy of the revert log, oldest first.
func (c *Chain) Reverts() []int {
	return append([]int(nil), c.reverts...)
}

// IsInitialized reports whether the sentinel exists.
func (c *Chain) IsInitialized() bool { return c.initialized }

// NextID is the id the next commit will get.
func (c *Chain) NextID() int { return c.nextID }

// Head returns the chronological tip (the sentinel before any commit).
func (c *Chain) Head() *meta.Commit { return c.commits[c.head] }

// Current returns the commit the working set was materialized from.
func (c *Chain) Current() *meta.Commit { return c.commits[c.current] }

// CanUndo reports whether a revert can be undone.
func (c *Chain) CanUndo() bool { return len(c.reverts) > 0 }

// FindByID returns the commit with id, or nil.
func (c *Chain) FindByID(id int) *meta.Commit { return c.commits[id] }

// Prev returns the commit before id, or nil at the sentinel.
func (c *Chain) Prev(id int) *meta.Commit {
	i, ok := c.index(id)
	if !ok || i == 0 {
		return nil
	}
	return c.commits[c.order[i-1]]
}

// Next returns the commit after id, or nil at head.
func (c *Chain) Next(id int) *meta.Commit {
	i, ok := c.index(id)
	if !ok || i == len(c.order)-1 {
		return nil
	}
	return c.commits[c.order[i+1]]
}

func (c *Chain) index(id int) (int, bool) {
	i := sort.SearchInts(c.order, id)
	return i, i < len(c.order) && c.order[i] == id
}

// History returns commits from head back to, but excluding, the sentinel.
func (c *Chain) History() []*meta.Commit {
	if !c.initialized {
		return nil
	}
	out := make([]*meta.Commit, 0, len(c.order)-1)
	for cm := c.Head(); cm != nil && !cm.IsSentinel(); cm = c.Prev(cm.ID()) {
		out = append(out, cm)
	}
	return out
}

// TotalCount is the number of non-sentinel commits.
func (c *Chain) TotalCount() int {
	if len(c.order) == 0 {
		return 0
	}
	return len(c.order) - 1
}
