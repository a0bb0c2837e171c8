package repo

import (
	"github.com/keshon/snapvcs/internal/repo/meta"
	"github.com/keshon/snapvcs/internal/util"
)

// FileState is a working file's state relative to the current commit.
type FileState string

const (
	Unchanged FileState = "unchanged"
	Modified  FileState = "modified"
	Added     FileState = "added"
)

// FileInfo describes one working set file.
type FileInfo struct {
	Name  string
	Size  int
	Lines int
	State FileState
}

// Status summarizes the repository and its working set.
type Status struct {
	Initialized  bool
	TotalCommits int
	HeadID       int
	CurrentID    int
	Files        []FileInfo
}

// Dirty reports whether any working file differs from the current commit.
func (s Status) Dirty() bool {
	for _, f := range s.Files {
		if f.State != Unchanged {
			return true
		}
	}
	return false
}

// Status reports head, current and every working file compared against
// current by content.
func (r *Repository) Status() Status {
	st := Status{Initialized: r.chain.IsInitialized()}
	if !st.Initialized {
		return st
	}
	st.TotalCommits = r.chain.TotalCount()
	st.HeadID = r.chain.Head().ID()
	current := r.chain.Current()
	st.CurrentID = current.ID()

	for _, name := range r.ws.List() {
		content, _ := r.ws.Get(name)
		info := FileInfo{Name: name, Size: len(content), Lines: meta.Lines(content), State: Added}
		if committed, ok := current.File(name); ok {
			info.State = Modified
			if committed == content {
				info.State = Unchanged
			}
		}
		st.Files = append(st.Files, info)
	}
	return st
}

// CompareStatus classifies one file across two commits.
type CompareStatus string

const (
	Identical CompareStatus = "identical"
	Different CompareStatus = "different"
	OnlyInA   CompareStatus = "only-in-a"
	OnlyInB   CompareStatus = "only-in-b"
)

// CompareEntry is one row of a commit comparison. Sizes are -1 where the
// file is absent.
type CompareEntry struct {
	Name   string
	Status CompareStatus
	SizeA  int
	SizeB  int
}

// Compare lists every file of commits a and b, sorted by name.
func (r *Repository) Compare(a, b int) ([]CompareEntry, error) {
	ca, err := r.CommitByID(a)
	if err != nil {
		return nil, err
	}
	cb, err := r.CommitByID(b)
	if err != nil {
		return nil, err
	}

	names := map[string]struct{}{}
	for _, n := range ca.Names() {
		names[n] = struct{}{}
	}
	for _, n := range cb.Names() {
		names[n] = struct{}{}
	}

	out := make([]CompareEntry, 0, len(names))
	for _, n := range util.SortedKeys(names) {
		e := CompareEntry{Name: n, SizeA: -1, SizeB: -1}
		x, inA := ca.File(n)
		y, inB := cb.File(n)
		if inA {
			e.SizeA = len(x)
		}
		if inB {
			e.SizeB = len(y)
		}
		switch {
		case inA && !inB:
			e.Status = OnlyInA
		case !inA && inB:
			e.Status = OnlyInB
		case x == y:
			e.Status = Identical
		default:
			e.Status = Different
		}
		out = append(out, e)
	}
	return out, nil
}
