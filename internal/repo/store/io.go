package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

// SaveCommit writes c to <root>/commits/commit_<id>.txt. Other commit
// records are never touched.
func (s *Store) SaveCommit(c *meta.Commit) error {
	if c == nil {
		return fmt.Errorf("save commit: nil commit")
	}
	if err := s.FS.MkdirAll(s.Config.CommitsDir(), 0o755); err != nil {
		return errs.WrapIO("create dir", s.Config.CommitsDir(), err)
	}

	path := s.Config.CommitFile(c.ID())
	if err := fs.WriteFileAtomic(s.FS, path, EncodeCommit(c)); err != nil {
		return errs.WrapIO("write commit", path, err)
	}
	s.log.Debug("commit saved", "id", c.ID(), "files", c.Len())
	return nil
}

// LoadCommit reads commit id. A missing record yields ErrCommitNotFound,
// an unparsable one ErrMalformedRecord.
func (s *Store) LoadCommit(id int) (*meta.Commit, error) {
	path := s.Config.CommitFile(id)
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return nil, fmt.Errorf("commit %d: %w", id, errs.ErrCommitNotFound)
		}
		return nil, errs.WrapIO("read commit", path, err)
	}

	c, err := DecodeCommit(path, data)
	if err != nil {
		return nil, err
	}
	if c.ID() != id {
		return nil, &errs.RecordError{Path: path, Line: 1, Reason: fmt.Sprintf("VERSION_ID %d does not match file name", c.ID())}
	}
	return c, nil
}

// LoadAll probes ids 1, 2, 3... and returns the contiguous prefix that
// loads. The first missing or malformed id ends the scan, so any record
// after a gap is not returned (see Orphans). Read failures other than a
// missing file are returned as errors.
func (s *Store) LoadAll() ([]*meta.Commit, error) {
	var commits []*meta.Commit
	for id := 1; ; id++ {
		c, err := s.LoadCommit(id)
		if err != nil {
			switch {
			case errors.Is(err, errs.ErrCommitNotFound):
			case errors.Is(err, errs.ErrMalformedRecord):
				s.log.Warn("stopping load at malformed commit", "id", id, "err", err)
			default:
				return nil, err
			}
			break
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Scan lists the ids of all commit records present on disk, ascending.
func (s *Store) Scan() ([]int, error) {
	dir := s.Config.CommitsDir()
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.WrapIO("read dir", dir, err)
	}

	var ids []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := config.ParseCommitFileName(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// Orphans returns ids of records on disk that LoadAll cannot reach
// because they sit after a gap, given the highest contiguous id.
func (s *Store) Orphans(lastContiguous int) ([]int, error) {
	ids, err := s.Scan()
	if err != nil {
		return nil, err
	}
	var out []int
	for _, id := range ids {
		if id > lastContiguous {
			out = append(out, id)
		}
	}
	return out, nil
}

// SaveMetadata writes <root>/repo_metadata.txt.
func (s *Store) SaveMetadata(m meta.Metadata) error {
	if err := s.FS.MkdirAll(s.Config.Root, 0o755); err != nil {
		return errs.WrapIO("create dir", s.Config.Root, err)
	}
	path := s.Config.MetadataFile()
	if err := fs.WriteFileAtomic(s.FS, path, EncodeMetadata(m)); err != nil {
		return errs.WrapIO("write metadata", path, err)
	}
	s.log.Debug("metadata saved", "next_id", m.NextID, "initialized", m.Initialized)
	return nil
}

// LoadMetadata reads the metadata record; ok is false when it is absent.
func (s *Store) LoadMetadata() (m meta.Metadata, ok bool, err error) {
	path := s.Config.MetadataFile()
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return meta.Metadata{}, false, nil
		}
		return meta.Metadata{}, false, errs.WrapIO("read metadata", path, err)
	}
	m, err = DecodeMetadata(path, data)
	if err != nil {
		return meta.Metadata{}, false, err
	}
	return m, true, nil
}

// SaveWorkspace writes <root>/working_state.txt.
func (s *Store) SaveWorkspace(w meta.Workspace) error {
	if err := s.FS.MkdirAll(s.Config.Root, 0o755); err != nil {
		return errs.WrapIO("create dir", s.Config.Root, err)
	}
	path := s.Config.WorkspaceFile()
	if err := fs.WriteFileAtomic(s.FS, path, EncodeWorkspace(w)); err != nil {
		return errs.WrapIO("write workspace", path, err)
	}
	s.log.Debug("workspace saved", "current", w.CurrentID, "files", len(w.Files))
	return nil
}

// LoadWorkspace reads the working state record; ok is false when absent.
func (s *Store) LoadWorkspace() (w meta.Workspace, ok bool, err error) {
	path := s.Config.WorkspaceFile()
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return meta.Workspace{}, false, nil
		}
		return meta.Workspace{}, false, errs.WrapIO("read workspace", path, err)
	}
	w, err = DecodeWorkspace(path, data)
	if err != nil {
		return meta.Workspace{}, false, err
	}
	return w, true, nil
}

// Quarantine renames the record for id to commit_<id>.txt.orphan so that
// later loads and scans skip it. A missing record is not an error.
func (s *Store) Quarantine(id int) error {
	path := s.Config.CommitFile(id)
	if !s.FS.Exists(path) {
		return nil
	}
	if err := s.FS.Rename(path, path+config.OrphanExt); err != nil {
		return errs.WrapIO("quarantine", path, err)
	}
	s.log.Warn("orphaned commit record set aside", "id", id, "path", path+config.OrphanExt)
	return nil
}
