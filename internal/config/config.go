package config

import (
	"path/filepath"
	"strconv"
)

const (
	CommitsDir    = "commits"
	CommitPrefix  = "commit_"
	RecordExt     = ".txt"
	MetadataFile  = "repo_metadata" + RecordExt
	WorkspaceFile = "working_state" + RecordExt
	OrphanExt     = ".orphan"
	DefaultRoot   = "data"
	TimestampForm = "2006-01-02 15:04:05"
)

// RepoConfig describes the on-disk layout of one storage root.
type RepoConfig struct {
	Root string
}

// NewRepoConfig returns the layout for the given storage root.
func NewRepoConfig(root string) *RepoConfig {
	if root == "" {
		root = DefaultRoot
	}
	return &RepoConfig{Root: filepath.Clean(root)}
}

func (c *RepoConfig) CommitsDir() string   { return filepath.Join(c.Root, CommitsDir) }
func (c *RepoConfig) MetadataFile() string { return filepath.Join(c.Root, MetadataFile) }

// WorkspaceFile returns <root>/working_state.txt.
func (c *RepoConfig) WorkspaceFile() string { return filepath.Join(c.Root, WorkspaceFile) }

// CommitFile returns <root>/commits/commit_<id>.txt.
func (c *RepoConfig) CommitFile(id int) string {
	return filepath.Join(c.CommitsDir(), CommitPrefix+strconv.Itoa(id)+RecordExt)
}

// ParseCommitFileName extracts the id from a commit record file name.
func ParseCommitFileName(name string) (int, bool) {
	if len(name) <= len(CommitPrefix)+len(RecordExt) ||
		name[:len(CommitPrefix)] != CommitPrefix ||
		name[len(name)-len(RecordExt):] != RecordExt {
		return 0, false
	}
	id, err := strconv.Atoi(name[len(CommitPrefix) : len(name)-len(RecordExt)])
	if err != nil || id < 0 || strconv.Itoa(id) != name[len(CommitPrefix):len(name)-len(RecordExt)] {
		return 0, false
	}
	return id, true
}
