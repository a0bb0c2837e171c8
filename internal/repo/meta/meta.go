package meta

// Metadata is the repository-level record persisted next to the commits.
type Metadata struct {
	NextID      int
	Initialized bool
}

// Workspace is the persisted working state between process runs: which
// commit the working set was materialized from, the revert log, and the
// staged file contents.
type Workspace struct {
	CurrentID int
	Reverts   []int
	Files     map[string]string
}
