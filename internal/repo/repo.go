package repo

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/logger"
	"github.com/keshon/snapvcs/internal/repo/chain"
	"github.com/keshon/snapvcs/internal/repo/meta"
	"github.com/keshon/snapvcs/internal/repo/store"
	"github.com/keshon/snapvcs/internal/repo/workset"
)

// Repository is the single entry point for one storage root. It owns the
// commit chain, the working set and the store, and is the only thing the
// presentation layer talks to.
type Repository struct {
	Config *config.RepoConfig

	store *store.Store
	chain *chain.Chain
	ws    *workset.WorkingSet
	log   *log.Logger

	keepWorkspace bool
}

// Options allows optional dependency injection.
type Options struct {
	FS     fs.FS
	Logger *log.Logger

	// Compress gzips every record written under the root.
	Compress bool

	// KeepWorkspace persists the working set, current position and revert
	// log after every change, and restores them on Load. Without it the
	// working set lives only as long as the process and Load materializes
	// it from head.
	KeepWorkspace bool
}

// New constructs an uninitialized Repository for root. Nothing is read
// from disk until Load or Initialize.
func New(root string, opts *Options) (*Repository, error) {
	if opts == nil {
		opts = &Options{}
	}
	cfg := config.NewRepoConfig(root)

	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewOSFS()
	}
	if opts.Compress {
		fsys = fs.NewCompressedFS(fsys)
	}

	l := logger.OrDefault(opts.Logger).With("root", cfg.Root)
	st, err := store.New(cfg, &store.Options{FS: fsys, Logger: opts.Logger})
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	return &Repository{
		Config:        cfg,
		store:         st,
		chain:         chain.New(st),
		ws:            workset.New(),
		log:           l,
		keepWorkspace: opts.KeepWorkspace,
	}, nil
}

// Open constructs a Repository for root and loads it.
func Open(root string, opts *Options) (*Repository, error) {
	r, err := New(root, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Initialize creates the storage layout, the sentinel commit and the
// metadata record. It fails with ErrAlreadyInitialized when this instance
// or the storage root is already initialized.
func (r *Repository) Initialize() error {
	if r.chain.IsInitialized() || r.store.Exists() {
		return errs.ErrAlreadyInitialized
	}
	if err := r.store.EnsureLayout(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := r.chain.Initialize(); err != nil {
		return err
	}

	r.ws.ReplaceAll(nil)
	r.ws.Open()
	if err := r.saveWorkspace(); err != nil {
		return err
	}
	r.log.Info("repository initialized")
	return nil
}

// Load rebuilds the repository from disk. Absent metadata leaves it
// uninitialized. Otherwise the contiguous run of commits from id 1 is
// restored, head and current point at the highest id, and the working
// set is materialized from it.
//
// The next commit id is derived from the restored commits rather than the
// metadata counter, so a stale counter or a gap on disk never makes a new
// commit skip or reuse an id.
func (r *Repository) Load() error {
	r.chain = chain.New(r.store)
	r.ws = workset.New()

	m, ok, err := r.store.LoadMetadata()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if !ok || !m.Initialized {
		r.log.Debug("no repository metadata, staying uninitialized")
		return nil
	}

	commits, err := r.store.LoadAll()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	r.chain.Restore(commits)

	next := r.chain.NextID()
	if m.NextID != next {
		r.log.Warn("metadata counter out of step with commits, rewriting", "recorded", m.NextID, "derived", next)
		if err := r.store.SaveMetadata(meta.Metadata{NextID: next, Initialized: true}); err != nil {
			r.log.Warn("could not rewrite metadata", "err", err)
		}
	}
	if orphans, err := r.store.Orphans(next - 1); err != nil {
		r.log.Warn("could not scan for orphaned commits", "err", err)
	} else if len(orphans) > 0 {
		r.log.Warn("commit records after a gap are not loaded", "ids", orphans)
	}

	r.ws.ReplaceAll(r.chain.Head().Files())
	r.ws.Open()
	if r.keepWorkspace {
		r.restoreWorkspace()
	}

	r.log.Info("repository loaded", "commits", r.chain.TotalCount(), "head", r.chain.Head().ID(), "current", r.chain.Current().ID())
	return nil
}

func (r *Repository) restoreWorkspace() {
	w, ok, err := r.store.LoadWorkspace()
	if err != nil {
		r.log.Warn("ignoring unreadable workspace", "err", err)
		return
	}
	if !ok {
		return
	}
	if !r.chain.Resume(w.CurrentID, w.Reverts) {
		r.log.Warn("workspace points at an unknown commit, using head", "current", w.CurrentID)
		return
	}
	r.ws.ReplaceAll(w.Files)
}

func (r *Repository) saveWorkspace() error {
	if !r.keepWorkspace {
		return nil
	}
	return r.store.SaveWorkspace(meta.Workspace{
		CurrentID: r.chain.Current().ID(),
		Reverts:   r.chain.Reverts(),
		Files:     r.ws.Snapshot(),
	})
}

// Stage inserts or overwrites name in the working set.
func (r *Repository) Stage(name, content string) error {
	if !r.chain.IsInitialized() {
		return errs.ErrNotInitialized
	}
	before := r.ws.Snapshot()
	if err := r.ws.Stage(name, content); err != nil {
		return err
	}
	if err := r.saveWorkspace(); err != nil {
		r.ws.ReplaceAll(before)
		return fmt.Errorf("stage %q: %w", name, err)
	}
	r.log.Debug("staged", "file", name, "bytes", len(content))
	return nil
}

// Commit snapshots the working set under message. The working set is kept
// as is, so later commits accumulate on top of it.
func (r *Repository) Commit(message string) (*meta.Commit, error) {
	files := r.ws.Snapshot()
	if err := r.chain.CheckCommit(message, files); err != nil {
		return nil, err
	}
	if err := r.setAsideOrphans(); err != nil {
		return nil, err
	}
	c, err := r.chain.Commit(message, files)
	if err != nil {
		return nil, err
	}
	if err := r.saveWorkspace(); err != nil {
		r.log.Warn("commit written but workspace was not saved", "id", c.ID(), "err", err)
	}
	r.log.Info("committed", "id", c.ID(), "files", c.Len())
	return c, nil
}

// setAsideOrphans moves records past a gap out of the way before ids
// beyond the gap are reused; otherwise a later load would splice stale
// commits onto the new ones.
func (r *Repository) setAsideOrphans() error {
	orphans, err := r.store.Orphans(r.chain.NextID() - 1)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for _, id := range orphans {
		if err := r.store.Quarantine(id); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	return nil
}

// Revert materializes commit id into the working set. History is kept.
func (r *Repository) Revert(id int) (*meta.Commit, error) {
	target, err := r.chain.Revert(id)
	if err != nil {
		return nil, err
	}
	r.ws.ReplaceAll(target.Files())
	if err := r.saveWorkspace(); err != nil {
		r.log.Warn("workspace was not saved after revert", "err", err)
	}
	r.log.Info("reverted", "to", id)
	return target, nil
}

// UndoRevert returns to the commit that was current before the last
// revert and re-materializes the working set from it.
func (r *Repository) UndoRevert() (*meta.Commit, error) {
	if !r.chain.IsInitialized() {
		return nil, errs.ErrNotInitialized
	}
	back, err := r.chain.UndoRevert()
	if err != nil {
		return nil, err
	}
	r.ws.ReplaceAll(back.Files())
	if err := r.saveWorkspace(); err != nil {
		r.log.Warn("workspace was not saved after undo", "err", err)
	}
	r.log.Info("revert undone", "current", back.ID())
	return back, nil
}

// IsInitialized reports whether the repository has a sentinel commit.
func (r *Repository) IsInitialized() bool { return r.chain.IsInitialized() }

// History lists commits from head back to the first real commit.
func (r *Repository) History() []*meta.Commit { return r.chain.History() }

// TotalCommits counts commits excluding the sentinel.
func (r *Repository) TotalCommits() int { return r.chain.TotalCount() }

// CurrentCommit is the commit the working set was materialized from,
// or nil when uninitialized.
func (r *Repository) CurrentCommit() *meta.Commit { return r.chain.Current() }

// HeadCommit is the newest commit, or nil when uninitialized.
func (r *Repository) HeadCommit() *meta.Commit { return r.chain.Head() }

// CanUndo reports whether UndoRevert has anything to undo.
func (r *Repository) CanUndo() bool { return r.chain.CanUndo() }

// CommitByID looks up a commit, including the sentinel.
func (r *Repository) CommitByID(id int) (*meta.Commit, error) {
	if !r.chain.IsInitialized() {
		return nil, errs.ErrNotInitialized
	}
	c := r.chain.FindByID(id)
	if c == nil {
		return nil, fmt.Errorf("commit %d: %w", id, errs.ErrCommitNotFound)
	}
	return c, nil
}

// FileContent returns name from the working set.
func (r *Repository) FileContent(name string) (string, bool) { return r.ws.Get(name) }

// HasFile reports whether name is in the working set.
func (r *Repository) HasFile(name string) bool { return r.ws.Has(name) }

// WorkingFiles lists working set file names, sorted.
func (r *Repository) WorkingFiles() []string { return r.ws.List() }
