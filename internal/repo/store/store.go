package store

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/logger"
)

// Store persists commits and repository metadata under one storage root.
//
// Each record is written through a temp file and renamed into place, so a
// single record is never torn. A commit record and the metadata record are
// not written as one unit: an interruption between the two leaves the
// metadata counter stale, which Repository.Load repairs from the commits.
type Store struct {
	Config *config.RepoConfig
	FS     fs.FS
	log    *log.Logger
}

// Options allows optional dependency injection (FS, Logger).
type Options struct {
	FS     fs.FS
	Logger *log.Logger
}

// New creates a store bound to cfg.Root. It does not touch the disk.
func New(cfg *config.RepoConfig, opts *Options) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}

	s := &Store{Config: cfg, FS: fs.NewOSFS()}
	if opts != nil {
		if opts.FS != nil {
			s.FS = opts.FS
		}
		s.log = opts.Logger
	}
	s.log = logger.OrDefault(s.log).With("root", cfg.Root)
	return s, nil
}

// EnsureLayout creates the storage root and its commits directory.
func (s *Store) EnsureLayout() error {
	for _, d := range []string{s.Config.Root, s.Config.CommitsDir()} {
		if err := s.FS.MkdirAll(d, 0o755); err != nil {
			return errs.WrapIO("create dir", d, err)
		}
	}
	return nil
}

// Exists reports whether the metadata record marks the root initialized.
// A record that cannot be read or decoded counts as present, so it is
// never overwritten.
func (s *Store) Exists() bool {
	m, ok, err := s.LoadMetadata()
	if err != nil {
		return true
	}
	return ok && m.Initialized
}
