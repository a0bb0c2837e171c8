// Package registry maps repository names to storage roots and remembers
// which one is selected.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/logger"
)

var (
	ErrRepoExists  = errors.New("repository already registered")
	ErrRepoUnknown = errors.New("repository not registered")
	ErrBadName     = errors.New("invalid repository name")
)

// Entry is one registered repository.
type Entry struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
}

type document struct {
	Selected     string  `yaml:"selected,omitempty"`
	Repositories []Entry `yaml:"repositories"`
}

// Registry is the persisted name index. It is not safe for concurrent use.
type Registry struct {
	path     string
	fs       fs.FS
	log      *log.Logger
	rootFor  func(name string) string
	selected string
	entries  map[string]Entry
}

// Options allows optional dependency injection.
type Options struct {
	FS     fs.FS
	Logger *log.Logger
	// RootFor derives a storage root for Add calls without one.
	RootFor func(name string) string
}

// New returns an empty registry backed by path. Call Load to read it.
func New(path string, opts *Options) *Registry {
	r := &Registry{path: path, fs: fs.NewOSFS(), entries: map[string]Entry{}}
	if opts != nil {
		if opts.FS != nil {
			r.fs = opts.FS
		}
		r.log = opts.Logger
		r.rootFor = opts.RootFor
	}
	if r.rootFor == nil {
		r.rootFor = func(name string) string { return filepath.Join(name, "data") }
	}
	r.log = logger.OrDefault(r.log)
	return r
}

// Load reads the registry file. A missing file is an empty registry.
func (r *Registry) Load() error {
	data, err := r.fs.ReadFile(r.path)
	if err != nil {
		if r.fs.IsNotExist(err) {
			r.entries = map[string]Entry{}
			r.selected = ""
			return nil
		}
		return fmt.Errorf("reading registry %s: %w", r.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing registry %s: %w", r.path, err)
	}

	entries := make(map[string]Entry, len(doc.Repositories))
	for _, e := range doc.Repositories {
		if !validName(e.Name) || e.Root == "" {
			r.log.Warn("skipping invalid registry entry", "name", e.Name, "root", e.Root)
			continue
		}
		entries[e.Name] = e
	}
	r.entries = entries
	r.selected = doc.Selected
	if _, ok := entries[r.selected]; !ok && r.selected != "" {
		r.log.Warn("selected repository is not registered", "name", r.selected)
		r.selected = ""
	}
	return nil
}

// Save writes the registry atomically.
func (r *Registry) Save() error {
	doc := document{Selected: r.selected, Repositories: r.List()}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating registry dir: %w", err)
		}
	}
	if err := fs.WriteFileAtomic(r.fs, r.path, data); err != nil {
		return fmt.Errorf("writing registry %s: %w", r.path, err)
	}
	r.log.Debug("registry saved", "path", r.path, "repositories", len(r.entries))
	return nil
}

// Add registers name at root, or at the default root when root is empty.
func (r *Registry) Add(name, root string) (Entry, error) {
	if !validName(name) {
		return Entry{}, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	if _, ok := r.entries[name]; ok {
		return Entry{}, fmt.Errorf("%q: %w", name, ErrRepoExists)
	}
	if root == "" {
		root = r.rootFor(name)
	}
	e := Entry{Name: name, Root: filepath.Clean(root)}
	r.entries[name] = e
	r.log.Info("repository registered", "name", name, "root", e.Root)
	return e, nil
}

// Remove forgets name. Files under its root are left alone.
func (r *Registry) Remove(name string) error {
	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrRepoUnknown)
	}
	delete(r.entries, name)
	if r.selected == name {
		r.selected = ""
	}
	return nil
}

// Select marks name as the repository commands operate on.
func (r *Registry) Select(name string) error {
	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrRepoUnknown)
	}
	r.selected = name
	return nil
}

// Selected returns the selected entry, if any.
func (r *Registry) Selected() (Entry, bool) {
	e, ok := r.entries[r.selected]
	return e, ok && r.selected != ""
}

// SelectedRoot returns the storage root of the selected repository.
func (r *Registry) SelectedRoot() (string, bool) {
	e, ok := r.Selected()
	return e.Root, ok
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", name, ErrRepoUnknown)
	}
	return e, nil
}

// List returns all entries sorted by name.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
