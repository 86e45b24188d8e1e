package trash

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/jedwillick/trash/internal/config"
)

// Config holds the settings the manager needs from the outside world
type Config struct {
	// HomeTrashDir overrides the home trash location; empty uses the XDG
	// default
	HomeTrashDir string

	// Listing filters applied by List
	Listing config.Listing
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HomeTrashDir != "" && !filepath.IsAbs(c.HomeTrashDir) {
		return fmt.Errorf("home trash directory must be an absolute path: %s", c.HomeTrashDir)
	}
	return nil
}

// Manager is the facade the CLI consumes: it wires the classifier,
// resolver, allocator, store, and the restore and empty engines together.
type Manager struct {
	cfg      Config
	resolver *Resolver
	store    *Store
}

// NewManager prepares the home trash and discovers topdir trashes on
// mounted volumes.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	resolver := NewResolver(cfg.HomeTrashDir)
	home, err := resolver.HomeTrash()
	if err != nil {
		return nil, fmt.Errorf("initialize home trash: %w", err)
	}

	store := DiscoverStore(home)
	slog.Debug("trash manager ready",
		"dirs", lo.Map(store.Directories(), func(d *Directory, _ int) string { return d.Root }))

	return &Manager{cfg: cfg, resolver: resolver, store: store}, nil
}

// Put moves the file at path into the trash directory of the volume it
// lives on and returns the created entry.
func (m *Manager) Put(path string) (*Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOpError("put", path, err)
	}

	vol, err := Classify(abs)
	if err != nil {
		return nil, err
	}

	dir, err := m.resolver.Resolve(vol)
	if err != nil {
		return nil, err
	}

	entry, err := Allocate(dir, abs)
	if err != nil {
		return nil, err
	}

	slog.Debug("trashed", "path", abs, "entry", entry.Name, "trash", dir.Root)
	return entry, nil
}

// List returns all entries across known trash directories, after the
// configured listing filters, along with enumeration warnings.
func (m *Manager) List() ([]*Entry, []Warning, error) {
	entries, warnings, err := m.store.List()
	if err != nil {
		return nil, nil, err
	}

	opts := FilterOptions{
		Include: m.cfg.Listing.Include,
		Exclude: m.cfg.Listing.Exclude,
	}
	return Filter(entries, opts), warnings, nil
}

// Restore reverses an entry according to the conflict policy
func (m *Manager) Restore(entry *Entry, policy ConflictPolicy) error {
	return Restore(entry, policy)
}

// Empty permanently purges the entries matching the filter and returns
// how many were removed. Per-entry failures come back as a PartialError.
func (m *Manager) Empty(filter EmptyFilter) (int, error) {
	entries, _, err := m.store.List()
	if err != nil {
		return 0, err
	}
	return Empty(entries, filter)
}

// Open returns a reader over an entry's payload. Read-only; the entry is
// not mutated.
func (m *Manager) Open(entry *Entry) (io.ReadCloser, error) {
	f, err := os.Open(entry.PayloadPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewOpError("cat", entry.Name, ErrNotFound)
		}
		return nil, NewOpError("cat", entry.Name, err)
	}
	return f, nil
}

// Orphans returns orphaned metadata records across known trash
// directories.
func (m *Manager) Orphans() ([]Orphan, error) {
	return m.store.Orphans()
}

// RemoveOrphan deletes a single orphaned metadata record or stranded
// payload. Only ever called on explicit user request.
func (m *Manager) RemoveOrphan(o Orphan) error {
	if o.Kind == OrphanPayload {
		return os.RemoveAll(o.Path)
	}
	return os.Remove(o.Path)
}

// Directories returns the trash directories the manager knows about
func (m *Manager) Directories() []*Directory {
	return m.store.Directories()
}
