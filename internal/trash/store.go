package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedwillick/trash/internal/fs"
)

// WarningKind classifies what enumeration found wrong with a trash
// directory's contents.
type WarningKind int

const (
	// OrphanPayload is a payload under files/ with no metadata record
	OrphanPayload WarningKind = iota

	// OrphanInfo is a metadata record under info/ with no payload
	OrphanInfo

	// UnlistableDir is a trash directory that could not be read
	UnlistableDir
)

func (k WarningKind) String() string {
	switch k {
	case OrphanPayload:
		return "orphan payload"
	case OrphanInfo:
		return "orphan metadata"
	case UnlistableDir:
		return "unlistable directory"
	default:
		return "unknown"
	}
}

// Warning reports a non-fatal finding from enumeration. Orphans are never
// deleted automatically; data safety beats tidiness.
type Warning struct {
	Kind WarningKind
	Dir  *Directory
	Path string
	Err  error
}

func (w Warning) String() string {
	s := fmt.Sprintf("%s: %s", w.Kind, w.Path)
	if w.Err != nil {
		s += ": " + w.Err.Error()
	}
	return s
}

// Store enumerates, parses, and indexes entries across a set of trash
// directories. It holds no state beyond the directory list: every List
// call re-reads the filesystem, so listing is restartable and idempotent
// with respect to the underlying directory contents.
type Store struct {
	dirs []*Directory
}

// NewStore creates a store over the given trash directories
func NewStore(dirs ...*Directory) *Store {
	return &Store{dirs: dirs}
}

// DiscoverStore builds a store over the home trash plus every existing
// topdir trash on currently mounted volumes. Topdir trashes are only
// discovered here, never created; creation is the resolver's job and
// happens at put time.
func DiscoverStore(home *Directory) *Store {
	dirs := []*Directory{home}

	points, err := mountPoints()
	if err != nil {
		slog.Warn("cannot enumerate mount points", "error", err)
		return NewStore(dirs...)
	}

	uid := strconv.Itoa(os.Getuid())
	for _, mount := range points {
		for _, root := range []string{
			filepath.Join(mount, ".Trash", uid),
			filepath.Join(mount, ".Trash-"+uid),
		} {
			if root == home.Root {
				continue
			}
			if fi, err := os.Lstat(root); err == nil && fi.IsDir() {
				dirs = append(dirs, NewDirectory(root, mount, false))
			}
		}
	}

	return NewStore(dirs...)
}

// Directories returns the trash directories known to the store
func (s *Store) Directories() []*Directory {
	return s.dirs
}

// List returns all entries across the store's directories along with
// warnings for anything that could not be paired or parsed. Entries are
// ordered by trash root then entry name, a deterministic function of the
// directory contents.
func (s *Store) List() ([]*Entry, []Warning, error) {
	var entries []*Entry
	var warnings []Warning

	for _, dir := range s.dirs {
		dirEntries, dirWarnings := listDirectory(dir)
		entries = append(entries, dirEntries...)
		warnings = append(warnings, dirWarnings...)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Dir.Root != entries[j].Dir.Root {
			return entries[i].Dir.Root < entries[j].Dir.Root
		}
		return entries[i].Name < entries[j].Name
	})

	return entries, warnings, nil
}

// Find returns the entry with the given name, searching directories in
// order. Returns ErrNotFound if no entry matches.
func (s *Store) Find(name string) (*Entry, error) {
	entries, _, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, NewOpError("find", name, ErrNotFound)
}

func listDirectory(dir *Directory) ([]*Entry, []Warning) {
	var entries []*Entry
	var warnings []Warning

	payloads, err := os.ReadDir(dir.FilesDir())
	if err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, Warning{Kind: UnlistableDir, Dir: dir, Path: dir.FilesDir(), Err: err})
		}
		return nil, warnings
	}

	seen := make(map[string]bool, len(payloads))
	for _, p := range payloads {
		name := p.Name()
		seen[name] = true

		fi, err := os.Lstat(dir.PayloadPath(name))
		if err != nil {
			warnings = append(warnings, Warning{Kind: UnlistableDir, Dir: dir, Path: dir.PayloadPath(name), Err: err})
			continue
		}

		entry := &Entry{
			Name:  name,
			Dir:   dir,
			Size:  fi.Size(),
			IsDir: fi.IsDir(),
			Mode:  fi.Mode(),
		}

		info, err := loadInfo(dir.InfoPath(name))
		switch {
		case err == nil:
			entry.OriginalPath = info.AbsolutePath(dir.Topdir)
			entry.DeletedAt = info.DeletionDate
		case os.IsNotExist(err):
			// Payload with no record: an orphan, surfaced but not listed
			// as a restorable entry.
			warnings = append(warnings, Warning{Kind: OrphanPayload, Dir: dir, Path: dir.PayloadPath(name)})
			continue
		default:
			// Malformed record: listed so it can be emptied, but its
			// original path is unknown and it cannot be restored.
			entry.Unreadable = true
			slog.Debug("unreadable trash info", "path", dir.InfoPath(name), "error", err)
		}

		entries = append(entries, entry)
	}

	infos, err := os.ReadDir(dir.InfoDir())
	if err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, Warning{Kind: UnlistableDir, Dir: dir, Path: dir.InfoDir(), Err: err})
		}
		return entries, warnings
	}

	for _, rec := range infos {
		name := strings.TrimSuffix(rec.Name(), trashInfoExt)
		if name == rec.Name() || seen[name] {
			continue
		}
		warnings = append(warnings, Warning{Kind: OrphanInfo, Dir: dir, Path: dir.InfoPath(name)})
	}

	return entries, warnings
}

// Orphan describes one half of a broken trash entry: a metadata record
// whose payload is gone, or a payload that lost its record. Detail fields
// hold whatever could still be recovered.
type Orphan struct {
	// Path is the orphaned file itself
	Path string

	// Kind is OrphanInfo or OrphanPayload
	Kind WarningKind

	// Size is the orphaned file's size; for payload orphans of a
	// directory this is the recursive size
	Size int64

	// DeletedAt and OriginalPath are parsed out of metadata orphans when
	// the record is still readable
	DeletedAt    time.Time
	OriginalPath string
}

// Orphans returns the orphaned metadata records and payloads across the
// store's directories.
func (s *Store) Orphans() ([]Orphan, error) {
	_, warnings, err := s.List()
	if err != nil {
		return nil, err
	}

	var orphans []Orphan
	for _, w := range warnings {
		switch w.Kind {
		case OrphanInfo:
			o := Orphan{Path: w.Path, Kind: OrphanInfo}
			if fi, err := os.Lstat(w.Path); err == nil {
				o.Size = fi.Size()
			}
			if info, err := loadInfo(w.Path); err == nil {
				o.OriginalPath = info.AbsolutePath(w.Dir.Topdir)
				o.DeletedAt = info.DeletionDate
			}
			orphans = append(orphans, o)

		case OrphanPayload:
			o := Orphan{Path: w.Path, Kind: OrphanPayload}
			if size, err := fs.DirSize(w.Path); err == nil {
				o.Size = size
			}
			orphans = append(orphans, o)
		}
	}

	return orphans, nil
}
