package trash

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Entry is one trashed item: the pairing of a payload under files/ with a
// metadata record under info/. Entries are created only by Allocate and
// destroyed only by Restore or Empty; they are never updated in place.
type Entry struct {
	// Name is the collision-disambiguated entry name within the trash
	// directory
	Name string

	// OriginalPath is the absolute path the item had before trashing.
	// Empty when the metadata record could not be read.
	OriginalPath string

	// DeletedAt is when the item was trashed, second precision
	DeletedAt time.Time

	// Dir is the trash directory holding this entry. The directory
	// outlives the entry.
	Dir *Directory

	// Size is the payload size in bytes
	Size int64

	// IsDir reports whether the payload is a directory
	IsDir bool

	// Mode is the payload's file mode
	Mode fs.FileMode

	// Unreadable marks an entry whose metadata record is malformed. Such
	// entries are still listed so they can be emptied, but cannot be
	// restored.
	Unreadable bool
}

// PayloadPath returns the path of the payload in the trash
func (e *Entry) PayloadPath() string {
	return e.Dir.PayloadPath(e.Name)
}

// InfoPath returns the path of the metadata record
func (e *Entry) InfoPath() string {
	return e.Dir.InfoPath(e.Name)
}

// Exists checks if the payload still exists in the trash
func (e *Entry) Exists() bool {
	_, err := os.Lstat(e.PayloadPath())
	return err == nil
}

// GetName returns the original base name of the entry
func (e *Entry) GetName() string {
	if e.OriginalPath != "" {
		return filepath.Base(e.OriginalPath)
	}
	return e.Name
}

// GetPath returns the payload path in trash
func (e *Entry) GetPath() string {
	return e.PayloadPath()
}

// GetDeletedAt returns when the entry was trashed
func (e *Entry) GetDeletedAt() time.Time {
	return e.DeletedAt
}
