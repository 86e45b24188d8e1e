package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedwillick/trash/internal/fs"
)

// ConflictPolicy controls what Restore does when the original path is
// already occupied.
type ConflictPolicy int

const (
	// ConflictAbort fails with ErrConflict, leaving both the existing
	// file and the trashed entry untouched. This is the default; user
	// data is never silently overwritten.
	ConflictAbort ConflictPolicy = iota

	// ConflictOverwrite replaces the existing file with the restored one
	ConflictOverwrite

	// ConflictRename restores under a deterministic suffixed name next to
	// the existing file
	ConflictRename
)

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictAbort:
		return "abort"
	case ConflictOverwrite:
		return "overwrite"
	case ConflictRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Restore moves an entry's payload back to its original path and removes
// the metadata record. The record is deleted only after the payload move
// succeeds, mirroring allocation's ordering in reverse: a crash before the
// move leaves the entry fully intact and restorable again.
func Restore(entry *Entry, policy ConflictPolicy) error {
	if entry.Unreadable {
		return NewOpError("restore", entry.Name, ErrUnreadable)
	}

	dst := entry.OriginalPath
	if _, err := os.Lstat(dst); err == nil {
		switch policy {
		case ConflictAbort:
			return NewOpError("restore", dst, ErrConflict)
		case ConflictOverwrite:
			if err := os.RemoveAll(dst); err != nil {
				return NewOpError("restore", dst, fmt.Errorf("remove existing: %w", err))
			}
		case ConflictRename:
			renamed, err := nextFreeRestorePath(dst)
			if err != nil {
				return NewOpError("restore", dst, err)
			}
			dst = renamed
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return NewOpError("restore", dst, fmt.Errorf("%w: %v", ErrRestore, err))
	}

	if err := fs.Move(entry.PayloadPath(), dst); err != nil {
		return NewOpError("restore", dst, err)
	}

	if err := os.Remove(entry.InfoPath()); err != nil {
		// The payload is already back in place; a stale record is a
		// reportable orphan, not a failed restore.
		slog.Warn("cannot remove trash info after restore", "path", entry.InfoPath(), "error", err)
	}

	return nil
}

// nextFreeRestorePath returns path suffixed with the smallest unused
// counter, using the same deterministic scheme as entry allocation. Any
// probe failure other than "does not exist" is returned; treating it as
// "taken" would loop forever against a persistently failing parent.
func nextFreeRestorePath(path string) (string, error) {
	candidate := path
	for counter := 1; ; counter++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d", path, counter)
	}
}
