package trash

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jedwillick/trash/internal/fs"
)

// maxAllocateRetries bounds re-resolution when another process claims a
// candidate name between our check and our exclusive create.
const maxAllocateRetries = 8

// Allocate creates a trash entry for originalPath inside dir: a
// collision-free name, the metadata record, and the payload move.
//
// The metadata record is written before the payload moves. A crash between
// the two leaves the original file untouched plus an orphan record that
// enumeration surfaces for cleanup; the reverse order could lose track of
// a moved file. Name collisions with concurrent allocators are detected by
// the exclusive metadata create and retried with a fresh candidate.
func Allocate(dir *Directory, originalPath string) (*Entry, error) {
	if !filepath.IsAbs(originalPath) {
		return nil, NewOpError("put", originalPath, errors.New("path must be absolute"))
	}

	fi, err := os.Lstat(originalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewOpError("put", originalPath, ErrNotFound)
		}
		return nil, NewOpError("put", originalPath, err)
	}

	base := filepath.Base(originalPath)
	deletedAt := time.Now().Truncate(time.Second)

	for attempt := 0; attempt < maxAllocateRetries; attempt++ {
		name := nextFreeName(dir, base)

		info := &Info{Path: originalPath, DeletionDate: deletedAt}
		err := info.Write(dir.InfoPath(name), dir.Topdir)
		if errors.Is(err, iofs.ErrExist) {
			// Lost the race for this name; pick another.
			slog.Debug("entry name taken, retrying", "name", name, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, NewOpError("put", originalPath, fmt.Errorf("save trash info: %w", err))
		}

		if err := fs.Move(originalPath, dir.PayloadPath(name)); err != nil {
			// The metadata record must not outlive a failed move.
			os.Remove(dir.InfoPath(name))
			if errors.Is(err, fs.ErrDestinationExists) {
				slog.Debug("payload name taken, retrying", "name", name, "attempt", attempt)
				continue
			}
			return nil, NewOpError("put", originalPath, fmt.Errorf("move to trash: %w", err))
		}

		return &Entry{
			Name:         name,
			OriginalPath: originalPath,
			DeletedAt:    deletedAt,
			Dir:          dir,
			Size:         fi.Size(),
			IsDir:        fi.IsDir(),
			Mode:         fi.Mode(),
		}, nil
	}

	return nil, NewOpError("put", originalPath, ErrAllocation)
}

// nextFreeName returns the base name suffixed with the smallest unused
// non-negative counter such that neither the payload nor the metadata name
// is taken. The scheme is deterministic so results are reproducible.
func nextFreeName(dir *Directory, base string) string {
	name := base
	for counter := 1; ; counter++ {
		if !fs.Exists(dir.InfoPath(name)) && !fs.Exists(dir.PayloadPath(name)) {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, counter)
	}
}
