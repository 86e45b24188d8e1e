package fs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	cp "github.com/otiai10/copy"
)

// ErrDestinationExists is returned by Move when the destination path is
// already occupied. Move never overwrites.
var ErrDestinationExists = errors.New("destination already exists")

// Move moves a file or directory from src to dst. On the same device this
// is a single rename(2) and therefore atomic. Across devices it falls back
// to copy-then-delete; the copy is verified against the source size before
// the source is removed, so a partial copy is reported rather than
// silently accepted.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	if Exists(dst) {
		return ErrDestinationExists
	}

	same, err := sameDevice(src, filepath.Dir(dst))
	if err != nil {
		return err
	}
	if same {
		return os.Rename(src, dst)
	}

	slog.Debug("cross-device move, falling back to copy and delete", "src", src, "dst", dst)
	return copyAndDelete(src, dst)
}

// copyAndDelete copies src to dst recursively and removes src only after
// the copy has been verified complete.
func copyAndDelete(src, dst string) error {
	opts := cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Shallow
		},
		PreserveTimes: true,
		PreserveOwner: true,
		Sync:          true,
	}

	if err := cp.Copy(src, dst, opts); err != nil {
		os.RemoveAll(dst)
		return fmt.Errorf("copy: %w", err)
	}

	// A crash or transport error mid-copy leaves a short destination.
	// Never delete the source in that state.
	srcSize, err := DirSize(src)
	if err != nil {
		return fmt.Errorf("size source: %w", err)
	}
	dstSize, err := DirSize(dst)
	if err != nil {
		return fmt.Errorf("size destination: %w", err)
	}
	if srcSize != dstSize {
		os.RemoveAll(dst)
		return fmt.Errorf("incomplete copy of %s: %d of %d bytes", src, dstSize, srcSize)
	}

	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// sameDevice checks whether two paths reside on the same filesystem by
// comparing st_dev.
func sameDevice(path1, path2 string) (bool, error) {
	info1, err := os.Stat(path1)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path1, err)
	}
	info2, err := os.Stat(path2)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path2, err)
	}

	stat1, ok1 := info1.Sys().(*syscall.Stat_t)
	stat2, ok2 := info2.Sys().(*syscall.Stat_t)
	if !ok1 || !ok2 {
		return false, errors.New("device information unavailable")
	}

	return stat1.Dev == stat2.Dev, nil
}
