// Package fs provides the low-level filesystem primitives the trash core
// is built on: exclusive file creation, device-aware moves, and recursive
// sizing.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// CreateExclusive creates a new file with O_EXCL so creation fails if the
// path is already taken. This is the primitive behind collision-free
// metadata allocation: losing a race surfaces as fs.ErrExist instead of a
// silent overwrite.
func CreateExclusive(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// DirSize returns the total size in bytes of the file or directory tree at
// path. Symlinks are not followed.
func DirSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var size int64
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			size += fi.Size()
		}
		return nil
	})
	return size, err
}

// Exists reports whether something exists at path. Symlinks count even
// when dangling.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
