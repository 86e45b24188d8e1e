package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

// Resolver maps a volume classification to the trash directory that files
// on that volume must be moved into, creating it when allowed.
type Resolver struct {
	// homeTrashDir overrides the home trash location; empty means
	// $XDG_DATA_HOME/Trash with the usual ~/.local/share fallback
	homeTrashDir string

	uid int
}

// NewResolver creates a Resolver. homeTrashDir may be empty to use the
// XDG default.
func NewResolver(homeTrashDir string) *Resolver {
	return &Resolver{
		homeTrashDir: homeTrashDir,
		uid:          os.Getuid(),
	}
}

// Resolve returns the trash directory for the given volume, creating
// missing substructure with mode 0700. It never deletes or repairs
// existing directories. For a non-home volume with no usable candidate it
// fails with ErrUnsupportedVolume; there is no fallback to the home trash,
// since that would silently turn a rename into a cross-device copy.
func (r *Resolver) Resolve(vol VolumeInfo) (*Directory, error) {
	if vol.Home {
		return r.homeTrash(vol)
	}
	return r.topdirTrash(vol)
}

// HomeTrash resolves and prepares the home trash directory
func (r *Resolver) HomeTrash() (*Directory, error) {
	return r.homeTrash(VolumeInfo{Home: true})
}

func (r *Resolver) homeTrash(vol VolumeInfo) (*Directory, error) {
	root := r.homeTrashDir
	if root == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		root = filepath.Join(dataDir, "Trash")
	}

	topdir := vol.MountRoot
	if topdir == "" {
		if mount, err := mountPointOf(filepath.Dir(root)); err == nil {
			topdir = mount
		}
	}

	dir := NewDirectory(root, topdir, true)
	if err := ensureTrashLayout(dir); err != nil {
		return nil, NewOpError("resolve", root, err)
	}
	return dir, nil
}

func (r *Resolver) topdirTrash(vol VolumeInfo) (*Directory, error) {
	// Candidate 1: $topdir/.Trash/$uid, only when the shared .Trash
	// passes the safety checks. A failing check rejects the
	// candidate outright; fixing permissions on a shared directory is
	// not our call.
	shared := filepath.Join(vol.MountRoot, ".Trash")
	if fi, err := os.Lstat(shared); err == nil {
		if err := checkSharedTrash(shared, fi); err != nil {
			slog.Warn("rejecting shared trash directory", "path", shared, "reason", err)
		} else {
			dir := NewDirectory(filepath.Join(shared, strconv.Itoa(r.uid)), vol.MountRoot, false)
			if err := ensureTrashLayout(dir); err == nil {
				return dir, nil
			}
			slog.Warn("cannot prepare per-user directory in shared trash", "path", dir.Root)
		}
	}

	// Candidate 2: $topdir/.Trash-$uid, created on demand
	dir := NewDirectory(filepath.Join(vol.MountRoot, fmt.Sprintf(".Trash-%d", r.uid)), vol.MountRoot, false)
	if err := ensureTrashLayout(dir); err != nil {
		return nil, NewOpError("resolve", vol.MountRoot, fmt.Errorf("%w: %v", ErrUnsupportedVolume, err))
	}
	return dir, nil
}

// checkSharedTrash validates a $topdir/.Trash directory: it must be a
// real directory (not a symlink), have the sticky bit set, and be
// writable by the current user.
func checkSharedTrash(path string, fi os.FileInfo) error {
	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("is a symbolic link")
	}
	if !fi.IsDir() {
		return fmt.Errorf("not a directory")
	}
	if fi.Mode()&os.ModeSticky == 0 {
		return fmt.Errorf("sticky bit not set")
	}
	if err := syscall.Access(path, 0x2); err != nil { // W_OK
		return fmt.Errorf("not writable: %w", err)
	}
	return nil
}

// ensureTrashLayout creates the files/ and info/ subdirectories with mode
// 0700, creating the trash root itself as needed.
func ensureTrashLayout(dir *Directory) error {
	for _, sub := range []string{dir.FilesDir(), dir.InfoDir()} {
		if err := os.MkdirAll(sub, 0700); err != nil {
			return fmt.Errorf("create %s: %w", sub, err)
		}
	}
	return nil
}
