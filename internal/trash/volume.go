package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/moby/sys/mountinfo"
	"github.com/samber/lo"
)

// VolumeInfo identifies the storage device backing a path. It is used only
// for classification and never persisted.
type VolumeInfo struct {
	// Dev is the device identifier (st_dev)
	Dev uint64

	// MountRoot is the mount point of the filesystem holding the path
	MountRoot string

	// Home reports whether this is the same device as the user's home
	// directory
	Home bool
}

// Skip file systems that can't have trash directories
var skipFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"tmpfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"configfs":    true,
	"fusectl":     true,
	"bpf":         true,
	"nsfs":        true,
	"efivarfs":    true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"binfmt_misc": true,
}

// Classify determines which volume the path resides on. Symlinks are
// followed for the device comparison only; the caller records the
// unresolved path. Returns ErrNotFound when the path does not exist.
func Classify(path string) (VolumeInfo, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return VolumeInfo{}, NewOpError("classify", path, ErrNotFound)
		}
		return VolumeInfo{}, NewOpError("classify", path, err)
	}

	dev, err := deviceOf(resolved)
	if err != nil {
		return VolumeInfo{}, NewOpError("classify", path, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("get home directory: %w", err)
	}
	homeDev, err := deviceOf(home)
	if err != nil {
		return VolumeInfo{}, NewOpError("classify", home, err)
	}

	mount, err := mountPointOf(resolved)
	if err != nil {
		return VolumeInfo{}, NewOpError("classify", path, err)
	}

	slog.Debug("classified path",
		"path", path, "dev", dev, "mount", mount, "home", dev == homeDev)

	return VolumeInfo{
		Dev:       dev,
		MountRoot: mount,
		Home:      dev == homeDev,
	}, nil
}

// deviceOf returns the st_dev of the filesystem object at path
func deviceOf(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("device information unavailable for %s", path)
	}
	return uint64(stat.Dev), nil
}

// SameDevice checks if two paths are on the same device
func SameDevice(path1, path2 string) (bool, error) {
	dev1, err := deviceOf(path1)
	if err != nil {
		return false, err
	}
	dev2, err := deviceOf(path2)
	if err != nil {
		return false, err
	}
	return dev1 == dev2, nil
}

// mountPointOf returns the mount point of the filesystem holding path,
// chosen as the longest mount point that is a path prefix of it.
func mountPointOf(path string) (string, error) {
	mounts, err := mountinfo.GetMounts(nil)
	if err != nil {
		return "", fmt.Errorf("get mount info: %w", err)
	}

	var longest string
	for _, m := range mounts {
		if !isPathPrefix(m.Mountpoint, path) {
			continue
		}
		if len(m.Mountpoint) > len(longest) {
			longest = m.Mountpoint
		}
	}

	if longest == "" {
		return "/", nil
	}
	return longest, nil
}

// isPathPrefix reports whether prefix is a whole-component prefix of path,
// so /media/disk1 does not claim /media/disk10.
func isPathPrefix(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}

// mountPoints returns the mount points that could hold a topdir trash,
// skipping pseudo and read-only filesystems.
func mountPoints() ([]string, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		if skipFSTypes[info.FSType] {
			return true, false
		}
		for _, opt := range strings.Split(info.Options, ",") {
			if opt == "ro" {
				return true, false
			}
		}
		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("get mount info: %w", err)
	}

	points := lo.Uniq(lo.Map(mounts, func(m *mountinfo.Info, _ int) string {
		return m.Mountpoint
	}))
	if !lo.Contains(points, "/") {
		points = append(points, "/")
	}

	return points, nil
}
