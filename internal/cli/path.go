package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Common paths that should never be trashed
var protectedPaths = []string{
	"/",
	"/home",
	"/usr",
	"/etc",
	"/var",
	"/tmp",
}

// isUnsafePath checks if the given path is unsafe to remove
func isUnsafePath(path string) (bool, error) {
	// Check the original input before any normalization so "." and ".."
	// are caught as given.
	originalBase := filepath.Base(path)
	if originalBase == "." || originalBase == ".." {
		return true, nil
	}

	cleaned := filepath.Clean(path)
	if cleaned == "/" {
		return true, nil
	}

	if strings.HasPrefix(path, "//") {
		return true, nil
	}

	return false, nil
}

// validatePath checks if path is valid for trashing
func validatePath(path string) error {
	if unsafe, err := isUnsafePath(path); err != nil {
		return err
	} else if unsafe {
		return fmt.Errorf("unsafe path: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for _, p := range protectedPaths {
		if abs == p {
			return fmt.Errorf("cannot trash protected path: %s", path)
		}
	}

	return nil
}
