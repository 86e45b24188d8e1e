// Package trash implements the FreeDesktop.org trash directory resolution
// and entry lifecycle: deciding which trash directory a path belongs to,
// allocating collision-free entries, and listing, restoring, and purging
// them.
package trash

import "path/filepath"

const trashInfoExt = ".trashinfo"

// Directory is a single trash directory: either the home trash under the
// user's data directory or a topdir trash at the root of another volume.
// Its files/ and info/ subdirectories always exist together.
type Directory struct {
	// Root is the trash directory itself
	// (e.g., ~/.local/share/Trash or /media/disk/.Trash-1000)
	Root string

	// Topdir is the root of the volume this trash belongs to. Paths in
	// metadata records are stored relative to it when possible.
	Topdir string

	// Home reports whether this is the home trash
	Home bool
}

// NewDirectory builds a Directory for root on the volume rooted at topdir.
func NewDirectory(root, topdir string, home bool) *Directory {
	return &Directory{Root: root, Topdir: topdir, Home: home}
}

// FilesDir returns the payload directory
func (d *Directory) FilesDir() string {
	return filepath.Join(d.Root, "files")
}

// InfoDir returns the metadata directory
func (d *Directory) InfoDir() string {
	return filepath.Join(d.Root, "info")
}

// PayloadPath returns the payload path for the given entry name
func (d *Directory) PayloadPath(name string) string {
	return filepath.Join(d.FilesDir(), name)
}

// InfoPath returns the metadata record path for the given entry name
func (d *Directory) InfoPath(name string) string {
	return filepath.Join(d.InfoDir(), name+trashInfoExt)
}
