package trash

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedwillick/trash/internal/fs"
)

const (
	// According to the XDG trash specification
	trashInfoHeader = "[Trash Info]"
	timeFormat      = "2006-01-02T15:04:05"
)

// Info is the contents of a .trashinfo metadata record
type Info struct {
	// Path is the original path, absolute or topdir-relative
	Path string

	// DeletionDate is when the file was moved to trash, local time
	DeletionDate time.Time
}

// ParseInfo reads a .trashinfo record. A missing header, missing required
// key, or undecodable Path is an error; callers decide whether that makes
// the entry unreadable or unlistable.
func ParseInfo(r io.Reader) (*Info, error) {
	scanner := bufio.NewScanner(r)
	info := &Info{}
	var headerFound bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == trashInfoHeader {
			headerFound = true
			continue
		}
		if !headerFound {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "Path":
			path, err := DecodePath(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Path encoding: %w", err)
			}
			info.Path = path

		case "DeletionDate":
			date, err := time.ParseInLocation(timeFormat, value, time.Local)
			if err != nil {
				return nil, fmt.Errorf("invalid DeletionDate format: %w", err)
			}
			info.DeletionDate = date
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read info file: %w", err)
	}

	if !headerFound {
		return nil, fmt.Errorf("missing %s header", trashInfoHeader)
	}
	if info.Path == "" {
		return nil, fmt.Errorf("missing Path field")
	}
	if info.DeletionDate.IsZero() {
		return nil, fmt.Errorf("missing DeletionDate field")
	}

	return info, nil
}

// AbsolutePath resolves the recorded path against the volume root the
// trash directory belongs to.
func (i *Info) AbsolutePath(topdir string) string {
	if filepath.IsAbs(i.Path) {
		return i.Path
	}
	if topdir != "" {
		return filepath.Join(topdir, i.Path)
	}
	return i.Path
}

// relativeTo returns the recorded path relative to topdir when the path
// lies under it, otherwise the absolute path unchanged.
func (i *Info) relativeTo(topdir string) string {
	if topdir == "" || !filepath.IsAbs(i.Path) {
		return i.Path
	}
	rel, err := filepath.Rel(topdir, i.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return i.Path
	}
	return rel
}

// Write persists the record at path, storing the original path relative to
// topdir when possible. Creation is exclusive: if path already exists the
// write fails with fs.ErrExist so concurrent allocators cannot clobber
// each other's records.
func (i *Info) Write(path, topdir string) error {
	content := new(strings.Builder)
	fmt.Fprintln(content, trashInfoHeader)
	fmt.Fprintf(content, "Path=%s\n", EncodePath(i.relativeTo(topdir)))
	fmt.Fprintf(content, "DeletionDate=%s\n", i.DeletionDate.Format(timeFormat))

	f, err := fs.CreateExclusive(path, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(content.String()); err != nil {
		os.Remove(path)
		return fmt.Errorf("write info file: %w", err)
	}

	return nil
}

// EncodePath percent-encodes a path for a .trashinfo record:
// - Forward slashes are not encoded
// - Spaces become %20 (not +)
// - Reserved and non-ASCII bytes are percent-encoded
func EncodePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		subparts := strings.Split(part, " ")
		for j, subpart := range subparts {
			subparts[j] = url.QueryEscape(subpart)
		}
		parts[i] = strings.Join(subparts, "%20")
	}
	return strings.Join(parts, "/")
}

// DecodePath reverses EncodePath exactly
func DecodePath(encoded string) (string, error) {
	return url.QueryUnescape(encoded)
}

// loadInfo loads and parses a .trashinfo file
func loadInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseInfo(f)
}
