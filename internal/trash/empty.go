package trash

import (
	"fmt"
	"os"
	"time"

	"github.com/gobwas/glob"
)

// EmptyFilter selects which entries Empty purges. The zero value selects
// everything.
type EmptyFilter struct {
	// OlderThan keeps entries deleted within the duration; zero disables
	// the age check
	OlderThan time.Duration

	// PathGlob matches against the entry's original path; empty disables
	// the check. Entries with unreadable metadata have no known original
	// path and never match a glob.
	PathGlob string

	// Names restricts to entries whose trash name matches one of the
	// given globs; empty disables the check
	Names []string

	// Confirm, when set, is asked about each selected entry before it is
	// purged; entries it declines are skipped, not failed
	Confirm func(*Entry) bool

	// now overrides the clock in tests
	now func() time.Time
}

// Matches reports whether the filter selects the entry
func (f EmptyFilter) Matches(entry *Entry) (bool, error) {
	if len(f.Names) > 0 {
		ok, err := matchAny(f.Names, entry.Name)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if f.PathGlob != "" {
		if entry.Unreadable {
			return false, nil
		}
		g, err := glob.Compile(f.PathGlob)
		if err != nil {
			return false, fmt.Errorf("invalid glob %q: %w", f.PathGlob, err)
		}
		if !g.Match(entry.OriginalPath) {
			return false, nil
		}
	}

	if f.OlderThan > 0 {
		// An unreadable record means the deletion date is unknown, which
		// must never pass for "old enough". Such entries are only purged
		// by name or by a full purge.
		if entry.Unreadable {
			return false, nil
		}
		now := time.Now
		if f.now != nil {
			now = f.now
		}
		if now().Sub(entry.DeletedAt) < f.OlderThan {
			return false, nil
		}
	}

	return true, nil
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		if g.Match(name) {
			return true, nil
		}
	}
	return false, nil
}

// Empty permanently deletes the entries selected by the filter: payload
// first, then the metadata record. A payload that cannot be deleted keeps
// its record, so no orphan metadata is manufactured, and is reported as a
// failure. Processing continues past individual failures; the count of
// successfully purged entries is returned alongside a PartialError
// aggregating whatever failed.
func Empty(entries []*Entry, filter EmptyFilter) (int, error) {
	var purged int
	var failures []Failure

	for _, entry := range entries {
		ok, err := filter.Matches(entry)
		if err != nil {
			return purged, err
		}
		if !ok {
			continue
		}
		if filter.Confirm != nil && !filter.Confirm(entry) {
			continue
		}

		if err := os.RemoveAll(entry.PayloadPath()); err != nil {
			failures = append(failures, Failure{
				Name: entry.Name,
				Path: entry.PayloadPath(),
				Err:  fmt.Errorf("delete payload: %w", err),
			})
			continue
		}

		if err := os.Remove(entry.InfoPath()); err != nil && !os.IsNotExist(err) {
			failures = append(failures, Failure{
				Name: entry.Name,
				Path: entry.InfoPath(),
				Err:  fmt.Errorf("delete trash info: %w", err),
			})
			continue
		}

		purged++
	}

	if len(failures) > 0 {
		return purged, &PartialError{Failures: failures}
	}
	return purged, nil
}
