package cli

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/jedwillick/trash/internal/trash"
)

// selectEntries matches patterns against trash entry names, the way the
// original shell usage globs inside the trash directory. With no patterns
// every entry is selected.
func selectEntries(entries []*trash.Entry, patterns []string) ([]*trash.Entry, error) {
	if len(patterns) == 0 {
		return entries, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	var selected []*trash.Entry
	for _, entry := range entries {
		for _, g := range globs {
			if g.Match(entry.Name) {
				selected = append(selected, entry)
				break
			}
		}
	}
	return selected, nil
}
