package trash

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/k1LoW/duration"
	"github.com/samber/lo"

	"github.com/jedwillick/trash/internal/config"
	"github.com/jedwillick/trash/internal/fs"
)

// Filterable defines the interface that trashed files must implement to be
// filtered.
type Filterable interface {
	// GetName returns the original name of the file
	GetName() string
	// GetPath returns the current path in trash
	GetPath() string
	// GetDeletedAt returns when the file was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds listing filter configuration
type FilterOptions struct {
	Include config.IncludeConfig
	Exclude config.ExcludeConfig
}

// Filter applies the configured listing filters to a slice of items
func Filter[T Filterable](items []T, opts FilterOptions) []T {
	items = rejectByNames(items, opts.Exclude.Files)
	items = rejectByPatterns(items, opts.Exclude.Patterns)
	items = rejectByGlobs(items, opts.Exclude.Globs)
	items = rejectBySize(items, opts.Exclude.Size, fs.DirSize)
	items = filterByPeriod(items, opts.Include.Period)
	return items
}

func rejectByNames[T Filterable](items []T, excludeFiles []string) []T {
	if len(excludeFiles) == 0 {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		return !lo.Contains(excludeFiles, item.GetName())
	})
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}
	res := lo.FilterMap(patterns, func(pattern string, _ int) (*regexp.Regexp, bool) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("ignoring invalid exclude pattern", "pattern", pattern, "error", err)
			return nil, false
		}
		return re, true
	})
	return lo.Filter(items, func(item T, _ int) bool {
		return !lo.SomeBy(res, func(re *regexp.Regexp) bool {
			return re.MatchString(item.GetName())
		})
	})
}

func rejectByGlobs[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}
	globs := lo.FilterMap(patterns, func(pattern string, _ int) (glob.Glob, bool) {
		g, err := glob.Compile(pattern)
		if err != nil {
			slog.Warn("ignoring invalid exclude glob", "glob", pattern, "error", err)
			return nil, false
		}
		return g, true
	})
	return lo.Filter(items, func(item T, _ int) bool {
		return !lo.SomeBy(globs, func(g glob.Glob) bool {
			return g.Match(item.GetName())
		})
	})
}

func rejectBySize[T Filterable](items []T, size config.SizeConfig, sizeOf func(string) (int64, error)) []T {
	if size.Min == "" && size.Max == "" {
		return items
	}

	minSize, maxSize := int64(-1), int64(-1)
	if size.Min != "" {
		if v, err := units.FromHumanSize(size.Min); err == nil {
			minSize = v
		}
	}
	if size.Max != "" {
		if v, err := units.FromHumanSize(size.Max); err == nil {
			maxSize = v
		}
	}

	return lo.Filter(items, func(item T, _ int) bool {
		itemSize, err := sizeOf(item.GetPath())
		if err != nil {
			return false
		}
		if minSize >= 0 && itemSize <= minSize {
			return false
		}
		if maxSize >= 0 && maxSize <= itemSize {
			return false
		}
		return true
	})
}

func filterByPeriod[T Filterable](items []T, period int) []T {
	if period <= 0 {
		return items
	}

	d, err := duration.Parse(fmt.Sprintf("%d days", period))
	if err != nil {
		slog.Error("failed to parse duration", "error", err)
		return items
	}

	return lo.Filter(items, func(item T, _ int) bool {
		return time.Since(item.GetDeletedAt()) < d
	})
}
