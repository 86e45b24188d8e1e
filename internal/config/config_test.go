package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trash", "config.yaml")

	cfg, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if cfg.Core.Verbose {
		t.Error("default verbose should be false")
	}
	if cfg.Listing.Include.Period != 0 {
		t.Errorf("default period = %d, want 0", cfg.Listing.Include.Period)
	}
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `core:
  trash_dir: /var/tmp/mytrash
  verbose: true
  logging:
    enabled: true
listing:
  include:
    within_days: 7
  exclude:
    files: [secret.txt]
    globs: ["*.bak"]
    size:
      min: 1KB
      max: 10GB
`)

	cfg, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Core.TrashDir != "/var/tmp/mytrash" {
		t.Errorf("trash_dir = %q", cfg.Core.TrashDir)
	}
	if !cfg.Core.Verbose || !cfg.Core.Logging.Enabled {
		t.Error("verbose and logging should be enabled")
	}
	if cfg.Listing.Include.Period != 7 {
		t.Errorf("period = %d, want 7", cfg.Listing.Include.Period)
	}
	if len(cfg.Listing.Exclude.Files) != 1 || cfg.Listing.Exclude.Files[0] != "secret.txt" {
		t.Errorf("exclude files = %v", cfg.Listing.Exclude.Files)
	}
	if cfg.Listing.Exclude.Size.Min != "1KB" {
		t.Errorf("size min = %q", cfg.Listing.Exclude.Size.Min)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "relative trash_dir",
			content: `core:
  trash_dir: relative/path
`,
		},
		{
			name: "bad size",
			content: `listing:
  exclude:
    size:
      min: lots
`,
		},
		{
			name: "negative period",
			content: `listing:
  include:
    within_days: -1
`,
		},
		{
			name:    "malformed yaml",
			content: "core: [not a map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidSize(t *testing.T) {
	valid := []string{"", "10B", "1KB", "512kb", "10MB", "2GiB", "1TB"}
	invalid := []string{"ten", "10", "KB", "-5MB", "10 XB"}

	for _, v := range valid {
		cfg := Config{Listing: Listing{Exclude: ExcludeConfig{Size: SizeConfig{Min: v}}}}
		if err := cfg.validateAll(); err != nil {
			t.Errorf("size %q rejected: %v", v, err)
		}
	}
	for _, v := range invalid {
		cfg := Config{Listing: Listing{Exclude: ExcludeConfig{Size: SizeConfig{Min: v}}}}
		if err := cfg.validateAll(); err == nil {
			t.Errorf("size %q accepted", v)
		}
	}
}
