package trash

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestResolveHomeTrash(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "Trash")

	r := NewResolver(root)
	dir, err := r.Resolve(VolumeInfo{Home: true, MountRoot: tmp})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if !dir.Home {
		t.Error("directory not marked as home trash")
	}
	if dir.Root != root {
		t.Errorf("root = %q, want %q", dir.Root, root)
	}
	for _, sub := range []string{dir.FilesDir(), dir.InfoDir()} {
		fi, err := os.Stat(sub)
		if err != nil {
			t.Fatalf("%s not created: %v", sub, err)
		}
		if !fi.IsDir() {
			t.Errorf("%s is not a directory", sub)
		}
		if perm := fi.Mode().Perm(); perm != 0700 {
			t.Errorf("%s mode = %o, want 0700", sub, perm)
		}
	}
}

func TestResolveHomeTrashXDGDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := NewResolver("").Resolve(VolumeInfo{Home: true, MountRoot: tmp})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := filepath.Join(tmp, "Trash")
	if dir.Root != want {
		t.Errorf("root = %q, want %q", dir.Root, want)
	}
}

func TestResolveTopdirFallbackCreated(t *testing.T) {
	mount := t.TempDir()

	dir, err := NewResolver("").Resolve(VolumeInfo{MountRoot: mount})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := filepath.Join(mount, ".Trash-"+strconv.Itoa(os.Getuid()))
	if dir.Root != want {
		t.Errorf("root = %q, want %q", dir.Root, want)
	}
	if dir.Home {
		t.Error("topdir trash marked as home")
	}
	if _, err := os.Stat(dir.FilesDir()); err != nil {
		t.Errorf("files/ not created: %v", err)
	}
}

func TestResolveTopdirSharedTrash(t *testing.T) {
	mount := t.TempDir()
	shared := filepath.Join(mount, ".Trash")
	if err := os.Mkdir(shared, 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(shared, 0777|os.ModeSticky); err != nil {
		t.Fatal(err)
	}

	dir, err := NewResolver("").Resolve(VolumeInfo{MountRoot: mount})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := filepath.Join(shared, strconv.Itoa(os.Getuid()))
	if dir.Root != want {
		t.Errorf("root = %q, want %q", dir.Root, want)
	}
}

func TestResolveTopdirSharedTrashRejected(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, mount string)
	}{
		{
			name: "missing sticky bit",
			setup: func(t *testing.T, mount string) {
				if err := os.Mkdir(filepath.Join(mount, ".Trash"), 0777); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "symlink",
			setup: func(t *testing.T, mount string) {
				real := filepath.Join(mount, "real-trash")
				if err := os.Mkdir(real, 0777); err != nil {
					t.Fatal(err)
				}
				if err := os.Symlink(real, filepath.Join(mount, ".Trash")); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "regular file",
			setup: func(t *testing.T, mount string) {
				writeTestFile(t, filepath.Join(mount, ".Trash"), "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mount := t.TempDir()
			tt.setup(t, mount)

			dir, err := NewResolver("").Resolve(VolumeInfo{MountRoot: mount})
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}

			// The rejected candidate must fall through to .Trash-$uid,
			// and the shared directory must not have been touched.
			want := filepath.Join(mount, ".Trash-"+strconv.Itoa(os.Getuid()))
			if dir.Root != want {
				t.Errorf("root = %q, want fallback %q", dir.Root, want)
			}
			if _, err := os.Stat(filepath.Join(mount, ".Trash", strconv.Itoa(os.Getuid()))); !os.IsNotExist(err) {
				t.Error("per-user directory created inside rejected shared trash")
			}
		})
	}
}

func TestResolveUnsupportedVolume(t *testing.T) {
	// A mount root that is a regular file: nothing can be created there
	tmp := t.TempDir()
	bogus := filepath.Join(tmp, "not-a-dir")
	writeTestFile(t, bogus, "")

	_, err := NewResolver("").Resolve(VolumeInfo{MountRoot: bogus})
	if !IsUnsupportedVolume(err) {
		t.Errorf("Resolve() = %v, want ErrUnsupportedVolume", err)
	}
}
