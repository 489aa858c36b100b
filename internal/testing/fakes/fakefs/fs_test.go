package fakefs

import (
	"errors"
	"io/fs"
	"testing"
)

func TestFS_ReadWriteFile(t *testing.T) {
	f := New()

	// WriteFile auto-creates parent directories (like production behavior)
	err := f.WriteFile("/nonexistent/nested/file.txt", []byte("data"), 0644)
	if err != nil {
		t.Fatalf("WriteFile() should auto-create parents, got error: %v", err)
	}

	// Verify data was written
	data, err := f.ReadFile("/nonexistent/nested/file.txt")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "data" {
		t.Errorf("ReadFile() = %q, want %q", data, "data")
	}

	// Test overwrite
	err = f.WriteFile("/nonexistent/nested/file.txt", []byte("updated"), 0644)
	if err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	data, err = f.ReadFile("/nonexistent/nested/file.txt")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "updated" {
		t.Errorf("ReadFile() = %q, want %q", data, "updated")
	}
}

func TestFS_Stat(t *testing.T) {
	f := New()
	f.AddFile("/tmp/test.txt", []byte("hello"), 0644)

	info, err := f.Stat("/tmp/test.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if info.Name() != "test.txt" {
		t.Errorf("Name() = %q, want %q", info.Name(), "test.txt")
	}
	if info.Size() != 5 {
		t.Errorf("Size() = %d, want %d", info.Size(), 5)
	}
	if info.IsDir() {
		t.Error("IsDir() = true, want false")
	}
}

func TestFS_StatNotExist(t *testing.T) {
	f := New()

	_, err := f.Stat("/nonexistent")
	if err == nil {
		t.Error("Stat() should return error for nonexistent file")
	}
	if !isNotExist(err) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestFS_MkdirAll(t *testing.T) {
	f := New()

	err := f.MkdirAll("/a/b/c/d", 0755)
	if err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	// Verify directories exist via Stat
	for _, path := range []string{"/a", "/a/b", "/a/b/c", "/a/b/c/d"} {
		info, err := f.Stat(path)
		if err != nil {
			t.Errorf("Stat(%q) error = %v", path, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Stat(%q).IsDir() = false, want true", path)
		}
	}
}

func TestFS_FailWrites(t *testing.T) {
	f := New()
	boom := errors.New("disk full")

	f.FailWrites(boom)
	err := f.WriteFile("/tmp/out.cast", []byte("x"), 0600)
	if !errors.Is(err, boom) {
		t.Fatalf("WriteFile() error = %v, want %v", err, boom)
	}
	if _, err := f.Stat("/tmp/out.cast"); err == nil {
		t.Error("failed write created the file")
	}

	f.FailWrites(nil)
	if err := f.WriteFile("/tmp/out.cast", []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile() after restore error = %v", err)
	}
	if f.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", f.Writes())
	}
	if got := f.Files(); len(got) != 1 || got[0] != "/tmp/out.cast" {
		t.Errorf("Files() = %v", got)
	}
}

func TestFS_HomeAndEnv(t *testing.T) {
	f := New()
	f.SetHomeDir("/home/runner")
	f.SetEnv("XDG_CONFIG_HOME", "/cfg")

	if home, _ := f.UserHomeDir(); home != "/home/runner" {
		t.Errorf("UserHomeDir() = %q", home)
	}
	if v := f.Getenv("XDG_CONFIG_HOME"); v != "/cfg" {
		t.Errorf("Getenv() = %q", v)
	}
	if v := f.Getenv("UNSET"); v != "" {
		t.Errorf("Getenv(UNSET) = %q, want empty", v)
	}
}

func TestFS_AddFile(t *testing.T) {
	f := New()
	f.AddFile("/deep/nested/path/file.txt", []byte("content"), 0644)

	data, err := f.ReadFile("/deep/nested/path/file.txt")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "content" {
		t.Errorf("ReadFile() = %q, want %q", data, "content")
	}
}

func isNotExist(err error) bool {
	if pathErr, ok := err.(*fs.PathError); ok {
		return pathErr.Err == fs.ErrNotExist
	}
	return false
}
