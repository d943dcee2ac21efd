package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileWriter_Write(t *testing.T) {
	tmpDir := t.TempDir()

	fw, err := NewFileWriter(tmpDir)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer fw.Close()

	if _, err := fw.Write([]byte(`{"msg":"test"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if fw.Path() != todayFile(tmpDir) {
		t.Errorf("Path() = %s, want %s", fw.Path(), todayFile(tmpDir))
	}
	content, err := os.ReadFile(todayFile(tmpDir))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), `{"msg":"test"}`) {
		t.Errorf("expected content to contain test message, got: %s", content)
	}
}

func TestFileWriter_LatestSymlink(t *testing.T) {
	tmpDir := t.TempDir()

	fw, err := NewFileWriter(tmpDir)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer fw.Close()

	target, err := os.Readlink(filepath.Join(tmpDir, latestName))
	if err != nil {
		t.Fatalf("reading symlink: %v", err)
	}
	if want := filepath.Base(todayFile(tmpDir)); target != want {
		t.Errorf("expected symlink to point to %s, got %s", want, target)
	}
}

func TestFileWriter_RotatesAtMidnight(t *testing.T) {
	tmpDir := t.TempDir()

	fw, err := NewFileWriter(tmpDir)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer fw.Close()

	tomorrow := time.Now().AddDate(0, 0, 1)
	fw.now = func() time.Time { return tomorrow }

	if _, err := fw.Write([]byte("next day\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	next := filepath.Join(tmpDir, fileName(tomorrow.Format(dateLayout)))
	content, err := os.ReadFile(next)
	if err != nil {
		t.Fatalf("reading rotated file: %v", err)
	}
	if string(content) != "next day\n" {
		t.Errorf("rotated file content = %q", content)
	}
	if target, _ := os.Readlink(filepath.Join(tmpDir, latestName)); target != filepath.Base(next) {
		t.Errorf("symlink should follow rotation, got %s", target)
	}
}

func TestFileWriter_WriteAfterClose(t *testing.T) {
	fw, err := NewFileWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if _, err := fw.Write([]byte("late")); err != os.ErrClosed {
		t.Errorf("Write after Close = %v, want os.ErrClosed", err)
	}
}

func TestCleanup(t *testing.T) {
	tmpDir := t.TempDir()

	old := fileName(time.Now().AddDate(0, 0, -10).Format(dateLayout))
	recent := fileName(time.Now().AddDate(0, 0, -1).Format(dateLayout))
	for _, name := range []string{old, recent, "notes.txt", "2001-01-01.jsonl"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	Cleanup(tmpDir, 7)

	tests := []struct {
		name string
		keep bool
	}{
		{old, false},
		{recent, true},
		{"notes.txt", true},
		{"2001-01-01.jsonl", true},
	}
	for _, tt := range tests {
		_, err := os.Stat(filepath.Join(tmpDir, tt.name))
		if exists := err == nil; exists != tt.keep {
			t.Errorf("%s: exists = %v, want %v", tt.name, exists, tt.keep)
		}
	}
}

func TestCleanup_MissingDir(t *testing.T) {
	// Must not panic.
	Cleanup(filepath.Join(t.TempDir(), "absent"), 1)
}
