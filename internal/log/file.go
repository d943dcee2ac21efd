package log

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

const (
	filePrefix = "stacktracer-"
	fileSuffix = ".jsonl"
	dateLayout = "2006-01-02"
	latestName = "latest" + fileSuffix
	fileMode   = 0644
	dirMode    = 0755
)

// FileWriter appends to dir/stacktracer-YYYY-MM-DD.jsonl, switching files at
// midnight. Several processes may share a directory; writes are O_APPEND.
type FileWriter struct {
	dir      string
	mu       sync.Mutex
	file     *os.File
	currDate string
	now      func() time.Time
}

// NewFileWriter creates a FileWriter rooted at dir, creating dir if needed.
func NewFileWriter(dir string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("creating debug log dir: %w", err)
	}

	fw := &FileWriter{dir: dir, now: time.Now}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if err := fw.openLocked(fw.now().Format(dateLayout)); err != nil {
		return nil, err
	}
	return fw, nil
}

// Write implements io.Writer.
func (fw *FileWriter) Write(p []byte) (n int, err error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.file == nil {
		return 0, os.ErrClosed
	}
	if today := fw.now().Format(dateLayout); today != fw.currDate {
		if err := fw.openLocked(today); err != nil {
			return 0, err
		}
	}
	return fw.file.Write(p)
}

// Close closes the underlying file. Further writes fail with os.ErrClosed.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.file == nil {
		return nil
	}
	err := fw.file.Close()
	fw.file = nil
	return err
}

// Path returns the file currently written to.
func (fw *FileWriter) Path() string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return filepath.Join(fw.dir, fileName(fw.currDate))
}

func (fw *FileWriter) openLocked(date string) error {
	name := fileName(date)
	f, err := os.OpenFile(filepath.Join(fw.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	if fw.file != nil {
		fw.file.Close()
	}
	fw.file = f
	fw.currDate = date

	fw.updateSymlink(name)
	return nil
}

func (fw *FileWriter) updateSymlink(target string) {
	symlinkPath := filepath.Join(fw.dir, latestName)
	tmpPath := fmt.Sprintf("%s.%d.tmp", symlinkPath, os.Getpid())

	os.Remove(tmpPath)
	if err := os.Symlink(target, tmpPath); err != nil {
		return // Best effort
	}
	if err := os.Rename(tmpPath, symlinkPath); err != nil {
		os.Remove(tmpPath)
	}
}

func fileName(date string) string {
	return filePrefix + date + fileSuffix
}

// datePattern matches stacktracer-YYYY-MM-DD.jsonl filenames.
var datePattern = regexp.MustCompile(`^` + regexp.QuoteMeta(filePrefix) + `(\d{4}-\d{2}-\d{2})` + regexp.QuoteMeta(fileSuffix) + `$`)

// Cleanup removes log files older than retentionDays. Files that do not
// follow the naming scheme are left alone.
func Cleanup(dir string, retentionDays int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := datePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		fileDate, err := time.Parse(dateLayout, m[1])
		if err != nil {
			continue
		}
		if fileDate.Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
