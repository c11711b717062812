// Package activity records workspace file activity into a bounded log and
// controls whether recording is on.
package activity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

// Store is the append-only NDJSON activity log, capped at maxEntries lines.
// The daemon is its only writer; the mutex serializes the watcher goroutine
// against control API handlers.
type Store struct {
	mu         sync.Mutex
	path       string
	maxEntries int
}

// NewStore creates a store backed by path. The file is created on first append.
func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = models.DefaultMaxEntries
	}
	return &Store{path: path, maxEntries: maxEntries}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// MaxEntries returns the rotation cap.
func (s *Store) MaxEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxEntries
}

// SetMaxEntries changes the rotation cap. It takes effect on the next append.
func (s *Store) SetMaxEntries(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.maxEntries = n
	s.mu.Unlock()
}

// Append writes entry as one JSON line and then rotates the file down to the
// most recent maxEntries lines. Rotation failures are logged, not returned.
func (s *Store) Append(entry models.LogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open activity log: %w", err)
	}
	partial, err := endsMidLine(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to read activity log: %w", err)
	}
	if partial {
		line = append([]byte{'\n'}, line...)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write to log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}

	if err := s.rotateLocked(); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("failed to rotate log")
	}
	return nil
}

// endsMidLine reports whether f is non-empty and its last byte is not a
// newline, as left behind by an interrupted write.
func endsMidLine(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// rotateLocked rewrites the file with only the newest maxEntries lines when
// the line count exceeds the cap. Oldest lines are dropped first.
func (s *Store) rotateLocked() error {
	lines, err := s.readLinesLocked()
	if err != nil {
		return err
	}
	if len(lines) <= s.maxEntries {
		return nil
	}

	keep := lines[len(lines)-s.maxEntries:]
	var buf bytes.Buffer
	for _, l := range keep {
		buf.Write(l)
		buf.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}

	log.Debug().Int("dropped", len(lines)-len(keep)).Msg("rotated activity log")
	return nil
}

// readLinesLocked returns the non-blank lines of the log. A missing file
// yields no lines and no error.
func (s *Store) readLinesLocked() ([][]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var lines [][]byte
	for _, l := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(l)) == 0 {
			continue
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// ReadRecent returns up to n of the most recent entries in chronological
// order. Lines that do not parse are skipped. n <= 0 returns every entry.
func (s *Store) ReadRecent(n int) ([]models.LogEntry, error) {
	s.mu.Lock()
	lines, err := s.readLinesLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}

	entries := make([]models.LogEntry, 0, len(lines))
	for _, l := range lines {
		var e models.LogEntry
		if err := json.Unmarshal(l, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// Count returns the number of non-blank lines currently in the log.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.readLinesLocked()
	if err != nil {
		return 0, fmt.Errorf("failed to read activity log: %w", err)
	}
	return len(lines), nil
}

// Clear deletes the log file. Clearing an absent log succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear activity log: %w", err)
	}
	return nil
}
