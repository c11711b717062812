package activity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/commitsense/commitsense/internal/ignore"
	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

// Appender persists log entries.
type Appender interface {
	Append(entry models.LogEntry) error
}

// Gate reports whether recording is currently allowed.
type Gate interface {
	Enabled() bool
}

// Document is a saved document as seen by the recorder: a name and sizes only.
type Document interface {
	FileName() string
	LineCount() int
	Length() int
}

// Recorder turns file notifications into log entries.
type Recorder struct {
	workspace string
	filter    *ignore.Filter
	store     Appender
	gate      Gate
	now       func() time.Time
}

// NewRecorder creates a recorder for the given workspace root. An empty
// workspace means no workspace is open and entries carry bare file names.
func NewRecorder(workspace string, filter *ignore.Filter, store Appender, gate Gate) *Recorder {
	if filter == nil {
		filter = ignore.New(nil)
	}
	if workspace != "" {
		if abs, err := filepath.Abs(workspace); err == nil {
			workspace = abs
		}
	}
	return &Recorder{
		workspace: workspace,
		filter:    filter,
		store:     store,
		gate:      gate,
		now:       time.Now,
	}
}

// Workspace returns the workspace root the recorder resolves paths against.
func (r *Recorder) Workspace() string {
	return r.workspace
}

// HandleFileEvent records a created, modified or deleted notification.
func (r *Recorder) HandleFileEvent(action models.Action, absPath string) {
	rel, ok := r.accept(absPath)
	if !ok {
		return
	}
	r.record(models.NewLogEntry(r.now(), action, rel))
}

// HandleSave records a document save with its line and character counts.
func (r *Recorder) HandleSave(doc Document) {
	rel, ok := r.accept(doc.FileName())
	if !ok {
		return
	}
	entry := models.NewLogEntry(r.now(), models.ActionSaved, rel)
	entry.Content = models.ContentSummary(doc.LineCount(), doc.Length())
	r.record(entry)
}

// accept applies the enabled flag, workspace containment and the ignore filter.
func (r *Recorder) accept(absPath string) (string, bool) {
	if r.gate != nil && !r.gate.Enabled() {
		return "", false
	}
	rel, ok := r.RelativePath(absPath)
	if !ok {
		return "", false
	}
	if r.filter.Excluded(rel) {
		return "", false
	}
	return rel, true
}

// RelativePath maps an absolute path to its workspace-relative,
// slash-separated form. Paths outside the workspace are rejected. With no
// workspace only the base name is returned.
func (r *Recorder) RelativePath(absPath string) (string, bool) {
	if r.workspace == "" {
		base := filepath.Base(absPath)
		if base == "." || base == string(filepath.Separator) {
			return "", false
		}
		return base, true
	}

	abs, err := filepath.Abs(absPath)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(r.workspace, abs)
	if err != nil || rel == "." {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (r *Recorder) record(entry models.LogEntry) {
	if err := r.store.Append(entry); err != nil {
		log.Error().Err(err).Str("file", entry.FileName).Msg("failed to write to log")
		return
	}
	log.Debug().Str("action", string(entry.Action)).Str("file", entry.FileName).Msg("recorded activity")
}

// SavedDocument is a Document described by precomputed sizes.
type SavedDocument struct {
	Path       string `json:"path"`
	Lines      int    `json:"lines"`
	Characters int    `json:"characters"`
}

// FileName implements Document.
func (d SavedDocument) FileName() string { return d.Path }

// LineCount implements Document.
func (d SavedDocument) LineCount() int { return d.Lines }

// Length implements Document.
func (d SavedDocument) Length() int { return d.Characters }

// ReadDocument measures a file on disk. Only the counts are kept; the
// content is discarded before returning. An empty file has one line.
func ReadDocument(path string) (SavedDocument, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return SavedDocument{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return SavedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return SavedDocument{
		Path:       abs,
		Lines:      strings.Count(string(data), "\n") + 1,
		Characters: utf8.RuneCount(data),
	}, nil
}
