package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNotFound is returned for operations on a session id that is not in the
// current collection.
var ErrNotFound = errors.New("session not found")

// agentFilePrefix marks sub-agent transcripts, which are not user sessions.
const agentFilePrefix = "agent-"

const transcriptExt = ".jsonl"

const previewLimit = 100

// Launcher is the external assistant-process collaborator. CreateSession
// starts a fresh session and returns its id; RegisterTempCleanup guarantees
// the session file is removed when the controlling process exits.
type Launcher interface {
	CreateSession(tag string) (string, error)
	RegisterTempCleanup(id string)
}

// Index owns the ordered session collection and is the only writer of
// session files (deletion) and of the tag store. Discover runs on a
// background goroutine while tag/delete mutations arrive from the caller's
// loop, so the collection field is locked and swapped whole.
type Index struct {
	projectsDir string
	tags        *TagStore
	launcher    Launcher
	logger      *log.Logger

	mu      sync.RWMutex
	records []*Record
}

func NewIndex(projectsDir string, tags *TagStore, launcher Launcher, logger *log.Logger) *Index {
	if logger == nil {
		logger = log.Default()
	}
	return &Index{
		projectsDir: projectsDir,
		tags:        tags,
		launcher:    launcher,
		logger:      logger,
	}
}

// Discover rebuilds the collection from disk: one level of project
// directories, each holding transcript files. Individual file failures are
// recovered; only a missing projects root is reported (and even that yields
// an empty, usable collection).
func (ix *Index) Discover() error {
	var records []*Record
	byID := make(map[string]*Record)

	projectDirs, err := os.ReadDir(ix.projectsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ix.setRecords(nil)
			return nil
		}
		return fmt.Errorf("read projects directory: %w", err)
	}

	for _, dir := range projectDirs {
		if !dir.IsDir() {
			continue
		}
		projectPath, ambiguous := DecodeProjectDir(dir.Name())
		if ambiguous {
			ix.logger.Debug("project path decode is ambiguous",
				"dir", dir.Name(), "guess", projectPath)
		}

		dirPath := filepath.Join(ix.projectsDir, dir.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			ix.logger.Warn("skipping unreadable project directory", "dir", dirPath, "err", err)
			continue
		}

		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, transcriptExt) {
				continue
			}
			id := strings.TrimSuffix(name, transcriptExt)
			if strings.HasPrefix(id, agentFilePrefix) {
				continue
			}

			rec := ix.buildRecord(id, projectPath, ambiguous, filepath.Join(dirPath, name))
			if prev, exists := byID[id]; exists {
				keep := resolveCollision(prev, rec)
				ix.logger.Warn("duplicate session id, keeping newer file",
					"id", id, "kept", keep.FilePath)
				if keep == prev {
					continue
				}
				// Replace the previously collected record in place.
				for i, r := range records {
					if r == prev {
						records[i] = rec
						break
					}
				}
				byID[id] = rec
				continue
			}
			byID[id] = rec
			records = append(records, rec)
		}
	}

	for _, rec := range records {
		if tag, ok := ix.tags.Get(rec.ID); ok {
			rec.Tag = tag
		}
	}

	sort.Slice(records, func(i, j int) bool { return recordLess(records[i], records[j]) })
	ix.setRecords(records)
	return nil
}

func (ix *Index) setRecords(records []*Record) {
	ix.mu.Lock()
	ix.records = records
	ix.mu.Unlock()
}

func (ix *Index) buildRecord(id, projectPath string, ambiguous bool, filePath string) *Record {
	rec := &Record{
		ID:               id,
		ProjectPath:      projectPath,
		ProjectAmbiguous: ambiguous,
		FilePath:         filePath,
	}

	f, err := os.Open(filePath)
	if err != nil {
		rec.Err = err
		ix.logger.Warn("cannot read session file", "path", filePath, "err", err)
		return rec
	}
	defer f.Close()

	if text, rawTS, ok := firstUserMessage(f); ok {
		rec.Preview = truncateRunes(text, previewLimit)
		if ts, ok := parseTimestamp(rawTS); ok {
			rec.Timestamp = ts
		}
	}
	return rec
}

// resolveCollision picks which of two records sharing an id survives: newer
// file modification time wins, ties go to the lexicographically smaller path.
func resolveCollision(a, b *Record) *Record {
	am, bm := fileModTime(a.FilePath), fileModTime(b.FilePath)
	if !am.Equal(bm) {
		if am.After(bm) {
			return a
		}
		return b
	}
	if a.FilePath <= b.FilePath {
		return a
	}
	return b
}

func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Records returns the current ordered collection. The returned slice is a
// snapshot: a later Discover publishes a new one rather than mutating it.
func (ix *Index) Records() []*Record {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.records
}

// Get finds a record by session id.
func (ix *Index) Get(id string) (*Record, bool) {
	for _, rec := range ix.Records() {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// Tag assigns (or, with an empty value, clears) a session's tag and persists
// the change immediately.
func (ix *Index) Tag(id, tag string) error {
	rec, ok := ix.Get(id)
	if !ok {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}

	tag = strings.TrimSpace(tag)
	rec.Tag = tag
	if tag == "" {
		return ix.tags.Remove(id)
	}
	return ix.tags.Set(id, tag)
}

// Delete removes the transcript file and the tag entry. The in-memory record
// goes away only after the on-disk delete succeeds, so a failed delete never
// leaves a dangling reference.
func (ix *Index) Delete(id string) error {
	rec, ok := ix.Get(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	if err := os.Remove(rec.FilePath); err != nil {
		return fmt.Errorf("delete session file: %w", err)
	}

	ix.mu.Lock()
	kept := make([]*Record, 0, len(ix.records))
	for _, r := range ix.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	ix.records = kept
	ix.mu.Unlock()

	if _, hadTag := ix.tags.Get(id); hadTag {
		if err := ix.tags.Remove(id); err != nil {
			return err
		}
	}
	return nil
}

// Create delegates session creation to the assistant process and tags the new
// id. Temporary sessions are registered for cleanup at process exit instead
// of being tagged.
func (ix *Index) Create(tag string, temporary bool) (string, error) {
	if ix.launcher == nil {
		return "", errors.New("no launcher configured")
	}

	id, err := ix.launcher.CreateSession(tag)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	if temporary {
		ix.launcher.RegisterTempCleanup(id)
		return id, nil
	}
	if err := ix.tags.Set(id, tag); err != nil {
		return id, err
	}
	return id, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
