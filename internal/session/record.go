package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Record is one discovered session transcript plus its lazily parsed content.
type Record struct {
	ID          string
	ProjectPath string
	// ProjectAmbiguous marks records whose project directory name could not
	// be decoded with filesystem confirmation (the encoding is lossy).
	ProjectAmbiguous bool
	FilePath         string
	Timestamp        time.Time
	Tag              string
	Preview          string
	// Err records a discovery-time read failure. The record is still listed
	// so the user can inspect or delete it.
	Err error

	// mu guards the lazy cache; overlapping renders of the same session may
	// ask for the transcript from separate goroutines.
	mu       sync.Mutex
	parsed   bool
	messages []Message
}

// Messages returns the parsed transcript, reading the file on first access
// and caching the result until InvalidateMessages is called.
func (r *Record) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.parsed {
		return r.messages
	}

	f, err := os.Open(r.FilePath)
	if err != nil {
		r.messages = []Message{{
			Role: RoleError,
			Text: fmt.Sprintf("Error loading messages: %v", err),
		}}
		r.parsed = true
		return r.messages
	}
	defer f.Close()

	r.messages = ParseTranscript(f)
	r.parsed = true
	return r.messages
}

// InvalidateMessages drops the cached transcript so the next Messages call
// re-reads the file.
func (r *Record) InvalidateMessages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsed = false
	r.messages = nil
}

// ProjectName is the last path element of the project, or "unknown".
func (r *Record) ProjectName() string {
	if r.ProjectPath == "" {
		return "unknown"
	}
	return filepath.Base(r.ProjectPath)
}

// DisplayName is the short id plus the tag, e.g. "[4256a303] bugfix".
func (r *Record) DisplayName() string {
	short := r.ID
	if len(short) > 8 {
		short = short[:8]
	}
	if r.Tag != "" {
		return fmt.Sprintf("[%s] %s", short, r.Tag)
	}
	return fmt.Sprintf("[%s]", short)
}

// DateString formats the session timestamp for list display.
func (r *Record) DateString() string {
	if r.Timestamp.IsZero() {
		return "unknown"
	}
	return r.Timestamp.Format("2006-01-02 15:04")
}

// parseTimestamp normalizes the two timestamp shapes transcripts carry: an
// ISO-8601 string ("2025-11-25T12:36:37.257Z") or integer epoch milliseconds.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if ms, err := strconv.ParseInt(n.String(), 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms), true
		}
		if f, err := n.Float64(); err == nil && f > 0 {
			return time.UnixMilli(int64(f)), true
		}
	}
	return time.Time{}, false
}

// recordLess orders records newest first, ties broken by id ascending.
// Records without a timestamp sort last.
func recordLess(a, b *Record) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID < b.ID
}
