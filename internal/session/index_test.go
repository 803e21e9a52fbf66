package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeSession(t *testing.T, projectsDir, project, id, text string, ts time.Time) string {
	t.Helper()
	dir := filepath.Join(projectsDir, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	line := fmt.Sprintf(
		`{"type":"user","message":{"role":"user","content":%q},"timestamp":%q}`+"\n",
		text, ts.UTC().Format(time.RFC3339Nano),
	)
	path := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestIndex(t *testing.T, projectsDir string) *Index {
	t.Helper()
	tags := LoadTags(filepath.Join(t.TempDir(), "tags.json"))
	return NewIndex(projectsDir, tags, nil, testLogger())
}

func TestDiscover_OrderAndSkips(t *testing.T) {
	projectsDir := t.TempDir()
	base := time.Date(2025, 11, 25, 12, 0, 0, 0, time.UTC)
	writeSession(t, projectsDir, "-home-user-alpha", "older", "first question", base)
	writeSession(t, projectsDir, "-home-user-alpha", "newer", "second question", base.Add(time.Hour))
	writeSession(t, projectsDir, "-home-user-alpha", "agent-sub", "sub agent", base.Add(2*time.Hour))

	ix := newTestIndex(t, projectsDir)
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}

	recs := ix.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records (agent- files skipped), got %d", len(recs))
	}
	if recs[0].ID != "newer" || recs[1].ID != "older" {
		t.Fatalf("expected newest first, got %s, %s", recs[0].ID, recs[1].ID)
	}
	if recs[1].Preview != "first question" {
		t.Fatalf("unexpected preview: %q", recs[1].Preview)
	}
}

func TestDiscover_PreviewTruncated(t *testing.T) {
	projectsDir := t.TempDir()
	long := ""
	for i := 0; i < 30; i++ {
		long += "0123456789"
	}
	writeSession(t, projectsDir, "-p", "s1", long, time.Now())

	ix := newTestIndex(t, projectsDir)
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}
	rec, ok := ix.Get("s1")
	if !ok {
		t.Fatal("record not found")
	}
	if len(rec.Preview) != 100 {
		t.Fatalf("expected preview truncated to 100 chars, got %d", len(rec.Preview))
	}
}

func TestDiscover_MissingRootYieldsEmpty(t *testing.T) {
	ix := newTestIndex(t, filepath.Join(t.TempDir(), "does-not-exist"))
	if err := ix.Discover(); err != nil {
		t.Fatalf("missing root must not fail: %v", err)
	}
	if len(ix.Records()) != 0 {
		t.Fatal("expected empty collection")
	}
}

func TestDiscover_CollisionKeepsNewerFile(t *testing.T) {
	projectsDir := t.TempDir()
	base := time.Date(2025, 11, 25, 12, 0, 0, 0, time.UTC)
	oldPath := writeSession(t, projectsDir, "-proj-a", "dup", "from project a", base)
	newPath := writeSession(t, projectsDir, "-proj-b", "dup", "from project b", base)

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}
	recent := time.Now()
	if err := os.Chtimes(newPath, recent, recent); err != nil {
		t.Fatal(err)
	}

	ix := newTestIndex(t, projectsDir)
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}

	var hits []*Record
	for _, rec := range ix.Records() {
		if rec.ID == "dup" {
			hits = append(hits, rec)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("expected collision resolved to 1 record, got %d", len(hits))
	}
	if hits[0].FilePath != newPath {
		t.Fatalf("expected newer file kept, got %s", hits[0].FilePath)
	}
}

func TestDiscover_MergesTags(t *testing.T) {
	projectsDir := t.TempDir()
	writeSession(t, projectsDir, "-p", "tagged", "hello", time.Now())

	tags := LoadTags(filepath.Join(t.TempDir(), "tags.json"))
	if err := tags.Set("tagged", "bugfix"); err != nil {
		t.Fatal(err)
	}
	ix := NewIndex(projectsDir, tags, nil, testLogger())
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}

	rec, ok := ix.Get("tagged")
	if !ok || rec.Tag != "bugfix" {
		t.Fatalf("expected tag merged, got %#v", rec)
	}
}

func TestDiscover_ConcurrentWithTagMutation(t *testing.T) {
	projectsDir := t.TempDir()
	writeSession(t, projectsDir, "-p", "s1", "hello", time.Now())

	ix := newTestIndex(t, projectsDir)
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}

	// A refresh scan runs on a background goroutine while tagging and reads
	// happen on the event loop; both sides touch the tag store and the
	// collection.
	done := make(chan error, 1)
	go func() {
		for i := 0; i < 50; i++ {
			if err := ix.Discover(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	for i := 0; i < 50; i++ {
		if err := ix.Tag("s1", fmt.Sprintf("pass-%d", i)); err != nil {
			t.Fatal(err)
		}
		for _, rec := range ix.Records() {
			_ = rec.ID
		}
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}
	rec, ok := ix.Get("s1")
	if !ok || rec.Tag != "pass-49" {
		t.Fatalf("expected last tag merged after rescan, got %#v", rec)
	}
}

func TestTag_NotFound(t *testing.T) {
	ix := newTestIndex(t, t.TempDir())
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}
	if err := ix.Tag("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTag_SetAndClear(t *testing.T) {
	projectsDir := t.TempDir()
	writeSession(t, projectsDir, "-p", "s1", "hello", time.Now())

	tagsPath := filepath.Join(t.TempDir(), "tags.json")
	tags := LoadTags(tagsPath)
	ix := NewIndex(projectsDir, tags, nil, testLogger())
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}

	if err := ix.Tag("s1", "  bugfix  "); err != nil {
		t.Fatal(err)
	}
	rec, _ := ix.Get("s1")
	if rec.Tag != "bugfix" {
		t.Fatalf("expected trimmed tag, got %q", rec.Tag)
	}
	if tag, ok := LoadTags(tagsPath).Get("s1"); !ok || tag != "bugfix" {
		t.Fatalf("expected tag persisted, got %q ok=%v", tag, ok)
	}

	if err := ix.Tag("s1", ""); err != nil {
		t.Fatal(err)
	}
	if rec.Tag != "" {
		t.Fatalf("expected tag cleared, got %q", rec.Tag)
	}
	if _, ok := LoadTags(tagsPath).Get("s1"); ok {
		t.Fatal("expected tag entry removed from the store")
	}
}

func TestDelete_RemovesFileTagAndRecord(t *testing.T) {
	projectsDir := t.TempDir()
	path := writeSession(t, projectsDir, "-p", "s1", "hello", time.Now())

	tags := LoadTags(filepath.Join(t.TempDir(), "tags.json"))
	ix := NewIndex(projectsDir, tags, nil, testLogger())
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}
	if err := ix.Tag("s1", "doomed"); err != nil {
		t.Fatal(err)
	}

	if err := ix.Delete("s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected transcript file removed")
	}
	if _, ok := tags.Get("s1"); ok {
		t.Fatal("expected tag entry removed")
	}
	if err := ix.Tag("s1", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	ix := newTestIndex(t, t.TempDir())
	if err := ix.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_IOFailureKeepsRecord(t *testing.T) {
	projectsDir := t.TempDir()
	writeSession(t, projectsDir, "-p", "s1", "hello", time.Now())

	ix := newTestIndex(t, projectsDir)
	if err := ix.Discover(); err != nil {
		t.Fatal(err)
	}

	// Point the record at a directory so os.Remove fails, then verify the
	// in-memory record survives the failed delete.
	rec, _ := ix.Get("s1")
	rec.FilePath = filepath.Join(projectsDir, "-p")
	if err := ix.Delete("s1"); err == nil {
		t.Fatal("expected delete to fail")
	}
	if _, ok := ix.Get("s1"); !ok {
		t.Fatal("failed delete must not drop the record")
	}
}

type fakeLauncher struct {
	id      string
	err     error
	created []string
	temps   []string
}

func (f *fakeLauncher) CreateSession(tag string) (string, error) {
	f.created = append(f.created, tag)
	return f.id, f.err
}

func (f *fakeLauncher) RegisterTempCleanup(id string) {
	f.temps = append(f.temps, id)
}

func TestCreate_TagsNewSession(t *testing.T) {
	tagsPath := filepath.Join(t.TempDir(), "tags.json")
	tags := LoadTags(tagsPath)
	fl := &fakeLauncher{id: "new-session-id"}
	ix := NewIndex(t.TempDir(), tags, fl, testLogger())

	id, err := ix.Create("experiment", false)
	if err != nil {
		t.Fatal(err)
	}
	if id != "new-session-id" {
		t.Fatalf("unexpected id: %q", id)
	}
	if tag, ok := tags.Get(id); !ok || tag != "experiment" {
		t.Fatalf("expected new session tagged, got %q ok=%v", tag, ok)
	}
	if len(fl.temps) != 0 {
		t.Fatal("non-temporary session must not register cleanup")
	}
}

func TestCreate_TemporaryRegistersCleanup(t *testing.T) {
	tags := LoadTags(filepath.Join(t.TempDir(), "tags.json"))
	fl := &fakeLauncher{id: "temp-id"}
	ix := NewIndex(t.TempDir(), tags, fl, testLogger())

	id, err := ix.Create("scratch", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(fl.temps) != 1 || fl.temps[0] != id {
		t.Fatalf("expected cleanup registered for %q, got %#v", id, fl.temps)
	}
	if _, ok := tags.Get(id); ok {
		t.Fatal("temporary session must not be tagged")
	}
}
