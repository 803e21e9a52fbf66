package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// TagStore persists the session-id -> tag mapping as a single flat JSON
// object, rewritten wholesale after every mutation. The file is meant to be
// human-editable; serialization is deterministic (sorted keys, two-space
// indent, trailing newline) so identical states produce identical bytes.
//
// A background discovery pass reads the store while the event loop mutates
// it, so every map access is locked.
type TagStore struct {
	path string

	mu   sync.Mutex
	tags map[string]string
}

// LoadTags reads the tag file. A missing or unreadable file yields an empty
// store; tags are a convenience, never a reason to fail startup.
func LoadTags(path string) *TagStore {
	s := &TagStore{path: path, tags: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.tags); err != nil {
		s.tags = make(map[string]string)
	}
	return s
}

func (s *TagStore) Get(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, ok := s.tags[id]
	return tag, ok
}

// All returns a copy of the mapping.
func (s *TagStore) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.tags))
	for id, tag := range s.tags {
		out[id] = tag
	}
	return out
}

// Set assigns a tag and flushes synchronously.
func (s *TagStore) Set(id, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[id] = tag
	return s.save()
}

// Remove deletes a tag entry and flushes synchronously. Removing an absent
// id still rewrites the file; the result is identical bytes.
func (s *TagStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags, id)
	return s.save()
}

// save is called with s.mu held.
func (s *TagStore) save() error {
	data, err := json.MarshalIndent(s.tags, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write tags file: %w", err)
	}
	return nil
}
