// Package search implements the fuzzy session filter and the in-thread
// literal search used by the viewer.
package search

import (
	"strings"

	"github.com/worroc/claude-yelp/internal/session"
)

// Filter returns the records whose id, tag, project, or preview contains
// query (case-insensitive), in their original order. An empty query matches
// everything and returns the input unchanged. Filtering never mutates the
// collection; it is a pure projection.
func Filter(query string, records []*session.Record) []*session.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}

	var out []*session.Record
	for _, rec := range records {
		if strings.Contains(searchText(rec), query) {
			out = append(out, rec)
		}
	}
	return out
}

func searchText(rec *session.Record) string {
	return strings.ToLower(strings.Join([]string{
		rec.ID,
		rec.Tag,
		rec.ProjectPath,
		rec.ProjectName(),
		rec.Preview,
	}, " "))
}

// FindMatches returns the byte offsets of every occurrence of query in text,
// case-insensitive. Overlapping occurrences are all reported.
func FindMatches(query, text string) []int {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	var offsets []int
	for pos := 0; ; {
		i := strings.Index(lowered[pos:], query)
		if i < 0 {
			break
		}
		offsets = append(offsets, pos+i)
		pos += i + 1
	}
	return offsets
}

// Cursor walks a fixed list of match offsets with circular wraparound.
type Cursor struct {
	offsets []int
	pos     int
}

func NewCursor(offsets []int) *Cursor {
	return &Cursor{offsets: offsets}
}

func (c *Cursor) Count() int { return len(c.offsets) }

// Index is the zero-based position of the current match.
func (c *Cursor) Index() int { return c.pos }

// Current returns the offset of the current match, ok=false when there are
// no matches.
func (c *Cursor) Current() (int, bool) {
	if len(c.offsets) == 0 {
		return 0, false
	}
	return c.offsets[c.pos], true
}

// Next advances to the following match, wrapping from the last to the first.
func (c *Cursor) Next() (int, bool) {
	if len(c.offsets) == 0 {
		return 0, false
	}
	c.pos = (c.pos + 1) % len(c.offsets)
	return c.offsets[c.pos], true
}

// Prev steps back to the preceding match, wrapping from the first to the last.
func (c *Cursor) Prev() (int, bool) {
	if len(c.offsets) == 0 {
		return 0, false
	}
	c.pos = (c.pos - 1 + len(c.offsets)) % len(c.offsets)
	return c.offsets[c.pos], true
}
