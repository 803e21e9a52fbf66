package search

import (
	"testing"

	"github.com/worroc/claude-yelp/internal/session"
)

func records() []*session.Record {
	return []*session.Record{
		{ID: "aaa-111", Tag: "bugfix", ProjectPath: "/home/user/devops", Preview: "fix the deploy script"},
		{ID: "bbb-222", ProjectPath: "/home/user/website", Preview: "update landing page"},
		{ID: "ccc-333", Tag: "infra", ProjectPath: "/opt/flex-host-agent", Preview: "rotate certificates"},
	}
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	recs := records()
	got := Filter("", recs)
	if len(got) != len(recs) {
		t.Fatalf("expected all records, got %d", len(got))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Fatal("empty query must preserve order and identity")
		}
	}
}

func TestFilter_MatchesAcrossFields(t *testing.T) {
	recs := records()

	byTag := Filter("BUGFIX", recs)
	if len(byTag) != 1 || byTag[0].ID != "aaa-111" {
		t.Fatalf("tag match failed: %#v", byTag)
	}

	byProject := Filter("flex-host", recs)
	if len(byProject) != 1 || byProject[0].ID != "ccc-333" {
		t.Fatalf("project match failed: %#v", byProject)
	}

	byPreview := Filter("landing", recs)
	if len(byPreview) != 1 || byPreview[0].ID != "bbb-222" {
		t.Fatalf("preview match failed: %#v", byPreview)
	}

	byID := Filter("bbb", recs)
	if len(byID) != 1 || byID[0].ID != "bbb-222" {
		t.Fatalf("id match failed: %#v", byID)
	}
}

func TestFilter_PreservesRelativeOrder(t *testing.T) {
	recs := records()
	got := Filter("user", recs)
	if len(got) != 2 || got[0].ID != "aaa-111" || got[1].ID != "bbb-222" {
		t.Fatalf("expected ordered sub-sequence, got %#v", got)
	}
}

func TestFilter_NoMatch(t *testing.T) {
	if got := Filter("zzz-nothing", records()); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestFindMatches(t *testing.T) {
	offsets := FindMatches("ab", "xxAByyabzzAB")
	want := []int{2, 6, 10}
	if len(offsets) != len(want) {
		t.Fatalf("expected %v, got %v", want, offsets)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, offsets)
		}
	}
}

func TestFindMatches_Overlapping(t *testing.T) {
	offsets := FindMatches("aa", "aaa")
	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != 1 {
		t.Fatalf("expected overlapping matches [0 1], got %v", offsets)
	}
}

func TestFindMatches_EmptyQuery(t *testing.T) {
	if got := FindMatches("", "anything"); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
}

func TestCursor_Wraparound(t *testing.T) {
	c := NewCursor([]int{5, 20, 40})
	if c.Count() != 3 {
		t.Fatalf("expected 3 matches, got %d", c.Count())
	}

	if off, ok := c.Current(); !ok || off != 5 {
		t.Fatalf("expected current=5, got %d ok=%v", off, ok)
	}
	if off, _ := c.Next(); off != 20 {
		t.Fatalf("expected 20, got %d", off)
	}
	if off, _ := c.Next(); off != 40 {
		t.Fatalf("expected 40, got %d", off)
	}
	if off, _ := c.Next(); off != 5 {
		t.Fatalf("expected wrap to 5, got %d", off)
	}
	if off, _ := c.Prev(); off != 40 {
		t.Fatalf("expected wrap back to 40, got %d", off)
	}
}

func TestCursor_Empty(t *testing.T) {
	c := NewCursor(nil)
	if _, ok := c.Current(); ok {
		t.Fatal("empty cursor must report no current match")
	}
	if _, ok := c.Next(); ok {
		t.Fatal("Next on empty cursor must report no match")
	}
	if _, ok := c.Prev(); ok {
		t.Fatal("Prev on empty cursor must report no match")
	}
}
