package highlight

import (
	"strings"
	"testing"
)

func TestApplyANSI_CaseInsensitive(t *testing.T) {
	in := "Deploy done\nsecond deploy\n"
	res := ApplyANSI(in, "deploy", func(s string) string { return "[[" + s + "]]" })

	if res.Count != 2 {
		t.Fatalf("expected 2 matches, got %d", res.Count)
	}
	if len(res.LineIndex) != 2 || res.LineIndex[0] != 0 || res.LineIndex[1] != 1 {
		t.Fatalf("unexpected line indexes: %#v", res.LineIndex)
	}
	if !strings.Contains(res.Text, "[[Deploy]]") || !strings.Contains(res.Text, "[[deploy]]") {
		t.Fatalf("highlight wrapper not applied: %q", res.Text)
	}
}

func TestApplyANSI_EmptyQueryPassthrough(t *testing.T) {
	in := "styled \x1b[1mtext\x1b[0m"
	res := ApplyANSI(in, "  ", nil)
	if res.Text != in || res.Count != 0 {
		t.Fatalf("empty query must pass input through, got %#v", res)
	}
}

func TestApplyANSI_PreservesEscapeSequences(t *testing.T) {
	in := "a \x1b[31mdeploy\x1b[0m b"
	res := ApplyANSI(in, "deploy", func(s string) string { return "<" + s + ">" })

	if res.Count != 1 {
		t.Fatalf("expected 1 match, got %d", res.Count)
	}
	if !strings.Contains(res.Text, "\x1b[31m<deploy>\x1b[0m") {
		t.Fatalf("expected escape sequences intact around match, got %q", res.Text)
	}
}

func TestApplyANSI_NoMatchAcrossEscapeBoundary(t *testing.T) {
	in := "dep\x1b[31mlo\x1b[0my"
	res := ApplyANSI(in, "deploy", func(s string) string { return "<" + s + ">" })
	if res.Count != 0 {
		t.Fatalf("expected no matches across escape boundaries, got %d", res.Count)
	}
	if strings.Contains(res.Text, "<") {
		t.Fatalf("no wrapper expected, got %q", res.Text)
	}
}

func TestApplyANSI_MultibyteBeforeMatch(t *testing.T) {
	// U+0130 lowers to a two-rune sequence; a naive fold would shift the
	// match offsets and slice mid-word.
	res := ApplyANSI("İstanbul Deploy done", "DEPLOY", func(s string) string { return "<" + s + ">" })
	if res.Count != 1 {
		t.Fatalf("expected 1 match, got %d", res.Count)
	}
	if res.Text != "İstanbul <Deploy> done" {
		t.Fatalf("match sliced at the wrong bytes: %q", res.Text)
	}
}

func TestApplyANSI_MultipleMatchesPerLine(t *testing.T) {
	res := ApplyANSI("go go go", "go", func(s string) string { return "*" + s + "*" })
	if res.Count != 3 {
		t.Fatalf("expected 3 matches, got %d", res.Count)
	}
	if len(res.LineIndex) != 1 || res.LineIndex[0] != 0 {
		t.Fatalf("expected one matching line, got %#v", res.LineIndex)
	}
	if res.Text != "*go* *go* *go*" {
		t.Fatalf("unexpected rendering: %q", res.Text)
	}
}
