// Package highlight wraps query matches inside already-styled terminal text
// without disturbing existing escape sequences.
package highlight

import (
	"regexp"
	"strings"
)

var csiSeq = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

type Result struct {
	Text      string
	Count     int
	LineIndex []int
}

// ApplyANSI highlights every case-insensitive occurrence of query in input by
// passing the matched text through wrap. Escape sequences are copied through
// untouched and never matched against, so a match split by a color change is
// not a match. LineIndex lists the zero-based lines holding at least one
// match, for scroll targeting.
func ApplyANSI(input, query string, wrap func(string) string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Text: input}
	}
	if wrap == nil {
		wrap = func(s string) string { return s }
	}

	var out strings.Builder
	var lineIndex []int
	total := 0

	for lineNo, line := range strings.SplitAfter(input, "\n") {
		core, nl := line, ""
		if strings.HasSuffix(line, "\n") {
			core, nl = line[:len(line)-1], "\n"
		}

		rendered, n := highlightSegments(core, query, wrap)
		out.WriteString(rendered)
		out.WriteString(nl)
		if n > 0 {
			lineIndex = append(lineIndex, lineNo)
			total += n
		}
	}

	return Result{Text: out.String(), Count: total, LineIndex: lineIndex}
}

// highlightSegments splits a line at escape sequences and highlights only the
// plain runs between them.
func highlightSegments(s, query string, wrap func(string) string) (string, int) {
	seqs := csiSeq.FindAllStringIndex(s, -1)
	if len(seqs) == 0 {
		return highlightPlain(s, query, wrap)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, seq := range seqs {
		plain, n := highlightPlain(s[pos:seq[0]], query, wrap)
		out.WriteString(plain)
		out.WriteString(s[seq[0]:seq[1]])
		total += n
		pos = seq[1]
	}
	plain, n := highlightPlain(s[pos:], query, wrap)
	out.WriteString(plain)
	return out.String(), total + n
}

func highlightPlain(s, query string, wrap func(string) string) (string, int) {
	if s == "" {
		return s, 0
	}

	// ASCII-only fold: a full Unicode case fold can change byte length
	// (U+0130 lowers to two runes), which would desynchronize the indexes
	// found in the folded copy from the original string.
	lower := lowerASCII(s)
	q := lowerASCII(query)

	var out strings.Builder
	count := 0
	pos := 0
	for {
		rel := strings.Index(lower[pos:], q)
		if rel < 0 {
			out.WriteString(s[pos:])
			break
		}
		start := pos + rel
		end := start + len(q)
		out.WriteString(s[pos:start])
		out.WriteString(wrap(s[start:end]))
		count++
		pos = end
	}
	if count == 0 {
		return s, 0
	}
	return out.String(), count
}

func lowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
